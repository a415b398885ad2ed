/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package did

import (
	"encoding/json"
	"fmt"
	"strings"
)

const schemeDID = "did"

// DID is a parsed decentralized identifier.
type DID struct {
	// Scheme is the URI scheme, always "did". An empty Scheme is treated as "did"
	// so that struct literals need not set it.
	Scheme string

	// Method is the DID method name, a token of lowercase ASCII letters.
	Method string

	// MethodSpecificID holds the method-specific id in percent-decoded form.
	// It may contain arbitrary octets, including sequences that are not valid
	// UTF-8; String applies percent-encoding as needed. A literal ':' is a
	// legal character of the decoded form.
	MethodSpecificID string
}

// Parse parses an absolute DID string. The method-specific id is
// percent-decoded during parsing; malformed percent-encoding (a non-hex digit
// or a truncated triplet) is rejected rather than passed through.
func Parse(did string) (*DID, error) {
	const prefix = schemeDID + ":"

	if !strings.HasPrefix(did, prefix) {
		return nil, &SyntaxError{Msg: "must start with the did scheme", Offset: 0}
	}

	rest := did[len(prefix):]

	sep := strings.IndexByte(rest, ':')
	if sep < 0 {
		return nil, &SyntaxError{Msg: "missing method-specific-id", Offset: len(did)}
	}

	method := rest[:sep]
	if err := validateMethod(method, len(prefix)); err != nil {
		return nil, err
	}

	rawID := rest[sep+1:]
	if rawID == "" {
		return nil, &SyntaxError{Msg: "empty method-specific-id", Offset: len(did)}
	}

	msid, err := percentDecode(rawID, len(prefix)+sep+1, isMethodIDChar)
	if err != nil {
		return nil, err
	}

	return &DID{Scheme: schemeDID, Method: method, MethodSpecificID: msid}, nil
}

// NewDID builds a DID from its raw parts, applying the same character-class
// checks as Parse. The method-specific id is taken in decoded form.
func NewDID(method, methodSpecificID string) (*DID, error) {
	d := &DID{Scheme: schemeDID, Method: method, MethodSpecificID: methodSpecificID}
	if err := d.Validate(); err != nil {
		return nil, err
	}

	return d, nil
}

// Validate checks a DID assembled without Parse against the grammar. The
// method-specific id is not restricted: any octet is expressible through
// percent-encoding.
func (d *DID) Validate() error {
	if d.Scheme != "" && d.Scheme != schemeDID {
		return &SyntaxError{Msg: fmt.Sprintf("invalid scheme %q", d.Scheme), Offset: -1}
	}

	if err := validateMethod(d.Method, -1); err != nil {
		return err
	}

	if d.MethodSpecificID == "" {
		return &SyntaxError{Msg: "empty method-specific-id", Offset: -1}
	}

	return nil
}

// String returns the canonical form of the DID. Octets outside the
// conservative output set are percent-encoded with uppercase hex digits.
func (d *DID) String() string {
	scheme := d.Scheme
	if scheme == "" {
		scheme = schemeDID
	}

	return scheme + ":" + d.Method + ":" + percentEncode(d.MethodSpecificID, true)
}

// URL lifts the DID into a DID URL with no path, query or fragment.
func (d DID) URL() *DIDURL {
	return &DIDURL{DID: d}
}

func validateMethod(method string, base int) error {
	if method == "" {
		return &SyntaxError{Msg: "empty method name", Offset: base}
	}

	for i := 0; i < len(method); i++ {
		if c := method[i]; c < 'a' || c > 'z' {
			off := -1
			if base >= 0 {
				off = base + i
			}

			return &SyntaxError{Msg: fmt.Sprintf("invalid character %q in method name", c), Offset: off}
		}
	}

	return nil
}

// isIDChar reports membership in idchar: ALPHA / DIGIT / "." / "-" / "_".
// This is also the conservative output set kept literal by percentEncode.
func isIDChar(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' ||
		c == '.' || c == '-' || c == '_'
}

// isMethodIDChar reports the bytes legal in a method-specific-id: idchar plus
// the ':' segment separator.
func isMethodIDChar(c byte) bool {
	return isIDChar(c) || c == ':'
}

// isPathChar reports the bytes legal in a path segment. Acceptance follows
// RFC 3986 pchar; output stays conservative regardless.
func isPathChar(c byte) bool {
	return isMethodIDChar(c) || c == '~' || c == '@' || isSubDelim(c)
}

// isQueryChar reports the bytes legal in query and fragment parts: pchar plus
// "/" and "?".
func isQueryChar(c byte) bool {
	return isPathChar(c) || c == '/' || c == '?'
}

func isSubDelim(c byte) bool {
	switch c {
	case '!', '$', '&', '\'', '(', ')', '*', '+', ',', ';', '=':
		return true
	}

	return false
}

const upperhex = "0123456789ABCDEF"

// percentEncode replaces every byte outside [0-9A-Za-z._-] with an uppercase
// %XX triplet. keepColon additionally passes ':' through, as required for the
// method-specific-id.
func percentEncode(s string, keepColon bool) string {
	var b strings.Builder

	for i := 0; i < len(s); i++ {
		c := s[i]
		if isIDChar(c) || (keepColon && c == ':') {
			b.WriteByte(c)
		} else {
			b.WriteByte('%')
			b.WriteByte(upperhex[c>>4])
			b.WriteByte(upperhex[c&0xF])
		}
	}

	return b.String()
}

// percentDecode decodes percent-encoded triplets and passes through bytes
// admitted by allowed. Offsets in errors are absolute positions in the
// original input, computed from base.
func percentDecode(s string, base int, allowed func(byte) bool) (string, error) {
	var b strings.Builder

	for i := 0; i < len(s); i++ {
		c := s[i]

		switch {
		case c == '%':
			if i+2 >= len(s) {
				return "", &SyntaxError{Msg: "incomplete percent-encoding", Offset: base + i}
			}

			hi, ok1 := unhex(s[i+1])
			lo, ok2 := unhex(s[i+2])

			if !ok1 || !ok2 {
				return "", &SyntaxError{Msg: "invalid percent-encoding", Offset: base + i}
			}

			b.WriteByte(hi<<4 | lo)
			i += 2
		case allowed(c):
			b.WriteByte(c)
		default:
			return "", &SyntaxError{Msg: fmt.Sprintf("invalid character %q", c), Offset: base + i}
		}
	}

	return b.String(), nil
}

func unhex(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	}

	return 0, false
}

func (d *DID) isZero() bool {
	return d.Method == "" && d.MethodSpecificID == ""
}

// MarshalJSON marshals the DID as its canonical JSON string.
func (d DID) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON parses a JSON string with Parse.
func (d *DID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("DID must be a JSON string: %w", err)
	}

	parsed, err := Parse(s)
	if err != nil {
		return err
	}

	*d = *parsed

	return nil
}
