/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package did

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Param is one decoded query pair of a DID URL.
type Param struct {
	Name  string
	Value string
}

// DIDURL addresses a resource within or relative to a DID document. All
// components are stored percent-decoded; String re-applies canonical encoding.
type DIDURL struct {
	// DID is the identifier part. A relative DID URL leaves it zero.
	DID

	// PathSegments are the decoded path segments. nil means the URL has no
	// path component; a single empty segment is the path of "did:ex:1/".
	PathSegments []string

	// Queries are the decoded query pairs in document order. Duplicate names
	// are preserved as repeated pairs. nil means no query component.
	Queries []Param

	// Fragment is the decoded fragment without the leading '#'. An empty
	// fragment is treated as absent.
	Fragment string
}

// ParseURL parses an absolute DID URL. A bare DID is accepted and yields a
// value with no path, query or fragment. A dangling '?' or '#' with nothing
// after it parses and normalizes to an absent component.
func ParseURL(didURL string) (*DIDURL, error) {
	end := strings.IndexAny(didURL, "/?#")
	if end < 0 {
		d, err := Parse(didURL)
		if err != nil {
			return nil, err
		}

		return &DIDURL{DID: *d}, nil
	}

	d, err := Parse(didURL[:end])
	if err != nil {
		return nil, err
	}

	u := &DIDURL{DID: *d}
	if err := u.parseComponents(didURL[end:], end); err != nil {
		return nil, err
	}

	return u, nil
}

// ParseRelativeURL parses a relative DID URL reference: path, query and/or
// fragment without an identifier. Inputs carrying a DID (or anything else not
// starting with '/', '?' or '#') belong to ParseURL and are rejected here.
func ParseRelativeURL(ref string) (*DIDURL, error) {
	if ref == "" {
		return nil, &SyntaxError{Msg: "empty relative did url", Offset: 0}
	}

	if c := ref[0]; c != '/' && c != '?' && c != '#' {
		return nil, &SyntaxError{Msg: "relative did url must start with '/', '?' or '#'", Offset: 0}
	}

	u := &DIDURL{}
	if err := u.parseComponents(ref, 0); err != nil {
		return nil, err
	}

	return u, nil
}

// parseComponents scans "[/path][?query][#fragment]" starting at absolute
// offset base in the original input.
func (u *DIDURL) parseComponents(rest string, base int) error {
	if i := strings.IndexByte(rest, '#'); i >= 0 {
		frag, err := percentDecode(rest[i+1:], base+i+1, isQueryChar)
		if err != nil {
			return err
		}

		u.Fragment = frag
		rest = rest[:i]
	}

	if i := strings.IndexByte(rest, '?'); i >= 0 {
		queries, err := parseQuery(rest[i+1:], base+i+1)
		if err != nil {
			return err
		}

		u.Queries = queries
		rest = rest[:i]
	}

	if rest == "" {
		return nil
	}

	segments := strings.Split(rest[1:], "/")
	u.PathSegments = make([]string, len(segments))

	off := base + 1

	for i, seg := range segments {
		decoded, err := percentDecode(seg, off, isPathChar)
		if err != nil {
			return err
		}

		u.PathSegments[i] = decoded
		off += len(seg) + 1
	}

	return nil
}

func parseQuery(raw string, base int) ([]Param, error) {
	if raw == "" {
		return nil, nil
	}

	var params []Param

	off := base

	for _, pair := range strings.Split(raw, "&") {
		if pair != "" {
			name, value := pair, ""
			if eq := strings.IndexByte(pair, '='); eq >= 0 {
				name, value = pair[:eq], pair[eq+1:]
			}

			decodedName, err := percentDecode(name, off, isQueryChar)
			if err != nil {
				return nil, err
			}

			decodedValue, err := percentDecode(value, off+len(name)+1, isQueryChar)
			if err != nil {
				return nil, err
			}

			params = append(params, Param{Name: decodedName, Value: decodedValue})
		}

		off += len(pair) + 1
	}

	return params, nil
}

// IsRelative reports whether the DID URL lacks the identifier part.
func (u *DIDURL) IsRelative() bool {
	return u.Method == ""
}

// Validate checks a DID URL assembled without ParseURL. Decoded components are
// unrestricted; the identifier part, when present, must satisfy the DID
// grammar, and a relative URL must carry at least one component.
func (u *DIDURL) Validate() error {
	if !u.IsRelative() {
		if err := u.DID.Validate(); err != nil {
			return err
		}

		return u.validateQueries()
	}

	if u.MethodSpecificID != "" || u.Scheme != "" {
		return &SyntaxError{Msg: "method-specific-id without a method name", Offset: -1}
	}

	if u.PathSegments == nil && u.Queries == nil && u.Fragment == "" {
		return &SyntaxError{Msg: "empty did url", Offset: -1}
	}

	return u.validateQueries()
}

// A fully empty query pair has no canonical rendering; everything else is
// expressible through percent-encoding.
func (u *DIDURL) validateQueries() error {
	for _, q := range u.Queries {
		if q.Name == "" && q.Value == "" {
			return &SyntaxError{Msg: "empty query parameter", Offset: -1}
		}
	}

	return nil
}

// String returns the canonical form. Query values that are empty render as a
// bare name without '='.
func (u *DIDURL) String() string {
	var b strings.Builder

	if !u.IsRelative() {
		b.WriteString(u.DID.String())
	}

	for _, seg := range u.PathSegments {
		b.WriteByte('/')
		b.WriteString(percentEncode(seg, false))
	}

	for i, q := range u.Queries {
		if i == 0 {
			b.WriteByte('?')
		} else {
			b.WriteByte('&')
		}

		b.WriteString(percentEncode(q.Name, false))

		if q.Value != "" {
			b.WriteByte('=')
			b.WriteString(percentEncode(q.Value, false))
		}
	}

	if u.Fragment != "" {
		b.WriteByte('#')
		b.WriteString(percentEncode(u.Fragment, false))
	}

	return b.String()
}

// ResolveReference resolves a relative reference against the base DID URL
// following RFC 3986 section 5 adapted to the DID URL grammar: an absolute
// reference wins outright; a reference with a path replaces path, query and
// fragment; a query-only reference keeps the base path; a fragment-only
// reference is a same-document reference keeping base path and query; an
// empty reference keeps base path and query and drops the fragment.
func (base *DIDURL) ResolveReference(rel *DIDURL) *DIDURL {
	if !rel.IsRelative() {
		return rel.clone()
	}

	out := &DIDURL{DID: base.DID}

	switch {
	case rel.PathSegments != nil:
		out.PathSegments = cloneSegments(rel.PathSegments)
		out.Queries = cloneParams(rel.Queries)
		out.Fragment = rel.Fragment
	case rel.Queries != nil:
		out.PathSegments = cloneSegments(base.PathSegments)
		out.Queries = cloneParams(rel.Queries)
		out.Fragment = rel.Fragment
	case rel.Fragment != "":
		out.PathSegments = cloneSegments(base.PathSegments)
		out.Queries = cloneParams(base.Queries)
		out.Fragment = rel.Fragment
	default:
		out.PathSegments = cloneSegments(base.PathSegments)
		out.Queries = cloneParams(base.Queries)
	}

	return out
}

// ResolveReference resolves a relative reference against a bare DID base.
func (d *DID) ResolveReference(rel *DIDURL) *DIDURL {
	base := &DIDURL{DID: *d}
	return base.ResolveReference(rel)
}

func (u *DIDURL) clone() *DIDURL {
	return &DIDURL{
		DID:          u.DID,
		PathSegments: cloneSegments(u.PathSegments),
		Queries:      cloneParams(u.Queries),
		Fragment:     u.Fragment,
	}
}

func cloneSegments(segments []string) []string {
	if segments == nil {
		return nil
	}

	return append([]string{}, segments...)
}

func cloneParams(params []Param) []Param {
	if params == nil {
		return nil
	}

	return append([]Param{}, params...)
}

// Registered DID parameter names, per the did-core parameters registry.
const (
	ParamService     = "service"
	ParamRelativeRef = "relativeRef"
	ParamVersionID   = "versionId"
	ParamVersionTime = "versionTime"
	ParamHashlink    = "hl"
)

const versionTimeSecondsLayout = "2006-01-02T15:04:05"

// Params are the typed DID parameters of a DID URL.
type Params struct {
	Service     string
	RelativeRef string
	VersionID   string
	VersionTime time.Time
	Hashlink    string

	// Extra keeps unrecognized pairs in document order.
	Extra []Param
}

// Params extracts the registered DID parameters from the query. Unrecognized
// names collect into Extra. The URL grammar does not type its query, so a
// malformed versionTime surfaces here rather than in ParseURL.
func (u *DIDURL) Params() (*Params, error) {
	p := &Params{}

	for _, q := range u.Queries {
		switch q.Name {
		case ParamService:
			p.Service = q.Value
		case ParamRelativeRef:
			p.RelativeRef = q.Value
		case ParamVersionID:
			p.VersionID = q.Value
		case ParamVersionTime:
			t, err := parseVersionTime(q.Value)
			if err != nil {
				return nil, err
			}

			p.VersionTime = t
		case ParamHashlink:
			p.Hashlink = q.Value
		default:
			p.Extra = append(p.Extra, q)
		}
	}

	return p, nil
}

// parseVersionTime accepts seconds-precision UTC timestamps only, with the
// literal Z designator required.
func parseVersionTime(value string) (time.Time, error) {
	trimmed, ok := strings.CutSuffix(value, "Z")
	if !ok {
		return time.Time{}, fmt.Errorf("invalid versionTime %q: the Z designator is required", value)
	}

	t, err := time.ParseInLocation(versionTimeSecondsLayout, trimmed, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid versionTime %q: %w", value, err)
	}

	return t, nil
}

// FormatVersionTime renders t as a versionTime parameter value.
func FormatVersionTime(t time.Time) string {
	return t.UTC().Format(versionTimeSecondsLayout) + "Z"
}

// parseRef parses a string that may be either an absolute DID URL or a
// relative reference.
func parseRef(ref string) (*DIDURL, error) {
	if ref == "" {
		return nil, &SyntaxError{Msg: "empty reference", Offset: 0}
	}

	if ref[0] == '/' || ref[0] == '?' || ref[0] == '#' {
		return ParseRelativeURL(ref)
	}

	return ParseURL(ref)
}

func (u *DIDURL) isZero() bool {
	return u.Method == "" && u.MethodSpecificID == "" &&
		u.PathSegments == nil && u.Queries == nil && u.Fragment == ""
}

// MarshalJSON marshals the DID URL as its canonical JSON string.
func (u DIDURL) MarshalJSON() ([]byte, error) {
	return json.Marshal(u.String())
}

// UnmarshalJSON parses a JSON string, accepting absolute DID URLs and
// relative references alike.
func (u *DIDURL) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("DID URL must be a JSON string: %w", err)
	}

	parsed, err := parseRef(s)
	if err != nil {
		return err
	}

	*u = *parsed

	return nil
}
