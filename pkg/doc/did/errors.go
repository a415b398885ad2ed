/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package did

import "fmt"

// SyntaxError reports an ill-formed DID or DID URL. Parsing never returns a
// partial identifier alongside one.
type SyntaxError struct {
	Msg string

	// Offset is the byte position in the input where scanning failed, or -1
	// when the error is not positional (constructor validation).
	Offset int
}

func (e *SyntaxError) Error() string {
	if e.Offset >= 0 {
		return fmt.Sprintf("invalid did: %s at offset %d", e.Msg, e.Offset)
	}

	return "invalid did: " + e.Msg
}

// ValidationError attributes one document defect to the field carrying it.
// Validate collects these instead of stopping at the first; ParseDocument
// returns the first one it hits.
type ValidationError struct {
	// Field is the dotted path of the defective element, e.g.
	// "verificationMethod[2].controller".
	Field string

	Err error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}
