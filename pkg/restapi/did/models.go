/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package did

// genericError model
//
// This is the body of every non-2xx response.
//
// swagger:response genericError
type genericError struct {
	// in: body
	Message string `json:"message"`
}

// equivalentsResponse model
//
// Registered DIDs equivalent to the requested one, in canonical form.
//
// swagger:response equivalentsResponse
type equivalentsResponse struct {
	// in: body
	Equivalents []string `json:"equivalents"`
}

// verifyControllerResponse model
//
// Outcome of a controller relationship check.
//
// swagger:response verifyControllerResponse
type verifyControllerResponse struct {
	// in: body
	Verified bool `json:"verified"`
}
