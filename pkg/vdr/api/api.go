/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package api defines the contract between the registry and pluggable
// document resolvers.
package api

import (
	"errors"

	"github.com/erikh/did-toolkit/pkg/doc/did"
)

// ErrNotFound is returned when a DID cannot be resolved to a document.
var ErrNotFound = errors.New("DID not found")

// Resolver fetches documents the registry does not hold. A resolver reporting
// absence returns an error carrying ErrNotFound; any other error is treated as
// a transport or resolution failure. Implementations own their timeouts and
// retries; the registry imposes neither.
type Resolver interface {
	Resolve(did did.DID) (*did.Doc, error)
}
