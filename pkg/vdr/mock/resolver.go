/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package mock provides test doubles for the resolver contract.
package mock

import (
	"sync"

	"github.com/erikh/did-toolkit/pkg/doc/did"
	vdrapi "github.com/erikh/did-toolkit/pkg/vdr/api"
)

// Resolver is a mock resolver. ResolveFunc takes precedence when set;
// otherwise lookups are served from Docs, and anything absent reports
// ErrNotFound.
type Resolver struct {
	ResolveFunc func(d did.DID) (*did.Doc, error)
	Docs        map[string]*did.Doc

	mu    sync.Mutex
	calls []did.DID
}

// Resolve implements the resolver contract.
func (m *Resolver) Resolve(d did.DID) (*did.Doc, error) {
	m.mu.Lock()
	m.calls = append(m.calls, d)
	m.mu.Unlock()

	if m.ResolveFunc != nil {
		return m.ResolveFunc(d)
	}

	if doc, ok := m.Docs[d.String()]; ok {
		return doc, nil
	}

	return nil, vdrapi.ErrNotFound
}

// Calls returns the identifiers resolved so far.
func (m *Resolver) Calls() []did.DID {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]did.DID{}, m.calls...)
}
