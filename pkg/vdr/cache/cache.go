/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package cache decorates a resolver with an in-memory document cache.
// Only successful resolutions are cached; absence and transport failures
// always reach the wrapped resolver.
package cache

import (
	"time"

	"github.com/bluele/gcache"

	"github.com/erikh/did-toolkit/pkg/common/log"
	"github.com/erikh/did-toolkit/pkg/doc/did"
	vdrapi "github.com/erikh/did-toolkit/pkg/vdr/api"
)

var logger = log.New("did-toolkit/vdr/cache")

// Resolver caches documents produced by another resolver.
// The underlying gcache is threadsafe, no need of locks.
type Resolver struct {
	next  vdrapi.Resolver
	store gcache.Cache
}

var _ vdrapi.Resolver = (*Resolver)(nil)

type options struct {
	size int
	ttl  time.Duration
}

// Option configures the cache.
type Option func(*options)

// WithSize bounds the cache to n documents, evicting least recently used
// entries first.
func WithSize(n int) Option {
	return func(o *options) {
		o.size = n
	}
}

// WithExpiration drops cached documents after ttl.
func WithExpiration(ttl time.Duration) Option {
	return func(o *options) {
		o.ttl = ttl
	}
}

// New wraps next with a cache. Without options the cache is unbounded and
// entries never expire.
func New(next vdrapi.Resolver, opts ...Option) *Resolver {
	o := &options{}

	for _, opt := range opts {
		opt(o)
	}

	builder := gcache.New(o.size)

	if o.size > 0 {
		builder = builder.LRU()
	}

	if o.ttl > 0 {
		builder = builder.Expiration(o.ttl)
	}

	return &Resolver{next: next, store: builder.Build()}
}

// Resolve returns the cached document for d, consulting the wrapped
// resolver on a miss.
func (r *Resolver) Resolve(d did.DID) (*did.Doc, error) {
	key := d.String()

	if cached, err := r.store.Get(key); err == nil {
		if doc, ok := cached.(*did.Doc); ok {
			return doc, nil
		}
	}

	doc, err := r.next.Resolve(d)
	if err != nil {
		return nil, err
	}

	if err := r.store.Set(key, doc); err != nil {
		logger.Warnf("caching document for %s failed: %v", key, err)
	}

	return doc, nil
}

// Invalidate removes the cached document for d, forcing the next Resolve
// to consult the wrapped resolver.
func (r *Resolver) Invalidate(d did.DID) {
	r.store.Remove(d.String())
}
