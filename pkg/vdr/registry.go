/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package vdr provides an in-memory registry of DID documents with
// alsoKnownAs equivalence, controller verification and verification-method
// resolution on top of it.
package vdr

import (
	"errors"
	"fmt"
	"sync"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/erikh/did-toolkit/pkg/common/log"
	"github.com/erikh/did-toolkit/pkg/doc/did"
	vdrapi "github.com/erikh/did-toolkit/pkg/vdr/api"
)

var logger = log.New("did-toolkit/vdr")

const defaultMaxRefHops = 5

// ErrCycle reports that verification-method reference following exceeded the
// hop limit. It carries ErrNotFound so that callers treating cycles as plain
// absence keep working.
var ErrCycle = fmt.Errorf("verification method reference cycle: %w", vdrapi.ErrNotFound)

// FetchError wraps a resolver failure observed during a lookup miss. The
// resolver's own error is surfaced verbatim through Unwrap.
type FetchError struct {
	DID did.DID
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.DID.String(), e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Registry holds documents keyed by their canonical DID string, together with
// two derived indices: the undirected alsoKnownAs claim graph and the
// controller claim index. The three structures share one mutex so that no
// reader observes a document without its index rows. Documents are treated as
// immutable once inserted; replacing one rebuilds only its own index rows.
type Registry struct {
	mu sync.RWMutex

	docs map[string]*did.Doc

	// aka holds each document's outgoing alsoKnownAs claims, akaRev the
	// reverse direction. Equivalence traversal follows both.
	aka    map[string]map[string]bool
	akaRev map[string]map[string]bool

	// controlled maps a controller DID to the subjects claiming it.
	controlled map[string]map[string]bool

	resolver      vdrapi.Resolver
	maxRefHops    int
	mutualControl bool
}

// Option configures a Registry.
type Option func(r *Registry)

// WithResolver sets the resolver consulted on lookup miss. Without one, a
// miss is final.
func WithResolver(resolver vdrapi.Resolver) Option {
	return func(r *Registry) {
		r.resolver = resolver
	}
}

// WithMaxRefHops bounds how many verification-method references are followed
// before giving up with ErrCycle.
func WithMaxRefHops(hops int) Option {
	return func(r *Registry) {
		r.maxRefHops = hops
	}
}

// WithMutualControl makes VerifyController additionally require that the
// controller document acknowledges the subject, either among its own
// controllers or its alsoKnownAs identifiers.
func WithMutualControl() Option {
	return func(r *Registry) {
		r.mutualControl = true
	}
}

// New returns an empty Registry.
func New(opts ...Option) *Registry {
	r := &Registry{
		docs:       make(map[string]*did.Doc),
		aka:        make(map[string]map[string]bool),
		akaRev:     make(map[string]map[string]bool),
		controlled: make(map[string]map[string]bool),
		maxRefHops: defaultMaxRefHops,
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Insert adds the document under its id, replacing any prior version and
// rebuilding that id's index rows. The id must satisfy the DID grammar;
// beyond that the document is taken as is, including documents that Validate
// would flag.
func (r *Registry) Insert(doc *did.Doc) error {
	if err := doc.ID.Validate(); err != nil {
		return fmt.Errorf("insert: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.insertLocked(doc)

	return nil
}

func (r *Registry) insertLocked(doc *did.Doc) {
	key := doc.ID.String()

	if prior, ok := r.docs[key]; ok {
		r.removeEdgesLocked(key, prior)
	}

	r.docs[key] = doc
	r.addEdgesLocked(key, doc)
}

func (r *Registry) addEdgesLocked(key string, doc *did.Doc) {
	for i := range doc.AlsoKnownAs {
		aka := &doc.AlsoKnownAs[i]
		if aka.IsRelative() {
			continue
		}

		peer := aka.DID.String()
		if peer == key {
			continue
		}

		addEdge(r.aka, key, peer)
		addEdge(r.akaRev, peer, key)
	}

	for i := range doc.Controller {
		addEdge(r.controlled, doc.Controller[i].String(), key)
	}
}

func (r *Registry) removeEdgesLocked(key string, doc *did.Doc) {
	for i := range doc.AlsoKnownAs {
		aka := &doc.AlsoKnownAs[i]
		if aka.IsRelative() {
			continue
		}

		peer := aka.DID.String()
		if peer == key {
			continue
		}

		removeEdge(r.aka, key, peer)
		removeEdge(r.akaRev, peer, key)
	}

	for i := range doc.Controller {
		removeEdge(r.controlled, doc.Controller[i].String(), key)
	}
}

func addEdge(index map[string]map[string]bool, from, to string) {
	if index[from] == nil {
		index[from] = make(map[string]bool)
	}

	index[from][to] = true
}

func removeEdge(index map[string]map[string]bool, from, to string) {
	delete(index[from], to)

	if len(index[from]) == 0 {
		delete(index, from)
	}
}

// Lookup returns the document registered for d. On a miss it consults the
// resolver, if one is configured, and registers the fetched document. The
// resolver call runs without the registry lock; when concurrent callers race
// on the same DID the last insert wins. A miss with no resolver, or a
// resolver reporting absence, yields an error carrying ErrNotFound; any other
// resolver failure is wrapped in FetchError.
func (r *Registry) Lookup(d did.DID) (*did.Doc, error) {
	if err := d.Validate(); err != nil {
		return nil, fmt.Errorf("lookup: %w", err)
	}

	key := d.String()

	r.mu.RLock()
	doc, ok := r.docs[key]
	r.mu.RUnlock()

	if ok {
		return doc, nil
	}

	if r.resolver == nil {
		return nil, fmt.Errorf("lookup %s: %w", key, vdrapi.ErrNotFound)
	}

	logger.Debugf("%s not registered, invoking resolver", key)

	fetched, err := r.resolver.Resolve(d)
	if err != nil {
		if errors.Is(err, vdrapi.ErrNotFound) {
			return nil, fmt.Errorf("lookup %s: %w", key, err)
		}

		return nil, &FetchError{DID: d, Err: err}
	}

	if fetched == nil || fetched.ID.String() != key {
		return nil, &FetchError{DID: d, Err: fmt.Errorf("resolver returned a document for a different id")}
	}

	r.mu.Lock()
	r.insertLocked(fetched)
	r.mu.Unlock()

	return fetched, nil
}

// Len returns the number of registered documents.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.docs)
}

// DIDs lists the registered identifiers in canonical order.
func (r *Registry) DIDs() []did.DID {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.collectLocked(maps.Keys(r.docs))
}

// DIDsControlledBy lists the registered documents claiming controller among
// their controllers, in canonical order.
func (r *Registry) DIDsControlledBy(controller did.DID) []did.DID {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.collectLocked(maps.Keys(r.controlled[controller.String()]))
}

// collectLocked maps canonical keys to their registered typed ids, dropping
// keys with no document.
func (r *Registry) collectLocked(keys []string) []did.DID {
	slices.Sort(keys)

	out := make([]did.DID, 0, len(keys))

	for _, key := range keys {
		if doc, ok := r.docs[key]; ok {
			out = append(out, doc.ID)
		}
	}

	return out
}

// ResolveEquivalents returns the other registered identifiers connected to d
// through alsoKnownAs claims, following claims in either direction
// transitively. Unregistered identifiers may link components together but
// never appear in the result, and no fetches are triggered.
func (r *Registry) ResolveEquivalents(d did.DID) []did.DID {
	start := d.String()

	r.mu.RLock()
	defer r.mu.RUnlock()

	visited := map[string]bool{start: true}
	queue := []string{start}

	var members []string

	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]

		if node != start {
			if _, ok := r.docs[node]; ok {
				members = append(members, node)
			}
		}

		for _, neighbors := range []map[string]bool{r.aka[node], r.akaRev[node]} {
			for peer := range neighbors {
				if !visited[peer] {
					visited[peer] = true
					queue = append(queue, peer)
				}
			}
		}
	}

	return r.collectLocked(members)
}

// VerifyController reports whether subject's document claims controller as a
// controller. Both documents must be resolvable: an unresolvable subject, or
// an unresolvable controller behind an existing claim, yields an error
// (carrying ErrNotFound when the cause is absence) rather than a silent
// false. A resolvable subject without the claim is a clean false. In mutual
// mode the controller document must also acknowledge the subject.
func (r *Registry) VerifyController(subject, controller did.DID) (bool, error) {
	subjectDoc, err := r.Lookup(subject)
	if err != nil {
		return false, err
	}

	claimKey := controller.String()

	claimed := false

	for i := range subjectDoc.Controller {
		if subjectDoc.Controller[i].String() == claimKey {
			claimed = true
			break
		}
	}

	if !claimed {
		return false, nil
	}

	controllerDoc, err := r.Lookup(controller)
	if err != nil {
		return false, err
	}

	if r.mutualControl && !acknowledges(controllerDoc, subject) {
		return false, nil
	}

	return true, nil
}

// acknowledges reports whether doc names subject among its controllers or its
// alsoKnownAs identifiers.
func acknowledges(doc *did.Doc, subject did.DID) bool {
	key := subject.String()

	for i := range doc.Controller {
		if doc.Controller[i].String() == key {
			return true
		}
	}

	for i := range doc.AlsoKnownAs {
		aka := &doc.AlsoKnownAs[i]
		if !aka.IsRelative() && aka.DID.String() == key {
			return true
		}
	}

	return false
}

// ResolveVerificationMethod resolves target to the verification method it
// addresses. The owning document comes through Lookup and may be fetched.
// When the document holds only a reference at the target's fragment, the
// reference is followed, across documents if needed, up to the configured hop
// limit; exceeding it fails with ErrCycle.
func (r *Registry) ResolveVerificationMethod(target *did.DIDURL) (*did.VerificationMethod, error) {
	if target.IsRelative() {
		return nil, fmt.Errorf("resolve verification method: relative reference %q has no document to search", target.String())
	}

	current := target

	for hop := 0; hop <= r.maxRefHops; hop++ {
		doc, err := r.Lookup(current.DID)
		if err != nil {
			return nil, err
		}

		vm, ref := doc.FindVerificationMethod(current)
		if vm != nil {
			return vm, nil
		}

		if ref == nil {
			return nil, fmt.Errorf("verification method %s: %w", current.String(), vdrapi.ErrNotFound)
		}

		if ref.IsRelative() {
			current = doc.ID.ResolveReference(ref)
		} else {
			current = ref
		}
	}

	return nil, fmt.Errorf("resolve verification method %s: %w", target.String(), ErrCycle)
}
