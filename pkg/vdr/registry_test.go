/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package vdr

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/erikh/did-toolkit/pkg/doc/did"
	vdrapi "github.com/erikh/did-toolkit/pkg/vdr/api"
	"github.com/erikh/did-toolkit/pkg/vdr/mock"
)

func TestRegistryInsert(t *testing.T) {
	t.Run("insert and lookup", func(t *testing.T) {
		r := New()
		doc := did.BuildDoc(mustDID(t, "did:example:a"))

		require.NoError(t, r.Insert(doc))
		require.Equal(t, 1, r.Len())

		got, err := r.Lookup(mustDID(t, "did:example:a"))
		require.NoError(t, err)
		require.Same(t, doc, got)
	})
	t.Run("replace swaps the document", func(t *testing.T) {
		r := New()
		id := mustDID(t, "did:example:a")

		require.NoError(t, r.Insert(did.BuildDoc(id)))

		second := did.BuildDoc(id, did.WithControllers(mustDID(t, "did:example:ctrl")))
		require.NoError(t, r.Insert(second))
		require.Equal(t, 1, r.Len())

		got, err := r.Lookup(id)
		require.NoError(t, err)
		require.Same(t, second, got)
	})
	t.Run("id must satisfy the grammar", func(t *testing.T) {
		r := New()
		err := r.Insert(&did.Doc{ID: did.DID{Method: "NOPE", MethodSpecificID: "1"}})
		require.Error(t, err)
		require.Equal(t, 0, r.Len())
	})
	t.Run("documents with defects are accepted", func(t *testing.T) {
		r := New()
		doc := did.BuildDoc(mustDID(t, "did:example:a"),
			did.WithControllers(did.DID{Method: "BAD", MethodSpecificID: "x"}))
		require.NotEmpty(t, doc.Validate())
		require.NoError(t, r.Insert(doc))
	})
	t.Run("listing is sorted", func(t *testing.T) {
		r := New()
		for _, s := range []string{"did:example:c", "did:example:a", "did:example:b"} {
			require.NoError(t, r.Insert(did.BuildDoc(mustDID(t, s))))
		}

		require.Equal(t,
			[]did.DID{mustDID(t, "did:example:a"), mustDID(t, "did:example:b"), mustDID(t, "did:example:c")},
			r.DIDs())
	})
}

func TestRegistryLookup(t *testing.T) {
	t.Run("miss without resolver", func(t *testing.T) {
		r := New()

		_, err := r.Lookup(mustDID(t, "did:example:missing"))
		require.Error(t, err)
		require.True(t, errors.Is(err, vdrapi.ErrNotFound))
	})
	t.Run("miss fetches and registers", func(t *testing.T) {
		id := mustDID(t, "did:example:remote")
		resolver := &mock.Resolver{Docs: map[string]*did.Doc{
			id.String(): did.BuildDoc(id),
		}}
		r := New(WithResolver(resolver))

		doc, err := r.Lookup(id)
		require.NoError(t, err)
		require.Equal(t, id, doc.ID)
		require.Equal(t, 1, r.Len())

		// second lookup is served locally
		_, err = r.Lookup(id)
		require.NoError(t, err)
		require.Len(t, resolver.Calls(), 1)
	})
	t.Run("hit never consults the resolver", func(t *testing.T) {
		id := mustDID(t, "did:example:local")
		resolver := &mock.Resolver{}
		r := New(WithResolver(resolver))

		require.NoError(t, r.Insert(did.BuildDoc(id)))

		_, err := r.Lookup(id)
		require.NoError(t, err)
		require.Empty(t, resolver.Calls())
	})
	t.Run("resolver absence maps to not found", func(t *testing.T) {
		r := New(WithResolver(&mock.Resolver{}))

		_, err := r.Lookup(mustDID(t, "did:example:missing"))
		require.Error(t, err)
		require.True(t, errors.Is(err, vdrapi.ErrNotFound))

		var fetchErr *FetchError
		require.False(t, errors.As(err, &fetchErr))
	})
	t.Run("resolver failure surfaces as FetchError", func(t *testing.T) {
		cause := errors.New("gateway timeout")
		resolver := &mock.Resolver{ResolveFunc: func(did.DID) (*did.Doc, error) {
			return nil, cause
		}}
		r := New(WithResolver(resolver))

		_, err := r.Lookup(mustDID(t, "did:example:broken"))
		require.Error(t, err)

		var fetchErr *FetchError
		require.True(t, errors.As(err, &fetchErr))
		require.True(t, errors.Is(err, cause))
		require.False(t, errors.Is(err, vdrapi.ErrNotFound))
		require.Equal(t, 0, r.Len())
	})
	t.Run("resolver answering for another id is a failure", func(t *testing.T) {
		resolver := &mock.Resolver{ResolveFunc: func(did.DID) (*did.Doc, error) {
			return did.BuildDoc(mustDID(t, "did:example:other")), nil
		}}
		r := New(WithResolver(resolver))

		_, err := r.Lookup(mustDID(t, "did:example:asked"))
		require.Error(t, err)

		var fetchErr *FetchError
		require.True(t, errors.As(err, &fetchErr))
		require.Equal(t, 0, r.Len())
	})
	t.Run("invalid identifier", func(t *testing.T) {
		r := New()

		_, err := r.Lookup(did.DID{Method: "BAD"})
		require.Error(t, err)
		require.False(t, errors.Is(err, vdrapi.ErrNotFound))
	})
}

func TestResolveEquivalents(t *testing.T) {
	t.Run("symmetry without a reciprocal claim", func(t *testing.T) {
		r := New()
		require.NoError(t, r.Insert(docWithAKA(t, "did:example:a", "did:example:b")))
		require.NoError(t, r.Insert(did.BuildDoc(mustDID(t, "did:example:b"))))

		require.Equal(t, []did.DID{mustDID(t, "did:example:b")}, r.ResolveEquivalents(mustDID(t, "did:example:a")))
		require.Equal(t, []did.DID{mustDID(t, "did:example:a")}, r.ResolveEquivalents(mustDID(t, "did:example:b")))
	})
	t.Run("transitive chains", func(t *testing.T) {
		r := New()
		require.NoError(t, r.Insert(docWithAKA(t, "did:example:a", "did:example:b")))
		require.NoError(t, r.Insert(docWithAKA(t, "did:example:b", "did:example:c")))
		require.NoError(t, r.Insert(did.BuildDoc(mustDID(t, "did:example:c"))))

		require.Equal(t,
			[]did.DID{mustDID(t, "did:example:b"), mustDID(t, "did:example:c")},
			r.ResolveEquivalents(mustDID(t, "did:example:a")))
		require.Equal(t,
			[]did.DID{mustDID(t, "did:example:a"), mustDID(t, "did:example:b")},
			r.ResolveEquivalents(mustDID(t, "did:example:c")))
	})
	t.Run("unregistered identifiers never appear", func(t *testing.T) {
		r := New()
		require.NoError(t, r.Insert(docWithAKA(t, "did:example:a", "did:example:ghost")))
		require.NoError(t, r.Insert(docWithAKA(t, "did:example:b", "did:example:ghost")))

		require.Equal(t, []did.DID{mustDID(t, "did:example:b")}, r.ResolveEquivalents(mustDID(t, "did:example:a")))
	})
	t.Run("replacement removes stale edges", func(t *testing.T) {
		r := New()
		require.NoError(t, r.Insert(docWithAKA(t, "did:example:a", "did:example:b")))
		require.NoError(t, r.Insert(did.BuildDoc(mustDID(t, "did:example:b"))))

		require.NoError(t, r.Insert(did.BuildDoc(mustDID(t, "did:example:a"))))

		require.Empty(t, r.ResolveEquivalents(mustDID(t, "did:example:a")))
		require.Empty(t, r.ResolveEquivalents(mustDID(t, "did:example:b")))
	})
	t.Run("no fetches are triggered", func(t *testing.T) {
		resolver := &mock.Resolver{}
		r := New(WithResolver(resolver))
		require.NoError(t, r.Insert(docWithAKA(t, "did:example:a", "did:example:b")))

		r.ResolveEquivalents(mustDID(t, "did:example:a"))
		require.Empty(t, resolver.Calls())
	})
	t.Run("urls with components map to their identifier", func(t *testing.T) {
		r := New()
		require.NoError(t, r.Insert(docWithAKA(t, "did:example:a", "did:example:b/profile#me")))
		require.NoError(t, r.Insert(did.BuildDoc(mustDID(t, "did:example:b"))))

		require.Equal(t, []did.DID{mustDID(t, "did:example:b")}, r.ResolveEquivalents(mustDID(t, "did:example:a")))
	})
}

func TestDIDsControlledBy(t *testing.T) {
	r := New()
	controller := mustDID(t, "did:example:ctrl")

	require.NoError(t, r.Insert(did.BuildDoc(mustDID(t, "did:example:b"), did.WithControllers(controller))))
	require.NoError(t, r.Insert(did.BuildDoc(mustDID(t, "did:example:a"), did.WithControllers(controller))))
	require.NoError(t, r.Insert(did.BuildDoc(mustDID(t, "did:example:c"))))

	require.Equal(t,
		[]did.DID{mustDID(t, "did:example:a"), mustDID(t, "did:example:b")},
		r.DIDsControlledBy(controller))

	t.Run("replacement drops the claim", func(t *testing.T) {
		require.NoError(t, r.Insert(did.BuildDoc(mustDID(t, "did:example:a"))))
		require.Equal(t, []did.DID{mustDID(t, "did:example:b")}, r.DIDsControlledBy(controller))
	})
}

func TestVerifyController(t *testing.T) {
	subject := "did:example:subject"
	controller := "did:example:controller"

	t.Run("claimed and resolvable", func(t *testing.T) {
		r := New()
		require.NoError(t, r.Insert(did.BuildDoc(mustDID(t, subject), did.WithControllers(mustDID(t, controller)))))
		require.NoError(t, r.Insert(did.BuildDoc(mustDID(t, controller))))

		ok, err := r.VerifyController(mustDID(t, subject), mustDID(t, controller))
		require.NoError(t, err)
		require.True(t, ok)
	})
	t.Run("claim absent is a clean false", func(t *testing.T) {
		r := New()
		require.NoError(t, r.Insert(did.BuildDoc(mustDID(t, subject))))

		ok, err := r.VerifyController(mustDID(t, subject), mustDID(t, controller))
		require.NoError(t, err)
		require.False(t, ok)
	})
	t.Run("unresolvable subject is an error", func(t *testing.T) {
		r := New()

		ok, err := r.VerifyController(mustDID(t, subject), mustDID(t, controller))
		require.False(t, ok)
		require.Error(t, err)
		require.True(t, errors.Is(err, vdrapi.ErrNotFound))
	})
	t.Run("claimed but unresolvable controller is an error", func(t *testing.T) {
		r := New()
		require.NoError(t, r.Insert(did.BuildDoc(mustDID(t, subject), did.WithControllers(mustDID(t, controller)))))

		ok, err := r.VerifyController(mustDID(t, subject), mustDID(t, controller))
		require.False(t, ok)
		require.Error(t, err)
		require.True(t, errors.Is(err, vdrapi.ErrNotFound))
	})
	t.Run("controller may arrive through the resolver", func(t *testing.T) {
		ctrl := mustDID(t, controller)
		resolver := &mock.Resolver{Docs: map[string]*did.Doc{
			ctrl.String(): did.BuildDoc(ctrl),
		}}
		r := New(WithResolver(resolver))
		require.NoError(t, r.Insert(did.BuildDoc(mustDID(t, subject), did.WithControllers(ctrl))))

		ok, err := r.VerifyController(mustDID(t, subject), ctrl)
		require.NoError(t, err)
		require.True(t, ok)
		require.Len(t, resolver.Calls(), 1)
		require.Equal(t, 2, r.Len())
	})
	t.Run("mutual mode requires acknowledgement", func(t *testing.T) {
		r := New(WithMutualControl())
		require.NoError(t, r.Insert(did.BuildDoc(mustDID(t, subject), did.WithControllers(mustDID(t, controller)))))
		require.NoError(t, r.Insert(did.BuildDoc(mustDID(t, controller))))

		ok, err := r.VerifyController(mustDID(t, subject), mustDID(t, controller))
		require.NoError(t, err)
		require.False(t, ok)
	})
	t.Run("mutual mode accepts a controller claim back", func(t *testing.T) {
		r := New(WithMutualControl())
		require.NoError(t, r.Insert(did.BuildDoc(mustDID(t, subject), did.WithControllers(mustDID(t, controller)))))
		require.NoError(t, r.Insert(did.BuildDoc(mustDID(t, controller), did.WithControllers(mustDID(t, subject)))))

		ok, err := r.VerifyController(mustDID(t, subject), mustDID(t, controller))
		require.NoError(t, err)
		require.True(t, ok)
	})
	t.Run("mutual mode accepts an alsoKnownAs acknowledgement", func(t *testing.T) {
		r := New(WithMutualControl())
		require.NoError(t, r.Insert(did.BuildDoc(mustDID(t, subject), did.WithControllers(mustDID(t, controller)))))
		require.NoError(t, r.Insert(docWithAKA(t, controller, subject)))

		ok, err := r.VerifyController(mustDID(t, subject), mustDID(t, controller))
		require.NoError(t, err)
		require.True(t, ok)
	})
}

func TestResolveVerificationMethod(t *testing.T) {
	t.Run("declared method requested through a relationship reference", func(t *testing.T) {
		r := New()
		require.NoError(t, r.Insert(docWithKey(t, "did:example:a", "key-1")))

		vm, err := r.ResolveVerificationMethod(mustURL(t, "did:example:a#key-1"))
		require.NoError(t, err)
		require.Equal(t, "did:example:a#key-1", vm.ID.String())
	})
	t.Run("embedded relationship method", func(t *testing.T) {
		id := mustDID(t, "did:example:a")
		doc := did.BuildDoc(id, did.WithKeyAgreements(did.NewEmbeddedVerification(&did.VerificationMethod{
			ID:         *mustURL(t, "did:example:a#enc"),
			Type:       did.TypeJSONWebKey2020,
			Controller: id,
		})))

		r := New()
		require.NoError(t, r.Insert(doc))

		vm, err := r.ResolveVerificationMethod(mustURL(t, "did:example:a#enc"))
		require.NoError(t, err)
		require.Equal(t, "did:example:a#enc", vm.ID.String())
	})
	t.Run("reference into another document", func(t *testing.T) {
		r := New()

		a := did.BuildDoc(mustDID(t, "did:example:a"),
			did.WithAuthentications(did.NewReferencedVerification(mustRef(t, "did:example:b#key-1"))))
		require.NoError(t, r.Insert(a))
		require.NoError(t, r.Insert(docWithKey(t, "did:example:b", "key-1")))

		vm, err := r.ResolveVerificationMethod(mustURL(t, "did:example:a#key-1"))
		require.NoError(t, err)
		require.Equal(t, "did:example:b#key-1", vm.ID.String())
	})
	t.Run("relative reference resolves within the document", func(t *testing.T) {
		id := mustDID(t, "did:example:a")
		doc := did.BuildDoc(id,
			did.WithVerificationMethods(did.VerificationMethod{
				ID:         *mustRef(t, "#key-1"),
				Type:       did.TypeJSONWebKey2020,
				Controller: id,
			}),
			did.WithAuthentications(did.NewReferencedVerification(mustRef(t, "#key-1"))),
		)

		r := New()
		require.NoError(t, r.Insert(doc))

		vm, err := r.ResolveVerificationMethod(mustURL(t, "did:example:a#key-1"))
		require.NoError(t, err)
		require.Equal(t, "#key-1", vm.ID.String())
	})
	t.Run("owning document may be fetched", func(t *testing.T) {
		remote := docWithKey(t, "did:example:remote", "key-1")
		resolver := &mock.Resolver{Docs: map[string]*did.Doc{"did:example:remote": remote}}
		r := New(WithResolver(resolver))

		vm, err := r.ResolveVerificationMethod(mustURL(t, "did:example:remote#key-1"))
		require.NoError(t, err)
		require.Equal(t, "did:example:remote#key-1", vm.ID.String())
		require.Len(t, resolver.Calls(), 1)
	})
	t.Run("absent fragment", func(t *testing.T) {
		r := New()
		require.NoError(t, r.Insert(docWithKey(t, "did:example:a", "key-1")))

		_, err := r.ResolveVerificationMethod(mustURL(t, "did:example:a#nope"))
		require.Error(t, err)
		require.True(t, errors.Is(err, vdrapi.ErrNotFound))
		require.False(t, errors.Is(err, ErrCycle))
	})
	t.Run("owning document absent", func(t *testing.T) {
		r := New()

		_, err := r.ResolveVerificationMethod(mustURL(t, "did:example:a#key-1"))
		require.Error(t, err)
		require.True(t, errors.Is(err, vdrapi.ErrNotFound))
	})
	t.Run("relative target", func(t *testing.T) {
		r := New()

		_, err := r.ResolveVerificationMethod(mustRef(t, "#key-1"))
		require.Error(t, err)
	})
	t.Run("mutual references terminate with ErrCycle", func(t *testing.T) {
		r := New()

		a := did.BuildDoc(mustDID(t, "did:example:a"),
			did.WithAuthentications(did.NewReferencedVerification(mustRef(t, "did:example:b#key"))))
		b := did.BuildDoc(mustDID(t, "did:example:b"),
			did.WithAuthentications(did.NewReferencedVerification(mustRef(t, "did:example:a#key"))))
		require.NoError(t, r.Insert(a))
		require.NoError(t, r.Insert(b))

		_, err := r.ResolveVerificationMethod(mustURL(t, "did:example:a#key"))
		require.Error(t, err)
		require.True(t, errors.Is(err, ErrCycle))
		require.True(t, errors.Is(err, vdrapi.ErrNotFound))
	})
	t.Run("hop limit is configurable", func(t *testing.T) {
		limited := New(WithMaxRefHops(1))
		relaxed := New(WithMaxRefHops(2))

		docs := []*did.Doc{
			did.BuildDoc(mustDID(t, "did:example:a"),
				did.WithAuthentications(did.NewReferencedVerification(mustRef(t, "did:example:b#key")))),
			did.BuildDoc(mustDID(t, "did:example:b"),
				did.WithAuthentications(did.NewReferencedVerification(mustRef(t, "did:example:c#key")))),
			docWithKey(t, "did:example:c", "key"),
		}

		for _, doc := range docs {
			require.NoError(t, limited.Insert(doc))
			require.NoError(t, relaxed.Insert(doc))
		}

		_, err := limited.ResolveVerificationMethod(mustURL(t, "did:example:a#key"))
		require.True(t, errors.Is(err, ErrCycle))

		vm, err := relaxed.ResolveVerificationMethod(mustURL(t, "did:example:a#key"))
		require.NoError(t, err)
		require.Equal(t, "did:example:c#key", vm.ID.String())
	})
}

func TestRegistryConcurrency(t *testing.T) {
	t.Run("parallel inserts and reads", func(t *testing.T) {
		r := New()

		var wg sync.WaitGroup

		for i := 0; i < 16; i++ {
			wg.Add(1)

			go func(n int) {
				defer wg.Done()

				id := mustDIDString(fmt.Sprintf("did:example:%d", n))
				peer := mustDIDString(fmt.Sprintf("did:example:%d", (n+1)%16))

				for j := 0; j < 50; j++ {
					doc := did.BuildDoc(id,
						did.WithAlsoKnownAs(*peer.URL()),
						did.WithControllers(peer))

					if err := r.Insert(doc); err != nil {
						t.Error(err)
						return
					}

					if _, err := r.Lookup(id); err != nil {
						t.Error(err)
						return
					}

					r.ResolveEquivalents(id)
					r.DIDsControlledBy(peer)
				}
			}(i)
		}

		wg.Wait()
		require.Equal(t, 16, r.Len())

		// every document is present alongside its index rows
		for i := 0; i < 16; i++ {
			id := mustDIDString(fmt.Sprintf("did:example:%d", i))
			peer := mustDIDString(fmt.Sprintf("did:example:%d", (i+1)%16))
			require.Contains(t, r.ResolveEquivalents(id), peer)
			require.Contains(t, r.DIDsControlledBy(peer), id)
		}
	})
	t.Run("racing lookups on the same miss", func(t *testing.T) {
		id := mustDIDString("did:example:slow")
		resolver := &mock.Resolver{ResolveFunc: func(d did.DID) (*did.Doc, error) {
			time.Sleep(10 * time.Millisecond)
			return did.BuildDoc(d), nil
		}}
		r := New(WithResolver(resolver))

		var wg sync.WaitGroup

		for i := 0; i < 8; i++ {
			wg.Add(1)

			go func() {
				defer wg.Done()

				doc, err := r.Lookup(id)
				if err != nil {
					t.Error(err)
					return
				}

				if doc.ID != id {
					t.Errorf("unexpected document %s", doc.ID.String())
				}
			}()
		}

		wg.Wait()

		// concurrent misses are not deduplicated, but the registry converges
		require.Equal(t, 1, r.Len())
		require.NotEmpty(t, resolver.Calls())
	})
}

func mustDID(t *testing.T, s string) did.DID {
	t.Helper()

	d, err := did.Parse(s)
	require.NoError(t, err)

	return *d
}

// mustDIDString is for goroutines, where require cannot be used.
func mustDIDString(s string) did.DID {
	d, err := did.Parse(s)
	if err != nil {
		panic(err)
	}

	return *d
}

func mustURL(t *testing.T, s string) *did.DIDURL {
	t.Helper()

	u, err := did.ParseURL(s)
	require.NoError(t, err)

	return u
}

func mustRef(t *testing.T, s string) *did.DIDURL {
	t.Helper()

	if s != "" && (s[0] == '/' || s[0] == '?' || s[0] == '#') {
		u, err := did.ParseRelativeURL(s)
		require.NoError(t, err)

		return u
	}

	return mustURL(t, s)
}

func docWithAKA(t *testing.T, id string, akas ...string) *did.Doc {
	t.Helper()

	urls := make([]did.DIDURL, 0, len(akas))
	for _, aka := range akas {
		urls = append(urls, *mustURL(t, aka))
	}

	return did.BuildDoc(mustDID(t, id), did.WithAlsoKnownAs(urls...))
}

// docWithKey declares one verification method and references it from
// authentication.
func docWithKey(t *testing.T, id, fragment string) *did.Doc {
	t.Helper()

	owner := mustDID(t, id)
	keyID := mustURL(t, id+"#"+fragment)

	return did.BuildDoc(owner,
		did.WithVerificationMethods(did.VerificationMethod{
			ID:         *keyID,
			Type:       did.TypeEd25519VerificationKey2018,
			Controller: owner,
			Multibase:  "z6MkhaXgBZDvotDkL5257faiztiGiC2QtKLGpbnnEGta2doK",
		}),
		did.WithAuthentications(did.NewReferencedVerification(keyID)),
	)
}
