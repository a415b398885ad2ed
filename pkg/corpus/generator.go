/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package corpus

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/btcsuite/btcutil/base58"
	"github.com/google/uuid"
	"github.com/multiformats/go-multibase"
	"github.com/pkg/errors"

	diddoc "github.com/erikh/did-toolkit/pkg/doc/did"
	"github.com/erikh/did-toolkit/pkg/doc/jose/jwk"
	"github.com/erikh/did-toolkit/pkg/vdr"
)

// methods generated identifiers draw from.
//
//nolint:gochecknoglobals
var didMethods = []string{"example", "corpus", "test", "sandbox"}

const msidAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Generator produces document fixtures according to a profile. Identifier
// generation is reproducible from the profile seed; generated key material
// is not. A Generator is not safe for concurrent use.
type Generator struct {
	rng     *rand.Rand
	profile Profile
}

// NewGenerator returns a generator for the given profile.
func NewGenerator(profile Profile) *Generator {
	seed := profile.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	return &Generator{rng: rand.New(rand.NewSource(seed)), profile: profile}
}

// GenerateDID produces a parseable DID in one of several grammar flavors:
// plain alphanumerics, colon-separated segments, arbitrary octets that
// percent-encode, base58 and uuid shaped method-specific-ids.
func (g *Generator) GenerateDID() (diddoc.DID, error) {
	method := didMethods[g.rng.Intn(len(didMethods))]

	var msid string

	switch g.rng.Intn(5) {
	case 0:
		msid = g.randString(8 + g.rng.Intn(17))
	case 1:
		segments := make([]string, 2+g.rng.Intn(2))
		for i := range segments {
			segments[i] = g.randString(4 + g.rng.Intn(5))
		}

		msid = strings.Join(segments, ":")
	case 2:
		// raw octets, frequently not valid UTF-8
		msid = string(g.randBytes(4 + g.rng.Intn(9)))
	case 3:
		msid = base58.Encode(g.randBytes(16))
	default:
		id, err := uuid.NewRandomFromReader(g.rng)
		if err != nil {
			return diddoc.DID{}, errors.Wrap(err, "uuid method-specific-id")
		}

		msid = id.String()
	}

	return g.fitDID(method, msid)
}

// fitDID trims the method-specific-id until the canonical form honors the
// profile bound. Percent-encoding can triple the octet count, so the bound
// is checked on the rendered string.
func (g *Generator) fitDID(method, msid string) (diddoc.DID, error) {
	for {
		d, err := diddoc.NewDID(method, msid)
		if err != nil {
			return diddoc.DID{}, errors.Wrap(err, "build did")
		}

		if len(d.String()) <= g.profile.MaxDIDLength || len(msid) <= 1 {
			return *d, nil
		}

		msid = msid[:len(msid)-1]
	}
}

// GenerateVerificationMethod produces method number n for the given owner,
// carrying either a generated public JWK or multibase material.
func (g *Generator) GenerateVerificationMethod(owner diddoc.DID, n int) (diddoc.VerificationMethod, error) {
	id := diddoc.DIDURL{Fragment: fmt.Sprintf("method-%d", n)}

	// one in four ids stays relative to the document
	if g.rng.Intn(4) != 0 {
		id.DID = owner
	}

	vm := diddoc.VerificationMethod{ID: id, Controller: owner}

	if g.rng.Intn(2) == 0 {
		key, err := g.generateJWK()
		if err != nil {
			return diddoc.VerificationMethod{}, err
		}

		vm.Type = diddoc.TypeJSONWebKey2020
		vm.JSONWebKey = key

		return vm, nil
	}

	encoded, err := multibase.Encode(g.pickBase(), g.randBytes(32))
	if err != nil {
		return diddoc.VerificationMethod{}, errors.Wrap(err, "encode key material")
	}

	vm.Type = diddoc.TypeEd25519VerificationKey2018
	vm.Multibase = encoded

	return vm, nil
}

func (g *Generator) generateJWK() (*jwk.JWK, error) {
	if g.rng.Intn(2) == 0 {
		key, err := jwk.GenerateP256()
		if err != nil {
			return nil, errors.Wrap(err, "generate p-256 key")
		}

		return key.Public(), nil
	}

	key, err := jwk.GenerateEd25519()
	if err != nil {
		return nil, errors.Wrap(err, "generate ed25519 key")
	}

	return key.Public(), nil
}

func (g *Generator) pickBase() multibase.Encoding {
	bases := []multibase.Encoding{multibase.Base58BTC, multibase.Base64, multibase.Base32, multibase.Base16}

	return bases[g.rng.Intn(len(bases))]
}

// GenerateDocument builds a document with profile.Complexity declared
// methods referenced from authentication, an embedded assertion method,
// a service, and occasionally an alsoKnownAs claim or a reference that
// nothing declares.
func (g *Generator) GenerateDocument() (*diddoc.Doc, error) {
	id, err := g.GenerateDID()
	if err != nil {
		return nil, err
	}

	declared := make([]diddoc.VerificationMethod, 0, g.profile.Complexity)

	for i := 0; i < g.profile.Complexity; i++ {
		vm, err := g.GenerateVerificationMethod(id, i)
		if err != nil {
			return nil, err
		}

		declared = append(declared, vm)
	}

	auth := make([]diddoc.Verification, 0, len(declared))

	for i := range declared {
		ref := declared[i].ID
		auth = append(auth, diddoc.NewReferencedVerification(&ref))
	}

	embedded, err := g.GenerateVerificationMethod(id, g.profile.Complexity)
	if err != nil {
		return nil, err
	}

	assertion := []diddoc.Verification{diddoc.NewEmbeddedVerification(&embedded)}

	if g.rng.Intn(10) == 0 {
		dangling := diddoc.DIDURL{DID: id, Fragment: fmt.Sprintf("missing-%d", g.rng.Intn(10))}
		assertion = append(assertion, diddoc.NewReferencedVerification(&dangling))
	}

	opts := []diddoc.DocOption{
		diddoc.WithVerificationMethods(declared...),
		diddoc.WithAuthentications(auth...),
		diddoc.WithAssertionMethods(assertion...),
	}

	if len(declared) > 0 {
		ref := declared[g.rng.Intn(len(declared))].ID
		opts = append(opts, diddoc.WithKeyAgreements(diddoc.NewReferencedVerification(&ref)))
	}

	svc, err := g.generateService()
	if err != nil {
		return nil, err
	}

	opts = append(opts, diddoc.WithServices(svc))

	if g.rng.Intn(3) == 0 {
		aka, err := g.GenerateDID()
		if err != nil {
			return nil, err
		}

		opts = append(opts, diddoc.WithAlsoKnownAs(*aka.URL()))
	}

	return diddoc.BuildDoc(id, opts...), nil
}

func (g *Generator) generateService() (diddoc.Service, error) {
	id, err := uuid.NewRandomFromReader(g.rng)
	if err != nil {
		return diddoc.Service{}, errors.Wrap(err, "service id")
	}

	return diddoc.Service{
		ID:   "urn:uuid:" + id.String(),
		Type: diddoc.StringOrArray{"CorpusService"},
		ServiceEndpoint: diddoc.Endpoint{
			URIRefs: []string{"https://corpus.example/" + id.String()},
		},
	}, nil
}

// GenerateInvalidDocument returns a document that serializes but carries
// at least one validation defect.
func (g *Generator) GenerateInvalidDocument() (*diddoc.Doc, error) {
	id, err := g.GenerateDID()
	if err != nil {
		return nil, err
	}

	doc := diddoc.BuildDoc(id)

	switch g.rng.Intn(4) {
	case 0:
		// controller that breaks the method grammar
		doc.Controller = diddoc.Controllers{{Method: "NOT-A-METHOD", MethodSpecificID: "1"}}
	case 1:
		// the same method id twice
		vm, err := g.GenerateVerificationMethod(id, 0)
		if err != nil {
			return nil, err
		}

		doc.VerificationMethod = []diddoc.VerificationMethod{vm, vm}
	case 2:
		// both key material arms at once
		key, err := g.generateJWK()
		if err != nil {
			return nil, err
		}

		doc.VerificationMethod = []diddoc.VerificationMethod{{
			ID:         diddoc.DIDURL{DID: id, Fragment: "method-0"},
			Type:       diddoc.TypeJSONWebKey2020,
			Controller: id,
			JSONWebKey: key,
			Multibase:  "z6MkhaXgBZDvotDkL5257faiztiGiC2QtKLGpbnnEGta2doK",
		}}
	default:
		// undecodable multibase on a method with no controller
		doc.VerificationMethod = []diddoc.VerificationMethod{{
			ID:        diddoc.DIDURL{DID: id, Fragment: "method-0"},
			Type:      diddoc.TypeEd25519VerificationKey2018,
			Multibase: "not-multibase",
		}}
	}

	return doc, nil
}

// LinkDocuments adds the mutual alsoKnownAs pair so the two documents
// become registry equivalents.
func LinkDocuments(a, b *diddoc.Doc) {
	a.AlsoKnownAs = append(a.AlsoKnownAs, *b.ID.URL())
	b.AlsoKnownAs = append(b.AlsoKnownAs, *a.ID.URL())
}

// GenerateCorpus produces profile.Count documents. With Invalid set,
// roughly every fourth document carries validation defects. Consecutive
// documents are occasionally linked as equivalents.
func (g *Generator) GenerateCorpus() ([]*diddoc.Doc, error) {
	docs := make([]*diddoc.Doc, 0, g.profile.Count)

	for i := 0; i < g.profile.Count; i++ {
		var (
			doc *diddoc.Doc
			err error
		)

		if g.profile.Invalid && i%4 == 3 {
			doc, err = g.GenerateInvalidDocument()
		} else {
			doc, err = g.GenerateDocument()
		}

		if err != nil {
			return nil, err
		}

		docs = append(docs, doc)
	}

	for i := 1; i < len(docs); i++ {
		if g.rng.Intn(3) == 0 {
			LinkDocuments(docs[i-1], docs[i])
		}
	}

	return docs, nil
}

// GenerateRegistry builds a registry populated with a generated corpus.
func (g *Generator) GenerateRegistry() (*vdr.Registry, error) {
	docs, err := g.GenerateCorpus()
	if err != nil {
		return nil, err
	}

	registry := vdr.New()

	for _, doc := range docs {
		if err := registry.Insert(doc); err != nil {
			return nil, errors.Wrapf(err, "insert %s", doc.ID.String())
		}
	}

	return registry, nil
}

func (g *Generator) randString(n int) string {
	out := make([]byte, n)
	for i := range out {
		out[i] = msidAlphabet[g.rng.Intn(len(msidAlphabet))]
	}

	return string(out)
}

func (g *Generator) randBytes(n int) []byte {
	out := make([]byte, n)
	_, _ = g.rng.Read(out)

	return out
}
