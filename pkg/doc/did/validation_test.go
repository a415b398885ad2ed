/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package did

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/erikh/did-toolkit/pkg/doc/jose/jwk"
)

func TestValidateCollectsAllDefects(t *testing.T) {
	subject := DID{Method: "example", MethodSpecificID: "123"}

	doc := BuildDoc(subject,
		// defect 1: controller does not parse
		WithControllers(DID{Method: "NOT-LOWERCASE", MethodSpecificID: "x"}),
		WithVerificationMethods(
			VerificationMethod{
				ID:         DIDURL{DID: subject, Fragment: "keys-1"},
				Type:       TypeJSONWebKey2020,
				Controller: subject,
				Multibase:  "z6MkhaXgBZDvotDkL5257faiztiGiC2QtKLGpbnnEGta2doK",
			},
			// defect 2: duplicate id, relative form colliding with the absolute one
			VerificationMethod{
				ID:         DIDURL{Fragment: "keys-1"},
				Type:       TypeJSONWebKey2020,
				Controller: subject,
			},
			// defect 3: multibase value that does not decode
			VerificationMethod{
				ID:         DIDURL{DID: subject, Fragment: "keys-2"},
				Type:       TypeEd25519VerificationKey2018,
				Controller: subject,
				Multibase:  "not-multibase",
			},
		),
		// defect 4: entry with neither arm set
		WithAuthentications(Verification{}),
	)

	errs := doc.Validate()
	require.Len(t, errs, 4)

	messages := make([]string, 0, len(errs))
	for _, e := range errs {
		messages = append(messages, e.Error())
	}

	joined := ""
	for _, m := range messages {
		joined += m + "\n"
	}

	require.Contains(t, joined, "controller[0]")
	require.Contains(t, joined, "duplicate verification method id")
	require.Contains(t, joined, "verificationMethod[2].publicKeyMultibase")
	require.Contains(t, joined, "authentication[0]")
}

func TestValidateVerificationMethods(t *testing.T) {
	subject := DID{Method: "example", MethodSpecificID: "123"}

	t.Run("both key encodings at once", func(t *testing.T) {
		doc := BuildDoc(subject, WithVerificationMethods(VerificationMethod{
			ID:         DIDURL{DID: subject, Fragment: "keys-1"},
			Controller: subject,
			JSONWebKey: mustGenerateJWK(t),
			Multibase:  "z6MkhaXgBZDvotDkL5257faiztiGiC2QtKLGpbnnEGta2doK",
		}))

		errs := doc.Validate()
		require.Len(t, errs, 1)
		require.Contains(t, errs[0].Error(), "more than one public key encoding")
	})
	t.Run("absent key material is allowed", func(t *testing.T) {
		doc := BuildDoc(subject, WithVerificationMethods(VerificationMethod{
			ID:         DIDURL{DID: subject, Fragment: "keys-1"},
			Controller: subject,
		}))
		require.Empty(t, doc.Validate())
	})
	t.Run("missing controller is a defect", func(t *testing.T) {
		doc := BuildDoc(subject, WithVerificationMethods(VerificationMethod{
			ID: DIDURL{DID: subject, Fragment: "keys-1"},
		}))

		errs := doc.Validate()
		require.Len(t, errs, 1)
		require.Contains(t, errs[0].Error(), "verificationMethod[0].controller")
	})
	t.Run("missing id is a defect", func(t *testing.T) {
		doc := BuildDoc(subject, WithVerificationMethods(VerificationMethod{
			Controller: subject,
		}))

		errs := doc.Validate()
		require.Len(t, errs, 1)
		require.Contains(t, errs[0].Error(), "verificationMethod[0].id")
	})
	t.Run("embedded entries are checked like declared ones", func(t *testing.T) {
		doc := BuildDoc(subject, WithKeyAgreements(NewEmbeddedVerification(&VerificationMethod{
			ID:         DIDURL{DID: subject, Fragment: "keys-1"},
			Controller: DID{Method: "bad method", MethodSpecificID: "x"},
		})))

		errs := doc.Validate()
		require.Len(t, errs, 1)
		require.Contains(t, errs[0].Error(), "keyAgreement[0].controller")
	})
	t.Run("reference entries must parse", func(t *testing.T) {
		doc := BuildDoc(subject, WithAssertionMethods(NewReferencedVerification(&DIDURL{
			DID: DID{MethodSpecificID: "no-method"},
		})))

		errs := doc.Validate()
		require.Len(t, errs, 1)
		require.Contains(t, errs[0].Error(), "assertionMethod[0]")
	})
}

func TestValidateDuplicateIDs(t *testing.T) {
	subject := DID{Method: "example", MethodSpecificID: "123"}

	vm := func(fragment string) VerificationMethod {
		return VerificationMethod{
			ID:         DIDURL{DID: subject, Fragment: fragment},
			Controller: subject,
		}
	}

	t.Run("distinct fragments pass", func(t *testing.T) {
		doc := BuildDoc(subject, WithVerificationMethods(vm("a"), vm("b")))
		require.Empty(t, doc.Validate())
	})
	t.Run("same fragment in another document id does not collide", func(t *testing.T) {
		other := VerificationMethod{
			ID:         DIDURL{DID: DID{Method: "example", MethodSpecificID: "456"}, Fragment: "a"},
			Controller: subject,
		}
		doc := BuildDoc(subject, WithVerificationMethods(vm("a"), other))
		require.Empty(t, doc.Validate())
	})
	t.Run("embedded duplicates of declared ids collide", func(t *testing.T) {
		doc := BuildDoc(subject,
			WithVerificationMethods(vm("a")),
			WithAuthentications(NewEmbeddedVerification(&VerificationMethod{
				ID:         DIDURL{Fragment: "a"},
				Controller: subject,
			})),
		)

		errs := doc.Validate()
		require.Len(t, errs, 1)
		require.Contains(t, errs[0].Error(), "duplicate verification method id")
		require.Contains(t, errs[0].Error(), "authentication[0]")
	})
	t.Run("three copies yield two defects", func(t *testing.T) {
		doc := BuildDoc(subject, WithVerificationMethods(vm("a"), vm("a"), vm("a")))
		require.Len(t, doc.Validate(), 2)
	})
}

func mustGenerateJWK(t *testing.T) *jwk.JWK {
	t.Helper()

	key, err := jwk.GenerateP256()
	require.NoError(t, err)

	return key.Public()
}
