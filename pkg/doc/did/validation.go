/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package did

import (
	"errors"
	"fmt"

	"github.com/multiformats/go-multibase"
)

// Validate checks the document against the rules a registry insert enforces.
// Unlike ParseDocument it collects: a document with several independent
// defects yields one ValidationError per defect. A nil result means the
// document is acceptable.
func (doc *Doc) Validate() []ValidationError {
	var errs []ValidationError

	report := func(field string, err error) {
		errs = append(errs, ValidationError{Field: field, Err: err})
	}

	if err := doc.ID.Validate(); err != nil {
		report(propID, err)
	}

	for i := range doc.Controller {
		if err := doc.Controller[i].Validate(); err != nil {
			report(fmt.Sprintf("%s[%d]", propController, i), err)
		}
	}

	// Duplicate detection keys on the canonical id, with relative ids
	// resolved against the document id so that "#k" and "did:ex:1#k"
	// collide within did:ex:1.
	seen := make(map[string]bool)

	track := func(field string, id *DIDURL) {
		if id.isZero() {
			return
		}

		key := id.String()
		if id.IsRelative() {
			key = doc.ID.ResolveReference(id).String()
		}

		if seen[key] {
			report(field, fmt.Errorf("duplicate verification method id %q", id.String()))
			return
		}

		seen[key] = true
	}

	checkVM := func(field string, vm *VerificationMethod) {
		if err := vm.ID.Validate(); err != nil {
			report(field+"."+propID, err)
		}

		if err := vm.Controller.Validate(); err != nil {
			report(field+"."+propController, err)
		}

		if vm.JSONWebKey != nil && vm.Multibase != "" {
			report(field, errors.New("more than one public key encoding"))
		}

		if vm.Multibase != "" {
			if _, _, err := multibase.Decode(vm.Multibase); err != nil {
				report(field+"."+propPublicKeyMultibase, err)
			}
		}

		track(field+"."+propID, &vm.ID)
	}

	for i := range doc.VerificationMethod {
		checkVM(fmt.Sprintf("%s[%d]", propVerificationMethod, i), &doc.VerificationMethod[i])
	}

	for _, rel := range doc.relationshipSets() {
		for i := range *rel.entries {
			entry := &(*rel.entries)[i]
			field := fmt.Sprintf("%s[%d]", rel.name, i)

			switch {
			case entry.VerificationMethod != nil:
				checkVM(field, entry.VerificationMethod)
			case entry.Reference != nil:
				if err := entry.Reference.Validate(); err != nil {
					report(field, err)
				}
			default:
				report(field, errors.New("entry has neither an embedded verification method nor a reference"))
			}
		}
	}

	return errs
}
