/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package did

import (
	"errors"
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

// docSchema gates the JSON shape before population: required id, arrays where
// arrays belong, relationship entries either objects or strings. Members the
// schema does not name pass through so that unknown properties survive.
const docSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["id"],
  "properties": {
    "id": {
      "type": "string"
    },
    "alsoKnownAs": {
      "type": "array",
      "items": { "type": "string" }
    },
    "controller": {
      "oneOf": [
        { "type": "string" },
        { "type": "array", "items": { "type": "string" } }
      ]
    },
    "verificationMethod": {
      "type": "array",
      "items": { "type": "object" }
    },
    "authentication": { "$ref": "#/definitions/verificationRelationship" },
    "assertionMethod": { "$ref": "#/definitions/verificationRelationship" },
    "keyAgreement": { "$ref": "#/definitions/verificationRelationship" },
    "capabilityInvocation": { "$ref": "#/definitions/verificationRelationship" },
    "capabilityDelegation": { "$ref": "#/definitions/verificationRelationship" },
    "service": {
      "type": "array",
      "items": { "type": "object" }
    }
  },
  "definitions": {
    "verificationRelationship": {
      "type": "array",
      "items": {
        "oneOf": [
          { "type": "object" },
          { "type": "string" }
        ]
      }
    }
  }
}`

func validateJSONSchema(data []byte) error {
	schemaLoader := gojsonschema.NewStringLoader(docSchema)
	documentLoader := gojsonschema.NewBytesLoader(data)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("validation of DID doc failed: %w", err)
	}

	if !result.Valid() {
		errMsg := "did document not valid:\n"
		for _, desc := range result.Errors() {
			errMsg += fmt.Sprintf("- %s\n", desc)
		}

		return errors.New(errMsg)
	}

	return nil
}
