/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package jwk provides the JSON Web Key form of verification material.
// Keys are treated as opaque typed data: no signing or verification happens
// here.
package jwk

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/elliptic"
	"crypto/rand"
	_ "crypto/sha256" // for Thumbprint
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/go-jose/go-jose/v3"
)

// ErrInvalidKey is returned when a passed JWK is invalid.
var ErrInvalidKey = errors.New("invalid JWK")

// JWK (JSON Web Key) is a JSON data structure that represents a cryptographic key.
type JWK struct {
	jose.JSONWebKey
}

// UnmarshalJSON reads a key from its JSON representation.
func (j *JWK) UnmarshalJSON(jwkBytes []byte) error {
	var key jose.JSONWebKey
	if err := key.UnmarshalJSON(jwkBytes); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidKey, err)
	}

	j.JSONWebKey = key

	return nil
}

// FromKey creates a JWK from an opaque key struct, e.g. *ecdsa.PublicKey,
// *ecdsa.PrivateKey or ed25519.PublicKey.
func FromKey(opaqueKey interface{}) (*JWK, error) {
	key := &JWK{
		JSONWebKey: jose.JSONWebKey{
			Key: opaqueKey,
		},
	}

	// marshal/unmarshal to get all JWK's fields other than Key filled
	keyBytes, err := key.JSONWebKey.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("create JWK: %w", err)
	}

	if err := key.UnmarshalJSON(keyBytes); err != nil {
		return nil, fmt.Errorf("create JWK: %w", err)
	}

	return key, nil
}

// Public returns the public part of the key. Keys that are already public are
// returned as is.
func (j *JWK) Public() *JWK {
	return &JWK{JSONWebKey: j.JSONWebKey.Public()}
}

// GenerateP256 returns a fresh NIST P-256 key with the key id set to its
// RFC 7638 thumbprint.
func GenerateP256() (*JWK, error) {
	priv, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("generate P-256 key: %w", err)
	}

	return fromGenerated(priv)
}

// GenerateEd25519 returns a fresh Ed25519 key with the key id set to its
// RFC 7638 thumbprint.
func GenerateEd25519() (*JWK, error) {
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("generate Ed25519 key: %w", err)
	}

	return fromGenerated(priv)
}

func fromGenerated(privKey interface{}) (*JWK, error) {
	key, err := FromKey(privKey)
	if err != nil {
		return nil, err
	}

	thumbprint, err := key.Thumbprint(crypto.SHA256)
	if err != nil {
		return nil, fmt.Errorf("compute JWK thumbprint: %w", err)
	}

	key.KeyID = base64.RawURLEncoding.EncodeToString(thumbprint)

	return key, nil
}
