/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package corpus generates DID document fixtures: parseable identifiers in
// every grammar flavor, documents with mixed relationship shapes, and
// optionally documents that serialize cleanly but fail validation.
package corpus

import (
	"encoding/json"
	"os"

	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
)

// Profile controls the shape of a generated corpus.
type Profile struct {
	// Count is the number of documents to generate.
	Count int `json:"count"`
	// Complexity scales how many verification methods, relationship
	// entries and services each document carries.
	Complexity int `json:"complexity"`
	// MaxDIDLength bounds the canonical form of generated identifiers.
	MaxDIDLength int `json:"maxDidLength"`
	// Seed makes identifier generation reproducible. Zero picks a seed
	// from the clock.
	Seed int64 `json:"seed"`
	// Invalid mixes in documents that violate validation rules while
	// still serializing.
	Invalid bool `json:"invalid"`
}

// DefaultProfile returns the profile used when no overrides are given.
func DefaultProfile() Profile {
	return Profile{
		Count:        16,
		Complexity:   3,
		MaxDIDLength: 64,
	}
}

// LoadProfile reads a JSON profile from path, filling unset fields from
// DefaultProfile.
func LoadProfile(path string) (Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Profile{}, errors.Wrap(err, "read profile")
	}

	var raw map[string]interface{}

	if err := json.Unmarshal(data, &raw); err != nil {
		return Profile{}, errors.Wrap(err, "parse profile")
	}

	profile := DefaultProfile()

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{TagName: "json", Result: &profile})
	if err != nil {
		return Profile{}, errors.Wrap(err, "initialize profile decoder")
	}

	if err := decoder.Decode(raw); err != nil {
		return Profile{}, errors.Wrap(err, "decode profile")
	}

	if err := profile.Validate(); err != nil {
		return Profile{}, err
	}

	return profile, nil
}

// Validate reports the first defective field.
func (p Profile) Validate() error {
	if p.Count < 1 {
		return errors.New("profile: count must be positive")
	}

	if p.Complexity < 1 {
		return errors.New("profile: complexity must be positive")
	}

	// enough room for the scheme, a method and a short id
	if p.MaxDIDLength < 16 {
		return errors.New("profile: maxDidLength must be at least 16")
	}

	return nil
}
