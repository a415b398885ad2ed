/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package corpus

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultProfile(t *testing.T) {
	require.NoError(t, DefaultProfile().Validate())
}

func TestLoadProfile(t *testing.T) {
	t.Run("overrides merge with defaults", func(t *testing.T) {
		path := writeProfile(t, `{"count": 4, "seed": 42, "invalid": true}`)

		profile, err := LoadProfile(path)
		require.NoError(t, err)
		require.Equal(t, 4, profile.Count)
		require.EqualValues(t, 42, profile.Seed)
		require.True(t, profile.Invalid)

		// untouched fields keep their defaults
		require.Equal(t, DefaultProfile().Complexity, profile.Complexity)
		require.Equal(t, DefaultProfile().MaxDIDLength, profile.MaxDIDLength)
	})
	t.Run("missing file", func(t *testing.T) {
		_, err := LoadProfile(filepath.Join(t.TempDir(), "nope.json"))
		require.Error(t, err)
		require.Contains(t, err.Error(), "read profile")
	})
	t.Run("not json", func(t *testing.T) {
		_, err := LoadProfile(writeProfile(t, "count: 4"))
		require.Error(t, err)
		require.Contains(t, err.Error(), "parse profile")
	})
	t.Run("wrong field type", func(t *testing.T) {
		_, err := LoadProfile(writeProfile(t, `{"count": "many"}`))
		require.Error(t, err)
		require.Contains(t, err.Error(), "decode profile")
	})
	t.Run("defective values are rejected", func(t *testing.T) {
		_, err := LoadProfile(writeProfile(t, `{"count": 0}`))
		require.Error(t, err)
		require.Contains(t, err.Error(), "count must be positive")

		_, err = LoadProfile(writeProfile(t, `{"maxDidLength": 8}`))
		require.Error(t, err)
		require.Contains(t, err.Error(), "maxDidLength must be at least 16")
	})
}

func writeProfile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "profile.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}
