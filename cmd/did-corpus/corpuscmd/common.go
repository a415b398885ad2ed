/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package corpuscmd builds the did-corpus commands: generate writes a
// document corpus to files or stdout, serve exposes one through the
// resolver REST API.
package corpuscmd

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/erikh/did-toolkit/pkg/common/log"
	"github.com/erikh/did-toolkit/pkg/corpus"
)

var logger = log.New("did-toolkit/did-corpus")

// flags shared by the generate and serve commands.
const (
	countFlagName      = "count"
	countEnvKey        = "DID_CORPUS_COUNT"
	countFlagShorthand = "c"
	countFlagUsage     = "Number of documents to generate." +
		" Alternatively, this can be set with the following environment variable: " + countEnvKey

	complexityFlagName  = "complexity"
	complexityEnvKey    = "DID_CORPUS_COMPLEXITY"
	complexityFlagUsage = "How many verification methods and relationship entries each document carries." +
		" Alternatively, this can be set with the following environment variable: " + complexityEnvKey

	maxDIDLengthFlagName  = "max-did-length"
	maxDIDLengthEnvKey    = "DID_CORPUS_MAX_DID_LENGTH"
	maxDIDLengthFlagUsage = "Upper bound on the canonical form of generated identifiers." +
		" Alternatively, this can be set with the following environment variable: " + maxDIDLengthEnvKey

	seedFlagName      = "seed"
	seedEnvKey        = "DID_CORPUS_SEED"
	seedFlagShorthand = "s"
	seedFlagUsage     = "Seed for reproducible identifier generation. 0 picks a seed from the clock." +
		" Alternatively, this can be set with the following environment variable: " + seedEnvKey

	invalidFlagName  = "invalid"
	invalidEnvKey    = "DID_CORPUS_INVALID"
	invalidFlagUsage = "Mix in documents that fail validation while still serializing." +
		" Possible values [true] [false]. Defaults to false if not set." +
		" Alternatively, this can be set with the following environment variable: " + invalidEnvKey

	profileFlagName      = "profile"
	profileEnvKey        = "DID_CORPUS_PROFILE"
	profileFlagShorthand = "p"
	profileFlagUsage     = "Path to a JSON profile file. Explicit flags override profile values." +
		" Alternatively, this can be set with the following environment variable: " + profileEnvKey

	logLevelFlagName  = "log-level"
	logLevelEnvKey    = "DID_CORPUS_LOG_LEVEL"
	logLevelFlagUsage = "Log level." +
		" Possible values [INFO] [DEBUG] [ERROR] [WARNING] [CRITICAL] . Defaults to INFO if not set." +
		" Alternatively, this can be set with the following environment variable: " + logLevelEnvKey
)

func createProfileFlags(cmd *cobra.Command) {
	cmd.Flags().StringP(countFlagName, countFlagShorthand, "", countFlagUsage)
	cmd.Flags().StringP(complexityFlagName, "", "", complexityFlagUsage)
	cmd.Flags().StringP(maxDIDLengthFlagName, "", "", maxDIDLengthFlagUsage)
	cmd.Flags().StringP(seedFlagName, seedFlagShorthand, "", seedFlagUsage)
	cmd.Flags().StringP(invalidFlagName, "", "", invalidFlagUsage)
	cmd.Flags().StringP(profileFlagName, profileFlagShorthand, "", profileFlagUsage)
	cmd.Flags().StringP(logLevelFlagName, "", "", logLevelFlagUsage)
}

// buildProfile folds a profile file and individual flag overrides into a
// validated profile.
func buildProfile(cmd *cobra.Command) (corpus.Profile, error) {
	profilePath, err := getUserSetVar(cmd, profileFlagName, profileEnvKey, true)
	if err != nil {
		return corpus.Profile{}, err
	}

	profile := corpus.DefaultProfile()

	if profilePath != "" {
		profile, err = corpus.LoadProfile(profilePath)
		if err != nil {
			return corpus.Profile{}, err
		}
	}

	if err := overrideIntVar(cmd, countFlagName, countEnvKey, &profile.Count); err != nil {
		return corpus.Profile{}, err
	}

	if err := overrideIntVar(cmd, complexityFlagName, complexityEnvKey, &profile.Complexity); err != nil {
		return corpus.Profile{}, err
	}

	if err := overrideIntVar(cmd, maxDIDLengthFlagName, maxDIDLengthEnvKey, &profile.MaxDIDLength); err != nil {
		return corpus.Profile{}, err
	}

	if err := overrideSeedVar(cmd, &profile.Seed); err != nil {
		return corpus.Profile{}, err
	}

	if err := overrideBoolVar(cmd, invalidFlagName, invalidEnvKey, &profile.Invalid); err != nil {
		return corpus.Profile{}, err
	}

	if err := profile.Validate(); err != nil {
		return corpus.Profile{}, err
	}

	return profile, nil
}

func overrideIntVar(cmd *cobra.Command, flagName, envKey string, target *int) error {
	value, err := getUserSetVar(cmd, flagName, envKey, true)
	if err != nil || value == "" {
		return err
	}

	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("invalid %s value '%s': %w", flagName, value, err)
	}

	*target = parsed

	return nil
}

func overrideSeedVar(cmd *cobra.Command, target *int64) error {
	value, err := getUserSetVar(cmd, seedFlagName, seedEnvKey, true)
	if err != nil || value == "" {
		return err
	}

	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid %s value '%s': %w", seedFlagName, value, err)
	}

	*target = parsed

	return nil
}

func overrideBoolVar(cmd *cobra.Command, flagName, envKey string, target *bool) error {
	value, err := getUserSetVar(cmd, flagName, envKey, true)
	if err != nil || value == "" {
		return err
	}

	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fmt.Errorf("invalid %s value '%s': %w", flagName, value, err)
	}

	*target = parsed

	return nil
}

func getUserSetVar(cmd *cobra.Command, flagName, envKey string, isOptional bool) (string, error) {
	if cmd.Flags().Changed(flagName) {
		value, err := cmd.Flags().GetString(flagName)
		if err != nil {
			return "", fmt.Errorf(flagName+" flag not found: %s", err)
		}

		return value, nil
	}

	value, isSet := os.LookupEnv(envKey)

	if isOptional || isSet {
		return value, nil
	}

	return "", errors.New("Neither " + flagName + " (command line flag) nor " + envKey +
		" (environment variable) have been set.")
}

func setLogLevel(logLevel string) error {
	if logLevel != "" {
		level, err := log.ParseLevel(logLevel)
		if err != nil {
			return fmt.Errorf("failed to parse log level '%s' : %w", logLevel, err)
		}

		log.SetLevel("", level)

		logger.Infof("logger level set to %s", logLevel)
	}

	return nil
}
