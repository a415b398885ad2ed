/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package corpuscmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/erikh/did-toolkit/pkg/corpus"
)

const (
	outDirFlagName      = "out-dir"
	outDirEnvKey        = "DID_CORPUS_OUT_DIR"
	outDirFlagShorthand = "o"
	outDirFlagUsage     = "Directory to write the generated documents into, one <n>.json file per document." +
		" Documents are written to stdout if not set." +
		" Alternatively, this can be set with the following environment variable: " + outDirEnvKey
)

type generateParameters struct {
	profile corpus.Profile
	outDir  string
}

// GenerateCmd returns the command that writes a generated corpus to disk or
// stdout.
func GenerateCmd() *cobra.Command {
	generateCmd := createGenerateCmd()

	createGenerateFlags(generateCmd)

	return generateCmd
}

func createGenerateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "generate",
		Short: "Generate a DID document corpus",
		Long:  "Generate a deterministic corpus of DID documents for resolver and registry testing",
		RunE: func(cmd *cobra.Command, args []string) error {
			logLevel, err := getUserSetVar(cmd, logLevelFlagName, logLevelEnvKey, true)
			if err != nil {
				return err
			}

			if err := setLogLevel(logLevel); err != nil {
				return err
			}

			profile, err := buildProfile(cmd)
			if err != nil {
				return err
			}

			outDir, err := getUserSetVar(cmd, outDirFlagName, outDirEnvKey, true)
			if err != nil {
				return err
			}

			return generateCorpus(cmd, &generateParameters{profile: profile, outDir: outDir})
		},
	}
}

func createGenerateFlags(cmd *cobra.Command) {
	createProfileFlags(cmd)
	cmd.Flags().StringP(outDirFlagName, outDirFlagShorthand, "", outDirFlagUsage)
}

func generateCorpus(cmd *cobra.Command, params *generateParameters) error {
	generator := corpus.NewGenerator(params.profile)

	docs, err := generator.GenerateCorpus()
	if err != nil {
		return fmt.Errorf("generate corpus: %w", err)
	}

	if params.outDir != "" {
		if err := os.MkdirAll(params.outDir, 0o700); err != nil {
			return fmt.Errorf("create output directory %s: %w", params.outDir, err)
		}
	}

	for i, doc := range docs {
		data, err := doc.JSONBytes()
		if err != nil {
			return fmt.Errorf("serialize document %d: %w", i, err)
		}

		if params.outDir == "" {
			fmt.Fprintf(cmd.OutOrStdout(), "%s\n", data)

			continue
		}

		path := filepath.Join(params.outDir, fmt.Sprintf("%d.json", i))

		if err := os.WriteFile(path, data, 0o600); err != nil {
			return fmt.Errorf("write document %s: %w", path, err)
		}
	}

	if params.outDir != "" {
		logger.Infof("wrote %d documents to %s", len(docs), params.outDir)
	}

	return nil
}
