/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package main

import (
	"github.com/spf13/cobra"

	"github.com/erikh/did-toolkit/cmd/did-corpus/corpuscmd"
	"github.com/erikh/did-toolkit/pkg/common/log"
)

// This is the did-corpus CLI: it generates DID document corpora and serves
// them through the resolver REST API.

var logger = log.New("did-toolkit/did-corpus")

func main() {
	rootCmd := &cobra.Command{
		Use: "did-corpus",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.HelpFunc()(cmd, args)
		},
	}

	rootCmd.AddCommand(corpuscmd.GenerateCmd())
	rootCmd.AddCommand(corpuscmd.ServeCmd(&corpuscmd.HTTPServer{}))

	if err := rootCmd.Execute(); err != nil {
		logger.Fatalf("Failed to run did-corpus: %s", err)
	}
}
