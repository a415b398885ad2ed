/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package corpuscmd

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/spf13/cobra"

	"github.com/erikh/did-toolkit/pkg/corpus"
	didrest "github.com/erikh/did-toolkit/pkg/restapi/did"
	"github.com/erikh/did-toolkit/pkg/vdr"
)

const (
	hostURLFlagName      = "host-url"
	hostURLEnvKey        = "DID_CORPUS_HOST_URL"
	hostURLFlagShorthand = "u"
	hostURLFlagUsage     = "Host URL to serve the resolver API on. Format: HostName:Port." +
		" Alternatively, this can be set with the following environment variable: " + hostURLEnvKey

	corsFlagName  = "cors"
	corsEnvKey    = "DID_CORPUS_CORS"
	corsFlagUsage = "Enable CORS on the resolver API." +
		" Possible values [true] [false]. Defaults to true if not set." +
		" Alternatively, this can be set with the following environment variable: " + corsEnvKey
)

// server is an interface for starting the corpus server.
type server interface {
	ListenAndServe(host string, router http.Handler) error
}

// HTTPServer is the server implementation used outside of tests.
type HTTPServer struct{}

// ListenAndServe starts the server using the standard Go HTTP server implementation.
func (s *HTTPServer) ListenAndServe(host string, router http.Handler) error {
	return http.ListenAndServe(host, router)
}

type serveParameters struct {
	server   server
	hostURL  string
	registry *vdr.Registry
	cors     bool
}

// ServeCmd returns the command that generates a corpus and serves it through
// the resolver REST API.
func ServeCmd(srv server) *cobra.Command {
	serveCmd := createServeCmd(srv)

	createServeFlags(serveCmd)

	return serveCmd
}

func createServeCmd(srv server) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve a generated corpus over HTTP",
		Long:  "Generate a DID document corpus and serve it through the resolver REST API",
		RunE: func(cmd *cobra.Command, args []string) error {
			logLevel, err := getUserSetVar(cmd, logLevelFlagName, logLevelEnvKey, true)
			if err != nil {
				return err
			}

			if err := setLogLevel(logLevel); err != nil {
				return err
			}

			hostURL, err := getUserSetVar(cmd, hostURLFlagName, hostURLEnvKey, false)
			if err != nil {
				return err
			}

			profile, err := buildProfile(cmd)
			if err != nil {
				return err
			}

			enableCORS := true

			if err := overrideBoolVar(cmd, corsFlagName, corsEnvKey, &enableCORS); err != nil {
				return err
			}

			registry, err := corpus.NewGenerator(profile).GenerateRegistry()
			if err != nil {
				return fmt.Errorf("generate registry: %w", err)
			}

			return serveCorpus(&serveParameters{
				server:   srv,
				hostURL:  hostURL,
				registry: registry,
				cors:     enableCORS,
			})
		},
	}
}

func createServeFlags(cmd *cobra.Command) {
	createProfileFlags(cmd)
	cmd.Flags().StringP(hostURLFlagName, hostURLFlagShorthand, "", hostURLFlagUsage)
	cmd.Flags().StringP(corsFlagName, "", "", corsFlagUsage)
}

func serveCorpus(params *serveParameters) error {
	// Encoded paths keep percent-encoded method-specific ids intact until
	// the handlers parse them.
	router := mux.NewRouter()
	router.UseEncodedPath()

	for _, handler := range didrest.New(params.registry).GetRESTHandlers() {
		router.HandleFunc(handler.Path(), handler.Handle()).Methods(handler.Method())
	}

	var handler http.Handler = router

	if params.cors {
		handler = cors.New(cors.Options{
			AllowedMethods: []string{http.MethodGet},
			AllowedHeaders: []string{"Origin", "Accept", "Content-Type", "X-Requested-With", "Authorization"},
		}).Handler(router)
	}

	logger.Infof("starting did-corpus server on host [%s]", params.hostURL)

	return params.server.ListenAndServe(params.hostURL, handler)
}
