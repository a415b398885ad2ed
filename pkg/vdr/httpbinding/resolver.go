/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package httpbinding resolves DID documents from a remote HTTP(s) endpoint,
// for example a universal resolver instance.
package httpbinding

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/erikh/did-toolkit/pkg/common/log"
	"github.com/erikh/did-toolkit/pkg/doc/did"
	vdrapi "github.com/erikh/did-toolkit/pkg/vdr/api"
)

var logger = log.New("did-toolkit/vdr/httpbinding")

const didJSON = "application/did+json"

// Accept decides whether this resolver serves a given did method.
type Accept func(method string) bool

// Resolver fetches DID documents over HTTP(s). It implements api.Resolver
// and is safe for concurrent use.
type Resolver struct {
	endpointURL   string
	client        *http.Client
	accept        Accept
	authToken     string
	retries       uint64
	retryInterval time.Duration
}

var _ vdrapi.Resolver = (*Resolver)(nil)

// New creates a new HTTP binding resolver for the given endpoint.
func New(endpointURL string, opts ...Option) (*Resolver, error) {
	r := &Resolver{
		client:        &http.Client{},
		accept:        func(string) bool { return true },
		retryInterval: time.Second,
	}

	for _, opt := range opts {
		opt(r)
	}

	if _, err := url.ParseRequestURI(endpointURL); err != nil {
		return nil, fmt.Errorf("base URL invalid: %w", err)
	}

	r.endpointURL = strings.TrimSuffix(endpointURL, "/")

	return r, nil
}

// Resolve fetches the document for d from the endpoint. Absence is reported
// with an error satisfying errors.Is(err, api.ErrNotFound).
func (r *Resolver) Resolve(d did.DID) (*did.Doc, error) {
	if err := d.Validate(); err != nil {
		return nil, fmt.Errorf("resolve: %w", err)
	}

	if !r.accept(d.Method) {
		return nil, fmt.Errorf("did method %s is not served by %s: %w",
			d.Method, r.endpointURL, vdrapi.ErrNotFound)
	}

	// The canonical form only contains URI path characters, so the request
	// URI can be assembled without further escaping.
	data, err := r.fetch(r.endpointURL + "/" + d.String())
	if err != nil {
		return nil, err
	}

	if len(data) == 0 {
		return nil, vdrapi.ErrNotFound
	}

	doc, err := did.ParseDocument(data)
	if err != nil {
		return nil, fmt.Errorf("parse resolver response for %s: %w", d.String(), err)
	}

	return doc, nil
}

// fetch performs the HTTP exchange, retrying transient failures when
// configured. Absence is never retried.
func (r *Resolver) fetch(uri string) ([]byte, error) {
	var body []byte

	op := func() error {
		var err error

		body, err = r.fetchOnce(uri)
		if err != nil {
			if errors.Is(err, vdrapi.ErrNotFound) {
				return backoff.Permanent(err)
			}

			return err
		}

		return nil
	}

	err := backoff.Retry(op, backoff.WithMaxRetries(backoff.NewConstantBackOff(r.retryInterval), r.retries))
	if err != nil {
		return nil, err
	}

	return body, nil
}

func (r *Resolver) fetchOnce(uri string) ([]byte, error) {
	req, err := http.NewRequest(http.MethodGet, uri, nil)
	if err != nil {
		return nil, fmt.Errorf("HTTP create get request failed: %w", err)
	}

	req.Header.Add("Accept", didJSON)

	if r.authToken != "" {
		req.Header.Add("Authorization", r.authToken)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP Get request failed: %w", err)
	}

	defer closeResponseBody(resp.Body)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body failed: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
		return body, nil
	case http.StatusNotFound:
		return nil, vdrapi.ErrNotFound
	}

	return nil, fmt.Errorf("unsupported response from DID resolver [%v] body [%s]", resp.StatusCode, body)
}

// Option configures the resolver.
type Option func(r *Resolver)

// WithTimeout option is for definition of HTTP(s) timeout value of DID Resolver.
func WithTimeout(timeout time.Duration) Option {
	return func(r *Resolver) {
		r.client.Timeout = timeout
	}
}

// WithHTTPClient option is for custom http client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(r *Resolver) {
		r.client = httpClient
	}
}

// WithAccept option is for accept did method.
func WithAccept(accept Accept) Option {
	return func(r *Resolver) {
		r.accept = accept
	}
}

// WithResolveAuthToken add auth token for resolve.
func WithResolveAuthToken(authToken string) Option {
	return func(r *Resolver) {
		r.authToken = "Bearer " + authToken
	}
}

// WithRetry retries failed fetches up to attempts times, waiting interval
// between tries.
func WithRetry(attempts int, interval time.Duration) Option {
	return func(r *Resolver) {
		if attempts < 0 {
			attempts = 0
		}

		r.retries = uint64(attempts)
		r.retryInterval = interval
	}
}

func closeResponseBody(respBody io.Closer) {
	if err := respBody.Close(); err != nil {
		logger.Errorf("Failed to close response body: %v", err)
	}
}
