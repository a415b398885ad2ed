/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package did exposes the registry over a resolver-style REST API.
package did

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/erikh/did-toolkit/pkg/common/log"
	diddoc "github.com/erikh/did-toolkit/pkg/doc/did"
	"github.com/erikh/did-toolkit/pkg/restapi"
	"github.com/erikh/did-toolkit/pkg/vdr"
	vdrapi "github.com/erikh/did-toolkit/pkg/vdr/api"
)

var logger = log.New("did-toolkit/restapi/did")

const didJSON = "application/did+json"

// path variables and endpoints.
const (
	operationID            = "/1.0"
	idPathVariable         = "id"
	controllerPathVariable = "controller"

	// ResolveDIDPath resolves a DID into its document.
	ResolveDIDPath = operationID + "/identifiers/{" + idPathVariable + "}"
	// EquivalentsPath lists registered equivalents of a DID.
	EquivalentsPath = ResolveDIDPath + "/equivalents"
	// VerifyControllerPath checks a controller relationship.
	VerifyControllerPath = ResolveDIDPath + "/controllers/{" + controllerPathVariable + "}"
	// VerificationMethodPath resolves a verification method by DID URL.
	VerificationMethodPath = operationID + "/verification-methods"
)

// registry contains the resolution operations consumed by this API and is
// satisfied by *vdr.Registry.
type registry interface {
	Lookup(d diddoc.DID) (*diddoc.Doc, error)
	ResolveEquivalents(d diddoc.DID) []diddoc.DID
	VerifyController(subject, controller diddoc.DID) (bool, error)
	ResolveVerificationMethod(target *diddoc.DIDURL) (*diddoc.VerificationMethod, error)
}

// Operation contains the REST operations served for a registry.
type Operation struct {
	handlers []restapi.Handler
	registry registry
}

// New returns a new REST operation instance backed by r.
func New(r registry) *Operation {
	o := &Operation{registry: r}
	o.registerHandler()

	return o
}

// GetRESTHandlers gets all API handlers available for this service.
func (o *Operation) GetRESTHandlers() []restapi.Handler {
	return o.handlers
}

// registerHandler registers handlers to be exposed as REST API endpoints.
func (o *Operation) registerHandler() {
	o.handlers = []restapi.Handler{
		restapi.NewHTTPHandler(ResolveDIDPath, http.MethodGet, o.ResolveDID),
		restapi.NewHTTPHandler(EquivalentsPath, http.MethodGet, o.Equivalents),
		restapi.NewHTTPHandler(VerifyControllerPath, http.MethodGet, o.VerifyController),
		restapi.NewHTTPHandler(VerificationMethodPath, http.MethodGet, o.ResolveVerificationMethod),
	}
}

// ResolveDID swagger:route GET /1.0/identifiers/{id} did resolveDIDReq
//
// Resolves a DID into its document.
//
// Responses:
//    default: genericError
//        200: documentResponse
func (o *Operation) ResolveDID(rw http.ResponseWriter, req *http.Request) {
	id, err := diddoc.Parse(mux.Vars(req)[idPathVariable])
	if err != nil {
		sendError(rw, http.StatusBadRequest, err)
		return
	}

	doc, err := o.registry.Lookup(*id)
	if err != nil {
		sendResolutionError(rw, err)
		return
	}

	body, err := doc.JSONBytes()
	if err != nil {
		sendError(rw, http.StatusInternalServerError, err)
		return
	}

	rw.Header().Set("Content-Type", didJSON)

	if _, err := rw.Write(body); err != nil {
		logger.Errorf("Unable to write response, %s", err)
	}
}

// Equivalents swagger:route GET /1.0/identifiers/{id}/equivalents did equivalentsReq
//
// Lists registered DIDs reachable from the given one over alsoKnownAs links.
//
// Responses:
//    default: genericError
//        200: equivalentsResponse
func (o *Operation) Equivalents(rw http.ResponseWriter, req *http.Request) {
	id, err := diddoc.Parse(mux.Vars(req)[idPathVariable])
	if err != nil {
		sendError(rw, http.StatusBadRequest, err)
		return
	}

	equivalents := o.registry.ResolveEquivalents(*id)

	out := make([]string, 0, len(equivalents))
	for _, d := range equivalents {
		out = append(out, d.String())
	}

	sendJSON(rw, equivalentsResponse{Equivalents: out})
}

// VerifyController swagger:route GET /1.0/identifiers/{id}/controllers/{controller} did verifyControllerReq
//
// Checks whether the second DID is an acknowledged controller of the first.
//
// Responses:
//    default: genericError
//        200: verifyControllerResponse
func (o *Operation) VerifyController(rw http.ResponseWriter, req *http.Request) {
	vars := mux.Vars(req)

	subject, err := diddoc.Parse(vars[idPathVariable])
	if err != nil {
		sendError(rw, http.StatusBadRequest, err)
		return
	}

	controller, err := diddoc.Parse(vars[controllerPathVariable])
	if err != nil {
		sendError(rw, http.StatusBadRequest, err)
		return
	}

	verified, err := o.registry.VerifyController(*subject, *controller)
	if err != nil {
		sendResolutionError(rw, err)
		return
	}

	sendJSON(rw, verifyControllerResponse{Verified: verified})
}

// ResolveVerificationMethod swagger:route GET /1.0/verification-methods did resolveVerificationMethodReq
//
// Resolves the verification method the given DID URL refers to, following
// references across documents.
//
// Responses:
//    default: genericError
//        200: verificationMethodResponse
func (o *Operation) ResolveVerificationMethod(rw http.ResponseWriter, req *http.Request) {
	target, err := diddoc.ParseURL(req.URL.Query().Get(idPathVariable))
	if err != nil {
		sendError(rw, http.StatusBadRequest, err)
		return
	}

	vm, err := o.registry.ResolveVerificationMethod(target)
	if err != nil {
		sendResolutionError(rw, err)
		return
	}

	sendJSON(rw, vm)
}

// sendResolutionError distinguishes absence from an upstream resolver
// failure.
func sendResolutionError(rw http.ResponseWriter, err error) {
	var fetchErr *vdr.FetchError

	switch {
	case errors.As(err, &fetchErr):
		sendError(rw, http.StatusBadGateway, err)
	case errors.Is(err, vdrapi.ErrNotFound):
		sendError(rw, http.StatusNotFound, err)
	default:
		sendError(rw, http.StatusInternalServerError, err)
	}
}

func sendJSON(rw http.ResponseWriter, v interface{}) {
	rw.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(rw).Encode(v); err != nil {
		logger.Errorf("Unable to send response, %s", err)
	}
}

func sendError(rw http.ResponseWriter, status int, err error) {
	rw.Header().Set("Content-Type", "application/json")
	rw.WriteHeader(status)

	if encErr := json.NewEncoder(rw).Encode(genericError{Message: err.Error()}); encErr != nil {
		logger.Errorf("Unable to send error message, %s", encErr)
	}
}
