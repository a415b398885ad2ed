/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package did contains the DID and DID URL grammar along with the DID
// document model and its JSON serialization.
package did

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/erikh/did-toolkit/pkg/doc/jose/jwk"
)

// Document property names.
const (
	propID                   = "id"
	propAlsoKnownAs          = "alsoKnownAs"
	propController           = "controller"
	propVerificationMethod   = "verificationMethod"
	propAuthentication       = "authentication"
	propAssertionMethod      = "assertionMethod"
	propKeyAgreement         = "keyAgreement"
	propCapabilityInvocation = "capabilityInvocation"
	propCapabilityDelegation = "capabilityDelegation"
	propService              = "service"
	propType                 = "type"
	propPublicKeyJWK         = "publicKeyJwk"
	propPublicKeyMultibase   = "publicKeyMultibase"
	propServiceEndpoint      = "serviceEndpoint"
)

// Verification method types of the did-core registry.
const (
	TypeJSONWebKey2020                    = "JsonWebKey2020"
	TypeEcdsaSecp256k1VerificationKey2019 = "EcdsaSecp256k1VerificationKey2019"
	TypeEd25519VerificationKey2018        = "Ed25519VerificationKey2018"
	TypeBls12381G1Key2020                 = "Bls12381G1Key2020"
	TypeBls12381G2Key2020                 = "Bls12381G2Key2020"
	TypePgpVerificationKey2021            = "PgpVerificationKey2021"
	TypeEcdsaSecp256k1RecoveryMethod2020  = "EcdsaSecp256k1RecoveryMethod2020"
	TypeVerifiableCondition2021           = "VerifiableCondition2021"
)

// Registry encodings that are recognized but not supported. Parsing fails on
// them by intent rather than passing the material through silently.
//
//nolint:gochecknoglobals
var unsupportedKeyEncodings = []string{
	"publicKeyBase58",
	"publicKeyHex",
	"publicKeyPem",
	"ethereumAddress",
	"blockchainAccountId",
}

// Doc is the typed representation of a DID document.
type Doc struct {
	ID          DID
	AlsoKnownAs []DIDURL
	Controller  Controllers

	VerificationMethod []VerificationMethod

	Authentication       []Verification
	AssertionMethod      []Verification
	KeyAgreement         []Verification
	CapabilityInvocation []Verification
	CapabilityDelegation []Verification

	Service []Service

	// Additional preserves unknown top-level properties across a round trip.
	// The @context of JSON-LD producers travels here untouched.
	Additional map[string]json.RawMessage
}

// Controllers is the one-or-many controller set of a document. A single
// element marshals as a bare string, multiple as an array of strings.
type Controllers []DID

// MarshalJSON implements the json.Marshaler interface.
func (c Controllers) MarshalJSON() ([]byte, error) {
	if len(c) == 1 {
		return json.Marshal(c[0].String())
	}

	strs := make([]string, len(c))
	for i := range c {
		strs[i] = c[i].String()
	}

	return json.Marshal(strs)
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (c *Controllers) UnmarshalJSON(data []byte) error {
	parsed, err := parseControllers(data, propController)
	if err != nil {
		return err
	}

	*c = parsed

	return nil
}

// VerificationMethod describes one key entry of a document. JSONWebKey and
// Multibase are the supported public key encodings; at most one should carry
// the material, and Validate flags entries carrying both.
type VerificationMethod struct {
	ID         DIDURL
	Type       string
	Controller DID
	JSONWebKey *jwk.JWK
	Multibase  string
}

// MarshalJSON renders vm the way it appears inside a document.
func (vm VerificationMethod) MarshalJSON() ([]byte, error) {
	return json.Marshal(verificationMethodMap(&vm))
}

// Verification is one entry of a verification relationship: either an
// embedded method or a reference to a method defined elsewhere. Exactly one
// side is set by the parser; the split records per-element provenance for
// resolution.
type Verification struct {
	VerificationMethod *VerificationMethod
	Reference          *DIDURL
}

// NewEmbeddedVerification returns a relationship entry carrying the method itself.
func NewEmbeddedVerification(vm *VerificationMethod) Verification {
	return Verification{VerificationMethod: vm}
}

// NewReferencedVerification returns a relationship entry referring to a method
// defined elsewhere.
func NewReferencedVerification(ref *DIDURL) Verification {
	return Verification{Reference: ref}
}

// IsEmbedded reports whether the entry embeds its method.
func (v *Verification) IsEmbedded() bool {
	return v.VerificationMethod != nil
}

// StringOrArray is a JSON value that is either a single string or an array of
// strings. A single element marshals as a bare string.
type StringOrArray []string

// MarshalJSON implements the json.Marshaler interface.
func (s StringOrArray) MarshalJSON() ([]byte, error) {
	if len(s) == 1 {
		return json.Marshal(s[0])
	}

	return json.Marshal([]string(s))
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (s *StringOrArray) UnmarshalJSON(data []byte) error {
	if len(data) == 0 {
		return errors.New("empty value")
	}

	switch data[0] {
	case 'n': // null
		*s = nil
		return nil
	case '"':
		var one string
		if err := json.Unmarshal(data, &one); err != nil {
			return err
		}

		*s = StringOrArray{one}

		return nil
	case '[':
		var many []string
		if err := json.Unmarshal(data, &many); err != nil {
			return err
		}

		*s = many

		return nil
	default:
		return errors.New("must be a string or an array of strings")
	}
}

// Endpoint is the serviceEndpoint union: a URI string, a map, or a set of
// either. String forms collect into URIRefs and object forms into Maps.
type Endpoint struct {
	URIRefs []string
	Maps    []json.RawMessage
}

// MarshalJSON implements the json.Marshaler interface. A single value marshals
// bare, mixed or multiple values as an array with the string forms first.
func (e Endpoint) MarshalJSON() ([]byte, error) {
	switch {
	case len(e.URIRefs) == 1 && len(e.Maps) == 0:
		return json.Marshal(e.URIRefs[0])
	case len(e.URIRefs) == 0 && len(e.Maps) == 1:
		return e.Maps[0], nil
	default:
		values := make([]interface{}, 0, len(e.URIRefs)+len(e.Maps))
		for _, u := range e.URIRefs {
			values = append(values, u)
		}

		for _, m := range e.Maps {
			values = append(values, m)
		}

		return json.Marshal(values)
	}
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (e *Endpoint) UnmarshalJSON(data []byte) error {
	*e = Endpoint{}

	if len(data) == 0 {
		return errors.New("empty value")
	}

	switch data[0] {
	case 'n': // null
		return nil
	case '"':
		var uri string
		if err := json.Unmarshal(data, &uri); err != nil {
			return err
		}

		e.URIRefs = []string{uri}

		return nil
	case '{':
		e.Maps = []json.RawMessage{append(json.RawMessage{}, data...)}
		return nil
	case '[':
		var values []json.RawMessage
		if err := json.Unmarshal(data, &values); err != nil {
			return err
		}

		for _, v := range values {
			if err := e.unmarshalElement(v); err != nil {
				return err
			}
		}

		return nil
	default:
		return errors.New("must be a string, a map or an array of either")
	}
}

func (e *Endpoint) unmarshalElement(data json.RawMessage) error {
	if len(data) == 0 {
		return errors.New("empty value")
	}

	switch data[0] {
	case '"':
		var uri string
		if err := json.Unmarshal(data, &uri); err != nil {
			return err
		}

		e.URIRefs = append(e.URIRefs, uri)

		return nil
	case '{':
		e.Maps = append(e.Maps, append(json.RawMessage{}, data...))
		return nil
	default:
		return errors.New("set elements must be strings or maps")
	}
}

// Service describes a service endpoint entry of a document.
type Service struct {
	ID              string
	Type            StringOrArray
	ServiceEndpoint Endpoint

	// Properties preserves additional service members across a round trip.
	Properties map[string]json.RawMessage
}

// ParseDocument creates a Doc from its JSON representation. The document is
// first checked against a structural schema, then populated field by field;
// the first defect aborts, attributed to its field path. Validate on a
// well-formed result re-checks everything, collecting.
func ParseDocument(data []byte) (*Doc, error) {
	if err := validateJSONSchema(data); err != nil {
		return nil, err
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("document is not a JSON object: %w", err)
	}

	doc := &Doc{}

	id, err := stringEntry(raw[propID], propID)
	if err != nil {
		return nil, err
	}

	parsedID, err := Parse(id)
	if err != nil {
		return nil, &ValidationError{Field: propID, Err: err}
	}

	doc.ID = *parsedID

	if err := populateAlsoKnownAs(doc, raw); err != nil {
		return nil, err
	}

	if entry, ok := raw[propController]; ok {
		controllers, err := parseControllers(entry, propController)
		if err != nil {
			return nil, err
		}

		doc.Controller = controllers
	}

	if err := populateVerificationMethods(doc, raw); err != nil {
		return nil, err
	}

	for _, rel := range doc.relationshipSets() {
		entries, err := parseRelationship(rel.name, raw[rel.name])
		if err != nil {
			return nil, err
		}

		*rel.entries = entries
	}

	if err := populateServices(doc, raw); err != nil {
		return nil, err
	}

	populateAdditional(doc, raw)

	return doc, nil
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (doc *Doc) UnmarshalJSON(data []byte) error {
	parsed, err := ParseDocument(data)
	if err != nil {
		return err
	}

	*doc = *parsed

	return nil
}

// MarshalJSON implements the json.Marshaler interface.
func (doc *Doc) MarshalJSON() ([]byte, error) {
	return doc.JSONBytes()
}

func populateAlsoKnownAs(doc *Doc, raw map[string]json.RawMessage) error {
	entry, ok := raw[propAlsoKnownAs]
	if !ok {
		return nil
	}

	var values []string
	if err := json.Unmarshal(entry, &values); err != nil {
		return &ValidationError{Field: propAlsoKnownAs, Err: errors.New("must be an array of strings")}
	}

	for i, value := range values {
		u, err := ParseURL(value)
		if err != nil {
			return &ValidationError{Field: fmt.Sprintf("%s[%d]", propAlsoKnownAs, i), Err: err}
		}

		doc.AlsoKnownAs = append(doc.AlsoKnownAs, *u)
	}

	return nil
}

func parseControllers(data json.RawMessage, field string) (Controllers, error) {
	if len(data) == 0 {
		return nil, &ValidationError{Field: field, Err: errors.New("empty value")}
	}

	switch data[0] {
	case '"':
		var one string
		if err := json.Unmarshal(data, &one); err != nil {
			return nil, &ValidationError{Field: field, Err: err}
		}

		d, err := Parse(one)
		if err != nil {
			return nil, &ValidationError{Field: field, Err: err}
		}

		return Controllers{*d}, nil
	case '[':
		var many []string
		if err := json.Unmarshal(data, &many); err != nil {
			return nil, &ValidationError{Field: field, Err: errors.New("must be a string or an array of strings")}
		}

		controllers := make(Controllers, 0, len(many))

		for i, value := range many {
			d, err := Parse(value)
			if err != nil {
				return nil, &ValidationError{Field: fmt.Sprintf("%s[%d]", field, i), Err: err}
			}

			controllers = append(controllers, *d)
		}

		return controllers, nil
	default:
		return nil, &ValidationError{Field: field, Err: errors.New("must be a string or an array of strings")}
	}
}

func populateVerificationMethods(doc *Doc, raw map[string]json.RawMessage) error {
	entry, ok := raw[propVerificationMethod]
	if !ok {
		return nil
	}

	var entries []json.RawMessage
	if err := json.Unmarshal(entry, &entries); err != nil {
		return &ValidationError{Field: propVerificationMethod, Err: errors.New("must be an array of objects")}
	}

	for i, data := range entries {
		vm, err := parseVerificationMethod(data, fmt.Sprintf("%s[%d]", propVerificationMethod, i))
		if err != nil {
			return err
		}

		doc.VerificationMethod = append(doc.VerificationMethod, *vm)
	}

	return nil
}

func parseVerificationMethod(data json.RawMessage, field string) (*VerificationMethod, error) {
	var members map[string]json.RawMessage
	if err := json.Unmarshal(data, &members); err != nil {
		return nil, &ValidationError{Field: field, Err: errors.New("must be an object")}
	}

	// deterministic first error
	names := make([]string, 0, len(members))
	for name := range members {
		names = append(names, name)
	}

	sort.Strings(names)

	for _, name := range names {
		switch name {
		case propID, propType, propController, propPublicKeyJWK, propPublicKeyMultibase:
			continue
		}

		for _, unsupported := range unsupportedKeyEncodings {
			if name == unsupported {
				return nil, &ValidationError{
					Field: field + "." + name,
					Err:   errors.New("public key encoding is not supported"),
				}
			}
		}

		return nil, &ValidationError{Field: field + "." + name, Err: errors.New("unrecognized member")}
	}

	vm := &VerificationMethod{}

	if entry, ok := members[propID]; ok {
		id, err := stringEntry(entry, field+"."+propID)
		if err != nil {
			return nil, err
		}

		u, err := parseRef(id)
		if err != nil {
			return nil, &ValidationError{Field: field + "." + propID, Err: err}
		}

		vm.ID = *u
	}

	if entry, ok := members[propType]; ok {
		typ, err := stringEntry(entry, field+"."+propType)
		if err != nil {
			return nil, err
		}

		vm.Type = typ
	}

	if entry, ok := members[propController]; ok {
		controller, err := stringEntry(entry, field+"."+propController)
		if err != nil {
			return nil, err
		}

		d, err := Parse(controller)
		if err != nil {
			return nil, &ValidationError{Field: field + "." + propController, Err: err}
		}

		vm.Controller = *d
	}

	if entry, ok := members[propPublicKeyJWK]; ok {
		var key jwk.JWK
		if err := json.Unmarshal(entry, &key); err != nil {
			return nil, &ValidationError{Field: field + "." + propPublicKeyJWK, Err: err}
		}

		vm.JSONWebKey = &key
	}

	if entry, ok := members[propPublicKeyMultibase]; ok {
		mb, err := stringEntry(entry, field+"."+propPublicKeyMultibase)
		if err != nil {
			return nil, err
		}

		vm.Multibase = mb
	}

	return vm, nil
}

func parseRelationship(name string, entry json.RawMessage) ([]Verification, error) {
	if entry == nil {
		return nil, nil
	}

	var entries []json.RawMessage
	if err := json.Unmarshal(entry, &entries); err != nil {
		return nil, &ValidationError{Field: name, Err: errors.New("must be an array")}
	}

	var verifications []Verification

	for i, data := range entries {
		field := fmt.Sprintf("%s[%d]", name, i)

		if len(data) == 0 {
			return nil, &ValidationError{Field: field, Err: errors.New("empty value")}
		}

		switch data[0] {
		case '{':
			vm, err := parseVerificationMethod(data, field)
			if err != nil {
				return nil, err
			}

			verifications = append(verifications, NewEmbeddedVerification(vm))
		case '"':
			var ref string
			if err := json.Unmarshal(data, &ref); err != nil {
				return nil, &ValidationError{Field: field, Err: err}
			}

			u, err := parseRef(ref)
			if err != nil {
				return nil, &ValidationError{Field: field, Err: err}
			}

			verifications = append(verifications, NewReferencedVerification(u))
		default:
			return nil, &ValidationError{
				Field: field,
				Err:   errors.New("entry is neither an embedded verification method nor a reference"),
			}
		}
	}

	return verifications, nil
}

func populateServices(doc *Doc, raw map[string]json.RawMessage) error {
	entry, ok := raw[propService]
	if !ok {
		return nil
	}

	var entries []json.RawMessage
	if err := json.Unmarshal(entry, &entries); err != nil {
		return &ValidationError{Field: propService, Err: errors.New("must be an array of objects")}
	}

	for i, data := range entries {
		field := fmt.Sprintf("%s[%d]", propService, i)

		svc, err := parseService(data, field)
		if err != nil {
			return err
		}

		doc.Service = append(doc.Service, *svc)
	}

	return nil
}

func parseService(data json.RawMessage, field string) (*Service, error) {
	var members map[string]json.RawMessage
	if err := json.Unmarshal(data, &members); err != nil {
		return nil, &ValidationError{Field: field, Err: errors.New("must be an object")}
	}

	svc := &Service{}

	if entry, ok := members[propID]; ok {
		id, err := stringEntry(entry, field+"."+propID)
		if err != nil {
			return nil, err
		}

		svc.ID = id
		delete(members, propID)
	}

	if entry, ok := members[propType]; ok {
		if err := svc.Type.UnmarshalJSON(entry); err != nil {
			return nil, &ValidationError{Field: field + "." + propType, Err: err}
		}

		delete(members, propType)
	}

	if entry, ok := members[propServiceEndpoint]; ok {
		if err := svc.ServiceEndpoint.UnmarshalJSON(entry); err != nil {
			return nil, &ValidationError{Field: field + "." + propServiceEndpoint, Err: err}
		}

		delete(members, propServiceEndpoint)
	}

	if len(members) > 0 {
		svc.Properties = make(map[string]json.RawMessage, len(members))
		for name, value := range members {
			svc.Properties[name] = append(json.RawMessage{}, value...)
		}
	}

	return svc, nil
}

func populateAdditional(doc *Doc, raw map[string]json.RawMessage) {
	for name, value := range raw {
		if isKnownProperty(name) {
			continue
		}

		if doc.Additional == nil {
			doc.Additional = make(map[string]json.RawMessage)
		}

		doc.Additional[name] = append(json.RawMessage{}, value...)
	}
}

func isKnownProperty(name string) bool {
	switch name {
	case propID, propAlsoKnownAs, propController, propVerificationMethod,
		propAuthentication, propAssertionMethod, propKeyAgreement,
		propCapabilityInvocation, propCapabilityDelegation, propService:
		return true
	}

	return false
}

func stringEntry(entry json.RawMessage, field string) (string, error) {
	if entry == nil {
		return "", &ValidationError{Field: field, Err: errors.New("missing")}
	}

	var s string
	if err := json.Unmarshal(entry, &s); err != nil {
		return "", &ValidationError{Field: field, Err: errors.New("must be a string")}
	}

	return s, nil
}

// JSONBytes converts the document to its JSON representation. Empty
// collections are omitted rather than emitted as empty arrays, and a single
// controller is emitted as a bare string. Serialization never validates:
// deliberately invalid documents serialize so that they can be used against
// other implementations.
func (doc *Doc) JSONBytes() ([]byte, error) {
	out := make(map[string]interface{})

	if !doc.ID.isZero() {
		out[propID] = doc.ID.String()
	}

	if len(doc.AlsoKnownAs) > 0 {
		values := make([]string, len(doc.AlsoKnownAs))
		for i := range doc.AlsoKnownAs {
			values[i] = doc.AlsoKnownAs[i].String()
		}

		out[propAlsoKnownAs] = values
	}

	if len(doc.Controller) > 0 {
		out[propController] = doc.Controller
	}

	if len(doc.VerificationMethod) > 0 {
		values := make([]interface{}, len(doc.VerificationMethod))
		for i := range doc.VerificationMethod {
			values[i] = verificationMethodMap(&doc.VerificationMethod[i])
		}

		out[propVerificationMethod] = values
	}

	for _, rel := range doc.relationshipSets() {
		if len(*rel.entries) == 0 {
			continue
		}

		values := make([]interface{}, 0, len(*rel.entries))

		for _, entry := range *rel.entries {
			switch {
			case entry.VerificationMethod != nil:
				values = append(values, verificationMethodMap(entry.VerificationMethod))
			case entry.Reference != nil:
				values = append(values, entry.Reference.String())
			default:
				return nil, fmt.Errorf("%s entry has neither an embedded method nor a reference", rel.name)
			}
		}

		out[rel.name] = values
	}

	if len(doc.Service) > 0 {
		values := make([]interface{}, len(doc.Service))
		for i := range doc.Service {
			values[i] = serviceMap(&doc.Service[i])
		}

		out[propService] = values
	}

	for name, value := range doc.Additional {
		if _, taken := out[name]; !taken {
			out[name] = value
		}
	}

	bytes, err := json.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("marshal did doc: %w", err)
	}

	return bytes, nil
}

func verificationMethodMap(vm *VerificationMethod) map[string]interface{} {
	m := make(map[string]interface{})

	if !vm.ID.isZero() {
		m[propID] = vm.ID.String()
	}

	if vm.Type != "" {
		m[propType] = vm.Type
	}

	if !vm.Controller.isZero() {
		m[propController] = vm.Controller.String()
	}

	if vm.JSONWebKey != nil {
		m[propPublicKeyJWK] = vm.JSONWebKey
	}

	if vm.Multibase != "" {
		m[propPublicKeyMultibase] = vm.Multibase
	}

	return m
}

func serviceMap(svc *Service) map[string]interface{} {
	m := make(map[string]interface{})

	if svc.ID != "" {
		m[propID] = svc.ID
	}

	if len(svc.Type) > 0 {
		m[propType] = svc.Type
	}

	if len(svc.ServiceEndpoint.URIRefs) > 0 || len(svc.ServiceEndpoint.Maps) > 0 {
		m[propServiceEndpoint] = svc.ServiceEndpoint
	}

	for name, value := range svc.Properties {
		if _, taken := m[name]; !taken {
			m[name] = value
		}
	}

	return m
}

// relationshipSet pairs a relationship property name with its entries.
type relationshipSet struct {
	name    string
	entries *[]Verification
}

func (doc *Doc) relationshipSets() []relationshipSet {
	return []relationshipSet{
		{propAuthentication, &doc.Authentication},
		{propAssertionMethod, &doc.AssertionMethod},
		{propKeyAgreement, &doc.KeyAgreement},
		{propCapabilityInvocation, &doc.CapabilityInvocation},
		{propCapabilityDelegation, &doc.CapabilityDelegation},
	}
}

// AllVerificationMethods returns the declared methods followed by every
// embedded relationship entry.
func (doc *Doc) AllVerificationMethods() []VerificationMethod {
	out := append([]VerificationMethod{}, doc.VerificationMethod...)

	for _, rel := range doc.relationshipSets() {
		for _, entry := range *rel.entries {
			if entry.VerificationMethod != nil {
				out = append(out, *entry.VerificationMethod)
			}
		}
	}

	return out
}

// FindVerificationMethod searches the document for the method addressed by
// target, matching on the fragment. Relative ids are owned by the document
// id, so an absolute target only matches within the same DID. When the
// fragment is present only as a reference entry, the reference target is
// returned for the caller to follow.
func (doc *Doc) FindVerificationMethod(target *DIDURL) (*VerificationMethod, *DIDURL) {
	if target.Fragment == "" {
		return nil, nil
	}

	owner := func(id *DIDURL) string {
		if id.IsRelative() {
			return doc.ID.String()
		}

		return id.DID.String()
	}

	matches := func(id *DIDURL) bool {
		return id.Fragment == target.Fragment && owner(id) == owner(target)
	}

	for i := range doc.VerificationMethod {
		if matches(&doc.VerificationMethod[i].ID) {
			vm := doc.VerificationMethod[i]
			return &vm, nil
		}
	}

	for _, rel := range doc.relationshipSets() {
		for _, entry := range *rel.entries {
			if entry.VerificationMethod != nil && matches(&entry.VerificationMethod.ID) {
				vm := *entry.VerificationMethod
				return &vm, nil
			}
		}
	}

	// A reference entry names the fragment within this document even though
	// its own target may live elsewhere, so it only answers targets that
	// address this document.
	if owner(target) == doc.ID.String() {
		for _, rel := range doc.relationshipSets() {
			for _, entry := range *rel.entries {
				if entry.Reference != nil && entry.Reference.Fragment == target.Fragment {
					return nil, entry.Reference.clone()
				}
			}
		}
	}

	return nil, nil
}

// DocOption configures BuildDoc.
type DocOption func(doc *Doc)

// WithAlsoKnownAs appends alsoKnownAs entries.
func WithAlsoKnownAs(urls ...DIDURL) DocOption {
	return func(doc *Doc) {
		doc.AlsoKnownAs = append(doc.AlsoKnownAs, urls...)
	}
}

// WithControllers appends controller DIDs.
func WithControllers(controllers ...DID) DocOption {
	return func(doc *Doc) {
		doc.Controller = append(doc.Controller, controllers...)
	}
}

// WithVerificationMethods appends declared verification methods.
func WithVerificationMethods(vms ...VerificationMethod) DocOption {
	return func(doc *Doc) {
		doc.VerificationMethod = append(doc.VerificationMethod, vms...)
	}
}

// WithAuthentications appends authentication entries.
func WithAuthentications(entries ...Verification) DocOption {
	return func(doc *Doc) {
		doc.Authentication = append(doc.Authentication, entries...)
	}
}

// WithAssertionMethods appends assertionMethod entries.
func WithAssertionMethods(entries ...Verification) DocOption {
	return func(doc *Doc) {
		doc.AssertionMethod = append(doc.AssertionMethod, entries...)
	}
}

// WithKeyAgreements appends keyAgreement entries.
func WithKeyAgreements(entries ...Verification) DocOption {
	return func(doc *Doc) {
		doc.KeyAgreement = append(doc.KeyAgreement, entries...)
	}
}

// WithCapabilityInvocations appends capabilityInvocation entries.
func WithCapabilityInvocations(entries ...Verification) DocOption {
	return func(doc *Doc) {
		doc.CapabilityInvocation = append(doc.CapabilityInvocation, entries...)
	}
}

// WithCapabilityDelegations appends capabilityDelegation entries.
func WithCapabilityDelegations(entries ...Verification) DocOption {
	return func(doc *Doc) {
		doc.CapabilityDelegation = append(doc.CapabilityDelegation, entries...)
	}
}

// WithServices appends service entries.
func WithServices(services ...Service) DocOption {
	return func(doc *Doc) {
		doc.Service = append(doc.Service, services...)
	}
}

// BuildDoc assembles a document from the given options. Assembly never gates
// on validation; run Validate to collect defects.
func BuildDoc(id DID, opts ...DocOption) *Doc {
	doc := &Doc{ID: id}

	for _, opt := range opts {
		opt(doc)
	}

	return doc
}
