package jsonapi

import "encoding/json"

// Reserved top-level keys. A caller that supplies one of these has already
// wrapped its parameters and would be double-wrapped by Encode.
const (
	KeyData       = "data"
	KeyAttributes = "attributes"
)

// KeyFields is passed through verbatim as a nested object inside attributes.
const KeyFields = "fields"

// ResourceEnvelope is the wire-level JSON:API request or response document.
type ResourceEnvelope struct {
	Data     *ResourceObject  `json:"data,omitempty"`
	Meta     map[string]any   `json:"meta,omitempty"`
	Included []ResourceObject `json:"included,omitempty"`
	Links    *Links           `json:"links,omitempty"`
}

// ResourceObject is a single JSON:API resource.
type ResourceObject struct {
	Type          string         `json:"type,omitempty"`
	ID            string         `json:"id,omitempty"`
	Attributes    map[string]any `json:"attributes"`
	Relationships map[string]any `json:"relationships,omitempty"`
}

// Links carries the cursor links Persona returns on list endpoints.
type Links struct {
	Prev string `json:"prev,omitempty"`
	Next string `json:"next,omitempty"`
}

// APIErrorResponse is the JSON:API error document.
type APIErrorResponse struct {
	Errors []APIError `json:"errors"`
}

// APIError is a single entry of a JSON:API error document.
type APIError struct {
	ID     string         `json:"id,omitempty"`
	Status string         `json:"status,omitempty"`
	Code   string         `json:"code,omitempty"`
	Title  string         `json:"title,omitempty"`
	Detail string         `json:"detail,omitempty"`
	Source *ErrorSource   `json:"source,omitempty"`
	Meta   map[string]any `json:"meta,omitempty"`
}

// ErrorSource points at the part of the request that caused an error.
type ErrorSource struct {
	Pointer   string `json:"pointer,omitempty"`
	Parameter string `json:"parameter,omitempty"`
}

// rawDocument is used while decoding, before the shape of data is known.
type rawDocument struct {
	Data     json.RawMessage  `json:"data"`
	Errors   *json.RawMessage `json:"errors"`
	Included []ResourceObject `json:"included"`
	Meta     map[string]any   `json:"meta"`
	Links    *Links           `json:"links"`
}
