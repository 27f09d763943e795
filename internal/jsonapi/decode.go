package jsonapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Result is a decoded JSON:API success document.
type Result struct {
	// Data is the flattened primary resource of a single-resource document.
	Data map[string]any `json:"data,omitempty"`
	// Items holds the flattened resources of a collection document.
	Items []map[string]any `json:"items,omitempty"`
	// Collection is true when the primary data was an array.
	Collection bool             `json:"collection,omitempty"`
	Included   []map[string]any `json:"included,omitempty"`
	Meta       map[string]any   `json:"meta,omitempty"`
	Links      *Links           `json:"links,omitempty"`
}

// Decode is the mirror image of Encode; it does not depend on the route table.
func (t *Translator) Decode(status int, body []byte) (*Result, error) {
	return Decode(status, body)
}

// Decode parses an upstream response. Error documents yield *UpstreamError,
// bodies of neither shape yield *ResponseError.
func Decode(status int, body []byte) (*Result, error) {
	success := status >= 200 && status < 300

	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		if success {
			return &Result{}, nil
		}
		return nil, &ResponseError{HTTPStatus: status, Reason: "empty body"}
	}

	var doc rawDocument
	if err := json.Unmarshal(trimmed, &doc); err != nil {
		return nil, &ResponseError{HTTPStatus: status, Reason: "body is not a JSON object", Err: err}
	}

	if doc.Errors != nil {
		var entries []json.RawMessage
		if err := json.Unmarshal(*doc.Errors, &entries); err != nil {
			return nil, &ResponseError{HTTPStatus: status, Reason: "errors is not an array", Err: err}
		}
		domain := make([]DomainError, 0, len(entries))
		for _, raw := range entries {
			if d, ok := decodeErrorEntry(raw); ok {
				domain = append(domain, d)
			}
		}
		switch {
		case len(domain) > 0:
			return nil, &UpstreamError{HTTPStatus: status, Errors: domain}
		case !success:
			return nil, &UpstreamError{HTTPStatus: status, Errors: []DomainError{statusError(status)}}
		case len(entries) > 0:
			return nil, &ResponseError{HTTPStatus: status, Reason: "errors has no usable entries"}
		}
	}

	if !success {
		return nil, &ResponseError{HTTPStatus: status, Reason: "error status without an error document"}
	}

	result := &Result{
		Meta:  doc.Meta,
		Links: doc.Links,
	}
	for _, inc := range doc.Included {
		result.Included = append(result.Included, flatten(inc))
	}

	data := bytes.TrimSpace(doc.Data)
	switch {
	case len(data) == 0:
		if doc.Meta == nil && doc.Errors == nil {
			return nil, &ResponseError{HTTPStatus: status, Reason: "document has neither data nor errors"}
		}
	case bytes.Equal(data, []byte("null")):
	case data[0] == '[':
		var objs []ResourceObject
		if err := json.Unmarshal(data, &objs); err != nil {
			return nil, &ResponseError{HTTPStatus: status, Reason: "data is not an array of resources", Err: err}
		}
		result.Collection = true
		result.Items = make([]map[string]any, 0, len(objs))
		for _, obj := range objs {
			result.Items = append(result.Items, flatten(obj))
		}
	case data[0] == '{':
		var obj ResourceObject
		if err := json.Unmarshal(data, &obj); err != nil {
			return nil, &ResponseError{HTTPStatus: status, Reason: "data is not a resource object", Err: err}
		}
		result.Data = flatten(obj)
	default:
		return nil, &ResponseError{HTTPStatus: status, Reason: fmt.Sprintf("unexpected data value %.20q", string(data))}
	}

	return result, nil
}

// decodeErrorEntry decodes one entry of an errors array on its own, so a
// single non-conforming entry does not cost the others their pointers.
// Scalar members are accepted in any JSON type; Persona has sent numeric
// status values.
func decodeErrorEntry(raw json.RawMessage) (DomainError, bool) {
	var entry map[string]any
	if err := json.Unmarshal(raw, &entry); err != nil || entry == nil {
		var text string
		if json.Unmarshal(raw, &text) == nil && text != "" {
			return DomainError{Detail: text}, true
		}
		return DomainError{}, false
	}

	e := APIError{
		ID:     memberString(entry["id"]),
		Status: memberString(entry["status"]),
		Code:   memberString(entry["code"]),
		Title:  memberString(entry["title"]),
		Detail: memberString(entry["detail"]),
	}
	if src, ok := entry["source"].(map[string]any); ok {
		e.Source = &ErrorSource{
			Pointer:   memberString(src["pointer"]),
			Parameter: memberString(src["parameter"]),
		}
	}
	if meta, ok := entry["meta"].(map[string]any); ok {
		e.Meta = meta
	}
	return domainErrorFrom(e), true
}

func memberString(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprint(v)
		}
		return string(b)
	}
}

// flatten merges id, type and relationships into a copy of the attributes.
func flatten(obj ResourceObject) map[string]any {
	out := make(map[string]any, len(obj.Attributes)+3)
	for k, v := range obj.Attributes {
		out[k] = v
	}
	if obj.ID != "" {
		out["id"] = obj.ID
	}
	if obj.Type != "" {
		out["type"] = obj.Type
	}
	if len(obj.Relationships) > 0 {
		out["relationships"] = obj.Relationships
	}
	return out
}
