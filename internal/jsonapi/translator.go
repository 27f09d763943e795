package jsonapi

import (
	"encoding/json"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

var toolNamePattern = regexp.MustCompile(`^[a-z_]+$`)

// ValidToolName reports whether name matches ^[a-z_]+$.
func ValidToolName(name string) bool {
	return toolNamePattern.MatchString(name)
}

// Request is an encoded tool invocation, ready for the HTTP transport.
type Request struct {
	Tool   string
	Method string
	// Path has identifiers substituted and escaped.
	Path string
	// Route is the unsubstituted path template, suitable as a metrics label.
	Route string
	Query url.Values
	// Body is nil for read routes.
	Body *ResourceEnvelope
}

// BodyJSON marshals the request body, or returns nil when there is none.
func (r *Request) BodyJSON() ([]byte, error) {
	if r.Body == nil {
		return nil, nil
	}
	b, err := json.Marshal(r.Body)
	if err != nil {
		return nil, fmt.Errorf("marshal %s request body: %w", r.Tool, err)
	}
	return b, nil
}

// Translator encodes tool invocations and decodes API responses.
type Translator struct {
	routes Routes
}

// NewTranslator returns a Translator over a copy of routes. Tools missing from
// the table are routed by ConventionalRoute.
func NewTranslator(routes Routes) *Translator {
	copied := make(Routes, len(routes))
	for name, r := range routes {
		copied[name] = r
	}
	return &Translator{routes: copied}
}

// Route returns the route for tool and whether it was registered explicitly.
func (t *Translator) Route(tool string) (Route, bool) {
	if r, ok := t.routes[tool]; ok {
		return r, true
	}
	return ConventionalRoute(tool), false
}

// Encode translates a flat invocation into an outbound request.
func (t *Translator) Encode(tool string, params map[string]any) (*Request, error) {
	if !ValidToolName(tool) {
		return nil, &InvocationError{
			Kind:   ErrInvalidToolName,
			Tool:   tool,
			Reason: "must match ^[a-z_]+$",
		}
	}
	for _, reserved := range []string{KeyData, KeyAttributes} {
		if _, ok := params[reserved]; ok {
			return nil, malformed(tool, reserved, "parameters must be flat; do not wrap them in data or attributes")
		}
	}

	route, _ := t.Route(tool)

	path := route.Path
	pathKeys := route.PathParams()
	for _, key := range pathKeys {
		id, err := identifier(params[key])
		if err != nil {
			return nil, malformed(tool, key, err.Error())
		}
		path = strings.Replace(path, "{"+key+"}", url.PathEscape(id), 1)
	}

	rest := make(map[string]any, len(params))
	for k, v := range params {
		rest[k] = v
	}
	for _, key := range pathKeys {
		delete(rest, key)
	}

	req := &Request{
		Tool:   tool,
		Method: route.Method,
		Path:   path,
		Route:  route.Path,
	}

	if !route.HasBody() {
		q, err := ParseQueryParams(tool, rest)
		if err != nil {
			return nil, err
		}
		if !q.IsZero() {
			req.Query = q.Values()
		}
		return req, nil
	}

	if fields, ok := rest[KeyFields]; ok && fields != nil {
		if _, isObject := fields.(map[string]any); !isObject {
			return nil, malformed(tool, KeyFields, "must be an object")
		}
	}

	switch route.Body {
	case BodyMeta:
		req.Body = &ResourceEnvelope{Meta: rest}
	default:
		req.Body = &ResourceEnvelope{Data: &ResourceObject{Attributes: rest}}
	}
	return req, nil
}

// identifier renders a path identifier, rejecting missing, empty and
// dot-segment values.
func identifier(val any) (string, error) {
	switch v := val.(type) {
	case nil:
		return "", fmt.Errorf("required identifier is missing")
	case string:
		switch strings.TrimSpace(v) {
		case "":
			return "", fmt.Errorf("required identifier is empty")
		case ".", "..":
			return "", fmt.Errorf("identifier %q is a path dot segment", v)
		}
		return v, nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case int:
		return strconv.Itoa(v), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	default:
		return "", fmt.Errorf("identifier must be a string, got %T", val)
	}
}
