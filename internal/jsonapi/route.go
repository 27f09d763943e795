package jsonapi

import (
	"net/http"
	"regexp"
	"strings"
)

// BodyKind selects where a write route carries the non-identifier parameters.
type BodyKind int

const (
	// BodyAttributes wraps parameters as {data: {attributes: {...}}}.
	BodyAttributes BodyKind = iota
	// BodyMeta wraps parameters as {meta: {...}}; Persona action endpoints
	// such as approve or add-tag take their arguments this way.
	BodyMeta
)

// Route maps a tool onto an HTTP method and a path template. Placeholders in
// the template, such as {accountId}, name the invocation keys that are routed
// to the URL instead of the body.
type Route struct {
	Method string
	Path   string
	Body   BodyKind
}

var placeholderPattern = regexp.MustCompile(`\{([A-Za-z][A-Za-z0-9]*)\}`)

// PathParams returns the identifier keys named by the path template, in order.
func (r Route) PathParams() []string {
	matches := placeholderPattern.FindAllStringSubmatch(r.Path, -1)
	params := make([]string, 0, len(matches))
	for _, m := range matches {
		params = append(params, m[1])
	}
	return params
}

// HasBody reports whether requests on this route carry a JSON body.
func (r Route) HasBody() bool {
	switch r.Method {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
		return true
	default:
		return false
	}
}

// Routes is a tool-name keyed route table.
type Routes map[string]Route

// crudActions are trailing tool-name segments with a conventional route shape.
var crudActions = map[string]bool{
	"list":   true,
	"get":    true,
	"create": true,
	"update": true,
	"delete": true,
	"redact": true,
}

// ConventionalRoute derives a route for a tool that has no registered route.
//
//	account_list        GET    /accounts
//	account_get         GET    /accounts/{accountId}
//	account_create      POST   /accounts
//	account_update      PATCH  /accounts/{accountId}
//	account_redact      DELETE /accounts/{accountId}
//	inquiry_mark_review POST   /inquiries/{inquiryId}/mark-review   (meta body)
//	events              GET    /events
//
// The name is assumed to already match the tool name pattern.
func ConventionalRoute(tool string) Route {
	segments := strings.FieldsFunc(tool, func(r rune) bool { return r == '_' })
	if len(segments) == 0 {
		return Route{Method: http.MethodGet, Path: "/"}
	}
	if len(segments) == 1 {
		// Single-word tools name a collection directly.
		return Route{Method: http.MethodGet, Path: "/" + segments[0]}
	}

	last := segments[len(segments)-1]
	if crudActions[last] {
		resource := segments[:len(segments)-1]
		collection := "/" + pluralize(strings.Join(resource, "-"))
		member := collection + "/{" + lowerCamel(resource) + "Id}"
		switch last {
		case "list":
			return Route{Method: http.MethodGet, Path: collection}
		case "get":
			return Route{Method: http.MethodGet, Path: member}
		case "create":
			return Route{Method: http.MethodPost, Path: collection}
		case "update":
			return Route{Method: http.MethodPatch, Path: member}
		default:
			return Route{Method: http.MethodDelete, Path: member}
		}
	}

	resource := segments[:1]
	action := strings.Join(segments[1:], "-")
	return Route{
		Method: http.MethodPost,
		Path:   "/" + pluralize(resource[0]) + "/{" + lowerCamel(resource) + "Id}/" + action,
		Body:   BodyMeta,
	}
}

func pluralize(s string) string {
	switch {
	case strings.HasSuffix(s, "y") && len(s) > 1 && !strings.ContainsRune("aeiou", rune(s[len(s)-2])):
		return s[:len(s)-1] + "ies"
	case strings.HasSuffix(s, "s"), strings.HasSuffix(s, "x"),
		strings.HasSuffix(s, "ch"), strings.HasSuffix(s, "sh"):
		return s + "es"
	default:
		return s + "s"
	}
}

func lowerCamel(words []string) string {
	var b strings.Builder
	for i, w := range words {
		if w == "" {
			continue
		}
		if i == 0 {
			b.WriteString(w)
			continue
		}
		b.WriteString(strings.ToUpper(w[:1]))
		b.WriteString(w[1:])
	}
	return b.String()
}
