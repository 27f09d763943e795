package mcp

import (
	"errors"
	"strconv"

	"github.com/fyrsmithlabs/persona-mcp/internal/jsonapi"
)

var (
	// ErrInvalidArguments marks tool arguments rejected by the input schema.
	ErrInvalidArguments = errors.New("invalid arguments")
	// ErrUpstreamUnavailable marks a Persona call that produced no response.
	ErrUpstreamUnavailable = errors.New("persona unavailable")
)

// Error codes reported for failures that did not come from Persona.
const (
	CodeInvalidArguments    = "invalid_arguments"
	CodeInvalidToolName     = "invalid_tool_name"
	CodeMalformedInvocation = "malformed_invocation"
	CodeUpstreamError       = "upstream_error"
	CodeUpstreamUnavailable = "upstream_unavailable"
	CodeUnparseable         = "unparseable_response"
	CodeInternal            = "internal_error"
)

// ToolError is one entry of a failed tool result. Pointer and Parameter name
// the offending input so the caller can correct its next invocation.
type ToolError struct {
	Code      string `json:"code"`
	Status    string `json:"status,omitempty"`
	Title     string `json:"title,omitempty"`
	Detail    string `json:"detail,omitempty"`
	Pointer   string `json:"pointer,omitempty"`
	Parameter string `json:"parameter,omitempty"`
}

// ErrorPayload is the structured content of a failed tool result.
type ErrorPayload struct {
	Tool   string      `json:"tool"`
	Errors []ToolError `json:"errors"`
}

// argumentError reports arguments that failed schema validation.
type argumentError struct {
	tool   string
	reason string
}

func (e *argumentError) Error() string {
	return ErrInvalidArguments.Error() + " for " + e.tool + ": " + e.reason
}

func (e *argumentError) Unwrap() error {
	return ErrInvalidArguments
}

// toolErrors flattens an invocation error into reportable entries.
func toolErrors(err error) []ToolError {
	var (
		argErr      *argumentError
		invocation  *jsonapi.InvocationError
		upstream    *jsonapi.UpstreamError
		unparseable *jsonapi.ResponseError
	)

	switch {
	case errors.As(err, &argErr):
		return []ToolError{{
			Code:   CodeInvalidArguments,
			Title:  "Invalid arguments",
			Detail: argErr.reason,
		}}
	case errors.As(err, &invocation):
		code := CodeMalformedInvocation
		title := "Malformed invocation"
		if errors.Is(invocation.Kind, jsonapi.ErrInvalidToolName) {
			code = CodeInvalidToolName
			title = "Invalid tool name"
		}
		te := ToolError{
			Code:      code,
			Title:     title,
			Detail:    invocation.Reason,
			Parameter: invocation.Param,
		}
		if invocation.Param != "" {
			te.Pointer = "/" + invocation.Param
		}
		return []ToolError{te}
	case errors.As(err, &upstream):
		out := make([]ToolError, 0, len(upstream.Errors))
		for _, d := range upstream.Errors {
			code := d.Code
			if code == "" {
				code = CodeUpstreamError
			}
			status := d.Status
			if status == "" {
				status = strconv.Itoa(upstream.HTTPStatus)
			}
			out = append(out, ToolError{
				Code:      code,
				Status:    status,
				Title:     d.Title,
				Detail:    d.Detail,
				Pointer:   d.Pointer,
				Parameter: d.Parameter,
			})
		}
		if len(out) == 0 {
			d := upstream.First()
			out = append(out, ToolError{Code: CodeUpstreamError, Status: d.Status, Title: d.Title})
		}
		return out
	case errors.As(err, &unparseable):
		return []ToolError{{
			Code:   CodeUnparseable,
			Status: strconv.Itoa(unparseable.HTTPStatus),
			Title:  "Unparseable response",
			Detail: unparseable.Reason,
		}}
	case errors.Is(err, ErrUpstreamUnavailable):
		return []ToolError{{
			Code:   CodeUpstreamUnavailable,
			Title:  "Persona unavailable",
			Detail: err.Error(),
		}}
	default:
		return []ToolError{{
			Code:   CodeInternal,
			Title:  "Internal error",
			Detail: err.Error(),
		}}
	}
}
