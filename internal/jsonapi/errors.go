package jsonapi

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

// Error kinds. Match with errors.Is; use errors.As with the carrier types for
// the structured detail.
var (
	ErrInvalidToolName     = errors.New("invalid tool name")
	ErrMalformedInvocation = errors.New("malformed invocation")
	ErrUpstream            = errors.New("upstream error")
	ErrUnparseableResponse = errors.New("unparseable response")
)

// InvocationError reports a tool invocation that could not be encoded.
type InvocationError struct {
	Kind   error  // ErrInvalidToolName or ErrMalformedInvocation
	Tool   string // tool name as supplied
	Param  string // offending parameter, if any
	Reason string
}

func (e *InvocationError) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.Error())
	if e.Tool != "" {
		fmt.Fprintf(&b, " %q", e.Tool)
	}
	if e.Param != "" {
		fmt.Fprintf(&b, ": parameter %q", e.Param)
	}
	if e.Reason != "" {
		b.WriteString(": ")
		b.WriteString(e.Reason)
	}
	return b.String()
}

func (e *InvocationError) Unwrap() error {
	return e.Kind
}

// DomainError is one upstream JSON:API error entry, flattened for callers.
// Pointer and Parameter are carried unchanged; an assistant uses them to fix
// its next invocation.
type DomainError struct {
	ID        string         `json:"id,omitempty"`
	Status    string         `json:"status,omitempty"`
	Code      string         `json:"code,omitempty"`
	Title     string         `json:"title,omitempty"`
	Detail    string         `json:"detail,omitempty"`
	Pointer   string         `json:"pointer,omitempty"`
	Parameter string         `json:"parameter,omitempty"`
	Meta      map[string]any `json:"meta,omitempty"`
}

// Actionable reports whether the entry says anything a caller can act on.
func (d DomainError) Actionable() bool {
	return d.Title != "" || d.Detail != "" || d.Code != ""
}

func (d DomainError) String() string {
	parts := make([]string, 0, 4)
	if d.Code != "" {
		parts = append(parts, d.Code)
	}
	switch {
	case d.Title != "" && d.Detail != "":
		parts = append(parts, d.Title+": "+d.Detail)
	case d.Title != "":
		parts = append(parts, d.Title)
	case d.Detail != "":
		parts = append(parts, d.Detail)
	}
	if d.Pointer != "" {
		parts = append(parts, "at "+d.Pointer)
	}
	if d.Parameter != "" {
		parts = append(parts, "parameter "+d.Parameter)
	}
	if len(parts) == 0 {
		return "unknown error"
	}
	return strings.Join(parts, " ")
}

func domainErrorFrom(e APIError) DomainError {
	d := DomainError{
		ID:     e.ID,
		Status: e.Status,
		Code:   e.Code,
		Title:  e.Title,
		Detail: e.Detail,
		Meta:   e.Meta,
	}
	if e.Source != nil {
		d.Pointer = e.Source.Pointer
		d.Parameter = e.Source.Parameter
	}
	return d
}

// UpstreamError is a JSON:API error document returned by the upstream API.
type UpstreamError struct {
	HTTPStatus int
	Errors     []DomainError
}

func (e *UpstreamError) Error() string {
	msgs := make([]string, 0, len(e.Errors))
	for _, d := range e.Errors {
		msgs = append(msgs, d.String())
	}
	return fmt.Sprintf("%s (HTTP %d): %s", ErrUpstream, e.HTTPStatus, strings.Join(msgs, "; "))
}

func (e *UpstreamError) Unwrap() error {
	return ErrUpstream
}

// First returns the first error entry. Decode never produces an empty list.
func (e *UpstreamError) First() DomainError {
	if len(e.Errors) == 0 {
		return statusError(e.HTTPStatus)
	}
	return e.Errors[0]
}

// ResponseError reports a response body matching neither expected shape.
type ResponseError struct {
	HTTPStatus int
	Reason     string
	Err        error
}

func (e *ResponseError) Error() string {
	msg := fmt.Sprintf("%s (HTTP %d): %s", ErrUnparseableResponse, e.HTTPStatus, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ResponseError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrUnparseableResponse}
	}
	return []error{ErrUnparseableResponse, e.Err}
}

// statusError synthesises an entry for an error response with no detail.
func statusError(status int) DomainError {
	title := http.StatusText(status)
	if title == "" {
		title = "Unexpected status"
	}
	return DomainError{
		Status: strconv.Itoa(status),
		Title:  title,
	}
}

func malformed(tool, param, reason string) error {
	return &InvocationError{Kind: ErrMalformedInvocation, Tool: tool, Param: param, Reason: reason}
}
