package mcp

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyrsmithlabs/persona-mcp/internal/jsonapi"
)

func callTool(t *testing.T, cs *mcp.ClientSession, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	res, err := cs.CallTool(context.Background(), &mcp.CallToolParams{Name: name, Arguments: args})
	require.NoError(t, err)
	return res
}

func TestTool_InquiryCreate(t *testing.T) {
	fake := newFakePersona()
	fake.respond("inquiry_create", http.StatusCreated, `{
		"data": {
			"type": "inquiry",
			"id": "inq_ABC",
			"attributes": {"status": "created", "referenceId": "user-1", "fields": {"nameFirst": {"type": "string", "value": "Jane"}}}
		}
	}`)
	cs := connect(t, newTestServer(t, nil, fake))

	res := callTool(t, cs, "inquiry_create", map[string]any{
		"inquiryTemplateId": "itmpl_XYZ",
		"referenceId":       "user-1",
		"fields":            map[string]any{"nameFirst": "Jane"},
	})
	require.False(t, res.IsError)

	req := fake.lastRequest(t)
	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, "/inquiries", req.Path)
	require.NotNil(t, req.Body)
	require.NotNil(t, req.Body.Data)
	assert.Equal(t, map[string]any{
		"inquiryTemplateId": "itmpl_XYZ",
		"referenceId":       "user-1",
		"fields":            map[string]any{"nameFirst": "Jane"},
	}, req.Body.Data.Attributes)

	var payload map[string]any
	resultText(t, res, &payload)
	data, ok := payload["data"].(map[string]any)
	require.True(t, ok, "data is %T", payload["data"])
	assert.Equal(t, "inq_ABC", data["id"])
	assert.Equal(t, "inquiry", data["type"])
	assert.Equal(t, "created", data["status"])
}

func TestTool_AccountUpdate(t *testing.T) {
	fake := newFakePersona()
	fake.respond("account_update", http.StatusOK, `{
		"data": {"type": "account", "id": "act_123", "attributes": {"email": "jane@example.com"}}
	}`)
	cs := connect(t, newTestServer(t, nil, fake))

	res := callTool(t, cs, "account_update", map[string]any{
		"accountId": "act_123",
		"email":     "jane@example.com",
	})
	require.False(t, res.IsError)

	req := fake.lastRequest(t)
	assert.Equal(t, http.MethodPatch, req.Method)
	assert.Equal(t, "/accounts/act_123", req.Path)
	require.NotNil(t, req.Body.Data)
	assert.Equal(t, map[string]any{"email": "jane@example.com"}, req.Body.Data.Attributes)
	assert.NotContains(t, req.Body.Data.Attributes, "accountId")
}

func TestTool_ListWithPagination(t *testing.T) {
	fake := newFakePersona()
	fake.respond("inquiry_list", http.StatusOK, `{
		"data": [
			{"type": "inquiry", "id": "inq_1", "attributes": {"status": "approved"}},
			{"type": "inquiry", "id": "inq_2", "attributes": {"status": "declined"}}
		],
		"links": {"next": "/api/v1/inquiries?page%5Bafter%5D=inq_2"}
	}`)
	cs := connect(t, newTestServer(t, nil, fake))

	res := callTool(t, cs, "inquiry_list", map[string]any{
		"pageSize":  10,
		"status":    "approved",
		"accountId": "act_123",
	})
	require.False(t, res.IsError)

	req := fake.lastRequest(t)
	assert.Equal(t, http.MethodGet, req.Method)
	assert.Equal(t, "/inquiries", req.Path)
	assert.Nil(t, req.Body)
	assert.Equal(t, "10", req.Query.Get("page[size]"))
	assert.Equal(t, "approved", req.Query.Get("filter[status]"))
	assert.Equal(t, "act_123", req.Query.Get("filter[accountId]"))

	var payload struct {
		Data  []map[string]any `json:"data"`
		Links map[string]any   `json:"links"`
	}
	resultText(t, res, &payload)
	require.Len(t, payload.Data, 2)
	assert.Equal(t, "inq_1", payload.Data[0]["id"])
	assert.Equal(t, "declined", payload.Data[1]["status"])
	assert.Contains(t, payload.Links["next"], "page%5Bafter%5D=inq_2")
}

func TestTool_IncludeStringOrList(t *testing.T) {
	tests := []struct {
		name    string
		include any
		want    string
	}{
		{name: "string", include: "account", want: "account"},
		{name: "comma separated string", include: "account,reports", want: "account,reports"},
		{name: "list", include: []any{"account", "reports"}, want: "account,reports"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := newFakePersona()
			fake.respond("inquiry_get", http.StatusOK, `{"data": {"type": "inquiry", "id": "inq_1", "attributes": {}}}`)
			cs := connect(t, newTestServer(t, nil, fake))

			res := callTool(t, cs, "inquiry_get", map[string]any{"inquiryId": "inq_1", "include": tt.include})
			require.False(t, res.IsError)

			req := fake.lastRequest(t)
			assert.Equal(t, "/inquiries/inq_1", req.Path)
			assert.Equal(t, tt.want, req.Query.Get("include"))
		})
	}
}

func TestTool_EmptyResponse(t *testing.T) {
	fake := newFakePersona()
	fake.respond("webhook_archive", http.StatusNoContent, "")
	cs := connect(t, newTestServer(t, nil, fake))

	res := callTool(t, cs, "webhook_archive", map[string]any{"webhookId": "wbh_1"})
	require.False(t, res.IsError)

	var payload map[string]any
	resultText(t, res, &payload)
	assert.Contains(t, payload, "data")
	assert.Nil(t, payload["data"])
}

func TestTool_Errors(t *testing.T) {
	tests := []struct {
		name       string
		tool       string
		args       map[string]any
		setup      func(f *fakePersona)
		wantCode   string
		wantStatus string
		wantPtr    string
		wantParam  string
		noRequest  bool
	}{
		{
			name: "upstream invalid parameter",
			tool: "inquiry_create",
			args: map[string]any{"inquiryTemplateId": "itmpl_XYZ", "fields": map[string]any{"birthdate": "tomorrow"}},
			setup: func(f *fakePersona) {
				f.respond("inquiry_create", http.StatusUnprocessableEntity, `{
					"errors": [{
						"status": "422",
						"code": "invalid_parameter",
						"title": "Invalid parameter",
						"detail": "birthdate must be a date",
						"source": {"pointer": "/data/attributes/fields/birthdate"}
					}]
				}`)
			},
			wantCode:   "invalid_parameter",
			wantStatus: "422",
			wantPtr:    "/data/attributes/fields/birthdate",
		},
		{
			name:      "missing required argument",
			tool:      "inquiry_get",
			args:      map[string]any{},
			wantCode:  CodeInvalidArguments,
			noRequest: true,
		},
		{
			name:      "wrong argument type",
			tool:      "inquiry_list",
			args:      map[string]any{"pageSize": "ten"},
			wantCode:  CodeInvalidArguments,
			noRequest: true,
		},
		{
			name:      "pre-wrapped data",
			tool:      "inquiry_update",
			args:      map[string]any{"inquiryId": "inq_1", "data": map[string]any{"attributes": map[string]any{"note": "x"}}},
			wantCode:  CodeMalformedInvocation,
			wantPtr:   "/data",
			wantParam: "data",
			noRequest: true,
		},
		{
			name: "transport failure",
			tool: "account_get",
			args: map[string]any{"accountId": "act_1"},
			setup: func(f *fakePersona) {
				f.err = errors.New("dial tcp: connection refused")
			},
			wantCode: CodeUpstreamUnavailable,
		},
		{
			name: "unparseable body",
			tool: "account_get",
			args: map[string]any{"accountId": "act_1"},
			setup: func(f *fakePersona) {
				f.respond("account_get", http.StatusBadGateway, "<html>bad gateway</html>")
			},
			wantCode:   CodeUnparseable,
			wantStatus: "502",
		},
		{
			name: "error status without detail",
			tool: "account_get",
			args: map[string]any{"accountId": "act_missing"},
			setup: func(f *fakePersona) {
				f.respond("account_get", http.StatusNotFound, `{"errors": []}`)
			},
			wantCode:   CodeUpstreamError,
			wantStatus: "404",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := newFakePersona()
			if tt.setup != nil {
				tt.setup(fake)
			}
			cs := connect(t, newTestServer(t, nil, fake))

			res := callTool(t, cs, tt.tool, tt.args)
			require.True(t, res.IsError)

			var payload ErrorPayload
			resultText(t, res, &payload)
			assert.Equal(t, tt.tool, payload.Tool)
			require.NotEmpty(t, payload.Errors)
			got := payload.Errors[0]
			assert.Equal(t, tt.wantCode, got.Code)
			assert.Equal(t, tt.wantStatus, got.Status)
			assert.Equal(t, tt.wantPtr, got.Pointer)
			assert.Equal(t, tt.wantParam, got.Parameter)

			if tt.noRequest {
				assert.Zero(t, fake.requestCount())
			}
		})
	}
}

func TestTool_MultipleUpstreamErrors(t *testing.T) {
	fake := newFakePersona()
	fake.respond("account_create", http.StatusBadRequest, `{
		"errors": [
			{"title": "Bad request", "source": {"parameter": "referenceId"}},
			{"code": "invalid_parameter", "detail": "email is invalid", "source": {"pointer": "/data/attributes/email"}}
		]
	}`)
	cs := connect(t, newTestServer(t, nil, fake))

	res := callTool(t, cs, "account_create", map[string]any{"referenceId": "", "email": "nope"})
	require.True(t, res.IsError)

	var payload ErrorPayload
	resultText(t, res, &payload)
	require.Len(t, payload.Errors, 2)
	assert.Equal(t, CodeUpstreamError, payload.Errors[0].Code)
	assert.Equal(t, "400", payload.Errors[0].Status)
	assert.Equal(t, "referenceId", payload.Errors[0].Parameter)
	assert.Equal(t, "invalid_parameter", payload.Errors[1].Code)
	assert.Equal(t, "/data/attributes/email", payload.Errors[1].Pointer)
}

func TestTool_ScrubsSecrets(t *testing.T) {
	const key = "persona_sandbox_0123456789abcdefABCDEF"
	fake := newFakePersona()
	fake.respond("webhook_get", http.StatusOK, `{
		"data": {"type": "webhook", "id": "wbh_1", "attributes": {"url": "https://example.com/hook", "note": "rotated `+key+`"}}
	}`)
	cs := connect(t, newTestServer(t, nil, fake))

	res := callTool(t, cs, "webhook_get", map[string]any{"webhookId": "wbh_1"})
	require.False(t, res.IsError)

	text := res.Content[0].(*mcp.TextContent).Text
	assert.NotContains(t, text, key)
	assert.Contains(t, text, "[REDACTED]")
	assert.Contains(t, text, "https://example.com/hook")
}

func TestPayloadFor(t *testing.T) {
	t.Run("empty collection is an empty list", func(t *testing.T) {
		p := payloadFor(&jsonapi.Result{Collection: true})
		assert.Equal(t, []map[string]any{}, p.Data)
	})
	t.Run("empty document has null data", func(t *testing.T) {
		p := payloadFor(&jsonapi.Result{})
		assert.Nil(t, p.Data)
	})
}
