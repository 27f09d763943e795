package mcp

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyrsmithlabs/persona-mcp/internal/persona"
)

func readResource(t *testing.T, cs *mcp.ClientSession, uri string) (*mcp.ReadResourceResult, error) {
	t.Helper()
	return cs.ReadResource(context.Background(), &mcp.ReadResourceParams{URI: uri})
}

func TestResources_ReadTemplate(t *testing.T) {
	tests := []struct {
		uri      string
		tool     string
		wantPath string
	}{
		{uri: "persona://accounts/act_123", tool: "account_get", wantPath: "/accounts/act_123"},
		{uri: "persona://inquiries/inq_123", tool: "inquiry_get", wantPath: "/inquiries/inq_123"},
		{uri: "persona://verifications/ver_123", tool: "verification_get", wantPath: "/verifications/ver_123"},
		{uri: "persona://reports/rep_123", tool: "report_get", wantPath: "/reports/rep_123"},
		{uri: "persona://cases/case_123", tool: "case_get", wantPath: "/cases/case_123"},
		{uri: "persona://transactions/txn_123", tool: "transaction_get", wantPath: "/transactions/txn_123"},
	}

	for _, tt := range tests {
		t.Run(tt.tool, func(t *testing.T) {
			fake := newFakePersona()
			fake.respond(tt.tool, http.StatusOK, `{"data": {"type": "object", "id": "obj_1", "attributes": {"status": "ok"}}}`)
			cs := connect(t, newTestServer(t, nil, fake))

			res, err := readResource(t, cs, tt.uri)
			require.NoError(t, err)
			require.Len(t, res.Contents, 1)
			assert.Equal(t, tt.uri, res.Contents[0].URI)
			assert.Equal(t, "application/json", res.Contents[0].MIMEType)

			var payload map[string]any
			require.NoError(t, json.Unmarshal([]byte(res.Contents[0].Text), &payload))
			data := payload["data"].(map[string]any)
			assert.Equal(t, "obj_1", data["id"])

			req := fake.lastRequest(t)
			assert.Equal(t, tt.tool, req.Tool)
			assert.Equal(t, http.MethodGet, req.Method)
			assert.Equal(t, tt.wantPath, req.Path)
		})
	}
}

func TestResources_EscapedIdentifier(t *testing.T) {
	fake := newFakePersona()
	fake.respond("account_get", http.StatusOK, `{"data": {"type": "account", "id": "act 1", "attributes": {}}}`)
	cs := connect(t, newTestServer(t, nil, fake))

	_, err := readResource(t, cs, "persona://accounts/act%201")
	require.NoError(t, err)
	assert.Equal(t, "/accounts/act%201", fake.lastRequest(t).Path)
}

func TestResources_InquiryTemplates(t *testing.T) {
	fake := newFakePersona()
	fake.respond("inquiry_template_list", http.StatusOK, `{
		"data": [{"type": "inquiry-template", "id": "itmpl_1", "attributes": {"name": "Government ID"}}]
	}`)
	cs := connect(t, newTestServer(t, nil, fake))

	res, err := readResource(t, cs, InquiryTemplatesURI)
	require.NoError(t, err)
	require.Len(t, res.Contents, 1)

	var payload struct {
		Data []map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(res.Contents[0].Text), &payload))
	require.Len(t, payload.Data, 1)
	assert.Equal(t, "Government ID", payload.Data[0]["name"])
	assert.Equal(t, "/inquiry-templates", fake.lastRequest(t).Path)
}

func TestResources_NotFound(t *testing.T) {
	fake := newFakePersona()
	fake.respond("account_get", http.StatusNotFound, `{"errors": [{"status": "404", "title": "Record not found"}]}`)
	cs := connect(t, newTestServer(t, nil, fake))

	_, err := readResource(t, cs, "persona://accounts/act_missing")
	require.Error(t, err)

	_, err = readResource(t, cs, "persona://widgets/w_1")
	require.Error(t, err)
}

func TestResources_UpstreamFailure(t *testing.T) {
	fake := newFakePersona()
	fake.respond("case_get", http.StatusInternalServerError, `{"errors": [{"status": "500", "title": "Internal error"}]}`)
	cs := connect(t, newTestServer(t, nil, fake))

	_, err := readResource(t, cs, "persona://cases/case_1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Internal error")
}

func TestResources_FollowToolFilter(t *testing.T) {
	srv := newTestServer(t, &Config{Categories: []string{persona.CategoryCases}}, newFakePersona())
	cs := connect(t, srv)

	templates, err := cs.ListResourceTemplates(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, templates.ResourceTemplates, 1)
	assert.Equal(t, "persona://cases/{caseId}", templates.ResourceTemplates[0].URITemplate)

	resources, err := cs.ListResources(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, resources.Resources)
}

func TestResources_ListAll(t *testing.T) {
	cs := connect(t, newTestServer(t, nil, newFakePersona()))

	templates, err := cs.ListResourceTemplates(context.Background(), nil)
	require.NoError(t, err)
	assert.Len(t, templates.ResourceTemplates, len(resourceRoutes))

	resources, err := cs.ListResources(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, resources.Resources, 1)
	assert.Equal(t, InquiryTemplatesURI, resources.Resources[0].URI)
}

func TestIdentifierFromURI(t *testing.T) {
	const prefix = "persona://accounts/"
	tests := []struct {
		uri    string
		wantID string
		wantOK bool
	}{
		{uri: "persona://accounts/act_1", wantID: "act_1", wantOK: true},
		{uri: "persona://accounts/act%201", wantID: "act 1", wantOK: true},
		{uri: "persona://accounts/act%2F1", wantID: "act/1", wantOK: true},
		{uri: "persona://accounts/act%zz", wantOK: false},
		{uri: "persona://accounts/", wantOK: false},
		{uri: "persona://accounts/act_1/extra", wantOK: false},
		{uri: "persona://accounts/act_1?include=x", wantOK: false},
		{uri: "persona://inquiries/inq_1", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.uri, func(t *testing.T) {
			id, ok := identifierFromURI(tt.uri, prefix)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantID, id)
		})
	}
}
