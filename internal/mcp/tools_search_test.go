package mcp

import (
	"context"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyrsmithlabs/persona-mcp/internal/persona"
)

func TestToolSearch(t *testing.T) {
	srv := newTestServer(t, nil, newFakePersona())
	ctx := context.Background()

	tests := []struct {
		name      string
		input     toolSearchInput
		wantErr   bool
		wantCount int
		wantFirst string
	}{
		{
			name:    "empty query",
			input:   toolSearchInput{Query: "  "},
			wantErr: true,
		},
		{
			name:      "default limit",
			input:     toolSearchInput{Query: "inquiry"},
			wantCount: defaultSearchLimit,
		},
		{
			name:      "explicit limit",
			input:     toolSearchInput{Query: "inquiry", Limit: 2},
			wantCount: 2,
		},
		{
			name:      "exact name first",
			input:     toolSearchInput{Query: "case_assign"},
			wantCount: 1,
			wantFirst: "case_assign",
		},
		{
			name:      "category filter",
			input:     toolSearchInput{Query: "redact", Category: persona.CategoryReports},
			wantCount: 1,
			wantFirst: "report_redact",
		},
		{
			name:      "discovery tools are searchable",
			input:     toolSearchInput{Query: "tool_list"},
			wantCount: 1,
			wantFirst: "tool_list",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, out, err := srv.handleToolSearch(ctx, nil, tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, res)
			assert.Equal(t, tt.wantCount, out.Count)
			assert.Len(t, out.Results, tt.wantCount)
			assert.Equal(t, srv.ToolCount(), out.TotalTools)
			if tt.wantFirst != "" {
				assert.Equal(t, tt.wantFirst, out.Results[0].Name)
				assert.NotEmpty(t, out.Results[0].MatchReason)
			}
		})
	}
}

func TestToolSearch_NoMatchText(t *testing.T) {
	srv := newTestServer(t, nil, newFakePersona())

	res, out, err := srv.handleToolSearch(context.Background(), nil, toolSearchInput{Query: "zzz_nothing"})
	require.NoError(t, err)
	assert.Zero(t, out.Count)
	assert.NotNil(t, out.Results)
	require.Len(t, res.Content, 1)
	assert.Equal(t, "No tools found matching: zzz_nothing", res.Content[0].(*mcp.TextContent).Text)
}

func TestToolList(t *testing.T) {
	srv := newTestServer(t, nil, newFakePersona())
	ctx := context.Background()

	t.Run("all tools", func(t *testing.T) {
		_, out, err := srv.handleToolList(ctx, nil, toolListInput{})
		require.NoError(t, err)
		assert.Equal(t, srv.ToolCount(), out.Count)
		assert.Contains(t, out.Categories, persona.CategoryInquiries)
		assert.Contains(t, out.Categories, CategoryDiscovery)
		assert.IsNonDecreasing(t, out.Categories)
	})

	t.Run("by category", func(t *testing.T) {
		_, out, err := srv.handleToolList(ctx, nil, toolListInput{Category: persona.CategoryWebhooks})
		require.NoError(t, err)
		require.NotZero(t, out.Count)
		for _, tool := range out.Tools {
			assert.Equal(t, persona.CategoryWebhooks, tool.Category)
		}
		assert.Equal(t, []string{persona.CategoryWebhooks}, out.Categories)
	})

	t.Run("read-only only", func(t *testing.T) {
		_, out, err := srv.handleToolList(ctx, nil, toolListInput{ReadOnly: true})
		require.NoError(t, err)
		require.NotZero(t, out.Count)
		for _, tool := range out.Tools {
			assert.True(t, tool.ReadOnly, tool.Name)
		}
	})
}

func TestToolList_OverMCP(t *testing.T) {
	srv := newTestServer(t, &Config{Categories: []string{persona.CategoryCases}}, newFakePersona())
	cs := connect(t, srv)

	res, err := cs.CallTool(context.Background(), &mcp.CallToolParams{Name: "tool_list"})
	require.NoError(t, err)
	assert.False(t, res.IsError)
	require.NotEmpty(t, res.Content)
	assert.Equal(t, "Found 9 tools", res.Content[0].(*mcp.TextContent).Text)
}
