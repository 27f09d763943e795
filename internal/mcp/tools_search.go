package mcp

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const defaultSearchLimit = 5

type toolSearchInput struct {
	Query    string `json:"query" jsonschema:"Regex pattern or search terms matched against tool names, descriptions and keywords, e.g. 'inquiry', 'redact', '^case_.*'"`
	Category string `json:"category,omitempty" jsonschema:"Restrict results to one category, e.g. inquiries, accounts, cases"`
	Limit    int    `json:"limit,omitempty" jsonschema:"Maximum results to return (default: 5)"`
}

type toolSummary struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	ReadOnly    bool     `json:"read_only"`
	Destructive bool     `json:"destructive,omitempty"`
	Keywords    []string `json:"keywords,omitempty"`
	Score       int      `json:"score,omitempty"`
	MatchReason string   `json:"match_reason,omitempty"`
}

type toolSearchOutput struct {
	Query      string        `json:"query" jsonschema:"Search query used"`
	Results    []toolSummary `json:"results" jsonschema:"Matching tools ordered by score"`
	Count      int           `json:"count" jsonschema:"Number of tools found"`
	TotalTools int           `json:"total_tools" jsonschema:"Total number of registered tools"`
}

type toolListInput struct {
	Category string `json:"category,omitempty" jsonschema:"Filter to a specific category"`
	ReadOnly bool   `json:"read_only,omitempty" jsonschema:"Only list tools that never modify Persona state"`
}

type toolListOutput struct {
	Tools      []toolSummary `json:"tools" jsonschema:"Registered tools with metadata"`
	Count      int           `json:"count" jsonschema:"Number of tools returned"`
	Categories []string      `json:"categories" jsonschema:"Categories with at least one registered tool"`
}

func summarize(tool *ToolMetadata) toolSummary {
	return toolSummary{
		Name:        tool.Name,
		Description: tool.Description,
		Category:    tool.Category,
		ReadOnly:    tool.ReadOnly,
		Destructive: tool.Destructive,
		Keywords:    tool.Keywords,
	}
}

func (s *Server) registerSearchTools() {
	readOnly := &mcp.ToolAnnotations{ReadOnlyHint: true, IdempotentHint: true}

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "tool_search",
		Description: "Search the available Persona tools by name, description or keyword. Accepts a regular expression. Use this to find the right tool before calling it.",
		Annotations: readOnly,
	}, s.handleToolSearch)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "tool_list",
		Description: "List the available Persona tools with their category and read-only flag, optionally filtered by category.",
		Annotations: readOnly,
	}, s.handleToolList)

	s.toolRegistry.RegisterAll([]*ToolMetadata{
		{
			Name:        "tool_search",
			Description: "Search the available tools by name, description or keyword.",
			Category:    CategoryDiscovery,
			ReadOnly:    true,
			Keywords:    []string{"search", "find", "discover"},
		},
		{
			Name:        "tool_list",
			Description: "List the available tools.",
			Category:    CategoryDiscovery,
			ReadOnly:    true,
			Keywords:    []string{"list", "catalog"},
		},
	})
}

func (s *Server) handleToolSearch(ctx context.Context, req *mcp.CallToolRequest, args toolSearchInput) (*mcp.CallToolResult, toolSearchOutput, error) {
	if strings.TrimSpace(args.Query) == "" {
		return nil, toolSearchOutput{}, fmt.Errorf("query is required")
	}

	limit := args.Limit
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	var searchResults []*SearchResult
	if args.Category != "" {
		searchResults = s.toolRegistry.SearchByCategory(args.Query, args.Category)
	} else {
		searchResults = s.toolRegistry.Search(args.Query)
	}
	if len(searchResults) > limit {
		searchResults = searchResults[:limit]
	}

	results := make([]toolSummary, 0, len(searchResults))
	names := make([]string, 0, len(searchResults))
	for _, sr := range searchResults {
		summary := summarize(sr.Tool)
		summary.Score = sr.Score
		summary.MatchReason = sr.MatchReason
		results = append(results, summary)
		names = append(names, sr.Tool.Name)
	}

	output := toolSearchOutput{
		Query:      args.Query,
		Results:    results,
		Count:      len(results),
		TotalTools: s.toolRegistry.Count(),
	}

	var text string
	if len(names) == 0 {
		text = fmt.Sprintf("No tools found matching: %s", args.Query)
	} else {
		text = fmt.Sprintf("Found %d tool(s) for query '%s': %s", len(names), args.Query, strings.Join(names, ", "))
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}, output, nil
}

func (s *Server) handleToolList(ctx context.Context, req *mcp.CallToolRequest, args toolListInput) (*mcp.CallToolResult, toolListOutput, error) {
	var tools []*ToolMetadata
	if args.Category != "" {
		tools = s.toolRegistry.ListByCategory(args.Category)
	} else {
		tools = s.toolRegistry.List()
	}

	summaries := make([]toolSummary, 0, len(tools))
	seen := make(map[string]bool)
	categories := make([]string, 0)
	for _, tool := range tools {
		if args.ReadOnly && !tool.ReadOnly {
			continue
		}
		summaries = append(summaries, summarize(tool))
		if !seen[tool.Category] {
			seen[tool.Category] = true
			categories = append(categories, tool.Category)
		}
	}

	sort.Strings(categories)

	output := toolListOutput{
		Tools:      summaries,
		Count:      len(summaries),
		Categories: categories,
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: fmt.Sprintf("Found %d tools", output.Count)},
		},
	}, output, nil
}
