package mcp

import (
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/fyrsmithlabs/persona-mcp/internal/persona"
)

// CategoryDiscovery holds tool_search and tool_list. Every other category is a
// Persona resource category from the catalog.
const CategoryDiscovery = "discovery"

// ToolMetadata contains metadata about a registered MCP tool.
type ToolMetadata struct {
	// Name is the unique tool name (e.g., "inquiry_get").
	Name string `json:"name"`

	Description string `json:"description"`

	// Category is the Persona resource category, or "discovery".
	Category string `json:"category"`

	ReadOnly    bool `json:"read_only"`
	Destructive bool `json:"destructive,omitempty"`

	// Keywords are additional searchable terms for this tool.
	Keywords []string `json:"keywords,omitempty"`
}

func metadataFor(spec persona.ToolSpec) *ToolMetadata {
	return &ToolMetadata{
		Name:        spec.Name,
		Description: spec.Description,
		Category:    spec.Category,
		ReadOnly:    spec.ReadOnly,
		Destructive: spec.Destructive,
		Keywords:    spec.Keywords,
	}
}

// ToolRegistry indexes registered tools for discovery.
type ToolRegistry struct {
	mu    sync.RWMutex
	tools map[string]*ToolMetadata
}

// NewToolRegistry creates a new tool registry.
func NewToolRegistry() *ToolRegistry {
	return &ToolRegistry{
		tools: make(map[string]*ToolMetadata),
	}
}

// Register adds a tool to the registry.
func (r *ToolRegistry) Register(tool *ToolMetadata) {
	if tool == nil || tool.Name == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tools[tool.Name] = tool
}

// RegisterAll adds multiple tools to the registry.
func (r *ToolRegistry) RegisterAll(tools []*ToolMetadata) {
	for _, tool := range tools {
		r.Register(tool)
	}
}

// Get returns the metadata for a specific tool.
func (r *ToolRegistry) Get(name string) (*ToolMetadata, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tool, ok := r.tools[name]
	return tool, ok
}

// List returns all registered tool metadata sorted by name.
func (r *ToolRegistry) List() []*ToolMetadata {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]*ToolMetadata, 0, len(r.tools))
	for _, tool := range r.tools {
		result = append(result, tool)
	}
	sortByName(result)
	return result
}

// ListNames returns all registered tool names, sorted.
func (r *ToolRegistry) ListNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]string, 0, len(r.tools))
	for name := range r.tools {
		result = append(result, name)
	}
	sort.Strings(result)
	return result
}

// ListByCategory returns the tools in category sorted by name.
func (r *ToolRegistry) ListByCategory(category string) []*ToolMetadata {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]*ToolMetadata, 0)
	for _, tool := range r.tools {
		if tool.Category == category {
			result = append(result, tool)
		}
	}
	sortByName(result)
	return result
}

// SearchResult contains a tool match from a search query.
type SearchResult struct {
	Tool *ToolMetadata `json:"tool"`

	// Score indicates match quality (higher is better).
	// 3 = exact name match
	// 2 = name contains query
	// 1 = description/keywords match
	Score int `json:"score"`

	MatchReason string `json:"match_reason"`
}

// Search finds tools whose name, description or keywords match query,
// case-insensitively. A query that compiles as a regular expression is also
// matched as one.
func (r *ToolRegistry) Search(query string) []*SearchResult {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if query == "" {
		return nil
	}

	queryLower := strings.ToLower(query)
	var results []*SearchResult

	var regex *regexp.Regexp
	if re, err := regexp.Compile("(?i)" + query); err == nil {
		regex = re
	}

	for _, tool := range r.tools {
		if sr := matchTool(tool, queryLower, regex); sr != nil {
			results = append(results, sr)
		}
	}

	sortSearchResults(results)
	return results
}

func matchTool(tool *ToolMetadata, queryLower string, regex *regexp.Regexp) *SearchResult {
	nameLower := strings.ToLower(tool.Name)
	descLower := strings.ToLower(tool.Description)

	switch {
	case nameLower == queryLower:
		return &SearchResult{Tool: tool, Score: 3, MatchReason: "exact name match"}
	case strings.Contains(nameLower, queryLower):
		return &SearchResult{Tool: tool, Score: 2, MatchReason: "name contains query"}
	case regex != nil && regex.MatchString(tool.Name):
		return &SearchResult{Tool: tool, Score: 2, MatchReason: "name matches pattern"}
	case strings.Contains(descLower, queryLower):
		return &SearchResult{Tool: tool, Score: 1, MatchReason: "description contains query"}
	case regex != nil && regex.MatchString(tool.Description):
		return &SearchResult{Tool: tool, Score: 1, MatchReason: "description matches pattern"}
	}

	for _, kw := range tool.Keywords {
		if strings.Contains(strings.ToLower(kw), queryLower) {
			return &SearchResult{Tool: tool, Score: 1, MatchReason: "keyword contains query"}
		}
		if regex != nil && regex.MatchString(kw) {
			return &SearchResult{Tool: tool, Score: 1, MatchReason: "keyword matches pattern"}
		}
	}
	return nil
}

// SearchByCategory searches within a specific category.
func (r *ToolRegistry) SearchByCategory(query string, category string) []*SearchResult {
	allResults := r.Search(query)
	filtered := make([]*SearchResult, 0)
	for _, result := range allResults {
		if result.Tool.Category == category {
			filtered = append(filtered, result)
		}
	}
	return filtered
}

// Count returns the total number of registered tools.
func (r *ToolRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tools)
}

// sortSearchResults orders by score descending, then by name.
func sortSearchResults(results []*SearchResult) {
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Tool.Name < results[j].Tool.Name
	})
}

func sortByName(tools []*ToolMetadata) {
	sort.Slice(tools, func(i, j int) bool {
		return tools[i].Name < tools[j].Name
	})
}
