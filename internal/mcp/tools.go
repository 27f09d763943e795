package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/persona-mcp/internal/jsonapi"
	"github.com/fyrsmithlabs/persona-mcp/internal/logging"
	"github.com/fyrsmithlabs/persona-mcp/internal/persona"
)

// ResultPayload is the structured content of a successful tool result.
type ResultPayload struct {
	// Data is one flattened resource, a list of them, or null.
	Data     any              `json:"data"`
	Included []map[string]any `json:"included,omitempty"`
	Meta     map[string]any   `json:"meta,omitempty"`
	Links    *jsonapi.Links   `json:"links,omitempty"`
}

func payloadFor(result *jsonapi.Result) ResultPayload {
	p := ResultPayload{
		Included: result.Included,
		Meta:     result.Meta,
		Links:    result.Links,
	}
	switch {
	case result.Collection:
		items := result.Items
		if items == nil {
			items = []map[string]any{}
		}
		p.Data = items
	case result.Data != nil:
		p.Data = result.Data
	}
	return p
}

// registerTools adds one MCP tool per enabled catalog entry.
func (s *Server) registerTools() error {
	for _, spec := range s.catalog {
		schema := inputSchema(spec)
		resolved, err := resolveSchema(spec, schema)
		if err != nil {
			return err
		}
		s.schemas[spec.Name] = resolved

		s.mcp.AddTool(&mcp.Tool{
			Name:        spec.Name,
			Description: spec.Description,
			InputSchema: schema,
			Annotations: annotations(spec),
		}, s.toolHandler(spec))

		s.toolRegistry.Register(metadataFor(spec))
	}
	return nil
}

func annotations(spec persona.ToolSpec) *mcp.ToolAnnotations {
	destructive := spec.Destructive
	openWorld := true
	return &mcp.ToolAnnotations{
		ReadOnlyHint:    spec.ReadOnly,
		DestructiveHint: &destructive,
		IdempotentHint:  spec.Idempotent(),
		OpenWorldHint:   &openWorld,
	}
}

// toolHandler runs validate, encode, Persona call, decode and scrub for one
// tool. Failures are returned as tool errors so the caller can correct them.
func (s *Server) toolHandler(spec persona.ToolSpec) mcp.ToolHandler {
	return func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		start := time.Now()
		ctx = logging.WithToolName(ctx, spec.Name)
		if req.Session != nil {
			ctx = logging.WithSessionID(ctx, req.Session.ID())
		}
		s.metrics.IncrementActive(ctx, spec.Name)

		var toolErr error
		defer func() {
			s.metrics.DecrementActive(ctx, spec.Name)
			s.metrics.RecordInvocation(ctx, spec.Name, time.Since(start), toolErr)
		}()

		var raw json.RawMessage
		if req.Params != nil {
			raw = req.Params.Arguments
		}

		var result *jsonapi.Result
		result, toolErr = s.invoke(ctx, spec, raw)
		if toolErr != nil {
			s.logger.Warn(ctx, "tool invocation failed",
				zap.String("reason", categorizeError(toolErr)),
				zap.Duration("duration", time.Since(start)),
				zap.Error(toolErr),
			)
			return s.errorResult(ctx, spec.Name, toolErr)
		}

		s.logger.Debug(ctx, "tool invocation completed", zap.Duration("duration", time.Since(start)))
		return s.successResult(ctx, payloadFor(result))
	}
}

// invoke parses and validates raw arguments, then executes the tool.
func (s *Server) invoke(ctx context.Context, spec persona.ToolSpec, raw json.RawMessage) (*jsonapi.Result, error) {
	args, err := parseArguments(spec.Name, raw)
	if err != nil {
		return nil, err
	}
	if err := validateArguments(spec.Name, s.schemas[spec.Name], args); err != nil {
		return nil, err
	}
	return s.execute(ctx, spec.Name, args)
}

// execute encodes an invocation, sends it to Persona and decodes the reply.
func (s *Server) execute(ctx context.Context, tool string, args map[string]any) (*jsonapi.Result, error) {
	req, err := s.translator.Encode(tool, args)
	if err != nil {
		return nil, err
	}
	resp, err := s.client.Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUpstreamUnavailable, err)
	}
	return s.translator.Decode(resp.Status, resp.Body)
}

// scrubbed converts v to plain JSON values and redacts secrets from every
// string in it.
func (s *Server) scrubbed(ctx context.Context, v any) (map[string]any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}
	var plain map[string]any
	if err := json.Unmarshal(b, &plain); err != nil {
		return nil, fmt.Errorf("unmarshal payload: %w", err)
	}

	out, res := s.scrubber.ScrubValue(plain)
	if res != nil && res.HasFindings() {
		s.logger.Info(ctx, "redacted secrets from payload",
			zap.Int("findings", res.TotalFindings),
			zap.Strings("rules", res.RuleIDs()),
		)
	}
	scrubbed, _ := out.(map[string]any)
	return scrubbed, nil
}

func (s *Server) successResult(ctx context.Context, payload ResultPayload) (*mcp.CallToolResult, error) {
	structured, err := s.scrubbed(ctx, payload)
	if err != nil {
		return nil, err
	}
	text, err := json.MarshalIndent(structured, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal result: %w", err)
	}
	return &mcp.CallToolResult{
		Content:           []mcp.Content{&mcp.TextContent{Text: string(text)}},
		StructuredContent: structured,
	}, nil
}

func (s *Server) errorResult(ctx context.Context, tool string, toolErr error) (*mcp.CallToolResult, error) {
	payload := ErrorPayload{Tool: tool, Errors: toolErrors(toolErr)}
	structured, err := s.scrubbed(ctx, payload)
	if err != nil {
		return nil, err
	}
	text, err := json.MarshalIndent(structured, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal error result: %w", err)
	}
	return &mcp.CallToolResult{
		IsError:           true,
		Content:           []mcp.Content{&mcp.TextContent{Text: string(text)}},
		StructuredContent: structured,
	}, nil
}
