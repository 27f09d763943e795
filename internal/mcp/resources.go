package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/persona-mcp/internal/jsonapi"
	"github.com/fyrsmithlabs/persona-mcp/internal/logging"
)

const (
	resourceScheme = "persona://"
	jsonMIMEType   = "application/json"

	// InquiryTemplatesURI lists the inquiry templates of the organization.
	InquiryTemplatesURI = resourceScheme + "inquiry-templates"
)

// resourceRoute binds a URI template with one identifier to a get tool.
type resourceRoute struct {
	name        string
	collection  string // URI path segment, e.g. "accounts"
	param       string // identifier key of the get tool
	tool        string
	description string
}

func (r resourceRoute) template() string {
	return resourceScheme + r.collection + "/{" + r.param + "}"
}

// resourceRoutes are the single-object resources exposed as URI templates.
var resourceRoutes = []resourceRoute{
	{name: "account", collection: "accounts", param: "accountId", tool: "account_get",
		description: "A Persona account and its attributes."},
	{name: "inquiry", collection: "inquiries", param: "inquiryId", tool: "inquiry_get",
		description: "A Persona inquiry with its status, fields and tags."},
	{name: "verification", collection: "verifications", param: "verificationId", tool: "verification_get",
		description: "A Persona verification and its check results."},
	{name: "report", collection: "reports", param: "reportId", tool: "report_get",
		description: "A Persona report and its matches."},
	{name: "case", collection: "cases", param: "caseId", tool: "case_get",
		description: "A Persona case with its status and assignee."},
	{name: "transaction", collection: "transactions", param: "transactionId", tool: "transaction_get",
		description: "A Persona transaction and its labels."},
}

// registerResources exposes resources whose backing tool is enabled, so the
// read-only switch and category allowlist apply to resources too.
func (s *Server) registerResources() {
	for _, route := range resourceRoutes {
		if _, ok := s.catalog.Lookup(route.tool); !ok {
			continue
		}
		s.mcp.AddResourceTemplate(&mcp.ResourceTemplate{
			Name:        route.name,
			URITemplate: route.template(),
			Description: route.description,
			MIMEType:    jsonMIMEType,
		}, s.templateHandler(route))
	}

	if _, ok := s.catalog.Lookup("inquiry_template_list"); ok {
		s.mcp.AddResource(&mcp.Resource{
			Name:        "inquiry-templates",
			URI:         InquiryTemplatesURI,
			Description: "Inquiry templates available to start verifications with.",
			MIMEType:    jsonMIMEType,
		}, s.staticHandler("inquiry_template_list"))
	}
}

// identifierFromURI extracts and unescapes the single identifier segment
// after prefix.
func identifierFromURI(uri, prefix string) (string, bool) {
	if !strings.HasPrefix(uri, prefix) {
		return "", false
	}
	raw := strings.TrimPrefix(uri, prefix)
	if raw == "" || strings.ContainsAny(raw, "/?#") {
		return "", false
	}
	id, err := url.PathUnescape(raw)
	if err != nil || id == "" {
		return "", false
	}
	return id, true
}

func (s *Server) templateHandler(route resourceRoute) mcp.ResourceHandler {
	prefix := resourceScheme + route.collection + "/"
	return func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		uri := req.Params.URI
		id, ok := identifierFromURI(uri, prefix)
		if !ok {
			return nil, mcp.ResourceNotFoundError(uri)
		}
		return s.readResource(ctx, uri, route.tool, map[string]any{route.param: id})
	}
}

func (s *Server) staticHandler(tool string) mcp.ResourceHandler {
	return func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		return s.readResource(ctx, req.Params.URI, tool, map[string]any{})
	}
}

// readResource runs tool and returns its scrubbed payload as JSON text.
// An upstream 404 is reported as resource-not-found.
func (s *Server) readResource(ctx context.Context, uri, tool string, args map[string]any) (*mcp.ReadResourceResult, error) {
	ctx = logging.WithToolName(ctx, tool)

	result, err := s.execute(ctx, tool, args)
	if err != nil {
		var upstream *jsonapi.UpstreamError
		if errors.As(err, &upstream) && upstream.HTTPStatus == http.StatusNotFound {
			return nil, mcp.ResourceNotFoundError(uri)
		}
		s.logger.Warn(ctx, "resource read failed",
			zap.String("uri", uri),
			zap.String("reason", categorizeError(err)),
			zap.Error(err),
		)
		return nil, fmt.Errorf("read %s: %s", uri, s.scrubber.Scrub(err.Error()).Scrubbed)
	}

	payload, err := s.scrubbed(ctx, payloadFor(result))
	if err != nil {
		return nil, err
	}
	text, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal resource %s: %w", uri, err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: jsonMIMEType,
			Text:     string(text),
		}},
	}, nil
}
