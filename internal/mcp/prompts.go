package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// promptSpec is a canned workflow over the Persona tools.
type promptSpec struct {
	prompt *mcp.Prompt
	render func(args map[string]string) string
}

var promptSpecs = []promptSpec{
	{
		prompt: &mcp.Prompt{
			Name:        "review_inquiry",
			Description: "Review an inquiry and recommend approve, decline or manual review.",
			Arguments: []*mcp.PromptArgument{
				{Name: "inquiryId", Description: "ID of the inquiry to review (inq_...).", Required: true},
			},
		},
		render: func(args map[string]string) string {
			return fmt.Sprintf(`Review Persona inquiry %s.

1. Call inquiry_get with inquiryId %q and include ["verifications", "reports"].
2. Summarize the inquiry status, the verification checks that failed and any report matches.
3. Recommend inquiry_approve, inquiry_decline or inquiry_mark_for_review, with the reasons.
Do not call the approve or decline tools until the recommendation has been confirmed.`,
				args["inquiryId"], args["inquiryId"])
		},
	},
	{
		prompt: &mcp.Prompt{
			Name:        "start_verification",
			Description: "Create an inquiry from a template and produce a one-time link for the end user.",
			Arguments: []*mcp.PromptArgument{
				{Name: "inquiryTemplateId", Description: "Template to create the inquiry from (itmpl_...).", Required: true},
				{Name: "referenceId", Description: "Your own identifier for the end user."},
			},
		},
		render: func(args map[string]string) string {
			var b strings.Builder
			fmt.Fprintf(&b, "Start a Persona verification from template %s.\n\n", args["inquiryTemplateId"])
			fmt.Fprintf(&b, "1. Call inquiry_create with inquiryTemplateId %q", args["inquiryTemplateId"])
			if ref := args["referenceId"]; ref != "" {
				fmt.Fprintf(&b, " and referenceId %q", ref)
			}
			b.WriteString(".\n")
			b.WriteString("2. Call inquiry_generate_one_time_link with the new inquiry ID.\n")
			b.WriteString("3. Report the inquiry ID and the link.")
			return b.String()
		},
	},
	{
		prompt: &mcp.Prompt{
			Name:        "investigate_account",
			Description: "Gather an account's inquiries, reports and cases into one summary.",
			Arguments: []*mcp.PromptArgument{
				{Name: "accountId", Description: "ID of the account to investigate (act_...).", Required: true},
			},
		},
		render: func(args map[string]string) string {
			id := args["accountId"]
			return fmt.Sprintf(`Investigate Persona account %s.

1. Call account_get with accountId %q.
2. Call inquiry_list with accountId %q.
3. Call report_list with accountId %q.
4. Call case_list with filter {"accountId": %q}.
5. Summarize the account's verification history, open cases and anything that needs follow-up.`,
				id, id, id, id, id)
		},
	},
	{
		prompt: &mcp.Prompt{
			Name:        "explain_error",
			Description: "Explain a Persona API error and how to correct the tool call that caused it.",
			Arguments: []*mcp.PromptArgument{
				{Name: "code", Description: "Error code from the failed tool result.", Required: true},
				{Name: "detail", Description: "Error detail from the failed tool result."},
			},
		},
		render: func(args map[string]string) string {
			var b strings.Builder
			fmt.Fprintf(&b, "A Persona tool call failed with error code %q", args["code"])
			if detail := args["detail"]; detail != "" {
				fmt.Fprintf(&b, " and detail %q", detail)
			}
			b.WriteString(`.

Explain what the error means. When the error names a pointer or parameter, identify the argument
it refers to and show the corrected tool arguments. Arguments are flat lowerCamelCase keys; never
wrap them in "data" or "attributes".`)
			return b.String()
		},
	},
}

func (s *Server) registerPrompts() {
	for _, spec := range promptSpecs {
		s.mcp.AddPrompt(spec.prompt, promptHandler(spec))
	}
}

func promptHandler(spec promptSpec) mcp.PromptHandler {
	return func(ctx context.Context, req *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
		args := req.Params.Arguments
		if args == nil {
			args = map[string]string{}
		}
		for _, a := range spec.prompt.Arguments {
			if a.Required && strings.TrimSpace(args[a.Name]) == "" {
				return nil, fmt.Errorf("prompt %s: argument %q is required", spec.prompt.Name, a.Name)
			}
		}
		return &mcp.GetPromptResult{
			Description: spec.prompt.Description,
			Messages: []*mcp.PromptMessage{{
				Role:    "user",
				Content: &mcp.TextContent{Text: spec.render(args)},
			}},
		}, nil
	}
}
