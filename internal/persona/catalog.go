package persona

import (
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/fyrsmithlabs/persona-mcp/internal/jsonapi"
)

// JSON schema types used by ParamSpec.
const (
	TypeString  = "string"
	TypeInteger = "integer"
	TypeNumber  = "number"
	TypeBoolean = "boolean"
	TypeObject  = "object"
	TypeArray   = "array"
)

// Tool categories.
const (
	CategoryAccounts         = "accounts"
	CategoryInquiries        = "inquiries"
	CategoryInquiryTemplates = "inquiry_templates"
	CategoryVerifications    = "verifications"
	CategoryReports          = "reports"
	CategoryCases            = "cases"
	CategoryTransactions     = "transactions"
	CategoryDocuments        = "documents"
	CategoryEvents           = "events"
	CategoryWebhooks         = "webhooks"
	CategoryAPILogs          = "api_logs"
)

// ParamSpec describes one flat tool parameter.
type ParamSpec struct {
	Name        string
	Type        string
	Description string
	Required    bool
	// Items is the element type of an array parameter.
	Items string
	// AcceptString lets an array parameter also take a single
	// comma-separated string.
	AcceptString bool
}

// ToolSpec describes one Persona operation exposed as an MCP tool.
type ToolSpec struct {
	Name        string
	Category    string
	Description string
	Route       jsonapi.Route
	ReadOnly    bool
	Destructive bool
	Keywords    []string
	Params      []ParamSpec
}

// Idempotent reports whether repeating the call has no additional effect.
// POST calls carry an Idempotency-Key per invocation, not per intent.
func (t ToolSpec) Idempotent() bool {
	return t.Route.Method != http.MethodPost
}

// Catalog is an ordered set of tool specs.
type Catalog []ToolSpec

// Routes returns the route table used to build a jsonapi.Translator.
func (c Catalog) Routes() jsonapi.Routes {
	routes := make(jsonapi.Routes, len(c))
	for _, t := range c {
		routes[t.Name] = t.Route
	}
	return routes
}

// Lookup finds a tool by name.
func (c Catalog) Lookup(name string) (ToolSpec, bool) {
	for _, t := range c {
		if t.Name == name {
			return t, true
		}
	}
	return ToolSpec{}, false
}

// Filter returns the tools allowed by the read-only switch and the category
// allowlist. An empty allowlist admits every category.
func (c Catalog) Filter(readOnly bool, categories []string) Catalog {
	allowed := make(map[string]bool, len(categories))
	for _, cat := range categories {
		allowed[cat] = true
	}
	out := make(Catalog, 0, len(c))
	for _, t := range c {
		if readOnly && !t.ReadOnly {
			continue
		}
		if len(allowed) > 0 && !allowed[t.Category] {
			continue
		}
		out = append(out, t)
	}
	return out
}

// Categories returns the distinct categories in sorted order.
func (c Catalog) Categories() []string {
	seen := make(map[string]bool)
	for _, t := range c {
		seen[t.Category] = true
	}
	out := make([]string, 0, len(seen))
	for cat := range seen {
		out = append(out, cat)
	}
	sort.Strings(out)
	return out
}

// CheckCategories rejects category names that match no tool in the catalog.
func (c Catalog) CheckCategories(categories []string) error {
	known := c.Categories()
	for _, cat := range categories {
		i := sort.SearchStrings(known, cat)
		if i == len(known) || known[i] != cat {
			return fmt.Errorf("unknown tool category %q (known: %s)", cat, strings.Join(known, ", "))
		}
	}
	return nil
}

func get(path string) jsonapi.Route {
	return jsonapi.Route{Method: http.MethodGet, Path: path}
}

func post(path string) jsonapi.Route {
	return jsonapi.Route{Method: http.MethodPost, Path: path}
}

func action(path string) jsonapi.Route {
	return jsonapi.Route{Method: http.MethodPost, Path: path, Body: jsonapi.BodyMeta}
}

func patch(path string) jsonapi.Route {
	return jsonapi.Route{Method: http.MethodPatch, Path: path}
}

func del(path string) jsonapi.Route {
	return jsonapi.Route{Method: http.MethodDelete, Path: path}
}

func idParam(name, resource string) ParamSpec {
	return ParamSpec{Name: name, Type: TypeString, Description: "ID of the " + resource + ".", Required: true}
}

func str(name, desc string) ParamSpec {
	return ParamSpec{Name: name, Type: TypeString, Description: desc}
}

func requiredStr(name, desc string) ParamSpec {
	return ParamSpec{Name: name, Type: TypeString, Description: desc, Required: true}
}

func strList(name, desc string) ParamSpec {
	return ParamSpec{Name: name, Type: TypeArray, Items: TypeString, Description: desc}
}

func obj(name, desc string) ParamSpec {
	return ParamSpec{Name: name, Type: TypeObject, Description: desc}
}

func fieldsParam() ParamSpec {
	return obj(jsonapi.KeyFields, "Template field values keyed by field name, e.g. {\"nameFirst\": \"Jane\"}.")
}

func tagParam() ParamSpec {
	return requiredStr("tagName", "Tag to add or remove.")
}

// listParams are the pagination and sideloading parameters of list tools.
func listParams(extra ...ParamSpec) []ParamSpec {
	params := []ParamSpec{
		{Name: jsonapi.KeyPageSize, Type: TypeInteger, Description: "Number of results per page (1-100)."},
		str(jsonapi.KeyPageAfter, "Cursor: return results after this ID."),
		str(jsonapi.KeyPageBefore, "Cursor: return results before this ID."),
		obj(jsonapi.KeyFilter, "Additional filters keyed by attribute name."),
	}
	return append(params, extra...)
}

func includeParam() ParamSpec {
	p := strList(jsonapi.KeyInclude, "Related resources to sideload, e.g. [\"account\", \"reports\"] or \"account,reports\".")
	p.AcceptString = true
	return p
}

// DefaultCatalog returns every Persona operation the server exposes.
func DefaultCatalog() Catalog {
	return Catalog{
		// Accounts
		{
			Name: "account_list", Category: CategoryAccounts, ReadOnly: true,
			Description: "List accounts, newest first.",
			Route:       get("/accounts"),
			Keywords:    []string{"account", "list", "search", "users"},
			Params: listParams(
				str("referenceId", "Filter by your reference ID for the account."),
				str("emailAddress", "Filter by email address."),
			),
		},
		{
			Name: "account_create", Category: CategoryAccounts,
			Description: "Create an account representing one of your users.",
			Route:       post("/accounts"),
			Keywords:    []string{"account", "create", "user"},
			Params: []ParamSpec{
				str("referenceId", "Your unique reference ID for the user."),
				str("accountTypeId", "Account type to create."),
				strList("tags", "Tags to attach."),
				fieldsParam(),
			},
		},
		{
			Name: "account_get", Category: CategoryAccounts, ReadOnly: true,
			Description: "Retrieve an account.",
			Route:       get("/accounts/{accountId}"),
			Keywords:    []string{"account", "get", "retrieve", "user"},
			Params:      []ParamSpec{idParam("accountId", "account"), includeParam()},
		},
		{
			Name: "account_update", Category: CategoryAccounts,
			Description: "Update attributes of an account.",
			Route:       patch("/accounts/{accountId}"),
			Keywords:    []string{"account", "update", "edit"},
			Params: []ParamSpec{
				idParam("accountId", "account"),
				str("referenceId", "New reference ID."),
				str("email", "New email address."),
				str("phoneNumber", "New phone number."),
				fieldsParam(),
			},
		},
		{
			Name: "account_redact", Category: CategoryAccounts, Destructive: true,
			Description: "Permanently delete personally identifiable information of an account.",
			Route:       del("/accounts/{accountId}"),
			Keywords:    []string{"account", "redact", "delete", "gdpr"},
			Params:      []ParamSpec{idParam("accountId", "account")},
		},
		{
			Name: "account_add_tag", Category: CategoryAccounts,
			Description: "Add a tag to an account.",
			Route:       action("/accounts/{accountId}/add-tag"),
			Keywords:    []string{"account", "tag", "label"},
			Params:      []ParamSpec{idParam("accountId", "account"), tagParam()},
		},
		{
			Name: "account_remove_tag", Category: CategoryAccounts,
			Description: "Remove a tag from an account.",
			Route:       action("/accounts/{accountId}/remove-tag"),
			Keywords:    []string{"account", "tag", "untag"},
			Params:      []ParamSpec{idParam("accountId", "account"), tagParam()},
		},
		{
			Name: "account_consolidate", Category: CategoryAccounts, Destructive: true,
			Description: "Merge source accounts into this account. Source accounts are archived.",
			Route:       action("/accounts/{accountId}/consolidate"),
			Keywords:    []string{"account", "merge", "consolidate", "duplicate"},
			Params: []ParamSpec{
				idParam("accountId", "surviving account"),
				{Name: "sourceAccountIds", Type: TypeArray, Items: TypeString, Required: true, Description: "Accounts to merge in."},
			},
		},

		// Inquiries
		{
			Name: "inquiry_list", Category: CategoryInquiries, ReadOnly: true,
			Description: "List inquiries, newest first.",
			Route:       get("/inquiries"),
			Keywords:    []string{"inquiry", "list", "search", "kyc"},
			Params: listParams(
				str("accountId", "Filter by account."),
				str("referenceId", "Filter by reference ID."),
				str("inquiryTemplateId", "Filter by inquiry template."),
				str("status", "Filter by status, e.g. completed, approved, declined, needs_review."),
				includeParam(),
			),
		},
		{
			Name: "inquiry_create", Category: CategoryInquiries,
			Description: "Create an inquiry from an inquiry template. Prefill template fields with fields.",
			Route:       post("/inquiries"),
			Keywords:    []string{"inquiry", "create", "start", "kyc", "verify"},
			Params: []ParamSpec{
				requiredStr("inquiryTemplateId", "Inquiry template to run, e.g. itmpl_..."),
				str("accountId", "Account to attach the inquiry to."),
				str("referenceId", "Your reference ID for the user."),
				str("themeId", "Theme override."),
				str("note", "Internal note."),
				strList("tags", "Tags to attach."),
				fieldsParam(),
			},
		},
		{
			Name: "inquiry_get", Category: CategoryInquiries, ReadOnly: true,
			Description: "Retrieve an inquiry with its status and collected fields.",
			Route:       get("/inquiries/{inquiryId}"),
			Keywords:    []string{"inquiry", "get", "status", "retrieve"},
			Params:      []ParamSpec{idParam("inquiryId", "inquiry"), includeParam()},
		},
		{
			Name: "inquiry_update", Category: CategoryInquiries,
			Description: "Update the note, tags or fields of an inquiry.",
			Route:       patch("/inquiries/{inquiryId}"),
			Keywords:    []string{"inquiry", "update", "edit"},
			Params: []ParamSpec{
				idParam("inquiryId", "inquiry"),
				str("note", "Internal note."),
				fieldsParam(),
			},
		},
		{
			Name: "inquiry_redact", Category: CategoryInquiries, Destructive: true,
			Description: "Permanently delete personally identifiable information of an inquiry.",
			Route:       del("/inquiries/{inquiryId}"),
			Keywords:    []string{"inquiry", "redact", "delete", "gdpr"},
			Params:      []ParamSpec{idParam("inquiryId", "inquiry")},
		},
		{
			Name: "inquiry_approve", Category: CategoryInquiries,
			Description: "Approve a completed inquiry.",
			Route:       action("/inquiries/{inquiryId}/approve"),
			Keywords:    []string{"inquiry", "approve", "decision", "review"},
			Params:      []ParamSpec{idParam("inquiryId", "inquiry"), str("comment", "Reviewer comment.")},
		},
		{
			Name: "inquiry_decline", Category: CategoryInquiries,
			Description: "Decline a completed inquiry.",
			Route:       action("/inquiries/{inquiryId}/decline"),
			Keywords:    []string{"inquiry", "decline", "reject", "decision", "review"},
			Params:      []ParamSpec{idParam("inquiryId", "inquiry"), str("comment", "Reviewer comment.")},
		},
		{
			Name: "inquiry_mark_for_review", Category: CategoryInquiries,
			Description: "Move an inquiry to needs_review for manual review.",
			Route:       action("/inquiries/{inquiryId}/mark-for-review"),
			Keywords:    []string{"inquiry", "review", "manual", "escalate"},
			Params:      []ParamSpec{idParam("inquiryId", "inquiry"), str("comment", "Reviewer comment.")},
		},
		{
			Name: "inquiry_expire", Category: CategoryInquiries, Destructive: true,
			Description: "Expire an inquiry and cancel its in-progress verifications.",
			Route:       action("/inquiries/{inquiryId}/expire"),
			Keywords:    []string{"inquiry", "expire", "cancel"},
			Params:      []ParamSpec{idParam("inquiryId", "inquiry")},
		},
		{
			Name: "inquiry_resume", Category: CategoryInquiries,
			Description: "Resume a pending inquiry and get a session token for the hosted flow.",
			Route:       action("/inquiries/{inquiryId}/resume"),
			Keywords:    []string{"inquiry", "resume", "session", "token"},
			Params:      []ParamSpec{idParam("inquiryId", "inquiry")},
		},
		{
			Name: "inquiry_generate_one_time_link", Category: CategoryInquiries,
			Description: "Generate a one-time link the user can open to complete the inquiry.",
			Route:       action("/inquiries/{inquiryId}/generate-one-time-link"),
			Keywords:    []string{"inquiry", "link", "url", "share"},
			Params: []ParamSpec{
				idParam("inquiryId", "inquiry"),
				{Name: "expiresInSeconds", Type: TypeInteger, Description: "Link lifetime in seconds."},
			},
		},
		{
			Name: "inquiry_add_tag", Category: CategoryInquiries,
			Description: "Add a tag to an inquiry.",
			Route:       action("/inquiries/{inquiryId}/add-tag"),
			Keywords:    []string{"inquiry", "tag", "label"},
			Params:      []ParamSpec{idParam("inquiryId", "inquiry"), tagParam()},
		},
		{
			Name: "inquiry_remove_tag", Category: CategoryInquiries,
			Description: "Remove a tag from an inquiry.",
			Route:       action("/inquiries/{inquiryId}/remove-tag"),
			Keywords:    []string{"inquiry", "tag", "untag"},
			Params:      []ParamSpec{idParam("inquiryId", "inquiry"), tagParam()},
		},

		// Inquiry templates
		{
			Name: "inquiry_template_list", Category: CategoryInquiryTemplates, ReadOnly: true,
			Description: "List inquiry templates available to the organization.",
			Route:       get("/inquiry-templates"),
			Keywords:    []string{"template", "inquiry", "flow", "list"},
			Params:      listParams(),
		},
		{
			Name: "inquiry_template_get", Category: CategoryInquiryTemplates, ReadOnly: true,
			Description: "Retrieve an inquiry template.",
			Route:       get("/inquiry-templates/{inquiryTemplateId}"),
			Keywords:    []string{"template", "inquiry", "flow"},
			Params:      []ParamSpec{idParam("inquiryTemplateId", "inquiry template")},
		},

		// Verifications
		{
			Name: "verification_get", Category: CategoryVerifications, ReadOnly: true,
			Description: "Retrieve a verification (government ID, selfie, database, document...) with its checks.",
			Route:       get("/verifications/{verificationId}"),
			Keywords:    []string{"verification", "checks", "government", "selfie", "id"},
			Params:      []ParamSpec{idParam("verificationId", "verification")},
		},

		// Reports
		{
			Name: "report_list", Category: CategoryReports, ReadOnly: true,
			Description: "List reports, newest first.",
			Route:       get("/reports"),
			Keywords:    []string{"report", "list", "watchlist", "screening"},
			Params: listParams(
				str("accountId", "Filter by account."),
				str("reportTemplateId", "Filter by report template."),
				str("status", "Filter by status."),
			),
		},
		{
			Name: "report_create", Category: CategoryReports,
			Description: "Run a report (watchlist, adverse media, address lookup...) from a report template.",
			Route:       post("/reports"),
			Keywords:    []string{"report", "run", "watchlist", "screening", "aml"},
			Params: []ParamSpec{
				requiredStr("reportTemplateId", "Report template to run, e.g. rptp_..."),
				str("accountId", "Account to attach the report to."),
				str("referenceId", "Your reference ID."),
				obj("query", "Report inputs, e.g. {\"nameFirst\": \"Jane\", \"birthdate\": \"1990-01-01\"}."),
			},
		},
		{
			Name: "report_get", Category: CategoryReports, ReadOnly: true,
			Description: "Retrieve a report and its matches.",
			Route:       get("/reports/{reportId}"),
			Keywords:    []string{"report", "get", "matches"},
			Params:      []ParamSpec{idParam("reportId", "report")},
		},
		{
			Name: "report_redact", Category: CategoryReports, Destructive: true,
			Description: "Permanently delete personally identifiable information of a report.",
			Route:       del("/reports/{reportId}"),
			Keywords:    []string{"report", "redact", "delete"},
			Params:      []ParamSpec{idParam("reportId", "report")},
		},

		// Cases
		{
			Name: "case_list", Category: CategoryCases, ReadOnly: true,
			Description: "List cases, newest first.",
			Route:       get("/cases"),
			Keywords:    []string{"case", "list", "queue", "review"},
			Params: listParams(
				str("caseTemplateId", "Filter by case template."),
				str("status", "Filter by status."),
				str("assigneeId", "Filter by assignee."),
			),
		},
		{
			Name: "case_create", Category: CategoryCases,
			Description: "Open a case from a case template.",
			Route:       post("/cases"),
			Keywords:    []string{"case", "create", "open", "review"},
			Params: []ParamSpec{
				requiredStr("caseTemplateId", "Case template, e.g. ctmpl_..."),
				str("name", "Case name."),
				fieldsParam(),
			},
		},
		{
			Name: "case_get", Category: CategoryCases, ReadOnly: true,
			Description: "Retrieve a case with its attached objects.",
			Route:       get("/cases/{caseId}"),
			Keywords:    []string{"case", "get"},
			Params:      []ParamSpec{idParam("caseId", "case"), includeParam()},
		},
		{
			Name: "case_update", Category: CategoryCases,
			Description: "Update the fields of a case.",
			Route:       patch("/cases/{caseId}"),
			Keywords:    []string{"case", "update"},
			Params:      []ParamSpec{idParam("caseId", "case"), fieldsParam()},
		},
		{
			Name: "case_assign", Category: CategoryCases,
			Description: "Assign a case to a dashboard user.",
			Route:       action("/cases/{caseId}/assign"),
			Keywords:    []string{"case", "assign", "owner"},
			Params:      []ParamSpec{idParam("caseId", "case"), requiredStr("userEmail", "Email of the assignee.")},
		},
		{
			Name: "case_set_status", Category: CategoryCases,
			Description: "Set the status of a case, e.g. open, pending, resolved.",
			Route:       action("/cases/{caseId}/set-status"),
			Keywords:    []string{"case", "status", "resolve", "close"},
			Params: []ParamSpec{
				idParam("caseId", "case"),
				requiredStr("status", "New status."),
				str("resolution", "Resolution when resolving, e.g. approved or declined."),
			},
		},
		{
			Name: "case_add_objects", Category: CategoryCases,
			Description: "Attach accounts, inquiries, reports or transactions to a case.",
			Route:       action("/cases/{caseId}/add-objects"),
			Keywords:    []string{"case", "attach", "link", "objects"},
			Params: []ParamSpec{
				idParam("caseId", "case"),
				strList("accountIds", "Accounts to attach."),
				strList("inquiryIds", "Inquiries to attach."),
				strList("reportIds", "Reports to attach."),
				strList("transactionIds", "Transactions to attach."),
			},
		},

		// Transactions
		{
			Name: "transaction_list", Category: CategoryTransactions, ReadOnly: true,
			Description: "List transactions, newest first.",
			Route:       get("/transactions"),
			Keywords:    []string{"transaction", "list", "fraud"},
			Params: listParams(
				str("referenceId", "Filter by reference ID."),
				str("transactionTypeId", "Filter by transaction type."),
			),
		},
		{
			Name: "transaction_create", Category: CategoryTransactions,
			Description: "Create a transaction to run through Persona workflows.",
			Route:       post("/transactions"),
			Keywords:    []string{"transaction", "create", "fraud", "event"},
			Params: []ParamSpec{
				requiredStr("transactionTypeId", "Transaction type, e.g. txntp_..."),
				str("referenceId", "Your reference ID."),
				fieldsParam(),
			},
		},
		{
			Name: "transaction_get", Category: CategoryTransactions, ReadOnly: true,
			Description: "Retrieve a transaction.",
			Route:       get("/transactions/{transactionId}"),
			Keywords:    []string{"transaction", "get"},
			Params:      []ParamSpec{idParam("transactionId", "transaction"), includeParam()},
		},
		{
			Name: "transaction_label", Category: CategoryTransactions,
			Description: "Label a transaction, e.g. as fraudulent, to train risk models.",
			Route:       action("/transactions/{transactionId}/label"),
			Keywords:    []string{"transaction", "label", "fraud", "feedback"},
			Params:      []ParamSpec{idParam("transactionId", "transaction"), requiredStr("label", "Label to apply.")},
		},
		{
			Name: "transaction_redact", Category: CategoryTransactions, Destructive: true,
			Description: "Permanently delete personally identifiable information of a transaction.",
			Route:       del("/transactions/{transactionId}"),
			Keywords:    []string{"transaction", "redact", "delete"},
			Params:      []ParamSpec{idParam("transactionId", "transaction")},
		},

		// Documents
		{
			Name: "document_get", Category: CategoryDocuments, ReadOnly: true,
			Description: "Retrieve a document (government ID, generic upload) with its extracted fields.",
			Route:       get("/documents/{documentId}"),
			Keywords:    []string{"document", "file", "upload", "id"},
			Params:      []ParamSpec{idParam("documentId", "document")},
		},

		// Events
		{
			Name: "event_list", Category: CategoryEvents, ReadOnly: true,
			Description: "List events such as inquiry.completed, newest first.",
			Route:       get("/events"),
			Keywords:    []string{"event", "list", "audit", "history"},
			Params: listParams(
				str("name", "Filter by event name, e.g. inquiry.approved."),
				str("objectId", "Filter by the ID of the object the event is about."),
			),
		},
		{
			Name: "event_get", Category: CategoryEvents, ReadOnly: true,
			Description: "Retrieve an event with its payload.",
			Route:       get("/events/{eventId}"),
			Keywords:    []string{"event", "get", "payload"},
			Params:      []ParamSpec{idParam("eventId", "event")},
		},

		// Webhooks
		{
			Name: "webhook_list", Category: CategoryWebhooks, ReadOnly: true,
			Description: "List webhooks.",
			Route:       get("/webhooks"),
			Keywords:    []string{"webhook", "list", "callback"},
			Params:      listParams(),
		},
		{
			Name: "webhook_create", Category: CategoryWebhooks,
			Description: "Create a webhook subscription.",
			Route:       post("/webhooks"),
			Keywords:    []string{"webhook", "create", "subscribe", "callback"},
			Params: []ParamSpec{
				requiredStr("url", "HTTPS endpoint receiving events."),
				{Name: "enabledEvents", Type: TypeArray, Items: TypeString, Required: true, Description: "Event names to deliver, e.g. [\"inquiry.completed\"]."},
				str("apiVersion", "Persona API version of the payloads."),
			},
		},
		{
			Name: "webhook_get", Category: CategoryWebhooks, ReadOnly: true,
			Description: "Retrieve a webhook.",
			Route:       get("/webhooks/{webhookId}"),
			Keywords:    []string{"webhook", "get"},
			Params:      []ParamSpec{idParam("webhookId", "webhook")},
		},
		{
			Name: "webhook_update", Category: CategoryWebhooks,
			Description: "Update the URL or the subscribed events of a webhook.",
			Route:       patch("/webhooks/{webhookId}"),
			Keywords:    []string{"webhook", "update"},
			Params: []ParamSpec{
				idParam("webhookId", "webhook"),
				str("url", "New endpoint."),
				strList("enabledEvents", "New event list."),
			},
		},
		{
			Name: "webhook_enable", Category: CategoryWebhooks,
			Description: "Enable a disabled webhook.",
			Route:       action("/webhooks/{webhookId}/enable"),
			Keywords:    []string{"webhook", "enable"},
			Params:      []ParamSpec{idParam("webhookId", "webhook")},
		},
		{
			Name: "webhook_disable", Category: CategoryWebhooks,
			Description: "Disable a webhook without deleting it.",
			Route:       action("/webhooks/{webhookId}/disable"),
			Keywords:    []string{"webhook", "disable", "pause"},
			Params:      []ParamSpec{idParam("webhookId", "webhook")},
		},
		{
			Name: "webhook_archive", Category: CategoryWebhooks, Destructive: true,
			Description: "Archive a webhook. Archived webhooks cannot be re-enabled.",
			Route:       action("/webhooks/{webhookId}/archive"),
			Keywords:    []string{"webhook", "archive", "delete"},
			Params:      []ParamSpec{idParam("webhookId", "webhook")},
		},

		// API logs
		{
			Name: "api_log_list", Category: CategoryAPILogs, ReadOnly: true,
			Description: "List API request logs, useful for debugging failed integrations.",
			Route:       get("/api-logs"),
			Keywords:    []string{"log", "api", "debug", "request", "audit"},
			Params: listParams(
				str("requestPath", "Filter by request path."),
				str("responseStatus", "Filter by response status, e.g. 422."),
			),
		},
		{
			Name: "api_log_get", Category: CategoryAPILogs, ReadOnly: true,
			Description: "Retrieve an API request log with request and response bodies.",
			Route:       get("/api-logs/{apiLogId}"),
			Keywords:    []string{"log", "api", "debug"},
			Params:      []ParamSpec{idParam("apiLogId", "API log")},
		},
	}
}
