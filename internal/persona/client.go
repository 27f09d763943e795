package persona

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"

	"github.com/fyrsmithlabs/persona-mcp/internal/config"
	"github.com/fyrsmithlabs/persona-mcp/internal/jsonapi"
)

const (
	// DefaultBaseURL is the production Persona API root. Sandbox and
	// production share it; the API key decides the environment.
	DefaultBaseURL = "https://withpersona.com/api/v1"

	// DefaultVersion is the Persona-Version header sent with every request.
	DefaultVersion = "2023-01-05"

	defaultTimeout          = 30 * time.Second
	defaultRateLimit        = 5.0 // Persona allows 300 requests per minute
	defaultBurst            = 10
	defaultMaxResponseBytes = 10 << 20

	headerVersion        = "Persona-Version"
	headerKeyInflection  = "Key-Inflection"
	headerIdempotencyKey = "Idempotency-Key"
	headerRequestID      = "X-Request-Id"

	tracerName = "github.com/fyrsmithlabs/persona-mcp/internal/persona"
)

// ErrResponseTooLarge is returned when a response exceeds MaxResponseBytes.
var ErrResponseTooLarge = errors.New("persona response too large")

// Config configures a Client.
type Config struct {
	BaseURL string
	APIKey  config.Secret
	Version string
	Timeout time.Duration

	// RateLimit is the steady-state request rate per second; Burst is the
	// bucket size.
	RateLimit float64
	Burst     int

	MaxResponseBytes int64
	Retry            *RetryConfig
}

// FromAppConfig maps the persona section of the application config onto a
// client Config. A max_retries of zero disables retries.
func FromAppConfig(app config.PersonaConfig) Config {
	retry := DefaultRetryConfig()
	retry.MaxRetries = app.MaxRetries
	if app.MaxRetries == 0 {
		retry.MaxRetries = -1
	}
	return Config{
		BaseURL:          app.BaseURL,
		APIKey:           app.APIKey,
		Version:          app.APIVersion,
		Timeout:          app.Timeout.Duration(),
		RateLimit:        app.RateLimit,
		Burst:            app.Burst,
		MaxResponseBytes: app.MaxResponseBytes,
		Retry:            retry,
	}
}

// Response is a raw upstream response, decoded later by the translator.
type Response struct {
	Status    int
	Header    http.Header
	Body      []byte
	RequestID string
	// Attempts is the number of attempts made, retries included.
	Attempts int
}

// Client sends translated requests to Persona. It is safe for concurrent use.
type Client struct {
	baseURL          *url.URL
	version          string
	httpClient       *http.Client
	limiter          *rate.Limiter
	retry            RetryConfig
	maxResponseBytes int64
	logger           *zap.Logger
	tracer           trace.Tracer
}

// Option customizes a Client.
type Option func(*Client)

// WithLogger sets the client logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithTracerProvider overrides the global tracer provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(c *Client) {
		if tp != nil {
			c.tracer = tp.Tracer(tracerName)
		}
	}
}

// NewClient creates a Persona client authenticated with cfg.APIKey.
func NewClient(ctx context.Context, cfg Config, opts ...Option) (*Client, error) {
	if !cfg.APIKey.IsSet() {
		return nil, fmt.Errorf("persona API key not set")
	}

	rawURL := cfg.BaseURL
	if rawURL == "" {
		rawURL = DefaultBaseURL
	}
	base, err := url.Parse(strings.TrimRight(rawURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid persona base URL %q: %w", rawURL, err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("invalid persona base URL %q: scheme must be http or https", rawURL)
	}

	version := cfg.Version
	if version == "" {
		version = DefaultVersion
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	limit := cfg.RateLimit
	if limit <= 0 {
		limit = defaultRateLimit
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = defaultBurst
	}
	maxBytes := cfg.MaxResponseBytes
	if maxBytes <= 0 {
		maxBytes = defaultMaxResponseBytes
	}

	retryCfg := *DefaultRetryConfig()
	if cfg.Retry != nil {
		retryCfg = *cfg.Retry
	}
	retryCfg.ApplyDefaults()

	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.APIKey.Value(), TokenType: "Bearer"})
	httpClient := oauth2.NewClient(ctx, ts)
	httpClient.Timeout = timeout

	c := &Client{
		baseURL:          base,
		version:          version,
		httpClient:       httpClient,
		limiter:          rate.NewLimiter(rate.Limit(limit), burst),
		retry:            retryCfg,
		maxResponseBytes: maxBytes,
		logger:           zap.NewNop(),
		tracer:           otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the configured API root.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// Do sends req, retrying transient failures. Non-2xx responses are returned
// as a Response, not an error; errors are reserved for transport failures.
func (c *Client) Do(ctx context.Context, req *jsonapi.Request) (*Response, error) {
	if req == nil {
		return nil, fmt.Errorf("persona request is nil")
	}

	body, err := req.BodyJSON()
	if err != nil {
		return nil, err
	}
	target := c.resolve(req)

	route := req.Route
	if route == "" {
		route = req.Path
	}

	ctx, span := c.tracer.Start(ctx, "persona "+req.Method+" "+route,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", req.Method),
			attribute.String("url.template", route),
			attribute.String("persona.tool", req.Tool),
		),
	)
	defer span.End()

	var idempotencyKey string
	if req.Method == http.MethodPost {
		idempotencyKey = uuid.NewString()
	}

	start := time.Now()
	resp, err := retryOperation(ctx, c.retry, c.logger, route, func(ctx context.Context, attempt int) (*Response, error) {
		return c.send(ctx, req.Method, target, body, idempotencyKey)
	})
	RequestDuration.WithLabelValues(req.Method, route).Observe(time.Since(start).Seconds())

	if err != nil {
		RequestsTotal.WithLabelValues(req.Method, route, "error").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		c.logger.Warn("persona request failed",
			zap.String("tool", req.Tool),
			zap.String("method", req.Method),
			zap.String("route", route),
			zap.Error(err),
		)
		return nil, err
	}

	RequestsTotal.WithLabelValues(req.Method, route, strconv.Itoa(resp.Status)).Inc()
	span.SetAttributes(
		attribute.Int("http.response.status_code", resp.Status),
		attribute.Int("persona.attempts", resp.Attempts),
	)
	if resp.RequestID != "" {
		span.SetAttributes(attribute.String("persona.request_id", resp.RequestID))
	}
	if resp.Status >= 400 {
		span.SetStatus(codes.Error, http.StatusText(resp.Status))
	}

	c.logger.Debug("persona request completed",
		zap.String("tool", req.Tool),
		zap.String("method", req.Method),
		zap.String("route", route),
		zap.Int("status", resp.Status),
		zap.Int("attempts", resp.Attempts),
		zap.String("request_id", resp.RequestID),
		zap.Duration("duration", time.Since(start)),
	)
	return resp, nil
}

// resolve joins the already-escaped request path and the query onto the
// base URL.
func (c *Client) resolve(req *jsonapi.Request) string {
	target := c.baseURL.String() + req.Path
	if len(req.Query) > 0 {
		target += "?" + req.Query.Encode()
	}
	return target
}

// send performs a single attempt.
func (c *Client) send(ctx context.Context, method, target string, body []byte, idempotencyKey string) (*Response, error) {
	waitStart := time.Now()
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}
	RateLimitWaitSeconds.Observe(time.Since(waitStart).Seconds())

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	httpReq, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set(headerVersion, c.version)
	httpReq.Header.Set(headerKeyInflection, "camel")
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if idempotencyKey != "" {
		httpReq.Header.Set(headerIdempotencyKey, idempotencyKey)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("persona API request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, c.maxResponseBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if int64(len(data)) > c.maxResponseBytes {
		return nil, fmt.Errorf("%w: exceeds %d bytes", ErrResponseTooLarge, c.maxResponseBytes)
	}

	return &Response{
		Status:    resp.StatusCode,
		Header:    resp.Header,
		Body:      data,
		RequestID: resp.Header.Get(headerRequestID),
	}, nil
}
