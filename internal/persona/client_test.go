package persona

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyrsmithlabs/persona-mcp/internal/config"
	"github.com/fyrsmithlabs/persona-mcp/internal/jsonapi"
	"github.com/fyrsmithlabs/persona-mcp/internal/telemetry"
)

const testAPIKey = "persona_sandbox_0123456789abcdef"

func newTestClient(t *testing.T, srv *httptest.Server) *Client {
	t.Helper()
	c, err := NewClient(context.Background(), Config{
		BaseURL:   srv.URL + "/api/v1",
		APIKey:    config.Secret(testAPIKey),
		RateLimit: 1000,
		Burst:     100,
		Retry: &RetryConfig{
			MaxRetries:     2,
			InitialBackoff: time.Millisecond,
			MaxBackoff:     5 * time.Millisecond,
		},
	})
	require.NoError(t, err)
	return c
}

func encode(t *testing.T, tool string, params map[string]any) *jsonapi.Request {
	t.Helper()
	req, err := jsonapi.NewTranslator(DefaultCatalog().Routes()).Encode(tool, params)
	require.NoError(t, err)
	return req
}

func TestNewClient_Validation(t *testing.T) {
	_, err := NewClient(context.Background(), Config{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key")

	_, err = NewClient(context.Background(), Config{APIKey: "k", BaseURL: "ftp://example.com"})
	require.Error(t, err)

	c, err := NewClient(context.Background(), Config{APIKey: "k"})
	require.NoError(t, err)
	assert.Equal(t, DefaultBaseURL, c.BaseURL())
}

func TestClient_Do_HeadersAndBody(t *testing.T) {
	var captured *http.Request
	var capturedBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = r.Clone(context.Background())
		capturedBody, _ = io.ReadAll(r.Body)
		w.Header().Set("X-Request-Id", "req_abc")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"data":{"type":"inquiry","id":"inq_1","attributes":{"status":"created"}}}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv)
	req := encode(t, "inquiry_create", map[string]any{
		"inquiryTemplateId": "itmpl_abc",
		"fields":            map[string]any{"nameFirst": "John"},
	})

	resp, err := c.Do(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.Status)
	assert.Equal(t, "req_abc", resp.RequestID)
	assert.Equal(t, 1, resp.Attempts)

	require.NotNil(t, captured)
	assert.Equal(t, http.MethodPost, captured.Method)
	assert.Equal(t, "/api/v1/inquiries", captured.URL.Path)
	assert.Equal(t, "Bearer "+testAPIKey, captured.Header.Get("Authorization"))
	assert.Equal(t, DefaultVersion, captured.Header.Get("Persona-Version"))
	assert.Equal(t, "camel", captured.Header.Get("Key-Inflection"))
	assert.Equal(t, "application/json", captured.Header.Get("Content-Type"))
	assert.NotEmpty(t, captured.Header.Get("Idempotency-Key"))

	var body map[string]any
	require.NoError(t, json.Unmarshal(capturedBody, &body))
	assert.Equal(t, map[string]any{
		"data": map[string]any{
			"attributes": map[string]any{
				"inquiryTemplateId": "itmpl_abc",
				"fields":            map[string]any{"nameFirst": "John"},
			},
		},
	}, body)
}

func TestClient_Do_ReadRequest(t *testing.T) {
	var captured *http.Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = r.Clone(context.Background())
		_, _ = w.Write([]byte(`{"data":[]}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv)
	req := encode(t, "inquiry_list", map[string]any{"pageSize": float64(5), "status": "approved"})

	resp, err := c.Do(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.Status)

	assert.Equal(t, http.MethodGet, captured.Method)
	assert.Equal(t, "/api/v1/inquiries", captured.URL.Path)
	assert.Equal(t, "5", captured.URL.Query().Get("page[size]"))
	assert.Equal(t, "approved", captured.URL.Query().Get("filter[status]"))
	assert.Empty(t, captured.Header.Get("Idempotency-Key"))
	assert.Empty(t, captured.Header.Get("Content-Type"))
}

func TestClient_Do_EscapedIdentifier(t *testing.T) {
	var escaped string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		escaped = r.URL.EscapedPath()
		_, _ = w.Write([]byte(`{"data":null}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv)
	_, err := c.Do(context.Background(), encode(t, "account_get", map[string]any{"accountId": "act/1"}))
	require.NoError(t, err)
	assert.Equal(t, "/api/v1/accounts/act%2F1", escaped)
}

func TestClient_Do_RetriesKeepIdempotencyKey(t *testing.T) {
	var mu sync.Mutex
	var keys []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		keys = append(keys, r.Header.Get("Idempotency-Key"))
		n := len(keys)
		mu.Unlock()

		if n < 3 {
			w.Header().Set("Retry-After", "0")
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"errors":[{"status":"429","title":"Too many requests"}]}`))
			return
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"data":{"type":"account","id":"act_1","attributes":{}}}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv)
	resp, err := c.Do(context.Background(), encode(t, "account_create", map[string]any{"referenceId": "u1"}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.Status)
	assert.Equal(t, 3, resp.Attempts)

	require.Len(t, keys, 3)
	assert.NotEmpty(t, keys[0])
	assert.Equal(t, keys[0], keys[1])
	assert.Equal(t, keys[0], keys[2])
}

func TestClient_Do_FreshIdempotencyKeyPerCall(t *testing.T) {
	var mu sync.Mutex
	keys := map[string]bool{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		keys[r.Header.Get("Idempotency-Key")] = true
		mu.Unlock()
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"data":null}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv)
	for i := 0; i < 3; i++ {
		_, err := c.Do(context.Background(), encode(t, "account_create", map[string]any{}))
		require.NoError(t, err)
	}
	assert.Len(t, keys, 3)
}

func TestClient_Do_RetryExhaustedReturnsLastResponse(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"errors":[{"status":"503","title":"Service unavailable"}]}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv)
	resp, err := c.Do(context.Background(), encode(t, "account_get", map[string]any{"accountId": "act_1"}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, resp.Status)
	assert.Equal(t, int32(3), calls.Load())
	assert.Equal(t, 3, resp.Attempts)

	_, decodeErr := jsonapi.Decode(resp.Status, resp.Body)
	assert.ErrorIs(t, decodeErr, jsonapi.ErrUpstream)
}

func TestClient_Do_ClientErrorsNotRetried(t *testing.T) {
	for _, status := range []int{http.StatusBadRequest, http.StatusUnauthorized, http.StatusNotFound, http.StatusUnprocessableEntity} {
		t.Run(http.StatusText(status), func(t *testing.T) {
			var calls atomic.Int32
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls.Add(1)
				w.WriteHeader(status)
				_, _ = w.Write([]byte(`{"errors":[{"code":"x"}]}`))
			}))
			defer srv.Close()

			c := newTestClient(t, srv)
			resp, err := c.Do(context.Background(), encode(t, "account_update", map[string]any{"accountId": "act_1"}))
			require.NoError(t, err)
			assert.Equal(t, status, resp.Status)
			assert.Equal(t, int32(1), calls.Load())
		})
	}
}

func TestClient_Do_TransportErrorExhausted(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	c := newTestClient(t, srv)
	srv.Close()

	_, err := c.Do(context.Background(), encode(t, "account_list", nil))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "after 3 attempts")
}

func TestClient_Do_ContextCanceled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c, err := NewClient(context.Background(), Config{
		BaseURL: srv.URL,
		APIKey:  "k",
		Retry:   &RetryConfig{MaxRetries: 5, InitialBackoff: time.Hour, MaxBackoff: time.Hour},
	})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err = c.Do(ctx, encode(t, "account_list", nil))
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestClient_Do_ResponseTooLarge(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(`{"data":{"attributes":{"blob":"` + strings.Repeat("x", 256) + `"}}}`))
	}))
	defer srv.Close()

	c, err := NewClient(context.Background(), Config{BaseURL: srv.URL, APIKey: "k", MaxResponseBytes: 64})
	require.NoError(t, err)

	_, err = c.Do(context.Background(), encode(t, "account_list", nil))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrResponseTooLarge)
	assert.Equal(t, int32(1), calls.Load())
}

func TestClient_Do_NilRequest(t *testing.T) {
	c, err := NewClient(context.Background(), Config{APIKey: "k"})
	require.NoError(t, err)
	_, err = c.Do(context.Background(), nil)
	assert.Error(t, err)
}

func TestFromAppConfig(t *testing.T) {
	app := config.Default().Persona
	app.APIKey = config.Secret(testAPIKey)

	cfg := FromAppConfig(app)
	assert.Equal(t, DefaultBaseURL, cfg.BaseURL)
	assert.Equal(t, DefaultVersion, cfg.Version)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.Equal(t, testAPIKey, cfg.APIKey.Value())
	require.NotNil(t, cfg.Retry)
	assert.Equal(t, 3, cfg.Retry.MaxRetries)

	app.MaxRetries = 0
	cfg = FromAppConfig(app)
	cfg.Retry.ApplyDefaults()
	assert.Equal(t, 0, cfg.Retry.MaxRetries)
}

func TestClient_Do_RecordsSpan(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Request-Id", "req_span_1")
		_, _ = w.Write([]byte(`{"data": {"type": "inquiry", "id": "inq_1", "attributes": {}}}`))
	}))
	defer srv.Close()

	tel := telemetry.NewTestTelemetry()
	c, err := NewClient(context.Background(), Config{
		BaseURL:   srv.URL,
		APIKey:    config.Secret(testAPIKey),
		RateLimit: 1000,
		Burst:     100,
	}, WithTracerProvider(tel.TracerProvider()))
	require.NoError(t, err)

	_, err = c.Do(context.Background(), encode(t, "inquiry_get", map[string]any{"inquiryId": "inq_1"}))
	require.NoError(t, err)

	const name = "persona GET /inquiries/{inquiryId}"
	tel.AssertSpanExists(t, name)
	tel.AssertSpanAttribute(t, name, "persona.tool", "inquiry_get")
	tel.AssertSpanAttribute(t, name, "http.response.status_code", int64(http.StatusOK))
	tel.AssertSpanAttribute(t, name, "persona.request_id", "req_span_1")
}

func TestNewClient_DoesNotMutateRetryConfig(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"errors":[{"status":"503","title":"Unavailable"}]}`))
	}))
	defer srv.Close()

	cfg := Config{
		BaseURL:   srv.URL,
		APIKey:    config.Secret(testAPIKey),
		RateLimit: 1000,
		Burst:     100,
		Retry:     &RetryConfig{MaxRetries: -1, InitialBackoff: time.Millisecond},
	}

	for i := 0; i < 2; i++ {
		c, err := NewClient(context.Background(), cfg)
		require.NoError(t, err)

		calls.Store(0)
		resp, err := c.Do(context.Background(), encode(t, "inquiry_get", map[string]any{"inquiryId": "inq_1"}))
		require.NoError(t, err)
		assert.Equal(t, http.StatusServiceUnavailable, resp.Status)
		assert.Equal(t, int32(1), calls.Load(), "client %d retried", i)
	}
	assert.Equal(t, -1, cfg.Retry.MaxRetries)
	assert.Zero(t, cfg.Retry.MaxBackoff)
}
