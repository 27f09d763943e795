package persona

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"
)

// RetryConfig configures retry behavior for Persona API calls.
type RetryConfig struct {
	// MaxRetries is the maximum number of retry attempts.
	// Default: 3
	MaxRetries int

	// InitialBackoff is the initial backoff duration.
	// Default: 500 milliseconds
	InitialBackoff time.Duration

	// MaxBackoff caps both exponential backoff and server-requested waits.
	// Default: 30 seconds
	MaxBackoff time.Duration

	// BackoffMultiplier is the multiplier for exponential backoff.
	// Default: 2
	BackoffMultiplier float64
}

// DefaultRetryConfig returns the default retry configuration.
func DefaultRetryConfig() *RetryConfig {
	return &RetryConfig{
		MaxRetries:        3,
		InitialBackoff:    500 * time.Millisecond,
		MaxBackoff:        30 * time.Second,
		BackoffMultiplier: 2.0,
	}
}

// ApplyDefaults sets default values for unset fields. A negative MaxRetries
// disables retries.
func (c *RetryConfig) ApplyDefaults() {
	defaults := DefaultRetryConfig()

	if c.MaxRetries == 0 {
		c.MaxRetries = defaults.MaxRetries
	}
	if c.MaxRetries < 0 {
		c.MaxRetries = 0
	}
	if c.InitialBackoff == 0 {
		c.InitialBackoff = defaults.InitialBackoff
	}
	if c.MaxBackoff == 0 {
		c.MaxBackoff = defaults.MaxBackoff
	}
	if c.BackoffMultiplier == 0 {
		c.BackoffMultiplier = defaults.BackoffMultiplier
	}
}

// attemptFunc performs one attempt. A nil error with a non-nil response means
// the server answered; the status decides whether to retry.
type attemptFunc func(ctx context.Context, attempt int) (*Response, error)

// retryOperation runs op until it succeeds, fails permanently, or runs out
// of attempts. When retries are exhausted on a retryable status the last
// response is returned without error so the caller can decode Persona's
// error document.
func retryOperation(ctx context.Context, cfg RetryConfig, logger *zap.Logger, route string, op attemptFunc) (*Response, error) {
	var lastErr error
	var lastResp *Response
	backoff := cfg.InitialBackoff
	startTime := time.Now()

	for attempt := 0; attempt <= cfg.MaxRetries; attempt++ {
		resp, err := op(ctx, attempt)
		if resp != nil {
			resp.Attempts = attempt + 1
		}
		if err == nil && !isRetryableStatus(resp.Status) {
			if attempt > 0 {
				logger.Info("Persona API call recovered after retries",
					zap.String("route", route),
					zap.Int("attempts", attempt+1),
					zap.Duration("total_time", time.Since(startTime)),
				)
			}
			return resp, nil
		}

		lastErr = err
		lastResp = resp

		if err != nil && !isRetryableError(ctx, err) {
			return nil, err
		}

		if attempt == cfg.MaxRetries {
			break
		}

		wait := backoff
		if resp != nil {
			if serverWait, ok := retryAfter(resp.Header, time.Now()); ok {
				wait = serverWait
				if wait > cfg.MaxBackoff {
					wait = cfg.MaxBackoff
				}
			}
		}

		retriesTotal.WithLabelValues(route, retryReason(resp, err)).Inc()
		logger.Info("Retrying Persona API call",
			zap.String("route", route),
			zap.Int("attempt", attempt+1),
			zap.Int("max_attempts", cfg.MaxRetries+1),
			zap.Int("status_code", statusOf(resp)),
			zap.Error(err),
			zap.Duration("backoff", wait),
		)

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, fmt.Errorf("persona request canceled: %w", ctx.Err())
		case <-timer.C:
		}

		next := time.Duration(float64(backoff) * cfg.BackoffMultiplier)
		if next > cfg.MaxBackoff {
			next = cfg.MaxBackoff
		}
		backoff = next
	}

	logger.Warn("Persona API call failed after all retries exhausted",
		zap.String("route", route),
		zap.Int("total_attempts", cfg.MaxRetries+1),
		zap.Duration("total_time", time.Since(startTime)),
		zap.Int("status_code", statusOf(lastResp)),
		zap.Error(lastErr),
	)

	if lastErr != nil {
		return nil, fmt.Errorf("persona request failed after %d attempts: %w", cfg.MaxRetries+1, lastErr)
	}
	return lastResp, nil
}

// isRetryableStatus reports whether an HTTP status is worth another attempt.
func isRetryableStatus(status int) bool {
	switch status {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}

// isRetryableError reports whether a transport error is transient.
func isRetryableError(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, ErrResponseTooLarge) {
		return false
	}
	return true
}

// retryAfter reads the server-requested wait from Retry-After (seconds or
// HTTP date) or RateLimit-Reset (seconds).
func retryAfter(h http.Header, now time.Time) (time.Duration, bool) {
	if h == nil {
		return 0, false
	}
	if v := h.Get("Retry-After"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs >= 0 {
			return time.Duration(secs) * time.Second, true
		}
		if at, err := http.ParseTime(v); err == nil {
			wait := at.Sub(now)
			if wait < 0 {
				wait = 0
			}
			return wait, true
		}
	}
	if v := h.Get("RateLimit-Reset"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs >= 0 {
			return time.Duration(secs) * time.Second, true
		}
	}
	return 0, false
}

func retryReason(resp *Response, err error) string {
	if err != nil {
		return "transport"
	}
	if resp != nil && resp.Status == http.StatusTooManyRequests {
		return "rate_limited"
	}
	return "server_error"
}

func statusOf(resp *Response) int {
	if resp == nil {
		return 0
	}
	return resp.Status
}
