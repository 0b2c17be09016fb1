package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// ErrUpstreamAuth marks 401/403 responses. These are terminal: retrying an
// invalid key or exhausted quota cannot succeed.
var ErrUpstreamAuth = errors.New("upstream authorization failed")

// ErrRateLimited marks 429 responses that persisted past the retry budget.
var ErrRateLimited = errors.New("upstream rate limited")

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// retryDecision is the outcome of classifying one upstream response.
type retryDecision int

const (
	decideSuccess     retryDecision = iota
	decideRetry                     // transient failure, exponential backoff
	decideRateLimited               // backoff per Retry-After, else exponential
	decideTerminal                  // auth/quota failure, give up immediately
)

// classifyStatus maps an HTTP status code to a retry decision.
func classifyStatus(status int) retryDecision {
	switch {
	case status >= 200 && status < 300:
		return decideSuccess
	case status == http.StatusTooManyRequests:
		return decideRateLimited
	case status == http.StatusUnauthorized, status == http.StatusForbidden:
		return decideTerminal
	default:
		return decideRetry
	}
}

// BaseClient performs GET requests against upstream APIs with a circuit
// breaker, bounded retries and exponential backoff. Rate limits honor the
// server's Retry-After header when present.
type BaseClient struct {
	client         HTTPClient
	logger         *zap.Logger
	circuitBreaker *gobreaker.CircuitBreaker
	maxAttempts    int
	backoffFactor  float64
	sleepFn        func(time.Duration)
}

type ClientConfig struct {
	Timeout        time.Duration
	MaxAttempts    int
	BackoffFactor  float64
	BreakerTimeout time.Duration
}

type BaseClientOption func(*BaseClient)

// WithSleepFunc overrides the sleep used between retries. Intended for
// tests so backoff does not delay them.
func WithSleepFunc(fn func(time.Duration)) BaseClientOption {
	return func(c *BaseClient) {
		c.sleepFn = fn
	}
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(httpClient HTTPClient) BaseClientOption {
	return func(c *BaseClient) {
		c.client = httpClient
	}
}

func NewBaseClient(name string, config ClientConfig, logger *zap.Logger, opts ...BaseClientOption) *BaseClient {
	httpClient := &http.Client{
		Timeout: config.Timeout,
	}

	breakerSettings := gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    0,
		Timeout:     config.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= 0.6
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Info("Circuit breaker state changed",
				zap.String("client", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	}

	c := &BaseClient{
		client:         httpClient,
		logger:         logger,
		circuitBreaker: gobreaker.NewCircuitBreaker(breakerSettings),
		maxAttempts:    config.MaxAttempts,
		backoffFactor:  config.BackoffFactor,
		sleepFn:        time.Sleep,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// GetWithRetry fetches the URL, retrying per the client's policy. It
// returns the raw body on the first 2xx response; parsing is the caller's
// concern.
func (c *BaseClient) GetWithRetry(ctx context.Context, url string) ([]byte, error) {
	var response []byte
	var err error

	_, execErr := c.circuitBreaker.Execute(func() (interface{}, error) {
		response, err = c.doGetWithRetry(ctx, url)
		return response, err
	})
	if execErr != nil {
		return nil, execErr
	}

	return response, err
}

func (c *BaseClient) doGetWithRetry(ctx context.Context, url string) ([]byte, error) {
	var lastErr error

	for attempt := 0; attempt < c.maxAttempts; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, fmt.Errorf("creating request failed: %w", err)
		}

		resp, err := c.client.Do(req)
		if err != nil {
			lastErr = err
			c.logger.Warn("HTTP request failed",
				zap.String("url", url),
				zap.Int("attempt", attempt),
				zap.Error(err))
			if err := c.backoff(ctx, attempt, 0); err != nil {
				return nil, err
			}
			continue
		}

		switch classifyStatus(resp.StatusCode) {
		case decideSuccess:
			body, err := io.ReadAll(resp.Body)
			resp.Body.Close()
			if err != nil {
				lastErr = err
				continue
			}
			c.logger.Debug("Request successful",
				zap.String("url", url),
				zap.Int("status", resp.StatusCode),
				zap.Int("body_size", len(body)))
			return body, nil

		case decideRateLimited:
			retryAfter := retryAfterSeconds(resp)
			resp.Body.Close()
			lastErr = fmt.Errorf("HTTP %d: %w", resp.StatusCode, ErrRateLimited)
			c.logger.Warn("Rate limited, backing off",
				zap.String("url", url),
				zap.Int("attempt", attempt),
				zap.Int("retry_after_s", retryAfter))
			if err := c.backoff(ctx, attempt, retryAfter); err != nil {
				return nil, err
			}

		case decideTerminal:
			msg := errorMessage(resp.Body)
			resp.Body.Close()
			c.logger.Error("Upstream rejected request",
				zap.String("url", url),
				zap.Int("status", resp.StatusCode),
				zap.String("message", msg))
			return nil, fmt.Errorf("HTTP %d: %w", resp.StatusCode, ErrUpstreamAuth)

		default:
			resp.Body.Close()
			lastErr = fmt.Errorf("HTTP %d", resp.StatusCode)
			if err := c.backoff(ctx, attempt, 0); err != nil {
				return nil, err
			}
		}
	}

	return nil, fmt.Errorf("max retries exceeded, last error: %w", lastErr)
}

// backoff sleeps for the server-suggested seconds when given, otherwise
// backoffFactor^attempt seconds. Context cancellation cuts the sleep short.
func (c *BaseClient) backoff(ctx context.Context, attempt, suggestedSeconds int) error {
	delay := time.Duration(math.Pow(c.backoffFactor, float64(attempt)) * float64(time.Second))
	if suggestedSeconds > 0 {
		delay = time.Duration(suggestedSeconds) * time.Second
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	c.sleepFn(delay)
	return nil
}

// retryAfterSeconds reads the Retry-After header, 0 if absent or unusable.
func retryAfterSeconds(resp *http.Response) int {
	header := resp.Header.Get("Retry-After")
	if header == "" {
		return 0
	}
	seconds, err := strconv.Atoi(header)
	if err != nil || seconds < 0 {
		return 0
	}
	return seconds
}

// errorMessage pulls the "message" field out of an upstream error body.
func errorMessage(body io.Reader) string {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(body).Decode(&payload); err != nil || payload.Message == "" {
		return "API key invalid or quota exceeded"
	}
	return payload.Message
}
