// Package http builds the retryable HTTP clients used to talk to upstream
// services. It wraps HashiCorp's retryablehttp.Client, routes its diagnostics
// through the application logger and offers a helper to reject unexpected
// status codes.
package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	nethttp "net/http"
	"time"

	"github.com/gabapcia/blockpulse/internal/pkg/logger"

	"github.com/hashicorp/go-retryablehttp"
)

// ErrUnexpectedStatus is returned by ExpectStatus when a response carries a
// status code outside the accepted set.
var ErrUnexpectedStatus = errors.New("unexpected http status")

// maxErrorBody bounds how much of a failed response body is kept in the error.
const maxErrorBody = 256

type config struct {
	timeout      time.Duration
	retryWaitMin time.Duration
	retryWaitMax time.Duration
	retryMax     int
	userAgent    string
}

// Option defines a functional option for configuring the HTTP client.
type Option func(*config)

// NewClient returns a retryablehttp.Client configured with the provided
// options. Defaults:
//
//   - timeout:      10 seconds
//   - retryWaitMin: 500 milliseconds
//   - retryWaitMax: 5 seconds
//   - retryMax:     0 (a failed request is reported, not retried)
func NewClient(opts ...Option) *retryablehttp.Client {
	cfg := config{
		timeout:      10 * time.Second,
		retryWaitMin: 500 * time.Millisecond,
		retryWaitMax: 5 * time.Second,
		retryMax:     0,
		userAgent:    "blockpulse",
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	client := retryablehttp.NewClient()
	client.Logger = leveledLogger{}
	client.HTTPClient.Timeout = cfg.timeout
	client.RetryWaitMin = cfg.retryWaitMin
	client.RetryWaitMax = cfg.retryWaitMax
	client.RetryMax = cfg.retryMax
	client.ErrorHandler = retryablehttp.PassthroughErrorHandler

	userAgent := cfg.userAgent
	client.RequestLogHook = func(_ retryablehttp.Logger, req *nethttp.Request, attempt int) {
		if req.Header.Get("User-Agent") == "" {
			req.Header.Set("User-Agent", userAgent)
		}
		if attempt > 0 {
			logger.Debug(req.Context(), "retrying upstream request",
				"http.url", req.URL.Redacted(),
				"http.attempt", attempt,
			)
		}
	}

	return client
}

// WithTimeout sets the maximum duration allowed for a single HTTP request.
func WithTimeout(d time.Duration) Option {
	return func(c *config) {
		c.timeout = d
	}
}

// WithRetryWaitMin sets the minimum delay between retry attempts.
func WithRetryWaitMin(d time.Duration) Option {
	return func(c *config) {
		c.retryWaitMin = d
	}
}

// WithRetryWaitMax sets the maximum delay between retry attempts.
func WithRetryWaitMax(d time.Duration) Option {
	return func(c *config) {
		c.retryWaitMax = d
	}
}

// WithRetryMax sets the maximum number of retry attempts for failed requests.
func WithRetryMax(n int) Option {
	return func(c *config) {
		c.retryMax = n
	}
}

// WithUserAgent sets the User-Agent header sent when a request has none.
func WithUserAgent(ua string) Option {
	return func(c *config) {
		c.userAgent = ua
	}
}

// ExpectStatus returns nil when res.StatusCode is one of codes (200 when
// codes is empty). Otherwise it drains a bounded prefix of the body into an
// error wrapping ErrUnexpectedStatus. The caller still owns res.Body.
func ExpectStatus(res *nethttp.Response, codes ...int) error {
	if len(codes) == 0 {
		codes = []int{nethttp.StatusOK}
	}

	for _, code := range codes {
		if res.StatusCode == code {
			return nil
		}
	}

	body, _ := io.ReadAll(io.LimitReader(res.Body, maxErrorBody))
	return fmt.Errorf("%w: %d %s", ErrUnexpectedStatus, res.StatusCode, string(body))
}

// leveledLogger adapts retryablehttp's logging to the application logger.
type leveledLogger struct{}

var _ retryablehttp.LeveledLogger = leveledLogger{}

func (leveledLogger) Error(msg string, keysAndValues ...any) {
	logger.Error(context.Background(), msg, keysAndValues...)
}

func (leveledLogger) Info(msg string, keysAndValues ...any) {
	logger.Debug(context.Background(), msg, keysAndValues...)
}

func (leveledLogger) Debug(msg string, keysAndValues ...any) {
	logger.Debug(context.Background(), msg, keysAndValues...)
}

func (leveledLogger) Warn(msg string, keysAndValues ...any) {
	logger.Warn(context.Background(), msg, keysAndValues...)
}
