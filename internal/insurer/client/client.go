// Package client executes HTTP operations against the insurer API. One method
// per insurer operation, all built on a single generic executor that handles
// bearer auth, timeouts, retry with linear backoff, and error classification.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"coverflow/internal/insurer/wire"
	"coverflow/internal/platform/config"
	"coverflow/internal/platform/metrics"
)

const (
	// maxAttempts bounds one logical call: the first attempt plus up to two
	// retries for transient failures.
	maxAttempts = 3

	// backoffUnit spaces retries linearly: 1s after the first failure, 2s
	// after the second.
	backoffUnit = time.Second
)

// TokenSource supplies a bearer token for each request.
type TokenSource interface {
	AccessToken(ctx context.Context) (string, error)
}

// Client talks to the insurer. Construct with New; the zero value is not usable.
type Client struct {
	baseURL string
	timeout time.Duration
	http    *http.Client
	tokens  TokenSource
	metrics *metrics.Metrics
	logger  *slog.Logger

	// backoff is backoffUnit in production; tests shrink it.
	backoff time.Duration
}

// New builds a Client. httpClient and m may be nil.
func New(cfg config.Insurer, tokens TokenSource, httpClient *http.Client, m *metrics.Metrics, logger *slog.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		timeout: cfg.Timeout,
		http:    httpClient,
		tokens:  tokens,
		metrics: m,
		logger:  logger,
		backoff: backoffUnit,
	}
}

// execute is the generic request primitive. It retries transient failures up to
// maxAttempts with linear backoff and surfaces the last error once the budget
// is exhausted. Client errors (4xx) stop immediately.
func execute[T any](ctx context.Context, c *Client, operation, method, path string, query url.Values, body any) (T, error) {
	var zero T

	var encoded []byte
	if body != nil {
		var err error
		encoded, err = json.Marshal(body)
		if err != nil {
			return zero, fmt.Errorf("encode %s request: %w", operation, err)
		}
	}

	started := time.Now()
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if attempt > 1 {
			c.metrics.IncRetry()
			if err := sleep(ctx, c.backoff*time.Duration(attempt-1)); err != nil {
				break
			}
		}

		result, err := doOnce[T](ctx, c, method, path, query, encoded)
		if err == nil {
			c.metrics.ObserveInsurerCall(operation, "success", time.Since(started))
			return result, nil
		}
		lastErr = err

		var transient *TransientError
		if !errors.As(err, &transient) {
			break
		}
		if attempt < maxAttempts {
			c.logger.WarnContext(ctx, "insurer call failed, will retry",
				"operation", operation,
				"attempt", attempt,
				"error", err.Error(),
			)
		}
	}

	c.metrics.ObserveInsurerCall(operation, "failure", time.Since(started))
	return zero, lastErr
}

func doOnce[T any](ctx context.Context, c *Client, method, path string, query url.Values, body []byte) (T, error) {
	var zero T

	accessToken, err := c.tokens.AccessToken(ctx)
	if err != nil {
		return zero, err
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return zero, fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return zero, &TransientError{Message: fmt.Sprintf("%s %s", method, path), Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return zero, &TransientError{Message: fmt.Sprintf("read %s %s response", method, path), Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return zero, classify(resp.StatusCode, raw)
	}

	// 204 or an empty body is a valid empty success, not a parse failure.
	if resp.StatusCode == http.StatusNoContent || len(raw) == 0 {
		return zero, nil
	}

	var decoded T
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return zero, fmt.Errorf("decode %s %s response: %w", method, path, err)
	}
	return decoded, nil
}

// classify turns a non-2xx response into the error taxonomy: 4xx is the
// caller's fault and final, everything else is insurer-side and retryable.
func classify(status int, raw []byte) error {
	var body wire.ErrorBody
	if err := json.Unmarshal(raw, &body); err != nil || (body.Code == "" && body.Message == "") {
		body = wire.ErrorBody{Message: strings.TrimSpace(string(raw))}
	}

	if status >= 400 && status < 500 {
		return &ClientError{StatusCode: status, Code: body.Code, Message: body.Message}
	}
	return &TransientError{StatusCode: status, Message: body.Message}
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
