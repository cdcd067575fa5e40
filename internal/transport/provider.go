package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	apperrors "github.com/nerva-logistics/alertdispatch/internal/errors"
	"github.com/nerva-logistics/alertdispatch/internal/util"
)

const (
	defaultProviderTimeout = 10 * time.Second
	maxResponseBody        = 64 << 10
)

// statusError reports a non-2xx provider response.
type statusError struct {
	Provider   string
	StatusCode int
	Status     string
	Body       string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("%s api %s: %s", e.Provider, e.Status, e.Body)
}

// retryable reports whether a provider call may succeed if repeated.
// Client errors other than rate limiting are permanent.
func retryable(err error) bool {
	var se *statusError
	if errors.As(err, &se) {
		return se.StatusCode == http.StatusTooManyRequests || se.StatusCode >= 500
	}
	return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}

type providerResponse struct {
	Header http.Header
	Body   []byte
}

func newHTTPClient(c *http.Client, timeout time.Duration) *http.Client {
	if c != nil {
		return c
	}
	if timeout <= 0 {
		timeout = defaultProviderTimeout
	}
	return &http.Client{Timeout: timeout}
}

// do executes the request and returns the body of a 2xx response.
func do(client *http.Client, req *http.Request, provider string) (providerResponse, error) {
	resp, err := client.Do(req)
	if err != nil {
		return providerResponse{}, fmt.Errorf("%s request failed: %w", provider, err)
	}

	body, readErr := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if closeErr := resp.Body.Close(); closeErr != nil {
		readErr = errors.Join(readErr, fmt.Errorf("close response body: %w", closeErr))
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return providerResponse{}, &statusError{
			Provider:   provider,
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       strings.TrimSpace(string(body)),
		}
	}
	if readErr != nil {
		return providerResponse{}, fmt.Errorf("read %s response: %w", provider, readErr)
	}
	return providerResponse{Header: resp.Header, Body: body}, nil
}

// withRetry runs call under the shared linear backoff and maps the final error.
func withRetry(ctx context.Context, retries int, provider string, call func(context.Context) error) error {
	err := util.Retry(ctx, retries, util.DefaultRetryStep, retryable, call)
	if err == nil {
		return nil
	}
	if ctxErr := apperrors.FromContext(err, provider+" delivery abandoned"); ctxErr != nil {
		return ctxErr
	}
	return apperrors.TransportFailure(provider+" delivery failed", err)
}

// probe issues a GET and classifies the response for connectivity checks.
func probe(ctx context.Context, client *http.Client, req *http.Request) bool {
	resp, err := client.Do(req.WithContext(ctx))
	if err != nil {
		return false
	}
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBody))
	_ = resp.Body.Close()
	return resp.StatusCode >= 200 && resp.StatusCode < 300
}
