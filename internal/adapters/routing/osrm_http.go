package routing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"journey-route-service/internal/platform/obs"
	"net"
	"net/http"
	"strings"
	"time"
)

type httpStatusError struct {
	Code int
	Body string
}

func (o *OSRMSegmentFetcher) newRequest(
	ctx context.Context,
	method string,
	url string,
	body io.Reader,
) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "journey-route-service")

	if reqID := obs.RequestID(ctx); reqID != "" {
		req.Header.Set("X-Request-ID", reqID)
	}

	return req, nil
}

// do treats any non-2xx response as an error and drains its body into the error.
func (o *OSRMSegmentFetcher) do(req *http.Request) (*http.Response, error) {
	resp, err := o.session.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		resp.Body.Close()
		return nil, &httpStatusError{
			Code: resp.StatusCode,
			Body: strings.TrimSpace(string(b)),
		}
	}
	return resp, nil
}

// sleepCtx waits for d unless ctx is cancelled first.
func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	select {
	case <-ctx.Done():
		timer.Stop()
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// attemptOutcome labels a finished attempt for metrics.
func attemptOutcome(ctx context.Context, err error) string {
	var he *httpStatusError
	var netErr net.Error

	switch {
	case err == nil:
		return "ok"
	case ctx.Err() != nil:
		return "cancelled"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, errRateLimited):
		return "rate_limited"
	case errors.Is(err, errNoRoute):
		return "no_route"
	case errors.As(err, &he):
		return "http_error"
	case errors.As(err, &netErr):
		return "network_error"
	default:
		return "decode_error"
	}
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("Code %d: %s", e.Code, e.Body)
}
