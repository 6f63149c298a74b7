// Package httpclient sends outbound JSON requests (Slack and webhook
// notifications) with per-attempt timeouts and exponential backoff.
package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/inkwell-studio/atelier/pkg/logger"
	"github.com/inkwell-studio/atelier/pkg/reqid"
)

// Client retries transport errors and 5xx responses.
type Client struct {
	HTTP     *http.Client
	Attempts int
	Backoff  time.Duration // doubled after each failed attempt
	Timeout  time.Duration // per attempt
}

// New returns a client with 3 attempts, 500ms initial backoff and a 10s timeout.
func New() *Client {
	return &Client{
		HTTP: &http.Client{Transport: &http.Transport{
			MaxIdleConns:        50,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
		}},
		Attempts: 3,
		Backoff:  500 * time.Millisecond,
		Timeout:  10 * time.Second,
	}
}

// Response is a fully read HTTP response.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

func (r *Response) OK() bool { return r.StatusCode >= 200 && r.StatusCode < 300 }

// Err returns an error for a non-2xx response.
func (r *Response) Err() error {
	if r.OK() {
		return nil
	}
	return fmt.Errorf("httpclient: status %d: %s", r.StatusCode, truncate(r.Body, 200))
}

// PostJSON marshals body and POSTs it to url.
func (c *Client) PostJSON(ctx context.Context, url string, body any, headers map[string]string) (*Response, error) {
	raw, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("httpclient: marshal body: %w", err)
	}
	h := map[string]string{"Content-Type": "application/json", "Accept": "application/json"}
	for k, v := range headers {
		h[k] = v
	}
	return c.Do(ctx, http.MethodPost, url, raw, h)
}

// Do sends the request, retrying on transport errors and 5xx.
func (c *Client) Do(ctx context.Context, method, url string, body []byte, headers map[string]string) (*Response, error) {
	attempts := max(c.Attempts, 1)
	wait := c.Backoff

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		resp, err := c.once(ctx, method, url, body, headers)
		switch {
		case err != nil:
			lastErr = err
		case resp.StatusCode >= 500:
			lastErr = resp.Err()
		default:
			return resp, nil
		}

		if attempt == attempts || ctx.Err() != nil {
			break
		}
		logger.WithCtx(ctx).Warn("httpclient: retrying", "url", url, "attempt", attempt, "error", lastErr)
		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		wait *= 2
	}
	return nil, fmt.Errorf("httpclient: %s %s failed after %d attempts: %w", method, url, attempts, lastErr)
}

func (c *Client) once(ctx context.Context, method, url string, body []byte, headers map[string]string) (*Response, error) {
	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	var rdr io.Reader
	if body != nil {
		rdr = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, rdr)
	if err != nil {
		return nil, fmt.Errorf("httpclient: build request: %w", err)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	reqid.Set(ctx, req)

	res, err := c.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	raw, err := io.ReadAll(io.LimitReader(res.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("httpclient: read body: %w", err)
	}
	return &Response{StatusCode: res.StatusCode, Header: res.Header, Body: raw}, nil
}

func truncate(b []byte, n int) string {
	if len(b) > n {
		return string(b[:n]) + "…"
	}
	return string(b)
}
