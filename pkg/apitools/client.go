package apitools

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog/log"

	"github.com/alif/naia/internal/observability"
)

const (
	// DefaultTimeout bounds each request when Options does not set one.
	DefaultTimeout = 10 * time.Second

	// maxBodyBytes caps how much of a response body is read off the wire.
	maxBodyBytes = 1 << 20 // 1 MiB
)

// Options configures an API client.
type Options struct {
	Timeout   time.Duration
	UserAgent string
}

// Client issues synchronous GET/POST requests against arbitrary web APIs.
type Client struct {
	rest *resty.Client
}

// NewClient creates a client with a fixed timeout and no retries.
func NewClient(opts Options) *Client {
	observability.EnsureRegistered()

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	rest := resty.New().
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")
	// Reading one byte past the cap lets normalize tell a truncated
	// body from one that is exactly at the limit.
	rest.SetTransport(&limitedTransport{base: http.DefaultTransport, limit: maxBodyBytes + 1})
	if opts.UserAgent != "" {
		rest.SetHeader("User-Agent", opts.UserAgent)
	}

	log.Debug().Dur("timeout", timeout).Msg("API client initialized")

	return &Client{rest: rest}
}

// Get issues a GET request and normalizes the outcome into a Result.
func (c *Client) Get(ctx context.Context, url string, headers map[string]string) Result {
	req := c.rest.R().SetContext(ctx)
	if len(headers) > 0 {
		req.SetHeaders(headers)
	}

	resp, err := req.Get(url)
	if err != nil {
		return c.transportFailure(http.MethodGet, url, err)
	}

	return c.normalize(resp, http.MethodGet, url)
}

// Post issues a POST request with data JSON-encoded as the body. A
// payload that cannot be serialized fails without touching the network.
func (c *Client) Post(ctx context.Context, url string, data interface{}, headers map[string]string) Result {
	body, err := json.Marshal(data)
	if err != nil {
		log.Warn().Str("url", url).Err(err).Msg("Request body not serializable")
		return Result{
			Success: false,
			Error:   fmt.Sprintf("serialize request body: %v", err),
			URL:     url,
			Method:  http.MethodPost,
		}
	}

	req := c.rest.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(body)
	if len(headers) > 0 {
		req.SetHeaders(headers)
	}

	resp, err := req.Post(url)
	if err != nil {
		return c.transportFailure(http.MethodPost, url, err)
	}

	return c.normalize(resp, http.MethodPost, url)
}

// limitedTransport stops reading response bodies at the limit so an
// oversized response is never fully buffered in memory.
type limitedTransport struct {
	base  http.RoundTripper
	limit int64
}

func (t *limitedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	resp.Body = &limitedBody{Reader: io.LimitReader(resp.Body, t.limit), Closer: resp.Body}
	return resp, nil
}

type limitedBody struct {
	io.Reader
	io.Closer
}

// transportFailure covers DNS errors, refused connections and timeouts.
func (c *Client) transportFailure(method, url string, err error) Result {
	observability.RecordHTTPRequest(method, false)
	log.Warn().Str("method", method).Str("url", url).Err(err).Msg("Request failed")

	return Result{
		Success: false,
		Error:   err.Error(),
		URL:     url,
		Method:  method,
	}
}

// normalize maps a completed HTTP exchange to a Result. Non-2xx status
// codes count as failures with the status preserved.
func (c *Client) normalize(resp *resty.Response, method, url string) Result {
	status := resp.StatusCode()

	body := resp.Body()
	if len(body) > maxBodyBytes {
		log.Warn().
			Str("url", url).
			Int("size", len(body)).
			Msg("Response body truncated")
		body = body[:maxBodyBytes]
	}

	if !resp.IsSuccess() {
		observability.RecordHTTPRequest(method, false)
		log.Debug().
			Str("method", method).
			Str("url", url).
			Int("status", status).
			Msg("Request returned error status")

		return Result{
			Success:    false,
			StatusCode: &status,
			Error:      fmt.Sprintf("unexpected status %d: %s", status, snippet(body)),
			URL:        url,
			Method:     method,
		}
	}

	observability.RecordHTTPRequest(method, true)
	log.Debug().
		Str("method", method).
		Str("url", url).
		Int("status", status).
		Int("bytes", len(body)).
		Msg("Request completed")

	return Result{
		Success:    true,
		StatusCode: &status,
		Data:       decodeBody(body),
		URL:        url,
		Method:     method,
	}
}

// decodeBody parses the body as JSON, falling back to raw text.
func decodeBody(body []byte) interface{} {
	if len(body) == 0 {
		return nil
	}

	var data interface{}
	if err := json.Unmarshal(body, &data); err != nil {
		return string(body)
	}
	return data
}

// snippet keeps error messages readable for large error pages.
func snippet(body []byte) string {
	const max = 256
	if len(body) > max {
		return string(body[:max]) + "..."
	}
	return string(body)
}
