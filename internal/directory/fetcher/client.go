package fetcher

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"staffdir/internal/directory/models"
	"staffdir/internal/directory/tracer"
)

// maxBodyBytes caps the upstream response; a 12-person batch is a few KB.
const maxBodyBytes = 4 << 20

// HTTPDoer is the minimal interface needed from an HTTP client.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client fetches one batch of people from the upstream API.
type Client struct {
	url       string
	userAgent string
	client    HTTPDoer
	tracer    tracer.Tracer
}

// Option configures the Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client (for testing).
func WithHTTPClient(doer HTTPDoer) Option {
	return func(c *Client) {
		c.client = doer
	}
}

// WithTracer sets the tracer used around each fetch.
func WithTracer(t tracer.Tracer) Option {
	return func(c *Client) {
		c.tracer = t
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// New creates a client for the fully built request URL (see BuildRequestURL).
// A zero timeout leaves the transport default in place.
func New(url string, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		url:       url,
		userAgent: "staffdir/1.0",
		client:    &http.Client{Timeout: timeout},
		tracer:    tracer.NewNoop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// URL returns the request URL the client was built with.
func (c *Client) URL() string {
	return c.url
}

// peopleEnvelope distinguishes a missing results key from an empty batch.
type peopleEnvelope struct {
	Results *[]models.RawPerson `json:"results"`
	Error   string              `json:"error"`
}

// FetchPeople performs the GET and returns the raw results array. Every
// failure is returned as a *FetchError.
func (c *Client) FetchPeople(ctx context.Context) (people []models.RawPerson, err error) {
	ctx, span := c.tracer.Start(ctx, tracer.SpanPeopleFetch, tracer.String(tracer.AttrURL, c.url))
	defer func() {
		if kind := KindOf(err); kind != "" {
			span.SetAttributes(tracer.String(tracer.AttrErrorKind, string(kind)))
		}
		span.End(err)
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, newError(ErrorNetwork, "failed to create request", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, newError(ErrorNetwork, "request timeout", err)
		}
		return nil, newError(ErrorNetwork, "failed to execute request", err)
	}
	defer resp.Body.Close()

	span.SetAttributes(tracer.Int(tracer.AttrStatusCode, resp.StatusCode))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &FetchError{
			Kind:       ErrorHTTPStatus,
			Message:    statusText(resp),
			StatusCode: resp.StatusCode,
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, newError(ErrorNetwork, "failed to read response body", err)
	}

	var envelope peopleEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, newError(ErrorDecode, "failed to parse response", err)
	}
	if envelope.Error != "" {
		return nil, newError(ErrorDecode, fmt.Sprintf("upstream error: %s", envelope.Error), nil)
	}
	if envelope.Results == nil {
		return nil, newError(ErrorDecode, "response has no results", nil)
	}

	people = *envelope.Results
	span.SetAttributes(tracer.Int(tracer.AttrResultCount, len(people)))
	return people, nil
}

// statusText mirrors the reason phrase a browser exposes as statusText.
func statusText(resp *http.Response) string {
	if text := http.StatusText(resp.StatusCode); text != "" {
		return text
	}
	if resp.Status != "" {
		return resp.Status
	}
	return fmt.Sprintf("status %d", resp.StatusCode)
}
