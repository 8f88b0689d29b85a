// Package fetcher issues HTTP GET requests against the upstream feeds and
// decodes their JSON bodies.
package fetcher

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	log "github.com/sirupsen/logrus"
)

// Fetcher wraps an injected *http.Client. Timeouts, TLS and connection
// pooling are whatever that client is configured with.
type Fetcher struct {
	client       *http.Client
	userAgent    string
	maxBodyBytes int64
}

// DefaultMaxBodyBytes caps how much of a response body is read
const DefaultMaxBodyBytes = 10 << 20

// ErrBodyTooLarge is wrapped in a TransportError when a body exceeds the cap
var ErrBodyTooLarge = errors.New("response body too large")

type Option func(*Fetcher)

// WithMaxBodyBytes sets the largest response body that will be read
func WithMaxBodyBytes(n int64) Option {
	return func(f *Fetcher) {
		f.maxBodyBytes = n
	}
}

// WithUserAgent sets the User-Agent header sent with every request
func WithUserAgent(userAgent string) Option {
	return func(f *Fetcher) {
		f.userAgent = userAgent
	}
}

// New creates a Fetcher. A nil client is replaced by a fresh *http.Client
// rather than http.DefaultClient so no global state is shared.
func New(client *http.Client, opts ...Option) *Fetcher {
	if client == nil {
		client = &http.Client{}
	}
	f := &Fetcher{client: client, maxBodyBytes: DefaultMaxBodyBytes}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch GETs u and decodes the JSON body into T
func Fetch[T any](ctx context.Context, f *Fetcher, u *url.URL) (T, error) {
	var out T

	data, _, err := f.FetchRaw(ctx, u)
	if err != nil {
		return out, err
	}

	if err := json.Unmarshal(data, &out); err != nil {
		fetchErrors.WithLabelValues("decode").Inc()
		return out, &DecodeError{URL: u.String(), Err: err}
	}

	return out, nil
}

// FetchRaw GETs u and returns the body together with the URL of the final
// request, which differs from u when the client followed a redirect.
func (f *Fetcher) FetchRaw(ctx context.Context, u *url.URL) ([]byte, *url.URL, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create request: %w", err)
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	fetchRequests.Inc()
	start := time.Now()
	defer func() {
		fetchDuration.Observe(time.Since(start).Seconds())
	}()

	resp, err := f.client.Do(req)
	if err != nil {
		fetchErrors.WithLabelValues("transport").Inc()
		return nil, nil, &TransportError{URL: u.String(), Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 && resp.StatusCode <= 599 {
		fetchErrors.WithLabelValues("api").Inc()
		log.WithFields(log.Fields{
			"url":    u.String(),
			"status": resp.StatusCode,
		}).Warn("Upstream returned error status")
		return nil, nil, &APIError{URL: u.String(), StatusCode: resp.StatusCode}
	}

	// Read one byte past the cap to tell a full body from a truncated one
	data, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodyBytes+1))
	if err == nil && int64(len(data)) > f.maxBodyBytes {
		err = ErrBodyTooLarge
	}
	if err != nil {
		fetchErrors.WithLabelValues("transport").Inc()
		return nil, nil, &TransportError{URL: u.String(), Err: err}
	}

	finalURL := u
	if resp.Request != nil && resp.Request.URL != nil {
		finalURL = resp.Request.URL
	}

	log.WithFields(log.Fields{
		"url":      u.String(),
		"finalUrl": finalURL.String(),
		"status":   resp.StatusCode,
		"bytes":    len(data),
		"latency":  time.Since(start),
	}).Debug("Fetched")

	return data, finalURL, nil
}
