// Package client calls a remote datalabels server.
//
//	c, err := client.New("http://labels.internal:8080")
//	resp, err := c.Labels(ctx, sc, pipeline.Options{Formats: []string{"svg"}})
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	dlerrors "github.com/matzehuels/datalabels/pkg/errors"
	"github.com/matzehuels/datalabels/pkg/pipeline"
	"github.com/matzehuels/datalabels/pkg/scene"
	"github.com/matzehuels/datalabels/pkg/server"
)

const (
	defaultTimeout  = 60 * time.Second
	defaultAttempts = 3
	defaultDelay    = time.Second
)

// Client talks to one server.
type Client struct {
	base     string
	http     *http.Client
	attempts int
	delay    time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithRetry sets the attempt count and the initial backoff.
func WithRetry(attempts int, delay time.Duration) Option {
	return func(c *Client) { c.attempts, c.delay = attempts, delay }
}

// New returns a client for the server at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	if err := dlerrors.ValidateURL(baseURL); err != nil {
		return nil, err
	}
	c := &Client{
		base:     strings.TrimRight(baseURL, "/"),
		http:     &http.Client{Timeout: defaultTimeout},
		attempts: defaultAttempts,
		delay:    defaultDelay,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Health checks that the server is up.
func (c *Client) Health(ctx context.Context) (*server.HealthResponse, error) {
	var out server.HealthResponse
	if err := c.do(ctx, http.MethodGet, "/healthz", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Labels lays out sc remotely.
func (c *Client) Labels(ctx context.Context, sc *scene.Scene, opts pipeline.Options) (*server.LabelsResponse, error) {
	var out server.LabelsResponse
	if err := c.post(ctx, "/v1/labels", sc, opts, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Prioritize returns the remote priority orders of sc.
func (c *Client) Prioritize(ctx context.Context, sc *scene.Scene, opts pipeline.Options) (*server.PrioritizeResponse, error) {
	var out server.PrioritizeResponse
	if err := c.post(ctx, "/v1/prioritize", sc, opts, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) post(ctx context.Context, path string, sc *scene.Scene, opts pipeline.Options, out any) error {
	raw, err := json.Marshal(sc)
	if err != nil {
		return fmt.Errorf("encode scene: %w", err)
	}
	return c.do(ctx, http.MethodPost, path, server.Request{Scene: raw, Options: opts}, out)
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body []byte
	if in != nil {
		var err error
		if body, err = json.Marshal(in); err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
	}

	return retry(ctx, c.attempts, c.delay, func() error {
		req, err := http.NewRequestWithContext(ctx, method, c.base+path, bytes.NewReader(body))
		if err != nil {
			return err
		}
		if in != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.http.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return retryable(dlerrors.Wrap(dlerrors.ErrCodeUnavailable, err, "%s %s: %v", method, path, err))
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 400 {
			err := decodeError(resp)
			if resp.StatusCode >= 500 {
				return retryable(err)
			}
			return err
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode %s response: %w", path, err)
		}
		return nil
	})
}

// decodeError turns an error response into a coded error.
func decodeError(resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	var e server.ErrorResponse
	if json.Unmarshal(data, &e) == nil && e.Error.Code != "" {
		return dlerrors.New(e.Error.Code, "%s", e.Error.Message)
	}
	return dlerrors.New(dlerrors.ErrCodeUnavailable, "server returned %s", resp.Status)
}
