package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"reviews-web/pkg/apperror"
)

// TokenSource supplies the bearer token at request time
type TokenSource interface {
	Token() string
}

// Client talks to the remote review API
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// WithTokenSource returns a copy of c that authenticates with ts
func (c *Client) WithTokenSource(ts TokenSource) *Client {
	clone := *c
	clone.tokens = ts
	return &clone
}

// BaseURL returns the configured base URL without a trailing slash
func (c *Client) BaseURL() string {
	return c.baseURL
}

// request describes one call
type request struct {
	method      string
	path        string
	body        io.Reader
	contentType string
	anonymous   bool
}

// response is a fully read response
type response struct {
	status int
	body   []byte
}

func (r *response) ok() bool {
	return r.status >= 200 && r.status < 300
}

func (c *Client) do(ctx context.Context, req request) (*response, error) {
	httpReq, err := http.NewRequestWithContext(ctx, req.method, c.baseURL+req.path, req.body)
	if err != nil {
		return nil, apperror.Network("could not build request", err)
	}

	if req.contentType != "" {
		httpReq.Header.Set("Content-Type", req.contentType)
	}
	httpReq.Header.Set("Accept", "application/json")

	authed := false
	if !req.anonymous && c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			httpReq.Header.Set("Authorization", "Bearer "+token)
			authed = true
		}
	}

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		log.Debug().Err(err).Str("method", req.method).Str("path", req.path).Msg("API request failed")
		return nil, apperror.Network("request could not complete", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperror.Network("reading response failed", err)
	}

	log.Debug().
		Str("method", req.method).
		Str("path", req.path).
		Int("status", resp.StatusCode).
		Bool("authenticated", authed).
		Dur("latency_ms", time.Since(start)).
		Msg("API request")

	return &response{status: resp.StatusCode, body: body}, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, in interface{}, anonymous bool) (*response, error) {
	req := request{method: method, path: path, anonymous: anonymous}
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		req.body = bytes.NewReader(payload)
		req.contentType = "application/json"
	}
	return c.do(ctx, req)
}

// =====================================================
// RESPONSE MAPPING
// =====================================================

// errorFromResponse extracts the server's message: JSON "message" field, else the
// raw body text, else fallback.
func errorFromResponse(resp *response, fallback string) *apperror.Error {
	message := fallback

	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(resp.body, &payload); err == nil {
		if payload.Message != "" {
			message = payload.Message
		}
	} else if text := strings.TrimSpace(string(resp.body)); text != "" {
		message = text
	}

	return apperror.HTTP(resp.status, message)
}

// decodeBody requires a non-empty JSON body
func decodeBody(resp *response, out interface{}) error {
	if len(bytes.TrimSpace(resp.body)) == 0 {
		return apperror.Malformed("empty response from server", nil)
	}
	if err := json.Unmarshal(resp.body, out); err != nil {
		return apperror.Malformed("invalid response format", err)
	}
	return nil
}
