package apiclient

import (
	"context"
	"net/http"

	"reviews-web/internal/domains/session"
)

// Login calls POST /auth/login without a bearer token
func (c *Client) Login(ctx context.Context, creds session.Credentials) (*session.AuthResponse, error) {
	return c.authenticate(ctx, "/auth/login", creds)
}

// Register calls POST /auth/register without a bearer token
func (c *Client) Register(ctx context.Context, creds session.Credentials) (*session.AuthResponse, error) {
	return c.authenticate(ctx, "/auth/register", creds)
}

func (c *Client) authenticate(ctx context.Context, path string, creds session.Credentials) (*session.AuthResponse, error) {
	resp, err := c.doJSON(ctx, http.MethodPost, path, creds, true)
	if err != nil {
		return nil, err
	}
	if !resp.ok() {
		return nil, errorFromResponse(resp, "authentication failed")
	}

	out := &session.AuthResponse{}
	if err := decodeBody(resp, out); err != nil {
		return nil, err
	}
	return out, nil
}
