package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/jonathan/hirechat/internal/types"
)

// Login exchanges credentials for an access token using the OAuth2 password form.
func (c *Client) Login(ctx context.Context, email, password string) (*types.TokenResponse, error) {
	creds := types.LoginRequest{Email: email, Password: password}
	if err := creds.Validate(); err != nil {
		return nil, fmt.Errorf("invalid credentials: %w", err)
	}

	form := url.Values{}
	form.Set("username", email)
	form.Set("password", password)

	req, err := c.newRequest(ctx, http.MethodPost, "/auth/token", strings.NewReader(form.Encode()), "application/x-www-form-urlencoded")
	if err != nil {
		return nil, err
	}

	var token types.TokenResponse
	if err := c.do(req, "Login failed", &token); err != nil {
		return nil, err
	}
	if token.AccessToken == "" {
		return nil, &Error{Method: http.MethodPost, Path: "/auth/token", Detail: "Login failed"}
	}
	return &token, nil
}

// Register creates an account. It does not log in.
func (c *Client) Register(ctx context.Context, req types.RegisterRequest) (*types.User, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("invalid registration: %w", err)
	}

	var user types.User
	if err := c.doJSON(ctx, http.MethodPost, "/auth/register", req, "Registration failed", &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Me returns the user the client's token belongs to.
func (c *Client) Me(ctx context.Context) (*types.User, error) {
	var user types.User
	if err := c.doJSON(ctx, http.MethodGet, "/auth/me", nil, "Failed to load user", &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// CurrentUser returns the user for an explicit token, leaving c unchanged.
func (c *Client) CurrentUser(ctx context.Context, token string) (*types.User, error) {
	return c.WithToken(token).Me(ctx)
}
