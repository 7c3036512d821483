package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/streamflix/streamflix/internal/domain"
)

// Login exchanges email and password for a bearer token
func (c *Client) Login(ctx context.Context, email, password string) (*domain.AuthResult, error) {
	body, err := c.doRequest(ctx, http.MethodPost, "/auth/login", loginRequest{Email: email, Password: password})
	if err != nil {
		return nil, err
	}

	var resp LoginResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse login response: %w", err)
	}
	if resp.Token == "" {
		return nil, fmt.Errorf("login response has no token")
	}

	name := resp.User.Name
	if name == "" {
		name = resp.User.Email
	}
	if name == "" {
		name = email
	}

	return &domain.AuthResult{
		Token:    resp.Token,
		Username: name,
	}, nil
}

// ResetPassword sets a new password using an emailed reset token
func (c *Client) ResetPassword(ctx context.Context, token, password string) error {
	_, err := c.doRequest(ctx, http.MethodPost, "/auth/reset-password", resetPasswordRequest{Token: token, Password: password})
	return err
}
