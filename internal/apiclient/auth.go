// Copyright (c) 2025 Bizdesk
// Licensed under the MIT License. See LICENSE file in the project root for details.

package apiclient

import (
	"context"
	"errors"
	"strings"
)

// ErrNoToken is returned when a 2xx auth response carries no token.
var ErrNoToken = errors.New("no token in response")

// Credentials is the body posted to the auth endpoints.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login calls POST /auth/login and returns the issued session token.
// Non-2xx responses come back as *APIError with the server's message.
func (c *Client) Login(ctx context.Context, creds Credentials) (string, error) {
	return c.issueToken(ctx, c.endpoints.Login, creds)
}

// Register calls POST /auth/register and returns the issued session token.
func (c *Client) Register(ctx context.Context, creds Credentials) (string, error) {
	return c.issueToken(ctx, c.endpoints.Register, creds)
}

func (c *Client) issueToken(ctx context.Context, path string, creds Credentials) (string, error) {
	var result map[string]any
	if err := c.Post(ctx, path, creds, &result); err != nil {
		return "", err
	}
	token := extractToken(result)
	if token == "" {
		return "", ErrNoToken
	}
	return token, nil
}

// extractToken extracts the session token from the response payload.
// It tries multiple common field names to be resilient to different response formats.
func extractToken(result map[string]any) string {
	for _, key := range []string{"token", "access_token", "accessToken"} {
		if v, ok := result[key].(string); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	// Some deployments wrap the payload: {"data": {"token": "..."}}
	if nested, ok := result["data"].(map[string]any); ok {
		return extractToken(nested)
	}
	return ""
}
