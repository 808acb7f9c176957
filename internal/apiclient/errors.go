// Copyright (c) 2025 Bizdesk
// Licensed under the MIT License. See LICENSE file in the project root for details.

package apiclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// APIError is a non-2xx response from the business API.
type APIError struct {
	StatusCode int
	// Message is the server-provided reason, taken from the body's
	// "message" field (auth endpoints) or "msg" field (resource endpoints).
	Message string
	// Source names where Message came from: a JSON field name, or "text" for a
	// plain-text body. Empty when the body carried no message.
	Source string
	Method string
	Path   string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.StatusCode, http.StatusText(e.StatusCode))
}

// IsUnauthorized reports whether err is a 401 from the API.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized
}

// MessageFrom returns the server-provided message carried by err, or fallback
// when err is not an *APIError or the server sent no message.
func MessageFrom(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && strings.TrimSpace(apiErr.Message) != "" {
		return apiErr.Message
	}
	return fallback
}

// AuthMessageFrom is MessageFrom for the credential endpoints. Only the JSON
// "message" or "msg" fields count there; an "error" field or a plain-text body
// usually comes from a proxy and yields fallback.
func AuthMessageFrom(err error, fallback string) string {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return fallback
	}
	switch apiErr.Source {
	case "message", "msg":
		return apiErr.Message
	}
	return fallback
}

// extractMessage pulls a human-readable reason out of an error body and
// reports where it was found.
// Be liberal in what we accept: JSON with message/msg/error, or short plain text.
func extractMessage(body []byte) (msg, source string) {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return "", ""
	}

	var raw map[string]any
	if err := json.Unmarshal(body, &raw); err == nil {
		for _, key := range []string{"message", "msg", "error"} {
			if v, ok := raw[key].(string); ok && strings.TrimSpace(v) != "" {
				return strings.TrimSpace(v), key
			}
		}
		return "", ""
	}

	// Plain-text bodies are only trusted when short and single-line; HTML error
	// pages from proxies are not a useful message.
	if len(trimmed) <= 200 && !strings.ContainsAny(trimmed, "\n<") {
		return trimmed, "text"
	}
	return "", ""
}
