// Copyright (c) 2025 Bizdesk
// Licensed under the MIT License. See LICENSE file in the project root for details.

package apiclient

import (
	"net/url"
	"strings"
)

// Endpoints contains REST API endpoint paths relative to the base URL.
// Any empty field falls back to the default path.
type Endpoints struct {
	Login        string `json:"auth_login,omitempty"`    // e.g., "/auth/login"
	Register     string `json:"auth_register,omitempty"` // e.g., "/auth/register"
	Customers    string `json:"customers,omitempty"`     // e.g., "/customers"
	Items        string `json:"items,omitempty"`         // e.g., "/items"
	Orders       string `json:"orders,omitempty"`        // e.g., "/orders"
	OrderHistory string `json:"order_history,omitempty"` // e.g., "/order-history"
}

// DefaultEndpoints returns the paths served by the business API.
func DefaultEndpoints() Endpoints {
	return Endpoints{
		Login:        "/auth/login",
		Register:     "/auth/register",
		Customers:    "/customers",
		Items:        "/items",
		Orders:       "/orders",
		OrderHistory: "/order-history",
	}
}

// withDefaults fills every empty path from DefaultEndpoints.
func (e Endpoints) withDefaults() Endpoints {
	d := DefaultEndpoints()
	fill := func(v *string, def string) {
		if strings.TrimSpace(*v) == "" {
			*v = def
		}
	}
	fill(&e.Login, d.Login)
	fill(&e.Register, d.Register)
	fill(&e.Customers, d.Customers)
	fill(&e.Items, d.Items)
	fill(&e.Orders, d.Orders)
	fill(&e.OrderHistory, d.OrderHistory)
	return e
}

// IsAuthPath reports whether path is one of the credential endpoints.
// 401 responses from these mean "wrong credentials", not "session expired".
func (e Endpoints) IsAuthPath(path string) bool {
	return path == e.Login || path == e.Register
}

// NormalizeBaseURL adds a scheme when missing and strips trailing slashes.
// "localhost:5000/api" becomes "http://localhost:5000/api".
func NormalizeBaseURL(raw string) string {
	base := strings.TrimSpace(raw)
	if base == "" {
		return ""
	}
	if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		base = "http://" + base
	}
	if u, err := url.Parse(base); err == nil {
		u.RawQuery = ""
		u.Fragment = ""
		base = u.String()
	}
	return strings.TrimRight(base, "/")
}
