// Copyright (c) 2025 Bizdesk
// Licensed under the MIT License. See LICENSE file in the project root for details.

package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestE_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *E
		want string
	}{
		{
			name: "without cause",
			err:  New(Validation, "username and password are required"),
			want: "validation: username and password are required",
		},
		{
			name: "with cause",
			err:  Wrap(Storage, "save token", stderrors.New("keyring locked")),
			want: "storage: save token: keyring locked",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestKindOf(t *testing.T) {
	cause := stderrors.New("dial tcp: connection refused")
	wrapped := fmt.Errorf("login: %w", Wrap(Network, "Login failed", cause))

	assert.Equal(t, Network, KindOf(wrapped))
	assert.True(t, Is(wrapped, Network))
	assert.False(t, Is(wrapped, AuthFailed))
	assert.ErrorIs(t, wrapped, cause)
	assert.Equal(t, Kind(""), KindOf(cause))
	assert.False(t, Is(nil, Network))
}
