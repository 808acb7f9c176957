package terminal

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrompter_Line(t *testing.T) {
	var out bytes.Buffer
	p := NewPrompter(strings.NewReader("  alice \nsecret\n"), &out)

	user, err := p.Line("Username: ")
	require.NoError(t, err)
	assert.Equal(t, "alice", user)

	// Without a terminal the secret is read as a plain line.
	pw, err := p.Secret("Password: ")
	require.NoError(t, err)
	assert.Equal(t, "secret", pw)
	assert.Equal(t, "Username: Password: ", out.String())
	assert.False(t, p.Interactive())

	_, err = p.Line("More: ")
	assert.ErrorIs(t, err, ErrNoInput)
}

func TestPrompter_LastLineWithoutNewline(t *testing.T) {
	p := NewPrompter(strings.NewReader("bob"), &bytes.Buffer{})
	got, err := p.Line("> ")
	require.NoError(t, err)
	assert.Equal(t, "bob", got)
}

func TestPrompter_Confirm(t *testing.T) {
	tests := map[string]bool{"y\n": true, "YES\n": true, "n\n": false, "\n": false, "maybe\n": false}
	for in, want := range tests {
		got, err := NewPrompter(strings.NewReader(in), &bytes.Buffer{}).Confirm("Delete?")
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
}

func TestClearPreviousLines(t *testing.T) {
	var buf bytes.Buffer
	ClearPreviousLines(&buf, 100, 80)
	// Two wrapped lines plus the line after Enter.
	assert.Equal(t, 3, strings.Count(buf.String(), "\x1b[2K"))
	assert.Equal(t, 2, strings.Count(buf.String(), "\x1b[1A"))
}
