package output

import (
	"bytes"
	"testing"

	"github.com/pterm/pterm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type row struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

type rows []row

func (r rows) Table() Table {
	t := Table{Headers: []string{"ID", "NAME"}}
	for _, x := range r {
		t.Rows = append(t.Rows, []string{x.ID, x.Name})
	}
	return t
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", FormatTable, false},
		{"table", FormatTable, false},
		{"JSON", FormatJSON, false},
		{" yaml ", FormatYAML, false},
		{"xml", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestFormatters(t *testing.T) {
	data := rows{{ID: "1", Name: "Alice"}, {ID: "2", Name: "Bob"}}

	var buf bytes.Buffer
	require.NoError(t, NewFormatter(FormatJSON).Format(&buf, data))
	assert.JSONEq(t, `[{"id":"1","name":"Alice"},{"id":"2","name":"Bob"}]`, buf.String())

	buf.Reset()
	require.NoError(t, NewFormatter(FormatYAML).Format(&buf, data))
	assert.Equal(t, "- id: \"1\"\n  name: Alice\n- id: \"2\"\n  name: Bob\n", buf.String())

	pterm.DisableStyling()
	t.Cleanup(pterm.EnableStyling)
	buf.Reset()
	require.NoError(t, NewFormatter(FormatTable).Format(&buf, data))
	out := buf.String()
	assert.Contains(t, out, "NAME")
	assert.Contains(t, out, "Alice")
	assert.Contains(t, out, "Bob")
}

func TestTableFormatter_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, TableFormatter{}.Format(&buf, rows{}))
	assert.Equal(t, EmptyMessage+"\n", buf.String())
}

func TestTableFormatter_FallsBackToJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, TableFormatter{}.Format(&buf, map[string]int{"orders": 3}))
	assert.JSONEq(t, `{"orders":3}`, buf.String())
}
