package output

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    OutputMode
		wantErr bool
	}{
		{"", ModeAuto, false},
		{"auto", ModeAuto, false},
		{"TEXT", ModeText, false},
		{"md", ModeMarkdown, false},
		{"markdown", ModeMarkdown, false},
		{" json ", ModeJSON, false},
		{"yaml", ModeYAML, false},
		{"xml", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMode(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Equal(t, ModeAuto, Mode(tt.in))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEffectiveMode(t *testing.T) {
	tests := []struct {
		mode  OutputMode
		isTTY bool
		want  OutputMode
	}{
		{ModeAuto, true, ModeText},
		{ModeAuto, false, ModeMarkdown},
		{ModeText, false, ModeText},
		{ModeJSON, true, ModeJSON},
		{ModeYAML, false, ModeYAML},
	}
	for _, tt := range tests {
		r := NewRendererWithTTY(&bytes.Buffer{}, &bytes.Buffer{}, tt.isTTY, tt.mode)
		assert.Equal(t, tt.want, r.EffectiveMode(), "mode=%s tty=%v", tt.mode, tt.isTTY)
	}
}

func TestRendererNonTTYHasNoANSI(t *testing.T) {
	var out bytes.Buffer
	r := NewRendererWithTTY(&out, &bytes.Buffer{}, false, ModeText)
	r.Header("Summary")
	r.KeyValue("loans", 6)
	r.Success("done")
	r.Table([]string{"kind", "count"}, [][]any{{"empty_row", 1}})

	assert.NotContains(t, out.String(), "\x1b[")
	assert.Contains(t, out.String(), "Summary")
	assert.Contains(t, out.String(), "empty_row")
}

func TestRendererMarkdownTable(t *testing.T) {
	var out bytes.Buffer
	r := NewRendererWithTTY(&out, &bytes.Buffer{}, false, ModeMarkdown)
	r.Header("Issues")
	r.Table([]string{"kind", "count"}, [][]any{{"empty_row", 1}})

	s := out.String()
	assert.Contains(t, s, "## Issues")
	assert.Contains(t, s, "| kind | count |")
	assert.Contains(t, s, "| empty_row | 1 |")
}

func TestRendererStructured(t *testing.T) {
	v := map[string]int{"loans": 6}

	var jsonOut bytes.Buffer
	ok, err := NewRendererWithTTY(&jsonOut, &bytes.Buffer{}, false, ModeJSON).Structured(v)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.JSONEq(t, `{"loans": 6}`, jsonOut.String())

	var yamlOut bytes.Buffer
	ok, err = NewRendererWithTTY(&yamlOut, &bytes.Buffer{}, false, ModeYAML).Structured(v)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "loans: 6\n", yamlOut.String())

	ok, err = NewRendererWithTTY(&bytes.Buffer{}, &bytes.Buffer{}, false, ModeText).Structured(v)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRendererWarningGoesToStderr(t *testing.T) {
	var out, errOut bytes.Buffer
	r := NewRendererWithTTY(&out, &errOut, false, ModeText)
	r.Warning("input has issues")
	assert.Empty(t, out.String())
	assert.Contains(t, errOut.String(), "warning: input has issues")
}
