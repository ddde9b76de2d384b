package output

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMode(t *testing.T) {
	tests := []struct {
		in   string
		want Mode
	}{
		{"text", ModeText},
		{"markdown", ModeMarkdown},
		{"md", ModeMarkdown},
		{"json", ModeJSON},
		{"JSON", ModeJSON},
		{"auto", ModeAuto},
		{"", ModeAuto},
		{"nonsense", ModeAuto},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseMode(tt.in), "ParseMode(%q)", tt.in)
	}
}

func TestEffectiveMode_AutoFollowsTTY(t *testing.T) {
	var buf bytes.Buffer

	r := NewRendererWithTTY(&buf, &buf, ModeAuto, true)
	assert.Equal(t, ModeText, r.EffectiveMode())

	r = NewRendererWithTTY(&buf, &buf, ModeAuto, false)
	assert.Equal(t, ModeMarkdown, r.EffectiveMode())

	r = NewRendererWithTTY(&buf, &buf, ModeJSON, true)
	assert.Equal(t, ModeJSON, r.EffectiveMode(), "explicit mode wins over TTY")
}

func TestNewRenderer_BufferIsNotTTY(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf, &buf, ModeAuto)
	assert.False(t, r.IsTTY())
}

func TestHeader_ModeSwitch(t *testing.T) {
	var buf bytes.Buffer
	r := NewRendererWithTTY(&buf, &buf, ModeMarkdown, false)
	r.Header(2, "Dataset")
	assert.Equal(t, "## Dataset\n", buf.String())

	buf.Reset()
	r = NewRendererWithTTY(&buf, &buf, ModeText, false)
	r.Header(2, "Dataset")
	assert.Equal(t, "Dataset\n", buf.String(), "plain styles on a non-TTY")
}

func TestStatusLine(t *testing.T) {
	var buf bytes.Buffer
	r := NewRendererWithTTY(&buf, &buf, ModeText, false)
	r.StatusLine("exports/trend.png", "written", "42 KB")
	assert.Equal(t, "✓ exports/trend.png 42 KB\n", buf.String())

	buf.Reset()
	r = NewRendererWithTTY(&buf, &buf, ModeMarkdown, false)
	r.StatusLine("exports/trend.png", "written", "")
	assert.Equal(t, "- **exports/trend.png**: written\n", buf.String())
}

func TestWarning_GoesToErrStream(t *testing.T) {
	var out, errOut bytes.Buffer
	r := NewRendererWithTTY(&out, &errOut, ModeText, false)
	r.Warning("dataset has no population column")
	assert.Empty(t, out.String())
	assert.Contains(t, errOut.String(), "no population column")
}

func TestJSON(t *testing.T) {
	var buf bytes.Buffer
	r := NewRendererWithTTY(&buf, &buf, ModeJSON, false)
	require.NoError(t, r.JSON(map[string]int{"rows": 9}))
	assert.Equal(t, "{\n  \"rows\": 9\n}\n", buf.String())
}

func TestFormatHelpers(t *testing.T) {
	assert.Equal(t, "### Columns", FormatHeader(3, "Columns"))
	assert.Equal(t, "# Columns", FormatHeader(0, "Columns"))
	assert.Equal(t, "- **rows**: 9", FormatKeyValue("rows", "9"))
}
