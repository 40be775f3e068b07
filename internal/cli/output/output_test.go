package output

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ansi = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

func newTestRenderer(mode OutputMode, isTTY bool) (*Renderer, *bytes.Buffer, *bytes.Buffer) {
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	return NewRendererWithTTY(out, errOut, isTTY, mode), out, errOut
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    OutputMode
		wantErr bool
	}{
		{in: "", want: ModeAuto},
		{in: "auto", want: ModeAuto},
		{in: "TEXT", want: ModeText},
		{in: "markdown", want: ModeMarkdown},
		{in: "md", want: ModeMarkdown},
		{in: " json ", want: ModeJSON},
		{in: "html", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMode(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "invalid output mode")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRenderer_EffectiveMode(t *testing.T) {
	tests := []struct {
		name  string
		mode  OutputMode
		isTTY bool
		want  OutputMode
	}{
		{name: "auto tty", mode: ModeAuto, isTTY: true, want: ModeText},
		{name: "auto piped", mode: ModeAuto, isTTY: false, want: ModeMarkdown},
		{name: "empty piped", mode: "", isTTY: false, want: ModeMarkdown},
		{name: "text piped", mode: ModeText, isTTY: false, want: ModeText},
		{name: "markdown tty", mode: ModeMarkdown, isTTY: true, want: ModeMarkdown},
		{name: "json tty", mode: ModeJSON, isTTY: true, want: ModeJSON},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _, _ := newTestRenderer(tt.mode, tt.isTTY)
			assert.Equal(t, tt.want, r.EffectiveMode())
			assert.Equal(t, tt.isTTY, r.IsTTY())
		})
	}
}

func TestNewRenderer_BufferIsNotTerminal(t *testing.T) {
	var out bytes.Buffer
	r := NewRenderer(&out, &out, ModeAuto)
	assert.False(t, r.IsTTY())
	assert.Equal(t, ModeMarkdown, r.EffectiveMode())
	assert.Same(t, &out, r.Writer())
}

func TestRenderer_MarkdownHasNoANSI(t *testing.T) {
	r, out, errOut := newTestRenderer(ModeMarkdown, true)

	r.Header(2, "Issues")
	r.Success("done")
	r.Muted("quiet")
	r.StatusLine("rules.yaml", "error", "missing")
	r.Warning("careful")
	r.Error("broken")
	r.Table([]string{"Line", "Rule"}, [][]string{{"1", "Line length"}})

	combined := out.String() + errOut.String()
	assert.False(t, ansi.MatchString(combined), "unexpected ANSI codes: %q", combined)
	assert.Contains(t, out.String(), "## Issues")
	assert.Contains(t, out.String(), "| Line | Rule |")
	assert.Contains(t, out.String(), "| 1 | Line length |")
	assert.Contains(t, errOut.String(), "Warning: careful")
	assert.Contains(t, errOut.String(), "Error: broken")
	assert.NotContains(t, out.String(), "broken")
}

func TestRenderer_TextOnTerminalIsStyled(t *testing.T) {
	t.Setenv("NO_COLOR", "")
	r, out, _ := newTestRenderer(ModeText, true)

	r.Success("done")
	assert.True(t, ansi.MatchString(out.String()), "expected ANSI codes in %q", out.String())
	assert.Contains(t, ansi.ReplaceAllString(out.String(), ""), "✓ done")
}

func TestRenderer_TextPipedIsPlain(t *testing.T) {
	r, out, _ := newTestRenderer(ModeText, false)

	r.Header(1, "Summary")
	r.Table([]string{"Severity", "Count"}, [][]string{{"error", "2"}})

	assert.False(t, ansi.MatchString(out.String()))
	assert.True(t, strings.HasPrefix(out.String(), "Summary\n"))
	assert.Contains(t, out.String(), "┌")
	assert.Contains(t, out.String(), "SEVERITY")
}

func TestRenderer_StatusLine(t *testing.T) {
	r, out, _ := newTestRenderer(ModeMarkdown, false)

	r.StatusLine("line_length", "success", "enabled")
	r.StatusLine("select_star", "warning", "")
	r.StatusLine("bogus", "other", "inert")

	assert.Equal(t, "- line_length  enabled\n! select_star\n- bogus  inert\n", out.String())
}

func TestRenderer_JSON(t *testing.T) {
	r, out, _ := newTestRenderer(ModeJSON, false)

	require.NoError(t, r.JSON(map[string]int{"total": 3}))

	var got map[string]int
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	assert.Equal(t, 3, got["total"])
	assert.Contains(t, out.String(), "\n  \"total\"")
}

func TestFormatHelpers(t *testing.T) {
	assert.Equal(t, "# Title", FormatHeader(1, "Title"))
	assert.Equal(t, "### Deep", FormatHeader(3, "Deep"))
	assert.Equal(t, "# Clamped", FormatHeader(0, "Clamped"))
	assert.Equal(t, "- **Report**: report.html", FormatKeyValue("Report", "report.html"))
}
