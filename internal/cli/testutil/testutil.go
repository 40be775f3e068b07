// Package testutil provides test utilities for CLI testing.
package testutil

import (
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/leapstack-labs/leaplint/internal/cli/output"
	"github.com/leapstack-labs/leaplint/internal/ruleset"
)

// SampleSQL trips line_length, select_star, comment_min_length and
// commit_in_trigger with the default rules.
const SampleSQL = `-- Audit helpers
CREATE PROCEDURE p_audit AS
BEGIN
  SELECT * FROM audit_log;
  --x
END;

CREATE TRIGGER trg_audit AFTER INSERT ON orders
BEGIN
  INSERT INTO audit_log (order_id, created_at, created_by, comment) VALUES (NEW.id, CURRENT_TIMESTAMP, USER, 'inserted');
  COMMIT;
END;
`

// Workspace is a temporary directory with a rules file and a SQL source.
type Workspace struct {
	Dir       string
	RulesFile string
	Source    string
	Report    string
}

// SetupWorkspace creates a workspace holding the default rules and SampleSQL.
func SetupWorkspace(t *testing.T) *Workspace {
	t.Helper()

	dir := t.TempDir()
	ws := &Workspace{
		Dir:       dir,
		RulesFile: filepath.Join(dir, ruleset.DefaultFile),
		Source:    filepath.Join(dir, "input.sql"),
		Report:    filepath.Join(dir, "report.html"),
	}
	if err := os.WriteFile(ws.RulesFile, ruleset.DefaultYAML(), 0o600); err != nil {
		t.Fatalf("failed to write rules file: %v", err)
	}
	ws.WriteSource(t, SampleSQL)
	return ws
}

// WriteSource replaces the workspace source file.
func (ws *Workspace) WriteSource(t *testing.T, content string) {
	t.Helper()
	if err := os.WriteFile(ws.Source, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write source: %v", err)
	}
}

// WriteRules replaces the workspace rules file.
func (ws *Workspace) WriteRules(t *testing.T, content string) {
	t.Helper()
	if err := os.WriteFile(ws.RulesFile, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write rules: %v", err)
	}
}

// TestRenderer wraps a Renderer for testing with captured output buffers.
type TestRenderer struct {
	*output.Renderer
	Out    *bytes.Buffer
	ErrOut *bytes.Buffer
}

// NewTestRenderer creates a new test renderer with the specified mode and TTY state.
// Output is captured in buffers for inspection.
func NewTestRenderer(mode output.OutputMode, isTTY bool) *TestRenderer {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	return &TestRenderer{
		Renderer: output.NewRendererWithTTY(out, errOut, isTTY, mode),
		Out:      out,
		ErrOut:   errOut,
	}
}

// NewTestRendererText creates a new test renderer in text mode (simulated TTY).
func NewTestRendererText() *TestRenderer {
	return NewTestRenderer(output.ModeText, true)
}

// NewTestRendererMarkdown creates a new test renderer in markdown mode.
func NewTestRendererMarkdown() *TestRenderer {
	return NewTestRenderer(output.ModeMarkdown, false)
}

// NewTestRendererJSON creates a new test renderer in JSON mode.
func NewTestRendererJSON() *TestRenderer {
	return NewTestRenderer(output.ModeJSON, false)
}

// Output returns the stdout output as a string.
func (tr *TestRenderer) Output() string {
	return tr.Out.String()
}

// ErrorOutput returns the stderr output as a string.
func (tr *TestRenderer) ErrorOutput() string {
	return tr.ErrOut.String()
}

// ansiPattern matches ANSI escape codes.
var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// StripANSI removes ANSI escape codes.
func StripANSI(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}

// AssertNoANSI checks that a string contains no ANSI escape codes.
func AssertNoANSI(t *testing.T, s string) {
	t.Helper()
	if ansiPattern.MatchString(s) {
		t.Errorf("string contains ANSI escape codes: %q", s)
	}
}

// AssertValidMarkdown performs basic markdown validation.
// It checks for unclosed code fences and empty headers.
func AssertValidMarkdown(t *testing.T, md string) {
	t.Helper()

	fenceCount := strings.Count(md, "```")
	if fenceCount%2 != 0 {
		t.Errorf("unbalanced code fences in markdown: found %d occurrences", fenceCount)
	}

	lines := strings.Split(md, "\n")
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "#") && strings.TrimLeft(trimmed, "# ") == "" {
			t.Errorf("empty header at line %d: %q", i+1, line)
		}
	}
}
