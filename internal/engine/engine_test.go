package engine

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leaplint/internal/state"
	"github.com/leapstack-labs/leaplint/internal/testutil"
	"github.com/leapstack-labs/leaplint/pkg/lint"
)

type fakeRecorder struct {
	runs []*state.Run
	err  error
}

func (f *fakeRecorder) RecordRun(_ context.Context, run *state.Run) error {
	f.runs = append(f.runs, run)
	return f.err
}

func testRules() lint.RuleSet {
	return lint.RuleSet{
		lint.NewRule(lint.RuleSpec{
			Key: "line_length", Check: "check_line_length", Enabled: true,
			Severity: lint.SeverityWarning, Description: "Line length",
			Params: map[string]any{"max_length": 20},
		}),
		lint.NewRule(lint.RuleSpec{
			Key: "commit_in_trigger", Check: "check_commit_in_trigger", Enabled: true,
			Severity: lint.SeverityError, Description: "Trigger transaction",
		}),
	}
}

func writeSource(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "input.sql")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func newTestEngine(t *testing.T, rec Recorder) *Engine {
	t.Helper()
	start := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	calls := 0
	return New(Config{
		Logger:   testutil.NewTestLogger(t),
		Recorder: rec,
		Now: func() time.Time {
			calls++
			return start.Add(time.Duration(calls-1) * 250 * time.Millisecond)
		},
	})
}

func TestScan(t *testing.T) {
	dir := t.TempDir()
	src := writeSource(t, dir, strings.Join([]string{
		"CREATE TRIGGER trg",
		"BEGIN",
		"  INSERT INTO audit_log VALUES (1, 2, 3);",
		"  COMMIT;",
		"END;",
	}, "\n"))
	reportPath := filepath.Join(dir, "out.html")

	eng := newTestEngine(t, nil)
	res, err := eng.Scan(context.Background(), Request{SourcePath: src, Rules: testRules(), ReportPath: reportPath})
	require.NoError(t, err)

	require.Len(t, res.Issues, 2)
	assert.Equal(t, 3, res.Issues[0].Line)
	assert.Equal(t, "Line length", res.Issues[0].Rule)
	assert.Equal(t, 4, res.Issues[1].Line)
	assert.Equal(t, lint.SeverityError, res.Issues[1].Severity)

	assert.Equal(t, lint.Summary{Total: 2, Errors: 1, Warnings: 1}, res.Summary)
	assert.Equal(t, reportPath, res.ReportPath)
	assert.Equal(t, src, res.Source)
	assert.Equal(t, 250*time.Millisecond, res.Duration)
	assert.NotEmpty(t, res.RunID)

	data, err := os.ReadFile(reportPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "2024-01-02 03:04:05")
	assert.Contains(t, string(data), "COMMIT/ROLLBACK inside a trigger is forbidden")
}

func TestScan_DefaultReportPath(t *testing.T) {
	dir := t.TempDir()
	src := writeSource(t, dir, "SELECT 1;\n")
	t.Chdir(dir)

	res, err := newTestEngine(t, nil).Scan(context.Background(), Request{SourcePath: src, Rules: testRules()})
	require.NoError(t, err)
	assert.Equal(t, "report.html", res.ReportPath)
	assert.FileExists(t, filepath.Join(dir, "report.html"))
	assert.Empty(t, res.Issues)
}

func TestScan_SourceName(t *testing.T) {
	dir := t.TempDir()
	src := writeSource(t, dir, "SELECT 1;\n")
	reportPath := filepath.Join(dir, "out.html")

	res, err := newTestEngine(t, nil).Scan(context.Background(), Request{
		SourcePath: src,
		SourceName: "uploaded.sql",
		Rules:      testRules(),
		ReportPath: reportPath,
	})
	require.NoError(t, err)
	assert.Equal(t, "uploaded.sql", res.Source)

	data, err := os.ReadFile(reportPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "uploaded.sql")
	assert.NotContains(t, string(data), src)
}

func TestScan_MissingSource(t *testing.T) {
	dir := t.TempDir()
	reportPath := filepath.Join(dir, "out.html")
	rec := &fakeRecorder{}

	_, err := newTestEngine(t, rec).Scan(context.Background(), Request{
		SourcePath: filepath.Join(dir, "missing.sql"),
		Rules:      testRules(),
		ReportPath: reportPath,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSourceUnreadable))
	assert.True(t, errors.Is(err, fs.ErrNotExist))
	assert.NoFileExists(t, reportPath)
	assert.Empty(t, rec.runs)
}

func TestScan_DuplicateRuleKeys(t *testing.T) {
	dir := t.TempDir()
	rules := testRules()
	rules = append(rules, rules[0])

	_, err := newTestEngine(t, nil).Scan(context.Background(), Request{
		SourcePath: writeSource(t, dir, "SELECT 1;\n"),
		Rules:      rules,
		ReportPath: filepath.Join(dir, "out.html"),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate rule key")
}

func TestScan_CanceledContext(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestEngine(t, nil).Scan(ctx, Request{
		SourcePath: writeSource(t, dir, "SELECT 1;\n"),
		Rules:      testRules(),
		ReportPath: filepath.Join(dir, "out.html"),
	})
	require.ErrorIs(t, err, context.Canceled)
	assert.NoFileExists(t, filepath.Join(dir, "out.html"))
}

func TestScan_RecordsRun(t *testing.T) {
	dir := t.TempDir()
	rec := &fakeRecorder{}
	reportPath := filepath.Join(dir, "out.html")

	res, err := newTestEngine(t, rec).Scan(context.Background(), Request{
		SourcePath: writeSource(t, dir, strings.Repeat("x", 30)+"\n"),
		Rules:      testRules(),
		ReportPath: reportPath,
	})
	require.NoError(t, err)
	require.Len(t, rec.runs, 1)

	run := rec.runs[0]
	assert.Equal(t, res.RunID, run.ID)
	assert.Equal(t, reportPath, run.ReportPath)
	assert.Equal(t, int64(250), run.DurationMS)
	assert.Equal(t, 1, run.Total)
	assert.Equal(t, 1, run.Warnings)
	assert.Equal(t, 0, run.Errors)
}

func TestScan_RecorderFailureIsNotFatal(t *testing.T) {
	dir := t.TempDir()
	rec := &fakeRecorder{err: errors.New("disk full")}
	logger, logs := testutil.NewCaptureLogger(slog.LevelWarn)

	res, err := New(Config{Logger: logger, Recorder: rec}).Scan(context.Background(), Request{
		SourcePath: writeSource(t, dir, "SELECT 1;\n"),
		Rules:      testRules(),
		ReportPath: filepath.Join(dir, "out.html"),
	})
	require.NoError(t, err)
	assert.NotNil(t, res)
	assert.Len(t, rec.runs, 1)
	assert.Contains(t, logs.String(), "failed to record run")
	assert.Contains(t, logs.String(), "disk full")
	assert.NotContains(t, logs.String(), "scan complete")
}

func TestScan_ExplicitRunID(t *testing.T) {
	dir := t.TempDir()
	rec := &fakeRecorder{}

	res, err := newTestEngine(t, rec).Scan(context.Background(), Request{
		SourcePath: writeSource(t, dir, "SELECT 1;\n"),
		Rules:      testRules(),
		ReportPath: filepath.Join(dir, "out.html"),
		RunID:      "7f1d4c2e-0000-4000-8000-000000000001",
	})
	require.NoError(t, err)
	assert.Equal(t, "7f1d4c2e-0000-4000-8000-000000000001", res.RunID)
	require.Len(t, rec.runs, 1)
	assert.Equal(t, res.RunID, rec.runs[0].ID)
}
