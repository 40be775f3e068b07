// Package engine runs one lint scan end to end: read the source, apply the
// rules, write the HTML report and optionally record the run.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/leapstack-labs/leaplint/internal/state"
	"github.com/leapstack-labs/leaplint/pkg/lint"
	"github.com/leapstack-labs/leaplint/pkg/report"
)

// ErrSourceUnreadable is returned when the source file cannot be opened or read.
var ErrSourceUnreadable = errors.New("source file unreadable")

// Recorder stores a summary of each completed scan.
type Recorder interface {
	RecordRun(ctx context.Context, run *state.Run) error
}

// Engine scans SQL files. It holds no per-scan state, so one Engine may serve
// concurrent scans as long as each writes a distinct report path.
type Engine struct {
	logger   *slog.Logger
	analyzer *lint.Analyzer
	recorder Recorder
	now      func() time.Time
}

// Config holds engine configuration.
type Config struct {
	// Logger is the structured logger (optional, uses discard if nil)
	Logger *slog.Logger
	// Recorder receives a run record after every successful scan (optional)
	Recorder Recorder
	// Now returns the current time (optional, defaults to time.Now)
	Now func() time.Time
}

// New creates an engine.
func New(cfg Config) *Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Engine{
		logger:   logger,
		analyzer: lint.NewAnalyzer(logger),
		recorder: cfg.Recorder,
		now:      now,
	}
}

// Request describes one scan.
type Request struct {
	// SourcePath is the SQL file to scan
	SourcePath string
	// SourceName is shown in the report (optional, defaults to SourcePath)
	SourceName string
	// Rules is applied in order on every line
	Rules lint.RuleSet
	// ReportPath is where the HTML report goes (optional, defaults to report.html)
	ReportPath string
	// RunID identifies the run (optional, a UUID is generated when empty)
	RunID string
}

// Result describes a completed scan.
type Result struct {
	RunID      string        `json:"id"`
	Source     string        `json:"source"`
	ReportPath string        `json:"report"`
	Issues     []lint.Issue  `json:"issues"`
	Summary    lint.Summary  `json:"summary"`
	StartedAt  time.Time     `json:"started_at"`
	Duration   time.Duration `json:"duration"`
}

// Scan lints the source file and writes the report.
// It fails only when the rules are malformed, the source cannot be read or
// the report cannot be written. No report is written for an unreadable source.
func (e *Engine) Scan(ctx context.Context, req Request) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := req.Rules.Validate(); err != nil {
		return nil, fmt.Errorf("invalid rule set: %w", err)
	}

	started := e.now()
	reportPath := req.ReportPath
	if reportPath == "" {
		reportPath = report.DefaultPath
	}
	name := req.SourceName
	if name == "" {
		name = req.SourcePath
	}

	e.logger.Info("scanning source", "source", req.SourcePath, "rules", len(req.Rules))

	src, err := lint.ReadSource(req.SourcePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSourceUnreadable, err)
	}
	src.Name = name

	issues := e.analyzer.Analyze(src, req.Rules)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	doc := report.Document{
		SourceName:  name,
		GeneratedAt: started,
		Issues:      issues,
	}
	if err := report.WriteFile(reportPath, doc); err != nil {
		return nil, err
	}

	runID := req.RunID
	if runID == "" {
		runID = uuid.NewString()
	}
	result := &Result{
		RunID:      runID,
		Source:     name,
		ReportPath: reportPath,
		Issues:     issues,
		Summary:    lint.Summarize(issues),
		StartedAt:  started,
		Duration:   e.now().Sub(started),
	}

	e.logger.Info("scan complete",
		"source", name,
		"report", reportPath,
		"issues", result.Summary.Total,
		"errors", result.Summary.Errors,
		"warnings", result.Summary.Warnings,
	)

	e.record(ctx, result)
	return result, nil
}

// record stores the run. Failures are logged; the scan itself already succeeded.
func (e *Engine) record(ctx context.Context, result *Result) {
	if e.recorder == nil {
		return
	}
	run := &state.Run{
		ID:         result.RunID,
		Source:     result.Source,
		ReportPath: result.ReportPath,
		StartedAt:  result.StartedAt,
		DurationMS: result.Duration.Milliseconds(),
		Total:      result.Summary.Total,
		Errors:     result.Summary.Errors,
		Warnings:   result.Summary.Warnings,
		Info:       result.Summary.Info,
	}
	if err := e.recorder.RecordRun(ctx, run); err != nil {
		e.logger.Warn("failed to record run", "run_id", run.ID, "error", err)
	}
}
