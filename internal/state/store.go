// Package state keeps the history of lint runs in SQLite.
// The schema is managed by goose migrations embedded in the binary.
package state

import (
	"context"
	"errors"
	"time"
)

// ErrRunNotFound is returned when no run has the requested id.
var ErrRunNotFound = errors.New("run not found")

// Run summarizes one completed scan.
type Run struct {
	ID         string    `json:"id"`
	Source     string    `json:"source"`
	ReportPath string    `json:"report"`
	StartedAt  time.Time `json:"started_at"`
	DurationMS int64     `json:"duration_ms"`
	Total      int       `json:"total"`
	Errors     int       `json:"errors"`
	Warnings   int       `json:"warnings"`
	Info       int       `json:"info"`
}

// Store persists runs.
type Store interface {
	// RecordRun saves a run. The id must be unique.
	RecordRun(ctx context.Context, run *Run) error
	// GetRun returns the run with the given id or ErrRunNotFound.
	GetRun(ctx context.Context, id string) (*Run, error)
	// ListRuns returns the most recent runs, newest first.
	ListRuns(ctx context.Context, limit int) ([]*Run, error)
	// Close releases the underlying database.
	Close() error
}
