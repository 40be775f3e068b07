package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/leapstack-labs/leaplint/internal/engine"
	"github.com/leapstack-labs/leaplint/internal/ruleset"
	"github.com/leapstack-labs/leaplint/internal/state"
	"github.com/leapstack-labs/leaplint/pkg/lint"
)

// UploadField is the multipart field holding the SQL file.
const UploadField = "sql_file"

// CheckResponse is returned by POST /api/check.
type CheckResponse struct {
	ID        string       `json:"id"`
	Source    string       `json:"source"`
	ReportURL string       `json:"report_url"`
	Issues    []lint.Issue `json:"issues"`
	Summary   lint.Summary `json:"summary"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleCheck(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)

	file, header, err := r.FormFile(UploadField)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "upload exceeds size limit")
			return
		}
		writeError(w, http.StatusBadRequest, "missing "+UploadField+" upload")
		return
	}
	defer func() { _ = file.Close() }()

	tmpPath, err := spool(file)
	if err != nil {
		s.logger.Error("failed to store upload", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to store upload")
		return
	}
	defer func() { _ = os.Remove(tmpPath) }()

	rules, err := ruleset.Load(s.rulesFile)
	if err != nil {
		s.logger.Error("failed to load rules", "file", s.rulesFile, "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	id := uuid.NewString()
	name := filepath.Base(header.Filename)
	res, err := s.engine.Scan(r.Context(), engine.Request{
		SourcePath: tmpPath,
		SourceName: name,
		Rules:      rules,
		ReportPath: s.reportPath(id),
		RunID:      id,
	})
	if err != nil {
		s.logger.Error("check failed", "source", name, "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, CheckResponse{
		ID:        res.RunID,
		Source:    res.Source,
		ReportURL: "/reports/" + res.RunID,
		Issues:    res.Issues,
		Summary:   res.Summary,
	})
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.NotFound(w, r)
		return
	}

	f, err := os.Open(s.reportPath(id.String()))
	if errors.Is(err, fs.ErrNotExist) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		http.Error(w, "failed to open report", http.StatusInternalServerError)
		return
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil {
		http.Error(w, "failed to open report", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	http.ServeContent(w, r, info.Name(), info.ModTime(), f)
}

func (s *Server) handleRules(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, lint.Checks())
}

func (s *Server) handleRuns(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		writeError(w, http.StatusNotFound, "run history is disabled")
		return
	}

	limit := state.DefaultListLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	runs, err := s.history.ListRuns(r.Context(), limit)
	if err != nil {
		s.logger.Error("failed to list runs", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list runs")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"runs": runs})
}

func (s *Server) reportPath(id string) string {
	return filepath.Join(s.reportsDir, id+".html")
}

// spool copies the upload to a temp file and returns its path.
func spool(src io.Reader) (string, error) {
	tmp, err := os.CreateTemp("", "leaplint-*.sql")
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(tmp, src); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to copy upload: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return "", err
	}
	return tmp.Name(), nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
