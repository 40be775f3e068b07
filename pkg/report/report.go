// Package report renders lint issues as a self-contained HTML document.
//
// The document holds one table row per issue, in the order given, with four
// columns: line, severity (upper-cased), rule description and message. A small
// inline script filters rows per column by case-insensitive substring. All cell
// text is escaped by html/template.
package report

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io"
	"os"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/leapstack-labs/leaplint/pkg/lint"
)

// DefaultPath is where the report is written when the caller gives no path.
const DefaultPath = "report.html"

// TimestampLayout is the layout of the generation time shown in the report.
const TimestampLayout = "2006-01-02 15:04:05"

//go:embed templates/report.html.tmpl
var templateFS embed.FS

var reportTemplate = template.Must(
	template.New("report.html.tmpl").
		Funcs(template.FuncMap{
			"upper":     upper,
			"rowClass":  rowClass,
			"timestamp": func(t time.Time) string { return t.Format(TimestampLayout) },
		}).
		ParseFS(templateFS, "templates/report.html.tmpl"),
)

// Document is everything one report shows.
type Document struct {
	SourceName  string
	GeneratedAt time.Time
	Issues      []lint.Issue
}

// Summary counts the document's issues by severity.
func (d Document) Summary() lint.Summary {
	return lint.Summarize(d.Issues)
}

// upper builds a Caser per call; Casers are not safe for concurrent use.
func upper(s string) string {
	return cases.Upper(language.Und).String(s)
}

// rowClass returns the CSS class of a table row. Only warnings are styled as
// warnings; every other severity is styled as an error.
func rowClass(sev lint.Severity) string {
	if sev == lint.SeverityWarning {
		return "warning"
	}
	return "error"
}

// Render writes the HTML document to w.
func Render(w io.Writer, doc Document) error {
	if doc.GeneratedAt.IsZero() {
		doc.GeneratedAt = time.Now()
	}
	if err := reportTemplate.Execute(w, doc); err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}
	return nil
}

// WriteFile renders doc to path, replacing any existing file.
// On failure no partial report is left behind.
func WriteFile(path string, doc Document) (err error) {
	if path == "" {
		path = DefaultPath
	}

	var buf bytes.Buffer
	if err := Render(&buf, doc); err != nil {
		return err
	}

	f, err := os.Create(path) //nolint:gosec // G304: path is chosen by the caller
	if err != nil {
		return fmt.Errorf("failed to create report %s: %w", path, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close report %s: %w", path, closeErr)
		}
		if err != nil {
			err = errors.Join(err, removeIfExists(path))
		}
	}()

	if _, err := buf.WriteTo(f); err != nil {
		return fmt.Errorf("failed to write report %s: %w", path, err)
	}
	return nil
}

func removeIfExists(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
