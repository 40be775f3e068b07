package lint

import (
	"fmt"
	"log/slog"
)

// Analyzer runs rules against a source.
type Analyzer struct {
	logger *slog.Logger
}

// NewAnalyzer creates an analyzer. A nil logger discards output.
func NewAnalyzer(logger *slog.Logger) *Analyzer {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Analyzer{logger: logger}
}

// Analyze runs every active rule against every line of src.
// Issues are ordered by line, then by rule order within the line.
func (a *Analyzer) Analyze(src *Source, rules RuleSet) []Issue {
	var c Collector
	if src == nil {
		return c.Issues()
	}

	active := rules.Active()
	for _, r := range rules {
		if r.enabled && r.check == nil {
			a.logger.Debug("skipping inert rule", "rule", r.key, "check", r.checkID, "reason", r.reason)
		}
	}

	for i, line := range src.Lines {
		for _, r := range active {
			msg, found := a.dispatch(r, src, i, line)
			if found {
				c.Add(r.issue(i+1, msg))
			}
		}
	}

	a.logger.Debug("analyzed source", "source", src.Name, "lines", src.Len(), "rules", len(active), "issues", c.Len())
	return c.Issues()
}

// AnalyzeFile reads path and analyzes it.
func (a *Analyzer) AnalyzeFile(path string, rules RuleSet) ([]Issue, error) {
	src, err := ReadSource(path)
	if err != nil {
		return nil, err
	}
	return a.Analyze(src, rules), nil
}

// dispatch runs one rule on one line. A failing check yields no issue.
func (a *Analyzer) dispatch(r Rule, src *Source, index int, line string) (msg string, found bool) {
	defer func() {
		if rec := recover(); rec != nil {
			a.logger.Warn("check failed", "rule", r.key, "line", index+1, "error", fmt.Sprint(rec))
			msg, found = "", false
		}
	}()

	switch c := r.check.(type) {
	case LineCheck:
		return c.CheckLine(index+1, line)
	case FileCheck:
		return c.CheckFile(src, index)
	default:
		return "", false
	}
}
