package output

import (
	"github.com/leapstack-labs/leaplint/internal/state"
	"github.com/leapstack-labs/leaplint/pkg/lint"
)

// CheckOutput is the JSON result of linting one file.
type CheckOutput struct {
	Source  string       `json:"source"`
	Report  string       `json:"report"`
	Issues  []lint.Issue `json:"issues"`
	Summary lint.Summary `json:"summary"`
}

// RuleOutput is the JSON form of one configured rule.
type RuleOutput struct {
	Key         string `json:"key"`
	Check       string `json:"check"`
	Enabled     bool   `json:"enabled"`
	Severity    string `json:"severity"`
	Description string `json:"description"`
	Status      string `json:"status"`
	Reason      string `json:"reason,omitempty"`
}

// HistoryOutput is the JSON form of the run history.
type HistoryOutput struct {
	Runs []*state.Run `json:"runs"`
}
