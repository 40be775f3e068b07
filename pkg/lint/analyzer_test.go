package lint_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leaplint/internal/testutil"
	"github.com/leapstack-labs/leaplint/pkg/lint"
)

func newRule(key string, check lint.CheckID, params map[string]any) lint.Rule {
	return lint.NewRule(lint.RuleSpec{
		Key:         key,
		Check:       string(check),
		Enabled:     true,
		Severity:    lint.SeverityWarning,
		Description: key + " rule",
		Params:      params,
	})
}

func analyze(t *testing.T, text string, rules ...lint.Rule) []lint.Issue {
	t.Helper()
	analyzer := lint.NewAnalyzer(testutil.NewTestLogger(t))
	return analyzer.Analyze(lint.NewSource("test.sql", text), lint.RuleSet(rules))
}

func lines(issues []lint.Issue) []int {
	out := make([]int, 0, len(issues))
	for _, is := range issues {
		out = append(out, is.Line)
	}
	return out
}

func TestAnalyzer_DisabledRuleNeverFires(t *testing.T) {
	r := lint.NewRule(lint.RuleSpec{
		Key:      "line_length",
		Check:    "line_length",
		Enabled:  false,
		Severity: lint.SeverityError,
		Params:   map[string]any{"max_length": 1},
	})

	issues := analyze(t, "SELECT a FROM t;\nSELECT b FROM t;\n", r)
	assert.Empty(t, issues)
	assert.NotNil(t, issues)
}

func TestAnalyzer_IssueCarriesRuleFields(t *testing.T) {
	r := lint.NewRule(lint.RuleSpec{
		Key:         "line_length",
		Check:       "line_length",
		Enabled:     true,
		Severity:    lint.SeverityError,
		Description: "Lines must be short",
		Params:      map[string]any{"max_length": 5},
	})

	issues := analyze(t, "short\ntoo long\n", r)
	require.Len(t, issues, 1)
	assert.Equal(t, lint.Issue{
		Line:     2,
		Severity: lint.SeverityError,
		Rule:     "Lines must be short",
		Message:  "Line length exceeds 5 characters",
	}, issues[0])
}

func TestAnalyzer_OrderIsLineThenRule(t *testing.T) {
	long := newRule("line_length", lint.CheckLineLength, map[string]any{"max_length": 10})
	star := newRule("select_star", lint.CheckSelectStar, map[string]any{"regex": `SELECT\s+\*`, "ignore_case": true})
	text := "SELECT * FROM some_table;\nok\nselect * from t;\n"

	issues := analyze(t, text, long, star)
	require.Len(t, issues, 4)
	assert.Equal(t, []int{1, 1, 3, 3}, lines(issues))
	assert.Equal(t, "line_length rule", issues[0].Rule)
	assert.Equal(t, "select_star rule", issues[1].Rule)

	swapped := analyze(t, text, star, long)
	require.Len(t, swapped, 4)
	assert.Equal(t, "select_star rule", swapped[0].Rule)
	assert.Equal(t, "line_length rule", swapped[1].Rule)
}

func TestAnalyzer_InertRulesProduceNothing(t *testing.T) {
	tests := []struct {
		name  string
		check string
		param map[string]any
	}{
		{name: "unknown check", check: "no_such_check"},
		{name: "select star without regex", check: "select_star"},
		{name: "constant naming without regex", check: "constant_naming"},
		{name: "variable naming without group", check: "variable_naming", param: map[string]any{"regex": `\w+\s+NUMBER`}},
		{name: "line length not a number", check: "line_length", param: map[string]any{"max_length": "long"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newRule("r", lint.CheckID(tt.check), tt.param)
			require.True(t, r.Inert())
			require.Error(t, r.InertReason())

			issues := analyze(t, "SELECT * FROM t;\nv NUMBER;\nC_bad CONSTANT;\n"+strings.Repeat("x", 200), r)
			assert.Empty(t, issues)
		})
	}
}

func TestAnalyzer_EmptyAndNilSource(t *testing.T) {
	r := newRule("line_length", lint.CheckLineLength, nil)
	analyzer := lint.NewAnalyzer(nil)

	assert.Empty(t, analyzer.Analyze(lint.NewSource("empty.sql", ""), lint.RuleSet{r}))
	assert.Empty(t, analyzer.Analyze(nil, lint.RuleSet{r}))
}

func TestAnalyzer_AnalyzeFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "proc.sql")
	require.NoError(t, os.WriteFile(path, []byte("SELECT 1;\nCREATE PROCEDURE p AS\n"), 0o600))

	analyzer := lint.NewAnalyzer(testutil.NewTestLogger(t))
	issues, err := analyzer.AnalyzeFile(path, lint.RuleSet{newRule("proc", lint.CheckProcedureComment, nil)})
	require.NoError(t, err)
	require.Len(t, issues, 1)
	assert.Equal(t, 2, issues[0].Line)

	_, err = analyzer.AnalyzeFile(filepath.Join(dir, "missing.sql"), nil)
	require.Error(t, err)
}

func TestAnalyzer_ConfigOverrides(t *testing.T) {
	rules := lint.RuleSet{
		newRule("line_length", lint.CheckLineLength, map[string]any{"max_length": 3}),
		newRule("select_star", lint.CheckSelectStar, map[string]any{"regex": `SELECT \*`}),
	}
	text := "SELECT * FROM t;\n"

	cfg := lint.NewConfig().Disable("line_length").SetSeverity("select_star", lint.SeverityInfo)
	issues := analyze(t, text, cfg.Apply(rules)...)
	require.Len(t, issues, 1)
	assert.Equal(t, "select_star rule", issues[0].Rule)
	assert.Equal(t, lint.SeverityInfo, issues[0].Severity)

	// The original set is untouched.
	assert.Len(t, analyze(t, text, rules...), 2)

	only := lint.NewConfig().Only("line_length")
	issues = analyze(t, text, only.Apply(rules)...)
	require.Len(t, issues, 1)
	assert.Equal(t, "line_length rule", issues[0].Rule)
}

func TestSummarize(t *testing.T) {
	issues := []lint.Issue{
		{Line: 1, Severity: lint.SeverityError},
		{Line: 2, Severity: lint.SeverityWarning},
		{Line: 3, Severity: lint.SeverityWarning},
		{Line: 4, Severity: lint.SeverityInfo},
	}

	assert.Equal(t, lint.Summary{Total: 4, Errors: 1, Warnings: 2, Info: 1}, lint.Summarize(issues))
	assert.Equal(t, lint.Summary{}, lint.Summarize(nil))
}
