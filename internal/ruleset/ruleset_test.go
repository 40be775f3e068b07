package ruleset

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leaplint/pkg/lint"
)

func keys(rs lint.RuleSet) []string {
	out := make([]string, 0, len(rs))
	for _, r := range rs {
		out = append(out, r.Key())
	}
	return out
}

func TestParse_KeepsFileOrder(t *testing.T) {
	data := []byte(`
rules:
  zeta:
    function: check_line_length
  alpha:
    function: check_select_star
    regex: 'SELECT \*'
  mid:
    check: comment_min_length
`)
	rules, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, []string{"zeta", "alpha", "mid"}, keys(rules))
}

func TestParse_RuleFields(t *testing.T) {
	data := []byte(`
rules:
  long_lines:
    enabled: false
    function: check_line_length
    level: ERROR
    description: Keep it short
    max_length: 100
  defaults:
    check: select_star
    regex: 'SELECT \*'
`)
	rules, err := Parse(data)
	require.NoError(t, err)
	require.Len(t, rules, 2)

	r := rules[0]
	assert.Equal(t, "long_lines", r.Key())
	assert.Equal(t, lint.CheckLineLength, r.CheckID())
	assert.False(t, r.Enabled())
	assert.Equal(t, lint.SeverityError, r.Severity())
	assert.Equal(t, "Keep it short", r.Description())
	assert.Equal(t, map[string]any{"max_length": 100}, r.Params())

	d := rules[1]
	assert.True(t, d.Enabled())
	assert.True(t, d.Active())
	assert.Equal(t, lint.SeverityWarning, d.Severity())
	assert.Equal(t, "defaults", d.Description())
}

func TestParse_UnknownCheckIsInert(t *testing.T) {
	rules, err := Parse([]byte("rules:\n  mystery:\n    function: check_everything\n"))
	require.NoError(t, err)
	require.Len(t, rules, 1)
	assert.True(t, rules[0].Inert())
	assert.ErrorIs(t, rules[0].InertReason(), lint.ErrUnknownCheck)
}

func TestParse_NullRegexIsInert(t *testing.T) {
	rules, err := Parse([]byte("rules:\n  star:\n    function: check_select_star\n    regex: null\n"))
	require.NoError(t, err)
	require.Len(t, rules, 1)
	assert.ErrorIs(t, rules[0].InertReason(), lint.ErrMissingParam)
}

func TestParse_Empty(t *testing.T) {
	for _, data := range []string{"", "rules:\n", "other: 1\n", "rules: {}\n"} {
		rules, err := Parse([]byte(data))
		require.NoError(t, err, data)
		assert.Empty(t, rules, data)
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantMsg string
	}{
		{name: "invalid yaml", data: "rules: [", wantMsg: "invalid YAML"},
		{name: "top level list", data: "- a\n- b\n", wantMsg: "top level must be a mapping"},
		{name: "rules is a list", data: "rules:\n  - a\n", wantMsg: `"rules" must be a mapping`},
		{name: "rule is scalar", data: "rules:\n  a: 1\n", wantMsg: "rule must be a mapping"},
		{name: "unknown level", data: "rules:\n  a:\n    function: check_line_length\n    level: fatal\n", wantMsg: `invalid level "fatal"`},
		{name: "duplicate key", data: "rules:\n  a:\n    level: info\n  a:\n    level: error\n", wantMsg: "duplicate rule key"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			require.Error(t, err)
			var perr *ParseError
			require.ErrorAs(t, err, &perr)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestParseError_LineNumbers(t *testing.T) {
	_, err := Parse([]byte("rules:\n  a:\n    function: check_line_length\n    level: fatal\n"))
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, 4, perr.Line)
	assert.Equal(t, "a", perr.Rule)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte("rules:\n  a:\n    function: check_line_length\n"), 0o600))

	rules, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, keys(rules))
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRulesNotFound)
}

func TestLoad_ParseErrorNamesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("rules:\n  a: 1\n"), 0o600))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), path+":2:")
}

func TestDefault(t *testing.T) {
	rules, err := Default()
	require.NoError(t, err)
	assert.Equal(t, []string{
		"line_length",
		"variable_naming",
		"constant_naming",
		"procedure_comments",
		"select_star",
		"commit_in_trigger",
		"comment_min_length",
	}, keys(rules))

	for _, r := range rules {
		assert.True(t, r.Active(), "%s: %v", r.Key(), r.InertReason())
	}

	// Every catalog entry is used by the defaults.
	used := map[lint.CheckID]bool{}
	for _, r := range rules {
		used[r.CheckID()] = true
	}
	for _, c := range lint.Checks() {
		assert.True(t, used[c.ID], c.ID)
	}
}

func TestDefault_VariableNamingOnDeclarationsOnly(t *testing.T) {
	rules, err := Default()
	require.NoError(t, err)
	rules = lint.NewConfig().Only("variable_naming").Apply(rules)

	text := strings.Join([]string{
		"PROCEDURE p(p_id IN NUMBER) IS",         // 1: parameter mode, not a variable
		"  l_count NUMBER := 0;",                 // 2
		"  total NUMBER;",                        // 3: fires
		"  C_LIMIT CONSTANT NUMBER := 10;",       // 4
		"  v_name VARCHAR2(30) NOT NULL := 'x';", // 5
		"BEGIN",                                  // 6
		"  NULL;",                                // 7
		"END;",                                   // 8
		"FUNCTION f RETURN NUMBER IS",            // 9: return type, not a variable
		"FUNCTION g(",                            // 10
		"  p_from IN DATE,",                      // 11
		"  p_to DATE DEFAULT SYSDATE",            // 12
		")",                                      // 13
		"  RETURN BOOLEAN IS",                    // 14
		"BEGIN",                                  // 15
		"  RETURN v_ok;",                         // 16
		"END;",                                   // 17
	}, "\n") + "\n"

	issues := lint.NewAnalyzer(nil).Analyze(lint.NewSource("pkg.sql", text), rules)
	require.Len(t, issues, 1, "%+v", issues)
	assert.Equal(t, 3, issues[0].Line)
	assert.Equal(t, "Variable 'total' does not follow the naming convention", issues[0].Message)
}

func TestDefaultYAML_IsCopy(t *testing.T) {
	a := DefaultYAML()
	a[0] = 'X'
	assert.NotEqual(t, a, DefaultYAML())
}
