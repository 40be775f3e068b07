package lint

import (
	"sort"
	"strings"
)

// CheckID identifies a built-in check.
type CheckID string

// Built-in checks.
const (
	CheckLineLength       CheckID = "line_length"
	CheckVariableNaming   CheckID = "variable_naming"
	CheckConstantNaming   CheckID = "constant_naming"
	CheckProcedureComment CheckID = "procedure_comment"
	CheckSelectStar       CheckID = "select_star"
	CheckCommitInTrigger  CheckID = "commit_in_trigger"
	CheckCommentMinLength CheckID = "comment_min_length"
)

// Scope tells whether a check looks at one line or at the whole file.
type Scope string

// Check scopes.
const (
	ScopeLine Scope = "line"
	ScopeFile Scope = "file"
)

// CheckInfo describes a catalog entry for documentation and tooling.
type CheckInfo struct {
	ID      CheckID  `json:"id"`
	Scope   Scope    `json:"scope"`
	Summary string   `json:"summary"`
	Params  []string `json:"params,omitempty"`

	build func(params map[string]any) (any, error)
}

var catalog = []CheckInfo{
	{
		ID:      CheckLineLength,
		Scope:   ScopeLine,
		Summary: "Line is longer than max_length characters (default 80).",
		Params:  []string{"max_length"},
		build:   newLineLength,
	},
	{
		ID:      CheckVariableNaming,
		Scope:   ScopeLine,
		Summary: "Variable captured by regex group 1 (later groups are ignored) does not start with an accepted prefix.",
		Params:  []string{"regex", "prefixes"},
		build:   newVariableNaming,
	},
	{
		ID:      CheckConstantNaming,
		Scope:   ScopeLine,
		Summary: "C_ constant does not match regex.",
		Params:  []string{"regex"},
		build:   newConstantNaming,
	},
	{
		ID:      CheckProcedureComment,
		Scope:   ScopeFile,
		Summary: "PROCEDURE is not preceded by a comment line.",
		build:   newProcedureComment,
	},
	{
		ID:      CheckSelectStar,
		Scope:   ScopeLine,
		Summary: "Line matches the SELECT * regex.",
		Params:  []string{"regex", "ignore_case"},
		build:   newSelectStar,
	},
	{
		ID:      CheckCommitInTrigger,
		Scope:   ScopeFile,
		Summary: "COMMIT or ROLLBACK follows a TRIGGER.",
		build:   newCommitInTrigger,
	},
	{
		ID:      CheckCommentMinLength,
		Scope:   ScopeLine,
		Summary: "Single-line comment body is shorter than min_length (default 2).",
		Params:  []string{"min_length"},
		build:   newCommentMinLength,
	},
}

// aliases maps legacy function names to catalog ids.
var aliases = map[string]CheckID{
	"check_procedure_comments": CheckProcedureComment,
	"procedure_comments":       CheckProcedureComment,
}

// LookupCheck resolves a check id. Legacy "check_" prefixed names are accepted.
func LookupCheck(id string) (CheckInfo, bool) {
	name := strings.ToLower(strings.TrimSpace(id))
	if alias, ok := aliases[name]; ok {
		name = string(alias)
	}
	name = strings.TrimPrefix(name, "check_")
	for _, info := range catalog {
		if string(info.ID) == name {
			return info, true
		}
	}
	return CheckInfo{}, false
}

// Checks returns the catalog sorted by id.
func Checks() []CheckInfo {
	out := make([]CheckInfo, len(catalog))
	copy(out, catalog)
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
