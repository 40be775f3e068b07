package lint

import (
	"errors"
	"fmt"
	"maps"
)

// Errors recorded as the inert reason of a rule.
var (
	// ErrUnknownCheck marks a rule whose check id is not in the catalog.
	ErrUnknownCheck = errors.New("unknown check")
	// ErrMissingParam marks a rule missing a parameter its check requires.
	ErrMissingParam = errors.New("missing parameter")
	// ErrInvalidParam marks a rule whose parameters cannot be used by its check.
	ErrInvalidParam = errors.New("invalid parameter")
)

// LineCheck inspects a single line.
// lineNo is 1-based; line excludes the trailing newline.
type LineCheck interface {
	CheckLine(lineNo int, line string) (message string, found bool)
}

// FileCheck inspects the line at index in the context of the whole source.
// index is 0-based.
type FileCheck interface {
	CheckFile(src *Source, index int) (message string, found bool)
}

// RuleSpec is the caller-supplied configuration of one rule.
type RuleSpec struct {
	Key         string
	Check       string
	Enabled     bool
	Severity    Severity
	Description string
	Params      map[string]any
}

// Rule is one configured check. Rules are immutable once built.
type Rule struct {
	key         string
	checkID     CheckID
	enabled     bool
	severity    Severity
	description string
	params      map[string]any

	// check is a LineCheck or FileCheck; nil when the rule is inert.
	check  any
	reason error
}

// NewRule resolves the check named by spec and decodes its parameters.
// It never fails: problems are recorded as the rule's inert reason.
func NewRule(spec RuleSpec) Rule {
	r := Rule{
		key:         spec.Key,
		enabled:     spec.Enabled,
		severity:    spec.Severity,
		description: spec.Description,
		params:      maps.Clone(spec.Params),
	}

	info, ok := LookupCheck(spec.Check)
	if !ok {
		r.checkID = CheckID(spec.Check)
		r.reason = fmt.Errorf("%w %q", ErrUnknownCheck, spec.Check)
		return r
	}
	r.checkID = info.ID

	check, err := info.build(spec.Params)
	if err != nil {
		r.reason = err
		return r
	}
	r.check = check
	return r
}

// Key returns the unique rule key.
func (r Rule) Key() string { return r.key }

// CheckID returns the resolved catalog id, or the raw id for unknown checks.
func (r Rule) CheckID() CheckID { return r.checkID }

// Enabled reports whether the rule is switched on.
func (r Rule) Enabled() bool { return r.enabled }

// Severity returns the severity stamped on the rule's issues.
func (r Rule) Severity() Severity { return r.severity }

// Description returns the label copied into every issue.
func (r Rule) Description() string { return r.description }

// Params returns a copy of the raw parameter bag.
func (r Rule) Params() map[string]any { return maps.Clone(r.params) }

// Inert reports whether the rule can never produce issues.
func (r Rule) Inert() bool { return r.check == nil }

// InertReason explains why the rule is inert, or returns nil.
func (r Rule) InertReason() error { return r.reason }

// Active reports whether the analyzer will run the rule.
func (r Rule) Active() bool { return r.enabled && r.check != nil }

func (r Rule) issue(lineNo int, message string) Issue {
	return Issue{
		Line:     lineNo,
		Severity: r.severity,
		Rule:     r.description,
		Message:  message,
	}
}

// RuleSet is an ordered list of rules; order is the dispatch order within a line.
type RuleSet []Rule

// Validate checks that rule keys are non-empty and unique.
func (rs RuleSet) Validate() error {
	seen := make(map[string]bool, len(rs))
	for _, r := range rs {
		if r.key == "" {
			return fmt.Errorf("rule with empty key")
		}
		if seen[r.key] {
			return fmt.Errorf("duplicate rule key %q", r.key)
		}
		seen[r.key] = true
	}
	return nil
}

// Get returns the rule with the given key.
func (rs RuleSet) Get(key string) (Rule, bool) {
	for _, r := range rs {
		if r.key == key {
			return r, true
		}
	}
	return Rule{}, false
}

// Active returns the rules the analyzer will run, in order.
func (rs RuleSet) Active() RuleSet {
	out := make(RuleSet, 0, len(rs))
	for _, r := range rs {
		if r.Active() {
			out = append(out, r)
		}
	}
	return out
}
