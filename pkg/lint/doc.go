// Package lint is a line-oriented SQL linter.
//
// # Architecture
//
// The package has four parts:
//
//  1. Catalog (catalog.go): the closed set of built-in checks, keyed by CheckID
//  2. Rules (rule.go): a configured instance of a check with severity, description and typed parameters
//  3. Analyzer (analyzer.go): drives every enabled rule over every line of a Source
//  4. Collector (collector.go): the ordered, append-only list of issues
//
// # Checks
//
// Every check implements one of two interfaces:
//
//	LineCheck: looks at a single line (line_length, variable_naming, constant_naming,
//	           select_star, comment_min_length)
//	FileCheck: looks at a line in the context of the whole file (procedure_comment,
//	           commit_in_trigger)
//
// File checks receive the shared Source, which memoizes file-wide analyses so that
// running a file check at every line never rescans the whole file per line.
//
// # Building rules
//
// Rules are normally produced by a loader from a YAML rule file, but can be built directly:
//
//	rule := lint.NewRule(lint.RuleSpec{
//		Key:         "line_length",
//		Check:       "line_length",
//		Severity:    lint.SeverityWarning,
//		Description: "Line too long",
//		Params:      map[string]any{"max_length": 100},
//	})
//
// A rule whose check is unknown, or whose parameters are missing or invalid, is inert:
// it never produces issues and Rule.InertReason explains why.
//
// # Scanning
//
//	src, err := lint.ReadSource("proc.sql")
//	issues := lint.NewAnalyzer(nil).Analyze(src, lint.RuleSet{rule})
package lint
