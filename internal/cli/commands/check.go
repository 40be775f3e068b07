package commands

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leaplint/internal/cli/output"
	"github.com/leapstack-labs/leaplint/internal/engine"
	"github.com/leapstack-labs/leaplint/pkg/lint"
)

// CheckOptions holds options for checking a file.
type CheckOptions struct {
	Disable []string // Rule keys to disable
	Only    []string // Run only these rule keys
	Watch   bool     // Re-run on changes
}

// NewCheckCommand creates the check command. The root command runs the same
// check when given a file directly.
func NewCheckCommand() *cobra.Command {
	opts := &CheckOptions{}
	cmd := &cobra.Command{
		Use:   "check <file.sql>",
		Short: "Lint a SQL file and write an HTML report",
		Long: `Lint a SQL file against the configured rules.

Every enabled rule runs on every line. The issues are written to an HTML
report (report.html by default) and summarized on stdout.

Output adapts to environment:
  - Terminal: Styled table with colors
  - Piped/Scripted: Markdown format
  - JSON: Machine-readable format`,
		Example: `  # Lint a file with rules.yaml
  leaplint check proc.sql

  # Use another rule file and report path
  leaplint check proc.sql --rules strict.yaml --report out/proc.html

  # Skip a rule
  leaplint check proc.sql --disable line_length

  # Re-run whenever the file or the rules change
  leaplint check proc.sql --watch`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return RunCheck(cmd, args[0], opts)
		},
	}
	AddCheckFlags(cmd, opts)
	return cmd
}

// AddCheckFlags registers the check flags on cmd.
func AddCheckFlags(cmd *cobra.Command, opts *CheckOptions) {
	cmd.Flags().StringSliceVar(&opts.Disable, "disable", nil, "Rule keys to disable")
	cmd.Flags().StringSliceVar(&opts.Only, "only", nil, "Run only these rule keys")
	cmd.Flags().BoolVarP(&opts.Watch, "watch", "w", false, "Re-run when the file or the rules change")
}

// RunCheck lints path and writes the report.
func RunCheck(cmd *cobra.Command, path string, opts *CheckOptions) error {
	cc := NewCommandContext(cmd)
	ctx := cmd.Context()

	store, err := cc.OpenHistory(ctx)
	if err != nil {
		return err
	}
	if store != nil {
		defer func() { _ = store.Close() }()
	}
	eng := cc.NewEngine(store)

	if opts.Watch {
		return watchCheck(ctx, cc, eng, path, opts)
	}

	res, err := checkOnce(ctx, cc, eng, path, opts)
	if err != nil {
		return err
	}
	return renderCheckResult(cc.Renderer, res)
}

func checkOnce(ctx context.Context, cc *CommandContext, eng *engine.Engine, path string, opts *CheckOptions) (*engine.Result, error) {
	rules, err := cc.LoadRules()
	if err != nil {
		return nil, err
	}
	rules, err = applyRuleFilters(rules, opts)
	if err != nil {
		return nil, err
	}
	return eng.Scan(ctx, engine.Request{
		SourcePath: path,
		Rules:      rules,
		ReportPath: cc.Cfg.ReportPath,
	})
}

// applyRuleFilters applies --disable and --only. Unknown keys are an error.
func applyRuleFilters(rules lint.RuleSet, opts *CheckOptions) (lint.RuleSet, error) {
	if opts == nil || (len(opts.Disable) == 0 && len(opts.Only) == 0) {
		return rules, nil
	}

	cfg := lint.NewConfig()
	for _, key := range opts.Disable {
		key = strings.TrimSpace(key)
		if _, ok := rules.Get(key); !ok {
			return nil, fmt.Errorf("unknown rule %q in --disable", key)
		}
		cfg.Disable(key)
	}
	for _, key := range opts.Only {
		key = strings.TrimSpace(key)
		if _, ok := rules.Get(key); !ok {
			return nil, fmt.Errorf("unknown rule %q in --only", key)
		}
		cfg.Only(key)
	}
	return cfg.Apply(rules), nil
}

func renderCheckResult(r *output.Renderer, res *engine.Result) error {
	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(output.CheckOutput{
			Source:  res.Source,
			Report:  res.ReportPath,
			Issues:  res.Issues,
			Summary: res.Summary,
		})
	case output.ModeMarkdown:
		renderCheckMarkdown(r, res)
	default:
		renderCheckText(r, res)
	}
	return nil
}

func issueRows(issues []lint.Issue, severity func(lint.Severity) string) [][]string {
	rows := make([][]string, 0, len(issues))
	for _, is := range issues {
		rows = append(rows, []string{strconv.Itoa(is.Line), severity(is.Severity), is.Rule, is.Message})
	}
	return rows
}

var issueHeader = []string{"Line", "Severity", "Rule", "Message"}

func renderCheckText(r *output.Renderer, res *engine.Result) {
	styles := r.Styles()
	r.Println(styles.SourcePath.Render(res.Source))

	if len(res.Issues) == 0 {
		r.Success("No issues found")
	} else {
		r.Table(issueHeader, issueRows(res.Issues, func(sev lint.Severity) string {
			return getSeverityStyle(styles, sev).Render(sev.String())
		}))
	}

	r.Println(formatSummary(res.Summary))
	r.Muted("Report written to " + res.ReportPath)
}

func renderCheckMarkdown(r *output.Renderer, res *engine.Result) {
	r.Header(1, "Lint: "+res.Source)
	if len(res.Issues) == 0 {
		r.Println("No issues found.")
	} else {
		r.Table(issueHeader, issueRows(res.Issues, lint.Severity.String))
	}
	r.Println("")
	r.Println(output.FormatKeyValue("Summary", formatSummary(res.Summary)))
	r.Println(output.FormatKeyValue("Report", res.ReportPath))
}

func formatSummary(s lint.Summary) string {
	return fmt.Sprintf("%d issue(s): %d error(s), %d warning(s), %d info", s.Total, s.Errors, s.Warnings, s.Info)
}

// getSeverityStyle returns the style for a severity level.
func getSeverityStyle(styles *output.Styles, sev lint.Severity) lipgloss.Style {
	switch sev {
	case lint.SeverityError:
		return styles.Error
	case lint.SeverityWarning:
		return styles.Warning
	default:
		return styles.Info
	}
}
