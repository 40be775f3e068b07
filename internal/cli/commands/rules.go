package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leaplint/internal/cli/output"
	"github.com/leapstack-labs/leaplint/internal/ruleset"
	"github.com/leapstack-labs/leaplint/pkg/lint"
)

// RulesOptions holds options for the rules command.
type RulesOptions struct {
	Configured bool   // List the rule file instead of the catalog
	Scope      string // Filter the catalog by scope: line, file
	Format     string // Output format
}

// NewRulesCommand creates the rules command.
func NewRulesCommand() *cobra.Command {
	opts := &RulesOptions{}
	cmd := &cobra.Command{
		Use:   "rules [check-id]",
		Short: "List available checks and configured rules",
		Long: `List the checks a rule file can use, or the rules it configures.

Without arguments the check catalog is listed: the id to use in a rule's
"function" (or "check") key, whether the check looks at one line or the whole
file, and its parameters. With --configured the rule file is loaded and every
rule is shown with its status; rules whose check is unknown or whose
parameters are unusable are marked inert.

Output adapts to environment:
  - Terminal: Styled output with colors
  - Piped/Scripted: Markdown format
  - JSON: Machine-readable format`,
		Example: `  # List all checks
  leaplint rules

  # Show one check
  leaplint rules line_length

  # List file-level checks only
  leaplint rules --scope file

  # Show the rules in rules.yaml and their status
  leaplint rules --configured

  # Write the default rule file
  leaplint rules init`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cc := NewCommandContext(cmd)
			r := cc.Renderer
			if opts.Format != "" {
				mode, err := output.ParseMode(opts.Format)
				if err != nil {
					return err
				}
				r = output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)
			}

			switch {
			case opts.Configured:
				return listConfiguredRules(cc, r)
			case len(args) > 0:
				return showCheck(r, args[0])
			default:
				return listChecks(r, opts)
			}
		},
	}

	cmd.Flags().BoolVar(&opts.Configured, "configured", false, "List the rules in the rule file with their status")
	cmd.Flags().StringVar(&opts.Scope, "scope", "", "Filter checks by scope: line, file")
	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, json, markdown")

	cmd.AddCommand(newRulesInitCommand())
	return cmd
}

func filterChecks(checks []lint.CheckInfo, scope string) ([]lint.CheckInfo, error) {
	if scope == "" {
		return checks, nil
	}
	s := lint.Scope(strings.ToLower(scope))
	if s != lint.ScopeLine && s != lint.ScopeFile {
		return nil, fmt.Errorf("invalid scope %q, must be line or file", scope)
	}
	var filtered []lint.CheckInfo
	for _, c := range checks {
		if c.Scope == s {
			filtered = append(filtered, c)
		}
	}
	return filtered, nil
}

func listChecks(r *output.Renderer, opts *RulesOptions) error {
	checks, err := filterChecks(lint.Checks(), opts.Scope)
	if err != nil {
		return err
	}

	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(checks)
	}

	r.Header(1, "Checks")
	rows := make([][]string, 0, len(checks))
	for _, c := range checks {
		rows = append(rows, []string{string(c.ID), string(c.Scope), formatParams(c.Params), c.Summary})
	}
	r.Table([]string{"Check", "Scope", "Parameters", "Summary"}, rows)
	if r.EffectiveMode() == output.ModeText {
		r.Muted(fmt.Sprintf("%d checks", len(checks)))
	}
	return nil
}

func showCheck(r *output.Renderer, id string) error {
	info, ok := lint.LookupCheck(id)
	if !ok {
		return fmt.Errorf("unknown check %q; run 'leaplint rules' to list checks", id)
	}

	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(info)
	case output.ModeMarkdown:
		r.Header(1, string(info.ID))
		r.Println(info.Summary)
		r.Println("")
		r.Println(output.FormatKeyValue("Scope", string(info.Scope)))
		r.Println(output.FormatKeyValue("Parameters", formatParams(info.Params)))
		r.Println(output.FormatKeyValue("Function", "check_"+string(info.ID)))
	default:
		styles := r.Styles()
		r.Println(styles.Header.Render(string(info.ID)) + " " + styles.Muted.Render("("+string(info.Scope)+")"))
		r.Println(info.Summary)
		r.Println(styles.Bold.Render("Parameters: ") + formatParams(info.Params))
		r.Println(styles.Bold.Render("Function:   ") + "check_" + string(info.ID))
	}
	return nil
}

func listConfiguredRules(cc *CommandContext, r *output.Renderer) error {
	rules, err := cc.LoadRules()
	if err != nil {
		return err
	}

	out := make([]output.RuleOutput, 0, len(rules))
	for _, rule := range rules {
		ro := output.RuleOutput{
			Key:         rule.Key(),
			Check:       string(rule.CheckID()),
			Enabled:     rule.Enabled(),
			Severity:    rule.Severity().String(),
			Description: rule.Description(),
			Status:      ruleStatus(rule),
		}
		if reason := rule.InertReason(); reason != nil {
			ro.Reason = reason.Error()
		}
		out = append(out, ro)
	}

	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(out)
	}

	r.Header(1, "Rules in "+cc.Cfg.RulesFile)
	rows := make([][]string, 0, len(out))
	for _, ro := range out {
		status := ro.Status
		if ro.Reason != "" {
			status += ": " + ro.Reason
		}
		rows = append(rows, []string{ro.Key, ro.Check, ro.Severity, status, ro.Description})
	}
	r.Table([]string{"Rule", "Check", "Level", "Status", "Description"}, rows)
	return nil
}

func ruleStatus(rule lint.Rule) string {
	switch {
	case !rule.Enabled():
		return "disabled"
	case rule.Inert():
		return "inert"
	default:
		return "enabled"
	}
}

func formatParams(params []string) string {
	if len(params) == 0 {
		return "-"
	}
	return strings.Join(params, ", ")
}

func newRulesInitCommand() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write the default rule file",
		Long: `Write the built-in rule file to path (default: the configured rules file).

An existing file is kept unless --force is given.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cc := NewCommandContext(cmd)
			path := cc.Cfg.RulesFile
			if len(args) > 0 {
				path = args[0]
			}
			n, err := writeDefaultRules(path, force)
			if err != nil {
				return err
			}
			cc.Logger.Debug("wrote default rules", "file", path, "rules", n)
			cc.Renderer.Success(fmt.Sprintf("Wrote %d rules to %s", n, path))
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")
	return cmd
}

// writeDefaultRules writes the built-in rule file and returns its rule count.
func writeDefaultRules(path string, force bool) (int, error) {
	rules, err := ruleset.Default()
	if err != nil {
		return 0, err
	}
	if !force {
		if _, err := os.Stat(path); err == nil {
			return 0, fmt.Errorf("%s already exists (use --force to overwrite)", path)
		} else if !errors.Is(err, fs.ErrNotExist) {
			return 0, err
		}
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return 0, fmt.Errorf("failed to create directory: %w", err)
		}
	}
	if err := os.WriteFile(path, ruleset.DefaultYAML(), 0o600); err != nil {
		return 0, fmt.Errorf("failed to write %s: %w", path, err)
	}
	return len(rules), nil
}
