package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leaplint/internal/cli/config"
	"github.com/leapstack-labs/leaplint/internal/cli/output"
	"github.com/leapstack-labs/leaplint/internal/engine"
	"github.com/leapstack-labs/leaplint/internal/ruleset"
	"github.com/leapstack-labs/leaplint/internal/state"
	"github.com/leapstack-labs/leaplint/pkg/lint"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
}

// NewCommandContext builds a CommandContext from the config and logger
// stored in the command context by the root command.
func NewCommandContext(cmd *cobra.Command) *CommandContext {
	cfg := config.FromContext(cmd.Context())
	return &CommandContext{
		Cfg:      cfg,
		Logger:   config.GetLogger(cmd.Context()),
		Renderer: output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), cfg.OutputMode()),
	}
}

// LoadRules reads the configured rule file.
func (c *CommandContext) LoadRules() (lint.RuleSet, error) {
	rules, err := ruleset.Load(c.Cfg.RulesFile)
	if err != nil {
		return nil, err
	}
	c.Logger.Debug("loaded rules", "file", c.Cfg.RulesFile, "rules", len(rules))
	return rules, nil
}

// OpenHistory opens the run history store. It returns nil when history is
// disabled; the caller closes a non-nil store.
func (c *CommandContext) OpenHistory(ctx context.Context) (*state.SQLiteStore, error) {
	if !c.Cfg.History.Enabled {
		return nil, nil
	}
	store, err := state.OpenSQLiteStore(ctx, c.Cfg.History.Path, c.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open run history: %w", err)
	}
	return store, nil
}

// NewEngine creates an engine that records runs into store when it is non-nil.
func (c *CommandContext) NewEngine(store *state.SQLiteStore) *engine.Engine {
	cfg := engine.Config{Logger: c.Logger}
	if store != nil {
		cfg.Recorder = store
	}
	return engine.New(cfg)
}
