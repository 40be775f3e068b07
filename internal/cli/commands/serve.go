package commands

import (
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leaplint/internal/server"
)

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the linter over HTTP",
		Long: `Start an HTTP server that lints uploaded SQL files.

Endpoints:
  POST /api/check     multipart upload in field "sql_file"; returns the issues
  GET  /reports/{id}  the HTML report of a check
  GET  /api/rules     the check catalog
  GET  /api/runs      recent runs (requires history)
  GET  /healthz       liveness

The rule file is re-read on every check.`,
		Example: `  # Listen on :8080 and write reports to ./reports
  leaplint serve

  # Custom address and reports directory, recording history
  leaplint serve --addr 127.0.0.1:9000 --reports-dir /var/lib/leaplint --history`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cc := NewCommandContext(cmd)

			store, err := cc.OpenHistory(cmd.Context())
			if err != nil {
				return err
			}

			srvCfg := server.Config{
				Addr:       cc.Cfg.Serve.Addr,
				ReportsDir: cc.Cfg.Serve.ReportsDir,
				RulesFile:  cc.Cfg.RulesFile,
				Logger:     cc.Logger,
			}
			if store != nil {
				defer func() { _ = store.Close() }()
				srvCfg.History = store
			}

			srv, err := server.New(srvCfg)
			if err != nil {
				return err
			}
			cc.Renderer.Muted("Listening on " + cc.Cfg.Serve.Addr)
			return srv.Serve(cmd.Context())
		},
	}
	cmd.Flags().String("addr", "", "Listen address (default :8080)")
	cmd.Flags().String("reports-dir", "", "Directory for generated reports (default reports)")
	return cmd
}
