package cli

import (
	"fmt"
	"io"

	"github.com/ariel-frischer/codex-notify/internal/config"
	"github.com/ariel-frischer/codex-notify/internal/health"
	"github.com/ariel-frischer/codex-notify/internal/notify"
	"github.com/spf13/cobra"
)

func newCheckCmd(a *app) *cobra.Command {
	var plain bool

	cmd := &cobra.Command{
		Use:     "check",
		Aliases: []string{"ck"},
		Short:   "Validate the configuration and show channel status",
		Long: `Load config.json (plus CODEX_NOTIFY_* environment overrides), validate it,
and report whether each notification channel would deliver.`,
		Example: `  # Check the config next to the executable
  codex-notify check

  # Check a specific file, plain output for scripts
  codex-notify check --config ./config.json --plain`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runCheck(cmd.OutOrStdout(), plain)
		},
	}
	cmd.Flags().BoolVar(&plain, "plain", false, "Plain output without formatting")

	return cmd
}

// runCheck prints config and channel status. Only config errors fail the command.
func (a *app) runCheck(w io.Writer, plain bool) error {
	var report *health.HealthReport

	path, err := a.resolveConfigPath()
	if err != nil {
		report = health.ConfigError(err)
	} else {
		report = health.RunHealthChecks(path, func(cfg *config.Configuration) []notify.Channel {
			return a.deps.Channels(cfg, a.logger)
		})
	}

	fmt.Fprint(w, health.FormatReport(report, health.NewMarks(plain)))
	if !report.Passed {
		return NewExitError(ExitFailure)
	}
	return nil
}
