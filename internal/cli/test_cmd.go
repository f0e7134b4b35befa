package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/ariel-frischer/codex-notify/internal/health"
	"github.com/ariel-frischer/codex-notify/internal/notify"
	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"
)

const (
	// TestTitle is the headline of the sample notification
	TestTitle = "Codex CLI Test Notification"

	// TestSummary is the body of the sample notification
	TestSummary = "If you can read this, codex-notify is configured correctly."
)

func newTestCmd(a *app) *cobra.Command {
	var plain bool

	cmd := &cobra.Command{
		Use:   "test",
		Short: "Send a sample notification through the configured channels",
		Long: `Send a sample notification through every enabled channel and report the
outcome of each delivery. Unlike the hook itself, failures are reported and
make the command exit non-zero.`,
		Example: `  codex-notify test
  codex-notify test --debug --timeout 5s`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}

			cwd, _ := os.Getwd()
			n := notify.NewNotification(TestTitle, TestSummary, cwd)

			stop := a.startSpinner("Sending test notification...")
			results := a.dispatcher(cfg).Dispatch(cmd.Context(), n)
			stop()

			if failed := printResults(cmd.OutOrStdout(), results, health.NewMarks(plain)); failed > 0 {
				return NewExitError(ExitFailure)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&plain, "plain", false, "Plain output without formatting")

	return cmd
}

// startSpinner shows a spinner on stderr when it is interactive and returns
// the function that stops it.
func (a *app) startSpinner(msg string) func() {
	if !a.deps.Interactive() {
		return func() {}
	}
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.Writer = a.deps.Stderr
	if s.Writer == nil {
		s.Writer = os.Stderr
	}
	s.Suffix = " " + msg
	s.Start()
	return s.Stop
}

// printResults writes one line per channel and returns the number of failures
func printResults(w io.Writer, results []notify.Result, m health.Marks) int {
	failed := 0
	for _, r := range results {
		switch {
		case r.Skipped:
			fmt.Fprintf(w, "%s %s: skipped (%s)\n", m.Skipped, r.Channel, r.Reason)
		case r.Err != nil:
			failed++
			fmt.Fprintf(w, "%s %s: %v\n", m.Error, r.Channel, r.Err)
		default:
			fmt.Fprintf(w, "%s %s: sent in %s\n", m.OK, r.Channel, r.Elapsed.Round(time.Millisecond))
		}
	}
	if len(results) == 0 {
		fmt.Fprintf(w, "%s no channels configured\n", m.Warning)
	}
	return failed
}
