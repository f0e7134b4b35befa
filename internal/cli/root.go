// codex-notify - Codex CLI notification hook

// Package cli provides the Cobra-based command line for codex-notify.
// The root command is the Codex notify hook itself: it takes the event JSON as
// its only argument. Subcommands cover configuration checks, a test
// notification, and version output.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/ariel-frischer/codex-notify/internal/config"
	"github.com/ariel-frischer/codex-notify/internal/event"
	"github.com/ariel-frischer/codex-notify/internal/logging"
	"github.com/ariel-frischer/codex-notify/internal/notify"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// TaskCompletedTitle is the headline of every turn-complete notification
const TaskCompletedTitle = "Codex CLI Task Completed"

// errNoArgument is reported when Codex (or a user) runs the hook without a payload
var errNoArgument = errors.New("no JSON argument provided")

// ChannelFactory builds the channels a dispatch fans out to.
type ChannelFactory func(cfg *config.Configuration, logger zerolog.Logger) []notify.Channel

// Deps holds the process-wide inputs of the CLI so tests can substitute them.
type Deps struct {
	// ConfigPath resolves the default config location (default: config.DefaultPath)
	ConfigPath func() (string, error)

	// Channels builds the notification channels (default: DefaultChannels)
	Channels ChannelFactory

	// Stderr receives log output (default: the command's error stream)
	Stderr io.Writer

	// Interactive reports whether progress may be drawn on stderr (default: logging.IsTerminal)
	Interactive func() bool
}

// DefaultChannels builds the Feishu webhook and Windows toast channels from cfg.
func DefaultChannels(cfg *config.Configuration, logger zerolog.Logger) []notify.Channel {
	return []notify.Channel{
		notify.NewFeishuChannel(cfg.Feishu, logger),
		notify.NewToastChannel(cfg.Windows, logger),
	}
}

func (d *Deps) withDefaults() *Deps {
	out := Deps{}
	if d != nil {
		out = *d
	}
	if out.ConfigPath == nil {
		out.ConfigPath = config.DefaultPath
	}
	if out.Channels == nil {
		out.Channels = DefaultChannels
	}
	if out.Interactive == nil {
		out.Interactive = logging.IsTerminal
	}
	return &out
}

// app carries parsed global flags and dependencies for one invocation
type app struct {
	deps       *Deps
	configPath string
	debug      bool
	timeout    time.Duration
	logger     zerolog.Logger
}

// NewRootCmd builds the command tree. A nil deps uses the real environment.
func NewRootCmd(deps *Deps) *cobra.Command {
	a := &app{deps: deps.withDefaults(), logger: zerolog.Nop()}

	rootCmd := &cobra.Command{
		Use:   "codex-notify [flags] <event-json>",
		Short: "Forward Codex CLI turn-complete events to Feishu and Windows toasts",
		Long: `codex-notify is a Codex CLI notify hook.

Codex runs it with one JSON argument after each agent turn. For
"agent-turn-complete" events it sends a Feishu card and a Windows toast in
parallel; every other event type is ignored.

Channels are configured in config.json next to the executable.`,
		Example: `  # ~/.codex/config.toml
  notify = ["/path/to/codex-notify"]

  # Simulate a finished turn
  codex-notify '{"type":"agent-turn-complete","last-assistant-message":"done","cwd":"/tmp"}'

  # Validate the configuration
  codex-notify check`,
		Args:          a.exactlyOneEvent,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			a.logger = a.newLogger(cmd)
		},
		RunE: a.runNotify,
	}
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	// Global flags
	rootCmd.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "Path to config file (default: config.json next to the executable)")
	rootCmd.PersistentFlags().BoolVarP(&a.debug, "debug", "d", false, "Enable debug logging")
	rootCmd.PersistentFlags().DurationVar(&a.timeout, "timeout", notify.DefaultTimeout, "Per-channel delivery timeout")

	rootCmd.AddCommand(
		newCheckCmd(a),
		newTestCmd(a),
		newVersionCmd(),
	)

	return rootCmd
}

// Execute runs the root command against the real environment and returns
// the process exit code.
func Execute(args []string, stdout, stderr io.Writer) int {
	return Run(context.Background(), args, stdout, stderr, nil)
}

// Run executes the command line with the given dependencies and returns the
// process exit code. Fatal errors are logged to stderr.
func Run(ctx context.Context, args []string, stdout, stderr io.Writer, deps *Deps) int {
	if deps == nil {
		deps = &Deps{}
	}
	if deps.Stderr == nil {
		deps.Stderr = stderr
	}

	if args == nil {
		// cobra falls back to os.Args for a nil slice
		args = []string{}
	}

	cmd := NewRootCmd(deps)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.ExecuteContext(ctx)
	if err != nil && !isReported(err) {
		debug, _ := cmd.PersistentFlags().GetBool("debug")
		logger := logging.New(deps.Stderr, logging.Options{Debug: debug})
		logger.Error().Msg(err.Error())
	}
	return ExitCode(err)
}

// exactlyOneEvent validates the positional event argument
func (a *app) exactlyOneEvent(_ *cobra.Command, args []string) error {
	switch len(args) {
	case 0:
		return errNoArgument
	case 1:
		return nil
	default:
		return fmt.Errorf("expected exactly one JSON argument, got %d", len(args))
	}
}

func (a *app) newLogger(cmd *cobra.Command) zerolog.Logger {
	w := a.deps.Stderr
	if w == nil {
		w = cmd.ErrOrStderr()
	}
	return logging.New(w, logging.Options{Debug: a.debug})
}

// runNotify is the hook entry point: parse, filter, load config, dispatch.
func (a *app) runNotify(cmd *cobra.Command, args []string) error {
	ev, err := event.Parse(args[0])
	if err != nil {
		return err
	}

	if !ev.IsTurnComplete() {
		a.logger.Debug().Str("type", ev.Type).Msg("ignoring event")
		return nil
	}

	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}

	n := notify.NewNotification(TaskCompletedTitle, ev.Summary(), ev.Cwd)
	a.logger.Debug().
		Str("thread_id", ev.ThreadID).
		Str("turn_id", ev.TurnID).
		Str("cwd", ev.Cwd).
		Msg("dispatching turn-complete notification")

	a.dispatcher(cfg).Dispatch(cmd.Context(), n)
	return nil
}

// resolveConfigPath returns --config or the executable-relative default
func (a *app) resolveConfigPath() (string, error) {
	if a.configPath != "" {
		return a.configPath, nil
	}
	return a.deps.ConfigPath()
}

func (a *app) loadConfig() (*config.Configuration, error) {
	path, err := a.resolveConfigPath()
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(path)
	if err != nil {
		if errors.Is(err, config.ErrNotFound) {
			return nil, fmt.Errorf("config file not found: %s", path)
		}
		return nil, err
	}
	return cfg, nil
}

func (a *app) dispatcher(cfg *config.Configuration) *notify.Dispatcher {
	d := notify.NewDispatcher(a.logger, a.deps.Channels(cfg, a.logger)...)
	d.SetTimeout(a.timeout)
	return d
}
