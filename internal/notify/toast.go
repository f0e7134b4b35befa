package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

// powershellExe is the interpreter the toast script runs under
const powershellExe = "powershell.exe"

// toastScript loads the WinRT notification types and shows a ToastText02
// toast. Verbs: %[1]s title and %[2]s content (XML-escaped), %[3]s app id
// (PowerShell-string-escaped).
const toastScript = `
[Windows.UI.Notifications.ToastNotificationManager, Windows.UI.Notifications, ContentType = WindowsRuntime] | Out-Null
[Windows.Data.Xml.Dom.XmlDocument, Windows.Data.Xml.Dom.XmlDocument, ContentType = WindowsRuntime] | Out-Null

$template = @"
<toast duration="short">
  <visual>
    <binding template="ToastText02">
      <text id="1">%[1]s</text>
      <text id="2">%[2]s</text>
    </binding>
  </visual>
  <audio silent="true"/>
</toast>
"@

$xml = New-Object Windows.Data.Xml.Dom.XmlDocument
$xml.LoadXml($template)
$toast = [Windows.UI.Notifications.ToastNotification]::new($xml)
$notifier = [Windows.UI.Notifications.ToastNotificationManager]::CreateToastNotifier("%[3]s")
$notifier.Show($toast)
`

// toastEscaper makes text safe inside the expandable XML here-string.
// XML metacharacters become entities, line breaks are flattened because toast
// text is single-line, and backtick/dollar are backtick-escaped so PowerShell
// never expands variables or subexpressions from the message.
var toastEscaper = strings.NewReplacer(
	"`", "``",
	"$", "`$",
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
	"\n", " ",
	"\r", "",
)

// powershellStringEscaper makes text safe inside a double-quoted PowerShell string
var powershellStringEscaper = strings.NewReplacer(
	"`", "``",
	"$", "`$",
	`"`, "`\"",
	"\n", " ",
	"\r", "",
)

// EscapePowerShellString escapes s for a double-quoted PowerShell string literal.
func EscapePowerShellString(s string) string {
	return powershellStringEscaper.Replace(s)
}

// EscapeToastText escapes s for embedding in the toast XML template.
func EscapeToastText(s string) string {
	return toastEscaper.Replace(s)
}

// ToastChannel shows a Windows toast notification through PowerShell.
// On any other platform it is a no-op.
type ToastChannel struct {
	config    WindowsConfig
	runner    CommandRunner
	supported bool
	logger    zerolog.Logger
}

// NewToastChannel creates a toast channel for the current platform.
func NewToastChannel(config WindowsConfig, logger zerolog.Logger) *ToastChannel {
	return &ToastChannel{
		config:    config,
		runner:    ExecRunner{},
		supported: toastSupported,
		logger:    logger.With().Str("component", "windows").Logger(),
	}
}

// NewToastChannelWithRunner creates a toast channel with a custom runner and
// platform support flag (for testing).
func NewToastChannelWithRunner(config WindowsConfig, logger zerolog.Logger, runner CommandRunner, supported bool) *ToastChannel {
	c := NewToastChannel(config, logger)
	c.runner = runner
	c.supported = supported
	return c
}

// Name returns the channel name
func (c *ToastChannel) Name() string {
	return "windows"
}

// Enabled reports whether the channel is switched on and the platform can show toasts
func (c *ToastChannel) Enabled() bool {
	return c.config.Enabled && c.supported
}

// Supported reports whether toasts can be shown on this platform
func (c *ToastChannel) Supported() bool {
	return c.supported
}

// InterpreterAvailable reports whether powershell.exe is on PATH
func (c *ToastChannel) InterpreterAvailable() bool {
	return c.supported && toolAvailable(powershellExe)
}

// Send shows n.Title and n.Summary as a toast.
func (c *ToastChannel) Send(ctx context.Context, n Notification) error {
	if !c.Enabled() {
		return nil
	}

	ctx, cancel := withDefaultTimeout(ctx)
	defer cancel()

	script := c.Script(n)
	c.logger.Debug().Int("bytes", len(script)).Msg("running toast script")

	if err := c.runner.Run(ctx, powershellExe, "-NoProfile", "-NonInteractive", "-Command", script); err != nil {
		return fmt.Errorf("toast script failed: %w", err)
	}
	return nil
}

// Script renders the PowerShell script that displays n.
func (c *ToastChannel) Script(n Notification) string {
	appID := c.config.AppID
	if appID == "" {
		appID = DefaultAppID
	}
	return fmt.Sprintf(toastScript,
		EscapeToastText(Truncate(n.Title, ToastTitleLimit)),
		EscapeToastText(Truncate(n.Summary, ToastContentLimit)),
		EscapePowerShellString(appID),
	)
}
