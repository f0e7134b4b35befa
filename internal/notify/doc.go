// Package notify delivers Codex CLI completion notifications to external channels.
//
// Two channels are supported: a Feishu (Lark) custom-bot webhook that receives an
// interactive card, and a Windows toast shown through PowerShell. Both are
// best-effort: a channel that is disabled, unconfigured, or unsupported on the
// current platform silently does nothing, and delivery failures are logged and
// swallowed so one channel can never affect the other or the process exit code.
//
// # Channels
//
//   - Feishu: HTTP POST of an interactive card, optional signed-bot secret
//   - Windows: powershell.exe with a ToastText02 template (no-op off Windows)
//
// # Dispatch
//
// The Dispatcher fans a Notification out to all channels on a two-worker pool.
// Each channel bounds its own delivery with a timeout (10s by default), so a
// hanging webhook never delays the toast and vice versa.
//
// # Usage
//
//	d := notify.NewDispatcher(logger,
//		notify.NewFeishuChannel(cfg.Feishu, logger),
//		notify.NewToastChannel(cfg.Windows, logger),
//	)
//	d.Dispatch(ctx, notify.NewNotification(title, summary, cwd))
package notify
