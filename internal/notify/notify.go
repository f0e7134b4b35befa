package notify

import (
	"context"
	"errors"
	"time"
)

// DefaultTimeout bounds a single delivery attempt on any channel.
const DefaultTimeout = 10 * time.Second

// Display limits, in runes.
const (
	// FeishuSummaryLimit caps the summary block of the Feishu card
	FeishuSummaryLimit = 500
	// ToastTitleLimit caps the first toast line
	ToastTitleLimit = 100
	// ToastContentLimit caps the second toast line
	ToastContentLimit = 200
)

// ErrNotConfigured is returned by Send when a channel is enabled but lacks the
// settings it needs to deliver. The dispatcher reports it as a skip.
var ErrNotConfigured = errors.New("not configured")

// Channel is a single notification target.
type Channel interface {
	// Name identifies the channel in logs (e.g., "feishu", "windows")
	Name() string

	// Enabled reports whether Send would attempt a delivery at all
	Enabled() bool

	// Send delivers n. Implementations must honor ctx, return nil without
	// side effects when the channel is not enabled, and return
	// ErrNotConfigured when it is enabled but unconfigured.
	Send(ctx context.Context, n Notification) error
}

// Notification is a single message to deliver across channels
type Notification struct {
	// Title is the headline (e.g., "Codex CLI Task Completed")
	Title string

	// Summary is the body text, usually the last assistant message
	Summary string

	// Cwd is the agent's working directory; empty when unknown
	Cwd string
}

// NewNotification creates a new Notification with the given parameters
func NewNotification(title, summary, cwd string) Notification {
	return Notification{
		Title:   title,
		Summary: summary,
		Cwd:     cwd,
	}
}

// withDefaultTimeout bounds ctx by DefaultTimeout unless it already has a deadline
func withDefaultTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, DefaultTimeout)
}
