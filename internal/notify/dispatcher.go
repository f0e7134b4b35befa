package notify

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// dispatchWorkers is the size of the delivery pool: one worker per channel
const dispatchWorkers = 2

// Skip reasons reported in Result.Reason
const (
	ReasonDisabled      = "disabled"
	ReasonNotConfigured = "not configured"
)

// Result is the outcome of one channel's delivery attempt
type Result struct {
	Channel string
	Skipped bool
	Reason  string
	Err     error
	Elapsed time.Duration
}

// Dispatcher fans a notification out to its channels concurrently.
// Delivery is best-effort: channel failures are logged and never propagated.
type Dispatcher struct {
	channels []Channel
	timeout  time.Duration
	logger   zerolog.Logger
}

// NewDispatcher creates a dispatcher over the given channels with DefaultTimeout.
func NewDispatcher(logger zerolog.Logger, channels ...Channel) *Dispatcher {
	return &Dispatcher{
		channels: channels,
		timeout:  DefaultTimeout,
		logger:   logger.With().Str("component", "dispatcher").Logger(),
	}
}

// SetTimeout changes the per-channel delivery timeout. Non-positive values are ignored.
func (d *Dispatcher) SetTimeout(timeout time.Duration) {
	if timeout > 0 {
		d.timeout = timeout
	}
}

// Channels returns the channels this dispatcher delivers to
func (d *Dispatcher) Channels() []Channel {
	return d.channels
}

// Dispatch submits every channel to a two-worker pool and returns once all
// delivery attempts have finished. Each attempt is bounded by the dispatcher
// timeout, so Dispatch never blocks much longer than that.
//
// Failures are logged, never propagated. The returned results, in channel
// order, are informational; the notify hook ignores them.
//
// Concurrency pattern: errgroup with SetLimit; tasks always return nil so a
// failing channel never cancels the others.
func (d *Dispatcher) Dispatch(ctx context.Context, n Notification) []Result {
	logger := d.logger.With().Str("dispatch_id", uuid.NewString()).Logger()
	results := make([]Result, len(d.channels))

	g := new(errgroup.Group)
	g.SetLimit(dispatchWorkers)

	for i, ch := range d.channels {
		i, ch := i, ch
		if !ch.Enabled() {
			logger.Debug().Str("channel", ch.Name()).Msg("channel disabled, skipping")
			results[i] = Result{Channel: ch.Name(), Skipped: true, Reason: ReasonDisabled}
			continue
		}
		g.Go(func() error {
			results[i] = d.deliver(ctx, logger, ch, n)
			return nil
		})
	}

	_ = g.Wait()
	return results
}

// deliver runs a single channel with its own timeout and contains any failure.
func (d *Dispatcher) deliver(ctx context.Context, logger zerolog.Logger, ch Channel, n Notification) Result {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	start := time.Now()
	err := safeSend(ctx, ch, n)
	res := Result{Channel: ch.Name(), Err: err, Elapsed: time.Since(start)}

	if errors.Is(err, ErrNotConfigured) {
		logger.Debug().Str("channel", ch.Name()).Msg("channel not configured, skipping")
		return Result{Channel: ch.Name(), Skipped: true, Reason: ReasonNotConfigured, Elapsed: res.Elapsed}
	}
	if err != nil {
		logger.Warn().
			Err(err).
			Str("channel", ch.Name()).
			Dur("elapsed", res.Elapsed).
			Msg("notification failed")
		return res
	}
	logger.Debug().
		Str("channel", ch.Name()).
		Dur("elapsed", res.Elapsed).
		Msg("notification sent")
	return res
}

// safeSend converts a panic inside a channel into an error
func safeSend(ctx context.Context, ch Channel, n Notification) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("channel %s panicked: %v", ch.Name(), r)
		}
	}()
	return ch.Send(ctx, n)
}

var (
	_ Channel = (*FeishuChannel)(nil)
	_ Channel = (*ToastChannel)(nil)
)
