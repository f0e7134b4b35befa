package testutil

import (
	"context"
	"strings"
	"sync"
	"time"
)

// CallRecord records a single command invocation with metadata.
type CallRecord struct {
	Name      string
	Args      []string
	Timestamp time.Time
	Error     error
}

// RecordingRunner is a command runner that records invocations instead of
// spawning processes. It satisfies notify.CommandRunner.
type RecordingRunner struct {
	mu    sync.Mutex
	err   error
	delay time.Duration
	calls []CallRecord
}

// NewRecordingRunner creates a runner whose invocations succeed.
func NewRecordingRunner() *RecordingRunner {
	return &RecordingRunner{calls: make([]CallRecord, 0)}
}

// WithError makes every invocation fail with err.
func (r *RecordingRunner) WithError(err error) *RecordingRunner {
	r.err = err
	return r
}

// WithDelay makes every invocation block for d or until the context is done.
func (r *RecordingRunner) WithDelay(d time.Duration) *RecordingRunner {
	r.delay = d
	return r
}

// Run records the invocation and returns the configured error.
func (r *RecordingRunner) Run(ctx context.Context, name string, args ...string) error {
	r.mu.Lock()
	delay, err := r.delay, r.err
	r.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			err = ctx.Err()
		}
	}

	r.mu.Lock()
	r.calls = append(r.calls, CallRecord{
		Name:      name,
		Args:      append([]string(nil), args...),
		Timestamp: time.Now(),
		Error:     err,
	})
	r.mu.Unlock()
	return err
}

// GetCalls returns all recorded calls.
func (r *RecordingRunner) GetCalls() []CallRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]CallRecord(nil), r.calls...)
}

// CallCount returns the number of recorded calls.
func (r *RecordingRunner) CallCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.calls)
}

// LastCommandLine joins the name and args of the most recent call, or "" when none.
func (r *RecordingRunner) LastCommandLine() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.calls) == 0 {
		return ""
	}
	last := r.calls[len(r.calls)-1]
	return strings.Join(append([]string{last.Name}, last.Args...), " ")
}
