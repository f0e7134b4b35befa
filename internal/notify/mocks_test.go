// Package notify_test provides mock implementations for channel and runner testing.
// Related: internal/notify/notify.go, internal/notify/runner.go
// Tags: notify, mocks, testing

package notify

import (
	"context"
	"errors"
	"sync"
	"time"
)

// MockChannel is a recording implementation of Channel for dispatcher tests.
// It records all Send calls and allows configuring errors, delays, and panics.
type MockChannel struct {
	mu sync.Mutex

	// Configuration
	name      string
	enabled   bool
	SendError error
	Delay     time.Duration
	Panic     bool

	// Call tracking
	Calls            []Notification
	LastNotification Notification
	DeadlineSeen     bool
}

// NewMockChannel creates an enabled mock channel that succeeds
func NewMockChannel(name string) *MockChannel {
	return &MockChannel{
		name:    name,
		enabled: true,
		Calls:   make([]Notification, 0),
	}
}

// WithEnabled configures whether the channel reports itself enabled
func (m *MockChannel) WithEnabled(enabled bool) *MockChannel {
	m.enabled = enabled
	return m
}

// WithError configures the mock to return an error from Send
func (m *MockChannel) WithError(err error) *MockChannel {
	m.SendError = err
	return m
}

// WithDelay makes Send block for d or until the context is done
func (m *MockChannel) WithDelay(d time.Duration) *MockChannel {
	m.Delay = d
	return m
}

// WithPanic makes Send panic
func (m *MockChannel) WithPanic() *MockChannel {
	m.Panic = true
	return m
}

// Name returns the configured name
func (m *MockChannel) Name() string { return m.name }

// Enabled returns the configured enabled flag
func (m *MockChannel) Enabled() bool { return m.enabled }

// Send records the call and returns the configured error
func (m *MockChannel) Send(ctx context.Context, n Notification) error {
	m.mu.Lock()
	m.Calls = append(m.Calls, n)
	m.LastNotification = n
	_, m.DeadlineSeen = ctx.Deadline()
	delay, sendErr, shouldPanic := m.Delay, m.SendError, m.Panic
	m.mu.Unlock()

	if shouldPanic {
		panic("mock channel panic")
	}

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return sendErr
}

// CallCount returns the number of Send calls
func (m *MockChannel) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

// MockRunner is a recording CommandRunner
type MockRunner struct {
	mu sync.Mutex

	Err      error
	Name     string
	Args     []string
	RunCount int
}

// Run records the invocation and returns the configured error
func (r *MockRunner) Run(_ context.Context, name string, args ...string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Name = name
	r.Args = append([]string(nil), args...)
	r.RunCount++
	return r.Err
}

// Script returns the -Command argument of the last invocation
func (r *MockRunner) Script() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.Args) == 0 {
		return ""
	}
	return r.Args[len(r.Args)-1]
}

// Common test errors
var (
	ErrMockSend = errors.New("mock send error")
	ErrMockRun  = errors.New("mock run error")
)
