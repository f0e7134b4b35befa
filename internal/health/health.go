// Package health runs the configuration and channel checks behind
// `codex-notify check`.
package health

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ariel-frischer/codex-notify/internal/config"
	"github.com/ariel-frischer/codex-notify/internal/notify"
	"github.com/fatih/color"
)

// Status is the outcome of a single check
type Status int

const (
	// StatusOK means the check passed
	StatusOK Status = iota
	// StatusSkipped means the channel will not run (disabled or unsupported)
	StatusSkipped
	// StatusWarning means the channel is enabled but will not deliver
	StatusWarning
	// StatusError means the check failed and the hook cannot run
	StatusError
)

// CheckResult represents the result of a single health check
type CheckResult struct {
	Name    string
	Status  Status
	Message string
}

// Passed reports whether the result does not block the hook
func (r CheckResult) Passed() bool {
	return r.Status != StatusError
}

// HealthReport contains all health check results
type HealthReport struct {
	Checks []CheckResult
	Passed bool
}

func (r *HealthReport) add(c CheckResult) {
	r.Checks = append(r.Checks, c)
	if !c.Passed() {
		r.Passed = false
	}
}

// ChannelFactory builds the channels to check from a loaded configuration
type ChannelFactory func(cfg *config.Configuration) []notify.Channel

// configuredReporter is implemented by channels that need credentials
type configuredReporter interface {
	Configured() bool
}

// platformReporter is implemented by channels tied to an OS facility
type platformReporter interface {
	Supported() bool
	InterpreterAvailable() bool
}

// RunHealthChecks loads the config at path and checks every channel built
// from it. Channel problems are warnings; only a config failure fails the report.
func RunHealthChecks(path string, channels ChannelFactory) *HealthReport {
	report := &HealthReport{
		Checks: make([]CheckResult, 0),
		Passed: true,
	}

	result, cfg := CheckConfig(path)
	report.add(result)
	if cfg == nil {
		return report
	}

	for _, ch := range channels(cfg) {
		report.add(CheckChannel(ch))
	}
	return report
}

// ConfigError returns a failed report for a config path that could not be resolved
func ConfigError(err error) *HealthReport {
	return &HealthReport{
		Checks: []CheckResult{{Name: "config", Status: StatusError, Message: err.Error()}},
		Passed: false,
	}
}

// CheckConfig loads the config file and validates the settings of enabled
// channels. The configuration is nil when the check fails.
func CheckConfig(path string) (CheckResult, *config.Configuration) {
	cfg, err := config.Load(path)
	if err == nil {
		err = config.Validate(cfg, path)
	}
	if err != nil {
		msg := err.Error()
		if errors.Is(err, config.ErrNotFound) {
			msg = "file not found: " + path
		}
		return CheckResult{Name: "config", Status: StatusError, Message: msg}, nil
	}
	return CheckResult{Name: "config", Status: StatusOK, Message: path}, cfg
}

// CheckChannel reports whether ch would deliver a notification
func CheckChannel(ch notify.Channel) CheckResult {
	result := CheckResult{Name: ch.Name()}

	p, platformBound := ch.(platformReporter)
	switch {
	case platformBound && !p.Supported():
		result.Status, result.Message = StatusSkipped, "not supported on this platform"
	case !ch.Enabled():
		result.Status, result.Message = StatusSkipped, "disabled"
	case isUnconfigured(ch):
		result.Status, result.Message = StatusWarning, "enabled but webhook URL not configured"
	case platformBound && !p.InterpreterAvailable():
		result.Status, result.Message = StatusWarning, "enabled but powershell.exe not found on PATH"
	default:
		result.Status, result.Message = StatusOK, "ready"
	}
	return result
}

func isUnconfigured(ch notify.Channel) bool {
	c, ok := ch.(configuredReporter)
	return ok && !c.Configured()
}

// Marks are the status prefixes printed in front of each result
type Marks struct {
	OK, Error, Warning, Skipped string
}

// NewMarks returns colored symbols, or plain words for scripts
func NewMarks(plain bool) Marks {
	if plain {
		return Marks{OK: "ok", Error: "error", Warning: "warn", Skipped: "skip"}
	}
	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	dim := color.New(color.Faint).SprintFunc()
	return Marks{
		OK:      green("✓"),
		Error:   red("✗"),
		Warning: yellow("⚠"),
		Skipped: dim("-"),
	}
}

// For returns the mark for s
func (m Marks) For(s Status) string {
	switch s {
	case StatusOK:
		return m.OK
	case StatusSkipped:
		return m.Skipped
	case StatusWarning:
		return m.Warning
	default:
		return m.Error
	}
}

// FormatReport formats the health report for console output
func FormatReport(report *HealthReport, marks Marks) string {
	var b strings.Builder
	for _, check := range report.Checks {
		fmt.Fprintf(&b, "%s %s: %s\n", marks.For(check.Status), check.Name, check.Message)
	}
	return b.String()
}
