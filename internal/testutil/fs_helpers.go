// Package testutil provides test utilities and helpers for codex-notify tests.
package testutil

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

// WriteFile writes content to a file, creating parent directories if needed.
func WriteFile(t *testing.T, path, content string) {
	t.Helper()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("failed to create directory %s: %v", dir, err)
	}

	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write file %s: %v", path, err)
	}
}

// FileExists checks if a file exists.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// ConfigOption mutates the config document written by WriteConfig
type ConfigOption func(doc map[string]map[string]any)

// WithFeishu enables the Feishu channel with the given webhook URL.
func WithFeishu(webhookURL string) ConfigOption {
	return func(doc map[string]map[string]any) {
		doc["feishu"]["enabled"] = true
		doc["feishu"]["webhookUrl"] = webhookURL
	}
}

// WithFeishuSecret sets the signed-bot secret.
func WithFeishuSecret(secret string) ConfigOption {
	return func(doc map[string]map[string]any) {
		doc["feishu"]["secret"] = secret
	}
}

// WithWindows enables the Windows toast channel with the given app id.
func WithWindows(appID string) ConfigOption {
	return func(doc map[string]map[string]any) {
		doc["windows"]["enabled"] = true
		doc["windows"]["appId"] = appID
	}
}

// WriteConfig writes a config.json into a fresh temp directory and returns its path.
// Without options both channels are disabled.
func WriteConfig(t *testing.T, opts ...ConfigOption) string {
	t.Helper()

	doc := map[string]map[string]any{
		"feishu":  {"enabled": false, "webhookUrl": "", "secret": ""},
		"windows": {"enabled": false, "appId": "Codex CLI"},
	}
	for _, opt := range opts {
		opt(doc)
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		t.Fatalf("failed to marshal config: %v", err)
	}

	path := filepath.Join(t.TempDir(), "config.json")
	WriteFile(t, path, string(data))
	return path
}
