// Package config loads the codex-notify channel configuration.
//
// The configuration is a small JSON file (config.json) that normally lives next
// to the executable. Values from CODEX_NOTIFY_* environment variables are
// layered on top of the file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ariel-frischer/codex-notify/internal/notify"
	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// FileName is the configuration file name looked up next to the executable
const FileName = "config.json"

// EnvPrefix is the prefix for environment variable overrides
const EnvPrefix = "CODEX_NOTIFY_"

// ErrNotFound is returned when the configuration file does not exist
var ErrNotFound = errors.New("config file not found")

// Configuration represents the codex-notify channel configuration
type Configuration struct {
	Feishu  notify.FeishuConfig  `koanf:"feishu" json:"feishu"`
	Windows notify.WindowsConfig `koanf:"windows" json:"windows"`
}

// DefaultPath returns config.json in the directory of the running executable.
// Symlinks are resolved so a linked binary still finds its own config.
func DefaultPath() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("failed to locate executable: %w", err)
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Join(filepath.Dir(exe), FileName), nil
}

// Load reads the configuration at path and applies environment overrides.
// A missing file yields an error wrapping ErrNotFound; malformed or empty JSON
// yields a *ValidationError. Field values are not validated here: a bad
// channel setting is that channel's delivery error, so Load leaves it to
// Validate (used by the check command) and to the channel itself.
func Load(path string) (*Configuration, error) {
	if err := ValidateJSONSyntax(path); err != nil {
		return nil, err
	}

	k := koanf.New(".")

	// Apply defaults first
	for key, value := range GetDefaults() {
		k.Set(key, value)
	}

	if err := k.Load(file.Provider(path), json.Parser()); err != nil {
		return nil, fmt.Errorf("failed to load config %s: %w", path, err)
	}

	// Override with environment variables (highest priority)
	if err := k.Load(env.Provider(EnvPrefix, ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment overrides: %w", err)
	}

	var cfg Configuration
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}


	if cfg.Windows.AppID == "" {
		cfg.Windows.AppID = notify.DefaultAppID
	}

	return &cfg, nil
}

// Validate checks field constraints for enabled channels only, so a disabled
// channel may keep a half-filled section in the file.
func Validate(cfg *Configuration, path string) error {
	validate := validator.New()
	if cfg.Feishu.Enabled {
		if err := validate.Struct(cfg.Feishu); err != nil {
			return toValidationError(path, "feishu", err)
		}
	}
	if cfg.Windows.Enabled {
		if err := validate.Struct(cfg.Windows); err != nil {
			return toValidationError(path, "windows", err)
		}
	}
	return nil
}

// envKeys maps lower-cased env suffixes to their case-sensitive koanf keys.
// koanf keys keep the JSON casing (webhookUrl), so a plain lower-casing
// transform would create a second, shadowed key.
var envKeys = map[string]string{
	"feishu_enabled":    "feishu.enabled",
	"feishu_webhookurl": "feishu.webhookUrl",
	"feishu_secret":     "feishu.secret",
	"windows_enabled":   "windows.enabled",
	"windows_appid":     "windows.appId",
}

// envTransform converts environment variable names to config keys.
// Example: CODEX_NOTIFY_FEISHU_WEBHOOKURL -> feishu.webhookUrl
// Unknown variables map to "" and are ignored.
func envTransform(s string) string {
	return envKeys[strings.ToLower(strings.TrimPrefix(s, EnvPrefix))]
}
