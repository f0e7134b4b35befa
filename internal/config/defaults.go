package config

import "github.com/ariel-frischer/codex-notify/internal/notify"

// GetDefaults returns the default configuration values.
// Both channels are opt-in.
func GetDefaults() map[string]interface{} {
	return map[string]interface{}{
		"feishu.enabled":    false,
		"feishu.webhookUrl": "",
		"feishu.secret":     "",
		"windows.enabled":   false,
		"windows.appId":     notify.DefaultAppID,
	}
}
