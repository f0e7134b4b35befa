package notify

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// PlaceholderWebhookID marks the webhook URL shipped in the sample config.
// A URL still containing it has not been configured by the user.
const PlaceholderWebhookID = "YOUR_WEBHOOK_ID"

// DefaultAppID is the AppUserModelID the toast is attributed to
const DefaultAppID = "Codex CLI"

// FeishuConfig holds settings for the Feishu custom-bot webhook channel.
type FeishuConfig struct {
	// Enabled turns the channel on (default: false)
	Enabled bool `koanf:"enabled" json:"enabled"`

	// WebhookURL is the bot webhook, e.g. https://open.feishu.cn/open-apis/bot/v2/hook/<id>
	WebhookURL string `koanf:"webhookUrl" json:"webhookUrl" validate:"omitempty,url,startswith=http"`

	// Secret enables Feishu's signature verification when set
	Secret string `koanf:"secret" json:"secret,omitempty"`
}

// Configured reports whether the webhook URL is present and not the placeholder
func (c FeishuConfig) Configured() bool {
	url := strings.TrimSpace(c.WebhookURL)
	return url != "" && !strings.Contains(url, PlaceholderWebhookID)
}

// ErrInvalidWebhookURL is returned when the configured webhook is not an http(s) URL
var ErrInvalidWebhookURL = errors.New("invalid webhook URL")

var configValidator = validator.New()

// ValidateWebhook checks WebhookURL against its struct tag rules
func (c FeishuConfig) ValidateWebhook() error {
	if err := configValidator.Struct(c); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidWebhookURL, c.WebhookURL)
	}
	return nil
}

// WindowsConfig holds settings for the Windows toast channel.
type WindowsConfig struct {
	// Enabled turns the channel on (default: false)
	Enabled bool `koanf:"enabled" json:"enabled"`

	// AppID is shown as the toast source (default: "Codex CLI")
	AppID string `koanf:"appId" json:"appId,omitempty"`
}
