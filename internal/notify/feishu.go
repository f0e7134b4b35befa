package notify

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"
)

// feishuTimestampLayout renders the card footer timestamp (local time)
const feishuTimestampLayout = "2006-01-02 15:04:05"

// FeishuError is a non-zero result code reported by the Feishu bot API.
// The webhook answers HTTP 200 even for rejected messages, so the code in the
// body is the only reliable failure signal.
type FeishuError struct {
	Code    int
	Message string
}

func (e *FeishuError) Error() string {
	return fmt.Sprintf("feishu error %d: %s", e.Code, e.Message)
}

// feishuResponse covers both response shapes the bot endpoint uses
type feishuResponse struct {
	Code          int    `json:"code"`
	Msg           string `json:"msg"`
	StatusCode    int    `json:"StatusCode"`
	StatusMessage string `json:"StatusMessage"`
}

func (r feishuResponse) err() error {
	if r.Code != 0 {
		return &FeishuError{Code: r.Code, Message: r.Msg}
	}
	if r.StatusCode != 0 {
		return &FeishuError{Code: r.StatusCode, Message: r.StatusMessage}
	}
	return nil
}

// FeishuMessage is the webhook request body for an interactive card
type FeishuMessage struct {
	Timestamp string     `json:"timestamp,omitempty"`
	Sign      string     `json:"sign,omitempty"`
	MsgType   string     `json:"msg_type"`
	Card      FeishuCard `json:"card"`
}

// FeishuCard is the interactive message card
type FeishuCard struct {
	Config   FeishuCardConfig `json:"config"`
	Header   FeishuHeader     `json:"header"`
	Elements []FeishuElement  `json:"elements"`
}

// FeishuCardConfig holds card-level display options
type FeishuCardConfig struct {
	WideScreenMode bool `json:"wide_screen_mode"`
}

// FeishuHeader is the colored card header
type FeishuHeader struct {
	Title    FeishuText `json:"title"`
	Template string     `json:"template"`
	UDIcon   FeishuIcon `json:"ud_icon"`
}

// FeishuIcon references one of Feishu's standard icons
type FeishuIcon struct {
	Tag   string `json:"tag"`
	Token string `json:"token"`
}

// FeishuText is a text object (plain_text or lark_md)
type FeishuText struct {
	Tag     string `json:"tag"`
	Content string `json:"content"`
}

// FeishuElement is a card body element (div, hr, note)
type FeishuElement struct {
	Tag      string       `json:"tag"`
	Text     *FeishuText  `json:"text,omitempty"`
	Elements []FeishuText `json:"elements,omitempty"`
}

// FeishuChannel posts interactive cards to a Feishu custom-bot webhook.
type FeishuChannel struct {
	config FeishuConfig
	client *http.Client
	logger zerolog.Logger
	now    func() time.Time
}

// NewFeishuChannel creates a Feishu channel. Requests are bounded by the
// caller's context deadline, or DefaultTimeout when there is none.
func NewFeishuChannel(config FeishuConfig, logger zerolog.Logger) *FeishuChannel {
	return &FeishuChannel{
		config: config,
		client: &http.Client{},
		logger: logger.With().Str("component", "feishu").Logger(),
		now:    time.Now,
	}
}

// NewFeishuChannelWithClient creates a channel with a custom HTTP client and clock (for testing).
func NewFeishuChannelWithClient(config FeishuConfig, logger zerolog.Logger, client *http.Client, now func() time.Time) *FeishuChannel {
	c := NewFeishuChannel(config, logger)
	if client != nil {
		c.client = client
	}
	if now != nil {
		c.now = now
	}
	return c
}

// Name returns the channel name
func (c *FeishuChannel) Name() string {
	return "feishu"
}

// Enabled reports whether the channel is switched on in config
func (c *FeishuChannel) Enabled() bool {
	return c.config.Enabled
}

// Configured reports whether a real webhook URL is set
func (c *FeishuChannel) Configured() bool {
	return c.config.Configured()
}

// Send posts n as an interactive card.
// It is a no-op when the channel is disabled, and returns ErrNotConfigured
// without a request when the webhook URL is missing or still the placeholder.
// A malformed URL yields ErrInvalidWebhookURL. A non-zero code in the
// response body is returned as a *FeishuError.
func (c *FeishuChannel) Send(ctx context.Context, n Notification) error {
	if !c.config.Enabled {
		return nil
	}
	if !c.config.Configured() {
		c.logger.Warn().Msg("Feishu webhook URL not configured")
		return ErrNotConfigured
	}
	if err := c.config.ValidateWebhook(); err != nil {
		return err
	}

	msg, err := c.BuildMessage(n)
	if err != nil {
		return err
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal feishu card: %w", err)
	}

	ctx, cancel := withDefaultTimeout(ctx)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.WebhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	c.logger.Debug().Int("bytes", len(body)).Msg("sending card")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("feishu request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read feishu response: %w", err)
	}

	var result feishuResponse
	if err := json.Unmarshal(raw, &result); err != nil {
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return fmt.Errorf("feishu returned %d: %s", resp.StatusCode, string(raw))
		}
		return fmt.Errorf("failed to decode feishu response: %w", err)
	}
	if err := result.err(); err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("feishu returned %d: %s", resp.StatusCode, string(raw))
	}

	c.logger.Debug().Msg("card delivered")
	return nil
}

// BuildMessage renders the webhook body for n, signing it when a secret is configured.
func (c *FeishuChannel) BuildMessage(n Notification) (FeishuMessage, error) {
	now := c.now()
	msg := FeishuMessage{
		MsgType: "interactive",
		Card:    buildCard(n, now),
	}

	if c.config.Secret != "" {
		ts := strconv.FormatInt(now.Unix(), 10)
		sign, err := feishuSign(ts, c.config.Secret)
		if err != nil {
			return FeishuMessage{}, err
		}
		msg.Timestamp = ts
		msg.Sign = sign
	}
	return msg, nil
}

func buildCard(n Notification, now time.Time) FeishuCard {
	elements := []FeishuElement{
		{
			Tag: "div",
			Text: &FeishuText{
				Tag:     "lark_md",
				Content: "📝 **Summary**\n" + Truncate(n.Summary, FeishuSummaryLimit),
			},
		},
	}

	if n.Cwd != "" {
		elements = append(elements, FeishuElement{
			Tag: "div",
			Text: &FeishuText{
				Tag:     "lark_md",
				Content: fmt.Sprintf("📁 **Working Dir**:  `%s`", n.Cwd),
			},
		})
	}

	elements = append(elements,
		FeishuElement{Tag: "hr"},
		FeishuElement{
			Tag: "note",
			Elements: []FeishuText{
				{Tag: "plain_text", Content: "🕐 " + now.Format(feishuTimestampLayout)},
			},
		},
	)

	return FeishuCard{
		Config: FeishuCardConfig{WideScreenMode: true},
		Header: FeishuHeader{
			Title:    FeishuText{Tag: "plain_text", Content: n.Title},
			Template: "blue",
			UDIcon:   FeishuIcon{Tag: "standard_icon", Token: "done_outlined"},
		},
		Elements: elements,
	}
}

// feishuSign computes the signed-bot signature: the HMAC key is
// "<timestamp>\n<secret>" and the message is empty.
func feishuSign(timestamp, secret string) (string, error) {
	mac := hmac.New(sha256.New, []byte(timestamp+"\n"+secret))
	if _, err := mac.Write(nil); err != nil {
		return "", fmt.Errorf("failed to sign feishu request: %w", err)
	}
	return base64.StdEncoding.EncodeToString(mac.Sum(nil)), nil
}
