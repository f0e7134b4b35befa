// Package notify_test tests Feishu card rendering, signing, and webhook delivery.
// Related: internal/notify/feishu.go
// Tags: notify, feishu, webhook, card
package notify

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

// webhookRecorder captures the requests a fake Feishu endpoint receives
type webhookRecorder struct {
	mu     sync.Mutex
	bodies []map[string]any
}

func (r *webhookRecorder) add(body map[string]any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bodies = append(r.bodies, body)
}

func (r *webhookRecorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.bodies)
}

func (r *webhookRecorder) body(i int) map[string]any {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.bodies[i]
}

// feishuServer records request bodies and answers with the given response.
func feishuServer(t *testing.T, status int, response string) (*httptest.Server, *webhookRecorder) {
	t.Helper()
	rec := &webhookRecorder{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		raw, err := io.ReadAll(r.Body)
		assert.NoError(t, err)
		var body map[string]any
		assert.NoError(t, json.Unmarshal(raw, &body))
		rec.add(body)

		w.WriteHeader(status)
		_, _ = io.WriteString(w, response)
	}))
	t.Cleanup(srv.Close)
	return srv, rec
}

func newTestFeishu(cfg FeishuConfig) *FeishuChannel {
	return NewFeishuChannelWithClient(cfg, zerolog.Nop(), nil, fixedClock)
}

func TestFeishuChannel_Send_Success(t *testing.T) {
	t.Parallel()
	srv, rec := feishuServer(t, http.StatusOK, `{"code":0,"msg":"success"}`)

	ch := newTestFeishu(FeishuConfig{Enabled: true, WebhookURL: srv.URL})
	err := ch.Send(context.Background(), NewNotification("Codex CLI Task Completed", "done", "/tmp"))
	require.NoError(t, err)

	require.Equal(t, 1, rec.count())
	body := rec.body(0)
	assert.Equal(t, "interactive", body["msg_type"])
	assert.NotContains(t, body, "sign")
	assert.NotContains(t, body, "timestamp")

	card := body["card"].(map[string]any)
	header := card["header"].(map[string]any)
	assert.Equal(t, "Codex CLI Task Completed", header["title"].(map[string]any)["content"])
	assert.Equal(t, "blue", header["template"])

	raw, err := json.Marshal(body)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "done")
	assert.Contains(t, string(raw), "/tmp")
}

func TestFeishuChannel_Send_NoOp(t *testing.T) {
	t.Parallel()
	tests := map[string]struct {
		config  FeishuConfig
		wantErr error
	}{
		"disabled": {
			config: FeishuConfig{Enabled: false},
		},
		"missing url": {
			config:  FeishuConfig{Enabled: true, WebhookURL: ""},
			wantErr: ErrNotConfigured,
		},
		"whitespace url": {
			config:  FeishuConfig{Enabled: true, WebhookURL: "   "},
			wantErr: ErrNotConfigured,
		},
		"placeholder url": {
			config:  FeishuConfig{Enabled: true, WebhookURL: "https://open.feishu.cn/open-apis/bot/v2/hook/YOUR_WEBHOOK_ID"},
			wantErr: ErrNotConfigured,
		},
		"relative url": {
			config:  FeishuConfig{Enabled: true, WebhookURL: "not a url"},
			wantErr: ErrInvalidWebhookURL,
		},
		"non-http scheme": {
			config:  FeishuConfig{Enabled: true, WebhookURL: "ftp://example.com/hook"},
			wantErr: ErrInvalidWebhookURL,
		},
	}

	for name, tt := range tests {
		tt := tt
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			srv, rec := feishuServer(t, http.StatusOK, `{"code":0}`)
			cfg := tt.config
			if cfg.WebhookURL == "" && !cfg.Enabled {
				// a reachable URL proves disabled short-circuits before any request
				cfg.WebhookURL = srv.URL
			}

			ch := newTestFeishu(cfg)
			err := ch.Send(context.Background(), NewNotification("t", "s", ""))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, 0, rec.count())
		})
	}
}

func TestFeishuChannel_Send_Errors(t *testing.T) {
	t.Parallel()
	tests := map[string]struct {
		status    int
		response  string
		wantCode  int
		wantError string
	}{
		"error code in body": {
			status:   http.StatusOK,
			response: `{"code":19021,"msg":"sign match fail or timestamp is not within one hour from current time"}`,
			wantCode: 19021,
		},
		"legacy StatusCode field": {
			status:   http.StatusOK,
			response: `{"StatusCode":9499,"StatusMessage":"Bad Request"}`,
			wantCode: 9499,
		},
		"non-json body": {
			status:    http.StatusOK,
			response:  `<html>oops</html>`,
			wantError: "failed to decode feishu response",
		},
		"http error without json": {
			status:    http.StatusBadGateway,
			response:  `bad gateway`,
			wantError: "feishu returned 502",
		},
		"http error with zero code": {
			status:    http.StatusInternalServerError,
			response:  `{"code":0}`,
			wantError: "feishu returned 500",
		},
	}

	for name, tt := range tests {
		tt := tt
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			srv, _ := feishuServer(t, tt.status, tt.response)
			ch := newTestFeishu(FeishuConfig{Enabled: true, WebhookURL: srv.URL})

			err := ch.Send(context.Background(), NewNotification("t", "s", ""))
			require.Error(t, err)

			if tt.wantCode != 0 {
				var fe *FeishuError
				require.True(t, errors.As(err, &fe), "expected *FeishuError, got %T", err)
				assert.Equal(t, tt.wantCode, fe.Code)
				return
			}
			assert.Contains(t, err.Error(), tt.wantError)
		})
	}
}

func TestFeishuChannel_Send_TransportError(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	ch := newTestFeishu(FeishuConfig{Enabled: true, WebhookURL: url})
	err := ch.Send(context.Background(), NewNotification("t", "s", ""))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "feishu request failed")
}

func TestFeishuChannel_Send_RespectsContext(t *testing.T) {
	t.Parallel()
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(func() {
		close(release)
		srv.Close()
	})

	ch := newTestFeishu(FeishuConfig{Enabled: true, WebhookURL: srv.URL})
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	err := ch.Send(ctx, NewNotification("t", "s", ""))
	require.Error(t, err)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestFeishuChannel_BuildMessage_Card(t *testing.T) {
	t.Parallel()
	ch := newTestFeishu(FeishuConfig{Enabled: true, WebhookURL: "https://example.invalid/hook"})

	msg, err := ch.BuildMessage(NewNotification("Title", "summary text", "/work/repo"))
	require.NoError(t, err)

	assert.Equal(t, "interactive", msg.MsgType)
	assert.True(t, msg.Card.Config.WideScreenMode)
	assert.Equal(t, FeishuText{Tag: "plain_text", Content: "Title"}, msg.Card.Header.Title)
	assert.Equal(t, FeishuIcon{Tag: "standard_icon", Token: "done_outlined"}, msg.Card.Header.UDIcon)

	require.Len(t, msg.Card.Elements, 4)
	assert.Equal(t, "div", msg.Card.Elements[0].Tag)
	assert.Equal(t, "lark_md", msg.Card.Elements[0].Text.Tag)
	assert.Equal(t, "📝 **Summary**\nsummary text", msg.Card.Elements[0].Text.Content)
	assert.Equal(t, "📁 **Working Dir**:  `/work/repo`", msg.Card.Elements[1].Text.Content)
	assert.Equal(t, "hr", msg.Card.Elements[2].Tag)
	assert.Equal(t, "note", msg.Card.Elements[3].Tag)
	assert.Equal(t, []FeishuText{{Tag: "plain_text", Content: "🕐 2025-03-14 09:26:53"}}, msg.Card.Elements[3].Elements)
}

func TestFeishuChannel_BuildMessage_NoCwd(t *testing.T) {
	t.Parallel()
	ch := newTestFeishu(FeishuConfig{Enabled: true})

	msg, err := ch.BuildMessage(NewNotification("Title", "summary", ""))
	require.NoError(t, err)

	require.Len(t, msg.Card.Elements, 3)
	assert.Equal(t, "div", msg.Card.Elements[0].Tag)
	assert.Equal(t, "hr", msg.Card.Elements[1].Tag)
	assert.Equal(t, "note", msg.Card.Elements[2].Tag)
}

func TestFeishuChannel_BuildMessage_TruncatesSummary(t *testing.T) {
	t.Parallel()
	ch := newTestFeishu(FeishuConfig{Enabled: true})

	long := strings.Repeat("x", FeishuSummaryLimit+50)
	msg, err := ch.BuildMessage(NewNotification("Title", long, ""))
	require.NoError(t, err)

	want := "📝 **Summary**\n" + strings.Repeat("x", FeishuSummaryLimit) + "..."
	assert.Equal(t, want, msg.Card.Elements[0].Text.Content)
}

func TestFeishuChannel_BuildMessage_Signed(t *testing.T) {
	t.Parallel()
	ch := newTestFeishu(FeishuConfig{Enabled: true, Secret: "s3cret"})

	msg, err := ch.BuildMessage(NewNotification("Title", "summary", ""))
	require.NoError(t, err)

	wantSign, err := feishuSign("1741944413", "s3cret")
	require.NoError(t, err)

	assert.Equal(t, "1741944413", msg.Timestamp)
	assert.Equal(t, wantSign, msg.Sign)
	assert.NotEmpty(t, msg.Sign)
}

func TestFeishuSign_Deterministic(t *testing.T) {
	t.Parallel()
	a, err := feishuSign("1700000000", "key")
	require.NoError(t, err)
	b, err := feishuSign("1700000000", "key")
	require.NoError(t, err)
	c, err := feishuSign("1700000001", "key")
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestFeishuConfig_Configured(t *testing.T) {
	t.Parallel()
	tests := map[string]struct {
		url      string
		expected bool
	}{
		"empty":       {url: "", expected: false},
		"placeholder": {url: "https://open.feishu.cn/open-apis/bot/v2/hook/YOUR_WEBHOOK_ID", expected: false},
		"real":        {url: "https://open.feishu.cn/open-apis/bot/v2/hook/abc123", expected: true},
	}

	for name, tt := range tests {
		tt := tt
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, FeishuConfig{WebhookURL: tt.url}.Configured())
		})
	}
}
