// internal/notify/telegram.go
package notify

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

const maxResponseBytes = 64 << 10

type TelegramConfig struct {
	URL    string // API base, e.g. https://api.telegram.org
	Token  string
	ChatID string
	Prefix string // prepended to every message

	// Timeout bounds one Send including all retries.
	Timeout    time.Duration
	MaxRetries int

	// RetryInitialInterval is the first backoff step. Zero uses the library default.
	RetryInitialInterval time.Duration
}

// Telegram sends messages through the Bot API sendMessage method.
type Telegram struct {
	cfg  TelegramConfig
	http *http.Client
	log  *zap.SugaredLogger
}

type telegramResponse struct {
	OK          bool   `json:"ok"`
	ErrorCode   int    `json:"error_code"`
	Description string `json:"description"`
}

func NewTelegram(cfg TelegramConfig, httpClient *http.Client, log *zap.SugaredLogger) (*Telegram, error) {
	if cfg.Token == "" {
		return nil, errors.New("telegram: token required")
	}
	if cfg.ChatID == "" {
		return nil, errors.New("telegram: chat id required")
	}
	if cfg.URL == "" {
		return nil, errors.New("telegram: url required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	cfg.URL = strings.TrimRight(cfg.URL, "/")

	if httpClient == nil {
		httpClient = &http.Client{}
	}

	return &Telegram{cfg: cfg, http: httpClient, log: log}, nil
}

// Send delivers prefix+message. Errors are logged and swallowed.
// The send is detached from ctx cancellation so a shutdown does not cut a
// notification in half; cfg.Timeout still bounds it.
func (t *Telegram) Send(ctx context.Context, message string) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), t.cfg.Timeout)
	defer cancel()

	text := t.cfg.Prefix + message

	eb := backoff.NewExponentialBackOff()
	if t.cfg.RetryInitialInterval > 0 {
		eb.InitialInterval = t.cfg.RetryInitialInterval
		eb.Reset()
	}
	policy := backoff.WithContext(backoff.WithMaxRetries(eb, uint64(t.cfg.MaxRetries)), ctx)

	attempts := 0
	err := backoff.Retry(func() error {
		attempts++
		return t.deliver(ctx, text)
	}, policy)

	if err != nil {
		t.log.Errorw("telegram delivery failed", "attempts", attempts, "error", err)
		return
	}
	t.log.Infow("telegram message dispatched", "attempts", attempts)
}

// deliver performs one HTTP attempt. Errors wrapped with backoff.Permanent stop retries.
func (t *Telegram) deliver(ctx context.Context, text string) error {
	q := url.Values{}
	q.Set("chat_id", t.cfg.ChatID)
	q.Set("text", text)

	endpoint := t.cfg.URL + "/bot" + t.cfg.Token + "/sendMessage?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return backoff.Permanent(fmt.Errorf("telegram: build request: %w", redact(err)))
	}

	resp, err := t.http.Do(req)
	if err != nil {
		return fmt.Errorf("telegram: request: %w", redact(err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("telegram: read response: %w", err)
	}

	var r telegramResponse
	decodeErr := json.Unmarshal(body, &r)

	switch {
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return fmt.Errorf("telegram: status %d: %s", resp.StatusCode, r.Description)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return backoff.Permanent(fmt.Errorf("telegram: status %d: %s", resp.StatusCode, r.Description))
	case decodeErr != nil:
		return backoff.Permanent(fmt.Errorf("telegram: decode response: %w", decodeErr))
	case !r.OK:
		return backoff.Permanent(fmt.Errorf("telegram: rejected (%d): %s", r.ErrorCode, r.Description))
	}

	return nil
}

// redact drops the request URL (it embeds the bot token) from transport errors.
func redact(err error) error {
	var ue *url.Error
	if errors.As(err, &ue) {
		return fmt.Errorf("%s: %w", ue.Op, ue.Err)
	}
	return err
}
