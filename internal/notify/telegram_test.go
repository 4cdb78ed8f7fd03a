// internal/notify/telegram_test.go
package notify

import (
	"context"
	"net/http"
	"regexp"
	"testing"
	"time"

	"github.com/h2non/gock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

const (
	testURL   = "https://api.telegram.org"
	testToken = "123:abc"
	testPath  = "/bot123:abc/sendMessage"
)

func newTestTelegram(t *testing.T, retries int) (*Telegram, *observer.ObservedLogs) {
	t.Helper()

	core, logs := observer.New(zapcore.DebugLevel)
	client := &http.Client{}
	gock.InterceptClient(client)

	tg, err := NewTelegram(TelegramConfig{
		URL:                  testURL + "/",
		Token:                testToken,
		ChatID:               "42",
		Prefix:               "[depth] ",
		Timeout:              2 * time.Second,
		MaxRetries:           retries,
		RetryInitialInterval: time.Millisecond,
	}, client, zap.New(core).Sugar())
	require.NoError(t, err)

	return tg, logs
}

func TestNewTelegram_Validation(t *testing.T) {
	log := zap.NewNop().Sugar()

	_, err := NewTelegram(TelegramConfig{URL: testURL, ChatID: "1"}, nil, log)
	assert.Error(t, err)

	_, err = NewTelegram(TelegramConfig{URL: testURL, Token: testToken}, nil, log)
	assert.Error(t, err)

	_, err = NewTelegram(TelegramConfig{Token: testToken, ChatID: "1"}, nil, log)
	assert.Error(t, err)
}

func TestTelegram_SendAppliesPrefix(t *testing.T) {
	defer gock.Off()

	gock.New(testURL).
		Get(testPath).
		MatchParam("chat_id", "42").
		MatchParam("text", regexp.QuoteMeta("[depth] No database update for 5 seconds!")).
		Reply(200).
		JSON(map[string]any{"ok": true})

	tg, logs := newTestTelegram(t, 0)
	tg.Send(context.Background(), "No database update for 5 seconds!")

	assert.True(t, gock.IsDone())
	assert.Equal(t, 1, logs.FilterMessage("telegram message dispatched").Len())
}

func TestTelegram_RetriesTransientFailure(t *testing.T) {
	defer gock.Off()

	gock.New(testURL).Get(testPath).Reply(502)
	gock.New(testURL).Get(testPath).Reply(200).JSON(map[string]any{"ok": true})

	tg, logs := newTestTelegram(t, 2)
	tg.Send(context.Background(), "hello")

	assert.True(t, gock.IsDone())
	entries := logs.FilterMessage("telegram message dispatched").All()
	require.Len(t, entries, 1)
	assert.EqualValues(t, 2, entries[0].ContextMap()["attempts"])
}

func TestTelegram_PermanentFailureIsNotRetried(t *testing.T) {
	defer gock.Off()

	gock.New(testURL).
		Get(testPath).
		Reply(400).
		JSON(map[string]any{"ok": false, "error_code": 400, "description": "Bad Request: chat not found"})

	tg, logs := newTestTelegram(t, 3)
	tg.Send(context.Background(), "hello")

	assert.True(t, gock.IsDone())
	entries := logs.FilterMessage("telegram delivery failed").All()
	require.Len(t, entries, 1)
	assert.EqualValues(t, 1, entries[0].ContextMap()["attempts"])
}

func TestTelegram_FailureIsSwallowedAndRedacted(t *testing.T) {
	defer gock.Off()

	gock.New(testURL).Get(testPath).Times(3).Reply(503)

	tg, logs := newTestTelegram(t, 2)

	assert.NotPanics(t, func() { tg.Send(context.Background(), "hello") })

	entries := logs.FilterMessage("telegram delivery failed").All()
	require.Len(t, entries, 1)
	assert.EqualValues(t, 3, entries[0].ContextMap()["attempts"])
	assert.NotContains(t, entries[0].ContextMap()["error"], testToken)
}

func TestTelegram_SendSurvivesCanceledContext(t *testing.T) {
	defer gock.Off()

	gock.New(testURL).Get(testPath).Reply(200).JSON(map[string]any{"ok": true})

	tg, logs := newTestTelegram(t, 0)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	tg.Send(ctx, "shutting down")

	assert.True(t, gock.IsDone())
	assert.Equal(t, 1, logs.FilterMessage("telegram message dispatched").Len())
}

func TestLog_SendWritesWarning(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	NewLog(zap.New(core).Sugar()).Send(context.Background(), "hi")

	entries := logs.FilterMessage("notification").All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
	assert.Equal(t, "hi", entries[0].ContextMap()["message"])
}
