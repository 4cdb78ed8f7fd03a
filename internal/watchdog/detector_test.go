// internal/watchdog/detector_test.go
package watchdog

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tamzrod/mongo-watchdog/internal/poller"
)

func ok(objects int64) poller.PollResult {
	return poller.PollResult{Snapshot: poller.Snapshot{Objects: objects}}
}

func failed() poller.PollResult {
	return poller.PollResult{Err: errors.New("connection refused")}
}

func snap(objects int64) *poller.Snapshot {
	return &poller.Snapshot{Objects: objects}
}

func TestDetect_EqualCountIsStall(t *testing.T) {
	for _, n := range []int64{0, 1, 42, 1 << 40} {
		assert.Equal(t, Stalled, Detect(snap(n), ok(n)), "objects=%d", n)
	}
}

func TestDetect_ChangedCountIsProgress(t *testing.T) {
	pairs := [][2]int64{{0, 1}, {41, 42}, {100, 5000}, {10, 9}, {1 << 40, 0}}
	for _, p := range pairs {
		assert.Equal(t, Progressed, Detect(snap(p[0]), ok(p[1])), "prev=%d cur=%d", p[0], p[1])
	}
}

func TestDetect_NoPreviousIsProgress(t *testing.T) {
	for _, n := range []int64{0, 7, 1 << 40} {
		assert.Equal(t, Progressed, Detect(nil, ok(n)))
	}
}

func TestDetect_ProbeErrorIsStall(t *testing.T) {
	assert.Equal(t, Stalled, Detect(nil, failed()))
	assert.Equal(t, Stalled, Detect(snap(3), failed()))
}

func TestVerdict_String(t *testing.T) {
	assert.Equal(t, "progressed", Progressed.String())
	assert.Equal(t, "stalled", Stalled.String())
	assert.Equal(t, "unknown", Verdict(9).String())
}
