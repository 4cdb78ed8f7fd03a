// internal/watchdog/detector.go
package watchdog

import "github.com/tamzrod/mongo-watchdog/internal/poller"

// Verdict is the outcome of comparing two consecutive polls.
type Verdict int

const (
	Progressed Verdict = iota
	Stalled
)

func (v Verdict) String() string {
	switch v {
	case Progressed:
		return "progressed"
	case Stalled:
		return "stalled"
	default:
		return "unknown"
	}
}

// Detect decides whether the database made progress since previous.
//
//   - a failed poll is a stall: not being able to look counts as no progress
//   - no previous snapshot (first successful poll) is progress
//   - otherwise only an unchanged object count is a stall; any change,
//     including a decrease, is progress
//
// previous is nil until the first successful poll. Pure function.
func Detect(previous *poller.Snapshot, current poller.PollResult) Verdict {
	if current.Err != nil {
		return Stalled
	}
	if previous == nil {
		return Progressed
	}
	if current.Snapshot.Objects == previous.Objects {
		return Stalled
	}
	return Progressed
}
