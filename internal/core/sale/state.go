package sale

import "time"

// State is the computed lifecycle phase of a sale. It is never stored.
type State uint8

const (
	StateQueued State = iota
	StateActive
	StateSuccess
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateQueued:
		return "QUEUED"
	case StateActive:
		return "ACTIVE"
	case StateSuccess:
		return "SUCCESS"
	case StateFailed:
		return "FAILED"
	default:
		return "UNKNOWN"
	}
}

// Terminal reports whether s can no longer change except by force-fail.
func (s State) Terminal() bool {
	return s == StateSuccess || s == StateFailed
}

// Evaluate derives the state from the clock and the stored records.
// Rules apply in order: force-fail, hardcap reached, before start, inside
// the window, then the softcap decides.
func Evaluate(now time.Time, info Info, status Status) State {
	switch {
	case status.ForceFailed:
		return StateFailed
	case status.TotalRaised.Cmp(info.HardCap) >= 0:
		return StateSuccess
	case now.Before(info.StartTime):
		return StateQueued
	case now.Before(info.EndTime()):
		return StateActive
	case status.TotalRaised.Cmp(info.SoftCap) >= 0:
		return StateSuccess
	default:
		return StateFailed
	}
}
