package gatelog

import (
	"fmt"
	"time"
)

// AllowTransition defines the session state machine as a directed graph.
// A session only ever moves open -> closed; closed is terminal.
var AllowTransition = map[Status][]Status{
	StatusOpen:   {StatusClosed},
	StatusClosed: {},
}

// CanTransition reports whether from -> to is an allowed transition.
func CanTransition(from, to Status) bool {
	allowed, ok := AllowTransition[from]
	if !ok {
		return false
	}
	for _, s := range allowed {
		if s == to {
			return true
		}
	}
	return false
}

// ApplyExit closes an open session: records the exit timestamp and
// duration, and upgrades the suspicion flag. The flag is monotonic, so a
// false duration verdict never clears a suspicion set at entry time.
func ApplyExit(sess *Session, exitTime time.Time, durationMinutes float64, durationSuspicious bool) error {
	if sess == nil {
		return fmt.Errorf("session is nil")
	}
	if !CanTransition(sess.Status, StatusClosed) {
		return fmt.Errorf("invalid session status transition: %s -> %s", sess.Status, StatusClosed)
	}
	if exitTime.Before(sess.EntryTime) {
		// clock skew guard: close anyway but never record a negative stay
		exitTime = sess.EntryTime
		durationMinutes = 0
	}

	sess.Status = StatusClosed
	t := exitTime
	sess.ExitTime = &t
	d := durationMinutes
	sess.DurationMinutes = &d
	sess.Suspicious = sess.Suspicious || durationSuspicious
	return nil
}
