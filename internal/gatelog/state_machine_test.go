package gatelog

import (
	"testing"
	"time"
)

func TestCanTransition(t *testing.T) {
	if !CanTransition(StatusOpen, StatusClosed) {
		t.Fatalf("expected open -> closed allowed")
	}
	if CanTransition(StatusClosed, StatusOpen) {
		t.Fatalf("expected closed -> open not allowed")
	}
	if CanTransition(StatusClosed, StatusClosed) {
		t.Fatalf("expected closed to be terminal")
	}
}

func TestApplyExit(t *testing.T) {
	entry := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	sess := &Session{Status: StatusOpen, EntryTime: entry}

	exit := entry.Add(25 * time.Minute)
	if err := ApplyExit(sess, exit, 25, true); err != nil {
		t.Fatalf("ApplyExit: %v", err)
	}
	if sess.Status != StatusClosed {
		t.Fatalf("expected status closed, got %s", sess.Status)
	}
	if sess.ExitTime == nil || !sess.ExitTime.Equal(exit) {
		t.Fatalf("unexpected exit time: %v", sess.ExitTime)
	}
	if sess.DurationMinutes == nil || *sess.DurationMinutes != 25 {
		t.Fatalf("unexpected duration: %v", sess.DurationMinutes)
	}
	if !sess.Suspicious {
		t.Fatalf("expected suspicious")
	}

	if err := ApplyExit(sess, exit.Add(time.Minute), 26, false); err == nil {
		t.Fatalf("expected double close to fail")
	}
}

func TestApplyExitMonotonicSuspicion(t *testing.T) {
	entry := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	sess := &Session{Status: StatusOpen, EntryTime: entry, Suspicious: true, SuspicionReason: ReasonShortWindow}

	if err := ApplyExit(sess, entry.Add(5*time.Minute), 5, false); err != nil {
		t.Fatalf("ApplyExit: %v", err)
	}
	if !sess.Suspicious {
		t.Fatalf("suspicion must never be cleared")
	}
	if sess.SuspicionReason != ReasonShortWindow {
		t.Fatalf("reason must survive close, got %q", sess.SuspicionReason)
	}
}

func TestApplyExitClockSkew(t *testing.T) {
	entry := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	sess := &Session{Status: StatusOpen, EntryTime: entry}

	// exit timestamp before entry: floor the stay at zero
	if err := ApplyExit(sess, entry.Add(-2*time.Minute), -2, false); err != nil {
		t.Fatalf("ApplyExit: %v", err)
	}
	if sess.ExitTime.Before(sess.EntryTime) {
		t.Fatalf("exit time must not precede entry time")
	}
	if *sess.DurationMinutes != 0 {
		t.Fatalf("expected zero duration, got %v", *sess.DurationMinutes)
	}
}
