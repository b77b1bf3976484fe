package gatelog

import (
	"fmt"
	"time"
)

// SessionSummary is the display projection of a session: raw timestamps
// plus the relative-time and duration strings the views render verbatim.
type SessionSummary struct {
	ID                uint64     `json:"id"`
	PlateNumber       string     `json:"plate_number"`
	EntryTime         time.Time  `json:"entry_time"`
	ExitTime          *time.Time `json:"exit_time"`
	DurationMinutes   *float64   `json:"duration_minutes"`
	DurationFormatted string     `json:"duration_formatted"`
	TimeAgo           string     `json:"time_ago"`
	RegisteredAtEntry bool       `json:"is_registered"`
	Suspicious        bool       `json:"is_suspicious"`
	SuspicionReason   string     `json:"suspicious_reason,omitempty"`
}

// FormatDuration renders a stay length: "N/A" for zero or absent, "25min"
// under an hour, "2hr 5min" otherwise. Whole minutes, truncated.
func FormatDuration(minutes float64) string {
	if minutes <= 0 {
		return "N/A"
	}
	hours := int(minutes) / 60
	mins := int(minutes) % 60
	if hours > 0 {
		return fmt.Sprintf("%dhr %dmin", hours, mins)
	}
	return fmt.Sprintf("%dmin", mins)
}

// TimeAgo renders how long ago t was relative to now, in whole hours and
// minutes: "2hr 15min ago", or "15min ago" under an hour.
func TimeAgo(now, t time.Time) string {
	elapsed := now.Sub(t)
	if elapsed < 0 {
		elapsed = 0
	}
	hours := int(elapsed.Hours())
	minutes := int(elapsed.Minutes()) % 60
	if hours > 0 {
		return fmt.Sprintf("%dhr %dmin ago", hours, minutes)
	}
	return fmt.Sprintf("%dmin ago", minutes)
}

// summarize projects a session for display. The relative label counts from
// the exit when the session is closed, otherwise from the entry.
func summarize(sess *Session, now time.Time) SessionSummary {
	ref := sess.EntryTime
	if sess.ExitTime != nil {
		ref = *sess.ExitTime
	}
	formatted := "N/A"
	if sess.DurationMinutes != nil {
		formatted = FormatDuration(*sess.DurationMinutes)
	}
	return SessionSummary{
		ID:                sess.ID,
		PlateNumber:       sess.PlateNumber,
		EntryTime:         sess.EntryTime,
		ExitTime:          sess.ExitTime,
		DurationMinutes:   sess.DurationMinutes,
		DurationFormatted: formatted,
		TimeAgo:           TimeAgo(now, ref),
		RegisteredAtEntry: sess.RegisteredAtEntry,
		Suspicious:        sess.Suspicious,
		SuspicionReason:   sess.SuspicionReason,
	}
}
