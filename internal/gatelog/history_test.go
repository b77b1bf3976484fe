package gatelog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "N/A", FormatDuration(0))
	assert.Equal(t, "N/A", FormatDuration(-3))
	assert.Equal(t, "25min", FormatDuration(25))
	assert.Equal(t, "25min", FormatDuration(25.7))
	assert.Equal(t, "1hr 0min", FormatDuration(60))
	assert.Equal(t, "2hr 5min", FormatDuration(125))
}

func TestTimeAgo(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, "15min ago", TimeAgo(now, now.Add(-15*time.Minute)))
	assert.Equal(t, "2hr 15min ago", TimeAgo(now, now.Add(-135*time.Minute)))
	assert.Equal(t, "0min ago", TimeAgo(now, now))
	// a reference slightly in the future renders as just now, never negative
	assert.Equal(t, "0min ago", TimeAgo(now, now.Add(30*time.Second)))
}

func TestSummarizeReferencePoint(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	entry := now.Add(-2 * time.Hour)

	open := &Session{ID: 1, PlateNumber: "KA01AB1234", Status: StatusOpen, EntryTime: entry}
	got := summarize(open, now)
	assert.Equal(t, "2hr 0min ago", got.TimeAgo)
	assert.Equal(t, "N/A", got.DurationFormatted)
	assert.Nil(t, got.ExitTime)

	exit := entry.Add(25 * time.Minute)
	dur := 25.0
	closed := &Session{ID: 2, PlateNumber: "KA01AB1234", Status: StatusClosed, EntryTime: entry, ExitTime: &exit, DurationMinutes: &dur}
	got = summarize(closed, now)
	// closed sessions count from the exit, not the entry
	assert.Equal(t, "1hr 35min ago", got.TimeAgo)
	assert.Equal(t, "25min", got.DurationFormatted)
}
