package gatelog

import (
	"context"
	"fmt"
	"time"
)

// Suspicion reasons. The short-window check has priority and short-circuits
// the long-window one.
const (
	ReasonShortWindow = "entered more than once in the last 20 minutes"
	ReasonLongWindow  = "entered 2+ times in the last hour"
)

// DurationAnalyzer flags stays longer than the threshold. Pure, stateless.
type DurationAnalyzer struct {
	ThresholdMinutes float64
}

// Classify returns true iff minutes is strictly greater than the threshold.
// A zero or absent duration is never suspicious.
func (a DurationAnalyzer) Classify(minutes float64) bool {
	if minutes <= 0 {
		return false
	}
	return minutes > a.ThresholdMinutes
}

// FrequencyAnalyzer flags unregistered plates that re-enter within trailing
// windows. Counts run against sessions already recorded, so the session
// being created never counts itself: classify before commit.
type FrequencyAnalyzer struct {
	repo        Repository
	shortWindow time.Duration
	longWindow  time.Duration
}

func NewFrequencyAnalyzer(repo Repository, shortWindow, longWindow time.Duration) *FrequencyAnalyzer {
	return &FrequencyAnalyzer{
		repo:        repo,
		shortWindow: shortWindow,
		longWindow:  longWindow,
	}
}

// Classify returns the frequency verdict for an entry happening at now.
// Registered vehicles are exempt: the windows are never evaluated for them.
func (a *FrequencyAnalyzer) Classify(ctx context.Context, plate string, registered bool, now time.Time) (bool, string, error) {
	if a == nil || a.repo == nil {
		return false, "", fmt.Errorf("frequency analyzer not initialized")
	}
	if registered {
		return false, "", nil
	}

	// one prior entry in the short window means this entry is the 2nd
	shortCount, err := a.repo.CountEntriesSince(ctx, plate, now.Add(-a.shortWindow))
	if err != nil {
		return false, "", fmt.Errorf("failed to count short-window entries: %w", err)
	}
	if shortCount >= 1 {
		return true, ReasonShortWindow, nil
	}

	longCount, err := a.repo.CountEntriesSince(ctx, plate, now.Add(-a.longWindow))
	if err != nil {
		return false, "", fmt.Errorf("failed to count long-window entries: %w", err)
	}
	if longCount >= 1 {
		return true, ReasonLongWindow, nil
	}

	return false, "", nil
}
