package gatelog

import (
	"context"
	"fmt"
	"time"

	"github.com/GateSentry/GateSentry/internal/common/clock"
	"github.com/GateSentry/GateSentry/internal/common/logger"
)

// RegistryChecker is the read-only view of the vehicle registry the
// lifecycle controller needs.
type RegistryChecker interface {
	IsRegistered(ctx context.Context, plate string) (bool, error)
}

// Config holds the classification knobs.
type Config struct {
	ShortWindow          time.Duration
	LongWindow           time.Duration
	DurationThresholdMin float64
	PastEntriesLimit     int
	AllLogsDefaultLimit  int
}

// DefaultConfig matches the gate's production settings.
func DefaultConfig() Config {
	return Config{
		ShortWindow:          20 * time.Minute,
		LongWindow:           time.Hour,
		DurationThresholdMin: 20,
		PastEntriesLimit:     3,
		AllLogsDefaultLimit:  1000,
	}
}

// EntryDecision is the result of an entry gate event.
type EntryDecision struct {
	PlateNumber     string
	IsRegistered    bool
	IsSuspicious    bool
	SuspicionReason string
	Message         string
	PastSessions    []SessionSummary
}

// ExitDecision is the result of an exit gate event. IsSuspicious carries
// the session's final verdict (entry verdict OR duration verdict);
// DurationSuspicious reports whether the duration check itself fired.
type ExitDecision struct {
	PlateNumber        string
	EntryTime          time.Time
	ExitTime           time.Time
	DurationMinutes    float64
	DurationFormatted  string
	IsSuspicious       bool
	DurationSuspicious bool
	Message            string
}

// Service is the session lifecycle controller. It owns the entry -> exit
// transition: registration lookup, frequency verdict at entry, duration
// verdict at exit, and the commit of each record. Events for the same plate
// are serialized so the verdicts never run against stale reads.
type Service struct {
	repo     Repository
	registry RegistryChecker
	freq     *FrequencyAnalyzer
	duration DurationAnalyzer
	clock    clock.Clock
	log      logger.Logger
	locks    *plateLocks
	cfg      Config
}

func NewService(repo Repository, reg RegistryChecker, clk clock.Clock, log logger.Logger, cfg Config) *Service {
	if cfg.ShortWindow <= 0 {
		cfg.ShortWindow = DefaultConfig().ShortWindow
	}
	if cfg.LongWindow <= 0 {
		cfg.LongWindow = DefaultConfig().LongWindow
	}
	if cfg.DurationThresholdMin <= 0 {
		cfg.DurationThresholdMin = DefaultConfig().DurationThresholdMin
	}
	if cfg.PastEntriesLimit <= 0 {
		cfg.PastEntriesLimit = DefaultConfig().PastEntriesLimit
	}
	if cfg.AllLogsDefaultLimit <= 0 {
		cfg.AllLogsDefaultLimit = DefaultConfig().AllLogsDefaultLimit
	}
	return &Service{
		repo:     repo,
		registry: reg,
		freq:     NewFrequencyAnalyzer(repo, cfg.ShortWindow, cfg.LongWindow),
		duration: DurationAnalyzer{ThresholdMinutes: cfg.DurationThresholdMin},
		clock:    clk,
		log:      log,
		locks:    newPlateLocks(),
		cfg:      cfg,
	}
}

// RecordEntry handles an entry gate event for an already-normalized plate.
// Entry is never rejected: a plate with an open session gets a second open
// session, which is exactly what the frequency analyzer is there to flag.
func (s *Service) RecordEntry(ctx context.Context, plate string) (*EntryDecision, error) {
	if s == nil || s.repo == nil {
		return nil, fmt.Errorf("service not initialized")
	}
	if plate == "" {
		return nil, fmt.Errorf("plate_number required")
	}

	mu := s.locks.lock(plate)
	defer mu.Unlock()

	now := s.clock.Now()

	registered, err := s.registry.IsRegistered(ctx, plate)
	if err != nil {
		return nil, fmt.Errorf("registry lookup failed: %w", err)
	}

	// classify before commit: the counts must not see the session being created
	suspicious, reason, err := s.freq.Classify(ctx, plate, registered, now)
	if err != nil {
		return nil, err
	}

	// past sessions also snapshot the state before this entry
	past, err := s.pastSessions(ctx, plate, s.cfg.PastEntriesLimit, now)
	if err != nil {
		return nil, err
	}

	sess := &Session{
		PlateNumber:       plate,
		Status:            StatusOpen,
		EntryTime:         now,
		RegisteredAtEntry: registered,
		Suspicious:        suspicious,
		SuspicionReason:   reason,
	}
	if err := s.repo.Create(ctx, sess); err != nil {
		return nil, fmt.Errorf("failed to persist entry: %w", err)
	}

	decision := &EntryDecision{
		PlateNumber:     plate,
		IsRegistered:    registered,
		IsSuspicious:    suspicious,
		SuspicionReason: reason,
		Message:         entryMessage(registered, suspicious, reason),
		PastSessions:    past,
	}

	if s.log != nil {
		s.log.WithFields(map[string]interface{}{
			"plate":      plate,
			"registered": registered,
			"suspicious": suspicious,
		}).Info("entry recorded")
	}
	return decision, nil
}

// RecordExit closes the newest open session for the plate. Returns
// ErrNoOpenSession when the plate has no matching open entry.
func (s *Service) RecordExit(ctx context.Context, plate string) (*ExitDecision, error) {
	if s == nil || s.repo == nil {
		return nil, fmt.Errorf("service not initialized")
	}
	if plate == "" {
		return nil, fmt.Errorf("plate_number required")
	}

	mu := s.locks.lock(plate)
	defer mu.Unlock()

	sess, err := s.repo.FindLatestOpen(ctx, plate)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	duration := now.Sub(sess.EntryTime).Minutes()
	if duration < 0 {
		duration = 0
	}
	durationSuspicious := s.duration.Classify(duration)

	if err := ApplyExit(sess, now, duration, durationSuspicious); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, sess); err != nil {
		return nil, fmt.Errorf("failed to persist exit: %w", err)
	}

	formatted := FormatDuration(duration)
	decision := &ExitDecision{
		PlateNumber:        plate,
		EntryTime:          sess.EntryTime,
		ExitTime:           *sess.ExitTime,
		DurationMinutes:    duration,
		DurationFormatted:  formatted,
		IsSuspicious:       sess.Suspicious,
		DurationSuspicious: durationSuspicious,
		Message:            exitMessage(durationSuspicious, formatted, s.cfg.DurationThresholdMin),
	}

	if s.log != nil {
		s.log.WithFields(map[string]interface{}{
			"plate":      plate,
			"duration":   formatted,
			"suspicious": sess.Suspicious,
		}).Info("exit recorded")
	}
	return decision, nil
}

// History returns the full session history for a plate, most recent first.
func (s *Service) History(ctx context.Context, plate string) ([]SessionSummary, error) {
	if s == nil || s.repo == nil {
		return nil, fmt.Errorf("service not initialized")
	}
	return s.pastSessions(ctx, plate, 0, s.clock.Now())
}

// AllSessions returns recent sessions across all plates. limit <= 0 falls
// back to the configured default cap.
func (s *Service) AllSessions(ctx context.Context, limit int) ([]SessionSummary, error) {
	if s == nil || s.repo == nil {
		return nil, fmt.Errorf("service not initialized")
	}
	if limit <= 0 {
		limit = s.cfg.AllLogsDefaultLimit
	}
	sessions, err := s.repo.ListRecent(ctx, limit)
	if err != nil {
		return nil, err
	}
	now := s.clock.Now()
	out := make([]SessionSummary, 0, len(sessions))
	for i := range sessions {
		out = append(out, summarize(&sessions[i], now))
	}
	return out, nil
}

func (s *Service) pastSessions(ctx context.Context, plate string, limit int, now time.Time) ([]SessionSummary, error) {
	sessions, err := s.repo.ListByPlate(ctx, plate, limit)
	if err != nil {
		return nil, err
	}
	out := make([]SessionSummary, 0, len(sessions))
	for i := range sessions {
		out = append(out, summarize(&sessions[i], now))
	}
	return out, nil
}

func entryMessage(registered, suspicious bool, reason string) string {
	switch {
	case suspicious:
		return fmt.Sprintf("RED FLAG: %s", reason)
	case !registered:
		return "UNREGISTERED VEHICLE"
	default:
		return "REGISTERED VEHICLE"
	}
}

func exitMessage(durationSuspicious bool, formatted string, threshold float64) string {
	if durationSuspicious {
		return fmt.Sprintf("SUSPICIOUS: stayed %s (>%gmin)", formatted, threshold)
	}
	return "Exit recorded"
}
