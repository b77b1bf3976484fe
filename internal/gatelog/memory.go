package gatelog

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
)

// MemoryRepo is an in-memory Repository backing the "memory" database
// driver and unit tests. Sessions are stored by value; callers get copies.
type MemoryRepo struct {
	mu       sync.RWMutex
	sessions []Session
	nextID   uint64
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{nextID: 1}
}

func (r *MemoryRepo) Create(ctx context.Context, sess *Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	sess.ID = r.nextID
	r.nextID++
	if sess.CreatedAt.IsZero() {
		sess.CreatedAt = sess.EntryTime
	}
	r.sessions = append(r.sessions, *sess)
	return nil
}

func (r *MemoryRepo) Update(ctx context.Context, sess *Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.sessions {
		if r.sessions[i].ID == sess.ID {
			r.sessions[i] = *sess
			return nil
		}
	}
	return fmt.Errorf("session %d not found", sess.ID)
}

func (r *MemoryRepo) FindLatestOpen(ctx context.Context, plate string) (*Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var best *Session
	for i := range r.sessions {
		s := &r.sessions[i]
		if s.PlateNumber != plate || s.Status != StatusOpen {
			continue
		}
		if best == nil || s.EntryTime.After(best.EntryTime) ||
			(s.EntryTime.Equal(best.EntryTime) && s.ID > best.ID) {
			best = s
		}
	}
	if best == nil {
		return nil, ErrNoOpenSession
	}
	out := *best
	return &out, nil
}

func (r *MemoryRepo) CountEntriesSince(ctx context.Context, plate string, since time.Time) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var count int64
	for i := range r.sessions {
		s := &r.sessions[i]
		if s.PlateNumber == plate && !s.EntryTime.Before(since) {
			count++
		}
	}
	return count, nil
}

func (r *MemoryRepo) ListByPlate(ctx context.Context, plate string, limit int) ([]Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Session
	for i := range r.sessions {
		if r.sessions[i].PlateNumber == plate {
			out = append(out, r.sessions[i])
		}
	}
	sortNewestFirst(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *MemoryRepo) ListRecent(ctx context.Context, limit int) ([]Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Session, len(r.sessions))
	copy(out, r.sessions)
	sortNewestFirst(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func sortNewestFirst(sessions []Session) {
	sort.Slice(sessions, func(i, j int) bool {
		if !sessions[i].EntryTime.Equal(sessions[j].EntryTime) {
			return sessions[i].EntryTime.After(sessions[j].EntryTime)
		}
		return sessions[i].ID > sessions[j].ID
	})
}
