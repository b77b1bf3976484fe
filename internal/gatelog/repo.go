package gatelog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// ErrNoOpenSession is returned when an exit is requested for a plate with
// no open session.
var ErrNoOpenSession = errors.New("no open session for plate")

// Repository is the session store.
type Repository interface {
	Create(ctx context.Context, sess *Session) error
	Update(ctx context.Context, sess *Session) error
	// FindLatestOpen returns the newest open session for the plate
	// (entry time descending, insertion order breaking ties).
	FindLatestOpen(ctx context.Context, plate string) (*Session, error)
	// CountEntriesSince counts sessions for the plate whose entry time is
	// at or after since, open or closed.
	CountEntriesSince(ctx context.Context, plate string, since time.Time) (int64, error)
	// ListByPlate returns sessions for the plate, most recent entry first.
	// limit <= 0 means no limit.
	ListByPlate(ctx context.Context, plate string, limit int) ([]Session, error)
	// ListRecent returns sessions across all plates, most recent entry first.
	ListRecent(ctx context.Context, limit int) ([]Session, error)
}

type Repo struct {
	db *gorm.DB
}

func NewRepo(db *gorm.DB) *Repo {
	return &Repo{db: db}
}

func (r *Repo) withCtx(ctx context.Context) *gorm.DB {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.WithContext(ctx)
}

func (r *Repo) Create(ctx context.Context, sess *Session) error {
	db := r.withCtx(ctx)
	if db == nil {
		return fmt.Errorf("repo db is nil")
	}
	return db.Create(sess).Error
}

func (r *Repo) Update(ctx context.Context, sess *Session) error {
	db := r.withCtx(ctx)
	if db == nil {
		return fmt.Errorf("repo db is nil")
	}
	return db.Save(sess).Error
}

func (r *Repo) FindLatestOpen(ctx context.Context, plate string) (*Session, error) {
	db := r.withCtx(ctx)
	if db == nil {
		return nil, fmt.Errorf("repo db is nil")
	}
	var sess Session
	err := db.Where("plate_number = ? AND status = ?", plate, StatusOpen).
		Order("entry_time DESC").Order("id DESC").
		First(&sess).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNoOpenSession
	}
	if err != nil {
		return nil, err
	}
	return &sess, nil
}

func (r *Repo) CountEntriesSince(ctx context.Context, plate string, since time.Time) (int64, error) {
	db := r.withCtx(ctx)
	if db == nil {
		return 0, fmt.Errorf("repo db is nil")
	}
	var count int64
	err := db.Model(&Session{}).
		Where("plate_number = ? AND entry_time >= ?", plate, since).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *Repo) ListByPlate(ctx context.Context, plate string, limit int) ([]Session, error) {
	db := r.withCtx(ctx)
	if db == nil {
		return nil, fmt.Errorf("repo db is nil")
	}
	q := db.Where("plate_number = ?", plate).
		Order("entry_time DESC").Order("id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var sessions []Session
	if err := q.Find(&sessions).Error; err != nil {
		return nil, err
	}
	return sessions, nil
}

func (r *Repo) ListRecent(ctx context.Context, limit int) ([]Session, error) {
	db := r.withCtx(ctx)
	if db == nil {
		return nil, fmt.Errorf("repo db is nil")
	}
	q := db.Order("entry_time DESC").Order("id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var sessions []Session
	if err := q.Find(&sessions).Error; err != nil {
		return nil, err
	}
	return sessions, nil
}
