package gatelog

import "time"

// Status is the session lifecycle state (persisted as a string).
type Status string

const (
	StatusOpen   Status = "open"   // entry recorded, vehicle inside
	StatusClosed Status = "closed" // exit recorded, terminal
)

// Session is one entry-to-exit visit of a plate. Sessions form an
// append-only log: created at the entry gate, mutated exactly once at the
// matching exit, never deleted.
type Session struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"`

	PlateNumber string `gorm:"index;size:32;not null"`
	Status      Status `gorm:"type:varchar(8);index;not null"`

	// EntryTime is set at creation and never changes. ExitTime and
	// DurationMinutes stay nil while the session is open.
	EntryTime       time.Time `gorm:"index;not null"`
	ExitTime        *time.Time
	DurationMinutes *float64

	// RegisteredAtEntry snapshots the registry lookup at entry time.
	RegisteredAtEntry bool `gorm:"not null"`

	// Suspicious is monotonic: once true it is never cleared. A later
	// check may add a reason but never removes an existing one.
	Suspicious      bool   `gorm:"not null;default:false"`
	SuspicionReason string `gorm:"size:128"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
}

// Open reports whether the session has no exit recorded yet.
func (s *Session) Open() bool {
	return s.Status == StatusOpen
}
