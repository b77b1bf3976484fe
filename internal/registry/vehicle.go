package registry

import (
	"strings"
	"time"
)

// Vehicle is the gorm model for the vehicles table. The normalized plate
// number is the natural key; records are created once at registration and
// never mutated.
type Vehicle struct {
	PlateNumber    string    `gorm:"primaryKey;size:32"`
	OwnerName      string    `gorm:"size:128"`
	VehicleType    string    `gorm:"size:32"`
	RegisteredDate time.Time `gorm:"autoCreateTime"`
}

// NormalizePlate converts a raw plate string into the canonical lookup key:
// uppercase with surrounding whitespace stripped. Every plate crossing the
// transport boundary goes through this before reaching the core.
func NormalizePlate(plate string) string {
	return strings.ToUpper(strings.TrimSpace(plate))
}
