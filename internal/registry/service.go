package registry

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/GateSentry/GateSentry/internal/common/clock"
)

var (
	// ErrVehicleExists is returned when registering a plate that is already present.
	ErrVehicleExists = errors.New("vehicle already registered")
	// ErrVehicleNotFound is returned for lookups and removals of unknown plates.
	ErrVehicleNotFound = errors.New("vehicle not found")
)

// Service wraps the vehicle registry use cases. The session side of the
// system only ever calls IsRegistered; the admin operations are exposed to
// the transport layer.
type Service struct {
	repo  Repository
	clock clock.Clock
}

func NewService(repo Repository, clk clock.Clock) *Service {
	return &Service{repo: repo, clock: clk}
}

// IsRegistered reports whether the normalized plate is in the registry.
// Any store error other than a missing record is fatal to the request.
func (s *Service) IsRegistered(ctx context.Context, plate string) (bool, error) {
	if s == nil || s.repo == nil {
		return false, fmt.Errorf("service not initialized")
	}
	_, err := s.repo.FindByPlate(ctx, plate)
	if errors.Is(err, ErrVehicleNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Register creates a registry record. The plate must already be normalized.
func (s *Service) Register(ctx context.Context, plate, owner, vehicleType string) (*Vehicle, error) {
	if s == nil || s.repo == nil {
		return nil, fmt.Errorf("service not initialized")
	}
	if plate == "" {
		return nil, fmt.Errorf("plate_number required")
	}

	_, err := s.repo.FindByPlate(ctx, plate)
	if err == nil {
		return nil, ErrVehicleExists
	}
	if !errors.Is(err, ErrVehicleNotFound) {
		return nil, err
	}

	if strings.TrimSpace(vehicleType) == "" {
		vehicleType = "Unknown"
	}
	v := &Vehicle{
		PlateNumber:    plate,
		OwnerName:      strings.TrimSpace(owner),
		VehicleType:    strings.TrimSpace(vehicleType),
		RegisteredDate: s.clock.Now(),
	}
	if err := s.repo.Create(ctx, v); err != nil {
		return nil, err
	}
	return v, nil
}

// List returns all registered vehicles, most recently registered first.
func (s *Service) List(ctx context.Context) ([]Vehicle, error) {
	if s == nil || s.repo == nil {
		return nil, fmt.Errorf("service not initialized")
	}
	return s.repo.List(ctx)
}

// Remove deletes a vehicle from the registry.
func (s *Service) Remove(ctx context.Context, plate string) error {
	if s == nil || s.repo == nil {
		return fmt.Errorf("service not initialized")
	}
	if plate == "" {
		return fmt.Errorf("plate_number required")
	}
	return s.repo.Delete(ctx, plate)
}
