package registry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GateSentry/GateSentry/internal/common/clock"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	clk := clock.NewManual(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	return NewService(NewMemoryRepo(), clk)
}

func TestNormalizePlate(t *testing.T) {
	assert.Equal(t, "KA01AB1234", NormalizePlate("  ka01ab1234 "))
	assert.Equal(t, "AB12", NormalizePlate("ab12"))
	assert.Equal(t, "", NormalizePlate("   "))
}

func TestRegisterAndLookup(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	v, err := svc.Register(ctx, "KA01AB1234", "Asha Rao", "Car")
	require.NoError(t, err)
	assert.Equal(t, "KA01AB1234", v.PlateNumber)
	assert.Equal(t, "Car", v.VehicleType)
	assert.False(t, v.RegisteredDate.IsZero())

	registered, err := svc.IsRegistered(ctx, "KA01AB1234")
	require.NoError(t, err)
	assert.True(t, registered)

	registered, err = svc.IsRegistered(ctx, "MH02CD5678")
	require.NoError(t, err)
	assert.False(t, registered)
}

func TestRegisterDuplicate(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "KA01AB1234", "Asha Rao", "Car")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "KA01AB1234", "Someone Else", "Truck")
	assert.ErrorIs(t, err, ErrVehicleExists)
}

func TestRegisterDefaultsVehicleType(t *testing.T) {
	svc := newTestService(t)

	v, err := svc.Register(context.Background(), "KA01AB1234", "Asha Rao", "  ")
	require.NoError(t, err)
	assert.Equal(t, "Unknown", v.VehicleType)
}

func TestRemove(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "KA01AB1234", "Asha Rao", "Car")
	require.NoError(t, err)

	require.NoError(t, svc.Remove(ctx, "KA01AB1234"))

	registered, err := svc.IsRegistered(ctx, "KA01AB1234")
	require.NoError(t, err)
	assert.False(t, registered)

	assert.ErrorIs(t, svc.Remove(ctx, "KA01AB1234"), ErrVehicleNotFound)
}

func TestListMostRecentFirst(t *testing.T) {
	clk := clock.NewManual(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	svc := NewService(NewMemoryRepo(), clk)
	ctx := context.Background()

	_, err := svc.Register(ctx, "KA01AB1234", "Asha Rao", "Car")
	require.NoError(t, err)
	clk.Advance(time.Minute)
	_, err = svc.Register(ctx, "MH02CD5678", "Vikram Shah", "Bike")
	require.NoError(t, err)

	vehicles, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, vehicles, 2)
	assert.Equal(t, "MH02CD5678", vehicles[0].PlateNumber)
	assert.Equal(t, "KA01AB1234", vehicles[1].PlateNumber)
}
