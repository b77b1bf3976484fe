package registry

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo is an in-memory Repository. It backs the "memory" database
// driver and unit tests.
type MemoryRepo struct {
	mu       sync.RWMutex
	vehicles map[string]Vehicle
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{vehicles: make(map[string]Vehicle)}
}

func (r *MemoryRepo) Create(ctx context.Context, v *Vehicle) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.vehicles[v.PlateNumber] = *v
	return nil
}

func (r *MemoryRepo) FindByPlate(ctx context.Context, plate string) (*Vehicle, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.vehicles[plate]
	if !ok {
		return nil, ErrVehicleNotFound
	}
	return &v, nil
}

func (r *MemoryRepo) List(ctx context.Context) ([]Vehicle, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Vehicle, 0, len(r.vehicles))
	for _, v := range r.vehicles {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].RegisteredDate.After(out[j].RegisteredDate)
	})
	return out, nil
}

func (r *MemoryRepo) Delete(ctx context.Context, plate string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.vehicles[plate]; !ok {
		return ErrVehicleNotFound
	}
	delete(r.vehicles, plate)
	return nil
}
