package memory

import (
	"context"
	"slices"

	"github.com/samber/lo"

	"github.com/cmmsmind/backend/internal/model"
)

type warehouseRepo struct{ s *Store }

func matchWarehouse(f model.WarehouseFilter, w *model.WarehouseLocation) bool {
	if f.Type != "" && w.Type != f.Type {
		return false
	}
	if f.Region != "" && w.Region != f.Region {
		return false
	}
	if f.Factory != "" && w.Factory != f.Factory {
		return false
	}
	return f.Active == nil || w.IsActive == *f.Active
}

func (r warehouseRepo) List(_ context.Context, f model.WarehouseFilter) ([]*model.WarehouseLocation, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.warehouses.list(func(w *model.WarehouseLocation) bool { return matchWarehouse(f, w) }), nil
}

func (r warehouseRepo) GetByID(_ context.Context, id string) (*model.WarehouseLocation, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.warehouses.get(id)
}

func (r warehouseRepo) Create(_ context.Context, w *model.WarehouseLocation) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.warehouses.insert(w)
}

func (r warehouseRepo) Update(_ context.Context, w *model.WarehouseLocation) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.warehouses.update(w)
}

func (r warehouseRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.warehouses.remove(id)
}

func (r warehouseRepo) Regions(_ context.Context) ([]string, error) {
	return r.distinct(func(w *model.WarehouseLocation) string { return w.Region }), nil
}

func (r warehouseRepo) Factories(_ context.Context) ([]string, error) {
	return r.distinct(func(w *model.WarehouseLocation) string { return w.Factory }), nil
}

func (r warehouseRepo) distinct(field func(*model.WarehouseLocation) string) []string {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	values := lo.Compact(lo.Uniq(lo.Map(r.s.warehouses.list(nil), func(w *model.WarehouseLocation, _ int) string {
		return field(w)
	})))
	slices.Sort(values)
	return values
}
