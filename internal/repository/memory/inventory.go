package memory

import (
	"context"
	"slices"

	"github.com/samber/lo"

	"github.com/cmmsmind/backend/internal/model"
)

type partRepo struct{ s *Store }

func matchPart(f model.PartFilter, p *model.SparePart) bool {
	if f.Category != "" && p.Category != f.Category {
		return false
	}
	if f.LowStock && !p.IsLowStock() {
		return false
	}
	return contains(f.Query, p.Code, p.Description, p.Category)
}

func (r partRepo) List(_ context.Context, f model.PartFilter) ([]*model.SparePart, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.parts.list(func(p *model.SparePart) bool { return matchPart(f, p) }), nil
}

func (r partRepo) GetByID(_ context.Context, id string) (*model.SparePart, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.parts.get(id)
}

func (r partRepo) Create(_ context.Context, p *model.SparePart) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.parts.insert(p)
}

func (r partRepo) Update(_ context.Context, p *model.SparePart) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.parts.update(p)
}

func (r partRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.parts.remove(id)
}

func (r partRepo) AdjustStock(_ context.Context, id string, delta int) (*model.SparePart, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.adjustStock(id, delta)
}

// adjustStock must be called with the write lock held.
func (s *Store) adjustStock(id string, delta int) (*model.SparePart, error) {
	p, err := s.parts.get(id)
	if err != nil {
		return nil, err
	}
	p.CurrentStock = max(p.CurrentStock+delta, 0)
	if err := s.parts.update(p); err != nil {
		return nil, err
	}
	return p, nil
}

func (r partRepo) Categories(_ context.Context) ([]string, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	categories := lo.Uniq(lo.Map(r.s.parts.list(nil), func(p *model.SparePart, _ int) string { return p.Category }))
	slices.Sort(categories)
	return categories, nil
}

type movementRepo struct{ s *Store }

func (r movementRepo) List(_ context.Context, f model.MovementFilter) ([]*model.InventoryMovement, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.movements.list(func(m *model.InventoryMovement) bool {
		if f.PartID != "" && m.PartID != f.PartID {
			return false
		}
		return f.WorkOrderID == "" || m.ReferenceWorkOrderID == f.WorkOrderID
	}), nil
}

func (r movementRepo) GetByID(_ context.Context, id string) (*model.InventoryMovement, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.movements.get(id)
}

func (r movementRepo) Record(_ context.Context, m *model.InventoryMovement) (*model.SparePart, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, err := r.s.parts.get(m.PartID); err != nil {
		return nil, err
	}
	if err := r.s.movements.insert(m); err != nil {
		return nil, err
	}
	return r.s.adjustStock(m.PartID, m.Type.StockDelta(m.Quantity))
}
