package memory

import (
	"context"

	"github.com/cmmsmind/backend/internal/model"
)

type planRepo struct{ s *Store }

func matchPlan(f model.PlanFilter, p *model.MaintenancePlan) bool {
	if f.AssetID != "" && p.AssetID != f.AssetID {
		return false
	}
	if f.Type != "" && p.Type != f.Type {
		return false
	}
	if f.Active != nil && p.IsActive != *f.Active {
		return false
	}
	if f.DueFrom != nil && p.NextDueDate.Before(*f.DueFrom) {
		return false
	}
	return f.DueTo == nil || !p.NextDueDate.After(*f.DueTo)
}

func (r planRepo) List(_ context.Context, f model.PlanFilter) ([]*model.MaintenancePlan, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.plans.list(func(p *model.MaintenancePlan) bool { return matchPlan(f, p) }), nil
}

func (r planRepo) GetByID(_ context.Context, id string) (*model.MaintenancePlan, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.plans.get(id)
}

func (r planRepo) Create(_ context.Context, p *model.MaintenancePlan) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.plans.insert(p)
}

func (r planRepo) Update(_ context.Context, p *model.MaintenancePlan) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.plans.update(p)
}

func (r planRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.plans.remove(id)
}
