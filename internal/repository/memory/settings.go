package memory

import (
	"context"
	"time"

	"github.com/cmmsmind/backend/internal/model"
)

type settingsRepo struct{ s *Store }

func (r settingsRepo) Company(_ context.Context) (*model.CompanyProfile, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	c := r.s.company
	return &c, nil
}

func (r settingsRepo) UpdateCompany(_ context.Context, c *model.CompanyProfile) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c.ID = model.CompanyProfileID
	if c.UpdatedAt.IsZero() {
		c.UpdatedAt = time.Now().UTC()
	}
	r.s.company = *c
	return nil
}

func (r settingsRepo) ListPolicies(_ context.Context) ([]*model.MaintenancePolicy, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.policies.list(nil), nil
}

func (r settingsRepo) GetPolicy(_ context.Context, id string) (*model.MaintenancePolicy, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.policies.get(id)
}

func (r settingsRepo) CreatePolicy(_ context.Context, p *model.MaintenancePolicy) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.policies.insert(p)
}

func (r settingsRepo) UpdatePolicy(_ context.Context, p *model.MaintenancePolicy) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.policies.update(p)
}

func (r settingsRepo) DeletePolicy(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.policies.remove(id)
}
