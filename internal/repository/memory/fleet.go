package memory

import (
	"context"
	"strings"

	"github.com/cmmsmind/backend/internal/model"
)

type fleetRepo struct{ s *Store }

func matchVehicle(f model.FleetFilter, v *model.FleetVehicle) bool {
	if f.Status != "" && v.Status != f.Status {
		return false
	}
	if f.Type != "" && !strings.EqualFold(v.Type, f.Type) {
		return false
	}
	return contains(f.Query, v.PlateNumber, v.Brand, v.Model, v.Type)
}

func (r fleetRepo) List(_ context.Context, f model.FleetFilter) ([]*model.FleetVehicle, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.fleet.list(func(v *model.FleetVehicle) bool { return matchVehicle(f, v) }), nil
}

func (r fleetRepo) GetByID(_ context.Context, id string) (*model.FleetVehicle, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.fleet.get(id)
}

func (r fleetRepo) GetByAssetID(_ context.Context, assetID string) (*model.FleetVehicle, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.fleet.find(func(v *model.FleetVehicle) bool { return v.AssetID == assetID })
}

func (r fleetRepo) GetByPlate(_ context.Context, plate string) (*model.FleetVehicle, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.fleet.find(func(v *model.FleetVehicle) bool { return strings.EqualFold(v.PlateNumber, plate) })
}

func (r fleetRepo) Create(_ context.Context, v *model.FleetVehicle) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.fleet.insert(v)
}

func (r fleetRepo) Update(_ context.Context, v *model.FleetVehicle) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.fleet.update(v)
}

func (r fleetRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.fleet.remove(id)
}
