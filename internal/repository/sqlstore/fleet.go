package sqlstore

import (
	"context"
	"errors"
	"strings"

	sq "github.com/Masterminds/squirrel"

	"github.com/cmmsmind/backend/internal/model"
	"github.com/cmmsmind/backend/internal/repository"
)

var vehicles = mapper[model.FleetVehicle, *model.FleetVehicle]{
	name:   "fleet vehicle",
	table:  "fleet_vehicles",
	prefix: model.PrefixFleet,
	columns: []string{
		"asset_id", "plate_number", "type", "brand", "model", "year", "odometer", "last_known_location",
		"last_gps_timestamp", "status", "fuel_type", "vin", "insurance_expiry", "registration_expiry",
	},
	values: func(v *model.FleetVehicle) []any {
		return []any{
			v.AssetID, v.PlateNumber, v.Type, v.Brand, v.Model, v.Year, v.Odometer, jsonValue(v.LastKnownLocation),
			stampValue(v.LastGPSTimestamp), string(v.Status), v.FuelType, v.VIN, nullDayValue(v.InsuranceExpiry),
			nullDayValue(v.RegistrationExpiry),
		}
	},
	dest: func(v *model.FleetVehicle) []any {
		return []any{
			&v.AssetID, &v.PlateNumber, &v.Type, &v.Brand, &v.Model, &v.Year, &v.Odometer, jsonText{&v.LastKnownLocation},
			stamp{&v.LastGPSTimestamp}, &v.Status, &v.FuelType, &v.VIN, &v.InsuranceExpiry, &v.RegistrationExpiry,
		}
	},
}

type fleetRepo struct{ s *Store }

func (r fleetRepo) List(ctx context.Context, f model.FleetFilter) ([]*model.FleetVehicle, error) {
	where := sq.And{}
	if f.Status != "" {
		where = append(where, sq.Eq{"status": string(f.Status)})
	}
	if f.Type != "" {
		where = append(where, sq.Eq{"LOWER(type)": strings.ToLower(f.Type)})
	}
	if f.Query != "" {
		where = append(where, search(f.Query, "plate_number", "brand", "model", "type"))
	}
	return vehicles.list(ctx, r.s.conn, where)
}

func (r fleetRepo) GetByID(ctx context.Context, id string) (*model.FleetVehicle, error) {
	return vehicles.get(ctx, r.s.conn, id)
}

func (r fleetRepo) GetByAssetID(ctx context.Context, assetID string) (*model.FleetVehicle, error) {
	return r.findBy(ctx, sq.Eq{"asset_id": assetID}, assetID)
}

func (r fleetRepo) GetByPlate(ctx context.Context, plate string) (*model.FleetVehicle, error) {
	return r.findBy(ctx, sq.Eq{"LOWER(plate_number)": strings.ToLower(plate)}, plate)
}

func (r fleetRepo) findBy(ctx context.Context, where sq.Sqlizer, key string) (*model.FleetVehicle, error) {
	v, err := vehicles.find(ctx, r.s.conn, where)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, vehicles.notFound(key)
	}
	return v, err
}

func (r fleetRepo) Create(ctx context.Context, v *model.FleetVehicle) error {
	return vehicles.insert(ctx, r.s.conn, v)
}

func (r fleetRepo) Update(ctx context.Context, v *model.FleetVehicle) error {
	return vehicles.update(ctx, r.s.conn, v)
}

func (r fleetRepo) Delete(ctx context.Context, id string) error {
	return vehicles.remove(ctx, r.s.conn, id)
}
