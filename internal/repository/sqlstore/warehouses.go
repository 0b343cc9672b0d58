package sqlstore

import (
	"context"

	sq "github.com/Masterminds/squirrel"

	"github.com/cmmsmind/backend/internal/model"
)

var warehouses = mapper[model.WarehouseLocation, *model.WarehouseLocation]{
	name:   "warehouse",
	table:  "warehouse_locations",
	prefix: model.PrefixWarehouse,
	columns: []string{
		"code", "name", "type", "region", "factory", "address", "city", "country",
		"is_active", "capacity", "manager", "phone",
	},
	values: func(w *model.WarehouseLocation) []any {
		return []any{
			w.Code, w.Name, string(w.Type), w.Region, w.Factory, w.Address, w.City, w.Country,
			w.IsActive, w.Capacity, w.Manager, w.Phone,
		}
	},
	dest: func(w *model.WarehouseLocation) []any {
		return []any{
			&w.Code, &w.Name, &w.Type, &w.Region, &w.Factory, &w.Address, &w.City, &w.Country,
			&w.IsActive, &w.Capacity, &w.Manager, &w.Phone,
		}
	},
}

type warehouseRepo struct{ s *Store }

func (r warehouseRepo) List(ctx context.Context, f model.WarehouseFilter) ([]*model.WarehouseLocation, error) {
	where := sq.And{}
	if f.Type != "" {
		where = append(where, sq.Eq{"type": string(f.Type)})
	}
	if f.Region != "" {
		where = append(where, sq.Eq{"region": f.Region})
	}
	if f.Factory != "" {
		where = append(where, sq.Eq{"factory": f.Factory})
	}
	if f.Active != nil {
		where = append(where, sq.Eq{"is_active": *f.Active})
	}
	return warehouses.list(ctx, r.s.conn, where)
}

func (r warehouseRepo) GetByID(ctx context.Context, id string) (*model.WarehouseLocation, error) {
	return warehouses.get(ctx, r.s.conn, id)
}

func (r warehouseRepo) Create(ctx context.Context, w *model.WarehouseLocation) error {
	return warehouses.insert(ctx, r.s.conn, w)
}

func (r warehouseRepo) Update(ctx context.Context, w *model.WarehouseLocation) error {
	return warehouses.update(ctx, r.s.conn, w)
}

func (r warehouseRepo) Delete(ctx context.Context, id string) error {
	return warehouses.remove(ctx, r.s.conn, id)
}

func (r warehouseRepo) Regions(ctx context.Context) ([]string, error) {
	return r.s.distinct(ctx, warehouses.table, "region", true)
}

func (r warehouseRepo) Factories(ctx context.Context) ([]string, error) {
	return r.s.distinct(ctx, warehouses.table, "factory", true)
}
