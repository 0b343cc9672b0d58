package sqlstore

import (
	"context"
	"errors"
	"strings"

	sq "github.com/Masterminds/squirrel"

	"github.com/cmmsmind/backend/internal/model"
	"github.com/cmmsmind/backend/internal/repository"
)

var assets = mapper[model.Asset, *model.Asset]{
	name:   "asset",
	table:  "assets",
	prefix: model.PrefixAsset,
	columns: []string{
		"code", "name", "category", "location", "status", "purchase_date", "purchase_cost",
		"useful_life_years", "depreciation_method", "residual_value", "tags", "assigned_to",
		"is_fleet", "description", "manufacturer", "model", "serial_number", "warranty_expiry",
	},
	values: func(a *model.Asset) []any {
		return []any{
			a.Code, a.Name, a.Category, a.Location, string(a.Status), dayValue(a.PurchaseDate), a.PurchaseCost,
			a.UsefulLifeYears, string(a.DepreciationMethod), a.ResidualValue, jsonValue(a.Tags), a.AssignedTo,
			a.IsFleet, a.Description, a.Manufacturer, a.Model, a.SerialNumber, nullDayValue(a.WarrantyExpiry),
		}
	},
	dest: func(a *model.Asset) []any {
		return []any{
			&a.Code, &a.Name, &a.Category, &a.Location, &a.Status, &a.PurchaseDate, &a.PurchaseCost,
			&a.UsefulLifeYears, &a.DepreciationMethod, &a.ResidualValue, jsonText{&a.Tags}, &a.AssignedTo,
			&a.IsFleet, &a.Description, &a.Manufacturer, &a.Model, &a.SerialNumber, &a.WarrantyExpiry,
		}
	},
}

type assetRepo struct{ s *Store }

func (r assetRepo) List(ctx context.Context, f model.AssetFilter) ([]*model.Asset, error) {
	where := sq.And{}
	if f.Category != "" {
		where = append(where, sq.Eq{"category": f.Category})
	}
	if f.Status != "" {
		where = append(where, sq.Eq{"status": string(f.Status)})
	}
	if f.Query != "" {
		where = append(where, search(f.Query, "name", "code", "category", "location"))
	}
	return assets.list(ctx, r.s.conn, where)
}

func (r assetRepo) GetByID(ctx context.Context, id string) (*model.Asset, error) {
	return assets.get(ctx, r.s.conn, id)
}

func (r assetRepo) GetByCode(ctx context.Context, code string) (*model.Asset, error) {
	a, err := assets.find(ctx, r.s.conn, sq.Eq{"LOWER(code)": strings.ToLower(code)})
	if errors.Is(err, repository.ErrNotFound) {
		return nil, assets.notFound(code)
	}
	return a, err
}

func (r assetRepo) Create(ctx context.Context, a *model.Asset) error {
	return assets.insert(ctx, r.s.conn, a)
}

func (r assetRepo) Update(ctx context.Context, a *model.Asset) error {
	return assets.update(ctx, r.s.conn, a)
}

func (r assetRepo) Delete(ctx context.Context, id string) error {
	return assets.remove(ctx, r.s.conn, id)
}

func (r assetRepo) Categories(ctx context.Context) ([]string, error) {
	return r.s.distinct(ctx, assets.table, "category", false)
}
