package sqlstore

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/cmmsmind/backend/internal/model"
)

var parts = mapper[model.SparePart, *model.SparePart]{
	name:   "spare part",
	table:  "spare_parts",
	prefix: model.PrefixSparePart,
	columns: []string{
		"code", "description", "category", "unit", "current_stock", "min_stock", "max_stock", "warehouse",
		"warehouse_location_id", "warehouse_location_name", "unit_cost", "sap_item_code", "supplier", "lead_time_days",
	},
	values: func(p *model.SparePart) []any {
		return []any{
			p.Code, p.Description, p.Category, p.Unit, p.CurrentStock, p.MinStock, nullIntValue(p.MaxStock), p.Warehouse,
			p.WarehouseLocationID, p.WarehouseLocationName, p.UnitCost, p.SAPItemCode, p.Supplier, p.LeadTimeDays,
		}
	},
	dest: func(p *model.SparePart) []any {
		return []any{
			&p.Code, &p.Description, &p.Category, &p.Unit, &p.CurrentStock, &p.MinStock, &p.MaxStock, &p.Warehouse,
			&p.WarehouseLocationID, &p.WarehouseLocationName, &p.UnitCost, &p.SAPItemCode, &p.Supplier, &p.LeadTimeDays,
		}
	},
}

var movements = mapper[model.InventoryMovement, *model.InventoryMovement]{
	name:   "inventory movement",
	table:  "inventory_movements",
	prefix: model.PrefixMovement,
	columns: []string{
		"part_id", "part_code", "part_name", "type", "quantity", "unit_cost", "total_cost",
		"reference_work_order_id", "warehouse", "warehouse_location_id", "performed_by", "notes",
	},
	values: func(m *model.InventoryMovement) []any {
		return []any{
			m.PartID, m.PartCode, m.PartName, string(m.Type), m.Quantity, m.UnitCost, m.TotalCost,
			m.ReferenceWorkOrderID, m.Warehouse, m.WarehouseLocationID, m.PerformedBy, m.Notes,
		}
	},
	dest: func(m *model.InventoryMovement) []any {
		return []any{
			&m.PartID, &m.PartCode, &m.PartName, &m.Type, &m.Quantity, &m.UnitCost, &m.TotalCost,
			&m.ReferenceWorkOrderID, &m.Warehouse, &m.WarehouseLocationID, &m.PerformedBy, &m.Notes,
		}
	},
}

type partRepo struct{ s *Store }

func (r partRepo) List(ctx context.Context, f model.PartFilter) ([]*model.SparePart, error) {
	where := sq.And{}
	if f.Category != "" {
		where = append(where, sq.Eq{"category": f.Category})
	}
	if f.LowStock {
		where = append(where, sq.Expr("current_stock < min_stock"))
	}
	if f.Query != "" {
		where = append(where, search(f.Query, "code", "description", "category"))
	}
	return parts.list(ctx, r.s.conn, where)
}

func (r partRepo) GetByID(ctx context.Context, id string) (*model.SparePart, error) {
	return parts.get(ctx, r.s.conn, id)
}

func (r partRepo) Create(ctx context.Context, p *model.SparePart) error {
	return parts.insert(ctx, r.s.conn, p)
}

func (r partRepo) Update(ctx context.Context, p *model.SparePart) error {
	return parts.update(ctx, r.s.conn, p)
}

func (r partRepo) Delete(ctx context.Context, id string) error {
	return parts.remove(ctx, r.s.conn, id)
}

func (r partRepo) AdjustStock(ctx context.Context, id string, delta int) (*model.SparePart, error) {
	var part *model.SparePart
	err := r.s.withTx(ctx, func(c conn) error {
		var err error
		part, err = r.s.adjustStock(ctx, c, id, delta)
		return err
	})
	if err != nil {
		return nil, err
	}
	return part, nil
}

// adjustStock applies delta in the database so concurrent movements
// cannot lose updates. Stock never drops below zero.
func (s *Store) adjustStock(ctx context.Context, c conn, id string, delta int) (*model.SparePart, error) {
	clamp := sq.Expr(fmt.Sprintf("%s(current_stock + ?, 0)", s.dialect.greatest()), delta)
	b := c.sb.Update(parts.table).
		Set("current_stock", clamp).
		Set("updated_at", stampValue(now())).
		Where(sq.Eq{"id": id})
	n, err := c.exec(ctx, b)
	if err != nil {
		return nil, fmt.Errorf("adjust stock: %w", err)
	}
	if n == 0 {
		return nil, parts.notFound(id)
	}
	return parts.get(ctx, c, id)
}

func (r partRepo) Categories(ctx context.Context) ([]string, error) {
	return r.s.distinct(ctx, parts.table, "category", false)
}

type movementRepo struct{ s *Store }

func (r movementRepo) List(ctx context.Context, f model.MovementFilter) ([]*model.InventoryMovement, error) {
	where := sq.And{}
	if f.PartID != "" {
		where = append(where, sq.Eq{"part_id": f.PartID})
	}
	if f.WorkOrderID != "" {
		where = append(where, sq.Eq{"reference_work_order_id": f.WorkOrderID})
	}
	return movements.list(ctx, r.s.conn, where)
}

func (r movementRepo) GetByID(ctx context.Context, id string) (*model.InventoryMovement, error) {
	return movements.get(ctx, r.s.conn, id)
}

func (r movementRepo) Record(ctx context.Context, m *model.InventoryMovement) (*model.SparePart, error) {
	var part *model.SparePart
	err := r.s.withTx(ctx, func(c conn) error {
		if _, err := parts.get(ctx, c, m.PartID); err != nil {
			return err
		}
		if err := movements.insert(ctx, c, m); err != nil {
			return err
		}
		var err error
		part, err = r.s.adjustStock(ctx, c, m.PartID, m.Type.StockDelta(m.Quantity))
		return err
	})
	if err != nil {
		return nil, err
	}
	return part, nil
}
