package sqlstore

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/samber/lo"

	"github.com/cmmsmind/backend/internal/model"
)

var workOrders = mapper[model.WorkOrder, *model.WorkOrder]{
	name:   "work order",
	table:  "work_orders",
	prefix: model.PrefixWorkOrder,
	columns: []string{
		"asset_id", "asset_name", "title", "description", "priority", "status", "requested_by",
		"assigned_to", "scheduled_date", "due_date", "completed_date", "cost", "spare_parts_used",
		"labor_hours", "notes",
	},
	values: func(w *model.WorkOrder) []any {
		return []any{
			w.AssetID, w.AssetName, w.Title, w.Description, string(w.Priority), string(w.Status), w.RequestedBy,
			w.AssignedTo, dayValue(w.ScheduledDate), dayValue(w.DueDate), nullDayValue(w.CompletedDate), w.Cost,
			jsonValue(w.SparePartsUsed), w.LaborHours, w.Notes,
		}
	},
	dest: func(w *model.WorkOrder) []any {
		return []any{
			&w.AssetID, &w.AssetName, &w.Title, &w.Description, &w.Priority, &w.Status, &w.RequestedBy,
			&w.AssignedTo, &w.ScheduledDate, &w.DueDate, &w.CompletedDate, &w.Cost, jsonText{&w.SparePartsUsed},
			&w.LaborHours, &w.Notes,
		}
	},
}

type workOrderRepo struct{ s *Store }

func workOrderWhere(f model.WorkOrderFilter) sq.And {
	where := sq.And{}
	if len(f.Statuses) > 0 {
		statuses := lo.Map(f.Statuses, func(s model.WorkOrderStatus, _ int) string { return string(s) })
		where = append(where, sq.Eq{"status": statuses})
	}
	if f.AssetID != "" {
		where = append(where, sq.Eq{"asset_id": f.AssetID})
	}
	if f.Priority != "" {
		where = append(where, sq.Eq{"priority": string(f.Priority)})
	}
	if f.AssignedTo != "" {
		where = append(where, sq.Eq{"assigned_to": f.AssignedTo})
	}
	if f.DueFrom != nil {
		where = append(where, sq.GtOrEq{"due_date": f.DueFrom.String()})
	}
	if f.DueTo != nil {
		where = append(where, sq.LtOrEq{"due_date": f.DueTo.String()})
	}
	return where
}

func (r workOrderRepo) List(ctx context.Context, f model.WorkOrderFilter) ([]*model.WorkOrder, error) {
	return workOrders.list(ctx, r.s.conn, workOrderWhere(f))
}

func (r workOrderRepo) GetByID(ctx context.Context, id string) (*model.WorkOrder, error) {
	return workOrders.get(ctx, r.s.conn, id)
}

func (r workOrderRepo) Create(ctx context.Context, w *model.WorkOrder) error {
	return workOrders.insert(ctx, r.s.conn, w)
}

func (r workOrderRepo) Update(ctx context.Context, w *model.WorkOrder) error {
	return workOrders.update(ctx, r.s.conn, w)
}

func (r workOrderRepo) Delete(ctx context.Context, id string) error {
	return workOrders.remove(ctx, r.s.conn, id)
}

func (r workOrderRepo) UpdateStatus(ctx context.Context, id string, status model.WorkOrderStatus) (*model.WorkOrder, error) {
	var wo *model.WorkOrder
	err := r.s.withTx(ctx, func(c conn) error {
		var err error
		if wo, err = workOrders.get(ctx, c, id); err != nil {
			return err
		}
		wo.Status = status
		if status == model.WorkOrderCompleted {
			wo.CompletedDate = model.DatePtr(model.DateOf(now()))
		}
		return workOrders.update(ctx, c, wo)
	})
	if err != nil {
		return nil, err
	}
	return wo, nil
}
