package sqlstore

import (
	"context"

	sq "github.com/Masterminds/squirrel"

	"github.com/cmmsmind/backend/internal/model"
)

var plans = mapper[model.MaintenancePlan, *model.MaintenancePlan]{
	name:   "maintenance plan",
	table:  "maintenance_plans",
	prefix: model.PrefixPlan,
	columns: []string{
		"asset_id", "asset_name", "type", "interval_days", "interval_meter", "last_execution_date",
		"next_due_date", "task_description", "is_active", "estimated_duration", "required_parts",
	},
	values: func(p *model.MaintenancePlan) []any {
		return []any{
			p.AssetID, p.AssetName, string(p.Type), nullIntValue(p.IntervalDays), nullIntValue(p.IntervalMeter),
			nullDayValue(p.LastExecutionDate), dayValue(p.NextDueDate), p.TaskDescription, p.IsActive,
			p.EstimatedDuration, jsonValue(p.RequiredParts),
		}
	},
	dest: func(p *model.MaintenancePlan) []any {
		return []any{
			&p.AssetID, &p.AssetName, &p.Type, &p.IntervalDays, &p.IntervalMeter,
			&p.LastExecutionDate, &p.NextDueDate, &p.TaskDescription, &p.IsActive,
			&p.EstimatedDuration, jsonText{&p.RequiredParts},
		}
	},
}

type planRepo struct{ s *Store }

func (r planRepo) List(ctx context.Context, f model.PlanFilter) ([]*model.MaintenancePlan, error) {
	where := sq.And{}
	if f.AssetID != "" {
		where = append(where, sq.Eq{"asset_id": f.AssetID})
	}
	if f.Type != "" {
		where = append(where, sq.Eq{"type": string(f.Type)})
	}
	if f.Active != nil {
		where = append(where, sq.Eq{"is_active": *f.Active})
	}
	if f.DueFrom != nil {
		where = append(where, sq.GtOrEq{"next_due_date": f.DueFrom.String()})
	}
	if f.DueTo != nil {
		where = append(where, sq.LtOrEq{"next_due_date": f.DueTo.String()})
	}
	return plans.list(ctx, r.s.conn, where)
}

func (r planRepo) GetByID(ctx context.Context, id string) (*model.MaintenancePlan, error) {
	return plans.get(ctx, r.s.conn, id)
}

func (r planRepo) Create(ctx context.Context, p *model.MaintenancePlan) error {
	return plans.insert(ctx, r.s.conn, p)
}

func (r planRepo) Update(ctx context.Context, p *model.MaintenancePlan) error {
	return plans.update(ctx, r.s.conn, p)
}

func (r planRepo) Delete(ctx context.Context, id string) error {
	return plans.remove(ctx, r.s.conn, id)
}
