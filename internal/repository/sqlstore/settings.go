package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/cmmsmind/backend/internal/model"
)

var policies = mapper[model.MaintenancePolicy, *model.MaintenancePolicy]{
	name:   "policy",
	table:  "maintenance_policies",
	prefix: model.PrefixPolicy,
	columns: []string{
		"name", "description", "default_interval_days", "require_approval",
		"notify_before_days", "escalate_overdue_days", "is_active",
	},
	values: func(p *model.MaintenancePolicy) []any {
		return []any{
			p.Name, p.Description, p.DefaultIntervalDays, p.RequireApproval,
			p.NotifyBeforeDays, p.EscalateOverdueDays, p.IsActive,
		}
	},
	dest: func(p *model.MaintenancePolicy) []any {
		return []any{
			&p.Name, &p.Description, &p.DefaultIntervalDays, &p.RequireApproval,
			&p.NotifyBeforeDays, &p.EscalateOverdueDays, &p.IsActive,
		}
	},
}

const companyTable = "company_profile"

type settingsRepo struct{ s *Store }

func companyFields(c *model.CompanyProfile) sq.Eq {
	return sq.Eq{
		"name":       c.Name,
		"address":    c.Address,
		"city":       c.City,
		"country":    c.Country,
		"phone":      c.Phone,
		"email":      c.Email,
		"website":    c.Website,
		"tax_id":     c.TaxID,
		"industry":   c.Industry,
		"updated_at": stampValue(c.UpdatedAt),
	}
}

// Company returns an empty profile until one has been saved.
func (r settingsRepo) Company(ctx context.Context) (*model.CompanyProfile, error) {
	c := model.CompanyProfile{ID: model.CompanyProfileID}
	b := r.s.sb.
		Select("name", "address", "city", "country", "phone", "email", "website", "tax_id", "industry", "updated_at").
		From(companyTable).
		Where(sq.Eq{"id": model.CompanyProfileID})
	err := r.s.queryRow(ctx, b, &c.Name, &c.Address, &c.City, &c.Country, &c.Phone, &c.Email,
		&c.Website, &c.TaxID, &c.Industry, stamp{&c.UpdatedAt})
	if errors.Is(err, sql.ErrNoRows) {
		return &c, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get company profile: %w", err)
	}
	return &c, nil
}

func (r settingsRepo) UpdateCompany(ctx context.Context, c *model.CompanyProfile) error {
	c.ID = model.CompanyProfileID
	if c.UpdatedAt.IsZero() {
		c.UpdatedAt = now()
	}
	fields := companyFields(c)

	return r.s.withTx(ctx, func(tx conn) error {
		n, err := tx.exec(ctx, tx.sb.Update(companyTable).SetMap(fields).Where(sq.Eq{"id": c.ID}))
		if err != nil {
			return fmt.Errorf("update company profile: %w", err)
		}
		if n > 0 {
			return nil
		}
		fields["id"] = c.ID
		if _, err := tx.exec(ctx, tx.sb.Insert(companyTable).SetMap(fields)); err != nil {
			return fmt.Errorf("insert company profile: %w", err)
		}
		return nil
	})
}

func (r settingsRepo) ListPolicies(ctx context.Context) ([]*model.MaintenancePolicy, error) {
	return policies.list(ctx, r.s.conn, nil)
}

func (r settingsRepo) GetPolicy(ctx context.Context, id string) (*model.MaintenancePolicy, error) {
	return policies.get(ctx, r.s.conn, id)
}

func (r settingsRepo) CreatePolicy(ctx context.Context, p *model.MaintenancePolicy) error {
	return policies.insert(ctx, r.s.conn, p)
}

func (r settingsRepo) UpdatePolicy(ctx context.Context, p *model.MaintenancePolicy) error {
	return policies.update(ctx, r.s.conn, p)
}

func (r settingsRepo) DeletePolicy(ctx context.Context, id string) error {
	return policies.remove(ctx, r.s.conn, id)
}
