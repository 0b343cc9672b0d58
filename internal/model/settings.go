package model

import "time"

// CompanyProfileID is the identifier of the single company profile row.
const CompanyProfileID = "COMPANY"

// CompanyProfile holds organisation details shown on reports.
type CompanyProfile struct {
	ID        string    `json:"id" yaml:"id" db:"id"`
	Name      string    `json:"name" yaml:"name" db:"name"`
	Address   string    `json:"address" yaml:"address" db:"address"`
	City      string    `json:"city" yaml:"city" db:"city"`
	Country   string    `json:"country" yaml:"country" db:"country"`
	Phone     string    `json:"phone" yaml:"phone" db:"phone"`
	Email     string    `json:"email" yaml:"email" db:"email"`
	Website   string    `json:"website,omitempty" yaml:"website" db:"website"`
	TaxID     string    `json:"taxId,omitempty" yaml:"taxId" db:"tax_id"`
	Industry  string    `json:"industry" yaml:"industry" db:"industry"`
	UpdatedAt time.Time `json:"updatedAt" yaml:"updatedAt" db:"updated_at"`
}

type CompanyUpdateRequest struct {
	Name     *string `json:"name"`
	Address  *string `json:"address"`
	City     *string `json:"city"`
	Country  *string `json:"country"`
	Phone    *string `json:"phone"`
	Email    *string `json:"email"`
	Website  *string `json:"website"`
	TaxID    *string `json:"taxId"`
	Industry *string `json:"industry"`
}

func (r CompanyUpdateRequest) Apply(c *CompanyProfile) {
	setIf(&c.Name, r.Name)
	setIf(&c.Address, r.Address)
	setIf(&c.City, r.City)
	setIf(&c.Country, r.Country)
	setIf(&c.Phone, r.Phone)
	setIf(&c.Email, r.Email)
	setIf(&c.Website, r.Website)
	setIf(&c.TaxID, r.TaxID)
	setIf(&c.Industry, r.Industry)
	c.UpdatedAt = time.Now().UTC()
}

// MaintenancePolicy sets defaults for preventive maintenance and escalation.
type MaintenancePolicy struct {
	BaseEntity          `yaml:",inline"`
	Name                string `json:"name" yaml:"name" db:"name"`
	Description         string `json:"description" yaml:"description" db:"description"`
	DefaultIntervalDays int    `json:"defaultIntervalDays" yaml:"defaultIntervalDays" db:"default_interval_days"`
	RequireApproval     bool   `json:"requireApproval" yaml:"requireApproval" db:"require_approval"`
	NotifyBeforeDays    int    `json:"notifyBeforeDays" yaml:"notifyBeforeDays" db:"notify_before_days"`
	EscalateOverdueDays int    `json:"escalateOverdueDays" yaml:"escalateOverdueDays" db:"escalate_overdue_days"`
	IsActive            bool   `json:"isActive" yaml:"isActive" db:"is_active"`
}

type PolicyCreateRequest struct {
	Name                string `json:"name"`
	Description         string `json:"description"`
	DefaultIntervalDays int    `json:"defaultIntervalDays"`
	RequireApproval     bool   `json:"requireApproval"`
	NotifyBeforeDays    int    `json:"notifyBeforeDays"`
	EscalateOverdueDays int    `json:"escalateOverdueDays"`
	IsActive            *bool  `json:"isActive"`
}

func (r PolicyCreateRequest) Validate() map[string]string {
	errs := map[string]string{}
	if r.Name == "" {
		errs["name"] = "is required"
	}
	if r.DefaultIntervalDays <= 0 {
		errs["defaultIntervalDays"] = "must be positive"
	}
	if r.NotifyBeforeDays < 0 {
		errs["notifyBeforeDays"] = "must not be negative"
	}
	if r.EscalateOverdueDays < 0 {
		errs["escalateOverdueDays"] = "must not be negative"
	}
	return errs
}

func (r PolicyCreateRequest) ToPolicy() *MaintenancePolicy {
	active := true
	if r.IsActive != nil {
		active = *r.IsActive
	}
	return &MaintenancePolicy{
		BaseEntity:          NewBaseEntity(PrefixPolicy),
		Name:                r.Name,
		Description:         r.Description,
		DefaultIntervalDays: r.DefaultIntervalDays,
		RequireApproval:     r.RequireApproval,
		NotifyBeforeDays:    r.NotifyBeforeDays,
		EscalateOverdueDays: r.EscalateOverdueDays,
		IsActive:            active,
	}
}

type PolicyUpdateRequest struct {
	Name                *string `json:"name"`
	Description         *string `json:"description"`
	DefaultIntervalDays *int    `json:"defaultIntervalDays"`
	RequireApproval     *bool   `json:"requireApproval"`
	NotifyBeforeDays    *int    `json:"notifyBeforeDays"`
	EscalateOverdueDays *int    `json:"escalateOverdueDays"`
	IsActive            *bool   `json:"isActive"`
}

func (r PolicyUpdateRequest) Apply(p *MaintenancePolicy) {
	setIf(&p.Name, r.Name)
	setIf(&p.Description, r.Description)
	setIf(&p.DefaultIntervalDays, r.DefaultIntervalDays)
	setIf(&p.RequireApproval, r.RequireApproval)
	setIf(&p.NotifyBeforeDays, r.NotifyBeforeDays)
	setIf(&p.EscalateOverdueDays, r.EscalateOverdueDays)
	setIf(&p.IsActive, r.IsActive)
}
