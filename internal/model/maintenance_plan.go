package model

import "slices"

// MaintenanceType says what triggers a preventive plan.
type MaintenanceType string

const (
	MaintenanceTimeBased  MaintenanceType = "TIME_BASED"
	MaintenanceMeterBased MaintenanceType = "METER_BASED"
)

// MaintenancePlan schedules recurring preventive work on an asset.
type MaintenancePlan struct {
	BaseEntity        `yaml:",inline"`
	AssetID           string          `json:"assetId" yaml:"assetId" db:"asset_id"`
	AssetName         string          `json:"assetName" yaml:"assetName" db:"asset_name"`
	Type              MaintenanceType `json:"type" yaml:"type" db:"type"`
	IntervalDays      *int            `json:"intervalDays,omitempty" yaml:"intervalDays" db:"interval_days"`
	IntervalMeter     *int            `json:"intervalMeter,omitempty" yaml:"intervalMeter" db:"interval_meter"`
	LastExecutionDate *Date           `json:"lastExecutionDate,omitempty" yaml:"lastExecutionDate" db:"last_execution_date"`
	NextDueDate       Date            `json:"nextDueDate" yaml:"nextDueDate" db:"next_due_date"`
	TaskDescription   string          `json:"taskDescription" yaml:"taskDescription" db:"task_description"`
	IsActive          bool            `json:"isActive" yaml:"isActive" db:"is_active"`
	EstimatedDuration float64         `json:"estimatedDuration" yaml:"estimatedDuration" db:"estimated_duration"`
	RequiredParts     []string        `json:"requiredParts" yaml:"requiredParts" db:"required_parts"`
}

func (p MaintenancePlan) Clone() MaintenancePlan {
	p.RequiredParts = slices.Clone(p.RequiredParts)
	return p
}

// PlanFilter narrows maintenance plan listings.
type PlanFilter struct {
	AssetID string
	Type    MaintenanceType
	Active  *bool
	// DueFrom and DueTo bound the next due date inclusively.
	DueFrom *Date
	DueTo   *Date
}

type PlanCreateRequest struct {
	AssetID           string          `json:"assetId"`
	AssetName         string          `json:"assetName"`
	Type              MaintenanceType `json:"type"`
	IntervalDays      *int            `json:"intervalDays"`
	IntervalMeter     *int            `json:"intervalMeter"`
	LastExecutionDate *Date           `json:"lastExecutionDate"`
	NextDueDate       Date            `json:"nextDueDate"`
	TaskDescription   string          `json:"taskDescription"`
	IsActive          *bool           `json:"isActive"`
	EstimatedDuration float64         `json:"estimatedDuration"`
	RequiredParts     []string        `json:"requiredParts"`
}

func (r PlanCreateRequest) Validate() map[string]string {
	errs := map[string]string{}
	if r.AssetID == "" {
		errs["assetId"] = "is required"
	}
	switch r.Type {
	case MaintenanceTimeBased:
		if r.IntervalDays == nil || *r.IntervalDays <= 0 {
			errs["intervalDays"] = "is required for TIME_BASED plans"
		}
	case MaintenanceMeterBased:
		if r.IntervalMeter == nil || *r.IntervalMeter <= 0 {
			errs["intervalMeter"] = "is required for METER_BASED plans"
		}
	default:
		errs["type"] = "must be TIME_BASED or METER_BASED"
	}
	if r.NextDueDate.IsZero() {
		errs["nextDueDate"] = "is required"
	}
	if r.TaskDescription == "" {
		errs["taskDescription"] = "is required"
	}
	return errs
}

func (r PlanCreateRequest) ToPlan() *MaintenancePlan {
	active := true
	if r.IsActive != nil {
		active = *r.IsActive
	}
	parts := r.RequiredParts
	if parts == nil {
		parts = []string{}
	}
	return &MaintenancePlan{
		BaseEntity:        NewBaseEntity(PrefixPlan),
		AssetID:           r.AssetID,
		AssetName:         r.AssetName,
		Type:              r.Type,
		IntervalDays:      r.IntervalDays,
		IntervalMeter:     r.IntervalMeter,
		LastExecutionDate: r.LastExecutionDate,
		NextDueDate:       r.NextDueDate,
		TaskDescription:   r.TaskDescription,
		IsActive:          active,
		EstimatedDuration: r.EstimatedDuration,
		RequiredParts:     parts,
	}
}

type PlanUpdateRequest struct {
	AssetID           *string          `json:"assetId"`
	AssetName         *string          `json:"assetName"`
	Type              *MaintenanceType `json:"type"`
	IntervalDays      *int             `json:"intervalDays"`
	IntervalMeter     *int             `json:"intervalMeter"`
	LastExecutionDate *Date            `json:"lastExecutionDate"`
	NextDueDate       *Date            `json:"nextDueDate"`
	TaskDescription   *string          `json:"taskDescription"`
	IsActive          *bool            `json:"isActive"`
	EstimatedDuration *float64         `json:"estimatedDuration"`
	RequiredParts     []string         `json:"requiredParts"`
}

func (r PlanUpdateRequest) Apply(p *MaintenancePlan) {
	setIf(&p.AssetID, r.AssetID)
	setIf(&p.AssetName, r.AssetName)
	setIf(&p.Type, r.Type)
	setIf(&p.NextDueDate, r.NextDueDate)
	setIf(&p.TaskDescription, r.TaskDescription)
	setIf(&p.IsActive, r.IsActive)
	setIf(&p.EstimatedDuration, r.EstimatedDuration)
	if r.IntervalDays != nil {
		p.IntervalDays = r.IntervalDays
	}
	if r.IntervalMeter != nil {
		p.IntervalMeter = r.IntervalMeter
	}
	if r.LastExecutionDate != nil {
		p.LastExecutionDate = r.LastExecutionDate
	}
	if r.RequiredParts != nil {
		p.RequiredParts = r.RequiredParts
	}
}
