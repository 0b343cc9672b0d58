package model

import "slices"

// WorkOrderStatus represents where a work order is in its lifecycle.
type WorkOrderStatus string

const (
	WorkOrderPlanned    WorkOrderStatus = "Planned"
	WorkOrderInProgress WorkOrderStatus = "In Progress"
	WorkOrderCompleted  WorkOrderStatus = "Completed"
	WorkOrderOverdue    WorkOrderStatus = "Overdue"
	WorkOrderCancelled  WorkOrderStatus = "Cancelled"
)

// Valid reports whether s is a known work order status.
func (s WorkOrderStatus) Valid() bool {
	switch s {
	case WorkOrderPlanned, WorkOrderInProgress, WorkOrderCompleted, WorkOrderOverdue, WorkOrderCancelled:
		return true
	}
	return false
}

// Closed reports whether no further work is expected.
func (s WorkOrderStatus) Closed() bool {
	return s == WorkOrderCompleted || s == WorkOrderCancelled
}

// OpenWorkOrderStatuses are the statuses with outstanding work.
var OpenWorkOrderStatuses = []WorkOrderStatus{WorkOrderPlanned, WorkOrderInProgress, WorkOrderOverdue}

// PartUsage is a spare-parts line item on a work order.
type PartUsage struct {
	PartID    string  `json:"partId" yaml:"partId"`
	PartCode  string  `json:"partCode" yaml:"partCode"`
	PartName  string  `json:"partName" yaml:"partName"`
	Quantity  int     `json:"quantity" yaml:"quantity"`
	UnitCost  float64 `json:"unitCost" yaml:"unitCost"`
	TotalCost float64 `json:"totalCost" yaml:"totalCost"`
}

// WorkOrder is a maintenance job on an asset. Cost and parts totals are
// recorded independently.
type WorkOrder struct {
	BaseEntity     `yaml:",inline"`
	AssetID        string          `json:"assetId" yaml:"assetId" db:"asset_id"`
	AssetName      string          `json:"assetName" yaml:"assetName" db:"asset_name"`
	Title          string          `json:"title" yaml:"title" db:"title"`
	Description    string          `json:"description" yaml:"description" db:"description"`
	Priority       Priority        `json:"priority" yaml:"priority" db:"priority"`
	Status         WorkOrderStatus `json:"status" yaml:"status" db:"status"`
	RequestedBy    string          `json:"requestedBy" yaml:"requestedBy" db:"requested_by"`
	AssignedTo     string          `json:"assignedTo,omitempty" yaml:"assignedTo" db:"assigned_to"`
	ScheduledDate  Date            `json:"scheduledDate" yaml:"scheduledDate" db:"scheduled_date"`
	DueDate        Date            `json:"dueDate" yaml:"dueDate" db:"due_date"`
	CompletedDate  *Date           `json:"completedDate,omitempty" yaml:"completedDate" db:"completed_date"`
	Cost           float64         `json:"cost" yaml:"cost" db:"cost"`
	SparePartsUsed []PartUsage     `json:"sparePartsUsed" yaml:"sparePartsUsed" db:"spare_parts_used"`
	LaborHours     float64         `json:"laborHours,omitempty" yaml:"laborHours" db:"labor_hours"`
	Notes          string          `json:"notes,omitempty" yaml:"notes" db:"notes"`
}

// Clone returns a copy that shares no mutable state with w.
func (w WorkOrder) Clone() WorkOrder {
	w.SparePartsUsed = slices.Clone(w.SparePartsUsed)
	return w
}

// PartsCost sums the line-item totals.
func (w WorkOrder) PartsCost() float64 {
	var total float64
	for _, p := range w.SparePartsUsed {
		total += p.TotalCost
	}
	return total
}

// WorkOrderFilter narrows work order listings.
type WorkOrderFilter struct {
	Statuses   []WorkOrderStatus
	AssetID    string
	Priority   Priority
	AssignedTo string
	// DueFrom and DueTo bound the due date inclusively.
	DueFrom *Date
	DueTo   *Date
}

type WorkOrderCreateRequest struct {
	AssetID        string          `json:"assetId"`
	AssetName      string          `json:"assetName"`
	Title          string          `json:"title"`
	Description    string          `json:"description"`
	Priority       Priority        `json:"priority"`
	Status         WorkOrderStatus `json:"status"`
	RequestedBy    string          `json:"requestedBy"`
	AssignedTo     string          `json:"assignedTo"`
	ScheduledDate  Date            `json:"scheduledDate"`
	DueDate        Date            `json:"dueDate"`
	Cost           float64         `json:"cost"`
	SparePartsUsed []PartUsage     `json:"sparePartsUsed"`
	LaborHours     float64         `json:"laborHours"`
	Notes          string          `json:"notes"`
}

func (r WorkOrderCreateRequest) Validate() map[string]string {
	errs := map[string]string{}
	if r.AssetID == "" {
		errs["assetId"] = "is required"
	}
	if r.Title == "" {
		errs["title"] = "is required"
	}
	if r.Priority != "" && !r.Priority.Valid() {
		errs["priority"] = "is not a valid priority"
	}
	if r.Status != "" && !r.Status.Valid() {
		errs["status"] = "is not a valid work order status"
	}
	if r.Cost < 0 {
		errs["cost"] = "must not be negative"
	}
	for _, p := range r.SparePartsUsed {
		if p.Quantity <= 0 {
			errs["sparePartsUsed"] = "quantities must be positive"
			break
		}
	}
	return errs
}

func (r WorkOrderCreateRequest) ToWorkOrder() *WorkOrder {
	wo := &WorkOrder{
		BaseEntity:     NewBaseEntity(PrefixWorkOrder),
		AssetID:        r.AssetID,
		AssetName:      r.AssetName,
		Title:          r.Title,
		Description:    r.Description,
		Priority:       r.Priority,
		Status:         r.Status,
		RequestedBy:    r.RequestedBy,
		AssignedTo:     r.AssignedTo,
		ScheduledDate:  r.ScheduledDate,
		DueDate:        r.DueDate,
		Cost:           r.Cost,
		SparePartsUsed: normalizeParts(r.SparePartsUsed),
		LaborHours:     r.LaborHours,
		Notes:          r.Notes,
	}
	if wo.Priority == "" {
		wo.Priority = PriorityMedium
	}
	if wo.Status == "" {
		wo.Status = WorkOrderPlanned
	}
	if wo.DueDate.IsZero() {
		wo.DueDate = wo.ScheduledDate
	}
	return wo
}

// normalizeParts fills in line totals that the client left empty.
func normalizeParts(parts []PartUsage) []PartUsage {
	out := make([]PartUsage, len(parts))
	for i, p := range parts {
		if p.TotalCost == 0 {
			p.TotalCost = float64(p.Quantity) * p.UnitCost
		}
		out[i] = p
	}
	return out
}

type WorkOrderUpdateRequest struct {
	AssetID        *string          `json:"assetId"`
	AssetName      *string          `json:"assetName"`
	Title          *string          `json:"title"`
	Description    *string          `json:"description"`
	Priority       *Priority        `json:"priority"`
	Status         *WorkOrderStatus `json:"status"`
	RequestedBy    *string          `json:"requestedBy"`
	AssignedTo     *string          `json:"assignedTo"`
	ScheduledDate  *Date            `json:"scheduledDate"`
	DueDate        *Date            `json:"dueDate"`
	CompletedDate  *Date            `json:"completedDate"`
	Cost           *float64         `json:"cost"`
	SparePartsUsed []PartUsage      `json:"sparePartsUsed"`
	LaborHours     *float64         `json:"laborHours"`
	Notes          *string          `json:"notes"`
}

func (r WorkOrderUpdateRequest) Apply(w *WorkOrder) {
	setIf(&w.AssetID, r.AssetID)
	setIf(&w.AssetName, r.AssetName)
	setIf(&w.Title, r.Title)
	setIf(&w.Description, r.Description)
	setIf(&w.Priority, r.Priority)
	setIf(&w.Status, r.Status)
	setIf(&w.RequestedBy, r.RequestedBy)
	setIf(&w.AssignedTo, r.AssignedTo)
	setIf(&w.ScheduledDate, r.ScheduledDate)
	setIf(&w.DueDate, r.DueDate)
	setIf(&w.Cost, r.Cost)
	setIf(&w.LaborHours, r.LaborHours)
	setIf(&w.Notes, r.Notes)
	if r.CompletedDate != nil {
		w.CompletedDate = r.CompletedDate
	}
	if r.SparePartsUsed != nil {
		w.SparePartsUsed = normalizeParts(r.SparePartsUsed)
	}
}
