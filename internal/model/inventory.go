package model

// StockStatus classifies a part's stock level.
type StockStatus string

const (
	StockCritical    StockStatus = "CRITICAL"
	StockLow         StockStatus = "LOW"
	StockAdequate    StockStatus = "ADEQUATE"
	StockOverstocked StockStatus = "OVERSTOCKED"
)

// MovementType describes the direction of an inventory movement.
type MovementType string

const (
	MovementIn         MovementType = "IN"
	MovementOut        MovementType = "OUT"
	MovementAdjustment MovementType = "ADJUSTMENT"
)

func (t MovementType) Valid() bool {
	switch t {
	case MovementIn, MovementOut, MovementAdjustment:
		return true
	}
	return false
}

// StockDelta is the signed change a movement applies to stock on hand.
// Adjustments carry their own sign.
func (t MovementType) StockDelta(quantity int) int {
	switch t {
	case MovementIn:
		return abs(quantity)
	case MovementOut:
		return -abs(quantity)
	default:
		return quantity
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// SparePart is a stocked consumable or replacement component.
type SparePart struct {
	BaseEntity            `yaml:",inline"`
	Code                  string  `json:"code" yaml:"code" db:"code"`
	Description           string  `json:"description" yaml:"description" db:"description"`
	Category              string  `json:"category" yaml:"category" db:"category"`
	Unit                  string  `json:"unit" yaml:"unit" db:"unit"`
	CurrentStock          int     `json:"currentStock" yaml:"currentStock" db:"current_stock"`
	MinStock              int     `json:"minStock" yaml:"minStock" db:"min_stock"`
	MaxStock              *int    `json:"maxStock,omitempty" yaml:"maxStock" db:"max_stock"`
	Warehouse             string  `json:"warehouse" yaml:"warehouse" db:"warehouse"`
	WarehouseLocationID   string  `json:"warehouseLocationId,omitempty" yaml:"warehouseLocationId" db:"warehouse_location_id"`
	WarehouseLocationName string  `json:"warehouseLocationName,omitempty" yaml:"warehouseLocationName" db:"warehouse_location_name"`
	UnitCost              float64 `json:"unitCost" yaml:"unitCost" db:"unit_cost"`
	SAPItemCode           string  `json:"sapItemCode,omitempty" yaml:"sapItemCode" db:"sap_item_code"`
	Supplier              string  `json:"supplier,omitempty" yaml:"supplier" db:"supplier"`
	LeadTimeDays          int     `json:"leadTimeDays,omitempty" yaml:"leadTimeDays" db:"lead_time_days"`
}

// Clone copies the optional maximum so callers cannot alias it.
func (p SparePart) Clone() SparePart {
	if p.MaxStock != nil {
		m := *p.MaxStock
		p.MaxStock = &m
	}
	return p
}

// IsLowStock reports whether stock is under the minimum.
func (p SparePart) IsLowStock() bool {
	return p.CurrentStock < p.MinStock
}

// PartFilter narrows spare part listings.
type PartFilter struct {
	Query    string
	Category string
	LowStock bool
}

type SparePartCreateRequest struct {
	Code                  string  `json:"code"`
	Description           string  `json:"description"`
	Category              string  `json:"category"`
	Unit                  string  `json:"unit"`
	CurrentStock          int     `json:"currentStock"`
	MinStock              int     `json:"minStock"`
	MaxStock              *int    `json:"maxStock"`
	Warehouse             string  `json:"warehouse"`
	WarehouseLocationID   string  `json:"warehouseLocationId"`
	WarehouseLocationName string  `json:"warehouseLocationName"`
	UnitCost              float64 `json:"unitCost"`
	SAPItemCode           string  `json:"sapItemCode"`
	Supplier              string  `json:"supplier"`
	LeadTimeDays          int     `json:"leadTimeDays"`
}

func (r SparePartCreateRequest) Validate() map[string]string {
	errs := map[string]string{}
	if r.Code == "" {
		errs["code"] = "is required"
	}
	if r.Description == "" {
		errs["description"] = "is required"
	}
	if r.CurrentStock < 0 {
		errs["currentStock"] = "must not be negative"
	}
	if r.MinStock < 0 {
		errs["minStock"] = "must not be negative"
	}
	if r.MaxStock != nil && *r.MaxStock < r.MinStock {
		errs["maxStock"] = "must not be below minStock"
	}
	if r.UnitCost < 0 {
		errs["unitCost"] = "must not be negative"
	}
	return errs
}

func (r SparePartCreateRequest) ToSparePart() *SparePart {
	return &SparePart{
		BaseEntity:            NewBaseEntity(PrefixSparePart),
		Code:                  r.Code,
		Description:           r.Description,
		Category:              r.Category,
		Unit:                  r.Unit,
		CurrentStock:          r.CurrentStock,
		MinStock:              r.MinStock,
		MaxStock:              r.MaxStock,
		Warehouse:             r.Warehouse,
		WarehouseLocationID:   r.WarehouseLocationID,
		WarehouseLocationName: r.WarehouseLocationName,
		UnitCost:              r.UnitCost,
		SAPItemCode:           r.SAPItemCode,
		Supplier:              r.Supplier,
		LeadTimeDays:          r.LeadTimeDays,
	}
}

type SparePartUpdateRequest struct {
	Code                  *string  `json:"code"`
	Description           *string  `json:"description"`
	Category              *string  `json:"category"`
	Unit                  *string  `json:"unit"`
	CurrentStock          *int     `json:"currentStock"`
	MinStock              *int     `json:"minStock"`
	MaxStock              *int     `json:"maxStock"`
	Warehouse             *string  `json:"warehouse"`
	WarehouseLocationID   *string  `json:"warehouseLocationId"`
	WarehouseLocationName *string  `json:"warehouseLocationName"`
	UnitCost              *float64 `json:"unitCost"`
	SAPItemCode           *string  `json:"sapItemCode"`
	Supplier              *string  `json:"supplier"`
	LeadTimeDays          *int     `json:"leadTimeDays"`
}

func (r SparePartUpdateRequest) Apply(p *SparePart) {
	setIf(&p.Code, r.Code)
	setIf(&p.Description, r.Description)
	setIf(&p.Category, r.Category)
	setIf(&p.Unit, r.Unit)
	setIf(&p.CurrentStock, r.CurrentStock)
	setIf(&p.MinStock, r.MinStock)
	setIf(&p.Warehouse, r.Warehouse)
	setIf(&p.WarehouseLocationID, r.WarehouseLocationID)
	setIf(&p.WarehouseLocationName, r.WarehouseLocationName)
	setIf(&p.UnitCost, r.UnitCost)
	setIf(&p.SAPItemCode, r.SAPItemCode)
	setIf(&p.Supplier, r.Supplier)
	setIf(&p.LeadTimeDays, r.LeadTimeDays)
	if r.MaxStock != nil {
		m := *r.MaxStock
		p.MaxStock = &m
	}
}

// InventoryMovement records stock entering, leaving or being corrected.
type InventoryMovement struct {
	BaseEntity           `yaml:",inline"`
	PartID               string       `json:"partId" yaml:"partId" db:"part_id"`
	PartCode             string       `json:"partCode" yaml:"partCode" db:"part_code"`
	PartName             string       `json:"partName" yaml:"partName" db:"part_name"`
	Type                 MovementType `json:"type" yaml:"type" db:"type"`
	Quantity             int          `json:"quantity" yaml:"quantity" db:"quantity"`
	UnitCost             float64      `json:"unitCost" yaml:"unitCost" db:"unit_cost"`
	TotalCost            float64      `json:"totalCost" yaml:"totalCost" db:"total_cost"`
	ReferenceWorkOrderID string       `json:"referenceWorkOrderId,omitempty" yaml:"referenceWorkOrderId" db:"reference_work_order_id"`
	Warehouse            string       `json:"warehouse" yaml:"warehouse" db:"warehouse"`
	WarehouseLocationID  string       `json:"warehouseLocationId,omitempty" yaml:"warehouseLocationId" db:"warehouse_location_id"`
	PerformedBy          string       `json:"performedBy" yaml:"performedBy" db:"performed_by"`
	Notes                string       `json:"notes,omitempty" yaml:"notes" db:"notes"`
}

// MovementFilter narrows movement listings.
type MovementFilter struct {
	PartID      string
	WorkOrderID string
}

type MovementCreateRequest struct {
	PartID               string       `json:"partId"`
	Type                 MovementType `json:"type"`
	Quantity             int          `json:"quantity"`
	UnitCost             *float64     `json:"unitCost"`
	ReferenceWorkOrderID string       `json:"referenceWorkOrderId"`
	WarehouseLocationID  string       `json:"warehouseLocationId"`
	PerformedBy          string       `json:"performedBy"`
	Notes                string       `json:"notes"`
}

func (r MovementCreateRequest) Validate() map[string]string {
	errs := map[string]string{}
	if r.PartID == "" {
		errs["partId"] = "is required"
	}
	if !r.Type.Valid() {
		errs["type"] = "must be IN, OUT or ADJUSTMENT"
	}
	if r.Quantity == 0 || (r.Type != MovementAdjustment && r.Quantity < 0) {
		errs["quantity"] = "must be positive (signed for adjustments)"
	}
	if r.PerformedBy == "" {
		errs["performedBy"] = "is required"
	}
	return errs
}

// ToMovement builds the movement, denormalising part details.
func (r MovementCreateRequest) ToMovement(part *SparePart) *InventoryMovement {
	unitCost := part.UnitCost
	if r.UnitCost != nil {
		unitCost = *r.UnitCost
	}
	locationID := r.WarehouseLocationID
	if locationID == "" {
		locationID = part.WarehouseLocationID
	}
	return &InventoryMovement{
		BaseEntity:           NewBaseEntity(PrefixMovement),
		PartID:               part.ID,
		PartCode:             part.Code,
		PartName:             part.Description,
		Type:                 r.Type,
		Quantity:             r.Quantity,
		UnitCost:             unitCost,
		TotalCost:            float64(abs(r.Quantity)) * unitCost,
		ReferenceWorkOrderID: r.ReferenceWorkOrderID,
		Warehouse:            part.Warehouse,
		WarehouseLocationID:  locationID,
		PerformedBy:          r.PerformedBy,
		Notes:                r.Notes,
	}
}
