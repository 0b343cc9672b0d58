package model

import "slices"

// AssetStatus represents the lifecycle state of an asset.
type AssetStatus string

const (
	AssetStatusActive      AssetStatus = "Active"
	AssetStatusInactive    AssetStatus = "Inactive"
	AssetStatusMaintenance AssetStatus = "Maintenance"
	AssetStatusRetired     AssetStatus = "Retired"
)

// Valid reports whether s is a known asset status.
func (s AssetStatus) Valid() bool {
	switch s {
	case AssetStatusActive, AssetStatusInactive, AssetStatusMaintenance, AssetStatusRetired:
		return true
	}
	return false
}

// DepreciationMethod names how an asset loses value.
type DepreciationMethod string

const DepreciationStraightLine DepreciationMethod = "STRAIGHT_LINE"

// Asset represents a piece of equipment under maintenance.
type Asset struct {
	BaseEntity         `yaml:",inline"`
	Code               string             `json:"code" yaml:"code" db:"code"`
	Name               string             `json:"name" yaml:"name" db:"name"`
	Category           string             `json:"category" yaml:"category" db:"category"`
	Location           string             `json:"location" yaml:"location" db:"location"`
	Status             AssetStatus        `json:"status" yaml:"status" db:"status"`
	PurchaseDate       Date               `json:"purchaseDate" yaml:"purchaseDate" db:"purchase_date"`
	PurchaseCost       float64            `json:"purchaseCost" yaml:"purchaseCost" db:"purchase_cost"`
	UsefulLifeYears    int                `json:"usefulLifeYears" yaml:"usefulLifeYears" db:"useful_life_years"`
	DepreciationMethod DepreciationMethod `json:"depreciationMethod" yaml:"depreciationMethod" db:"depreciation_method"`
	ResidualValue      float64            `json:"residualValue" yaml:"residualValue" db:"residual_value"`
	Tags               []string           `json:"tags" yaml:"tags" db:"tags"`
	AssignedTo         string             `json:"assignedTo,omitempty" yaml:"assignedTo" db:"assigned_to"`
	IsFleet            bool               `json:"isFleet" yaml:"isFleet" db:"is_fleet"`
	Description        string             `json:"description,omitempty" yaml:"description" db:"description"`
	Manufacturer       string             `json:"manufacturer,omitempty" yaml:"manufacturer" db:"manufacturer"`
	Model              string             `json:"model,omitempty" yaml:"model" db:"model"`
	SerialNumber       string             `json:"serialNumber,omitempty" yaml:"serialNumber" db:"serial_number"`
	WarrantyExpiry     *Date              `json:"warrantyExpiry,omitempty" yaml:"warrantyExpiry" db:"warranty_expiry"`
}

// Clone returns a copy that shares no mutable state with a.
func (a Asset) Clone() Asset {
	a.Tags = slices.Clone(a.Tags)
	return a
}

// AssetFilter narrows asset listings. Empty fields do not filter.
type AssetFilter struct {
	Query    string
	Category string
	Status   AssetStatus
}

// AssetCreateRequest is the payload for creating an asset.
type AssetCreateRequest struct {
	Code            string      `json:"code"`
	Name            string      `json:"name"`
	Category        string      `json:"category"`
	Location        string      `json:"location"`
	Status          AssetStatus `json:"status"`
	PurchaseDate    Date        `json:"purchaseDate"`
	PurchaseCost    float64     `json:"purchaseCost"`
	UsefulLifeYears int         `json:"usefulLifeYears"`
	ResidualValue   float64     `json:"residualValue"`
	Tags            []string    `json:"tags"`
	AssignedTo      string      `json:"assignedTo"`
	IsFleet         bool        `json:"isFleet"`
	Description     string      `json:"description"`
	Manufacturer    string      `json:"manufacturer"`
	Model           string      `json:"model"`
	SerialNumber    string      `json:"serialNumber"`
	WarrantyExpiry  *Date       `json:"warrantyExpiry"`
}

// Validate returns the offending field names mapped to messages.
func (r AssetCreateRequest) Validate() map[string]string {
	errs := map[string]string{}
	if r.Code == "" {
		errs["code"] = "is required"
	}
	if r.Name == "" {
		errs["name"] = "is required"
	}
	if r.Category == "" {
		errs["category"] = "is required"
	}
	if r.Status != "" && !r.Status.Valid() {
		errs["status"] = "is not a valid asset status"
	}
	if r.PurchaseCost < 0 {
		errs["purchaseCost"] = "must not be negative"
	}
	if r.ResidualValue < 0 || r.ResidualValue > r.PurchaseCost {
		errs["residualValue"] = "must be between 0 and purchaseCost"
	}
	if r.UsefulLifeYears < 0 {
		errs["usefulLifeYears"] = "must not be negative"
	}
	return errs
}

// ToAsset builds a new asset from the request.
func (r AssetCreateRequest) ToAsset() *Asset {
	a := &Asset{
		BaseEntity:         NewBaseEntity(PrefixAsset),
		Code:               r.Code,
		Name:               r.Name,
		Category:           r.Category,
		Location:           r.Location,
		Status:             r.Status,
		PurchaseDate:       r.PurchaseDate,
		PurchaseCost:       r.PurchaseCost,
		UsefulLifeYears:    r.UsefulLifeYears,
		DepreciationMethod: DepreciationStraightLine,
		ResidualValue:      r.ResidualValue,
		Tags:               r.Tags,
		AssignedTo:         r.AssignedTo,
		IsFleet:            r.IsFleet,
		Description:        r.Description,
		Manufacturer:       r.Manufacturer,
		Model:              r.Model,
		SerialNumber:       r.SerialNumber,
		WarrantyExpiry:     r.WarrantyExpiry,
	}
	if a.Status == "" {
		a.Status = AssetStatusActive
	}
	if a.Tags == nil {
		a.Tags = []string{}
	}
	return a
}

// AssetUpdateRequest carries the fields to change on an asset.
type AssetUpdateRequest struct {
	Code            *string      `json:"code"`
	Name            *string      `json:"name"`
	Category        *string      `json:"category"`
	Location        *string      `json:"location"`
	Status          *AssetStatus `json:"status"`
	PurchaseDate    *Date        `json:"purchaseDate"`
	PurchaseCost    *float64     `json:"purchaseCost"`
	UsefulLifeYears *int         `json:"usefulLifeYears"`
	ResidualValue   *float64     `json:"residualValue"`
	Tags            []string     `json:"tags"`
	AssignedTo      *string      `json:"assignedTo"`
	IsFleet         *bool        `json:"isFleet"`
	Description     *string      `json:"description"`
	Manufacturer    *string      `json:"manufacturer"`
	Model           *string      `json:"model"`
	SerialNumber    *string      `json:"serialNumber"`
	WarrantyExpiry  *Date        `json:"warrantyExpiry"`
}

// Apply merges the non-nil fields into a.
func (r AssetUpdateRequest) Apply(a *Asset) {
	setIf(&a.Code, r.Code)
	setIf(&a.Name, r.Name)
	setIf(&a.Category, r.Category)
	setIf(&a.Location, r.Location)
	setIf(&a.Status, r.Status)
	setIf(&a.PurchaseDate, r.PurchaseDate)
	setIf(&a.PurchaseCost, r.PurchaseCost)
	setIf(&a.UsefulLifeYears, r.UsefulLifeYears)
	setIf(&a.ResidualValue, r.ResidualValue)
	setIf(&a.AssignedTo, r.AssignedTo)
	setIf(&a.IsFleet, r.IsFleet)
	setIf(&a.Description, r.Description)
	setIf(&a.Manufacturer, r.Manufacturer)
	setIf(&a.Model, r.Model)
	setIf(&a.SerialNumber, r.SerialNumber)
	if r.Tags != nil {
		a.Tags = r.Tags
	}
	if r.WarrantyExpiry != nil {
		a.WarrantyExpiry = r.WarrantyExpiry
	}
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}
