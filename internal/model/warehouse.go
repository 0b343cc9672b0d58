package model

// WarehouseType distinguishes regional hubs from factory stores.
type WarehouseType string

const (
	WarehouseCentral WarehouseType = "CENTRAL"
	WarehouseSite    WarehouseType = "SITE"
)

// WarehouseLocation is a physical store holding spare parts.
type WarehouseLocation struct {
	BaseEntity `yaml:",inline"`
	Code       string        `json:"code" yaml:"code" db:"code"`
	Name       string        `json:"name" yaml:"name" db:"name"`
	Type       WarehouseType `json:"type" yaml:"type" db:"type"`
	Region     string        `json:"region,omitempty" yaml:"region" db:"region"`
	Factory    string        `json:"factory,omitempty" yaml:"factory" db:"factory"`
	Address    string        `json:"address" yaml:"address" db:"address"`
	City       string        `json:"city" yaml:"city" db:"city"`
	Country    string        `json:"country" yaml:"country" db:"country"`
	IsActive   bool          `json:"isActive" yaml:"isActive" db:"is_active"`
	Capacity   int           `json:"capacity,omitempty" yaml:"capacity" db:"capacity"`
	Manager    string        `json:"manager,omitempty" yaml:"manager" db:"manager"`
	Phone      string        `json:"phone,omitempty" yaml:"phone" db:"phone"`
}

// WarehouseFilter narrows warehouse listings.
type WarehouseFilter struct {
	Type    WarehouseType
	Region  string
	Factory string
	Active  *bool
}

type WarehouseCreateRequest struct {
	Code     string        `json:"code"`
	Name     string        `json:"name"`
	Type     WarehouseType `json:"type"`
	Region   string        `json:"region"`
	Factory  string        `json:"factory"`
	Address  string        `json:"address"`
	City     string        `json:"city"`
	Country  string        `json:"country"`
	IsActive *bool         `json:"isActive"`
	Capacity int           `json:"capacity"`
	Manager  string        `json:"manager"`
	Phone    string        `json:"phone"`
}

func (r WarehouseCreateRequest) Validate() map[string]string {
	errs := map[string]string{}
	if r.Code == "" {
		errs["code"] = "is required"
	}
	if r.Name == "" {
		errs["name"] = "is required"
	}
	if r.Type != WarehouseCentral && r.Type != WarehouseSite {
		errs["type"] = "must be CENTRAL or SITE"
	}
	return errs
}

func (r WarehouseCreateRequest) ToWarehouse() *WarehouseLocation {
	active := true
	if r.IsActive != nil {
		active = *r.IsActive
	}
	return &WarehouseLocation{
		BaseEntity: NewBaseEntity(PrefixWarehouse),
		Code:       r.Code,
		Name:       r.Name,
		Type:       r.Type,
		Region:     r.Region,
		Factory:    r.Factory,
		Address:    r.Address,
		City:       r.City,
		Country:    r.Country,
		IsActive:   active,
		Capacity:   r.Capacity,
		Manager:    r.Manager,
		Phone:      r.Phone,
	}
}

type WarehouseUpdateRequest struct {
	Code     *string        `json:"code"`
	Name     *string        `json:"name"`
	Type     *WarehouseType `json:"type"`
	Region   *string        `json:"region"`
	Factory  *string        `json:"factory"`
	Address  *string        `json:"address"`
	City     *string        `json:"city"`
	Country  *string        `json:"country"`
	IsActive *bool          `json:"isActive"`
	Capacity *int           `json:"capacity"`
	Manager  *string        `json:"manager"`
	Phone    *string        `json:"phone"`
}

func (r WarehouseUpdateRequest) Apply(w *WarehouseLocation) {
	setIf(&w.Code, r.Code)
	setIf(&w.Name, r.Name)
	setIf(&w.Type, r.Type)
	setIf(&w.Region, r.Region)
	setIf(&w.Factory, r.Factory)
	setIf(&w.Address, r.Address)
	setIf(&w.City, r.City)
	setIf(&w.Country, r.Country)
	setIf(&w.IsActive, r.IsActive)
	setIf(&w.Capacity, r.Capacity)
	setIf(&w.Manager, r.Manager)
	setIf(&w.Phone, r.Phone)
}
