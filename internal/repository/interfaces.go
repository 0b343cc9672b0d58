// Package repository defines data access interfaces.
package repository

import (
	"context"
	"errors"

	"github.com/cmmsmind/backend/internal/model"
)

var (
	// ErrNotFound is returned when a record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists is returned when creating a record whose ID is taken.
	ErrAlreadyExists = errors.New("already exists")
)

// AssetRepository defines asset data access methods.
type AssetRepository interface {
	List(ctx context.Context, filter model.AssetFilter) ([]*model.Asset, error)
	GetByID(ctx context.Context, id string) (*model.Asset, error)
	GetByCode(ctx context.Context, code string) (*model.Asset, error)
	Create(ctx context.Context, asset *model.Asset) error
	Update(ctx context.Context, asset *model.Asset) error
	Delete(ctx context.Context, id string) error
	Categories(ctx context.Context) ([]string, error)
}

// WorkOrderRepository defines work order data access methods.
type WorkOrderRepository interface {
	List(ctx context.Context, filter model.WorkOrderFilter) ([]*model.WorkOrder, error)
	GetByID(ctx context.Context, id string) (*model.WorkOrder, error)
	Create(ctx context.Context, wo *model.WorkOrder) error
	Update(ctx context.Context, wo *model.WorkOrder) error
	Delete(ctx context.Context, id string) error
	// UpdateStatus stamps the completion date when status is Completed.
	UpdateStatus(ctx context.Context, id string, status model.WorkOrderStatus) (*model.WorkOrder, error)
}

// FleetRepository defines fleet vehicle data access methods.
type FleetRepository interface {
	List(ctx context.Context, filter model.FleetFilter) ([]*model.FleetVehicle, error)
	GetByID(ctx context.Context, id string) (*model.FleetVehicle, error)
	GetByAssetID(ctx context.Context, assetID string) (*model.FleetVehicle, error)
	GetByPlate(ctx context.Context, plate string) (*model.FleetVehicle, error)
	Create(ctx context.Context, vehicle *model.FleetVehicle) error
	Update(ctx context.Context, vehicle *model.FleetVehicle) error
	Delete(ctx context.Context, id string) error
}

// SparePartRepository defines spare part data access methods.
type SparePartRepository interface {
	List(ctx context.Context, filter model.PartFilter) ([]*model.SparePart, error)
	GetByID(ctx context.Context, id string) (*model.SparePart, error)
	Create(ctx context.Context, part *model.SparePart) error
	Update(ctx context.Context, part *model.SparePart) error
	Delete(ctx context.Context, id string) error
	// AdjustStock applies delta and floors the result at zero.
	AdjustStock(ctx context.Context, id string, delta int) (*model.SparePart, error)
	Categories(ctx context.Context) ([]string, error)
}

// MovementRepository defines inventory movement data access methods.
type MovementRepository interface {
	List(ctx context.Context, filter model.MovementFilter) ([]*model.InventoryMovement, error)
	GetByID(ctx context.Context, id string) (*model.InventoryMovement, error)
	// Record stores the movement and applies it to the part's stock atomically.
	Record(ctx context.Context, movement *model.InventoryMovement) (*model.SparePart, error)
}

// PlanRepository defines maintenance plan data access methods.
type PlanRepository interface {
	List(ctx context.Context, filter model.PlanFilter) ([]*model.MaintenancePlan, error)
	GetByID(ctx context.Context, id string) (*model.MaintenancePlan, error)
	Create(ctx context.Context, plan *model.MaintenancePlan) error
	Update(ctx context.Context, plan *model.MaintenancePlan) error
	Delete(ctx context.Context, id string) error
}

// WarehouseRepository defines warehouse location data access methods.
type WarehouseRepository interface {
	List(ctx context.Context, filter model.WarehouseFilter) ([]*model.WarehouseLocation, error)
	GetByID(ctx context.Context, id string) (*model.WarehouseLocation, error)
	Create(ctx context.Context, wh *model.WarehouseLocation) error
	Update(ctx context.Context, wh *model.WarehouseLocation) error
	Delete(ctx context.Context, id string) error
	Regions(ctx context.Context) ([]string, error)
	Factories(ctx context.Context) ([]string, error)
}

// NotificationRepository defines notification data access methods.
type NotificationRepository interface {
	List(ctx context.Context, filter model.NotificationFilter) ([]*model.Notification, error)
	GetByID(ctx context.Context, id string) (*model.Notification, error)
	Create(ctx context.Context, n *model.Notification) error
	MarkAsRead(ctx context.Context, id string) error
	MarkAllAsRead(ctx context.Context) (int, error)
	Delete(ctx context.Context, id string) error
	DeleteAll(ctx context.Context) error
}

// SettingsRepository defines company profile and policy data access methods.
type SettingsRepository interface {
	Company(ctx context.Context) (*model.CompanyProfile, error)
	UpdateCompany(ctx context.Context, company *model.CompanyProfile) error
	ListPolicies(ctx context.Context) ([]*model.MaintenancePolicy, error)
	GetPolicy(ctx context.Context, id string) (*model.MaintenancePolicy, error)
	CreatePolicy(ctx context.Context, policy *model.MaintenancePolicy) error
	UpdatePolicy(ctx context.Context, policy *model.MaintenancePolicy) error
	DeletePolicy(ctx context.Context, id string) error
}

// Store groups the repositories of one storage backend.
type Store interface {
	Assets() AssetRepository
	WorkOrders() WorkOrderRepository
	Fleet() FleetRepository
	Parts() SparePartRepository
	Movements() MovementRepository
	Plans() PlanRepository
	Warehouses() WarehouseRepository
	Notifications() NotificationRepository
	Settings() SettingsRepository
	Ping(ctx context.Context) error
	Close() error
}
