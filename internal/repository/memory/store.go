// Package memory provides in-process repository implementations.
package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/cmmsmind/backend/internal/model"
	"github.com/cmmsmind/backend/internal/repository"
)

type entity[T any] interface {
	*T
	Base() *model.BaseEntity
}

// table keeps rows in insertion order and hands out copies.
type table[T any, P entity[T]] struct {
	name   string
	prefix string
	order  []string
	rows   map[string]P
	clone  func(T) T
}

func newTable[T any, P entity[T]](name, prefix string, clone func(T) T) *table[T, P] {
	if clone == nil {
		clone = func(v T) T { return v }
	}
	return &table[T, P]{name: name, prefix: prefix, rows: map[string]P{}, clone: clone}
}

func (t *table[T, P]) copyOf(p P) P {
	v := t.clone(*p)
	return P(&v)
}

func (t *table[T, P]) list(keep func(P) bool) []P {
	out := make([]P, 0, len(t.order))
	for _, id := range t.order {
		row := t.rows[id]
		if keep == nil || keep(row) {
			out = append(out, t.copyOf(row))
		}
	}
	return out
}

func (t *table[T, P]) find(keep func(P) bool) (P, error) {
	for _, id := range t.order {
		if row := t.rows[id]; keep(row) {
			return t.copyOf(row), nil
		}
	}
	return nil, fmt.Errorf("%s: %w", t.name, repository.ErrNotFound)
}

func (t *table[T, P]) get(id string) (P, error) {
	row, ok := t.rows[id]
	if !ok {
		return nil, fmt.Errorf("%s %s: %w", t.name, id, repository.ErrNotFound)
	}
	return t.copyOf(row), nil
}

func (t *table[T, P]) insert(p P) error {
	p.Base().Init(t.prefix)
	id := p.Base().ID
	if _, exists := t.rows[id]; exists {
		return fmt.Errorf("%s %s: %w", t.name, id, repository.ErrAlreadyExists)
	}
	t.rows[id] = t.copyOf(p)
	t.order = append(t.order, id)
	return nil
}

// update replaces a row, keeping its creation time.
func (t *table[T, P]) update(p P) error {
	base := p.Base()
	old, ok := t.rows[base.ID]
	if !ok {
		return fmt.Errorf("%s %s: %w", t.name, base.ID, repository.ErrNotFound)
	}
	base.CreatedAt = old.Base().CreatedAt
	base.UpdatedAt = time.Now().UTC()
	t.rows[base.ID] = t.copyOf(p)
	return nil
}

func (t *table[T, P]) remove(id string) error {
	if _, ok := t.rows[id]; !ok {
		return fmt.Errorf("%s %s: %w", t.name, id, repository.ErrNotFound)
	}
	delete(t.rows, id)
	for i, v := range t.order {
		if v == id {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}
	return nil
}

func (t *table[T, P]) clear() {
	t.order = nil
	t.rows = map[string]P{}
}

// Store holds every collection behind one lock so cross-collection writes,
// such as recording a movement, are atomic.
type Store struct {
	mu sync.RWMutex

	assets        *table[model.Asset, *model.Asset]
	workOrders    *table[model.WorkOrder, *model.WorkOrder]
	fleet         *table[model.FleetVehicle, *model.FleetVehicle]
	parts         *table[model.SparePart, *model.SparePart]
	movements     *table[model.InventoryMovement, *model.InventoryMovement]
	plans         *table[model.MaintenancePlan, *model.MaintenancePlan]
	warehouses    *table[model.WarehouseLocation, *model.WarehouseLocation]
	notifications *table[model.Notification, *model.Notification]
	policies      *table[model.MaintenancePolicy, *model.MaintenancePolicy]
	company       model.CompanyProfile
}

var _ repository.Store = (*Store)(nil)

// New creates an empty store.
func New() *Store {
	return &Store{
		assets:        newTable[model.Asset]("asset", model.PrefixAsset, model.Asset.Clone),
		workOrders:    newTable[model.WorkOrder]("work order", model.PrefixWorkOrder, model.WorkOrder.Clone),
		fleet:         newTable[model.FleetVehicle]("fleet vehicle", model.PrefixFleet, nil),
		parts:         newTable[model.SparePart]("spare part", model.PrefixSparePart, model.SparePart.Clone),
		movements:     newTable[model.InventoryMovement]("inventory movement", model.PrefixMovement, nil),
		plans:         newTable[model.MaintenancePlan]("maintenance plan", model.PrefixPlan, model.MaintenancePlan.Clone),
		warehouses:    newTable[model.WarehouseLocation]("warehouse", model.PrefixWarehouse, nil),
		notifications: newTable[model.Notification]("notification", model.PrefixNotification, nil),
		policies:      newTable[model.MaintenancePolicy]("policy", model.PrefixPolicy, nil),
		company:       model.CompanyProfile{ID: model.CompanyProfileID},
	}
}

func (s *Store) Assets() repository.AssetRepository               { return assetRepo{s} }
func (s *Store) WorkOrders() repository.WorkOrderRepository       { return workOrderRepo{s} }
func (s *Store) Fleet() repository.FleetRepository                { return fleetRepo{s} }
func (s *Store) Parts() repository.SparePartRepository            { return partRepo{s} }
func (s *Store) Movements() repository.MovementRepository         { return movementRepo{s} }
func (s *Store) Plans() repository.PlanRepository                 { return planRepo{s} }
func (s *Store) Warehouses() repository.WarehouseRepository       { return warehouseRepo{s} }
func (s *Store) Notifications() repository.NotificationRepository { return notificationRepo{s} }
func (s *Store) Settings() repository.SettingsRepository          { return settingsRepo{s} }

func (s *Store) Ping(ctx context.Context) error { return ctx.Err() }
func (s *Store) Close() error                   { return nil }

// contains is a case-insensitive substring test over any of the fields.
func contains(query string, fields ...string) bool {
	if query == "" {
		return true
	}
	q := strings.ToLower(query)
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}
