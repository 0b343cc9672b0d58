// Package seed loads the bundled demo dataset into a store.
package seed

import (
	"context"
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/cmmsmind/backend/internal/model"
	"github.com/cmmsmind/backend/internal/repository"
)

//go:embed demo.yaml
var demoYAML []byte

// Dataset is the shape of a fixture file.
type Dataset struct {
	Company       model.CompanyProfile       `yaml:"company"`
	Policies      []*model.MaintenancePolicy `yaml:"policies"`
	Warehouses    []*model.WarehouseLocation `yaml:"warehouses"`
	Assets        []*model.Asset             `yaml:"assets"`
	Fleet         []*model.FleetVehicle      `yaml:"fleet"`
	SpareParts    []*model.SparePart         `yaml:"spareParts"`
	Movements     []*model.InventoryMovement `yaml:"movements"`
	WorkOrders    []*model.WorkOrder         `yaml:"workOrders"`
	Plans         []*model.MaintenancePlan   `yaml:"maintenancePlans"`
	Notifications []*model.Notification      `yaml:"notifications"`
}

// Parse decodes a fixture.
func Parse(data []byte) (*Dataset, error) {
	var ds Dataset
	if err := yaml.Unmarshal(data, &ds); err != nil {
		return nil, fmt.Errorf("seed.Parse: %w", err)
	}
	return &ds, nil
}

// Demo returns a fresh copy of the bundled demo dataset.
func Demo() (*Dataset, error) {
	return Parse(demoYAML)
}

// Load writes every record of ds into store. Part stock in the fixture is the
// balance after its movements, so opening stock is derived before the
// movements are replayed.
func Load(ctx context.Context, store repository.Store, ds *Dataset) error {
	const op = "seed.Load"

	if err := store.Settings().UpdateCompany(ctx, &ds.Company); err != nil {
		return fmt.Errorf("%s: company: %w", op, err)
	}
	for _, p := range ds.Policies {
		if err := store.Settings().CreatePolicy(ctx, p); err != nil {
			return fmt.Errorf("%s: policy %s: %w", op, p.ID, err)
		}
	}
	for _, w := range ds.Warehouses {
		if err := store.Warehouses().Create(ctx, w); err != nil {
			return fmt.Errorf("%s: warehouse %s: %w", op, w.ID, err)
		}
	}
	for _, a := range ds.Assets {
		if err := store.Assets().Create(ctx, a); err != nil {
			return fmt.Errorf("%s: asset %s: %w", op, a.ID, err)
		}
	}
	for _, v := range ds.Fleet {
		if err := store.Fleet().Create(ctx, v); err != nil {
			return fmt.Errorf("%s: vehicle %s: %w", op, v.ID, err)
		}
	}

	replayed := map[string]int{}
	for _, m := range ds.Movements {
		replayed[m.PartID] += m.Type.StockDelta(m.Quantity)
	}
	for _, p := range ds.SpareParts {
		opening := p.Clone()
		opening.CurrentStock -= replayed[p.ID]
		if err := store.Parts().Create(ctx, &opening); err != nil {
			return fmt.Errorf("%s: part %s: %w", op, p.ID, err)
		}
	}
	for _, m := range ds.Movements {
		if _, err := store.Movements().Record(ctx, m); err != nil {
			return fmt.Errorf("%s: movement %s: %w", op, m.ID, err)
		}
	}

	for _, wo := range ds.WorkOrders {
		if err := store.WorkOrders().Create(ctx, wo); err != nil {
			return fmt.Errorf("%s: work order %s: %w", op, wo.ID, err)
		}
	}
	for _, p := range ds.Plans {
		if err := store.Plans().Create(ctx, p); err != nil {
			return fmt.Errorf("%s: plan %s: %w", op, p.ID, err)
		}
	}
	for _, n := range ds.Notifications {
		if err := store.Notifications().Create(ctx, n); err != nil {
			return fmt.Errorf("%s: notification %s: %w", op, n.ID, err)
		}
	}
	return nil
}

// LoadDemoIfEmpty seeds the demo dataset when the store holds no assets.
// It reports whether anything was written.
func LoadDemoIfEmpty(ctx context.Context, store repository.Store) (bool, error) {
	existing, err := store.Assets().List(ctx, model.AssetFilter{})
	if err != nil {
		return false, fmt.Errorf("seed.LoadDemoIfEmpty: %w", err)
	}
	if len(existing) > 0 {
		return false, nil
	}
	ds, err := Demo()
	if err != nil {
		return false, err
	}
	if err := Load(ctx, store, ds); err != nil {
		return false, err
	}
	return true, nil
}
