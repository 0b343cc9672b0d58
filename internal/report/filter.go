// Package report aggregates maintenance data into flat report rows.
package report

import (
	"math"
	"time"

	"github.com/samber/lo"

	"github.com/cmmsmind/backend/internal/model"
)

// Unknown labels rows whose related record is missing.
const Unknown = "Unknown"

// Snapshot is a read-only copy of the collections a report draws on.
type Snapshot struct {
	Assets     []*model.Asset
	WorkOrders []*model.WorkOrder
	Fleet      []*model.FleetVehicle
	Parts      []*model.SparePart
	Movements  []*model.InventoryMovement
	Plans      []*model.MaintenancePlan
}

// inDateRange reports whether t falls inside the filter's bounds. The upper
// bound covers the whole day.
func inDateRange(t time.Time, f model.ReportFilter) bool {
	if f.DateFrom != nil && t.Before(f.DateFrom.Time) {
		return false
	}
	if f.DateTo != nil && t.After(f.DateTo.EndOfDay()) {
		return false
	}
	return true
}

func hasDateRange(f model.ReportFilter) bool {
	return f.DateFrom != nil || f.DateTo != nil
}

// matchesAny is a pass-through when the allowed set is empty.
func matchesAny[T comparable](allowed []T, v T) bool {
	return len(allowed) == 0 || lo.Contains(allowed, v)
}

// daysBetween returns the whole number of days separating a and b, rounded up.
func daysBetween(a, b model.Date) int {
	return int(math.Ceil(math.Abs(b.Sub(a.Time).Hours()) / 24))
}

func safeDiv(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}

func assetsByID(assets []*model.Asset) map[string]*model.Asset {
	return lo.KeyBy(assets, func(a *model.Asset) string { return a.ID })
}

func categoryOf(assets map[string]*model.Asset, assetID string) string {
	if a, ok := assets[assetID]; ok && a.Category != "" {
		return a.Category
	}
	return Unknown
}
