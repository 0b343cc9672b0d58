package report

import (
	"time"

	"github.com/samber/lo"

	"github.com/cmmsmind/backend/internal/model"
)

// DefaultDateRange spans January 1 of the current year through today unless
// the filter sets a bound.
func DefaultDateRange(f model.ReportFilter, now time.Time) model.DateSpan {
	span := model.DateSpan{
		From: model.NewDate(now.Year(), time.January, 1),
		To:   model.DateOf(now),
	}
	if f.DateFrom != nil {
		span.From = *f.DateFrom
	}
	if f.DateTo != nil {
		span.To = *f.DateTo
	}
	return span
}

// Summarize reduces rows to a record count and, when costOf is given, cost
// totals. AvgCost is omitted for an empty report.
func Summarize[T any](rows []T, f model.ReportFilter, costOf func(T) float64, now time.Time) model.ReportSummary {
	summary := model.ReportSummary{
		TotalRecords: len(rows),
		DateRange:    DefaultDateRange(f, now),
	}
	if costOf != nil && len(rows) > 0 {
		total := lo.SumBy(rows, costOf)
		summary.TotalCost = lo.ToPtr(total)
		summary.AvgCost = lo.ToPtr(total / float64(len(rows)))
	}
	return summary
}

// FleetMetrics adds odometer and status counts to a fleet summary.
func FleetMetrics(rows []model.FleetTrackingRow) map[string]float64 {
	total := lo.SumBy(rows, func(r model.FleetTrackingRow) float64 { return r.Odometer })
	return map[string]float64{
		"totalOdometer": total,
		"avgOdometer":   safeDiv(total, float64(len(rows))),
		"activeCount": float64(lo.CountBy(rows, func(r model.FleetTrackingRow) bool {
			return r.Status == model.FleetStatusActive
		})),
		"maintenanceCount": float64(lo.CountBy(rows, func(r model.FleetTrackingRow) bool {
			return r.Status == model.FleetStatusInWorkshop
		})),
	}
}

// InventoryMetrics adds stock band counts to an inventory summary.
func InventoryMetrics(rows []model.InventoryStatusRow) map[string]float64 {
	return map[string]float64{
		"criticalCount": float64(lo.CountBy(rows, func(r model.InventoryStatusRow) bool {
			return r.StockStatus == model.StockCritical
		})),
		"lowCount": float64(lo.CountBy(rows, func(r model.InventoryStatusRow) bool {
			return r.StockStatus == model.StockLow
		})),
		"reorderCount": float64(lo.CountBy(rows, func(r model.InventoryStatusRow) bool { return r.ReorderNeeded })),
		"totalValue":   lo.SumBy(rows, func(r model.InventoryStatusRow) float64 { return r.TotalValue }),
	}
}

// MaintenanceCostMetrics adds work order counts to a maintenance cost summary.
func MaintenanceCostMetrics(rows []model.MaintenanceCostRow) map[string]float64 {
	return map[string]float64{
		"totalWorkOrders": float64(lo.SumBy(rows, func(r model.MaintenanceCostRow) int { return r.WorkOrderCount })),
		"totalCompleted":  float64(lo.SumBy(rows, func(r model.MaintenanceCostRow) int { return r.CompletedCount })),
		"totalPending":    float64(lo.SumBy(rows, func(r model.MaintenanceCostRow) int { return r.PendingCount })),
		"totalOverdue":    float64(lo.SumBy(rows, func(r model.MaintenanceCostRow) int { return r.OverdueCount })),
	}
}
