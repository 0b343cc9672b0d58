package report

import (
	"time"

	"github.com/samber/lo"

	"github.com/cmmsmind/backend/internal/depreciation"
	"github.com/cmmsmind/backend/internal/model"
)

// utilizationByStatus is a placeholder estimate until runtime telemetry exists.
var utilizationByStatus = map[model.AssetStatus]float64{
	model.AssetStatusActive:      0.85,
	model.AssetStatusMaintenance: 0.5,
}

// AssetPerformance reports each asset's book value and maintenance spend as of now.
func AssetPerformance(snap Snapshot, f model.ReportFilter, now time.Time) []model.AssetPerformanceRow {
	byAsset := lo.GroupBy(snap.WorkOrders, func(wo *model.WorkOrder) string { return wo.AssetID })

	selected := lo.Filter(snap.Assets, func(a *model.Asset, _ int) bool {
		if !matchesAny(f.AssetCategories, a.Category) {
			return false
		}
		return !hasDateRange(f) || inDateRange(a.PurchaseDate.Time, f)
	})

	return lo.Map(selected, func(a *model.Asset, _ int) model.AssetPerformanceRow {
		orders := byAsset[a.ID]
		total := lo.SumBy(orders, func(wo *model.WorkOrder) float64 { return wo.Cost })
		ytd := lo.SumBy(orders, func(wo *model.WorkOrder) float64 {
			if wo.CreatedAt.Year() == now.Year() {
				return wo.Cost
			}
			return 0
		})

		return model.AssetPerformanceRow{
			AssetID:                 a.ID,
			AssetCode:               a.Code,
			AssetName:               a.Name,
			Category:                a.Category,
			Location:                a.Location,
			Status:                  a.Status,
			PurchaseDate:            a.PurchaseDate,
			PurchaseCost:            a.PurchaseCost,
			BookValue:               depreciation.BookValue(a.PurchaseDate, a.PurchaseCost, a.ResidualValue, a.UsefulLifeYears, now),
			AccumulatedDepreciation: depreciation.Accumulated(a.PurchaseDate, a.PurchaseCost, a.ResidualValue, a.UsefulLifeYears, now),
			MaintenanceCount:        len(orders),
			MaintenanceCostTotal:    total,
			MaintenanceCostYTD:      ytd,
			LastMaintenanceDate:     lastCompleted(orders),
			AvgMaintenanceCost:      safeDiv(total, float64(len(orders))),
			UtilizationRate:         utilizationByStatus[a.Status],
		}
	})
}

func lastCompleted(orders []*model.WorkOrder) *model.Date {
	var last *model.Date
	for _, wo := range orders {
		if wo.CompletedDate == nil || wo.CompletedDate.IsZero() {
			continue
		}
		if last == nil || wo.CompletedDate.After(*last) {
			d := *wo.CompletedDate
			last = &d
		}
	}
	return last
}
