package report

import (
	"cmp"
	"slices"

	"github.com/samber/lo"

	"github.com/cmmsmind/backend/internal/model"
)

type costBucket struct {
	period   string
	category string
}

// MaintenanceCosts groups work orders by creation month and asset category.
// Rows are ordered by period descending, then category ascending.
func MaintenanceCosts(snap Snapshot, f model.ReportFilter) []model.MaintenanceCostRow {
	assets := assetsByID(snap.Assets)

	selected := lo.Filter(snap.WorkOrders, func(wo *model.WorkOrder, _ int) bool {
		if hasDateRange(f) && !inDateRange(wo.CreatedAt, f) {
			return false
		}
		return matchesAny(f.AssetCategories, categoryOf(assets, wo.AssetID))
	})

	groups := lo.GroupBy(selected, func(wo *model.WorkOrder) costBucket {
		return costBucket{
			period:   wo.CreatedAt.UTC().Format("2006-01"),
			category: categoryOf(assets, wo.AssetID),
		}
	})

	rows := make([]model.MaintenanceCostRow, 0, len(groups))
	for key, orders := range groups {
		total := lo.SumBy(orders, func(wo *model.WorkOrder) float64 { return wo.Cost })
		parts := lo.SumBy(orders, func(wo *model.WorkOrder) float64 { return wo.PartsCost() })
		rows = append(rows, model.MaintenanceCostRow{
			Period:              key.period,
			AssetCategory:       key.category,
			WorkOrderCount:      len(orders),
			TotalCost:           total,
			PartsCost:           parts,
			LaborCost:           total - parts,
			AvgCostPerWorkOrder: safeDiv(total, float64(len(orders))),
			CompletedCount:      countStatus(orders, model.WorkOrderCompleted),
			PendingCount:        countStatus(orders, model.WorkOrderPlanned, model.WorkOrderInProgress),
			OverdueCount:        countStatus(orders, model.WorkOrderOverdue),
		})
	}

	slices.SortFunc(rows, func(a, b model.MaintenanceCostRow) int {
		if c := cmp.Compare(b.Period, a.Period); c != 0 {
			return c
		}
		return cmp.Compare(a.AssetCategory, b.AssetCategory)
	})
	return rows
}

func countStatus(orders []*model.WorkOrder, statuses ...model.WorkOrderStatus) int {
	return lo.CountBy(orders, func(wo *model.WorkOrder) bool {
		return lo.Contains(statuses, wo.Status)
	})
}
