package report

import (
	"slices"
	"time"

	"github.com/samber/lo"

	"github.com/cmmsmind/backend/internal/model"
)

// UpcomingWindowDays is how far ahead the dashboard looks for due work.
const UpcomingWindowDays = 30

// Dashboard computes headline metrics. Costs count completed work orders by
// their completion month.
func Dashboard(snap Snapshot, unread int, now time.Time) model.DashboardMetrics {
	today := model.DateOf(now)
	thisMonth := monthStart(now)
	lastMonth := thisMonth.AddDate(0, -1, 0)

	completed := lo.Filter(snap.WorkOrders, func(wo *model.WorkOrder, _ int) bool {
		return wo.Status == model.WorkOrderCompleted && wo.CompletedDate != nil && !wo.CompletedDate.IsZero()
	})
	costIn := func(month time.Time) float64 {
		return lo.SumBy(completed, func(wo *model.WorkOrder) float64 {
			if monthStart(wo.CompletedDate.Time).Equal(month) {
				return wo.Cost
			}
			return 0
		})
	}
	current, previous := costIn(thisMonth), costIn(lastMonth)

	open := lo.Filter(snap.WorkOrders, func(wo *model.WorkOrder, _ int) bool { return !wo.Status.Closed() })
	overdue := lo.CountBy(open, func(wo *model.WorkOrder) bool { return wo.DueDate.Before(today) })
	upcoming := lo.CountBy(open, func(wo *model.WorkOrder) bool {
		return !wo.DueDate.Before(today) && !wo.DueDate.After(today.AddDays(UpcomingWindowDays))
	})

	inMaintenance := lo.CountBy(snap.Assets, func(a *model.Asset) bool { return a.Status == model.AssetStatusMaintenance })
	retired := lo.CountBy(snap.Assets, func(a *model.Asset) bool { return a.Status == model.AssetStatusRetired })

	completionDays := lo.SumBy(completed, func(wo *model.WorkOrder) float64 {
		return wo.CompletedDate.Sub(wo.ScheduledDate.Time).Hours() / 24
	})

	return model.DashboardMetrics{
		TotalAssets:           len(snap.Assets),
		TotalFleetVehicles:    len(snap.Fleet),
		OpenWorkOrders:        len(open),
		OverdueWorkOrders:     overdue,
		LowStockParts:         lo.CountBy(snap.Parts, func(p *model.SparePart) bool { return p.IsLowStock() }),
		UpcomingMaintenance:   upcoming,
		UnreadNotifications:   unread,
		AssetsInMaintenance:   inMaintenance,
		AssetUtilization:      safeDiv(float64(len(snap.Assets)-inMaintenance-retired), float64(len(snap.Assets))) * 100,
		MaintenanceCostMonth:  current,
		MaintenanceCostYTD:    completedCostInYear(completed, now.Year()),
		CostTrend:             lo.Ternary(previous > 0, (current-previous)/previous*100, 0),
		AverageCompletionTime: safeDiv(completionDays, float64(len(completed))),
		CompletionRate:        safeDiv(float64(len(completed)), float64(len(snap.WorkOrders))) * 100,
		WorkOrdersByStatus:    statusCounts(snap.WorkOrders),
		CostByCategory:        costByCategory(snap.Assets, completed),
		CostTrends:            monthlyCosts(thisMonth, 6, costIn),
	}
}

func monthStart(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

func completedCostInYear(completed []*model.WorkOrder, year int) float64 {
	return lo.SumBy(completed, func(wo *model.WorkOrder) float64 {
		if wo.CompletedDate.Year() == year {
			return wo.Cost
		}
		return 0
	})
}

func statusCounts(orders []*model.WorkOrder) []model.StatusCount {
	statuses := []model.WorkOrderStatus{
		model.WorkOrderPlanned, model.WorkOrderInProgress, model.WorkOrderCompleted, model.WorkOrderOverdue,
	}
	return lo.Map(statuses, func(s model.WorkOrderStatus, _ int) model.StatusCount {
		return model.StatusCount{Status: s, Count: countStatus(orders, s)}
	})
}

func costByCategory(assets []*model.Asset, completed []*model.WorkOrder) []model.CategoryCost {
	byAsset := lo.GroupBy(completed, func(wo *model.WorkOrder) string { return wo.AssetID })
	totals := map[string]float64{}
	for _, a := range assets {
		totals[a.Category] += lo.SumBy(byAsset[a.ID], func(wo *model.WorkOrder) float64 { return wo.Cost })
	}
	categories := lo.Keys(totals)
	slices.Sort(categories)
	return lo.Map(categories, func(c string, _ int) model.CategoryCost {
		return model.CategoryCost{Category: c, Cost: totals[c]}
	})
}

// monthlyCosts returns n months ending with the given month, oldest first.
func monthlyCosts(month time.Time, n int, costIn func(time.Time) float64) []model.MonthlyCost {
	out := make([]model.MonthlyCost, 0, n)
	for i := n - 1; i >= 0; i-- {
		m := month.AddDate(0, -i, 0)
		out = append(out, model.MonthlyCost{Month: m.Format("Jan"), Cost: costIn(m)})
	}
	return out
}
