package report

import (
	"github.com/samber/lo"

	"github.com/cmmsmind/backend/internal/model"
)

// WorkOrders lists work orders with their asset context.
func WorkOrders(snap Snapshot, f model.ReportFilter) []model.WorkOrderReportRow {
	assets := assetsByID(snap.Assets)

	selected := lo.Filter(snap.WorkOrders, func(wo *model.WorkOrder, _ int) bool {
		if !matchesAny(f.WorkOrderStatuses, wo.Status) || !matchesAny(f.Priority, wo.Priority) {
			return false
		}
		if len(f.AssignedTo) > 0 && (wo.AssignedTo == "" || !lo.Contains(f.AssignedTo, wo.AssignedTo)) {
			return false
		}
		if hasDateRange(f) && !inDateRange(wo.CreatedAt, f) {
			return false
		}
		if len(f.AssetCategories) > 0 {
			asset, ok := assets[wo.AssetID]
			if !ok || !lo.Contains(f.AssetCategories, asset.Category) {
				return false
			}
		}
		return true
	})

	return lo.Map(selected, func(wo *model.WorkOrder, _ int) model.WorkOrderReportRow {
		row := model.WorkOrderReportRow{
			ID:            wo.ID,
			Title:         wo.Title,
			AssetID:       wo.AssetID,
			AssetName:     assetName(assets, wo),
			AssetCategory: categoryOf(assets, wo.AssetID),
			Status:        wo.Status,
			Priority:      wo.Priority,
			AssignedTo:    lo.Ternary(wo.AssignedTo != "", wo.AssignedTo, "Unassigned"),
			ScheduledDate: wo.ScheduledDate,
			DueDate:       wo.DueDate,
			CompletedDate: wo.CompletedDate,
			Cost:          wo.Cost,
			LaborHours:    wo.LaborHours,
			PartsCount:    len(wo.SparePartsUsed),
			PartsCost:     wo.PartsCost(),
		}
		if wo.CompletedDate != nil && !wo.CompletedDate.IsZero() {
			days := daysBetween(wo.ScheduledDate, *wo.CompletedDate)
			row.DaysToComplete = &days
		}
		return row
	})
}

// assetName prefers the live asset record over the name cached on the work order.
func assetName(assets map[string]*model.Asset, wo *model.WorkOrder) string {
	if a, ok := assets[wo.AssetID]; ok && a.Name != "" {
		return a.Name
	}
	if wo.AssetName != "" {
		return wo.AssetName
	}
	return Unknown
}
