package report

import (
	"math"
	"slices"
	"time"

	"github.com/samber/lo"

	"github.com/cmmsmind/backend/internal/model"
)

// FleetTracking reports usage and maintenance cost for every vehicle. Work
// orders and plans are matched on either the vehicle ID or its asset ID.
func FleetTracking(snap Snapshot, now time.Time) []model.FleetTrackingRow {
	assets := assetsByID(snap.Assets)
	ordersByTarget := lo.GroupBy(snap.WorkOrders, func(wo *model.WorkOrder) string { return wo.AssetID })
	activePlans := lo.Filter(snap.Plans, func(p *model.MaintenancePlan, _ int) bool { return p.IsActive })
	plansByTarget := lo.GroupBy(activePlans, func(p *model.MaintenancePlan) string { return p.AssetID })

	return lo.Map(snap.Fleet, func(v *model.FleetVehicle, _ int) model.FleetTrackingRow {
		orders := ordersByTarget[v.ID]
		if v.AssetID != v.ID {
			orders = slices.Concat(ordersByTarget[v.AssetID], orders)
		}
		total := lo.SumBy(orders, func(wo *model.WorkOrder) float64 { return wo.Cost })

		months := 1.0
		if a, ok := assets[v.AssetID]; ok && !a.PurchaseDate.IsZero() {
			days := now.Sub(a.PurchaseDate.Time).Hours() / 24
			months = math.Max(1, math.Floor(days/30))
		}

		return model.FleetTrackingRow{
			VehicleID:            v.ID,
			AssetID:              v.AssetID,
			PlateNumber:          v.PlateNumber,
			Type:                 v.Type,
			Brand:                v.Brand,
			Model:                v.Model,
			Status:               v.Status,
			Odometer:             v.Odometer,
			LastLocation:         v.LastKnownLocation.Label(),
			LastGPSTimestamp:     v.LastGPSTimestamp,
			MaintenanceCount:     len(orders),
			MaintenanceCostTotal: total,
			FuelType:             v.FuelType,
			InsuranceExpiry:      v.InsuranceExpiry,
			NextServiceDue:       nextDue(slices.Concat(plansByTarget[v.AssetID], plansByTarget[v.ID])),
			AvgMonthlyMileage:    v.Odometer / months,
			CostPerKm:            lo.Ternary(v.Odometer > 0, safeDiv(total, v.Odometer), 0),
		}
	})
}

func nextDue(plans []*model.MaintenancePlan) *model.Date {
	if len(plans) == 0 {
		return nil
	}
	earliest := lo.MinBy(plans, func(a, b *model.MaintenancePlan) bool {
		return a.NextDueDate.Before(b.NextDueDate)
	})
	d := earliest.NextDueDate
	return &d
}
