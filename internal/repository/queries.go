package repository

import (
	"context"
	"time"

	"github.com/samber/lo"

	"github.com/cmmsmind/backend/internal/model"
)

// OverdueWorkOrders returns work orders that are still open and were due before today.
func OverdueWorkOrders(ctx context.Context, repo WorkOrderRepository, today model.Date) ([]*model.WorkOrder, error) {
	yesterday := today.AddDays(-1)
	return repo.List(ctx, model.WorkOrderFilter{
		Statuses: model.OpenWorkOrderStatuses,
		DueTo:    &yesterday,
	})
}

// UpcomingWorkOrders returns open work due between today and today plus days.
func UpcomingWorkOrders(ctx context.Context, repo WorkOrderRepository, today model.Date, days int) ([]*model.WorkOrder, error) {
	until := today.AddDays(days)
	return repo.List(ctx, model.WorkOrderFilter{
		Statuses: model.OpenWorkOrderStatuses,
		DueFrom:  &today,
		DueTo:    &until,
	})
}

// TotalWorkOrderCost sums the declared cost of every work order.
func TotalWorkOrderCost(ctx context.Context, repo WorkOrderRepository) (float64, error) {
	orders, err := repo.List(ctx, model.WorkOrderFilter{})
	if err != nil {
		return 0, err
	}
	return lo.SumBy(orders, func(wo *model.WorkOrder) float64 { return wo.Cost }), nil
}

// UpcomingPlans returns active plans due between today and today plus days.
func UpcomingPlans(ctx context.Context, repo PlanRepository, today model.Date, days int) ([]*model.MaintenancePlan, error) {
	until := today.AddDays(days)
	return repo.List(ctx, model.PlanFilter{Active: lo.ToPtr(true), DueFrom: &today, DueTo: &until})
}

// UpdateOdometer sets a vehicle's odometer reading.
func UpdateOdometer(ctx context.Context, repo FleetRepository, id string, reading float64) (*model.FleetVehicle, error) {
	v, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	v.Odometer = reading
	if err := repo.Update(ctx, v); err != nil {
		return nil, err
	}
	return v, nil
}

// UpdateLocation records a GPS fix and stamps it with at.
func UpdateLocation(ctx context.Context, repo FleetRepository, id string, loc model.GeoLocation, at time.Time) (*model.FleetVehicle, error) {
	v, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	v.LastKnownLocation = loc
	v.LastGPSTimestamp = at.UTC()
	if err := repo.Update(ctx, v); err != nil {
		return nil, err
	}
	return v, nil
}
