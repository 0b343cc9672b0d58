package report

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/cmmsmind/backend/internal/model"
	"github.com/cmmsmind/backend/internal/repository"
)

// Report pairs rows with their summary.
type Report[T any] struct {
	Data    []T                 `json:"data"`
	Summary model.ReportSummary `json:"summary"`
}

// Service loads snapshots from storage and runs the aggregators over them.
type Service struct {
	store repository.Store
	now   func() time.Time
}

// NewService creates a report service backed by store.
func NewService(store repository.Store) *Service {
	return &Service{store: store, now: func() time.Time { return time.Now().UTC() }}
}

// WithClock overrides the time source used for as-of calculations.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Now returns the service's current time.
func (s *Service) Now() time.Time {
	return s.now()
}

// Snapshot reads every collection the reports need.
func (s *Service) Snapshot(ctx context.Context) (Snapshot, error) {
	const op = "report.Snapshot"

	var snap Snapshot
	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() (err error) {
		snap.Assets, err = s.store.Assets().List(egCtx, model.AssetFilter{})
		return err
	})
	eg.Go(func() (err error) {
		snap.WorkOrders, err = s.store.WorkOrders().List(egCtx, model.WorkOrderFilter{})
		return err
	})
	eg.Go(func() (err error) {
		snap.Fleet, err = s.store.Fleet().List(egCtx, model.FleetFilter{})
		return err
	})
	eg.Go(func() (err error) {
		snap.Parts, err = s.store.Parts().List(egCtx, model.PartFilter{})
		return err
	})
	eg.Go(func() (err error) {
		snap.Movements, err = s.store.Movements().List(egCtx, model.MovementFilter{})
		return err
	})
	eg.Go(func() (err error) {
		snap.Plans, err = s.store.Plans().List(egCtx, model.PlanFilter{})
		return err
	})
	if err := eg.Wait(); err != nil {
		return Snapshot{}, fmt.Errorf("%s: %w", op, err)
	}
	return snap, nil
}

func (s *Service) WorkOrders(ctx context.Context, f model.ReportFilter) (Report[model.WorkOrderReportRow], error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return Report[model.WorkOrderReportRow]{}, err
	}
	rows := WorkOrders(snap, f)
	return Report[model.WorkOrderReportRow]{
		Data:    rows,
		Summary: Summarize(rows, f, func(r model.WorkOrderReportRow) float64 { return r.Cost }, s.now()),
	}, nil
}

func (s *Service) AssetPerformance(ctx context.Context, f model.ReportFilter) (Report[model.AssetPerformanceRow], error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return Report[model.AssetPerformanceRow]{}, err
	}
	now := s.now()
	rows := AssetPerformance(snap, f, now)
	return Report[model.AssetPerformanceRow]{
		Data:    rows,
		Summary: Summarize(rows, f, func(r model.AssetPerformanceRow) float64 { return r.MaintenanceCostTotal }, now),
	}, nil
}

// Inventory summarises over an unfiltered date range since stock has no period.
func (s *Service) Inventory(ctx context.Context, f model.ReportFilter) (Report[model.InventoryStatusRow], error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return Report[model.InventoryStatusRow]{}, err
	}
	rows := InventoryStatus(snap, f)
	summary := Summarize(rows, model.ReportFilter{}, func(r model.InventoryStatusRow) float64 { return r.TotalValue }, s.now())
	summary.AdditionalMetrics = InventoryMetrics(rows)
	return Report[model.InventoryStatusRow]{Data: rows, Summary: summary}, nil
}

func (s *Service) Fleet(ctx context.Context) (Report[model.FleetTrackingRow], error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return Report[model.FleetTrackingRow]{}, err
	}
	now := s.now()
	rows := FleetTracking(snap, now)
	summary := Summarize(rows, model.ReportFilter{}, func(r model.FleetTrackingRow) float64 { return r.MaintenanceCostTotal }, now)
	summary.AdditionalMetrics = FleetMetrics(rows)
	return Report[model.FleetTrackingRow]{Data: rows, Summary: summary}, nil
}

func (s *Service) MaintenanceCosts(ctx context.Context, f model.ReportFilter) (Report[model.MaintenanceCostRow], error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return Report[model.MaintenanceCostRow]{}, err
	}
	rows := MaintenanceCosts(snap, f)
	summary := Summarize(rows, f, func(r model.MaintenanceCostRow) float64 { return r.TotalCost }, s.now())
	summary.AdditionalMetrics = MaintenanceCostMetrics(rows)
	return Report[model.MaintenanceCostRow]{Data: rows, Summary: summary}, nil
}

// Dashboard computes headline metrics including the unread notification count.
func (s *Service) Dashboard(ctx context.Context) (model.DashboardMetrics, error) {
	const op = "report.Dashboard"

	snap, err := s.Snapshot(ctx)
	if err != nil {
		return model.DashboardMetrics{}, err
	}
	unread, err := s.store.Notifications().List(ctx, model.NotificationFilter{UnreadOnly: true})
	if err != nil {
		return model.DashboardMetrics{}, fmt.Errorf("%s: %w", op, err)
	}
	return Dashboard(snap, len(unread), s.now()), nil
}
