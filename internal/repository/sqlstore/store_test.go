package sqlstore

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmmsmind/backend/internal/model"
	"github.com/cmmsmind/backend/internal/report"
	"github.com/cmmsmind/backend/internal/repository"
	"github.com/cmmsmind/backend/internal/repository/memory"
	"github.com/cmmsmind/backend/internal/repository/seed"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	db, err := sql.Open(SQLite.DriverName(), ":memory:")
	require.NoError(t, err)
	// every pooled connection would otherwise get its own empty database
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	s := New(db, SQLite)
	applied, err := s.Migrate(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, applied)
	return s
}

func TestParseDialect(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    Dialect
		wantErr bool
	}{
		{in: "postgres", want: Postgres},
		{in: "PGX", want: Postgres},
		{in: "sqlite", want: SQLite},
		{in: "sqlite3", want: SQLite},
		{in: "mysql", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			got, err := ParseDialect(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
	assert.Equal(t, "pgx", Postgres.DriverName())
}

func TestAssetRoundTrip(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := newTestStore(t).Assets()

	warranty := model.MustDate("2027-06-30")
	a := &model.Asset{
		Code:               "PMP-" + gofakeit.DigitN(3),
		Name:               "Centrifugal Pump A1",
		Category:           "Pumps",
		Location:           gofakeit.City(),
		Status:             model.AssetStatusActive,
		PurchaseDate:       model.MustDate("2021-04-01"),
		PurchaseCost:       42500.5,
		UsefulLifeYears:    12,
		DepreciationMethod: model.DepreciationStraightLine,
		ResidualValue:      2500,
		Tags:               []string{"critical", "line-1"},
		IsFleet:            true,
		WarrantyExpiry:     &warranty,
	}
	require.NoError(t, repo.Create(ctx, a))
	assert.Regexp(t, `^AST-[0-9A-F]{8}$`, a.ID)

	got, err := repo.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, a.Name, got.Name)
	assert.Equal(t, a.PurchaseDate, got.PurchaseDate)
	assert.Equal(t, a.PurchaseCost, got.PurchaseCost)
	assert.Equal(t, a.Tags, got.Tags)
	assert.True(t, got.IsFleet)
	require.NotNil(t, got.WarrantyExpiry)
	assert.Equal(t, "2027-06-30", got.WarrantyExpiry.String())
	assert.True(t, a.CreatedAt.Equal(got.CreatedAt))

	byCode, err := repo.GetByCode(ctx, a.Code)
	require.NoError(t, err)
	assert.Equal(t, a.ID, byCode.ID)

	created := got.CreatedAt
	got.Name = "Renamed"
	got.CreatedAt = time.Time{}
	require.NoError(t, repo.Update(ctx, got))
	assert.True(t, created.Equal(got.CreatedAt), "update keeps the creation time")

	list, err := repo.List(ctx, model.AssetFilter{Query: "renam"})
	require.NoError(t, err)
	require.Len(t, list, 1)

	require.ErrorIs(t, repo.Create(ctx, got), repository.ErrAlreadyExists)
	require.NoError(t, repo.Delete(ctx, a.ID))
	_, err = repo.GetByID(ctx, a.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, a.ID), repository.ErrNotFound)
	assert.ErrorIs(t, repo.Update(ctx, got), repository.ErrNotFound)
}

func TestStockMovements(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := newTestStore(t)

	maxStock := 20
	part := &model.SparePart{Code: "BRG-6205", Description: "Bearing 6205", Category: "Bearings", CurrentStock: 5, MinStock: 4, MaxStock: &maxStock, UnitCost: 12}
	require.NoError(t, s.Parts().Create(ctx, part))

	out := &model.InventoryMovement{PartID: part.ID, Type: model.MovementOut, Quantity: 3, PerformedBy: "tech"}
	updated, err := s.Movements().Record(ctx, out)
	require.NoError(t, err)
	assert.Equal(t, 2, updated.CurrentStock)
	require.NotNil(t, updated.MaxStock)
	assert.Equal(t, 20, *updated.MaxStock)

	low, err := s.Parts().List(ctx, model.PartFilter{LowStock: true})
	require.NoError(t, err)
	require.Len(t, low, 1)

	updated, err = s.Parts().AdjustStock(ctx, part.ID, -10)
	require.NoError(t, err)
	assert.Equal(t, 0, updated.CurrentStock)

	_, err = s.Movements().Record(ctx, &model.InventoryMovement{PartID: "SP-MISSING", Type: model.MovementIn, Quantity: 1})
	assert.ErrorIs(t, err, repository.ErrNotFound)

	moves, err := s.Movements().List(ctx, model.MovementFilter{PartID: part.ID})
	require.NoError(t, err)
	assert.Len(t, moves, 1)
}

func TestWorkOrderStatus(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := newTestStore(t)

	wo := &model.WorkOrder{
		AssetID:        "AST001",
		Title:          "Replace seal",
		Priority:       model.PriorityHigh,
		Status:         model.WorkOrderPlanned,
		ScheduledDate:  model.MustDate("2024-02-01"),
		DueDate:        model.MustDate("2024-02-10"),
		SparePartsUsed: []model.PartUsage{{PartID: "SP001", Quantity: 2, UnitCost: 10, TotalCost: 20}},
	}
	require.NoError(t, s.WorkOrders().Create(ctx, wo))

	due, err := s.WorkOrders().List(ctx, model.WorkOrderFilter{
		Statuses: model.OpenWorkOrderStatuses,
		DueFrom:  model.DatePtr(model.MustDate("2024-02-10")),
		DueTo:    model.DatePtr(model.MustDate("2024-02-10")),
	})
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, 20.0, due[0].PartsCost())

	done, err := s.WorkOrders().UpdateStatus(ctx, wo.ID, model.WorkOrderCompleted)
	require.NoError(t, err)
	require.NotNil(t, done.CompletedDate)

	open, err := s.WorkOrders().List(ctx, model.WorkOrderFilter{Statuses: model.OpenWorkOrderStatuses})
	require.NoError(t, err)
	assert.Empty(t, open)

	_, err = s.WorkOrders().UpdateStatus(ctx, "WO-MISSING", model.WorkOrderCompleted)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestNotificationsAndSettings(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := newTestStore(t)

	first := model.NewNotification(model.NotificationLowStock, model.SeverityWarning, "low", "spare_part", "SP001")
	first.CreatedAt = time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)
	second := model.NewNotification(model.NotificationOverdueMaintenance, model.SeverityError, "overdue", "work_order", "WO001")
	second.CreatedAt = time.Date(2024, 1, 2, 8, 0, 0, 0, time.UTC)
	require.NoError(t, s.Notifications().Create(ctx, first))
	require.NoError(t, s.Notifications().Create(ctx, second))

	list, err := s.Notifications().List(ctx, model.NotificationFilter{})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID, "newest first")

	require.NoError(t, s.Notifications().MarkAsRead(ctx, first.ID))
	require.NoError(t, s.Notifications().MarkAsRead(ctx, first.ID))
	assert.ErrorIs(t, s.Notifications().MarkAsRead(ctx, "NOT-MISSING"), repository.ErrNotFound)

	n, err := s.Notifications().MarkAllAsRead(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	unread, err := s.Notifications().List(ctx, model.NotificationFilter{UnreadOnly: true})
	require.NoError(t, err)
	assert.Empty(t, unread)

	require.NoError(t, s.Notifications().DeleteAll(ctx))
	list, err = s.Notifications().List(ctx, model.NotificationFilter{})
	require.NoError(t, err)
	assert.Empty(t, list)

	company, err := s.Settings().Company(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.CompanyProfileID, company.ID)
	assert.Empty(t, company.Name)

	company.Name = "Acme Maintenance"
	require.NoError(t, s.Settings().UpdateCompany(ctx, company))
	company.City = "Jakarta"
	company.UpdatedAt = time.Time{}
	require.NoError(t, s.Settings().UpdateCompany(ctx, company))

	company, err = s.Settings().Company(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Acme Maintenance", company.Name)
	assert.Equal(t, "Jakarta", company.City)
}

func TestDemoDataMatchesMemoryStore(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	ds, err := seed.Demo()
	require.NoError(t, err)

	sqlStore := newTestStore(t)
	require.NoError(t, seed.Load(ctx, sqlStore, ds))

	ds, err = seed.Demo()
	require.NoError(t, err)
	memStore := memory.New()
	require.NoError(t, seed.Load(ctx, memStore, ds))

	clock := func() time.Time { return time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC) }
	fromSQL, err := report.NewService(sqlStore).WithClock(clock).Dashboard(ctx)
	require.NoError(t, err)
	fromMem, err := report.NewService(memStore).WithClock(clock).Dashboard(ctx)
	require.NoError(t, err)

	assert.Equal(t, fromMem.TotalAssets, fromSQL.TotalAssets)
	assert.Equal(t, fromMem.TotalFleetVehicles, fromSQL.TotalFleetVehicles)
	assert.Equal(t, fromMem.OpenWorkOrders, fromSQL.OpenWorkOrders)
	assert.Equal(t, fromMem.OverdueWorkOrders, fromSQL.OverdueWorkOrders)
	assert.Equal(t, fromMem.LowStockParts, fromSQL.LowStockParts)
	assert.Equal(t, fromMem.UnreadNotifications, fromSQL.UnreadNotifications)
	assert.Equal(t, fromMem.WorkOrdersByStatus, fromSQL.WorkOrdersByStatus)
	assert.InDelta(t, fromMem.MaintenanceCostYTD, fromSQL.MaintenanceCostYTD, 0.001)

	seal, err := sqlStore.Parts().GetByID(ctx, "SP001")
	require.NoError(t, err)
	assert.Equal(t, 12, seal.CurrentStock)

	regions, err := sqlStore.Warehouses().Regions(ctx)
	require.NoError(t, err)
	memRegions, err := memStore.Warehouses().Regions(ctx)
	require.NoError(t, err)
	assert.Equal(t, memRegions, regions)
}
