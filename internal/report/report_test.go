package report

import (
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmmsmind/backend/internal/model"
)

var now = time.Date(2024, 2, 20, 12, 0, 0, 0, time.UTC)

func asset(id, category string, status model.AssetStatus, purchase string) *model.Asset {
	return &model.Asset{
		BaseEntity:      model.BaseEntity{ID: id},
		Code:            id + "-CODE",
		Name:            id + " name",
		Category:        category,
		Status:          status,
		PurchaseDate:    model.MustDate(purchase),
		PurchaseCost:    45000,
		ResidualValue:   5000,
		UsefulLifeYears: 10,
	}
}

func workOrder(id, assetID string, status model.WorkOrderStatus, created string, cost float64, parts ...model.PartUsage) *model.WorkOrder {
	createdAt, err := time.Parse(time.RFC3339, created)
	if err != nil {
		panic(err)
	}
	return &model.WorkOrder{
		BaseEntity:     model.BaseEntity{ID: id, CreatedAt: createdAt, UpdatedAt: createdAt},
		AssetID:        assetID,
		Title:          id + " title",
		Priority:       model.PriorityMedium,
		Status:         status,
		ScheduledDate:  model.DateOf(createdAt),
		DueDate:        model.DateOf(createdAt).AddDays(7),
		Cost:           cost,
		SparePartsUsed: parts,
	}
}

func part(id string, stock, minStock int, maxStock *int) *model.SparePart {
	return &model.SparePart{
		BaseEntity:   model.BaseEntity{ID: id},
		Code:         id + "-CODE",
		Category:     "Belts",
		CurrentStock: stock,
		MinStock:     minStock,
		MaxStock:     maxStock,
		UnitCost:     10,
	}
}

func fixture() Snapshot {
	wo1 := workOrder("WO001", "AST001", model.WorkOrderCompleted, "2024-01-10T09:00:00Z", 850,
		model.PartUsage{PartID: "SP001", Quantity: 2, UnitCost: 125, TotalCost: 250},
		model.PartUsage{PartID: "SP015", Quantity: 4, UnitCost: 45, TotalCost: 180},
	)
	wo1.CompletedDate = model.DatePtr(model.MustDate("2024-01-15"))
	wo1.ScheduledDate = model.MustDate("2024-01-15")
	wo1.AssignedTo = "Mike Johnson"

	wo2 := workOrder("WO002", "AST002", model.WorkOrderInProgress, "2024-02-10T10:00:00Z", 0)
	wo2.AssignedTo = "Robert Brown"
	wo2.Priority = model.PriorityLow
	wo2.DueDate = model.MustDate("2024-02-25")

	wo3 := workOrder("WO003", "AST001", model.WorkOrderOverdue, "2024-02-01T08:00:00Z", 100)
	wo3.Priority = model.PriorityHigh

	wo4 := workOrder("WO004", "FLT001", model.WorkOrderPlanned, "2024-02-10T13:00:00Z", 300)
	wo4.AssetName = "Isuzu Truck"
	wo4.DueDate = model.MustDate("2024-03-05")

	return Snapshot{
		Assets: []*model.Asset{
			asset("AST001", "Pumps", model.AssetStatusActive, "2020-03-15"),
			asset("AST002", "Compressors", model.AssetStatusMaintenance, "2019-06-20"),
			asset("AST011", "Vehicles", model.AssetStatusActive, "2021-02-20"),
		},
		WorkOrders: []*model.WorkOrder{wo1, wo2, wo3, wo4},
		Fleet: []*model.FleetVehicle{{
			BaseEntity:        model.BaseEntity{ID: "FLT001"},
			AssetID:           "AST011",
			PlateNumber:       "B 1234 XYZ",
			Odometer:          45230,
			Status:            model.FleetStatusActive,
			LastKnownLocation: model.GeoLocation{Lat: -6.2, Lng: 106.8, City: "Jakarta"},
		}, {
			BaseEntity:  model.BaseEntity{ID: "FLT002"},
			AssetID:     "AST404",
			PlateNumber: "B 5678 ABC",
			Status:      model.FleetStatusInWorkshop,
		}},
		Parts: []*model.SparePart{
			part("SP001", 12, 5, intPtrOf(25)),
			part("SP005", 4, 6, intPtrOf(15)),
			part("SP009", 0, 8, intPtrOf(25)),
			part("SP010", 30, 6, intPtrOf(20)),
		},
		Movements: []*model.InventoryMovement{
			{BaseEntity: model.BaseEntity{ID: "IM001", CreatedAt: now.Add(-48 * time.Hour)}, PartID: "SP001", Type: model.MovementOut, Quantity: 2},
			{BaseEntity: model.BaseEntity{ID: "IM002", CreatedAt: now.Add(-24 * time.Hour)}, PartID: "SP001", Type: model.MovementIn, Quantity: 5},
		},
		Plans: []*model.MaintenancePlan{
			{BaseEntity: model.BaseEntity{ID: "PLAN003"}, AssetID: "FLT001", IsActive: true, NextDueDate: model.MustDate("2024-03-20")},
			{BaseEntity: model.BaseEntity{ID: "PLAN009"}, AssetID: "AST011", IsActive: true, NextDueDate: model.MustDate("2024-03-01")},
			{BaseEntity: model.BaseEntity{ID: "PLAN010"}, AssetID: "AST011", IsActive: false, NextDueDate: model.MustDate("2024-02-25")},
		},
	}
}

func intPtrOf(n int) *int { return &n }

func TestWorkOrders(t *testing.T) {
	t.Parallel()

	snap := fixture()

	t.Run("unfiltered returns every work order", func(t *testing.T) {
		t.Parallel()
		rows := WorkOrders(snap, model.ReportFilter{})
		require.Len(t, rows, 4)

		first := rows[0]
		assert.Equal(t, "AST001 name", first.AssetName)
		assert.Equal(t, "Pumps", first.AssetCategory)
		assert.Equal(t, 430.0, first.PartsCost)
		assert.Equal(t, 2, first.PartsCount)
		require.NotNil(t, first.DaysToComplete)
		assert.Equal(t, 0, *first.DaysToComplete)

		assert.Nil(t, rows[1].DaysToComplete)
		assert.Equal(t, "Unassigned", rows[2].AssignedTo)
	})

	t.Run("orphaned work order falls back to cached name", func(t *testing.T) {
		t.Parallel()
		rows := WorkOrders(snap, model.ReportFilter{})
		assert.Equal(t, "Isuzu Truck", rows[3].AssetName)
		assert.Equal(t, Unknown, rows[3].AssetCategory)
	})

	tests := []struct {
		name   string
		filter model.ReportFilter
		want   []string
	}{
		{
			name:   "status",
			filter: model.ReportFilter{WorkOrderStatuses: []model.WorkOrderStatus{model.WorkOrderCompleted, model.WorkOrderOverdue}},
			want:   []string{"WO001", "WO003"},
		},
		{
			name:   "priority",
			filter: model.ReportFilter{Priority: []model.Priority{model.PriorityLow}},
			want:   []string{"WO002"},
		},
		{
			name:   "assignee excludes unassigned",
			filter: model.ReportFilter{AssignedTo: []string{"Mike Johnson", "Robert Brown"}},
			want:   []string{"WO001", "WO002"},
		},
		{
			name:   "category excludes orphans",
			filter: model.ReportFilter{AssetCategories: []string{"Pumps"}},
			want:   []string{"WO001", "WO003"},
		},
		{
			name:   "date to is inclusive of the whole day",
			filter: model.ReportFilter{DateTo: model.DatePtr(model.MustDate("2024-02-01"))},
			want:   []string{"WO001", "WO003"},
		},
		{
			name:   "date from only",
			filter: model.ReportFilter{DateFrom: model.DatePtr(model.MustDate("2024-02-10"))},
			want:   []string{"WO002", "WO004"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rows := WorkOrders(snap, tt.filter)
			ids := make([]string, 0, len(rows))
			for _, r := range rows {
				ids = append(ids, r.ID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestFilteringNeverAddsRows(t *testing.T) {
	t.Parallel()

	snap := fixture()
	categories := []string{"Pumps", "Compressors", "Vehicles", "Belts", "Unknown"}
	statuses := []model.WorkOrderStatus{model.WorkOrderPlanned, model.WorkOrderInProgress, model.WorkOrderCompleted, model.WorkOrderOverdue}

	for i := 0; i < 50; i++ {
		from := model.DateOf(gofakeit.DateRange(time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), now))
		f := model.ReportFilter{
			AssetCategories:   []string{categories[gofakeit.Number(0, len(categories)-1)]},
			WorkOrderStatuses: []model.WorkOrderStatus{statuses[gofakeit.Number(0, len(statuses)-1)]},
			DateFrom:          &from,
		}
		assert.LessOrEqual(t, len(WorkOrders(snap, f)), len(WorkOrders(snap, model.ReportFilter{})))
		assert.LessOrEqual(t, len(AssetPerformance(snap, f, now)), len(AssetPerformance(snap, model.ReportFilter{}, now)))
		assert.LessOrEqual(t, len(InventoryStatus(snap, f)), len(InventoryStatus(snap, model.ReportFilter{})))
		assert.LessOrEqual(t, len(MaintenanceCosts(snap, f)), len(MaintenanceCosts(snap, model.ReportFilter{})))
	}
}

func TestAssetPerformance(t *testing.T) {
	t.Parallel()

	snap := fixture()
	asOf := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)

	rows := AssetPerformance(snap, model.ReportFilter{AssetCategories: []string{"Pumps"}}, asOf)
	require.Len(t, rows, 1)

	row := rows[0]
	assert.InDelta(t, 20000, row.AccumulatedDepreciation, 1e-9)
	assert.InDelta(t, 25000, row.BookValue, 1e-9)
	assert.Equal(t, 2, row.MaintenanceCount)
	assert.Equal(t, 950.0, row.MaintenanceCostTotal)
	assert.Zero(t, row.MaintenanceCostYTD)
	assert.Equal(t, 475.0, row.AvgMaintenanceCost)
	require.NotNil(t, row.LastMaintenanceDate)
	assert.Equal(t, "2024-01-15", row.LastMaintenanceDate.String())
	assert.Equal(t, 0.85, row.UtilizationRate)

	t.Run("no work orders", func(t *testing.T) {
		t.Parallel()
		rows := AssetPerformance(snap, model.ReportFilter{AssetCategories: []string{"Vehicles"}}, asOf)
		require.Len(t, rows, 1)
		assert.Zero(t, rows[0].AvgMaintenanceCost)
		assert.Nil(t, rows[0].LastMaintenanceDate)
	})

	t.Run("year to date follows the clock", func(t *testing.T) {
		t.Parallel()
		rows := AssetPerformance(snap, model.ReportFilter{AssetCategories: []string{"Pumps"}}, now)
		assert.Equal(t, 950.0, rows[0].MaintenanceCostYTD)
	})

	t.Run("purchase date range", func(t *testing.T) {
		t.Parallel()
		f := model.ReportFilter{
			DateFrom: model.DatePtr(model.MustDate("2020-01-01")),
			DateTo:   model.DatePtr(model.MustDate("2020-12-31")),
		}
		rows := AssetPerformance(snap, f, now)
		require.Len(t, rows, 1)
		assert.Equal(t, "AST001", rows[0].AssetID)
	})

	t.Run("maintenance status halves utilization", func(t *testing.T) {
		t.Parallel()
		rows := AssetPerformance(snap, model.ReportFilter{AssetCategories: []string{"Compressors"}}, now)
		assert.Equal(t, 0.5, rows[0].UtilizationRate)
	})
}

func TestClassifyStock(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		part    *model.SparePart
		want    model.StockStatus
		reorder int
	}{
		{name: "low", part: part("A", 4, 6, intPtrOf(15)), want: model.StockLow, reorder: 11},
		{name: "critical beats low", part: part("B", 0, 8, intPtrOf(25)), want: model.StockCritical, reorder: 25},
		{name: "critical without minimum", part: part("C", 0, 0, nil), want: model.StockCritical, reorder: 0},
		{name: "overstocked", part: part("D", 30, 6, intPtrOf(20)), want: model.StockOverstocked, reorder: 0},
		{name: "adequate at max", part: part("E", 20, 6, intPtrOf(20)), want: model.StockAdequate, reorder: 0},
		{name: "no max reorders to twice min", part: part("F", 3, 5, nil), want: model.StockLow, reorder: 7},
		{name: "unbounded never overstocked", part: part("G", 900, 5, nil), want: model.StockAdequate, reorder: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, ClassifyStock(*tt.part))
			assert.Equal(t, tt.reorder, ReorderQuantity(*tt.part))
		})
	}

	t.Run("total over random parts", func(t *testing.T) {
		t.Parallel()
		bands := []model.StockStatus{model.StockCritical, model.StockLow, model.StockAdequate, model.StockOverstocked}
		for i := 0; i < 200; i++ {
			p := part("R", gofakeit.Number(0, 50), gofakeit.Number(0, 20), intPtrOf(gofakeit.Number(0, 40)))
			got := ClassifyStock(*p)
			assert.Contains(t, bands, got)
			if p.CurrentStock == 0 {
				assert.Equal(t, model.StockCritical, got)
			}
		}
	})
}

func TestInventoryStatus(t *testing.T) {
	t.Parallel()

	rows := InventoryStatus(fixture(), model.ReportFilter{})
	require.Len(t, rows, 4)

	assert.Equal(t, 2, rows[0].MovementsCount)
	require.NotNil(t, rows[0].LastMovementDate)
	assert.Equal(t, now.Add(-24*time.Hour), *rows[0].LastMovementDate)
	assert.Equal(t, 120.0, rows[0].TotalValue)

	assert.Equal(t, model.StockLow, rows[1].StockStatus)
	assert.True(t, rows[1].ReorderNeeded)
	assert.Equal(t, 11, rows[1].ReorderQuantity)
	assert.Nil(t, rows[1].LastMovementDate)

	metrics := InventoryMetrics(rows)
	assert.Equal(t, 1.0, metrics["criticalCount"])
	assert.Equal(t, 1.0, metrics["lowCount"])
	assert.Equal(t, 2.0, metrics["reorderCount"])
	assert.Equal(t, 120.0+40+0+300, metrics["totalValue"])

	assert.Empty(t, InventoryStatus(fixture(), model.ReportFilter{AssetCategories: []string{"Pumps"}}))
}

func TestFleetTracking(t *testing.T) {
	t.Parallel()

	rows := FleetTracking(fixture(), now)
	require.Len(t, rows, 2)

	truck := rows[0]
	assert.Equal(t, "Jakarta", truck.LastLocation)
	assert.Equal(t, 1, truck.MaintenanceCount)
	assert.Equal(t, 300.0, truck.MaintenanceCostTotal)
	assert.InDelta(t, 300.0/45230, truck.CostPerKm, 1e-12)
	// 2021-02-20 to 2024-02-20 is 1095 days, 36 whole 30-day months.
	assert.InDelta(t, 45230.0/36, truck.AvgMonthlyMileage, 1e-9)
	require.NotNil(t, truck.NextServiceDue)
	assert.Equal(t, "2024-03-01", truck.NextServiceDue.String())

	orphan := rows[1]
	assert.Zero(t, orphan.CostPerKm)
	assert.Zero(t, orphan.AvgMonthlyMileage)
	assert.Nil(t, orphan.NextServiceDue)
	assert.Equal(t, "0, 0", orphan.LastLocation)

	metrics := FleetMetrics(rows)
	assert.Equal(t, 45230.0, metrics["totalOdometer"])
	assert.Equal(t, 45230.0/2, metrics["avgOdometer"])
	assert.Equal(t, 1.0, metrics["activeCount"])
	assert.Equal(t, 1.0, metrics["maintenanceCount"])
}

func TestMaintenanceCosts(t *testing.T) {
	t.Parallel()

	rows := MaintenanceCosts(fixture(), model.ReportFilter{})
	require.Len(t, rows, 4)

	got := make([][2]string, 0, len(rows))
	for _, r := range rows {
		got = append(got, [2]string{r.Period, r.AssetCategory})
	}
	assert.Equal(t, [][2]string{
		{"2024-02", "Compressors"},
		{"2024-02", "Pumps"},
		{"2024-02", Unknown},
		{"2024-01", "Pumps"},
	}, got)

	jan := rows[3]
	assert.Equal(t, 850.0, jan.TotalCost)
	assert.Equal(t, 430.0, jan.PartsCost)
	assert.Equal(t, 420.0, jan.LaborCost)
	assert.Equal(t, 850.0, jan.AvgCostPerWorkOrder)
	assert.Equal(t, 1, jan.CompletedCount)

	assert.Equal(t, 1, rows[0].PendingCount)
	assert.Equal(t, 1, rows[1].OverdueCount)

	metrics := MaintenanceCostMetrics(rows)
	assert.Equal(t, 4.0, metrics["totalWorkOrders"])
	assert.Equal(t, 2.0, metrics["totalPending"])

	t.Run("category filter", func(t *testing.T) {
		t.Parallel()
		rows := MaintenanceCosts(fixture(), model.ReportFilter{AssetCategories: []string{"Pumps"}})
		require.Len(t, rows, 2)
		assert.Equal(t, "2024-02", rows[0].Period)
	})
}

func TestSummarize(t *testing.T) {
	t.Parallel()

	cost := func(r model.MaintenanceCostRow) float64 { return r.TotalCost }

	t.Run("empty rows omit averages", func(t *testing.T) {
		t.Parallel()
		s := Summarize([]model.MaintenanceCostRow{}, model.ReportFilter{}, cost, now)
		assert.Zero(t, s.TotalRecords)
		assert.Nil(t, s.TotalCost)
		assert.Nil(t, s.AvgCost)
		assert.Equal(t, "2024-01-01", s.DateRange.From.String())
		assert.Equal(t, "2024-02-20", s.DateRange.To.String())
	})

	t.Run("totals and explicit range", func(t *testing.T) {
		t.Parallel()
		rows := []model.MaintenanceCostRow{{TotalCost: 100}, {TotalCost: 300}}
		from := model.MustDate("2023-06-01")
		s := Summarize(rows, model.ReportFilter{DateFrom: &from}, cost, now)
		require.NotNil(t, s.TotalCost)
		require.NotNil(t, s.AvgCost)
		assert.Equal(t, 400.0, *s.TotalCost)
		assert.Equal(t, 200.0, *s.AvgCost)
		assert.Equal(t, "2023-06-01", s.DateRange.From.String())
		assert.Equal(t, "2024-02-20", s.DateRange.To.String())
	})

	t.Run("no cost accessor", func(t *testing.T) {
		t.Parallel()
		s := Summarize([]model.MaintenanceCostRow{{TotalCost: 1}}, model.ReportFilter{}, nil, now)
		assert.Equal(t, 1, s.TotalRecords)
		assert.Nil(t, s.TotalCost)
	})
}

func TestDashboard(t *testing.T) {
	t.Parallel()

	snap := fixture()
	d := Dashboard(snap, 3, now)

	assert.Equal(t, 3, d.TotalAssets)
	assert.Equal(t, 2, d.TotalFleetVehicles)
	assert.Equal(t, 3, d.OpenWorkOrders)
	// WO003 was due 2024-02-08.
	assert.Equal(t, 1, d.OverdueWorkOrders)
	assert.Equal(t, 2, d.UpcomingMaintenance)
	assert.Equal(t, 2, d.LowStockParts)
	assert.Equal(t, 3, d.UnreadNotifications)
	assert.Equal(t, 1, d.AssetsInMaintenance)
	assert.InDelta(t, 200.0/3, d.AssetUtilization, 1e-9)
	assert.Zero(t, d.MaintenanceCostMonth)
	assert.Equal(t, 850.0, d.MaintenanceCostYTD)
	assert.Equal(t, -100.0, d.CostTrend)
	assert.Equal(t, 25.0, d.CompletionRate)
	assert.Zero(t, d.AverageCompletionTime)

	require.Len(t, d.CostTrends, 6)
	assert.Equal(t, "Sep", d.CostTrends[0].Month)
	assert.Equal(t, model.MonthlyCost{Month: "Jan", Cost: 850}, d.CostTrends[4])
	assert.Equal(t, "Feb", d.CostTrends[5].Month)

	assert.Contains(t, d.CostByCategory, model.CategoryCost{Category: "Pumps", Cost: 850})
	assert.Contains(t, d.WorkOrdersByStatus, model.StatusCount{Status: model.WorkOrderOverdue, Count: 1})
}

func TestTables(t *testing.T) {
	t.Parallel()

	snap := fixture()
	tables := []Table{
		WorkOrderTable(WorkOrders(snap, model.ReportFilter{})),
		AssetPerformanceTable(AssetPerformance(snap, model.ReportFilter{}, now)),
		InventoryTable(InventoryStatus(snap, model.ReportFilter{})),
		FleetTable(FleetTracking(snap, now)),
		MaintenanceCostTable(MaintenanceCosts(snap, model.ReportFilter{})),
	}
	for _, table := range tables {
		require.NotEmpty(t, table.Rows, table.Title)
		for _, row := range table.Rows {
			assert.Len(t, row, len(table.Headers), table.Title)
		}
	}
}
