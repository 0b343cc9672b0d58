package model

import "time"

// ReportFilter is an ephemeral query over report data. Unset fields do not filter.
type ReportFilter struct {
	DateFrom          *Date             `json:"dateFrom,omitempty"`
	DateTo            *Date             `json:"dateTo,omitempty"`
	AssetCategories   []string          `json:"assetCategories,omitempty"`
	WorkOrderStatuses []WorkOrderStatus `json:"workOrderStatuses,omitempty"`
	Priority          []Priority        `json:"priority,omitempty"`
	AssignedTo        []string          `json:"assignedTo,omitempty"`
}

// WorkOrderReportRow is one work order joined with its asset.
type WorkOrderReportRow struct {
	ID             string          `json:"id"`
	Title          string          `json:"title"`
	AssetID        string          `json:"assetId"`
	AssetName      string          `json:"assetName"`
	AssetCategory  string          `json:"assetCategory"`
	Status         WorkOrderStatus `json:"status"`
	Priority       Priority        `json:"priority"`
	AssignedTo     string          `json:"assignedTo"`
	ScheduledDate  Date            `json:"scheduledDate"`
	DueDate        Date            `json:"dueDate"`
	CompletedDate  *Date           `json:"completedDate,omitempty"`
	Cost           float64         `json:"cost"`
	LaborHours     float64         `json:"laborHours"`
	PartsCount     int             `json:"partsCount"`
	PartsCost      float64         `json:"partsCost"`
	DaysToComplete *int            `json:"daysToComplete,omitempty"`
}

// AssetPerformanceRow combines an asset's financials with its maintenance history.
type AssetPerformanceRow struct {
	AssetID                 string      `json:"assetId"`
	AssetCode               string      `json:"assetCode"`
	AssetName               string      `json:"assetName"`
	Category                string      `json:"category"`
	Location                string      `json:"location"`
	Status                  AssetStatus `json:"status"`
	PurchaseDate            Date        `json:"purchaseDate"`
	PurchaseCost            float64     `json:"purchaseCost"`
	BookValue               float64     `json:"bookValue"`
	AccumulatedDepreciation float64     `json:"accumulatedDepreciation"`
	MaintenanceCount        int         `json:"maintenanceCount"`
	MaintenanceCostTotal    float64     `json:"maintenanceCostTotal"`
	MaintenanceCostYTD      float64     `json:"maintenanceCostYTD"`
	LastMaintenanceDate     *Date       `json:"lastMaintenanceDate,omitempty"`
	AvgMaintenanceCost      float64     `json:"avgMaintenanceCost"`
	// UtilizationRate is a fixed estimate per status, not measured telemetry.
	UtilizationRate float64 `json:"utilizationRate"`
}

// InventoryStatusRow is one spare part with its stock classification.
type InventoryStatusRow struct {
	PartID           string      `json:"partId"`
	PartCode         string      `json:"partCode"`
	Description      string      `json:"description"`
	Category         string      `json:"category"`
	CurrentStock     int         `json:"currentStock"`
	MinStock         int         `json:"minStock"`
	MaxStock         int         `json:"maxStock"`
	StockStatus      StockStatus `json:"stockStatus"`
	Warehouse        string      `json:"warehouse"`
	UnitCost         float64     `json:"unitCost"`
	TotalValue       float64     `json:"totalValue"`
	LastMovementDate *time.Time  `json:"lastMovementDate,omitempty"`
	MovementsCount   int         `json:"movementsCount"`
	Supplier         string      `json:"supplier,omitempty"`
	LeadTimeDays     int         `json:"leadTimeDays,omitempty"`
	ReorderNeeded    bool        `json:"reorderNeeded"`
	ReorderQuantity  int         `json:"reorderQuantity"`
}

// FleetTrackingRow is one vehicle with usage and maintenance figures.
type FleetTrackingRow struct {
	VehicleID            string      `json:"vehicleId"`
	AssetID              string      `json:"assetId"`
	PlateNumber          string      `json:"plateNumber"`
	Type                 string      `json:"type"`
	Brand                string      `json:"brand"`
	Model                string      `json:"model"`
	Status               FleetStatus `json:"status"`
	Odometer             float64     `json:"odometer"`
	LastLocation         string      `json:"lastLocation"`
	LastGPSTimestamp     time.Time   `json:"lastGpsTimestamp"`
	MaintenanceCount     int         `json:"maintenanceCount"`
	MaintenanceCostTotal float64     `json:"maintenanceCostTotal"`
	FuelType             string      `json:"fuelType,omitempty"`
	InsuranceExpiry      *Date       `json:"insuranceExpiry,omitempty"`
	NextServiceDue       *Date       `json:"nextServiceDue,omitempty"`
	AvgMonthlyMileage    float64     `json:"avgMonthlyMileage"`
	CostPerKm            float64     `json:"costPerKm"`
}

// MaintenanceCostRow aggregates work orders for one month and asset category.
type MaintenanceCostRow struct {
	Period              string  `json:"period"`
	AssetCategory       string  `json:"assetCategory"`
	WorkOrderCount      int     `json:"workOrderCount"`
	TotalCost           float64 `json:"totalCost"`
	LaborCost           float64 `json:"laborCost"`
	PartsCost           float64 `json:"partsCost"`
	AvgCostPerWorkOrder float64 `json:"avgCostPerWorkOrder"`
	CompletedCount      int     `json:"completedCount"`
	PendingCount        int     `json:"pendingCount"`
	OverdueCount        int     `json:"overdueCount"`
}

// DateSpan is the inclusive range a report covers.
type DateSpan struct {
	From Date `json:"from"`
	To   Date `json:"to"`
}

// ReportSummary reduces report rows to totals.
type ReportSummary struct {
	TotalRecords      int                `json:"totalRecords"`
	DateRange         DateSpan           `json:"dateRange"`
	TotalCost         *float64           `json:"totalCost,omitempty"`
	AvgCost           *float64           `json:"avgCost,omitempty"`
	AdditionalMetrics map[string]float64 `json:"additionalMetrics,omitempty"`
}

// DashboardMetrics is the headline view of the maintenance operation.
type DashboardMetrics struct {
	TotalAssets           int            `json:"totalAssets"`
	TotalFleetVehicles    int            `json:"totalFleetVehicles"`
	OpenWorkOrders        int            `json:"openWorkOrders"`
	OverdueWorkOrders     int            `json:"overdueWorkOrders"`
	LowStockParts         int            `json:"lowStockParts"`
	UpcomingMaintenance   int            `json:"upcomingMaintenance"`
	UnreadNotifications   int            `json:"unreadNotifications"`
	AssetsInMaintenance   int            `json:"assetsInMaintenance"`
	AssetUtilization      float64        `json:"assetUtilization"`
	MaintenanceCostMonth  float64        `json:"maintenanceCostCurrentMonth"`
	MaintenanceCostYTD    float64        `json:"maintenanceCostYTD"`
	CostTrend             float64        `json:"costTrend"`
	AverageCompletionTime float64        `json:"averageCompletionTime"`
	CompletionRate        float64        `json:"completionRate"`
	WorkOrdersByStatus    []StatusCount  `json:"workOrdersByStatus"`
	CostByCategory        []CategoryCost `json:"costByCategory"`
	CostTrends            []MonthlyCost  `json:"costTrends"`
}

// StatusCount is the number of work orders in one status.
type StatusCount struct {
	Status WorkOrderStatus `json:"status"`
	Count  int             `json:"count"`
}

// CategoryCost is the completed maintenance spend for one asset category.
type CategoryCost struct {
	Category string  `json:"category"`
	Cost     float64 `json:"cost"`
}

// MonthlyCost is the completed maintenance spend for one calendar month.
type MonthlyCost struct {
	Month string  `json:"month"`
	Cost  float64 `json:"cost"`
}

// ImportError describes a rejected CSV cell.
type ImportError struct {
	Row     int    `json:"row"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

// CSVImportResult reports the outcome of a bulk import.
type CSVImportResult struct {
	Success  bool          `json:"success"`
	Imported int           `json:"imported"`
	Failed   int           `json:"failed"`
	Errors   []ImportError `json:"errors"`
	Data     []*Asset      `json:"data,omitempty"`
}
