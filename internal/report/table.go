package report

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/samber/lo"

	"github.com/cmmsmind/backend/internal/model"
)

// Kind names a report.
type Kind string

const (
	KindWorkOrders       Kind = "work-orders"
	KindAssetPerformance Kind = "asset-performance"
	KindInventory        Kind = "inventory"
	KindFleet            Kind = "fleet"
	KindMaintenanceCosts Kind = "maintenance-costs"
)

// Kinds lists every report in route order.
var Kinds = []Kind{KindWorkOrders, KindAssetPerformance, KindInventory, KindFleet, KindMaintenanceCosts}

// Table is a report flattened to string cells for CSV and spreadsheet export.
type Table struct {
	Title   string
	Headers []string
	Rows    [][]string
}

// Table renders the named report as a Table.
func (s *Service) Table(ctx context.Context, kind Kind, f model.ReportFilter) (Table, error) {
	switch kind {
	case KindWorkOrders:
		r, err := s.WorkOrders(ctx, f)
		return WorkOrderTable(r.Data), err
	case KindAssetPerformance:
		r, err := s.AssetPerformance(ctx, f)
		return AssetPerformanceTable(r.Data), err
	case KindInventory:
		r, err := s.Inventory(ctx, f)
		return InventoryTable(r.Data), err
	case KindFleet:
		r, err := s.Fleet(ctx)
		return FleetTable(r.Data), err
	case KindMaintenanceCosts:
		r, err := s.MaintenanceCosts(ctx, f)
		return MaintenanceCostTable(r.Data), err
	default:
		return Table{}, fmt.Errorf("unknown report %q", kind)
	}
}

func WorkOrderTable(rows []model.WorkOrderReportRow) Table {
	return Table{
		Title: "Work Orders",
		Headers: []string{"ID", "Title", "Asset", "Category", "Status", "Priority", "Assigned To",
			"Scheduled", "Due", "Completed", "Cost", "Labor Hours", "Parts", "Parts Cost", "Days To Complete"},
		Rows: lo.Map(rows, func(r model.WorkOrderReportRow, _ int) []string {
			return []string{r.ID, r.Title, r.AssetName, r.AssetCategory, string(r.Status), string(r.Priority), r.AssignedTo,
				r.ScheduledDate.String(), r.DueDate.String(), datePtr(r.CompletedDate), money(r.Cost),
				num(r.LaborHours), strconv.Itoa(r.PartsCount), money(r.PartsCost), intPtr(r.DaysToComplete)}
		}),
	}
}

func AssetPerformanceTable(rows []model.AssetPerformanceRow) Table {
	return Table{
		Title: "Asset Performance",
		Headers: []string{"Asset ID", "Code", "Name", "Category", "Location", "Status", "Purchase Date",
			"Purchase Cost", "Book Value", "Accumulated Depreciation", "Maintenance Count",
			"Maintenance Cost", "Maintenance Cost YTD", "Last Maintenance", "Avg Maintenance Cost", "Utilization"},
		Rows: lo.Map(rows, func(r model.AssetPerformanceRow, _ int) []string {
			return []string{r.AssetID, r.AssetCode, r.AssetName, r.Category, r.Location, string(r.Status),
				r.PurchaseDate.String(), money(r.PurchaseCost), money(r.BookValue), money(r.AccumulatedDepreciation),
				strconv.Itoa(r.MaintenanceCount), money(r.MaintenanceCostTotal), money(r.MaintenanceCostYTD),
				datePtr(r.LastMaintenanceDate), money(r.AvgMaintenanceCost), num(r.UtilizationRate)}
		}),
	}
}

func InventoryTable(rows []model.InventoryStatusRow) Table {
	return Table{
		Title: "Inventory Status",
		Headers: []string{"Part ID", "Code", "Description", "Category", "Current Stock", "Min Stock", "Max Stock",
			"Status", "Warehouse", "Unit Cost", "Total Value", "Last Movement", "Movements", "Supplier",
			"Lead Time Days", "Reorder", "Reorder Quantity"},
		Rows: lo.Map(rows, func(r model.InventoryStatusRow, _ int) []string {
			last := ""
			if r.LastMovementDate != nil {
				last = r.LastMovementDate.UTC().Format(time.RFC3339)
			}
			return []string{r.PartID, r.PartCode, r.Description, r.Category, strconv.Itoa(r.CurrentStock),
				strconv.Itoa(r.MinStock), strconv.Itoa(r.MaxStock), string(r.StockStatus), r.Warehouse,
				money(r.UnitCost), money(r.TotalValue), last, strconv.Itoa(r.MovementsCount), r.Supplier,
				strconv.Itoa(r.LeadTimeDays), strconv.FormatBool(r.ReorderNeeded), strconv.Itoa(r.ReorderQuantity)}
		}),
	}
}

func FleetTable(rows []model.FleetTrackingRow) Table {
	return Table{
		Title: "Fleet Tracking",
		Headers: []string{"Vehicle ID", "Asset ID", "Plate", "Type", "Brand", "Model", "Status", "Odometer",
			"Last Location", "Last GPS", "Maintenance Count", "Maintenance Cost", "Fuel", "Insurance Expiry",
			"Next Service", "Avg Monthly Mileage", "Cost Per Km"},
		Rows: lo.Map(rows, func(r model.FleetTrackingRow, _ int) []string {
			gps := ""
			if !r.LastGPSTimestamp.IsZero() {
				gps = r.LastGPSTimestamp.UTC().Format(time.RFC3339)
			}
			return []string{r.VehicleID, r.AssetID, r.PlateNumber, r.Type, r.Brand, r.Model, string(r.Status),
				num(r.Odometer), r.LastLocation, gps, strconv.Itoa(r.MaintenanceCount),
				money(r.MaintenanceCostTotal), r.FuelType, datePtr(r.InsuranceExpiry), datePtr(r.NextServiceDue),
				num(r.AvgMonthlyMileage), num(r.CostPerKm)}
		}),
	}
}

func MaintenanceCostTable(rows []model.MaintenanceCostRow) Table {
	return Table{
		Title: "Maintenance Costs",
		Headers: []string{"Period", "Category", "Work Orders", "Total Cost", "Labor Cost", "Parts Cost",
			"Avg Cost", "Completed", "Pending", "Overdue"},
		Rows: lo.Map(rows, func(r model.MaintenanceCostRow, _ int) []string {
			return []string{r.Period, r.AssetCategory, strconv.Itoa(r.WorkOrderCount), money(r.TotalCost),
				money(r.LaborCost), money(r.PartsCost), money(r.AvgCostPerWorkOrder), strconv.Itoa(r.CompletedCount),
				strconv.Itoa(r.PendingCount), strconv.Itoa(r.OverdueCount)}
		}),
	}
}

func money(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) }
func num(v float64) string   { return strconv.FormatFloat(v, 'f', -1, 64) }

func datePtr(d *model.Date) string {
	if d == nil {
		return ""
	}
	return d.String()
}

func intPtr(n *int) string {
	if n == nil {
		return ""
	}
	return strconv.Itoa(*n)
}
