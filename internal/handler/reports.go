package handler

import (
	"context"
	"fmt"
	"net/http"
	"slices"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/samber/lo"

	"github.com/cmmsmind/backend/internal/apierrors"
	"github.com/cmmsmind/backend/internal/export"
	"github.com/cmmsmind/backend/internal/model"
	"github.com/cmmsmind/backend/internal/report"
)

// Reporter builds reports and the dashboard.
type Reporter interface {
	WorkOrders(ctx context.Context, f model.ReportFilter) (report.Report[model.WorkOrderReportRow], error)
	AssetPerformance(ctx context.Context, f model.ReportFilter) (report.Report[model.AssetPerformanceRow], error)
	Inventory(ctx context.Context, f model.ReportFilter) (report.Report[model.InventoryStatusRow], error)
	Fleet(ctx context.Context) (report.Report[model.FleetTrackingRow], error)
	MaintenanceCosts(ctx context.Context, f model.ReportFilter) (report.Report[model.MaintenanceCostRow], error)
	Dashboard(ctx context.Context) (model.DashboardMetrics, error)
	Table(ctx context.Context, kind report.Kind, f model.ReportFilter) (report.Table, error)
	Now() time.Time
}

type ReportHandler struct {
	base
	reports Reporter
}

func NewReportHandler(reports Reporter, b base) *ReportHandler {
	return &ReportHandler{base: b, reports: reports}
}

func (h *ReportHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	metrics, err := h.reports.Dashboard(r.Context())
	if err != nil {
		h.fail(w, r, err, "dashboard", "")
		return
	}
	writeJSON(w, http.StatusOK, metrics)
}

// Report serves /reports/{kind} as JSON, or as a CSV or XLSX download when
// format is given.
func (h *ReportHandler) Report(w http.ResponseWriter, r *http.Request) {
	kind := report.Kind(chi.URLParam(r, "kind"))
	if !slices.Contains(report.Kinds, kind) {
		apierrors.NewNotFoundError("report", string(kind)).Write(w, r)
		return
	}

	f, err := parseReportFilter(r)
	if err != nil {
		invalid(w, r, map[string]string{"filter": err.Error()})
		return
	}

	if format := r.URL.Query().Get("format"); format != "" && format != "json" {
		h.download(w, r, kind, format, f)
		return
	}

	var (
		body any
		ctx  = r.Context()
	)
	switch kind {
	case report.KindWorkOrders:
		body, err = h.reports.WorkOrders(ctx, f)
	case report.KindAssetPerformance:
		body, err = h.reports.AssetPerformance(ctx, f)
	case report.KindInventory:
		body, err = h.reports.Inventory(ctx, f)
	case report.KindFleet:
		body, err = h.reports.Fleet(ctx)
	case report.KindMaintenanceCosts:
		body, err = h.reports.MaintenanceCosts(ctx, f)
	}
	if err != nil {
		h.fail(w, r, err, "report", string(kind))
		return
	}
	writeJSON(w, http.StatusOK, body)
}

func (h *ReportHandler) download(w http.ResponseWriter, r *http.Request, kind report.Kind, format string, f model.ReportFilter) {
	ft, err := export.ParseFormat(format)
	if err != nil {
		badRequest(w, r, err)
		return
	}

	table, err := h.reports.Table(r.Context(), kind, f)
	if err != nil {
		h.fail(w, r, err, "report", string(kind))
		return
	}
	data, err := export.Bytes(ft, table)
	if err != nil {
		h.fail(w, r, err, "report", string(kind))
		return
	}

	name := ft.Filename(string(kind), model.DateOf(h.reports.Now()).String())
	w.Header().Set("Content-Type", ft.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.WriteHeader(http.StatusOK)
	w.Write(data) //nolint:errcheck
}

// parseReportFilter reads dateFrom, dateTo and the comma-separated
// categories, statuses, priorities and assignedTo parameters.
func parseReportFilter(r *http.Request) (model.ReportFilter, error) {
	q := r.URL.Query()

	from, err := queryDate(q, "dateFrom")
	if err != nil {
		return model.ReportFilter{}, err
	}
	to, err := queryDate(q, "dateTo")
	if err != nil {
		return model.ReportFilter{}, err
	}
	if from != nil && to != nil && to.Before(*from) {
		return model.ReportFilter{}, fmt.Errorf("dateTo must not be before dateFrom")
	}

	statuses := lo.Map(queryList(q, "statuses"), func(s string, _ int) model.WorkOrderStatus {
		return model.WorkOrderStatus(s)
	})
	if bad, ok := lo.Find(statuses, func(s model.WorkOrderStatus) bool { return !s.Valid() }); ok {
		return model.ReportFilter{}, fmt.Errorf("unknown work order status %q", bad)
	}
	priorities := lo.Map(queryList(q, "priorities"), func(s string, _ int) model.Priority {
		return model.Priority(s)
	})
	if bad, ok := lo.Find(priorities, func(p model.Priority) bool { return !p.Valid() }); ok {
		return model.ReportFilter{}, fmt.Errorf("unknown priority %q", bad)
	}

	return model.ReportFilter{
		DateFrom:          from,
		DateTo:            to,
		AssetCategories:   queryList(q, "categories"),
		WorkOrderStatuses: statuses,
		Priority:          priorities,
		AssignedTo:        queryList(q, "assignedTo"),
	}, nil
}
