package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/samber/lo"

	"github.com/cmmsmind/backend/internal/export"
	"github.com/cmmsmind/backend/internal/model"
	"github.com/cmmsmind/backend/internal/report"
	"github.com/cmmsmind/backend/internal/repository"
)

// Job names.
const (
	JobOverdueWorkOrders   = "overdue-work-orders"
	JobLowStock            = "low-stock"
	JobUpcomingMaintenance = "upcoming-maintenance"
	JobReportArchive       = "report-archive"
)

// DefaultNotifyBeforeDays applies when no active policy sets a window.
const DefaultNotifyBeforeDays = 7

// Publisher records a notification and forwards it to outbound channels.
type Publisher interface {
	Publish(ctx context.Context, n *model.Notification) error
}

// Reporter renders a report as a flat table.
type Reporter interface {
	Table(ctx context.Context, kind report.Kind, f model.ReportFilter) (report.Table, error)
}

// Uploader stores a file and returns its object key.
type Uploader interface {
	Upload(ctx context.Context, name string, body []byte, contentType string) (string, error)
}

// Schedules maps job names to cron expressions.
type Schedules struct {
	Overdue       string
	LowStock      string
	Upcoming      string
	ReportArchive string
}

// MaintenanceRunner runs the periodic maintenance checks.
type MaintenanceRunner struct {
	store     repository.Store
	publisher Publisher
	reporter  Reporter
	archive   Uploader
	now       func() time.Time
	logger    *slog.Logger
}

// NewMaintenanceRunner creates a runner. archive may be nil, which disables
// the report archive job.
func NewMaintenanceRunner(store repository.Store, publisher Publisher, reporter Reporter, archive Uploader, logger *slog.Logger) *MaintenanceRunner {
	return &MaintenanceRunner{
		store:     store,
		publisher: publisher,
		reporter:  reporter,
		archive:   archive,
		now:       func() time.Time { return time.Now().UTC() },
		logger:    logger,
	}
}

// WithClock overrides the time source.
func (r *MaintenanceRunner) WithClock(now func() time.Time) *MaintenanceRunner {
	r.now = now
	return r
}

// Register adds the runner's jobs to s.
func (r *MaintenanceRunner) Register(s *Scheduler, sched Schedules) error {
	jobs := []struct {
		name, schedule string
		fn             JobFunc
	}{
		{JobOverdueWorkOrders, sched.Overdue, r.MarkOverdue},
		{JobLowStock, sched.LowStock, r.CheckLowStock},
		{JobUpcomingMaintenance, sched.Upcoming, r.NotifyUpcoming},
	}
	if r.archive != nil {
		jobs = append(jobs, struct {
			name, schedule string
			fn             JobFunc
		}{JobReportArchive, sched.ReportArchive, r.ArchiveMonthlyCosts})
	}

	for _, j := range jobs {
		if err := s.Register(j.name, j.schedule, j.fn); err != nil {
			return err
		}
	}
	return nil
}

// MarkOverdue moves open work orders past their due date to Overdue and
// raises a notification for each one that changed.
func (r *MaintenanceRunner) MarkOverdue(ctx context.Context) error {
	const op = "jobs.MarkOverdue"

	today := model.DateOf(r.now())
	orders, err := repository.OverdueWorkOrders(ctx, r.store.WorkOrders(), today)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	marked := 0
	for _, wo := range orders {
		if wo.Status == model.WorkOrderOverdue {
			continue
		}
		if _, err := r.store.WorkOrders().UpdateStatus(ctx, wo.ID, model.WorkOrderOverdue); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		msg := fmt.Sprintf("Work order %q on %s is overdue (due %s)", wo.Title, assetLabel(wo), wo.DueDate)
		n := model.NewNotification(model.NotificationOverdueMaintenance, model.SeverityError, msg, "work_order", wo.ID)
		if err := r.publisher.Publish(ctx, n); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		marked++
	}

	r.logger.Info("overdue work orders checked", "overdue", len(orders), "marked", marked)
	return nil
}

// CheckLowStock raises one notification per part below minimum stock unless
// an unread one already exists for that part.
func (r *MaintenanceRunner) CheckLowStock(ctx context.Context) error {
	const op = "jobs.CheckLowStock"

	parts, err := r.store.Parts().List(ctx, model.PartFilter{LowStock: true})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	notified, err := r.unreadFor(ctx, model.NotificationLowStock)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	raised := 0
	for _, p := range parts {
		if notified[p.ID] {
			continue
		}
		severity := lo.Ternary(p.CurrentStock == 0, model.SeverityError, model.SeverityWarning)
		msg := fmt.Sprintf("Spare part %s (%s) is low on stock: %d left, minimum %d", p.Code, p.Description, p.CurrentStock, p.MinStock)
		n := model.NewNotification(model.NotificationLowStock, severity, msg, "spare_part", p.ID)
		if err := r.publisher.Publish(ctx, n); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		raised++
	}

	r.logger.Info("low stock checked", "low", len(parts), "raised", raised)
	return nil
}

// NotifyUpcoming raises notifications for active plans due within the
// widest notify window of the active policies.
func (r *MaintenanceRunner) NotifyUpcoming(ctx context.Context) error {
	const op = "jobs.NotifyUpcoming"

	days, err := r.notifyWindow(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	today := model.DateOf(r.now())
	plans, err := repository.UpcomingPlans(ctx, r.store.Plans(), today, days)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	notified, err := r.unreadFor(ctx, model.NotificationUpcomingMaintenance)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	raised := 0
	for _, p := range plans {
		if notified[p.ID] {
			continue
		}
		msg := fmt.Sprintf("Preventive maintenance for %s is due on %s: %s", lo.CoalesceOrEmpty(p.AssetName, p.AssetID), p.NextDueDate, p.TaskDescription)
		n := model.NewNotification(model.NotificationUpcomingMaintenance, model.SeverityInfo, msg, "maintenance_plan", p.ID)
		if err := r.publisher.Publish(ctx, n); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		raised++
	}

	r.logger.Info("upcoming maintenance checked", "window_days", days, "due", len(plans), "raised", raised)
	return nil
}

// ArchiveMonthlyCosts uploads the previous month's maintenance-cost report
// as a workbook.
func (r *MaintenanceRunner) ArchiveMonthlyCosts(ctx context.Context) error {
	const op = "jobs.ArchiveMonthlyCosts"

	if r.archive == nil {
		return nil
	}

	now := r.now()
	thisMonth := model.NewDate(now.Year(), now.Month(), 1)
	from := model.DateOf(thisMonth.AddDate(0, -1, 0))
	to := thisMonth.AddDays(-1)

	table, err := r.reporter.Table(ctx, report.KindMaintenanceCosts, model.ReportFilter{DateFrom: &from, DateTo: &to})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	body, err := export.Bytes(export.FormatXLSX, table)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	name := fmt.Sprintf("%s/%s.xlsx", report.KindMaintenanceCosts, from.Format("2006-01"))
	if _, err := r.archive.Upload(ctx, name, body, export.FormatXLSX.ContentType()); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (r *MaintenanceRunner) notifyWindow(ctx context.Context) (int, error) {
	policies, err := r.store.Settings().ListPolicies(ctx)
	if err != nil {
		return 0, err
	}
	days := 0
	for _, p := range policies {
		if p.IsActive && p.NotifyBeforeDays > days {
			days = p.NotifyBeforeDays
		}
	}
	if days == 0 {
		days = DefaultNotifyBeforeDays
	}
	return days, nil
}

// unreadFor returns the entity IDs that already have an unread notification of typ.
func (r *MaintenanceRunner) unreadFor(ctx context.Context, typ model.NotificationType) (map[string]bool, error) {
	existing, err := r.store.Notifications().List(ctx, model.NotificationFilter{UnreadOnly: true, Type: typ})
	if err != nil {
		return nil, err
	}
	return lo.SliceToMap(existing, func(n *model.Notification) (string, bool) {
		return n.RelatedEntityID, true
	}), nil
}

func assetLabel(wo *model.WorkOrder) string {
	return lo.CoalesceOrEmpty(wo.AssetName, wo.AssetID)
}
