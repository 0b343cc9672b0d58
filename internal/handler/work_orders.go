package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/samber/lo"

	"github.com/cmmsmind/backend/internal/correlation"
	"github.com/cmmsmind/backend/internal/model"
	"github.com/cmmsmind/backend/internal/repository"
)

// Publisher records a notification and forwards it to outbound channels.
type Publisher interface {
	Publish(ctx context.Context, n *model.Notification) error
}

// WorkOrderHandler handles work order API requests.
type WorkOrderHandler struct {
	base
	repo      repository.WorkOrderRepository
	publisher Publisher
	now       func() time.Time
}

func NewWorkOrderHandler(repo repository.WorkOrderRepository, publisher Publisher, now func() time.Time, b base) *WorkOrderHandler {
	return &WorkOrderHandler{base: b, repo: repo, publisher: publisher, now: now}
}

func (h *WorkOrderHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	statuses := lo.Map(queryList(q, "status"), func(s string, _ int) model.WorkOrderStatus { return model.WorkOrderStatus(s) })
	if bad, ok := lo.Find(statuses, func(s model.WorkOrderStatus) bool { return !s.Valid() }); ok {
		invalid(w, r, map[string]string{"status": fmt.Sprintf("%q is not a valid work order status", bad)})
		return
	}
	dueFrom, err := queryDate(q, "dueFrom")
	if err != nil {
		badRequest(w, r, err)
		return
	}
	dueTo, err := queryDate(q, "dueTo")
	if err != nil {
		badRequest(w, r, err)
		return
	}

	orders, err := h.repo.List(r.Context(), model.WorkOrderFilter{
		Statuses:   statuses,
		AssetID:    q.Get("assetId"),
		Priority:   model.Priority(q.Get("priority")),
		AssignedTo: q.Get("assignedTo"),
		DueFrom:    dueFrom,
		DueTo:      dueTo,
	})
	if err != nil {
		h.fail(w, r, err, "work order", "")
		return
	}
	writeList(w, orders)
}

func (h *WorkOrderHandler) Overdue(w http.ResponseWriter, r *http.Request) {
	orders, err := repository.OverdueWorkOrders(r.Context(), h.repo, model.DateOf(h.now()))
	if err != nil {
		h.fail(w, r, err, "work order", "")
		return
	}
	writeList(w, orders)
}

func (h *WorkOrderHandler) Upcoming(w http.ResponseWriter, r *http.Request) {
	days, err := queryInt(r.URL.Query(), "days", 7)
	if err != nil {
		badRequest(w, r, err)
		return
	}
	orders, err := repository.UpcomingWorkOrders(r.Context(), h.repo, model.DateOf(h.now()), days)
	if err != nil {
		h.fail(w, r, err, "work order", "")
		return
	}
	writeList(w, orders)
}

func (h *WorkOrderHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	wo, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		h.fail(w, r, err, "work order", id)
		return
	}
	writeJSON(w, http.StatusOK, wo)
}

func (h *WorkOrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.WorkOrderCreateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		badRequest(w, r, err)
		return
	}
	if invalid(w, r, req.Validate()) {
		return
	}

	wo := req.ToWorkOrder()
	if wo.ScheduledDate.IsZero() {
		wo.ScheduledDate = model.DateOf(h.now())
		wo.DueDate = lo.Ternary(wo.DueDate.IsZero(), wo.ScheduledDate, wo.DueDate)
	}
	if wo.Status == model.WorkOrderCompleted && wo.CompletedDate == nil {
		wo.CompletedDate = model.DatePtr(model.DateOf(h.now()))
	}

	if err := h.repo.Create(r.Context(), wo); err != nil {
		h.fail(w, r, err, "work order", wo.ID)
		return
	}
	if wo.AssignedTo != "" {
		h.notify(r, wo, model.NotificationWorkOrderAssigned)
	}
	writeJSON(w, http.StatusCreated, wo)
}

func (h *WorkOrderHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	wo, err := h.repo.GetByID(ctx, id)
	if err != nil {
		h.fail(w, r, err, "work order", id)
		return
	}
	before := *wo

	var req model.WorkOrderUpdateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		badRequest(w, r, err)
		return
	}
	req.Apply(wo)
	if !wo.Status.Valid() {
		invalid(w, r, map[string]string{"status": "is not a valid work order status"})
		return
	}
	if !wo.Priority.Valid() {
		invalid(w, r, map[string]string{"priority": "is not a valid priority"})
		return
	}
	if wo.Status == model.WorkOrderCompleted && wo.CompletedDate == nil {
		wo.CompletedDate = model.DatePtr(model.DateOf(h.now()))
	}

	if err := h.repo.Update(ctx, wo); err != nil {
		h.fail(w, r, err, "work order", id)
		return
	}
	if wo.AssignedTo != "" && wo.AssignedTo != before.AssignedTo {
		h.notify(r, wo, model.NotificationWorkOrderAssigned)
	}
	if wo.Status == model.WorkOrderCompleted && before.Status != model.WorkOrderCompleted {
		h.notify(r, wo, model.NotificationWorkOrderCompleted)
	}
	writeJSON(w, http.StatusOK, wo)
}

type statusRequest struct {
	Status model.WorkOrderStatus `json:"status"`
}

func (h *WorkOrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	var req statusRequest
	if err := decodeJSON(w, r, &req); err != nil {
		badRequest(w, r, err)
		return
	}
	if !req.Status.Valid() {
		invalid(w, r, map[string]string{"status": "is not a valid work order status"})
		return
	}

	current, err := h.repo.GetByID(ctx, id)
	if err != nil {
		h.fail(w, r, err, "work order", id)
		return
	}
	wo, err := h.repo.UpdateStatus(ctx, id, req.Status)
	if err != nil {
		h.fail(w, r, err, "work order", id)
		return
	}
	if wo.Status == model.WorkOrderCompleted && current.Status != model.WorkOrderCompleted {
		h.notify(r, wo, model.NotificationWorkOrderCompleted)
	}
	writeJSON(w, http.StatusOK, wo)
}

func (h *WorkOrderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.repo.Delete(r.Context(), id); err != nil {
		h.fail(w, r, err, "work order", id)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *WorkOrderHandler) notify(r *http.Request, wo *model.WorkOrder, typ model.NotificationType) {
	if h.publisher == nil {
		return
	}

	var n *model.Notification
	switch typ {
	case model.NotificationWorkOrderAssigned:
		n = model.NewNotification(typ, model.SeverityInfo,
			fmt.Sprintf("Work order %q was assigned to %s", wo.Title, wo.AssignedTo), "work_order", wo.ID)
	default:
		n = model.NewNotification(typ, model.SeveritySuccess,
			fmt.Sprintf("Work order %q was completed", wo.Title), "work_order", wo.ID)
	}

	if err := h.publisher.Publish(r.Context(), n); err != nil {
		correlation.Logger(r.Context(), h.logger).Warn("work order notification failed",
			"work_order", wo.ID, "type", typ, "error", err)
	}
}
