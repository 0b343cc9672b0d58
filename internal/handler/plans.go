package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/cmmsmind/backend/internal/model"
	"github.com/cmmsmind/backend/internal/repository"
)

// PlanHandler handles maintenance plan API requests.
type PlanHandler struct {
	base
	repo repository.PlanRepository
	now  func() time.Time
}

func NewPlanHandler(repo repository.PlanRepository, now func() time.Time, b base) *PlanHandler {
	return &PlanHandler{base: b, repo: repo, now: now}
}

func (h *PlanHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	active, err := queryBool(q, "active")
	if err != nil {
		badRequest(w, r, err)
		return
	}

	plans, err := h.repo.List(r.Context(), model.PlanFilter{
		AssetID: q.Get("assetId"),
		Type:    model.MaintenanceType(q.Get("type")),
		Active:  active,
	})
	if err != nil {
		h.fail(w, r, err, "maintenance plan", "")
		return
	}
	writeList(w, plans)
}

func (h *PlanHandler) Upcoming(w http.ResponseWriter, r *http.Request) {
	days, err := queryInt(r.URL.Query(), "days", 30)
	if err != nil {
		badRequest(w, r, err)
		return
	}
	plans, err := repository.UpcomingPlans(r.Context(), h.repo, model.DateOf(h.now()), days)
	if err != nil {
		h.fail(w, r, err, "maintenance plan", "")
		return
	}
	writeList(w, plans)
}

func (h *PlanHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	plan, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		h.fail(w, r, err, "maintenance plan", id)
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

func (h *PlanHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.PlanCreateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		badRequest(w, r, err)
		return
	}
	if invalid(w, r, req.Validate()) {
		return
	}

	plan := req.ToPlan()
	if err := h.repo.Create(r.Context(), plan); err != nil {
		h.fail(w, r, err, "maintenance plan", plan.ID)
		return
	}
	writeJSON(w, http.StatusCreated, plan)
}

func (h *PlanHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	plan, err := h.repo.GetByID(ctx, id)
	if err != nil {
		h.fail(w, r, err, "maintenance plan", id)
		return
	}

	var req model.PlanUpdateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		badRequest(w, r, err)
		return
	}
	req.Apply(plan)

	if err := h.repo.Update(ctx, plan); err != nil {
		h.fail(w, r, err, "maintenance plan", id)
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

func (h *PlanHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.repo.Delete(r.Context(), id); err != nil {
		h.fail(w, r, err, "maintenance plan", id)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
