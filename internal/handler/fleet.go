package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/cmmsmind/backend/internal/model"
	"github.com/cmmsmind/backend/internal/repository"
)

// FleetHandler handles fleet vehicle API requests.
type FleetHandler struct {
	base
	repo repository.FleetRepository
	now  func() time.Time
}

func NewFleetHandler(repo repository.FleetRepository, now func() time.Time, b base) *FleetHandler {
	return &FleetHandler{base: b, repo: repo, now: now}
}

func (h *FleetHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	vehicles, err := h.repo.List(r.Context(), model.FleetFilter{
		Query:  q.Get("q"),
		Status: model.FleetStatus(q.Get("status")),
		Type:   q.Get("type"),
	})
	if err != nil {
		h.fail(w, r, err, "vehicle", "")
		return
	}
	writeList(w, vehicles)
}

func (h *FleetHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	v, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		h.fail(w, r, err, "vehicle", id)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (h *FleetHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.FleetCreateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		badRequest(w, r, err)
		return
	}
	if invalid(w, r, req.Validate()) {
		return
	}

	v := req.ToVehicle()
	if err := h.repo.Create(r.Context(), v); err != nil {
		h.fail(w, r, err, "vehicle", v.ID)
		return
	}
	writeJSON(w, http.StatusCreated, v)
}

func (h *FleetHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	v, err := h.repo.GetByID(ctx, id)
	if err != nil {
		h.fail(w, r, err, "vehicle", id)
		return
	}

	var req model.FleetUpdateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		badRequest(w, r, err)
		return
	}
	req.Apply(v)
	if !v.Status.Valid() {
		invalid(w, r, map[string]string{"status": "is not a valid fleet status"})
		return
	}

	if err := h.repo.Update(ctx, v); err != nil {
		h.fail(w, r, err, "vehicle", id)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (h *FleetHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.repo.Delete(r.Context(), id); err != nil {
		h.fail(w, r, err, "vehicle", id)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type odometerRequest struct {
	Odometer *float64 `json:"odometer"`
}

func (h *FleetHandler) UpdateOdometer(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req odometerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		badRequest(w, r, err)
		return
	}
	if req.Odometer == nil || *req.Odometer < 0 {
		invalid(w, r, map[string]string{"odometer": "is required and must not be negative"})
		return
	}

	v, err := repository.UpdateOdometer(r.Context(), h.repo, id, *req.Odometer)
	if err != nil {
		h.fail(w, r, err, "vehicle", id)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (h *FleetHandler) UpdateLocation(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var loc model.GeoLocation
	if err := decodeJSON(w, r, &loc); err != nil {
		badRequest(w, r, err)
		return
	}
	if loc.Lat < -90 || loc.Lat > 90 || loc.Lng < -180 || loc.Lng > 180 {
		invalid(w, r, map[string]string{"location": "coordinates out of range"})
		return
	}

	v, err := repository.UpdateLocation(r.Context(), h.repo, id, loc, h.now())
	if err != nil {
		h.fail(w, r, err, "vehicle", id)
		return
	}
	writeJSON(w, http.StatusOK, v)
}
