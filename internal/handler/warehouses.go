package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cmmsmind/backend/internal/model"
	"github.com/cmmsmind/backend/internal/repository"
)

// WarehouseHandler handles warehouse location API requests.
type WarehouseHandler struct {
	base
	repo repository.WarehouseRepository
}

func NewWarehouseHandler(repo repository.WarehouseRepository, b base) *WarehouseHandler {
	return &WarehouseHandler{base: b, repo: repo}
}

func (h *WarehouseHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	active, err := queryBool(q, "active")
	if err != nil {
		badRequest(w, r, err)
		return
	}

	locations, err := h.repo.List(r.Context(), model.WarehouseFilter{
		Type:    model.WarehouseType(q.Get("type")),
		Region:  q.Get("region"),
		Factory: q.Get("factory"),
		Active:  active,
	})
	if err != nil {
		h.fail(w, r, err, "warehouse", "")
		return
	}
	writeList(w, locations)
}

func (h *WarehouseHandler) Regions(w http.ResponseWriter, r *http.Request) {
	regions, err := h.repo.Regions(r.Context())
	if err != nil {
		h.fail(w, r, err, "warehouse", "")
		return
	}
	writeList(w, regions)
}

func (h *WarehouseHandler) Factories(w http.ResponseWriter, r *http.Request) {
	factories, err := h.repo.Factories(r.Context())
	if err != nil {
		h.fail(w, r, err, "warehouse", "")
		return
	}
	writeList(w, factories)
}

func (h *WarehouseHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	wh, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		h.fail(w, r, err, "warehouse", id)
		return
	}
	writeJSON(w, http.StatusOK, wh)
}

func (h *WarehouseHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.WarehouseCreateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		badRequest(w, r, err)
		return
	}
	if invalid(w, r, req.Validate()) {
		return
	}

	wh := req.ToWarehouse()
	if err := h.repo.Create(r.Context(), wh); err != nil {
		h.fail(w, r, err, "warehouse", wh.ID)
		return
	}
	writeJSON(w, http.StatusCreated, wh)
}

func (h *WarehouseHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	wh, err := h.repo.GetByID(ctx, id)
	if err != nil {
		h.fail(w, r, err, "warehouse", id)
		return
	}

	var req model.WarehouseUpdateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		badRequest(w, r, err)
		return
	}
	req.Apply(wh)
	if wh.Type != model.WarehouseCentral && wh.Type != model.WarehouseSite {
		invalid(w, r, map[string]string{"type": "must be CENTRAL or SITE"})
		return
	}

	if err := h.repo.Update(ctx, wh); err != nil {
		h.fail(w, r, err, "warehouse", id)
		return
	}
	writeJSON(w, http.StatusOK, wh)
}

func (h *WarehouseHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.repo.Delete(r.Context(), id); err != nil {
		h.fail(w, r, err, "warehouse", id)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
