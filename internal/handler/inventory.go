package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cmmsmind/backend/internal/model"
	"github.com/cmmsmind/backend/internal/repository"
)

// InventoryHandler handles spare part and stock movement API requests.
type InventoryHandler struct {
	base
	parts     repository.SparePartRepository
	movements repository.MovementRepository
}

func NewInventoryHandler(parts repository.SparePartRepository, movements repository.MovementRepository, b base) *InventoryHandler {
	return &InventoryHandler{base: b, parts: parts, movements: movements}
}

func (h *InventoryHandler) ListParts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	lowStock, err := queryBool(q, "lowStock")
	if err != nil {
		badRequest(w, r, err)
		return
	}

	parts, err := h.parts.List(r.Context(), model.PartFilter{
		Query:    q.Get("q"),
		Category: q.Get("category"),
		LowStock: lowStock != nil && *lowStock,
	})
	if err != nil {
		h.fail(w, r, err, "spare part", "")
		return
	}
	writeList(w, parts)
}

func (h *InventoryHandler) LowStock(w http.ResponseWriter, r *http.Request) {
	parts, err := h.parts.List(r.Context(), model.PartFilter{LowStock: true})
	if err != nil {
		h.fail(w, r, err, "spare part", "")
		return
	}
	writeList(w, parts)
}

func (h *InventoryHandler) Categories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.parts.Categories(r.Context())
	if err != nil {
		h.fail(w, r, err, "spare part", "")
		return
	}
	writeList(w, categories)
}

func (h *InventoryHandler) GetPart(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	part, err := h.parts.GetByID(r.Context(), id)
	if err != nil {
		h.fail(w, r, err, "spare part", id)
		return
	}
	writeJSON(w, http.StatusOK, part)
}

func (h *InventoryHandler) CreatePart(w http.ResponseWriter, r *http.Request) {
	var req model.SparePartCreateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		badRequest(w, r, err)
		return
	}
	if invalid(w, r, req.Validate()) {
		return
	}

	part := req.ToSparePart()
	if err := h.parts.Create(r.Context(), part); err != nil {
		h.fail(w, r, err, "spare part", part.ID)
		return
	}
	writeJSON(w, http.StatusCreated, part)
}

func (h *InventoryHandler) UpdatePart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	part, err := h.parts.GetByID(ctx, id)
	if err != nil {
		h.fail(w, r, err, "spare part", id)
		return
	}

	var req model.SparePartUpdateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		badRequest(w, r, err)
		return
	}
	req.Apply(part)
	if part.CurrentStock < 0 || part.MinStock < 0 {
		invalid(w, r, map[string]string{"stock": "must not be negative"})
		return
	}
	if part.MaxStock != nil && *part.MaxStock < part.MinStock {
		invalid(w, r, map[string]string{"maxStock": "must not be below minStock"})
		return
	}

	if err := h.parts.Update(ctx, part); err != nil {
		h.fail(w, r, err, "spare part", id)
		return
	}
	writeJSON(w, http.StatusOK, part)
}

func (h *InventoryHandler) DeletePart(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.parts.Delete(r.Context(), id); err != nil {
		h.fail(w, r, err, "spare part", id)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type adjustRequest struct {
	Delta *int `json:"delta"`
}

// AdjustStock applies a signed delta to stock on hand without recording a
// movement. The result never drops below zero.
func (h *InventoryHandler) AdjustStock(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req adjustRequest
	if err := decodeJSON(w, r, &req); err != nil {
		badRequest(w, r, err)
		return
	}
	if req.Delta == nil {
		invalid(w, r, map[string]string{"delta": "is required"})
		return
	}

	part, err := h.parts.AdjustStock(r.Context(), id, *req.Delta)
	if err != nil {
		h.fail(w, r, err, "spare part", id)
		return
	}
	writeJSON(w, http.StatusOK, part)
}

func (h *InventoryHandler) ListMovements(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	movements, err := h.movements.List(r.Context(), model.MovementFilter{
		PartID:      q.Get("partId"),
		WorkOrderID: q.Get("workOrderId"),
	})
	if err != nil {
		h.fail(w, r, err, "movement", "")
		return
	}
	writeList(w, movements)
}

func (h *InventoryHandler) GetMovement(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	m, err := h.movements.GetByID(r.Context(), id)
	if err != nil {
		h.fail(w, r, err, "movement", id)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

// CreateMovement records a stock movement and returns it with the updated part.
func (h *InventoryHandler) CreateMovement(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req model.MovementCreateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		badRequest(w, r, err)
		return
	}
	if invalid(w, r, req.Validate()) {
		return
	}

	part, err := h.parts.GetByID(ctx, req.PartID)
	if err != nil {
		h.fail(w, r, err, "spare part", req.PartID)
		return
	}
	movement := req.ToMovement(part)
	updated, err := h.movements.Record(ctx, movement)
	if err != nil {
		h.fail(w, r, err, "movement", movement.ID)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"movement": movement, "part": updated})
}
