package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/samber/lo"

	"github.com/cmmsmind/backend/internal/depreciation"
	"github.com/cmmsmind/backend/internal/model"
	"github.com/cmmsmind/backend/internal/repository"
)

// AssetHandler handles asset API requests.
type AssetHandler struct {
	base
	assets     repository.AssetRepository
	workOrders repository.WorkOrderRepository
	now        func() time.Time
}

func NewAssetHandler(assets repository.AssetRepository, workOrders repository.WorkOrderRepository, now func() time.Time, b base) *AssetHandler {
	return &AssetHandler{base: b, assets: assets, workOrders: workOrders, now: now}
}

func (h *AssetHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	status := model.AssetStatus(q.Get("status"))
	if status != "" && !status.Valid() {
		invalid(w, r, map[string]string{"status": "is not a valid asset status"})
		return
	}

	assets, err := h.assets.List(r.Context(), model.AssetFilter{
		Query:    q.Get("q"),
		Category: q.Get("category"),
		Status:   status,
	})
	if err != nil {
		h.fail(w, r, err, "asset", "")
		return
	}
	writeList(w, assets)
}

func (h *AssetHandler) Categories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.assets.Categories(r.Context())
	if err != nil {
		h.fail(w, r, err, "asset", "")
		return
	}
	writeList(w, categories)
}

func (h *AssetHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	asset, err := h.assets.GetByID(r.Context(), id)
	if err != nil {
		h.fail(w, r, err, "asset", id)
		return
	}
	writeJSON(w, http.StatusOK, asset)
}

func (h *AssetHandler) GetByCode(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	asset, err := h.assets.GetByCode(r.Context(), code)
	if err != nil {
		h.fail(w, r, err, "asset", code)
		return
	}
	writeJSON(w, http.StatusOK, asset)
}

func (h *AssetHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.AssetCreateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		badRequest(w, r, err)
		return
	}
	if invalid(w, r, req.Validate()) {
		return
	}

	asset := req.ToAsset()
	if err := h.assets.Create(r.Context(), asset); err != nil {
		h.fail(w, r, err, "asset", asset.ID)
		return
	}
	writeJSON(w, http.StatusCreated, asset)
}

func (h *AssetHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	asset, err := h.assets.GetByID(ctx, id)
	if err != nil {
		h.fail(w, r, err, "asset", id)
		return
	}

	var req model.AssetUpdateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		badRequest(w, r, err)
		return
	}
	req.Apply(asset)
	if !asset.Status.Valid() {
		invalid(w, r, map[string]string{"status": "is not a valid asset status"})
		return
	}
	if asset.ResidualValue < 0 || asset.ResidualValue > asset.PurchaseCost {
		invalid(w, r, map[string]string{"residualValue": "must be between 0 and purchaseCost"})
		return
	}

	if err := h.assets.Update(ctx, asset); err != nil {
		h.fail(w, r, err, "asset", id)
		return
	}
	writeJSON(w, http.StatusOK, asset)
}

func (h *AssetHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.assets.Delete(r.Context(), id); err != nil {
		h.fail(w, r, err, "asset", id)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Depreciation returns the asset's book value, maintenance spend and yearly
// depreciation schedule as of today.
func (h *AssetHandler) Depreciation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	asset, err := h.assets.GetByID(ctx, id)
	if err != nil {
		h.fail(w, r, err, "asset", id)
		return
	}
	orders, err := h.workOrders.List(ctx, model.WorkOrderFilter{AssetID: id})
	if err != nil {
		h.fail(w, r, err, "work order", "")
		return
	}

	now := h.now()
	total := lo.SumBy(orders, func(wo *model.WorkOrder) float64 { return wo.Cost })
	ytd := lo.SumBy(orders, func(wo *model.WorkOrder) float64 {
		return lo.Ternary(wo.CreatedAt.Year() == now.Year(), wo.Cost, 0)
	})

	writeJSON(w, http.StatusOK, map[string]any{
		"asset":      asset,
		"financials": depreciation.Financials(*asset, total, ytd, now),
	})
}
