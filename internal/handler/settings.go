package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cmmsmind/backend/internal/model"
	"github.com/cmmsmind/backend/internal/repository"
)

// SettingsHandler serves the company profile and maintenance policies.
type SettingsHandler struct {
	base
	repo repository.SettingsRepository
}

func NewSettingsHandler(repo repository.SettingsRepository, b base) *SettingsHandler {
	return &SettingsHandler{base: b, repo: repo}
}

func (h *SettingsHandler) GetCompany(w http.ResponseWriter, r *http.Request) {
	company, err := h.repo.Company(r.Context())
	if err != nil {
		h.fail(w, r, err, "company profile", model.CompanyProfileID)
		return
	}
	writeJSON(w, http.StatusOK, company)
}

func (h *SettingsHandler) UpdateCompany(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	company, err := h.repo.Company(ctx)
	if err != nil {
		h.fail(w, r, err, "company profile", model.CompanyProfileID)
		return
	}

	var req model.CompanyUpdateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		badRequest(w, r, err)
		return
	}
	req.Apply(company)
	if company.Name == "" {
		invalid(w, r, map[string]string{"name": "is required"})
		return
	}

	if err := h.repo.UpdateCompany(ctx, company); err != nil {
		h.fail(w, r, err, "company profile", model.CompanyProfileID)
		return
	}
	writeJSON(w, http.StatusOK, company)
}

func (h *SettingsHandler) ListPolicies(w http.ResponseWriter, r *http.Request) {
	policies, err := h.repo.ListPolicies(r.Context())
	if err != nil {
		h.fail(w, r, err, "maintenance policy", "")
		return
	}
	writeList(w, policies)
}

func (h *SettingsHandler) GetPolicy(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	policy, err := h.repo.GetPolicy(r.Context(), id)
	if err != nil {
		h.fail(w, r, err, "maintenance policy", id)
		return
	}
	writeJSON(w, http.StatusOK, policy)
}

func (h *SettingsHandler) CreatePolicy(w http.ResponseWriter, r *http.Request) {
	var req model.PolicyCreateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		badRequest(w, r, err)
		return
	}
	if invalid(w, r, req.Validate()) {
		return
	}

	policy := req.ToPolicy()
	if err := h.repo.CreatePolicy(r.Context(), policy); err != nil {
		h.fail(w, r, err, "maintenance policy", policy.ID)
		return
	}
	writeJSON(w, http.StatusCreated, policy)
}

func (h *SettingsHandler) UpdatePolicy(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	policy, err := h.repo.GetPolicy(ctx, id)
	if err != nil {
		h.fail(w, r, err, "maintenance policy", id)
		return
	}

	var req model.PolicyUpdateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		badRequest(w, r, err)
		return
	}
	req.Apply(policy)
	if policy.DefaultIntervalDays <= 0 {
		invalid(w, r, map[string]string{"defaultIntervalDays": "must be positive"})
		return
	}

	if err := h.repo.UpdatePolicy(ctx, policy); err != nil {
		h.fail(w, r, err, "maintenance policy", id)
		return
	}
	writeJSON(w, http.StatusOK, policy)
}

func (h *SettingsHandler) DeletePolicy(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.repo.DeletePolicy(r.Context(), id); err != nil {
		h.fail(w, r, err, "maintenance policy", id)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
