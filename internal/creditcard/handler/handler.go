// Package handler exposes credit-card operations over HTTP.
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"finbook/internal/creditcard/service"
	"finbook/pkg/domain"
	dErrors "finbook/pkg/domain-errors"
	"finbook/pkg/platform/httputil"
)

type Handler struct {
	svc    *service.Service
	logger *slog.Logger
}

func New(svc *service.Service, logger *slog.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/cards", h.create)
	r.Get("/cards", h.list)
	r.Put("/cards/{id}", h.update)
	r.Delete("/cards/{id}", h.delete)
	r.Get("/brands", h.listBrands)
	r.Post("/brands/seed", h.seedBrands)
}

type createRequest struct {
	Name          string          `json:"name"`
	Limit         decimal.Decimal `json:"limit"`
	ClosingDay    int             `json:"closing_day"`
	DueDay        int             `json:"due_day"`
	BrandID       string          `json:"brand_id"`
	InstitutionID string          `json:"institution_id"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, h.logger, dErrors.New(dErrors.CodeBadRequest, "malformed request body"))
		return
	}

	brandID, err := domain.ParseBrandID(req.BrandID)
	if err != nil {
		httputil.WriteError(w, h.logger, err)
		return
	}
	institutionID, err := domain.ParseInstitutionID(req.InstitutionID)
	if err != nil {
		httputil.WriteError(w, h.logger, err)
		return
	}

	c, result, err := h.svc.Create(r.Context(), service.CreateCardInput{
		Name:          req.Name,
		Limit:         req.Limit,
		ClosingDay:    req.ClosingDay,
		DueDay:        req.DueDay,
		BrandID:       brandID,
		InstitutionID: institutionID,
	})
	if err != nil {
		httputil.WriteError(w, h.logger, err)
		return
	}
	if !result.Valid() {
		httputil.WriteValidation(w, validationItems(result.Codes()))
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, c)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	includeInactive := r.URL.Query().Get("include_inactive") == "true"
	cards, err := h.svc.List(r.Context(), includeInactive)
	if err != nil {
		httputil.WriteError(w, h.logger, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, cards)
}

type updateRequest struct {
	Name       string          `json:"name"`
	Limit      decimal.Decimal `json:"limit"`
	ClosingDay int             `json:"closing_day"`
	DueDay     int             `json:"due_day"`
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := domain.ParseCardID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, h.logger, err)
		return
	}
	var req updateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, h.logger, dErrors.New(dErrors.CodeBadRequest, "malformed request body"))
		return
	}

	c, result, err := h.svc.Update(r.Context(), service.UpdateCardInput{
		ID:         id,
		Name:       req.Name,
		Limit:      req.Limit,
		ClosingDay: req.ClosingDay,
		DueDay:     req.DueDay,
	})
	if err != nil {
		httputil.WriteError(w, h.logger, err)
		return
	}
	if !result.Valid() {
		httputil.WriteValidation(w, validationItems(result.Codes()))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, c)
}

func (h *Handler) listBrands(w http.ResponseWriter, r *http.Request) {
	brands, err := h.svc.ListBrands(r.Context())
	if err != nil {
		httputil.WriteError(w, h.logger, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, brands)
}

type seedRequest struct {
	Names []string `json:"names"`
}

func (h *Handler) seedBrands(w http.ResponseWriter, r *http.Request) {
	var req seedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, h.logger, dErrors.New(dErrors.CodeBadRequest, "malformed request body"))
		return
	}

	if err := h.svc.SeedBrands(r.Context(), req.Names); err != nil {
		httputil.WriteError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := domain.ParseCardID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, h.logger, err)
		return
	}

	result, err := h.svc.Delete(r.Context(), service.DeleteCardInput{ID: id})
	if err != nil {
		httputil.WriteError(w, h.logger, err)
		return
	}
	if !result.Valid() {
		httputil.WriteValidation(w, validationItems(result.Codes()))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func validationItems(codes []service.Code) []httputil.ErrorItem {
	items := make([]httputil.ErrorItem, len(codes))
	for i, c := range codes {
		items[i] = httputil.ErrorItem{Code: string(c), Message: c.Message()}
	}
	return items
}
