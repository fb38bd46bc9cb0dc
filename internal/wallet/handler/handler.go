// Package handler exposes wallet operations over HTTP.
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"finbook/internal/wallet/service"
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
	r.Post("/wallets", h.create)
	r.Get("/wallets", h.list)
	r.Get("/wallets/{id}", h.get)
	r.Put("/wallets/{id}", h.update)
	r.Delete("/wallets/{id}", h.delete)
}

type createRequest struct {
	Name    string          `json:"name"`
	Balance decimal.Decimal `json:"balance"`
}

type updateRequest struct {
	Name string `json:"name"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, h.logger, dErrors.New(dErrors.CodeBadRequest, "malformed request body"))
		return
	}

	wallet, result, err := h.svc.Create(r.Context(), service.CreateWalletInput{Name: req.Name, Balance: req.Balance})
	if err != nil {
		httputil.WriteError(w, h.logger, err)
		return
	}
	if !result.Valid() {
		httputil.WriteValidation(w, validationItems(result.Codes()))
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, wallet)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := domain.ParseWalletID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, h.logger, err)
		return
	}

	wallet, err := h.svc.Get(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, h.logger, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, wallet)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	includeInactive := r.URL.Query().Get("include_inactive") == "true"
	wallets, err := h.svc.List(r.Context(), includeInactive)
	if err != nil {
		httputil.WriteError(w, h.logger, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, wallets)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := domain.ParseWalletID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, h.logger, err)
		return
	}
	var req updateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, h.logger, dErrors.New(dErrors.CodeBadRequest, "malformed request body"))
		return
	}

	wallet, result, err := h.svc.Update(r.Context(), service.UpdateWalletInput{ID: id, Name: req.Name})
	if err != nil {
		httputil.WriteError(w, h.logger, err)
		return
	}
	if !result.Valid() {
		httputil.WriteValidation(w, validationItems(result.Codes()))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, wallet)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := domain.ParseWalletID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, h.logger, err)
		return
	}

	result, err := h.svc.Delete(r.Context(), service.DeleteWalletInput{ID: id})
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
