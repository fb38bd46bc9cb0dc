// Package handler exposes financial-institution operations over HTTP.
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"finbook/internal/institution/service"
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
	r.Post("/institutions", h.create)
	r.Get("/institutions", h.list)
	r.Put("/institutions/{id}", h.update)
	r.Delete("/institutions/{id}", h.delete)
}

type upsertRequest struct {
	Name string `json:"name"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req upsertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, h.logger, dErrors.New(dErrors.CodeBadRequest, "malformed request body"))
		return
	}

	f, result, err := h.svc.Create(r.Context(), service.CreateInstitutionInput{Name: req.Name})
	if err != nil {
		httputil.WriteError(w, h.logger, err)
		return
	}
	if !result.Valid() {
		httputil.WriteValidation(w, validationItems(result.Codes()))
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, f)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	includeInactive := r.URL.Query().Get("include_inactive") == "true"
	institutions, err := h.svc.List(r.Context(), includeInactive)
	if err != nil {
		httputil.WriteError(w, h.logger, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, institutions)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := domain.ParseInstitutionID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, h.logger, err)
		return
	}
	var req upsertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, h.logger, dErrors.New(dErrors.CodeBadRequest, "malformed request body"))
		return
	}

	f, result, err := h.svc.Update(r.Context(), service.UpdateInstitutionInput{ID: id, Name: req.Name})
	if err != nil {
		httputil.WriteError(w, h.logger, err)
		return
	}
	if !result.Valid() {
		httputil.WriteValidation(w, validationItems(result.Codes()))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, f)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := domain.ParseInstitutionID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, h.logger, err)
		return
	}

	result, err := h.svc.Delete(r.Context(), service.DeleteInstitutionInput{ID: id})
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
