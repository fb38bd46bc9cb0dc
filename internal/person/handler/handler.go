// Package handler exposes counterparty operations over HTTP.
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"finbook/internal/person/service"
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
	r.Post("/persons", h.create)
	r.Get("/persons", h.list)
	r.Delete("/persons/{id}", h.delete)
}

type createRequest struct {
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, h.logger, dErrors.New(dErrors.CodeBadRequest, "malformed request body"))
		return
	}

	p, err := h.svc.Create(r.Context(), service.CreatePersonInput{Name: req.Name, Email: req.Email})
	if err != nil {
		httputil.WriteError(w, h.logger, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, p)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	persons, err := h.svc.List(r.Context())
	if err != nil {
		httputil.WriteError(w, h.logger, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, persons)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := domain.ParsePersonID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, h.logger, err)
		return
	}
	if err := h.svc.Delete(r.Context(), id); err != nil {
		httputil.WriteError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
