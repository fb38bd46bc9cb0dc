// Package handler exposes the global menu over HTTP.
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"finbook/internal/menu/service"
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
	r.Get("/menus", h.list)
	r.Post("/menus", h.create)
}

type createRequest struct {
	Name     string `json:"name"`
	Path     string `json:"path"`
	Position int    `json:"position"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	menus, err := h.svc.List(r.Context())
	if err != nil {
		httputil.WriteError(w, h.logger, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, menus)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, h.logger, dErrors.New(dErrors.CodeBadRequest, "malformed request body"))
		return
	}

	m, err := h.svc.Create(r.Context(), service.CreateMenuInput{Name: req.Name, Path: req.Path, Position: req.Position})
	if err != nil {
		httputil.WriteError(w, h.logger, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, m)
}
