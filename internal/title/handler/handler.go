// Package handler exposes title operations over HTTP.
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"finbook/internal/title/service"
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
	r.Post("/titles", h.create)
	r.Get("/titles", h.list)
	r.Post("/titles/{id}/pay", h.pay)
	r.Delete("/titles/{id}", h.delete)
	r.Post("/categories", h.createCategory)
	r.Get("/categories", h.listCategories)
}

type createRequest struct {
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	DueDate     time.Time       `json:"due_date"`
	WalletID    string          `json:"wallet_id"`
	CategoryID  string          `json:"category_id"`
	PersonID    string          `json:"person_id,omitempty"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, h.logger, dErrors.New(dErrors.CodeBadRequest, "malformed request body"))
		return
	}

	in, err := h.buildCreateInput(req)
	if err != nil {
		httputil.WriteError(w, h.logger, err)
		return
	}

	t, result, err := h.svc.Create(r.Context(), in)
	if err != nil {
		httputil.WriteError(w, h.logger, err)
		return
	}
	if !result.Valid() {
		httputil.WriteValidation(w, validationItems(result.Codes()))
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, t)
}

func (h *Handler) buildCreateInput(req createRequest) (service.CreateTitleInput, error) {
	walletID, err := domain.ParseWalletID(req.WalletID)
	if err != nil {
		return service.CreateTitleInput{}, err
	}
	categoryID, err := domain.ParseCategoryID(req.CategoryID)
	if err != nil {
		return service.CreateTitleInput{}, err
	}
	in := service.CreateTitleInput{
		Description: req.Description,
		Amount:      req.Amount,
		DueDate:     req.DueDate,
		WalletID:    walletID,
		CategoryID:  categoryID,
	}
	if req.PersonID != "" {
		personID, err := domain.ParsePersonID(req.PersonID)
		if err != nil {
			return service.CreateTitleInput{}, err
		}
		in.PersonID = personID
	}
	return in, nil
}

func (h *Handler) pay(w http.ResponseWriter, r *http.Request) {
	id, err := domain.ParseTitleID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, h.logger, err)
		return
	}

	t, result, err := h.svc.Pay(r.Context(), service.PayTitleInput{ID: id})
	if err != nil {
		httputil.WriteError(w, h.logger, err)
		return
	}
	if !result.Valid() {
		httputil.WriteValidation(w, validationItems(result.Codes()))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, t)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := domain.ParseTitleID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, h.logger, err)
		return
	}

	result, err := h.svc.Delete(r.Context(), service.DeleteTitleInput{ID: id})
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

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	var filter service.ListFilter
	if raw := r.URL.Query().Get("wallet_id"); raw != "" {
		walletID, err := domain.ParseWalletID(raw)
		if err != nil {
			httputil.WriteError(w, h.logger, err)
			return
		}
		filter.WalletID = walletID
	}
	filter.OnlyOpen = r.URL.Query().Get("open") == "true"

	titles, err := h.svc.List(r.Context(), filter)
	if err != nil {
		httputil.WriteError(w, h.logger, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, titles)
}

type categoryRequest struct {
	Name string `json:"name"`
}

func (h *Handler) createCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, h.logger, dErrors.New(dErrors.CodeBadRequest, "malformed request body"))
		return
	}

	c, err := h.svc.CreateCategory(r.Context(), req.Name)
	if err != nil {
		httputil.WriteError(w, h.logger, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, c)
}

func (h *Handler) listCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.svc.ListCategories(r.Context())
	if err != nil {
		httputil.WriteError(w, h.logger, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, categories)
}

func validationItems(codes []service.Code) []httputil.ErrorItem {
	items := make([]httputil.ErrorItem, len(codes))
	for i, c := range codes {
		items[i] = httputil.ErrorItem{Code: string(c), Message: c.Message()}
	}
	return items
}
