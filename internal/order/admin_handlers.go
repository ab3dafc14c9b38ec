package order

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/noah-isme/backend-pledge/internal/common"
)

// AdminHandler provides administrative order listings and lookups.
type AdminHandler struct {
	Store Store
}

// List returns orders filtered by payment status and paid flag.
func (h *AdminHandler) List(w http.ResponseWriter, r *http.Request) {
	if h.Store == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "order store not configured", nil)
		return
	}
	page, perPage := common.ParsePagination(r, 50)
	if perPage > 200 {
		perPage = 200
	}
	filter := ListFilter{
		Limit:  int32(perPage),
		Offset: int32((page - 1) * perPage),
	}
	if raw := r.URL.Query().Get("paymentStatus"); raw != "" {
		status := Status(raw)
		switch status {
		case StatusPending, StatusCardSaved, StatusCharged, StatusChargeFailed:
			filter.PaymentStatus = &status
		default:
			common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "unknown payment status", nil)
			return
		}
	}
	switch r.URL.Query().Get("paid") {
	case "":
	case "true":
		paid := true
		filter.Paid = &paid
	case "false":
		paid := false
		filter.Paid = &paid
	default:
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "paid must be true or false", nil)
		return
	}

	orders, err := h.Store.List(r.Context(), filter)
	if err != nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "failed to list orders", nil)
		return
	}
	views := make([]orderView, 0, len(orders))
	for _, o := range orders {
		views = append(views, viewOf(o))
	}
	common.JSON(w, http.StatusOK, map[string]any{
		"data": views,
		"meta": common.Pagination{Page: page, PerPage: perPage, TotalItems: len(views)},
	})
}

// Get returns one order regardless of owner.
func (h *AdminHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h.Store == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "order store not configured", nil)
		return
	}
	o, err := h.Store.ByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "order not found", nil)
			return
		}
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "failed to load order", nil)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": viewOf(o)})
}
