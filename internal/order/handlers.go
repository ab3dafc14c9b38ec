package order

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/noah-isme/backend-pledge/internal/common"
)

// Handler exposes buyer-facing order lookups.
type Handler struct {
	Store Store
}

type orderView struct {
	ID            string  `json:"id"`
	Email         string  `json:"email"`
	Country       string  `json:"country"`
	OrderType     string  `json:"orderType"`
	UserType      string  `json:"userType"`
	ItemsTotal    int64   `json:"itemsTotal"`
	ShippingTotal int64   `json:"shippingTotal"`
	Total         int64   `json:"total"`
	Currency      string  `json:"currency"`
	PaymentStatus string  `json:"paymentStatus"`
	Paid          bool    `json:"paid"`
	ChargeError   *string `json:"chargeError,omitempty"`
	CreatedAt     string  `json:"createdAt"`
}

func viewOf(o Order) orderView {
	return orderView{
		ID:            o.ID,
		Email:         o.Email,
		Country:       o.Country,
		OrderType:     o.OrderType,
		UserType:      o.UserType,
		ItemsTotal:    int64(o.Items),
		ShippingTotal: int64(o.Shipping),
		Total:         int64(o.Total),
		Currency:      o.Currency,
		PaymentStatus: string(o.PaymentStatus),
		Paid:          o.Paid,
		ChargeError:   o.ChargeErrorMessage,
		CreatedAt:     o.CreatedAt.Format(time.RFC3339),
	}
}

// Get returns one order. Buyers only see their own orders; an order
// without a user id (guest checkout) is matched by the token subject
// owning nothing, so guests retrieve orders through the checkout
// response instead.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	if h.Store == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "order store not configured", nil)
		return
	}
	userID, ok := common.UserID(r.Context())
	if !ok || userID == "" {
		common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required", nil)
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
	if o.UserID == nil || strconv.FormatInt(*o.UserID, 10) != userID {
		common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "order not found", nil)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": viewOf(o)})
}
