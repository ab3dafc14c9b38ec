package checkout

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"

	"github.com/noah-isme/backend-pledge/internal/account"
	"github.com/noah-isme/backend-pledge/internal/cart"
	"github.com/noah-isme/backend-pledge/internal/common"
	"github.com/noah-isme/backend-pledge/internal/events"
	"github.com/noah-isme/backend-pledge/internal/obs"
	"github.com/noah-isme/backend-pledge/internal/order"
	"github.com/noah-isme/backend-pledge/internal/payment"
	"github.com/noah-isme/backend-pledge/internal/pricing"
	"github.com/noah-isme/backend-pledge/internal/shipping"
)

// Input is the checkout request body. The submitted total is what the
// client displayed to the buyer; the server recomputes everything and
// rejects the order when they disagree.
type Input struct {
	Email          string         `json:"email" validate:"required,email"`
	Country        string         `json:"country" validate:"required"`
	Items          []cart.Payload `json:"items" validate:"required,min=1"`
	SubmittedTotal pricing.Money  `json:"submittedTotal"`

	GatewayCustomerID      string `json:"gatewayCustomerId"`
	GatewayPaymentMethodID string `json:"gatewayPaymentMethodId"`
}

// LineOut echoes one validated cart line back to the client.
type LineOut struct {
	Name      string        `json:"name"`
	Qty       int           `json:"qty"`
	UnitPrice pricing.Money `json:"unitPrice"`
	Subtotal  pricing.Money `json:"subtotal"`
}

// Output reports the created order and the server-side price breakdown.
type Output struct {
	OrderID       string        `json:"orderId"`
	OrderType     string        `json:"orderType"`
	UserType      string        `json:"userType"`
	PaymentStatus string        `json:"paymentStatus"`
	Items         pricing.Money `json:"itemsTotal"`
	Shipping      pricing.Money `json:"shippingTotal"`
	Total         pricing.Money `json:"total"`
	Currency      string        `json:"currency"`
	Lines         []LineOut     `json:"lines"`
}

// Service runs the checkout pipeline: ingest the submitted cart,
// reprice it from the catalog, add shipping, verify the client's total,
// pick a payment strategy and persist the order.
type Service struct {
	Accounts account.Store
	Cart     *cart.Validator
	Orders   order.Store
	Gateway  payment.Gateway
	Events   *events.Bus
	Currency string
}

func (s *Service) Create(ctx context.Context, userID *string, in Input) (Output, error) {
	if s == nil || s.Cart == nil || s.Orders == nil {
		return Output{}, errors.New("checkout service not configured")
	}
	ctx, span := otel.Tracer("checkout.Service").Start(ctx, "CheckoutService.Create")
	defer span.End()
	log := zerolog.Ctx(ctx)

	email := strings.TrimSpace(in.Email)
	if email == "" {
		return Output{}, &common.AppError{Code: "BAD_REQUEST", Message: "email is required", HTTPStatus: http.StatusBadRequest}
	}
	if len(in.Items) == 0 {
		return Output{}, &common.AppError{Code: "BAD_REQUEST", Message: "cart is empty", HTTPStatus: http.StatusBadRequest}
	}

	lines, err := cart.IngestAll(in.Items)
	if err != nil {
		return Output{}, &common.AppError{Code: "BAD_REQUEST", Message: err.Error(), HTTPStatus: http.StatusBadRequest, Err: err}
	}

	acct, authenticated, err := s.resolveAccount(ctx, userID)
	if err != nil {
		return Output{}, err
	}

	itemsTotal, validated, err := s.Cart.ValidateCart(ctx, lines, authenticated && acct.BackerTier())
	if err != nil {
		return Output{}, &common.AppError{Code: "ITEM_NOT_FOUND", Message: err.Error(), HTTPStatus: http.StatusUnprocessableEntity, Err: err}
	}

	parcels := make([]shipping.Parcel, 0, len(validated))
	outLines := make([]LineOut, 0, len(validated))
	for _, v := range validated {
		parcels = append(parcels, shipping.Parcel{Name: v.Name, Qty: v.Qty})
		outLines = append(outLines, LineOut{Name: v.Name, Qty: v.Qty, UnitPrice: v.UnitPrice, Subtotal: v.Subtotal})
	}
	shippingTotal := shipping.Calculate(in.Country, parcels)

	summary := pricing.Compose(itemsTotal, shippingTotal)
	if !summary.Matches(in.SubmittedTotal) {
		if obs.PriceMismatchTotal != nil {
			obs.PriceMismatchTotal.Inc()
		}
		log.Warn().
			Int64("submitted", in.SubmittedTotal).
			Int64("computed", summary.Total).
			Str("email", email).
			Msg("checkout price mismatch")
		return Output{}, &common.AppError{
			Code:       "PRICE_MISMATCH",
			Message:    fmt.Sprintf("submitted total %d does not match computed total %d", in.SubmittedTotal, summary.Total),
			HTTPStatus: http.StatusConflict,
		}
	}

	strategy := payment.Decide(payment.DecisionInput{
		Authenticated: authenticated,
		DroppedBacker: authenticated && acct.IsDropped(),
		Country:       in.Country,
	})

	o := order.Order{
		ID:            uuid.NewString(),
		Email:         email,
		Country:       in.Country,
		OrderType:     strategy.OrderType,
		UserType:      strategy.UserType,
		Items:         summary.Items,
		Shipping:      summary.Shipping,
		Total:         summary.Total,
		Currency:      s.Currency,
		PaymentStatus: order.StatusPending,
	}
	if authenticated {
		id := acct.ID
		o.UserID = &id
	}
	created, err := s.Orders.Create(ctx, o)
	if err != nil {
		return Output{}, fmt.Errorf("persist order: %w", err)
	}
	s.emit(ctx, events.TopicOrderCreated, created.ID, map[string]any{
		"email": email, "total": summary.Total, "orderType": strategy.OrderType, "userType": strategy.UserType,
	})

	status, err := s.settle(ctx, created, strategy, in)
	if err != nil {
		if obs.CheckoutTotal != nil {
			obs.CheckoutTotal.WithLabelValues(strategy.OrderType, strategy.UserType, "error").Inc()
		}
		return Output{}, err
	}
	if obs.CheckoutTotal != nil {
		obs.CheckoutTotal.WithLabelValues(strategy.OrderType, strategy.UserType, "success").Inc()
	}

	log.Info().
		Str("order_id", created.ID).
		Str("order_type", strategy.OrderType).
		Str("user_type", strategy.UserType).
		Int64("total", summary.Total).
		Msg("checkout completed")

	return Output{
		OrderID:       created.ID,
		OrderType:     strategy.OrderType,
		UserType:      strategy.UserType,
		PaymentStatus: string(status),
		Items:         summary.Items,
		Shipping:      summary.Shipping,
		Total:         summary.Total,
		Currency:      s.Currency,
		Lines:         outLines,
	}, nil
}

// settle executes the chosen payment strategy against the new order.
func (s *Service) settle(ctx context.Context, o order.Order, strategy payment.Strategy, in Input) (order.Status, error) {
	customer := strings.TrimSpace(in.GatewayCustomerID)
	method := strings.TrimSpace(in.GatewayPaymentMethodID)
	if customer == "" || method == "" {
		return "", &common.AppError{Code: "PAYMENT_REQUIRED", Message: "a payment method is required", HTTPStatus: http.StatusBadRequest}
	}

	if strategy.Mode == payment.ModeSaveCard {
		if err := s.Orders.SaveCard(ctx, o.ID, customer, method); err != nil {
			return "", fmt.Errorf("save card: %w", err)
		}
		s.emit(ctx, events.TopicCardSaved, o.ID, map[string]any{"email": o.Email, "total": o.Total})
		return order.StatusCardSaved, nil
	}

	if s.Gateway == nil {
		return "", errors.New("payment gateway not configured")
	}
	result, err := s.Gateway.ChargeOffSession(ctx, payment.ChargeRequest{
		OrderID:         o.ID,
		CustomerID:      customer,
		PaymentMethodID: method,
		Amount:          o.Total,
		Currency:        s.Currency,
		Description:     fmt.Sprintf("Pledge order %s", o.ID),
	})
	if obs.ChargeTotal != nil {
		outcome := "success"
		if err != nil {
			outcome = "failure"
		}
		obs.ChargeTotal.WithLabelValues("checkout", outcome).Inc()
	}
	if err != nil {
		var ce *payment.ChargeError
		code, msg := "gateway_error", err.Error()
		if errors.As(err, &ce) {
			code, msg = ce.Code, ce.Message
		}
		if markErr := s.Orders.MarkChargeFailed(ctx, o.ID, code, msg); markErr != nil {
			zerolog.Ctx(ctx).Error().Err(markErr).Str("order_id", o.ID).Msg("record charge failure")
		}
		s.emit(ctx, events.TopicChargeFailed, o.ID, map[string]any{"email": o.Email, "code": code, "message": msg})
		return "", &common.AppError{Code: "CHARGE_FAILED", Message: msg, HTTPStatus: http.StatusPaymentRequired, Err: err}
	}
	if err := s.Orders.MarkCharged(ctx, o.ID, result.TransactionID); err != nil {
		return "", fmt.Errorf("finalize charge: %w", err)
	}
	s.emit(ctx, events.TopicChargeSucceeded, o.ID, map[string]any{
		"email": o.Email, "amount": o.Total, "transactionId": result.TransactionID,
	})
	return order.StatusCharged, nil
}

// resolveAccount loads the caller's account when a user id is present.
// Backer flags come from the stored pledge record, never the request.
func (s *Service) resolveAccount(ctx context.Context, userID *string) (account.Account, bool, error) {
	if userID == nil || strings.TrimSpace(*userID) == "" {
		return account.Account{}, false, nil
	}
	if s.Accounts == nil {
		return account.Account{}, false, errors.New("account store not configured")
	}
	id, err := strconv.ParseInt(strings.TrimSpace(*userID), 10, 64)
	if err != nil {
		return account.Account{}, false, &common.AppError{Code: "UNAUTHORIZED", Message: "invalid user id", HTTPStatus: http.StatusUnauthorized, Err: err}
	}
	acct, err := s.Accounts.ByID(ctx, id)
	if err != nil {
		if errors.Is(err, account.ErrNotFound) {
			return account.Account{}, false, &common.AppError{Code: "UNAUTHORIZED", Message: "account not found", HTTPStatus: http.StatusUnauthorized, Err: err}
		}
		return account.Account{}, false, fmt.Errorf("load account: %w", err)
	}
	return acct, true, nil
}

func (s *Service) emit(ctx context.Context, topic, orderID string, payload map[string]any) {
	if s.Events == nil {
		return
	}
	if _, err := s.Events.Emit(ctx, topic, orderID, payload); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("topic", topic).Str("order_id", orderID).Msg("emit event")
	}
}
