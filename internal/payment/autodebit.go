package payment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"

	"github.com/noah-isme/backend-pledge/internal/events"
	"github.com/noah-isme/backend-pledge/internal/obs"
	"github.com/noah-isme/backend-pledge/internal/order"
	"github.com/noah-isme/backend-pledge/internal/pricing"
)

// ChargeOutcome is the per-order result of a batch run.
type ChargeOutcome struct {
	OrderID   string        `json:"orderId"`
	Email     string        `json:"email"`
	Amount    pricing.Money `json:"amount"`
	Charged   bool          `json:"charged"`
	ErrorCode string        `json:"errorCode,omitempty"`
	ErrorMsg  string        `json:"errorMessage,omitempty"`
}

// Summary aggregates one autodebit batch run.
type Summary struct {
	StartedAt    time.Time       `json:"startedAt"`
	FinishedAt   time.Time       `json:"finishedAt"`
	Processed    int             `json:"processed"`
	Charged      int             `json:"charged"`
	Failed       int             `json:"failed"`
	Skipped      int             `json:"skipped"`
	TotalCharged pricing.Money   `json:"totalCharged"`
	Outcomes     []ChargeOutcome `json:"outcomes"`
}

// AutodebitService charges every order that saved a card during
// checkout. Failures are recorded per order and never abort the run.
type AutodebitService struct {
	Orders  order.Store
	Gateway Gateway
	Events  *events.Bus
}

// Run selects the chargeable orders and attempts each one in turn.
// Selection happens at call time, so orders finalized by a previous run
// are never attempted again.
func (s *AutodebitService) Run(ctx context.Context) (Summary, error) {
	if s == nil || s.Orders == nil || s.Gateway == nil {
		return Summary{}, errors.New("autodebit service is not configured")
	}
	ctx, span := otel.Tracer("payment.Autodebit").Start(ctx, "Autodebit.Run")
	defer span.End()
	log := zerolog.Ctx(ctx)
	summary := Summary{StartedAt: time.Now().UTC()}

	orders, err := s.Orders.ListChargeable(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("list chargeable orders: %w", err)
	}
	log.Info().Int("candidates", len(orders)).Msg("autodebit batch started")

	for _, o := range orders {
		if err := ctx.Err(); err != nil {
			summary.FinishedAt = time.Now().UTC()
			return summary, err
		}
		if !o.Chargeable() {
			summary.Skipped++
			continue
		}
		outcome := s.chargeOne(ctx, o)
		summary.Processed++
		result := "failure"
		if outcome.Charged {
			summary.Charged++
			summary.TotalCharged += outcome.Amount
			result = "success"
		} else {
			summary.Failed++
		}
		if obs.AutodebitBatchOrders != nil {
			obs.AutodebitBatchOrders.WithLabelValues(result).Inc()
		}
		summary.Outcomes = append(summary.Outcomes, outcome)
	}

	summary.FinishedAt = time.Now().UTC()
	log.Info().
		Int("processed", summary.Processed).
		Int("charged", summary.Charged).
		Int("failed", summary.Failed).
		Int64("total_charged", summary.TotalCharged).
		Msg("autodebit batch finished")

	if s.Events != nil {
		if _, err := s.Events.Emit(ctx, events.TopicBatchCompleted, "autodebit", summary); err != nil {
			log.Warn().Err(err).Msg("emit batch summary event")
		}
	}
	return summary, nil
}

// RetryOrder attempts a single order outside the batch. Used by the
// admin surface after a decline has been resolved with the backer.
func (s *AutodebitService) RetryOrder(ctx context.Context, id string) (ChargeOutcome, error) {
	if s == nil || s.Orders == nil || s.Gateway == nil {
		return ChargeOutcome{}, errors.New("autodebit service is not configured")
	}
	o, err := s.Orders.ByID(ctx, id)
	if err != nil {
		return ChargeOutcome{}, err
	}
	if o.Paid || o.PaymentStatus == order.StatusCharged {
		return ChargeOutcome{}, fmt.Errorf("order %s is already charged", id)
	}
	if !present(o.GatewayCustomerID) || !present(o.GatewayPaymentMethodID) {
		return ChargeOutcome{}, fmt.Errorf("order %s has no stored payment method", id)
	}
	return s.chargeOne(ctx, o), nil
}

func (s *AutodebitService) chargeOne(ctx context.Context, o order.Order) ChargeOutcome {
	log := zerolog.Ctx(ctx)
	outcome := ChargeOutcome{OrderID: o.ID, Email: o.Email, Amount: o.Total}

	start := time.Now()
	result, err := s.Gateway.ChargeOffSession(ctx, ChargeRequest{
		OrderID:         o.ID,
		CustomerID:      deref(o.GatewayCustomerID),
		PaymentMethodID: deref(o.GatewayPaymentMethodID),
		Amount:          o.Total,
		Currency:        o.Currency,
		Description:     fmt.Sprintf("Pledge order %s", o.ID),
	})
	chargeResult := "success"
	if err != nil {
		chargeResult = "failure"
	}
	if obs.ChargeTotal != nil {
		obs.ChargeTotal.WithLabelValues("batch", chargeResult).Inc()
	}
	if obs.ChargeLatency != nil {
		obs.ChargeLatency.WithLabelValues(chargeResult).Observe(obs.DurationMillis(time.Since(start)))
	}
	if err != nil {
		code, msg := chargeFailure(err)
		outcome.ErrorCode = code
		outcome.ErrorMsg = msg
		log.Warn().Str("order_id", o.ID).Str("code", code).Str("error", msg).Msg("charge failed")
		if markErr := s.Orders.MarkChargeFailed(ctx, o.ID, code, msg); markErr != nil {
			log.Error().Err(markErr).Str("order_id", o.ID).Msg("record charge failure")
		}
		s.emit(ctx, events.TopicChargeFailed, o, map[string]any{
			"email": o.Email, "amount": o.Total, "code": code, "message": msg,
		})
		return outcome
	}

	if err := s.Orders.MarkCharged(ctx, o.ID, result.TransactionID); err != nil {
		// The gateway took the money but the order row refused the
		// transition. Surface loudly; the consistency report will keep
		// flagging it until an operator reconciles.
		log.Error().Err(err).Str("order_id", o.ID).Str("transaction_id", result.TransactionID).
			Msg("charged at gateway but could not finalize order")
		outcome.ErrorCode = "finalize_failed"
		outcome.ErrorMsg = err.Error()
		return outcome
	}

	outcome.Charged = true
	log.Info().Str("order_id", o.ID).Int64("amount", o.Total).Msg("order charged")
	s.emit(ctx, events.TopicChargeSucceeded, o, map[string]any{
		"email": o.Email, "amount": o.Total, "transactionId": result.TransactionID,
	})
	return outcome
}

func (s *AutodebitService) emit(ctx context.Context, topic string, o order.Order, payload map[string]any) {
	if s.Events == nil {
		return
	}
	if _, err := s.Events.Emit(ctx, topic, o.ID, payload); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("topic", topic).Str("order_id", o.ID).Msg("emit event")
	}
}

// chargeFailure normalises gateway errors into a code/message pair fit
// for the order row.
func chargeFailure(err error) (string, string) {
	var ce *ChargeError
	if errors.As(err, &ce) {
		return ce.Code, ce.Message
	}
	return "gateway_error", err.Error()
}

func present(s *string) bool {
	return s != nil && *s != ""
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
