package order

import (
	"fmt"
	"time"

	"github.com/noah-isme/backend-pledge/internal/pricing"
)

// Status tracks where an order sits in the payment lifecycle.
type Status string

const (
	// StatusPending is the initial state of every checkout attempt.
	StatusPending Status = "pending"
	// StatusCardSaved means a payment method was captured for a deferred
	// autodebit charge but nothing has been charged yet.
	StatusCardSaved Status = "card_saved"
	// StatusCharged means the gateway confirmed the charge.
	StatusCharged Status = "charged"
	// StatusChargeFailed means the most recent charge attempt failed; the
	// order stays eligible for manual or batched retry.
	StatusChargeFailed Status = "charge_failed"
)

// AllowedTransition reports whether the payment state machine permits
// moving an order from one status to another. Immediate-charge orders go
// straight from pending to a terminal outcome; autodebit orders pass
// through card_saved first. charge_failed is retryable toward charged.
func AllowedTransition(current, next Status) bool {
	switch current {
	case StatusPending:
		return next == StatusCardSaved || next == StatusCharged || next == StatusChargeFailed
	case StatusCardSaved:
		return next == StatusCharged || next == StatusChargeFailed
	case StatusChargeFailed:
		return next == StatusCharged || next == StatusChargeFailed
	default:
		return false
	}
}

// Order is one checkout attempt.
type Order struct {
	ID        string
	UserID    *int64
	Email     string
	Country   string
	OrderType string
	UserType  string
	Items     pricing.Money
	Shipping  pricing.Money
	Total     pricing.Money
	Currency  string

	PaymentStatus Status
	// Paid is a boolean gate independent of the status text; the batch
	// selection query keys off it.
	Paid bool

	GatewayCustomerID      *string
	GatewayPaymentMethodID *string
	GatewayTransactionID   *string
	ChargeErrorCode        *string
	ChargeErrorMessage     *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Chargeable reports whether the bulk autodebit batch may attempt this
// order: card saved, not yet paid, and both gateway references present.
func (o Order) Chargeable() bool {
	if o.PaymentStatus != StatusCardSaved || o.Paid {
		return false
	}
	return present(o.GatewayCustomerID) && present(o.GatewayPaymentMethodID)
}

// ConsistencyIssue reports the known soft anomaly: paid set while the
// status never reached charged. The original validation scripts only ever
// warned about this, so it is surfaced, not corrected.
func (o Order) ConsistencyIssue() (string, bool) {
	if o.Paid && o.PaymentStatus != StatusCharged {
		return fmt.Sprintf("order %s is paid but payment_status is %q", o.ID, o.PaymentStatus), true
	}
	return "", false
}

func present(s *string) bool {
	return s != nil && *s != ""
}
