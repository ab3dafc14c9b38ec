package payment

import (
	"context"
	"fmt"

	"github.com/noah-isme/backend-pledge/internal/pricing"
)

// ChargeRequest describes an off-session charge against a stored
// customer and payment method.
type ChargeRequest struct {
	OrderID         string
	CustomerID      string
	PaymentMethodID string
	Amount          pricing.Money
	Currency        string
	Description     string
}

// ChargeResult reports a successful charge.
type ChargeResult struct {
	TransactionID string
}

// ChargeError is a charge decline with a gateway error code. Batch
// processing records the code and message on the order instead of
// aborting the run.
type ChargeError struct {
	Code    string
	Message string
}

func (e *ChargeError) Error() string {
	return fmt.Sprintf("charge declined (%s): %s", e.Code, e.Message)
}

// Gateway abstracts the card gateway used for off-session charges.
type Gateway interface {
	ChargeOffSession(ctx context.Context, req ChargeRequest) (ChargeResult, error)
}
