package payment

import (
	"github.com/noah-isme/backend-pledge/internal/shipping"
)

// Mode selects how an order collects money: an immediate off-session
// charge at checkout, or saving the card for a later bulk autodebit run.
type Mode string

const (
	ModeImmediateCharge Mode = "immediate_charge"
	ModeSaveCard        Mode = "save_card"
)

// Order and user type labels persisted on every order.
const (
	OrderTypeImmediate = "immediate-charge"
	OrderTypeAutodebit = "pre-order-autodebit"

	UserTypeGuest         = "guest"
	UserTypeDroppedBacker = "dropped-backer"
	UserTypeIndianBacker  = "indian-backer"
	UserTypeBacker        = "backer"
)

// Strategy is the outcome of routing a checkout through the payment
// decision table.
type Strategy struct {
	Mode      Mode
	OrderType string
	UserType  string
}

// DecisionInput carries the facts the decision table consults.
type DecisionInput struct {
	Authenticated bool
	DroppedBacker bool
	Country       string
}

// Decide routes a checkout to a payment strategy. Guests and dropped
// backers pay up front. Backers shipping to India also pay up front
// because their cards cannot be debited off-session later. Everyone
// else saves a card for the autodebit batch. A dropped backer shipping
// to India is still labelled a dropped backer.
func Decide(in DecisionInput) Strategy {
	switch {
	case !in.Authenticated:
		return Strategy{Mode: ModeImmediateCharge, OrderType: OrderTypeImmediate, UserType: UserTypeGuest}
	case in.DroppedBacker:
		return Strategy{Mode: ModeImmediateCharge, OrderType: OrderTypeImmediate, UserType: UserTypeDroppedBacker}
	case shipping.Resolve(in.Country) == shipping.ZoneIndia:
		return Strategy{Mode: ModeImmediateCharge, OrderType: OrderTypeImmediate, UserType: UserTypeIndianBacker}
	default:
		return Strategy{Mode: ModeSaveCard, OrderType: OrderTypeAutodebit, UserType: UserTypeBacker}
	}
}
