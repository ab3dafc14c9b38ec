package pricing

// Money represents a monetary value stored in minor units.
type Money = int64

// MismatchTolerance is the largest difference between a client-submitted
// total and the server-computed total that is still attributed to rounding
// rather than tampering or a stale cart.
const MismatchTolerance Money = 1

// Summary aggregates the server-computed components of a checkout total.
type Summary struct {
	Items    Money
	Shipping Money
	Total    Money
}

// Compose builds a Summary from the validated item total and shipping cost.
func Compose(items, shipping Money) Summary {
	if shipping < 0 {
		shipping = 0
	}
	return Summary{
		Items:    items,
		Shipping: shipping,
		Total:    items + shipping,
	}
}

// Matches reports whether the submitted total agrees with the computed total
// within MismatchTolerance.
func (s Summary) Matches(submitted Money) bool {
	diff := s.Total - submitted
	if diff < 0 {
		diff = -diff
	}
	return diff <= MismatchTolerance
}
