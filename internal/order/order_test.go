package order

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAllowedTransitions(t *testing.T) {
	t.Parallel()

	allowed := []struct{ from, to Status }{
		{StatusPending, StatusCardSaved},
		{StatusPending, StatusCharged},
		{StatusPending, StatusChargeFailed},
		{StatusCardSaved, StatusCharged},
		{StatusCardSaved, StatusChargeFailed},
		{StatusChargeFailed, StatusCharged},
		{StatusChargeFailed, StatusChargeFailed},
	}
	for _, tc := range allowed {
		require.True(t, AllowedTransition(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}

	denied := []struct{ from, to Status }{
		{StatusCharged, StatusPending},
		{StatusCharged, StatusChargeFailed},
		{StatusCharged, StatusCardSaved},
		{StatusCardSaved, StatusPending},
		{StatusChargeFailed, StatusCardSaved},
	}
	for _, tc := range denied {
		require.False(t, AllowedTransition(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func strptr(s string) *string { return &s }

func TestChargeable(t *testing.T) {
	t.Parallel()

	base := Order{
		PaymentStatus:          StatusCardSaved,
		GatewayCustomerID:      strptr("cus_123"),
		GatewayPaymentMethodID: strptr("pm_456"),
	}
	require.True(t, base.Chargeable())

	paid := base
	paid.Paid = true
	require.False(t, paid.Chargeable())

	pending := base
	pending.PaymentStatus = StatusPending
	require.False(t, pending.Chargeable())

	noCustomer := base
	noCustomer.GatewayCustomerID = strptr("")
	require.False(t, noCustomer.Chargeable())

	noMethod := base
	noMethod.GatewayPaymentMethodID = nil
	require.False(t, noMethod.Chargeable())
}

func TestConsistencyIssueIsSoft(t *testing.T) {
	t.Parallel()

	ok := Order{ID: "a", Paid: true, PaymentStatus: StatusCharged}
	_, flagged := ok.ConsistencyIssue()
	require.False(t, flagged)

	anomaly := Order{ID: "b", Paid: true, PaymentStatus: StatusCardSaved}
	msg, flagged := anomaly.ConsistencyIssue()
	require.True(t, flagged)
	require.Contains(t, msg, "card_saved")

	unpaid := Order{ID: "c", PaymentStatus: StatusChargeFailed}
	_, flagged = unpaid.ConsistencyIssue()
	require.False(t, flagged)
}
