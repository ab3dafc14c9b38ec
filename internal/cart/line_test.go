package cart_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/backend-pledge/internal/cart"
	"github.com/noah-isme/backend-pledge/internal/catalog"
)

func TestIngestRoutesTagsToKinds(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		payload cart.Payload
		want    cart.LineKind
	}{
		{"upgrade", cart.Payload{ID: "x", IsPledgeUpgrade: true, Price: 75}, cart.LinePledgeUpgrade},
		{"original pledge", cart.Payload{ID: "x", IsOriginalPledge: true, Price: 80}, cart.LineLegacyPledge},
		{"dropped backer pledge", cart.Payload{ID: "x", IsDroppedBackerPledge: true, Price: 80}, cart.LineLegacyPledge},
		{"original addon", cart.Payload{ID: "x", IsOriginalAddon: true, Price: 20}, cart.LineLegacyAddon},
		{"paid pledge", cart.Payload{ID: "x", IsPaidKickstarterPledge: true, Price: 999}, cart.LinePaidPledge},
	}
	for _, tc := range cases {
		line, err := cart.Ingest(tc.payload)
		require.NoError(t, err, tc.name)
		require.Equal(t, tc.want, line.Kind, tc.name)
	}
}

func TestIngestUpgradeWinsOverOtherTags(t *testing.T) {
	t.Parallel()

	line, err := cart.Ingest(cart.Payload{
		ID:               "pledge-2",
		IsPledgeUpgrade:  true,
		IsOriginalPledge: true,
		Price:            75,
	})
	require.NoError(t, err)
	require.Equal(t, cart.LinePledgeUpgrade, line.Kind)
}

func TestIngestPaidPledgeForcesSingleUnit(t *testing.T) {
	t.Parallel()

	line, err := cart.Ingest(cart.Payload{ID: "x", IsPaidKickstarterPledge: true, Quantity: 4})
	require.NoError(t, err)
	require.Equal(t, 1, line.Qty)
	require.Zero(t, line.Price)
}

func TestIngestUntaggedParsesRef(t *testing.T) {
	t.Parallel()

	line, err := cart.Ingest(cart.Payload{ID: "addon-3", Name: "Lorebook", Quantity: 2, Price: 20})
	require.NoError(t, err)
	require.Equal(t, cart.LineCatalog, line.Kind)
	require.Equal(t, catalog.Ref{Kind: catalog.RefAddon, ID: 3}, line.Ref)
	require.Equal(t, 2, line.Qty)
}

func TestIngestDefaultsQuantity(t *testing.T) {
	t.Parallel()

	for _, qty := range []int{0, -3} {
		line, err := cart.Ingest(cart.Payload{ID: "5", Quantity: qty})
		require.NoError(t, err)
		require.Equal(t, 1, line.Qty)
	}
}

func TestIngestAllFailsOnBadRef(t *testing.T) {
	t.Parallel()

	_, err := cart.IngestAll([]cart.Payload{
		{ID: "pledge-1"},
		{ID: "not-a-ref"},
	})
	require.ErrorIs(t, err, catalog.ErrBadRef)
}
