package shipping_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/backend-pledge/internal/pricing"
	"github.com/noah-isme/backend-pledge/internal/shipping"
)

func TestCalculateFixtureScenarios(t *testing.T) {
	t.Parallel()

	cart := []shipping.Parcel{{Name: "Humble Vaanar", Qty: 1}}

	require.Equal(t, pricing.Money(5), shipping.Calculate("India", cart))
	require.Equal(t, pricing.Money(13), shipping.Calculate("Germany", cart))
}

func TestCalculateIsDeterministic(t *testing.T) {
	t.Parallel()

	cart := []shipping.Parcel{
		{Name: "Resplendent Garuda", Qty: 1},
		{Name: "Lorebook of Neh", Qty: 2},
		{Name: "Hardcover Edition", Qty: 1},
	}
	first := shipping.Calculate("Japan", cart)
	for i := 0; i < 10; i++ {
		require.Equal(t, first, shipping.Calculate("Japan", cart))
	}
}

func TestCalculatePledgeRateChargedOnce(t *testing.T) {
	t.Parallel()

	single := shipping.Calculate("USA", []shipping.Parcel{{Name: "Benevolent Divya", Qty: 1}})
	multi := shipping.Calculate("USA", []shipping.Parcel{{Name: "Benevolent Divya", Qty: 3}})
	require.Equal(t, single, multi)
}

func TestCalculateAddonRatePerUnit(t *testing.T) {
	t.Parallel()

	one := shipping.Calculate("USA", []shipping.Parcel{{Name: "Paperback", Qty: 1}})
	three := shipping.Calculate("USA", []shipping.Parcel{{Name: "Paperback", Qty: 3}})
	require.Equal(t, one*3, three)

	// Unspecified quantity defaults to one unit.
	zero := shipping.Calculate("USA", []shipping.Parcel{{Name: "Paperback"}})
	require.Equal(t, one, zero)
}

func TestCalculateFirstAddonCategoryWins(t *testing.T) {
	t.Parallel()

	// A line naming two categories is charged only for the earlier one in
	// the check order: built environments, lorebook, paperback, hardcover.
	combined := shipping.Calculate("USA", []shipping.Parcel{{Name: "Lorebook Hardcover Bundle", Qty: 1}})
	lorebook := shipping.Calculate("USA", []shipping.Parcel{{Name: "Lorebook", Qty: 1}})
	require.Equal(t, lorebook, combined)
}

func TestCalculatePledgeAndAddonsCombine(t *testing.T) {
	t.Parallel()

	table := shipping.Rates(shipping.ZoneIndia)
	got := shipping.Calculate("india", []shipping.Parcel{
		{Name: "Humble Vaanar", Qty: 1},
		{Name: "Built Environments Set", Qty: 2},
	})
	want := table.Tier[shipping.TierVaanar] + 2*table.Addon[shipping.AddonBuiltEnvironments]
	require.Equal(t, want, got)
}

func TestCalculateEmptyOrUnshippableCart(t *testing.T) {
	t.Parallel()

	require.Zero(t, shipping.Calculate("Germany", nil))
	require.Zero(t, shipping.Calculate("Germany", []shipping.Parcel{{Name: "Digital Wallpaper Pack", Qty: 4}}))
}

func TestResolveNormalisesInput(t *testing.T) {
	t.Parallel()

	require.Equal(t, shipping.ZoneUK, shipping.Resolve("  Great Britain "))
	require.Equal(t, shipping.ZoneUK, shipping.Resolve("ENGLAND"))
	require.Equal(t, shipping.ZoneAustralia, shipping.Resolve("Austraila"))
	require.Equal(t, shipping.ZoneIndia, shipping.Resolve("india"))
}

func TestResolveUnknownOrBlankFallsBackToRestOfWorld(t *testing.T) {
	t.Parallel()

	for _, country := range []string{"", "   ", "Atlantis", "Mars"} {
		require.Equal(t, shipping.ZoneRestOfWorld, shipping.Resolve(country), country)
	}
}

func TestEveryAliasResolvesConsistently(t *testing.T) {
	t.Parallel()

	for _, alias := range shipping.Aliases() {
		base := shipping.Resolve(alias)
		require.NotEqual(t, shipping.Zone(""), base)
		require.Equal(t, base, shipping.Resolve(strings.ToUpper(alias)), alias)
		require.Equal(t, base, shipping.Resolve("  "+alias+"  "), alias)
	}
}

func TestRestOfWorldIsCeiling(t *testing.T) {
	t.Parallel()

	row := shipping.Rates(shipping.ZoneRestOfWorld)
	for _, zone := range shipping.Zones() {
		table := shipping.Rates(zone)
		for tier, rate := range table.Tier {
			require.GreaterOrEqual(t, row.Tier[tier], rate,
				"zone %s tier %d beats the fallback", zone, tier)
		}
	}
}
