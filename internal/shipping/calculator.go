package shipping

import (
	"strings"

	"github.com/noah-isme/backend-pledge/internal/pricing"
)

// Parcel is the slice of a cart line that shipping cares about: the display
// name (keyword matching) and the quantity.
type Parcel struct {
	Name string
	Qty  int
}

// tierKeywords maps pledge tier names, matched as case-insensitive
// substrings of line names, to their tier. Keying shipping off display
// names couples business logic to copy text; it is kept for compatibility
// with carts imported from the original storefront.
var tierKeywords = []struct {
	keyword string
	tier    Tier
}{
	{"humble vaanar", TierVaanar},
	{"industrious manushya", TierManushya},
	{"resplendent garuda", TierGaruda},
	{"benevolent divya", TierDivya},
	{"founders of neh", TierFounders},
}

// addonKeywords is checked in order; the first match on a line wins, so a
// name containing two category words is charged only for the earlier one.
var addonKeywords = []struct {
	keyword  string
	category AddonCategory
}{
	{"built environments", AddonBuiltEnvironments},
	{"lorebook", AddonLorebook},
	{"paperback", AddonPaperback},
	{"hardcover", AddonHardcover},
}

// Calculate computes the flat shipping cost for the cart. It is a pure
// function over the static zone table: no catalog lookups, no I/O.
//
// The pledge tier rate is charged once regardless of quantity (a pledge
// ships as a single parcel); addon rates are charged per unit on every
// matching line.
func Calculate(country string, parcels []Parcel) pricing.Money {
	if len(parcels) == 0 {
		return 0
	}
	table := Rates(Resolve(country))

	var total pricing.Money

	if tier, ok := findPledgeTier(parcels); ok {
		total += table.Tier[tier]
	}

	for _, parcel := range parcels {
		category, ok := matchAddonCategory(parcel.Name)
		if !ok {
			continue
		}
		qty := parcel.Qty
		if qty <= 0 {
			qty = 1
		}
		total += table.Addon[category] * pricing.Money(qty)
	}

	return total
}

func findPledgeTier(parcels []Parcel) (Tier, bool) {
	for _, parcel := range parcels {
		name := strings.ToLower(parcel.Name)
		for _, candidate := range tierKeywords {
			if strings.Contains(name, candidate.keyword) {
				return candidate.tier, true
			}
		}
	}
	return 0, false
}

func matchAddonCategory(name string) (AddonCategory, bool) {
	lower := strings.ToLower(name)
	for _, candidate := range addonKeywords {
		if strings.Contains(lower, candidate.keyword) {
			return candidate.category, true
		}
	}
	return 0, false
}
