package shipping

import (
	"strings"

	"github.com/noah-isme/backend-pledge/internal/pricing"
)

// Zone names a group of destination countries sharing one flat-rate table.
type Zone string

const (
	ZoneUSA         Zone = "USA"
	ZoneCanada      Zone = "CANADA"
	ZoneUK          Zone = "UK"
	ZoneEU1         Zone = "EU-1"
	ZoneEU2         Zone = "EU-2"
	ZoneEU3         Zone = "EU-3"
	ZoneAustralia   Zone = "AUSTRALIA"
	ZoneAsia        Zone = "ASIA"
	ZoneIndia       Zone = "INDIA"
	ZoneRestOfWorld Zone = "REST OF WORLD"
)

// Tier is one of the five pledge reward tiers.
type Tier int

const (
	TierVaanar Tier = iota
	TierManushya
	TierGaruda
	TierDivya
	TierFounders
)

// AddonCategory is a shippable addon class with its own flat rate.
type AddonCategory int

const (
	AddonBuiltEnvironments AddonCategory = iota
	AddonLorebook
	AddonPaperback
	AddonHardcover
)

// RateTable holds one zone's flat shipping rates. Tier rates apply once per
// order; addon rates apply per unit.
type RateTable struct {
	Tier  [5]pricing.Money
	Addon [4]pricing.Money
}

// rateTables is the campaign's static shipping rate card. REST OF WORLD is
// the fallback and must never undercut a matched zone for the same tier;
// TestRestOfWorldIsCeiling pins that down.
var rateTables = map[Zone]RateTable{
	ZoneUSA:         {Tier: [5]pricing.Money{10, 15, 20, 30, 40}, Addon: [4]pricing.Money{4, 6, 4, 8}},
	ZoneCanada:      {Tier: [5]pricing.Money{12, 18, 24, 34, 44}, Addon: [4]pricing.Money{5, 7, 5, 9}},
	ZoneUK:          {Tier: [5]pricing.Money{12, 16, 22, 32, 42}, Addon: [4]pricing.Money{5, 6, 4, 8}},
	ZoneEU1:         {Tier: [5]pricing.Money{13, 18, 24, 34, 45}, Addon: [4]pricing.Money{5, 7, 5, 9}},
	ZoneEU2:         {Tier: [5]pricing.Money{15, 20, 26, 38, 48}, Addon: [4]pricing.Money{6, 8, 5, 10}},
	ZoneEU3:         {Tier: [5]pricing.Money{16, 22, 28, 40, 50}, Addon: [4]pricing.Money{6, 8, 6, 10}},
	ZoneAustralia:   {Tier: [5]pricing.Money{14, 20, 26, 38, 48}, Addon: [4]pricing.Money{6, 8, 5, 10}},
	ZoneAsia:        {Tier: [5]pricing.Money{12, 16, 22, 32, 42}, Addon: [4]pricing.Money{5, 6, 4, 8}},
	ZoneIndia:       {Tier: [5]pricing.Money{5, 8, 10, 15, 20}, Addon: [4]pricing.Money{2, 3, 2, 4}},
	ZoneRestOfWorld: {Tier: [5]pricing.Money{18, 25, 32, 45, 55}, Addon: [4]pricing.Money{8, 10, 8, 12}},
}

// countryAliases maps normalised country spellings, abbreviations and the
// misspellings backers actually type to zones.
var countryAliases = map[string]Zone{
	"usa":                      ZoneUSA,
	"us":                       ZoneUSA,
	"u.s.":                     ZoneUSA,
	"u.s.a.":                   ZoneUSA,
	"united states":            ZoneUSA,
	"united states of america": ZoneUSA,
	"america":                  ZoneUSA,

	"canada":  ZoneCanada,
	"cananda": ZoneCanada,

	"uk":               ZoneUK,
	"u.k.":             ZoneUK,
	"united kingdom":   ZoneUK,
	"great britain":    ZoneUK,
	"britain":          ZoneUK,
	"england":          ZoneUK,
	"scotland":         ZoneUK,
	"wales":            ZoneUK,
	"northern ireland": ZoneUK,

	"germany":     ZoneEU1,
	"deutschland": ZoneEU1,
	"france":      ZoneEU1,
	"netherlands": ZoneEU1,
	"netherland":  ZoneEU1,
	"holland":     ZoneEU1,
	"belgium":     ZoneEU1,
	"luxembourg":  ZoneEU1,
	"austria":     ZoneEU1,
	"switzerland": ZoneEU1,

	"spain":          ZoneEU2,
	"italy":          ZoneEU2,
	"portugal":       ZoneEU2,
	"ireland":        ZoneEU2,
	"denmark":        ZoneEU2,
	"sweden":         ZoneEU2,
	"norway":         ZoneEU2,
	"finland":        ZoneEU2,
	"poland":         ZoneEU2,
	"czech republic": ZoneEU2,
	"czechia":        ZoneEU2,

	"greece":    ZoneEU3,
	"romania":   ZoneEU3,
	"bulgaria":  ZoneEU3,
	"hungary":   ZoneEU3,
	"croatia":   ZoneEU3,
	"slovakia":  ZoneEU3,
	"slovenia":  ZoneEU3,
	"estonia":   ZoneEU3,
	"latvia":    ZoneEU3,
	"lithuania": ZoneEU3,
	"malta":     ZoneEU3,
	"cyprus":    ZoneEU3,

	"australia":   ZoneAustralia,
	"austraila":   ZoneAustralia,
	"new zealand": ZoneAustralia,
	"nz":          ZoneAustralia,

	"singapore":            ZoneAsia,
	"malaysia":             ZoneAsia,
	"japan":                ZoneAsia,
	"south korea":          ZoneAsia,
	"korea":                ZoneAsia,
	"thailand":             ZoneAsia,
	"philippines":          ZoneAsia,
	"phillipines":          ZoneAsia,
	"indonesia":            ZoneAsia,
	"vietnam":              ZoneAsia,
	"hong kong":            ZoneAsia,
	"taiwan":               ZoneAsia,
	"china":                ZoneAsia,
	"sri lanka":            ZoneAsia,
	"nepal":                ZoneAsia,
	"bangladesh":           ZoneAsia,
	"uae":                  ZoneAsia,
	"united arab emirates": ZoneAsia,

	"india": ZoneIndia,
}

// Resolve maps a destination country string to its shipping zone. Matching
// is trimmed and case-insensitive; blank or unrecognised input falls back to
// REST OF WORLD, the highest-rate zone.
func Resolve(country string) Zone {
	normalised := strings.ToLower(strings.TrimSpace(country))
	if normalised == "" {
		return ZoneRestOfWorld
	}
	if zone, ok := countryAliases[normalised]; ok {
		return zone
	}
	return ZoneRestOfWorld
}

// Rates returns the rate table for a zone, defaulting to REST OF WORLD for
// an unknown zone value.
func Rates(zone Zone) RateTable {
	if table, ok := rateTables[zone]; ok {
		return table
	}
	return rateTables[ZoneRestOfWorld]
}

// Zones lists every configured zone.
func Zones() []Zone {
	return []Zone{
		ZoneUSA, ZoneCanada, ZoneUK, ZoneEU1, ZoneEU2, ZoneEU3,
		ZoneAustralia, ZoneAsia, ZoneIndia, ZoneRestOfWorld,
	}
}

// Aliases returns every supported country alias. Exposed for tests that
// assert alias resolution is total and consistent.
func Aliases() []string {
	out := make([]string, 0, len(countryAliases))
	for alias := range countryAliases {
		out = append(out, alias)
	}
	return out
}
