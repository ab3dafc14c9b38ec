package cart

import (
	"fmt"
	"strings"

	"github.com/noah-isme/backend-pledge/internal/catalog"
	"github.com/noah-isme/backend-pledge/internal/pricing"
)

// LineKind discriminates the cart line variants. A client payload carries a
// pile of boolean tags; ingestion collapses them into exactly one kind so
// the validator can switch exhaustively instead of re-testing flags.
type LineKind int

const (
	// LineCatalog is an ordinary line resolved against the catalog.
	LineCatalog LineKind = iota
	// LinePledgeUpgrade carries the price difference between two pledge
	// tiers computed upstream. The submitted price is trusted.
	LinePledgeUpgrade
	// LineLegacyPledge is a carried-over Kickstarter pledge (including the
	// dropped-backer variant). The submitted price is trusted.
	LineLegacyPledge
	// LineLegacyAddon is a carried-over Kickstarter addon. The submitted
	// price is trusted.
	LineLegacyAddon
	// LinePaidPledge is the backer's pledge already paid on Kickstarter.
	// It prices at zero no matter what the client sent.
	LinePaidPledge
)

// Line is one ingested cart entry.
type Line struct {
	Kind LineKind
	// Ref is set only for LineCatalog.
	Ref  catalog.Ref
	Name string
	// Price is the client-claimed unit price. It is authoritative only for
	// the upgrade and legacy kinds; everything else ignores it.
	Price pricing.Money
	Qty   int
}

// Payload is the wire shape of a single cart line as submitted by the
// storefront client. None of it is trusted beyond the scoped exceptions
// documented on the line kinds.
type Payload struct {
	ID                      string        `json:"id"`
	Name                    string        `json:"name"`
	Price                   pricing.Money `json:"price"`
	Quantity                int           `json:"quantity"`
	IsPledgeUpgrade         bool          `json:"isPledgeUpgrade"`
	IsOriginalPledge        bool          `json:"isOriginalPledge"`
	IsDroppedBackerPledge   bool          `json:"isDroppedBackerPledge"`
	IsOriginalAddon         bool          `json:"isOriginalAddon"`
	IsPaidKickstarterPledge bool          `json:"isPaidKickstarterPledge"`
}

// Ingest converts a client payload into a typed Line. Tag precedence
// mirrors the storefront: upgrade, legacy pledge, legacy addon, paid
// pledge; untagged lines must carry a parseable catalog reference.
func Ingest(p Payload) (Line, error) {
	qty := p.Quantity
	if qty <= 0 {
		qty = 1
	}
	name := strings.TrimSpace(p.Name)

	switch {
	case p.IsPledgeUpgrade:
		return Line{Kind: LinePledgeUpgrade, Name: name, Price: p.Price, Qty: qty}, nil
	case p.IsOriginalPledge || p.IsDroppedBackerPledge:
		return Line{Kind: LineLegacyPledge, Name: name, Price: p.Price, Qty: qty}, nil
	case p.IsOriginalAddon:
		return Line{Kind: LineLegacyAddon, Name: name, Price: p.Price, Qty: qty}, nil
	case p.IsPaidKickstarterPledge:
		return Line{Kind: LinePaidPledge, Name: name, Qty: 1}, nil
	}

	ref, err := catalog.ParseRef(p.ID)
	if err != nil {
		return Line{}, fmt.Errorf("ingest line %q: %w", p.ID, err)
	}
	return Line{Kind: LineCatalog, Ref: ref, Name: name, Price: p.Price, Qty: qty}, nil
}

// IngestAll converts a full client cart, failing on the first bad line.
func IngestAll(payloads []Payload) ([]Line, error) {
	lines := make([]Line, 0, len(payloads))
	for i, p := range payloads {
		line, err := Ingest(p)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i, err)
		}
		lines = append(lines, line)
	}
	return lines, nil
}
