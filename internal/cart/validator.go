package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/noah-isme/backend-pledge/internal/catalog"
	"github.com/noah-isme/backend-pledge/internal/pricing"
)

// ValidatedLine is the server-computed, authoritative form of a cart line.
type ValidatedLine struct {
	Kind LineKind
	// ItemID is the resolved catalog id, or zero for synthetic lines.
	ItemID    int64
	Name      string
	UnitPrice pricing.Money
	Qty       int
	Subtotal  pricing.Money
}

// Validator re-derives every cart price from the catalog. Client-submitted
// prices are honoured only for the upgrade and legacy line kinds.
type Validator struct {
	Catalog catalog.Store
}

// ValidateCart computes the authoritative total for the cart. Each untagged
// line costs one or two catalog reads; the catalog rarely changes
// mid-request, so correctness wins over caching. A missing or inactive
// catalog row aborts the whole cart with catalog.ErrItemNotFound.
func (v Validator) ValidateCart(ctx context.Context, lines []Line, backerTier bool) (pricing.Money, []ValidatedLine, error) {
	if v.Catalog == nil {
		return 0, nil, errors.New("cart: catalog store not configured")
	}

	var total pricing.Money
	validated := make([]ValidatedLine, 0, len(lines))

	for _, line := range lines {
		qty := line.Qty
		if qty <= 0 {
			qty = 1
		}

		switch line.Kind {
		case LinePledgeUpgrade, LineLegacyPledge, LineLegacyAddon:
			// An upgrade price is a difference between two catalog
			// prices computed elsewhere; legacy lines were validated
			// when the pledge was imported. Trusting the submitted
			// price here is a scoped exception to the anti-tamper
			// rule, limited to these kinds.
			subtotal := line.Price * pricing.Money(qty)
			total += subtotal
			validated = append(validated, ValidatedLine{
				Kind:      line.Kind,
				Name:      line.Name,
				UnitPrice: line.Price,
				Qty:       qty,
				Subtotal:  subtotal,
			})

		case LinePaidPledge:
			// Already settled on Kickstarter. Zero price, single unit,
			// nothing added to the total.
			validated = append(validated, ValidatedLine{
				Kind: LinePaidPledge,
				Name: line.Name,
				Qty:  1,
			})

		case LineCatalog:
			item, err := catalog.Resolve(ctx, v.Catalog, line.Ref)
			if err != nil {
				if errors.Is(err, catalog.ErrItemNotFound) {
					return 0, nil, fmt.Errorf("%s %d: %w", line.Ref.Kind, line.Ref.ID, err)
				}
				return 0, nil, fmt.Errorf("resolve %s %d: %w", line.Ref.Kind, line.Ref.ID, err)
			}
			unit := item.UnitPrice(backerTier)
			subtotal := unit * pricing.Money(qty)
			total += subtotal
			validated = append(validated, ValidatedLine{
				Kind:      LineCatalog,
				ItemID:    item.ID,
				Name:      item.Name,
				UnitPrice: unit,
				Qty:       qty,
				Subtotal:  subtotal,
			})

		default:
			return 0, nil, fmt.Errorf("cart: unknown line kind %d", line.Kind)
		}
	}

	return total, validated, nil
}
