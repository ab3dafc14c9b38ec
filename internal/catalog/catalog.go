package catalog

import (
	"context"
	"errors"

	"github.com/noah-isme/backend-pledge/internal/pricing"
)

// ErrItemNotFound is returned when a reference has no active catalog row.
// Checkout treats this as a hard failure: no partial total is usable.
var ErrItemNotFound = errors.New("catalog: item not found")

// Item is one sellable catalog entry. Pledge tiers live in the products
// table and addons in the addons table, but both share this shape.
type Item struct {
	ID          int64
	Name        string
	RetailPrice pricing.Money
	// BackerPrice is nil when the item carries no backer discount.
	// Nothing validates BackerPrice <= RetailPrice; the rate card is
	// trusted as entered.
	BackerPrice *pricing.Money
	Weight      int32
	Active      bool
}

// UnitPrice returns the authoritative price for the item. Backer pricing
// applies only when the caller qualifies for the backer tier and the item
// actually has a backer price.
func (it Item) UnitPrice(backerTier bool) pricing.Money {
	if backerTier && it.BackerPrice != nil {
		return *it.BackerPrice
	}
	return it.RetailPrice
}

// Store is the read contract the pricing core needs from the catalog.
// Implementations return ErrItemNotFound when no active row matches.
type Store interface {
	ActivePledge(ctx context.Context, id int64) (Item, error)
	ActiveAddon(ctx context.Context, id int64) (Item, error)
}

// Resolve looks up the catalog row a reference points at. Pledge and addon
// references query exactly one table; ambiguous references try the pledge
// table first and fall back to addons.
func Resolve(ctx context.Context, store Store, ref Ref) (Item, error) {
	switch ref.Kind {
	case RefPledge:
		return store.ActivePledge(ctx, ref.ID)
	case RefAddon:
		return store.ActiveAddon(ctx, ref.ID)
	default:
		item, err := store.ActivePledge(ctx, ref.ID)
		if err == nil {
			return item, nil
		}
		if !errors.Is(err, ErrItemNotFound) {
			return Item{}, err
		}
		return store.ActiveAddon(ctx, ref.ID)
	}
}
