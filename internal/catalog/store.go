package catalog

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/noah-isme/backend-pledge/internal/pricing"
)

// PGStore reads catalog rows from Postgres. It satisfies Store.
type PGStore struct {
	Pool *pgxpool.Pool
}

const pledgeByIDSQL = `
SELECT id, name, retail_price, backer_price, weight, active
FROM products
WHERE id = $1 AND active = TRUE`

const addonByIDSQL = `
SELECT id, name, retail_price, backer_price, weight, active
FROM addons
WHERE id = $1 AND active = TRUE`

// ActivePledge fetches an active pledge tier row by id.
func (s PGStore) ActivePledge(ctx context.Context, id int64) (Item, error) {
	return s.fetch(ctx, pledgeByIDSQL, id)
}

// ActiveAddon fetches an active addon row by id.
func (s PGStore) ActiveAddon(ctx context.Context, id int64) (Item, error) {
	return s.fetch(ctx, addonByIDSQL, id)
}

func (s PGStore) fetch(ctx context.Context, query string, id int64) (Item, error) {
	if s.Pool == nil {
		return Item{}, errors.New("catalog: store not configured")
	}
	var (
		item   Item
		backer *int64
	)
	row := s.Pool.QueryRow(ctx, query, id)
	if err := row.Scan(&item.ID, &item.Name, &item.RetailPrice, &backer, &item.Weight, &item.Active); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Item{}, ErrItemNotFound
		}
		return Item{}, err
	}
	if backer != nil {
		price := pricing.Money(*backer)
		item.BackerPrice = &price
	}
	return item, nil
}
