package account

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/noah-isme/backend-pledge/internal/pricing"
)

// ErrNotFound indicates the requested account does not exist.
var ErrNotFound = errors.New("account: not found")

// Store is the read contract checkout needs for backer lookups.
type Store interface {
	ByID(ctx context.Context, id int64) (Account, error)
}

// PGStore reads accounts from Postgres.
type PGStore struct {
	Pool *pgxpool.Pool
}

const accountByIDSQL = `
SELECT id, email, name, backer_number, pledge_amount, reward_title,
       COALESCE(pledged_status, ''), COALESCE(is_late_pledge, FALSE), COALESCE(country, '')
FROM users
WHERE id = $1`

// ByID fetches one account row.
func (s PGStore) ByID(ctx context.Context, id int64) (Account, error) {
	if s.Pool == nil {
		return Account{}, errors.New("account: store not configured")
	}
	var (
		a      Account
		amount *int64
	)
	row := s.Pool.QueryRow(ctx, accountByIDSQL, id)
	err := row.Scan(&a.ID, &a.Email, &a.Name, &a.BackerNumber, &amount,
		&a.RewardTitle, &a.PledgedStatus, &a.LatePledge, &a.Country)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Account{}, ErrNotFound
		}
		return Account{}, err
	}
	if amount != nil {
		pledge := pricing.Money(*amount)
		a.PledgeAmount = &pledge
	}
	return a, nil
}
