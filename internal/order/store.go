package order

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound indicates the requested order does not exist.
var ErrNotFound = errors.New("order: not found")

// ErrInvalidTransition is returned when an update would break the payment
// state machine.
var ErrInvalidTransition = errors.New("order: invalid status transition")

// ListFilter narrows admin order listings.
type ListFilter struct {
	PaymentStatus *Status
	Paid          *bool
	Limit         int32
	Offset        int32
}

// Store is the persistence contract for orders.
type Store interface {
	Create(ctx context.Context, o Order) (Order, error)
	ByID(ctx context.Context, id string) (Order, error)
	List(ctx context.Context, filter ListFilter) ([]Order, error)
	// ListChargeable returns every order the autodebit batch may attempt:
	// card_saved, unpaid, with both gateway references present.
	ListChargeable(ctx context.Context) ([]Order, error)
	SaveCard(ctx context.Context, id, customerID, paymentMethodID string) error
	MarkCharged(ctx context.Context, id, transactionID string) error
	MarkChargeFailed(ctx context.Context, id, code, message string) error
}

// PGStore implements Store on Postgres.
type PGStore struct {
	Pool *pgxpool.Pool
}

const orderColumns = `
id::text, user_id, email, country, order_type, user_type,
items_total, shipping_total, total, currency,
payment_status, paid,
gateway_customer_id, gateway_payment_method_id, gateway_transaction_id,
charge_error_code, charge_error_message,
created_at, updated_at`

const createOrderSQL = `
INSERT INTO orders (
  id, user_id, email, country, order_type, user_type,
  items_total, shipping_total, total, currency, payment_status, paid
) VALUES ($1::uuid, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, FALSE)
RETURNING ` + orderColumns

// Create persists a new order row.
func (s PGStore) Create(ctx context.Context, o Order) (Order, error) {
	if s.Pool == nil {
		return Order{}, errors.New("order: store not configured")
	}
	row := s.Pool.QueryRow(ctx, createOrderSQL,
		o.ID, o.UserID, o.Email, o.Country, o.OrderType, o.UserType,
		o.Items, o.Shipping, o.Total, o.Currency, o.PaymentStatus)
	return scanOrder(row)
}

// ByID fetches one order.
func (s PGStore) ByID(ctx context.Context, id string) (Order, error) {
	if s.Pool == nil {
		return Order{}, errors.New("order: store not configured")
	}
	row := s.Pool.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1::uuid`, id)
	o, err := scanOrder(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Order{}, ErrNotFound
	}
	return o, err
}

// List returns orders matching the filter, newest first.
func (s PGStore) List(ctx context.Context, filter ListFilter) ([]Order, error) {
	if s.Pool == nil {
		return nil, errors.New("order: store not configured")
	}
	query := `SELECT ` + orderColumns + ` FROM orders WHERE 1=1`
	args := []any{}
	if filter.PaymentStatus != nil {
		args = append(args, string(*filter.PaymentStatus))
		query += fmt.Sprintf(" AND payment_status = $%d", len(args))
	}
	if filter.Paid != nil {
		args = append(args, *filter.Paid)
		query += fmt.Sprintf(" AND paid = $%d", len(args))
	}
	query += " ORDER BY created_at DESC"
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}
	rows, err := s.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectOrders(rows)
}

const chargeableSQL = `
SELECT ` + orderColumns + `
FROM orders
WHERE payment_status = 'card_saved'
  AND paid = FALSE
  AND COALESCE(gateway_customer_id, '') <> ''
  AND COALESCE(gateway_payment_method_id, '') <> ''
ORDER BY created_at ASC`

// ListChargeable selects the batch's work set. Paid rows are excluded at
// the query so a completed charge is never re-attempted by a later run.
func (s PGStore) ListChargeable(ctx context.Context) ([]Order, error) {
	if s.Pool == nil {
		return nil, errors.New("order: store not configured")
	}
	rows, err := s.Pool.Query(ctx, chargeableSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectOrders(rows)
}

// SaveCard stores the gateway references and moves the order to card_saved.
func (s PGStore) SaveCard(ctx context.Context, id, customerID, paymentMethodID string) error {
	return s.transition(ctx, id, StatusCardSaved, `
UPDATE orders
SET payment_status = 'card_saved',
    gateway_customer_id = $2,
    gateway_payment_method_id = $3,
    updated_at = now()
WHERE id = $1::uuid AND payment_status = 'pending'`, customerID, paymentMethodID)
}

// MarkCharged finalises a successful charge.
func (s PGStore) MarkCharged(ctx context.Context, id, transactionID string) error {
	return s.transition(ctx, id, StatusCharged, `
UPDATE orders
SET payment_status = 'charged',
    paid = TRUE,
    gateway_transaction_id = $2,
    charge_error_code = NULL,
    charge_error_message = NULL,
    updated_at = now()
WHERE id = $1::uuid AND payment_status IN ('pending', 'card_saved', 'charge_failed')`, transactionID)
}

// MarkChargeFailed records a failed attempt with the gateway's diagnosis.
func (s PGStore) MarkChargeFailed(ctx context.Context, id, code, message string) error {
	return s.transition(ctx, id, StatusChargeFailed, `
UPDATE orders
SET payment_status = 'charge_failed',
    charge_error_code = $2,
    charge_error_message = $3,
    updated_at = now()
WHERE id = $1::uuid AND payment_status IN ('pending', 'card_saved', 'charge_failed')`, code, message)
}

func (s PGStore) transition(ctx context.Context, id string, target Status, query string, args ...any) error {
	if s.Pool == nil {
		return errors.New("order: store not configured")
	}
	tag, err := s.Pool.Exec(ctx, query, append([]any{id}, args...)...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		// Either the row is missing or its current status blocks the move.
		if _, err := s.ByID(ctx, id); err != nil {
			return err
		}
		return fmt.Errorf("%w: to %s", ErrInvalidTransition, target)
	}
	return nil
}

func collectOrders(rows pgx.Rows) ([]Order, error) {
	var out []Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func scanOrder(row pgx.Row) (Order, error) {
	var o Order
	err := row.Scan(
		&o.ID, &o.UserID, &o.Email, &o.Country, &o.OrderType, &o.UserType,
		&o.Items, &o.Shipping, &o.Total, &o.Currency,
		&o.PaymentStatus, &o.Paid,
		&o.GatewayCustomerID, &o.GatewayPaymentMethodID, &o.GatewayTransactionID,
		&o.ChargeErrorCode, &o.ChargeErrorMessage,
		&o.CreatedAt, &o.UpdatedAt,
	)
	return o, err
}
