package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/codexoft-ke/alx-travel-app-0x03/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var (
	ErrPaymentNotFound = errors.New("payment not found")

	// ErrStaleStatus is returned when a guarded update loses the race
	// against a concurrent writer. Callers re-read and re-decide.
	ErrStaleStatus = errors.New("payment status changed concurrently")
)

const paymentColumns = `
	id, booking_id, user_id, amount, currency, method, status,
	tx_ref, checkout_url, gateway_tx_id, payment_reference, failure_reason,
	created_at, updated_at, paid_at
`

type PaymentRepository struct {
	db Executor
}

func NewPaymentRepository(db *DB) *PaymentRepository {
	return &PaymentRepository{db: db.Pool}
}

// withExecutor returns a copy of the repository bound to a transaction.
func (r *PaymentRepository) withExecutor(q Executor) *PaymentRepository {
	return &PaymentRepository{db: q}
}

func (r *PaymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	query := `
		INSERT INTO payments (
			id, booking_id, user_id, amount, currency, method, status,
			tx_ref, checkout_url, gateway_tx_id, payment_reference, failure_reason,
			created_at, updated_at, paid_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`

	_, err := r.db.Exec(ctx, query,
		payment.ID,
		payment.BookingID,
		payment.UserID,
		payment.Amount,
		payment.Currency,
		payment.Method,
		payment.Status,
		payment.TxRef,
		payment.CheckoutURL,
		payment.GatewayTxID,
		payment.PaymentReference,
		payment.FailureReason,
		payment.CreatedAt,
		payment.UpdatedAt,
		payment.PaidAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create payment: %w", err)
	}

	return nil
}

// FindByID retrieves a payment
func (r *PaymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE id = $1`

	row := r.db.QueryRow(ctx, query, id)
	return scanPayment(row)
}

// FindByIDForUpdate retrieves a payment with row-level lock. Callers must
// pass a transaction-bound repository for the lock to mean anything.
func (r *PaymentRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE id = $1 FOR UPDATE`

	row := r.db.QueryRow(ctx, query, id)
	return scanPayment(row)
}

// FindByTxRef retrieves a payment by its gateway transaction reference
func (r *PaymentRepository) FindByTxRef(ctx context.Context, txRef string) (*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE tx_ref = $1`

	row := r.db.QueryRow(ctx, query, txRef)
	return scanPayment(row)
}

// FindByBookingID retrieves the payment attached to a booking, if any
func (r *PaymentRepository) FindByBookingID(ctx context.Context, bookingID int64) (*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE booking_id = $1`

	row := r.db.QueryRow(ctx, query, bookingID)
	return scanPayment(row)
}

// FindByUserID retrieves payments made by a user, newest first
func (r *PaymentRepository) FindByUserID(ctx context.Context, userID int64, limit, offset int) ([]*domain.Payment, error) {
	query := `
		SELECT ` + paymentColumns + `
		FROM payments WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("query payments by user_id: %w", err)
	}

	results, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*domain.Payment, error) {
		return scanPaymentRow(row)
	})
	if err != nil {
		return nil, fmt.Errorf("scan payments: %w", err)
	}
	return results, nil
}

// MarkProcessing records a successful gateway initiation. Guarded on the
// payment still being pending so a repeated initiation cannot clobber a
// payment that already moved on.
func (r *PaymentRepository) MarkProcessing(ctx context.Context, payment *domain.Payment) error {
	query := `
		UPDATE payments
		SET status = $1, checkout_url = $2, updated_at = $3
		WHERE id = $4 AND status = $5
	`

	result, err := r.db.Exec(ctx, query,
		domain.PaymentProcessing,
		payment.CheckoutURL,
		payment.UpdatedAt,
		payment.ID,
		domain.PaymentPending,
	)
	if err != nil {
		return fmt.Errorf("failed to mark payment processing: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrStaleStatus
	}

	return nil
}

// ResetForRetry persists a payment returned to pending for another checkout
// attempt. Guarded on the previous status so a settlement that landed in
// the meantime cannot be wiped out.
func (r *PaymentRepository) ResetForRetry(ctx context.Context, payment *domain.Payment, expectedStatus domain.PaymentStatus) error {
	query := `
		UPDATE payments
		SET status = $1, tx_ref = $2,
			checkout_url = NULL, gateway_tx_id = NULL,
			payment_reference = NULL, failure_reason = NULL,
			updated_at = $3
		WHERE id = $4 AND status = $5
	`

	result, err := r.db.Exec(ctx, query,
		payment.Status,
		payment.TxRef,
		payment.UpdatedAt,
		payment.ID,
		expectedStatus,
	)
	if err != nil {
		return fmt.Errorf("failed to reset payment for retry: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrStaleStatus
	}

	return nil
}

// UpdateFromReconciliation persists the outcome of a verification pass.
// The update is guarded on the status observed when the payment was read,
// so a concurrent reconciliation cannot be silently overwritten.
func (r *PaymentRepository) UpdateFromReconciliation(ctx context.Context, payment *domain.Payment, expectedStatus domain.PaymentStatus) error {
	query := `
		UPDATE payments
		SET status = $1,
			gateway_tx_id = $2, payment_reference = $3, failure_reason = $4,
			paid_at = $5, updated_at = $6
		WHERE id = $7 AND status = $8
	`

	result, err := r.db.Exec(ctx, query,
		payment.Status,
		payment.GatewayTxID,
		payment.PaymentReference,
		payment.FailureReason,
		payment.PaidAt,
		payment.UpdatedAt,
		payment.ID,
		expectedStatus,
	)
	if err != nil {
		return fmt.Errorf("failed to update payment from reconciliation: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrStaleStatus
	}

	return nil
}

// scanPayment converts a database row into a domain Payment.
// Returns ErrPaymentNotFound if the row doesn't exist.
func scanPayment(row pgx.Row) (*domain.Payment, error) {
	p, err := scanPaymentRow(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPaymentNotFound
		}
		return nil, fmt.Errorf("failed to scan payment: %w", err)
	}
	return p, nil
}

func scanPaymentRow(row pgx.Row) (*domain.Payment, error) {
	var p domain.Payment
	err := row.Scan(
		&p.ID, &p.BookingID, &p.UserID, &p.Amount, &p.Currency, &p.Method, &p.Status,
		&p.TxRef, &p.CheckoutURL, &p.GatewayTxID, &p.PaymentReference, &p.FailureReason,
		&p.CreatedAt, &p.UpdatedAt, &p.PaidAt,
	)
	return &p, err
}
