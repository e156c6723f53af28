package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/movie-ticketing/internal/model"
)

// PaymentRepo provides persistence for payments.  Like bookings, payments
// exist only as the COMPLETED root of a successful settlement, so only a
// transactional create is exposed.
type PaymentRepo struct {
	db *sql.DB
}

// NewPaymentRepo returns a new PaymentRepo bound to the given database.
func NewPaymentRepo(db *sql.DB) *PaymentRepo { return &PaymentRepo{db: db} }

// CreateTx inserts a payment within the provided transaction and populates
// the generated ID on the record.  The caller must commit or roll back.
func (r *PaymentRepo) CreateTx(ctx context.Context, tx *sql.Tx, p *model.Payment) error {
	const q = `INSERT INTO payments (user_id, method, amount_cents, status, provider_ref, paid_at)
               VALUES (?, ?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, q,
		p.UserID, p.Method, p.AmountCents, p.Status, p.ProviderRef,
		p.PaidAt.UTC().Format("2006-01-02 15:04:05"),
	)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)
	return nil
}
