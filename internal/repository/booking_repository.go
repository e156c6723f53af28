package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/movie-ticketing/internal/model"
)

// BookingRepo provides persistence for bookings.  Bookings are created
// exactly once per settlement inside the settlement transaction and never
// updated afterwards, so only a transactional create is exposed.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo returns a new BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

// CreateTx inserts a booking within the provided transaction and populates
// the generated ID on the record.  The caller must commit or roll back.
func (r *BookingRepo) CreateTx(ctx context.Context, tx *sql.Tx, b *model.Booking) error {
	const q = `INSERT INTO bookings (user_id, payment_id, total_price_cents, status) VALUES (?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, q, b.UserID, b.PaymentID, b.TotalPriceCents, b.Status)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)
	return nil
}
