package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/iliyamo/movie-ticketing/internal/model"
)

// TicketWithSchedule pairs a ticket with the start time of its schedule.
// Cancellation and settlement both validate timing against the ticket's
// own schedule, so the two are always loaded together.
type TicketWithSchedule struct {
	model.Ticket
	ScheduleStartsAt time.Time
}

// TicketRepo provides data access to the tickets table.  The table keyed
// by (schedule_id, seat_code) for non-cancelled rows is the only contended
// resource in the system; every mutating method therefore runs inside a
// caller-supplied transaction, and reads that guard a mutation take row
// locks via FOR UPDATE.
type TicketRepo struct {
	db *sql.DB
}

// NewTicketRepo returns a new TicketRepo bound to the given database.
func NewTicketRepo(db *sql.DB) *TicketRepo { return &TicketRepo{db: db} }

// DB exposes the underlying sql.DB for beginning transactions that span
// the ticket, booking and payment repositories.
func (r *TicketRepo) DB() *sql.DB { return r.db }

// ActiveSeatCodes returns the seat codes of all non-cancelled tickets for
// a schedule, ordered for deterministic output.  Used by the availability
// resolver; takes no locks.
func (r *TicketRepo) ActiveSeatCodes(ctx context.Context, scheduleID uint64) ([]string, error) {
	const q = `SELECT seat_code FROM tickets
               WHERE schedule_id = ? AND status <> 'CANCELLED'
               ORDER BY seat_code`
	rows, err := r.db.QueryContext(ctx, q, scheduleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	codes := make([]string, 0)
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return nil, err
		}
		codes = append(codes, code)
	}
	return codes, rows.Err()
}

// ActiveSeatCodesForUpdateTx returns the non-cancelled seat codes for a
// schedule while locking those rows for the duration of the transaction.
// Seats that were never booked have no row to lock, so this read alone
// does not serialize concurrent reservations; callers must take the
// schedule row lock (ScheduleRepo.LockTx) first and rely on this read to
// observe the rows the previous holder committed.
func (r *TicketRepo) ActiveSeatCodesForUpdateTx(ctx context.Context, tx *sql.Tx, scheduleID uint64) ([]string, error) {
	const q = `SELECT seat_code FROM tickets
               WHERE schedule_id = ? AND status <> 'CANCELLED'
               FOR UPDATE`
	rows, err := tx.QueryContext(ctx, q, scheduleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	codes := make([]string, 0)
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return nil, err
		}
		codes = append(codes, code)
	}
	return codes, rows.Err()
}

// CreateBulkTx inserts one BOOKED ticket per record within the provided
// transaction and populates the generated IDs.  Rows are inserted one at a
// time so each record receives its own auto-increment ID; the whole batch
// still commits or rolls back as a unit with the caller's transaction.
func (r *TicketRepo) CreateBulkTx(ctx context.Context, tx *sql.Tx, tickets []*model.Ticket) error {
	const q = `INSERT INTO tickets (user_id, schedule_id, seat_code, price_cents, status, booked_at)
               VALUES (?, ?, ?, ?, ?, ?)`
	for _, t := range tickets {
		res, err := tx.ExecContext(ctx, q,
			t.UserID, t.ScheduleID, t.SeatCode, t.PriceCents, t.Status,
			t.BookedAt.UTC().Format("2006-01-02 15:04:05"),
		)
		if err != nil {
			return err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}
		t.ID = uint64(id)
	}
	return nil
}

// GetWithScheduleForUpdateTx loads a single ticket and its schedule start
// time, locking the ticket row.  Returns ErrTicketNotFound when the ticket
// does not exist.
func (r *TicketRepo) GetWithScheduleForUpdateTx(ctx context.Context, tx *sql.Tx, ticketID uint64) (*TicketWithSchedule, error) {
	const q = `SELECT id, user_id, schedule_id, seat_code, price_cents, status, booking_id, booked_at, updated_at
               FROM tickets WHERE id = ? FOR UPDATE`
	var t TicketWithSchedule
	var bookingID sql.NullInt64
	err := tx.QueryRowContext(ctx, q, ticketID).Scan(
		&t.ID, &t.UserID, &t.ScheduleID, &t.SeatCode, &t.PriceCents,
		&t.Status, &bookingID, &t.BookedAt, &t.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrTicketNotFound
		}
		return nil, err
	}
	if bookingID.Valid {
		bid := uint64(bookingID.Int64)
		t.BookingID = &bid
	}
	const schedQ = `SELECT starts_at FROM schedules WHERE id = ?`
	if err := tx.QueryRowContext(ctx, schedQ, t.ScheduleID).Scan(&t.ScheduleStartsAt); err != nil {
		return nil, err
	}
	t.ScheduleStartsAt = t.ScheduleStartsAt.UTC()
	return &t, nil
}

// GetByIDsWithScheduleForUpdateTx loads the given tickets together with
// their schedule start times, locking every ticket row.  Tickets that do
// not exist are simply absent from the result; the caller identifies the
// missing IDs.  Passing an empty slice returns an empty result.
func (r *TicketRepo) GetByIDsWithScheduleForUpdateTx(ctx context.Context, tx *sql.Tx, ticketIDs []uint64) ([]TicketWithSchedule, error) {
	if len(ticketIDs) == 0 {
		return []TicketWithSchedule{}, nil
	}
	placeholders := make([]string, len(ticketIDs))
	args := make([]interface{}, len(ticketIDs))
	for i, id := range ticketIDs {
		placeholders[i] = "?"
		args[i] = id
	}
	q := `SELECT t.id, t.user_id, t.schedule_id, t.seat_code, t.price_cents, t.status, t.booking_id, t.booked_at, t.updated_at, s.starts_at
          FROM tickets t
          JOIN schedules s ON s.id = t.schedule_id
          WHERE t.id IN (` + strings.Join(placeholders, ",") + `)
          FOR UPDATE`
	rows, err := tx.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]TicketWithSchedule, 0, len(ticketIDs))
	for rows.Next() {
		var t TicketWithSchedule
		var bookingID sql.NullInt64
		if err := rows.Scan(
			&t.ID, &t.UserID, &t.ScheduleID, &t.SeatCode, &t.PriceCents,
			&t.Status, &bookingID, &t.BookedAt, &t.UpdatedAt, &t.ScheduleStartsAt,
		); err != nil {
			return nil, err
		}
		if bookingID.Valid {
			bid := uint64(bookingID.Int64)
			t.BookingID = &bid
		}
		t.ScheduleStartsAt = t.ScheduleStartsAt.UTC()
		out = append(out, t)
	}
	return out, rows.Err()
}

// MarkPaidTx flips the given tickets to PAID and links them to the booking
// that settled them, within the provided transaction.
func (r *TicketRepo) MarkPaidTx(ctx context.Context, tx *sql.Tx, ticketIDs []uint64, bookingID uint64) error {
	if len(ticketIDs) == 0 {
		return nil
	}
	placeholders := make([]string, len(ticketIDs))
	args := make([]interface{}, 0, len(ticketIDs)+1)
	args = append(args, bookingID)
	for i, id := range ticketIDs {
		placeholders[i] = "?"
		args = append(args, id)
	}
	q := `UPDATE tickets SET status = 'PAID', booking_id = ?
          WHERE id IN (` + strings.Join(placeholders, ",") + `)`
	_, err := tx.ExecContext(ctx, q, args...)
	return err
}

// CancelTx flips a single ticket to CANCELLED within the provided
// transaction.  The row is kept so the booking history survives; the
// uniqueness rule ignores cancelled rows, freeing the seat code.
func (r *TicketRepo) CancelTx(ctx context.Context, tx *sql.Tx, ticketID uint64) error {
	const q = `UPDATE tickets SET status = 'CANCELLED' WHERE id = ?`
	_, err := tx.ExecContext(ctx, q, ticketID)
	return err
}

// UserTicketDetail is the read model returned to customers listing their
// own tickets.  It joins in schedule timing and the movie and room names
// so clients need no follow-up catalog calls.
type UserTicketDetail struct {
	ID         uint64  `json:"id"`
	ScheduleID uint64  `json:"schedule_id"`
	SeatCode   string  `json:"seat_code"`
	PriceCents uint32  `json:"price_cents"`
	Status     string  `json:"status"`
	BookingID  *uint64 `json:"booking_id,omitempty"`
	MovieTitle string  `json:"movie_title"`
	RoomName   string  `json:"room_name"`
	StartsAt   string  `json:"starts_at"`
	EndsAt     string  `json:"ends_at"`
	BookedAt   string  `json:"booked_at"`
}

// ListByUser returns all tickets owned by the given user with schedule,
// movie and room details, newest first.  When the user has no tickets an
// empty slice is returned.
func (r *TicketRepo) ListByUser(ctx context.Context, userID uint64) ([]UserTicketDetail, error) {
	const q = `SELECT t.id, t.schedule_id, t.seat_code, t.price_cents, t.status, t.booking_id, t.booked_at,
                      m.title, ro.name, s.starts_at, s.ends_at
               FROM tickets t
               JOIN schedules s ON s.id = t.schedule_id
               JOIN rooms ro ON ro.id = s.room_id
               JOIN movies m ON m.id = s.movie_id
               WHERE t.user_id = ?
               ORDER BY t.booked_at DESC, t.id DESC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	details := make([]UserTicketDetail, 0)
	for rows.Next() {
		var d UserTicketDetail
		var bookingID sql.NullInt64
		var bookedAt, startsAt, endsAt time.Time
		if err := rows.Scan(
			&d.ID, &d.ScheduleID, &d.SeatCode, &d.PriceCents, &d.Status, &bookingID, &bookedAt,
			&d.MovieTitle, &d.RoomName, &startsAt, &endsAt,
		); err != nil {
			return nil, err
		}
		if bookingID.Valid {
			bid := uint64(bookingID.Int64)
			d.BookingID = &bid
		}
		d.BookedAt = bookedAt.UTC().Format(time.RFC3339)
		d.StartsAt = startsAt.UTC().Format(time.RFC3339)
		d.EndsAt = endsAt.UTC().Format(time.RFC3339)
		details = append(details, d)
	}
	return details, rows.Err()
}
