package model

import "time"

// Ticket status lifecycle.  A ticket is created BOOKED, moves to PAID when
// a payment settles it, or to CANCELLED when released.  Cancellation keeps
// the row; the seat uniqueness rule only counts non-cancelled tickets, so
// a cancelled seat code is immediately re-bookable.
const (
	TicketStatusBooked    = "BOOKED"
	TicketStatusPaid      = "PAID"
	TicketStatusCancelled = "CANCELLED"
)

// Ticket is the unit of ownership over one seat for one schedule.  For a
// given schedule at most one ticket with status other than CANCELLED may
// hold a given seat code.
//
// Fields:
//
//	ID         – primary key identifier.
//	UserID     – owner of the ticket.
//	ScheduleID – schedule the seat is booked for.
//	SeatCode   – seat code such as "A1".
//	PriceCents – price of the seat in cents.
//	Status     – BOOKED, PAID or CANCELLED.
//	BookingID  – booking that settled the ticket (nil until paid).
//	BookedAt   – when the ticket was created.
//	UpdatedAt  – last status change.
type Ticket struct {
	ID         uint64    // tickets.id
	UserID     uint64    // tickets.user_id
	ScheduleID uint64    // tickets.schedule_id
	SeatCode   string    // tickets.seat_code
	PriceCents uint32    // tickets.price_cents
	Status     string    // tickets.status
	BookingID  *uint64   // tickets.booking_id (nullable)
	BookedAt   time.Time // tickets.booked_at
	UpdatedAt  time.Time // tickets.updated_at
}
