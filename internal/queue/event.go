// Package queue defines message payloads exchanged over the message broker
// and the plumbing that publishes and consumes them.
package queue

// Queue names.  One durable queue per event type; routing key equals the
// queue name on the default exchange.
const (
	TicketsBookedQueue   = "ticket.booked"
	TicketCancelledQueue = "ticket.cancelled"
	PaymentSettledQueue  = "payment.settled"
)

// TicketsBookedEvent is published after a reservation commits.  It carries
// enough information for downstream consumers to notify or run analytics
// without querying the primary database.
type TicketsBookedEvent struct {
	TicketIDs       []uint64 `json:"ticket_ids"`
	UserID          uint64   `json:"user_id"`
	ScheduleID      uint64   `json:"schedule_id"`
	MovieTitle      string   `json:"movie_title"`
	RoomName        string   `json:"room_name"`
	StartsAt        string   `json:"starts_at"`
	SeatCodes       []string `json:"seat_codes"`
	TotalPriceCents uint32   `json:"total_price_cents"`
	BookedAt        string   `json:"booked_at"`
}

// TicketCancelledEvent is published after a cancellation commits.  The
// freed seat code is included so consumers tracking occupancy can release
// it without a lookup.
type TicketCancelledEvent struct {
	TicketID    uint64 `json:"ticket_id"`
	UserID      uint64 `json:"user_id"`
	ScheduleID  uint64 `json:"schedule_id"`
	SeatCode    string `json:"seat_code"`
	CancelledAt string `json:"cancelled_at"`
}

// PaymentSettledEvent is published after a settlement commits.
type PaymentSettledEvent struct {
	PaymentID   uint64   `json:"payment_id"`
	BookingID   uint64   `json:"booking_id"`
	UserID      uint64   `json:"user_id"`
	TicketIDs   []uint64 `json:"ticket_ids"`
	Method      string   `json:"method"`
	AmountCents uint32   `json:"amount_cents"`
	ProviderRef string   `json:"provider_ref"`
	PaidAt      string   `json:"paid_at"`
}
