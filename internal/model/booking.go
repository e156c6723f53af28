package model

import "time"

// BookingStatusConfirmed is the only booking status.  Bookings are created
// exactly once per successful settlement; failure paths abort before any
// booking row exists, so no partial states are modeled.
const BookingStatusConfirmed = "CONFIRMED"

// Booking groups the tickets settled by one payment transaction.
//
// Fields:
//
//	ID              – primary key identifier.
//	UserID          – user who paid.
//	PaymentID       – owning payment (1:1, payment is the root).
//	TotalPriceCents – sum of settled ticket prices in cents.
//	Status          – always CONFIRMED.
//	CreatedAt       – creation timestamp.
type Booking struct {
	ID              uint64    // bookings.id
	UserID          uint64    // bookings.user_id
	PaymentID       uint64    // bookings.payment_id
	TotalPriceCents uint32    // bookings.total_price_cents
	Status          string    // bookings.status
	CreatedAt       time.Time // bookings.created_at
}
