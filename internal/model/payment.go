package model

import "time"

// PaymentStatusCompleted is the only payment status.  Validation failures
// abort settlement before a payment row is written, so no pending or
// failed payment ever persists.
const PaymentStatusCompleted = "COMPLETED"

// Payment records one monetary settlement event.  It owns exactly one
// booking.
//
// Fields:
//
//	ID          – primary key identifier.
//	UserID      – paying user.
//	Method      – payment method chosen by the client (free-form label).
//	AmountCents – settled amount in cents, always the sum of ticket prices.
//	Status      – always COMPLETED.
//	ProviderRef – opaque reference handed to downstream gateway consumers.
//	PaidAt      – settlement instant.
//	CreatedAt   – creation timestamp.
type Payment struct {
	ID          uint64    // payments.id
	UserID      uint64    // payments.user_id
	Method      string    // payments.method
	AmountCents uint32    // payments.amount_cents
	Status      string    // payments.status
	ProviderRef string    // payments.provider_ref
	PaidAt      time.Time // payments.paid_at
	CreatedAt   time.Time // payments.created_at
}
