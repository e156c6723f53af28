package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/movie-ticketing/internal/model"
	"github.com/iliyamo/movie-ticketing/internal/queue"
	"github.com/iliyamo/movie-ticketing/internal/repository"
)

// EventPublisher publishes a domain event to the named queue.  Publishing
// happens after the engine's transaction has committed and is best-effort;
// failures are logged, never propagated to the caller.
type EventPublisher interface {
	Publish(ctx context.Context, queueName string, payload interface{}) error
}

// BookingService implements the four engine operations over the ticket,
// booking, payment and schedule repositories.  Each mutating operation
// runs its check-then-write sequence inside one database transaction with
// row locks on the tickets it touches, so two concurrent reservations for
// overlapping seats cannot both commit and a settlement can never observe
// half-flipped tickets.
type BookingService struct {
	db        *sql.DB
	schedules *repository.ScheduleRepo
	tickets   *repository.TicketRepo
	bookings  *repository.BookingRepo
	payments  *repository.PaymentRepo

	seatPriceCents uint32        // flat per-seat rate; a pricing engine is an extension point
	cancelCutoff   time.Duration // pre-showing window during which cancellation is refused

	pub EventPublisher // optional; nil disables event publishing
	log *logrus.Entry
	now func() time.Time // injectable clock, defaults to UTC now
}

// NewBookingService constructs the booking core.  All repositories must be
// non-nil; pub may be nil to disable event publishing.
func NewBookingService(
	db *sql.DB,
	schedules *repository.ScheduleRepo,
	tickets *repository.TicketRepo,
	bookings *repository.BookingRepo,
	payments *repository.PaymentRepo,
	seatPriceCents uint32,
	cancelCutoff time.Duration,
	pub EventPublisher,
	log *logrus.Logger,
) *BookingService {
	if db == nil || schedules == nil || tickets == nil || bookings == nil || payments == nil {
		panic("nil dependency passed to NewBookingService")
	}
	return &BookingService{
		db:             db,
		schedules:      schedules,
		tickets:        tickets,
		bookings:       bookings,
		payments:       payments,
		seatPriceCents: seatPriceCents,
		cancelCutoff:   cancelCutoff,
		pub:            pub,
		log:            log.WithField("component", "booking-service"),
		now:            func() time.Time { return time.Now().UTC() },
	}
}

// SeatAvailability is the result of resolving the addressable seat set of
// a schedule.  Available and Booked partition the layout's full code set.
type SeatAvailability struct {
	ScheduleID uint64   `json:"schedule_id"`
	TotalSeats int      `json:"total_seats"`
	Available  []string `json:"available"`
	Booked     []string `json:"booked"`
}

// AvailabilityFor expands the schedule's room layout into the full ordered
// seat code set and subtracts the codes held by non-cancelled tickets.
// It has no side effects.
func (s *BookingService) AvailabilityFor(ctx context.Context, scheduleID uint64) (*SeatAvailability, error) {
	sched, err := s.schedules.GetWithRoom(ctx, scheduleID)
	if err != nil {
		if errors.Is(err, repository.ErrScheduleNotFound) {
			return nil, NotFound("schedule not found")
		}
		return nil, err
	}
	bookedCodes, err := s.tickets.ActiveSeatCodes(ctx, scheduleID)
	if err != nil {
		return nil, err
	}
	return &SeatAvailability{
		ScheduleID: scheduleID,
		TotalSeats: sched.Room.Layout.TotalSeats(),
		Available:  availableSeats(sched.Room.Layout, bookedCodes),
		Booked:     bookedCodes,
	}, nil
}

// ReservationResult reports a successful reservation.
type ReservationResult struct {
	TicketIDs       []uint64 `json:"ticket_ids"`
	TotalPriceCents uint32   `json:"total_price_cents"`
}

// BookSeats reserves the requested seat codes on a schedule for a user.
// Preconditions, first failure wins with no partial effects: schedule
// exists; showing has not started; none of the codes collides with a
// non-cancelled ticket; every code belongs to the room layout.  The
// collision check and the ticket inserts share one transaction that first
// locks the schedule row, so concurrent reservations for the same showing
// run one at a time: the loser waits, re-reads the winner's committed
// tickets and observes Conflict.  The schedule row lock matters because
// locking only the ticket rows cannot serialize two first bookings of a
// seat that has no row yet.
func (s *BookingService) BookSeats(ctx context.Context, userID, scheduleID uint64, seatCodes []string) (*ReservationResult, error) {
	requested := dedupeCodes(seatCodes)
	if len(requested) == 0 {
		return nil, InvalidArgument("at least one seat code is required")
	}

	sched, err := s.schedules.GetWithRoom(ctx, scheduleID)
	if err != nil {
		if errors.Is(err, repository.ErrScheduleNotFound) {
			return nil, NotFound("schedule not found")
		}
		return nil, err
	}
	now := s.now()
	if err := checkBookable(sched.StartsAt, now); err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if err := s.schedules.LockTx(ctx, tx, scheduleID); err != nil {
		if errors.Is(err, repository.ErrScheduleNotFound) {
			return nil, NotFound("schedule not found")
		}
		return nil, raceError(err)
	}
	booked, err := s.tickets.ActiveSeatCodesForUpdateTx(ctx, tx, scheduleID)
	if err != nil {
		return nil, raceError(err)
	}
	if err := checkSeatRequest(sched.Room.Layout, booked, requested); err != nil {
		return nil, err
	}

	records := make([]*model.Ticket, 0, len(requested))
	for _, code := range requested {
		records = append(records, &model.Ticket{
			UserID:     userID,
			ScheduleID: scheduleID,
			SeatCode:   code,
			PriceCents: s.seatPriceCents,
			Status:     model.TicketStatusBooked,
			BookedAt:   now,
		})
	}
	if err := s.tickets.CreateBulkTx(ctx, tx, records); err != nil {
		return nil, raceError(err)
	}
	if err := tx.Commit(); err != nil {
		return nil, raceError(err)
	}
	committed = true

	ids := make([]uint64, 0, len(records))
	for _, rec := range records {
		ids = append(ids, rec.ID)
	}
	total := s.seatPriceCents * uint32(len(records))

	s.log.WithFields(logrus.Fields{
		"user_id": userID, "schedule_id": scheduleID, "seats": requested,
	}).Info("seats booked")
	s.publish(ctx, queue.TicketsBookedQueue, queue.TicketsBookedEvent{
		TicketIDs:       ids,
		UserID:          userID,
		ScheduleID:      scheduleID,
		MovieTitle:      sched.Movie.Title,
		RoomName:        sched.Room.Name,
		StartsAt:        sched.StartsAt.Format(time.RFC3339),
		SeatCodes:       requested,
		TotalPriceCents: total,
		BookedAt:        now.Format(time.RFC3339),
	})

	return &ReservationResult{TicketIDs: ids, TotalPriceCents: total}, nil
}

// CancelTicket releases a ticket on behalf of its owner.  Checks in order:
// ticket exists; caller owns it; not already cancelled; showing not
// started; outside the cancellation cutoff window.  The freed seat code is
// immediately re-bookable because the uniqueness rule counts only
// non-cancelled tickets.
func (s *BookingService) CancelTicket(ctx context.Context, ticketID, userID uint64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	t, err := s.tickets.GetWithScheduleForUpdateTx(ctx, tx, ticketID)
	if err != nil {
		if errors.Is(err, repository.ErrTicketNotFound) {
			return NotFound("ticket not found")
		}
		return err
	}
	now := s.now()
	if err := checkCancellable(t, userID, now, s.cancelCutoff); err != nil {
		return err
	}
	if err := s.tickets.CancelTx(ctx, tx, ticketID); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true

	s.log.WithFields(logrus.Fields{
		"ticket_id": ticketID, "user_id": userID, "seat_code": t.SeatCode,
	}).Info("ticket cancelled")
	s.publish(ctx, queue.TicketCancelledQueue, queue.TicketCancelledEvent{
		TicketID:    ticketID,
		UserID:      userID,
		ScheduleID:  t.ScheduleID,
		SeatCode:    t.SeatCode,
		CancelledAt: now.Format(time.RFC3339),
	})
	return nil
}

// SettlementResult reports a successful payment settlement.
type SettlementResult struct {
	PaymentID   uint64 `json:"payment_id"`
	BookingID   uint64 `json:"booking_id"`
	AmountCents uint32 `json:"amount_cents"`
	ProviderRef string `json:"provider_ref"`
}

// SettlePayment converts a batch of BOOKED tickets into PAID tickets via
// one payment.  All preconditions are evaluated before any mutation: every
// ID resolves, every ticket is owned by the payer, every ticket is BOOKED,
// and no ticket's showing has started.  The amount is the sum of stored
// ticket prices.  Payment, booking, ticket linkage and status flips commit
// as one transaction; the ticket rows are read under lock so a concurrent
// settlement or cancellation of the same tickets is serialized and the
// loser fails its status precondition instead of double-settling.
func (s *BookingService) SettlePayment(ctx context.Context, userID uint64, ticketIDs []uint64, method string) (*SettlementResult, error) {
	requested := dedupeIDs(ticketIDs)
	if len(requested) == 0 {
		return nil, InvalidArgument("at least one ticket id is required")
	}
	if method == "" {
		return nil, InvalidArgument("payment method is required")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	found, err := s.tickets.GetByIDsWithScheduleForUpdateTx(ctx, tx, requested)
	if err != nil {
		return nil, raceError(err)
	}
	now := s.now()
	amount, err := checkSettleable(found, requested, userID, now)
	if err != nil {
		return nil, err
	}

	payment := &model.Payment{
		UserID:      userID,
		Method:      method,
		AmountCents: amount,
		Status:      model.PaymentStatusCompleted,
		ProviderRef: uuid.NewString(),
		PaidAt:      now,
	}
	if err := s.payments.CreateTx(ctx, tx, payment); err != nil {
		return nil, err
	}
	booking := &model.Booking{
		UserID:          userID,
		PaymentID:       payment.ID,
		TotalPriceCents: amount,
		Status:          model.BookingStatusConfirmed,
	}
	if err := s.bookings.CreateTx(ctx, tx, booking); err != nil {
		return nil, err
	}
	if err := s.tickets.MarkPaidTx(ctx, tx, requested, booking.ID); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, raceError(err)
	}
	committed = true

	s.log.WithFields(logrus.Fields{
		"payment_id": payment.ID, "booking_id": booking.ID,
		"user_id": userID, "amount_cents": amount,
	}).Info("payment settled")
	s.publish(ctx, queue.PaymentSettledQueue, queue.PaymentSettledEvent{
		PaymentID:   payment.ID,
		BookingID:   booking.ID,
		UserID:      userID,
		TicketIDs:   requested,
		Method:      method,
		AmountCents: amount,
		ProviderRef: payment.ProviderRef,
		PaidAt:      now.Format(time.RFC3339),
	})

	return &SettlementResult{
		PaymentID:   payment.ID,
		BookingID:   booking.ID,
		AmountCents: amount,
		ProviderRef: payment.ProviderRef,
	}, nil
}

// ListUserTickets returns all tickets owned by the user with schedule,
// movie and room details, newest first.
func (s *BookingService) ListUserTickets(ctx context.Context, userID uint64) ([]repository.UserTicketDetail, error) {
	return s.tickets.ListByUser(ctx, userID)
}

// raceError translates InnoDB lock contention failures into the Conflict
// the caller expects when it loses a race over the same rows: error 1213
// (deadlock victim, transaction rolled back) and 1205 (lock wait timeout).
// The schedule row lock makes these rare for reservations; this is the
// backstop so a lock failure never surfaces as an internal error.  Any
// other error passes through unchanged.
func raceError(err error) error {
	var me *mysql.MySQLError
	if errors.As(err, &me) && (me.Number == 1213 || me.Number == 1205) {
		return Conflict("concurrent booking in progress, retry the request")
	}
	return err
}

// publish sends an event if a publisher is configured.  Errors are already
// logged inside the publisher and deliberately dropped here: events are an
// after-commit side channel, never part of the atomic unit.
func (s *BookingService) publish(ctx context.Context, queueName string, payload interface{}) {
	if s.pub == nil {
		return
	}
	_ = s.pub.Publish(ctx, queueName, payload)
}
