package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/movie-ticketing/internal/layout"
	"github.com/iliyamo/movie-ticketing/internal/model"
	"github.com/iliyamo/movie-ticketing/internal/repository"
)

var testLayout = layout.SeatLayout{Rows: []string{"A", "B", "C"}, SeatsPerRow: 5}

func TestDedupeCodes(t *testing.T) {
	assert.Equal(t, []string{"A1", "A2", "B1"}, dedupeCodes([]string{"A1", "A2", "A1", "", "B1", "A2"}))
	assert.Empty(t, dedupeCodes([]string{"", ""}))
}

func TestDedupeIDs(t *testing.T) {
	assert.Equal(t, []uint64{3, 1, 2}, dedupeIDs([]uint64{3, 1, 3, 0, 2, 1}))
	assert.Empty(t, dedupeIDs([]uint64{0}))
}

func TestAvailableSeatsPartitionsLayout(t *testing.T) {
	booked := []string{"A2", "C5"}
	available := availableSeats(testLayout, booked)

	assert.Len(t, available, testLayout.TotalSeats()-len(booked))
	// union of available and booked is the full layout, and they are disjoint
	seen := make(map[string]struct{})
	for _, c := range available {
		seen[c] = struct{}{}
	}
	for _, c := range booked {
		_, dup := seen[c]
		assert.False(t, dup, "seat %s both available and booked", c)
		seen[c] = struct{}{}
	}
	assert.Len(t, seen, testLayout.TotalSeats())
	// layout order is preserved
	assert.Equal(t, "A1", available[0])
	assert.Equal(t, "A3", available[1])
}

func TestCheckBookable(t *testing.T) {
	start := time.Date(2026, 3, 1, 18, 0, 0, 0, time.UTC)
	assert.NoError(t, checkBookable(start, start.Add(-time.Minute)))

	err := checkBookable(start, start)
	require.Error(t, err)
	assert.Equal(t, KindInvalidState, KindOf(err))

	assert.Error(t, checkBookable(start, start.Add(time.Hour)))
}

func TestCheckSeatRequest(t *testing.T) {
	t.Run("all free and valid", func(t *testing.T) {
		assert.NoError(t, checkSeatRequest(testLayout, []string{"B1"}, []string{"A1", "A2"}))
	})

	t.Run("conflict reports colliding seats", func(t *testing.T) {
		err := checkSeatRequest(testLayout, []string{"A1", "B3"}, []string{"A1", "A2", "B3"})
		require.Error(t, err)
		assert.Equal(t, KindConflict, KindOf(err))
		assert.Equal(t, []string{"A1", "B3"}, DetailsOf(err))
	})

	t.Run("conflict wins over invalid code", func(t *testing.T) {
		// Z9 is outside the layout, but the A1 collision is reported first.
		err := checkSeatRequest(testLayout, []string{"A1"}, []string{"A1", "Z9"})
		require.Error(t, err)
		assert.Equal(t, KindConflict, KindOf(err))
		assert.Equal(t, []string{"A1"}, DetailsOf(err))
	})

	t.Run("invalid codes reported", func(t *testing.T) {
		err := checkSeatRequest(testLayout, nil, []string{"A1", "Z9", "A6"})
		require.Error(t, err)
		assert.Equal(t, KindInvalidArgument, KindOf(err))
		assert.Equal(t, []string{"A6", "Z9"}, DetailsOf(err))
	})

	t.Run("cancelled seats do not count as booked", func(t *testing.T) {
		// the caller only passes non-cancelled seat codes; a freed seat is
		// simply absent from booked
		assert.NoError(t, checkSeatRequest(testLayout, nil, []string{"B3"}))
	})
}

func cancellableTicket(start time.Time) *repository.TicketWithSchedule {
	return &repository.TicketWithSchedule{
		Ticket: model.Ticket{
			ID:         11,
			UserID:     7,
			ScheduleID: 3,
			SeatCode:   "B3",
			Status:     model.TicketStatusBooked,
		},
		ScheduleStartsAt: start,
	}
}

func TestCheckCancellable(t *testing.T) {
	cutoff := 2 * time.Hour
	start := time.Date(2026, 3, 1, 20, 0, 0, 0, time.UTC)

	t.Run("ok well before cutoff", func(t *testing.T) {
		assert.NoError(t, checkCancellable(cancellableTicket(start), 7, start.Add(-24*time.Hour), cutoff))
	})

	t.Run("one second before cutoff succeeds", func(t *testing.T) {
		now := start.Add(-cutoff).Add(-time.Second)
		assert.NoError(t, checkCancellable(cancellableTicket(start), 7, now, cutoff))
	})

	t.Run("one second after cutoff fails", func(t *testing.T) {
		now := start.Add(-cutoff).Add(time.Second)
		err := checkCancellable(cancellableTicket(start), 7, now, cutoff)
		require.Error(t, err)
		assert.Equal(t, KindInvalidState, KindOf(err))
		assert.Contains(t, err.Error(), "cutoff")
	})

	t.Run("foreign user forbidden", func(t *testing.T) {
		err := checkCancellable(cancellableTicket(start), 9, start.Add(-24*time.Hour), cutoff)
		require.Error(t, err)
		assert.Equal(t, KindForbidden, KindOf(err))
	})

	t.Run("already cancelled", func(t *testing.T) {
		tk := cancellableTicket(start)
		tk.Status = model.TicketStatusCancelled
		err := checkCancellable(tk, 7, start.Add(-24*time.Hour), cutoff)
		require.Error(t, err)
		assert.Equal(t, KindInvalidState, KindOf(err))
		assert.Contains(t, err.Error(), "already cancelled")
	})

	t.Run("showing already started", func(t *testing.T) {
		err := checkCancellable(cancellableTicket(start), 7, start.Add(time.Minute), cutoff)
		require.Error(t, err)
		assert.Equal(t, KindInvalidState, KindOf(err))
		assert.Contains(t, err.Error(), "started")
	})

	t.Run("ownership checked before status", func(t *testing.T) {
		tk := cancellableTicket(start)
		tk.Status = model.TicketStatusCancelled
		err := checkCancellable(tk, 9, start.Add(-24*time.Hour), cutoff)
		assert.Equal(t, KindForbidden, KindOf(err))
	})
}

func settleableTicket(id, userID uint64, price uint32, status string, start time.Time) repository.TicketWithSchedule {
	return repository.TicketWithSchedule{
		Ticket: model.Ticket{
			ID:         id,
			UserID:     userID,
			ScheduleID: 3,
			PriceCents: price,
			Status:     status,
		},
		ScheduleStartsAt: start,
	}
}

func TestCheckSettleable(t *testing.T) {
	start := time.Date(2026, 3, 1, 20, 0, 0, 0, time.UTC)
	now := start.Add(-time.Hour)

	t.Run("amount is sum of stored prices", func(t *testing.T) {
		found := []repository.TicketWithSchedule{
			settleableTicket(1, 7, 100000, model.TicketStatusBooked, start),
			settleableTicket(2, 7, 100000, model.TicketStatusBooked, start),
			settleableTicket(3, 7, 150000, model.TicketStatusBooked, start),
		}
		amount, err := checkSettleable(found, []uint64{1, 2, 3}, 7, now)
		require.NoError(t, err)
		assert.Equal(t, uint32(350000), amount)
	})

	t.Run("missing tickets reported by id", func(t *testing.T) {
		found := []repository.TicketWithSchedule{
			settleableTicket(1, 7, 100000, model.TicketStatusBooked, start),
		}
		_, err := checkSettleable(found, []uint64{1, 2, 5}, 7, now)
		require.Error(t, err)
		assert.Equal(t, KindNotFound, KindOf(err))
		assert.Equal(t, []string{"2", "5"}, DetailsOf(err))
	})

	t.Run("foreign ticket forbidden", func(t *testing.T) {
		found := []repository.TicketWithSchedule{
			settleableTicket(1, 7, 100000, model.TicketStatusBooked, start),
			settleableTicket(2, 9, 100000, model.TicketStatusBooked, start),
		}
		_, err := checkSettleable(found, []uint64{1, 2}, 7, now)
		require.Error(t, err)
		assert.Equal(t, KindForbidden, KindOf(err))
	})

	t.Run("non-booked tickets listed", func(t *testing.T) {
		found := []repository.TicketWithSchedule{
			settleableTicket(1, 7, 100000, model.TicketStatusBooked, start),
			settleableTicket(2, 7, 100000, model.TicketStatusPaid, start),
			settleableTicket(3, 7, 100000, model.TicketStatusCancelled, start),
		}
		_, err := checkSettleable(found, []uint64{1, 2, 3}, 7, now)
		require.Error(t, err)
		assert.Equal(t, KindInvalidState, KindOf(err))
		assert.ElementsMatch(t, []string{"2", "3"}, DetailsOf(err))
	})

	t.Run("started showing rejects the whole batch", func(t *testing.T) {
		// batches may span schedules; one started schedule fails everything
		found := []repository.TicketWithSchedule{
			settleableTicket(1, 7, 100000, model.TicketStatusBooked, start),
			settleableTicket(2, 7, 100000, model.TicketStatusBooked, now.Add(-time.Minute)),
		}
		_, err := checkSettleable(found, []uint64{1, 2}, 7, now)
		require.Error(t, err)
		assert.Equal(t, KindInvalidState, KindOf(err))
		assert.Contains(t, err.Error(), "started")
	})

	t.Run("ownership checked before status", func(t *testing.T) {
		found := []repository.TicketWithSchedule{
			settleableTicket(1, 9, 100000, model.TicketStatusPaid, start),
		}
		_, err := checkSettleable(found, []uint64{1}, 7, now)
		assert.Equal(t, KindForbidden, KindOf(err))
	})
}
