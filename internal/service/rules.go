package service

// rules.go holds the pure precondition checks applied by the engines.
// They operate on values already loaded from the database so they can be
// exercised without a DB; the surrounding service methods are responsible
// for loading those values under the right locks.  Check order follows the
// operation contracts: the first violated precondition wins.

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/iliyamo/movie-ticketing/internal/layout"
	"github.com/iliyamo/movie-ticketing/internal/model"
	"github.com/iliyamo/movie-ticketing/internal/repository"
)

// dedupeCodes removes duplicate and blank seat codes while preserving the
// order of first occurrence.
func dedupeCodes(codes []string) []string {
	out := make([]string, 0, len(codes))
	seen := make(map[string]struct{}, len(codes))
	for _, c := range codes {
		if c == "" {
			continue
		}
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}

// dedupeIDs removes duplicate and zero IDs while preserving the order of
// first occurrence.
func dedupeIDs(ids []uint64) []uint64 {
	out := make([]uint64, 0, len(ids))
	seen := make(map[uint64]struct{}, len(ids))
	for _, id := range ids {
		if id == 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// availableSeats returns the layout's seat codes not present in booked,
// preserving layout order.  Together with booked the result partitions the
// full code set.
func availableSeats(l layout.SeatLayout, booked []string) []string {
	bookedSet := make(map[string]struct{}, len(booked))
	for _, c := range booked {
		bookedSet[c] = struct{}{}
	}
	all := l.SeatCodes()
	out := make([]string, 0, len(all)-len(bookedSet))
	for _, c := range all {
		if _, taken := bookedSet[c]; !taken {
			out = append(out, c)
		}
	}
	return out
}

// checkBookable rejects reservations against showings that have already
// started.  The comparison is strict: booking at exactly the start time is
// a past showing.
func checkBookable(startsAt, now time.Time) error {
	if !now.Before(startsAt) {
		return InvalidState("cannot book past showings")
	}
	return nil
}

// checkSeatRequest verifies the requested seat codes against the already
// booked set and the room layout.  Collisions with non-cancelled tickets
// are reported first, then codes outside the layout; both carry the
// offending codes so the caller can retry with different seats.
func checkSeatRequest(l layout.SeatLayout, booked, requested []string) error {
	bookedSet := make(map[string]struct{}, len(booked))
	for _, c := range booked {
		bookedSet[c] = struct{}{}
	}
	var conflicting []string
	for _, c := range requested {
		if _, taken := bookedSet[c]; taken {
			conflicting = append(conflicting, c)
		}
	}
	if len(conflicting) > 0 {
		sort.Strings(conflicting)
		return Conflict(fmt.Sprintf("seats already booked: %d of %d requested", len(conflicting), len(requested)), conflicting...)
	}
	valid := l.CodeSet()
	var invalid []string
	for _, c := range requested {
		if _, ok := valid[c]; !ok {
			invalid = append(invalid, c)
		}
	}
	if len(invalid) > 0 {
		sort.Strings(invalid)
		return InvalidArgument("seat codes not in room layout", invalid...)
	}
	return nil
}

// checkCancellable enforces the cancellation policy on a loaded ticket:
// ownership, not already cancelled, showing not started, and outside the
// pre-showing cutoff window.
func checkCancellable(t *repository.TicketWithSchedule, userID uint64, now time.Time, cutoff time.Duration) error {
	if t.UserID != userID {
		return Forbidden("ticket belongs to another user")
	}
	if t.Status == model.TicketStatusCancelled {
		return InvalidState("ticket already cancelled")
	}
	if !now.Before(t.ScheduleStartsAt) {
		return InvalidState("showing already started")
	}
	if !now.Before(t.ScheduleStartsAt.Add(-cutoff)) {
		return InvalidState("within cancellation cutoff")
	}
	return nil
}

// checkSettleable validates a settlement batch against the loaded tickets
// and computes the amount as the sum of stored ticket prices.  The client
// never supplies an amount.  requested is the deduplicated ID list; found
// is what the locking read returned.  A batch may span multiple schedules;
// timing is validated per ticket against its own schedule.
func checkSettleable(found []repository.TicketWithSchedule, requested []uint64, userID uint64, now time.Time) (uint32, error) {
	byID := make(map[uint64]*repository.TicketWithSchedule, len(found))
	for i := range found {
		byID[found[i].ID] = &found[i]
	}
	var missing []string
	for _, id := range requested {
		if _, ok := byID[id]; !ok {
			missing = append(missing, strconv.FormatUint(id, 10))
		}
	}
	if len(missing) > 0 {
		return 0, NotFound("tickets not found", missing...)
	}
	for _, t := range found {
		if t.UserID != userID {
			return 0, Forbidden("ticket belongs to another user")
		}
	}
	var ineligible []string
	for _, t := range found {
		if t.Status != model.TicketStatusBooked {
			ineligible = append(ineligible, strconv.FormatUint(t.ID, 10))
		}
	}
	if len(ineligible) > 0 {
		return 0, InvalidState("tickets not in BOOKED state", ineligible...)
	}
	for _, t := range found {
		if !now.Before(t.ScheduleStartsAt) {
			return 0, InvalidState("showing already started")
		}
	}
	var amount uint32
	for _, t := range found {
		amount += t.PriceCents
	}
	return amount, nil
}
