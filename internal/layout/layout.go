// Package layout defines the seat layout value object for rooms.  A layout
// declares the grid of addressable seats: an ordered list of row labels and
// a fixed number of seats per row.  Seat codes are formed as row label plus
// seat number, e.g. "A1".  Rooms without a configured layout fall back to a
// deterministic default of 5 rows (A–E) with 10 seats each.
package layout

import (
	"encoding/json"
	"fmt"
	"strings"
)

// SeatLayout describes the addressable seat grid of a room.  Rows are
// ordered; seat numbers within a row run from 1 to SeatsPerRow.
type SeatLayout struct {
	Rows        []string `json:"rows"`          // ordered row labels, e.g. ["A","B","C"]
	SeatsPerRow int      `json:"seats_per_row"` // seats in every row, numbered from 1
}

// Default returns the fallback layout applied when a room has no layout
// configured: rows A through E with 10 seats per row.
func Default() SeatLayout {
	return SeatLayout{
		Rows:        []string{"A", "B", "C", "D", "E"},
		SeatsPerRow: 10,
	}
}

// Validate checks that the layout describes a non-empty grid with unique,
// non-blank row labels.  It is intended to run when a room is created or
// updated so that malformed layouts never reach the booking path.
func (l SeatLayout) Validate() error {
	if len(l.Rows) == 0 {
		return fmt.Errorf("layout: at least one row is required")
	}
	if l.SeatsPerRow < 1 {
		return fmt.Errorf("layout: seats_per_row must be positive, got %d", l.SeatsPerRow)
	}
	seen := make(map[string]struct{}, len(l.Rows))
	for _, row := range l.Rows {
		trimmed := strings.TrimSpace(row)
		if trimmed == "" {
			return fmt.Errorf("layout: blank row label")
		}
		if trimmed != row {
			return fmt.Errorf("layout: row label %q has surrounding whitespace", row)
		}
		if _, dup := seen[row]; dup {
			return fmt.Errorf("layout: duplicate row label %q", row)
		}
		seen[row] = struct{}{}
	}
	return nil
}

// TotalSeats returns the number of addressable seats in the layout.
func (l SeatLayout) TotalSeats() int {
	return len(l.Rows) * l.SeatsPerRow
}

// SeatCodes expands the layout into the full ordered set of valid seat
// codes, row-major with ascending seat numbers: A1, A2, ..., B1, B2, ...
func (l SeatLayout) SeatCodes() []string {
	codes := make([]string, 0, l.TotalSeats())
	for _, row := range l.Rows {
		for n := 1; n <= l.SeatsPerRow; n++ {
			codes = append(codes, fmt.Sprintf("%s%d", row, n))
		}
	}
	return codes
}

// CodeSet returns the valid seat codes as a set for membership checks.
func (l SeatLayout) CodeSet() map[string]struct{} {
	set := make(map[string]struct{}, l.TotalSeats())
	for _, code := range l.SeatCodes() {
		set[code] = struct{}{}
	}
	return set
}

// Parse decodes a JSON layout blob as stored in the rooms table.  An empty
// blob, invalid JSON or a layout failing validation all yield the default
// layout: the booking path degrades to a known grid rather than erroring on
// data that should have been rejected at room creation.
func Parse(raw []byte) SeatLayout {
	if len(raw) == 0 {
		return Default()
	}
	var l SeatLayout
	if err := json.Unmarshal(raw, &l); err != nil {
		return Default()
	}
	if err := l.Validate(); err != nil {
		return Default()
	}
	return l
}
