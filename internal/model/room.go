package model

import (
	"time"

	"github.com/iliyamo/movie-ticketing/internal/layout"
)

// Room represents a screening room.  The seat layout defines the universe
// of valid seat codes for every schedule held in the room.  Layouts are
// stored as a JSON blob in the rooms table and decoded into the typed
// layout.SeatLayout value; rooms without a usable layout get the default
// 5×10 grid.
//
// Fields:
//
//	ID        – primary key identifier.
//	Name      – room name.
//	Layout    – typed seat layout (decoded, never nil-equivalent).
//	CreatedAt – creation timestamp.
//	UpdatedAt – last update timestamp.
type Room struct {
	ID        uint64            // rooms.id
	Name      string            // rooms.name
	Layout    layout.SeatLayout // rooms.seat_layout (JSON, decoded)
	CreatedAt time.Time         // rooms.created_at
	UpdatedAt time.Time         // rooms.updated_at
}
