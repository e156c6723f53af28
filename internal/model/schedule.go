package model

import "time"

// Schedule represents a scheduled showing of a movie in a room over a
// time window.  Once tickets reference a schedule its timing is treated
// as immutable by the booking core; timing checks read it, never alter it.
//
// Fields:
//
//	ID        – primary key identifier.
//	MovieID   – movie being shown.
//	RoomID    – room hosting the showing.
//	StartsAt  – when the showing begins (UTC).
//	EndsAt    – when the showing ends (UTC, after StartsAt).
//	CreatedAt – creation timestamp.
//	UpdatedAt – last update timestamp.
type Schedule struct {
	ID        uint64    // schedules.id
	MovieID   uint64    // schedules.movie_id
	RoomID    uint64    // schedules.room_id
	StartsAt  time.Time // schedules.starts_at
	EndsAt    time.Time // schedules.ends_at
	CreatedAt time.Time // schedules.created_at
	UpdatedAt time.Time // schedules.updated_at
}

// Movie is the catalog record for a film.  The booking core only reads
// the title for event payloads; everything else about movies lives in
// the catalog service.
type Movie struct {
	ID    uint64 // movies.id
	Title string // movies.title
}
