// Package repository contains data access logic for the catalog and
// ticketing tables.  This file covers schedules: read-only lookups joining
// the schedule to its room (with seat layout) and movie.  The booking core
// never mutates catalog rows, but reservation transactions lock the
// schedule row to serialize themselves per showing.
package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/movie-ticketing/internal/layout"
	"github.com/iliyamo/movie-ticketing/internal/model"
)

// ScheduleDetail carries everything the booking engines need to know about
// a showing: the schedule's time window plus the room (with its decoded
// seat layout) and the movie.  Timestamps are UTC; the DB stores them as
// "2006-01-02 15:04:05".
type ScheduleDetail struct {
	model.Schedule
	Movie model.Movie
	Room  model.Room
}

// ScheduleRepo provides read-only access to schedules, rooms and movies.
type ScheduleRepo struct {
	db *sql.DB
}

// NewScheduleRepo constructs a ScheduleRepo with the given DB handle.
func NewScheduleRepo(db *sql.DB) *ScheduleRepo { return &ScheduleRepo{db: db} }

// DB exposes the underlying sql.DB.  It allows callers to begin
// transactions spanning multiple repositories.
func (r *ScheduleRepo) DB() *sql.DB { return r.db }

const scheduleDetailQuery = `SELECT s.id, s.movie_id, m.title, ro.id, ro.name, ro.seat_layout, s.starts_at, s.ends_at
    FROM schedules s
    JOIN rooms ro ON ro.id = s.room_id
    JOIN movies m ON m.id = s.movie_id
    WHERE s.id = ?`

// GetWithRoom loads a schedule together with its room layout and movie
// title.  It returns ErrScheduleNotFound when no schedule with the given
// ID exists.
func (r *ScheduleRepo) GetWithRoom(ctx context.Context, scheduleID uint64) (*ScheduleDetail, error) {
	return scanScheduleDetail(r.db.QueryRowContext(ctx, scheduleDetailQuery, scheduleID))
}

// GetWithRoomTx behaves like GetWithRoom but runs inside the provided
// transaction so the read participates in the caller's atomic unit.
func (r *ScheduleRepo) GetWithRoomTx(ctx context.Context, tx *sql.Tx, scheduleID uint64) (*ScheduleDetail, error) {
	return scanScheduleDetail(tx.QueryRowContext(ctx, scheduleDetailQuery, scheduleID))
}

// LockTx takes an exclusive row lock on the schedule for the duration of
// the transaction.  The schedule row always exists, unlike the ticket rows
// of a fresh showing, so locking it first serializes concurrent
// reservations per schedule: the loser blocks here until the winner
// commits, then observes the winner's rows.  Returns ErrScheduleNotFound
// when the schedule is absent.
func (r *ScheduleRepo) LockTx(ctx context.Context, tx *sql.Tx, scheduleID uint64) error {
	const q = `SELECT id FROM schedules WHERE id = ? FOR UPDATE`
	var id uint64
	if err := tx.QueryRowContext(ctx, q, scheduleID).Scan(&id); err != nil {
		if err == sql.ErrNoRows {
			return ErrScheduleNotFound
		}
		return err
	}
	return nil
}

// scanScheduleDetail scans one schedule row.  starts_at/ends_at arrive as
// time.Time thanks to parseTime=true on the DSN; the seat layout blob is
// decoded through layout.Parse which applies the default grid when the
// column is NULL, empty or malformed.
func scanScheduleDetail(row *sql.Row) (*ScheduleDetail, error) {
	var det ScheduleDetail
	var rawLayout []byte
	err := row.Scan(
		&det.ID, &det.MovieID, &det.Movie.Title,
		&det.Room.ID, &det.Room.Name, &rawLayout,
		&det.StartsAt, &det.EndsAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrScheduleNotFound
		}
		return nil, err
	}
	det.Movie.ID = det.MovieID
	det.RoomID = det.Room.ID
	det.Room.Layout = layout.Parse(rawLayout)
	det.StartsAt = det.StartsAt.UTC()
	det.EndsAt = det.EndsAt.UTC()
	return &det, nil
}
