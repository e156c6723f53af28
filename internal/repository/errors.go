package repository

// Sentinel errors shared across repositories.  Single-row lookups report
// absence with these rather than leaking sql.ErrNoRows upward; the service
// layer translates them into its own error taxonomy.

import "errors"

// ErrScheduleNotFound indicates that a schedule was not located in the DB.
var ErrScheduleNotFound = errors.New("schedule not found")

// ErrTicketNotFound indicates that a ticket was not located in the DB.
var ErrTicketNotFound = errors.New("ticket not found")
