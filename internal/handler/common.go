// Package handler defines the HTTP handlers of the ticketing API.  The
// handlers are thin: they parse identity and parameters, delegate to the
// booking core and translate its error taxonomy into HTTP responses.
package handler

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-ticketing/internal/repository"
	"github.com/iliyamo/movie-ticketing/internal/service"
)

// BookingService is the surface of the booking core consumed by the
// handlers.  *service.BookingService implements it; tests substitute a
// stub.
type BookingService interface {
	AvailabilityFor(ctx context.Context, scheduleID uint64) (*service.SeatAvailability, error)
	BookSeats(ctx context.Context, userID, scheduleID uint64, seatCodes []string) (*service.ReservationResult, error)
	CancelTicket(ctx context.Context, ticketID, userID uint64) error
	SettlePayment(ctx context.Context, userID uint64, ticketIDs []uint64, method string) (*service.SettlementResult, error)
	ListUserTickets(ctx context.Context, userID uint64) ([]repository.UserTicketDetail, error)
}

// getUserID extracts the user_id stored by the JWT middleware and converts
// it to uint64.  The claim arrives as whatever type the token encoder
// used, so several representations are accepted.
func getUserID(c echo.Context) (uint64, error) {
	v := c.Get("user_id")
	switch t := v.(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(strings.TrimSpace(t), 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("no user id in context")
}

// pathID parses a positive numeric path parameter.
func pathID(c echo.Context, name string) (uint64, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, errors.New("invalid id")
	}
	return id, nil
}
