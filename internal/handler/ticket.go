package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-ticketing/internal/service"
)

// TicketHandler serves seat availability, reservation, cancellation and
// the caller's ticket list.  JWT authentication and role validation happen
// in middleware; handlers may still return 401 when no identity reached
// the context.
type TicketHandler struct {
	svc BookingService
}

// NewTicketHandler constructs a TicketHandler.  The service must be
// non-nil.
func NewTicketHandler(svc BookingService) *TicketHandler {
	if svc == nil {
		panic("nil service passed to NewTicketHandler")
	}
	return &TicketHandler{svc: svc}
}

// GetAvailability handles GET /v1/schedules/:id/seats.  It returns the
// full seat map of the schedule's room split into available and booked
// codes.  Public: guests can inspect availability before authenticating.
func (h *TicketHandler) GetAvailability(c echo.Context) error {
	scheduleID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid schedule id"})
	}
	avail, err := h.svc.AvailabilityFor(c.Request().Context(), scheduleID)
	if err != nil {
		if service.KindOf(err) == service.KindNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "schedule not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to resolve availability"})
	}
	return c.JSON(http.StatusOK, avail)
}

// ReserveSeats handles POST /v1/schedules/:id/tickets.  The body must
// contain a "seat_codes" array.  On success it returns 201 with the new
// ticket IDs and the total price.  Seat collisions return 409 with the
// conflicting codes; codes outside the room layout return 400 with the
// invalid codes.
func (h *TicketHandler) ReserveSeats(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	scheduleID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid schedule id"})
	}
	var body struct {
		SeatCodes []string `json:"seat_codes"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	res, err := h.svc.BookSeats(c.Request().Context(), userID, scheduleID, body.SeatCodes)
	if err != nil {
		switch service.KindOf(err) {
		case service.KindNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
		case service.KindInvalidState:
			return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
		case service.KindConflict:
			return c.JSON(http.StatusConflict, echo.Map{
				"error":             err.Error(),
				"conflicting_seats": service.DetailsOf(err),
			})
		case service.KindInvalidArgument:
			resp := echo.Map{"error": err.Error()}
			if details := service.DetailsOf(err); len(details) > 0 {
				resp["invalid_seats"] = details
			}
			return c.JSON(http.StatusBadRequest, resp)
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to reserve seats"})
	}
	return c.JSON(http.StatusCreated, res)
}

// CancelTicket handles DELETE /v1/tickets/:id.  It releases a ticket
// belonging to the caller when the showing has not started and the
// cancellation cutoff has not been reached.  Returns 200 with the ticket
// ID on success.
func (h *TicketHandler) CancelTicket(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ticketID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid ticket id"})
	}

	if err := h.svc.CancelTicket(c.Request().Context(), ticketID, userID); err != nil {
		switch service.KindOf(err) {
		case service.KindNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "ticket not found"})
		case service.KindForbidden:
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		case service.KindInvalidState:
			return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to cancel ticket"})
	}
	return c.JSON(http.StatusOK, echo.Map{"ticket_id": ticketID})
}

// ListMyTickets handles GET /v1/my-tickets.  It returns all tickets owned
// by the caller with schedule, movie and room details, newest first.
func (h *TicketHandler) ListMyTickets(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	items, err := h.svc.ListUserTickets(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load tickets"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}
