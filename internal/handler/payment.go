package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-ticketing/internal/service"
)

// PaymentHandler serves payment settlement.
type PaymentHandler struct {
	svc BookingService
}

// NewPaymentHandler constructs a PaymentHandler.  The service must be
// non-nil.
func NewPaymentHandler(svc BookingService) *PaymentHandler {
	if svc == nil {
		panic("nil service passed to NewPaymentHandler")
	}
	return &PaymentHandler{svc: svc}
}

// SettlePayment handles POST /v1/payments.  The body must contain
// "ticket_ids" and "method"; the amount is always computed server-side
// from stored ticket prices.  On success it returns 201 with the payment
// and booking IDs and the settled amount.  Missing tickets return 404
// with their IDs, foreign tickets 403, and tickets that are not BOOKED or
// whose showing started 409 with the ineligible IDs.
func (h *PaymentHandler) SettlePayment(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body struct {
		TicketIDs []uint64 `json:"ticket_ids"`
		Method    string   `json:"method"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	res, err := h.svc.SettlePayment(c.Request().Context(), userID, body.TicketIDs, body.Method)
	if err != nil {
		switch service.KindOf(err) {
		case service.KindNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{
				"error":           err.Error(),
				"missing_tickets": service.DetailsOf(err),
			})
		case service.KindForbidden:
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		case service.KindInvalidState:
			resp := echo.Map{"error": err.Error()}
			if details := service.DetailsOf(err); len(details) > 0 {
				resp["ineligible_tickets"] = details
			}
			return c.JSON(http.StatusConflict, resp)
		case service.KindInvalidArgument:
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to settle payment"})
	}
	return c.JSON(http.StatusCreated, res)
}
