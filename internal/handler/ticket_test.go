package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/movie-ticketing/internal/repository"
	"github.com/iliyamo/movie-ticketing/internal/service"
)

// stubService is a scriptable BookingService for handler tests.
type stubService struct {
	availability    *service.SeatAvailability
	availabilityErr error

	bookResult *service.ReservationResult
	bookErr    error

	cancelErr error

	settleResult *service.SettlementResult
	settleErr    error

	tickets []repository.UserTicketDetail
	listErr error

	gotUserID     uint64
	gotScheduleID uint64
	gotTicketID   uint64
	gotSeatCodes  []string
	gotTicketIDs  []uint64
	gotMethod     string
}

func (s *stubService) AvailabilityFor(ctx context.Context, scheduleID uint64) (*service.SeatAvailability, error) {
	s.gotScheduleID = scheduleID
	return s.availability, s.availabilityErr
}

func (s *stubService) BookSeats(ctx context.Context, userID, scheduleID uint64, seatCodes []string) (*service.ReservationResult, error) {
	s.gotUserID, s.gotScheduleID, s.gotSeatCodes = userID, scheduleID, seatCodes
	return s.bookResult, s.bookErr
}

func (s *stubService) CancelTicket(ctx context.Context, ticketID, userID uint64) error {
	s.gotTicketID, s.gotUserID = ticketID, userID
	return s.cancelErr
}

func (s *stubService) SettlePayment(ctx context.Context, userID uint64, ticketIDs []uint64, method string) (*service.SettlementResult, error) {
	s.gotUserID, s.gotTicketIDs, s.gotMethod = userID, ticketIDs, method
	return s.settleResult, s.settleErr
}

func (s *stubService) ListUserTickets(ctx context.Context, userID uint64) ([]repository.UserTicketDetail, error) {
	s.gotUserID = userID
	return s.tickets, s.listErr
}

func newTestContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var m map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &m))
	return m
}

func TestGetAvailability(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		svc := &stubService{availability: &service.SeatAvailability{
			ScheduleID: 3,
			TotalSeats: 4,
			Available:  []string{"A1", "A2", "B2"},
			Booked:     []string{"B1"},
		}}
		h := NewTicketHandler(svc)
		c, rec := newTestContext(http.MethodGet, "/v1/schedules/3/seats", "")
		c.SetParamNames("id")
		c.SetParamValues("3")

		require.NoError(t, h.GetAvailability(c))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, uint64(3), svc.gotScheduleID)
		body := decodeBody(t, rec)
		assert.Equal(t, float64(4), body["total_seats"])
	})

	t.Run("unknown schedule", func(t *testing.T) {
		svc := &stubService{availabilityErr: service.NotFound("schedule not found")}
		h := NewTicketHandler(svc)
		c, rec := newTestContext(http.MethodGet, "/v1/schedules/99/seats", "")
		c.SetParamNames("id")
		c.SetParamValues("99")

		require.NoError(t, h.GetAvailability(c))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("bad id", func(t *testing.T) {
		h := NewTicketHandler(&stubService{})
		c, rec := newTestContext(http.MethodGet, "/v1/schedules/abc/seats", "")
		c.SetParamNames("id")
		c.SetParamValues("abc")

		require.NoError(t, h.GetAvailability(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestReserveSeats(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		svc := &stubService{bookResult: &service.ReservationResult{
			TicketIDs:       []uint64{41, 42},
			TotalPriceCents: 200000,
		}}
		h := NewTicketHandler(svc)
		c, rec := newTestContext(http.MethodPost, "/v1/schedules/3/tickets", `{"seat_codes":["A1","A2"]}`)
		c.SetParamNames("id")
		c.SetParamValues("3")
		c.Set("user_id", "7")

		require.NoError(t, h.ReserveSeats(c))
		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, uint64(7), svc.gotUserID)
		assert.Equal(t, []string{"A1", "A2"}, svc.gotSeatCodes)
		body := decodeBody(t, rec)
		assert.Equal(t, float64(200000), body["total_price_cents"])
	})

	t.Run("missing identity", func(t *testing.T) {
		h := NewTicketHandler(&stubService{})
		c, rec := newTestContext(http.MethodPost, "/v1/schedules/3/tickets", `{"seat_codes":["A1"]}`)
		c.SetParamNames("id")
		c.SetParamValues("3")

		require.NoError(t, h.ReserveSeats(c))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("seat conflict maps to 409 with codes", func(t *testing.T) {
		svc := &stubService{bookErr: service.Conflict("seats already booked", "A1")}
		h := NewTicketHandler(svc)
		c, rec := newTestContext(http.MethodPost, "/v1/schedules/3/tickets", `{"seat_codes":["A1","A2"]}`)
		c.SetParamNames("id")
		c.SetParamValues("3")
		c.Set("user_id", "7")

		require.NoError(t, h.ReserveSeats(c))
		assert.Equal(t, http.StatusConflict, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, []interface{}{"A1"}, body["conflicting_seats"])
	})

	t.Run("invalid codes map to 400 with codes", func(t *testing.T) {
		svc := &stubService{bookErr: service.InvalidArgument("seat codes not in room layout", "Z9")}
		h := NewTicketHandler(svc)
		c, rec := newTestContext(http.MethodPost, "/v1/schedules/3/tickets", `{"seat_codes":["Z9"]}`)
		c.SetParamNames("id")
		c.SetParamValues("3")
		c.Set("user_id", "7")

		require.NoError(t, h.ReserveSeats(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, []interface{}{"Z9"}, body["invalid_seats"])
	})

	t.Run("past showing maps to 409", func(t *testing.T) {
		svc := &stubService{bookErr: service.InvalidState("cannot book past showings")}
		h := NewTicketHandler(svc)
		c, rec := newTestContext(http.MethodPost, "/v1/schedules/3/tickets", `{"seat_codes":["A1"]}`)
		c.SetParamNames("id")
		c.SetParamValues("3")
		c.Set("user_id", "7")

		require.NoError(t, h.ReserveSeats(c))
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("internal error maps to 500", func(t *testing.T) {
		svc := &stubService{bookErr: assert.AnError}
		h := NewTicketHandler(svc)
		c, rec := newTestContext(http.MethodPost, "/v1/schedules/3/tickets", `{"seat_codes":["A1"]}`)
		c.SetParamNames("id")
		c.SetParamValues("3")
		c.Set("user_id", "7")

		require.NoError(t, h.ReserveSeats(c))
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestCancelTicket(t *testing.T) {
	cases := []struct {
		name     string
		err      error
		wantCode int
	}{
		{"success", nil, http.StatusOK},
		{"not found", service.NotFound("ticket not found"), http.StatusNotFound},
		{"foreign ticket", service.Forbidden("ticket belongs to another user"), http.StatusForbidden},
		{"already cancelled", service.InvalidState("ticket already cancelled"), http.StatusConflict},
		{"within cutoff", service.InvalidState("within cancellation cutoff"), http.StatusConflict},
		{"internal", assert.AnError, http.StatusInternalServerError},
	}
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			svc := &stubService{cancelErr: tt.err}
			h := NewTicketHandler(svc)
			c, rec := newTestContext(http.MethodDelete, "/v1/tickets/11", "")
			c.SetParamNames("id")
			c.SetParamValues("11")
			c.Set("user_id", "7")

			require.NoError(t, h.CancelTicket(c))
			assert.Equal(t, tt.wantCode, rec.Code)
			if tt.err == nil {
				assert.Equal(t, uint64(11), svc.gotTicketID)
				assert.Equal(t, uint64(7), svc.gotUserID)
			}
		})
	}
}

func TestListMyTickets(t *testing.T) {
	svc := &stubService{tickets: []repository.UserTicketDetail{
		{ID: 41, ScheduleID: 3, SeatCode: "A1", Status: "BOOKED"},
	}}
	h := NewTicketHandler(svc)
	c, rec := newTestContext(http.MethodGet, "/v1/my-tickets", "")
	c.Set("user_id", "7")

	require.NoError(t, h.ListMyTickets(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, uint64(7), svc.gotUserID)
	body := decodeBody(t, rec)
	assert.Len(t, body["items"], 1)
}
