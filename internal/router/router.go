// Package router defines how HTTP routes are registered for the API.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/movie-ticketing/internal/config"
	"github.com/iliyamo/movie-ticketing/internal/handler"
	"github.com/iliyamo/movie-ticketing/internal/middleware"
)

// RegisterRoutes registers routes that do not require authentication:
// the health check and the public seat availability view.  Availability
// responses are cached briefly in Redis when a client is available.
func RegisterRoutes(e *echo.Echo, t *handler.TicketHandler, rdb *redis.Client) {
	e.GET("/healthz", handler.Health)
	e.GET("/v1/schedules/:id/seats", t.GetAvailability,
		middleware.NewRedisCache(config.LoadCacheConfig(), rdb))
}

// RegisterCustomer registers customer-scoped endpoints under /v1.  All
// routes require a valid JWT and the CUSTOMER role; the mutating booking
// routes additionally pass through the Redis token bucket so a scalper
// cannot hammer the reservation path.
func RegisterCustomer(e *echo.Echo, t *handler.TicketHandler, p *handler.PaymentHandler, jwtSecret string, rdb *redis.Client) {
	limiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)

	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("CUSTOMER"),
	)
	g.POST("/schedules/:id/tickets", t.ReserveSeats, limiter)
	g.DELETE("/tickets/:id", t.CancelTicket, limiter)
	g.POST("/payments", p.SettlePayment, limiter)
	g.GET("/my-tickets", t.ListMyTickets)
}
