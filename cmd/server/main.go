package main

import (
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/movie-ticketing/internal/config"
	"github.com/iliyamo/movie-ticketing/internal/database"
	"github.com/iliyamo/movie-ticketing/internal/handler"
	"github.com/iliyamo/movie-ticketing/internal/queue"
	"github.com/iliyamo/movie-ticketing/internal/repository"
	"github.com/iliyamo/movie-ticketing/internal/router"
	"github.com/iliyamo/movie-ticketing/internal/service"
)

func main() {
	_ = godotenv.Load() // .env is optional; real deployments set the environment directly

	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.WithError(err).Fatal("database connection failed")
	}
	defer db.Close()

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Warn("redis unavailable; rate limiting and availability caching disabled")
	}

	scheduleRepo := repository.NewScheduleRepo(db)
	ticketRepo := repository.NewTicketRepo(db)
	bookingRepo := repository.NewBookingRepo(db)
	paymentRepo := repository.NewPaymentRepo(db)

	pub := queue.NewPublisher(cfg.AMQPURL, log)
	svc := service.NewBookingService(
		db, scheduleRepo, ticketRepo, bookingRepo, paymentRepo,
		cfg.TicketPriceCents, cfg.CancelCutoff, pub, log,
	)

	// Background audit trail for settled payments.
	go queue.StartSettlementConsumer(cfg.AMQPURL, log)

	ticketHandler := handler.NewTicketHandler(svc)
	paymentHandler := handler.NewPaymentHandler(svc)

	e := echo.New()
	e.HideBanner = true
	router.RegisterRoutes(e, ticketHandler, rdb)
	router.RegisterCustomer(e, ticketHandler, paymentHandler, cfg.JWTSecret, rdb)

	addr := ":" + cfg.Port
	log.WithFields(logrus.Fields{"addr": addr, "env": cfg.Env}).Info("listening")
	if err := e.Start(addr); err != nil {
		log.WithError(err).Fatal("server stopped")
	}
}
