package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"garagemitre/internal/clock"
	"garagemitre/internal/config"
	"garagemitre/internal/events"
	"garagemitre/internal/infra"
	"garagemitre/internal/repository"
	"garagemitre/internal/router"
	"garagemitre/internal/scheduler"
	"garagemitre/internal/service"
	"garagemitre/internal/worker"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Structured logger — dev: pretty, prod: JSON
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}

	rdb, err := infra.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	clk := clock.SystemClock{}
	bus := events.NewBus()
	locks := service.NewCustomerLocks()

	// ── Repositories ─────────────────────────────────────────────────────────
	customerRepo := repository.NewCustomerRepository(db)
	receiptRepo := repository.NewReceiptRepository(db)
	debtRepo := repository.NewDebtRepository(db)
	ticketRepo := repository.NewTicketRepository(db)
	otherPaymentRepo := repository.NewOtherPaymentRepository(db)
	boxListRepo := repository.NewBoxListRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	ledgerSvc := service.NewLedgerService(debtRepo, bus, clk)
	receiptSvc := service.NewReceiptService(receiptRepo, customerRepo, ledgerSvc, locks, bus, clk)
	customerSvc := service.NewCustomerService(customerRepo)
	ticketSvc := service.NewTicketService(ticketRepo, otherPaymentRepo, bus)
	boxListSvc := service.NewBoxListService(ticketRepo, otherPaymentRepo, receiptRepo, boxListRepo, clk)
	service.SubscribeBoxList(bus, boxListSvc)

	// ── Async notifications ──────────────────────────────────────────────────
	// Scheduler publishes through the dispatcher; the worker pool consumes the
	// queue and delivers via SMTP behind a circuit breaker.
	dispatcher := worker.NewDispatcher(rdb)
	mailer := infra.NewMailer(cfg)
	smtpCB := infra.NewCircuitBreaker(cfg.SMTPBreakerFailures, time.Duration(cfg.SMTPBreakerCooldownSeconds)*time.Second)
	notificationWorker := worker.NewNotificationWorker(mailer, smtpCB, rdb, cfg.NotificationEmail)
	worker.StartWorkerPool(ctx, rdb, notificationWorker, cfg.WorkerPoolSize)

	// ── Interest accrual scheduler ───────────────────────────────────────────
	accrual := scheduler.New(receiptRepo, receiptSvc, dispatcher, clk, scheduler.Config{
		TickInterval: time.Duration(cfg.AccrualTickMinutes) * time.Minute,
		GraceDays:    cfg.AccrualGraceDays,
		OwnerRate:    cfg.OwnerRate(),
		RenterRate:   cfg.RenterRate(),
	})
	accrual.Start(ctx)

	r := router.New(cfg, db, rdb, router.Deps{
		Customers: customerSvc,
		Receipts:  receiptSvc,
		Ledger:    ledgerSvc,
		BoxLists:  boxListSvc,
		Tickets:   ticketSvc,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Msgf("garage-mitre backend listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server…")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("forced shutdown")
	}
	log.Info().Msg("server exited")
}
