// Package scheduler owns the interest accrual loop: a background goroutine
// that wakes periodically, detects the month's fixed trigger boundaries
// (day 10, day 20, last calendar day), and applies overdue interest through
// the receipt lifecycle — never by writing receipts or ledger rows directly.
package scheduler

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"garagemitre/internal/clock"
	"garagemitre/internal/events"
	"garagemitre/internal/model"
	"garagemitre/internal/repository"
	"garagemitre/internal/service"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// Config holds the accrual policy knobs.
type Config struct {
	TickInterval time.Duration
	// GraceDays is the window after period start during which no interest
	// accrues.
	GraceDays  int
	OwnerRate  decimal.Decimal
	RenterRate decimal.Decimal
}

// Accrual is the interest scheduler. One instance per process.
type Accrual struct {
	receipts  repository.ReceiptRepository
	lifecycle service.ReceiptService
	publisher events.Publisher
	clk       clock.Clock
	cfg       Config

	// running guards against overlapping passes: a tick that fires while
	// the previous pass is still in flight is dropped, not queued.
	running atomic.Bool
}

func New(receipts repository.ReceiptRepository, lifecycle service.ReceiptService, publisher events.Publisher, clk clock.Clock, cfg Config) *Accrual {
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = time.Hour
	}
	if cfg.GraceDays <= 0 {
		cfg.GraceDays = 10
	}
	return &Accrual{
		receipts:  receipts,
		lifecycle: lifecycle,
		publisher: publisher,
		clk:       clk,
		cfg:       cfg,
	}
}

// Start launches the trigger loop. It respects the context for graceful
// shutdown.
func (a *Accrual) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(a.cfg.TickInterval)
		defer ticker.Stop()

		log.Info().Dur("tick", a.cfg.TickInterval).Msg("accrual: started")

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("accrual: shutting down")
				return
			case <-ticker.C:
				a.Tick(ctx)
			}
		}
	}()
}

// Tick evaluates the calendar once. Exported so tests and the manual
// trigger endpoint can drive the scheduler with simulated dates.
func (a *Accrual) Tick(ctx context.Context) {
	today := clock.DateOnly(a.clk.Now())
	if !clock.IsAccrualBoundary(today) {
		return
	}
	if !a.running.CompareAndSwap(false, true) {
		log.Warn().Str("trigger", today.Format("2006-01-02")).Msg("accrual: previous pass still running, tick dropped")
		return
	}
	defer a.running.Store(false)

	a.runPass(ctx, today)
}

// runPass applies interest for one trigger date. A failure on one receipt
// is logged and skipped — settled state is never touched, and re-running
// the same trigger only picks up the receipts that were missed.
func (a *Accrual) runPass(ctx context.Context, trigger time.Time) {
	pending, err := a.receipts.ListPending(ctx)
	if err != nil {
		log.Error().Err(err).Msg("accrual: failed to list pending receipts")
		return
	}

	affected := make(map[uuid.UUID]*model.Customer)
	applied, skipped, failed := 0, 0, 0

	for i := range pending {
		receipt := &pending[i]

		if clock.DaysBetween(receipt.Period, trigger) <= a.cfg.GraceDays {
			skipped++
			continue
		}
		if receipt.Customer == nil {
			log.Error().Str("receipt_id", receipt.ID.String()).Msg("accrual: receipt without customer, skipping")
			failed++
			continue
		}

		interest := receipt.BaseAmount.Mul(a.rateFor(receipt.Customer.Type)).Round(2)
		ok, err := a.lifecycle.AccrueInterest(ctx, receipt.ID, interest, trigger)
		if err != nil {
			log.Error().Err(err).
				Str("receipt_id", receipt.ID.String()).
				Str("customer_id", receipt.CustomerID.String()).
				Msg("accrual: failed to apply interest")
			failed++
			continue
		}
		if !ok {
			skipped++
			continue
		}
		applied++
		affected[receipt.CustomerID] = receipt.Customer
	}

	a.notify(ctx, affected)

	log.Info().
		Str("trigger", trigger.Format("2006-01-02")).
		Int("applied", applied).
		Int("skipped", skipped).
		Int("failed", failed).
		Msg("accrual: pass finished")
}

// rateFor selects the interest rate by customer type. PRIVATE customers
// are billed like owners.
func (a *Accrual) rateFor(customerType string) decimal.Decimal {
	if customerType == model.CustomerTypeRenter {
		return a.cfg.RenterRate
	}
	return a.cfg.OwnerRate
}

// notify emits one INTEREST_PROCESSED notification per affected customer.
// Delivery is fire-and-forget: a publish failure is logged and never rolls
// back the interest already applied.
func (a *Accrual) notify(ctx context.Context, affected map[uuid.UUID]*model.Customer) {
	for customerID, customer := range affected {
		n := events.Notification{
			Type:         events.NotificationInterestProcessed,
			CustomerID:   customerID,
			LastName:     customer.LastName,
			CustomerType: customer.Type,
			Message:      fmt.Sprintf("Se aplicaron intereses por mora a los recibos pendientes de %s.", customer.LastName),
		}
		if err := a.publisher.Publish(ctx, n); err != nil {
			log.Error().Err(err).Str("customer_id", customerID.String()).Msg("accrual: failed to publish notification")
		}
	}
}
