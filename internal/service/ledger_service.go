package service

import (
	"context"
	"iter"
	"time"

	"garagemitre/internal/apierror"
	"garagemitre/internal/clock"
	"garagemitre/internal/events"
	"garagemitre/internal/model"
	"garagemitre/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// LedgerService owns the per-customer month-debt ledger. All debt mutations
// in the system flow through it — the receipt lifecycle and the accrual
// scheduler never touch MonthDebt rows directly.
//
// The Tx variants run inside a caller-managed transaction and publish no
// events; they exist so the receipt lifecycle can mutate receipt and ledger
// atomically. Callers of the Tx variants must hold the customer lock.
type LedgerService interface {
	ApplyInterest(ctx context.Context, customerID uuid.UUID, month time.Time, amount decimal.Decimal) error
	ApplyPayment(ctx context.Context, customerID uuid.UUID, month time.Time, amount decimal.Decimal, onAccount bool) error
	ApplyInterestTx(ctx context.Context, tx *gorm.DB, customerID uuid.UUID, month time.Time, amount decimal.Decimal) error
	ApplyPaymentTx(ctx context.Context, tx *gorm.DB, customerID uuid.UUID, month time.Time, amount decimal.Decimal, onAccount bool) error
	// ClearMonthTx drops whatever debt remains for (customer, month).
	// Used by receipt cancellation only.
	ClearMonthTx(ctx context.Context, tx *gorm.DB, customerID uuid.UUID, month time.Time) error
	// DebtFor yields the customer's outstanding months ascending. The
	// sequence is lazy and restartable: each range re-reads the ledger.
	DebtFor(ctx context.Context, customerID uuid.UUID) iter.Seq2[model.MonthDebt, error]
}

type ledgerService struct {
	repo repository.DebtRepository
	bus  *events.Bus
	clk  clock.Clock
}

func NewLedgerService(repo repository.DebtRepository, bus *events.Bus, clk clock.Clock) LedgerService {
	return &ledgerService{repo: repo, bus: bus, clk: clk}
}

// ── ApplyInterest ─────────────────────────────────────────────────────────────

func (s *ledgerService) ApplyInterest(ctx context.Context, customerID uuid.UUID, month time.Time, amount decimal.Decimal) error {
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		return s.ApplyInterestTx(ctx, tx, customerID, month, amount)
	})
	if err != nil {
		return err
	}
	s.publishChanged(ctx, customerID)
	return nil
}

func (s *ledgerService) ApplyInterestTx(ctx context.Context, tx *gorm.DB, customerID uuid.UUID, month time.Time, amount decimal.Decimal) error {
	if amount.IsNegative() {
		return apierror.InvariantViolation("el monto a acreditar no puede ser negativo")
	}
	month = clock.Period(month)

	debt, err := s.repo.FindByCustomerAndMonth(ctx, tx, customerID, month)
	if err != nil {
		return err
	}
	if debt == nil {
		debt = &model.MonthDebt{CustomerID: customerID, Month: month, Amount: amount}
	} else {
		debt.Amount = debt.Amount.Add(amount)
	}
	return s.repo.Save(ctx, tx, debt)
}

// ── ApplyPayment ──────────────────────────────────────────────────────────────
// Settlement order: the target month first; any excess is credited forward
// to the oldest outstanding months (on-account payments only).

func (s *ledgerService) ApplyPayment(ctx context.Context, customerID uuid.UUID, month time.Time, amount decimal.Decimal, onAccount bool) error {
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		return s.ApplyPaymentTx(ctx, tx, customerID, month, amount, onAccount)
	})
	if err != nil {
		return err
	}
	s.publishChanged(ctx, customerID)
	return nil
}

func (s *ledgerService) ApplyPaymentTx(ctx context.Context, tx *gorm.DB, customerID uuid.UUID, month time.Time, amount decimal.Decimal, onAccount bool) error {
	if !amount.IsPositive() {
		return apierror.Validation("el monto del pago debe ser mayor a cero")
	}
	month = clock.Period(month)
	remaining := amount

	target, err := s.repo.FindByCustomerAndMonth(ctx, tx, customerID, month)
	if err != nil {
		return err
	}
	if target != nil {
		applied := decimal.Min(remaining, target.Amount)
		remaining = remaining.Sub(applied)
		if err := s.reduce(ctx, tx, target, applied); err != nil {
			return err
		}
	}

	if remaining.IsZero() {
		return nil
	}
	if !onAccount {
		return apierror.Overpayment("el pago excede la deuda del mes")
	}

	// On-account excess: settle oldest outstanding month first.
	debts, err := s.repo.ListByCustomer(ctx, tx, customerID)
	if err != nil {
		return err
	}
	for i := range debts {
		if remaining.IsZero() {
			break
		}
		d := &debts[i]
		if d.Month.Equal(month) || d.Amount.IsZero() {
			continue
		}
		applied := decimal.Min(remaining, d.Amount)
		remaining = remaining.Sub(applied)
		if err := s.reduce(ctx, tx, d, applied); err != nil {
			return err
		}
	}

	// Credit left over after every outstanding month is settled: rejected.
	// The operator has no account-credit concept to park it in.
	if !remaining.IsZero() {
		return apierror.Overpayment("el pago a cuenta excede la deuda total del cliente")
	}
	return nil
}

// reduce subtracts amount from the debt, deleting it when fully settled.
// A negative result means ledger corruption and is surfaced, never corrected.
func (s *ledgerService) reduce(ctx context.Context, tx *gorm.DB, d *model.MonthDebt, amount decimal.Decimal) error {
	rest := d.Amount.Sub(amount)
	if rest.IsNegative() {
		return apierror.InvariantViolation("la deuda del mes quedaría negativa")
	}
	if rest.IsZero() {
		return s.repo.Delete(ctx, tx, d)
	}
	d.Amount = rest
	return s.repo.Save(ctx, tx, d)
}

// ── ClearMonthTx ──────────────────────────────────────────────────────────────

func (s *ledgerService) ClearMonthTx(ctx context.Context, tx *gorm.DB, customerID uuid.UUID, month time.Time) error {
	month = clock.Period(month)
	debt, err := s.repo.FindByCustomerAndMonth(ctx, tx, customerID, month)
	if err != nil {
		return err
	}
	if debt == nil {
		return nil
	}
	return s.repo.Delete(ctx, tx, debt)
}

// ── DebtFor ───────────────────────────────────────────────────────────────────

func (s *ledgerService) DebtFor(ctx context.Context, customerID uuid.UUID) iter.Seq2[model.MonthDebt, error] {
	return func(yield func(model.MonthDebt, error) bool) {
		debts, err := s.repo.ListByCustomer(ctx, nil, customerID)
		if err != nil {
			yield(model.MonthDebt{}, err)
			return
		}
		for _, d := range debts {
			if !yield(d, nil) {
				return
			}
		}
	}
}

func (s *ledgerService) publishChanged(ctx context.Context, customerID uuid.UUID) {
	s.bus.Publish(ctx, events.Event{
		Type:       events.EventLedgerChanged,
		Date:       clock.DateOnly(s.clk.Now()),
		CustomerID: customerID,
	})
}
