package service

import (
	"context"
	"fmt"
	"time"

	"garagemitre/internal/apierror"
	"garagemitre/internal/clock"
	"garagemitre/internal/dto"
	"garagemitre/internal/events"
	"garagemitre/internal/model"
	"garagemitre/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ReceiptService drives the receipt state machine:
//
//	(create) → PENDING → PAID
//	                  ↘ CANCELLED
//
// PAID and CANCELLED are terminal. Every mutation runs under the customer's
// lock and inside one transaction together with its ledger effect, so a
// failed payment or accrual never leaves the ledger half-updated.
type ReceiptService interface {
	Create(ctx context.Context, req dto.CreateReceiptRequest) (*dto.ReceiptResponse, error)
	ApplyPayment(ctx context.Context, receiptID uuid.UUID, req dto.PayReceiptRequest) (*dto.ReceiptResponse, error)
	Cancel(ctx context.Context, receiptID uuid.UUID) error
	ListByCustomer(ctx context.Context, customerID uuid.UUID, status string) ([]dto.ReceiptResponse, error)
	// AccrueInterest is the scheduler's write path. It reports whether the
	// amount was applied: a repeat of an already-processed trigger, or a
	// receipt that got paid or cancelled meanwhile, is a no-op.
	AccrueInterest(ctx context.Context, receiptID uuid.UUID, amount decimal.Decimal, trigger time.Time) (bool, error)
}

type receiptService struct {
	repo      repository.ReceiptRepository
	customers repository.CustomerRepository
	ledger    LedgerService
	locks     *CustomerLocks
	bus       *events.Bus
	clk       clock.Clock
}

func NewReceiptService(
	repo repository.ReceiptRepository,
	customers repository.CustomerRepository,
	ledger LedgerService,
	locks *CustomerLocks,
	bus *events.Bus,
	clk clock.Clock,
) ReceiptService {
	return &receiptService{
		repo:      repo,
		customers: customers,
		ledger:    ledger,
		locks:     locks,
		bus:       bus,
		clk:       clk,
	}
}

// ── Create ────────────────────────────────────────────────────────────────────

func (s *receiptService) Create(ctx context.Context, req dto.CreateReceiptRequest) (*dto.ReceiptResponse, error) {
	customerID, err := uuid.Parse(req.CustomerID)
	if err != nil {
		return nil, apierror.Validation("customer_id inválido")
	}
	period, err := parsePeriod(req.Period)
	if err != nil {
		return nil, apierror.Validation("período inválido, se espera YYYY-MM")
	}
	if !req.BaseAmount.IsPositive() {
		return nil, apierror.Validation("el monto base debe ser mayor a cero")
	}
	if _, err := s.customers.FindByID(ctx, customerID); err != nil {
		return nil, apierror.NotFound("cliente no encontrado")
	}

	unlock := s.locks.Lock(customerID)
	defer unlock()

	existing, err := s.repo.FindActiveByCustomerAndPeriod(ctx, customerID, period)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apierror.DuplicatePeriod("el cliente ya tiene un recibo para este período")
	}

	var receipt model.Receipt
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		number, err := s.repo.NextReceiptNumber(ctx, tx)
		if err != nil {
			return err
		}
		receipt = model.Receipt{
			CustomerID:      customerID,
			Period:          period,
			BaseAmount:      req.BaseAmount,
			AccruedInterest: decimal.Zero,
			Status:          model.ReceiptStatusPending,
			ReceiptNumber:   number,
		}
		if err := s.repo.Create(ctx, tx, &receipt); err != nil {
			return err
		}
		// Opening a period opens its debt — same ledger path as accrual.
		return s.ledger.ApplyInterestTx(ctx, tx, customerID, period, req.BaseAmount)
	})
	if txErr != nil {
		return nil, txErr
	}

	s.publishLedgerChanged(ctx, customerID)
	return receiptToResponse(&receipt), nil
}

// ── ApplyPayment ──────────────────────────────────────────────────────────────

func (s *receiptService) ApplyPayment(ctx context.Context, receiptID uuid.UUID, req dto.PayReceiptRequest) (*dto.ReceiptResponse, error) {
	if len(req.Legs) == 0 {
		return nil, apierror.Validation("el pago requiere al menos un medio de pago")
	}
	total := decimal.Zero
	for _, leg := range req.Legs {
		if !leg.Amount.IsPositive() {
			return nil, apierror.Validation("cada medio de pago debe tener monto mayor a cero")
		}
		total = total.Add(leg.Amount)
	}

	located, err := s.repo.FindByID(ctx, receiptID)
	if err != nil {
		return nil, apierror.NotFound("recibo no encontrado")
	}

	unlock := s.locks.Lock(located.CustomerID)
	defer unlock()

	// Re-read under the lock: a concurrent payment may have won the race.
	receipt, err := s.repo.FindByID(ctx, receiptID)
	if err != nil {
		return nil, apierror.NotFound("recibo no encontrado")
	}
	if receipt.Status != model.ReceiptStatusPending {
		return nil, apierror.InvalidStateTransition("el recibo ya fue pagado o anulado")
	}

	due := receipt.TotalDue()
	if !req.OnAccount && !total.Equal(due) {
		if total.GreaterThan(due) {
			return nil, apierror.Overpayment("el pago excede el total del recibo")
		}
		return nil, apierror.Validation("el pago no cubre el total del recibo; use pago a cuenta")
	}

	paymentDate := clock.DateOnly(s.clk.Now())
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		receipt.Status = model.ReceiptStatusPaid
		receipt.PaymentDate = &paymentDate
		code := barcode(receipt.ReceiptNumber, receipt.Period)
		receipt.Barcode = &code
		if err := s.repo.Update(ctx, tx, receipt); err != nil {
			return err
		}
		for _, leg := range req.Legs {
			p := model.ReceiptPayment{ReceiptID: receipt.ID, Method: leg.Method, Amount: leg.Amount}
			if err := s.repo.CreatePayment(ctx, tx, &p); err != nil {
				return err
			}
			receipt.Payments = append(receipt.Payments, p)
		}
		return s.ledger.ApplyPaymentTx(ctx, tx, receipt.CustomerID, receipt.Period, total, req.OnAccount)
	})
	if txErr != nil {
		return nil, txErr
	}

	s.bus.Publish(ctx, events.Event{
		Type:       events.EventReceiptPaid,
		Date:       paymentDate,
		CustomerID: receipt.CustomerID,
	})
	s.publishLedgerChanged(ctx, receipt.CustomerID)
	return receiptToResponse(receipt), nil
}

// ── Cancel ────────────────────────────────────────────────────────────────────
// Soft delete: the receipt keeps its row and number, only the status changes.

func (s *receiptService) Cancel(ctx context.Context, receiptID uuid.UUID) error {
	located, err := s.repo.FindByID(ctx, receiptID)
	if err != nil {
		return apierror.NotFound("recibo no encontrado")
	}

	unlock := s.locks.Lock(located.CustomerID)
	defer unlock()

	receipt, err := s.repo.FindByID(ctx, receiptID)
	if err != nil {
		return apierror.NotFound("recibo no encontrado")
	}
	switch receipt.Status {
	case model.ReceiptStatusPaid:
		return apierror.AlreadyPaid("el recibo ya fue pagado y no puede anularse")
	case model.ReceiptStatusCancelled:
		return apierror.InvalidStateTransition("el recibo ya está anulado")
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		receipt.Status = model.ReceiptStatusCancelled
		if err := s.repo.Update(ctx, tx, receipt); err != nil {
			return err
		}
		return s.ledger.ClearMonthTx(ctx, tx, receipt.CustomerID, receipt.Period)
	})
	if txErr != nil {
		return txErr
	}

	s.publishLedgerChanged(ctx, receipt.CustomerID)
	return nil
}

// ── AccrueInterest ────────────────────────────────────────────────────────────

func (s *receiptService) AccrueInterest(ctx context.Context, receiptID uuid.UUID, amount decimal.Decimal, trigger time.Time) (bool, error) {
	if amount.IsNegative() {
		return false, apierror.InvariantViolation("el interés no puede ser negativo")
	}
	trigger = clock.DateOnly(trigger)

	located, err := s.repo.FindByID(ctx, receiptID)
	if err != nil {
		return false, apierror.NotFound("recibo no encontrado")
	}

	unlock := s.locks.Lock(located.CustomerID)
	defer unlock()

	receipt, err := s.repo.FindByID(ctx, receiptID)
	if err != nil {
		return false, apierror.NotFound("recibo no encontrado")
	}
	// Interest is frozen outside PENDING; a receipt paid while the pass was
	// running is skipped, not an error.
	if receipt.Status != model.ReceiptStatusPending {
		return false, nil
	}
	// Trigger already applied — re-running the scheduler is a no-op.
	if receipt.LastAccrualTrigger != nil && receipt.LastAccrualTrigger.Equal(trigger) {
		return false, nil
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		receipt.AccruedInterest = receipt.AccruedInterest.Add(amount)
		receipt.LastAccrualTrigger = &trigger
		if err := s.repo.Update(ctx, tx, receipt); err != nil {
			return err
		}
		return s.ledger.ApplyInterestTx(ctx, tx, receipt.CustomerID, receipt.Period, amount)
	})
	if txErr != nil {
		return false, txErr
	}

	s.publishLedgerChanged(ctx, receipt.CustomerID)
	return true, nil
}

// ── ListByCustomer ────────────────────────────────────────────────────────────

func (s *receiptService) ListByCustomer(ctx context.Context, customerID uuid.UUID, status string) ([]dto.ReceiptResponse, error) {
	receipts, err := s.repo.ListByCustomer(ctx, customerID, status)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ReceiptResponse, 0, len(receipts))
	for i := range receipts {
		out = append(out, *receiptToResponse(&receipts[i]))
	}
	return out, nil
}

// ── Helpers ───────────────────────────────────────────────────────────────────

func (s *receiptService) publishLedgerChanged(ctx context.Context, customerID uuid.UUID) {
	s.bus.Publish(ctx, events.Event{
		Type:       events.EventLedgerChanged,
		Date:       clock.DateOnly(s.clk.Now()),
		CustomerID: customerID,
	})
}

func parsePeriod(s string) (time.Time, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return time.Time{}, err
	}
	return clock.Period(t), nil
}

// barcode builds the printable payment code: receipt number + period,
// closed with a Luhn check digit.
func barcode(number int64, period time.Time) string {
	digits := fmt.Sprintf("%08d%s", number, period.Format("200601"))
	return digits + luhnDigit(digits)
}

func luhnDigit(digits string) string {
	sum := 0
	double := true
	for i := len(digits) - 1; i >= 0; i-- {
		d := int(digits[i] - '0')
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}
	return fmt.Sprintf("%d", (10-sum%10)%10)
}

func receiptToResponse(r *model.Receipt) *dto.ReceiptResponse {
	resp := &dto.ReceiptResponse{
		ID:              r.ID.String(),
		CustomerID:      r.CustomerID.String(),
		Period:          r.Period.Format("2006-01"),
		BaseAmount:      r.BaseAmount,
		AccruedInterest: r.AccruedInterest,
		TotalDue:        r.TotalDue(),
		Status:          r.Status,
		Barcode:         r.Barcode,
		ReceiptNumber:   r.ReceiptNumber,
	}
	if r.PaymentDate != nil {
		d := r.PaymentDate.Format("2006-01-02")
		resp.PaymentDate = &d
	}
	for _, p := range r.Payments {
		resp.Payments = append(resp.Payments, dto.PaymentLegResponse{Method: p.Method, Amount: p.Amount})
	}
	return resp
}
