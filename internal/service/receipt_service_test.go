package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"garagemitre/internal/apierror"
	"garagemitre/internal/clock"
	"garagemitre/internal/dto"
	"garagemitre/internal/events"
	"garagemitre/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type receiptFixture struct {
	svc       ReceiptService
	ledger    LedgerService
	receipts  *stubReceiptRepo
	debts     *stubDebtRepo
	customers *stubCustomerRepo
	bus       *events.Bus
	customer  *model.Customer
}

func newReceiptFixture(t *testing.T) *receiptFixture {
	t.Helper()
	receipts := newStubReceiptRepo()
	debts := newStubDebtRepo()
	customers := newStubCustomerRepo()
	bus := events.NewBus()
	clk := clock.Fixed{T: time.Date(2025, 3, 20, 10, 0, 0, 0, time.UTC)}

	customer := &model.Customer{
		FirstName:   "Juan",
		LastName:    "Pérez",
		Type:        model.CustomerTypeOwner,
		MonthlyRate: d("10000"),
		Active:      true,
	}
	require.NoError(t, customers.Create(context.Background(), customer))

	ledger := NewLedgerService(debts, bus, clk)
	svc := NewReceiptService(receipts, customers, ledger, NewCustomerLocks(), bus, clk)
	return &receiptFixture{
		svc:       svc,
		ledger:    ledger,
		receipts:  receipts,
		debts:     debts,
		customers: customers,
		bus:       bus,
		customer:  customer,
	}
}

func (f *receiptFixture) create(t *testing.T, period, base string) *dto.ReceiptResponse {
	t.Helper()
	resp, err := f.svc.Create(context.Background(), dto.CreateReceiptRequest{
		CustomerID: f.customer.ID.String(),
		Period:     period,
		BaseAmount: d(base),
	})
	require.NoError(t, err)
	return resp
}

// ── Create ───────────────────────────────────────────────────────────────────

func TestCreateReceiptOpensDebtAndAssignsNumber(t *testing.T) {
	f := newReceiptFixture(t)

	resp := f.create(t, "2025-03", "10000")

	assert.Equal(t, model.ReceiptStatusPending, resp.Status)
	assert.Equal(t, "2025-03", resp.Period)
	assert.Equal(t, int64(1), resp.ReceiptNumber)
	assert.True(t, resp.TotalDue.Equal(d("10000")))

	debt, err := f.debts.FindByCustomerAndMonth(context.Background(), nil, f.customer.ID, month(2025, 3))
	require.NoError(t, err)
	require.NotNil(t, debt)
	assert.True(t, debt.Amount.Equal(d("10000")))

	// Numbers are correlative.
	resp2 := f.create(t, "2025-04", "10000")
	assert.Equal(t, int64(2), resp2.ReceiptNumber)
}

func TestCreateReceiptRejectsDuplicatePeriod(t *testing.T) {
	f := newReceiptFixture(t)
	f.create(t, "2025-03", "10000")

	_, err := f.svc.Create(context.Background(), dto.CreateReceiptRequest{
		CustomerID: f.customer.ID.String(),
		Period:     "2025-03",
		BaseAmount: d("10000"),
	})
	assert.True(t, apierror.IsCode(err, apierror.CodeDuplicatePeriod))
}

func TestCreateReceiptAllowedAfterCancellation(t *testing.T) {
	f := newReceiptFixture(t)
	ctx := context.Background()

	first := f.create(t, "2025-03", "10000")
	require.NoError(t, f.svc.Cancel(ctx, uuid.MustParse(first.ID)))

	// A cancelled receipt frees the (customer, period) slot.
	second := f.create(t, "2025-03", "12000")
	assert.Equal(t, model.ReceiptStatusPending, second.Status)
	assert.NotEqual(t, first.ReceiptNumber, second.ReceiptNumber)
}

func TestCreateReceiptValidation(t *testing.T) {
	f := newReceiptFixture(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, dto.CreateReceiptRequest{
		CustomerID: "not-a-uuid", Period: "2025-03", BaseAmount: d("100"),
	})
	assert.True(t, apierror.IsCode(err, apierror.CodeValidation))

	_, err = f.svc.Create(ctx, dto.CreateReceiptRequest{
		CustomerID: f.customer.ID.String(), Period: "marzo", BaseAmount: d("100"),
	})
	assert.True(t, apierror.IsCode(err, apierror.CodeValidation))

	_, err = f.svc.Create(ctx, dto.CreateReceiptRequest{
		CustomerID: f.customer.ID.String(), Period: "2025-03", BaseAmount: decimal.Zero,
	})
	assert.True(t, apierror.IsCode(err, apierror.CodeValidation))

	_, err = f.svc.Create(ctx, dto.CreateReceiptRequest{
		CustomerID: uuid.NewString(), Period: "2025-03", BaseAmount: d("100"),
	})
	assert.True(t, apierror.IsCode(err, apierror.CodeNotFound))
}

// ── ApplyPayment ─────────────────────────────────────────────────────────────

func TestPayReceiptWithAccruedInterest(t *testing.T) {
	f := newReceiptFixture(t)
	ctx := context.Background()

	// Base 10000, one 5% accrual → total due 10500.
	created := f.create(t, "2025-03", "10000")
	receiptID := uuid.MustParse(created.ID)
	trigger := time.Date(2025, 3, 20, 0, 0, 0, 0, time.UTC)
	applied, err := f.svc.AccrueInterest(ctx, receiptID, d("500"), trigger)
	require.NoError(t, err)
	require.True(t, applied)

	resp, err := f.svc.ApplyPayment(ctx, receiptID, dto.PayReceiptRequest{
		Legs: []dto.PaymentLeg{
			{Method: model.PaymentMethodEfectivo, Amount: d("10000")},
			{Method: model.PaymentMethodTransferencia, Amount: d("500")},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, model.ReceiptStatusPaid, resp.Status)
	require.NotNil(t, resp.PaymentDate)
	assert.Equal(t, "2025-03-20", *resp.PaymentDate)
	require.Len(t, resp.Payments, 2)
	require.NotNil(t, resp.Barcode)

	// The month's debt is fully settled.
	debt, err := f.debts.FindByCustomerAndMonth(ctx, nil, f.customer.ID, month(2025, 3))
	require.NoError(t, err)
	assert.Nil(t, debt)
}

func TestPayReceiptRejectsWrongTotals(t *testing.T) {
	f := newReceiptFixture(t)
	ctx := context.Background()
	created := f.create(t, "2025-03", "10000")
	receiptID := uuid.MustParse(created.ID)

	_, err := f.svc.ApplyPayment(ctx, receiptID, dto.PayReceiptRequest{
		Legs: []dto.PaymentLeg{{Method: model.PaymentMethodEfectivo, Amount: d("12000")}},
	})
	assert.True(t, apierror.IsCode(err, apierror.CodeOverpayment))

	_, err = f.svc.ApplyPayment(ctx, receiptID, dto.PayReceiptRequest{
		Legs: []dto.PaymentLeg{{Method: model.PaymentMethodEfectivo, Amount: d("4000")}},
	})
	assert.True(t, apierror.IsCode(err, apierror.CodeValidation))

	_, err = f.svc.ApplyPayment(ctx, receiptID, dto.PayReceiptRequest{Legs: nil})
	assert.True(t, apierror.IsCode(err, apierror.CodeValidation))
}

func TestPayReceiptOnAccountLeavesRemainder(t *testing.T) {
	f := newReceiptFixture(t)
	ctx := context.Background()
	created := f.create(t, "2025-03", "10000")
	receiptID := uuid.MustParse(created.ID)

	resp, err := f.svc.ApplyPayment(ctx, receiptID, dto.PayReceiptRequest{
		Legs:      []dto.PaymentLeg{{Method: model.PaymentMethodEfectivo, Amount: d("4000")}},
		OnAccount: true,
	})
	require.NoError(t, err)
	assert.Equal(t, model.ReceiptStatusPaid, resp.Status)

	debt, err := f.debts.FindByCustomerAndMonth(ctx, nil, f.customer.ID, month(2025, 3))
	require.NoError(t, err)
	require.NotNil(t, debt)
	assert.True(t, debt.Amount.Equal(d("6000")), "got %s", debt.Amount)
}

func TestPayReceiptTwiceFails(t *testing.T) {
	f := newReceiptFixture(t)
	ctx := context.Background()
	created := f.create(t, "2025-03", "10000")
	receiptID := uuid.MustParse(created.ID)

	legs := []dto.PaymentLeg{{Method: model.PaymentMethodEfectivo, Amount: d("10000")}}
	_, err := f.svc.ApplyPayment(ctx, receiptID, dto.PayReceiptRequest{Legs: legs})
	require.NoError(t, err)

	_, err = f.svc.ApplyPayment(ctx, receiptID, dto.PayReceiptRequest{Legs: legs})
	assert.True(t, apierror.IsCode(err, apierror.CodeInvalidStateTransition))
}

func TestConcurrentPaymentsOnlyOneWins(t *testing.T) {
	f := newReceiptFixture(t)
	ctx := context.Background()
	created := f.create(t, "2025-03", "10000")
	receiptID := uuid.MustParse(created.ID)

	const attempts = 8
	errs := make([]error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.svc.ApplyPayment(ctx, receiptID, dto.PayReceiptRequest{
				Legs: []dto.PaymentLeg{{Method: model.PaymentMethodEfectivo, Amount: d("10000")}},
			})
		}(i)
	}
	wg.Wait()

	won, lost := 0, 0
	for _, err := range errs {
		switch {
		case err == nil:
			won++
		case apierror.IsCode(err, apierror.CodeInvalidStateTransition):
			lost++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, won, "exactly one payment may win")
	assert.Equal(t, attempts-1, lost)

	// Exactly one set of payment legs was recorded.
	receipt, err := f.receipts.FindByID(ctx, receiptID)
	require.NoError(t, err)
	assert.Len(t, receipt.Payments, 1)
}

// ── Cancel ───────────────────────────────────────────────────────────────────

func TestCancelPendingReceiptClearsDebt(t *testing.T) {
	f := newReceiptFixture(t)
	ctx := context.Background()
	created := f.create(t, "2025-03", "10000")
	receiptID := uuid.MustParse(created.ID)

	require.NoError(t, f.svc.Cancel(ctx, receiptID))

	receipt, err := f.receipts.FindByID(ctx, receiptID)
	require.NoError(t, err)
	assert.Equal(t, model.ReceiptStatusCancelled, receipt.Status)

	debt, err := f.debts.FindByCustomerAndMonth(ctx, nil, f.customer.ID, month(2025, 3))
	require.NoError(t, err)
	assert.Nil(t, debt)
}

func TestCancelPaidReceiptFails(t *testing.T) {
	f := newReceiptFixture(t)
	ctx := context.Background()
	created := f.create(t, "2025-03", "10000")
	receiptID := uuid.MustParse(created.ID)

	_, err := f.svc.ApplyPayment(ctx, receiptID, dto.PayReceiptRequest{
		Legs: []dto.PaymentLeg{{Method: model.PaymentMethodEfectivo, Amount: d("10000")}},
	})
	require.NoError(t, err)

	err = f.svc.Cancel(ctx, receiptID)
	assert.True(t, apierror.IsCode(err, apierror.CodeAlreadyPaid))
}

func TestCancelTwiceFails(t *testing.T) {
	f := newReceiptFixture(t)
	ctx := context.Background()
	created := f.create(t, "2025-03", "10000")
	receiptID := uuid.MustParse(created.ID)

	require.NoError(t, f.svc.Cancel(ctx, receiptID))
	err := f.svc.Cancel(ctx, receiptID)
	assert.True(t, apierror.IsCode(err, apierror.CodeInvalidStateTransition))
}

// ── AccrueInterest ───────────────────────────────────────────────────────────

func TestAccrueInterestIsIdempotentPerTrigger(t *testing.T) {
	f := newReceiptFixture(t)
	ctx := context.Background()
	created := f.create(t, "2025-03", "10000")
	receiptID := uuid.MustParse(created.ID)
	trigger := time.Date(2025, 3, 20, 0, 0, 0, 0, time.UTC)

	applied, err := f.svc.AccrueInterest(ctx, receiptID, d("500"), trigger)
	require.NoError(t, err)
	assert.True(t, applied)

	// Same trigger again: no-op, no double interest.
	applied, err = f.svc.AccrueInterest(ctx, receiptID, d("500"), trigger)
	require.NoError(t, err)
	assert.False(t, applied)

	receipt, err := f.receipts.FindByID(ctx, receiptID)
	require.NoError(t, err)
	assert.True(t, receipt.AccruedInterest.Equal(d("500")), "got %s", receipt.AccruedInterest)

	// A later trigger applies again.
	applied, err = f.svc.AccrueInterest(ctx, receiptID, d("525"), trigger.AddDate(0, 0, 11))
	require.NoError(t, err)
	assert.True(t, applied)

	receipt, err = f.receipts.FindByID(ctx, receiptID)
	require.NoError(t, err)
	assert.True(t, receipt.AccruedInterest.Equal(d("1025")), "got %s", receipt.AccruedInterest)
}

func TestAccrueInterestSkipsSettledReceipts(t *testing.T) {
	f := newReceiptFixture(t)
	ctx := context.Background()
	created := f.create(t, "2025-03", "10000")
	receiptID := uuid.MustParse(created.ID)

	_, err := f.svc.ApplyPayment(ctx, receiptID, dto.PayReceiptRequest{
		Legs: []dto.PaymentLeg{{Method: model.PaymentMethodEfectivo, Amount: d("10000")}},
	})
	require.NoError(t, err)

	applied, err := f.svc.AccrueInterest(ctx, receiptID, d("500"), time.Date(2025, 3, 20, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.False(t, applied, "interest is frozen once paid")

	receipt, err := f.receipts.FindByID(ctx, receiptID)
	require.NoError(t, err)
	assert.True(t, receipt.AccruedInterest.IsZero())
}

// ── Barcode ──────────────────────────────────────────────────────────────────

func TestBarcodeCarriesLuhnCheckDigit(t *testing.T) {
	code := barcode(42, month(2025, 3))

	// 8-digit number + YYYYMM + check digit.
	require.Len(t, code, 15)
	assert.Equal(t, "00000042202503", code[:14])

	// Recomputing the Luhn digit over the payload must match.
	assert.Equal(t, string(code[14]), luhnDigit(code[:14]))

	// Distinct numbers yield distinct codes.
	assert.NotEqual(t, code, barcode(43, month(2025, 3)))
}

// ── Ledger balance ───────────────────────────────────────────────────────────

// After any mix of creates, accruals, payments, and cancellations the ledger
// must balance: outstanding debt equals what pending receipts still owe minus
// the on-account credit already absorbed by older months.
func TestLedgerBalancesAfterMixedSequence(t *testing.T) {
	f := newReceiptFixture(t)
	ctx := context.Background()

	jan := f.create(t, "2025-01", "10000")
	feb := f.create(t, "2025-02", "8000")
	mar := f.create(t, "2025-03", "12000")
	trigger := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	applied, err := f.svc.AccrueInterest(ctx, uuid.MustParse(jan.ID), d("500"), trigger)
	require.NoError(t, err)
	require.True(t, applied)
	applied, err = f.svc.AccrueInterest(ctx, uuid.MustParse(feb.ID), d("400"), trigger)
	require.NoError(t, err)
	require.True(t, applied)

	// March settled exactly.
	_, err = f.svc.ApplyPayment(ctx, uuid.MustParse(mar.ID), dto.PayReceiptRequest{
		Legs: []dto.PaymentLeg{{Method: model.PaymentMethodEfectivo, Amount: d("12000")}},
	})
	require.NoError(t, err)

	// February on account with 600 over its 8400 due; the excess lands on
	// January, the oldest open month.
	_, err = f.svc.ApplyPayment(ctx, uuid.MustParse(feb.ID), dto.PayReceiptRequest{
		Legs:      []dto.PaymentLeg{{Method: model.PaymentMethodTransferencia, Amount: d("9000")}},
		OnAccount: true,
	})
	require.NoError(t, err)

	// April opened and immediately voided.
	abr := f.create(t, "2025-04", "5000")
	require.NoError(t, f.svc.Cancel(ctx, uuid.MustParse(abr.ID)))

	// Sweep: recompute both sides of the balance from repository state alone.
	outstanding := decimal.Zero
	for _, debt := range f.debts.debts {
		outstanding = outstanding.Add(debt.Amount)
	}

	pendingDue, settledDue := decimal.Zero, decimal.Zero
	for _, rec := range f.receipts.receipts {
		switch rec.Status {
		case model.ReceiptStatusPending:
			pendingDue = pendingDue.Add(rec.TotalDue())
		case model.ReceiptStatusPaid:
			settledDue = settledDue.Add(rec.TotalDue())
		}
	}
	collected := decimal.Zero
	for _, leg := range f.receipts.payments {
		collected = collected.Add(leg.Amount)
	}
	credit := collected.Sub(settledDue)

	assert.True(t, outstanding.Equal(pendingDue.Sub(credit)),
		"outstanding %s != pending %s - credit %s", outstanding, pendingDue, credit)
	assert.True(t, outstanding.Equal(d("9900")), "outstanding = %s", outstanding)
}
