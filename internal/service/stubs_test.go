package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"garagemitre/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ── In-memory ReceiptRepository ──────────────────────────────────────────────
// Guarded by a mutex so concurrency tests can hammer it from goroutines.

type stubReceiptRepo struct {
	mu         sync.Mutex
	receipts   map[uuid.UUID]*model.Receipt
	payments   []model.ReceiptPayment
	nextNumber int64
}

func newStubReceiptRepo() *stubReceiptRepo {
	return &stubReceiptRepo{receipts: make(map[uuid.UUID]*model.Receipt)}
}

func (r *stubReceiptRepo) DB() *gorm.DB { return nil }

func (r *stubReceiptRepo) Create(_ context.Context, _ *gorm.DB, rec *model.Receipt) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	clone := *rec
	r.receipts[rec.ID] = &clone
	return nil
}

// FindByID returns a copy, like a real DB read: mutations only land via
// Update.
func (r *stubReceiptRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Receipt, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.receipts[id]
	if !ok {
		return nil, errors.New("not found")
	}
	clone := *rec
	clone.Payments = nil
	for _, p := range r.payments {
		if p.ReceiptID == id {
			clone.Payments = append(clone.Payments, p)
		}
	}
	return &clone, nil
}

func (r *stubReceiptRepo) FindActiveByCustomerAndPeriod(_ context.Context, customerID uuid.UUID, period time.Time) (*model.Receipt, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rec := range r.receipts {
		if rec.CustomerID == customerID && rec.Period.Equal(period) && rec.Status != model.ReceiptStatusCancelled {
			clone := *rec
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *stubReceiptRepo) ListPending(_ context.Context) ([]model.Receipt, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Receipt
	for _, rec := range r.receipts {
		if rec.Status == model.ReceiptStatusPending {
			out = append(out, *rec)
		}
	}
	return out, nil
}

func (r *stubReceiptRepo) ListByCustomer(_ context.Context, customerID uuid.UUID, status string) ([]model.Receipt, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Receipt
	for _, rec := range r.receipts {
		if rec.CustomerID != customerID {
			continue
		}
		if status != "" && rec.Status != status {
			continue
		}
		out = append(out, *rec)
	}
	return out, nil
}

func (r *stubReceiptRepo) ListPaidOnDate(_ context.Context, date time.Time) ([]model.Receipt, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Receipt
	for id, rec := range r.receipts {
		if rec.Status != model.ReceiptStatusPaid || rec.PaymentDate == nil || !rec.PaymentDate.Equal(date) {
			continue
		}
		clone := *rec
		clone.Payments = nil
		for _, p := range r.payments {
			if p.ReceiptID == id {
				clone.Payments = append(clone.Payments, p)
			}
		}
		out = append(out, clone)
	}
	return out, nil
}

func (r *stubReceiptRepo) Update(_ context.Context, _ *gorm.DB, rec *model.Receipt) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.receipts[rec.ID]; !ok {
		return errors.New("not found")
	}
	clone := *rec
	clone.Payments = nil
	r.receipts[rec.ID] = &clone
	return nil
}

func (r *stubReceiptRepo) CreatePayment(_ context.Context, _ *gorm.DB, p *model.ReceiptPayment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.payments = append(r.payments, *p)
	return nil
}

func (r *stubReceiptRepo) NextReceiptNumber(_ context.Context, _ *gorm.DB) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextNumber++
	return r.nextNumber, nil
}

// ── In-memory DebtRepository ─────────────────────────────────────────────────

type stubDebtRepo struct {
	debts []model.MonthDebt
}

func newStubDebtRepo() *stubDebtRepo { return &stubDebtRepo{} }

func (r *stubDebtRepo) DB() *gorm.DB { return nil }

func (r *stubDebtRepo) FindByCustomerAndMonth(_ context.Context, _ *gorm.DB, customerID uuid.UUID, month time.Time) (*model.MonthDebt, error) {
	for i := range r.debts {
		if r.debts[i].CustomerID == customerID && r.debts[i].Month.Equal(month) {
			clone := r.debts[i]
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *stubDebtRepo) ListByCustomer(_ context.Context, _ *gorm.DB, customerID uuid.UUID) ([]model.MonthDebt, error) {
	var out []model.MonthDebt
	for i := range r.debts {
		if r.debts[i].CustomerID == customerID {
			out = append(out, r.debts[i])
		}
	}
	// month ASC, like the SQL ORDER BY
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j].Month.Before(out[j-1].Month); j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out, nil
}

func (r *stubDebtRepo) Save(_ context.Context, _ *gorm.DB, d *model.MonthDebt) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	for i := range r.debts {
		if r.debts[i].CustomerID == d.CustomerID && r.debts[i].Month.Equal(d.Month) {
			r.debts[i] = *d
			return nil
		}
	}
	r.debts = append(r.debts, *d)
	return nil
}

func (r *stubDebtRepo) Delete(_ context.Context, _ *gorm.DB, d *model.MonthDebt) error {
	for i := range r.debts {
		if r.debts[i].CustomerID == d.CustomerID && r.debts[i].Month.Equal(d.Month) {
			r.debts = append(r.debts[:i], r.debts[i+1:]...)
			return nil
		}
	}
	return nil
}

// ── In-memory CustomerRepository ─────────────────────────────────────────────

type stubCustomerRepo struct {
	customers map[uuid.UUID]*model.Customer
}

func newStubCustomerRepo() *stubCustomerRepo {
	return &stubCustomerRepo{customers: make(map[uuid.UUID]*model.Customer)}
}

func (r *stubCustomerRepo) Create(_ context.Context, c *model.Customer) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	clone := *c
	r.customers[c.ID] = &clone
	return nil
}

func (r *stubCustomerRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Customer, error) {
	c, ok := r.customers[id]
	if !ok {
		return nil, errors.New("not found")
	}
	clone := *c
	return &clone, nil
}

func (r *stubCustomerRepo) List(_ context.Context, customerType string) ([]model.Customer, error) {
	var out []model.Customer
	for _, c := range r.customers {
		if customerType != "" && c.Type != customerType {
			continue
		}
		out = append(out, *c)
	}
	return out, nil
}

func (r *stubCustomerRepo) Update(_ context.Context, c *model.Customer) error {
	clone := *c
	r.customers[c.ID] = &clone
	return nil
}

func (r *stubCustomerRepo) AddVehicle(_ context.Context, v *model.Vehicle) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	c, ok := r.customers[v.CustomerID]
	if !ok {
		return errors.New("not found")
	}
	c.Vehicles = append(c.Vehicles, *v)
	return nil
}

// ── In-memory TicketRepository / OtherPaymentRepository ──────────────────────

type stubTicketRepo struct {
	tickets    []model.TicketRegistration
	dayTickets []model.TicketRegistrationForDay
}

func (r *stubTicketRepo) CreateTicket(_ context.Context, t *model.TicketRegistration) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	r.tickets = append(r.tickets, *t)
	return nil
}

func (r *stubTicketRepo) CreateDayTicket(_ context.Context, t *model.TicketRegistrationForDay) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	r.dayTickets = append(r.dayTickets, *t)
	return nil
}

func (r *stubTicketRepo) ListTicketsByDate(_ context.Context, date time.Time) ([]model.TicketRegistration, error) {
	var out []model.TicketRegistration
	for _, t := range r.tickets {
		if t.Date.Equal(date) {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *stubTicketRepo) ListDayTicketsByDate(_ context.Context, date time.Time) ([]model.TicketRegistrationForDay, error) {
	var out []model.TicketRegistrationForDay
	for _, t := range r.dayTickets {
		if t.Date.Equal(date) {
			out = append(out, t)
		}
	}
	return out, nil
}

type stubOtherPaymentRepo struct {
	payments []model.OtherPayment
}

func (r *stubOtherPaymentRepo) Create(_ context.Context, p *model.OtherPayment) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.payments = append(r.payments, *p)
	return nil
}

func (r *stubOtherPaymentRepo) ListByDate(_ context.Context, date time.Time) ([]model.OtherPayment, error) {
	var out []model.OtherPayment
	for _, p := range r.payments {
		if p.Date.Equal(date) {
			out = append(out, p)
		}
	}
	return out, nil
}

// ── In-memory BoxListRepository ──────────────────────────────────────────────

type stubBoxListRepo struct {
	snapshots map[string]*model.BoxList
	upserts   int
}

func newStubBoxListRepo() *stubBoxListRepo {
	return &stubBoxListRepo{snapshots: make(map[string]*model.BoxList)}
}

func (r *stubBoxListRepo) FindByDate(_ context.Context, date time.Time) (*model.BoxList, error) {
	b, ok := r.snapshots[date.Format("2006-01-02")]
	if !ok {
		return nil, nil
	}
	clone := *b
	return &clone, nil
}

func (r *stubBoxListRepo) Upsert(_ context.Context, b *model.BoxList) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	clone := *b
	r.snapshots[b.Date.Format("2006-01-02")] = &clone
	r.upserts++
	return nil
}
