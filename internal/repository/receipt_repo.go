package repository

import (
	"context"
	"errors"
	"time"

	"garagemitre/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReceiptRepository interface {
	// DB exposes the underlying handle so services can open transactions.
	// Returns nil in unit tests backed by in-memory stubs.
	DB() *gorm.DB
	Create(ctx context.Context, tx *gorm.DB, r *model.Receipt) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Receipt, error)
	// FindActiveByCustomerAndPeriod returns the non-cancelled receipt for
	// (customer, period), or nil when none exists.
	FindActiveByCustomerAndPeriod(ctx context.Context, customerID uuid.UUID, period time.Time) (*model.Receipt, error)
	ListPending(ctx context.Context) ([]model.Receipt, error)
	ListByCustomer(ctx context.Context, customerID uuid.UUID, status string) ([]model.Receipt, error)
	ListPaidOnDate(ctx context.Context, date time.Time) ([]model.Receipt, error)
	Update(ctx context.Context, tx *gorm.DB, r *model.Receipt) error
	CreatePayment(ctx context.Context, tx *gorm.DB, p *model.ReceiptPayment) error
	// NextReceiptNumber draws from a PostgreSQL sequence for atomic,
	// monotonic receipt numbering.
	NextReceiptNumber(ctx context.Context, tx *gorm.DB) (int64, error)
}

type receiptRepo struct{ db *gorm.DB }

func NewReceiptRepository(db *gorm.DB) ReceiptRepository { return &receiptRepo{db: db} }

func (r *receiptRepo) DB() *gorm.DB { return r.db }

func (r *receiptRepo) Create(ctx context.Context, tx *gorm.DB, rec *model.Receipt) error {
	return tx.WithContext(ctx).Create(rec).Error
}

func (r *receiptRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Receipt, error) {
	var rec model.Receipt
	err := r.db.WithContext(ctx).Preload("Payments").Preload("Customer").First(&rec, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *receiptRepo) FindActiveByCustomerAndPeriod(ctx context.Context, customerID uuid.UUID, period time.Time) (*model.Receipt, error) {
	var rec model.Receipt
	err := r.db.WithContext(ctx).
		Where("customer_id = ? AND period = ? AND status <> ?", customerID, period, model.ReceiptStatusCancelled).
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *receiptRepo) ListPending(ctx context.Context) ([]model.Receipt, error) {
	var recs []model.Receipt
	err := r.db.WithContext(ctx).Preload("Customer").
		Where("status = ?", model.ReceiptStatusPending).
		Order("period ASC, receipt_number ASC").
		Find(&recs).Error
	return recs, err
}

func (r *receiptRepo) ListByCustomer(ctx context.Context, customerID uuid.UUID, status string) ([]model.Receipt, error) {
	var recs []model.Receipt
	q := r.db.WithContext(ctx).Preload("Payments").Where("customer_id = ?", customerID)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	err := q.Order("period ASC").Find(&recs).Error
	return recs, err
}

func (r *receiptRepo) ListPaidOnDate(ctx context.Context, date time.Time) ([]model.Receipt, error) {
	var recs []model.Receipt
	err := r.db.WithContext(ctx).Preload("Payments").
		Where("status = ? AND payment_date = ?", model.ReceiptStatusPaid, date).
		Find(&recs).Error
	return recs, err
}

func (r *receiptRepo) Update(ctx context.Context, tx *gorm.DB, rec *model.Receipt) error {
	return tx.WithContext(ctx).Save(rec).Error
}

func (r *receiptRepo) CreatePayment(ctx context.Context, tx *gorm.DB, p *model.ReceiptPayment) error {
	return tx.WithContext(ctx).Create(p).Error
}

func (r *receiptRepo) NextReceiptNumber(ctx context.Context, tx *gorm.DB) (int64, error) {
	var num int64
	err := tx.WithContext(ctx).Raw("SELECT nextval('receipts_receipt_number_seq')").Scan(&num).Error
	return num, err
}
