package repository

import (
	"context"
	"errors"
	"time"

	"garagemitre/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DebtRepository interface {
	DB() *gorm.DB
	// FindByCustomerAndMonth returns nil (no error) when no debt exists.
	FindByCustomerAndMonth(ctx context.Context, tx *gorm.DB, customerID uuid.UUID, month time.Time) (*model.MonthDebt, error)
	// ListByCustomer returns the customer's outstanding months ascending —
	// the order on-account credit is settled in. Pass a transaction handle
	// to read inside an open mutation, or nil for a plain read.
	ListByCustomer(ctx context.Context, tx *gorm.DB, customerID uuid.UUID) ([]model.MonthDebt, error)
	Save(ctx context.Context, tx *gorm.DB, d *model.MonthDebt) error
	Delete(ctx context.Context, tx *gorm.DB, d *model.MonthDebt) error
}

type debtRepo struct{ db *gorm.DB }

func NewDebtRepository(db *gorm.DB) DebtRepository { return &debtRepo{db: db} }

func (r *debtRepo) DB() *gorm.DB { return r.db }

func (r *debtRepo) FindByCustomerAndMonth(ctx context.Context, tx *gorm.DB, customerID uuid.UUID, month time.Time) (*model.MonthDebt, error) {
	if tx == nil {
		tx = r.db
	}
	var d model.MonthDebt
	err := tx.WithContext(ctx).
		Where("customer_id = ? AND month = ?", customerID, month).
		First(&d).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *debtRepo) ListByCustomer(ctx context.Context, tx *gorm.DB, customerID uuid.UUID) ([]model.MonthDebt, error) {
	if tx == nil {
		tx = r.db
	}
	var debts []model.MonthDebt
	err := tx.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("month ASC").
		Find(&debts).Error
	return debts, err
}

func (r *debtRepo) Save(ctx context.Context, tx *gorm.DB, d *model.MonthDebt) error {
	if tx == nil {
		tx = r.db
	}
	return tx.WithContext(ctx).Save(d).Error
}

func (r *debtRepo) Delete(ctx context.Context, tx *gorm.DB, d *model.MonthDebt) error {
	if tx == nil {
		tx = r.db
	}
	return tx.WithContext(ctx).Delete(d).Error
}
