package repository

import (
	"context"
	"time"

	"garagemitre/internal/model"

	"gorm.io/gorm"
)

type OtherPaymentRepository interface {
	Create(ctx context.Context, p *model.OtherPayment) error
	ListByDate(ctx context.Context, date time.Time) ([]model.OtherPayment, error)
}

type otherPaymentRepo struct{ db *gorm.DB }

func NewOtherPaymentRepository(db *gorm.DB) OtherPaymentRepository {
	return &otherPaymentRepo{db: db}
}

func (r *otherPaymentRepo) Create(ctx context.Context, p *model.OtherPayment) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *otherPaymentRepo) ListByDate(ctx context.Context, date time.Time) ([]model.OtherPayment, error) {
	var payments []model.OtherPayment
	err := r.db.WithContext(ctx).Where("date = ?", date).Order("created_at ASC").Find(&payments).Error
	return payments, err
}
