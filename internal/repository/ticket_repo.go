package repository

import (
	"context"
	"time"

	"garagemitre/internal/model"

	"gorm.io/gorm"
)

type TicketRepository interface {
	CreateTicket(ctx context.Context, t *model.TicketRegistration) error
	CreateDayTicket(ctx context.Context, t *model.TicketRegistrationForDay) error
	ListTicketsByDate(ctx context.Context, date time.Time) ([]model.TicketRegistration, error)
	ListDayTicketsByDate(ctx context.Context, date time.Time) ([]model.TicketRegistrationForDay, error)
}

type ticketRepo struct{ db *gorm.DB }

func NewTicketRepository(db *gorm.DB) TicketRepository { return &ticketRepo{db: db} }

func (r *ticketRepo) CreateTicket(ctx context.Context, t *model.TicketRegistration) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *ticketRepo) CreateDayTicket(ctx context.Context, t *model.TicketRegistrationForDay) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *ticketRepo) ListTicketsByDate(ctx context.Context, date time.Time) ([]model.TicketRegistration, error) {
	var tickets []model.TicketRegistration
	err := r.db.WithContext(ctx).Where("date = ?", date).Order("created_at ASC").Find(&tickets).Error
	return tickets, err
}

func (r *ticketRepo) ListDayTicketsByDate(ctx context.Context, date time.Time) ([]model.TicketRegistrationForDay, error) {
	var tickets []model.TicketRegistrationForDay
	err := r.db.WithContext(ctx).Where("date = ?", date).Order("created_at ASC").Find(&tickets).Error
	return tickets, err
}
