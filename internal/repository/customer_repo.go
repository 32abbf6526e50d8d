package repository

import (
	"context"

	"garagemitre/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CustomerRepository interface {
	Create(ctx context.Context, c *model.Customer) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Customer, error)
	List(ctx context.Context, customerType string) ([]model.Customer, error)
	Update(ctx context.Context, c *model.Customer) error
	AddVehicle(ctx context.Context, v *model.Vehicle) error
}

type customerRepo struct{ db *gorm.DB }

func NewCustomerRepository(db *gorm.DB) CustomerRepository { return &customerRepo{db: db} }

func (r *customerRepo) Create(ctx context.Context, c *model.Customer) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *customerRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Customer, error) {
	var c model.Customer
	err := r.db.WithContext(ctx).Preload("Vehicles").First(&c, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *customerRepo) List(ctx context.Context, customerType string) ([]model.Customer, error) {
	var customers []model.Customer
	q := r.db.WithContext(ctx).Preload("Vehicles").Where("active = true")
	if customerType != "" {
		q = q.Where("type = ?", customerType)
	}
	err := q.Order("last_name ASC").Find(&customers).Error
	return customers, err
}

func (r *customerRepo) Update(ctx context.Context, c *model.Customer) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *customerRepo) AddVehicle(ctx context.Context, v *model.Vehicle) error {
	return r.db.WithContext(ctx).Create(v).Error
}
