package service

import (
	"context"

	"garagemitre/internal/apierror"
	"garagemitre/internal/dto"
	"garagemitre/internal/model"
	"garagemitre/internal/repository"

	"github.com/google/uuid"
)

// CustomerService is the thin CRUD surface over customer reference data.
// Billing never mutates customers; it only reads them.
type CustomerService interface {
	Create(ctx context.Context, req dto.CreateCustomerRequest) (*dto.CustomerResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.CustomerResponse, error)
	List(ctx context.Context, customerType string) ([]dto.CustomerResponse, error)
	AddVehicle(ctx context.Context, customerID uuid.UUID, req dto.AddVehicleRequest) (*dto.VehicleResponse, error)
}

type customerService struct {
	repo repository.CustomerRepository
}

func NewCustomerService(repo repository.CustomerRepository) CustomerService {
	return &customerService{repo: repo}
}

func (s *customerService) Create(ctx context.Context, req dto.CreateCustomerRequest) (*dto.CustomerResponse, error) {
	customer := &model.Customer{
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		DocumentNumber: req.DocumentNumber,
		Address:        req.Address,
		Phone:          req.Phone,
		Email:          req.Email,
		Type:           req.Type,
		MonthlyRate:    req.MonthlyRate,
		Active:         true,
	}
	if err := s.repo.Create(ctx, customer); err != nil {
		return nil, err
	}
	return customerToResponse(customer), nil
}

func (s *customerService) Get(ctx context.Context, id uuid.UUID) (*dto.CustomerResponse, error) {
	customer, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apierror.NotFound("cliente no encontrado")
	}
	return customerToResponse(customer), nil
}

func (s *customerService) List(ctx context.Context, customerType string) ([]dto.CustomerResponse, error) {
	customers, err := s.repo.List(ctx, customerType)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CustomerResponse, 0, len(customers))
	for i := range customers {
		out = append(out, *customerToResponse(&customers[i]))
	}
	return out, nil
}

func (s *customerService) AddVehicle(ctx context.Context, customerID uuid.UUID, req dto.AddVehicleRequest) (*dto.VehicleResponse, error) {
	if _, err := s.repo.FindByID(ctx, customerID); err != nil {
		return nil, apierror.NotFound("cliente no encontrado")
	}
	v := &model.Vehicle{
		CustomerID:   customerID,
		LicensePlate: req.LicensePlate,
		Brand:        req.Brand,
		Color:        req.Color,
		ParkingSpot:  req.ParkingSpot,
	}
	if err := s.repo.AddVehicle(ctx, v); err != nil {
		return nil, err
	}
	return vehicleToResponse(v), nil
}

func customerToResponse(c *model.Customer) *dto.CustomerResponse {
	resp := &dto.CustomerResponse{
		ID:          c.ID.String(),
		FirstName:   c.FirstName,
		LastName:    c.LastName,
		Type:        c.Type,
		MonthlyRate: c.MonthlyRate,
		Active:      c.Active,
	}
	for i := range c.Vehicles {
		resp.Vehicles = append(resp.Vehicles, *vehicleToResponse(&c.Vehicles[i]))
	}
	return resp
}

func vehicleToResponse(v *model.Vehicle) *dto.VehicleResponse {
	return &dto.VehicleResponse{
		ID:           v.ID.String(),
		LicensePlate: v.LicensePlate,
		Brand:        v.Brand,
		Color:        v.Color,
		ParkingSpot:  v.ParkingSpot,
	}
}
