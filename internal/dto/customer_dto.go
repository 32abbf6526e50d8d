package dto

import "github.com/shopspring/decimal"

type CreateCustomerRequest struct {
	FirstName      string          `json:"first_name" validate:"required"`
	LastName       string          `json:"last_name" validate:"required"`
	DocumentNumber *string         `json:"document_number"`
	Address        *string         `json:"address"`
	Phone          *string         `json:"phone"`
	Email          *string         `json:"email"`
	Type           string          `json:"type" validate:"required,oneof=OWNER RENTER PRIVATE"`
	MonthlyRate    decimal.Decimal `json:"monthly_rate" validate:"required,gt=0"`
}

type AddVehicleRequest struct {
	LicensePlate string  `json:"license_plate" validate:"required"`
	Brand        *string `json:"brand"`
	Color        *string `json:"color"`
	ParkingSpot  *string `json:"parking_spot"`
}

type VehicleResponse struct {
	ID           string  `json:"id"`
	LicensePlate string  `json:"license_plate"`
	Brand        *string `json:"brand,omitempty"`
	Color        *string `json:"color,omitempty"`
	ParkingSpot  *string `json:"parking_spot,omitempty"`
}

type CustomerResponse struct {
	ID          string            `json:"id"`
	FirstName   string            `json:"first_name"`
	LastName    string            `json:"last_name"`
	Type        string            `json:"type"`
	MonthlyRate decimal.Decimal   `json:"monthly_rate"`
	Active      bool              `json:"active"`
	Vehicles    []VehicleResponse `json:"vehicles,omitempty"`
}
