package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Customer types. Interest rate selection depends on this value.
const (
	CustomerTypeOwner   = "OWNER"
	CustomerTypeRenter  = "RENTER"
	CustomerTypePrivate = "PRIVATE"
)

// Customer is a parking/property client. The billing core treats it as
// reference data: mutations happen through the CRUD surface, never from
// the scheduler or the ledger.
type Customer struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	FirstName      string    `gorm:"not null"`
	LastName       string    `gorm:"not null;index"`
	DocumentNumber *string   `gorm:"type:varchar(20)"`
	Address        *string
	Phone          *string `gorm:"type:varchar(30)"`
	Email          *string
	// Type: "OWNER" | "RENTER" | "PRIVATE"
	Type        string          `gorm:"type:varchar(10);not null"`
	MonthlyRate decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Active      bool            `gorm:"not null;default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Vehicles []Vehicle `gorm:"foreignKey:CustomerID"`
	Receipts []Receipt `gorm:"foreignKey:CustomerID"`
}

// Vehicle belongs to a customer and occupies a parking spot.
type Vehicle struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CustomerID   uuid.UUID `gorm:"type:uuid;index;not null"`
	LicensePlate string    `gorm:"type:varchar(15);not null;index"`
	Brand        *string
	Color        *string
	ParkingSpot  *string `gorm:"type:varchar(10)"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
