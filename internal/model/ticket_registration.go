package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TicketRegistration is a priced entry/exit parking ticket. Income
// contributor to the daily box list.
type TicketRegistration struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	LicensePlate string    `gorm:"type:varchar(15);not null"`
	EntryTime    time.Time `gorm:"not null"`
	ExitTime     *time.Time
	Price        decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	// Date is the box-list day the ticket belongs to (UTC midnight).
	Date      time.Time `gorm:"type:date;not null;index"`
	CreatedAt time.Time
}

// TicketRegistrationForDay is a flat daily-rate registration (no entry/exit
// pricing). Income contributor to the daily box list.
type TicketRegistrationForDay struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	LicensePlate string          `gorm:"type:varchar(15);not null"`
	Price        decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Date         time.Time       `gorm:"type:date;not null;index"`
	CreatedAt    time.Time
}
