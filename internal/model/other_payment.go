package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Other-payment types. Sign convention for the box list: INGRESOS adds,
// EGRESOS subtracts.
const (
	OtherPaymentIngresos = "INGRESOS"
	OtherPaymentEgresos  = "EGRESOS"
)

// OtherPayment is a miscellaneous income or expense entry outside the
// ticket/receipt flows (e.g. supplies bought from the register).
type OtherPayment struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Description string          `gorm:"not null"`
	Price       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	// Type: "INGRESOS" | "EGRESOS"
	Type      string    `gorm:"type:varchar(10);not null"`
	Date      time.Time `gorm:"type:date;not null;index"`
	CreatedAt time.Time
}

// SignedAmount returns the box-list contribution of the entry.
func (p *OtherPayment) SignedAmount() decimal.Decimal {
	if p.Type == OtherPaymentEgresos {
		return p.Price.Neg()
	}
	return p.Price
}
