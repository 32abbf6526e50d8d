package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Receipt statuses. PAID and CANCELLED are terminal — no backward transitions.
const (
	ReceiptStatusPending   = "PENDING"
	ReceiptStatusPaid      = "PAID"
	ReceiptStatusCancelled = "CANCELLED"
)

// Payment leg methods.
const (
	PaymentMethodEfectivo      = "EFECTIVO"
	PaymentMethodTransferencia = "TRANSFERENCIA"
	PaymentMethodDebito        = "DEBITO"
	PaymentMethodCredito       = "CREDITO"
)

// Receipt is one billing record per customer per calendar period.
// Invariants: exactly one non-cancelled receipt per (customer_id, period);
// accrued_interest only grows while PENDING and is frozen once PAID or
// CANCELLED. Receipts are never hard-deleted — cancellation is a status.
type Receipt struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CustomerID uuid.UUID `gorm:"type:uuid;index;not null"`
	// Period is the first day of the billed month (UTC midnight).
	Period          time.Time       `gorm:"type:date;not null;index:idx_receipts_customer_period,priority:2"`
	BaseAmount      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	AccruedInterest decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	// Status: "PENDING" | "PAID" | "CANCELLED"
	Status        string     `gorm:"type:varchar(10);not null;default:'PENDING';index"`
	PaymentDate   *time.Time `gorm:"type:date"`
	Barcode       *string    `gorm:"type:varchar(40)"`
	ReceiptNumber int64      `gorm:"not null;uniqueIndex"`
	// LastAccrualTrigger marks the most recent interest trigger date applied
	// to this receipt. Re-running the scheduler for the same trigger is a no-op.
	LastAccrualTrigger *time.Time `gorm:"type:date"`
	CreatedAt          time.Time
	UpdatedAt          time.Time

	Customer *Customer        `gorm:"foreignKey:CustomerID"`
	Payments []ReceiptPayment `gorm:"foreignKey:ReceiptID"`
}

// TotalDue is the full amount required to settle the receipt.
func (r *Receipt) TotalDue() decimal.Decimal {
	return r.BaseAmount.Add(r.AccruedInterest)
}

// ReceiptPayment is one payment leg applied to a receipt. Legs are immutable
// once recorded.
type ReceiptPayment struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ReceiptID uuid.UUID `gorm:"type:uuid;index;not null"`
	// Method: "EFECTIVO" | "TRANSFERENCIA" | "DEBITO" | "CREDITO"
	Method    string          `gorm:"type:varchar(20);not null"`
	Amount    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CreatedAt time.Time
}
