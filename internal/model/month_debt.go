package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MonthDebt is one entry in the per-customer debt ledger: the unpaid
// remainder for a month after any partial payment. Amount is never negative;
// a fully settled month is deleted, not zeroed.
//
// Ledger invariant: sum(MonthDebt.Amount) for a customer equals the sum of
// base_amount + accrued_interest over that customer's PENDING receipts minus
// amounts already credited on account.
type MonthDebt struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CustomerID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_month_debts_customer_month,priority:1"`
	// Month is the first day of the owed month (UTC midnight).
	Month     time.Time       `gorm:"type:date;not null;uniqueIndex:idx_month_debts_customer_month,priority:2"`
	Amount    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
