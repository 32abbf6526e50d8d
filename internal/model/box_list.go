package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BoxList is the daily cash-register aggregate: the signed sum of every
// monetary event for one calendar day. It is a derived view, not a ledger —
// it is recomputed from the source tables whenever a contributor changes,
// and the recomputed value always wins over the cached one.
type BoxList struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Date         time.Time       `gorm:"type:date;not null;uniqueIndex"`
	TotalPrice   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	RecomputedAt time.Time       `gorm:"not null"`
	CreatedAt    time.Time
}
