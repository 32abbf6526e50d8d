package dto

import "github.com/shopspring/decimal"

// BoxListEntry is one contributing record of a daily aggregate, with its
// signed amount as it enters the total.
type BoxListEntry struct {
	Kind        string          `json:"kind"` // ticket | ticket_day | receipt | other_payment
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
}

// BoxListResponse is the daily cash-register aggregation for one date.
type BoxListResponse struct {
	Date         string          `json:"date"`
	TotalPrice   decimal.Decimal `json:"total_price"`
	Entries      []BoxListEntry  `json:"entries"`
	RecomputedAt string          `json:"recomputed_at"`
}
