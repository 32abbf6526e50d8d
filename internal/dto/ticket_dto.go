package dto

import "github.com/shopspring/decimal"

// RegisterTicketRequest records a priced entry/exit parking ticket.
// Times use RFC 3339; Date is the box-list day in "YYYY-MM-DD" form.
type RegisterTicketRequest struct {
	LicensePlate string          `json:"license_plate" validate:"required"`
	EntryTime    string          `json:"entry_time" validate:"required"`
	ExitTime     *string         `json:"exit_time"`
	Price        decimal.Decimal `json:"price" validate:"required,gt=0"`
	Date         string          `json:"date" validate:"required"`
}

// RegisterDayTicketRequest records a flat daily-rate registration.
type RegisterDayTicketRequest struct {
	LicensePlate string          `json:"license_plate" validate:"required"`
	Price        decimal.Decimal `json:"price" validate:"required,gt=0"`
	Date         string          `json:"date" validate:"required"`
}

// OtherPaymentRequest records a miscellaneous income/expense entry.
type OtherPaymentRequest struct {
	Description string          `json:"description" validate:"required"`
	Price       decimal.Decimal `json:"price" validate:"required,gt=0"`
	Type        string          `json:"type" validate:"required,oneof=INGRESOS EGRESOS"`
	Date        string          `json:"date" validate:"required"`
}
