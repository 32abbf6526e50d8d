package dto

import "github.com/shopspring/decimal"

// CreateReceiptRequest opens the billing period for a customer.
// Period uses "YYYY-MM" form.
type CreateReceiptRequest struct {
	CustomerID string          `json:"customer_id" validate:"required,uuid"`
	Period     string          `json:"period" validate:"required"`
	BaseAmount decimal.Decimal `json:"base_amount" validate:"required,gt=0"`
}

// PaymentLeg is one (method, amount) component of a payment.
type PaymentLeg struct {
	Method string          `json:"method" validate:"required,oneof=EFECTIVO TRANSFERENCIA DEBITO CREDITO"`
	Amount decimal.Decimal `json:"amount" validate:"required,gt=0"`
}

// PayReceiptRequest applies one or more payment legs to a receipt.
// OnAccount permits partial settlement; the remainder stays in the ledger.
type PayReceiptRequest struct {
	Legs      []PaymentLeg `json:"legs" validate:"required,min=1,dive"`
	OnAccount bool         `json:"on_account"`
}

type PaymentLegResponse struct {
	Method string          `json:"method"`
	Amount decimal.Decimal `json:"amount"`
}

type ReceiptResponse struct {
	ID              string               `json:"id"`
	CustomerID      string               `json:"customer_id"`
	Period          string               `json:"period"`
	BaseAmount      decimal.Decimal      `json:"base_amount"`
	AccruedInterest decimal.Decimal      `json:"accrued_interest"`
	TotalDue        decimal.Decimal      `json:"total_due"`
	Status          string               `json:"status"`
	PaymentDate     *string              `json:"payment_date,omitempty"`
	Barcode         *string              `json:"barcode,omitempty"`
	ReceiptNumber   int64                `json:"receipt_number"`
	Payments        []PaymentLegResponse `json:"payments,omitempty"`
}

// MonthDebtResponse is one outstanding-month entry of a customer's ledger.
type MonthDebtResponse struct {
	Month  string          `json:"month"`
	Amount decimal.Decimal `json:"amount"`
}

type DebtListResponse struct {
	CustomerID string              `json:"customer_id"`
	Total      decimal.Decimal     `json:"total"`
	Months     []MonthDebtResponse `json:"months"`
}
