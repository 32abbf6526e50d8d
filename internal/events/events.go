// Package events carries the billing core's internal event types: the
// in-process bus that drives box-list recomputation and the fire-and-forget
// notification channel consumed by the external transport.
package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// In-process event types. Consumed by the box-list aggregator's
// invalidation path.
const (
	EventLedgerChanged   = "ledger_changed"
	EventReceiptPaid     = "receipt_paid"
	EventBoxContribution = "box_contribution"
)

// Notification event types published to the external transport.
const (
	NotificationInterestProcessed = "INTEREST_PROCESSED"
)

// Event is the envelope published on the in-process bus. Date is the
// box-list day affected by the change.
type Event struct {
	Type       string
	Date       time.Time
	CustomerID uuid.UUID
}

// Notification is the single side-channel output of the billing core.
// Delivery is at-least-once and fire-and-forget: a failed publish is logged
// and never rolls back the state change that produced it.
type Notification struct {
	Type         string    `json:"type"`
	CustomerID   uuid.UUID `json:"customer_id"`
	LastName     string    `json:"last_name"`
	CustomerType string    `json:"customer_type"`
	Message      string    `json:"message"`
}

// Publisher sends notifications to the external transport.
type Publisher interface {
	Publish(ctx context.Context, n Notification) error
}
