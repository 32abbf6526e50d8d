package events

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestBusDispatchesToAllSubscribersOfType(t *testing.T) {
	bus := NewBus()
	var first, second, other int
	bus.Subscribe(EventLedgerChanged, func(context.Context, Event) { first++ })
	bus.Subscribe(EventLedgerChanged, func(context.Context, Event) { second++ })
	bus.Subscribe(EventReceiptPaid, func(context.Context, Event) { other++ })

	bus.Publish(context.Background(), Event{Type: EventLedgerChanged})

	assert.Equal(t, 1, first)
	assert.Equal(t, 1, second)
	assert.Equal(t, 0, other)
}

func TestBusPublishIsSynchronous(t *testing.T) {
	bus := NewBus()
	var got Event
	bus.Subscribe(EventBoxContribution, func(_ context.Context, ev Event) { got = ev })

	date := time.Date(2025, 3, 20, 0, 0, 0, 0, time.UTC)
	customerID := uuid.New()
	bus.Publish(context.Background(), Event{Type: EventBoxContribution, Date: date, CustomerID: customerID})

	// Dispatch happened inline, before Publish returned.
	assert.Equal(t, date, got.Date)
	assert.Equal(t, customerID, got.CustomerID)
}

func TestBusPublishWithoutSubscribersIsNoop(t *testing.T) {
	bus := NewBus()
	assert.NotPanics(t, func() {
		bus.Publish(context.Background(), Event{Type: EventReceiptPaid})
	})
}
