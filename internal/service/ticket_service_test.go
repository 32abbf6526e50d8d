package service

import (
	"context"
	"testing"
	"time"

	"garagemitre/internal/apierror"
	"garagemitre/internal/dto"
	"garagemitre/internal/events"
	"garagemitre/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterTicketPublishesContribution(t *testing.T) {
	tickets := &stubTicketRepo{}
	others := &stubOtherPaymentRepo{}
	bus := events.NewBus()
	svc := NewTicketService(tickets, others, bus)

	var published []events.Event
	bus.Subscribe(events.EventBoxContribution, func(_ context.Context, ev events.Event) {
		published = append(published, ev)
	})

	ticket, err := svc.RegisterTicket(context.Background(), dto.RegisterTicketRequest{
		LicensePlate: "AB123CD",
		EntryTime:    "2025-03-20T09:00:00Z",
		Price:        d("500"),
		Date:         "2025-03-20",
	})
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 3, 20, 0, 0, 0, 0, time.UTC), ticket.Date)
	require.Len(t, published, 1)
	assert.Equal(t, ticket.Date, published[0].Date)
}

func TestRegisterTicketRejectsMalformedInput(t *testing.T) {
	svc := NewTicketService(&stubTicketRepo{}, &stubOtherPaymentRepo{}, events.NewBus())
	ctx := context.Background()

	_, err := svc.RegisterTicket(ctx, dto.RegisterTicketRequest{
		LicensePlate: "AB123CD", EntryTime: "ayer", Price: d("500"), Date: "2025-03-20",
	})
	assert.True(t, apierror.IsCode(err, apierror.CodeValidation))

	_, err = svc.RegisterTicket(ctx, dto.RegisterTicketRequest{
		LicensePlate: "AB123CD", EntryTime: "2025-03-20T09:00:00Z", Price: d("500"), Date: "20/03/2025",
	})
	assert.True(t, apierror.IsCode(err, apierror.CodeValidation))
}

func TestRegisterOtherPaymentKeepsSignConvention(t *testing.T) {
	others := &stubOtherPaymentRepo{}
	svc := NewTicketService(&stubTicketRepo{}, others, events.NewBus())

	p, err := svc.RegisterOtherPayment(context.Background(), dto.OtherPaymentRequest{
		Description: "Compra de insumos",
		Price:       d("200"),
		Type:        model.OtherPaymentEgresos,
		Date:        "2025-03-20",
	})
	require.NoError(t, err)
	assert.True(t, p.SignedAmount().Equal(d("-200")))
}
