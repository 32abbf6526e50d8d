package service

import (
	"context"
	"time"

	"garagemitre/internal/apierror"
	"garagemitre/internal/clock"
	"garagemitre/internal/dto"
	"garagemitre/internal/events"
	"garagemitre/internal/model"
	"garagemitre/internal/repository"
)

// TicketService records the box-list contributors that arrive from the
// register: priced entry/exit tickets, flat day-rate stays, and
// miscellaneous income/expense entries.
type TicketService interface {
	RegisterTicket(ctx context.Context, req dto.RegisterTicketRequest) (*model.TicketRegistration, error)
	RegisterDayTicket(ctx context.Context, req dto.RegisterDayTicketRequest) (*model.TicketRegistrationForDay, error)
	RegisterOtherPayment(ctx context.Context, req dto.OtherPaymentRequest) (*model.OtherPayment, error)
}

type ticketService struct {
	tickets repository.TicketRepository
	others  repository.OtherPaymentRepository
	bus     *events.Bus
}

func NewTicketService(tickets repository.TicketRepository, others repository.OtherPaymentRepository, bus *events.Bus) TicketService {
	return &ticketService{tickets: tickets, others: others, bus: bus}
}

func (s *ticketService) RegisterTicket(ctx context.Context, req dto.RegisterTicketRequest) (*model.TicketRegistration, error) {
	date, err := parseDate(req.Date)
	if err != nil {
		return nil, apierror.Validation("fecha inválida, se espera YYYY-MM-DD")
	}
	entry, err := time.Parse(time.RFC3339, req.EntryTime)
	if err != nil {
		return nil, apierror.Validation("hora de entrada inválida, se espera RFC 3339")
	}
	var exit *time.Time
	if req.ExitTime != nil {
		t, err := time.Parse(time.RFC3339, *req.ExitTime)
		if err != nil {
			return nil, apierror.Validation("hora de salida inválida, se espera RFC 3339")
		}
		exit = &t
	}

	ticket := &model.TicketRegistration{
		LicensePlate: req.LicensePlate,
		EntryTime:    entry,
		ExitTime:     exit,
		Price:        req.Price,
		Date:         date,
	}
	if err := s.tickets.CreateTicket(ctx, ticket); err != nil {
		return nil, err
	}
	s.publishContribution(ctx, date)
	return ticket, nil
}

func (s *ticketService) RegisterDayTicket(ctx context.Context, req dto.RegisterDayTicketRequest) (*model.TicketRegistrationForDay, error) {
	date, err := parseDate(req.Date)
	if err != nil {
		return nil, apierror.Validation("fecha inválida, se espera YYYY-MM-DD")
	}
	ticket := &model.TicketRegistrationForDay{
		LicensePlate: req.LicensePlate,
		Price:        req.Price,
		Date:         date,
	}
	if err := s.tickets.CreateDayTicket(ctx, ticket); err != nil {
		return nil, err
	}
	s.publishContribution(ctx, date)
	return ticket, nil
}

func (s *ticketService) RegisterOtherPayment(ctx context.Context, req dto.OtherPaymentRequest) (*model.OtherPayment, error) {
	date, err := parseDate(req.Date)
	if err != nil {
		return nil, apierror.Validation("fecha inválida, se espera YYYY-MM-DD")
	}
	payment := &model.OtherPayment{
		Description: req.Description,
		Price:       req.Price,
		Type:        req.Type,
		Date:        date,
	}
	if err := s.others.Create(ctx, payment); err != nil {
		return nil, err
	}
	s.publishContribution(ctx, date)
	return payment, nil
}

func (s *ticketService) publishContribution(ctx context.Context, date time.Time) {
	s.bus.Publish(ctx, events.Event{Type: events.EventBoxContribution, Date: date})
}

func parseDate(s string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, err
	}
	return clock.DateOnly(t), nil
}
