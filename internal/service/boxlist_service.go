package service

import (
	"context"
	"fmt"
	"time"

	"garagemitre/internal/clock"
	"garagemitre/internal/dto"
	"garagemitre/internal/events"
	"garagemitre/internal/model"
	"garagemitre/internal/repository"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// BoxListService produces the daily cash-register aggregate. It holds no
// authoritative state: every recompute re-reads the source tables and
// overwrites the cached snapshot (last writer wins, no merge). It never
// mutates billing state.
type BoxListService interface {
	Recompute(ctx context.Context, date time.Time) (*model.BoxList, error)
	Get(ctx context.Context, date time.Time) (*dto.BoxListResponse, error)
}

type boxListService struct {
	tickets  repository.TicketRepository
	others   repository.OtherPaymentRepository
	receipts repository.ReceiptRepository
	boxLists repository.BoxListRepository
	clk      clock.Clock
}

func NewBoxListService(
	tickets repository.TicketRepository,
	others repository.OtherPaymentRepository,
	receipts repository.ReceiptRepository,
	boxLists repository.BoxListRepository,
	clk clock.Clock,
) BoxListService {
	return &boxListService{
		tickets:  tickets,
		others:   others,
		receipts: receipts,
		boxLists: boxLists,
		clk:      clk,
	}
}

// SubscribeBoxList wires the aggregator's invalidation path: any billing
// mutation for a date triggers a recompute of that date's snapshot.
// Recompute failures are logged — the snapshot stays stale until the next
// event or an explicit recompute, and the mutation itself is unaffected.
func SubscribeBoxList(bus *events.Bus, svc BoxListService) {
	handler := func(ctx context.Context, ev events.Event) {
		if _, err := svc.Recompute(ctx, ev.Date); err != nil {
			log.Error().Err(err).
				Str("event", ev.Type).
				Str("date", ev.Date.Format("2006-01-02")).
				Msg("box list: recompute failed")
		}
	}
	bus.Subscribe(events.EventLedgerChanged, handler)
	bus.Subscribe(events.EventReceiptPaid, handler)
	bus.Subscribe(events.EventBoxContribution, handler)
}

// ── Recompute ─────────────────────────────────────────────────────────────────

func (s *boxListService) Recompute(ctx context.Context, date time.Time) (*model.BoxList, error) {
	date = clock.DateOnly(date)

	_, total, err := s.collect(ctx, date)
	if err != nil {
		return nil, err
	}

	snapshot := &model.BoxList{
		Date:         date,
		TotalPrice:   total,
		RecomputedAt: s.clk.Now(),
	}
	if err := s.boxLists.Upsert(ctx, snapshot); err != nil {
		return nil, err
	}
	return snapshot, nil
}

// ── Get ───────────────────────────────────────────────────────────────────────

func (s *boxListService) Get(ctx context.Context, date time.Time) (*dto.BoxListResponse, error) {
	date = clock.DateOnly(date)

	snapshot, err := s.boxLists.FindByDate(ctx, date)
	if err != nil {
		return nil, err
	}
	// Created lazily the first time the date is asked for.
	if snapshot == nil {
		snapshot, err = s.Recompute(ctx, date)
		if err != nil {
			return nil, err
		}
	}

	entries, _, err := s.collect(ctx, date)
	if err != nil {
		return nil, err
	}
	return &dto.BoxListResponse{
		Date:         date.Format("2006-01-02"),
		TotalPrice:   snapshot.TotalPrice,
		Entries:      entries,
		RecomputedAt: snapshot.RecomputedAt.Format(time.RFC3339),
	}, nil
}

// collect re-reads every contributor for the date and returns the signed
// entry list plus its arithmetic sum. Ticket, day-rate, and receipt payments
// enter as income; other payments carry their own sign (EGRESOS subtracts).
func (s *boxListService) collect(ctx context.Context, date time.Time) ([]dto.BoxListEntry, decimal.Decimal, error) {
	total := decimal.Zero
	var entries []dto.BoxListEntry

	tickets, err := s.tickets.ListTicketsByDate(ctx, date)
	if err != nil {
		return nil, decimal.Zero, err
	}
	for _, t := range tickets {
		total = total.Add(t.Price)
		entries = append(entries, dto.BoxListEntry{
			Kind:        "ticket",
			Description: fmt.Sprintf("Ticket %s", t.LicensePlate),
			Amount:      t.Price,
		})
	}

	dayTickets, err := s.tickets.ListDayTicketsByDate(ctx, date)
	if err != nil {
		return nil, decimal.Zero, err
	}
	for _, t := range dayTickets {
		total = total.Add(t.Price)
		entries = append(entries, dto.BoxListEntry{
			Kind:        "ticket_day",
			Description: fmt.Sprintf("Estadía por día %s", t.LicensePlate),
			Amount:      t.Price,
		})
	}

	paid, err := s.receipts.ListPaidOnDate(ctx, date)
	if err != nil {
		return nil, decimal.Zero, err
	}
	for i := range paid {
		r := &paid[i]
		// A receipt contributes what was actually collected that day:
		// the sum of its payment legs, not its nominal total.
		collected := decimal.Zero
		for _, leg := range r.Payments {
			collected = collected.Add(leg.Amount)
		}
		total = total.Add(collected)
		entries = append(entries, dto.BoxListEntry{
			Kind:        "receipt",
			Description: fmt.Sprintf("Recibo N° %d", r.ReceiptNumber),
			Amount:      collected,
		})
	}

	others, err := s.others.ListByDate(ctx, date)
	if err != nil {
		return nil, decimal.Zero, err
	}
	for i := range others {
		p := &others[i]
		signed := p.SignedAmount()
		total = total.Add(signed)
		entries = append(entries, dto.BoxListEntry{
			Kind:        "other_payment",
			Description: p.Description,
			Amount:      signed,
		})
	}

	return entries, total, nil
}
