package worker

// notification_worker.go
// Delivers INTEREST_PROCESSED (and future) notifications dequeued from
// QueueNotifications. Delivery goes through the circuit breaker so a downed
// SMTP relay does not pile up goroutines; undeliverable notifications land
// in the DLQ. Billing state is never touched here — delivery failure only
// affects the notification itself.

import (
	"context"
	"encoding/json"
	"fmt"

	"garagemitre/internal/events"
	"garagemitre/internal/infra"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// NotificationWorker processes notification jobs from QueueNotifications.
type NotificationWorker struct {
	mailer *infra.Mailer
	cb     *infra.CircuitBreaker
	rdb    *redis.Client
	// to is the back-office inbox that receives billing notices.
	to string
}

func NewNotificationWorker(mailer *infra.Mailer, cb *infra.CircuitBreaker, rdb *redis.Client, to string) *NotificationWorker {
	return &NotificationWorker{mailer: mailer, cb: cb, rdb: rdb, to: to}
}

// Process delivers one notification.
func (w *NotificationWorker) Process(ctx context.Context, raw json.RawMessage) {
	var n events.Notification
	if err := json.Unmarshal(raw, &n); err != nil {
		log.Error().Err(err).Msg("notification_worker: invalid payload")
		return
	}
	if w.to == "" {
		log.Warn().Msg("notification_worker: no destination configured — skipping")
		return
	}

	subject := fmt.Sprintf("[Garage Mitre] %s — %s", n.Type, n.LastName)
	err := w.cb.Execute(func() error {
		return w.mailer.SendNotification(w.to, subject, n.Message)
	})
	if err != nil {
		log.Error().Err(err).
			Str("type", n.Type).
			Str("customer_id", n.CustomerID.String()).
			Msg("notification_worker: delivery failed")
		SendToDLQ(ctx, w.rdb, QueueNotifications, "notification", raw, err.Error(), 1)
		return
	}
	log.Info().
		Str("type", n.Type).
		Str("customer_id", n.CustomerID.String()).
		Msg("notification_worker: delivered")
}
