package worker

import (
	"context"
	"encoding/json"
	"time"

	"garagemitre/internal/events"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const QueueNotifications = "jobs:notifications"

// Job is the generic envelope for all async tasks.
type Job struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Dispatcher enqueues async jobs into Redis lists. The worker pool dequeues
// them via BRPOP. It is the production implementation of events.Publisher:
// notification delivery is at-least-once and fire-and-forget from the
// billing core's point of view.
type Dispatcher struct {
	rdb *redis.Client
}

func NewDispatcher(rdb *redis.Client) *Dispatcher {
	return &Dispatcher{rdb: rdb}
}

// Publish pushes a notification job to Redis.
func (d *Dispatcher) Publish(ctx context.Context, n events.Notification) error {
	return d.enqueue(ctx, QueueNotifications, "notification", n)
}

func (d *Dispatcher) enqueue(ctx context.Context, queue, jobType string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	job := Job{Type: jobType, Payload: data}
	encoded, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return d.rdb.LPush(ctx, queue, encoded).Err()
}

// Handler processes one dequeued job payload.
type Handler interface {
	Process(ctx context.Context, payload json.RawMessage)
}

// StartWorkerPool launches numWorkers goroutines consuming the notification
// queue. Each goroutine blocks on BRPOP — zero CPU when idle.
func StartWorkerPool(ctx context.Context, rdb *redis.Client, handler Handler, numWorkers int) {
	for i := 0; i < numWorkers; i++ {
		go runWorker(ctx, rdb, handler, i)
	}
	log.Info().Msgf("worker pool started with %d workers", numWorkers)
}

func runWorker(ctx context.Context, rdb *redis.Client, handler Handler, id int) {
	for {
		select {
		case <-ctx.Done():
			log.Info().Msgf("worker %d shutting down", id)
			return
		default:
			// Blocking pop — waits up to 5s then loops to check ctx
			result, err := rdb.BRPop(ctx, 5*time.Second, QueueNotifications).Result()
			if err != nil {
				continue // timeout or context cancelled
			}
			if len(result) < 2 {
				continue
			}
			processJob(ctx, handler, result[1])
		}
	}
}

func processJob(ctx context.Context, handler Handler, raw string) {
	var job Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		log.Error().Err(err).Msg("failed to unmarshal job")
		return
	}
	handler.Process(ctx, job.Payload)
}
