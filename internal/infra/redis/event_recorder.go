package redis

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"iot-practice-service/internal/telemetry"
)

// DefaultEventsKey is the list telemetry events are appended to.
const DefaultEventsKey = "practice:events"

// EventRecorder appends telemetry events as JSON to a capped Redis list.
type EventRecorder struct {
	client  *redis.Client
	key     string
	maxLen  int64
	timeout time.Duration
}

// NewEventRecorder keeps at most maxLen events under key; maxLen <= 0 disables trimming.
func NewEventRecorder(client *redis.Client, key string, maxLen int64) *EventRecorder {
	if key == "" {
		key = DefaultEventsKey
	}
	return &EventRecorder{client: client, key: key, maxLen: maxLen, timeout: time.Second}
}

func (r *EventRecorder) Record(ctx context.Context, ev telemetry.Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		log.Printf("telemetry encode: %v", err)
		return
	}

	// Detach from request cancellation; the event outlives the request.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.timeout)
	defer cancel()

	pipe := r.client.Pipeline()
	pipe.RPush(ctx, r.key, data)
	if r.maxLen > 0 {
		pipe.LTrim(ctx, r.key, -r.maxLen, -1)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		log.Printf("telemetry record %s: %v", ev.Name, err)
	}
}
