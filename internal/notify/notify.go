package notify

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Kind classifies a notification for client rendering
type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
	KindInfo    Kind = "info"
)

// Notifier delivers outcome notifications to users. Call sites report only
// (kind, message); delivery and rendering are not their concern.
type Notifier interface {
	Notify(ctx context.Context, userID string, kind Kind, message string)
}

// Notification is the wire format published to subscribers
type Notification struct {
	UserID    string    `json:"user_id"`
	Kind      Kind      `json:"kind"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// RedisNotifier publishes notifications on a per-user Redis channel so
// connected clients can surface them live. Publish failures are logged and
// otherwise ignored: a lost notification never fails the triggering action.
type RedisNotifier struct {
	client *redis.Client
}

// NewRedisNotifier creates a notifier backed by Redis pub/sub
func NewRedisNotifier(client *redis.Client) *RedisNotifier {
	return &RedisNotifier{client: client}
}

// Notify publishes a notification to the user's channel
func (n *RedisNotifier) Notify(ctx context.Context, userID string, kind Kind, message string) {
	payload, err := json.Marshal(Notification{
		UserID:    userID,
		Kind:      kind,
		Message:   message,
		CreatedAt: time.Now(),
	})
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal notification")
		return
	}

	if err := n.client.Publish(ctx, "notifications:"+userID, payload).Err(); err != nil {
		log.Warn().Err(err).Str("user_id", userID).Msg("Failed to publish notification")
	}
}

// LogNotifier writes notifications to the structured log. Used as a fallback
// when Redis is unavailable and in tests.
type LogNotifier struct{}

// NewLogNotifier creates a log-only notifier
func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

// Notify logs the notification
func (n *LogNotifier) Notify(_ context.Context, userID string, kind Kind, message string) {
	log.Info().
		Str("user_id", userID).
		Str("kind", string(kind)).
		Str("message", message).
		Msg("Notification")
}
