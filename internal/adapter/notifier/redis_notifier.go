package notifier

import (
	"context"
	"encoding/json"
	"time"

	"swapmarket/internal/core/domain"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const publishTimeout = 5 * time.Second

// RedisNotifier implements ports.Notifier by publishing notifications to a
// per-user Redis channel. Delivery is best effort: failures are logged and
// dropped, and the caller is never blocked.
type RedisNotifier struct {
	client *goredis.Client
	log    zerolog.Logger
}

// NewRedisNotifier creates a Redis pub/sub backed notifier.
func NewRedisNotifier(client *goredis.Client, log zerolog.Logger) *RedisNotifier {
	return &RedisNotifier{client: client, log: log}
}

// Channel returns the pub/sub channel name for a user.
func Channel(userID string) string {
	return "notify:user:" + userID
}

// Notify dispatches the notification on a background goroutine. The request
// context is deliberately not propagated: delivery should not be cut short
// when the originating request finishes.
func (n *RedisNotifier) Notify(_ context.Context, notif domain.Notification) {
	go n.publish(notif)
}

func (n *RedisNotifier) publish(notif domain.Notification) {
	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()

	payload, err := json.Marshal(notif)
	if err != nil {
		n.log.Warn().Err(err).
			Str("kind", string(notif.Kind)).
			Str("user_id", notif.UserID).
			Msg("Notification marshal failed")
		return
	}

	if err := n.client.Publish(ctx, Channel(notif.UserID), payload).Err(); err != nil {
		n.log.Warn().Err(err).
			Str("kind", string(notif.Kind)).
			Str("user_id", notif.UserID).
			Msg("Notification publish failed")
		return
	}

	n.log.Debug().
		Str("kind", string(notif.Kind)).
		Str("user_id", notif.UserID).
		Msg("Notification published")
}
