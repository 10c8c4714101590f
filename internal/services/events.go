package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"notenexus-backend/internal/models"
)

// UserChannel is the pub/sub channel carrying one user's progress events.
func UserChannel(userID uuid.UUID) string {
	return fmt.Sprintf("user_updates:%s", userID.String())
}

// RedisPublisher fans progress events out through Redis so every server
// instance holding a socket for the user can forward them.
type RedisPublisher struct {
	redis *redis.Client
}

func NewRedisPublisher(client *redis.Client) *RedisPublisher {
	return &RedisPublisher{redis: client}
}

// PublishUpdate is fire and forget. Delivery failures are logged only.
func (p *RedisPublisher) PublishUpdate(ctx context.Context, userID uuid.UUID, msg models.WSMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("✗ marshal %s event: %v", msg.Type, err)
		return
	}
	if err := p.redis.Publish(ctx, UserChannel(userID), string(data)).Err(); err != nil {
		log.Printf("✗ publish %s event for %s: %v", msg.Type, userID, err)
	}
}
