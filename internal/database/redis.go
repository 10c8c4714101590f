package database

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisClients keeps pub/sub on its own connection pool so long lived
// subscriptions never starve token lookups.
type RedisClients struct {
	Tokens *redis.Client
	PubSub *redis.Client
}

// redisOptions derives one option set per role from a single URL. Each role
// announces itself with CLIENT SETNAME so the two pools are told apart in
// CLIENT LIST.
func redisOptions(redisURL string) (tokens, pubsub *redis.Options, err error) {
	base, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, nil, fmt.Errorf("parse redis URL: %w", err)
	}

	t, p := *base, *base
	t.ClientName = "notenexus-tokens"
	p.ClientName = "notenexus-pubsub"
	return &t, &p, nil
}

func NewRedisClients(redisURL string) (*RedisClients, error) {
	tokenOpt, pubsubOpt, err := redisOptions(redisURL)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	clients := &RedisClients{
		Tokens: redis.NewClient(tokenOpt),
		PubSub: redis.NewClient(pubsubOpt),
	}
	for name, c := range map[string]*redis.Client{"tokens": clients.Tokens, "pubsub": clients.PubSub} {
		if err := c.Ping(ctx).Err(); err != nil {
			clients.Close()
			return nil, fmt.Errorf("ping redis (%s): %w", name, err)
		}
	}
	return clients, nil
}

func (r *RedisClients) Close() {
	r.Tokens.Close()
	r.PubSub.Close()
}
