// internal/cache/history.go
package cache

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Rdb is the shared redis client backing the action history queue. It
// stays nil when no redis address is configured; publishing is then a
// no-op. The queue is an audit stream for replay tooling, not state
// persistence: room state remains volatile.
var Rdb *redis.Client

const actionQueueKey = "flipout:room_actions"

// GameActionRecord is one entry in a room's action history. ActionIndex
// increments per room and orders the stream.
type GameActionRecord struct {
	RoomCode    string                 `json:"roomCode"`
	ActionIndex int                    `json:"actionIndex"`
	ActorID     uuid.UUID              `json:"actorId"`
	ActionType  string                 `json:"actionType"`
	Payload     map[string]interface{} `json:"payload,omitempty"`
	Timestamp   int64                  `json:"timestamp"` // unix millis
}

// InitRedis connects the shared client and verifies the server is
// reachable.
func InitRedis(ctx context.Context, addr string) error {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}
	Rdb = client
	return nil
}

// PublishGameAction pushes rec onto the history queue.
func PublishGameAction(ctx context.Context, rec GameActionRecord) error {
	if Rdb == nil {
		return nil
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal action record: %w", err)
	}
	if err := Rdb.RPush(ctx, actionQueueKey, data).Err(); err != nil {
		return fmt.Errorf("rpush action record: %w", err)
	}
	return nil
}
