// Package cache publishes room action records to Redis for out-of-process
// audit and debugging. The server runs fine without Redis: publishing is
// skipped entirely when the client was never initialized. Records are an
// append-only trail, not a recovery mechanism; rooms never survive a
// process restart.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// Rdb is the shared Redis client. Nil when REDIS_ADDR is not configured.
var Rdb *redis.Client

// InitRedis connects the shared client and verifies the connection with a
// ping before anything is published through it.
func InitRedis(addr string) error {
	client := redis.NewClient(&redis.Options{Addr: addr})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return err
	}
	Rdb = client
	return nil
}

// RoomActionRecord describes one room-scoped action for the audit stream.
// ActionIndex orders records within a room.
type RoomActionRecord struct {
	RoomCode    string                 `json:"roomCode"`
	ActionIndex int                    `json:"actionIndex"`
	ActorID     string                 `json:"actorId,omitempty"`
	ActionType  string                 `json:"actionType"`
	Payload     map[string]interface{} `json:"payload,omitempty"`
	Timestamp   int64                  `json:"timestamp"`
}

const actionStream = "6nimmt:room_actions"

// PublishRoomAction appends the record to the audit stream.
func PublishRoomAction(ctx context.Context, rec RoomActionRecord) error {
	raw, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return Rdb.XAdd(ctx, &redis.XAddArgs{
		Stream: actionStream,
		Values: map[string]interface{}{"record": raw},
	}).Err()
}
