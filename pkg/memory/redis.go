package memory

import (
	"context"
	"encoding/json"

	"github.com/m-mizutani/goerr/v2"
	"github.com/redis/go-redis/v9"

	"github.com/tuned-app/tuned/pkg/model"
)

const redisKeyPrefix = "tuned:session:"

// redisStore keeps session history in a Redis list so multiple processes
// can share conversation state.
type redisStore struct {
	client *redis.Client
}

// NewRedis creates a Store backed by the Redis instance at addr.
func NewRedis(addr string) Store {
	return &redisStore{
		client: redis.NewClient(&redis.Options{Addr: addr}),
	}
}

func (s *redisStore) Append(ctx context.Context, id model.SessionID, question, answer string) error {
	raw, err := json.Marshal(model.Exchange{Question: question, Answer: answer})
	if err != nil {
		return goerr.Wrap(err, "failed to marshal exchange")
	}

	key := redisKeyPrefix + string(id.Normalize())
	if err := s.client.RPush(ctx, key, raw).Err(); err != nil {
		return goerr.Wrap(err, "failed to append exchange", goerr.V("session_id", id))
	}
	return nil
}

func (s *redisStore) Read(ctx context.Context, id model.SessionID) ([]model.Exchange, error) {
	key := redisKeyPrefix + string(id.Normalize())

	raws, err := s.client.LRange(ctx, key, int64(-model.HistoryWindow), -1).Result()
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read session history", goerr.V("session_id", id))
	}

	exchanges := make([]model.Exchange, 0, len(raws))
	for _, raw := range raws {
		var ex model.Exchange
		if err := json.Unmarshal([]byte(raw), &ex); err != nil {
			return nil, goerr.Wrap(err, "corrupt exchange record", goerr.V("session_id", id))
		}
		exchanges = append(exchanges, ex)
	}
	return exchanges, nil
}
