package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mrcar-cl/tasador/pkg/errors"
)

// counterTTL keeps spent day buckets from accumulating forever.  Two days is
// enough: a bucket is only read on its own day.
const counterTTL = 48 * time.Hour

// CounterStore keeps one INCR-maintained counter per calendar day.  It backs
// the quota gate.
type CounterStore struct {
	client    *Client
	keyPrefix string
}

// NewCounterStore builds the store.  keyPrefix namespaces the counters so
// several deployments can share one Redis.
func NewCounterStore(client *Client, keyPrefix string) *CounterStore {
	return &CounterStore{client: client, keyPrefix: keyPrefix}
}

func (s *CounterStore) key(day string) string {
	return fmt.Sprintf("%s:quota:valuation:%s", s.keyPrefix, day)
}

// IncrementDay bumps the counter for day and returns the value after the
// increment.  The first increment of a day sets the bucket's expiry.
func (s *CounterStore) IncrementDay(ctx context.Context, day string) (int64, error) {
	rdb, err := s.client.Redis()
	if err != nil {
		return 0, err
	}

	key := s.key(day)

	var incr *redis.IntCmd
	_, err = rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, key)
		pipe.Expire(ctx, key, counterTTL)
		return nil
	})
	if err != nil {
		return 0, errors.Wrap(err, errors.ErrCodeCounterUnavailable, "increment quota counter")
	}

	return incr.Val(), nil
}

// GetDay reads the counter without modifying it.  A missing bucket reads as
// zero.
func (s *CounterStore) GetDay(ctx context.Context, day string) (int64, error) {
	rdb, err := s.client.Redis()
	if err != nil {
		return 0, err
	}

	n, err := rdb.Get(ctx, s.key(day)).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, errors.Wrap(err, errors.ErrCodeCounterUnavailable, "read quota counter")
	}
	return n, nil
}
