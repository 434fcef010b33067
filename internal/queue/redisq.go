package queue

import (
	"context"
	"time"

	r "github.com/redis/go-redis/v9"
)

const analysisKey = "queue:analysis"

type RedisQ struct{ rdb *r.Client }

var _ Queue = (*RedisQ)(nil)

func New(rdb *r.Client) *RedisQ { return &RedisQ{rdb} }

func (q *RedisQ) Enqueue(ctx context.Context, jobID string) error {
	return q.rdb.LPush(ctx, analysisKey, jobID).Err()
}

func (q *RedisQ) Dequeue(ctx context.Context, block time.Duration) (string, error) {
	res, err := q.rdb.BRPop(ctx, block, analysisKey).Result()
	if err != nil {
		if err == r.Nil {
			return "", nil
		}
		return "", err
	}
	if len(res) == 2 {
		return res[1], nil
	}
	return "", nil
}
