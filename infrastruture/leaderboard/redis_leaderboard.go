package leaderboard

import (
	"context"
	"errors"
	"fmt"
	"time"

	dmn "github.com/beka-birhanu/vinom-mines/domain"
	"github.com/beka-birhanu/vinom-mines/service/i"
	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis/goredis/v9"
	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix = "mines:leaderboard:"
	lockTTL   = 2 * time.Second
)

// RedisLeaderboard keeps one sorted set per preset. Members are player names,
// scores are winning times in milliseconds.
type RedisLeaderboard struct {
	client *redis.Client
	locker *redsync.Redsync
	size   int64
}

// NewRedisLeaderboard initializes a leaderboard that keeps the best size entries per preset.
func NewRedisLeaderboard(client *redis.Client, size int) (i.Leaderboard, error) {
	if client == nil {
		return nil, errors.New("redis client is nil")
	}
	if size <= 0 {
		return nil, fmt.Errorf("leaderboard size must be positive, got %d", size)
	}

	lb := &RedisLeaderboard{
		client: client,
		size:   int64(size),
	}
	pool := goredis.NewPool(client)
	lb.locker = redsync.New(pool)
	return lb, nil
}

func key(preset string) string {
	return keyPrefix + preset
}

// Record adds a winning time. An existing entry for the player is only lowered,
// never raised. The set is then trimmed to the configured size.
func (rl *RedisLeaderboard) Record(ctx context.Context, preset, player string, d time.Duration) error {
	k := key(preset)
	mutex := rl.locker.NewMutex(k+":trim_lock", redsync.WithExpiry(lockTTL))
	if err := mutex.LockContext(ctx); err != nil {
		return err
	}
	defer func() {
		_, _ = mutex.UnlockContext(ctx)
	}()

	err := rl.client.ZAddArgs(ctx, k, redis.ZAddArgs{
		LT:      true,
		Members: []redis.Z{{Score: float64(d.Milliseconds()), Member: player}},
	}).Err()
	if err != nil {
		return err
	}

	// Ranks are ascending, so everything past size-1 is slower than the kept entries.
	return rl.client.ZRemRangeByRank(ctx, k, rl.size, -1).Err()
}

// Top returns up to n entries, fastest first.
func (rl *RedisLeaderboard) Top(ctx context.Context, preset string, n int64) ([]dmn.Score, error) {
	if n <= 0 {
		return nil, nil
	}
	zs, err := rl.client.ZRangeWithScores(ctx, key(preset), 0, n-1).Result()
	if err != nil {
		return nil, err
	}
	return toScores(zs), nil
}

func toScores(zs []redis.Z) []dmn.Score {
	scores := make([]dmn.Score, 0, len(zs))
	for _, z := range zs {
		player, _ := z.Member.(string)
		scores = append(scores, dmn.Score{
			Player:   player,
			Duration: time.Duration(z.Score) * time.Millisecond,
		})
	}
	return scores
}
