package leaderboard

import (
	"context"
	"os"
	"testing"
	"time"

	dmn "github.com/beka-birhanu/vinom-mines/domain"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToScores(t *testing.T) {
	zs := []redis.Z{{Score: 1500, Member: "ada"}, {Score: 61000, Member: "bob"}}
	assert.Equal(t, []dmn.Score{
		{Player: "ada", Duration: 1500 * time.Millisecond},
		{Player: "bob", Duration: time.Minute + time.Second},
	}, toScores(zs))
	assert.Empty(t, toScores(nil))
}

func TestNewRedisLeaderboard(t *testing.T) {
	_, err := NewRedisLeaderboard(nil, 10)
	assert.Error(t, err)
	_, err = NewRedisLeaderboard(redis.NewClient(&redis.Options{Addr: "localhost:0"}), 0)
	assert.Error(t, err)
}

// TestRedisLeaderboard runs against a live server named by REDIS_ADDR.
func TestRedisLeaderboard(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	ctx := context.Background()
	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = client.Close() })

	lb, err := NewRedisLeaderboard(client, 2)
	require.NoError(t, err)
	preset := "test-" + uuid.NewString()
	t.Cleanup(func() { _ = client.Del(ctx, key(preset)).Err() })

	require.NoError(t, lb.Record(ctx, preset, "ada", 30*time.Second))
	require.NoError(t, lb.Record(ctx, preset, "bob", 20*time.Second))
	// Slower time does not replace a better one.
	require.NoError(t, lb.Record(ctx, preset, "ada", 40*time.Second))
	require.NoError(t, lb.Record(ctx, preset, "cyd", 50*time.Second))

	top, err := lb.Top(ctx, preset, 10)
	require.NoError(t, err)
	assert.Equal(t, []dmn.Score{
		{Player: "bob", Duration: 20 * time.Second},
		{Player: "ada", Duration: 30 * time.Second},
	}, top)

	require.NoError(t, lb.Record(ctx, preset, "ada", 10*time.Second))
	top, err = lb.Top(ctx, preset, 1)
	require.NoError(t, err)
	assert.Equal(t, []dmn.Score{{Player: "ada", Duration: 10 * time.Second}}, top)
}
