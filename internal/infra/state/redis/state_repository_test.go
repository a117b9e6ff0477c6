package redisstate

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"community-board/internal/domain"
)

func newTestRepo(t *testing.T) (*RedisStateRepository, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisStateRepository(client, "test:"), mr
}

func TestPresence_AddRemove(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.AddOnlineConnection(ctx, 2, "conn-a"))
	require.NoError(t, repo.AddOnlineConnection(ctx, 2, "conn-b"))

	online, err := repo.IsOnline(ctx, 2)
	require.NoError(t, err)
	assert.True(t, online)

	require.NoError(t, repo.RemoveOnlineConnection(ctx, 2, "conn-a"))
	online, err = repo.IsOnline(ctx, 2)
	require.NoError(t, err)
	assert.True(t, online)

	require.NoError(t, repo.RemoveOnlineConnection(ctx, 2, "conn-b"))
	online, err = repo.IsOnline(ctx, 2)
	require.NoError(t, err)
	assert.False(t, online)

	online, err = repo.IsOnline(ctx, 99)
	require.NoError(t, err)
	assert.False(t, online)
}

func TestPresence_StaleConnectionExpires(t *testing.T) {
	repo, mr := newTestRepo(t)
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return now }

	require.NoError(t, repo.AddOnlineConnection(ctx, 2, "live"))
	require.NoError(t, repo.AddOnlineConnection(ctx, 2, "crashed"))

	// 只有 live 连接持续刷新
	now = now.Add(DefaultPresenceTTL - time.Second)
	require.NoError(t, repo.RefreshOnlineConnection(ctx, 2, "live"))
	now = now.Add(2 * time.Second)

	online, err := repo.IsOnline(ctx, 2)
	require.NoError(t, err)
	assert.True(t, online)
	members, err := mr.ZMembers("test:online:2")
	require.NoError(t, err)
	assert.Equal(t, []string{"live"}, members)

	now = now.Add(DefaultPresenceTTL)
	online, err = repo.IsOnline(ctx, 2)
	require.NoError(t, err)
	assert.False(t, online)
}

func TestPresence_KeyExpiresWithoutRefresh(t *testing.T) {
	repo, mr := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.AddOnlineConnection(ctx, 3, "conn"))
	mr.FastForward(DefaultPresenceTTL + time.Second)

	assert.False(t, mr.Exists("test:online:3"))
	online, err := repo.IsOnline(ctx, 3)
	require.NoError(t, err)
	assert.False(t, online)
}

func TestNotifications_PublishSubscribe(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	sub, err := repo.SubscribeNotifications(ctx)
	require.NoError(t, err)
	defer sub.Close()

	require.NoError(t, repo.PublishNotification(ctx, domain.Notification{TargetUserID: 2, Title: "alice", Data: map[string]string{"room_id": "10"}}))

	select {
	case n := <-sub.Channel():
		assert.Equal(t, uint(2), n.TargetUserID)
		assert.Equal(t, "10", n.Data["room_id"])
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for notification")
	}
}
