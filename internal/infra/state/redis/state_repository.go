package redisstate

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"

	"community-board/internal/domain"
	"community-board/internal/repository"
)

// RedisStateRepository 是 StateRepository 接口的 Redis 实现
type RedisStateRepository struct {
	client      *redis.Client
	keyPrefix   string
	presenceTTL time.Duration
	now         func() time.Time
}

// DefaultPresenceTTL 是连接在没有刷新时被视为在线的时长
const DefaultPresenceTTL = 2 * time.Minute

// NewRedisStateRepository 创建 RedisStateRepository 实例
func NewRedisStateRepository(client *redis.Client, keyPrefix string) *RedisStateRepository {
	if client == nil {
		panic("redis client cannot be nil for RedisStateRepository")
	}
	if keyPrefix == "" {
		keyPrefix = "cb:" // community-board
	}
	return &RedisStateRepository{
		client:      client,
		keyPrefix:   keyPrefix,
		presenceTTL: DefaultPresenceTTL,
		now:         time.Now,
	}
}

// --- Key Generation Helpers ---
func (r *RedisStateRepository) notificationChannel() string {
	return r.keyPrefix + "notifications"
}

func (r *RedisStateRepository) onlineKey(userID uint) string {
	return r.keyPrefix + "online:" + strconv.FormatUint(uint64(userID), 10)
}

// --- Notifications ---

// PublishNotification 将通知序列化后发布到共享频道。
func (r *RedisStateRepository) PublishNotification(ctx context.Context, n domain.Notification) error {
	payload, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("redis: marshal notification for user %d: %w", n.TargetUserID, err)
	}
	if err := r.client.Publish(ctx, r.notificationChannel(), payload).Err(); err != nil {
		logrus.WithFields(logrus.Fields{
			"channel":        r.notificationChannel(),
			"target_user_id": n.TargetUserID,
		}).WithError(err).Error("Redis Publish failed")
		return fmt.Errorf("redis: publish notification: %w", err)
	}
	return nil
}

// SubscribeNotifications 订阅通知频道, 返回的订阅把消息解码为 domain.Notification。
func (r *RedisStateRepository) SubscribeNotifications(ctx context.Context) (repository.NotificationSubscription, error) {
	pubsub := r.client.Subscribe(ctx, r.notificationChannel())
	// 等待订阅确认, 确保之后发布的消息不会丢失
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, fmt.Errorf("redis: subscribe %s: %w", r.notificationChannel(), err)
	}

	sub := &notificationSubscription{
		pubsub: pubsub,
		ch:     make(chan domain.Notification, 64),
	}
	go sub.forward()
	return sub, nil
}

type notificationSubscription struct {
	pubsub *redis.PubSub
	ch     chan domain.Notification
}

func (s *notificationSubscription) forward() {
	defer close(s.ch)
	for msg := range s.pubsub.Channel() {
		var n domain.Notification
		if err := json.Unmarshal([]byte(msg.Payload), &n); err != nil {
			logrus.WithField("channel", msg.Channel).WithError(err).Warn("redis: dropping malformed notification")
			continue
		}
		s.ch <- n
	}
}

func (s *notificationSubscription) Channel() <-chan domain.Notification {
	return s.ch
}

func (s *notificationSubscription) Close() error {
	return s.pubsub.Close()
}

// --- Presence ---

// 每个用户一个 ZSET, member 为连接 ID, score 为连接的过期时间 (Unix 毫秒)。
// 连接需要在 PresenceTTL 内刷新, 否则视为离线; 实例崩溃后残留的连接会自然过期。

// AddOnlineConnection 记录一个新连接。
func (r *RedisStateRepository) AddOnlineConnection(ctx context.Context, userID uint, connID string) error {
	if err := r.touchConnection(ctx, userID, connID); err != nil {
		return fmt.Errorf("redis: add online connection for user %d: %w", userID, err)
	}
	return nil
}

// RefreshOnlineConnection 延长连接的存活时间。
func (r *RedisStateRepository) RefreshOnlineConnection(ctx context.Context, userID uint, connID string) error {
	if err := r.touchConnection(ctx, userID, connID); err != nil {
		return fmt.Errorf("redis: refresh online connection for user %d: %w", userID, err)
	}
	return nil
}

func (r *RedisStateRepository) touchConnection(ctx context.Context, userID uint, connID string) error {
	key := r.onlineKey(userID)
	expiresAt := r.now().Add(r.presenceTTL).UnixMilli()
	pipe := r.client.TxPipeline()
	pipe.ZAdd(ctx, key, &redis.Z{Score: float64(expiresAt), Member: connID})
	pipe.Expire(ctx, key, r.presenceTTL)
	_, err := pipe.Exec(ctx)
	return err
}

// RemoveOnlineConnection 删除一个连接。
func (r *RedisStateRepository) RemoveOnlineConnection(ctx context.Context, userID uint, connID string) error {
	if err := r.client.ZRem(ctx, r.onlineKey(userID), connID).Err(); err != nil {
		return fmt.Errorf("redis: remove online connection for user %d: %w", userID, err)
	}
	return nil
}

// IsOnline 判断用户是否至少有一个未过期的连接。
func (r *RedisStateRepository) IsOnline(ctx context.Context, userID uint) (bool, error) {
	key := r.onlineKey(userID)
	now := strconv.FormatInt(r.now().UnixMilli(), 10)
	pipe := r.client.TxPipeline()
	pipe.ZRemRangeByScore(ctx, key, "-inf", "("+now)
	card := pipe.ZCard(ctx, key)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("redis: get online state for user %d: %w", userID, err)
	}
	return card.Val() > 0, nil
}
