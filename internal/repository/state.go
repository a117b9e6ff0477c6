package repository

import (
	"context"

	"community-board/internal/domain"
)

// StateRepository 定义了跨实例共享的实时状态操作, 通常由 Redis 实现。
type StateRepository interface {
	// === Notifications ===

	// PublishNotification 将通知广播给所有实例上订阅的 Hub。
	PublishNotification(ctx context.Context, n domain.Notification) error

	// SubscribeNotifications 订阅通知广播。调用方负责 Close。
	SubscribeNotifications(ctx context.Context) (NotificationSubscription, error)

	// === Presence ===

	// AddOnlineConnection 记录用户新增一个实时连接, connID 在所有实例间唯一。
	AddOnlineConnection(ctx context.Context, userID uint, connID string) error

	// RefreshOnlineConnection 延长连接的存活时间, 未刷新的连接过期后视为断开。
	RefreshOnlineConnection(ctx context.Context, userID uint, connID string) error

	// RemoveOnlineConnection 记录用户断开一个实时连接。
	RemoveOnlineConnection(ctx context.Context, userID uint, connID string) error

	// IsOnline 判断用户当前是否至少有一个实时连接。
	IsOnline(ctx context.Context, userID uint) (bool, error)
}

// NotificationSubscription 是一个通知订阅。
type NotificationSubscription interface {
	// Channel 返回接收通知的通道, 订阅关闭后通道被关闭。
	Channel() <-chan domain.Notification
	Close() error
}
