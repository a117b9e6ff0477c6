package repository

import (
	"context"
	"time"

	"community-board/internal/domain"
)

// RoomRepository 定义了私信房间的存储和检索操作。
type RoomRepository interface {
	// FindRoom 按存储方向查找房间 (sender_id = senderID 且 receiver_id = receiverID)。
	// 不存在时返回 ErrRoomNotFound。
	FindRoom(ctx context.Context, senderID, receiverID uint) (*domain.Room, error)

	// FindByID 根据房间 ID 查找房间, 不存在时返回 ErrRoomNotFound。
	FindByID(ctx context.Context, id uint) (*domain.Room, error)

	// Create 创建房间并回填 ID。同一对用户已有房间时返回 ErrDuplicateEntry。
	Create(ctx context.Context, room *domain.Room) error

	// UpdateWhenSendDm 记录最后一条消息, 对方未读数加一, 并清除双方的删除标记。
	UpdateWhenSendDm(ctx context.Context, roomID uint, content string, isSenderMessage bool, sentAt time.Time) error

	// UpdateWhenSenderIsDeleted 对 sender 隐藏房间。
	UpdateWhenSenderIsDeleted(ctx context.Context, roomID uint) error

	// UpdateWhenReceiverIsDeleted 对 receiver 隐藏房间。
	UpdateWhenReceiverIsDeleted(ctx context.Context, roomID uint) error

	// CountUnreadDm 统计用户在所有未隐藏房间中的未读私信数。
	CountUnreadDm(ctx context.Context, userID uint) (int64, error)

	// FindRoomList 返回用户未隐藏的房间, 按最后消息时间倒序。
	FindRoomList(ctx context.Context, userID uint) ([]domain.RoomSummary, error)

	// ReconcileUnreadCounts 按私信表中的未读记录重新计算所有房间的未读数, 返回更新的行数。
	ReconcileUnreadCounts(ctx context.Context) (int64, error)
}
