package repository

import (
	"context"

	"community-board/internal/domain"
)

// DmCursorQuery 描述一次游标分页查询。
type DmCursorQuery struct {
	IsSender     bool // 查看者是否为房间 sender, 决定可见性过滤
	RoomID       uint
	Cursor       uint // 0 表示从最新一条开始, 否则只返回 id < Cursor
	UpperBoundID uint // 只返回 id <= UpperBoundID
	Offset       int
	Limit        int
}

// DmRepository 定义了私信的存储和检索操作。
type DmRepository interface {
	// Create 保存一条私信并回填 ID。
	Create(ctx context.Context, dm *domain.Dm) error

	// FindWithCursor 按 id 倒序返回至多 Limit 条私信。
	FindWithCursor(ctx context.Context, q DmCursorQuery) ([]domain.Dm, error)

	// FindLastID 返回房间中最大的私信 ID, 房间为空时返回 0。
	FindLastID(ctx context.Context, roomID uint) (uint, error)

	// MarkRead 将某一方发送的、id <= upToID 的未读私信标记为已读。
	MarkRead(ctx context.Context, roomID uint, isSenderMessage bool, upToID uint) error

	// ResetSenderUnreadCount 将房间 sender 的未读数清零。
	ResetSenderUnreadCount(ctx context.Context, roomID uint) error

	// ResetReceiverUnreadCount 将房间 receiver 的未读数清零。
	ResetReceiverUnreadCount(ctx context.Context, roomID uint) error
}
