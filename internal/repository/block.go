package repository

import (
	"context"

	"community-board/internal/domain"
)

// BlockRepository 定义了用户屏蔽关系的存储操作。
type BlockRepository interface {
	// Block 记录 userID 屏蔽 blockedID, 已存在时返回 ErrDuplicateEntry。
	Block(ctx context.Context, userID, blockedID uint) error

	// Unblock 删除屏蔽关系, 不存在时返回 ErrNotFound。
	Unblock(ctx context.Context, userID, blockedID uint) error

	// IsBlockedEither 判断两个用户之间是否存在任一方向的屏蔽。
	IsBlockedEither(ctx context.Context, a, b uint) (bool, error)

	// ListBlocked 返回 userID 屏蔽的所有记录。
	ListBlocked(ctx context.Context, userID uint) ([]domain.Block, error)
}
