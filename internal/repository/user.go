package repository

import (
	"context"

	"community-board/internal/domain"
)

// UserRepository 定义了用户数据的存储和检索操作。
type UserRepository interface {
	// FindByEmail 根据邮箱查找用户, 不存在时返回 ErrUserNotFound。
	FindByEmail(ctx context.Context, email string) (*domain.User, error)

	// FindByID 根据用户 ID 查找用户, 不存在时返回 ErrUserNotFound。
	FindByID(ctx context.Context, id uint) (*domain.User, error)

	// FindNicknameByID 只查询用户昵称, 不存在时返回 ErrUserNotFound。
	FindNicknameByID(ctx context.Context, id uint) (string, error)

	// Save 保存用户信息。ID 为零时创建, 否则更新。
	// 违反唯一约束 (邮箱/昵称) 时返回 ErrDuplicateEntry。
	Save(ctx context.Context, user *domain.User) error
}
