package gormpersistence

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"community-board/internal/domain"
	"community-board/internal/repository"
)

// GormBlockRepository 是 BlockRepository 接口的 GORM 实现
type GormBlockRepository struct {
	db *gorm.DB
}

// NewGormBlockRepository 创建 GormBlockRepository 实例
func NewGormBlockRepository(db *gorm.DB) *GormBlockRepository {
	if db == nil {
		panic("database connection cannot be nil for GormBlockRepository")
	}
	return &GormBlockRepository{db: db}
}

// Block 记录屏蔽关系
func (r *GormBlockRepository) Block(ctx context.Context, userID, blockedID uint) error {
	block := &domain.Block{UserID: userID, BlockedID: blockedID}
	if err := conn(ctx, r.db).Create(block).Error; err != nil {
		if isDuplicateEntryError(err) {
			return repository.ErrDuplicateEntry
		}
		return fmt.Errorf("gorm: block user %d by %d: %w", blockedID, userID, err)
	}
	return nil
}

// Unblock 删除屏蔽关系
func (r *GormBlockRepository) Unblock(ctx context.Context, userID, blockedID uint) error {
	result := conn(ctx, r.db).Where("user_id = ? AND blocked_id = ?", userID, blockedID).Delete(&domain.Block{})
	if result.Error != nil {
		return fmt.Errorf("gorm: unblock user %d by %d: %w", blockedID, userID, result.Error)
	}
	if result.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// IsBlockedEither 检查两个方向上的屏蔽关系
func (r *GormBlockRepository) IsBlockedEither(ctx context.Context, a, b uint) (bool, error) {
	var count int64
	err := conn(ctx, r.db).Model(&domain.Block{}).
		Where("(user_id = ? AND blocked_id = ?) OR (user_id = ? AND blocked_id = ?)", a, b, b, a).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("gorm: check block between %d and %d: %w", a, b, err)
	}
	return count > 0, nil
}

// ListBlocked 返回用户的屏蔽列表
func (r *GormBlockRepository) ListBlocked(ctx context.Context, userID uint) ([]domain.Block, error) {
	var blocks []domain.Block
	err := conn(ctx, r.db).Where("user_id = ?", userID).Order("created_at DESC").Find(&blocks).Error
	if err != nil {
		return nil, fmt.Errorf("gorm: list blocks of user %d: %w", userID, err)
	}
	return blocks, nil
}
