package gormpersistence

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"community-board/internal/domain"
	"community-board/internal/repository"
)

// GormDmRepository 是 DmRepository 接口的 GORM 实现
type GormDmRepository struct {
	db *gorm.DB
}

// NewGormDmRepository 创建 GormDmRepository 实例
func NewGormDmRepository(db *gorm.DB) *GormDmRepository {
	if db == nil {
		panic("database connection cannot be nil for GormDmRepository")
	}
	return &GormDmRepository{db: db}
}

// Create 保存一条私信
func (r *GormDmRepository) Create(ctx context.Context, dm *domain.Dm) error {
	if dm.VisibleChoice == "" {
		dm.VisibleChoice = domain.VisibleBoth
	}
	if err := conn(ctx, r.db).Create(dm).Error; err != nil {
		return fmt.Errorf("gorm: create dm in room %d: %w", dm.RoomID, err)
	}
	return nil
}

// FindWithCursor 实现基于游标的倒序分页
func (r *GormDmRepository) FindWithCursor(ctx context.Context, q repository.DmCursorQuery) ([]domain.Dm, error) {
	if q.Limit <= 0 || q.UpperBoundID == 0 {
		return []domain.Dm{}, nil
	}
	dms := make([]domain.Dm, 0, q.Limit)

	tx := conn(ctx, r.db).
		Where("room_id = ?", q.RoomID).
		Where("visible_choice IN ?", domain.VisibilitiesFor(q.IsSender)).
		Where("id <= ?", q.UpperBoundID)
	if q.Cursor > 0 {
		tx = tx.Where("id < ?", q.Cursor)
	}
	err := tx.Order("id DESC").Offset(q.Offset).Limit(q.Limit).Find(&dms).Error
	if err != nil {
		return nil, fmt.Errorf("gorm: find dms in room %d (cursor %d): %w", q.RoomID, q.Cursor, err)
	}
	return dms, nil
}

// FindLastID 返回房间中最新私信的 ID
func (r *GormDmRepository) FindLastID(ctx context.Context, roomID uint) (uint, error) {
	var lastID uint
	err := conn(ctx, r.db).Model(&domain.Dm{}).
		Select("COALESCE(MAX(id), 0)").
		Where("room_id = ?", roomID).
		Row().Scan(&lastID)
	if err != nil {
		return 0, fmt.Errorf("gorm: find last dm id in room %d: %w", roomID, err)
	}
	return lastID, nil
}

// MarkRead 将某一方发送的未读私信标记为已读
func (r *GormDmRepository) MarkRead(ctx context.Context, roomID uint, isSenderMessage bool, upToID uint) error {
	if upToID == 0 {
		return nil
	}
	err := conn(ctx, r.db).Model(&domain.Dm{}).
		Where("room_id = ? AND is_sender_message = ? AND is_read = ? AND id <= ?", roomID, isSenderMessage, false, upToID).
		Update("is_read", true).Error
	if err != nil {
		return fmt.Errorf("gorm: mark dms read in room %d: %w", roomID, err)
	}
	return nil
}

// ResetSenderUnreadCount 将 sender 的未读数清零
func (r *GormDmRepository) ResetSenderUnreadCount(ctx context.Context, roomID uint) error {
	return r.resetUnread(ctx, roomID, "sender_unread_count")
}

// ResetReceiverUnreadCount 将 receiver 的未读数清零
func (r *GormDmRepository) ResetReceiverUnreadCount(ctx context.Context, roomID uint) error {
	return r.resetUnread(ctx, roomID, "receiver_unread_count")
}

func (r *GormDmRepository) resetUnread(ctx context.Context, roomID uint, column string) error {
	err := conn(ctx, r.db).Model(&domain.Room{}).Where("id = ?", roomID).
		UpdateColumn(column, 0).Error
	if err != nil {
		return fmt.Errorf("gorm: reset %s on room %d: %w", column, roomID, err)
	}
	return nil
}
