package gormpersistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"community-board/internal/domain"
	"community-board/internal/repository"
)

// GormRoomRepository 是 RoomRepository 接口的 GORM 实现
type GormRoomRepository struct {
	db *gorm.DB
}

// NewGormRoomRepository 创建 GormRoomRepository 实例
func NewGormRoomRepository(db *gorm.DB) *GormRoomRepository {
	if db == nil {
		panic("database connection cannot be nil for GormRoomRepository")
	}
	return &GormRoomRepository{db: db}
}

// FindRoom 按存储方向查找房间
func (r *GormRoomRepository) FindRoom(ctx context.Context, senderID, receiverID uint) (*domain.Room, error) {
	var room domain.Room
	err := conn(ctx, r.db).
		Where("sender_id = ? AND receiver_id = ?", senderID, receiverID).
		First(&room).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrRoomNotFound
		}
		return nil, fmt.Errorf("gorm: find room (sender: %d, receiver: %d): %w", senderID, receiverID, err)
	}
	return &room, nil
}

// FindByID 实现根据房间 ID 查找房间
func (r *GormRoomRepository) FindByID(ctx context.Context, id uint) (*domain.Room, error) {
	var room domain.Room
	err := conn(ctx, r.db).First(&room, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrRoomNotFound
		}
		return nil, fmt.Errorf("gorm: find room by id %d: %w", id, err)
	}
	return &room, nil
}

// Create 创建房间, pair_key 唯一索引冲突时返回 ErrDuplicateEntry
func (r *GormRoomRepository) Create(ctx context.Context, room *domain.Room) error {
	if room.PairKey == "" {
		room.PairKey = domain.PairKey(room.SenderID, room.ReceiverID)
	}
	if err := conn(ctx, r.db).Create(room).Error; err != nil {
		if isDuplicateEntryError(err) {
			return repository.ErrDuplicateEntry
		}
		return fmt.Errorf("gorm: create room (sender: %d, receiver: %d): %w", room.SenderID, room.ReceiverID, err)
	}
	return nil
}

// UpdateWhenSendDm 记录最后一条消息并增加对方的未读数
func (r *GormRoomRepository) UpdateWhenSendDm(ctx context.Context, roomID uint, content string, isSenderMessage bool, sentAt time.Time) error {
	updates := map[string]interface{}{
		"last_content":           content,
		"last_sent_at":           sentAt,
		"last_is_sender_message": isSenderMessage,
		"sender_is_deleted":      false,
		"receiver_is_deleted":    false,
	}
	// sender 发的消息由 receiver 未读, 反之亦然
	if isSenderMessage {
		updates["receiver_unread_count"] = gorm.Expr("receiver_unread_count + ?", 1)
	} else {
		updates["sender_unread_count"] = gorm.Expr("sender_unread_count + ?", 1)
	}

	err := conn(ctx, r.db).Model(&domain.Room{}).Where("id = ?", roomID).Updates(updates).Error
	if err != nil {
		return fmt.Errorf("gorm: update room %d on send dm: %w", roomID, err)
	}
	return nil
}

// UpdateWhenSenderIsDeleted 对 sender 隐藏房间
func (r *GormRoomRepository) UpdateWhenSenderIsDeleted(ctx context.Context, roomID uint) error {
	return r.setDeleted(ctx, roomID, "sender_is_deleted")
}

// UpdateWhenReceiverIsDeleted 对 receiver 隐藏房间
func (r *GormRoomRepository) UpdateWhenReceiverIsDeleted(ctx context.Context, roomID uint) error {
	return r.setDeleted(ctx, roomID, "receiver_is_deleted")
}

func (r *GormRoomRepository) setDeleted(ctx context.Context, roomID uint, column string) error {
	err := conn(ctx, r.db).Model(&domain.Room{}).Where("id = ?", roomID).Update(column, true).Error
	if err != nil {
		return fmt.Errorf("gorm: set %s on room %d: %w", column, roomID, err)
	}
	return nil
}

// CountUnreadDm 汇总用户在未隐藏房间中的未读数
func (r *GormRoomRepository) CountUnreadDm(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := conn(ctx, r.db).Model(&domain.Room{}).
		Select("COALESCE(SUM(CASE WHEN sender_id = ? THEN sender_unread_count ELSE receiver_unread_count END), 0)", userID).
		Where("(sender_id = ? AND sender_is_deleted = ?) OR (receiver_id = ? AND receiver_is_deleted = ?)", userID, false, userID, false).
		Row().Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("gorm: count unread dm for user %d: %w", userID, err)
	}
	return count, nil
}

// FindRoomList 返回用户未隐藏的房间摘要, 最近活跃的在前
func (r *GormRoomRepository) FindRoomList(ctx context.Context, userID uint) ([]domain.RoomSummary, error) {
	var summaries []domain.RoomSummary
	err := conn(ctx, r.db).Table("rooms AS r").
		Select(`r.id AS room_id,
			r.last_content AS last_content,
			r.last_sent_at AS last_sent_at,
			CASE WHEN r.sender_id = ? THEN r.receiver_id ELSE r.sender_id END AS other_id,
			COALESCE(u.nickname, '') AS other_nickname,
			CASE WHEN r.sender_id = ? THEN r.sender_unread_count ELSE r.receiver_unread_count END AS unread_count`,
			userID, userID).
		Joins("LEFT JOIN users AS u ON u.id = CASE WHEN r.sender_id = ? THEN r.receiver_id ELSE r.sender_id END", userID).
		Where("(r.sender_id = ? AND r.sender_is_deleted = ?) OR (r.receiver_id = ? AND r.receiver_is_deleted = ?)", userID, false, userID, false).
		Where("r.last_sent_at IS NOT NULL").
		Order("r.last_sent_at DESC, r.id DESC").
		Scan(&summaries).Error
	if err != nil {
		return nil, fmt.Errorf("gorm: find room list for user %d: %w", userID, err)
	}
	return summaries, nil
}

// ReconcileUnreadCounts 用私信表中的未读记录修正房间的未读计数
func (r *GormRoomRepository) ReconcileUnreadCounts(ctx context.Context) (int64, error) {
	result := conn(ctx, r.db).Exec(`UPDATE rooms SET
		sender_unread_count = (SELECT COUNT(*) FROM dms WHERE dms.room_id = rooms.id AND dms.is_sender_message = ? AND dms.is_read = ?),
		receiver_unread_count = (SELECT COUNT(*) FROM dms WHERE dms.room_id = rooms.id AND dms.is_sender_message = ? AND dms.is_read = ?)`,
		false, false, true, false)
	if result.Error != nil {
		return 0, fmt.Errorf("gorm: reconcile unread counts: %w", result.Error)
	}
	return result.RowsAffected, nil
}
