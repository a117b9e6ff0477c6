package domain

import "time"

// Block 表示 UserID 屏蔽了 BlockedID, 被屏蔽者不能再向其发送私信。
type Block struct {
	ID        uint      `gorm:"primaryKey"`
	UserID    uint      `gorm:"uniqueIndex:idx_blocks_pair,priority:1;not null"`
	BlockedID uint      `gorm:"uniqueIndex:idx_blocks_pair,priority:2;index;not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}
