package domain

import (
	"fmt"
	"time"
)

// Room 表示两个用户之间的私信房间。
// 首次发起私信的一方永久记为 sender，另一方为 receiver。
type Room struct {
	ID         uint   `gorm:"primaryKey"`
	SenderID   uint   `gorm:"index;not null"`
	ReceiverID uint   `gorm:"index;not null"`
	PairKey    string `gorm:"type:varchar(64);uniqueIndex:idx_rooms_pair_key;not null"` // 与方向无关的参与者对, 见 PairKey

	LastContent         string     `gorm:"type:text"`
	LastSentAt          *time.Time `gorm:"index"` // 尚无消息时为 nil
	LastIsSenderMessage bool       `gorm:"not null;default:false"`

	SenderIsDeleted   bool `gorm:"not null;default:false"`
	ReceiverIsDeleted bool `gorm:"not null;default:false"`

	SenderUnreadCount   int `gorm:"not null;default:0"`
	ReceiverUnreadCount int `gorm:"not null;default:0"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// NewRoom 创建一个由 senderID 发起的房间。
func NewRoom(senderID, receiverID uint) *Room {
	return &Room{
		SenderID:   senderID,
		ReceiverID: receiverID,
		PairKey:    PairKey(senderID, receiverID),
	}
}

// PairKey 返回两个用户 ID 的无序组合键, 格式为 "小:大"。
func PairKey(a, b uint) string {
	if a > b {
		a, b = b, a
	}
	return fmt.Sprintf("%d:%d", a, b)
}

// IsParticipant 判断用户是否是房间参与者。
func (r *Room) IsParticipant(userID uint) bool {
	return userID != 0 && (r.SenderID == userID || r.ReceiverID == userID)
}

// IsSender 判断用户是否是房间的 sender。
func (r *Room) IsSender(userID uint) bool {
	return r.SenderID == userID
}

// OtherID 返回对方的用户 ID。
func (r *Room) OtherID(userID uint) uint {
	if r.SenderID == userID {
		return r.ReceiverID
	}
	return r.SenderID
}

// RoomSummary 是房间列表中的一项, 从某个参与者的视角计算。
type RoomSummary struct {
	RoomID        uint
	LastContent   string
	LastSentAt    time.Time
	OtherID       uint
	OtherNickname string
	UnreadCount   int
}
