package domain

import "time"

// Visibility 表示一条私信对哪一方可见。
type Visibility string

const (
	VisibleBoth         Visibility = "BOTH"
	VisibleSenderOnly   Visibility = "SENDER_ONLY"
	VisibleReceiverOnly Visibility = "RECEIVER_ONLY"
)

// Dm 是房间中的一条私信。除 IsRead 外创建后不可修改。
type Dm struct {
	ID              uint       `gorm:"primaryKey;index:idx_dms_room_id_id,priority:2"`
	RoomID          uint       `gorm:"index:idx_dms_room_id_id,priority:1;not null"`
	IsSenderMessage bool       `gorm:"not null"` // 作者是否为房间的 sender
	Content         string     `gorm:"type:text;not null"`
	IsRead          bool       `gorm:"not null;default:false"`
	VisibleChoice   Visibility `gorm:"type:varchar(20);not null;default:BOTH"`
	CreatedAt       time.Time  `gorm:"autoCreateTime"`
}

// VisibilitiesFor 返回房间某一方可以看到的可见性取值。
func VisibilitiesFor(isSender bool) []Visibility {
	if isSender {
		return []Visibility{VisibleBoth, VisibleSenderOnly}
	}
	return []Visibility{VisibleBoth, VisibleReceiverOnly}
}

// DmPage 是一页按游标分页的私信历史, 从新到旧排列。
// NextCursor 为 nil 表示已经到达历史末尾。
type DmPage struct {
	OtherID       uint
	OtherNickname string
	Dms           []Dm
	NextCursor    *uint
}
