package dto

import (
	"time"

	"community-board/internal/domain"
)

// SendDmRequest 是发送私信的请求体
type SendDmRequest struct {
	ReceiverID uint   `json:"receiver_id" binding:"required"`
	Content    string `json:"content" binding:"required"`
}

// DmPageQuery 是私信历史的查询参数
type DmPageQuery struct {
	Cursor uint `form:"cursor"`
	Limit  int  `form:"limit" binding:"omitempty,min=1,max=100"`
}

// DmResponse 表示返回给客户端的一条私信
type DmResponse struct {
	ID              uint      `json:"id"`
	RoomID          uint      `json:"room_id"`
	IsSenderMessage bool      `json:"is_sender_message"`
	Content         string    `json:"content"`
	IsRead          bool      `json:"is_read"`
	CreatedAt       time.Time `json:"created_at"`
}

// DmPageResponse 是一页私信历史, next_cursor 为 null 表示没有更早的私信
type DmPageResponse struct {
	OtherID       uint         `json:"other_id"`
	OtherNickname string       `json:"other_nickname"`
	List          []DmResponse `json:"list"`
	NextCursor    *uint        `json:"next_cursor"`
}

// RoomSummaryResponse 是房间列表中的一项
type RoomSummaryResponse struct {
	ID            uint      `json:"id"`
	LastContent   string    `json:"last_content"`
	Time          time.Time `json:"time"`
	OtherID       uint      `json:"other_id"`
	OtherNickname string    `json:"other_nickname"`
	UnreadCount   int       `json:"unread_count"`
}

// UnreadCountResponse 是未读私信总数
type UnreadCountResponse struct {
	UnreadCount int64 `json:"unread_count"`
}

// BlockResponse 是屏蔽列表中的一项
type BlockResponse struct {
	BlockedID uint      `json:"blocked_id"`
	CreatedAt time.Time `json:"created_at"`
}

func NewDmResponse(dm domain.Dm) DmResponse {
	return DmResponse{
		ID:              dm.ID,
		RoomID:          dm.RoomID,
		IsSenderMessage: dm.IsSenderMessage,
		Content:         dm.Content,
		IsRead:          dm.IsRead,
		CreatedAt:       dm.CreatedAt,
	}
}

func NewDmPageResponse(page *domain.DmPage) DmPageResponse {
	list := make([]DmResponse, 0, len(page.Dms))
	for _, dm := range page.Dms {
		list = append(list, NewDmResponse(dm))
	}
	return DmPageResponse{
		OtherID:       page.OtherID,
		OtherNickname: page.OtherNickname,
		List:          list,
		NextCursor:    page.NextCursor,
	}
}

func NewRoomSummaryResponses(rooms []domain.RoomSummary) []RoomSummaryResponse {
	out := make([]RoomSummaryResponse, 0, len(rooms))
	for _, r := range rooms {
		out = append(out, RoomSummaryResponse{
			ID:            r.RoomID,
			LastContent:   r.LastContent,
			Time:          r.LastSentAt,
			OtherID:       r.OtherID,
			OtherNickname: r.OtherNickname,
			UnreadCount:   r.UnreadCount,
		})
	}
	return out
}

func NewBlockResponses(blocks []domain.Block) []BlockResponse {
	out := make([]BlockResponse, 0, len(blocks))
	for _, b := range blocks {
		out = append(out, BlockResponse{BlockedID: b.BlockedID, CreatedAt: b.CreatedAt})
	}
	return out
}
