package dto

import "community-board/internal/domain"

// NotificationMessage 是推送到 WebSocket 客户端的通知
type NotificationMessage struct {
	Type string `json:"type"`
	domain.Notification
}

// ErrorDTO 表示发送给客户端的错误消息数据结构
type ErrorDTO struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}
