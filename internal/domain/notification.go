package domain

import "time"

// Notification 是投递给某个用户的站内/推送通知。
type Notification struct {
	TargetUserID uint              `json:"target_user_id"`
	Title        string            `json:"title"`
	Body         string            `json:"body"`
	Data         map[string]string `json:"data,omitempty"`
	CreatedAt    time.Time         `json:"created_at"`
}
