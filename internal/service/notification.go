package service

import "context"

// NotificationSink 向用户投递通知 (推送或站内)。
// 调用方把它当作尽力而为的副作用, 失败不会影响业务结果。
type NotificationSink interface {
	Send(ctx context.Context, targetUserID uint, title, body string, data map[string]string) error
}
