package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/hibiken/asynq"

	"community-board/internal/domain"
)

// 定义任务类型常量
const (
	TypeDmNotification       = "dm:notify"           // 私信通知投递任务
	TypeUnreadReconciliation = "dm:reconcile_unread" // 周期性未读数修正任务
)

// DmNotificationPayload 定义了通知投递任务的数据结构
type DmNotificationPayload struct {
	Notification domain.Notification
}

// NewDmNotificationTask 创建一个通知投递任务的 payload
func NewDmNotificationTask(n domain.Notification) ([]byte, error) {
	return json.Marshal(DmNotificationPayload{Notification: n})
}

// NewUnreadReconciliationTask 创建周期性未读数修正任务的 payload
func NewUnreadReconciliationTask() ([]byte, error) {
	return json.Marshal(struct{}{})
}

// Enqueuer 是 asynq.Client 中用于入队的部分
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// NotificationEnqueuer 把通知转为异步任务, 由 worker 负责实际投递
type NotificationEnqueuer struct {
	client Enqueuer
	now    func() time.Time
}

// NewNotificationEnqueuer 创建 NotificationEnqueuer 实例
func NewNotificationEnqueuer(client Enqueuer) *NotificationEnqueuer {
	if client == nil {
		panic("asynq client cannot be nil for NotificationEnqueuer")
	}
	return &NotificationEnqueuer{client: client, now: time.Now}
}

// Send 入队一条发给 targetUserID 的通知
func (e *NotificationEnqueuer) Send(ctx context.Context, targetUserID uint, title, body string, data map[string]string) error {
	payload, err := NewDmNotificationTask(domain.Notification{
		TargetUserID: targetUserID,
		Title:        title,
		Body:         body,
		Data:         data,
		CreatedAt:    e.now(),
	})
	if err != nil {
		return fmt.Errorf("tasks: marshal notification payload: %w", err)
	}

	task := asynq.NewTask(TypeDmNotification, payload)
	_, err = e.client.EnqueueContext(ctx, task,
		asynq.Queue("default"),
		asynq.MaxRetry(3),
		asynq.Timeout(30*time.Second),
	)
	if err != nil {
		return fmt.Errorf("tasks: enqueue notification for user %s: %w", strconv.FormatUint(uint64(targetUserID), 10), err)
	}
	return nil
}
