package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"

	"community-board/internal/domain"
	"community-board/internal/repository"
	"community-board/internal/tasks"
)

// Pusher 是移动推送网关客户端
type Pusher interface {
	Enabled() bool
	Send(ctx context.Context, n domain.Notification) error
}

// NotificationHandler 处理通知投递任务:
// 先广播给在线连接, 用户不在线时再走推送网关
type NotificationHandler struct {
	stateRepo repository.StateRepository
	pusher    Pusher
}

// NewNotificationHandler 创建 Handler 实例，pusher 可以为 nil
func NewNotificationHandler(stateRepo repository.StateRepository, pusher Pusher) *NotificationHandler {
	return &NotificationHandler{stateRepo: stateRepo, pusher: pusher}
}

// ProcessTask 实现 asynq.Handler 接口
func (h *NotificationHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	taskID := ""
	if rw := t.ResultWriter(); rw != nil {
		taskID = rw.TaskID()
	}
	currentRetry, _ := asynq.GetRetryCount(ctx)
	logCtx := logrus.WithFields(logrus.Fields{
		"task_id":   taskID,
		"task_type": t.Type(),
		"retry":     currentRetry,
	})

	var payload tasks.DmNotificationPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		logCtx.WithError(err).Error("Failed to unmarshal task payload")
		return fmt.Errorf("failed to unmarshal payload: %v: %w", err, asynq.SkipRetry)
	}
	n := payload.Notification
	logCtx = logCtx.WithField("target_user_id", n.TargetUserID)

	// 重试时不再重复广播
	if currentRetry == 0 {
		if err := h.stateRepo.PublishNotification(ctx, n); err != nil {
			logCtx.WithError(err).Warn("Failed to publish notification to hubs")
		}
	}

	if h.pusher == nil || !h.pusher.Enabled() {
		return nil
	}

	online, err := h.stateRepo.IsOnline(ctx, n.TargetUserID)
	if err != nil {
		logCtx.WithError(err).Warn("Failed to check presence, pushing anyway")
	}
	if online {
		logCtx.Debug("Target user online, skipping push")
		return nil
	}

	if err := h.pusher.Send(ctx, n); err != nil {
		logCtx.WithError(err).Warn("Push gateway delivery failed")
		return fmt.Errorf("push notification to user %d: %w", n.TargetUserID, err)
	}
	logCtx.Info("Notification pushed")
	return nil
}
