package worker

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"
)

// UnreadReconciler 重新计算所有房间的未读计数
type UnreadReconciler interface {
	ReconcileUnreadCounts(ctx context.Context) (int64, error)
}

// ReconcileHandler 处理周期性未读数修正任务
type ReconcileHandler struct {
	reconciler UnreadReconciler
}

func NewReconcileHandler(reconciler UnreadReconciler) *ReconcileHandler {
	return &ReconcileHandler{reconciler: reconciler}
}

// ProcessTask 实现 asynq.Handler 接口
func (h *ReconcileHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	updated, err := h.reconciler.ReconcileUnreadCounts(ctx)
	if err != nil {
		return fmt.Errorf("reconcile unread counts: %w", err)
	}
	logrus.WithFields(logrus.Fields{"task_type": t.Type(), "rooms_updated": updated}).Info("Unread counts reconciled")
	return nil
}
