package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"community-board/internal/domain"
	"community-board/internal/repository"
)

// BlockService 管理用户之间的屏蔽关系。
type BlockService struct {
	blockRepo repository.BlockRepository
	userRepo  repository.UserRepository
}

// NewBlockService 创建 BlockService 实例。
func NewBlockService(blockRepo repository.BlockRepository, userRepo repository.UserRepository) *BlockService {
	if blockRepo == nil || userRepo == nil {
		panic("repositories cannot be nil for BlockService")
	}
	return &BlockService{blockRepo: blockRepo, userRepo: userRepo}
}

// BlockUser 让 userID 屏蔽 targetID。重复屏蔽视为成功。
func (s *BlockService) BlockUser(ctx context.Context, userID, targetID uint) error {
	logCtx := logrus.WithFields(logrus.Fields{"user_id": userID, "target_id": targetID})

	if userID == targetID {
		return ErrInvalidBlock
	}
	if _, err := s.userRepo.FindNicknameByID(ctx, targetID); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrUserNotFound
		}
		logCtx.WithError(err).Error("Failed to look up block target")
		return fmt.Errorf("find user %d: %w", targetID, err)
	}

	if err := s.blockRepo.Block(ctx, userID, targetID); err != nil {
		if errors.Is(err, repository.ErrDuplicateEntry) {
			return nil
		}
		logCtx.WithError(err).Error("Failed to block user")
		return fmt.Errorf("block user: %w", err)
	}
	logCtx.Info("User blocked")
	return nil
}

// UnblockUser 解除屏蔽。
func (s *BlockService) UnblockUser(ctx context.Context, userID, targetID uint) error {
	if err := s.blockRepo.Unblock(ctx, userID, targetID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotBlocked
		}
		return fmt.Errorf("unblock user: %w", err)
	}
	logrus.WithFields(logrus.Fields{"user_id": userID, "target_id": targetID}).Info("User unblocked")
	return nil
}

// ListBlocked 返回 userID 的屏蔽列表。
func (s *BlockService) ListBlocked(ctx context.Context, userID uint) ([]domain.Block, error) {
	blocks, err := s.blockRepo.ListBlocked(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list blocked users: %w", err)
	}
	return blocks, nil
}
