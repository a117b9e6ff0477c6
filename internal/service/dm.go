package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"community-board/internal/domain"
	"community-board/internal/repository"
)

// 分页与内容限制
const (
	DefaultDmPageSize  = 20
	MaxDmPageSize      = 100
	MaxDmContentLength = 1000
)

type sendDmInput struct {
	SenderID   uint   `validate:"required"`
	ReceiverID uint   `validate:"required"`
	Content    string `validate:"required,max=1000"`
}

// DmService 负责私信房间、私信历史和未读计数相关的业务逻辑。
type DmService struct {
	roomRepo  repository.RoomRepository
	dmRepo    repository.DmRepository
	userRepo  repository.UserRepository
	blockRepo repository.BlockRepository
	tx        repository.Transactor
	notifier  NotificationSink
	validate  *validator.Validate
	now       func() time.Time
}

// NewDmService 创建 DmService 实例。notifier 可以为 nil, 此时不发送通知。
func NewDmService(
	roomRepo repository.RoomRepository,
	dmRepo repository.DmRepository,
	userRepo repository.UserRepository,
	blockRepo repository.BlockRepository,
	tx repository.Transactor,
	notifier NotificationSink,
) *DmService {
	if roomRepo == nil || dmRepo == nil || userRepo == nil || blockRepo == nil || tx == nil {
		panic("repositories and transactor cannot be nil for DmService")
	}
	return &DmService{
		roomRepo:  roomRepo,
		dmRepo:    dmRepo,
		userRepo:  userRepo,
		blockRepo: blockRepo,
		tx:        tx,
		notifier:  notifier,
		validate:  validator.New(),
		now:       time.Now,
	}
}

// SetClock 替换时间来源, 用于测试。
func (s *DmService) SetClock(now func() time.Time) {
	s.now = now
}

// SendDm 由 senderID 向 receiverID 发送一条私信。
// 两人之间没有房间时以 senderID 为 sender 创建房间。
func (s *DmService) SendDm(ctx context.Context, senderNickname string, senderID, receiverID uint, content string) (*domain.Dm, error) {
	logCtx := logrus.WithFields(logrus.Fields{"sender_id": senderID, "receiver_id": receiverID})

	// 1. 参数校验
	if senderID != 0 && senderID == receiverID {
		return nil, ErrInvalidDm
	}
	input := sendDmInput{SenderID: senderID, ReceiverID: receiverID, Content: strings.TrimSpace(content)}
	if err := s.validate.Struct(input); err != nil {
		logCtx.WithError(err).Warn("Send dm rejected: invalid input")
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	// 2. 接收者必须存在, 在任何写入之前检查
	if _, err := s.userRepo.FindNicknameByID(ctx, receiverID); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			logCtx.Warn("Send dm rejected: receiver not found")
			return nil, ErrReceiverNotFound
		}
		logCtx.WithError(err).Error("Failed to look up receiver")
		return nil, fmt.Errorf("find receiver %d: %w", receiverID, err)
	}

	// 3. 任一方屏蔽了对方时不允许私信
	blocked, err := s.blockRepo.IsBlockedEither(ctx, senderID, receiverID)
	if err != nil {
		logCtx.WithError(err).Error("Failed to check block relation")
		return nil, fmt.Errorf("check block relation: %w", err)
	}
	if blocked {
		logCtx.Info("Send dm rejected: users have blocked each other")
		return nil, ErrDmBlocked
	}

	// 4. 查找或创建房间。房间创建单独提交, 并发的首次私信在唯一索引上汇合
	room, err := s.findOrCreateRoom(ctx, senderID, receiverID)
	if err != nil {
		logCtx.WithError(err).Error("Failed to resolve dm room")
		return nil, err
	}
	logCtx = logCtx.WithField("room_id", room.ID)

	// 5. 写入私信并更新房间
	isSenderMessage := room.IsSender(senderID)
	sentAt := s.now()
	dm := &domain.Dm{
		RoomID:          room.ID,
		IsSenderMessage: isSenderMessage,
		Content:         input.Content,
		IsRead:          false,
		VisibleChoice:   domain.VisibleBoth,
		CreatedAt:       sentAt,
	}
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.dmRepo.Create(ctx, dm); err != nil {
			return fmt.Errorf("create dm: %w", err)
		}
		if err := s.roomRepo.UpdateWhenSendDm(ctx, room.ID, input.Content, isSenderMessage, sentAt); err != nil {
			return fmt.Errorf("update room on send dm: %w", err)
		}
		return nil
	})
	if err != nil {
		logCtx.WithError(err).Error("Failed to persist dm")
		return nil, err
	}

	// 6. 通知接收者, 失败只记录日志
	s.notify(ctx, logCtx, senderNickname, receiverID, dm)

	logCtx.WithField("dm_id", dm.ID).Info("Dm sent")
	return dm, nil
}

func (s *DmService) findOrCreateRoom(ctx context.Context, senderID, receiverID uint) (*domain.Room, error) {
	room, err := s.findExistingRoom(ctx, senderID, receiverID)
	if err == nil {
		return room, nil
	}
	if !errors.Is(err, repository.ErrRoomNotFound) {
		return nil, err
	}

	room = domain.NewRoom(senderID, receiverID)
	if err := s.roomRepo.Create(ctx, room); err != nil {
		if errors.Is(err, repository.ErrDuplicateEntry) {
			// 另一个请求抢先创建了同一对用户的房间
			return s.findExistingRoom(ctx, senderID, receiverID)
		}
		return nil, fmt.Errorf("create room: %w", err)
	}
	return room, nil
}

// findExistingRoom 先按 (a, b) 再按 (b, a) 查找房间
func (s *DmService) findExistingRoom(ctx context.Context, a, b uint) (*domain.Room, error) {
	room, err := s.roomRepo.FindRoom(ctx, a, b)
	if err == nil {
		return room, nil
	}
	if !errors.Is(err, repository.ErrRoomNotFound) {
		return nil, fmt.Errorf("find room (%d, %d): %w", a, b, err)
	}

	room, err = s.roomRepo.FindRoom(ctx, b, a)
	if err != nil {
		if errors.Is(err, repository.ErrRoomNotFound) {
			return nil, repository.ErrRoomNotFound
		}
		return nil, fmt.Errorf("find room (%d, %d): %w", b, a, err)
	}
	return room, nil
}

func (s *DmService) notify(ctx context.Context, logCtx *logrus.Entry, senderNickname string, receiverID uint, dm *domain.Dm) {
	if s.notifier == nil {
		return
	}
	title := senderNickname
	if title == "" {
		title = "New message"
	}
	data := map[string]string{
		"type":    "dm",
		"room_id": strconv.FormatUint(uint64(dm.RoomID), 10),
		"dm_id":   strconv.FormatUint(uint64(dm.ID), 10),
	}
	if err := s.notifier.Send(ctx, receiverID, title, dm.Content, data); err != nil {
		logCtx.WithError(err).Warn("Failed to send dm notification")
	}
}

// GetDmListWithCursorBasedPaging 返回房间中的一页私信 (从新到旧), 并把对方发来的私信标记为已读。
// cursor 为 0 表示从最新一条开始; 房间不存在与查看者不是参与者返回同一个 ErrRoomNotFound。
func (s *DmService) GetDmListWithCursorBasedPaging(ctx context.Context, viewerID, roomID, cursor uint, limit int) (*domain.DmPage, error) {
	logCtx := logrus.WithFields(logrus.Fields{"user_id": viewerID, "room_id": roomID, "cursor": cursor})

	room, err := s.participantRoom(ctx, logCtx, viewerID, roomID)
	if err != nil {
		return nil, err
	}
	isSender := room.IsSender(viewerID)
	limit = normalizePageSize(limit)

	var dms []domain.Dm
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		// 1. 以当前最新私信为本次读取的边界
		lastID, err := s.dmRepo.FindLastID(ctx, roomID)
		if err != nil {
			return fmt.Errorf("find last dm id: %w", err)
		}

		// 2. 对方发送的私信标记为已读, 并清零自己的未读数
		if err := s.dmRepo.MarkRead(ctx, roomID, !isSender, lastID); err != nil {
			return fmt.Errorf("mark dms read: %w", err)
		}
		if isSender {
			err = s.dmRepo.ResetSenderUnreadCount(ctx, roomID)
		} else {
			err = s.dmRepo.ResetReceiverUnreadCount(ctx, roomID)
		}
		if err != nil {
			return fmt.Errorf("reset unread count: %w", err)
		}

		// 3. 读取一页
		dms, err = s.dmRepo.FindWithCursor(ctx, repository.DmCursorQuery{
			IsSender:     isSender,
			RoomID:       roomID,
			Cursor:       cursor,
			UpperBoundID: lastID,
			Offset:       0,
			Limit:        limit,
		})
		if err != nil {
			return fmt.Errorf("find dms with cursor: %w", err)
		}
		return nil
	})
	if err != nil {
		logCtx.WithError(err).Error("Failed to load dm page")
		return nil, err
	}

	page := &domain.DmPage{
		OtherID: room.OtherID(viewerID),
		Dms:     dms,
	}
	if len(dms) == limit {
		next := dms[len(dms)-1].ID
		page.NextCursor = &next
	}

	nickname, err := s.userRepo.FindNicknameByID(ctx, page.OtherID)
	if err != nil {
		if !errors.Is(err, repository.ErrUserNotFound) {
			logCtx.WithError(err).Error("Failed to look up other participant")
			return nil, fmt.Errorf("find nickname of user %d: %w", page.OtherID, err)
		}
		logCtx.WithField("other_id", page.OtherID).Warn("Other participant no longer exists")
	}
	page.OtherNickname = nickname

	return page, nil
}

// DeleteRoom 对查看者隐藏房间, 另一方不受影响, 私信不会被删除。
func (s *DmService) DeleteRoom(ctx context.Context, viewerID, roomID uint) error {
	logCtx := logrus.WithFields(logrus.Fields{"user_id": viewerID, "room_id": roomID})

	room, err := s.participantRoom(ctx, logCtx, viewerID, roomID)
	if err != nil {
		return err
	}

	if room.IsSender(viewerID) {
		err = s.roomRepo.UpdateWhenSenderIsDeleted(ctx, roomID)
	} else {
		err = s.roomRepo.UpdateWhenReceiverIsDeleted(ctx, roomID)
	}
	if err != nil {
		logCtx.WithError(err).Error("Failed to delete room")
		return fmt.Errorf("delete room %d: %w", roomID, err)
	}

	logCtx.Info("Room hidden for user")
	return nil
}

// FindUnreadDmCount 返回用户的未读私信总数。
func (s *DmService) FindUnreadDmCount(ctx context.Context, userID uint) (int64, error) {
	count, err := s.roomRepo.CountUnreadDm(ctx, userID)
	if err != nil {
		logrus.WithField("user_id", userID).WithError(err).Error("Failed to count unread dms")
		return 0, fmt.Errorf("count unread dms: %w", err)
	}
	return count, nil
}

// FindRoomList 返回用户可见的房间列表。
func (s *DmService) FindRoomList(ctx context.Context, userID uint) ([]domain.RoomSummary, error) {
	rooms, err := s.roomRepo.FindRoomList(ctx, userID)
	if err != nil {
		logrus.WithField("user_id", userID).WithError(err).Error("Failed to list rooms")
		return nil, fmt.Errorf("find room list: %w", err)
	}
	return rooms, nil
}

// ReconcileUnreadCounts 用私信已读状态修正所有房间的未读计数。
func (s *DmService) ReconcileUnreadCounts(ctx context.Context) (int64, error) {
	updated, err := s.roomRepo.ReconcileUnreadCounts(ctx)
	if err != nil {
		return 0, fmt.Errorf("reconcile unread counts: %w", err)
	}
	return updated, nil
}

// participantRoom 查找房间并确认 viewerID 是参与者。
// 房间不存在与非参与者返回同一个错误。
func (s *DmService) participantRoom(ctx context.Context, logCtx *logrus.Entry, viewerID, roomID uint) (*domain.Room, error) {
	room, err := s.roomRepo.FindByID(ctx, roomID)
	if err != nil {
		if errors.Is(err, repository.ErrRoomNotFound) {
			logCtx.Warn("Room not found")
			return nil, ErrRoomNotFound
		}
		logCtx.WithError(err).Error("Failed to find room")
		return nil, fmt.Errorf("find room %d: %w", roomID, err)
	}
	if !room.IsParticipant(viewerID) {
		logCtx.Warn("User is not a participant of the room")
		return nil, ErrRoomNotFound
	}
	return room, nil
}

func normalizePageSize(limit int) int {
	if limit <= 0 {
		return DefaultDmPageSize
	}
	if limit > MaxDmPageSize {
		return MaxDmPageSize
	}
	return limit
}
