package gormpersistence

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	pgcontainer "github.com/testcontainers/testcontainers-go/modules/postgres"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"community-board/internal/domain"
	"community-board/internal/infra/setup"
	"community-board/internal/repository"
)

var (
	testDB      *gorm.DB
	pgContainer *pgcontainer.PostgresContainer
	dbOnce      sync.Once
	dbErr       error
)

func TestMain(m *testing.M) {
	code := m.Run()
	if pgContainer != nil {
		if err := pgContainer.Terminate(context.Background()); err != nil {
			log.Printf("failed to terminate container: %v", err)
		}
	}
	os.Exit(code)
}

// startPostgres 启动容器并迁移表结构, 容器运行时不可用时记录错误而不是 panic
func startPostgres() {
	defer func() {
		if r := recover(); r != nil {
			dbErr = fmt.Errorf("container runtime unavailable: %v", r)
		}
	}()
	ctx := context.Background()

	container, err := pgcontainer.Run(ctx,
		"postgres:16-alpine",
		pgcontainer.WithDatabase("community"),
		pgcontainer.WithUsername("board"),
		pgcontainer.WithPassword("password"),
		pgcontainer.BasicWaitStrategies(),
	)
	if err != nil {
		dbErr = fmt.Errorf("start postgres container: %w", err)
		return
	}
	pgContainer = container

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		dbErr = fmt.Errorf("get connection string: %w", err)
		return
	}

	db, err := gorm.Open(gormpostgres.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		dbErr = fmt.Errorf("open db: %w", err)
		return
	}
	if err := setup.MigrateDB(db); err != nil {
		dbErr = fmt.Errorf("migrate: %w", err)
		return
	}
	testDB = db
}

// freshDB 返回清空后的数据库, 没有 Docker 时跳过测试
func freshDB(t *testing.T) *gorm.DB {
	t.Helper()
	testcontainers.SkipIfProviderIsNotHealthy(t)
	dbOnce.Do(startPostgres)
	if dbErr != nil {
		t.Skipf("postgres container not available: %v", dbErr)
	}
	require.NoError(t, testDB.Exec("TRUNCATE TABLE dms, rooms, blocks, users RESTART IDENTITY CASCADE").Error)
	return testDB
}

func seedUsers(t *testing.T, db *gorm.DB, nicknames ...string) []domain.User {
	t.Helper()
	repo := NewGormUserRepository(db)
	users := make([]domain.User, 0, len(nicknames))
	for _, nick := range nicknames {
		u := domain.User{Email: nick + "@example.com", Password: "hash", Nickname: nick}
		require.NoError(t, repo.Save(context.Background(), &u))
		users = append(users, u)
	}
	return users
}

// seedDms 写入 n 条私信并同步房间状态, 返回写入顺序的 ID
func seedDms(t *testing.T, db *gorm.DB, roomID uint, n int, isSenderMessage bool) []uint {
	t.Helper()
	ctx := context.Background()
	dmRepo := NewGormDmRepository(db)
	roomRepo := NewGormRoomRepository(db)
	ids := make([]uint, 0, n)
	for i := 0; i < n; i++ {
		dm := &domain.Dm{RoomID: roomID, IsSenderMessage: isSenderMessage, Content: fmt.Sprintf("msg-%d", i)}
		require.NoError(t, dmRepo.Create(ctx, dm))
		require.NoError(t, roomRepo.UpdateWhenSendDm(ctx, roomID, dm.Content, isSenderMessage, time.Now()))
		ids = append(ids, dm.ID)
	}
	return ids
}

func TestRoomRepository_CreateIsUniquePerPair(t *testing.T) {
	db := freshDB(t)
	ctx := context.Background()
	users := seedUsers(t, db, "alice", "bob")
	repo := NewGormRoomRepository(db)

	first := domain.NewRoom(users[0].ID, users[1].ID)
	require.NoError(t, repo.Create(ctx, first))

	mirrored := domain.NewRoom(users[1].ID, users[0].ID)
	err := repo.Create(ctx, mirrored)
	assert.True(t, errors.Is(err, repository.ErrDuplicateEntry))

	found, err := repo.FindRoom(ctx, users[0].ID, users[1].ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, found.ID)
	assert.Nil(t, found.LastSentAt)

	_, err = repo.FindRoom(ctx, users[1].ID, users[0].ID)
	assert.True(t, errors.Is(err, repository.ErrRoomNotFound))

	_, err = repo.FindByID(ctx, 9999)
	assert.True(t, errors.Is(err, repository.ErrRoomNotFound))
}

func TestDmRepository_CursorPagination(t *testing.T) {
	db := freshDB(t)
	ctx := context.Background()
	users := seedUsers(t, db, "alice", "bob")
	roomRepo := NewGormRoomRepository(db)
	dmRepo := NewGormDmRepository(db)

	room := domain.NewRoom(users[0].ID, users[1].ID)
	require.NoError(t, roomRepo.Create(ctx, room))
	ids := seedDms(t, db, room.ID, 25, true)

	lastID, err := dmRepo.FindLastID(ctx, room.ID)
	require.NoError(t, err)
	assert.Equal(t, ids[24], lastID)

	query := repository.DmCursorQuery{IsSender: false, RoomID: room.ID, UpperBoundID: lastID, Limit: 10}
	var pages [][]domain.Dm
	for {
		page, err := dmRepo.FindWithCursor(ctx, query)
		require.NoError(t, err)
		pages = append(pages, page)
		if len(page) < query.Limit {
			break
		}
		query.Cursor = page[len(page)-1].ID
	}

	require.Len(t, pages, 3)
	assert.Len(t, pages[0], 10)
	assert.Len(t, pages[1], 10)
	assert.Len(t, pages[2], 5)
	assert.Equal(t, ids[24], pages[0][0].ID)
	assert.Equal(t, ids[15], pages[0][9].ID)
	assert.Equal(t, ids[0], pages[2][4].ID)

	// 边界之后写入的消息不出现在本轮分页中
	seedDms(t, db, room.ID, 1, false)
	page, err := dmRepo.FindWithCursor(ctx, repository.DmCursorQuery{RoomID: room.ID, UpperBoundID: lastID, Limit: 1})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, lastID, page[0].ID)
}

func TestDmRepository_VisibilityFilter(t *testing.T) {
	db := freshDB(t)
	ctx := context.Background()
	users := seedUsers(t, db, "alice", "bob")
	roomRepo := NewGormRoomRepository(db)
	dmRepo := NewGormDmRepository(db)

	room := domain.NewRoom(users[0].ID, users[1].ID)
	require.NoError(t, roomRepo.Create(ctx, room))
	require.NoError(t, dmRepo.Create(ctx, &domain.Dm{RoomID: room.ID, IsSenderMessage: true, Content: "both"}))
	require.NoError(t, dmRepo.Create(ctx, &domain.Dm{RoomID: room.ID, IsSenderMessage: true, Content: "mine", VisibleChoice: domain.VisibleSenderOnly}))

	lastID, err := dmRepo.FindLastID(ctx, room.ID)
	require.NoError(t, err)

	senderView, err := dmRepo.FindWithCursor(ctx, repository.DmCursorQuery{IsSender: true, RoomID: room.ID, UpperBoundID: lastID, Limit: 10})
	require.NoError(t, err)
	receiverView, err := dmRepo.FindWithCursor(ctx, repository.DmCursorQuery{IsSender: false, RoomID: room.ID, UpperBoundID: lastID, Limit: 10})
	require.NoError(t, err)

	assert.Len(t, senderView, 2)
	require.Len(t, receiverView, 1)
	assert.Equal(t, "both", receiverView[0].Content)
}

func TestRoomRepository_UnreadBookkeeping(t *testing.T) {
	db := freshDB(t)
	ctx := context.Background()
	users := seedUsers(t, db, "alice", "bob")
	roomRepo := NewGormRoomRepository(db)
	dmRepo := NewGormDmRepository(db)
	alice, bob := users[0].ID, users[1].ID

	room := domain.NewRoom(alice, bob)
	require.NoError(t, roomRepo.Create(ctx, room))
	seedDms(t, db, room.ID, 3, true)
	seedDms(t, db, room.ID, 2, false)

	bobUnread, err := roomRepo.CountUnreadDm(ctx, bob)
	require.NoError(t, err)
	aliceUnread, err := roomRepo.CountUnreadDm(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, int64(3), bobUnread)
	assert.Equal(t, int64(2), aliceUnread)

	stored, err := roomRepo.FindByID(ctx, room.ID)
	require.NoError(t, err)
	assert.Equal(t, "msg-1", stored.LastContent)
	assert.False(t, stored.LastIsSenderMessage)
	require.NotNil(t, stored.LastSentAt)

	// bob 读完 alice 的消息
	lastID, err := dmRepo.FindLastID(ctx, room.ID)
	require.NoError(t, err)
	require.NoError(t, dmRepo.MarkRead(ctx, room.ID, true, lastID))
	require.NoError(t, dmRepo.ResetReceiverUnreadCount(ctx, room.ID))

	bobUnread, err = roomRepo.CountUnreadDm(ctx, bob)
	require.NoError(t, err)
	assert.Equal(t, int64(0), bobUnread)

	var unreadFromAlice int64
	require.NoError(t, db.Model(&domain.Dm{}).Where("room_id = ? AND is_sender_message = ? AND is_read = ?", room.ID, true, false).Count(&unreadFromAlice).Error)
	assert.Equal(t, int64(0), unreadFromAlice)

	require.NoError(t, dmRepo.ResetSenderUnreadCount(ctx, room.ID))
	aliceUnread, err = roomRepo.CountUnreadDm(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, int64(0), aliceUnread)
}

func TestRoomRepository_ReconcileUnreadCounts(t *testing.T) {
	db := freshDB(t)
	ctx := context.Background()
	users := seedUsers(t, db, "alice", "bob")
	roomRepo := NewGormRoomRepository(db)

	room := domain.NewRoom(users[0].ID, users[1].ID)
	require.NoError(t, roomRepo.Create(ctx, room))
	seedDms(t, db, room.ID, 4, true)

	// 人为制造计数漂移
	require.NoError(t, db.Model(&domain.Room{}).Where("id = ?", room.ID).
		Updates(map[string]interface{}{"receiver_unread_count": 42, "sender_unread_count": 7}).Error)

	updated, err := roomRepo.ReconcileUnreadCounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), updated)

	stored, err := roomRepo.FindByID(ctx, room.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, stored.ReceiverUnreadCount)
	assert.Equal(t, 0, stored.SenderUnreadCount)
}

func TestRoomRepository_RoomListAndDeleteFlags(t *testing.T) {
	db := freshDB(t)
	ctx := context.Background()
	users := seedUsers(t, db, "alice", "bob", "carol")
	roomRepo := NewGormRoomRepository(db)
	alice, bob, carol := users[0].ID, users[1].ID, users[2].ID

	withBob := domain.NewRoom(alice, bob)
	require.NoError(t, roomRepo.Create(ctx, withBob))
	seedDms(t, db, withBob.ID, 1, true)

	withCarol := domain.NewRoom(carol, alice)
	require.NoError(t, roomRepo.Create(ctx, withCarol))
	seedDms(t, db, withCarol.ID, 2, true)

	// 没有消息的房间不出现在列表中
	empty := domain.NewRoom(bob, carol)
	require.NoError(t, roomRepo.Create(ctx, empty))

	rooms, err := roomRepo.FindRoomList(ctx, alice)
	require.NoError(t, err)
	require.Len(t, rooms, 2)
	assert.Equal(t, withCarol.ID, rooms[0].RoomID)
	assert.Equal(t, carol, rooms[0].OtherID)
	assert.Equal(t, "carol", rooms[0].OtherNickname)
	assert.Equal(t, 2, rooms[0].UnreadCount)
	assert.Equal(t, "bob", rooms[1].OtherNickname)
	assert.Equal(t, 0, rooms[1].UnreadCount)

	require.NoError(t, roomRepo.UpdateWhenSenderIsDeleted(ctx, withBob.ID))
	stored, err := roomRepo.FindByID(ctx, withBob.ID)
	require.NoError(t, err)
	assert.True(t, stored.SenderIsDeleted)
	assert.False(t, stored.ReceiverIsDeleted)

	rooms, err = roomRepo.FindRoomList(ctx, alice)
	require.NoError(t, err)
	require.Len(t, rooms, 1)
	assert.Equal(t, withCarol.ID, rooms[0].RoomID)

	bobRooms, err := roomRepo.FindRoomList(ctx, bob)
	require.NoError(t, err)
	require.Len(t, bobRooms, 1)
	assert.Equal(t, "alice", bobRooms[0].OtherNickname)

	// 新消息让隐藏的房间重新出现
	seedDms(t, db, withBob.ID, 1, false)
	rooms, err = roomRepo.FindRoomList(ctx, alice)
	require.NoError(t, err)
	assert.Len(t, rooms, 2)
}

func TestTransactor_RollbackOnError(t *testing.T) {
	db := freshDB(t)
	ctx := context.Background()
	users := seedUsers(t, db, "alice", "bob")
	roomRepo := NewGormRoomRepository(db)
	dmRepo := NewGormDmRepository(db)
	tx := NewGormTransactor(db)

	room := domain.NewRoom(users[0].ID, users[1].ID)
	require.NoError(t, roomRepo.Create(ctx, room))

	boom := errors.New("boom")
	err := tx.WithinTransaction(ctx, func(ctx context.Context) error {
		require.NoError(t, dmRepo.Create(ctx, &domain.Dm{RoomID: room.ID, IsSenderMessage: true, Content: "lost"}))
		require.NoError(t, roomRepo.UpdateWhenSendDm(ctx, room.ID, "lost", true, time.Now()))
		return boom
	})
	assert.True(t, errors.Is(err, boom))

	lastID, err := dmRepo.FindLastID(ctx, room.ID)
	require.NoError(t, err)
	assert.Equal(t, uint(0), lastID)

	stored, err := roomRepo.FindByID(ctx, room.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.LastSentAt)
	assert.Equal(t, 0, stored.ReceiverUnreadCount)
}

func TestBlockAndUserRepository(t *testing.T) {
	db := freshDB(t)
	ctx := context.Background()
	users := seedUsers(t, db, "alice", "bob")
	blockRepo := NewGormBlockRepository(db)
	userRepo := NewGormUserRepository(db)
	alice, bob := users[0].ID, users[1].ID

	require.NoError(t, blockRepo.Block(ctx, alice, bob))
	assert.True(t, errors.Is(blockRepo.Block(ctx, alice, bob), repository.ErrDuplicateEntry))

	blocked, err := blockRepo.IsBlockedEither(ctx, bob, alice)
	require.NoError(t, err)
	assert.True(t, blocked)

	list, err := blockRepo.ListBlocked(ctx, alice)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, bob, list[0].BlockedID)

	require.NoError(t, blockRepo.Unblock(ctx, alice, bob))
	assert.True(t, errors.Is(blockRepo.Unblock(ctx, alice, bob), repository.ErrNotFound))

	nickname, err := userRepo.FindNicknameByID(ctx, bob)
	require.NoError(t, err)
	assert.Equal(t, "bob", nickname)

	_, err = userRepo.FindNicknameByID(ctx, 9999)
	assert.True(t, errors.Is(err, repository.ErrUserNotFound))

	dup := domain.User{Email: "alice@example.com", Password: "hash", Nickname: "alice2"}
	assert.True(t, errors.Is(userRepo.Save(ctx, &dup), repository.ErrDuplicateEntry))
}
