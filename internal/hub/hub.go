package hub

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"community-board/internal/domain"
	"community-board/internal/dto"
	"community-board/internal/repository"

	"github.com/sirupsen/logrus"
)

// 包级别的 WebSocket 常量，供 hub 和 client 使用
const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 512

	// 在线状态写 Redis 的超时
	presenceTimeout = 2 * time.Second
)

// HubMessage 定义了在 Hub 内部通道传递的消息类型
type HubMessage struct {
	Type   string // "register", "unregister"
	Client *Client
}

// Hub 按用户维护活跃的通知连接，并把通知广播转发给目标用户的所有连接
type Hub struct {
	messageChan chan HubMessage

	// map[userID]map[*Client]bool
	users   map[uint]map[*Client]bool
	usersMu sync.RWMutex

	stateRepo repository.StateRepository
}

// NewHub 创建并返回一个新的 Hub 实例
func NewHub(stateRepo repository.StateRepository) *Hub {
	if stateRepo == nil {
		panic("StateRepository cannot be nil for Hub")
	}
	return &Hub{
		messageChan: make(chan HubMessage, 512),
		users:       make(map[uint]map[*Client]bool),
		stateRepo:   stateRepo,
	}
}

// Run 订阅通知广播并处理注册/注销事件，直到 ctx 结束
func (h *Hub) Run(ctx context.Context) {
	logrus.Info("Notification hub started")

	var notifications <-chan domain.Notification
	sub, err := h.stateRepo.SubscribeNotifications(ctx)
	if err != nil {
		// 订阅失败时 Hub 仍处理本地连接，只是收不到跨实例广播
		logrus.WithError(err).Error("Hub: failed to subscribe to notifications")
	} else {
		notifications = sub.Channel()
		defer func() {
			if cerr := sub.Close(); cerr != nil {
				logrus.WithError(cerr).Warn("Hub: failed to close notification subscription")
			}
		}()
	}

	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			logrus.Info("Notification hub stopped")
			return
		case msg := <-h.messageChan:
			switch msg.Type {
			case "register":
				h.registerClient(msg.Client)
			case "unregister":
				h.unregisterClient(msg.Client)
			default:
				logrus.Warnf("Hub: unknown message type %q", msg.Type)
			}
		case n, ok := <-notifications:
			if !ok {
				logrus.Warn("Hub: notification subscription closed")
				notifications = nil
				continue
			}
			h.dispatch(n)
		}
	}
}

func (h *Hub) registerClient(client *Client) {
	if client == nil {
		return
	}
	h.usersMu.Lock()
	clients, ok := h.users[client.userID]
	if !ok {
		clients = make(map[*Client]bool)
		h.users[client.userID] = clients
	}
	clients[client] = true
	total := len(clients)
	h.usersMu.Unlock()

	logCtx := logrus.WithFields(logrus.Fields{"user_id": client.userID, "connections": total})
	ctx, cancel := context.WithTimeout(context.Background(), presenceTimeout)
	defer cancel()
	if err := h.stateRepo.AddOnlineConnection(ctx, client.userID, client.connID); err != nil {
		logCtx.WithError(err).Warn("Hub: failed to record online connection")
	}
	logCtx.Info("Client registered")
}

func (h *Hub) unregisterClient(client *Client) {
	if client == nil {
		return
	}
	h.usersMu.Lock()
	clients, ok := h.users[client.userID]
	if !ok || !clients[client] {
		h.usersMu.Unlock()
		return
	}
	delete(clients, client)
	close(client.send)
	if len(clients) == 0 {
		delete(h.users, client.userID)
	}
	h.usersMu.Unlock()

	h.removePresence(client)
	logCtx := logrus.WithField("user_id", client.userID)
	logCtx.Info("Client unregistered")
}

// dispatch 将通知写入目标用户每个连接的发送队列，队列满的连接被丢弃
func (h *Hub) dispatch(n domain.Notification) {
	payload, err := json.Marshal(dto.NotificationMessage{Type: "notification", Notification: n})
	if err != nil {
		logrus.WithError(err).Error("Hub: failed to marshal notification")
		return
	}

	h.usersMu.RLock()
	clients := h.users[n.TargetUserID]
	var stalled []*Client
	for client := range clients {
		select {
		case client.send <- payload:
		default:
			stalled = append(stalled, client)
		}
	}
	h.usersMu.RUnlock()

	for _, client := range stalled {
		logrus.WithField("user_id", client.userID).Warn("Client send buffer full, dropping connection")
		h.unregisterClient(client)
	}
}

// closeAll 关闭所有连接并清除它们的在线记录
func (h *Hub) closeAll() {
	h.usersMu.Lock()
	var closed []*Client
	for userID, clients := range h.users {
		for client := range clients {
			close(client.send)
			closed = append(closed, client)
		}
		delete(h.users, userID)
	}
	h.usersMu.Unlock()

	for _, client := range closed {
		h.removePresence(client)
	}
}

func (h *Hub) removePresence(client *Client) {
	ctx, cancel := context.WithTimeout(context.Background(), presenceTimeout)
	defer cancel()
	if err := h.stateRepo.RemoveOnlineConnection(ctx, client.userID, client.connID); err != nil {
		logrus.WithField("user_id", client.userID).WithError(err).Warn("Hub: failed to remove online connection")
	}
}

// refreshPresence 在收到 Pong 时延长连接的在线记录
func (h *Hub) refreshPresence(client *Client) {
	ctx, cancel := context.WithTimeout(context.Background(), presenceTimeout)
	defer cancel()
	if err := h.stateRepo.RefreshOnlineConnection(ctx, client.userID, client.connID); err != nil {
		logrus.WithField("user_id", client.userID).WithError(err).Debug("Hub: failed to refresh online connection")
	}
}

// QueueMessage 尝试将消息放入 Hub 的处理通道，通道满时返回 false
func (h *Hub) QueueMessage(msg HubMessage) bool {
	select {
	case h.messageChan <- msg:
		return true
	default:
		logrus.WithField("type", msg.Type).Warn("Hub message channel full")
		return false
	}
}

// ConnectionCount 返回用户在本实例上的连接数
func (h *Hub) ConnectionCount(userID uint) int {
	h.usersMu.RLock()
	defer h.usersMu.RUnlock()
	return len(h.users[userID])
}
