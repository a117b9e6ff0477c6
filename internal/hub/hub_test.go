package hub

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"community-board/internal/domain"
	"community-board/internal/dto"
	"community-board/internal/repository/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type fakeSubscription struct {
	ch     chan domain.Notification
	closed bool
}

func (s *fakeSubscription) Channel() <-chan domain.Notification { return s.ch }
func (s *fakeSubscription) Close() error {
	s.closed = true
	return nil
}

func startHub(t *testing.T, stateRepo *mocks.StateRepository) (*Hub, context.CancelFunc, chan struct{}) {
	t.Helper()
	h := NewHub(stateRepo)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		h.Run(ctx)
		close(done)
	}()
	return h, cancel, done
}

func receive(t *testing.T, c *Client) dto.NotificationMessage {
	t.Helper()
	select {
	case raw := <-c.send:
		var msg dto.NotificationMessage
		require.NoError(t, json.Unmarshal(raw, &msg))
		return msg
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for notification")
	}
	return dto.NotificationMessage{}
}

func TestHub_DispatchesBroadcastToTargetUser(t *testing.T) {
	stateRepo := new(mocks.StateRepository)
	sub := &fakeSubscription{ch: make(chan domain.Notification, 1)}
	stateRepo.On("SubscribeNotifications", mock.Anything).Return(sub, nil).Once()
	stateRepo.On("AddOnlineConnection", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	stateRepo.On("RemoveOnlineConnection", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	h, cancel, done := startHub(t, stateRepo)

	bob := NewClient(h, nil, 2)
	carol := NewClient(h, nil, 3)
	require.True(t, h.QueueMessage(HubMessage{Type: "register", Client: bob}))
	require.True(t, h.QueueMessage(HubMessage{Type: "register", Client: carol}))
	require.Eventually(t, func() bool { return h.ConnectionCount(2) == 1 && h.ConnectionCount(3) == 1 }, time.Second, 10*time.Millisecond)

	sub.ch <- domain.Notification{TargetUserID: 2, Title: "alice", Body: "hi", Data: map[string]string{"type": "dm", "room_id": "10"}}

	msg := receive(t, bob)
	assert.Equal(t, "notification", msg.Type)
	assert.Equal(t, "alice", msg.Title)
	assert.Equal(t, "10", msg.Data["room_id"])
	assert.Empty(t, carol.send)

	cancel()
	<-done
	assert.True(t, sub.closed)
	_, open := <-bob.send
	assert.False(t, open)
}

func TestHub_UnregisterUpdatesPresence(t *testing.T) {
	stateRepo := new(mocks.StateRepository)
	sub := &fakeSubscription{ch: make(chan domain.Notification, 1)}
	stateRepo.On("SubscribeNotifications", mock.Anything).Return(sub, nil).Once()

	h, cancel, done := startHub(t, stateRepo)
	defer func() {
		cancel()
		<-done
	}()

	first := NewClient(h, nil, 2)
	second := NewClient(h, nil, 2)
	require.NotEqual(t, first.connID, second.connID)
	stateRepo.On("AddOnlineConnection", mock.Anything, uint(2), first.connID).Return(nil).Once()
	stateRepo.On("AddOnlineConnection", mock.Anything, uint(2), second.connID).Return(nil).Once()
	stateRepo.On("RemoveOnlineConnection", mock.Anything, uint(2), first.connID).Return(nil).Once()

	h.QueueMessage(HubMessage{Type: "register", Client: first})
	h.QueueMessage(HubMessage{Type: "register", Client: second})
	require.Eventually(t, func() bool { return h.ConnectionCount(2) == 2 }, time.Second, 10*time.Millisecond)

	h.QueueMessage(HubMessage{Type: "unregister", Client: first})
	require.Eventually(t, func() bool { return h.ConnectionCount(2) == 1 }, time.Second, 10*time.Millisecond)

	sub.ch <- domain.Notification{TargetUserID: 2, Title: "New message"}
	msg := receive(t, second)
	assert.Equal(t, "New message", msg.Title)

	stateRepo.AssertExpectations(t)
}

func TestHub_ShutdownClearsPresence(t *testing.T) {
	stateRepo := new(mocks.StateRepository)
	stateRepo.On("SubscribeNotifications", mock.Anything).Return(nil, errors.New("redis down")).Once()

	h, cancel, done := startHub(t, stateRepo)

	bob := NewClient(h, nil, 2)
	carol := NewClient(h, nil, 3)
	stateRepo.On("AddOnlineConnection", mock.Anything, uint(2), bob.connID).Return(nil).Once()
	stateRepo.On("AddOnlineConnection", mock.Anything, uint(3), carol.connID).Return(nil).Once()
	stateRepo.On("RemoveOnlineConnection", mock.Anything, uint(2), bob.connID).Return(nil).Once()
	stateRepo.On("RemoveOnlineConnection", mock.Anything, uint(3), carol.connID).Return(errors.New("redis down")).Once()

	h.QueueMessage(HubMessage{Type: "register", Client: bob})
	h.QueueMessage(HubMessage{Type: "register", Client: carol})
	require.Eventually(t, func() bool { return h.ConnectionCount(2) == 1 && h.ConnectionCount(3) == 1 }, time.Second, 10*time.Millisecond)

	cancel()
	<-done

	assert.Equal(t, 0, h.ConnectionCount(2))
	stateRepo.AssertExpectations(t)
}

func TestHub_RefreshPresence(t *testing.T) {
	stateRepo := new(mocks.StateRepository)
	h := NewHub(stateRepo)
	client := NewClient(h, nil, 7)
	stateRepo.On("RefreshOnlineConnection", mock.Anything, uint(7), client.connID).Return(nil).Once()

	h.refreshPresence(client)

	stateRepo.AssertExpectations(t)
}
