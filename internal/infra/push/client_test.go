package push

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"community-board/internal/domain"
)

func TestClient_Send(t *testing.T) {
	var got message
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "server-key", time.Second)
	err := client.Send(context.Background(), domain.Notification{
		TargetUserID: 42,
		Title:        "bob",
		Body:         "hi",
		Data:         map[string]string{"type": "dm"},
	})

	require.NoError(t, err)
	assert.Equal(t, "key=server-key", auth)
	assert.Equal(t, "/topics/user_42", got.To)
	assert.Equal(t, "bob", got.Notification.Title)
	assert.Equal(t, "hi", got.Notification.Body)
	assert.Equal(t, "dm", got.Data["type"])
}

func TestClient_Send_GatewayError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	err := NewClient(srv.URL, "", time.Second).Send(context.Background(), domain.Notification{TargetUserID: 1})
	assert.Error(t, err)
}

func TestClient_Disabled(t *testing.T) {
	client := NewClient("", "", 0)
	assert.False(t, client.Enabled())
	assert.NoError(t, client.Send(context.Background(), domain.Notification{TargetUserID: 1}))
}
