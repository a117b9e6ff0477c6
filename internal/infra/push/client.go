// Package push 通过 HTTP 推送网关 (FCM 兼容格式) 向用户设备发送通知。
package push

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"community-board/internal/domain"
)

// Client 是推送网关的 HTTP 客户端。未配置网关地址时 Enabled 返回 false。
type Client struct {
	http       *resty.Client
	gatewayURL string
}

type message struct {
	To           string            `json:"to"`
	Notification messageBody       `json:"notification"`
	Data         map[string]string `json:"data,omitempty"`
}

type messageBody struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// NewClient 创建推送客户端。serverKey 以 "key=" 形式放入 Authorization 头。
func NewClient(gatewayURL, serverKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	httpClient := resty.New().
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json")
	if serverKey != "" {
		httpClient.SetHeader("Authorization", "key="+serverKey)
	}
	return &Client{http: httpClient, gatewayURL: gatewayURL}
}

// Enabled 报告是否配置了推送网关
func (c *Client) Enabled() bool {
	return c != nil && c.gatewayURL != ""
}

// TopicFor 返回用户订阅的推送主题
func TopicFor(userID uint) string {
	return fmt.Sprintf("/topics/user_%d", userID)
}

// Send 把通知推送到目标用户的主题
func (c *Client) Send(ctx context.Context, n domain.Notification) error {
	if !c.Enabled() {
		return nil
	}
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(message{
			To:           TopicFor(n.TargetUserID),
			Notification: messageBody{Title: n.Title, Body: n.Body},
			Data:         n.Data,
		}).
		Post(c.gatewayURL)
	if err != nil {
		return fmt.Errorf("push: send to user %d: %w", n.TargetUserID, err)
	}
	if resp.IsError() {
		return fmt.Errorf("push: gateway returned %d for user %d: %s", resp.StatusCode(), n.TargetUserID, resp.String())
	}
	return nil
}
