package webpush

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	webpushgo "github.com/SherClockHolmes/webpush-go"

	"stagetrack/config"
)

var (
	// ErrSubscriptionGone 推送服务返回 404/410，订阅需删除
	ErrSubscriptionGone = errors.New("push subscription gone")
	// ErrPushDisabled 未配置 VAPID 密钥
	ErrPushDisabled = errors.New("push delivery disabled")
)

// Subscription 浏览器推送端点及其加密密钥
type Subscription struct {
	Endpoint string
	P256dh   string
	Auth     string
}

// Payload Service Worker 收到的消息体
type Payload struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	URL   string `json:"url"`
	Tag   string `json:"tag"`
}

// DeliveryError 404/410 以外的非 2xx 响应
type DeliveryError struct {
	StatusCode int
	Body       string
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("push service returned %d: %s", e.StatusCode, e.Body)
}

// Sender 向单个订阅投递消息
type Sender interface {
	Send(ctx context.Context, sub Subscription, payload Payload) error
}

// VAPIDSender 通过标准 Web Push 协议投递
type VAPIDSender struct {
	publicKey  string
	privateKey string
	subject    string
	ttl        int
	client     *http.Client
}

// NewVAPIDSender 创建发送器，client 可为 nil
func NewVAPIDSender(cfg *config.PushConfig, client *http.Client) *VAPIDSender {
	return &VAPIDSender{
		publicKey:  cfg.VAPIDPublicKey,
		privateKey: cfg.VAPIDPrivateKey,
		subject:    cfg.Subject,
		ttl:        cfg.TTLSeconds,
		client:     client,
	}
}

// Send 加密并发送消息
func (s *VAPIDSender) Send(ctx context.Context, sub Subscription, payload Payload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode payload: %w", err)
	}

	opts := &webpushgo.Options{
		Subscriber:      s.subject,
		VAPIDPublicKey:  s.publicKey,
		VAPIDPrivateKey: s.privateKey,
		TTL:             s.ttl,
		Urgency:         webpushgo.UrgencyHigh,
	}
	if s.client != nil {
		opts.HTTPClient = s.client
	}

	resp, err := webpushgo.SendNotificationWithContext(ctx, body, &webpushgo.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpushgo.Keys{
			P256dh: sub.P256dh,
			Auth:   sub.Auth,
		},
	}, opts)
	if err != nil {
		return fmt.Errorf("send push: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone:
		return ErrSubscriptionGone
	case resp.StatusCode >= 300:
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &DeliveryError{StatusCode: resp.StatusCode, Body: string(msg)}
	}
	return nil
}

// Disabled 未配置 VAPID 密钥时使用
type Disabled struct{}

// Send 始终返回 ErrPushDisabled
func (Disabled) Send(context.Context, Subscription, Payload) error {
	return ErrPushDisabled
}
