package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"stagetrack/internal/dto"
)

func TestPushSubscribe_UpsertsByEndpoint(t *testing.T) {
	repos := newTestRepos()
	svc := NewPushService(repos.repository(), "BPubKey", zap.NewNop())
	ctx := context.Background()

	req := &dto.SubscribeRequest{
		Endpoint: "https://push.example.com/abc",
		Keys:     dto.PushKeys{P256dh: "p1", Auth: "a1"},
	}
	if err := svc.Subscribe(ctx, "u1", req); err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	req.Keys = dto.PushKeys{P256dh: "p2", Auth: "a2"}
	if err := svc.Subscribe(ctx, "u2", req); err != nil {
		t.Fatalf("Subscribe again: %v", err)
	}

	if len(repos.subs.rows) != 1 {
		t.Fatalf("subscriptions = %d, want 1", len(repos.subs.rows))
	}
	for _, s := range repos.subs.rows {
		if s.UserID != "u2" || s.P256dh != "p2" {
			t.Errorf("subscription not moved to latest user: %+v", s)
		}
	}
}

func TestPushUnsubscribe_Idempotent(t *testing.T) {
	repos := newTestRepos()
	svc := NewPushService(repos.repository(), "BPubKey", zap.NewNop())
	ctx := context.Background()

	_ = svc.Subscribe(ctx, "u1", &dto.SubscribeRequest{Endpoint: "https://push.example.com/abc", Keys: dto.PushKeys{P256dh: "p", Auth: "a"}})

	for i := 0; i < 2; i++ {
		if err := svc.Unsubscribe(ctx, "u1", &dto.UnsubscribeRequest{Endpoint: "https://push.example.com/abc"}); err != nil {
			t.Fatalf("Unsubscribe #%d: %v", i+1, err)
		}
	}
	if len(repos.subs.rows) != 0 {
		t.Errorf("subscriptions = %d, want 0", len(repos.subs.rows))
	}
}

func TestVAPIDPublicKey(t *testing.T) {
	repos := newTestRepos()
	if _, err := NewPushService(repos.repository(), "", zap.NewNop()).VAPIDPublicKey(); !errors.Is(err, ErrPushNotConfigured) {
		t.Errorf("expected ErrPushNotConfigured, got %v", err)
	}
	resp, err := NewPushService(repos.repository(), "BPubKey", zap.NewNop()).VAPIDPublicKey()
	if err != nil || resp.PublicKey != "BPubKey" {
		t.Errorf("resp = %+v, err %v", resp, err)
	}
}
