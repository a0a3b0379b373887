package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"stagetrack/internal/dto"
	"stagetrack/internal/model"
	"stagetrack/internal/repository"
)

// ── 推送错误定义 ──

var (
	ErrPushNotConfigured = errors.New("Pushmeldingen zijn niet ingeschakeld")
)

// PushService 提醒所用的浏览器推送订阅
type PushService interface {
	Subscribe(ctx context.Context, userID string, req *dto.SubscribeRequest) error
	Unsubscribe(ctx context.Context, userID string, req *dto.UnsubscribeRequest) error
	VAPIDPublicKey() (*dto.VAPIDKeyResponse, error)
}

type pushService struct {
	repo      *repository.Repository
	publicKey string
	logger    *zap.Logger
}

// NewPushService publicKey 为空表示未配置推送
func NewPushService(repo *repository.Repository, publicKey string, logger *zap.Logger) PushService {
	return &pushService{repo: repo, publicKey: publicKey, logger: logger}
}

// ────────────────────── Subscribe ──────────────────────

func (s *pushService) Subscribe(ctx context.Context, userID string, req *dto.SubscribeRequest) error {
	sub := &model.PushSubscription{
		PushSubscriptionID: uuid.NewString(),
		UserID:             userID,
		Endpoint:           req.Endpoint,
		P256dh:             req.Keys.P256dh,
		Auth:               req.Keys.Auth,
	}
	if err := s.repo.PushSubscription.Upsert(ctx, sub); err != nil {
		s.logger.Error("save push subscription failed", zap.String("user_id", userID), zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── Unsubscribe ──────────────────────

// Unsubscribe 幂等
func (s *pushService) Unsubscribe(ctx context.Context, userID string, req *dto.UnsubscribeRequest) error {
	n, err := s.repo.PushSubscription.DeleteByEndpoint(ctx, userID, req.Endpoint)
	if err != nil {
		s.logger.Error("delete push subscription failed", zap.String("user_id", userID), zap.Error(err))
		return err
	}
	if n == 0 {
		s.logger.Debug("unsubscribe for unknown endpoint", zap.String("user_id", userID))
	}
	return nil
}

// ────────────────────── VAPIDPublicKey ──────────────────────

func (s *pushService) VAPIDPublicKey() (*dto.VAPIDKeyResponse, error) {
	if s.publicKey == "" {
		return nil, ErrPushNotConfigured
	}
	return &dto.VAPIDKeyResponse{PublicKey: s.publicKey}, nil
}
