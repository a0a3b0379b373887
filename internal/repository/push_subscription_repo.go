package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"stagetrack/internal/model"
)

// PushSubscriptionRepository 推送订阅数据访问接口
type PushSubscriptionRepository interface {
	// Upsert 以 endpoint 为键；被其他用户重新注册时变更归属
	Upsert(ctx context.Context, sub *model.PushSubscription) error
	DeleteByEndpoint(ctx context.Context, userID, endpoint string) (int64, error)
	DeleteByID(ctx context.Context, id string) error
	ListByUser(ctx context.Context, userID string) ([]model.PushSubscription, error)
}

type pushSubscriptionRepo struct {
	db *gorm.DB
}

// NewPushSubscriptionRepo 创建 PushSubscriptionRepository 实例
func NewPushSubscriptionRepo(db *gorm.DB) PushSubscriptionRepository {
	return &pushSubscriptionRepo{db: db}
}

func (r *pushSubscriptionRepo) Upsert(ctx context.Context, sub *model.PushSubscription) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "endpoint"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"user_id":    sub.UserID,
				"p256dh":     sub.P256dh,
				"auth":       sub.Auth,
				"updated_at": gorm.Expr("NOW()"),
			}),
		}).
		Create(sub).Error
}

func (r *pushSubscriptionRepo) DeleteByEndpoint(ctx context.Context, userID, endpoint string) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND endpoint = ?", userID, endpoint).
		Delete(&model.PushSubscription{})
	return res.RowsAffected, res.Error
}

func (r *pushSubscriptionRepo) DeleteByID(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("push_subscription_id = ?", id).
		Delete(&model.PushSubscription{}).Error
}

func (r *pushSubscriptionRepo) ListByUser(ctx context.Context, userID string) ([]model.PushSubscription, error) {
	var rows []model.PushSubscription
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&rows).Error
	return rows, err
}
