package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"stagetrack/internal/attendance"
	"stagetrack/internal/model"
)

// NotificationLogRepository 通知去重记录
type NotificationLogRepository interface {
	Exists(ctx context.Context, userID, notificationType string, referenceDate time.Time) (bool, error)
	// Claim 插入占位行；（用户, 类型, 参考日期）已存在时返回 false
	Claim(ctx context.Context, entry *model.NotificationLog) (bool, error)
	MarkDelivered(ctx context.Context, id string) error
}

type notificationLogRepo struct {
	db *gorm.DB
}

// NewNotificationLogRepo 创建 NotificationLogRepository 实例
func NewNotificationLogRepo(db *gorm.DB) NotificationLogRepository {
	return &notificationLogRepo{db: db}
}

func (r *notificationLogRepo) Exists(ctx context.Context, userID, notificationType string, referenceDate time.Time) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&model.NotificationLog{}).
		Where("user_id = ? AND notification_type = ? AND reference_date = ?",
			userID, notificationType, attendance.DateKey(referenceDate)).
		Limit(1).
		Count(&n).Error
	return n > 0, err
}

func (r *notificationLogRepo) Claim(ctx context.Context, entry *model.NotificationLog) (bool, error) {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(entry)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *notificationLogRepo) MarkDelivered(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Model(&model.NotificationLog{}).
		Where("notification_log_id = ?", id).
		Update("delivered", true).Error
}
