package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"stagetrack/internal/attendance"
	"stagetrack/internal/model"
	pkgerrors "stagetrack/pkg/errors"
)

// ErrPendingGroupExists 用户已有待审批的排班组
var ErrPendingGroupExists = errors.New("pending schedule group exists")

// ScheduleGroupFilters 管理端列表筛选条件
type ScheduleGroupFilters struct {
	Status model.ApprovalStatus
	UserID string
}

// ScheduleRepository 排班数据访问接口，按提交组操作
type ScheduleRepository interface {
	// CreateGroupIfNoPending 用户无待审批组时插入
	// 期间锁定用户行，使并发提交串行化
	CreateGroupIfNoPending(ctx context.Context, userID string, rows []model.Schedule) error
	// ReplaceGroup 替换仍待审批的组，否则返回 ErrStateChanged
	ReplaceGroup(ctx context.Context, userID, group string, rows []model.Schedule) error
	// DeletePendingGroup 删除待审批组，不存在时返回 ErrStateChanged
	DeletePendingGroup(ctx context.Context, userID string) error
	GetPendingGroup(ctx context.Context, userID string) ([]model.Schedule, error)
	GetGroup(ctx context.Context, group string) ([]model.Schedule, error)
	ListByUser(ctx context.Context, userID string) ([]model.Schedule, error)
	ListGroups(ctx context.Context, filters *ScheduleGroupFilters, offset, limit int) ([]model.Schedule, int64, error)
	// ApproveGroup 批准待审批组并设置新的有效期
	// 该用户其他已批准组在 validFrom 前一天截止；
	// validFrom 当天或之后才生效的组标记为 superseded，避免有效期倒置
	ApproveGroup(ctx context.Context, group string, note *string, validFrom, validUntil time.Time) error
	RejectGroup(ctx context.Context, group string, note *string) error
	// ListApprovedCovering 指定日期有效的已批准排班；dayOfWeek 为 0 表示所有工作日
	ListApprovedCovering(ctx context.Context, day time.Time, dayOfWeek int, userIDs ...string) ([]model.Schedule, error)
	ListStatusChangedSince(ctx context.Context, since time.Time) ([]model.Schedule, error)
	CountPendingGroups(ctx context.Context) (int64, error)
}

type scheduleRepo struct {
	db *gorm.DB
}

// NewScheduleRepo 创建 ScheduleRepository 实例
func NewScheduleRepo(db *gorm.DB) ScheduleRepository {
	return &scheduleRepo{db: db}
}

func (r *scheduleRepo) CreateGroupIfNoPending(ctx context.Context, userID string, rows []model.Schedule) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user model.User
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("user_id").
			Where("user_id = ?", userID).
			First(&user).Error; err != nil {
			return err
		}

		var pending int64
		if err := tx.Model(&model.Schedule{}).
			Where("user_id = ? AND status = ?", userID, model.StatusPending).
			Count(&pending).Error; err != nil {
			return err
		}
		if pending > 0 {
			return ErrPendingGroupExists
		}

		return tx.Create(&rows).Error
	})
}

func (r *scheduleRepo) ReplaceGroup(ctx context.Context, userID, group string, rows []model.Schedule) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("user_id = ? AND submission_group = ? AND status = ?", userID, group, model.StatusPending).
			Delete(&model.Schedule{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return pkgerrors.ErrStateChanged
		}
		return tx.Create(&rows).Error
	})
}

func (r *scheduleRepo) DeletePendingGroup(ctx context.Context, userID string) error {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND status = ?", userID, model.StatusPending).
		Delete(&model.Schedule{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return pkgerrors.ErrStateChanged
	}
	return nil
}

func (r *scheduleRepo) GetPendingGroup(ctx context.Context, userID string) ([]model.Schedule, error) {
	var rows []model.Schedule
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND status = ?", userID, model.StatusPending).
		Order("day_of_week ASC").
		Find(&rows).Error
	return rows, err
}

func (r *scheduleRepo) GetGroup(ctx context.Context, group string) ([]model.Schedule, error) {
	var rows []model.Schedule
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("submission_group = ?", group).
		Order("day_of_week ASC").
		Find(&rows).Error
	return rows, err
}

func (r *scheduleRepo) ListByUser(ctx context.Context, userID string) ([]model.Schedule, error) {
	var rows []model.Schedule
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, day_of_week ASC").
		Find(&rows).Error
	return rows, err
}

func (r *scheduleRepo) ListGroups(ctx context.Context, filters *ScheduleGroupFilters, offset, limit int) ([]model.Schedule, int64, error) {
	groups := r.db.WithContext(ctx).
		Model(&model.Schedule{}).
		Select("submission_group, MIN(created_at) AS submitted_at").
		Group("submission_group")
	if filters != nil {
		if filters.Status != "" {
			groups = groups.Where("status = ?", filters.Status)
		}
		if filters.UserID != "" {
			groups = groups.Where("user_id = ?", filters.UserID)
		}
	}

	var total int64
	if err := r.db.WithContext(ctx).Table("(?) AS g", groups).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var keys []struct {
		SubmissionGroup string
		SubmittedAt     time.Time
	}
	if err := groups.Order("submitted_at DESC").Offset(offset).Limit(limit).Scan(&keys).Error; err != nil {
		return nil, 0, err
	}
	if len(keys) == 0 {
		return nil, total, nil
	}

	ids := make([]string, 0, len(keys))
	for _, k := range keys {
		ids = append(ids, k.SubmissionGroup)
	}

	var rows []model.Schedule
	if err := r.db.WithContext(ctx).
		Preload("User").
		Where("submission_group IN ?", ids).
		Order("created_at DESC, day_of_week ASC").
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func (r *scheduleRepo) ApproveGroup(ctx context.Context, group string, note *string, validFrom, validUntil time.Time) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var head model.Schedule
		if err := tx.Where("submission_group = ? AND status = ?", group, model.StatusPending).
			First(&head).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.ErrStateChanged
			}
			return err
		}

		res := tx.Model(&model.Schedule{}).
			Where("submission_group = ? AND status = ?", group, model.StatusPending).
			Updates(map[string]interface{}{
				"status":      model.StatusApproved,
				"admin_note":  note,
				"valid_from":  attendance.DateKey(validFrom),
				"valid_until": attendance.DateKey(validUntil),
				"updated_at":  gorm.Expr("NOW()"),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return pkgerrors.ErrStateChanged
		}

		// 不更新 updated_at，避免状态变更扫描再次通知已截止的组
		day := attendance.DateKey(validFrom)
		err := tx.Model(&model.Schedule{}).
			Where("user_id = ? AND status = ? AND submission_group <> ? AND valid_from >= ?",
				head.UserID, model.StatusApproved, group, day).
			UpdateColumn("status", model.StatusSuperseded).Error
		if err != nil {
			return err
		}
		return tx.Model(&model.Schedule{}).
			Where("user_id = ? AND status = ? AND submission_group <> ? AND valid_until >= ?",
				head.UserID, model.StatusApproved, group, day).
			UpdateColumn("valid_until", attendance.DateKey(validFrom.AddDate(0, 0, -1))).Error
	})
}

func (r *scheduleRepo) RejectGroup(ctx context.Context, group string, note *string) error {
	res := r.db.WithContext(ctx).
		Model(&model.Schedule{}).
		Where("submission_group = ? AND status = ?", group, model.StatusPending).
		Updates(map[string]interface{}{
			"status":     model.StatusRejected,
			"admin_note": note,
			"updated_at": gorm.Expr("NOW()"),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return pkgerrors.ErrStateChanged
	}
	return nil
}

func (r *scheduleRepo) ListApprovedCovering(ctx context.Context, day time.Time, dayOfWeek int, userIDs ...string) ([]model.Schedule, error) {
	key := attendance.DateKey(day)
	db := r.db.WithContext(ctx).
		Where("status = ? AND valid_from <= ? AND valid_until >= ?", model.StatusApproved, key, key)
	if dayOfWeek > 0 {
		db = db.Where("day_of_week = ?", dayOfWeek)
	}
	if len(userIDs) > 0 {
		db = db.Where("user_id IN ?", userIDs)
	}

	var rows []model.Schedule
	err := db.Order("user_id ASC, day_of_week ASC, start_time ASC").Find(&rows).Error
	return rows, err
}

func (r *scheduleRepo) ListStatusChangedSince(ctx context.Context, since time.Time) ([]model.Schedule, error) {
	var rows []model.Schedule
	err := r.db.WithContext(ctx).
		Where("status IN ? AND updated_at >= ?",
			[]model.ApprovalStatus{model.StatusApproved, model.StatusRejected}, since).
		Order("updated_at ASC").
		Find(&rows).Error
	return rows, err
}

func (r *scheduleRepo) CountPendingGroups(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&model.Schedule{}).
		Where("status = ?", model.StatusPending).
		Distinct("submission_group").
		Count(&n).Error
	return n, err
}
