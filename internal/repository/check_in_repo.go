package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"stagetrack/internal/model"
	pkgerrors "stagetrack/pkg/errors"
)

// ActiveCheckInConstraint 部分唯一索引：每个用户最多一条进行中的签到
const ActiveCheckInConstraint = "ux_check_ins_active_user"

// CheckInListFilters 管理端列表筛选条件
type CheckInListFilters struct {
	UserID     string
	LocationID string
	From, To   *time.Time
	ActiveOnly bool
}

// CheckInRepository 签到数据访问接口
type CheckInRepository interface {
	// Create 已有进行中的签到时返回 ActiveCheckInConstraint 唯一约束冲突
	Create(ctx context.Context, c *model.CheckIn) error
	GetByID(ctx context.Context, id string) (*model.CheckIn, error)
	GetActive(ctx context.Context, userID string) (*model.CheckIn, error)
	// Close 为进行中的签到写入 check_out_time，否则返回 ErrStateChanged
	Close(ctx context.Context, id string, at time.Time) error
	List(ctx context.Context, filters *CheckInListFilters, offset, limit int) ([]model.CheckIn, int64, error)
	ListSince(ctx context.Context, since time.Time, userIDs ...string) ([]model.CheckIn, error)
	ListActive(ctx context.Context) ([]model.CheckIn, error)
	ListRecent(ctx context.Context, userID string, limit int) ([]model.CheckIn, error)
	// SumHoursSince 统计 check_in_time >= since 的已完成工时
	SumHoursSince(ctx context.Context, userID string, since time.Time) (float64, error)
	CountActive(ctx context.Context) (int64, error)
}

type checkInRepo struct {
	db *gorm.DB
}

// NewCheckInRepo 创建 CheckInRepository 实例
func NewCheckInRepo(db *gorm.DB) CheckInRepository {
	return &checkInRepo{db: db}
}

func (r *checkInRepo) Create(ctx context.Context, c *model.CheckIn) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *checkInRepo) GetByID(ctx context.Context, id string) (*model.CheckIn, error) {
	var c model.CheckIn
	err := r.db.WithContext(ctx).
		Preload("Location").
		Where("check_in_id = ?", id).
		First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *checkInRepo) GetActive(ctx context.Context, userID string) (*model.CheckIn, error) {
	var c model.CheckIn
	err := r.db.WithContext(ctx).
		Preload("Location").
		Where("user_id = ? AND check_out_time IS NULL", userID).
		First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *checkInRepo) Close(ctx context.Context, id string, at time.Time) error {
	res := r.db.WithContext(ctx).
		Model(&model.CheckIn{}).
		Where("check_in_id = ? AND check_out_time IS NULL", id).
		Updates(map[string]interface{}{
			"check_out_time": at,
			"updated_at":     gorm.Expr("NOW()"),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return pkgerrors.ErrStateChanged
	}
	return nil
}

func (r *checkInRepo) List(ctx context.Context, filters *CheckInListFilters, offset, limit int) ([]model.CheckIn, int64, error) {
	var rows []model.CheckIn
	var total int64

	db := r.db.WithContext(ctx).Model(&model.CheckIn{})
	if filters != nil {
		if filters.UserID != "" {
			db = db.Where("user_id = ?", filters.UserID)
		}
		if filters.LocationID != "" {
			db = db.Where("location_id = ?", filters.LocationID)
		}
		if filters.From != nil {
			db = db.Where("check_in_time >= ?", *filters.From)
		}
		if filters.To != nil {
			db = db.Where("check_in_time < ?", *filters.To)
		}
		if filters.ActiveOnly {
			db = db.Where("check_out_time IS NULL")
		}
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Preload("User").Preload("Location").
		Offset(offset).Limit(limit).
		Order("check_in_time DESC").
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	return rows, total, nil
}

func (r *checkInRepo) ListSince(ctx context.Context, since time.Time, userIDs ...string) ([]model.CheckIn, error) {
	var rows []model.CheckIn
	db := r.db.WithContext(ctx).Where("check_in_time >= ?", since)
	if len(userIDs) > 0 {
		db = db.Where("user_id IN ?", userIDs)
	}
	err := db.Order("check_in_time ASC").Find(&rows).Error
	return rows, err
}

func (r *checkInRepo) ListActive(ctx context.Context) ([]model.CheckIn, error) {
	var rows []model.CheckIn
	err := r.db.WithContext(ctx).
		Where("check_out_time IS NULL").
		Find(&rows).Error
	return rows, err
}

func (r *checkInRepo) ListRecent(ctx context.Context, userID string, limit int) ([]model.CheckIn, error) {
	var rows []model.CheckIn
	err := r.db.WithContext(ctx).
		Preload("Location").
		Where("user_id = ?", userID).
		Order("check_in_time DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

func (r *checkInRepo) SumHoursSince(ctx context.Context, userID string, since time.Time) (float64, error) {
	var hours float64
	err := r.db.WithContext(ctx).
		Model(&model.CheckIn{}).
		Select("COALESCE(SUM(EXTRACT(EPOCH FROM (check_out_time - check_in_time))), 0) / 3600").
		Where("user_id = ? AND check_in_time >= ? AND check_out_time IS NOT NULL", userID, since).
		Scan(&hours).Error
	return hours, err
}

func (r *checkInRepo) CountActive(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.CheckIn{}).Where("check_out_time IS NULL").Count(&n).Error
	return n, err
}
