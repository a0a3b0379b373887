package repository

import (
	"context"

	"gorm.io/gorm"

	"stagetrack/internal/model"
)

// CoachRepository 辅导员数据访问接口
type CoachRepository interface {
	Create(ctx context.Context, coach *model.Coach) error
	GetByID(ctx context.Context, id string) (*model.Coach, error)
	List(ctx context.Context, activeOnly bool) ([]model.Coach, error)
	Update(ctx context.Context, coach *model.Coach) error
	// Delete users.coach_id 由外键置空
	Delete(ctx context.Context, id string) error
	// StudentCounts coach_id -> 学生数
	StudentCounts(ctx context.Context) (map[string]int64, error)
	CountActive(ctx context.Context) (int64, error)
}

type coachRepo struct {
	db *gorm.DB
}

// NewCoachRepo 创建 CoachRepository 实例
func NewCoachRepo(db *gorm.DB) CoachRepository {
	return &coachRepo{db: db}
}

func (r *coachRepo) Create(ctx context.Context, coach *model.Coach) error {
	return r.db.WithContext(ctx).Create(coach).Error
}

func (r *coachRepo) GetByID(ctx context.Context, id string) (*model.Coach, error) {
	var coach model.Coach
	err := r.db.WithContext(ctx).Where("coach_id = ?", id).First(&coach).Error
	if err != nil {
		return nil, err
	}
	return &coach, nil
}

func (r *coachRepo) List(ctx context.Context, activeOnly bool) ([]model.Coach, error) {
	var coaches []model.Coach
	db := r.db.WithContext(ctx)
	if activeOnly {
		db = db.Where("active = ?", true)
	}
	err := db.Order("name ASC").Find(&coaches).Error
	return coaches, err
}

func (r *coachRepo) Update(ctx context.Context, coach *model.Coach) error {
	return r.db.WithContext(ctx).
		Model(&model.Coach{}).
		Where("coach_id = ?", coach.CoachID).
		Updates(map[string]interface{}{
			"name":       coach.Name,
			"active":     coach.Active,
			"updated_at": gorm.Expr("NOW()"),
		}).Error
}

func (r *coachRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("coach_id = ?", id).Delete(&model.Coach{}).Error
}

func (r *coachRepo) StudentCounts(ctx context.Context) (map[string]int64, error) {
	var rows []struct {
		CoachID string
		N       int64
	}
	err := r.db.WithContext(ctx).
		Model(&model.User{}).
		Select("coach_id, COUNT(*) AS n").
		Where("role = ? AND coach_id IS NOT NULL", model.RoleStudent).
		Group("coach_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make(map[string]int64, len(rows))
	for _, row := range rows {
		out[row.CoachID] = row.N
	}
	return out, nil
}

func (r *coachRepo) CountActive(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Coach{}).Where("active = ?", true).Count(&n).Error
	return n, err
}
