package repository

import (
	"context"

	"gorm.io/gorm"

	"stagetrack/internal/model"
)

// LocationRepository 地点数据访问接口
// 二维码只在 Create 与 RotateQRCode 时写入，编辑不会使已打印的二维码失效
type LocationRepository interface {
	Create(ctx context.Context, loc *model.Location) error
	GetByID(ctx context.Context, id string) (*model.Location, error)
	List(ctx context.Context) ([]model.Location, error)
	Update(ctx context.Context, loc *model.Location) error
	RotateQRCode(ctx context.Context, id, code string) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}

type locationRepo struct {
	db *gorm.DB
}

func NewLocationRepo(db *gorm.DB) LocationRepository {
	return &locationRepo{db: db}
}

func (r *locationRepo) Create(ctx context.Context, loc *model.Location) error {
	return r.db.WithContext(ctx).Create(loc).Error
}

func (r *locationRepo) GetByID(ctx context.Context, id string) (*model.Location, error) {
	var loc model.Location
	err := r.db.WithContext(ctx).
		Where("location_id = ?", id).
		First(&loc).Error
	if err != nil {
		return nil, err
	}
	return &loc, nil
}

func (r *locationRepo) List(ctx context.Context) ([]model.Location, error) {
	var locations []model.Location
	err := r.db.WithContext(ctx).Order("name ASC").Find(&locations).Error
	return locations, err
}

func (r *locationRepo) Update(ctx context.Context, loc *model.Location) error {
	return r.db.WithContext(ctx).
		Model(&model.Location{}).
		Where("location_id = ?", loc.LocationID).
		Updates(map[string]interface{}{
			"name":       loc.Name,
			"address":    loc.Address,
			"latitude":   loc.Latitude,
			"longitude":  loc.Longitude,
			"updated_at": gorm.Expr("NOW()"),
		}).Error
}

// RotateQRCode 地点不存在时返回 gorm.ErrRecordNotFound
func (r *locationRepo) RotateQRCode(ctx context.Context, id, code string) error {
	res := r.db.WithContext(ctx).
		Model(&model.Location{}).
		Where("location_id = ?", id).
		UpdateColumns(map[string]interface{}{
			"qr_code":    code,
			"updated_at": gorm.Expr("NOW()"),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete 仍有签到记录引用该地点时返回外键冲突
func (r *locationRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("location_id = ?", id).
		Delete(&model.Location{}).Error
}

func (r *locationRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Location{}).Count(&n).Error
	return n, err
}
