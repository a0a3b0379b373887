package service

import (
	"context"
	"errors"
	"strconv"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"stagetrack/internal/attendance"
	"stagetrack/internal/dto"
	"stagetrack/internal/model"
	"stagetrack/internal/repository"
)

// ── 设置错误定义 ──

var (
	ErrSettingUnknown = errors.New("Onbekende instelling")
	ErrSettingInvalid = errors.New("Ongeldige waarde voor deze instelling")
)

const (
	settingCachePrefix = "setting:"
	settingCacheTTL    = 5 * time.Minute
)

// settingDefaults 所有默认值，同时也是已知键的集合
var settingDefaults = map[string]string{
	model.SettingMinimumHoursPerWeek: "16",
	model.SettingDefaultStartTime:    "10:00",
	model.SettingApprovalPeriodWeeks: "6",
	model.SettingGeofenceRadius:      "500",
}

var settingOrder = []string{
	model.SettingMinimumHoursPerWeek,
	model.SettingDefaultStartTime,
	model.SettingApprovalPeriodWeeks,
	model.SettingGeofenceRadius,
}

// SettingService 系统设置的读穿透访问
// 读取方法不返回错误：存储出错时记录日志并使用默认值
type SettingService interface {
	List(ctx context.Context) ([]dto.SettingResponse, error)
	Update(ctx context.Context, key string, req *dto.UpdateSettingRequest, callerID string) (*dto.SettingResponse, error)

	Get(ctx context.Context, key string) string
	MinimumHoursPerWeek(ctx context.Context) float64
	DefaultStartTime(ctx context.Context) string
	ApprovalPeriodWeeks(ctx context.Context) int
	GeofenceRadiusMeters(ctx context.Context) float64
}

type settingService struct {
	repo   *repository.Repository
	cache  Cache
	logger *zap.Logger
}

// NewSettingService cache 可为 nil
func NewSettingService(repo *repository.Repository, cache Cache, logger *zap.Logger) SettingService {
	return &settingService{repo: repo, cache: cache, logger: logger}
}

// ────────────────────── List ──────────────────────

func (s *settingService) List(ctx context.Context) ([]dto.SettingResponse, error) {
	rows, err := s.repo.Setting.List(ctx)
	if err != nil {
		s.logger.Error("list settings failed", zap.Error(err))
		return nil, err
	}

	stored := make(map[string]*model.Setting, len(rows))
	for i := range rows {
		stored[rows[i].Key] = &rows[i]
	}

	result := make([]dto.SettingResponse, 0, len(settingOrder))
	for _, key := range settingOrder {
		item := dto.SettingResponse{Key: key, Value: settingDefaults[key], Default: settingDefaults[key]}
		if row, ok := stored[key]; ok {
			item.Value = row.Value
			item.UpdatedAt = formatTimestampPtr(&row.UpdatedAt)
		}
		result = append(result, item)
	}
	return result, nil
}

// ────────────────────── Update ──────────────────────

func (s *settingService) Update(ctx context.Context, key string, req *dto.UpdateSettingRequest, callerID string) (*dto.SettingResponse, error) {
	def, ok := settingDefaults[key]
	if !ok {
		return nil, ErrSettingUnknown
	}

	value, err := normalizeSetting(key, req.Value)
	if err != nil {
		return nil, err
	}

	row := &model.Setting{Key: key, Value: value, UpdatedBy: &callerID}
	if err := s.repo.Setting.Upsert(ctx, row); err != nil {
		s.logger.Error("update setting failed", zap.String("key", key), zap.Error(err))
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Delete(ctx, settingCachePrefix+key); err != nil {
			s.logger.Warn("invalidate setting cache failed", zap.String("key", key), zap.Error(err))
		}
	}

	now := time.Now()
	return &dto.SettingResponse{Key: key, Value: value, Default: def, UpdatedAt: formatTimestampPtr(&now)}, nil
}

// normalizeSetting 校验配置值并返回规范化文本
func normalizeSetting(key, value string) (string, error) {
	switch key {
	case model.SettingMinimumHoursPerWeek:
		v, err := strconv.ParseFloat(value, 64)
		if err != nil || v <= 0 || v > 168 {
			return "", ErrSettingInvalid
		}
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case model.SettingGeofenceRadius:
		v, err := strconv.ParseFloat(value, 64)
		if err != nil || v <= 0 || v > 50000 {
			return "", ErrSettingInvalid
		}
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case model.SettingApprovalPeriodWeeks:
		v, err := strconv.Atoi(value)
		if err != nil || v < 1 || v > 52 {
			return "", ErrSettingInvalid
		}
		return strconv.Itoa(v), nil
	case model.SettingDefaultStartTime:
		c, err := attendance.ParseClock(value)
		if err != nil {
			return "", ErrSettingInvalid
		}
		return c.String(), nil
	}
	return "", ErrSettingUnknown
}

// ────────────────────── Get ──────────────────────

func (s *settingService) Get(ctx context.Context, key string) string {
	def := settingDefaults[key]

	if s.cache != nil {
		if v, err := s.cache.GetString(ctx, settingCachePrefix+key); err == nil {
			return v
		}
	}

	row, err := s.repo.Setting.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Error("read setting failed, using default", zap.String("key", key), zap.Error(err))
			return def
		}
		row = &model.Setting{Key: key, Value: def}
	}

	if s.cache != nil {
		if err := s.cache.SetString(ctx, settingCachePrefix+key, row.Value, settingCacheTTL); err != nil {
			s.logger.Debug("cache setting failed", zap.String("key", key), zap.Error(err))
		}
	}
	return row.Value
}

func (s *settingService) MinimumHoursPerWeek(ctx context.Context) float64 {
	return s.float(ctx, model.SettingMinimumHoursPerWeek)
}

func (s *settingService) GeofenceRadiusMeters(ctx context.Context) float64 {
	return s.float(ctx, model.SettingGeofenceRadius)
}

func (s *settingService) ApprovalPeriodWeeks(ctx context.Context) int {
	v, err := strconv.Atoi(s.Get(ctx, model.SettingApprovalPeriodWeeks))
	if err != nil || v < 1 {
		v, _ = strconv.Atoi(settingDefaults[model.SettingApprovalPeriodWeeks])
	}
	return v
}

func (s *settingService) DefaultStartTime(ctx context.Context) string {
	c, err := attendance.ParseClock(s.Get(ctx, model.SettingDefaultStartTime))
	if err != nil {
		return settingDefaults[model.SettingDefaultStartTime]
	}
	return c.String()
}

func (s *settingService) float(ctx context.Context, key string) float64 {
	v, err := strconv.ParseFloat(s.Get(ctx, key), 64)
	if err != nil || v <= 0 {
		v, _ = strconv.ParseFloat(settingDefaults[key], 64)
	}
	return v
}
