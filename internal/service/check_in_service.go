package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"stagetrack/internal/attendance"
	"stagetrack/internal/dto"
	"stagetrack/internal/model"
	"stagetrack/internal/repository"
	pkgerrors "stagetrack/pkg/errors"
)

// ── 签到错误定义 ──

var (
	ErrInvalidQRCode    = errors.New("Ongeldige QR code voor deze locatie")
	ErrAlreadyCheckedIn = errors.New("Je bent al ingecheckt. Check eerst uit voordat je opnieuw incheckt.")
	ErrNoActiveCheckIn  = errors.New("Geen actieve check-in gevonden. Check eerst in voordat je uitcheckt.")
	ErrInvalidDateRange = errors.New("Ongeldige datum")
)

// GeofenceError 上报位置超出地点半径
type GeofenceError struct {
	RadiusMeters   float64
	DistanceMeters float64
}

func (e *GeofenceError) Error() string {
	return fmt.Sprintf("Je bent te ver van de locatie (maximaal %s meter)",
		strconv.FormatFloat(e.RadiusMeters, 'f', -1, 64))
}

// CheckInService 签到服务接口
type CheckInService interface {
	ScheduleStatus(ctx context.Context, userID string) (*dto.ScheduleStatusResponse, error)
	CheckIn(ctx context.Context, userID string, req *dto.CheckInRequest) (*dto.CheckInResponse, error)
	CheckOut(ctx context.Context, userID string) (*dto.CheckOutResponse, error)
	// Active 未签到时返回 nil
	Active(ctx context.Context, userID string) (*dto.CheckInRecord, error)
	History(ctx context.Context, userID string, req *dto.CheckInHistoryRequest) ([]dto.CheckInRecord, int64, error)
	List(ctx context.Context, req *dto.AdminCheckInListRequest) ([]dto.CheckInRecord, int64, error)
}

type checkInService struct {
	repo     *repository.Repository
	settings SettingService
	clock    Clock
	logger   *zap.Logger
}

// NewCheckInService 创建 CheckInService 实例
func NewCheckInService(repo *repository.Repository, settings SettingService, clock Clock, logger *zap.Logger) CheckInService {
	return &checkInService{repo: repo, settings: settings, clock: clock, logger: logger}
}

// ────────────────────── ScheduleStatus ──────────────────────

func (s *checkInService) ScheduleStatus(ctx context.Context, userID string) (*dto.ScheduleStatusResponse, error) {
	now := s.clock.Now()

	shift, err := todayShift(ctx, s.repo, now, userID)
	if err != nil {
		s.logger.Error("load today shift failed", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}
	active, err := s.findActive(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp := &dto.ScheduleStatusResponse{}
	if active != nil {
		rec := toCheckInRecord(active)
		resp.ActiveCheckIn = &rec
	}
	if shift == nil {
		return resp, nil
	}

	resp.HasSchedule = true
	resp.StartTime = attendance.FormatClock(shift.StartTime)
	resp.EndTime = attendance.FormatClock(shift.EndTime)
	if check, err := attendance.CheckScheduleTime(now, shift.StartTime, shift.EndTime); err == nil {
		resp.Check = toScheduleTimeResponse(check)
	} else {
		s.logger.Warn("unparsable shift times", zap.String("schedule_id", shift.ScheduleID), zap.Error(err))
	}
	return resp, nil
}

// ────────────────────── CheckIn ──────────────────────

func (s *checkInService) CheckIn(ctx context.Context, userID string, req *dto.CheckInRequest) (*dto.CheckInResponse, error) {
	loc, err := s.repo.Location.GetByID(ctx, req.LocationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLocationNotFound
		}
		s.logger.Error("load location failed", zap.String("location_id", req.LocationID), zap.Error(err))
		return nil, err
	}

	verifiedBy, err := s.verifyPresence(ctx, loc, req)
	if err != nil {
		return nil, err
	}

	active, err := s.findActive(ctx, userID)
	if err != nil {
		return nil, err
	}
	if active != nil {
		return nil, ErrAlreadyCheckedIn
	}

	now := s.clock.Now()
	shift, err := todayShift(ctx, s.repo, now, userID)
	if err != nil {
		s.logger.Error("load today shift failed", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	record := &model.CheckIn{
		CheckInID:   uuid.NewString(),
		UserID:      userID,
		LocationID:  loc.LocationID,
		CheckInTime: now,
		VerifiedBy:  verifiedBy,
	}
	if shift != nil {
		start, end := shift.StartTime, shift.EndTime
		record.ExpectedStart, record.ExpectedEnd = &start, &end
	} else if c, err := attendance.ParseClock(s.settings.DefaultStartTime(ctx)); err == nil {
		start := c.DBString()
		record.ExpectedStart = &start
	}

	if err := s.repo.CheckIn.Create(ctx, record); err != nil {
		if pkgerrors.IsUniqueViolation(err, repository.ActiveCheckInConstraint) {
			return nil, ErrAlreadyCheckedIn
		}
		s.logger.Error("create check-in failed", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}
	record.Location = loc

	if verifiedBy == model.VerifiedByNone {
		s.logger.Warn("check-in without qr or gps",
			zap.String("user_id", userID), zap.String("location_id", loc.LocationID))
	}
	s.logger.Info("checked in",
		zap.String("user_id", userID),
		zap.String("location_id", loc.LocationID),
		zap.String("verified_by", string(verifiedBy)),
	)

	resp := &dto.CheckInResponse{CheckIn: toCheckInRecord(record)}
	if shift != nil {
		if check, err := attendance.CheckScheduleTime(now, shift.StartTime, shift.EndTime); err == nil && !check.IsWithin {
			resp.Warning = toScheduleTimeResponse(check)
		}
	}
	return resp, nil
}

// verifyPresence 分别校验传入的二维码与坐标，任一失败即拒绝签到
// verified_by 优先 qr，其次 gps，都未提供时为 none
func (s *checkInService) verifyPresence(ctx context.Context, loc *model.Location, req *dto.CheckInRequest) (model.VerificationMethod, error) {
	method := model.VerifiedByNone

	if req.QRCode != nil && strings.TrimSpace(*req.QRCode) != "" {
		if strings.TrimSpace(*req.QRCode) != loc.QRCode {
			return "", ErrInvalidQRCode
		}
		method = model.VerifiedByQR
	}

	if req.Latitude != nil && req.Longitude != nil {
		radius := s.settings.GeofenceRadiusMeters(ctx)
		distance := attendance.DistanceMeters(*req.Latitude, *req.Longitude, loc.Latitude, loc.Longitude)
		if distance > radius {
			return "", &GeofenceError{RadiusMeters: radius, DistanceMeters: distance}
		}
		if method == model.VerifiedByNone {
			method = model.VerifiedByGPS
		}
	}

	return method, nil
}

// ────────────────────── CheckOut ──────────────────────

func (s *checkInService) CheckOut(ctx context.Context, userID string) (*dto.CheckOutResponse, error) {
	active, err := s.findActive(ctx, userID)
	if err != nil {
		return nil, err
	}
	if active == nil {
		return nil, ErrNoActiveCheckIn
	}

	now := s.clock.Now()
	if err := s.repo.CheckIn.Close(ctx, active.CheckInID, now); err != nil {
		if errors.Is(err, pkgerrors.ErrStateChanged) {
			return nil, ErrNoActiveCheckIn
		}
		s.logger.Error("check-out failed", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}
	active.CheckOutTime = &now

	hours := attendance.ActualHours(active.CheckInTime, active.CheckOutTime)
	s.logger.Info("checked out", zap.String("user_id", userID), zap.Float64("hours", hours))

	return &dto.CheckOutResponse{CheckIn: toCheckInRecord(active), Hours: hours}, nil
}

// ────────────────────── Active ──────────────────────

func (s *checkInService) Active(ctx context.Context, userID string) (*dto.CheckInRecord, error) {
	active, err := s.findActive(ctx, userID)
	if err != nil || active == nil {
		return nil, err
	}
	rec := toCheckInRecord(active)
	return &rec, nil
}

// ────────────────────── History ──────────────────────

func (s *checkInService) History(ctx context.Context, userID string, req *dto.CheckInHistoryRequest) ([]dto.CheckInRecord, int64, error) {
	filters := &repository.CheckInListFilters{UserID: userID}

	var err error
	if filters.From, err = s.dayStart(req.From, 0); err != nil {
		return nil, 0, err
	}
	if filters.To, err = s.dayStart(req.To, 1); err != nil {
		return nil, 0, err
	}
	return s.list(ctx, filters, req.GetOffset(), req.GetPageSize())
}

// ────────────────────── List ──────────────────────

func (s *checkInService) List(ctx context.Context, req *dto.AdminCheckInListRequest) ([]dto.CheckInRecord, int64, error) {
	filters := &repository.CheckInListFilters{
		UserID:     req.UserID,
		LocationID: req.LocationID,
		ActiveOnly: req.ActiveOnly,
	}

	if req.Date != "" {
		var err error
		if filters.From, err = s.dayStart(req.Date, 0); err != nil {
			return nil, 0, err
		}
		if filters.To, err = s.dayStart(req.Date, 1); err != nil {
			return nil, 0, err
		}
	}
	return s.list(ctx, filters, req.GetOffset(), req.GetPageSize())
}

// ── 辅助函数 ──

func (s *checkInService) list(ctx context.Context, filters *repository.CheckInListFilters, offset, limit int) ([]dto.CheckInRecord, int64, error) {
	rows, total, err := s.repo.CheckIn.List(ctx, filters, offset, limit)
	if err != nil {
		s.logger.Error("list check-ins failed", zap.Error(err))
		return nil, 0, err
	}

	result := make([]dto.CheckInRecord, 0, len(rows))
	for i := range rows {
		result = append(result, toCheckInRecord(&rows[i]))
	}
	return result, total, nil
}

func (s *checkInService) findActive(ctx context.Context, userID string) (*model.CheckIn, error) {
	active, err := s.repo.CheckIn.GetActive(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		s.logger.Error("load active check-in failed", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}
	return active, nil
}

// dayStart date 加 offsetDays 天的本地零点；date 为空时返回 nil
func (s *checkInService) dayStart(date string, offsetDays int) (*time.Time, error) {
	if date == "" {
		return nil, nil
	}
	d, err := attendance.ParseDate(date)
	if err != nil {
		return nil, ErrInvalidDateRange
	}
	t := time.Date(d.Year(), d.Month(), d.Day()+offsetDays, 0, 0, 0, 0, s.clock.Location())
	return &t, nil
}

// todayShift 用户当天的已批准排班，休息日为 nil
func todayShift(ctx context.Context, repo *repository.Repository, now time.Time, userID string) (*model.Schedule, error) {
	rows, err := repo.Schedule.ListApprovedCovering(ctx, attendance.DateOnly(now), attendance.ISOWeekday(now), userID)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

func toScheduleTimeResponse(c attendance.ScheduleTimeCheck) *dto.ScheduleTimeResponse {
	return &dto.ScheduleTimeResponse{
		IsWithin: c.IsWithin,
		Status:   string(c.Status),
		Minutes:  c.Minutes,
		Message:  c.Message,
	}
}
