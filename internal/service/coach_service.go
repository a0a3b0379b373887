package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"stagetrack/internal/attendance"
	"stagetrack/internal/dto"
	"stagetrack/internal/model"
	"stagetrack/internal/repository"
)

// ── 辅导员错误定义 ──

var (
	ErrCoachNotFound = errors.New("Coach niet gevonden")
)

// CoachService 辅导员服务接口
type CoachService interface {
	Create(ctx context.Context, req *dto.CreateCoachRequest) (*dto.CoachResponse, error)
	List(ctx context.Context, activeOnly bool) ([]dto.CoachResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateCoachRequest) (*dto.CoachResponse, error)
	Delete(ctx context.Context, id string) error
	// Students 辅导员名下学生及本周实际与计划工时
	Students(ctx context.Context, id string) ([]dto.CoachStudentResponse, error)
}

type coachService struct {
	repo     *repository.Repository
	settings SettingService
	clock    Clock
	logger   *zap.Logger
}

// NewCoachService 创建 CoachService 实例
func NewCoachService(repo *repository.Repository, settings SettingService, clock Clock, logger *zap.Logger) CoachService {
	return &coachService{repo: repo, settings: settings, clock: clock, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *coachService) Create(ctx context.Context, req *dto.CreateCoachRequest) (*dto.CoachResponse, error) {
	coach := &model.Coach{Name: strings.TrimSpace(req.Name), Active: true}
	if req.Active != nil {
		coach.Active = *req.Active
	}

	if err := s.repo.Coach.Create(ctx, coach); err != nil {
		s.logger.Error("create coach failed", zap.Error(err))
		return nil, err
	}
	return toCoachResponse(coach, 0), nil
}

// ────────────────────── List ──────────────────────

func (s *coachService) List(ctx context.Context, activeOnly bool) ([]dto.CoachResponse, error) {
	coaches, err := s.repo.Coach.List(ctx, activeOnly)
	if err != nil {
		s.logger.Error("list coaches failed", zap.Error(err))
		return nil, err
	}

	counts, err := s.repo.Coach.StudentCounts(ctx)
	if err != nil {
		s.logger.Error("count students per coach failed", zap.Error(err))
		return nil, err
	}

	result := make([]dto.CoachResponse, 0, len(coaches))
	for i := range coaches {
		result = append(result, *toCoachResponse(&coaches[i], counts[coaches[i].CoachID]))
	}
	return result, nil
}

// ────────────────────── Update ──────────────────────

func (s *coachService) Update(ctx context.Context, id string, req *dto.UpdateCoachRequest) (*dto.CoachResponse, error) {
	coach, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		coach.Name = strings.TrimSpace(*req.Name)
	}
	if req.Active != nil {
		coach.Active = *req.Active
	}

	if err := s.repo.Coach.Update(ctx, coach); err != nil {
		s.logger.Error("update coach failed", zap.String("coach_id", id), zap.Error(err))
		return nil, err
	}

	counts, err := s.repo.Coach.StudentCounts(ctx)
	if err != nil {
		s.logger.Error("count students per coach failed", zap.Error(err))
		return nil, err
	}
	return toCoachResponse(coach, counts[id]), nil
}

// ────────────────────── Delete ──────────────────────

func (s *coachService) Delete(ctx context.Context, id string) error {
	if _, err := s.load(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Coach.Delete(ctx, id); err != nil {
		s.logger.Error("delete coach failed", zap.String("coach_id", id), zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── Students ──────────────────────

func (s *coachService) Students(ctx context.Context, id string) ([]dto.CoachStudentResponse, error) {
	if _, err := s.load(ctx, id); err != nil {
		return nil, err
	}

	students, err := s.repo.User.ListStudents(ctx, id)
	if err != nil {
		s.logger.Error("list coach students failed", zap.String("coach_id", id), zap.Error(err))
		return nil, err
	}
	if len(students) == 0 {
		return []dto.CoachStudentResponse{}, nil
	}

	ids := make([]string, 0, len(students))
	for _, u := range students {
		ids = append(ids, u.UserID)
	}

	progress, err := loadWeekProgress(ctx, s.repo, s.clock, ids)
	if err != nil {
		s.logger.Error("load week progress failed", zap.String("coach_id", id), zap.Error(err))
		return nil, err
	}
	minimum := s.settings.MinimumHoursPerWeek(ctx)

	result := make([]dto.CoachStudentResponse, 0, len(students))
	for _, u := range students {
		result = append(result, dto.CoachStudentResponse{
			ID:             u.UserID,
			FullName:       u.FullName,
			Email:          u.Email,
			WeeklyHours:    roundHours(progress.actual[u.UserID]),
			ScheduledHours: roundHours(progress.scheduled[u.UserID]),
			MinimumHours:   minimum,
			CheckedIn:      progress.checkedIn[u.UserID],
		})
	}
	return result, nil
}

// ── 辅助函数 ──

func (s *coachService) load(ctx context.Context, id string) (*model.Coach, error) {
	coach, err := s.repo.Coach.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCoachNotFound
		}
		s.logger.Error("load coach failed", zap.String("coach_id", id), zap.Error(err))
		return nil, err
	}
	return coach, nil
}

func toCoachResponse(c *model.Coach, students int64) *dto.CoachResponse {
	return &dto.CoachResponse{
		ID:           c.CoachID,
		Name:         c.Name,
		Active:       c.Active,
		StudentCount: students,
		CreatedAt:    formatTimestamp(c.CreatedAt),
	}
}

// weekProgress 当前 ISO 周的用户统计
type weekProgress struct {
	actual    map[string]float64
	scheduled map[string]float64
	checkedIn map[string]bool
}

// loadWeekProgress 辅导员与管理员概览共用；ids 为 nil 表示全部用户
func loadWeekProgress(ctx context.Context, repo *repository.Repository, clock Clock, ids []string) (*weekProgress, error) {
	now := clock.Now()
	monday := attendance.MondayOf(now)

	checkIns, err := repo.CheckIn.ListSince(ctx, monday, ids...)
	if err != nil {
		return nil, err
	}
	shifts, err := repo.Schedule.ListApprovedCovering(ctx, now, 0, ids...)
	if err != nil {
		return nil, err
	}
	active, err := repo.CheckIn.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	p := &weekProgress{
		actual:    attendance.WeeklyActualHours(toSpans(checkIns), monday, now),
		scheduled: attendance.ScheduledHoursByUser(toShifts(shifts), now),
		checkedIn: make(map[string]bool, len(active)),
	}
	for _, c := range active {
		p.checkedIn[c.UserID] = true
	}
	return p, nil
}
