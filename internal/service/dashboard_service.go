package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"stagetrack/internal/attendance"
	"stagetrack/internal/dto"
	"stagetrack/internal/model"
	"stagetrack/internal/repository"
)

const (
	dashboardRecentCheckIns = 5
	dashboardUpcomingLeave  = 5
)

// DashboardService 只读概览，相互独立的查询并发执行
type DashboardService interface {
	Student(ctx context.Context, userID string) (*dto.StudentDashboardResponse, error)
	Admin(ctx context.Context) (*dto.AdminDashboardResponse, error)
}

type dashboardService struct {
	repo     *repository.Repository
	settings SettingService
	clock    Clock
	logger   *zap.Logger
}

// NewDashboardService 创建 DashboardService 实例
func NewDashboardService(repo *repository.Repository, settings SettingService, clock Clock, logger *zap.Logger) DashboardService {
	return &dashboardService{repo: repo, settings: settings, clock: clock, logger: logger}
}

// ────────────────────── Student ──────────────────────

func (s *dashboardService) Student(ctx context.Context, userID string) (*dto.StudentDashboardResponse, error) {
	now := s.clock.Now()
	today := attendance.DateOnly(now)
	monday := attendance.MondayOf(now)

	var (
		weekRows  []model.Schedule
		active    *model.CheckIn
		completed float64
		recent    []model.CheckIn
		pending   int64
		upcoming  []model.LeaveRequest
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		weekRows, err = s.repo.Schedule.ListApprovedCovering(gctx, today, 0, userID)
		return err
	})
	g.Go(func() error {
		c, err := s.repo.CheckIn.GetActive(gctx, userID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		active = c
		return err
	})
	g.Go(func() error {
		var err error
		completed, err = s.repo.CheckIn.SumHoursSince(gctx, userID, monday)
		return err
	})
	g.Go(func() error {
		var err error
		recent, err = s.repo.CheckIn.ListRecent(gctx, userID, dashboardRecentCheckIns)
		return err
	})
	g.Go(func() error {
		var err error
		pending, err = s.repo.Leave.CountPending(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		upcoming, err = s.repo.Leave.ListUpcoming(gctx, userID, today, dashboardUpcomingLeave)
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.Error("load student dashboard failed", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	resp := &dto.StudentDashboardResponse{
		WeeklyHours:    roundHours(completed),
		MinimumHours:   s.settings.MinimumHoursPerWeek(ctx),
		RecentCheckIns: make([]dto.CheckInRecord, 0, len(recent)),
		PendingLeave:   pending,
		UpcomingLeave:  make([]dto.LeaveResponse, 0, len(upcoming)),
	}

	weekday := attendance.ISOWeekday(now)
	for i := range weekRows {
		if weekRows[i].DayOfWeek == weekday {
			entry := toScheduleEntry(&weekRows[i])
			resp.TodaySchedule = &entry
			break
		}
	}
	resp.NextSession = nextSession(weekRows, now)

	if active != nil {
		rec := toCheckInRecord(active)
		resp.ActiveCheckIn = &rec
		resp.InProgressHours = roundHours(attendance.ElapsedHours(active.CheckInTime, now))
	}
	for i := range recent {
		resp.RecentCheckIns = append(resp.RecentCheckIns, toCheckInRecord(&recent[i]))
	}
	for i := range upcoming {
		resp.UpcomingLeave = append(resp.UpcomingLeave, toLeaveResponse(&upcoming[i]))
	}
	return resp, nil
}

// nextSession 本周下一个排班，今日排班未开始时也计入
func nextSession(rows []model.Schedule, now time.Time) *dto.NextSession {
	weekday := attendance.ISOWeekday(now)
	minute := now.Hour()*60 + now.Minute()

	sorted := append([]model.Schedule(nil), rows...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].DayOfWeek < sorted[j].DayOfWeek })

	for _, row := range sorted {
		if row.DayOfWeek < weekday {
			continue
		}
		start, err := attendance.ParseClock(row.StartTime)
		if err != nil {
			continue
		}
		if row.DayOfWeek == weekday && start.MinuteOfDay() <= minute {
			continue
		}
		day := now.AddDate(0, 0, row.DayOfWeek-weekday)
		if !attendance.CoversDate(row.ValidFrom, row.ValidUntil, day) {
			continue
		}
		return &dto.NextSession{
			Date:      attendance.DateKey(day),
			DayOfWeek: row.DayOfWeek,
			StartTime: start.String(),
			EndTime:   attendance.FormatClock(row.EndTime),
		}
	}
	return nil
}

// ────────────────────── Admin ──────────────────────

func (s *dashboardService) Admin(ctx context.Context) (*dto.AdminDashboardResponse, error) {
	now := s.clock.Now()

	var (
		counts   dto.AdminCounts
		students []model.User
		progress *weekProgress
		today    []model.Schedule
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		counts.Students, err = s.repo.User.CountByRole(gctx, model.RoleStudent)
		return err
	})
	g.Go(func() error {
		var err error
		counts.PendingSchedules, err = s.repo.Schedule.CountPendingGroups(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		counts.PendingLeave, err = s.repo.Leave.CountPending(gctx, "")
		return err
	})
	g.Go(func() error {
		var err error
		counts.Locations, err = s.repo.Location.Count(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		counts.ActiveCheckIns, err = s.repo.CheckIn.CountActive(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		counts.ActiveCoaches, err = s.repo.Coach.CountActive(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		today, err = s.repo.Schedule.ListApprovedCovering(gctx, attendance.DateOnly(now), attendance.ISOWeekday(now))
		return err
	})
	g.Go(func() error {
		var err error
		students, err = s.repo.User.ListStudents(gctx, "")
		return err
	})
	g.Go(func() error {
		var err error
		progress, err = loadWeekProgress(gctx, s.repo, s.clock, nil)
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.Error("load admin dashboard failed", zap.Error(err))
		return nil, err
	}

	scheduled := make(map[string]bool, len(today))
	for _, row := range today {
		scheduled[row.UserID] = true
	}
	counts.ScheduledToday = int64(len(scheduled))

	minimum := s.settings.MinimumHoursPerWeek(ctx)
	overview := make([]dto.StudentWeekOverview, 0, len(students))
	for _, u := range students {
		item := dto.StudentWeekOverview{
			UserID:         u.UserID,
			FullName:       u.FullName,
			ActualHours:    roundHours(progress.actual[u.UserID]),
			ScheduledHours: roundHours(progress.scheduled[u.UserID]),
			MinimumHours:   minimum,
			CheckedIn:      progress.checkedIn[u.UserID],
		}
		if u.Coach != nil {
			item.CoachName = u.Coach.Name
		}
		overview = append(overview, item)
	}

	return &dto.AdminDashboardResponse{Counts: counts, Students: overview}, nil
}
