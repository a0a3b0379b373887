package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"stagetrack/internal/attendance"
	"stagetrack/internal/dto"
	"stagetrack/internal/model"
	"stagetrack/internal/repository"
	pkgerrors "stagetrack/pkg/errors"
)

// ── 排班错误定义 ──

var (
	ErrScheduleNoEntries       = errors.New("Kies minimaal één dag voor je rooster")
	ErrScheduleDuplicateDay    = errors.New("Elke dag mag maar één keer in je rooster staan")
	ErrScheduleTimeMissing     = errors.New("Vul een start- en eindtijd in voor elke gekozen dag")
	ErrEndBeforeStart          = errors.New("Eindtijd moet na de starttijd liggen")
	ErrSchedulePendingExists   = errors.New("Je hebt al een rooster dat wacht op goedkeuring. Bewerk of verwijder dat eerst.")
	ErrScheduleNoPending       = errors.New("Je hebt geen rooster dat wacht op goedkeuring")
	ErrScheduleGroupNotFound   = errors.New("Rooster niet gevonden")
	ErrScheduleAlreadyReviewed = errors.New("Dit rooster is al beoordeeld")
)

// MinimumHoursError 周排班总工时低于最低要求
type MinimumHoursError struct {
	Minimum float64
	Actual  float64
}

func (e *MinimumHoursError) Error() string {
	return fmt.Sprintf("Je rooster moet minimaal %s uur per week bevatten (nu %s uur)",
		formatHours(e.Minimum), formatHours(e.Actual))
}

func formatHours(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// ScheduleService 周排班提交与审批
type ScheduleService interface {
	Submit(ctx context.Context, userID string, req *dto.SubmitScheduleRequest) (*dto.ScheduleGroupResponse, error)
	UpdatePending(ctx context.Context, userID string, req *dto.SubmitScheduleRequest) (*dto.ScheduleGroupResponse, error)
	DeletePending(ctx context.Context, userID string) error
	Mine(ctx context.Context, userID string) (*dto.MyScheduleResponse, error)
	// CalendarICS 已批准排班导出为每周重复事件
	CalendarICS(ctx context.Context, userID string) ([]byte, error)

	ListGroups(ctx context.Context, req *dto.ScheduleGroupListRequest) ([]dto.ScheduleGroupResponse, int64, error)
	Approve(ctx context.Context, group string, req *dto.ReviewRequest) (*dto.ScheduleGroupResponse, error)
	Reject(ctx context.Context, group string, req *dto.ReviewRequest) (*dto.ScheduleGroupResponse, error)
}

type scheduleService struct {
	repo     *repository.Repository
	settings SettingService
	clock    Clock
	logger   *zap.Logger
}

// NewScheduleService 创建 ScheduleService 实例
func NewScheduleService(repo *repository.Repository, settings SettingService, clock Clock, logger *zap.Logger) ScheduleService {
	return &scheduleService{repo: repo, settings: settings, clock: clock, logger: logger}
}

// ────────────────────── Submit ──────────────────────

func (s *scheduleService) Submit(ctx context.Context, userID string, req *dto.SubmitScheduleRequest) (*dto.ScheduleGroupResponse, error) {
	entries, err := s.validateEntries(ctx, req.Entries)
	if err != nil {
		return nil, err
	}

	today := s.clock.Today()
	validUntil := today.AddDate(0, 0, s.settings.ApprovalPeriodWeeks(ctx)*7)
	rows := buildScheduleRows(userID, uuid.NewString(), entries, today, validUntil)

	if err := s.repo.Schedule.CreateGroupIfNoPending(ctx, userID, rows); err != nil {
		if errors.Is(err, repository.ErrPendingGroupExists) {
			return nil, ErrSchedulePendingExists
		}
		s.logger.Error("submit schedule failed", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	s.logger.Info("schedule submitted",
		zap.String("user_id", userID),
		zap.String("submission_group", rows[0].SubmissionGroup),
		zap.Int("days", len(rows)),
	)
	groups := groupSchedules(rows)
	return &groups[0], nil
}

// ────────────────────── UpdatePending ──────────────────────

// UpdatePending 替换待审批组的排班，保留组 ID 与有效期
func (s *scheduleService) UpdatePending(ctx context.Context, userID string, req *dto.SubmitScheduleRequest) (*dto.ScheduleGroupResponse, error) {
	entries, err := s.validateEntries(ctx, req.Entries)
	if err != nil {
		return nil, err
	}

	current, err := s.repo.Schedule.GetPendingGroup(ctx, userID)
	if err != nil {
		s.logger.Error("load pending schedule failed", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}
	if len(current) == 0 {
		return nil, ErrScheduleNoPending
	}

	head := current[0]
	rows := buildScheduleRows(userID, head.SubmissionGroup, entries, head.ValidFrom, head.ValidUntil)

	if err := s.repo.Schedule.ReplaceGroup(ctx, userID, head.SubmissionGroup, rows); err != nil {
		if errors.Is(err, pkgerrors.ErrStateChanged) {
			return nil, ErrScheduleNoPending
		}
		s.logger.Error("update pending schedule failed", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	groups := groupSchedules(rows)
	return &groups[0], nil
}

// ────────────────────── DeletePending ──────────────────────

func (s *scheduleService) DeletePending(ctx context.Context, userID string) error {
	if err := s.repo.Schedule.DeletePendingGroup(ctx, userID); err != nil {
		if errors.Is(err, pkgerrors.ErrStateChanged) {
			return ErrScheduleNoPending
		}
		s.logger.Error("delete pending schedule failed", zap.String("user_id", userID), zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── Mine ──────────────────────

func (s *scheduleService) Mine(ctx context.Context, userID string) (*dto.MyScheduleResponse, error) {
	rows, err := s.repo.Schedule.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("list own schedules failed", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	today := s.clock.Today()
	resp := &dto.MyScheduleResponse{
		History:      []dto.ScheduleGroupResponse{},
		MinimumHours: s.settings.MinimumHoursPerWeek(ctx),
	}

	for _, g := range groupSchedules(rows) {
		switch {
		case g.Status == string(model.StatusPending) && resp.Pending == nil:
			resp.Pending = &g
		case g.Status == string(model.StatusApproved) && resp.Current == nil && groupCovers(&g, today):
			resp.Current = &g
		default:
			resp.History = append(resp.History, g)
		}
	}
	return resp, nil
}

// ────────────────────── CalendarICS ──────────────────────

func (s *scheduleService) CalendarICS(ctx context.Context, userID string) ([]byte, error) {
	rows, err := s.repo.Schedule.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("list schedules for calendar failed", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	loc := s.clock.Location()
	today := s.clock.Today()

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//stagetrack//rooster//NL")
	cal.SetXWRCalName("Stagerooster")
	cal.SetXWRTimezone(loc.String())

	stamp := s.clock.Now()
	for i := range rows {
		row := &rows[i]
		if row.Status != model.StatusApproved || attendance.DateKey(row.ValidUntil) < attendance.DateKey(today) {
			continue
		}
		if err := addShiftEvent(cal, row, loc, stamp); err != nil {
			s.logger.Warn("skip schedule row in calendar", zap.String("schedule_id", row.ScheduleID), zap.Error(err))
		}
	}

	return []byte(cal.Serialize()), nil
}

func addShiftEvent(cal *ics.Calendar, row *model.Schedule, loc *time.Location, stamp time.Time) error {
	start, err := attendance.ParseClock(row.StartTime)
	if err != nil {
		return err
	}
	end, err := attendance.ParseClock(row.EndTime)
	if err != nil {
		return err
	}

	first := firstWeekdayOnOrAfter(row.ValidFrom, row.DayOfWeek)
	if attendance.DateKey(first) > attendance.DateKey(row.ValidUntil) {
		return nil
	}
	firstDay := time.Date(first.Year(), first.Month(), first.Day(), 0, 0, 0, 0, loc)
	lastDay := time.Date(row.ValidUntil.Year(), row.ValidUntil.Month(), row.ValidUntil.Day(), 0, 0, 0, 0, loc)

	const localLayout = "20060102T150405"
	tzid := &ics.KeyValues{Key: string(ics.ParameterTzid), Value: []string{loc.String()}}

	event := cal.AddEvent(row.ScheduleID + "@stagetrack")
	event.SetDtStampTime(stamp)
	event.SetProperty(ics.ComponentPropertyDtStart, start.On(firstDay).Format(localLayout), tzid)
	event.SetProperty(ics.ComponentPropertyDtEnd, end.On(firstDay).Format(localLayout), tzid)
	event.SetSummary("Stage")
	event.AddRrule("FREQ=WEEKLY;UNTIL=" + end.On(lastDay).UTC().Format("20060102T150405Z"))
	return nil
}

// firstWeekdayOnOrAfter 从 day 起第一个 ISO 星期为 dayOfWeek 的日期
func firstWeekdayOnOrAfter(day time.Time, dayOfWeek int) time.Time {
	diff := (dayOfWeek - attendance.ISOWeekday(day) + 7) % 7
	return day.AddDate(0, 0, diff)
}

// ────────────────────── ListGroups ──────────────────────

func (s *scheduleService) ListGroups(ctx context.Context, req *dto.ScheduleGroupListRequest) ([]dto.ScheduleGroupResponse, int64, error) {
	filters := &repository.ScheduleGroupFilters{
		Status: model.ApprovalStatus(req.Status),
		UserID: req.UserID,
	}

	rows, total, err := s.repo.Schedule.ListGroups(ctx, filters, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("list schedule groups failed", zap.Error(err))
		return nil, 0, err
	}

	groups := groupSchedules(rows)
	if groups == nil {
		groups = []dto.ScheduleGroupResponse{}
	}
	return groups, total, nil
}

// ────────────────────── Approve ──────────────────────

// Approve 有效期从今天重新开始，并截止该用户之前的排班
func (s *scheduleService) Approve(ctx context.Context, group string, req *dto.ReviewRequest) (*dto.ScheduleGroupResponse, error) {
	if _, err := s.loadPendingGroup(ctx, group); err != nil {
		return nil, err
	}

	today := s.clock.Today()
	validUntil := today.AddDate(0, 0, s.settings.ApprovalPeriodWeeks(ctx)*7)

	if err := s.repo.Schedule.ApproveGroup(ctx, group, req.AdminNote, today, validUntil); err != nil {
		if errors.Is(err, pkgerrors.ErrStateChanged) {
			return nil, ErrScheduleAlreadyReviewed
		}
		s.logger.Error("approve schedule failed", zap.String("submission_group", group), zap.Error(err))
		return nil, err
	}

	s.logger.Info("schedule approved", zap.String("submission_group", group))
	return s.reload(ctx, group)
}

// ────────────────────── Reject ──────────────────────

func (s *scheduleService) Reject(ctx context.Context, group string, req *dto.ReviewRequest) (*dto.ScheduleGroupResponse, error) {
	if _, err := s.loadPendingGroup(ctx, group); err != nil {
		return nil, err
	}

	if err := s.repo.Schedule.RejectGroup(ctx, group, req.AdminNote); err != nil {
		if errors.Is(err, pkgerrors.ErrStateChanged) {
			return nil, ErrScheduleAlreadyReviewed
		}
		s.logger.Error("reject schedule failed", zap.String("submission_group", group), zap.Error(err))
		return nil, err
	}

	s.logger.Info("schedule rejected", zap.String("submission_group", group))
	return s.reload(ctx, group)
}

// ── 辅助函数 ──

// validateEntries 返回按星期排序的启用条目
func (s *scheduleService) validateEntries(ctx context.Context, entries []dto.ScheduleEntry) ([]dto.ScheduleEntry, error) {
	seen := make(map[int]bool, len(entries))
	active := make([]dto.ScheduleEntry, 0, len(entries))
	var total float64

	for _, e := range entries {
		if seen[e.DayOfWeek] {
			return nil, ErrScheduleDuplicateDay
		}
		seen[e.DayOfWeek] = true
		if !e.Active {
			continue
		}

		if e.StartTime == "" || e.EndTime == "" {
			return nil, ErrScheduleTimeMissing
		}
		start, err := attendance.ParseClock(e.StartTime)
		if err != nil {
			return nil, ErrScheduleTimeMissing
		}
		end, err := attendance.ParseClock(e.EndTime)
		if err != nil {
			return nil, ErrScheduleTimeMissing
		}
		if end.MinuteOfDay() <= start.MinuteOfDay() {
			return nil, ErrEndBeforeStart
		}

		total += end.Hours() - start.Hours()
		active = append(active, dto.ScheduleEntry{
			DayOfWeek: e.DayOfWeek,
			Active:    true,
			StartTime: start.DBString(),
			EndTime:   end.DBString(),
		})
	}

	if len(active) == 0 {
		return nil, ErrScheduleNoEntries
	}

	minimum := s.settings.MinimumHoursPerWeek(ctx)
	total = roundHours(total)
	if total < minimum {
		return nil, &MinimumHoursError{Minimum: minimum, Actual: total}
	}

	sort.Slice(active, func(i, j int) bool { return active[i].DayOfWeek < active[j].DayOfWeek })
	return active, nil
}

func (s *scheduleService) loadPendingGroup(ctx context.Context, group string) ([]model.Schedule, error) {
	rows, err := s.repo.Schedule.GetGroup(ctx, group)
	if err != nil {
		s.logger.Error("load schedule group failed", zap.String("submission_group", group), zap.Error(err))
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrScheduleGroupNotFound
	}
	if rows[0].Status != model.StatusPending {
		return nil, ErrScheduleAlreadyReviewed
	}
	return rows, nil
}

func (s *scheduleService) reload(ctx context.Context, group string) (*dto.ScheduleGroupResponse, error) {
	rows, err := s.repo.Schedule.GetGroup(ctx, group)
	if err != nil {
		s.logger.Error("reload schedule group failed", zap.String("submission_group", group), zap.Error(err))
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrScheduleGroupNotFound
	}
	groups := groupSchedules(rows)
	return &groups[0], nil
}

func buildScheduleRows(userID, group string, entries []dto.ScheduleEntry, validFrom, validUntil time.Time) []model.Schedule {
	rows := make([]model.Schedule, 0, len(entries))
	now := time.Now()
	for _, e := range entries {
		rows = append(rows, model.Schedule{
			ScheduleID:      uuid.NewString(),
			UserID:          userID,
			DayOfWeek:       e.DayOfWeek,
			StartTime:       e.StartTime,
			EndTime:         e.EndTime,
			Status:          model.StatusPending,
			ValidFrom:       validFrom,
			ValidUntil:      validUntil,
			SubmissionGroup: group,
			Timestamps:      model.Timestamps{CreatedAt: now, UpdatedAt: now},
		})
	}
	return rows
}

func groupCovers(g *dto.ScheduleGroupResponse, day time.Time) bool {
	k := attendance.DateKey(day)
	return g.ValidFrom <= k && k <= g.ValidUntil
}

// roundHours 保留两位小数
func roundHours(v float64) float64 {
	return math.Round(v*100) / 100
}
