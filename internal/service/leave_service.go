package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"stagetrack/internal/attendance"
	"stagetrack/internal/dto"
	"stagetrack/internal/model"
	"stagetrack/internal/repository"
	pkgerrors "stagetrack/pkg/errors"
)

// ── 请假错误定义 ──

var (
	ErrLeaveDateInPast      = errors.New("Datum kan niet in het verleden liggen")
	ErrLeaveTimesIncomplete = errors.New("Geef zowel een start- als eindtijd op")
	ErrLeaveNotFound        = errors.New("Verlofaanvraag niet gevonden")
	ErrLeaveAlreadyReviewed = errors.New("Deze verlofaanvraag is al beoordeeld")
)

// LeaveService 请假申请与审批
type LeaveService interface {
	Submit(ctx context.Context, userID string, req *dto.SubmitLeaveRequest) (*dto.LeaveResponse, error)
	Mine(ctx context.Context, userID string) ([]dto.LeaveResponse, error)
	List(ctx context.Context, req *dto.LeaveListRequest) ([]dto.LeaveResponse, int64, error)
	Approve(ctx context.Context, id string, req *dto.ReviewRequest, reviewerID string) (*dto.LeaveResponse, error)
	Reject(ctx context.Context, id string, req *dto.ReviewRequest, reviewerID string) (*dto.LeaveResponse, error)
}

type leaveService struct {
	repo   *repository.Repository
	clock  Clock
	logger *zap.Logger
}

// NewLeaveService 创建 LeaveService 实例
func NewLeaveService(repo *repository.Repository, clock Clock, logger *zap.Logger) LeaveService {
	return &leaveService{repo: repo, clock: clock, logger: logger}
}

// ────────────────────── Submit ──────────────────────

func (s *leaveService) Submit(ctx context.Context, userID string, req *dto.SubmitLeaveRequest) (*dto.LeaveResponse, error) {
	date, err := attendance.ParseDate(req.Date)
	if err != nil {
		return nil, ErrInvalidDateRange
	}
	if attendance.DateKey(date) < attendance.DateKey(s.clock.Today()) {
		return nil, ErrLeaveDateInPast
	}

	leave := &model.LeaveRequest{
		LeaveRequestID: uuid.NewString(),
		UserID:         userID,
		Date:           date,
		Reason:         model.LeaveReason(req.Reason),
		Description:    trimmedOrNil(req.Description),
		Status:         model.StatusPending,
	}

	start, end := trimmedOrNil(req.StartTime), trimmedOrNil(req.EndTime)
	switch {
	case start == nil && end == nil:
	case start == nil || end == nil:
		return nil, ErrLeaveTimesIncomplete
	default:
		from, err := attendance.ParseClock(*start)
		if err != nil {
			return nil, ErrLeaveTimesIncomplete
		}
		until, err := attendance.ParseClock(*end)
		if err != nil {
			return nil, ErrLeaveTimesIncomplete
		}
		if until.MinuteOfDay() <= from.MinuteOfDay() {
			return nil, ErrEndBeforeStart
		}
		fromStr, untilStr := from.DBString(), until.DBString()
		leave.StartTime, leave.EndTime = &fromStr, &untilStr
	}

	if err := s.repo.Leave.Create(ctx, leave); err != nil {
		s.logger.Error("create leave request failed", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	s.logger.Info("leave requested",
		zap.String("user_id", userID),
		zap.String("date", req.Date),
		zap.String("reason", req.Reason),
	)
	resp := toLeaveResponse(leave)
	return &resp, nil
}

// ────────────────────── Mine ──────────────────────

func (s *leaveService) Mine(ctx context.Context, userID string) ([]dto.LeaveResponse, error) {
	rows, err := s.repo.Leave.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("list own leave failed", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	result := make([]dto.LeaveResponse, 0, len(rows))
	for i := range rows {
		result = append(result, toLeaveResponse(&rows[i]))
	}
	return result, nil
}

// ────────────────────── List ──────────────────────

func (s *leaveService) List(ctx context.Context, req *dto.LeaveListRequest) ([]dto.LeaveResponse, int64, error) {
	filters := &repository.LeaveListFilters{
		Status: model.ApprovalStatus(req.Status),
		UserID: req.UserID,
	}

	rows, total, err := s.repo.Leave.List(ctx, filters, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("list leave failed", zap.Error(err))
		return nil, 0, err
	}

	result := make([]dto.LeaveResponse, 0, len(rows))
	for i := range rows {
		result = append(result, toLeaveResponse(&rows[i]))
	}
	return result, total, nil
}

// ────────────────────── Approve / Reject ──────────────────────

func (s *leaveService) Approve(ctx context.Context, id string, req *dto.ReviewRequest, reviewerID string) (*dto.LeaveResponse, error) {
	return s.review(ctx, id, model.StatusApproved, req, reviewerID)
}

func (s *leaveService) Reject(ctx context.Context, id string, req *dto.ReviewRequest, reviewerID string) (*dto.LeaveResponse, error) {
	return s.review(ctx, id, model.StatusRejected, req, reviewerID)
}

func (s *leaveService) review(ctx context.Context, id string, status model.ApprovalStatus, req *dto.ReviewRequest, reviewerID string) (*dto.LeaveResponse, error) {
	leave, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if leave.Status != model.StatusPending {
		return nil, ErrLeaveAlreadyReviewed
	}

	now := s.clock.Now()
	if err := s.repo.Leave.Review(ctx, id, status, req.AdminNote, reviewerID, now); err != nil {
		if errors.Is(err, pkgerrors.ErrStateChanged) {
			return nil, ErrLeaveAlreadyReviewed
		}
		s.logger.Error("review leave failed", zap.String("leave_request_id", id), zap.Error(err))
		return nil, err
	}

	leave.Status = status
	leave.AdminNote = req.AdminNote
	leave.ReviewedBy = &reviewerID
	leave.ReviewedAt = &now

	s.logger.Info("leave reviewed", zap.String("leave_request_id", id), zap.String("status", string(status)))
	resp := toLeaveResponse(leave)
	return &resp, nil
}

func (s *leaveService) load(ctx context.Context, id string) (*model.LeaveRequest, error) {
	leave, err := s.repo.Leave.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLeaveNotFound
		}
		s.logger.Error("load leave failed", zap.String("leave_request_id", id), zap.Error(err))
		return nil, err
	}
	return leave, nil
}
