package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"stagetrack/internal/attendance"
	"stagetrack/internal/model"
	pkgerrors "stagetrack/pkg/errors"
)

// LeaveListFilters 请假列表筛选条件
type LeaveListFilters struct {
	Status model.ApprovalStatus
	UserID string
}

// LeaveRequestRepository 请假数据访问接口
type LeaveRequestRepository interface {
	Create(ctx context.Context, req *model.LeaveRequest) error
	GetByID(ctx context.Context, id string) (*model.LeaveRequest, error)
	ListByUser(ctx context.Context, userID string) ([]model.LeaveRequest, error)
	List(ctx context.Context, filters *LeaveListFilters, offset, limit int) ([]model.LeaveRequest, int64, error)
	// Review 将待审批申请改为 status；已非 pending 时返回 ErrStateChanged
	Review(ctx context.Context, id string, status model.ApprovalStatus, note *string, reviewerID string, at time.Time) error
	ListStatusChangedSince(ctx context.Context, since time.Time) ([]model.LeaveRequest, error)
	// CountPending userID 为空时统计全部用户
	CountPending(ctx context.Context, userID string) (int64, error)
	ListUpcoming(ctx context.Context, userID string, from time.Time, limit int) ([]model.LeaveRequest, error)
}

type leaveRequestRepo struct {
	db *gorm.DB
}

// NewLeaveRequestRepo 创建 LeaveRequestRepository 实例
func NewLeaveRequestRepo(db *gorm.DB) LeaveRequestRepository {
	return &leaveRequestRepo{db: db}
}

func (r *leaveRequestRepo) Create(ctx context.Context, req *model.LeaveRequest) error {
	return r.db.WithContext(ctx).Create(req).Error
}

func (r *leaveRequestRepo) GetByID(ctx context.Context, id string) (*model.LeaveRequest, error) {
	var req model.LeaveRequest
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("leave_request_id = ?", id).
		First(&req).Error
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *leaveRequestRepo) ListByUser(ctx context.Context, userID string) ([]model.LeaveRequest, error) {
	var rows []model.LeaveRequest
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("date DESC, created_at DESC").
		Find(&rows).Error
	return rows, err
}

func (r *leaveRequestRepo) List(ctx context.Context, filters *LeaveListFilters, offset, limit int) ([]model.LeaveRequest, int64, error) {
	var rows []model.LeaveRequest
	var total int64

	db := r.db.WithContext(ctx).Model(&model.LeaveRequest{})
	if filters != nil {
		if filters.Status != "" {
			db = db.Where("status = ?", filters.Status)
		}
		if filters.UserID != "" {
			db = db.Where("user_id = ?", filters.UserID)
		}
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Preload("User").
		Offset(offset).Limit(limit).
		Order("date DESC, created_at DESC").
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	return rows, total, nil
}

func (r *leaveRequestRepo) Review(ctx context.Context, id string, status model.ApprovalStatus, note *string, reviewerID string, at time.Time) error {
	res := r.db.WithContext(ctx).
		Model(&model.LeaveRequest{}).
		Where("leave_request_id = ? AND status = ?", id, model.StatusPending).
		Updates(map[string]interface{}{
			"status":      status,
			"admin_note":  note,
			"reviewed_by": reviewerID,
			"reviewed_at": at,
			"updated_at":  gorm.Expr("NOW()"),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return pkgerrors.ErrStateChanged
	}
	return nil
}

func (r *leaveRequestRepo) ListStatusChangedSince(ctx context.Context, since time.Time) ([]model.LeaveRequest, error) {
	var rows []model.LeaveRequest
	err := r.db.WithContext(ctx).
		Where("status IN ? AND updated_at >= ?",
			[]model.ApprovalStatus{model.StatusApproved, model.StatusRejected}, since).
		Order("updated_at ASC").
		Find(&rows).Error
	return rows, err
}

func (r *leaveRequestRepo) CountPending(ctx context.Context, userID string) (int64, error) {
	var n int64
	db := r.db.WithContext(ctx).Model(&model.LeaveRequest{}).Where("status = ?", model.StatusPending)
	if userID != "" {
		db = db.Where("user_id = ?", userID)
	}
	err := db.Count(&n).Error
	return n, err
}

func (r *leaveRequestRepo) ListUpcoming(ctx context.Context, userID string, from time.Time, limit int) ([]model.LeaveRequest, error) {
	var rows []model.LeaveRequest
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND date >= ? AND status <> ?", userID, attendance.DateKey(from), model.StatusRejected).
		Order("date ASC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}
