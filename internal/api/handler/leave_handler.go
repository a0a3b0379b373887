package handler

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"

	"stagetrack/internal/dto"
	"stagetrack/internal/service"
	"stagetrack/pkg/response"
)

// LeaveHandler 请假处理器
type LeaveHandler struct {
	leaveSvc service.LeaveService
}

// NewLeaveHandler 创建 LeaveHandler 实例
func NewLeaveHandler(leaveSvc service.LeaveService) *LeaveHandler {
	return &LeaveHandler{leaveSvc: leaveSvc}
}

// Submit 提交请假
// POST /api/v1/leave-requests/me
func (h *LeaveHandler) Submit(c *gin.Context) {
	var req dto.SubmitLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidInput(c, err)
		return
	}

	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.leaveSvc.Submit(c.Request.Context(), userID, &req)
	if err != nil {
		h.handleLeaveError(c, err)
		return
	}

	response.Created(c, result)
}

// Mine 我的请假记录
// GET /api/v1/leave-requests/me
func (h *LeaveHandler) Mine(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	list, err := h.leaveSvc.Mine(c.Request.Context(), userID)
	if err != nil {
		h.handleLeaveError(c, err)
		return
	}

	response.OK(c, gin.H{"list": list})
}

// List 请假列表
// GET /api/v1/admin/leave-requests
func (h *LeaveHandler) List(c *gin.Context) {
	var req dto.LeaveListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		invalidInput(c, err)
		return
	}

	list, total, err := h.leaveSvc.List(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
}

// Approve 批准请假
// POST /api/v1/admin/leave-requests/:id/approve
func (h *LeaveHandler) Approve(c *gin.Context) {
	h.review(c, h.leaveSvc.Approve)
}

// Reject 驳回请假
// POST /api/v1/admin/leave-requests/:id/reject
func (h *LeaveHandler) Reject(c *gin.Context) {
	h.review(c, h.leaveSvc.Reject)
}

type leaveReviewFunc func(ctx context.Context, id string, req *dto.ReviewRequest, reviewerID string) (*dto.LeaveResponse, error)

func (h *LeaveHandler) review(c *gin.Context, fn leaveReviewFunc) {
	var req dto.ReviewRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			invalidInput(c, err)
			return
		}
	}

	reviewerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := fn(c.Request.Context(), c.Param("id"), &req, reviewerID)
	if err != nil {
		h.handleLeaveError(c, err)
		return
	}

	response.OK(c, result)
}

func (h *LeaveHandler) handleLeaveError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrLeaveDateInPast),
		errors.Is(err, service.ErrLeaveTimesIncomplete),
		errors.Is(err, service.ErrEndBeforeStart):
		response.Unprocessable(c, 15001, err.Error())
	case errors.Is(err, service.ErrLeaveNotFound):
		response.NotFound(c, 15002, err.Error())
	case errors.Is(err, service.ErrLeaveAlreadyReviewed):
		response.Conflict(c, 15003, err.Error())
	default:
		response.InternalError(c)
	}
}
