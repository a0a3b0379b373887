package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"stagetrack/internal/dto"
	"stagetrack/internal/service"
	"stagetrack/pkg/response"
)

// ScheduleHandler 排班处理器
type ScheduleHandler struct {
	scheduleSvc service.ScheduleService
}

// NewScheduleHandler 创建 ScheduleHandler 实例
func NewScheduleHandler(scheduleSvc service.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{scheduleSvc: scheduleSvc}
}

// ────────────────────── 学生 ──────────────────────

// Submit 提交新的周排班
// POST /api/v1/schedules
func (h *ScheduleHandler) Submit(c *gin.Context) {
	var req dto.SubmitScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidInput(c, err)
		return
	}

	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	group, err := h.scheduleSvc.Submit(c.Request.Context(), userID, &req)
	if err != nil {
		h.handleScheduleError(c, err)
		return
	}

	response.Created(c, group)
}

// UpdatePending 修改待审批排班
// PUT /api/v1/schedules/pending
func (h *ScheduleHandler) UpdatePending(c *gin.Context) {
	var req dto.SubmitScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidInput(c, err)
		return
	}

	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	group, err := h.scheduleSvc.UpdatePending(c.Request.Context(), userID, &req)
	if err != nil {
		h.handleScheduleError(c, err)
		return
	}

	response.OK(c, group)
}

// DeletePending 撤回待审批排班
// DELETE /api/v1/schedules/pending
func (h *ScheduleHandler) DeletePending(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.scheduleSvc.DeletePending(c.Request.Context(), userID); err != nil {
		h.handleScheduleError(c, err)
		return
	}

	response.OK(c, nil)
}

// Mine 当前、待审批及历史排班组
// GET /api/v1/schedules/me
func (h *ScheduleHandler) Mine(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.scheduleSvc.Mine(c.Request.Context(), userID)
	if err != nil {
		h.handleScheduleError(c, err)
		return
	}

	response.OK(c, result)
}

// Calendar 已批准排班的 iCalendar 订阅
// GET /api/v1/schedules/me/calendar.ics
func (h *ScheduleHandler) Calendar(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	body, err := h.scheduleSvc.CalendarICS(c.Request.Context(), userID)
	if err != nil {
		h.handleScheduleError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="stagerooster.ics"`)
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", body)
}

// ────────────────────── 管理员 ──────────────────────

// ListGroups 排班组列表
// GET /api/v1/admin/schedules
func (h *ScheduleHandler) ListGroups(c *gin.Context) {
	var req dto.ScheduleGroupListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		invalidInput(c, err)
		return
	}

	groups, total, err := h.scheduleSvc.ListGroups(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OKPage(c, groups, total, req.GetPage(), req.GetPageSize())
}

// Approve 批准排班组
// POST /api/v1/admin/schedules/:group/approve
func (h *ScheduleHandler) Approve(c *gin.Context) {
	h.review(c, h.scheduleSvc.Approve)
}

// Reject 驳回排班组
// POST /api/v1/admin/schedules/:group/reject
func (h *ScheduleHandler) Reject(c *gin.Context) {
	h.review(c, h.scheduleSvc.Reject)
}

type scheduleReviewFunc func(ctx context.Context, group string, req *dto.ReviewRequest) (*dto.ScheduleGroupResponse, error)

func (h *ScheduleHandler) review(c *gin.Context, fn scheduleReviewFunc) {
	var req dto.ReviewRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			invalidInput(c, err)
			return
		}
	}

	group, err := fn(c.Request.Context(), c.Param("group"), &req)
	if err != nil {
		h.handleScheduleError(c, err)
		return
	}

	response.OK(c, group)
}

func (h *ScheduleHandler) handleScheduleError(c *gin.Context, err error) {
	var minErr *service.MinimumHoursError
	switch {
	case errors.As(err, &minErr):
		response.Unprocessable(c, 13001, minErr.Error())
	case errors.Is(err, service.ErrScheduleNoEntries),
		errors.Is(err, service.ErrScheduleDuplicateDay),
		errors.Is(err, service.ErrScheduleTimeMissing),
		errors.Is(err, service.ErrEndBeforeStart):
		response.Unprocessable(c, 13002, err.Error())
	case errors.Is(err, service.ErrSchedulePendingExists):
		response.Conflict(c, 13003, err.Error())
	case errors.Is(err, service.ErrScheduleNoPending):
		response.NotFound(c, 13004, err.Error())
	case errors.Is(err, service.ErrScheduleGroupNotFound):
		response.NotFound(c, 13005, err.Error())
	case errors.Is(err, service.ErrScheduleAlreadyReviewed):
		response.Conflict(c, 13006, err.Error())
	default:
		response.InternalError(c)
	}
}
