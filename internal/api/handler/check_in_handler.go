package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"stagetrack/internal/dto"
	"stagetrack/internal/service"
	"stagetrack/pkg/response"
)

// CheckInHandler 签到处理器
type CheckInHandler struct {
	checkInSvc service.CheckInService
}

// NewCheckInHandler 创建 CheckInHandler 实例
func NewCheckInHandler(checkInSvc service.CheckInService) *CheckInHandler {
	return &CheckInHandler{checkInSvc: checkInSvc}
}

// Status 今日排班及早到/迟到提示
// GET /api/v1/check-ins/status
func (h *CheckInHandler) Status(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.checkInSvc.ScheduleStatus(c.Request.Context(), userID)
	if err != nil {
		h.handleCheckInError(c, err)
		return
	}

	response.OK(c, result)
}

// CheckIn 签到
// POST /api/v1/check-ins
func (h *CheckInHandler) CheckIn(c *gin.Context) {
	var req dto.CheckInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidInput(c, err)
		return
	}

	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.checkInSvc.CheckIn(c.Request.Context(), userID, &req)
	if err != nil {
		h.handleCheckInError(c, err)
		return
	}

	response.Created(c, result)
}

// CheckOut 签退
// POST /api/v1/check-ins/checkout
func (h *CheckInHandler) CheckOut(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.checkInSvc.CheckOut(c.Request.Context(), userID)
	if err != nil {
		h.handleCheckInError(c, err)
		return
	}

	response.OK(c, result)
}

// Active 进行中的签到，未签到时 data 为 null
// GET /api/v1/check-ins/active
func (h *CheckInHandler) Active(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	record, err := h.checkInSvc.Active(c.Request.Context(), userID)
	if err != nil {
		h.handleCheckInError(c, err)
		return
	}

	response.OK(c, gin.H{"check_in": record})
}

// History 我的签到历史
// GET /api/v1/check-ins/me
func (h *CheckInHandler) History(c *gin.Context) {
	var req dto.CheckInHistoryRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		invalidInput(c, err)
		return
	}

	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	records, total, err := h.checkInSvc.History(c.Request.Context(), userID, &req)
	if err != nil {
		h.handleCheckInError(c, err)
		return
	}

	response.OKPage(c, records, total, req.GetPage(), req.GetPageSize())
}

// List 全部学生的签到记录
// GET /api/v1/admin/check-ins
func (h *CheckInHandler) List(c *gin.Context) {
	var req dto.AdminCheckInListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		invalidInput(c, err)
		return
	}

	records, total, err := h.checkInSvc.List(c.Request.Context(), &req)
	if err != nil {
		h.handleCheckInError(c, err)
		return
	}

	response.OKPage(c, records, total, req.GetPage(), req.GetPageSize())
}

func (h *CheckInHandler) handleCheckInError(c *gin.Context, err error) {
	var geoErr *service.GeofenceError
	switch {
	case errors.As(err, &geoErr):
		response.Unprocessable(c, 14001, geoErr.Error())
	case errors.Is(err, service.ErrInvalidQRCode):
		response.Unprocessable(c, 14002, err.Error())
	case errors.Is(err, service.ErrAlreadyCheckedIn):
		response.Conflict(c, 14003, err.Error())
	case errors.Is(err, service.ErrNoActiveCheckIn):
		response.Conflict(c, 14004, err.Error())
	case errors.Is(err, service.ErrLocationNotFound):
		response.NotFound(c, 16001, err.Error())
	case errors.Is(err, service.ErrInvalidDateRange):
		response.BadRequest(c, 14005, err.Error())
	default:
		response.InternalError(c)
	}
}
