package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"stagetrack/internal/dto"
	"stagetrack/internal/service"
	"stagetrack/pkg/response"
)

// SettingHandler 全局设置处理器，仅管理员
type SettingHandler struct {
	settingSvc service.SettingService
}

// NewSettingHandler 创建 SettingHandler 实例
func NewSettingHandler(settingSvc service.SettingService) *SettingHandler {
	return &SettingHandler{settingSvc: settingSvc}
}

// List 设置列表
// GET /api/v1/admin/settings
func (h *SettingHandler) List(c *gin.Context) {
	settings, err := h.settingSvc.List(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": settings})
}

// Update 更新设置
// PUT /api/v1/admin/settings/:key
func (h *SettingHandler) Update(c *gin.Context) {
	var req dto.UpdateSettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidInput(c, err)
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	setting, err := h.settingSvc.Update(c.Request.Context(), c.Param("key"), &req, callerID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSettingUnknown):
			response.NotFound(c, 18001, err.Error())
		case errors.Is(err, service.ErrSettingInvalid):
			response.BadRequest(c, 18002, err.Error())
		default:
			response.InternalError(c)
		}
		return
	}

	response.OK(c, setting)
}
