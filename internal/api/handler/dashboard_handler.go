package handler

import (
	"github.com/gin-gonic/gin"

	"stagetrack/internal/service"
	"stagetrack/pkg/response"
)

// DashboardHandler 仪表盘处理器
type DashboardHandler struct {
	dashboardSvc service.DashboardService
}

// NewDashboardHandler 创建 DashboardHandler 实例
func NewDashboardHandler(dashboardSvc service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardSvc: dashboardSvc}
}

// Student 学生仪表盘
// GET /api/v1/dashboard/student
func (h *DashboardHandler) Student(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.dashboardSvc.Student(c.Request.Context(), userID)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}

// Admin 管理员仪表盘
// GET /api/v1/admin/dashboard
func (h *DashboardHandler) Admin(c *gin.Context) {
	result, err := h.dashboardSvc.Admin(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}
