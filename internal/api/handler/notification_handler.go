package handler

import (
	"github.com/gin-gonic/gin"

	"stagetrack/internal/service"
	"stagetrack/pkg/response"
)

// NotificationHandler 提醒调度的外部触发入口
type NotificationHandler struct {
	notificationSvc service.NotificationService
}

// NewNotificationHandler 创建 NotificationHandler 实例
func NewNotificationHandler(notificationSvc service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationSvc: notificationSvc}
}

// Run 执行一次调度
// POST /api/v1/internal/notifications/run
func (h *NotificationHandler) Run(c *gin.Context) {
	result, err := h.notificationSvc.Run(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}
