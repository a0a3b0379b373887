package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"stagetrack/internal/dto"
	"stagetrack/internal/service"
	"stagetrack/pkg/response"
)

// PushHandler 推送处理器
type PushHandler struct {
	pushSvc service.PushService
}

// NewPushHandler 创建 PushHandler 实例
func NewPushHandler(pushSvc service.PushService) *PushHandler {
	return &PushHandler{pushSvc: pushSvc}
}

// VAPIDPublicKey PushManager.subscribe 所需的应用服务器公钥
// GET /api/v1/push/vapid-public-key
func (h *PushHandler) VAPIDPublicKey(c *gin.Context) {
	result, err := h.pushSvc.VAPIDPublicKey()
	if err != nil {
		if errors.Is(err, service.ErrPushNotConfigured) {
			response.NotFound(c, 19001, err.Error())
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}

// Subscribe 注册推送订阅
// POST /api/v1/push/subscriptions
func (h *PushHandler) Subscribe(c *gin.Context) {
	var req dto.SubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidInput(c, err)
		return
	}

	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.pushSvc.Subscribe(c.Request.Context(), userID, &req); err != nil {
		response.InternalError(c)
		return
	}

	response.Created(c, nil)
}

// Unsubscribe 取消推送订阅
// DELETE /api/v1/push/subscriptions
func (h *PushHandler) Unsubscribe(c *gin.Context) {
	var req dto.UnsubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidInput(c, err)
		return
	}

	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.pushSvc.Unsubscribe(c.Request.Context(), userID, &req); err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, nil)
}
