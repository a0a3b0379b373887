package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"stagetrack/internal/dto"
	"stagetrack/internal/service"
	"stagetrack/pkg/response"
)

// CoachHandler 辅导员处理器
type CoachHandler struct {
	coachSvc service.CoachService
}

// NewCoachHandler 创建 CoachHandler 实例
func NewCoachHandler(coachSvc service.CoachService) *CoachHandler {
	return &CoachHandler{coachSvc: coachSvc}
}

// ListCoaches 辅导员列表，?active=true 仅返回启用的辅导员
// GET /api/v1/admin/coaches
func (h *CoachHandler) ListCoaches(c *gin.Context) {
	coaches, err := h.coachSvc.List(c.Request.Context(), c.Query("active") == "true")
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": coaches})
}

// CreateCoach 创建辅导员
// POST /api/v1/admin/coaches
func (h *CoachHandler) CreateCoach(c *gin.Context) {
	var req dto.CreateCoachRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidInput(c, err)
		return
	}

	coach, err := h.coachSvc.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleCoachError(c, err)
		return
	}

	response.Created(c, coach)
}

// UpdateCoach 更新辅导员
// PUT /api/v1/admin/coaches/:id
func (h *CoachHandler) UpdateCoach(c *gin.Context) {
	var req dto.UpdateCoachRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidInput(c, err)
		return
	}

	coach, err := h.coachSvc.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		h.handleCoachError(c, err)
		return
	}

	response.OK(c, coach)
}

// DeleteCoach 删除辅导员，学生账号保留，辅导员置空
// DELETE /api/v1/admin/coaches/:id
func (h *CoachHandler) DeleteCoach(c *gin.Context) {
	if err := h.coachSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.handleCoachError(c, err)
		return
	}

	response.OK(c, nil)
}

// Students 辅导员名下学生
// GET /api/v1/admin/coaches/:id/students
func (h *CoachHandler) Students(c *gin.Context) {
	students, err := h.coachSvc.Students(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleCoachError(c, err)
		return
	}

	response.OK(c, gin.H{"list": students})
}

func (h *CoachHandler) handleCoachError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrCoachNotFound):
		response.NotFound(c, 17001, err.Error())
	default:
		response.InternalError(c)
	}
}
