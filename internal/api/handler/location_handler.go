package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"stagetrack/internal/dto"
	"stagetrack/internal/model"
	"stagetrack/internal/service"
	"stagetrack/pkg/response"
)

// LocationHandler 地点处理器
type LocationHandler struct {
	locationSvc service.LocationService
}

// NewLocationHandler 创建 LocationHandler 实例
func NewLocationHandler(locationSvc service.LocationService) *LocationHandler {
	return &LocationHandler{locationSvc: locationSvc}
}

// ListLocations 地点列表，仅管理员可见二维码
// GET /api/v1/locations, GET /api/v1/admin/locations
func (h *LocationHandler) ListLocations(c *gin.Context) {
	includeQR := GetRole(c) == string(model.RoleAdmin)

	locations, err := h.locationSvc.List(c.Request.Context(), includeQR)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": locations})
}

// GetLocation 获取地点详情
// GET /api/v1/admin/locations/:id
func (h *LocationHandler) GetLocation(c *gin.Context) {
	location, err := h.locationSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleLocationError(c, err)
		return
	}

	response.OK(c, location)
}

// CreateLocation 创建地点
// POST /api/v1/admin/locations
func (h *LocationHandler) CreateLocation(c *gin.Context) {
	var req dto.CreateLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidInput(c, err)
		return
	}

	location, err := h.locationSvc.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleLocationError(c, err)
		return
	}

	response.Created(c, location)
}

// UpdateLocation 更新地点
// PUT /api/v1/admin/locations/:id
func (h *LocationHandler) UpdateLocation(c *gin.Context) {
	var req dto.UpdateLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidInput(c, err)
		return
	}

	location, err := h.locationSvc.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		h.handleLocationError(c, err)
		return
	}

	response.OK(c, location)
}

// DeleteLocation 删除地点
// DELETE /api/v1/admin/locations/:id
func (h *LocationHandler) DeleteLocation(c *gin.Context) {
	if err := h.locationSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.handleLocationError(c, err)
		return
	}

	response.OK(c, nil)
}

// RegenerateQR 重新生成二维码
// POST /api/v1/admin/locations/:id/regenerate-qr
func (h *LocationHandler) RegenerateQR(c *gin.Context) {
	location, err := h.locationSvc.RegenerateQR(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleLocationError(c, err)
		return
	}

	response.OK(c, location)
}

// Geocode 地址解析
// GET /api/v1/admin/locations/geocode?address=
func (h *LocationHandler) Geocode(c *gin.Context) {
	var req dto.GeocodeRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		invalidInput(c, err)
		return
	}

	result, err := h.locationSvc.Geocode(c.Request.Context(), req.Address)
	if err != nil {
		h.handleLocationError(c, err)
		return
	}

	response.OK(c, result)
}

func (h *LocationHandler) handleLocationError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrLocationNotFound):
		response.NotFound(c, 16001, err.Error())
	case errors.Is(err, service.ErrAddressNotFound):
		response.Unprocessable(c, 16002, err.Error())
	case errors.Is(err, service.ErrLocationNoPosition):
		response.BadRequest(c, 16003, err.Error())
	case errors.Is(err, service.ErrLocationInUse):
		response.Conflict(c, 16004, err.Error())
	case errors.Is(err, service.ErrGeocodeUnavailable):
		response.Error(c, http.StatusServiceUnavailable, 16005, err.Error())
	default:
		response.InternalError(c)
	}
}
