package handler

import (
	"github.com/gin-gonic/gin"

	"stagetrack/internal/api/middleware"
	"stagetrack/pkg/jwt"
	"stagetrack/pkg/response"
)

// MustGetUserID 读取 JWTAuth 注入的用户 ID
// 返回 false 时已写入 401，处理器需直接返回
func MustGetUserID(c *gin.Context) (string, bool) {
	v, exists := c.Get(middleware.CtxUserID)
	if !exists {
		response.Unauthorized(c, 10002, "Je bent niet ingelogd")
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		response.Unauthorized(c, 10002, "Je bent niet ingelogd")
		return "", false
	}
	return s, true
}

// GetRole 当前用户角色，未认证时为空
func GetRole(c *gin.Context) string {
	return c.GetString(middleware.CtxRole)
}

// GetClaims Access Token 声明，未认证时为 nil
func GetClaims(c *gin.Context) *jwt.Claims {
	v, exists := c.Get(middleware.CtxClaims)
	if !exists {
		return nil
	}
	claims, _ := v.(*jwt.Claims)
	return claims
}
