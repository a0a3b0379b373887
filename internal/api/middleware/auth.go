package middleware

import (
	"context"
	"crypto/subtle"
	"strings"

	"github.com/gin-gonic/gin"

	"stagetrack/internal/model"
	"stagetrack/pkg/jwt"
	"stagetrack/pkg/response"
)

// JWTAuth 写入的上下文键
const (
	CtxUserID = "user_id"
	CtxRole   = "role"
	CtxClaims = "claims"
)

// Blacklist 已吊销的 Token ID，pkg/redis.Client 已实现
type Blacklist interface {
	IsBlacklisted(ctx context.Context, jti string) (bool, error)
}

// JWTAuth JWT 认证中间件，校验 Bearer Access Token
// blacklist 为 nil 或出错时跳过吊销检查
func JWTAuth(jwtMgr *jwt.Manager, blacklist Blacklist) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, 10002, "Je bent niet ingelogd")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			response.Unauthorized(c, 10002, "Ongeldige Authorization-header")
			c.Abort()
			return
		}

		claims, err := jwtMgr.ParseToken(parts[1])
		if err != nil {
			response.Unauthorized(c, 10002, "Je sessie is verlopen, log opnieuw in")
			c.Abort()
			return
		}

		if claims.TokenType != jwt.TokenTypeAccess {
			response.Unauthorized(c, 10002, "Ongeldig tokentype")
			c.Abort()
			return
		}

		if blacklist != nil {
			revoked, err := blacklist.IsBlacklisted(c.Request.Context(), claims.ID)
			if err == nil && revoked {
				response.Unauthorized(c, 10002, "Je bent uitgelogd, log opnieuw in")
				c.Abort()
				return
			}
		}

		c.Set(CtxUserID, claims.UserID)
		c.Set(CtxRole, claims.Role)
		c.Set(CtxClaims, claims)

		c.Next()
	}
}

// RequireRole 角色权限中间件，当前用户需具有指定角色之一
func RequireRole(roles ...model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get(CtxRole)
		if !exists {
			response.Unauthorized(c, 10002, "Je bent niet ingelogd")
			c.Abort()
			return
		}

		userRole, _ := role.(string)
		for _, r := range roles {
			if userRole == string(r) {
				c.Next()
				return
			}
		}

		response.Forbidden(c, 10003, "Je hebt geen toegang tot deze pagina")
		c.Abort()
	}
}

// CronSecret 通过 X-Cron-Secret 请求头保护内部触发接口
// secret 为空时接口不可用
func CronSecret(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		given := c.GetHeader("X-Cron-Secret")
		if secret == "" || subtle.ConstantTimeCompare([]byte(given), []byte(secret)) != 1 {
			response.Unauthorized(c, 10002, "Ongeldig cron-geheim")
			c.Abort()
			return
		}
		c.Next()
	}
}
