package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"stagetrack/pkg/response"
)

// BodyLimit 请求体大小限制中间件：multipart 上传限 uploadMax，其余限 jsonMax
// 声明长度超限直接返回 413；分块传输在读取时失败，
// 由参数绑定返回 400
func BodyLimit(jsonMax, uploadMax int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := jsonMax
		if strings.HasPrefix(c.ContentType(), "multipart/") && uploadMax > 0 {
			limit = uploadMax
		}
		if limit <= 0 || c.Request.Body == nil {
			c.Next()
			return
		}
		if c.Request.ContentLength > limit {
			response.Error(c, http.StatusRequestEntityTooLarge, 10005, "Het verzoek is te groot")
			c.Abort()
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		c.Next()
	}
}
