package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"stagetrack/config"
	"stagetrack/internal/api/handler"
	"stagetrack/internal/api/middleware"
	"stagetrack/internal/api/validation"
	"stagetrack/internal/model"
	"stagetrack/pkg/jwt"
)

// Deps 可选的 Redis 依赖，为 nil 时对应功能关闭
type Deps struct {
	Blacklist middleware.Blacklist
	Limiter   middleware.RateLimiter
}

// Setup 初始化 Gin 路由
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, deps Deps, logger *zap.Logger) (*gin.Engine, error) {
	gin.SetMode(gin.ReleaseMode)

	if err := validation.Register(); err != nil {
		return nil, err
	}

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.BodyLimit(cfg.Server.MaxBodyBytes, cfg.Server.MaxUploadBytes))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	authLimit := middleware.RateLimit(deps.Limiter, 10, time.Minute)
	checkInLimit := middleware.RateLimit(deps.Limiter, 20, time.Minute)
	adminOnly := middleware.RequireRole(model.RoleAdmin)

	v1 := r.Group("/api/v1")
	{
		// 公开接口
		auth := v1.Group("/auth")
		{
			auth.POST("/login", authLimit, h.Auth.Login)
			auth.POST("/register", authLimit, h.Auth.Register)
			auth.POST("/refresh", authLimit, h.Auth.Refresh)
		}

		// 外部调度触发
		v1.POST("/internal/notifications/run",
			middleware.CronSecret(cfg.Notification.CronSecret), h.Notification.Run)

		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, deps.Blacklist))
		{
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.GET("/auth/me", h.Auth.Me)
			authorized.PUT("/auth/password", h.Auth.ChangePassword)

			users := authorized.Group("/users")
			{
				users.GET("/me", h.User.GetMe)
				users.PUT("/me", h.User.UpdateMe)
				users.PUT("/me/photo", h.User.UpdatePhoto)
			}

			authorized.GET("/locations", h.Location.ListLocations)

			checkIns := authorized.Group("/check-ins")
			{
				checkIns.GET("/status", h.CheckIn.Status)
				checkIns.GET("/active", h.CheckIn.Active)
				checkIns.GET("/me", h.CheckIn.History)
				checkIns.POST("", checkInLimit, h.CheckIn.CheckIn)
				checkIns.POST("/checkout", checkInLimit, h.CheckIn.CheckOut)
			}

			schedules := authorized.Group("/schedules")
			{
				schedules.GET("/me", h.Schedule.Mine)
				schedules.GET("/me/calendar.ics", h.Schedule.Calendar)
				schedules.POST("", h.Schedule.Submit)
				schedules.PUT("/pending", h.Schedule.UpdatePending)
				schedules.DELETE("/pending", h.Schedule.DeletePending)
			}

			leave := authorized.Group("/leave-requests")
			{
				leave.GET("/me", h.Leave.Mine)
				leave.POST("/me", h.Leave.Submit)
			}

			push := authorized.Group("/push")
			{
				push.GET("/vapid-public-key", h.Push.VAPIDPublicKey)
				push.POST("/subscriptions", h.Push.Subscribe)
				push.DELETE("/subscriptions", h.Push.Unsubscribe)
			}

			authorized.GET("/dashboard/student", h.Dashboard.Student)

			admin := authorized.Group("/admin")
			admin.Use(adminOnly)
			{
				admin.GET("/dashboard", h.Dashboard.Admin)

				adminUsers := admin.Group("/users")
				{
					adminUsers.GET("", h.User.ListUsers)
					adminUsers.POST("", h.User.CreateUser)
					adminUsers.GET("/import-template", h.User.ImportTemplate)
					adminUsers.POST("/import", h.User.ImportUsers)
					adminUsers.GET("/:id", h.User.GetUser)
					adminUsers.PUT("/:id", h.User.UpdateUser)
					adminUsers.DELETE("/:id", h.User.DeleteUser)
					adminUsers.POST("/:id/reset-password", h.User.ResetPassword)
				}

				coaches := admin.Group("/coaches")
				{
					coaches.GET("", h.Coach.ListCoaches)
					coaches.POST("", h.Coach.CreateCoach)
					coaches.PUT("/:id", h.Coach.UpdateCoach)
					coaches.DELETE("/:id", h.Coach.DeleteCoach)
					coaches.GET("/:id/students", h.Coach.Students)
				}

				locations := admin.Group("/locations")
				{
					locations.GET("", h.Location.ListLocations)
					locations.POST("", h.Location.CreateLocation)
					locations.GET("/geocode", h.Location.Geocode)
					locations.GET("/:id", h.Location.GetLocation)
					locations.PUT("/:id", h.Location.UpdateLocation)
					locations.DELETE("/:id", h.Location.DeleteLocation)
					locations.POST("/:id/regenerate-qr", h.Location.RegenerateQR)
				}

				adminSchedules := admin.Group("/schedules")
				{
					adminSchedules.GET("", h.Schedule.ListGroups)
					adminSchedules.POST("/:group/approve", h.Schedule.Approve)
					adminSchedules.POST("/:group/reject", h.Schedule.Reject)
				}

				adminLeave := admin.Group("/leave-requests")
				{
					adminLeave.GET("", h.Leave.List)
					adminLeave.POST("/:id/approve", h.Leave.Approve)
					adminLeave.POST("/:id/reject", h.Leave.Reject)
				}

				admin.GET("/check-ins", h.CheckIn.List)

				settings := admin.Group("/settings")
				{
					settings.GET("", h.Setting.List)
					settings.PUT("/:key", h.Setting.Update)
				}
			}
		}
	}

	return r, nil
}
