package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"stagetrack/internal/service"
	"stagetrack/pkg/response"
)

// msgInvalidInput 参数绑定或校验失败
const msgInvalidInput = "Controleer de ingevoerde gegevens"

// Handler 聚合所有处理器
type Handler struct {
	Auth         *AuthHandler
	User         *UserHandler
	Coach        *CoachHandler
	Location     *LocationHandler
	Setting      *SettingHandler
	Schedule     *ScheduleHandler
	CheckIn      *CheckInHandler
	Leave        *LeaveHandler
	Push         *PushHandler
	Dashboard    *DashboardHandler
	Notification *NotificationHandler
}

// NewHandler 创建 Handler 聚合实例
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Auth:         NewAuthHandler(svc.Auth),
		User:         NewUserHandler(svc.User, svc.Export),
		Coach:        NewCoachHandler(svc.Coach),
		Location:     NewLocationHandler(svc.Location),
		Setting:      NewSettingHandler(svc.Setting),
		Schedule:     NewScheduleHandler(svc.Schedule),
		CheckIn:      NewCheckInHandler(svc.CheckIn),
		Leave:        NewLeaveHandler(svc.Leave),
		Push:         NewPushHandler(svc.Push),
		Dashboard:    NewDashboardHandler(svc.Dashboard),
		Notification: NewNotificationHandler(svc.Notification),
	}
}

// invalidInput 参数绑定失败时返回 400
func invalidInput(c *gin.Context, err error) {
	response.ErrorWithDetails(c, http.StatusBadRequest, 10001, msgInvalidInput, err.Error())
}
