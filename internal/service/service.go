package service

import (
	"go.uber.org/zap"

	"stagetrack/config"
	"stagetrack/internal/repository"
	"stagetrack/pkg/jwt"
	"stagetrack/pkg/webpush"
)

// Infra 可选依赖；为 nil 时功能关闭或降级
type Infra struct {
	Tokens   TokenStore
	Cache    Cache
	Geocoder Geocoder
	Sender   webpush.Sender
}

// Service 聚合所有服务
type Service struct {
	Auth         AuthService
	User         UserService
	Coach        CoachService
	Location     LocationService
	Setting      SettingService
	Schedule     ScheduleService
	CheckIn      CheckInService
	Leave        LeaveService
	Push         PushService
	Dashboard    DashboardService
	Notification NotificationService
	Export       ExportService
}

// NewService 创建 Service 聚合实例
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	infra Infra,
	clock Clock,
	logger *zap.Logger,
) *Service {
	sender := infra.Sender
	if sender == nil {
		sender = webpush.Disabled{}
	}

	settings := NewSettingService(repo, infra.Cache, logger)
	return &Service{
		Auth:         NewAuthService(repo, jwtMgr, infra.Tokens, logger),
		User:         NewUserService(repo, logger),
		Coach:        NewCoachService(repo, settings, clock, logger),
		Location:     NewLocationService(repo, infra.Geocoder, logger),
		Setting:      settings,
		Schedule:     NewScheduleService(repo, settings, clock, logger),
		CheckIn:      NewCheckInService(repo, settings, clock, logger),
		Leave:        NewLeaveService(repo, clock, logger),
		Push:         NewPushService(repo, cfg.Push.VAPIDPublicKey, logger),
		Dashboard:    NewDashboardService(repo, settings, clock, logger),
		Notification: NewNotificationService(repo, sender, clock, logger),
		Export:       NewExportService(logger),
	}
}
