package repository

import "gorm.io/gorm"

// Repository 聚合所有数据访问接口
type Repository struct {
	User             UserRepository
	Coach            CoachRepository
	Location         LocationRepository
	Schedule         ScheduleRepository
	CheckIn          CheckInRepository
	Leave            LeaveRequestRepository
	Setting          SettingRepository
	PushSubscription PushSubscriptionRepository
	NotificationLog  NotificationLogRepository
}

// NewRepository 组装 gorm 实现
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		User:             NewUserRepo(db),
		Coach:            NewCoachRepo(db),
		Location:         NewLocationRepo(db),
		Schedule:         NewScheduleRepo(db),
		CheckIn:          NewCheckInRepo(db),
		Leave:            NewLeaveRequestRepo(db),
		Setting:          NewSettingRepo(db),
		PushSubscription: NewPushSubscriptionRepo(db),
		NotificationLog:  NewNotificationLogRepo(db),
	}
}
