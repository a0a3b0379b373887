package model

import "time"

// NotificationLog 通知去重记录，每个（用户, 类型, 参考日期）一行
type NotificationLog struct {
	NotificationLogID string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"notification_log_id"`
	UserID            string    `gorm:"type:uuid;not null"                             json:"user_id"`
	NotificationType  string    `gorm:"type:varchar(50);not null"                      json:"notification_type"`
	ReferenceID       *string   `gorm:"type:uuid"                                      json:"reference_id,omitempty"`
	ReferenceDate     time.Time `gorm:"type:date;not null"                             json:"reference_date"`
	SentAt            time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"sent_at"`
	Delivered         bool      `gorm:"not null;default:false"                         json:"delivered"`
}

func (NotificationLog) TableName() string { return "notification_log" }

// 通知类型
const (
	NotifyScheduleReminder15 = "schedule_reminder_15"
	NotifyCheckInReminder    = "check_in_reminder"
	NotifyCheckOutReminder   = "check_out_reminder"
	NotifyScheduleApproved   = "schedule_approved"
	NotifyScheduleRejected   = "schedule_rejected"
	NotifyLeaveApproved      = "leave_approved"
	NotifyLeaveRejected      = "leave_rejected"
)
