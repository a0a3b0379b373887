package model

import "time"

// Schedule 提交组中某一工作日的排班
// StartTime/EndTime 保存 TIME 列文本（"09:00:00"）
type Schedule struct {
	ScheduleID      string         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"schedule_id"`
	UserID          string         `gorm:"type:uuid;not null"                             json:"user_id"`
	DayOfWeek       int            `gorm:"type:smallint;not null"                         json:"day_of_week"` // 1=周一..7=周日
	StartTime       string         `gorm:"type:time;not null"                             json:"start_time"`
	EndTime         string         `gorm:"type:time;not null"                             json:"end_time"`
	Status          ApprovalStatus `gorm:"type:varchar(20);not null;default:'pending'"    json:"status"`
	ValidFrom       time.Time      `gorm:"type:date;not null"                             json:"valid_from"`
	ValidUntil      time.Time      `gorm:"type:date;not null"                             json:"valid_until"`
	SubmissionGroup string         `gorm:"type:uuid;not null"                             json:"submission_group"`
	AdminNote       *string        `gorm:"type:text"                                      json:"admin_note,omitempty"`
	Timestamps

	User *User `gorm:"foreignKey:UserID;references:UserID" json:"user,omitempty"`
}

func (Schedule) TableName() string { return "schedules" }
