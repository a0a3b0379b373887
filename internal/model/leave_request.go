package model

import "time"

// LeaveRequest 请假申请；部分时段请假时设置 StartTime/EndTime
type LeaveRequest struct {
	LeaveRequestID string         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"leave_request_id"`
	UserID         string         `gorm:"type:uuid;not null"                             json:"user_id"`
	Date           time.Time      `gorm:"type:date;not null"                             json:"date"`
	Reason         LeaveReason    `gorm:"type:varchar(20);not null"                      json:"reason"`
	Description    *string        `gorm:"type:text"                                      json:"description,omitempty"`
	Status         ApprovalStatus `gorm:"type:varchar(20);not null;default:'pending'"    json:"status"`
	StartTime      *string        `gorm:"type:time"                                      json:"start_time,omitempty"`
	EndTime        *string        `gorm:"type:time"                                      json:"end_time,omitempty"`
	AdminNote      *string        `gorm:"type:text"                                      json:"admin_note,omitempty"`
	ReviewedBy     *string        `gorm:"type:uuid"                                      json:"reviewed_by,omitempty"`
	ReviewedAt     *time.Time     `                                                      json:"reviewed_at,omitempty"`
	Timestamps

	User *User `gorm:"foreignKey:UserID;references:UserID" json:"user,omitempty"`
}

func (LeaveRequest) TableName() string { return "leave_requests" }
