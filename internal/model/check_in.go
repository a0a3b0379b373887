package model

import "time"

// CheckIn 出勤记录；CheckOutTime 为 nil 时表示进行中
type CheckIn struct {
	CheckInID     string             `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"check_in_id"`
	UserID        string             `gorm:"type:uuid;not null"                             json:"user_id"`
	LocationID    string             `gorm:"type:uuid;not null"                             json:"location_id"`
	CheckInTime   time.Time          `gorm:"not null"                                       json:"check_in_time"`
	CheckOutTime  *time.Time         `                                                      json:"check_out_time,omitempty"`
	ExpectedStart *string            `gorm:"type:time"                                      json:"expected_start,omitempty"`
	ExpectedEnd   *string            `gorm:"type:time"                                      json:"expected_end,omitempty"`
	VerifiedBy    VerificationMethod `gorm:"type:varchar(10);not null;default:'none'"       json:"verified_by"`
	Timestamps

	User     *User     `gorm:"foreignKey:UserID;references:UserID"         json:"user,omitempty"`
	Location *Location `gorm:"foreignKey:LocationID;references:LocationID" json:"location,omitempty"`
}

func (CheckIn) TableName() string { return "check_ins" }

// Active 是否尚未签退
func (c *CheckIn) Active() bool { return c.CheckOutTime == nil }
