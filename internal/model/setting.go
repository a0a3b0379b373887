package model

// Setting 管理员可编辑的键值配置
type Setting struct {
	Key       string  `gorm:"type:varchar(64);primaryKey" json:"key"`
	Value     string  `gorm:"type:varchar(255);not null"  json:"value"`
	UpdatedBy *string `gorm:"type:uuid"                   json:"updated_by,omitempty"`
	Timestamps
}

func (Setting) TableName() string { return "settings" }

// 已知配置键
const (
	SettingMinimumHoursPerWeek = "minimum_hours_per_week"
	SettingDefaultStartTime    = "default_start_time"
	SettingApprovalPeriodWeeks = "schedule_approval_period_weeks"
	SettingGeofenceRadius      = "geofence_radius_meters"
)
