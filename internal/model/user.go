package model

// User 账号（学生与管理员）
type User struct {
	UserID          string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"user_id"`
	Email           string  `gorm:"type:varchar(255);not null"                     json:"email"`
	FullName        string  `gorm:"type:varchar(100);not null"                     json:"full_name"`
	PasswordHash    string  `gorm:"type:varchar(255);not null"                     json:"-"`
	Role            Role    `gorm:"type:varchar(20);not null;default:'student'"    json:"role"`
	CoachID         *string `gorm:"type:uuid"                                      json:"coach_id,omitempty"`
	ProfilePhotoURL *string `gorm:"type:varchar(500)"                              json:"profile_photo_url,omitempty"`
	Timestamps

	Coach *Coach `gorm:"foreignKey:CoachID;references:CoachID" json:"coach,omitempty"`
}

func (User) TableName() string { return "users" }
