package model

// Coach 由 users.coach_id 引用，不是登录账号
type Coach struct {
	CoachID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"coach_id"`
	Name    string `gorm:"type:varchar(100);not null"                     json:"name"`
	Active  bool   `gorm:"not null;default:true"                          json:"active"`
	Timestamps
}

func (Coach) TableName() string { return "coaches" }
