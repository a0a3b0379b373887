package model

// Location 签到地点，含地理围栏中心点与二维码令牌
type Location struct {
	LocationID string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"location_id"`
	Name       string  `gorm:"type:varchar(100);not null"                     json:"name"`
	Address    *string `gorm:"type:varchar(255)"                              json:"address,omitempty"`
	Latitude   float64 `gorm:"not null"                                       json:"latitude"`
	Longitude  float64 `gorm:"not null"                                       json:"longitude"`
	QRCode     string  `gorm:"column:qr_code;type:varchar(64);not null"       json:"qr_code"`
	Timestamps
}

func (Location) TableName() string { return "locations" }
