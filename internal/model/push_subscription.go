package model

// PushSubscription 浏览器推送订阅；endpoint 全局唯一
type PushSubscription struct {
	PushSubscriptionID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"push_subscription_id"`
	UserID             string `gorm:"type:uuid;not null"                             json:"user_id"`
	Endpoint           string `gorm:"type:text;not null"                             json:"endpoint"`
	P256dh             string `gorm:"column:p256dh;type:text;not null"               json:"p256dh"`
	Auth               string `gorm:"type:text;not null"                             json:"auth"`
	Timestamps
}

func (PushSubscription) TableName() string { return "push_subscriptions" }
