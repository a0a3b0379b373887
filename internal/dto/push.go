package dto

// ── 推送 ──

// PushKeys 浏览器 PushSubscription.toJSON() 输出的密钥
type PushKeys struct {
	P256dh string `json:"p256dh" binding:"required"`
	Auth   string `json:"auth"   binding:"required"`
}

// SubscribeRequest 订阅请求
type SubscribeRequest struct {
	Endpoint string   `json:"endpoint" binding:"required,url,max=2048"`
	Keys     PushKeys `json:"keys"     binding:"required"`
}

// UnsubscribeRequest 取消订阅请求
type UnsubscribeRequest struct {
	Endpoint string `json:"endpoint" binding:"required"`
}

// VAPIDKeyResponse VAPID 公钥
type VAPIDKeyResponse struct {
	PublicKey string `json:"public_key"`
}

// NotificationRunResponse 单次调度执行汇总
type NotificationRunResponse struct {
	RanAt      string `json:"ran_at"`
	Candidates int    `json:"candidates"`
	Sent       int    `json:"sent"`
	Skipped    int    `json:"skipped"`
	Failed     int    `json:"failed"`
	Removed    int    `json:"removed_subscriptions"`
}
