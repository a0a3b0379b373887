package dto

// ── 系统设置 ──

// SettingResponse 生效值；使用默认值时 UpdatedAt 为 nil
type SettingResponse struct {
	Key       string  `json:"key"`
	Value     string  `json:"value"`
	Default   string  `json:"default"`
	UpdatedAt *string `json:"updated_at,omitempty"`
}

// UpdateSettingRequest 更新设置请求
type UpdateSettingRequest struct {
	Value string `json:"value" binding:"required,max=255"`
}
