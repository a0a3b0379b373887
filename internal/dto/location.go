package dto

// ── 地点 ──

// CreateLocationRequest 未提供坐标时根据 Address 解析
type CreateLocationRequest struct {
	Name      string   `json:"name"      binding:"required,min=2,max=100"`
	Address   *string  `json:"address"   binding:"omitempty,max=255"`
	Latitude  *float64 `json:"latitude"  binding:"omitempty,min=-90,max=90"`
	Longitude *float64 `json:"longitude" binding:"omitempty,min=-180,max=180"`
}

// UpdateLocationRequest 更新地点请求
type UpdateLocationRequest struct {
	Name      *string  `json:"name"      binding:"omitempty,min=2,max=100"`
	Address   *string  `json:"address"   binding:"omitempty,max=255"`
	Latitude  *float64 `json:"latitude"  binding:"omitempty,min=-90,max=90"`
	Longitude *float64 `json:"longitude" binding:"omitempty,min=-180,max=180"`
}

// GeocodeRequest 地址解析请求
type GeocodeRequest struct {
	Address string `form:"address" binding:"required,min=3,max=255"`
}

// GeocodeResponse 地址解析结果
type GeocodeResponse struct {
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	DisplayName string  `json:"display_name"`
}

// LocationResponse 仅管理员可见 QRCode
type LocationResponse struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Address   *string `json:"address,omitempty"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	QRCode    string  `json:"qr_code,omitempty"`
	CreatedAt string  `json:"created_at"`
	UpdatedAt string  `json:"updated_at"`
}
