package dto

// ── 认证响应 ──

// TokenResponse 令牌响应
type TokenResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	ExpiresIn    int          `json:"expires_in"` // 秒
	User         UserResponse `json:"user"`
}

// ── 用户 ──

// UserResponse 用户信息（不含凭据）
type UserResponse struct {
	ID              string      `json:"id"`
	Email           string      `json:"email"`
	FullName        string      `json:"full_name"`
	Role            string      `json:"role"`
	Coach           *CoachBrief `json:"coach,omitempty"`
	ProfilePhotoURL *string     `json:"profile_photo_url,omitempty"`
	CreatedAt       string      `json:"created_at"`
}

// UserBrief 管理列表中的用户简要信息
type UserBrief struct {
	ID       string `json:"id"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
}

// CoachBrief 辅导员简要信息
type CoachBrief struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ── 分页 ──

// PaginationRequest 分页请求参数
type PaginationRequest struct {
	Page     int `form:"page"      binding:"omitempty,min=1"`
	PageSize int `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// GetPage 默认 1
func (p *PaginationRequest) GetPage() int {
	if p.Page <= 0 {
		return 1
	}
	return p.Page
}

// GetPageSize 默认 20
func (p *PaginationRequest) GetPageSize() int {
	if p.PageSize <= 0 {
		return 20
	}
	return p.PageSize
}

// GetOffset 计算偏移量
func (p *PaginationRequest) GetOffset() int {
	return (p.GetPage() - 1) * p.GetPageSize()
}
