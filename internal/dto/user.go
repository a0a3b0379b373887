package dto

// ── 用户 ──

// CreateUserRequest 管理员创建用户；Password 为空时生成临时密码
type CreateUserRequest struct {
	Email    string  `json:"email"     binding:"required,email,max=255"`
	FullName string  `json:"full_name" binding:"required,min=2,max=100"`
	Role     string  `json:"role"      binding:"required,oneof=student admin"`
	Password string  `json:"password"  binding:"omitempty,min=8,max=72"`
	CoachID  *string `json:"coach_id"  binding:"omitempty,uuid"`
}

// CreateUserResponse 创建用户响应
type CreateUserResponse struct {
	User         UserResponse `json:"user"`
	TempPassword string       `json:"temp_password,omitempty"`
}

// UserListRequest 用户列表查询参数
type UserListRequest struct {
	PaginationRequest
	Role    string `form:"role"     binding:"omitempty,oneof=student admin"`
	CoachID string `form:"coach_id" binding:"omitempty,uuid"`
	Keyword string `form:"keyword"  binding:"omitempty,max=50"`
}

// UpdateUserRequest nil 字段不修改；coach_id 为空字符串时清除辅导员
type UpdateUserRequest struct {
	FullName *string `json:"full_name" binding:"omitempty,min=2,max=100"`
	Email    *string `json:"email"     binding:"omitempty,email,max=255"`
	Role     *string `json:"role"      binding:"omitempty,oneof=student admin"`
	CoachID  *string `json:"coach_id"  binding:"omitempty,uuid"`
}

// UpdateProfileRequest 用户修改个人资料
type UpdateProfileRequest struct {
	FullName string `json:"full_name" binding:"required,min=2,max=100"`
}

// UpdatePhotoRequest 保存已上传头像的 URL
type UpdatePhotoRequest struct {
	ProfilePhotoURL string `json:"profile_photo_url" binding:"required,url,startswith=https://,max=500"`
}

// ResetPasswordResponse 重置密码响应
type ResetPasswordResponse struct {
	TempPassword string `json:"temp_password"`
}

// ImportUserResponse 批量导入汇总
type ImportUserResponse struct {
	Total   int               `json:"total"`
	Success int               `json:"success"`
	Failed  int               `json:"failed"`
	Created []ImportedUser    `json:"created,omitempty"`
	Errors  []ImportUserError `json:"errors,omitempty"`
}

// ImportedUser 已创建账号及其临时密码
type ImportedUser struct {
	Row          int    `json:"row"`
	Email        string `json:"email"`
	TempPassword string `json:"temp_password"`
}

// ImportUserError 导入失败行
type ImportUserError struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}
