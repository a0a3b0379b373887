package dto

// ── 请假 ──

// SubmitLeaveRequest 部分时段请假时 start/end 需同时提供
type SubmitLeaveRequest struct {
	Date        string  `json:"date"        binding:"required,isodate"`
	Reason      string  `json:"reason"      binding:"required,oneof=sick late appointment"`
	Description *string `json:"description" binding:"omitempty,max=1000"`
	StartTime   *string `json:"start_time"  binding:"omitempty,clock"`
	EndTime     *string `json:"end_time"    binding:"omitempty,clock"`
}

// LeaveListRequest 请假列表查询参数
type LeaveListRequest struct {
	PaginationRequest
	Status string `form:"status"  binding:"omitempty,oneof=pending approved rejected"`
	UserID string `form:"user_id" binding:"omitempty,uuid"`
}

// LeaveResponse 请假信息
type LeaveResponse struct {
	ID          string     `json:"id"`
	UserID      string     `json:"user_id"`
	User        *UserBrief `json:"user,omitempty"`
	Date        string     `json:"date"`
	Reason      string     `json:"reason"`
	Description *string    `json:"description,omitempty"`
	Status      string     `json:"status"`
	StartTime   *string    `json:"start_time,omitempty"`
	EndTime     *string    `json:"end_time,omitempty"`
	AdminNote   *string    `json:"admin_note,omitempty"`
	ReviewedBy  *string    `json:"reviewed_by,omitempty"`
	ReviewedAt  *string    `json:"reviewed_at,omitempty"`
	CreatedAt   string     `json:"created_at"`
}
