package dto

// ── 排班 ──

// ScheduleEntry 周排班中的某一天；未启用的条目忽略
type ScheduleEntry struct {
	DayOfWeek int    `json:"day_of_week" binding:"required,min=1,max=7"`
	Active    bool   `json:"active"`
	StartTime string `json:"start_time"  binding:"omitempty,clock"`
	EndTime   string `json:"end_time"    binding:"omitempty,clock"`
}

// SubmitScheduleRequest 提交排班请求
type SubmitScheduleRequest struct {
	Entries []ScheduleEntry `json:"entries" binding:"required,min=1,max=7,dive"`
}

// ReviewRequest 审批请求，可附备注
type ReviewRequest struct {
	AdminNote *string `json:"admin_note" binding:"omitempty,max=500"`
}

// ScheduleGroupListRequest 排班组列表查询参数
type ScheduleGroupListRequest struct {
	PaginationRequest
	Status string `form:"status"  binding:"omitempty,oneof=pending approved rejected"`
	UserID string `form:"user_id" binding:"omitempty,uuid"`
}

// ScheduleEntryResponse 排班条目
type ScheduleEntryResponse struct {
	ID        string  `json:"id"`
	DayOfWeek int     `json:"day_of_week"`
	StartTime string  `json:"start_time"`
	EndTime   string  `json:"end_time"`
	Hours     float64 `json:"hours"`
}

// ScheduleGroupResponse 提交组及其排班条目
type ScheduleGroupResponse struct {
	SubmissionGroup string                  `json:"submission_group"`
	UserID          string                  `json:"user_id"`
	User            *UserBrief              `json:"user,omitempty"`
	Status          string                  `json:"status"`
	ValidFrom       string                  `json:"valid_from"`
	ValidUntil      string                  `json:"valid_until"`
	AdminNote       *string                 `json:"admin_note,omitempty"`
	TotalHours      float64                 `json:"total_hours"`
	Entries         []ScheduleEntryResponse `json:"entries"`
	SubmittedAt     string                  `json:"submitted_at"`
	UpdatedAt       string                  `json:"updated_at"`
}

// MyScheduleResponse 我的排班
type MyScheduleResponse struct {
	Current      *ScheduleGroupResponse  `json:"current,omitempty"`
	Pending      *ScheduleGroupResponse  `json:"pending,omitempty"`
	History      []ScheduleGroupResponse `json:"history"`
	MinimumHours float64                 `json:"minimum_hours"`
}
