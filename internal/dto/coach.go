package dto

// ── 辅导员 ──

// CreateCoachRequest 创建辅导员请求
type CreateCoachRequest struct {
	Name   string `json:"name"   binding:"required,min=2,max=100"`
	Active *bool  `json:"active"`
}

// UpdateCoachRequest 更新辅导员请求
type UpdateCoachRequest struct {
	Name   *string `json:"name"   binding:"omitempty,min=2,max=100"`
	Active *bool   `json:"active"`
}

// CoachResponse 辅导员信息
type CoachResponse struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Active       bool   `json:"active"`
	StudentCount int64  `json:"student_count"`
	CreatedAt    string `json:"created_at"`
}

// CoachStudentResponse 辅导学生及其本周进度
type CoachStudentResponse struct {
	ID             string  `json:"id"`
	FullName       string  `json:"full_name"`
	Email          string  `json:"email"`
	WeeklyHours    float64 `json:"weekly_hours"`
	ScheduledHours float64 `json:"scheduled_hours"`
	MinimumHours   float64 `json:"minimum_hours"`
	CheckedIn      bool    `json:"checked_in"`
}
