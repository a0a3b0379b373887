package dto

// ── 仪表盘 ──

// NextSession 下一次排班
type NextSession struct {
	Date      string `json:"date"`
	DayOfWeek int    `json:"day_of_week"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// StudentDashboardResponse 学生仪表盘
type StudentDashboardResponse struct {
	TodaySchedule   *ScheduleEntryResponse `json:"today_schedule,omitempty"`
	ActiveCheckIn   *CheckInRecord         `json:"active_check_in,omitempty"`
	WeeklyHours     float64                `json:"weekly_hours"`
	InProgressHours float64                `json:"in_progress_hours"`
	MinimumHours    float64                `json:"minimum_hours"`
	NextSession     *NextSession           `json:"next_session,omitempty"`
	RecentCheckIns  []CheckInRecord        `json:"recent_check_ins"`
	PendingLeave    int64                  `json:"pending_leave"`
	UpcomingLeave   []LeaveResponse        `json:"upcoming_leave"`
}

// AdminCounts 管理端统计数
type AdminCounts struct {
	Students         int64 `json:"students"`
	PendingSchedules int64 `json:"pending_schedules"`
	PendingLeave     int64 `json:"pending_leave"`
	Locations        int64 `json:"locations"`
	ActiveCheckIns   int64 `json:"active_check_ins"`
	ActiveCoaches    int64 `json:"active_coaches"`
	ScheduledToday   int64 `json:"scheduled_today"`
}

// StudentWeekOverview 本周实际与计划工时对比
type StudentWeekOverview struct {
	UserID         string  `json:"user_id"`
	FullName       string  `json:"full_name"`
	CoachName      string  `json:"coach_name,omitempty"`
	ActualHours    float64 `json:"actual_hours"`
	ScheduledHours float64 `json:"scheduled_hours"`
	MinimumHours   float64 `json:"minimum_hours"`
	CheckedIn      bool    `json:"checked_in"`
}

// AdminDashboardResponse 管理员仪表盘
type AdminDashboardResponse struct {
	Counts   AdminCounts           `json:"counts"`
	Students []StudentWeekOverview `json:"students"`
}
