package dto

// ── 签到 ──

// CheckInRequest 通过二维码或 GPS 坐标证明到场
type CheckInRequest struct {
	LocationID string   `json:"location_id" binding:"required,uuid"`
	QRCode     *string  `json:"qr_code"     binding:"omitempty,max=64"`
	Latitude   *float64 `json:"latitude"    binding:"omitempty,min=-90,max=90"`
	Longitude  *float64 `json:"longitude"   binding:"omitempty,min=-180,max=180"`
}

// ScheduleTimeResponse 排班时段的软提示
type ScheduleTimeResponse struct {
	IsWithin bool   `json:"is_within"`
	Status   string `json:"status"`
	Minutes  int    `json:"minutes"`
	Message  string `json:"message"`
}

// CheckInRecord 签到记录
type CheckInRecord struct {
	ID            string     `json:"id"`
	UserID        string     `json:"user_id"`
	User          *UserBrief `json:"user,omitempty"`
	LocationID    string     `json:"location_id"`
	LocationName  string     `json:"location_name,omitempty"`
	CheckInTime   string     `json:"check_in_time"`
	CheckOutTime  *string    `json:"check_out_time,omitempty"`
	ExpectedStart *string    `json:"expected_start,omitempty"`
	ExpectedEnd   *string    `json:"expected_end,omitempty"`
	VerifiedBy    string     `json:"verified_by"`
	Hours         float64    `json:"hours"`
}

// CheckInResponse 签到响应
type CheckInResponse struct {
	CheckIn CheckInRecord         `json:"check_in"`
	Warning *ScheduleTimeResponse `json:"warning,omitempty"`
}

// CheckOutResponse 签退响应
type CheckOutResponse struct {
	CheckIn CheckInRecord `json:"check_in"`
	Hours   float64       `json:"hours"`
}

// ScheduleStatusResponse 今日排班及学生当前状态
type ScheduleStatusResponse struct {
	HasSchedule   bool                  `json:"has_schedule"`
	StartTime     string                `json:"start_time,omitempty"`
	EndTime       string                `json:"end_time,omitempty"`
	Check         *ScheduleTimeResponse `json:"check,omitempty"`
	ActiveCheckIn *CheckInRecord        `json:"active_check_in,omitempty"`
}

// CheckInHistoryRequest 签到历史查询参数
type CheckInHistoryRequest struct {
	PaginationRequest
	From string `form:"from" binding:"omitempty,isodate"`
	To   string `form:"to"   binding:"omitempty,isodate"`
}

// AdminCheckInListRequest 管理端签到列表查询参数
type AdminCheckInListRequest struct {
	PaginationRequest
	UserID     string `form:"user_id"     binding:"omitempty,uuid"`
	LocationID string `form:"location_id" binding:"omitempty,uuid"`
	Date       string `form:"date"        binding:"omitempty,isodate"`
	ActiveOnly bool   `form:"active_only"`
}
