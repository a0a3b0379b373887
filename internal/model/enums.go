package model

// Role 账号角色
type Role string

const (
	RoleStudent Role = "student"
	RoleAdmin   Role = "admin"
)

// Valid 判断是否为已知角色
func (r Role) Valid() bool {
	return r == RoleStudent || r == RoleAdmin
}

// ApprovalStatus 排班提交组与请假申请共用的审批状态
// 仅 pending 为非终态
type ApprovalStatus string

const (
	StatusPending  ApprovalStatus = "pending"
	StatusApproved ApprovalStatus = "approved"
	StatusRejected ApprovalStatus = "rejected"
	// StatusSuperseded 仅用于排班组：已批准，但在生效当天被新组取代
	StatusSuperseded ApprovalStatus = "superseded"
)

// LeaveReason 请假原因
type LeaveReason string

const (
	LeaveSick        LeaveReason = "sick"
	LeaveLate        LeaveReason = "late"
	LeaveAppointment LeaveReason = "appointment"
)

// VerificationMethod 签到的到场验证方式
type VerificationMethod string

const (
	VerifiedByQR   VerificationMethod = "qr"
	VerifiedByGPS  VerificationMethod = "gps"
	VerifiedByNone VerificationMethod = "none"
)
