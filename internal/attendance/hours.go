package attendance

import "time"

// ActualHours 已签退记录的工时，进行中的记为 0
func ActualHours(checkIn time.Time, checkOut *time.Time) float64 {
	if checkOut == nil {
		return 0
	}
	return hoursBetween(checkIn, *checkOut)
}

// ElapsedHours 进行中签到从 checkIn 到 now 的时长
func ElapsedHours(checkIn, now time.Time) float64 {
	return hoursBetween(checkIn, now)
}

func hoursBetween(from, to time.Time) float64 {
	return float64(to.Sub(from).Milliseconds()) / 3600000
}

// ScheduledHours 按 TIME 列计算的排班时长，不为负
// 格式错误时记为 0
func ScheduledHours(start, end string) float64 {
	sc, err := ParseClock(start)
	if err != nil {
		return 0
	}
	ec, err := ParseClock(end)
	if err != nil {
		return 0
	}
	h := ec.Hours() - sc.Hours()
	if h < 0 {
		return 0
	}
	return h
}

// Span 汇总计算使用的单条签到
type Span struct {
	UserID   string
	CheckIn  time.Time
	CheckOut *time.Time
}

// WeeklyActualHours 按用户汇总 check_in_time 位于 [from, now] 的已签退工时
func WeeklyActualHours(spans []Span, from, now time.Time) map[string]float64 {
	out := make(map[string]float64)
	for _, s := range spans {
		if s.CheckIn.Before(from) || s.CheckIn.After(now) {
			continue
		}
		out[s.UserID] += ActualHours(s.CheckIn, s.CheckOut)
	}
	return out
}

// Shift 汇总计算使用的已批准排班
type Shift struct {
	UserID     string
	DayOfWeek  int
	StartTime  string
	EndTime    string
	ValidFrom  time.Time
	ValidUntil time.Time
}

// Covers 排班有效期是否包含 day
func (s Shift) Covers(day time.Time) bool {
	return CoversDate(s.ValidFrom, s.ValidUntil, day)
}

// Hours 排班时长
func (s Shift) Hours() float64 {
	return ScheduledHours(s.StartTime, s.EndTime)
}

// ScheduledHoursByUser 按用户汇总今日有效排班的周计划工时
func ScheduledHoursByUser(shifts []Shift, today time.Time) map[string]float64 {
	out := make(map[string]float64)
	for _, s := range shifts {
		if !s.Covers(today) {
			continue
		}
		out[s.UserID] += s.Hours()
	}
	return out
}

// ScheduledHoursByDay 按 ISO 星期汇总今日有效排班的计划工时
func ScheduledHoursByDay(shifts []Shift, today time.Time) map[int]float64 {
	out := make(map[int]float64)
	for _, s := range shifts {
		if !s.Covers(today) {
			continue
		}
		out[s.DayOfWeek] += s.Hours()
	}
	return out
}
