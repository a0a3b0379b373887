package attendance

import (
	"fmt"
	"math"
	"time"
)

// TimeStatus 当前时间相对排班时段的位置
type TimeStatus string

const (
	TimeBefore TimeStatus = "before"
	TimeWithin TimeStatus = "within"
	TimeAfter  TimeStatus = "after"
)

// ScheduleTimeCheck 签到前的软提示，不阻止签到
type ScheduleTimeCheck struct {
	IsWithin bool       `json:"is_within"`
	Status   TimeStatus `json:"status"`
	Minutes  int        `json:"minutes"`
	Message  string     `json:"message"`
}

// CheckScheduleTime 比较 now 与今日排班起止时间
// 起止时间按 now 的日期与时区计算，秒数归零
func CheckScheduleTime(now time.Time, start, end string) (ScheduleTimeCheck, error) {
	sc, err := ParseClock(start)
	if err != nil {
		return ScheduleTimeCheck{}, err
	}
	ec, err := ParseClock(end)
	if err != nil {
		return ScheduleTimeCheck{}, err
	}

	startAt := sc.On(now)
	endAt := ec.On(now)

	switch {
	case now.Before(startAt):
		mins := int(math.Round(startAt.Sub(now).Minutes()))
		return ScheduleTimeCheck{
			Status:  TimeBefore,
			Minutes: mins,
			Message: fmt.Sprintf("Je bent %d minuten te vroeg. Rooster start om %s", mins, sc),
		}, nil
	case now.After(endAt):
		mins := int(math.Round(now.Sub(endAt).Minutes()))
		return ScheduleTimeCheck{
			Status:  TimeAfter,
			Minutes: mins,
			Message: fmt.Sprintf("Je bent %d minuten te laat. Rooster eindigde om %s", mins, ec),
		}, nil
	default:
		return ScheduleTimeCheck{
			IsWithin: true,
			Status:   TimeWithin,
			Message:  "Je bent op tijd volgens je rooster",
		}, nil
	}
}
