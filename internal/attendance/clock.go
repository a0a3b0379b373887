package attendance

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidClock 不是 HH:MM 或 HH:MM:SS 格式
var ErrInvalidClock = errors.New("invalid time of day")

// Clock 一天中的时刻，精确到分钟
type Clock struct {
	Hour   int
	Minute int
}

// ParseClock 接受 "HH:MM"、"HH:MM:SS" 及 Postgres TIME 列返回的 "HH:MM:SS.ffffff"
// 秒数仅做校验后丢弃
func ParseClock(s string) (Clock, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return Clock{}, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}

	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 || len(parts[0]) != 2 {
		return Clock{}, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 || len(parts[1]) != 2 {
		return Clock{}, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}

	if len(parts) == 3 {
		whole, _, _ := strings.Cut(parts[2], ".")
		sec, err := strconv.Atoi(whole)
		if err != nil || sec < 0 || sec > 59 || len(whole) != 2 {
			return Clock{}, fmt.Errorf("%w: %q", ErrInvalidClock, s)
		}
	}

	return Clock{Hour: h, Minute: m}, nil
}

// MinuteOfDay 距零点的分钟数
func (c Clock) MinuteOfDay() int {
	return c.Hour*60 + c.Minute
}

// Hours 小时 + 分钟/60
func (c Clock) Hours() float64 {
	return float64(c.Hour) + float64(c.Minute)/60
}

// On 将时刻放到 day 的日期与时区上，秒数为 0
func (c Clock) On(day time.Time) time.Time {
	y, mo, d := day.Date()
	return time.Date(y, mo, d, c.Hour, c.Minute, 0, 0, day.Location())
}

// String 格式化为 HH:MM
func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// DBString 写入 TIME 列的 HH:MM:00 格式
func (c Clock) DBString() string {
	return fmt.Sprintf("%02d:%02d:00", c.Hour, c.Minute)
}

// FormatClock 将 TIME 列格式化为 HH:MM，无法解析时原样返回
func FormatClock(s string) string {
	c, err := ParseClock(s)
	if err != nil {
		return s
	}
	return c.String()
}
