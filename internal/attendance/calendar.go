package attendance

import "time"

// DateLayout ISO 日期格式
const DateLayout = "2006-01-02"

// ISOWeekday 1=周一..7=周日
func ISOWeekday(t time.Time) int {
	wd := int(t.Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}

// MondayOf t 所在 ISO 周的周一 00:00（t 的时区）
func MondayOf(t time.Time) time.Time {
	y, m, d := t.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, t.Location())
	return day.AddDate(0, 0, -(ISOWeekday(t) - 1))
}

// DateOnly 将 t 的本地日期转为 UTC 零点，与 DATE 列扫描结果一致
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DateKey t 在自身时区下的 YYYY-MM-DD
func DateKey(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDate 解析 YYYY-MM-DD 日期
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, time.UTC)
}

// CoversDate day 是否位于 [from, until] 内，仅按日期比较
func CoversDate(from, until, day time.Time) bool {
	k := DateKey(day)
	return DateKey(from) <= k && k <= DateKey(until)
}
