package attendance

import (
	"strings"
	"testing"
	"time"
)

func amsterdam(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Europe/Amsterdam")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	return loc
}

func TestCheckScheduleTime(t *testing.T) {
	loc := amsterdam(t)
	day := func(h, m int) time.Time { return time.Date(2025, 3, 12, h, m, 0, 0, loc) }

	cases := []struct {
		name     string
		now      time.Time
		within   bool
		status   TimeStatus
		contains []string
	}{
		{"early", day(9, 40), false, TimeBefore, []string{"20", "10:00"}},
		{"at start", day(10, 0), true, TimeWithin, []string{"op tijd"}},
		{"middle", day(13, 0), true, TimeWithin, nil},
		{"at end", day(16, 0), true, TimeWithin, nil},
		{"late", day(16, 1), false, TimeAfter, []string{"1 minuten te laat", "16:00"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res, err := CheckScheduleTime(tc.now, "10:00:00", "16:00:00")
			if err != nil {
				t.Fatalf("CheckScheduleTime: %v", err)
			}
			if res.IsWithin != tc.within {
				t.Errorf("expected within=%v, got %v", tc.within, res.IsWithin)
			}
			if res.Status != tc.status {
				t.Errorf("expected status %s, got %s", tc.status, res.Status)
			}
			for _, want := range tc.contains {
				if !strings.Contains(res.Message, want) {
					t.Errorf("message %q should contain %q", res.Message, want)
				}
			}
		})
	}
}

func TestCheckScheduleTime_EarlyMinutes(t *testing.T) {
	now := time.Date(2025, 3, 12, 9, 40, 0, 0, amsterdam(t))
	res, _ := CheckScheduleTime(now, "10:00:00", "16:00:00")
	if res.Minutes != 20 {
		t.Errorf("expected 20 minutes early, got %d", res.Minutes)
	}
}

func TestCheckScheduleTime_BadInput(t *testing.T) {
	if _, err := CheckScheduleTime(time.Now(), "25:00", "16:00"); err == nil {
		t.Error("expected error for invalid start")
	}
}

func TestParseClock(t *testing.T) {
	ok := map[string]Clock{
		"09:00":           {9, 0},
		"17:30:00":        {17, 30},
		"08:15:42.000000": {8, 15},
	}
	for in, want := range ok {
		got, err := ParseClock(in)
		if err != nil {
			t.Errorf("ParseClock(%q): %v", in, err)
			continue
		}
		if got != want {
			t.Errorf("ParseClock(%q) = %+v, want %+v", in, got, want)
		}
	}

	for _, in := range []string{"", "9:00", "24:00", "12:60", "12", "ab:cd", "12:00:00:00"} {
		if _, err := ParseClock(in); err == nil {
			t.Errorf("ParseClock(%q) should fail", in)
		}
	}
}

func TestFormatClock(t *testing.T) {
	if got := FormatClock("09:05:00"); got != "09:05" {
		t.Errorf("expected 09:05, got %s", got)
	}
	if got := FormatClock("garbage"); got != "garbage" {
		t.Errorf("expected passthrough, got %s", got)
	}
}

func TestCheckScheduleTime_IgnoresShiftSeconds(t *testing.T) {
	now := time.Date(2025, 3, 12, 10, 0, 15, 0, amsterdam(t))
	res, err := CheckScheduleTime(now, "10:00:30", "16:00:00")
	if err != nil {
		t.Fatalf("CheckScheduleTime: %v", err)
	}
	if !res.IsWithin {
		t.Errorf("10:00:15 should be within a shift starting 10:00:30, got %+v", res)
	}
}

func TestParseClock_MinutePrecision(t *testing.T) {
	c, err := ParseClock("10:00:30")
	if err != nil {
		t.Fatalf("ParseClock: %v", err)
	}
	if got := c.DBString(); got != "10:00:00" {
		t.Errorf("DBString = %q, want 10:00:00", got)
	}
	if _, err := ParseClock("10:00:61"); err == nil {
		t.Error("expected error for invalid seconds")
	}
}
