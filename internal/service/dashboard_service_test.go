package service

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"stagetrack/internal/model"
)

func setupTestDashboardService(t *testing.T, civil string) (DashboardService, *testRepos) {
	t.Helper()
	repos := newTestRepos()
	return NewDashboardService(repos.repository(), testSettings(repos), fixedClock(t, civil), zap.NewNop()), repos
}

func TestStudentDashboard(t *testing.T) {
	svc, repos := setupTestDashboardService(t, "2026-02-05 09:30")
	repos.schedules.rows = append(repos.schedules.rows, approvedShift("u1"))

	out := localTime(t, "2026-02-03 15:00")
	repos.checkIns.rows["c1"] = &model.CheckIn{CheckInID: "c1", UserID: "u1", LocationID: "loc-1", CheckInTime: localTime(t, "2026-02-03 09:00"), CheckOutTime: &out}
	repos.checkIns.rows["c2"] = &model.CheckIn{CheckInID: "c2", UserID: "u1", LocationID: "loc-1", CheckInTime: localTime(t, "2026-02-05 08:00")}
	repos.leave.rows["l1"] = &model.LeaveRequest{LeaveRequestID: "l1", UserID: "u1", Date: date("2026-02-12"), Reason: model.LeaveSick, Status: model.StatusPending}

	resp, err := svc.Student(context.Background(), "u1")
	if err != nil {
		t.Fatalf("Student: %v", err)
	}
	if resp.WeeklyHours != 6 {
		t.Errorf("weekly hours = %v, want 6", resp.WeeklyHours)
	}
	if resp.ActiveCheckIn == nil || resp.InProgressHours != 1.5 {
		t.Errorf("active = %v, in progress = %v", resp.ActiveCheckIn, resp.InProgressHours)
	}
	if resp.TodaySchedule == nil || resp.TodaySchedule.StartTime != "10:00" {
		t.Errorf("today schedule = %+v", resp.TodaySchedule)
	}
	if resp.NextSession == nil || resp.NextSession.Date != "2026-02-05" {
		t.Errorf("next session = %+v", resp.NextSession)
	}
	if len(resp.RecentCheckIns) != 2 || resp.PendingLeave != 1 || len(resp.UpcomingLeave) != 1 {
		t.Errorf("recent %d, pending %d, upcoming %d", len(resp.RecentCheckIns), resp.PendingLeave, len(resp.UpcomingLeave))
	}
}

func TestNextSession(t *testing.T) {
	rows := []model.Schedule{approvedShift("u1")}
	rows = append(rows, model.Schedule{
		UserID: "u1", DayOfWeek: 2, StartTime: "09:00:00", EndTime: "12:00:00", Status: model.StatusApproved,
		ValidFrom: date("2026-02-01"), ValidUntil: date("2026-03-15"),
	})

	tests := []struct {
		name  string
		civil string
		want  string
	}{
		{"monday picks tuesday", "2026-02-02 12:00", "2026-02-03"},
		{"thursday before start", "2026-02-05 09:59", "2026-02-05"},
		{"thursday after start", "2026-02-05 10:00", ""},
		{"after validity", "2026-03-19 08:00", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := nextSession(rows, localTime(t, tt.civil))
			switch {
			case tt.want == "" && got != nil:
				t.Errorf("got %+v, want none", got)
			case tt.want != "" && (got == nil || got.Date != tt.want):
				t.Errorf("got %+v, want %s", got, tt.want)
			}
		})
	}
}

func TestAdminDashboard(t *testing.T) {
	svc, repos := setupTestDashboardService(t, "2026-02-05 12:00")
	repos.users.users["u1"] = &model.User{UserID: "u1", FullName: "Anna", Role: model.RoleStudent}
	repos.users.users["u2"] = &model.User{UserID: "u2", FullName: "Bram", Role: model.RoleStudent}
	repos.users.users["a1"] = &model.User{UserID: "a1", FullName: "Admin", Role: model.RoleAdmin}
	repos.locations.locations["loc-1"] = &model.Location{LocationID: "loc-1", Name: "Kantoor"}
	repos.schedules.rows = append(repos.schedules.rows, approvedShift("u1"), model.Schedule{
		ScheduleID: "p1", UserID: "u2", DayOfWeek: 1, StartTime: "09:00:00", EndTime: "17:00:00",
		Status: model.StatusPending, ValidFrom: date("2026-02-09"), ValidUntil: date("2026-03-22"), SubmissionGroup: "g-p",
	})
	repos.checkIns.rows["c1"] = &model.CheckIn{CheckInID: "c1", UserID: "u1", LocationID: "loc-1", CheckInTime: localTime(t, "2026-02-05 10:00")}

	resp, err := svc.Admin(context.Background())
	if err != nil {
		t.Fatalf("Admin: %v", err)
	}
	c := resp.Counts
	if c.Students != 2 || c.PendingSchedules != 1 || c.Locations != 1 || c.ActiveCheckIns != 1 || c.ScheduledToday != 1 {
		t.Errorf("counts = %+v", c)
	}
	if len(resp.Students) != 2 || !resp.Students[0].CheckedIn || resp.Students[0].ScheduledHours != 7 {
		t.Errorf("students = %+v", resp.Students)
	}
}
