package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"stagetrack/internal/dto"
	"stagetrack/internal/model"
)

const (
	testLocationID = "loc-office"
	testQRCode     = "3f1c2a9e-qr"
)

func setupTestCheckInService(t *testing.T, civil string) (CheckInService, *testRepos) {
	t.Helper()
	repos := newTestRepos()
	repos.locations.locations[testLocationID] = &model.Location{
		LocationID: testLocationID,
		Name:       "Kantoor Utrecht",
		Latitude:   52.0907,
		Longitude:  5.1214,
		QRCode:     testQRCode,
	}
	svc := NewCheckInService(repos.repository(), testSettings(repos), fixedClock(t, civil), zap.NewNop())
	return svc, repos
}

// approvedShift 周四 10:00-17:00，有效期覆盖 2026-02-05
func approvedShift(userID string) model.Schedule {
	return model.Schedule{
		ScheduleID: "shift-" + userID, UserID: userID, DayOfWeek: 4,
		StartTime: "10:00:00", EndTime: "17:00:00", Status: model.StatusApproved,
		ValidFrom: date("2026-02-01"), ValidUntil: date("2026-03-15"), SubmissionGroup: "g-" + userID,
	}
}

func TestCheckIn_QRCode(t *testing.T) {
	svc, repos := setupTestCheckInService(t, "2026-02-05 09:50")
	repos.schedules.rows = append(repos.schedules.rows, approvedShift("u1"))

	resp, err := svc.CheckIn(context.Background(), "u1", &dto.CheckInRequest{
		LocationID: testLocationID,
		QRCode:     strPtr(testQRCode),
	})
	if err != nil {
		t.Fatalf("CheckIn: %v", err)
	}
	if resp.CheckIn.VerifiedBy != string(model.VerifiedByQR) {
		t.Errorf("verified_by = %s, want qr", resp.CheckIn.VerifiedBy)
	}
	if resp.CheckIn.ExpectedStart == nil || *resp.CheckIn.ExpectedStart != "10:00" {
		t.Errorf("expected_start = %v, want 10:00", resp.CheckIn.ExpectedStart)
	}
	if resp.CheckIn.LocationName != "Kantoor Utrecht" {
		t.Errorf("location name = %q", resp.CheckIn.LocationName)
	}
	if resp.Warning == nil || resp.Warning.Status != "before" || resp.Warning.Minutes != 10 {
		t.Errorf("warning = %+v, want 10 minutes early", resp.Warning)
	}
}

func TestCheckIn_DefaultStartWithoutShift(t *testing.T) {
	svc, _ := setupTestCheckInService(t, "2026-02-05 09:50")

	resp, err := svc.CheckIn(context.Background(), "u1", &dto.CheckInRequest{LocationID: testLocationID})
	if err != nil {
		t.Fatalf("CheckIn: %v", err)
	}
	if resp.CheckIn.ExpectedStart == nil || *resp.CheckIn.ExpectedStart != "10:00" {
		t.Errorf("expected_start = %v, want default 10:00", resp.CheckIn.ExpectedStart)
	}
	if resp.CheckIn.ExpectedEnd != nil {
		t.Errorf("expected_end = %v, want nil", *resp.CheckIn.ExpectedEnd)
	}
	if resp.CheckIn.VerifiedBy != string(model.VerifiedByNone) {
		t.Errorf("verified_by = %s, want none", resp.CheckIn.VerifiedBy)
	}
	if resp.Warning != nil {
		t.Errorf("unexpected warning %+v", resp.Warning)
	}
}

func TestCheckIn_WrongQRCode(t *testing.T) {
	svc, repos := setupTestCheckInService(t, "2026-02-05 09:50")

	_, err := svc.CheckIn(context.Background(), "u1", &dto.CheckInRequest{
		LocationID: testLocationID,
		QRCode:     strPtr("something-else"),
	})
	if !errors.Is(err, ErrInvalidQRCode) {
		t.Fatalf("expected ErrInvalidQRCode, got %v", err)
	}
	if len(repos.checkIns.rows) != 0 {
		t.Error("no check-in should be stored")
	}
}

func TestCheckIn_GPS(t *testing.T) {
	tests := []struct {
		name     string
		lat, lng float64
		wantErr  bool
	}{
		{"on site", 52.0910, 5.1220, false},
		{"amsterdam", 52.3676, 4.9041, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := setupTestCheckInService(t, "2026-02-05 09:50")
			lat, lng := tt.lat, tt.lng
			resp, err := svc.CheckIn(context.Background(), "u1", &dto.CheckInRequest{
				LocationID: testLocationID,
				Latitude:   &lat,
				Longitude:  &lng,
			})

			if tt.wantErr {
				var geoErr *GeofenceError
				if !errors.As(err, &geoErr) {
					t.Fatalf("expected GeofenceError, got %v", err)
				}
				if err.Error() != "Je bent te ver van de locatie (maximaal 500 meter)" {
					t.Errorf("message = %q", err.Error())
				}
				return
			}
			if err != nil {
				t.Fatalf("CheckIn: %v", err)
			}
			if resp.CheckIn.VerifiedBy != string(model.VerifiedByGPS) {
				t.Errorf("verified_by = %s, want gps", resp.CheckIn.VerifiedBy)
			}
		})
	}
}

func TestCheckIn_QRAndGPS(t *testing.T) {
	tests := []struct {
		name     string
		lat, lng float64
		wantErr  bool
	}{
		{"qr with on-site position", 52.0910, 5.1220, false},
		{"qr with far position", 52.3676, 4.9041, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repos := setupTestCheckInService(t, "2026-02-05 09:50")
			lat, lng := tt.lat, tt.lng
			resp, err := svc.CheckIn(context.Background(), "u1", &dto.CheckInRequest{
				LocationID: testLocationID,
				QRCode:     strPtr(testQRCode),
				Latitude:   &lat,
				Longitude:  &lng,
			})

			if tt.wantErr {
				var geoErr *GeofenceError
				if !errors.As(err, &geoErr) {
					t.Fatalf("expected GeofenceError, got %v", err)
				}
				if len(repos.checkIns.rows) != 0 {
					t.Error("no check-in should be stored")
				}
				return
			}
			if err != nil {
				t.Fatalf("CheckIn: %v", err)
			}
			if resp.CheckIn.VerifiedBy != string(model.VerifiedByQR) {
				t.Errorf("verified_by = %s, want qr", resp.CheckIn.VerifiedBy)
			}
		})
	}
}

func TestCheckIn_UnknownLocation(t *testing.T) {
	svc, _ := setupTestCheckInService(t, "2026-02-05 09:50")
	_, err := svc.CheckIn(context.Background(), "u1", &dto.CheckInRequest{LocationID: "nope"})
	if !errors.Is(err, ErrLocationNotFound) {
		t.Fatalf("expected ErrLocationNotFound, got %v", err)
	}
}

func TestCheckIn_SecondCheckInRejected(t *testing.T) {
	svc, repos := setupTestCheckInService(t, "2026-02-05 09:50")
	ctx := context.Background()
	req := &dto.CheckInRequest{LocationID: testLocationID, QRCode: strPtr(testQRCode)}

	if _, err := svc.CheckIn(ctx, "u1", req); err != nil {
		t.Fatalf("first CheckIn: %v", err)
	}
	_, err := svc.CheckIn(ctx, "u1", req)
	if !errors.Is(err, ErrAlreadyCheckedIn) {
		t.Fatalf("expected ErrAlreadyCheckedIn, got %v", err)
	}
	if len(repos.checkIns.rows) != 1 {
		t.Errorf("expected 1 row, got %d", len(repos.checkIns.rows))
	}
}

// racingCheckInRepo 预检查时看不到进行中的签到，模拟并发请求
type racingCheckInRepo struct {
	*mockCheckInRepo
}

func (r racingCheckInRepo) GetActive(context.Context, string) (*model.CheckIn, error) {
	return nil, gorm.ErrRecordNotFound
}

func TestCheckIn_ConstraintViolationMapsToAlreadyCheckedIn(t *testing.T) {
	repos := newTestRepos()
	repos.locations.locations[testLocationID] = &model.Location{LocationID: testLocationID, QRCode: testQRCode}
	repos.checkIns.rows["open"] = &model.CheckIn{CheckInID: "open", UserID: "u1", LocationID: testLocationID, CheckInTime: time.Now()}

	repo := repos.repository()
	repo.CheckIn = racingCheckInRepo{repos.checkIns}
	svc := NewCheckInService(repo, testSettings(repos), fixedClock(t, "2026-02-05 09:50"), zap.NewNop())

	_, err := svc.CheckIn(context.Background(), "u1", &dto.CheckInRequest{LocationID: testLocationID})
	if !errors.Is(err, ErrAlreadyCheckedIn) {
		t.Fatalf("expected ErrAlreadyCheckedIn, got %v", err)
	}
}

func TestCheckOut(t *testing.T) {
	svc, repos := setupTestCheckInService(t, "2026-02-05 17:30")
	start := time.Date(2026, 2, 5, 9, 0, 0, 0, amsterdam)
	repos.checkIns.rows["c1"] = &model.CheckIn{CheckInID: "c1", UserID: "u1", LocationID: testLocationID, CheckInTime: start}

	resp, err := svc.CheckOut(context.Background(), "u1")
	if err != nil {
		t.Fatalf("CheckOut: %v", err)
	}
	if resp.Hours != 8.5 {
		t.Errorf("hours = %v, want 8.5", resp.Hours)
	}
	if repos.checkIns.rows["c1"].CheckOutTime == nil {
		t.Error("check_out_time not stored")
	}
}

func TestCheckOut_WithoutActive(t *testing.T) {
	svc, _ := setupTestCheckInService(t, "2026-02-05 17:30")
	_, err := svc.CheckOut(context.Background(), "u1")
	if !errors.Is(err, ErrNoActiveCheckIn) {
		t.Fatalf("expected ErrNoActiveCheckIn, got %v", err)
	}
}

func TestScheduleStatus(t *testing.T) {
	svc, repos := setupTestCheckInService(t, "2026-02-05 12:00")
	repos.schedules.rows = append(repos.schedules.rows, approvedShift("u1"))

	status, err := svc.ScheduleStatus(context.Background(), "u1")
	if err != nil {
		t.Fatalf("ScheduleStatus: %v", err)
	}
	if !status.HasSchedule || status.StartTime != "10:00" || status.EndTime != "17:00" {
		t.Errorf("status = %+v", status)
	}
	if status.Check == nil || !status.Check.IsWithin {
		t.Errorf("check = %+v, want within", status.Check)
	}

	none, err := svc.ScheduleStatus(context.Background(), "u2")
	if err != nil {
		t.Fatalf("ScheduleStatus: %v", err)
	}
	if none.HasSchedule || none.Check != nil {
		t.Errorf("expected no schedule, got %+v", none)
	}
}

func TestHistory_DateRange(t *testing.T) {
	svc, repos := setupTestCheckInService(t, "2026-02-05 12:00")
	for i, day := range []int{2, 3, 4} {
		in := time.Date(2026, 2, day, 9, 0, 0, 0, amsterdam)
		out := in.Add(8 * time.Hour)
		id := string(rune('a' + i))
		repos.checkIns.rows[id] = &model.CheckIn{CheckInID: id, UserID: "u1", CheckInTime: in, CheckOutTime: &out}
	}

	records, total, err := svc.History(context.Background(), "u1", &dto.CheckInHistoryRequest{From: "2026-02-03", To: "2026-02-03"})
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if total != 1 || len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", total)
	}
	if records[0].Hours != 8 {
		t.Errorf("hours = %v, want 8", records[0].Hours)
	}
}
