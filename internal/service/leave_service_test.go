package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"stagetrack/internal/dto"
	"stagetrack/internal/model"
)

func setupTestLeaveService(t *testing.T, civil string) (LeaveService, *testRepos) {
	t.Helper()
	repos := newTestRepos()
	return NewLeaveService(repos.repository(), fixedClock(t, civil), zap.NewNop()), repos
}

func TestSubmitLeave_DateRules(t *testing.T) {
	tests := []struct {
		name string
		date string
		want error
	}{
		{"yesterday", "2026-02-04", ErrLeaveDateInPast},
		{"today", "2026-02-05", nil},
		{"next week", "2026-02-12", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// 阿姆斯特丹 00:30 在 UTC 仍是前一天
			svc, repos := setupTestLeaveService(t, "2026-02-05 00:30")
			_, err := svc.Submit(context.Background(), "u1", &dto.SubmitLeaveRequest{Date: tt.date, Reason: "sick"})
			if !errors.Is(err, tt.want) {
				t.Fatalf("got %v, want %v", err, tt.want)
			}
			if tt.want != nil && len(repos.leave.rows) != 0 {
				t.Error("rejected request must not be stored")
			}
		})
	}
}

func TestSubmitLeave_PartialDay(t *testing.T) {
	tests := []struct {
		name       string
		start, end *string
		want       error
	}{
		{"whole day", nil, nil, nil},
		{"valid window", strPtr("09:00"), strPtr("11:30"), nil},
		{"end before start", strPtr("11:00"), strPtr("09:00"), ErrEndBeforeStart},
		{"end equals start", strPtr("11:00"), strPtr("11:00"), ErrEndBeforeStart},
		{"only start", strPtr("09:00"), nil, ErrLeaveTimesIncomplete},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := setupTestLeaveService(t, "2026-02-05 12:00")
			resp, err := svc.Submit(context.Background(), "u1", &dto.SubmitLeaveRequest{
				Date: "2026-02-06", Reason: "appointment", StartTime: tt.start, EndTime: tt.end,
			})
			if !errors.Is(err, tt.want) {
				t.Fatalf("got %v, want %v", err, tt.want)
			}
			if err == nil && tt.start != nil && (resp.StartTime == nil || *resp.StartTime != *tt.start) {
				t.Errorf("start_time = %v, want %s", resp.StartTime, *tt.start)
			}
		})
	}
}

func TestReviewLeave(t *testing.T) {
	svc, repos := setupTestLeaveService(t, "2026-02-05 12:00")
	ctx := context.Background()

	created, err := svc.Submit(ctx, "u1", &dto.SubmitLeaveRequest{Date: "2026-02-06", Reason: "late"})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	approved, err := svc.Approve(ctx, created.ID, &dto.ReviewRequest{AdminNote: strPtr("beterschap")}, "admin-1")
	if err != nil {
		t.Fatalf("Approve: %v", err)
	}
	if approved.Status != string(model.StatusApproved) {
		t.Errorf("status = %s", approved.Status)
	}
	if approved.ReviewedBy == nil || *approved.ReviewedBy != "admin-1" || approved.ReviewedAt == nil {
		t.Errorf("reviewer not recorded: %+v", approved)
	}
	if repos.leave.rows[created.ID].Status != model.StatusApproved {
		t.Error("status not persisted")
	}

	if _, err := svc.Reject(ctx, created.ID, &dto.ReviewRequest{}, "admin-1"); !errors.Is(err, ErrLeaveAlreadyReviewed) {
		t.Errorf("expected ErrLeaveAlreadyReviewed, got %v", err)
	}
	if _, err := svc.Approve(ctx, "missing", &dto.ReviewRequest{}, "admin-1"); !errors.Is(err, ErrLeaveNotFound) {
		t.Errorf("expected ErrLeaveNotFound, got %v", err)
	}
}
