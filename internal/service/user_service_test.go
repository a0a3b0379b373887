package service

import (
	"context"
	"errors"
	"testing"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"stagetrack/internal/dto"
	"stagetrack/internal/model"
)

func setupTestUserService() (UserService, *testRepos) {
	repos := newTestRepos()
	return NewUserService(repos.repository(), zap.NewNop()), repos
}

func TestCreateUser_GeneratesTempPassword(t *testing.T) {
	svc, repos := setupTestUserService()
	repos.coaches.coaches["coach-1"] = &model.Coach{CoachID: "coach-1", Name: "Marieke", Active: true}
	coach := "coach-1"

	resp, err := svc.CreateUser(context.Background(), &dto.CreateUserRequest{
		Email: "Daan@Example.nl", FullName: "Daan", Role: "student", CoachID: &coach,
	})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if len(resp.TempPassword) < 8 {
		t.Errorf("temp password %q too short", resp.TempPassword)
	}
	if resp.User.Email != "daan@example.nl" {
		t.Errorf("email = %q", resp.User.Email)
	}
	stored := repos.users.users[resp.User.ID]
	if stored.CoachID == nil || *stored.CoachID != "coach-1" {
		t.Errorf("coach not linked: %+v", stored.CoachID)
	}
}

func TestCreateUser_UnknownCoach(t *testing.T) {
	svc, _ := setupTestUserService()
	coach := "missing"
	_, err := svc.CreateUser(context.Background(), &dto.CreateUserRequest{
		Email: "a@example.nl", FullName: "A", Role: "student", Password: "wachtwoord1", CoachID: &coach,
	})
	if !errors.Is(err, ErrCoachNotFound) {
		t.Fatalf("expected ErrCoachNotFound, got %v", err)
	}
}

func TestUpdateAndDelete_SelfGuards(t *testing.T) {
	svc, repos := setupTestUserService()
	ctx := context.Background()
	admin := seedUser(t, repos, "admin@example.nl", "geheim123", model.RoleAdmin)

	role := "student"
	if _, err := svc.Update(ctx, admin.UserID, &dto.UpdateUserRequest{Role: &role}, admin.UserID); !errors.Is(err, ErrUserSelfRoleChange) {
		t.Errorf("expected ErrUserSelfRoleChange, got %v", err)
	}
	if err := svc.Delete(ctx, admin.UserID, admin.UserID); !errors.Is(err, ErrUserSelfDelete) {
		t.Errorf("expected ErrUserSelfDelete, got %v", err)
	}

	student := seedUser(t, repos, "student@example.nl", "geheim123", model.RoleStudent)
	email := "admin@example.nl"
	if _, err := svc.Update(ctx, student.UserID, &dto.UpdateUserRequest{Email: &email}, admin.UserID); !errors.Is(err, ErrEmailExists) {
		t.Errorf("expected ErrEmailExists, got %v", err)
	}
	if err := svc.Delete(ctx, student.UserID, admin.UserID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, ok := repos.users.users[student.UserID]; ok {
		t.Error("student still stored")
	}
}

func TestUpdatePhoto(t *testing.T) {
	svc, repos := setupTestUserService()
	u := seedUser(t, repos, "student@example.nl", "geheim123", model.RoleStudent)

	resp, err := svc.UpdatePhoto(context.Background(), u.UserID, &dto.UpdatePhotoRequest{ProfilePhotoURL: "https://cdn.example.nl/p.jpg"})
	if err != nil {
		t.Fatalf("UpdatePhoto: %v", err)
	}
	if resp.ProfilePhotoURL == nil || *resp.ProfilePhotoURL != "https://cdn.example.nl/p.jpg" {
		t.Errorf("photo = %v", resp.ProfilePhotoURL)
	}
}

func TestImport_FromSpreadsheet(t *testing.T) {
	svc, repos := setupTestUserService()
	seedUser(t, repos, "bestaat@example.nl", "geheim123", model.RoleStudent)

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	rows := [][]interface{}{
		{"Naam", "E-mail", "Rol"},
		{"Eva de Vries", "eva@example.nl", ""},
		{"Bram Jansen", "bram@example.nl", "admin"},
		{"Dubbel", "eva@example.nl", ""},
		{"Bestaat", "bestaat@example.nl", ""},
		{"Geen mail", "", ""},
		{"Rol fout", "rol@example.nl", "coach"},
	}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatalf("SetSheetRow: %v", err)
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("WriteToBuffer: %v", err)
	}

	parsed, err := svc.ParseImportFile(buf)
	if err != nil {
		t.Fatalf("ParseImportFile: %v", err)
	}
	if len(parsed) != 6 {
		t.Fatalf("parsed %d rows, want 6", len(parsed))
	}

	resp, err := svc.ImportUsers(context.Background(), parsed)
	if err != nil {
		t.Fatalf("ImportUsers: %v", err)
	}
	if resp.Success != 2 || resp.Failed != 4 {
		t.Errorf("success/failed = %d/%d, want 2/4 (%+v)", resp.Success, resp.Failed, resp.Errors)
	}
	if len(resp.Created) != 2 || resp.Created[0].TempPassword == "" {
		t.Errorf("created = %+v", resp.Created)
	}
	bram, err := repos.users.GetByEmail(context.Background(), "bram@example.nl")
	if err != nil || bram.Role != model.RoleAdmin {
		t.Errorf("bram = %+v, err %v", bram, err)
	}
}

func TestImport_BadHeader(t *testing.T) {
	svc, _ := setupTestUserService()

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	_ = f.SetCellValue(sheet, "A1", "voornaam")
	_ = f.SetCellValue(sheet, "A2", "Eva")
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("WriteToBuffer: %v", err)
	}

	if _, err := svc.ParseImportFile(buf); !errors.Is(err, ErrImportBadHeader) {
		t.Errorf("expected ErrImportBadHeader, got %v", err)
	}
}
