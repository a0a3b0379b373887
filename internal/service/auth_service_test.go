package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"stagetrack/config"
	"stagetrack/internal/dto"
	"stagetrack/internal/model"
	"stagetrack/pkg/jwt"
)

type fakeTokenStore struct {
	revoked map[string]time.Duration
}

func (f *fakeTokenStore) BlacklistToken(_ context.Context, jti string, ttl time.Duration) error {
	f.revoked[jti] = ttl
	return nil
}

func (f *fakeTokenStore) IsBlacklisted(_ context.Context, jti string) (bool, error) {
	_, ok := f.revoked[jti]
	return ok, nil
}

func newTestJWT() *jwt.Manager {
	return jwt.NewManager(&config.AuthConfig{
		JWTSecret:       "test-secret-0123456789abcdef",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 24 * time.Hour,
	})
}

func setupTestAuthService() (AuthService, *testRepos, *fakeTokenStore, *jwt.Manager) {
	repos := newTestRepos()
	tokens := &fakeTokenStore{revoked: make(map[string]time.Duration)}
	mgr := newTestJWT()
	return NewAuthService(repos.repository(), mgr, tokens, zap.NewNop()), repos, tokens, mgr
}

func seedUser(t *testing.T, repos *testRepos, email, password string, role model.Role) *model.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	u := &model.User{Email: email, FullName: "Test " + string(role), PasswordHash: string(hash), Role: role}
	if err := repos.users.Create(context.Background(), u); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

func TestLogin(t *testing.T) {
	svc, repos, _, mgr := setupTestAuthService()
	seedUser(t, repos, "sanne@example.nl", "geheim123", model.RoleStudent)

	resp, err := svc.Login(context.Background(), &dto.LoginRequest{Email: "sanne@example.nl", Password: "geheim123"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	claims, err := mgr.ParseToken(resp.AccessToken)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if claims.Role != string(model.RoleStudent) || claims.TokenType != jwt.TokenTypeAccess {
		t.Errorf("claims = %+v", claims)
	}
	if resp.ExpiresIn != 900 {
		t.Errorf("expires_in = %d, want 900", resp.ExpiresIn)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, repos, _, _ := setupTestAuthService()
	seedUser(t, repos, "sanne@example.nl", "geheim123", model.RoleStudent)

	_, err := svc.Login(context.Background(), &dto.LoginRequest{Email: "sanne@example.nl", Password: "fout"})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
	_, err = svc.Login(context.Background(), &dto.LoginRequest{Email: "niemand@example.nl", Password: "geheim123"})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown email: expected ErrInvalidCredentials, got %v", err)
	}
}

func TestRegister(t *testing.T) {
	svc, repos, _, _ := setupTestAuthService()
	ctx := context.Background()

	resp, err := svc.Register(ctx, &dto.RegisterRequest{FullName: "Noor", Email: "Noor@Example.nl", Password: "wachtwoord1"})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if resp.User.Role != string(model.RoleStudent) || resp.User.Email != "noor@example.nl" {
		t.Errorf("user = %+v", resp.User)
	}

	_, err = svc.Register(ctx, &dto.RegisterRequest{FullName: "Noor", Email: "noor@example.nl", Password: "wachtwoord1"})
	if !errors.Is(err, ErrEmailExists) {
		t.Errorf("expected ErrEmailExists, got %v", err)
	}
	if len(repos.users.users) != 1 {
		t.Errorf("users = %d, want 1", len(repos.users.users))
	}
}

func TestRefresh_RotatesToken(t *testing.T) {
	svc, repos, tokens, _ := setupTestAuthService()
	seedUser(t, repos, "sanne@example.nl", "geheim123", model.RoleStudent)
	ctx := context.Background()

	login, err := svc.Login(ctx, &dto.LoginRequest{Email: "sanne@example.nl", Password: "geheim123"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	if _, err := svc.Refresh(ctx, login.RefreshToken); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if len(tokens.revoked) != 1 {
		t.Errorf("revoked = %d, want 1", len(tokens.revoked))
	}
	if _, err := svc.Refresh(ctx, login.RefreshToken); !errors.Is(err, ErrInvalidRefreshToken) {
		t.Errorf("reused refresh token: expected ErrInvalidRefreshToken, got %v", err)
	}
	if _, err := svc.Refresh(ctx, login.AccessToken); !errors.Is(err, ErrInvalidRefreshToken) {
		t.Errorf("access token as refresh: expected ErrInvalidRefreshToken, got %v", err)
	}
}

func TestLogout_RevokesBothTokens(t *testing.T) {
	svc, repos, tokens, mgr := setupTestAuthService()
	seedUser(t, repos, "sanne@example.nl", "geheim123", model.RoleStudent)
	ctx := context.Background()

	login, err := svc.Login(ctx, &dto.LoginRequest{Email: "sanne@example.nl", Password: "geheim123"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	access, err := mgr.ParseToken(login.AccessToken)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}

	if err := svc.Logout(ctx, access, login.RefreshToken); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if len(tokens.revoked) != 2 {
		t.Errorf("revoked = %d, want 2", len(tokens.revoked))
	}
}

func TestChangePassword(t *testing.T) {
	svc, repos, _, _ := setupTestAuthService()
	u := seedUser(t, repos, "sanne@example.nl", "geheim123", model.RoleStudent)
	ctx := context.Background()

	err := svc.ChangePassword(ctx, u.UserID, &dto.ChangePasswordRequest{OldPassword: "fout", NewPassword: "nieuw12345"})
	if !errors.Is(err, ErrWrongPassword) {
		t.Fatalf("expected ErrWrongPassword, got %v", err)
	}

	if err := svc.ChangePassword(ctx, u.UserID, &dto.ChangePasswordRequest{OldPassword: "geheim123", NewPassword: "nieuw12345"}); err != nil {
		t.Fatalf("ChangePassword: %v", err)
	}
	if _, err := svc.Login(ctx, &dto.LoginRequest{Email: "sanne@example.nl", Password: "nieuw12345"}); err != nil {
		t.Errorf("login with new password: %v", err)
	}
}
