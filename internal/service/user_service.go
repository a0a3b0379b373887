package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"math/big"
	"net/mail"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"stagetrack/internal/dto"
	"stagetrack/internal/model"
	"stagetrack/internal/repository"
	pkgerrors "stagetrack/pkg/errors"
)

// ── 用户错误定义 ──

var (
	ErrUserSelfRoleChange = errors.New("Je kunt je eigen rol niet wijzigen")
	ErrUserSelfDelete     = errors.New("Je kunt je eigen account niet verwijderen")
)

// UserService 账号管理与个人资料
type UserService interface {
	CreateUser(ctx context.Context, req *dto.CreateUserRequest) (*dto.CreateUserResponse, error)
	GetByID(ctx context.Context, id string) (*dto.UserResponse, error)
	List(ctx context.Context, req *dto.UserListRequest) ([]dto.UserResponse, int64, error)
	Update(ctx context.Context, id string, req *dto.UpdateUserRequest, callerID string) (*dto.UserResponse, error)
	Delete(ctx context.Context, id string, callerID string) error
	ResetPassword(ctx context.Context, id string) (*dto.ResetPasswordResponse, error)
	ParseImportFile(reader io.Reader) ([]ImportUserRow, error)
	ImportUsers(ctx context.Context, rows []ImportUserRow) (*dto.ImportUserResponse, error)

	UpdateProfile(ctx context.Context, userID string, req *dto.UpdateProfileRequest) (*dto.UserResponse, error)
	UpdatePhoto(ctx context.Context, userID string, req *dto.UpdatePhotoRequest) (*dto.UserResponse, error)
}

// ImportUserRow 解析后的表格行
type ImportUserRow struct {
	Row      int
	FullName string
	Email    string
	Role     string
}

type userService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewUserService 创建 UserService 实例
func NewUserService(repo *repository.Repository, logger *zap.Logger) UserService {
	return &userService{repo: repo, logger: logger}
}

// ────────────────────── CreateUser ──────────────────────

func (s *userService) CreateUser(ctx context.Context, req *dto.CreateUserRequest) (*dto.CreateUserResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if _, err := s.repo.User.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("check email failed", zap.Error(err))
		return nil, err
	}

	coachID, err := s.resolveCoach(ctx, req.CoachID)
	if err != nil {
		return nil, err
	}

	password, temp := req.Password, ""
	if password == "" {
		if password, err = generateTempPassword(10); err != nil {
			s.logger.Error("generate temp password failed", zap.Error(err))
			return nil, err
		}
		temp = password
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("hash password failed", zap.Error(err))
		return nil, err
	}

	user := &model.User{
		Email:        email,
		FullName:     strings.TrimSpace(req.FullName),
		PasswordHash: string(hash),
		Role:         model.Role(req.Role),
		CoachID:      coachID,
	}
	if err := s.repo.User.Create(ctx, user); err != nil {
		if pkgerrors.IsUniqueViolation(err, usersEmailConstraint) {
			return nil, ErrEmailExists
		}
		s.logger.Error("create user failed", zap.Error(err))
		return nil, err
	}

	created, err := s.repo.User.GetByID(ctx, user.UserID)
	if err != nil {
		s.logger.Error("reload user failed", zap.String("user_id", user.UserID), zap.Error(err))
		return nil, err
	}

	return &dto.CreateUserResponse{User: *toUserResponse(created), TempPassword: temp}, nil
}

// ────────────────────── GetByID ──────────────────────

func (s *userService) GetByID(ctx context.Context, id string) (*dto.UserResponse, error) {
	user, err := s.loadUser(ctx, id)
	if err != nil {
		return nil, err
	}
	return toUserResponse(user), nil
}

// ────────────────────── List ──────────────────────

func (s *userService) List(ctx context.Context, req *dto.UserListRequest) ([]dto.UserResponse, int64, error) {
	filters := &repository.UserListFilters{
		Role:    model.Role(req.Role),
		CoachID: req.CoachID,
		Keyword: strings.TrimSpace(req.Keyword),
	}

	users, total, err := s.repo.User.List(ctx, filters, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("list users failed", zap.Error(err))
		return nil, 0, err
	}

	result := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		result = append(result, *toUserResponse(&users[i]))
	}
	return result, total, nil
}

// ────────────────────── Update ──────────────────────

func (s *userService) Update(ctx context.Context, id string, req *dto.UpdateUserRequest, callerID string) (*dto.UserResponse, error) {
	user, err := s.loadUser(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.FullName != nil {
		user.FullName = strings.TrimSpace(*req.FullName)
	}
	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		existing, err := s.repo.User.GetByEmail(ctx, email)
		if err == nil && existing.UserID != id {
			return nil, ErrEmailExists
		} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Error("check email failed", zap.Error(err))
			return nil, err
		}
		user.Email = email
	}
	if req.Role != nil && model.Role(*req.Role) != user.Role {
		if id == callerID {
			return nil, ErrUserSelfRoleChange
		}
		user.Role = model.Role(*req.Role)
	}
	if req.CoachID != nil {
		coachID, err := s.resolveCoach(ctx, req.CoachID)
		if err != nil {
			return nil, err
		}
		user.CoachID = coachID
	}

	if err := s.repo.User.Update(ctx, user); err != nil {
		if pkgerrors.IsUniqueViolation(err, usersEmailConstraint) {
			return nil, ErrEmailExists
		}
		s.logger.Error("update user failed", zap.String("user_id", id), zap.Error(err))
		return nil, err
	}

	return s.GetByID(ctx, id)
}

// ────────────────────── Delete ──────────────────────

func (s *userService) Delete(ctx context.Context, id string, callerID string) error {
	if id == callerID {
		return ErrUserSelfDelete
	}
	if _, err := s.loadUser(ctx, id); err != nil {
		return err
	}

	if err := s.repo.User.Delete(ctx, id); err != nil {
		s.logger.Error("delete user failed", zap.String("user_id", id), zap.Error(err))
		return err
	}
	s.logger.Info("user deleted", zap.String("user_id", id), zap.String("by", callerID))
	return nil
}

// ────────────────────── ResetPassword ──────────────────────

func (s *userService) ResetPassword(ctx context.Context, id string) (*dto.ResetPasswordResponse, error) {
	user, err := s.loadUser(ctx, id)
	if err != nil {
		return nil, err
	}

	tempPassword, err := generateTempPassword(10)
	if err != nil {
		s.logger.Error("generate temp password failed", zap.Error(err))
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(tempPassword), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("hash password failed", zap.Error(err))
		return nil, err
	}

	user.PasswordHash = string(hash)
	if err := s.repo.User.Update(ctx, user); err != nil {
		s.logger.Error("reset password failed", zap.String("user_id", id), zap.Error(err))
		return nil, err
	}

	return &dto.ResetPasswordResponse{TempPassword: tempPassword}, nil
}

// ────────────────────── UpdateProfile / UpdatePhoto ──────────────────────

func (s *userService) UpdateProfile(ctx context.Context, userID string, req *dto.UpdateProfileRequest) (*dto.UserResponse, error) {
	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	user.FullName = strings.TrimSpace(req.FullName)
	if err := s.repo.User.Update(ctx, user); err != nil {
		s.logger.Error("update profile failed", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}
	return toUserResponse(user), nil
}

func (s *userService) UpdatePhoto(ctx context.Context, userID string, req *dto.UpdatePhotoRequest) (*dto.UserResponse, error) {
	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	url := req.ProfilePhotoURL
	user.ProfilePhotoURL = &url
	if err := s.repo.User.Update(ctx, user); err != nil {
		s.logger.Error("update photo failed", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}
	return toUserResponse(user), nil
}

// ────────────────────── ParseImportFile ──────────────────────

const maxImportRows = 1000

var (
	ErrImportNoData      = errors.New("Het bestand bevat geen gegevensrijen (eerste rij is de kop)")
	ErrImportTooManyRows = fmt.Errorf("Het bestand bevat meer dan %d rijen", maxImportRows)
	ErrImportBadHeader   = errors.New("Kolommen naam en email ontbreken in de kop")
	ErrImportBadFile     = errors.New("Het bestand is geen geldig Excel-bestand")
)

// ParseImportFile 读取第一个工作表，按表头名称匹配列
func (s *userService) ParseImportFile(reader io.Reader) ([]ImportUserRow, error) {
	f, err := excelize.OpenReader(reader)
	if err != nil {
		s.logger.Debug("open import file failed", zap.Error(err))
		return nil, ErrImportBadFile
	}
	defer f.Close()

	excelRows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		s.logger.Debug("read import sheet failed", zap.Error(err))
		return nil, ErrImportBadFile
	}
	if len(excelRows) < 2 {
		return nil, ErrImportNoData
	}

	colIndex := parseHeaderIndex(excelRows[0])
	if colIndex["full_name"] < 0 || colIndex["email"] < 0 {
		return nil, ErrImportBadHeader
	}

	cell := func(row []string, key string) string {
		if idx := colIndex[key]; idx >= 0 && idx < len(row) {
			return strings.TrimSpace(row[idx])
		}
		return ""
	}

	var rows []ImportUserRow
	for i := 1; i < len(excelRows); i++ {
		item := ImportUserRow{
			Row:      i + 1,
			FullName: cell(excelRows[i], "full_name"),
			Email:    cell(excelRows[i], "email"),
			Role:     strings.ToLower(cell(excelRows[i], "role")),
		}
		if item.FullName == "" && item.Email == "" && item.Role == "" {
			continue
		}
		rows = append(rows, item)
	}

	if len(rows) == 0 {
		return nil, ErrImportNoData
	}
	if len(rows) > maxImportRows {
		return nil, ErrImportTooManyRows
	}
	return rows, nil
}

// parseHeaderIndex 表头名 -> 列索引，不存在为 -1
func parseHeaderIndex(header []string) map[string]int {
	idx := map[string]int{"full_name": -1, "email": -1, "role": -1}
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "full_name", "naam", "name":
			idx["full_name"] = i
		case "email", "e-mail":
			idx["email"] = i
		case "role", "rol":
			idx["role"] = i
		}
	}
	return idx
}

// ────────────────────── ImportUsers ──────────────────────

// ImportUsers 先校验所有行，再在同一事务中创建全部合法行
func (s *userService) ImportUsers(ctx context.Context, rows []ImportUserRow) (*dto.ImportUserResponse, error) {
	resp := &dto.ImportUserResponse{Total: len(rows)}
	fail := func(row int, reason string) {
		resp.Failed++
		resp.Errors = append(resp.Errors, dto.ImportUserError{Row: row, Reason: reason})
	}

	seen := make(map[string]bool, len(rows))
	var users []model.User
	var created []dto.ImportedUser

	for _, row := range rows {
		if row.FullName == "" || row.Email == "" {
			fail(row.Row, "Naam of e-mailadres ontbreekt")
			continue
		}
		email := strings.ToLower(row.Email)
		if _, err := mail.ParseAddress(email); err != nil {
			fail(row.Row, fmt.Sprintf("Ongeldig e-mailadres: %s", row.Email))
			continue
		}
		role := model.Role(row.Role)
		if row.Role == "" {
			role = model.RoleStudent
		}
		if !role.Valid() {
			fail(row.Row, fmt.Sprintf("Onbekende rol: %s", row.Role))
			continue
		}
		if seen[email] {
			fail(row.Row, fmt.Sprintf("Dubbel e-mailadres in bestand: %s", email))
			continue
		}
		if _, err := s.repo.User.GetByEmail(ctx, email); err == nil {
			fail(row.Row, fmt.Sprintf("E-mailadres bestaat al: %s", email))
			continue
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Error("check email failed", zap.Error(err))
			return nil, err
		}

		tempPassword, err := generateTempPassword(10)
		if err != nil {
			return nil, err
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(tempPassword), bcrypt.DefaultCost)
		if err != nil {
			s.logger.Error("hash password failed", zap.Error(err))
			return nil, err
		}

		seen[email] = true
		users = append(users, model.User{
			Email:        email,
			FullName:     row.FullName,
			PasswordHash: string(hash),
			Role:         role,
		})
		created = append(created, dto.ImportedUser{Row: row.Row, Email: email, TempPassword: tempPassword})
	}

	if len(users) > 0 {
		if err := s.repo.User.CreateBatch(ctx, users); err != nil {
			s.logger.Error("import users failed, rolled back", zap.Int("rows", len(users)), zap.Error(err))
			return nil, err
		}
		resp.Success = len(users)
		resp.Created = created
	}

	return resp, nil
}

// ── 辅助函数 ──

func (s *userService) loadUser(ctx context.Context, id string) (*model.User, error) {
	user, err := s.repo.User.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("load user failed", zap.String("user_id", id), zap.Error(err))
		return nil, err
	}
	return user, nil
}

// resolveCoach nil 表示不设置，"" 表示清除，ID 必须存在
func (s *userService) resolveCoach(ctx context.Context, coachID *string) (*string, error) {
	if coachID == nil || *coachID == "" {
		return nil, nil
	}
	if _, err := s.repo.Coach.GetByID(ctx, *coachID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCoachNotFound
		}
		s.logger.Error("load coach failed", zap.String("coach_id", *coachID), zap.Error(err))
		return nil, err
	}
	id := *coachID
	return &id, nil
}

// generateTempPassword 生成至少含一个字母和一个数字的随机密码
func generateTempPassword(length int) (string, error) {
	const letters = "abcdefghijkmnpqrstuvwxyzABCDEFGHJKLMNPQRSTUVWXYZ"
	const digits = "23456789"
	const all = letters + digits

	if length < 8 {
		length = 8
	}

	pick := func(set string) (byte, error) {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(set))))
		if err != nil {
			return 0, err
		}
		return set[n.Int64()], nil
	}

	result := make([]byte, length)
	var err error
	if result[0], err = pick(letters); err != nil {
		return "", err
	}
	if result[1], err = pick(digits); err != nil {
		return "", err
	}
	for i := 2; i < length; i++ {
		if result[i], err = pick(all); err != nil {
			return "", err
		}
	}

	// Fisher-Yates 洗牌
	for i := length - 1; i > 0; i-- {
		j, err := rand.Int(rand.Reader, big.NewInt(int64(i+1)))
		if err != nil {
			return "", err
		}
		result[i], result[j.Int64()] = result[j.Int64()], result[i]
	}

	return string(result), nil
}
