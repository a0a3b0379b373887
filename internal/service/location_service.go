package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"stagetrack/internal/dto"
	"stagetrack/internal/model"
	"stagetrack/internal/repository"
	pkgerrors "stagetrack/pkg/errors"
	"stagetrack/pkg/geocode"
)

// ── 地点错误定义 ──

var (
	ErrLocationNotFound   = errors.New("Locatie niet gevonden")
	ErrAddressNotFound    = errors.New("Adres niet gevonden")
	ErrLocationNoPosition = errors.New("Geef coördinaten of een adres op")
	ErrLocationInUse      = errors.New("Deze locatie heeft check-ins en kan niet verwijderd worden")
	ErrGeocodeUnavailable = errors.New("Adres opzoeken is tijdelijk niet beschikbaar")
)

// LocationService 地点服务接口
type LocationService interface {
	Create(ctx context.Context, req *dto.CreateLocationRequest) (*dto.LocationResponse, error)
	GetByID(ctx context.Context, id string) (*dto.LocationResponse, error)
	// List 学生调用时 includeQR 为 false
	List(ctx context.Context, includeQR bool) ([]dto.LocationResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateLocationRequest) (*dto.LocationResponse, error)
	Delete(ctx context.Context, id string) error
	RegenerateQR(ctx context.Context, id string) (*dto.LocationResponse, error)
	Geocode(ctx context.Context, address string) (*dto.GeocodeResponse, error)
}

type locationService struct {
	repo     *repository.Repository
	geocoder Geocoder
	logger   *zap.Logger
}

// NewLocationService geocoder 可为 nil，此时坐标必填
func NewLocationService(repo *repository.Repository, geocoder Geocoder, logger *zap.Logger) LocationService {
	return &locationService{repo: repo, geocoder: geocoder, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *locationService) Create(ctx context.Context, req *dto.CreateLocationRequest) (*dto.LocationResponse, error) {
	loc := &model.Location{
		Name:    strings.TrimSpace(req.Name),
		Address: trimmedOrNil(req.Address),
		QRCode:  uuid.NewString(),
	}

	switch {
	case req.Latitude != nil && req.Longitude != nil:
		loc.Latitude, loc.Longitude = *req.Latitude, *req.Longitude
	case loc.Address != nil:
		res, err := s.Geocode(ctx, *loc.Address)
		if err != nil {
			return nil, err
		}
		loc.Latitude, loc.Longitude = res.Latitude, res.Longitude
	default:
		return nil, ErrLocationNoPosition
	}

	if err := s.repo.Location.Create(ctx, loc); err != nil {
		s.logger.Error("create location failed", zap.Error(err))
		return nil, err
	}
	return toLocationResponse(loc, true), nil
}

// ────────────────────── GetByID ──────────────────────

func (s *locationService) GetByID(ctx context.Context, id string) (*dto.LocationResponse, error) {
	loc, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return toLocationResponse(loc, true), nil
}

// ────────────────────── List ──────────────────────

func (s *locationService) List(ctx context.Context, includeQR bool) ([]dto.LocationResponse, error) {
	locations, err := s.repo.Location.List(ctx)
	if err != nil {
		s.logger.Error("list locations failed", zap.Error(err))
		return nil, err
	}

	result := make([]dto.LocationResponse, 0, len(locations))
	for i := range locations {
		result = append(result, *toLocationResponse(&locations[i], includeQR))
	}
	return result, nil
}

// ────────────────────── Update ──────────────────────

func (s *locationService) Update(ctx context.Context, id string, req *dto.UpdateLocationRequest) (*dto.LocationResponse, error) {
	loc, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		loc.Name = strings.TrimSpace(*req.Name)
	}
	addressChanged := false
	if req.Address != nil {
		next := trimmedOrNil(req.Address)
		addressChanged = next != nil && (loc.Address == nil || *loc.Address != *next)
		loc.Address = next
	}

	switch {
	case req.Latitude != nil && req.Longitude != nil:
		loc.Latitude, loc.Longitude = *req.Latitude, *req.Longitude
	case addressChanged:
		res, err := s.Geocode(ctx, *loc.Address)
		if err != nil {
			return nil, err
		}
		loc.Latitude, loc.Longitude = res.Latitude, res.Longitude
	}

	if err := s.repo.Location.Update(ctx, loc); err != nil {
		s.logger.Error("update location failed", zap.String("location_id", id), zap.Error(err))
		return nil, err
	}
	return toLocationResponse(loc, true), nil
}

// ────────────────────── Delete ──────────────────────

func (s *locationService) Delete(ctx context.Context, id string) error {
	if _, err := s.load(ctx, id); err != nil {
		return err
	}

	if err := s.repo.Location.Delete(ctx, id); err != nil {
		if pkgerrors.IsForeignKeyViolation(err) {
			return ErrLocationInUse
		}
		s.logger.Error("delete location failed", zap.String("location_id", id), zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── RegenerateQR ──────────────────────

// RegenerateQR 使已打印的二维码失效
func (s *locationService) RegenerateQR(ctx context.Context, id string) (*dto.LocationResponse, error) {
	loc, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	code := uuid.NewString()
	if err := s.repo.Location.RotateQRCode(ctx, id, code); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLocationNotFound
		}
		s.logger.Error("regenerate qr failed", zap.String("location_id", id), zap.Error(err))
		return nil, err
	}
	loc.QRCode = code
	return toLocationResponse(loc, true), nil
}

// ────────────────────── Geocode ──────────────────────

func (s *locationService) Geocode(ctx context.Context, address string) (*dto.GeocodeResponse, error) {
	if s.geocoder == nil {
		return nil, ErrGeocodeUnavailable
	}

	res, err := s.geocoder.Lookup(ctx, address)
	if err != nil {
		if errors.Is(err, geocode.ErrAddressNotFound) {
			return nil, ErrAddressNotFound
		}
		s.logger.Warn("geocode lookup failed", zap.String("address", address), zap.Error(err))
		return nil, ErrGeocodeUnavailable
	}

	return &dto.GeocodeResponse{
		Latitude:    res.Latitude,
		Longitude:   res.Longitude,
		DisplayName: res.DisplayName,
	}, nil
}

// ── 辅助函数 ──

func (s *locationService) load(ctx context.Context, id string) (*model.Location, error) {
	loc, err := s.repo.Location.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLocationNotFound
		}
		s.logger.Error("load location failed", zap.String("location_id", id), zap.Error(err))
		return nil, err
	}
	return loc, nil
}

func toLocationResponse(loc *model.Location, includeQR bool) *dto.LocationResponse {
	resp := &dto.LocationResponse{
		ID:        loc.LocationID,
		Name:      loc.Name,
		Address:   loc.Address,
		Latitude:  loc.Latitude,
		Longitude: loc.Longitude,
		CreatedAt: formatTimestamp(loc.CreatedAt),
		UpdatedAt: formatTimestamp(loc.UpdatedAt),
	}
	if includeQR {
		resp.QRCode = loc.QRCode
	}
	return resp
}

func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
