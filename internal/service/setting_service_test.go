package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"stagetrack/internal/dto"
	"stagetrack/internal/model"
	"stagetrack/pkg/redis"
)

type fakeCache struct {
	values  map[string]string
	deleted []string
}

func newFakeCache() *fakeCache {
	return &fakeCache{values: make(map[string]string)}
}

func (f *fakeCache) GetString(_ context.Context, key string) (string, error) {
	if v, ok := f.values[key]; ok {
		return v, nil
	}
	return "", redis.ErrCacheMiss
}

func (f *fakeCache) SetString(_ context.Context, key, value string, _ time.Duration) error {
	f.values[key] = value
	return nil
}

func (f *fakeCache) Delete(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(f.values, k)
		f.deleted = append(f.deleted, k)
	}
	return nil
}

func TestSettings_Defaults(t *testing.T) {
	repos := newTestRepos()
	svc := NewSettingService(repos.repository(), nil, zap.NewNop())
	ctx := context.Background()

	if got := svc.MinimumHoursPerWeek(ctx); got != 16 {
		t.Errorf("minimum hours = %v, want 16", got)
	}
	if got := svc.DefaultStartTime(ctx); got != "10:00" {
		t.Errorf("default start = %q, want 10:00", got)
	}
	if got := svc.ApprovalPeriodWeeks(ctx); got != 6 {
		t.Errorf("approval weeks = %v, want 6", got)
	}
	if got := svc.GeofenceRadiusMeters(ctx); got != 500 {
		t.Errorf("radius = %v, want 500", got)
	}
}

func TestSettings_UpdateInvalidatesCache(t *testing.T) {
	repos := newTestRepos()
	cache := newFakeCache()
	svc := NewSettingService(repos.repository(), cache, zap.NewNop())
	ctx := context.Background()

	if got := svc.MinimumHoursPerWeek(ctx); got != 16 {
		t.Fatalf("minimum hours = %v, want 16", got)
	}
	if cache.values["setting:"+model.SettingMinimumHoursPerWeek] != "16" {
		t.Fatal("value not cached")
	}

	resp, err := svc.Update(ctx, model.SettingMinimumHoursPerWeek, &dto.UpdateSettingRequest{Value: "20.0"}, "admin-1")
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if resp.Value != "20" {
		t.Errorf("normalized value = %q, want 20", resp.Value)
	}
	if got := svc.MinimumHoursPerWeek(ctx); got != 20 {
		t.Errorf("minimum hours after update = %v, want 20", got)
	}
	if repos.settings.rows[model.SettingMinimumHoursPerWeek].UpdatedBy == nil {
		t.Error("updated_by not recorded")
	}
}

func TestSettings_UpdateValidation(t *testing.T) {
	tests := []struct {
		key, value string
		want       error
	}{
		{model.SettingMinimumHoursPerWeek, "-1", ErrSettingInvalid},
		{model.SettingMinimumHoursPerWeek, "veel", ErrSettingInvalid},
		{model.SettingApprovalPeriodWeeks, "0", ErrSettingInvalid},
		{model.SettingDefaultStartTime, "25:00", ErrSettingInvalid},
		{model.SettingGeofenceRadius, "0", ErrSettingInvalid},
		{"unknown_key", "1", ErrSettingUnknown},
		{model.SettingDefaultStartTime, "08:30", nil},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			repos := newTestRepos()
			svc := NewSettingService(repos.repository(), nil, zap.NewNop())
			_, err := svc.Update(context.Background(), tt.key, &dto.UpdateSettingRequest{Value: tt.value}, "admin-1")
			if !errors.Is(err, tt.want) {
				t.Errorf("got %v, want %v", err, tt.want)
			}
		})
	}
}

func TestSettings_List(t *testing.T) {
	repos := newTestRepos()
	repos.settings.rows[model.SettingGeofenceRadius] = &model.Setting{Key: model.SettingGeofenceRadius, Value: "250"}
	svc := NewSettingService(repos.repository(), nil, zap.NewNop())

	list, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 4 {
		t.Fatalf("expected 4 settings, got %d", len(list))
	}
	for _, s := range list {
		if s.Key == model.SettingGeofenceRadius && (s.Value != "250" || s.Default != "500") {
			t.Errorf("radius = %+v", s)
		}
	}
}
