package service

import (
	"context"
	"time"

	"stagetrack/internal/attendance"
	"stagetrack/pkg/geocode"
)

// TokenStore 已登出 Token 的吊销列表
type TokenStore interface {
	BlacklistToken(ctx context.Context, jti string, ttl time.Duration) error
	IsBlacklisted(ctx context.Context, jti string) (bool, error)
}

// Cache 设置使用的字符串缓存
type Cache interface {
	GetString(ctx context.Context, key string) (string, error)
	SetString(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// Geocoder 地址解析
type Geocoder interface {
	Lookup(ctx context.Context, address string) (*geocode.Result, error)
}

// Clock 配置时区下的本地时间
type Clock struct {
	now func() time.Time
	loc *time.Location
}

// NewClock now 为 nil 时使用系统时钟
func NewClock(loc *time.Location, now func() time.Time) Clock {
	if now == nil {
		now = time.Now
	}
	return Clock{now: now, loc: loc}
}

// Now 本地时区的当前时间
func (c Clock) Now() time.Time {
	return c.now().In(c.loc)
}

// Today 本地日期（UTC 零点表示）
func (c Clock) Today() time.Time {
	return attendance.DateOnly(c.Now())
}

// Location 配置的时区
func (c Clock) Location() *time.Location {
	return c.loc
}
