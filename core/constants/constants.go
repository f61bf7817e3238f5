package constants

import "time"

// Context keys
const (
	ContextTokenData = "token_data"
)

// Token scopes
const (
	ScopeTokenAccess        = "access"
	ScopeTokenRefresh       = "refresh"
	ScopeTokenResetPassword = "reset_password"
)

// Token lifetimes
const (
	AccessTokenDuration  = 7 * 24 * time.Hour
	RefreshTokenDuration = 30 * 24 * time.Hour
	ResetTokenDuration   = time.Hour
)

// Database defaults
const (
	DatabaseMaxOpenConns    = 25
	DatabaseMaxIdleConns    = 5
	DatabaseConnMaxLifetime = 30 // minutes
	DatabaseSSLMode         = "disable"
)

// Redis key prefixes
const (
	RedisKeyTokenBlacklist = "token:blacklist:"
	RedisKeyResetToken     = "auth:reset:"
)

// Request handling
const (
	DefaultRequestTimeout = 30 * time.Second
)

// Scheduling grid defaults
const (
	ScheduleStartHour   = 9
	ScheduleSlotMinutes = 60
	ScheduleWeeks       = 4
)
