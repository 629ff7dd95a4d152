package constants

import "time"

const (
	DatabaseSSLMode         = "disable"
	DatabaseMaxOpenConns    = 25
	DatabaseMaxIdleConns    = 5
	DatabaseConnMaxLifetime = 30 // minutes
)

const (
	DefaultRequestTimeout = 15 * time.Second
	DefaultTimeout        = 5 * time.Second
)

// Echo context keys.
const (
	ContextTokenData = "token_data"
	ContextCaller    = "caller"
	ContextRequestID = "request_id"
)

const (
	HeaderRequestID = "X-Request-ID"
)

const (
	RedisKeyTokenBlacklist = "token:blacklist:"
	TokenBlacklistTTL      = 24 * time.Hour
)

const (
	TaskTypeParticipantChanged = "participant:changed"
	DefaultQueueName           = "participants"
	TaskMaxRetry               = 5
)

const (
	DefaultPageNumber = 1
	DefaultPageSize   = 20
	MaxPageSize       = 100
)
