package constants

import "time"

const (
	ContextTokenData = "token_data"

	ScopeTokenAccess = "access"

	DefaultTimeout        = 10 * time.Second
	DefaultRequestTimeout = 30 * time.Second
	ShutdownTimeout       = 10 * time.Second

	DatabaseSSLMode         = "disable"
	DatabaseMaxOpenConns    = 25
	DatabaseMaxIdleConns    = 10
	DatabaseConnMaxLifetime = 30 // minutes

	RedisKeyNewsPrefix          = "news:sports:"
	RedisChannelNotifications   = "sportmeet:notifications"
	TaskTypeNotificationPublish = "notification:publish"
	QueueNotifications          = "notifications"

	ProfilePictureFolder  = "profile_pictures"
	MaxProfilePictureSize = 5 << 20
)
