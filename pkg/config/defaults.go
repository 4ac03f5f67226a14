package config

import "time"

const (
	DefaultPort     = "8080"
	DefaultLogLevel = "info"

	DefaultBackendBaseURL = "http://localhost:8000/api"
	DefaultBackendTimeout = 10 * time.Second

	DefaultTimezone           = "Local"
	DefaultDefaultPhoneRegion = "US"

	DefaultSessionTTL             = 30 * time.Minute
	DefaultSessionCleanupInterval = 1 * time.Minute

	DefaultRateLimitRequests = 60
	DefaultRateLimitWindow   = 1 * time.Minute

	DefaultRequestTimeout = 30 * time.Second
	DefaultIdempotencyTTL = 24 * time.Hour
	DefaultMaxRequestSize = 64 * 1024 // 64KB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 35 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	DefaultMongoDatabaseName = "booking_flow"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultKafkaBookingTopic = "booking.events"

	DefaultRedisDB = 0
)
