package config

import "time"

// Database connection pool settings
const (
	DBMaxOpenConns    = 25
	DBMaxIdleConns    = 5
	DBConnMaxLifetime = 5 * time.Minute
)

// HTTP server timeouts
const (
	ServerRequestTimeout  = 60 * time.Second
	ServerReadTimeout     = 15 * time.Second
	ServerWriteTimeout    = 30 * time.Second
	ServerIdleTimeout     = 120 * time.Second
	ServerShutdownTimeout = 30 * time.Second
)

// Database ping timeout for health checks
const DBPingTimeout = 5 * time.Second

// Background job intervals
const CleanupJobInterval = 10 * time.Minute

// Host dashboard session lifetime
const HostSessionTTL = 7 * 24 * time.Hour

// Guest endpoint IP throttling
const (
	GuestValidateLimitPerMin = 20
	GuestRequestLimitPerMin  = 5
)

// One access request per (property, guest email) per rolling window
const AccessRequestWindow = 24 * time.Hour

// Access request rows older than this are purged by the cleanup job
const AccessRequestRetention = 30 * 24 * time.Hour
