package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "roomsched"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort     = "8080"
	DefaultLogLevel = "info"

	DefaultRequestTimeout = 30 * time.Second
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	// Booking policy defaults. These are institutional rules, surfaced as
	// configuration so deployments can tune them without code changes.
	DefaultMinBookingDuration   = 15 * time.Minute
	DefaultMaxBookingDuration   = 8 * time.Hour
	DefaultAdvanceWindowMonths  = 3
	DefaultRoomLockTTL          = 10 * time.Second
	DefaultMaxSeriesOccurrences = 366

	DefaultScheduleDayStart = "00-00-00"
	DefaultScheduleDayEnd   = "23-59-59"
)

// DefaultPrivilegedRoles lists the roles exempt from temporal policy
// (no-past, advance-window, post-start immutability).
var DefaultPrivilegedRoles = []string{"registrar", "admin"}
