package config

const (
	EnvMongoURI          = "MONGO_URI"
	EnvMongoDatabaseName = "MONGO_DATABASE_NAME"
	EnvMongoConnTimeout  = "MONGO_CONN_TIMEOUT"

	EnvPort     = "PORT"
	EnvLogLevel = "LOG_LEVEL"

	EnvRequestTimeout = "REQUEST_TIMEOUT"
	EnvMaxRequestSize = "MAX_REQUEST_SIZE"

	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"

	EnvMinBookingDuration   = "MIN_BOOKING_DURATION"
	EnvMaxBookingDuration   = "MAX_BOOKING_DURATION"
	EnvAdvanceWindowMonths  = "ADVANCE_WINDOW_MONTHS"
	EnvPrivilegedRoles      = "PRIVILEGED_ROLES"
	EnvRoomLockTTL          = "ROOM_LOCK_TTL"
	EnvMaxSeriesOccurrences = "MAX_SERIES_OCCURRENCES"

	EnvKafkaBrokers      = "KAFKA_BROKERS"
	EnvKafkaEventsTopic  = "KAFKA_EVENTS_TOPIC"
	EnvKafkaEventsEnable = "KAFKA_EVENTS_ENABLE"
)
