package config

const (
	EnvMongoURI          = "MONGO_URI"
	EnvMongoDatabaseName = "MONGO_DATABASE_NAME"
	EnvMongoConnTimeout  = "MONGO_CONN_TIMEOUT"

	EnvPort     = "PORT"
	EnvLogLevel = "LOG_LEVEL"

	EnvRateLimitRequests = "RATE_LIMIT_REQUESTS"
	EnvRateLimitWindow   = "RATE_LIMIT_WINDOW"

	EnvRequestTimeout = "REQUEST_TIMEOUT"
	EnvIdempotencyTTL = "IDEMPOTENCY_TTL"
	EnvMaxRequestSize = "MAX_REQUEST_SIZE"

	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"

	EnvDefaultSlotLengthMin   = "DEFAULT_SLOT_LENGTH_MIN"
	EnvDefaultBufferBeforeMin = "DEFAULT_BUFFER_BEFORE_MIN"
	EnvDefaultBufferAfterMin  = "DEFAULT_BUFFER_AFTER_MIN"
	EnvDefaultTimeZone        = "DEFAULT_TIME_ZONE"
	EnvDefaultWeekdayStart    = "DEFAULT_WEEKDAY_START"
	EnvDefaultWeekdayEnd      = "DEFAULT_WEEKDAY_END"
	EnvDefaultSaturdayStart   = "DEFAULT_SATURDAY_START"
	EnvDefaultSaturdayEnd     = "DEFAULT_SATURDAY_END"

	EnvMaxLookaheadDays = "MAX_LOOKAHEAD_DAYS"
	EnvBookingLockTTL   = "BOOKING_LOCK_TTL"

	EnvKafkaEnabled = "KAFKA_ENABLED"
)
