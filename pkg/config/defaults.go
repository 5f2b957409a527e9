package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "ayurclinic"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort     = "8080"
	DefaultLogLevel = "info"

	DefaultRateLimitRequests = 10
	DefaultRateLimitWindow   = 1 * time.Minute

	DefaultRequestTimeout = 30 * time.Second
	DefaultIdempotencyTTL = 24 * time.Hour
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	// Clinic scheduling defaults, used when a practitioner's availability
	// config is materialized on first access: 30-minute sessions with
	// 10-minute buffers, Monday-Friday full days and a short Saturday.
	DefaultDefaultSlotLengthMin   = 30
	DefaultDefaultBufferBeforeMin = 10
	DefaultDefaultBufferAfterMin  = 10
	DefaultDefaultTimeZone        = "Asia/Kolkata"
	DefaultDefaultWeekdayStart    = "09:00"
	DefaultDefaultWeekdayEnd      = "17:00"
	DefaultDefaultSaturdayStart   = "09:00"
	DefaultDefaultSaturdayEnd     = "13:00"

	// Hard cap on how far forward the next-available-slot search walks.
	DefaultMaxLookaheadDays = 30

	DefaultBookingLockTTL = 10 * time.Second

	DefaultPaginationLimit = 100
)
