package model

import "time"

// BookingLock is an advisory lock that serializes concurrent booking
// attempts for the same practitioner-slot while the availability re-check
// runs. The _id encodes the slot coordinates; a second concurrent insert
// fails with a duplicate key error. Expired locks are reaped by a Mongo
// TTL index on expires_at.
type BookingLock struct {
	ID        string    `bson:"_id" json:"id"`
	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
