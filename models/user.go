package models

import "time"

// User is one row of the "users" collection, created the first time a
// chat sends /start. Blocked is flipped when a broadcast send bounces
// with a "blocked" error.
type User struct {
	UserID   int64     `bson:"user_id"`
	Username string    `bson:"username,omitempty"`
	JoinedAt time.Time `bson:"joined_at"`
	Blocked  bool      `bson:"blocked,omitempty"`
}
