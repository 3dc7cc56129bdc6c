package models

import "time"

// User represents an account in the system. Registration, passwords and
// sessions live in the identity subsystem; this service only stores the
// identity it needs to attribute lists, items and invites.
type User struct {
	ID        int64
	Username  string
	Email     string
	CreatedAt time.Time
}
