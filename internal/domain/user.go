package domain

import "time"

// User is a registered account. PasswordHash is never returned to clients.
type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}
