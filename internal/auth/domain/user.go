package domain

import "time"

type User struct {
	ID           string
	Username     string
	Email        string // not unique, may be empty
	FirstName    string
	LastName     string
	PasswordHash string // argon2 encoded
	IsActive     bool
	JoinedAt     time.Time
	UpdatedAt    time.Time
}
