package domain

import "time"

// User is an account in the user directory. The password is only ever stored
// as an argon2id hash.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
