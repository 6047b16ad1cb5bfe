package entity

import "time"

// User usuario con acceso al dashboard.
type User struct {
	ID           string
	Username     string
	PasswordHash string // bcrypt
	CreatedAt    time.Time
}
