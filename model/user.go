package model

import "time"

// User holds an account row. HashedPassword carries either a bcrypt digest
// or a "pbkdf2:<salt>$<key>" encoded digest, depending on which hasher
// produced it.
type User struct {
	ID                   int        `json:"id"`
	Username             string     `json:"username"`
	Email                string     `json:"email"`
	HashedPassword       string     `json:"-"`
	IsActive             bool       `json:"is_active"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`
	PasswordChangedAt    *time.Time `json:"password_changed_at,omitempty"`
	PasswordResetToken   *string    `json:"-"`
	PasswordResetExpires *time.Time `json:"-"`
	LastLoginAt          *time.Time `json:"last_login_at,omitempty"`
}
