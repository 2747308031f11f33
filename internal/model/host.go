package model

import (
	"time"
)

// Host is a property owner with dashboard access.
type Host struct {
	ID           string    `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	Name         string    `db:"name" json:"name"`
	PasswordHash string    `db:"password_hash" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `db:"updated_at" json:"updatedAt"`
}

type CreateHostParams struct {
	Email        string
	Name         string
	PasswordHash string
}

// HostSession is a cookie-backed dashboard session. Only the token hash
// is stored.
type HostSession struct {
	ID        string    `db:"id" json:"id"`
	HostID    string    `db:"host_id" json:"hostId"`
	TokenHash string    `db:"token_hash" json:"-"`
	ExpiresAt time.Time `db:"expires_at" json:"expiresAt"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

type CreateHostSessionParams struct {
	HostID    string
	TokenHash string
	ExpiresAt time.Time
}

// IsExpired checks if the session has expired
func (s *HostSession) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}
