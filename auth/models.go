// Package auth owns the user account lifecycle (registration, credential
// verification, lookup) and the session layer that ties an HTTP client to an
// authenticated account.
package auth

import "time"

// User represents a registered account.
type User struct {
	ID             int       `json:"id"`
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	Email          string    `json:"email"`
	Username       string    `json:"username"`
	HashedPassword string    `json:"-"` // never serialized
	IsAdmin        bool      `json:"is_admin"`
	CreatedAt      time.Time `json:"created_at"`
}
