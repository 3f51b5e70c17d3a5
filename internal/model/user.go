package model

import (
	"strings"
	"time"
)

// Role is the access level carried by every account and by its JWT.
type Role string

const (
	RoleAdmin      Role = "ADMIN"
	RoleUser       Role = "USER"
	RoleStoreOwner Role = "STORE_OWNER"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleUser, RoleStoreOwner:
		return true
	}
	return false
}

// ParseRole normalizes s and returns the matching Role.
func ParseRole(s string) (Role, bool) {
	r := Role(strings.ToUpper(strings.TrimSpace(s)))
	return r, r.Valid()
}

// User represents an account as stored in the `users` table.
//
// Fields:
//  ID           – UUID primary key.
//  Name         – display name (20-60 letters/spaces).
//  Email        – unique, lower-cased email address.
//  PasswordHash – bcrypt hash; never serialized.
//  Role         – ADMIN, USER or STORE_OWNER.
//  Address      – postal address (<= 400 chars).
//  StoreID      – store owned by a STORE_OWNER; nil otherwise.
//  CreatedAt    – creation timestamp.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	Address      string    `json:"address"`
	StoreID      *string   `json:"storeId"`
	CreatedAt    time.Time `json:"createdAt"`
}

// UserRef is the rater identity attached to ratings shown to store owners.
type UserRef struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Address string `json:"address,omitempty"`
}
