package models

import (
	"time"
)

// User represents a user account in the system.
// The identity store is the only component holding a mutable reference to
// user records; accounts are never deleted.
type User struct {
	// ID is the opaque unique identifier, derived once at creation and
	// stable for the record's lifetime.
	ID string `gorm:"primaryKey;size:128"`
	// Username is the unique username for login.
	Username string `gorm:"unique;size:100;not null"`
	// Password is the Argon2id hashed credential, never the plaintext.
	Password string `gorm:"size:255;not null"`
	// Role is the account role (user, admin or master_admin).
	Role Role `gorm:"type:varchar(20);not null;default:'user'"`
	// Title is the optional human-readable role title.
	Title string `gorm:"size:100"`
	// ForceReset is true until the holder completes a mandatory credential change.
	ForceReset bool
	// CreatedAt is the timestamp when the user was created (managed by GORM).
	CreatedAt time.Time
	// UpdatedAt is the timestamp when the user was last updated (managed by GORM).
	UpdatedAt time.Time
}

// RoleInfo returns the account's role with its title.
func (u *User) RoleInfo() RoleInfo {
	return RoleInfo{Role: u.Role, Title: u.Title}
}
