package models

import "time"

// User represents a registered author. Rows are only ever inserted:
// no rename, password change or delete flow exists.
type User struct {
	ID           uint   `gorm:"primaryKey"`
	Username     string `gorm:"size:64;uniqueIndex;not null"` // case-sensitive as stored
	PasswordHash string `gorm:"size:255;not null"`            // salted PBKDF2, never the plaintext
	CreatedAt    time.Time
}
