package models

import "time"

// Post is a blog entry owned by exactly one author. Title and body are
// mutable by the author only; id, created and author_id never change.
type Post struct {
	ID        uint      `gorm:"primaryKey"`
	Title     string    `gorm:"size:128;not null"`
	Body      string    `gorm:"not null;default:''"`
	CreatedAt time.Time `gorm:"column:created;not null"`
	AuthorID  uint      `gorm:"index;not null"`

	Author User `gorm:"constraint:OnDelete:CASCADE"`
}
