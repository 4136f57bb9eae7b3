package models

import "time"

// Post is a published blog entry. Title is unique across the site and
// Date is the human-readable publication date shown to readers.
type Post struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Title     string    `gorm:"uniqueIndex;not null" json:"title"`
	Subtitle  string    `gorm:"not null" json:"subtitle"`
	Body      string    `gorm:"not null" json:"body"`
	ImageURL  string    `gorm:"not null" json:"image_url"`
	Date      string    `gorm:"not null" json:"date"`
	AuthorID  uint      `gorm:"not null" json:"author_id"`
	Author    User      `gorm:"foreignKey:AuthorID" json:"author"`
	Comments  []Comment `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"comments,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PostDateFormat renders dates the way posts display them, e.g. "August 28, 2026".
const PostDateFormat = "January 2, 2006"
