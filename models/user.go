// Package models contains the application's domain models and error types.
package models

import "time"

// AdminUserID identifies the sole site administrator. The first account
// ever registered gets this ID; there is no other elevation mechanism.
const AdminUserID uint = 1

// User is a registered account. Password holds the bcrypt hash, never
// the plaintext, and is excluded from every JSON response.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	Email     string    `gorm:"uniqueIndex;not null" json:"email"`
	Password  string    `gorm:"not null" json:"-"`
	CreatedAt time.Time `json:"created_at"`
	Posts     []Post    `gorm:"foreignKey:AuthorID" json:"posts,omitempty"`
	Comments  []Comment `gorm:"foreignKey:UserID" json:"-"`
}

// IsAdmin reports whether the user is the site administrator.
func (u *User) IsAdmin() bool {
	return u != nil && u.ID == AdminUserID
}
