package models

import "time"

// Role values. Stored as an integer for compatibility with existing rows.
const (
	RoleUser  = 0
	RoleAdmin = 1
)

type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"type:varchar(255)" json:"name"`
	Username     string    `gorm:"type:varchar(50);uniqueIndex;not null" json:"username"`
	PasswordHash string    `gorm:"type:varchar(255);not null" json:"-"` // Never expose password hash in JSON
	Role         int       `gorm:"not null;default:0" json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// IsAdmin reports whether the user can see the global gallery.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
