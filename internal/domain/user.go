package domain

import "time"

// User Model
type User struct {
	ID             string    `gorm:"primaryKey;size:36" json:"id"`               // UUID primary key
	Username       string    `gorm:"index;size:50;not null" json:"username"`     // Display name, not unique
	Email          string    `gorm:"uniqueIndex;size:191;not null" json:"email"` // Unique login email, case-sensitive as stored
	HashedPassword string    `gorm:"not null" json:"-"`                          // bcrypt hash
	IsAdmin        bool      `gorm:"not null" json:"is_admin"`                   // Admins run lotteries and never submit ballots
	RegisteredAt   time.Time `gorm:"not null" json:"registered_at"`              // Registration timestamp
}
