package domain

import "time"

// Ballot Model
type Ballot struct {
	ID          string    `gorm:"primaryKey;size:36"`     // UUID primary key
	UserID      string    `gorm:"size:36;index;not null"` // Owning user
	LotteryID   string    `gorm:"size:36;index;not null"` // Owning lottery
	SubmittedAt time.Time `gorm:"not null"`               // Submission timestamp
	User        *User     `gorm:"foreignKey:UserID"`      // Loaded only for the winner view
	Lottery     *Lottery  `gorm:"foreignKey:LotteryID"`   // Loaded only for the winner view
}
