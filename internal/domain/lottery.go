package domain

import "time"

// Lottery Model
//
// A lottery is identified by its closure date: at most one lottery exists per
// calendar date. WinningBallotID is only ever set together with IsClosed and
// always points at a ballot of this lottery.
type Lottery struct {
	ID              string    `gorm:"primaryKey;size:36"`             // UUID primary key
	Name            string    `gorm:"size:255;not null"`              // Display name
	ClosureDate     time.Time `gorm:"type:date;uniqueIndex;not null"` // Calendar date, midnight UTC
	IsClosed        bool      `gorm:"not null;index"`                 // Open until the draw
	WinningBallotID *string   `gorm:"size:36"`                        // Set once by the draw, nil when no ballots
	CreatedAt       time.Time `gorm:"not null"`                       // Creation timestamp
}

// HasWinner reports whether a draw picked a winning ballot.
func (l *Lottery) HasWinner() bool {
	return l.IsClosed && l.WinningBallotID != nil
}
