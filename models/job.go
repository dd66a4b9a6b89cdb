package models

import "time"

// Job states. A job is created Claimed, becomes Loaded when the cargo is
// picked up at the origin, and is deleted when delivered (Done).
const (
	JobClaimed = 0
	JobLoaded  = 1
	JobDone    = 2
)

type Job struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	PlayerID    string    `json:"player_id" gorm:"uniqueIndex;not null"` // one active job per player
	Origin      string    `json:"origin" gorm:"not null"`
	Destination string    `json:"destination" gorm:"not null"`
	State       int       `json:"state" gorm:"not null;default:0"`
	Reward      int64     `json:"reward" gorm:"not null"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
