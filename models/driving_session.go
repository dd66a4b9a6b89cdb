package models

import "time"

// DrivingSession marks a player as actively driving. At most one session
// exists per player; starting a new drive tears down the old session first.
// The interaction fields are the response target used to edit the original
// drive message out-of-band when the session is swept for idleness.
type DrivingSession struct {
	ID         uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	PlayerID   string    `json:"player_id" gorm:"uniqueIndex;not null"`
	AppID      string    `json:"app_id" gorm:"size:32"`
	Token      string    `json:"-" gorm:"size:256"` // interaction token for webhook edits
	ChannelID  string    `json:"channel_id" gorm:"size:32"`
	MessageID  string    `json:"message_id" gorm:"size:32;index"`
	LastAction time.Time `json:"last_action" gorm:"index"`
	CreatedAt  time.Time `json:"created_at"`
}
