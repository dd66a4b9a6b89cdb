package models

import "time"

type Company struct {
	Name     string `json:"name" gorm:"primaryKey"`
	Founder  string `json:"founder" gorm:"not null"`  // player id
	Position int32  `json:"position" gorm:"not null"` // encoded HQ position
	Logo     string `json:"logo" gorm:"size:64;default:'🏢'"`
	NetWorth int64  `json:"net_worth" gorm:"not null;default:0"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (c *Company) HQ() Position {
	return DecodePosition(c.Position)
}
