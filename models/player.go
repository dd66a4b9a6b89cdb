package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// BlacklistXP is the xp sentinel that marks a banned player.
const BlacklistXP = -1

// ItemList is the ordered multiset of loaded item names, stored as a JSON
// array in a single column. The explicit Value/Scan pair is the one
// serialization path; nothing writes the column directly.
type ItemList []string

func (l ItemList) Value() (driver.Value, error) {
	if l == nil {
		l = ItemList{}
	}
	data, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func (l *ItemList) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*l = ItemList{}
		return nil
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("unsupported type for ItemList: %T", value)
	}
}

type Player struct {
	ID         string   `json:"id" gorm:"primaryKey"` // Discord user id
	Name       string   `json:"name" gorm:"not null"`
	Level      int      `json:"level" gorm:"not null;default:0"`
	XP         int64    `json:"xp" gorm:"not null;default:0"` // -1 means blacklisted
	Money      int64    `json:"money" gorm:"not null;default:0"`
	Position   int32    `json:"position" gorm:"not null;default:0"` // encoded, see models.Position
	Miles      int64    `json:"miles" gorm:"not null;default:0"`
	TruckMiles int64    `json:"truck_miles" gorm:"not null;default:0"`
	Gas        int64    `json:"gas" gorm:"not null;default:0"`
	TruckID    int      `json:"truck_id" gorm:"not null;default:0"`
	Loaded     ItemList `json:"loaded_items" gorm:"type:text"`
	Company    string   `json:"company"` // empty when unemployed

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (p *Player) Pos() Position {
	return DecodePosition(p.Position)
}

func (p *Player) SetPos(pos Position) {
	p.Position = pos.Encode()
}

func (p *Player) Blacklisted() bool {
	return p.XP == BlacklistXP
}

// NextLevelXP is the xp required to reach the next level.
func (p *Player) NextLevelXP() int64 {
	return int64(p.Level+1) * 1000
}
