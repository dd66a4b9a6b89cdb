package models

import "math"

// MapBorder is the inclusive upper bound of the map on both axes.
// The map is a square grid from (0,0) to (MapBorder,MapBorder).
const MapBorder = 24

type Position struct {
	X int16 `json:"x"`
	Y int16 `json:"y"`
}

// Encode packs a position into a single int32 for storage:
// bits 0-15 hold x, bits 16-31 hold y.
func (p Position) Encode() int32 {
	return int32(uint32(uint16(p.Y))<<16 | uint32(uint16(p.X)))
}

// DecodePosition is the inverse of Encode.
func DecodePosition(encoded int32) Position {
	return Position{
		X: int16(uint32(encoded) & 0xFFFF),
		Y: int16(uint32(encoded) >> 16),
	}
}

// Distance returns the Euclidean distance to another position.
func (p Position) Distance(other Position) float64 {
	dx := float64(p.X - other.X)
	dy := float64(p.Y - other.Y)
	return math.Sqrt(dx*dx + dy*dy)
}

func (p Position) InBounds() bool {
	return p.X >= 0 && p.X <= MapBorder && p.Y >= 0 && p.Y <= MapBorder
}

type Direction string

const (
	DirectionLeft  Direction = "left"
	DirectionUp    Direction = "up"
	DirectionDown  Direction = "down"
	DirectionRight Direction = "right"
)

// AllDirections is in display order: left, up, down, right.
var AllDirections = []Direction{DirectionLeft, DirectionUp, DirectionDown, DirectionRight}

// Apply returns the neighboring position in the given direction.
// It does not bounds-check; callers gate movement on LegalDirections.
func (p Position) Apply(dir Direction) Position {
	switch dir {
	case DirectionLeft:
		return Position{X: p.X - 1, Y: p.Y}
	case DirectionRight:
		return Position{X: p.X + 1, Y: p.Y}
	case DirectionUp:
		return Position{X: p.X, Y: p.Y + 1}
	case DirectionDown:
		return Position{X: p.X, Y: p.Y - 1}
	}
	return p
}

// LegalDirections returns the directions that stay inside the map border.
// Used to enable/disable the directional buttons on the drive view.
func (p Position) LegalDirections() []Direction {
	legal := make([]Direction, 0, 4)
	for _, dir := range AllDirections {
		if p.Apply(dir).InBounds() {
			legal = append(legal, dir)
		}
	}
	return legal
}
