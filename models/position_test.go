package models

import (
	"math"
	"testing"
)

func TestPositionEncodeDecodeRoundTrip(t *testing.T) {
	for x := int16(0); x <= MapBorder; x++ {
		for y := int16(0); y <= MapBorder; y++ {
			pos := Position{X: x, Y: y}
			got := DecodePosition(pos.Encode())
			if got != pos {
				t.Fatalf("round trip failed for (%d,%d): got (%d,%d)", x, y, got.X, got.Y)
			}
		}
	}
}

func TestPositionEncodeBitLayout(t *testing.T) {
	// bits 0-15 hold x, bits 16-31 hold y
	tests := []struct {
		pos  Position
		want int32
	}{
		{Position{X: 0, Y: 0}, 0},
		{Position{X: 1, Y: 0}, 1},
		{Position{X: 0, Y: 1}, 1 << 16},
		{Position{X: 5, Y: 3}, 3<<16 | 5},
		{Position{X: MapBorder, Y: MapBorder}, MapBorder<<16 | MapBorder},
	}
	for _, tt := range tests {
		if got := tt.pos.Encode(); got != tt.want {
			t.Errorf("Encode(%d,%d) = %d, want %d", tt.pos.X, tt.pos.Y, got, tt.want)
		}
	}
}

func TestPositionDistance(t *testing.T) {
	a := Position{X: 0, Y: 0}
	b := Position{X: 3, Y: 4}
	if d := a.Distance(b); d != 5 {
		t.Errorf("Distance = %v, want 5", d)
	}
	if d := a.Distance(a); d != 0 {
		t.Errorf("Distance to self = %v, want 0", d)
	}
	c := Position{X: 1, Y: 1}
	if d := a.Distance(c); math.Abs(d-math.Sqrt2) > 1e-9 {
		t.Errorf("Distance = %v, want sqrt(2)", d)
	}
}

func TestLegalDirectionsCounts(t *testing.T) {
	tests := []struct {
		name string
		pos  Position
		want int
	}{
		{"interior", Position{X: 12, Y: 12}, 4},
		{"left edge", Position{X: 0, Y: 10}, 3},
		{"right edge", Position{X: MapBorder, Y: 10}, 3},
		{"bottom edge", Position{X: 10, Y: 0}, 3},
		{"top edge", Position{X: 10, Y: MapBorder}, 3},
		{"bottom-left corner", Position{X: 0, Y: 0}, 2},
		{"top-right corner", Position{X: MapBorder, Y: MapBorder}, 2},
		{"bottom-right corner", Position{X: MapBorder, Y: 0}, 2},
		{"top-left corner", Position{X: 0, Y: MapBorder}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			legal := tt.pos.LegalDirections()
			if len(legal) != tt.want {
				t.Errorf("LegalDirections(%d,%d) = %v, want %d directions", tt.pos.X, tt.pos.Y, legal, tt.want)
			}
			for _, dir := range legal {
				if !tt.pos.Apply(dir).InBounds() {
					t.Errorf("legal direction %s leaves the map from (%d,%d)", dir, tt.pos.X, tt.pos.Y)
				}
			}
		})
	}
}

func TestEveryInteriorCellHasAllDirections(t *testing.T) {
	for x := int16(1); x < MapBorder; x++ {
		for y := int16(1); y < MapBorder; y++ {
			if got := len((Position{X: x, Y: y}).LegalDirections()); got != 4 {
				t.Fatalf("interior (%d,%d) has %d legal directions", x, y, got)
			}
		}
	}
}

func TestApply(t *testing.T) {
	pos := Position{X: 5, Y: 5}
	if got := pos.Apply(DirectionLeft); got != (Position{X: 4, Y: 5}) {
		t.Errorf("left: got (%d,%d)", got.X, got.Y)
	}
	if got := pos.Apply(DirectionRight); got != (Position{X: 6, Y: 5}) {
		t.Errorf("right: got (%d,%d)", got.X, got.Y)
	}
	if got := pos.Apply(DirectionUp); got != (Position{X: 5, Y: 6}) {
		t.Errorf("up: got (%d,%d)", got.X, got.Y)
	}
	if got := pos.Apply(DirectionDown); got != (Position{X: 5, Y: 4}) {
		t.Errorf("down: got (%d,%d)", got.X, got.Y)
	}
}
