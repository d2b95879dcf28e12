package battle

import "math"

// Vec2 is a position or direction in grid-cell units.
type Vec2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (a Vec2) Add(b Vec2) Vec2          { return Vec2{a.X + b.X, a.Y + b.Y} }
func (a Vec2) Sub(b Vec2) Vec2          { return Vec2{a.X - b.X, a.Y - b.Y} }
func (a Vec2) Scale(s float64) Vec2     { return Vec2{a.X * s, a.Y * s} }
func (a Vec2) Len() float64             { return math.Sqrt(a.X*a.X + a.Y*a.Y) }
func (a Vec2) Dist(b Vec2) float64      { return b.Sub(a).Len() }
func (a Vec2) Manhattan(b Vec2) float64 { return math.Abs(a.X-b.X) + math.Abs(a.Y-b.Y) }

// Norm returns the unit vector of a, or false when a has zero length.
func (a Vec2) Norm() (Vec2, bool) {
	l := a.Len()
	if l == 0 {
		return Vec2{}, false
	}
	return Vec2{a.X / l, a.Y / l}, true
}
