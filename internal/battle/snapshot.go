package battle

import "time"

// UnitView is the read-only picture of a unit handed to renderers.
type UnitView struct {
	ID          int     `json:"id"`
	Team        Team    `json:"team"`
	Class       Class   `json:"class"`
	Shape       string  `json:"shape"`
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	Health      int     `json:"health"`
	MaxHealth   int     `json:"max_health"`
	HealthRatio float64 `json:"health_ratio"`
	InRange     bool    `json:"in_range"`
}

// Snapshot is a value copy of the battle; it shares nothing with the live
// state.
type Snapshot struct {
	Units   []UnitView    `json:"units"`
	Counts  [2]int        `json:"counts"`
	Outcome Outcome       `json:"outcome"`
	Ticks   int           `json:"ticks"`
	Elapsed time.Duration `json:"elapsed_ns"`
}

func (b *Battle) Snapshot() Snapshot {
	s := Snapshot{
		Units:   make([]UnitView, 0, len(b.order)),
		Counts:  [2]int{b.Count(Team0), b.Count(Team1)},
		Outcome: b.outcome,
		Ticks:   b.ticks,
		Elapsed: time.Duration(b.ticks) * RefreshRate,
	}
	for _, u := range b.Units() {
		s.Units = append(s.Units, UnitView{
			ID:          u.ID,
			Team:        u.Team,
			Class:       u.Class,
			Shape:       u.Class.Shape(),
			X:           u.Pos.X,
			Y:           u.Pos.Y,
			Health:      u.Health,
			MaxHealth:   u.Class.Stats().Health,
			HealthRatio: u.HealthRatio(),
			InRange:     u.inRange,
		})
	}
	return s
}
