package battle

import (
	"math"
	"time"
)

const (
	// RefreshRate is the minimum simulated time between effective ticks.
	RefreshRate = 100 * time.Millisecond
	// FieldSize is the side length of the square battlefield in cells.
	FieldSize = 20
	// AttackCooldownMax is the time a unit waits between two attacks.
	AttackCooldownMax = time.Second
	// CooldownTicks is AttackCooldownMax expressed in ticks.
	CooldownTicks = int(AttackCooldownMax / RefreshRate)
)

var (
	tickSeconds = RefreshRate.Seconds()
	// Target refresh countdown reset. It is counted down one per tick, so a
	// value below one forces a fresh acquisition every other tick.
	targetRefreshReset = 3 * tickSeconds
)

// Handle is a stable index into a battle's unit table.
type Handle int

// NoHandle marks an unset target.
const NoHandle Handle = -1

// World resolves handles to units. A false result means the slot was
// invalidated: the unit died and was removed.
type World interface {
	Lookup(h Handle) (*Unit, bool)
}

// Unit is one combatant. Its class stats are looked up, never copied.
type Unit struct {
	ID     int   `json:"id"`
	Team   Team  `json:"team"`
	Class  Class `json:"class"`
	Pos    Vec2  `json:"pos"`
	Health int   `json:"health"`

	handle   Handle
	target   Handle
	inRange  bool
	cooldown int
	refresh  float64
}

func newUnit(id int, team Team, class Class, pos Vec2) *Unit {
	return &Unit{
		ID:     id,
		Team:   team,
		Class:  class,
		Pos:    pos,
		Health: class.Stats().Health,
		handle: NoHandle,
		target: NoHandle,
	}
}

func (u *Unit) Handle() Handle { return u.handle }
func (u *Unit) Alive() bool    { return u.Health > 0 }
func (u *Unit) InRange() bool  { return u.inRange }
func (u *Unit) Cooldown() int  { return u.cooldown }

// Target returns the current target handle, if one is assigned. The target
// may already be dead; resolve it through the battle before use.
func (u *Unit) Target() (Handle, bool) { return u.target, u.target != NoHandle }

// HealthRatio is current over max health, for health bars.
func (u *Unit) HealthRatio() float64 {
	maxHP := u.Class.Stats().Health
	if maxHP <= 0 {
		return 0
	}
	return float64(u.Health) / float64(maxHP)
}

// Update runs one tick of decision logic against the opposing roster and
// reports whether the unit is still alive. Damage to the target is applied
// immediately.
func (u *Unit) Update(w World, enemies []Handle) bool {
	if u.cooldown > 0 {
		u.cooldown--
	}
	if u.Health <= 0 {
		return false
	}

	if u.target != NoHandle && u.inRange && u.cooldown == 0 {
		if t, ok := u.liveTarget(w); ok {
			u.attack(t)
			return true
		}
		u.acquire(w, enemies)
	}

	if _, ok := u.liveTarget(w); u.refresh <= 0 || !ok {
		u.acquire(w, enemies)
		u.refresh = targetRefreshReset
	} else {
		u.refresh--
	}

	if t, ok := u.liveTarget(w); ok {
		u.engage(t)
	}
	return true
}

// liveTarget resolves the target handle. Removed and dead targets both count
// as no target.
func (u *Unit) liveTarget(w World) (*Unit, bool) {
	if u.target == NoHandle {
		return nil, false
	}
	t, ok := w.Lookup(u.target)
	if !ok || t.Health <= 0 {
		return nil, false
	}
	return t, true
}

func (u *Unit) attack(t *Unit) {
	t.Health -= u.Class.Stats().Damage
	u.cooldown = CooldownTicks
}

// acquire picks the living enemy with the smallest Manhattan distance. The
// first one in roster order wins ties.
func (u *Unit) acquire(w World, enemies []Handle) {
	u.target = NoHandle
	best := math.Inf(1)
	for _, h := range enemies {
		e, ok := w.Lookup(h)
		if !ok || e.Health <= 0 || e.Team == u.Team {
			continue
		}
		if d := u.Pos.Manhattan(e.Pos); d < best {
			best = d
			u.target = h
		}
	}
}

// engage checks range against t and closes distance when out of range.
func (u *Unit) engage(t *Unit) {
	stats := u.Class.Stats()
	if u.Pos.Dist(t.Pos) <= stats.Range {
		u.inRange = true
		return
	}
	u.inRange = false

	dir, ok := t.Pos.Sub(u.Pos).Norm()
	if !ok {
		return
	}
	u.Pos = u.Pos.Add(dir.Scale(stats.Speed * tickSeconds))
}
