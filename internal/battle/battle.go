package battle

import (
	"math/rand"
	"time"

	"gridbattle/internal/util"
)

const (
	DefaultMinUnits = 10
	DefaultMaxUnits = 20
)

// Options configure roster generation. Zero values fall back to the defaults;
// Seed 0 draws a seed from the clock.
type Options struct {
	Seed     int64
	MinUnits int
	MaxUnits int
}

func (o Options) bounds() (int, int) {
	lo, hi := o.MinUnits, o.MaxUnits
	if lo <= 0 {
		lo = DefaultMinUnits
	}
	if hi <= 0 {
		hi = DefaultMaxUnits
	}
	if hi < lo {
		hi = lo
	}
	return lo, hi
}

// Battle owns both rosters and drives the fixed-interval tick. It is not
// safe for concurrent use; wrap it (see package match) when several
// goroutines read it.
type Battle struct {
	rng      *rand.Rand
	minUnits int
	maxUnits int

	slots   []*Unit
	rosters [2][]Handle
	order   []Handle // team 0 roster followed by team 1 roster

	last    time.Duration
	started bool
	ticks   int
	outcome Outcome
}

// New returns an empty battle. Call Initialize for a random match, or Place
// followed by SeedTargets for a scripted one.
func New(opts Options) *Battle {
	lo, hi := opts.bounds()
	return &Battle{
		rng:      util.NewRand(opts.Seed),
		minUnits: lo,
		maxUnits: hi,
	}
}

// Initialize discards all state and deploys fresh random rosters at opposite
// edges of the field.
func (b *Battle) Initialize() {
	b.reset()
	for _, team := range Teams {
		row := 0.0
		if team == Team1 {
			row = FieldSize - 1
		}
		n := b.minUnits + b.rng.Intn(b.maxUnits-b.minUnits+1)
		for i := 0; i < n; i++ {
			class := Classes[b.rng.Intn(len(Classes))]
			col := float64(b.rng.Intn(FieldSize))
			b.Place(team, class, Vec2{X: col, Y: row})
		}
	}
	b.SeedTargets()
}

func (b *Battle) reset() {
	b.slots = nil
	b.rosters = [2][]Handle{}
	b.order = nil
	b.last = 0
	b.started = false
	b.ticks = 0
	b.outcome = Running
}

// Place deploys one unit and returns its handle. Ids count up per team in
// creation order.
func (b *Battle) Place(team Team, class Class, pos Vec2) Handle {
	u := newUnit(len(b.rosters[team]), team, class, pos)
	h := Handle(len(b.slots))
	u.handle = h
	b.slots = append(b.slots, u)
	b.rosters[team] = append(b.rosters[team], h)
	b.rebuildOrder()
	return h
}

func (b *Battle) rebuildOrder() {
	b.order = b.order[:0]
	b.order = append(b.order, b.rosters[Team0]...)
	b.order = append(b.order, b.rosters[Team1]...)
}

// SeedTargets gives every unit its initial target from the full opposing
// roster.
func (b *Battle) SeedTargets() {
	for _, h := range b.order {
		u := b.slots[h]
		u.acquire(b, b.rosters[u.Team.Opponent()])
	}
}

// Lookup resolves a handle. It reports false for handles whose unit has
// been removed.
func (b *Battle) Lookup(h Handle) (*Unit, bool) {
	if h < 0 || int(h) >= len(b.slots) {
		return nil, false
	}
	u := b.slots[h]
	return u, u != nil
}

// Tick advances the simulation by one step if at least RefreshRate has
// passed since the last effective tick; the first call is always due. It
// reports whether a step happened. A decided battle never steps again.
//
// Units are updated in the fixed order team 0 then team 1, each in creation
// order, and every update's damage lands before the next unit acts. Units
// whose update reports not-alive are removed once the sweep is complete; a
// unit killed after its own update lingers, dead, until the next tick.
func (b *Battle) Tick(now time.Duration) bool {
	if b.outcome.Over {
		return false
	}
	if b.started && now-b.last < RefreshRate {
		return false
	}
	b.last = now
	b.started = true
	b.ticks++

	var dead []Handle
	for _, h := range b.order {
		u := b.slots[h]
		if !u.Update(b, b.rosters[u.Team.Opponent()]) {
			dead = append(dead, h)
		}
	}
	b.prune(dead)

	switch {
	case len(b.rosters[Team0]) == 0:
		b.outcome = Won(Team1)
	case len(b.rosters[Team1]) == 0:
		b.outcome = Won(Team0)
	}
	return true
}

// prune invalidates the given slots and drops them from both rosters and
// the sweep order.
func (b *Battle) prune(dead []Handle) {
	if len(dead) == 0 {
		return
	}
	for _, h := range dead {
		b.slots[h] = nil
	}
	for _, team := range Teams {
		kept := b.rosters[team][:0]
		for _, h := range b.rosters[team] {
			if b.slots[h] != nil {
				kept = append(kept, h)
			}
		}
		b.rosters[team] = kept
	}
	b.rebuildOrder()
}

func (b *Battle) Outcome() Outcome { return b.outcome }
func (b *Battle) Ticks() int       { return b.ticks }

// Winner returns the winning team once the battle is decided.
func (b *Battle) Winner() (Team, bool) { return b.outcome.Winner, b.outcome.Over }

// Count returns the number of living units on team t. A unit killed this
// tick is not counted even though it is still on the roster.
func (b *Battle) Count(t Team) int {
	n := 0
	for _, h := range b.rosters[t] {
		if b.slots[h].Health > 0 {
			n++
		}
	}
	return n
}

// Roster returns team t's units in creation order.
func (b *Battle) Roster(t Team) []*Unit {
	out := make([]*Unit, 0, len(b.rosters[t]))
	for _, h := range b.rosters[t] {
		out = append(out, b.slots[h])
	}
	return out
}

// Units returns the combined view in sweep order.
func (b *Battle) Units() []*Unit {
	out := make([]*Unit, 0, len(b.order))
	for _, h := range b.order {
		out = append(out, b.slots[h])
	}
	return out
}
