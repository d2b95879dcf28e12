package battle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(i int) time.Duration { return time.Duration(i) * RefreshRate }

func TestClassStats(t *testing.T) {
	tests := []struct {
		class  Class
		health int
		damage int
		rng    float64
		speed  float64
		shape  string
	}{
		{Infantry, 100, 10, 1, 1, "circle"},
		{Archer, 70, 15, 3, 1, "triangle"},
		{Cavalry, 80, 15, 1, 2, "square"},
		{Artillery, 120, 25, 5, 0.5, "hexagon"},
	}
	for _, tt := range tests {
		t.Run(tt.class.String(), func(t *testing.T) {
			s := tt.class.Stats()
			assert.Equal(t, tt.health, s.Health)
			assert.Equal(t, tt.damage, s.Damage)
			assert.Equal(t, tt.rng, s.Range)
			assert.Equal(t, tt.speed, s.Speed)
			assert.Equal(t, tt.shape, tt.class.Shape())

			parsed, err := ParseClass(tt.class.String())
			require.NoError(t, err)
			assert.Equal(t, tt.class, parsed)
		})
	}

	_, err := ParseClass("dragon")
	assert.Error(t, err)
	assert.Equal(t, ClassStats{}, Class(9).Stats())
}

func TestCooldownTicks(t *testing.T) {
	assert.Equal(t, 10, CooldownTicks)
}

func TestAcquire_ManhattanNotEuclidean(t *testing.T) {
	b := New(Options{Seed: 1})
	me := b.Place(Team0, Infantry, Vec2{0, 0})
	// manhattan 3 beats manhattan 4 even though the second is nearer in a straight line
	straight := b.Place(Team1, Infantry, Vec2{3, 0})
	_ = b.Place(Team1, Infantry, Vec2{2, 2})
	b.SeedTargets()

	u, _ := b.Lookup(me)
	target, ok := u.Target()
	require.True(t, ok)
	assert.Equal(t, straight, target)
}

func TestAcquire_TieGoesToRosterOrder(t *testing.T) {
	b := New(Options{Seed: 1})
	me := b.Place(Team0, Infantry, Vec2{0, 0})
	first := b.Place(Team1, Archer, Vec2{2, 0})
	_ = b.Place(Team1, Archer, Vec2{1, 1})
	_ = b.Place(Team1, Archer, Vec2{0, 2})
	b.SeedTargets()

	u, _ := b.Lookup(me)
	target, _ := u.Target()
	assert.Equal(t, first, target)
}

func TestAcquire_SkipsDeadAndAllies(t *testing.T) {
	b := New(Options{Seed: 1})
	me := b.Place(Team0, Infantry, Vec2{0, 0})
	ally := b.Place(Team0, Infantry, Vec2{0, 1})
	corpse := b.Place(Team1, Infantry, Vec2{1, 0})
	alive := b.Place(Team1, Infantry, Vec2{5, 5})

	c, _ := b.Lookup(corpse)
	c.Health = 0

	u, _ := b.Lookup(me)
	u.acquire(b, []Handle{ally, corpse, alive})
	target, ok := u.Target()
	require.True(t, ok)
	assert.Equal(t, alive, target)

	c2, _ := b.Lookup(alive)
	c2.Health = -3
	u.acquire(b, []Handle{ally, corpse, alive})
	_, ok = u.Target()
	assert.False(t, ok)
}

func TestUpdate_AttackDamageAndCooldown(t *testing.T) {
	b := New(Options{Seed: 1})
	a := b.Place(Team0, Infantry, Vec2{0, 0})
	d := b.Place(Team1, Infantry, Vec2{0, 1})
	b.SeedTargets()
	attacker, _ := b.Lookup(a)
	defender, _ := b.Lookup(d)

	// first tick only establishes range
	require.True(t, b.Tick(at(0)))
	assert.True(t, attacker.InRange())
	assert.Equal(t, 100, defender.Health)

	require.True(t, b.Tick(at(1)))
	assert.Equal(t, 90, defender.Health)
	assert.Equal(t, 90, attacker.Health)
	assert.Equal(t, CooldownTicks, attacker.Cooldown())

	for i := 2; i <= 10; i++ {
		require.True(t, b.Tick(at(i)))
		assert.Equal(t, 90, defender.Health, "tick %d attacked during cooldown", i)
		assert.Equal(t, CooldownTicks-(i-1), attacker.Cooldown())
	}

	require.True(t, b.Tick(at(11)))
	assert.Equal(t, 80, defender.Health)
	assert.Equal(t, CooldownTicks, attacker.Cooldown())
}

func TestUpdate_DeadUnitReportsNotAlive(t *testing.T) {
	b := New(Options{Seed: 1})
	h := b.Place(Team0, Cavalry, Vec2{0, 0})
	e := b.Place(Team1, Cavalry, Vec2{0, 9})
	b.SeedTargets()
	u, _ := b.Lookup(h)
	u.cooldown = 4
	u.Health = 0

	assert.False(t, u.Update(b, []Handle{e}))
	assert.Equal(t, 3, u.Cooldown())
	assert.Equal(t, Vec2{0, 0}, u.Pos)
}

func TestUpdate_MovesTowardTarget(t *testing.T) {
	b := New(Options{Seed: 1})
	h := b.Place(Team0, Cavalry, Vec2{0, 0})
	e := b.Place(Team1, Artillery, Vec2{0, 10})
	b.SeedTargets()
	u, _ := b.Lookup(h)

	require.True(t, u.Update(b, []Handle{e}))
	assert.False(t, u.InRange())
	assert.InDelta(t, 0, u.Pos.X, 1e-12)
	assert.InDelta(t, 0.2, u.Pos.Y, 1e-12)
}

func TestUpdate_OverlappingTargetDoesNotMove(t *testing.T) {
	b := New(Options{Seed: 1})
	h := b.Place(Team0, Infantry, Vec2{4, 4})
	e := b.Place(Team1, Infantry, Vec2{4, 4})
	b.SeedTargets()
	u, _ := b.Lookup(h)

	require.True(t, u.Update(b, []Handle{e}))
	assert.True(t, u.InRange())
	assert.Equal(t, Vec2{4, 4}, u.Pos)

	_, ok := Vec2{}.Norm()
	assert.False(t, ok)
}

func TestUpdate_RemovedTargetIsReacquired(t *testing.T) {
	b := New(Options{Seed: 1})
	h := b.Place(Team0, Infantry, Vec2{0, 0})
	gone := b.Place(Team1, Infantry, Vec2{0, 1})
	next := b.Place(Team1, Infantry, Vec2{0, 6})
	b.SeedTargets()
	u, _ := b.Lookup(h)
	u.inRange = true

	g, _ := b.Lookup(gone)
	g.Health = 0
	b.prune([]Handle{gone})
	_, ok := b.Lookup(gone)
	require.False(t, ok)

	require.True(t, u.Update(b, b.rosters[Team1]))
	target, ok := u.Target()
	require.True(t, ok)
	assert.Equal(t, next, target)
	assert.Equal(t, 0, u.Cooldown(), "must not have attacked")
}

func TestHealthRatio(t *testing.T) {
	u := newUnit(0, Team0, Archer, Vec2{})
	assert.Equal(t, 1.0, u.HealthRatio())
	u.Health = 35
	assert.Equal(t, 0.5, u.HealthRatio())
}
