package match

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"gridbattle/internal/battle"
	"gridbattle/internal/logging"
)

// Phase is the lifecycle state the presentation layer sees.
type Phase string

const (
	PhasePending Phase = "pending" // rosters deployed, waiting for start
	PhaseRunning Phase = "running"
	PhaseOver    Phase = "over"
)

type Options struct {
	// Seed 0 gives every match a fresh random roster. Otherwise restart n
	// plays seed+n, so a session replays exactly.
	Seed     int64
	MinUnits int
	MaxUnits int
}

// Match wraps one battle with the start/restart commands. Readers may call
// Snapshot from any goroutine; the simulation itself only advances under
// the write lock.
type Match struct {
	mu sync.RWMutex

	opts      Options
	id        string
	round     int
	battle    *battle.Battle
	phase     Phase
	startedAt time.Time

	// OnGameOver runs once per match when a team is eliminated, outside the lock.
	OnGameOver func(id string, winner battle.Team, snap battle.Snapshot)
}

// View is the snapshot handed to renderers and the network.
type View struct {
	ID    string `json:"id"`
	Phase Phase  `json:"phase"`
	Round int    `json:"round"`
	battle.Snapshot
}

func New(opts Options) *Match {
	m := &Match{opts: opts}
	m.deploy()
	return m
}

// deploy builds a fresh battle for the current round. Caller holds the lock
// (or owns m exclusively).
func (m *Match) deploy() {
	seed := m.opts.Seed
	if seed != 0 {
		seed += int64(m.round)
	}
	b := battle.New(battle.Options{Seed: seed, MinUnits: m.opts.MinUnits, MaxUnits: m.opts.MaxUnits})
	b.Initialize()

	m.battle = b
	m.id = uuid.NewString()
	m.phase = PhasePending
	m.startedAt = time.Time{}

	logging.Info("match deployed", logging.Fields{
		"match": m.id,
		"round": m.round,
		"red":   b.Count(battle.Team0),
		"blue":  b.Count(battle.Team1),
	})
}

// Start moves a pending match to running. It reports false in any other
// phase.
func (m *Match) Start(now time.Time) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.phase != PhasePending {
		return false
	}
	m.phase = PhaseRunning
	m.startedAt = now
	logging.Info("match started", logging.Fields{"match": m.id})
	return true
}

// Restart throws the current battle away and deploys a new one, waiting
// for start again.
func (m *Match) Restart() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.round++
	m.deploy()
}

// Advance is meant to be called every frame. It ticks the battle with the
// time elapsed since start and reports whether an effective tick happened.
func (m *Match) Advance(now time.Time) bool {
	m.mu.Lock()
	if m.phase != PhaseRunning {
		m.mu.Unlock()
		return false
	}
	stepped := m.battle.Tick(now.Sub(m.startedAt))
	winner, over := m.battle.Winner()
	var (
		id     string
		snap   battle.Snapshot
		notify func(string, battle.Team, battle.Snapshot)
	)
	if over {
		m.phase = PhaseOver
		id, snap, notify = m.id, m.battle.Snapshot(), m.OnGameOver
		logging.Info("match over", logging.Fields{
			"match":  m.id,
			"winner": winner.String(),
			"ticks":  m.battle.Ticks(),
			"left":   m.battle.Count(winner),
		})
	}
	m.mu.Unlock()

	if notify != nil {
		notify(id, winner, snap)
	}
	return stepped
}

func (m *Match) Phase() Phase {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.phase
}

func (m *Match) ID() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.id
}

func (m *Match) Snapshot() View {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return View{
		ID:       m.id,
		Phase:    m.phase,
		Round:    m.round,
		Snapshot: m.battle.Snapshot(),
	}
}
