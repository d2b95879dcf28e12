package arena

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"gridbattle/internal/logging"
	"gridbattle/internal/match"
)

const DefaultFPS = 60

// ErrUnknownCommand is returned for anything but start and restart.
var ErrUnknownCommand = errors.New("unknown command")

// Arena drives one match on a frame clock and streams it to spectators.
// Spectators are owned by the Run goroutine; everything else may be called
// from any goroutine.
type Arena struct {
	Match *match.Match
	FPS   int

	spectators map[*Spectator]bool
	register   chan *Spectator
	unregister chan *Spectator
	replies    chan reply
	done       chan struct{}

	dirty   atomic.Bool
	watched atomic.Int32
	now     func() time.Time
}

func New(m *match.Match, fps int) *Arena {
	if fps <= 0 {
		fps = DefaultFPS
	}
	return &Arena{
		Match:      m,
		FPS:        fps,
		spectators: make(map[*Spectator]bool),
		register:   make(chan *Spectator),
		unregister: make(chan *Spectator),
		replies:    make(chan reply),
		done:       make(chan struct{}),
		now:        time.Now,
	}
}

// Run is the frame loop. Every frame advances the match (a no-op unless a
// tick is due) and pushes state to spectators when something changed. It
// returns when ctx is cancelled.
func (a *Arena) Run(ctx context.Context) {
	ticker := time.NewTicker(time.Second / time.Duration(a.FPS))
	defer ticker.Stop()
	defer close(a.done)
	defer a.dropAll()

	for {
		select {
		case <-ctx.Done():
			return
		case s := <-a.register:
			a.spectators[s] = true
			a.watched.Add(1)
			a.send(s, a.stateMessage())
			logging.Info("spectator joined", logging.Fields{"spectator": s.ID})
		case s := <-a.unregister:
			if a.spectators[s] {
				delete(a.spectators, s)
				close(s.Send)
				a.watched.Add(-1)
				logging.Info("spectator left", logging.Fields{"spectator": s.ID})
			}
		case r := <-a.replies:
			if a.spectators[r.to] {
				a.send(r.to, r.data)
			}
		case <-ticker.C:
			stepped := a.Match.Advance(a.now())
			if changed := a.dirty.Swap(false); stepped || changed {
				a.broadcast(a.stateMessage())
			}
		}
	}
}

// Command applies a spectator command to the match.
func (a *Arena) Command(cmd Command) error {
	switch cmd.Type {
	case "start":
		if !a.Match.Start(a.now()) {
			return fmt.Errorf("match is %s, not pending", a.Match.Phase())
		}
	case "restart":
		a.Match.Restart()
	default:
		return fmt.Errorf("%w: %q", ErrUnknownCommand, cmd.Type)
	}
	a.dirty.Store(true)
	return nil
}

type reply struct {
	to   *Spectator
	data []byte
}

// Spectators reports how many connections are watching.
func (a *Arena) Spectators() int { return int(a.watched.Load()) }

func (a *Arena) stateMessage() []byte {
	view := a.Match.Snapshot()
	data, err := json.Marshal(Message{Type: "state", Match: &view})
	if err != nil {
		logging.Error("encode state", err, logging.Fields{"match": view.ID})
		return nil
	}
	return data
}

func (a *Arena) broadcast(data []byte) {
	for s := range a.spectators {
		a.send(s, data)
	}
}

// send never blocks the frame loop; a spectator that cannot keep up misses
// frames rather than stalling the match.
func (a *Arena) send(s *Spectator, data []byte) {
	if data == nil {
		return
	}
	select {
	case s.Send <- data:
	default:
		logging.Warn("spectator lagging, frame dropped", logging.Fields{"spectator": s.ID})
	}
}

func (a *Arena) dropAll() {
	for s := range a.spectators {
		delete(a.spectators, s)
		close(s.Send)
	}
	a.watched.Store(0)
}
