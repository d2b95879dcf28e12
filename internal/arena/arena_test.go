package arena

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gridbattle/internal/match"
)

func startArena(t *testing.T) (*Arena, *websocket.Conn) {
	t.Helper()
	a := New(match.New(match.Options{Seed: 3}), 120)
	ctx, cancel := context.WithCancel(context.Background())
	go a.Run(ctx)

	srv := httptest.NewServer(NewWebsocketHandler(a))
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)

	t.Cleanup(func() {
		conn.Close()
		cancel()
		srv.Close()
	})
	return a, conn
}

// readUntil reads messages until ok accepts one or the deadline passes.
func readUntil(t *testing.T, conn *websocket.Conn, ok func(Message) bool) Message {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	for {
		var msg Message
		require.NoError(t, conn.ReadJSON(&msg))
		if ok(msg) {
			return msg
		}
	}
}

func TestArena_StreamsStartAndRestart(t *testing.T) {
	a, conn := startArena(t)

	first := readUntil(t, conn, func(m Message) bool { return m.Type == "state" })
	require.NotNil(t, first.Match)
	assert.Equal(t, match.PhasePending, first.Match.Phase)
	assert.NotEmpty(t, first.Match.Units)

	require.NoError(t, conn.WriteJSON(Command{Type: "start"}))
	running := readUntil(t, conn, func(m Message) bool {
		return m.Type == "state" && m.Match.Phase != match.PhasePending && m.Match.Ticks > 0
	})
	assert.Equal(t, first.Match.ID, running.Match.ID)
	assert.Equal(t, 1, a.Spectators())

	require.NoError(t, conn.WriteJSON(Command{Type: "restart"}))
	restarted := readUntil(t, conn, func(m Message) bool {
		return m.Type == "state" && m.Match.ID != first.Match.ID
	})
	assert.Equal(t, match.PhasePending, restarted.Match.Phase)
	assert.Equal(t, 1, restarted.Match.Round)
}

func TestArena_RejectsUnknownCommands(t *testing.T) {
	_, conn := startArena(t)

	require.NoError(t, conn.WriteJSON(Command{Type: "move"}))
	msg := readUntil(t, conn, func(m Message) bool { return m.Type == "error" })
	assert.Contains(t, msg.Error, "unknown command")

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("{not json")))
	msg = readUntil(t, conn, func(m Message) bool { return m.Type == "error" })
	assert.Equal(t, "bad json", msg.Error)
}

func TestArena_CommandErrors(t *testing.T) {
	a := New(match.New(match.Options{Seed: 1}), 0)
	assert.Equal(t, DefaultFPS, a.FPS)

	require.NoError(t, a.Command(Command{Type: "start"}))
	assert.Error(t, a.Command(Command{Type: "start"}), "already running")
	assert.ErrorIs(t, a.Command(Command{Type: "fly"}), ErrUnknownCommand)
	require.NoError(t, a.Command(Command{Type: "restart"}))
	assert.Equal(t, match.PhasePending, a.Match.Phase())
}
