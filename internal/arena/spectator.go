package arena

import (
	"github.com/gorilla/websocket"

	"gridbattle/internal/match"
)

type Spectator struct {
	ID   string
	Conn *websocket.Conn
	Send chan []byte
}

// Message is everything the server pushes to spectators.
type Message struct {
	Type  string      `json:"type"` // "state" | "error"
	Match *match.View `json:"match,omitempty"`
	Error string      `json:"error,omitempty"`
}

// Command is the only thing spectators may send.
type Command struct {
	Type string `json:"type"` // "start" | "restart"
}
