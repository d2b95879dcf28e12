package arena

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"gridbattle/internal/logging"
)

const (
	writeWait      = 10 * time.Second
	maxCommandSize = 512
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// NewWebsocketHandler upgrades the request and attaches a spectator. The
// arena's Run loop must be running.
func NewWebsocketHandler(a *Arena) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logging.Warn("websocket upgrade failed", logging.Fields{"error": err.Error(), "remote": r.RemoteAddr})
			return
		}

		s := &Spectator{
			ID:   "s-" + uuid.NewString(),
			Conn: conn,
			Send: make(chan []byte, 256),
		}

		select {
		case a.register <- s:
		case <-a.done:
			conn.Close()
			return
		}
		go writePump(s)
		go readPump(s, a)
	}
}

func readPump(s *Spectator, a *Arena) {
	defer func() {
		select {
		case a.unregister <- s:
		case <-a.done:
		}
		s.Conn.Close()
	}()
	s.Conn.SetReadLimit(maxCommandSize)

	for {
		_, message, err := s.Conn.ReadMessage()
		if err != nil {
			break
		}

		var cmd Command
		if err := json.Unmarshal(message, &cmd); err != nil {
			a.replyError(s, "bad json")
			continue
		}
		if err := a.Command(cmd); err != nil {
			logging.Warn("command rejected", logging.Fields{"spectator": s.ID, "command": cmd.Type, "reason": err.Error()})
			a.replyError(s, err.Error())
		}
	}
}

func writePump(s *Spectator) {
	defer func() { s.Conn.Close() }()
	for message := range s.Send {
		s.Conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := s.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
			return
		}
	}
	s.Conn.SetWriteDeadline(time.Now().Add(writeWait))
	s.Conn.WriteMessage(websocket.CloseMessage, []byte{})
}

func (a *Arena) replyError(s *Spectator, text string) {
	data, _ := json.Marshal(Message{Type: "error", Error: text})
	select {
	case a.replies <- reply{to: s, data: data}:
	case <-a.done:
	}
}
