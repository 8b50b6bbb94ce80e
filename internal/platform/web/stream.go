package web

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

// Websocket settings
const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

// handleStream upgrades to a websocket and pushes every published frame of a
// game until the game stops or the spectator disconnects. Spectators cannot
// send commands; anything they write is discarded.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	game, ok := s.game(w, r)
	if !ok {
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "err", err)
		return
	}
	defer conn.Close()

	runner := game.Runner()
	updates, unsubscribe := runner.Subscribe()
	defer unsubscribe()

	gone := make(chan struct{})
	go readPump(conn, gone)

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	s.logger.Debug("spectator joined", "game", game.ID(), "remote", r.RemoteAddr)
	defer s.logger.Debug("spectator left", "game", game.ID(), "remote", r.RemoteAddr)

	if !writeFrame(conn, runner.Frame()) {
		return
	}

	for {
		select {
		case <-updates:
			if !writeFrame(conn, runner.Frame()) {
				return
			}

		case <-runner.Done():
			//nolint:errcheck // closing anyway
			conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, "game ended"),
				time.Now().Add(writeWait))
			return

		case <-ticker.C:
			//nolint:errcheck // a failed ping shows up as a read error
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-gone:
			return
		}
	}
}

func writeFrame(conn *websocket.Conn, frame any) bool {
	//nolint:errcheck // the write below reports a dead connection
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(frame) == nil
}

// readPump drains the connection so control frames are processed, and closes
// gone when the spectator disconnects.
func readPump(conn *websocket.Conn, gone chan<- struct{}) {
	defer close(gone)

	conn.SetReadLimit(maxMessageSize)
	//nolint:errcheck // the read below fails on a dead connection
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
