package server

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/scschwa/nord-stage-3-interface/session"
)

const (
	pingInterval = 30 * time.Second
	writeTimeout = 60 * time.Second
)

var upgrader = websocket.Upgrader{
	// sidecar is localhost-only; the CORS layer owns origin policy
	CheckOrigin: func(r *http.Request) bool { return true },
}

// HandleEvents streams live session updates (held notes, chord,
// recording state) to the display client.
func (s *Server) HandleEvents(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logrus.Errorln("upgrade:", err)
		return
	}

	ch := s.session.Subscribe()
	endch := make(chan struct{})
	go readPump(conn, endch)
	go s.writePump(conn, ch, endch)
}

func readPump(conn *websocket.Conn, endch chan struct{}) {
	defer close(endch)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logrus.Debugln("websocket read:", err)
			}
			return
		}
	}
}

func (s *Server) writePump(conn *websocket.Conn, ch chan session.Update, endch chan struct{}) {
	defer conn.Close()
	defer s.session.Unsubscribe(ch)

	t := time.NewTicker(pingInterval)
	defer t.Stop()
	for {
		select {
		case update, ok := <-ch:
			if !ok {
				return
			}
			conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := conn.WriteJSON(update); err != nil {
				logrus.Errorln("websocket send:", err)
				return
			}
		case <-t.C:
			conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-endch:
			return
		}
	}
}
