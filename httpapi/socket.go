package httpapi

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"pairchat/auth"
	"pairchat/domain"
	"pairchat/ws"
)

// handleSocket upgrades the request and runs the connection until either
// side closes it. A connection that presents a valid session token joins
// the registry under its identity; anything else rides along anonymously,
// seeing presence but never receiving relays.
func (s *Server) handleSocket(c *gin.Context) {
	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.log.Warn("websocket upgrade failed", "error", err)
		return
	}

	sink := ws.NewSink(s.connectionBufferSize)
	identity, identified := s.socketIdentity(c)

	if identified {
		reg := s.hub.Attach(identity, sink)
		defer s.hub.Detach(identity, reg, sink)
		s.log.Info("connection attached", "identity", identity)
	} else {
		s.hub.AttachAnonymous(sink)
		defer s.hub.DetachAnonymous(sink)
		s.log.Info("anonymous connection attached")
	}

	done := make(chan struct{})
	go s.readPump(conn, done)
	s.writePump(conn, sink, done)

	conn.Close()
	if identified {
		s.log.Info("connection detached", "identity", identity)
	}
}

// socketIdentity resolves the connection's identity from the session
// cookie, or from a "token" query parameter for clients that cannot send
// cookies on the websocket handshake.
func (s *Server) socketIdentity(c *gin.Context) (domain.Identity, bool) {
	raw, err := c.Cookie(auth.SessionCookie)
	if err != nil || raw == "" {
		raw = c.Query("token")
	}
	if raw == "" {
		return "", false
	}

	claims, err := s.tokens.Validate(raw)
	if err != nil {
		s.log.Debug("rejecting socket credentials", "error", err)
		return "", false
	}
	return domain.Identity(claims.UserID), true
}

// readPump discards inbound frames. Clients talk to the server over the
// HTTP API; the socket exists for server pushes. Its read loop is still
// needed to notice the peer going away.
func (s *Server) readPump(conn *websocket.Conn, done chan<- struct{}) {
	defer close(done)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// writePump serializes all writes to the socket: every event the hub hands
// the sink becomes one JSON frame. It returns when the reader reports the
// peer gone or a write fails.
func (s *Server) writePump(conn *websocket.Conn, sink *ws.Sink, done <-chan struct{}) {
	for {
		select {
		case <-done:
			return
		case e := <-sink.Events():
			frame, ok := ws.FromEvent(e)
			if !ok {
				continue
			}
			conn.SetWriteDeadline(time.Now().Add(s.writeTimeout))
			if err := conn.WriteJSON(frame); err != nil {
				return
			}
		}
	}
}
