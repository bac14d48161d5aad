package web

import (
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/tui-duel/internal/multiplayer"
	"github.com/vovakirdan/tui-duel/internal/protocol"
)

// handleWS upgrades the request and attaches the connection to the host as
// one session. Query parameters: name (display name) and codec (json or
// msgpack).
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	codec, err := protocol.CodecByName(r.URL.Query().Get("codec"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	name := sanitizeName(r.URL.Query().Get("name"))

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already replied to the client
		s.logger.Warn("websocket upgrade failed", "remote", r.RemoteAddr, "error", err)
		return
	}

	session := multiplayer.NewChannelSession(multiplayer.NewSessionID("ws"), name, 256)
	logger := s.logger.With("id", session.ID(), "codec", codec.Name())
	logger.Info("websocket connected", "name", name, "remote", r.RemoteAddr)

	c := &wsConn{
		conn:    conn,
		codec:   codec,
		session: session,
		host:    s.host,
		tickHz:  s.host.Config().Timing.TickRate,
		logger:  logger,
	}
	s.track(c)
	defer s.untrack(c)
	s.host.Connect(session)
	c.serve()
	logger.Info("websocket closed")
}

func sanitizeName(name string) string {
	name = strings.TrimSpace(name)
	name = strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, name)
	if name == "" {
		return "guest"
	}
	if runes := []rune(name); len(runes) > maxNameLen {
		name = string(runes[:maxNameLen])
	}
	return name
}

// wsConn pumps one WebSocket. The read loop runs on the handler goroutine
// and writePump is the connection's only writer.
type wsConn struct {
	conn    *websocket.Conn
	codec   protocol.Codec
	session *multiplayer.ChannelSession
	host    Host
	tickHz  int
	logger  *log.Logger
}

func (c *wsConn) serve() {
	written := make(chan struct{})
	go func() {
		defer close(written)
		c.writePump()
	}()

	c.readPump()

	// Closing the session disconnects it from the host and stops writePump
	c.session.Close()
	<-written
	c.conn.Close()
}

func (c *wsConn) readPump() {
	c.conn.SetReadLimit(readLimit)
	_ = c.conn.SetReadDeadline(time.Now().Add(readTimeout))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(readTimeout))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Debug("read failed", "error", err)
			}
			return
		}
		_ = c.conn.SetReadDeadline(time.Now().Add(readTimeout))

		msg, err := protocol.DecodeClient(c.codec, data, c.session.ID())
		if err != nil {
			c.logger.Debug("dropping bad frame", "error", err)
			continue
		}
		if msg != nil {
			c.host.Send(msg)
		}
	}
}

func (c *wsConn) writePump() {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	msgType := websocket.TextMessage
	if c.codec.Binary() {
		msgType = websocket.BinaryMessage
	}

	for {
		select {
		case <-c.session.Done():
			_ = c.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(writeTimeout))
			return

		case evt := <-c.session.Events():
			frame, err := protocol.EncodeEvent(c.codec, evt, c.tickHz)
			if err != nil {
				c.logger.Error("cannot encode event", "event", evt, "error", err)
				continue
			}
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.conn.WriteMessage(msgType, frame); err != nil {
				c.logger.Debug("write failed", "error", err)
				c.conn.Close() // unblocks readPump
				return
			}

			if rej, ok := evt.(multiplayer.RejectedEvent); ok {
				_ = c.conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.ClosePolicyViolation, rej.Reason),
					time.Now().Add(writeTimeout))
				c.conn.Close()
				return
			}

		case <-ticker.C:
			if err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeTimeout)); err != nil {
				c.conn.Close()
				return
			}
		}
	}
}
