package hostlink

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/smasonuk/beamscene/scene"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// Server is the remote end: it applies the events of every connected
// client to Host, one call at a time.
type Server struct {
	mu   sync.Mutex
	host scene.Host
}

func NewServer(host scene.Host) *Server {
	return &Server{host: host}
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("websocket upgrade failed", "remote", r.RemoteAddr, "err", err)
		return
	}
	defer conn.Close()
	slog.Info("scene client connected", "remote", r.RemoteAddr)

	done := make(chan struct{})
	defer close(done)
	go ping(conn, done)

	conn.SetReadLimit(maxMessageSize)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error { conn.SetReadDeadline(time.Now().Add(pongWait)); return nil })

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				slog.Warn("scene client dropped", "remote", r.RemoteAddr, "err", err)
			}
			return
		}
		conn.SetReadDeadline(time.Now().Add(pongWait))

		var ack Ack
		var event Event
		if err := json.Unmarshal(data, &event); err != nil {
			ack.Error = fmt.Sprintf("bad event: %v", err)
		} else if err := s.apply(r.Context(), event); err != nil {
			ack.Error = err.Error()
		}
		if ack.Error != "" {
			slog.Warn("scene event failed", "seq", event.Seq, "name", event.Name, "err", ack.Error)
		}

		conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteJSON(Event{Seq: event.Seq, Name: eventAck, Data: ack}); err != nil {
			slog.Warn("could not ack scene event", "seq", event.Seq, "err", err)
			return
		}
	}
}

// ping keeps the connection alive while the client is busy computing.
func ping(conn *websocket.Conn, done <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}

func (s *Server) apply(ctx context.Context, event Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	kind := scene.CommandKind(event.Name)
	bad := func(err error) error {
		return fmt.Errorf("bad %s payload: %w", kind, err)
	}

	switch kind {
	case scene.CmdWorld:
		var w scene.World
		if err := decode(event.Data, &w); err != nil {
			return bad(err)
		}
		return s.host.ConfigureWorld(ctx, w)
	case scene.CmdPrimitive:
		var p PrimitiveData
		if err := decode(event.Data, &p); err != nil {
			return bad(err)
		}
		return s.host.AddPrimitive(ctx, p.Primitive, p.Material)
	case scene.CmdBoolean:
		var op scene.BooleanOp
		if err := decode(event.Data, &op); err != nil {
			return bad(err)
		}
		return s.host.Boolean(ctx, op)
	case scene.CmdImport:
		var p scene.Protein
		if err := decode(event.Data, &p); err != nil {
			return bad(err)
		}
		return s.host.ImportMesh(ctx, p)
	case scene.CmdCamera:
		var c scene.Camera
		if err := decode(event.Data, &c); err != nil {
			return bad(err)
		}
		return s.host.PlaceCamera(ctx, c)
	case scene.CmdLamp:
		var l scene.Lamp
		if err := decode(event.Data, &l); err != nil {
			return bad(err)
		}
		return s.host.AddLamp(ctx, l)
	}
	return fmt.Errorf("unknown event %q", event.Name)
}
