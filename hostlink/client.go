package hostlink

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/smasonuk/beamscene/scene"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 1 << 20
)

// Client is a scene.Host whose calls run on a remote host. Calls are sent
// one at a time and each waits for its ack.
type Client struct {
	mu   sync.Mutex
	conn *websocket.Conn
	seq  uint64

	// AckTimeout bounds the wait for each ack.
	AckTimeout time.Duration
}

var _ scene.Host = (*Client)(nil)

// Dial connects to the remote host listening at url (ws:// or wss://).
func Dial(ctx context.Context, url string) (*Client, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("could not connect to host %s: %w", url, err)
	}
	conn.SetReadLimit(maxMessageSize)
	slog.Info("connected to host", "url", url)
	return &Client{conn: conn, AckTimeout: pongWait}, nil
}

// Close says goodbye and closes the connection.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	if err := c.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait)); err != nil {
		slog.Debug("close message not sent", "err", err)
	}
	return c.conn.Close()
}

func (c *Client) deadline(ctx context.Context, wait time.Duration) time.Time {
	d := time.Now().Add(wait)
	if cd, ok := ctx.Deadline(); ok && cd.Before(d) {
		return cd
	}
	return d
}

func (c *Client) call(ctx context.Context, kind scene.CommandKind, data interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	c.seq++
	seq := c.seq

	c.conn.SetWriteDeadline(c.deadline(ctx, writeWait))
	if err := c.conn.WriteJSON(Event{Seq: seq, Name: string(kind), Data: data}); err != nil {
		return fmt.Errorf("send %s: %w", kind, err)
	}

	c.conn.SetReadDeadline(c.deadline(ctx, c.AckTimeout))
	for {
		var reply Event
		if err := c.conn.ReadJSON(&reply); err != nil {
			return fmt.Errorf("waiting for %s ack: %w", kind, err)
		}
		if reply.Name != eventAck || reply.Seq != seq {
			slog.Debug("ignoring host event", "name", reply.Name, "seq", reply.Seq, "want", seq)
			continue
		}

		var ack Ack
		if reply.Data != nil {
			if err := decode(reply.Data, &ack); err != nil {
				return fmt.Errorf("bad %s ack: %w", kind, err)
			}
		}
		if ack.Error != "" {
			return &RemoteError{Kind: kind, Message: ack.Error}
		}
		return nil
	}
}

func (c *Client) ConfigureWorld(ctx context.Context, w scene.World) error {
	return c.call(ctx, scene.CmdWorld, w)
}

func (c *Client) AddPrimitive(ctx context.Context, p scene.Primitive, mat *scene.Material) error {
	return c.call(ctx, scene.CmdPrimitive, PrimitiveData{Primitive: p, Material: mat})
}

func (c *Client) Boolean(ctx context.Context, op scene.BooleanOp) error {
	return c.call(ctx, scene.CmdBoolean, op)
}

func (c *Client) ImportMesh(ctx context.Context, p scene.Protein) error {
	return c.call(ctx, scene.CmdImport, p)
}

func (c *Client) PlaceCamera(ctx context.Context, cam scene.Camera) error {
	return c.call(ctx, scene.CmdCamera, cam)
}

func (c *Client) AddLamp(ctx context.Context, l scene.Lamp) error {
	return c.call(ctx, scene.CmdLamp, l)
}
