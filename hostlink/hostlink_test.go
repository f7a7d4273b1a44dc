package hostlink

import (
	"context"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smasonuk/beamscene"
	"github.com/smasonuk/beamscene/scene"
)

func startServer(t *testing.T, host scene.Host) string {
	t.Helper()
	srv := httptest.NewServer(NewServer(host))
	t.Cleanup(srv.Close)
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func dial(t *testing.T, url string) *Client {
	t.Helper()
	c, err := Dial(context.Background(), url)
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func testConfig(t *testing.T) scene.Config {
	cfg := scene.DefaultConfig()
	cfg.ResourceRoot = t.TempDir()
	return cfg
}

func TestBuildOverWebsocket(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)

	local := scene.NewRecorder()
	_, err := scene.Build(ctx, local, cfg)
	require.NoError(t, err)

	remote := scene.NewRecorder()
	client := dial(t, startServer(t, remote))

	report, err := scene.Build(ctx, client, cfg)
	require.NoError(t, err)
	assert.Len(t, report.Beams, 3)

	assert.Equal(t, local.Plan(), remote.Plan(), "the remote host sees the same calls")
}

// pickyHost refuses boolean operations.
type pickyHost struct {
	*scene.Recorder
}

func (pickyHost) Boolean(context.Context, scene.BooleanOp) error {
	return errors.New("booleans are not supported")
}

func TestRemoteErrorStopsBuild(t *testing.T) {
	client := dial(t, startServer(t, pickyHost{scene.NewRecorder()}))

	_, err := scene.Build(context.Background(), client, testConfig(t))
	require.Error(t, err)

	var remoteErr *RemoteError
	require.ErrorAs(t, err, &remoteErr)
	assert.Equal(t, scene.CmdBoolean, remoteErr.Kind)
	assert.Equal(t, "booleans are not supported", remoteErr.Message)
	assert.Contains(t, err.Error(), "scene block")

	// the connection survives a failed call
	require.NoError(t, client.PlaceCamera(context.Background(), scene.SceneCamera()))
}

func TestServerRejectsBadEvents(t *testing.T) {
	url := startServer(t, scene.NewRecorder())
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	testCases := []struct {
		name  string
		event Event
		want  string
	}{
		{"unknown name", Event{Seq: 1, Name: "explode"}, `unknown event "explode"`},
		{"payload of wrong shape", Event{Seq: 2, Name: string(scene.CmdCamera), Data: []int{1, 2}}, "bad camera payload"},
		{"unknown field", Event{Seq: 3, Name: string(scene.CmdLamp), Data: map[string]interface{}{"id": "l", "wattage": 3}}, "bad lamp payload"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			require.NoError(t, conn.WriteJSON(tc.event))

			var reply Event
			require.NoError(t, conn.ReadJSON(&reply))
			assert.Equal(t, eventAck, reply.Name)
			assert.Equal(t, tc.event.Seq, reply.Seq)

			var ack Ack
			require.NoError(t, decode(reply.Data, &ack))
			assert.Contains(t, ack.Error, tc.want)
		})
	}

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("{nope")))
	var reply Event
	require.NoError(t, conn.ReadJSON(&reply))
	var ack Ack
	require.NoError(t, decode(reply.Data, &ack))
	assert.Contains(t, ack.Error, "bad event")
}

func TestDecodePrimitive(t *testing.T) {
	p := scene.BeamPrimitive(mustSegment(t))
	data := map[string]interface{}{
		"primitive": map[string]interface{}{
			"id":       p.ID,
			"shape":    "cone",
			"loc":      map[string]interface{}{"x": p.Loc.X, "y": p.Loc.Y, "z": p.Loc.Z},
			"rot":      map[string]interface{}{"x": p.Rot.X, "y": p.Rot.Y, "z": p.Rot.Z},
			"scale":    []interface{}{p.Scale[0], p.Scale[1], p.Scale[2]},
			"vertices": float64(p.Vertices),
		},
	}

	var got PrimitiveData
	require.NoError(t, decode(data, &got))
	assert.Equal(t, p, got.Primitive)
	assert.Nil(t, got.Material)
}

func TestCallHonoursContext(t *testing.T) {
	client := dial(t, startServer(t, scene.NewRecorder()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, client.AddLamp(ctx, scene.Lamps()[0]), context.Canceled)
}

func TestDialFails(t *testing.T) {
	srv := httptest.NewServer(nil)
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	srv.Close()

	_, err := Dial(context.Background(), url)
	assert.Error(t, err)
}

func mustSegment(t *testing.T) beamscene.BeamSegment {
	t.Helper()
	seg, err := beamscene.ComputeSegment(
		beamscene.BeamEndpoint{ID: "pulse1in", Loc: beamscene.P3(-17, -82, -28)},
		beamscene.P3(15, -2, 0), 2, 9)
	require.NoError(t, err)
	return seg
}
