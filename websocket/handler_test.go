package websocket

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/pointfold/spatial/cloud"
	"github.com/pointfold/spatial/geom"
	"github.com/pointfold/spatial/index"
	"github.com/segmentio/encoding/json"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/websocket"
)

func newTestServer(t *testing.T) (*httptest.Server, *index.Dataset) {
	pc := cloud.New(
		geom.Point3D{X: 0, Y: 0, Z: 0},
		geom.Point3D{X: 5, Y: 5, Z: 5},
		geom.Point3D{X: 10, Y: 10, Z: 10},
	)
	d, err := index.NewDataset("test", "test.xyz", pc, nil, 8)
	require.NoError(t, err)

	store := &index.Store{}
	store.Add(d)

	srv := httptest.NewServer(Handler(store))
	t.Cleanup(srv.Close)
	return srv, d
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, err := websocket.Dial(url, "", srv.URL)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func sendRequest(t *testing.T, conn *websocket.Conn, req Request) {
	b, err := json.Marshal(req)
	require.NoError(t, err)
	require.NoError(t, websocket.Message.Send(conn, string(b)))
}

func receiveFrame(t *testing.T, conn *websocket.Conn) Frame {
	var raw string
	require.NoError(t, websocket.Message.Receive(conn, &raw))

	var f Frame
	require.NoError(t, json.Unmarshal([]byte(raw), &f))
	return f
}

func TestHandlerStreamsCandidates(t *testing.T) {
	srv, d := newTestServer(t)
	conn := dial(t, srv)

	sendRequest(t, conn, Request{
		DatasetID: d.ID,
		Anchor:    geom.Point3D{X: -1, Y: 5, Z: 5},
		Dir:       geom.Point3D{X: 1, Y: 0, Z: 0},
	})

	var candidates []Frame
	for {
		f := receiveFrame(t, conn)
		if f.Type == FrameTypeDone {
			require.Equal(t, len(candidates), f.Count)
			break
		}
		require.Equal(t, FrameTypeCandidate, f.Type)
		candidates = append(candidates, f)
	}

	require.NotEmpty(t, candidates)
	for _, f := range candidates {
		require.NotNil(t, f.Point)
		require.Equal(t, geom.Point3D{X: 5, Y: 5, Z: 5}, *f.Point)
	}
}

func TestHandlerMissLine(t *testing.T) {
	srv, d := newTestServer(t)
	conn := dial(t, srv)

	sendRequest(t, conn, Request{
		DatasetID: d.ID,
		Anchor:    geom.Point3D{X: -100, Y: -100, Z: 0},
		Dir:       geom.Point3D{X: 0, Y: 0, Z: 1},
	})

	f := receiveFrame(t, conn)
	require.Equal(t, FrameTypeDone, f.Type)
	require.Zero(t, f.Count)
}

func TestHandlerUnknownDataset(t *testing.T) {
	srv, _ := newTestServer(t)
	conn := dial(t, srv)

	sendRequest(t, conn, Request{
		DatasetID: "unknown",
		Dir:       geom.Point3D{X: 1, Y: 0, Z: 0},
	})

	f := receiveFrame(t, conn)
	require.Equal(t, FrameTypeError, f.Type)
	require.Equal(t, "dataset not found", f.Error)
}

func TestHandlerZeroDir(t *testing.T) {
	srv, d := newTestServer(t)
	conn := dial(t, srv)

	sendRequest(t, conn, Request{DatasetID: d.ID})

	f := receiveFrame(t, conn)
	require.Equal(t, FrameTypeError, f.Type)
}

func TestHandlerInvalidJSON(t *testing.T) {
	srv, d := newTestServer(t)
	conn := dial(t, srv)

	require.NoError(t, websocket.Message.Send(conn, "not json"))

	f := receiveFrame(t, conn)
	require.Equal(t, FrameTypeError, f.Type)

	// The connection stays usable after a malformed request.
	sendRequest(t, conn, Request{
		DatasetID: d.ID,
		Anchor:    geom.Point3D{X: -1, Y: 5, Z: 5},
		Dir:       geom.Point3D{X: 1, Y: 0, Z: 0},
	})
	f = receiveFrame(t, conn)
	require.Contains(t, []string{FrameTypeCandidate, FrameTypeDone}, f.Type)
}
