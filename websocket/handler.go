package websocket

import (
	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/go-tooling/pkg/logs"
	"github.com/pointfold/spatial/geom"
	"github.com/pointfold/spatial/index"
	"github.com/segmentio/encoding/json"
	"golang.org/x/net/websocket"
)

// Frame types exchanged with the client.
const (
	FrameTypeCandidate = "candidate"
	FrameTypeDone      = "done"
	FrameTypeError     = "error"
)

// Request asks for the intersection candidates of a line in a dataset.
// Candidates are streamed back one frame each, followed by a done frame.
type Request struct {
	DatasetID string       `json:"dataset_id"`
	Anchor    geom.Point3D `json:"anchor"`
	Dir       geom.Point3D `json:"dir"`
}

// Frame is a single server to client message.
type Frame struct {
	Type     string           `json:"type"`
	Point    *geom.Point3D    `json:"point,omitempty"`
	Triangle *geom.Triangle3D `json:"triangle,omitempty"`
	Count    int              `json:"count,omitempty"`
	Error    string           `json:"error,omitempty"`
}

// Handler returns a websocket server that streams raycast candidates.
// Requests on a connection are handled sequentially.
func Handler(store *index.Store) websocket.Server {
	return websocket.Server{
		Handler: func(conn *websocket.Conn) {
			defer conn.Close()

			connections.Inc()
			defer connections.Dec()

			for {
				var raw string
				if err := websocket.Message.Receive(conn, &raw); err != nil {
					return
				}

				var req Request
				if err := json.Unmarshal([]byte(raw), &req); err != nil {
					frame := Frame{
						Type:  FrameTypeError,
						Error: "invalid request",
					}
					if err := sendFrame(conn, frame); err != nil {
						return
					}
					continue
				}

				if err := handleRequest(conn, store, req); err != nil {
					logs.WithTag("dataset_id", req.DatasetID).
						Warn(errors.New("handling raycast request failed").Wrap(err))
					return
				}
			}
		},
	}
}

func handleRequest(conn *websocket.Conn, store *index.Store, req Request) error {
	d, ok := store.Get(req.DatasetID)
	if !ok {
		return sendFrame(conn, Frame{
			Type:  FrameTypeError,
			Error: "dataset not found",
		})
	}

	line, err := geom.NewLine(req.Anchor, req.Dir)
	if err != nil {
		return sendFrame(conn, Frame{
			Type:  FrameTypeError,
			Error: "dir must be non-zero",
		})
	}

	var count int
	var sendErr error
	d.Tree.ForEachIntersectionCandidate(line, func(e index.Element) {
		if sendErr != nil {
			return
		}
		count++
		sendErr = sendFrame(conn, candidateFrame(e))
	})
	if sendErr != nil {
		return sendErr
	}

	streamedCandidates.Add(float64(count))
	return sendFrame(conn, Frame{
		Type:  FrameTypeDone,
		Count: count,
	})
}

func candidateFrame(e index.Element) Frame {
	f := Frame{Type: FrameTypeCandidate}
	switch v := e.(type) {
	case geom.Point3D:
		f.Point = &v
	case geom.Triangle3D:
		f.Triangle = &v
	}
	return f
}

func sendFrame(conn *websocket.Conn, f Frame) error {
	b, err := json.Marshal(f)
	if err != nil {
		return errors.New("encoding frame failed").Wrap(err)
	}
	if err := websocket.Message.Send(conn, string(b)); err != nil {
		return errors.New("sending frame failed").Wrap(err)
	}
	return nil
}
