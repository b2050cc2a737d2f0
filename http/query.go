package http

import (
	"io"
	"net/http"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/go-tooling/pkg/logs"
	"github.com/pointfold/spatial/geom"
	"github.com/pointfold/spatial/index"
	"github.com/segmentio/encoding/json"
)

// API serves spatial queries over the datasets held in a store.
type API struct {
	Store   *index.Store
	Version string
}

// DatasetSummary describes an indexed dataset in list responses.
type DatasetSummary struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Source    string `json:"source"`
	Points    int    `json:"points"`
	Triangles int    `json:"triangles"`
	Elements  int    `json:"elements"`
}

// Candidate is a single query result. Exactly one of Point or Triangle
// is set.
type Candidate struct {
	Point    *geom.Point3D    `json:"point,omitempty"`
	Triangle *geom.Triangle3D `json:"triangle,omitempty"`
}

// QueryResponse carries the candidates returned by a spatial query.
// Candidates may contain duplicates when an element spans multiple
// partitions of the index.
type QueryResponse struct {
	DatasetID  string      `json:"dataset_id"`
	Count      int         `json:"count"`
	Candidates []Candidate `json:"candidates"`
}

// CollisionRequest is the body of a box collision query.
type CollisionRequest struct {
	Min geom.Point3D `json:"min"`
	Max geom.Point3D `json:"max"`
}

// CrossingRequest is the body of an axis crossing query.
type CrossingRequest struct {
	Axis  string  `json:"axis"`
	Value float64 `json:"value"`
}

// RaycastRequest is the body of a line intersection query.
type RaycastRequest struct {
	Anchor geom.Point3D `json:"anchor"`
	Dir    geom.Point3D `json:"dir"`
}

// Mux returns the routes served by the API.
func (a *API) Mux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /datasets", a.handleListDatasets)
	mux.HandleFunc("GET /datasets/{id}", a.handleGetDataset)
	mux.HandleFunc("POST /datasets/{id}/query/collision", a.handleCollision)
	mux.HandleFunc("POST /datasets/{id}/query/crossing", a.handleCrossing)
	mux.HandleFunc("POST /datasets/{id}/query/raycast", a.handleRaycast)
	return mux
}

func (a *API) handleListDatasets(w http.ResponseWriter, r *http.Request) {
	datasets := a.Store.List()

	summaries := make([]DatasetSummary, 0, len(datasets))
	for _, d := range datasets {
		summaries = append(summaries, summarize(d))
	}
	writeJSON(w, http.StatusOK, summaries)
}

func (a *API) handleGetDataset(w http.ResponseWriter, r *http.Request) {
	d, ok := a.Store.Get(r.PathValue("id"))
	if !ok {
		http.Error(w, "dataset not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, summarize(d))
}

func (a *API) handleCollision(w http.ResponseWriter, r *http.Request) {
	d, ok := a.Store.Get(r.PathValue("id"))
	if !ok {
		http.Error(w, "dataset not found", http.StatusNotFound)
		return
	}

	var req CollisionRequest
	if err := decodeJSON(r.Body, &req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	box, err := geom.NewBoundingBox(req.Min, req.Max)
	if err != nil {
		http.Error(w, "invalid bounding box", http.StatusBadRequest)
		return
	}

	queries.With(queryLabels("collision")).Inc()
	writeCandidates(w, d, d.Tree.Colliding(box))
}

func (a *API) handleCrossing(w http.ResponseWriter, r *http.Request) {
	d, ok := a.Store.Get(r.PathValue("id"))
	if !ok {
		http.Error(w, "dataset not found", http.StatusNotFound)
		return
	}

	var req CrossingRequest
	if err := decodeJSON(r.Body, &req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	var elems []index.Element
	switch req.Axis {
	case "x":
		elems = d.Tree.CrossingXValue(req.Value)
	case "y":
		elems = d.Tree.CrossingYValue(req.Value)
	case "z":
		elems = d.Tree.CrossingZValue(req.Value)
	default:
		http.Error(w, "axis must be x, y or z", http.StatusBadRequest)
		return
	}

	queries.With(queryLabels("crossing")).Inc()
	writeCandidates(w, d, elems)
}

func (a *API) handleRaycast(w http.ResponseWriter, r *http.Request) {
	d, ok := a.Store.Get(r.PathValue("id"))
	if !ok {
		http.Error(w, "dataset not found", http.StatusNotFound)
		return
	}

	var req RaycastRequest
	if err := decodeJSON(r.Body, &req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	line, err := geom.NewLine(req.Anchor, req.Dir)
	if err != nil {
		http.Error(w, "dir must be non-zero", http.StatusBadRequest)
		return
	}

	var elems []index.Element
	d.Tree.ForEachIntersectionCandidate(line, func(e index.Element) {
		elems = append(elems, e)
	})

	queries.With(queryLabels("raycast")).Inc()
	writeCandidates(w, d, elems)
}

func summarize(d *index.Dataset) DatasetSummary {
	return DatasetSummary{
		ID:        d.ID,
		Name:      d.Name,
		Source:    d.Source,
		Points:    d.Points.Len(),
		Triangles: len(d.Triangles),
		Elements:  d.Tree.Len(),
	}
}

func writeCandidates(w http.ResponseWriter, d *index.Dataset, elems []index.Element) {
	res := QueryResponse{
		DatasetID:  d.ID,
		Count:      len(elems),
		Candidates: make([]Candidate, 0, len(elems)),
	}
	for _, e := range elems {
		res.Candidates = append(res.Candidates, newCandidate(e))
	}
	writeJSON(w, http.StatusOK, res)
}

func newCandidate(e index.Element) Candidate {
	switch v := e.(type) {
	case geom.Point3D:
		return Candidate{Point: &v}
	case geom.Triangle3D:
		return Candidate{Triangle: &v}
	default:
		return Candidate{}
	}
}

func decodeJSON(r io.Reader, v any) error {
	b, err := io.ReadAll(r)
	if err != nil {
		return errors.New("reading request body failed").Wrap(err)
	}
	if err := json.Unmarshal(b, v); err != nil {
		return errors.New("decoding request body failed").Wrap(err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		logs.Warn(errors.New("encoding response failed").Wrap(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(b)
}
