package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/matzehuels/datalabels/pkg/buildinfo"
	dlerrors "github.com/matzehuels/datalabels/pkg/errors"
	"github.com/matzehuels/datalabels/pkg/label/sink"
	"github.com/matzehuels/datalabels/pkg/pipeline"
	"github.com/matzehuels/datalabels/pkg/scene"
)

// Request is the body of every /v1 route.
type Request struct {
	Scene   json.RawMessage  `json:"scene"`
	Options pipeline.Options `json:"options"`
}

// LabelsResponse is returned by POST /v1/labels. Binary artifacts are
// base64 encoded by encoding/json.
type LabelsResponse struct {
	SceneHash string              `json:"scene_hash"`
	Layout    sink.Output         `json:"layout"`
	Cached    bool                `json:"cached"`
	SVG       string              `json:"svg,omitempty"`
	PNG       []byte              `json:"png,omitempty"`
	PDF       []byte              `json:"pdf,omitempty"`
	Stats     LabelsResponseStats `json:"stats"`
}

// LabelsResponseStats summarises a layout.
type LabelsResponseStats struct {
	Series    int     `json:"series"`
	Points    int     `json:"points"`
	Attempted int     `json:"attempted"`
	Visible   int     `json:"visible"`
	LayoutMS  float64 `json:"layout_ms"`
	RenderMS  float64 `json:"render_ms"`
}

// PrioritizeResponse is returned by POST /v1/prioritize.
type PrioritizeResponse struct {
	Orders []pipeline.SeriesOrder `json:"orders"`
	Cached bool                   `json:"cached"`
}

// HealthResponse is returned by GET /healthz.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Commit  string `json:"commit,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:  "ok",
		Version: buildinfo.Version,
		Commit:  buildinfo.ShortCommit(),
	})
}

func (s *Server) handleLabels(w http.ResponseWriter, r *http.Request) {
	sc, opts, err := s.decode(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	// JSON is the layout itself, which the response always carries.
	formats := make([]string, 0, len(opts.Formats))
	for _, f := range opts.Formats {
		if f != pipeline.FormatJSON {
			formats = append(formats, f)
		}
	}

	resp := LabelsResponse{}
	if len(formats) == 0 {
		hash, err := pipeline.SceneHash(sc)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		layout, hit, err := s.runner.LayoutWithCacheInfo(r.Context(), sc, opts)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		resp.SceneHash, resp.Layout, resp.Cached = hash, layout, hit
		resp.Stats = LabelsResponseStats{
			Series:    len(sc.Series),
			Points:    countPoints(sc),
			Attempted: len(layout.Records),
			Visible:   layout.Visible,
		}
		writeJSON(w, http.StatusOK, resp)
		return
	}

	opts.Formats = formats
	res, err := s.runner.Execute(r.Context(), sc, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	resp.SceneHash = res.SceneHash
	resp.Layout = res.Layout
	resp.Cached = res.CacheInfo.LayoutHit
	resp.SVG = string(res.Artifacts[pipeline.FormatSVG])
	resp.PNG = res.Artifacts[pipeline.FormatPNG]
	resp.PDF = res.Artifacts[pipeline.FormatPDF]
	resp.Stats = LabelsResponseStats{
		Series:    res.Stats.Series,
		Points:    res.Stats.Points,
		Attempted: res.Stats.Attempted,
		Visible:   res.Stats.Visible,
		LayoutMS:  float64(res.Stats.LayoutTime.Microseconds()) / 1000,
		RenderMS:  float64(res.Stats.RenderTime.Microseconds()) / 1000,
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handlePrioritize(w http.ResponseWriter, r *http.Request) {
	sc, opts, err := s.decode(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	orders, hit, err := s.runner.PrioritizeWithCacheInfo(r.Context(), sc, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, PrioritizeResponse{Orders: orders, Cached: hit})
}

var contentTypes = map[string]string{
	pipeline.FormatSVG:  "image/svg+xml",
	pipeline.FormatPNG:  "image/png",
	pipeline.FormatPDF:  "application/pdf",
	pipeline.FormatJSON: "application/json",
}

// handleRender writes a single artifact, selected by ?format= (default svg).
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = pipeline.FormatSVG
	}
	if err := pipeline.ValidateFormat(format); err != nil {
		s.writeError(w, r, err)
		return
	}
	sc, opts, err := s.decode(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	opts.Formats = []string{format}
	res, err := s.runner.Execute(r.Context(), sc, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", contentTypes[format])
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.Artifacts[format])
}

// decode reads a Request, parses its scene and layers the request options
// over the server defaults.
func (s *Server) decode(w http.ResponseWriter, r *http.Request) (*scene.Scene, pipeline.Options, error) {
	var req Request
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			return nil, pipeline.Options{}, errTooLarge(tooBig.Limit)
		}
		if errors.Is(err, io.EOF) {
			return nil, pipeline.Options{}, dlerrors.New(dlerrors.ErrCodeInvalidInput, "request body is empty")
		}
		return nil, pipeline.Options{}, dlerrors.Wrap(dlerrors.ErrCodeInvalidInput, err, "decode request: %v", err)
	}
	if len(req.Scene) == 0 || string(req.Scene) == "null" {
		return nil, pipeline.Options{}, dlerrors.New(dlerrors.ErrCodeInvalidScene, "scene is required")
	}
	sc, err := scene.Parse(req.Scene, scene.FormatJSON)
	if err != nil {
		return nil, pipeline.Options{}, err
	}
	return sc, s.withDefaults(req.Options), nil
}

// withDefaults fills the fields of opts left unset from the server config.
func (s *Server) withDefaults(opts pipeline.Options) pipeline.Options {
	d := s.cfg.Defaults
	if opts.MaxLabels == 0 {
		opts.MaxLabels = d.MaxLabels
	}
	if opts.Offset == nil {
		opts.Offset = d.Offset
	}
	if opts.FontSize == 0 {
		opts.FontSize = d.FontSize
	}
	if opts.Width == 0 {
		opts.Width = d.Width
	}
	if opts.Height == 0 {
		opts.Height = d.Height
	}
	if opts.Measurer == "" {
		opts.Measurer = d.Measurer
	}
	if len(opts.Formats) == 0 {
		opts.Formats = d.Formats
	}
	if opts.Background == "" {
		opts.Background = d.Background
	}
	if opts.MarkerRadius == 0 {
		opts.MarkerRadius = d.MarkerRadius
	}
	if opts.Scale == 0 {
		opts.Scale = d.Scale
	}
	opts.NoGrid = opts.NoGrid || d.NoGrid
	opts.Logger = s.logger
	return opts
}

func countPoints(sc *scene.Scene) int {
	n := 0
	for _, s := range sc.Series {
		n += len(s.Points)
	}
	return n
}

func errNotFound(path string) error {
	return dlerrors.New(dlerrors.ErrCodeNotFound, "no route for %s", path)
}

func errTooLarge(limit int64) error {
	return dlerrors.New(dlerrors.ErrCodeInvalidInput, "request body exceeds %d bytes", limit)
}
