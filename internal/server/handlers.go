package server

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/dagopt/pkg/analysis"
	"github.com/matzehuels/dagopt/pkg/cache"
	"github.com/matzehuels/dagopt/pkg/dag"
	"github.com/matzehuels/dagopt/pkg/dag/transform"
	"github.com/matzehuels/dagopt/pkg/errors"
	"github.com/matzehuels/dagopt/pkg/export/neo4j"
	"github.com/matzehuels/dagopt/pkg/graph"
	"github.com/matzehuels/dagopt/pkg/observability"
	"github.com/matzehuels/dagopt/pkg/optimizer"
	"github.com/matzehuels/dagopt/pkg/render"
	"github.com/matzehuels/dagopt/pkg/store"
)

// cacheTTL bounds how long rendered artifacts and metric reports stay
// cached. The keys are content-addressed, so expiry only reclaims
// space, never staleness.
const cacheTTL = 24 * time.Hour

type graphRequest struct {
	Graph graph.Document `json:"graph"`
}

type optimizeRequest struct {
	Graph   graph.Document `json:"graph"`
	Options struct {
		ApplyTransitiveReduction bool   `json:"apply_transitive_reduction"`
		MergeEquivalentNodes     bool   `json:"merge_equivalent_nodes"`
		OnCycle                  string `json:"on_cycle"`
		TopK                     int    `json:"top_k"`
	} `json:"options"`

	// Save persists the result to the configured run store and returns
	// the run ID alongside the result.
	Save  bool   `json:"save"`
	Label string `json:"label"`
}

type criticalPathRequest struct {
	Graph     graph.Document     `json:"graph"`
	Durations map[string]float64 `json:"durations"`
}

type metricsRequest struct {
	Graph graph.Document `json:"graph"`
	TopK  int            `json:"top_k"`
}

type renderRequest struct {
	Graph             graph.Document `json:"graph"`
	Format            string         `json:"format"`
	Title             string         `json:"title"`
	HighlightCritical bool           `json:"highlight_critical"`
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	var req graphRequest
	if !s.decode(w, r, &req) {
		return
	}
	o, err := s.optimizerFor(&req.Graph)
	if err != nil {
		writeError(w, err)
		return
	}
	report, err := o.Validate()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleOptimize(w http.ResponseWriter, r *http.Request) {
	var req optimizeRequest
	if !s.decode(w, r, &req) {
		return
	}
	o, err := s.optimizerFor(&req.Graph)
	if err != nil {
		writeError(w, err)
		return
	}

	topK := req.Options.TopK
	if topK == 0 {
		topK = s.cfg.Engine.TopK
	}
	opts := optimizer.Options{
		ApplyTransitiveReduction: req.Options.ApplyTransitiveReduction,
		MergeEquivalentNodes:     req.Options.MergeEquivalentNodes,
		OnCycle:                  optimizer.OnCycle(req.Options.OnCycle),
		Strategy:                 transform.DensityStrategy{Threshold: s.cfg.Engine.DensityThreshold},
		TopK:                     topK,
	}
	result, err := o.Optimize(r.Context(), opts)
	if err != nil {
		writeError(w, err)
		return
	}

	if req.Save {
		if s.runs == nil {
			writeError(w, errors.New(errors.ErrCodeUnsupported, "run store is not configured"))
			return
		}
		run := store.NewRun(req.Label, result)
		if err := s.runs.Save(r.Context(), run); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, struct {
			RunID string `json:"run_id"`
			*optimizer.Result
		}{run.ID, result})
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleCriticalPath(w http.ResponseWriter, r *http.Request) {
	var req criticalPathRequest
	if !s.decode(w, r, &req) {
		return
	}
	o, err := s.optimizerFor(&req.Graph)
	if err != nil {
		writeError(w, err)
		return
	}
	report, err := o.CriticalPath(req.Durations)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleLayers(w http.ResponseWriter, r *http.Request) {
	var req graphRequest
	if !s.decode(w, r, &req) {
		return
	}
	o, err := s.optimizerFor(&req.Graph)
	if err != nil {
		writeError(w, err)
		return
	}
	report, err := o.Layers()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleCriticality(w http.ResponseWriter, r *http.Request) {
	var req graphRequest
	if !s.decode(w, r, &req) {
		return
	}
	o, err := s.optimizerFor(&req.Graph)
	if err != nil {
		writeError(w, err)
		return
	}
	report, err := o.EdgeCriticality()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	var req metricsRequest
	if !s.decode(w, r, &req) {
		return
	}
	g, err := req.Graph.ToDAG()
	if err != nil {
		writeError(w, err)
		return
	}
	topK := req.TopK
	if topK == 0 {
		topK = s.cfg.Engine.TopK
	}
	if topK == 0 {
		topK = analysis.DefaultTopK
	}

	key := s.keyer.MetricsKey(cache.GraphHash(g), topK)
	if data, hit, err := s.cache.Get(r.Context(), key); err == nil && hit {
		observability.Cache().OnCacheHit(r.Context(), "metrics")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write(data)
		return
	}
	observability.Cache().OnCacheMiss(r.Context(), "metrics")

	report, err := analysis.ComputeWith(g, nil, topK)
	if err != nil {
		writeError(w, err)
		return
	}
	data, err := json.Marshal(report)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := s.cache.Set(r.Context(), key, data, cacheTTL); err != nil {
		log.Warn("caching metrics report failed", "error", err)
	} else {
		observability.Cache().OnCacheSet(r.Context(), "metrics", len(data))
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	var req renderRequest
	if !s.decode(w, r, &req) {
		return
	}
	format := req.Format
	if format == "" {
		format = "dot"
	}
	contentType, ok := map[string]string{
		"dot": "text/vnd.graphviz",
		"svg": "image/svg+xml",
		"png": "image/png",
	}[format]
	if !ok {
		writeError(w, errors.New(errors.ErrCodeUnsupported, "unsupported render format %q", format))
		return
	}

	g, err := req.Graph.ToDAG()
	if err != nil {
		writeError(w, err)
		return
	}
	if g.NodeCount() == 0 {
		writeError(w, errors.New(errors.ErrCodeEmptyGraph, "graph has no nodes"))
		return
	}

	key := s.keyer.RenderKey(cache.GraphHash(g), cache.RenderKeyOpts{
		Format:            format,
		HighlightCritical: req.HighlightCritical,
	})
	if data, hit, err := s.cache.Get(r.Context(), key); err == nil && hit {
		observability.Cache().OnCacheHit(r.Context(), "render")
		w.Header().Set("Content-Type", contentType)
		w.WriteHeader(http.StatusOK)
		w.Write(data)
		return
	}
	observability.Cache().OnCacheMiss(r.Context(), "render")

	opts := render.Options{Title: req.Title, HighlightCritical: req.HighlightCritical}
	if req.HighlightCritical {
		report, err := analysis.EdgeCriticality(g, nil)
		if err != nil {
			writeError(w, err)
			return
		}
		opts.Critical = report.Critical
		opts.Redundant = report.Redundant
	}

	dot := render.ToDOT(g, opts)
	data := []byte(dot)
	switch format {
	case "svg":
		data, err = render.RenderSVG(r.Context(), dot)
	case "png":
		data, err = render.RenderPNG(r.Context(), dot)
	}
	if err != nil {
		writeError(w, err)
		return
	}

	if err := s.cache.Set(r.Context(), key, data, cacheTTL); err != nil {
		log.Warn("caching rendered artifact failed", "error", err)
	} else {
		observability.Cache().OnCacheSet(r.Context(), "render", len(data))
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

type exportRequest struct {
	Graph graph.Document `json:"graph"`

	// URI, User, and Password override the configured Neo4j connection.
	URI      string `json:"uri"`
	User     string `json:"user"`
	Password string `json:"password"`

	// Clear deletes existing nodes before pushing.
	Clear bool `json:"clear"`
}

func (s *Server) handleExportNeo4j(w http.ResponseWriter, r *http.Request) {
	var req exportRequest
	if !s.decode(w, r, &req) {
		return
	}
	g, err := req.Graph.ToDAG()
	if err != nil {
		writeError(w, err)
		return
	}

	uri, user, password := req.URI, req.User, req.Password
	if uri == "" {
		uri = s.cfg.Export.Neo4jURI
	}
	if user == "" {
		user = s.cfg.Export.Neo4jUser
	}
	if password == "" {
		password = s.cfg.Export.Neo4jPassword
	}

	exporter, err := neo4j.New(r.Context(), uri, user, password)
	if err != nil {
		writeError(w, err)
		return
	}
	defer exporter.Close(r.Context())

	if req.Clear {
		if err := exporter.Clear(r.Context()); err != nil {
			writeError(w, err)
			return
		}
	}
	if err := exporter.Push(r.Context(), g); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"nodes": g.NodeCount(),
		"edges": g.EdgeCount(),
	})
}

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	if s.runs == nil {
		writeError(w, errors.New(errors.ErrCodeUnsupported, "run store is not configured"))
		return
	}
	ids, err := s.runs.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"runs": ids})
}

func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	if s.runs == nil {
		writeError(w, errors.New(errors.ErrCodeUnsupported, "run store is not configured"))
		return
	}
	run, err := s.runs.Load(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, run)
}

// optimizerFor builds the facade for one request's graph document.
func (s *Server) optimizerFor(doc *graph.Document) (*optimizer.Optimizer, error) {
	g, err := doc.ToDAG()
	if err != nil {
		return nil, err
	}
	return optimizer.FromDAG(g), nil
}

// decode reads the JSON body into v, rejecting unknown fields. On
// failure it writes the error response and returns false.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decoding request body"))
		return false
	}
	return true
}

type errorBody struct {
	Error struct {
		Code    string     `json:"code"`
		Message string     `json:"message"`
		Cycles  [][]string `json:"cycles,omitempty"`
	} `json:"error"`
}

func writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}

	status := http.StatusInternalServerError
	switch code {
	case errors.ErrCodeMalformedInput, errors.ErrCodeEmptyGraph,
		errors.ErrCodeInvalidFormat, errors.ErrCodeInvalidNode:
		status = http.StatusBadRequest
	case errors.ErrCodeCyclicGraph:
		status = http.StatusUnprocessableEntity
	case errors.ErrCodeNodeNotFound, errors.ErrCodeNotFound, errors.ErrCodeRunNotFound:
		status = http.StatusNotFound
	case errors.ErrCodeUnsupported:
		status = http.StatusNotImplemented
	case errors.ErrCodeExport:
		status = http.StatusBadGateway
	}

	var body errorBody
	body.Error.Code = string(code)
	body.Error.Message = errors.UserMessage(err)
	var cerr *dag.CycleError
	if stderrors.As(err, &cerr) {
		body.Error.Cycles = cerr.Cycles
	}
	writeJSON(w, status, body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("encoding response failed", "error", err)
	}
}
