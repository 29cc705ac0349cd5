package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/cfglevel/pkg/buildinfo"
	apperrors "github.com/matzehuels/cfglevel/pkg/errors"
	"github.com/matzehuels/cfglevel/pkg/graph"
	"github.com/matzehuels/cfglevel/pkg/pipeline"
)

// contentTypes maps output formats to response content types.
var contentTypes = map[string]string{
	graph.FormatJSON: "application/json",
	graph.FormatVis:  "application/json",
	graph.FormatDOT:  "text/vnd.graphviz; charset=utf-8",
	graph.FormatSVG:  "image/svg+xml",
	graph.FormatPNG:  "image/png",
}

// functionHeader names the function a level response was computed for.
const functionHeader = "X-Cfglevel-Function"

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type documentResponse struct {
	ID        string             `json:"id"`
	Functions []functionResponse `json:"functions"`
}

type functionResponse struct {
	Name  string `json:"name"`
	Nodes int    `json:"nodes"`
	Edges int    `json:"edges"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": buildinfo.Version})
}

// handleLevel levels a posted graph, or one function of a posted document.
func (s *Server) handleLevel(w http.ResponseWriter, r *http.Request) {
	doc, err := s.readDocument(w, r)
	if err != nil {
		writeError(w, err)
		return
	}
	opts, err := levelOptions(r)
	if err != nil {
		writeError(w, err)
		return
	}
	opts.Function = r.URL.Query().Get("func")
	s.level(w, r, doc, opts)
}

func (s *Server) handleCreateDocument(w http.ResponseWriter, r *http.Request) {
	doc, err := s.readDocument(w, r)
	if err != nil {
		writeError(w, err)
		return
	}
	id, err := s.runner.StoreDocument(r.Context(), doc)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Location", "/v1/documents/"+id)
	writeJSON(w, http.StatusCreated, describe(id, doc))
}

func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	doc, err := s.runner.LoadDocument(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, describe(id, doc))
}

// handleGetFunction levels one function of a stored document. Unknown
// function names fall back to the first function, as in the viewer.
func (s *Server) handleGetFunction(w http.ResponseWriter, r *http.Request) {
	doc, err := s.runner.LoadDocument(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	opts, err := levelOptions(r)
	if err != nil {
		writeError(w, err)
		return
	}
	opts.Function = chi.URLParam(r, "name")
	s.level(w, r, doc, opts)
}

func (s *Server) level(w http.ResponseWriter, r *http.Request, doc graph.Document, opts pipeline.Options) {
	opts.Logger = s.logger.With("request_id", middleware.GetReqID(r.Context()))
	res, err := s.runner.Execute(r.Context(), doc, opts)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", contentTypes[opts.Format])
	w.Header().Set(functionHeader, res.Function)
	if res.CacheInfo.LevelHit {
		w.Header().Set("X-Cache", "hit")
	} else {
		w.Header().Set("X-Cache", "miss")
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.Artifact)
}

// readDocument decodes the request body. YAML is accepted when the content
// type says so; everything else is read as JSON.
func (s *Server) readDocument(w http.ResponseWriter, r *http.Request) (graph.Document, error) {
	body := http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)
	defer body.Close()

	enc := graph.EncodingJSON
	if strings.Contains(r.Header.Get("Content-Type"), "yaml") {
		enc = graph.EncodingYAML
	}
	doc, err := graph.ReadDocument(body, enc)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return doc, errTooLarge{limit: tooLarge.Limit}
		}
		return doc, err
	}
	return doc, nil
}

// levelOptions reads the render options shared by the level endpoints.
func levelOptions(r *http.Request) (pipeline.Options, error) {
	q := r.URL.Query()
	opts := pipeline.Options{Format: q.Get("format")}
	for name, dst := range map[string]*bool{
		"detailed":        &opts.Detailed,
		"hide_back_edges": &opts.HideBackEdges,
		"refresh":         &opts.Refresh,
	} {
		v := q.Get(name)
		if v == "" {
			continue
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return opts, apperrors.New(apperrors.ErrCodeInvalidInput, "query parameter %s: %q is not a boolean", name, v)
		}
		*dst = b
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return opts, err
	}
	return opts, nil
}

func describe(id string, doc graph.Document) documentResponse {
	resp := documentResponse{ID: id, Functions: make([]functionResponse, 0, doc.Len())}
	for _, name := range doc.Names() {
		g, _ := doc.Lookup(name)
		resp.Functions = append(resp.Functions, functionResponse{
			Name:  name,
			Nodes: g.NodeCount(),
			Edges: g.EdgeCount(),
		})
	}
	return resp
}

// =============================================================================
// Responses
// =============================================================================

type errTooLarge struct{ limit int64 }

func (e errTooLarge) Error() string {
	return "request body exceeds " + strconv.FormatInt(e.limit, 10) + " bytes"
}

func errNotFound(r *http.Request) error {
	return apperrors.New(apperrors.ErrCodeNotFound, "no route for %s %s", r.Method, r.URL.Path)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	var tooLarge errTooLarge
	if errors.As(err, &tooLarge) {
		writeJSON(w, http.StatusRequestEntityTooLarge, errorBody{Code: "PAYLOAD_TOO_LARGE", Message: err.Error()})
		return
	}
	code := apperrors.GetCode(err)
	if code == "" {
		code = apperrors.ErrCodeInternal
	}
	status := apperrors.HTTPStatus(err)
	msg := apperrors.UserMessage(err)
	if status >= http.StatusInternalServerError {
		msg = http.StatusText(status)
	}
	writeJSON(w, status, errorBody{Code: string(code), Message: msg})
}
