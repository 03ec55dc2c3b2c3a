package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/teamtree/pkg/dendrogram"
	tterrors "github.com/matzehuels/teamtree/pkg/errors"
	"github.com/matzehuels/teamtree/pkg/pipeline"
	"github.com/matzehuels/teamtree/pkg/render"
	"github.com/matzehuels/teamtree/pkg/render/sink"
)

// LayoutRequest is the body of the layout and render endpoints.
type LayoutRequest struct {
	Clustering     dendrogram.Payload   `json:"clustering"`
	Viewport       *dendrogram.Viewport `json:"viewport,omitempty"`
	ScreenWidth    float64              `json:"screen_width,omitempty"`
	MaxLabelLength *int                 `json:"max_label_length,omitempty"`
	Title          string               `json:"title,omitempty"`
	Detailed       bool                 `json:"detailed,omitempty"`
}

type errorBody struct {
	Code      tterrors.Code `json:"code"`
	Message   string        `json:"message"`
	RequestID string        `json:"request_id,omitempty"`
}

var contentTypes = map[string]string{
	pipeline.FormatSVG:  "image/svg+xml",
	pipeline.FormatTree: "image/svg+xml",
	pipeline.FormatPNG:  "image/png",
	pipeline.FormatPDF:  "application/pdf",
	pipeline.FormatJSON: "application/json",
	pipeline.FormatDOT:  "text/vnd.graphviz; charset=utf-8",
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": s.version})
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	res, opts, err := s.decode(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := opts.ValidateForLayout(); err != nil {
		s.writeError(w, r, err)
		return
	}

	out, err := s.runner.Layout(r.Context(), res, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	data, err := sink.RenderJSON(out, opts.Viewport(), sink.WithJSONTitle(opts.Title), sink.WithJSONSource(res))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	format := chi.URLParam(r, "format")
	if err := pipeline.ValidateFormat(format); err != nil {
		s.writeError(w, r, err)
		return
	}

	res, opts, err := s.decode(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	opts.Formats = []string{format}

	result, err := s.runner.Execute(r.Context(), res, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", contentTypes[format])
	w.Write(result.Artifacts[format])
}

// decode reads the request body and turns it into a validated clustering
// result and pipeline options.
func (s *Server) decode(w http.ResponseWriter, r *http.Request) (dendrogram.Result, pipeline.Options, error) {
	var req LayoutRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		return dendrogram.Result{}, pipeline.Options{}, tterrors.Wrap(tterrors.ErrCodeInvalidInput, err, "invalid request body: %v", err)
	}

	res, err := req.Clustering.Result()
	if err != nil {
		return dendrogram.Result{}, pipeline.Options{}, err
	}

	opts := s.defaults
	opts.Policy = &s.policy
	opts.Title = req.Title
	opts.Detailed = req.Detailed
	switch {
	case req.Viewport != nil:
		vp := *req.Viewport
		opts.Width, opts.Height = vp.Width, vp.Height
		opts.MarginLeft, opts.MarginTop = vp.MarginLeft, vp.MarginTop
		opts.MarginBottom, opts.MarginRight = vp.MarginBottom, vp.MarginRight
	case req.ScreenWidth > 0:
		opts.ScreenWidth = req.ScreenWidth
	}
	if req.MaxLabelLength != nil {
		opts.MaxLabelLength = *req.MaxLabelLength
		if opts.MaxLabelLength <= 0 {
			opts.MaxLabelLength = -1
		}
	}
	return res, opts, nil
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, render.ErrNoConverter) {
		err = tterrors.Wrap(tterrors.ErrCodeUnsupported, err, "%s", err.Error())
	}
	err = tterrors.FromLayout(err)
	code := tterrors.GetCode(err)
	status := tterrors.HTTPStatus(code)

	body := errorBody{Code: code, Message: tterrors.UserMessage(err), RequestID: RequestID(r.Context())}
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "error", err, "request_id", body.RequestID)
		if code == tterrors.ErrCodeInternal {
			body.Message = "internal error"
		}
	} else {
		s.logger.Debug("request rejected", "path", r.URL.Path, "code", code, "error", err)
	}
	writeJSON(w, status, body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		fmt.Fprintf(w, `{"code":"INTERNAL_ERROR","message":%q}`, err.Error())
	}
}
