// Package server exposes rendered record layouts over HTTP for previewing
// metadata and fixtures in a browser.
package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/goliatone/go-recordlayout/pkg/describe"
	"github.com/goliatone/go-recordlayout/pkg/record"
	"github.com/goliatone/go-recordlayout/pkg/render"
	theme "github.com/goliatone/go-theme"
)

// Option customises a Server.
type Option func(*Server)

// WithLogger sets the logger used for request failures.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithThemes sets the selector used to style pages. Without one pages are
// styled with render.DefaultManifest.
func WithThemes(selector theme.ThemeSelector) Option {
	return func(s *Server) {
		if selector != nil {
			s.themes = selector
		}
	}
}

// Server serves record layouts rendered by a pipeline.
type Server struct {
	pipeline *render.Pipeline
	themes   theme.ThemeSelector
	logger   *slog.Logger
}

// New returns a Server over pipeline.
func New(pipeline *render.Pipeline, opts ...Option) (*Server, error) {
	s := &Server{pipeline: pipeline, logger: slog.Default()}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.themes == nil {
		selector, err := render.NewManifestSelector("default", "", render.DefaultManifest())
		if err != nil {
			return nil, err
		}
		s.themes = selector
	}
	return s, nil
}

// Handler returns the server routes.
//
//	GET /healthz
//	GET /objects/{sobject}
//	GET /records/{sobject}/{id}?fields=&edit=&recordtype=&theme=&variant=&fragment=
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Get("/healthz", s.handleHealth)
	r.Get("/objects/{sobject}", s.handleDescribe)
	r.Get("/records/{sobject}/{id}", s.handleRecord)
	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleDescribe returns the object describe as JSON.
// GET /objects/{sobject}
func (s *Server) handleDescribe(w http.ResponseWriter, r *http.Request) {
	objectType := chi.URLParam(r, "sobject")
	desc, err := s.pipeline.Describer().DescribeObject(r.Context(), objectType)
	if err != nil {
		if errors.Is(err, describe.ErrObjectNotFound) {
			writeError(w, http.StatusNotFound, "NOT_FOUND", err.Error())
			return
		}
		s.logger.Error("describe failed", "object", objectType, "error", err)
		writeError(w, http.StatusInternalServerError, "DESCRIBE_FAILED", "describe failed")
		return
	}
	writeJSON(w, http.StatusOK, desc)
}

// handleRecord renders a record layout as a themed page, or as a bare
// fragment when fragment is set.
// GET /records/{sobject}/{id}
func (s *Server) handleRecord(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	forEdit, ok := parseBool(w, q.Get("edit"), "edit")
	if !ok {
		return
	}
	fragment, ok := parseBool(w, q.Get("fragment"), "fragment")
	if !ok {
		return
	}

	attrs := render.Attributes{
		SObject:      chi.URLParam(r, "sobject"),
		RecordID:     chi.URLParam(r, "id"),
		FieldList:    q.Get("fields"),
		ForEdit:      forEdit,
		RecordTypeID: q.Get("recordtype"),
	}

	var th render.Theme
	if !fragment {
		var err error
		th, err = render.SelectTheme(s.themes, q.Get("theme"), q.Get("variant"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "UNKNOWN_THEME", err.Error())
			return
		}
	}

	instance, err := s.pipeline.Run(r.Context(), attrs)
	if err != nil {
		s.renderError(w, r, attrs, err)
		return
	}
	defer func() {
		if err := instance.Close(); err != nil {
			s.logger.Warn("instance close failed", "object", attrs.SObject, "record", attrs.RecordID, "error", err)
		}
	}()

	var buf bytes.Buffer
	if fragment {
		err = instance.Render(&buf)
	} else {
		err = instance.Page(&buf, render.PageData{Theme: th.Name, Stylesheet: th.Stylesheet()})
	}
	if err != nil {
		s.logger.Error("render failed", "object", attrs.SObject, "record", attrs.RecordID, "error", err)
		writeError(w, http.StatusInternalServerError, "RENDER_FAILED", "render failed")
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		s.logger.Debug("response write failed", "error", err)
	}
}

func (s *Server) renderError(w http.ResponseWriter, r *http.Request, attrs render.Attributes, err error) {
	switch {
	case render.NothingRendered(err):
		writeError(w, http.StatusNotFound, "NOTHING_RENDERED", err.Error())
	case errors.Is(err, record.ErrNotFound),
		errors.Is(err, describe.ErrObjectNotFound),
		errors.Is(err, describe.ErrLayoutNotFound):
		writeError(w, http.StatusNotFound, "NOT_FOUND", err.Error())
	default:
		s.logger.Error("render pass failed", "request", middleware.GetReqID(r.Context()), "object", attrs.SObject, "record", attrs.RecordID, "error", err)
		writeError(w, http.StatusInternalServerError, "RENDER_FAILED", "render failed")
	}
}

// writeJSON marshals v as JSON and writes it with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Default().Warn("writeJSON encode error", "error", err)
	}
}

// writeError writes a structured JSON error response.
func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]string{
		"error": message,
		"code":  code,
	})
}

func parseBool(w http.ResponseWriter, raw, name string) (bool, bool) {
	if raw == "" {
		return false, true
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_PARAM", "invalid "+name+": "+raw)
		return false, false
	}
	return v, true
}
