package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/jsonatlas/jsonatlas/pkg/cache"
	apperrors "github.com/jsonatlas/jsonatlas/pkg/errors"
	"github.com/jsonatlas/jsonatlas/pkg/graph"
	"github.com/jsonatlas/jsonatlas/pkg/jsontree"
	"github.com/jsonatlas/jsonatlas/pkg/layout"
	"github.com/jsonatlas/jsonatlas/pkg/observability"
	"github.com/jsonatlas/jsonatlas/pkg/pipeline"
	"github.com/jsonatlas/jsonatlas/pkg/render"
	"github.com/jsonatlas/jsonatlas/pkg/store"
)

// defaultServeAddr is the listen address when neither flag nor config set one.
const defaultServeAddr = ":8080"

// serveCommand creates the serve command for the hosted viewer and API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr     string
		redisURL string
		mongoURI string
		noCache  bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Host the HTTP viewer and JSON API",
		Long: `Host the HTTP viewer and JSON API.

The serve command exposes the pipeline over HTTP: the interactive viewer at
/, a build endpoint at POST /api/build, and document storage under
/api/documents. With --redis the pipeline cache is shared across instances;
with --mongo saved documents persist between restarts. Without them the
server runs self-contained with the file cache and an in-memory store.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = c.Config.Serve.Addr
			}
			if addr == "" {
				addr = defaultServeAddr
			}
			if redisURL == "" {
				redisURL = c.Config.Serve.RedisURL
			}
			if mongoURI == "" {
				mongoURI = c.Config.Serve.MongoURI
			}
			return c.runServe(cmd.Context(), addr, redisURL, mongoURI, noCache)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "listen address (default :8080)")
	cmd.Flags().StringVar(&redisURL, "redis", "", "redis address for a shared pipeline cache")
	cmd.Flags().StringVar(&mongoURI, "mongo", "", "mongodb URI for persistent document storage")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

// runServe assembles the backends and blocks serving HTTP until ctx ends.
func (c *CLI) runServe(ctx context.Context, addr, redisURL, mongoURI string, noCache bool) error {
	ca, err := c.newServeCache(ctx, redisURL, noCache)
	if err != nil {
		return err
	}
	runner := pipeline.NewRunner(ca, nil, c.Logger)
	defer runner.Close()

	st, err := c.newStore(ctx, mongoURI)
	if err != nil {
		return err
	}
	defer st.Close(context.Background())

	srv := &Server{
		runner:   runner,
		store:    st,
		logger:   c.Logger,
		defaults: c.serveDefaults(),
	}

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           srv.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = httpServer.Shutdown(shutdownCtx)
	}()

	printSuccess("Serving on %s", addr)
	printNextStep("Open the viewer", "http://localhost"+addr+"/")

	err = httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// newServeCache picks the pipeline cache backend for serve mode. Redis wins
// when configured; a redis that is down falls back to the local file cache
// with a warning rather than refusing to start.
func (c *CLI) newServeCache(ctx context.Context, redisURL string, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	if redisURL != "" {
		ca, err := cache.NewRedisCache(ctx, cache.RedisConfig{Addr: redisURL})
		if err == nil {
			c.Logger.Info("Using redis cache", "addr", redisURL)
			return ca, nil
		}
		c.Logger.Warnf("Redis unavailable, falling back to file cache: %v", err)
	}
	dir, err := c.cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		return nil, err
	}
	c.Logger.Info("Using file cache", "dir", fc.Dir())
	return fc, nil
}

// newStore picks the document store backend for serve mode.
func (c *CLI) newStore(ctx context.Context, mongoURI string) (store.Store, error) {
	if mongoURI == "" {
		return store.NewMemoryStore(), nil
	}
	st, err := store.NewMongoStore(ctx, store.MongoConfig{URI: mongoURI})
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}
	c.Logger.Info("Using mongodb store", "uri", mongoURI)
	return st, nil
}

// serveDefaults builds the baseline pipeline options applied to every
// request before the request body overrides them.
func (c *CLI) serveDefaults() pipeline.Options {
	opts := pipeline.Options{}
	c.applyConfig(&opts)
	opts.SetLayoutDefaults()
	opts.SetRenderDefaults()
	return opts
}

// =============================================================================
// Server - HTTP Handlers
// =============================================================================

// Server handles the HTTP viewer and JSON API.
type Server struct {
	runner   *pipeline.Runner
	store    store.Store
	logger   *log.Logger
	defaults pipeline.Options
}

// Routes builds the chi router with all endpoints registered.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.observe)

	r.Get("/healthz", s.handleHealth)
	r.Get("/", s.handleViewer)
	r.Get("/view/{id}", s.handleViewDocument)

	r.Route("/api", func(r chi.Router) {
		r.Post("/build", s.handleBuild)
		r.Get("/documents", s.handleListDocuments)
		r.Post("/documents", s.handleSaveDocument)
		r.Get("/documents/{id}", s.handleGetDocument)
		r.Delete("/documents/{id}", s.handleDeleteDocument)
	})

	return r
}

// observe is middleware that reports requests to the logger and the
// observability hooks.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		start := time.Now()
		observability.HTTP().OnRequest(req.Context(), req.Method, req.URL.Path)

		ww := middleware.NewWrapResponseWriter(w, req.ProtoMajor)
		next.ServeHTTP(ww, req)

		elapsed := time.Since(start)
		observability.HTTP().OnResponse(req.Context(), req.Method, req.URL.Path, ww.Status(), elapsed)
		s.logger.Debug("Request",
			"method", req.Method,
			"path", req.URL.Path,
			"status", ww.Status(),
			"duration", elapsed.Round(time.Millisecond))
	})
}

// handleHealth reports liveness.
func (s *Server) handleHealth(w http.ResponseWriter, req *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleViewer serves the interactive viewer for the example document.
func (s *Server) handleViewer(w http.ResponseWriter, req *http.Request) {
	opts := s.defaults
	opts.Document = exampleDocument
	opts.Name = "example"
	s.renderViewer(w, req, opts)
}

// handleViewDocument serves the interactive viewer for a stored document.
func (s *Server) handleViewDocument(w http.ResponseWriter, req *http.Request) {
	id := chi.URLParam(req, "id")
	doc, err := s.store.Get(req.Context(), id)
	if err != nil {
		s.respondStoreError(w, err)
		return
	}

	opts := s.defaults
	opts.Document = doc.Source
	opts.Name = doc.Name
	s.renderViewer(w, req, opts)
}

// renderViewer runs the pipeline for the HTML format only and writes the page.
func (s *Server) renderViewer(w http.ResponseWriter, req *http.Request, opts pipeline.Options) {
	opts.Formats = []string{render.FormatHTML}
	result, err := s.runner.Execute(req.Context(), opts)
	if err != nil {
		s.respondError(w, http.StatusUnprocessableEntity, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(result.Artifacts[render.FormatHTML])
}

// buildResponse is the POST /api/build payload.
type buildResponse struct {
	Graph     *graph.Graph       `json:"graph"`
	GraphHash string             `json:"graph_hash"`
	Layout    layout.Layout      `json:"layout"`
	Stats     pipeline.Stats     `json:"stats"`
	CacheInfo pipeline.CacheInfo `json:"cache_info"`
}

// handleBuild runs the pipeline for a document posted as pipeline options.
func (s *Server) handleBuild(w http.ResponseWriter, req *http.Request) {
	opts := s.defaults
	if err := json.NewDecoder(req.Body).Decode(&opts); err != nil {
		s.respondError(w, http.StatusBadRequest, fmt.Errorf("decode request: %w", err))
		return
	}
	if opts.File != "" {
		s.respondError(w, http.StatusBadRequest, fmt.Errorf("file input is not available over HTTP"))
		return
	}
	// The API returns graph and layout; artifacts stay client-side.
	opts.Formats = []string{render.FormatJSON}

	result, err := s.runner.Execute(req.Context(), opts)
	if err != nil {
		s.respondError(w, http.StatusUnprocessableEntity, err)
		return
	}

	s.respondJSON(w, http.StatusOK, buildResponse{
		Graph:     result.Graph,
		GraphHash: result.GraphHash,
		Layout:    result.Layout,
		Stats:     result.Stats,
		CacheInfo: result.CacheInfo,
	})
}

// saveDocumentRequest is the POST /api/documents payload.
type saveDocumentRequest struct {
	Name   string `json:"name"`
	Source string `json:"source"`
}

// handleSaveDocument validates and stores a document.
func (s *Server) handleSaveDocument(w http.ResponseWriter, req *http.Request) {
	var body saveDocumentRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		s.respondError(w, http.StatusBadRequest, fmt.Errorf("decode request: %w", err))
		return
	}
	v, err := jsontree.ParseString(body.Source)
	if err != nil {
		s.respondError(w, http.StatusUnprocessableEntity,
			apperrors.Wrap(apperrors.ErrCodeInvalidDocument, err, "invalid document"))
		return
	}
	g, err := graph.Build(v)
	if err != nil {
		s.respondError(w, http.StatusUnprocessableEntity,
			apperrors.Wrap(apperrors.ErrCodeInvalidDocument, err, "invalid document"))
		return
	}
	if body.Name == "" {
		body.Name = pipeline.DefaultName
	}

	doc := store.New(body.Name, body.Source)
	if data, err := graph.MarshalGraph(g); err == nil {
		doc.GraphHash = cache.Hash(data)
	}
	if err := s.store.Put(req.Context(), doc); err != nil {
		s.respondError(w, http.StatusInternalServerError, err)
		return
	}
	s.respondJSON(w, http.StatusCreated, doc)
}

// handleListDocuments returns all stored documents, newest first.
func (s *Server) handleListDocuments(w http.ResponseWriter, req *http.Request) {
	docs, err := s.store.List(req.Context())
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, err)
		return
	}
	if docs == nil {
		docs = []*store.Document{}
	}
	s.respondJSON(w, http.StatusOK, docs)
}

// handleGetDocument returns one stored document.
func (s *Server) handleGetDocument(w http.ResponseWriter, req *http.Request) {
	doc, err := s.store.Get(req.Context(), chi.URLParam(req, "id"))
	if err != nil {
		s.respondStoreError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, doc)
}

// handleDeleteDocument removes one stored document.
func (s *Server) handleDeleteDocument(w http.ResponseWriter, req *http.Request) {
	if err := s.store.Delete(req.Context(), chi.URLParam(req, "id")); err != nil {
		s.respondStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// respondStoreError maps store errors to HTTP statuses.
func (s *Server) respondStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		s.respondError(w, http.StatusNotFound,
			apperrors.Wrap(apperrors.ErrCodeDocumentNotFound, err, "document not found"))
	case errors.Is(err, store.ErrEmptyID):
		s.respondError(w, http.StatusBadRequest, err)
	default:
		s.respondError(w, http.StatusInternalServerError, err)
	}
}

// respondJSON writes v as a JSON response.
func (s *Server) respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("Encode response", "err", err)
	}
}

// errorResponse is the JSON error payload. Code is set when the error
// carries a machine-readable code, so API clients can branch without
// string matching.
type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// respondError writes an error as a JSON response.
func (s *Server) respondError(w http.ResponseWriter, status int, err error) {
	s.respondJSON(w, status, errorResponse{
		Error: apperrors.UserMessage(err),
		Code:  string(apperrors.GetCode(err)),
	})
}
