// Package api serves a read-only HTTP view of an inventory graph.
//
// Routes:
//
//	GET /healthz                      build info and graph size
//	GET /vertices?type=T              vertices, optionally filtered by type
//	GET /vertices/{id}                one vertex
//	GET /vertices/{id}/out?type=E     vertices reached over outgoing edges
//	GET /vertices/{id}/in?type=E      vertices reached over incoming edges
//	GET /summary                      vertex and edge counts per type
//	GET /domains                      per-domain component report
//	GET /graph                        the full graph document
//	GET /snapshots?limit=N            archived snapshots, if an archive is set
//
// The type parameters may repeat. Errors are JSON objects carrying the
// stackinv error code, with the HTTP status derived from it.
package api

import (
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/stackinv/pkg/archive"
	"github.com/matzehuels/stackinv/pkg/observability"
	"github.com/matzehuels/stackinv/pkg/store"
)

// Options configures a [Server].
type Options struct {
	// Logger receives one debug line per request. Nil disables request logs.
	Logger *log.Logger

	// Archive backs /snapshots. Nil makes the route return NOT_FOUND.
	Archive archive.Archive
}

// Server answers graph queries over HTTP. The store must not be modified
// while the server is running; concurrent reads are safe.
type Server struct {
	store   *store.Store
	logger  *log.Logger
	archive archive.Archive
	router  chi.Router
}

// New creates a server for s.
func New(s *store.Store, opts Options) *Server {
	srv := &Server{store: s, logger: opts.Logger, archive: opts.Archive}
	srv.router = srv.routes()
	return srv
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.observe)

	r.Get("/healthz", s.handleHealth)
	r.Route("/vertices", func(r chi.Router) {
		r.Get("/", s.handleVertices)
		r.Get("/{id}", s.handleVertex)
		r.Get("/{id}/out", s.handleNeighbours(true))
		r.Get("/{id}/in", s.handleNeighbours(false))
	})
	r.Get("/summary", s.handleSummary)
	r.Get("/domains", s.handleDomains)
	r.Get("/graph", s.handleGraph)
	r.Get("/snapshots", s.handleSnapshots)
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, errNotFound("no route for %s", r.URL.Path))
	})
	return r
}

// observe reports each request to the HTTP hooks and the logger.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		hooks := observability.HTTP()
		hooks.OnRequest(r.Context(), r.Method, r.URL.Path)

		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		elapsed := time.Since(start)
		hooks.OnResponse(r.Context(), r.Method, route, status, elapsed)
		if s.logger != nil {
			s.logger.Debug("request", "method", r.Method, "route", route, "status", status,
				"duration", elapsed.Round(time.Microsecond), "id", middleware.GetReqID(r.Context()))
		}
	})
}
