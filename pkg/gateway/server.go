// Package gateway implements the HTTP-to-SQL request pipeline: API-key
// authentication, a fixed route table, identifier validation, parameterized
// statement construction, and uniform JSON envelope responses.
package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sqlgate/sqlgate/pkg/httputil"
	mw "github.com/sqlgate/sqlgate/pkg/httputil/middleware"
	"github.com/sqlgate/sqlgate/pkg/metrics"
	"github.com/sqlgate/sqlgate/pkg/sqlite"
	"go.uber.org/zap"
)

// APIKeyHeader is the credential header checked on every authenticated route.
const APIKeyHeader = "X-API-Key"

// Fixed error messages of the response contract.
const (
	msgUnauthorized   = "Unauthorized: Invalid or missing API key"
	msgRouteNotFound  = "Route not found"
	msgInvalidTable   = "Invalid table name"
	msgRecordNotFound = "Record not found"
	msgBodyRequired   = "Request body is required"
	msgQueryRequired  = "Query is required"
	msgInvalidJSON    = "Invalid JSON body"
)

const (
	defaultLimit  = 100
	defaultOffset = 0
)

// Executor runs one statement against the database binding. *sqlite.DB
// satisfies it; tests substitute a recording fake.
type Executor interface {
	Query(ctx context.Context, query string, args ...any) ([]map[string]any, *sqlite.Meta, error)
	Exec(ctx context.Context, query string, args ...any) (*sqlite.Meta, error)
}

// Options configures a Server.
type Options struct {
	// APIKey is the secret clients must present in the X-API-Key header.
	APIKey string
	// Logger receives statement-level error logs. Defaults to zap.NewNop.
	Logger *zap.Logger
}

// Server is the request pipeline. It holds no per-request state; concurrent
// requests share only the executor, which the database binding synchronizes.
type Server struct {
	exec       Executor
	apiKey     string
	logger     *zap.Logger
	routes     []route
	middleware []mw.Middleware
	server     *http.Server
}

// NewServer creates a Server around the given executor. The route table is
// fixed; evaluation is top-to-bottom, first structural+method match wins.
func NewServer(exec Executor, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Server{
		exec:   exec,
		apiKey: opts.APIKey,
		logger: logger,
	}

	s.routes = []route{
		newRoute(http.MethodGet, "/", s.handleDocs),
		newRoute(http.MethodGet, "/tables", s.handleListTables),
		newRoute(http.MethodGet, "/tables/{table}", s.handleListRecords),
		newRoute(http.MethodGet, "/tables/{table}/{id}", s.handleGetRecord),
		newRoute(http.MethodPost, "/tables/{table}", s.handleCreateRecord),
		newRoute(http.MethodPut, "/tables/{table}/{id}", s.handleUpdateRecord),
		newRoute(http.MethodDelete, "/tables/{table}/{id}", s.handleDeleteRecord),
		newRoute(http.MethodPost, "/query", s.handleRawQuery),
	}

	return s
}

// AddMiddleware appends middleware to the chain wrapped around the pipeline
// by Handler. The first added runs outermost.
func (s *Server) AddMiddleware(middleware ...mw.Middleware) {
	s.middleware = append(s.middleware, middleware...)
}

// Handler returns the pipeline with all registered middleware applied.
func (s *Server) Handler() http.Handler {
	return mw.Chain(http.HandlerFunc(s.dispatch), s.middleware...)
}

// Start begins serving on addr. It blocks until the server stops.
func (s *Server) Start(addr string) error {
	s.server = &http.Server{Addr: addr, Handler: s.Handler()}
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops a server started with Start.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// dispatch authenticates the request and walks the route table. Preflight
// OPTIONS requests are normally answered by the CORS middleware before
// reaching here; if one arrives anyway it gets the same empty response.
func (s *Server) dispatch(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	segments := splitPath(r.URL.Path)

	// The docs page is the only path reachable anonymously.
	if !(r.Method == http.MethodGet && len(segments) == 0) {
		if key := r.Header.Get(APIKeyHeader); key == "" || key != s.apiKey {
			httputil.Fail(w, http.StatusUnauthorized, msgUnauthorized)
			return
		}
	}

	for _, rt := range s.routes {
		if p, ok := rt.match(r.Method, segments); ok {
			rt.handler(w, r, p)
			return
		}
	}

	httputil.Fail(w, http.StatusNotFound, msgRouteNotFound)
}

type routeParams struct {
	table string
	id    string
}

type handlerFunc func(w http.ResponseWriter, r *http.Request, p routeParams)

type route struct {
	method   string
	segments []string
	handler  handlerFunc
}

func newRoute(method, pattern string, handler handlerFunc) route {
	return route{method: method, segments: splitPath(pattern), handler: handler}
}

// match requires the segment counts to be equal; a path with more or fewer
// segments than the pattern never matches it.
func (rt route) match(method string, segments []string) (routeParams, bool) {
	if rt.method != method || len(rt.segments) != len(segments) {
		return routeParams{}, false
	}
	var p routeParams
	for i, pat := range rt.segments {
		switch pat {
		case "{table}":
			p.table = segments[i]
		case "{id}":
			p.id = segments[i]
		default:
			if pat != segments[i] {
				return routeParams{}, false
			}
		}
	}
	return p, true
}

func splitPath(path string) []string {
	path = strings.Trim(path, "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}

func (s *Server) handleDocs(w http.ResponseWriter, _ *http.Request, _ routeParams) {
	httputil.HTML(w, http.StatusOK, docsHTML)
}

func (s *Server) handleListTables(w http.ResponseWriter, r *http.Request, _ routeParams) {
	timer := prometheus.NewTimer(metrics.StatementDuration.WithLabelValues("list_tables"))
	rows, meta, err := s.exec.Query(r.Context(), listTablesSQL)
	timer.ObserveDuration()
	if err != nil {
		s.failExecution(w, r, err)
		return
	}
	httputil.Respond(w, http.StatusOK, rows, meta)
}

func (s *Server) handleListRecords(w http.ResponseWriter, r *http.Request, p routeParams) {
	if !validIdentifier(p.table) {
		httputil.Fail(w, http.StatusBadRequest, msgInvalidTable)
		return
	}

	limit := intQueryParam(r, "limit", defaultLimit)
	offset := intQueryParam(r, "offset", defaultOffset)
	query, args := selectAllStmt(p.table, limit, offset)

	timer := prometheus.NewTimer(metrics.StatementDuration.WithLabelValues("select"))
	rows, meta, err := s.exec.Query(r.Context(), query, args...)
	timer.ObserveDuration()
	if err != nil {
		s.failExecution(w, r, err)
		return
	}
	httputil.Respond(w, http.StatusOK, rows, meta)
}

func (s *Server) handleGetRecord(w http.ResponseWriter, r *http.Request, p routeParams) {
	if !validIdentifier(p.table) {
		httputil.Fail(w, http.StatusBadRequest, msgInvalidTable)
		return
	}

	query, args := selectByIDStmt(p.table, p.id)

	timer := prometheus.NewTimer(metrics.StatementDuration.WithLabelValues("select"))
	rows, meta, err := s.exec.Query(r.Context(), query, args...)
	timer.ObserveDuration()
	if err != nil {
		s.failExecution(w, r, err)
		return
	}
	if len(rows) == 0 {
		httputil.Fail(w, http.StatusNotFound, msgRecordNotFound)
		return
	}
	httputil.Respond(w, http.StatusOK, rows[0], meta)
}

func (s *Server) handleCreateRecord(w http.ResponseWriter, r *http.Request, p routeParams) {
	if !validIdentifier(p.table) {
		httputil.Fail(w, http.StatusBadRequest, msgInvalidTable)
		return
	}

	rec, ok := s.bindRecord(w, r)
	if !ok {
		return
	}

	query, args := insertStmt(p.table, rec)

	timer := prometheus.NewTimer(metrics.StatementDuration.WithLabelValues("insert"))
	meta, err := s.exec.Exec(r.Context(), query, args...)
	timer.ObserveDuration()
	if err != nil {
		s.failExecution(w, r, err)
		return
	}
	httputil.Respond(w, http.StatusCreated, nil, meta)
}

func (s *Server) handleUpdateRecord(w http.ResponseWriter, r *http.Request, p routeParams) {
	if !validIdentifier(p.table) {
		httputil.Fail(w, http.StatusBadRequest, msgInvalidTable)
		return
	}

	rec, ok := s.bindRecord(w, r)
	if !ok {
		return
	}

	query, args := updateStmt(p.table, rec, p.id)

	timer := prometheus.NewTimer(metrics.StatementDuration.WithLabelValues("update"))
	meta, err := s.exec.Exec(r.Context(), query, args...)
	timer.ObserveDuration()
	if err != nil {
		s.failExecution(w, r, err)
		return
	}
	// Zero affected rows means the row wasn't there. An update whose values
	// all match the existing row also reports changes in SQLite, so this
	// doesn't misfire on no-op updates.
	if meta.Changes == 0 {
		httputil.Fail(w, http.StatusNotFound, msgRecordNotFound)
		return
	}
	httputil.Respond(w, http.StatusOK, nil, meta)
}

func (s *Server) handleDeleteRecord(w http.ResponseWriter, r *http.Request, p routeParams) {
	if !validIdentifier(p.table) {
		httputil.Fail(w, http.StatusBadRequest, msgInvalidTable)
		return
	}

	query, args := deleteStmt(p.table, p.id)

	timer := prometheus.NewTimer(metrics.StatementDuration.WithLabelValues("delete"))
	meta, err := s.exec.Exec(r.Context(), query, args...)
	timer.ObserveDuration()
	if err != nil {
		s.failExecution(w, r, err)
		return
	}
	if meta.Changes == 0 {
		httputil.Fail(w, http.StatusNotFound, msgRecordNotFound)
		return
	}
	httputil.Respond(w, http.StatusOK, nil, meta)
}

// handleRawQuery executes caller-supplied SQL verbatim with the given bind
// parameters. No identifier validation and no statement-shape restriction
// apply; the endpoint is a trusted escape hatch gated solely by the API key.
func (s *Server) handleRawQuery(w http.ResponseWriter, r *http.Request, _ routeParams) {
	var req struct {
		Query  string `json:"query"`
		Params []any  `json:"params"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if errors.Is(err, io.EOF) {
			httputil.Fail(w, http.StatusBadRequest, msgQueryRequired)
			return
		}
		httputil.Fail(w, http.StatusBadRequest, msgInvalidJSON)
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		httputil.Fail(w, http.StatusBadRequest, msgQueryRequired)
		return
	}

	timer := prometheus.NewTimer(metrics.StatementDuration.WithLabelValues("raw"))
	defer timer.ObserveDuration()

	// Statements that produce rows go through Query; everything else goes
	// through Exec, which is the only path the driver reports last-insert-id
	// and affected-row counts on.
	if returnsRows(req.Query) {
		rows, meta, err := s.exec.Query(r.Context(), req.Query, req.Params...)
		if err != nil {
			s.failExecution(w, r, err)
			return
		}
		httputil.Respond(w, http.StatusOK, rows, meta)
		return
	}

	meta, err := s.exec.Exec(r.Context(), req.Query, req.Params...)
	if err != nil {
		s.failExecution(w, r, err)
		return
	}
	httputil.Respond(w, http.StatusOK, make([]map[string]any, 0), meta)
}

// bindRecord decodes the request body for create/update. It writes the
// validation failure itself and reports whether the caller may proceed.
func (s *Server) bindRecord(w http.ResponseWriter, r *http.Request) (Record, bool) {
	rec, err := decodeRecord(r.Body)
	switch {
	case errors.Is(err, errNotObject):
		httputil.Fail(w, http.StatusBadRequest, "Request body must be a JSON object")
		return nil, false
	case err != nil:
		httputil.Fail(w, http.StatusBadRequest, msgInvalidJSON)
		return nil, false
	case len(rec) == 0:
		httputil.Fail(w, http.StatusBadRequest, msgBodyRequired)
		return nil, false
	}
	return rec, true
}

// failExecution maps any database-level failure to a 500 with the engine's
// message text surfaced verbatim. Nothing is retried; the error is terminal
// for this request only.
func (s *Server) failExecution(w http.ResponseWriter, r *http.Request, err error) {
	s.logger.Error("statement execution failed",
		zap.String("method", r.Method),
		zap.String("url", r.URL.String()),
		zap.Error(err),
	)
	httputil.Fail(w, http.StatusInternalServerError, err.Error())
}

// intQueryParam parses an integer query parameter, falling back to the
// default when the parameter is absent or unparsable.
func intQueryParam(r *http.Request, name string, defaultValue int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return defaultValue
	}
	return n
}
