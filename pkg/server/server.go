package server

import (
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/adfharrison1/go-index/pkg/api"
	"github.com/adfharrison1/go-index/pkg/storage"
)

// Server holds references to storage, router, etc.
type Server struct {
	router   *mux.Router
	dbEngine *storage.StorageEngine
	logger   *zap.SugaredLogger
}

// NewServer creates a new instance of Server backed by a fresh storage engine.
func NewServer(logger *zap.SugaredLogger, options ...storage.StorageOption) *Server {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	options = append([]storage.StorageOption{storage.WithLogger(logger.Named("storage"))}, options...)
	s := &Server{
		router:   mux.NewRouter(),
		dbEngine: storage.NewStorageEngine(options...),
		logger:   logger,
	}

	api.NewHandler(s.dbEngine, logger.Named("api")).RegisterRoutes(s.router)

	s.router.Use(s.requestLoggerMiddleware)
	s.router.Use(compressionMiddleware)

	// Customize NotFoundHandler to log 404s
	s.router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.logger.Warnf("no route found for %s %s", r.Method, r.URL.Path)
		api.WriteJSONError(w, http.StatusNotFound, "no route for "+r.URL.Path)
	})

	return s
}

// Router exposes the internal mux.Router.
func (s *Server) Router() http.Handler {
	return s.router
}

// Storage returns the engine behind the server
func (s *Server) Storage() *storage.StorageEngine {
	return s.dbEngine
}

// StartBackgroundWorkers starts the storage engine's background workers
func (s *Server) StartBackgroundWorkers() {
	s.dbEngine.StartBackgroundWorkers()
}

// StopBackgroundWorkers stops the storage engine's background workers
func (s *Server) StopBackgroundWorkers() {
	s.dbEngine.StopBackgroundWorkers()
}
