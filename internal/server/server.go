/*
Package server exposes the analytics and pathfinding engine over HTTP.

Routes:
  GET  /analyze               run analysis, one row per student
  GET  /history/:student_id   snapshots, oldest first
  POST /add-edge              record a graph edge in the audit log
  GET  /all-data              bulk export of history, logs and marks
  GET  /marks                 every recorded mark
  POST /ask-ai                conversational commands and questions
  GET  /search                full-text search over latest snapshots
  GET  /healthz               liveness and store availability
  GET  /metrics               prometheus exposition

Read routes never fail because of the store: an unavailable store is
answered with synthetic data.
*/
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/arise-learning/arise/internal/analytics"
	"github.com/arise-learning/arise/internal/askai"
	"github.com/arise-learning/arise/internal/command"
	"github.com/arise-learning/arise/internal/storage"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// shutdownTimeout bounds graceful shutdown.
const shutdownTimeout = 10 * time.Second

// Deps are the collaborators a Server needs.
type Deps struct {
	Store  storage.Storage
	Asker  askai.Asker
	Logger *zap.Logger

	// Gate is the availability gate the store was built with. When set,
	// /healthz reports its state as last observed by request traffic.
	Gate *storage.Gate

	// Now defaults to time.Now.
	Now func() time.Time
}

// Server is the HTTP front of arise.
type Server struct {
	store      storage.Storage
	gate       *storage.Gate
	analyzer   *analytics.Analyzer
	dispatcher *command.Dispatcher
	logger     *zap.Logger
	now        func() time.Time

	router     *gin.Engine
	httpServer *http.Server
}

// NewServer creates a server listening on addr.
func NewServer(addr string, deps Deps) *Server {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}

	s := &Server{
		store:      deps.Store,
		gate:       deps.Gate,
		analyzer:   analytics.NewAnalyzer(deps.Store, deps.Logger),
		dispatcher: command.NewDispatcher(deps.Store, deps.Asker, deps.Logger),
		logger:     deps.Logger,
		now:        deps.Now,
	}
	s.router = s.routes()
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

func (s *Server) routes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(s.logger))

	router.GET("/analyze", s.handleAnalyze)
	router.GET("/history/:student_id", s.handleHistory)
	router.POST("/add-edge", s.handleAddEdge)
	router.GET("/all-data", s.handleAllData)
	router.GET("/marks", s.handleMarks)
	router.POST("/ask-ai", s.handleAskAI)
	router.GET("/search", s.handleSearch)
	router.GET("/healthz", s.handleHealth)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return router
}

// Handler returns the HTTP handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until Close is called. A clean shutdown returns nil.
func (s *Server) Run() error {
	s.logger.Info("listening", zap.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Close drains in-flight requests and stops the server.
func (s *Server) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}
