package server

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/arise-learning/arise/internal/askai"
	"github.com/arise-learning/arise/internal/fallback"
	"github.com/arise-learning/arise/internal/metrics"
	"github.com/arise-learning/arise/internal/search"
	"github.com/arise-learning/arise/internal/storage"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// exportLogLimit caps the logs returned by the bulk export.
const exportLogLimit = 100

// AddEdgeRequest is the body of POST /add-edge.
type AddEdgeRequest struct {
	From string   `json:"from" binding:"required"`
	To   string   `json:"to" binding:"required"`
	Cost *float64 `json:"cost" binding:"required"`
}

// AskRequest is the body of POST /ask-ai.
type AskRequest struct {
	Conversation askai.Conversation `json:"conversation"`
}

// StatusResponse is returned by write routes.
type StatusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

func (s *Server) handleAnalyze(c *gin.Context) {
	report := s.analyzer.Run(c.Request.Context())
	c.JSON(http.StatusOK, report.Assignments)
}

func (s *Server) handleHistory(c *gin.Context) {
	studentID := c.Param("student_id")

	history, err := s.store.History(c.Request.Context(), studentID)
	switch {
	case storage.IsUnavailable(err):
		metrics.StoreFallbacks.WithLabelValues("history", "unavailable").Inc()
		history = fallback.History(studentID, s.now().UTC())
	case err != nil:
		s.logger.Warn("failed to read history", zap.String("student_id", studentID), zap.Error(err))
		metrics.StoreFallbacks.WithLabelValues("history", "query").Inc()
		history = []storage.Snapshot{}
	}

	c.JSON(http.StatusOK, history)
}

func (s *Server) handleAddEdge(c *gin.Context) {
	var req AddEdgeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, StatusResponse{Status: "error", Message: "from,to,cost required"})
		return
	}

	err := s.store.RecordEdge(c.Request.Context(), storage.Edge{From: req.From, To: req.To, Cost: *req.Cost})
	switch {
	case storage.IsUnavailable(err):
		c.JSON(http.StatusOK, StatusResponse{Status: "ok", Message: "Demo mode: edge noted"})
	case err != nil:
		s.logger.Warn("failed to record edge", zap.String("from", req.From), zap.String("to", req.To), zap.Error(err))
		c.JSON(http.StatusOK, StatusResponse{Status: "ok"})
	default:
		c.JSON(http.StatusOK, StatusResponse{Status: "ok"})
	}
}

func (s *Server) handleAllData(c *gin.Context) {
	c.JSON(http.StatusOK, Export(c.Request.Context(), s.store, s.logger, s.now))
}

// Export reads the three datasets concurrently. Any unavailable read
// switches the whole export to synthetic data; a failed query empties only
// its own dataset.
func Export(ctx context.Context, store storage.Storage, logger *zap.Logger, now func() time.Time) fallback.Dataset {
	if logger == nil {
		logger = zap.NewNop()
	}
	data := fallback.Empty()
	tolerate := func(op string, err error) error {
		if err == nil || storage.IsUnavailable(err) {
			return err
		}
		logger.Warn("export query failed", zap.String("op", op), zap.Error(err))
		metrics.StoreFallbacks.WithLabelValues("export", "query").Inc()
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		history, err := store.AllHistory(gctx)
		if err = tolerate("all_history", err); err == nil && history != nil {
			data.BehaviorHistory = history
		}
		return err
	})
	g.Go(func() error {
		logs, err := store.ListLogs(gctx, exportLogLimit)
		if err = tolerate("list_logs", err); err == nil && logs != nil {
			data.Logs = logs
		}
		return err
	})
	g.Go(func() error {
		marks, err := store.Marks(gctx)
		if err = tolerate("marks", err); err == nil && marks != nil {
			data.Marks = marks
		}
		return err
	})

	if err := g.Wait(); err != nil {
		metrics.StoreFallbacks.WithLabelValues("export", "unavailable").Inc()
		return fallback.Export(now().UTC())
	}
	return data
}

func (s *Server) handleMarks(c *gin.Context) {
	marks, err := s.store.Marks(c.Request.Context())
	switch {
	case storage.IsUnavailable(err):
		metrics.StoreFallbacks.WithLabelValues("marks", "unavailable").Inc()
		marks = fallback.Marks()
	case err != nil:
		s.logger.Warn("failed to read marks", zap.Error(err))
		metrics.StoreFallbacks.WithLabelValues("marks", "query").Inc()
		marks = fallback.DegradedMarks()
	case marks == nil:
		marks = []int{}
	}

	c.JSON(http.StatusOK, marks)
}

func (s *Server) handleAskAI(c *gin.Context) {
	var req AskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}
	if err := req.Conversation.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	reply := s.dispatcher.Dispatch(c.Request.Context(), req.Conversation)
	c.JSON(http.StatusOK, gin.H{"reply": reply})
}

func (s *Server) handleSearch(c *gin.Context) {
	var cluster *int
	if raw := c.Query("cluster"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "cluster must be an integer"})
			return
		}
		cluster = &v
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a non-negative integer"})
			return
		}
		limit = v
	}

	idx, err := search.Build(c.Request.Context(), s.store, s.logger)
	if err != nil {
		s.logger.Warn("failed to build search index", zap.Error(err))
		c.JSON(http.StatusOK, []search.SearchResult{})
		return
	}
	defer idx.Close()

	results, err := idx.Search(c.Query("q"), cluster, limit)
	if err != nil {
		s.logger.Warn("search failed", zap.Error(err))
		results = []search.SearchResult{}
	}
	c.JSON(http.StatusOK, results)
}

func (s *Server) handleHealth(c *gin.Context) {
	body := gin.H{"status": "ok"}
	// Read before Probe, which reopens or closes the gate.
	if s.gate != nil {
		body["gate_open"] = s.gate.Available()
	}
	body["store_available"] = s.store.Probe(c.Request.Context())
	c.JSON(http.StatusOK, body)
}
