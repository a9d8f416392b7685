// Package api exposes the REST surface: workspace and topic management,
// monitoring prompt CRUD, snapshot reads, live composite scores, and run
// triggering with a streamed progress feed.
package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/brandlens/brandlens/internal/config"
	"github.com/brandlens/brandlens/internal/db"
	"github.com/brandlens/brandlens/internal/logger"
	"github.com/brandlens/brandlens/internal/models"
	"github.com/brandlens/brandlens/internal/orchestrator"
	"github.com/brandlens/brandlens/internal/score"
)

// Server is the HTTP API server
type Server struct {
	sqlDB     db.SQLDatabase
	factStore db.NoSQLDatabase
	orch      *orchestrator.Orchestrator
	generator *orchestrator.Generator
	scorer    *score.Scorer
	config    *config.Config
	router    *gin.Engine
	srv       *http.Server
}

// NewServer creates a new API server
func NewServer(cfg *config.Config, sqlDB db.SQLDatabase, factStore db.NoSQLDatabase, orch *orchestrator.Orchestrator, generator *orchestrator.Generator, scorer *score.Scorer) *Server {
	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		sqlDB:     sqlDB,
		factStore: factStore,
		orch:      orch,
		generator: generator,
		scorer:    scorer,
		config:    cfg,
		router:    gin.New(),
	}

	s.router.Use(gin.Recovery())
	s.setupRoutes()

	return s
}

// Start runs the HTTP server until the context is cancelled
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)
	s.srv = &http.Server{
		Addr:    addr,
		Handler: s.router,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("API server listening on %s", addr)
		if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", s.health)

	v1 := s.router.Group("/api/v1")
	{
		workspaces := v1.Group("/workspaces")
		{
			workspaces.POST("", s.createWorkspace)
			workspaces.GET("", s.listWorkspaces)
			workspaces.GET("/:id", s.getWorkspace)
			workspaces.PUT("/:id", s.updateWorkspace)
			workspaces.GET("/:id/scores", s.getWorkspaceScores)
			workspaces.GET("/:id/results", s.listWorkspaceResults)
			workspaces.POST("/:id/run", s.triggerRun)
			workspaces.POST("/:id/prompts", s.createPrompt)
			workspaces.GET("/:id/prompts", s.listPrompts)
			workspaces.POST("/:id/topics", s.createTopic)
			workspaces.GET("/:id/topics", s.listTopics)
			workspaces.POST("/:id/generate", s.startGeneration)
		}

		prompts := v1.Group("/prompts")
		{
			prompts.GET("/:id", s.getPrompt)
			prompts.PUT("/:id", s.updatePrompt)
			prompts.GET("/:id/snapshots", s.listPromptSnapshots)
		}

		topics := v1.Group("/topics")
		{
			topics.GET("/:id", s.getTopic)
			topics.GET("/:id/snapshots", s.listTopicSnapshots)
		}

		jobs := v1.Group("/generation-jobs")
		{
			jobs.GET("/:id", s.getGenerationJob)
			jobs.POST("/:id/cancel", s.cancelGenerationJob)
		}
	}
}

// health handles GET /health
func (s *Server) health(c *gin.Context) {
	status := "healthy"
	code := http.StatusOK

	if err := s.sqlDB.Ping(c.Request.Context()); err != nil {
		status = "sql store unreachable"
		code = http.StatusServiceUnavailable
	} else if err := s.factStore.Ping(c.Request.Context()); err != nil {
		status = "fact store unreachable"
		code = http.StatusServiceUnavailable
	}

	c.JSON(code, gin.H{"status": status})
}

// successResponse sends a standard success envelope
func (s *Server) successResponse(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, models.APIResponse{
		Success: true,
		Data:    data,
	})
}

// errorResponse sends a standard error envelope
func (s *Server) errorResponse(c *gin.Context, code int, message string) {
	c.JSON(code, models.APIResponse{
		Success: false,
		Error:   message,
	})
}

// parsePagination reads page/limit query params with sane bounds
func (s *Server) parsePagination(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return page, limit
}
