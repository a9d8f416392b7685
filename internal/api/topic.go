package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/brandlens/brandlens/internal/models"
)

// Topic endpoints

// createTopic handles POST /api/v1/workspaces/:id/topics
func (s *Server) createTopic(c *gin.Context) {
	var req models.CreateTopicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.errorResponse(c, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	workspace, err := s.sqlDB.GetWorkspace(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.errorResponse(c, http.StatusInternalServerError, "Failed to get workspace: "+err.Error())
		return
	}
	if workspace == nil {
		s.errorResponse(c, http.StatusNotFound, "Workspace not found")
		return
	}

	topic := &models.Topic{
		ID:          uuid.New().String(),
		WorkspaceID: workspace.ID,
		Name:        req.Name,
		Description: req.Description,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	if err := s.sqlDB.CreateTopic(c.Request.Context(), topic); err != nil {
		s.errorResponse(c, http.StatusInternalServerError, "Failed to create topic: "+err.Error())
		return
	}

	c.JSON(http.StatusCreated, models.APIResponse{
		Success: true,
		Data:    topic,
		Message: "Topic created successfully",
	})
}

// listTopics handles GET /api/v1/workspaces/:id/topics
func (s *Server) listTopics(c *gin.Context) {
	topics, err := s.sqlDB.ListTopics(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.errorResponse(c, http.StatusInternalServerError, "Failed to list topics: "+err.Error())
		return
	}

	s.successResponse(c, topics)
}

// getTopic handles GET /api/v1/topics/:id
func (s *Server) getTopic(c *gin.Context) {
	topic, err := s.sqlDB.GetTopic(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.errorResponse(c, http.StatusInternalServerError, "Failed to get topic: "+err.Error())
		return
	}
	if topic == nil {
		s.errorResponse(c, http.StatusNotFound, "Topic not found")
		return
	}

	s.successResponse(c, topic)
}

// listTopicSnapshots handles GET /api/v1/topics/:id/snapshots
func (s *Server) listTopicSnapshots(c *gin.Context) {
	_, limit := s.parsePagination(c)

	snapshots, err := s.sqlDB.ListTopicSnapshots(c.Request.Context(), c.Param("id"), limit)
	if err != nil {
		s.errorResponse(c, http.StatusInternalServerError, "Failed to list snapshots: "+err.Error())
		return
	}

	s.successResponse(c, snapshots)
}
