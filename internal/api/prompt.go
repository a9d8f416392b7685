package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/brandlens/brandlens/internal/models"
)

// Monitoring prompt endpoints

const maxPromptLength = 2000

// createPrompt handles POST /api/v1/workspaces/:id/prompts
func (s *Server) createPrompt(c *gin.Context) {
	var req models.CreateMonitoringPromptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.errorResponse(c, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	if len(req.Text) > maxPromptLength {
		s.errorResponse(c, http.StatusBadRequest, "Prompt text too long (max 2000 characters)")
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

	if workspace.MaxPrompts > 0 {
		existing, err := s.sqlDB.GetActivePrompts(c.Request.Context(), workspace.ID, "")
		if err != nil {
			s.errorResponse(c, http.StatusInternalServerError, "Failed to check prompt quota: "+err.Error())
			return
		}
		if len(existing) >= workspace.MaxPrompts {
			s.errorResponse(c, http.StatusConflict, "Workspace prompt quota reached")
			return
		}
	}

	prompt := &models.MonitoringPrompt{
		ID:          uuid.New().String(),
		WorkspaceID: workspace.ID,
		RegionID:    req.RegionID,
		TopicID:     req.TopicID,
		Text:        req.Text,
		Source:      "custom",
		Active:      true,
		Pinned:      req.Pinned,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	if err := s.sqlDB.CreatePrompt(c.Request.Context(), prompt); err != nil {
		s.errorResponse(c, http.StatusInternalServerError, "Failed to create prompt: "+err.Error())
		return
	}

	c.JSON(http.StatusCreated, models.APIResponse{
		Success: true,
		Data:    prompt,
		Message: "Prompt created successfully",
	})
}

// listPrompts handles GET /api/v1/workspaces/:id/prompts
func (s *Server) listPrompts(c *gin.Context) {
	prompts, err := s.sqlDB.GetActivePrompts(c.Request.Context(), c.Param("id"), c.Query("region_id"))
	if err != nil {
		s.errorResponse(c, http.StatusInternalServerError, "Failed to list prompts: "+err.Error())
		return
	}

	s.successResponse(c, prompts)
}

// getPrompt handles GET /api/v1/prompts/:id
func (s *Server) getPrompt(c *gin.Context) {
	prompt, err := s.sqlDB.GetPrompt(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.errorResponse(c, http.StatusInternalServerError, "Failed to get prompt: "+err.Error())
		return
	}
	if prompt == nil {
		s.errorResponse(c, http.StatusNotFound, "Prompt not found")
		return
	}

	s.successResponse(c, prompt)
}

// updatePrompt handles PUT /api/v1/prompts/:id
func (s *Server) updatePrompt(c *gin.Context) {
	var req models.UpdateMonitoringPromptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.errorResponse(c, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	prompt, err := s.sqlDB.GetPrompt(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.errorResponse(c, http.StatusInternalServerError, "Failed to get prompt: "+err.Error())
		return
	}
	if prompt == nil {
		s.errorResponse(c, http.StatusNotFound, "Prompt not found")
		return
	}

	if req.Text != nil {
		if len(*req.Text) > maxPromptLength {
			s.errorResponse(c, http.StatusBadRequest, "Prompt text too long (max 2000 characters)")
			return
		}
		prompt.Text = *req.Text
	}
	if req.TopicID != nil {
		prompt.TopicID = *req.TopicID
	}
	if req.Active != nil {
		prompt.Active = *req.Active
	}
	if req.Pinned != nil {
		prompt.Pinned = *req.Pinned
	}

	if err := s.sqlDB.UpdatePrompt(c.Request.Context(), prompt); err != nil {
		s.errorResponse(c, http.StatusInternalServerError, "Failed to update prompt: "+err.Error())
		return
	}

	s.successResponse(c, prompt)
}

// listPromptSnapshots handles GET /api/v1/prompts/:id/snapshots
func (s *Server) listPromptSnapshots(c *gin.Context) {
	_, limit := s.parsePagination(c)

	snapshots, err := s.sqlDB.ListPromptSnapshots(c.Request.Context(), c.Param("id"), limit)
	if err != nil {
		s.errorResponse(c, http.StatusInternalServerError, "Failed to list snapshots: "+err.Error())
		return
	}

	s.successResponse(c, snapshots)
}
