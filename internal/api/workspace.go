package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/brandlens/brandlens/internal/models"
	"github.com/brandlens/brandlens/internal/shared"
)

// Workspace endpoints

// createWorkspace handles POST /api/v1/workspaces
func (s *Server) createWorkspace(c *gin.Context) {
	var req models.CreateWorkspaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.errorResponse(c, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	if len(req.Providers) == 0 {
		s.errorResponse(c, http.StatusBadRequest, "At least one provider is required")
		return
	}

	workspace := &models.Workspace{
		ID:               uuid.New().String(),
		Name:             req.Name,
		BrandName:        req.BrandName,
		BrandWebsite:     req.BrandWebsite,
		BrandDescription: req.BrandDescription,
		Competitors:      req.Competitors,
		Providers:        req.Providers,
		RegionID:         req.RegionID,
		Language:         req.Language,
		MaxPrompts:       req.MaxPrompts,
		Active:           true,
		CreatedAt:        time.Now(),
		UpdatedAt:        time.Now(),
	}

	if err := s.sqlDB.CreateWorkspace(c.Request.Context(), workspace); err != nil {
		s.errorResponse(c, http.StatusInternalServerError, "Failed to create workspace: "+err.Error())
		return
	}

	c.JSON(http.StatusCreated, models.APIResponse{
		Success: true,
		Data:    workspace,
		Message: "Workspace created successfully",
	})
}

// listWorkspaces handles GET /api/v1/workspaces
func (s *Server) listWorkspaces(c *gin.Context) {
	var active *bool
	if raw := c.Query("active"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			s.errorResponse(c, http.StatusBadRequest, "Invalid active filter")
			return
		}
		active = &parsed
	}

	workspaces, err := s.sqlDB.ListWorkspaces(c.Request.Context(), active)
	if err != nil {
		s.errorResponse(c, http.StatusInternalServerError, "Failed to list workspaces: "+err.Error())
		return
	}

	s.successResponse(c, workspaces)
}

// getWorkspace handles GET /api/v1/workspaces/:id
func (s *Server) getWorkspace(c *gin.Context) {
	workspace, err := s.sqlDB.GetWorkspace(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.errorResponse(c, http.StatusInternalServerError, "Failed to get workspace: "+err.Error())
		return
	}
	if workspace == nil {
		s.errorResponse(c, http.StatusNotFound, "Workspace not found")
		return
	}

	s.successResponse(c, workspace)
}

// updateWorkspace handles PUT /api/v1/workspaces/:id
func (s *Server) updateWorkspace(c *gin.Context) {
	var req models.UpdateWorkspaceRequest
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

	if req.Name != nil {
		workspace.Name = *req.Name
	}
	if req.BrandName != nil {
		workspace.BrandName = *req.BrandName
	}
	if req.BrandWebsite != nil {
		workspace.BrandWebsite = *req.BrandWebsite
	}
	if req.BrandDescription != nil {
		workspace.BrandDescription = *req.BrandDescription
	}
	if req.Competitors != nil {
		workspace.Competitors = req.Competitors
	}
	if req.Providers != nil {
		workspace.Providers = req.Providers
	}
	if req.Language != nil {
		workspace.Language = *req.Language
	}
	if req.Active != nil {
		workspace.Active = *req.Active
	}

	if err := s.sqlDB.UpdateWorkspace(c.Request.Context(), workspace); err != nil {
		s.errorResponse(c, http.StatusInternalServerError, "Failed to update workspace: "+err.Error())
		return
	}

	s.successResponse(c, workspace)
}

// getWorkspaceScores handles GET /api/v1/workspaces/:id/scores
func (s *Server) getWorkspaceScores(c *gin.Context) {
	workspace, err := s.sqlDB.GetWorkspace(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.errorResponse(c, http.StatusInternalServerError, "Failed to get workspace: "+err.Error())
		return
	}
	if workspace == nil {
		s.errorResponse(c, http.StatusNotFound, "Workspace not found")
		return
	}

	scores, err := s.scorer.Score(c.Request.Context(), workspace)
	if err != nil {
		s.errorResponse(c, http.StatusInternalServerError, "Failed to compute scores: "+err.Error())
		return
	}

	s.successResponse(c, scores)
}

// listWorkspaceResults handles GET /api/v1/workspaces/:id/results
func (s *Server) listWorkspaceResults(c *gin.Context) {
	page, limit := s.parsePagination(c)

	filter := shared.ResultFilter{
		WorkspaceID: c.Param("id"),
		RegionID:    c.Query("region_id"),
		PromptID:    c.Query("prompt_id"),
		LLMProvider: c.Query("provider"),
		Limit:       limit,
		Offset:      (page - 1) * limit,
	}

	results, err := s.factStore.ListResults(c.Request.Context(), filter)
	if err != nil {
		s.errorResponse(c, http.StatusInternalServerError, "Failed to list results: "+err.Error())
		return
	}

	s.successResponse(c, results)
}
