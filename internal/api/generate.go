package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/brandlens/brandlens/internal/models"
)

// Prompt generation endpoints

// startGeneration handles POST /api/v1/workspaces/:id/generate
func (s *Server) startGeneration(c *gin.Context) {
	var req models.GeneratePromptsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.errorResponse(c, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	job, err := s.generator.Start(c.Param("id"), req.TopicID, req.Provider, req.Count)
	if err != nil {
		s.errorResponse(c, http.StatusBadRequest, "Failed to start generation: "+err.Error())
		return
	}

	c.JSON(http.StatusAccepted, models.APIResponse{
		Success: true,
		Data:    job,
		Message: "Generation job started",
	})
}

// getGenerationJob handles GET /api/v1/generation-jobs/:id
func (s *Server) getGenerationJob(c *gin.Context) {
	job, ok := s.generator.Get(c.Param("id"))
	if !ok {
		s.errorResponse(c, http.StatusNotFound, "Generation job not found")
		return
	}

	s.successResponse(c, job)
}

// cancelGenerationJob handles POST /api/v1/generation-jobs/:id/cancel
func (s *Server) cancelGenerationJob(c *gin.Context) {
	if !s.generator.Cancel(c.Param("id")) {
		s.errorResponse(c, http.StatusNotFound, "Generation job not found")
		return
	}

	c.JSON(http.StatusOK, models.APIResponse{
		Success: true,
		Message: "Cancellation requested",
	})
}
