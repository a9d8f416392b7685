package api

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/brandlens/brandlens/internal/logger"
	"github.com/brandlens/brandlens/internal/models"
	"github.com/brandlens/brandlens/internal/orchestrator"
)

// Run endpoints

// triggerRun handles POST /api/v1/workspaces/:id/run.
// With ?stream=true the response is a server-sent event feed mirroring the
// run's progress stream; otherwise the request blocks and returns the final
// summary.
func (s *Server) triggerRun(c *gin.Context) {
	var req models.TriggerRunRequest
	if err := c.ShouldBindJSON(&req); err != nil && err != io.EOF {
		s.errorResponse(c, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	opts := orchestrator.RunOptions{
		WorkspaceID: c.Param("id"),
		RegionID:    req.RegionID,
		Force:       req.Force,
		NumSamples:  req.NumSamples,
	}

	stream, _ := strconv.ParseBool(c.DefaultQuery("stream", "false"))
	if !stream {
		summary, err := s.orch.Run(c.Request.Context(), opts, nil)
		if err != nil {
			s.errorResponse(c, http.StatusInternalServerError, "Run failed: "+err.Error())
			return
		}
		s.successResponse(c, summary)
		return
	}

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	// The sink must never block the run, so events go through a buffered
	// channel and overflow is dropped. The complete event is always the
	// last one emitted and the buffer is sized well past any realistic
	// prompt count, so a drop only ever loses intermediate progress.
	events := make(chan orchestrator.Event, 256)
	sink := func(event orchestrator.Event) {
		select {
		case events <- event:
		default:
		}
	}

	done := make(chan struct{})
	go func() {
		defer close(events)
		if _, err := s.orch.Run(c.Request.Context(), opts, sink); err != nil {
			logger.Error("Streamed run failed for workspace %s: %v", opts.WorkspaceID, err)
			sink(orchestrator.Event{Type: orchestrator.EventError, Message: err.Error()})
		}
	}()

	c.Stream(func(w io.Writer) bool {
		select {
		case event, ok := <-events:
			if !ok {
				close(done)
				return false
			}
			c.SSEvent(string(event.Type), event)
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})

	select {
	case <-done:
	case <-c.Request.Context().Done():
	}
}
