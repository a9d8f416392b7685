package shared

import (
	"time"
)

// ResultFilter provides filtering options for listing raw results
type ResultFilter struct {
	WorkspaceID string
	RegionID    string
	PromptID    string
	LLMProvider string
	StartTime   *time.Time
	EndTime     *time.Time
	Limit       int
	Offset      int
}
