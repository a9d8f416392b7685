package models

// API request/response models

// APIResponse is the standard envelope for single-object responses
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// Pagination carries paging metadata for list responses
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

// PaginatedResponse is the envelope for paged list responses
type PaginatedResponse struct {
	Data       interface{} `json:"data"`
	Pagination Pagination  `json:"pagination"`
}

// CreateWorkspaceRequest creates a new monitored workspace
type CreateWorkspaceRequest struct {
	Name             string   `json:"name" binding:"required"`
	BrandName        string   `json:"brand_name" binding:"required"`
	BrandWebsite     string   `json:"brand_website"`
	BrandDescription string   `json:"brand_description"`
	Competitors      []string `json:"competitors"`
	Providers        []string `json:"providers" binding:"required"`
	RegionID         string   `json:"region_id"`
	Language         string   `json:"language"`
	MaxPrompts       int      `json:"max_prompts"`
}

// UpdateWorkspaceRequest partially updates a workspace. Nil fields are
// left unchanged.
type UpdateWorkspaceRequest struct {
	Name             *string  `json:"name"`
	BrandName        *string  `json:"brand_name"`
	BrandWebsite     *string  `json:"brand_website"`
	BrandDescription *string  `json:"brand_description"`
	Competitors      []string `json:"competitors"`
	Providers        []string `json:"providers"`
	Language         *string  `json:"language"`
	Active           *bool    `json:"active"`
}

// CreateTopicRequest creates a topic within a workspace
type CreateTopicRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// CreateMonitoringPromptRequest creates a custom monitoring prompt
type CreateMonitoringPromptRequest struct {
	Text     string `json:"text" binding:"required"`
	TopicID  string `json:"topic_id"`
	RegionID string `json:"region_id"`
	Pinned   bool   `json:"pinned"`
}

// UpdateMonitoringPromptRequest partially updates a monitoring prompt
type UpdateMonitoringPromptRequest struct {
	Text    *string `json:"text"`
	TopicID *string `json:"topic_id"`
	Active  *bool   `json:"active"`
	Pinned  *bool   `json:"pinned"`
}

// TriggerRunRequest starts a measurement run for a workspace
type TriggerRunRequest struct {
	RegionID   string `json:"region_id"`
	Force      bool   `json:"force"`
	NumSamples int    `json:"num_samples"`
}

// GeneratePromptsRequest starts a background prompt-generation job
type GeneratePromptsRequest struct {
	TopicID  string `json:"topic_id"`
	Provider string `json:"provider" binding:"required"`
	Count    int    `json:"count" binding:"required"`
}
