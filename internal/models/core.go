package models

import (
	"time"
)

// Core domain models

// Workspace represents a monitored brand and its measurement configuration
type Workspace struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	BrandName        string    `json:"brand_name"`
	BrandWebsite     string    `json:"brand_website,omitempty"`
	BrandDescription string    `json:"brand_description,omitempty"`
	Competitors      []string  `json:"competitors,omitempty"`
	Providers        []string  `json:"providers"` // openai, anthropic, perplexity
	RegionID         string    `json:"region_id,omitempty"`
	Language         string    `json:"language,omitempty"` // ISO code, e.g. EN, FR
	MaxPrompts       int       `json:"max_prompts,omitempty"`
	Active           bool      `json:"active"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// BrandContext is the read-only brand identity a measurement run scores against
type BrandContext struct {
	Name        string   `json:"name"`
	Domain      string   `json:"domain,omitempty"`
	Description string   `json:"description,omitempty"`
	Competitors []string `json:"competitors,omitempty"`
}

// Brand returns the workspace's brand identity for a run
func (w *Workspace) Brand() BrandContext {
	return BrandContext{
		Name:        w.BrandName,
		Domain:      w.BrandWebsite,
		Description: w.BrandDescription,
		Competitors: w.Competitors,
	}
}

// Region represents a geographic market a prompt can be scoped to
type Region struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Language  string    `json:"language,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Topic groups monitoring prompts under one theme
type Topic struct {
	ID          string    `json:"id"`
	WorkspaceID string    `json:"workspace_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// MonitoringPrompt represents a natural-language question probed against LLMs
type MonitoringPrompt struct {
	ID          string    `json:"id"`
	WorkspaceID string    `json:"workspace_id"`
	RegionID    string    `json:"region_id,omitempty"`
	TopicID     string    `json:"topic_id,omitempty"`
	Text        string    `json:"text"`
	Source      string    `json:"source"` // ai_generated, custom
	Active      bool      `json:"active"`
	Pinned      bool      `json:"pinned"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
