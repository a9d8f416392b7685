package models

import (
	"time"
)

// Measurement and aggregation models

// CitationRef is one source domain surfaced inside a single response
type CitationRef struct {
	Domain string `json:"domain"`
	URL    string `json:"url,omitempty"`
}

// KPIMetrics holds the signals extracted from one provider sample.
// Nil pointer fields mean the signal could not be derived for that sample,
// which is distinct from a zero value.
type KPIMetrics struct {
	MentionPresent bool          `json:"mention_present"`
	Position       *int          `json:"position,omitempty"`
	Sentiment      *float64      `json:"sentiment,omitempty"`  // [-1, 1]
	Prominence     *float64      `json:"prominence,omitempty"` // [0, 1]
	Alignment      *float64      `json:"alignment,omitempty"`
	Citations      []CitationRef `json:"citations,omitempty"`
	ResponseText   string        `json:"response_text,omitempty"`
}

// PromptKPIResult collects the per-sample metrics of one (prompt, provider) run
type PromptKPIResult struct {
	PromptID     string       `json:"prompt_id"`
	LLMProvider  string       `json:"llm_provider"`
	LLMModel     string       `json:"llm_model"`
	Metrics      []KPIMetrics `json:"metrics"`
	CalculatedAt time.Time    `json:"calculated_at"`
}

// PromptKPISnapshot is the persisted per-prompt daily aggregate,
// unique on (prompt_id, snapshot_date)
type PromptKPISnapshot struct {
	ID                string    `json:"id"`
	PromptID          string    `json:"prompt_id"`
	RegionID          string    `json:"region_id,omitempty"`
	SnapshotDate      string    `json:"snapshot_date"` // YYYY-MM-DD
	VisibilityScore   int       `json:"visibility_score"`
	MentionRate       float64   `json:"mention_rate"`
	CitationRate      float64   `json:"citation_rate"`
	AvgPosition       *float64  `json:"avg_position,omitempty"`
	TotalMeasurements int       `json:"total_measurements"`
	MentionCount      int       `json:"mention_count"`
	CitationCount     int       `json:"citation_count"`
	LLMProvider       string    `json:"llm_provider"`
	LLMModel          string    `json:"llm_model"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// TopicKPISnapshot is the persisted per-topic daily aggregate,
// unique on (topic_id, snapshot_date)
type TopicKPISnapshot struct {
	ID                   string         `json:"id"`
	TopicID              string         `json:"topic_id"`
	SnapshotDate         string         `json:"snapshot_date"` // YYYY-MM-DD
	VisibilityScore      int            `json:"visibility_score"`
	RelevancyScore       int            `json:"relevancy_score"`
	AvgRank              *float64       `json:"avg_rank,omitempty"`
	BestRank             *float64       `json:"best_rank,omitempty"`
	WorstRank            *float64       `json:"worst_rank,omitempty"`
	TotalCitations       int            `json:"total_citations"`
	TotalBrandMentions   int            `json:"total_brand_mentions"`
	CompetitorMentions   map[string]int `json:"competitor_mentions,omitempty"`
	CompetitorPositions  map[string]int `json:"competitor_positions,omitempty"`
	TotalPromptsMeasured int            `json:"total_prompts_measured"`
	TotalLLMQueries      int            `json:"total_llm_queries"`
	CreatedAt            time.Time      `json:"created_at"`
	UpdatedAt            time.Time      `json:"updated_at"`
}

// BrandPosition records where one brand appeared in a single response
type BrandPosition struct {
	Brand    string `json:"brand" bson:"brand"`
	Position int    `json:"position" bson:"position"`
}

// Result is one append-only raw fact row per individual LLM query
type Result struct {
	ID                string          `json:"id" bson:"_id"`
	WorkspaceID       string          `json:"workspace_id" bson:"workspace_id"`
	RegionID          string          `json:"region_id,omitempty" bson:"region_id,omitempty"`
	PromptID          string          `json:"prompt_id" bson:"prompt_id"`
	SnapshotID        string          `json:"snapshot_id,omitempty" bson:"snapshot_id,omitempty"`
	LLMProvider       string          `json:"llm_provider" bson:"llm_provider"`
	LLMModel          string          `json:"llm_model" bson:"llm_model"`
	ResponseText      string          `json:"response_text" bson:"response_text"`
	BrandsMentioned   []string        `json:"brands_mentioned,omitempty" bson:"brands_mentioned,omitempty"`
	BrandPositions    []BrandPosition `json:"brand_positions,omitempty" bson:"brand_positions,omitempty"`
	OurBrandMentioned bool            `json:"our_brand_mentioned" bson:"our_brand_mentioned"`
	OurBrandPosition  *int            `json:"our_brand_position,omitempty" bson:"our_brand_position,omitempty"`
	MentionPresent    bool            `json:"mention_present" bson:"mention_present"`
	RelevancyScore    *float64        `json:"relevancy_score,omitempty" bson:"relevancy_score,omitempty"`
	Prominence        *float64        `json:"prominence,omitempty" bson:"prominence,omitempty"`
	Alignment         *float64        `json:"alignment,omitempty" bson:"alignment,omitempty"`
	Sentiment         *float64        `json:"sentiment,omitempty" bson:"sentiment,omitempty"`
	CreatedAt         time.Time       `json:"created_at" bson:"created_at"`
}

// Citation is one URL/domain surfaced in a Result's response text
type Citation struct {
	ID              string    `json:"id" bson:"_id"`
	ResultID        string    `json:"result_id" bson:"result_id"`
	URL             string    `json:"url,omitempty" bson:"url,omitempty"`
	Domain          string    `json:"domain" bson:"domain"`
	Title           string    `json:"title,omitempty" bson:"title,omitempty"`
	FaviconURL      string    `json:"favicon_url,omitempty" bson:"favicon_url,omitempty"`
	Position        int       `json:"position" bson:"position"`
	AuthorityCached *float64  `json:"authority_cached,omitempty" bson:"authority_cached,omitempty"`
	CreatedAt       time.Time `json:"created_at" bson:"created_at"`
}

// WorkspaceScores holds the live composite dashboard metrics for a workspace
type WorkspaceScores struct {
	WorkspaceID     string    `json:"workspace_id"`
	VisibilityScore int       `json:"visibility_score"`
	TrustScore      int       `json:"trust_score"`
	ShareOfVoice    int       `json:"share_of_voice"`
	MentionRate     float64   `json:"mention_rate"`
	SampleSize      int       `json:"sample_size"`
	CalculatedAt    time.Time `json:"calculated_at"`
}
