package db

import (
	"context"

	"github.com/brandlens/brandlens/internal/models"
	"github.com/brandlens/brandlens/internal/shared"
)

// SQLDatabase defines the interface for the relational store holding
// workspaces, topics, monitoring prompts and daily KPI snapshots.
// Reads return empty collections, or nil for single-row lookups of
// snapshots, when no rows match.
type SQLDatabase interface {
	// Connection management
	Connect(ctx context.Context) error
	Disconnect(ctx context.Context) error
	Ping(ctx context.Context) error

	// Workspace operations
	CreateWorkspace(ctx context.Context, workspace *models.Workspace) error
	GetWorkspace(ctx context.Context, id string) (*models.Workspace, error)
	ListWorkspaces(ctx context.Context, active *bool) ([]*models.Workspace, error)
	UpdateWorkspace(ctx context.Context, workspace *models.Workspace) error

	// Region operations
	GetRegion(ctx context.Context, id string) (*models.Region, error)

	// Topic operations
	CreateTopic(ctx context.Context, topic *models.Topic) error
	GetTopic(ctx context.Context, id string) (*models.Topic, error)
	ListTopics(ctx context.Context, workspaceID string) ([]*models.Topic, error)

	// Monitoring prompt operations
	CreatePrompt(ctx context.Context, prompt *models.MonitoringPrompt) error
	GetPrompt(ctx context.Context, id string) (*models.MonitoringPrompt, error)
	GetActivePrompts(ctx context.Context, workspaceID, regionID string) ([]*models.MonitoringPrompt, error)
	GetTopicPrompts(ctx context.Context, topicID string) ([]*models.MonitoringPrompt, error)
	UpdatePrompt(ctx context.Context, prompt *models.MonitoringPrompt) error

	// Snapshot operations. Get returns (nil, nil) when no snapshot exists
	// for the key; Upsert is an atomic insert-or-replace on the
	// (entity, date) unique key.
	GetPromptSnapshot(ctx context.Context, promptID, date string) (*models.PromptKPISnapshot, error)
	UpsertPromptSnapshot(ctx context.Context, snapshot *models.PromptKPISnapshot) error
	GetTopicSnapshot(ctx context.Context, topicID, date string) (*models.TopicKPISnapshot, error)
	UpsertTopicSnapshot(ctx context.Context, snapshot *models.TopicKPISnapshot) error
	ListPromptSnapshots(ctx context.Context, promptID string, limit int) ([]*models.PromptKPISnapshot, error)
	ListTopicSnapshots(ctx context.Context, topicID string, limit int) ([]*models.TopicKPISnapshot, error)
}

// SnapshotStore is the subset of SQLDatabase the aggregators depend on
type SnapshotStore interface {
	GetPromptSnapshot(ctx context.Context, promptID, date string) (*models.PromptKPISnapshot, error)
	UpsertPromptSnapshot(ctx context.Context, snapshot *models.PromptKPISnapshot) error
	GetTopicPrompts(ctx context.Context, topicID string) ([]*models.MonitoringPrompt, error)
	GetTopicSnapshot(ctx context.Context, topicID, date string) (*models.TopicKPISnapshot, error)
	UpsertTopicSnapshot(ctx context.Context, snapshot *models.TopicKPISnapshot) error
}

// NoSQLDatabase defines the interface for the append-only fact store
// holding raw per-query results and their citations
type NoSQLDatabase interface {
	// Connection management
	Connect(ctx context.Context) error
	Disconnect(ctx context.Context) error
	Ping(ctx context.Context) error

	// Result operations
	CreateResult(ctx context.Context, result *models.Result) error
	GetRecentResults(ctx context.Context, workspaceID, regionID string, limit int) ([]*models.Result, error)
	ListResults(ctx context.Context, filter shared.ResultFilter) ([]*models.Result, error)

	// Citation operations
	CreateCitations(ctx context.Context, citations []*models.Citation) error
	GetCitationsForResults(ctx context.Context, resultIDs []string) ([]*models.Citation, error)
}

// ResultStore is the subset of NoSQLDatabase the composite scorer depends on
type ResultStore interface {
	GetRecentResults(ctx context.Context, workspaceID, regionID string, limit int) ([]*models.Result, error)
	GetCitationsForResults(ctx context.Context, resultIDs []string) ([]*models.Citation, error)
}
