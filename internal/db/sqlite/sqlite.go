package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/brandlens/brandlens/internal/models"
)

// SQLite implements the SQLDatabase interface for SQLite
type SQLite struct {
	db     *sql.DB
	config *models.Config
}

// New creates a new SQLite database instance
func New(config *models.Config) (*SQLite, error) {
	return &SQLite{
		config: config,
	}, nil
}

// DB exposes the underlying handle for the migration runner
func (s *SQLite) DB() *sql.DB {
	return s.db
}

// Connect establishes connection to SQLite
func (s *SQLite) Connect(ctx context.Context) error {
	dbPath := s.config.URI
	if strings.HasPrefix(dbPath, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	} else if !filepath.IsAbs(dbPath) {
		absPath, err := filepath.Abs(dbPath)
		if err != nil {
			return fmt.Errorf("failed to resolve absolute path: %w", err)
		}
		dbPath = absPath
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return fmt.Errorf("failed to open SQLite database at path '%s': %w", dbPath, err)
	}

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping SQLite database at path '%s': %w", dbPath, err)
	}

	s.db = db

	if err := s.createTables(ctx); err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}

	return nil
}

// Disconnect closes the SQLite connection
func (s *SQLite) Disconnect(ctx context.Context) error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Ping checks the database connection
func (s *SQLite) Ping(ctx context.Context) error {
	if s.db == nil {
		return fmt.Errorf("not connected to database")
	}
	return s.db.PingContext(ctx)
}

// createTables creates necessary tables
func (s *SQLite) createTables(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS workspaces (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			brand_name TEXT NOT NULL,
			brand_website TEXT,
			brand_description TEXT,
			competitors TEXT, -- JSON array
			providers TEXT NOT NULL, -- JSON array
			region_id TEXT,
			language TEXT,
			max_prompts INTEGER DEFAULT 0,
			active BOOLEAN NOT NULL DEFAULT 1,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS regions (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			language TEXT,
			created_at DATETIME NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS topics (
			id TEXT PRIMARY KEY,
			workspace_id TEXT NOT NULL,
			name TEXT NOT NULL,
			description TEXT,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS monitoring_prompts (
			id TEXT PRIMARY KEY,
			workspace_id TEXT NOT NULL,
			region_id TEXT,
			topic_id TEXT,
			text TEXT NOT NULL,
			source TEXT NOT NULL DEFAULT 'custom',
			active BOOLEAN NOT NULL DEFAULT 1,
			pinned BOOLEAN NOT NULL DEFAULT 0,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS prompt_kpi_snapshots (
			id TEXT PRIMARY KEY,
			prompt_id TEXT NOT NULL,
			region_id TEXT,
			snapshot_date TEXT NOT NULL,
			visibility_score INTEGER NOT NULL DEFAULT 0,
			mention_rate REAL NOT NULL DEFAULT 0,
			citation_rate REAL NOT NULL DEFAULT 0,
			avg_position REAL,
			total_measurements INTEGER NOT NULL DEFAULT 0,
			mention_count INTEGER NOT NULL DEFAULT 0,
			citation_count INTEGER NOT NULL DEFAULT 0,
			llm_provider TEXT,
			llm_model TEXT,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL,
			UNIQUE(prompt_id, snapshot_date)
		);`,
		`CREATE TABLE IF NOT EXISTS topic_kpi_snapshots (
			id TEXT PRIMARY KEY,
			topic_id TEXT NOT NULL,
			snapshot_date TEXT NOT NULL,
			visibility_score INTEGER NOT NULL DEFAULT 0,
			relevancy_score INTEGER NOT NULL DEFAULT 0,
			avg_rank REAL,
			best_rank REAL,
			worst_rank REAL,
			total_citations INTEGER NOT NULL DEFAULT 0,
			total_brand_mentions INTEGER NOT NULL DEFAULT 0,
			competitor_mentions TEXT, -- JSON object
			competitor_positions TEXT, -- JSON object
			total_prompts_measured INTEGER NOT NULL DEFAULT 0,
			total_llm_queries INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL,
			UNIQUE(topic_id, snapshot_date)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_prompts_workspace ON monitoring_prompts(workspace_id, active);`,
		`CREATE INDEX IF NOT EXISTS idx_prompts_topic ON monitoring_prompts(topic_id);`,
		`CREATE INDEX IF NOT EXISTS idx_prompt_snapshots_date ON prompt_kpi_snapshots(snapshot_date);`,
		`CREATE INDEX IF NOT EXISTS idx_topic_snapshots_date ON topic_kpi_snapshots(snapshot_date);`,
	}

	for _, stmt := range statements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to execute statement: %w", err)
		}
	}

	return nil
}

// Workspace operations

// CreateWorkspace inserts a new workspace
func (s *SQLite) CreateWorkspace(ctx context.Context, workspace *models.Workspace) error {
	competitors, err := json.Marshal(workspace.Competitors)
	if err != nil {
		return fmt.Errorf("failed to marshal competitors: %w", err)
	}
	providers, err := json.Marshal(workspace.Providers)
	if err != nil {
		return fmt.Errorf("failed to marshal providers: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO workspaces (id, name, brand_name, brand_website, brand_description,
			competitors, providers, region_id, language, max_prompts, active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		workspace.ID, workspace.Name, workspace.BrandName, workspace.BrandWebsite,
		workspace.BrandDescription, string(competitors), string(providers),
		workspace.RegionID, workspace.Language, workspace.MaxPrompts, workspace.Active,
		workspace.CreatedAt, workspace.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create workspace: %w", err)
	}
	return nil
}

// GetWorkspace retrieves a workspace by ID
func (s *SQLite) GetWorkspace(ctx context.Context, id string) (*models.Workspace, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, brand_name, brand_website, brand_description, competitors,
			providers, region_id, language, max_prompts, active, created_at, updated_at
		FROM workspaces WHERE id = ?`, id)

	workspace, err := scanWorkspace(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get workspace: %w", err)
	}
	return workspace, nil
}

// ListWorkspaces lists workspaces, optionally filtered by active flag
func (s *SQLite) ListWorkspaces(ctx context.Context, active *bool) ([]*models.Workspace, error) {
	query := `SELECT id, name, brand_name, brand_website, brand_description, competitors,
		providers, region_id, language, max_prompts, active, created_at, updated_at
		FROM workspaces`
	var args []interface{}
	if active != nil {
		query += ` WHERE active = ?`
		args = append(args, *active)
	}
	query += ` ORDER BY created_at`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list workspaces: %w", err)
	}
	defer rows.Close()

	var workspaces []*models.Workspace
	for rows.Next() {
		workspace, err := scanWorkspace(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan workspace: %w", err)
		}
		workspaces = append(workspaces, workspace)
	}
	return workspaces, rows.Err()
}

// UpdateWorkspace updates an existing workspace
func (s *SQLite) UpdateWorkspace(ctx context.Context, workspace *models.Workspace) error {
	competitors, err := json.Marshal(workspace.Competitors)
	if err != nil {
		return fmt.Errorf("failed to marshal competitors: %w", err)
	}
	providers, err := json.Marshal(workspace.Providers)
	if err != nil {
		return fmt.Errorf("failed to marshal providers: %w", err)
	}

	workspace.UpdatedAt = time.Now()
	_, err = s.db.ExecContext(ctx, `
		UPDATE workspaces SET name = ?, brand_name = ?, brand_website = ?,
			brand_description = ?, competitors = ?, providers = ?, region_id = ?,
			language = ?, max_prompts = ?, active = ?, updated_at = ?
		WHERE id = ?`,
		workspace.Name, workspace.BrandName, workspace.BrandWebsite,
		workspace.BrandDescription, string(competitors), string(providers),
		workspace.RegionID, workspace.Language, workspace.MaxPrompts, workspace.Active,
		workspace.UpdatedAt, workspace.ID)
	if err != nil {
		return fmt.Errorf("failed to update workspace: %w", err)
	}
	return nil
}

// GetRegion retrieves a region by ID
func (s *SQLite) GetRegion(ctx context.Context, id string) (*models.Region, error) {
	region := &models.Region{}
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, language, created_at FROM regions WHERE id = ?`, id).
		Scan(&region.ID, &region.Name, &region.Language, &region.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get region: %w", err)
	}
	return region, nil
}

// Topic operations

// CreateTopic inserts a new topic
func (s *SQLite) CreateTopic(ctx context.Context, topic *models.Topic) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO topics (id, workspace_id, name, description, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		topic.ID, topic.WorkspaceID, topic.Name, topic.Description,
		topic.CreatedAt, topic.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create topic: %w", err)
	}
	return nil
}

// GetTopic retrieves a topic by ID
func (s *SQLite) GetTopic(ctx context.Context, id string) (*models.Topic, error) {
	topic := &models.Topic{}
	err := s.db.QueryRowContext(ctx, `
		SELECT id, workspace_id, name, description, created_at, updated_at
		FROM topics WHERE id = ?`, id).
		Scan(&topic.ID, &topic.WorkspaceID, &topic.Name, &topic.Description,
			&topic.CreatedAt, &topic.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get topic: %w", err)
	}
	return topic, nil
}

// ListTopics lists all topics in a workspace
func (s *SQLite) ListTopics(ctx context.Context, workspaceID string) ([]*models.Topic, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, workspace_id, name, description, created_at, updated_at
		FROM topics WHERE workspace_id = ? ORDER BY created_at`, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list topics: %w", err)
	}
	defer rows.Close()

	var topics []*models.Topic
	for rows.Next() {
		topic := &models.Topic{}
		if err := rows.Scan(&topic.ID, &topic.WorkspaceID, &topic.Name,
			&topic.Description, &topic.CreatedAt, &topic.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan topic: %w", err)
		}
		topics = append(topics, topic)
	}
	return topics, rows.Err()
}

// Monitoring prompt operations

// CreatePrompt inserts a new monitoring prompt
func (s *SQLite) CreatePrompt(ctx context.Context, prompt *models.MonitoringPrompt) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO monitoring_prompts (id, workspace_id, region_id, topic_id, text,
			source, active, pinned, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		prompt.ID, prompt.WorkspaceID, prompt.RegionID, prompt.TopicID, prompt.Text,
		prompt.Source, prompt.Active, prompt.Pinned, prompt.CreatedAt, prompt.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create prompt: %w", err)
	}
	return nil
}

// GetPrompt retrieves a monitoring prompt by ID
func (s *SQLite) GetPrompt(ctx context.Context, id string) (*models.MonitoringPrompt, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, workspace_id, region_id, topic_id, text, source, active, pinned,
			created_at, updated_at
		FROM monitoring_prompts WHERE id = ?`, id)

	prompt, err := scanPrompt(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get prompt: %w", err)
	}
	return prompt, nil
}

// GetActivePrompts lists the active prompts in a workspace, optionally
// narrowed to one region
func (s *SQLite) GetActivePrompts(ctx context.Context, workspaceID, regionID string) ([]*models.MonitoringPrompt, error) {
	query := `SELECT id, workspace_id, region_id, topic_id, text, source, active, pinned,
		created_at, updated_at
		FROM monitoring_prompts WHERE workspace_id = ? AND active = 1`
	args := []interface{}{workspaceID}
	if regionID != "" {
		query += ` AND region_id = ?`
		args = append(args, regionID)
	}
	query += ` ORDER BY pinned DESC, created_at`

	return s.queryPrompts(ctx, query, args...)
}

// GetTopicPrompts lists all prompts under a topic
func (s *SQLite) GetTopicPrompts(ctx context.Context, topicID string) ([]*models.MonitoringPrompt, error) {
	return s.queryPrompts(ctx, `
		SELECT id, workspace_id, region_id, topic_id, text, source, active, pinned,
			created_at, updated_at
		FROM monitoring_prompts WHERE topic_id = ? ORDER BY created_at`, topicID)
}

// UpdatePrompt updates an existing monitoring prompt
func (s *SQLite) UpdatePrompt(ctx context.Context, prompt *models.MonitoringPrompt) error {
	prompt.UpdatedAt = time.Now()
	_, err := s.db.ExecContext(ctx, `
		UPDATE monitoring_prompts SET region_id = ?, topic_id = ?, text = ?, source = ?,
			active = ?, pinned = ?, updated_at = ?
		WHERE id = ?`,
		prompt.RegionID, prompt.TopicID, prompt.Text, prompt.Source,
		prompt.Active, prompt.Pinned, prompt.UpdatedAt, prompt.ID)
	if err != nil {
		return fmt.Errorf("failed to update prompt: %w", err)
	}
	return nil
}

func (s *SQLite) queryPrompts(ctx context.Context, query string, args ...interface{}) ([]*models.MonitoringPrompt, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list prompts: %w", err)
	}
	defer rows.Close()

	var prompts []*models.MonitoringPrompt
	for rows.Next() {
		prompt, err := scanPrompt(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan prompt: %w", err)
		}
		prompts = append(prompts, prompt)
	}
	return prompts, rows.Err()
}

// Snapshot operations

// GetPromptSnapshot retrieves the snapshot for (promptID, date), or nil
func (s *SQLite) GetPromptSnapshot(ctx context.Context, promptID, date string) (*models.PromptKPISnapshot, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, prompt_id, region_id, snapshot_date, visibility_score, mention_rate,
			citation_rate, avg_position, total_measurements, mention_count, citation_count,
			llm_provider, llm_model, created_at, updated_at
		FROM prompt_kpi_snapshots WHERE prompt_id = ? AND snapshot_date = ?`, promptID, date)

	snapshot, err := scanPromptSnapshot(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get prompt snapshot: %w", err)
	}
	return snapshot, nil
}

// UpsertPromptSnapshot inserts or replaces the snapshot for its
// (prompt_id, snapshot_date) key in a single atomic statement
func (s *SQLite) UpsertPromptSnapshot(ctx context.Context, snapshot *models.PromptKPISnapshot) error {
	var avgPosition interface{}
	if snapshot.AvgPosition != nil {
		avgPosition = *snapshot.AvgPosition
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO prompt_kpi_snapshots (id, prompt_id, region_id, snapshot_date,
			visibility_score, mention_rate, citation_rate, avg_position, total_measurements,
			mention_count, citation_count, llm_provider, llm_model, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(prompt_id, snapshot_date) DO UPDATE SET
			region_id = excluded.region_id,
			visibility_score = excluded.visibility_score,
			mention_rate = excluded.mention_rate,
			citation_rate = excluded.citation_rate,
			avg_position = excluded.avg_position,
			total_measurements = excluded.total_measurements,
			mention_count = excluded.mention_count,
			citation_count = excluded.citation_count,
			llm_provider = excluded.llm_provider,
			llm_model = excluded.llm_model,
			updated_at = excluded.updated_at`,
		snapshot.ID, snapshot.PromptID, snapshot.RegionID, snapshot.SnapshotDate,
		snapshot.VisibilityScore, snapshot.MentionRate, snapshot.CitationRate, avgPosition,
		snapshot.TotalMeasurements, snapshot.MentionCount, snapshot.CitationCount,
		snapshot.LLMProvider, snapshot.LLMModel, snapshot.CreatedAt, snapshot.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert prompt snapshot: %w", err)
	}
	return nil
}

// GetTopicSnapshot retrieves the snapshot for (topicID, date), or nil
func (s *SQLite) GetTopicSnapshot(ctx context.Context, topicID, date string) (*models.TopicKPISnapshot, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, topic_id, snapshot_date, visibility_score, relevancy_score, avg_rank,
			best_rank, worst_rank, total_citations, total_brand_mentions, competitor_mentions,
			competitor_positions, total_prompts_measured, total_llm_queries, created_at, updated_at
		FROM topic_kpi_snapshots WHERE topic_id = ? AND snapshot_date = ?`, topicID, date)

	snapshot, err := scanTopicSnapshot(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get topic snapshot: %w", err)
	}
	return snapshot, nil
}

// UpsertTopicSnapshot inserts or replaces the snapshot for its
// (topic_id, snapshot_date) key in a single atomic statement
func (s *SQLite) UpsertTopicSnapshot(ctx context.Context, snapshot *models.TopicKPISnapshot) error {
	competitorMentions, err := json.Marshal(snapshot.CompetitorMentions)
	if err != nil {
		return fmt.Errorf("failed to marshal competitor mentions: %w", err)
	}
	competitorPositions, err := json.Marshal(snapshot.CompetitorPositions)
	if err != nil {
		return fmt.Errorf("failed to marshal competitor positions: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO topic_kpi_snapshots (id, topic_id, snapshot_date, visibility_score,
			relevancy_score, avg_rank, best_rank, worst_rank, total_citations,
			total_brand_mentions, competitor_mentions, competitor_positions,
			total_prompts_measured, total_llm_queries, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(topic_id, snapshot_date) DO UPDATE SET
			visibility_score = excluded.visibility_score,
			relevancy_score = excluded.relevancy_score,
			avg_rank = excluded.avg_rank,
			best_rank = excluded.best_rank,
			worst_rank = excluded.worst_rank,
			total_citations = excluded.total_citations,
			total_brand_mentions = excluded.total_brand_mentions,
			competitor_mentions = excluded.competitor_mentions,
			competitor_positions = excluded.competitor_positions,
			total_prompts_measured = excluded.total_prompts_measured,
			total_llm_queries = excluded.total_llm_queries,
			updated_at = excluded.updated_at`,
		snapshot.ID, snapshot.TopicID, snapshot.SnapshotDate, snapshot.VisibilityScore,
		snapshot.RelevancyScore, nullableFloat(snapshot.AvgRank), nullableFloat(snapshot.BestRank),
		nullableFloat(snapshot.WorstRank), snapshot.TotalCitations, snapshot.TotalBrandMentions,
		string(competitorMentions), string(competitorPositions), snapshot.TotalPromptsMeasured,
		snapshot.TotalLLMQueries, snapshot.CreatedAt, snapshot.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert topic snapshot: %w", err)
	}
	return nil
}

// ListPromptSnapshots lists a prompt's snapshots, most recent first
func (s *SQLite) ListPromptSnapshots(ctx context.Context, promptID string, limit int) ([]*models.PromptKPISnapshot, error) {
	if limit <= 0 {
		limit = 30
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, prompt_id, region_id, snapshot_date, visibility_score, mention_rate,
			citation_rate, avg_position, total_measurements, mention_count, citation_count,
			llm_provider, llm_model, created_at, updated_at
		FROM prompt_kpi_snapshots WHERE prompt_id = ?
		ORDER BY snapshot_date DESC LIMIT ?`, promptID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list prompt snapshots: %w", err)
	}
	defer rows.Close()

	var snapshots []*models.PromptKPISnapshot
	for rows.Next() {
		snapshot, err := scanPromptSnapshot(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan prompt snapshot: %w", err)
		}
		snapshots = append(snapshots, snapshot)
	}
	return snapshots, rows.Err()
}

// ListTopicSnapshots lists a topic's snapshots, most recent first
func (s *SQLite) ListTopicSnapshots(ctx context.Context, topicID string, limit int) ([]*models.TopicKPISnapshot, error) {
	if limit <= 0 {
		limit = 30
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, topic_id, snapshot_date, visibility_score, relevancy_score, avg_rank,
			best_rank, worst_rank, total_citations, total_brand_mentions, competitor_mentions,
			competitor_positions, total_prompts_measured, total_llm_queries, created_at, updated_at
		FROM topic_kpi_snapshots WHERE topic_id = ?
		ORDER BY snapshot_date DESC LIMIT ?`, topicID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list topic snapshots: %w", err)
	}
	defer rows.Close()

	var snapshots []*models.TopicKPISnapshot
	for rows.Next() {
		snapshot, err := scanTopicSnapshot(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan topic snapshot: %w", err)
		}
		snapshots = append(snapshots, snapshot)
	}
	return snapshots, rows.Err()
}

// Scan helpers

type scannable interface {
	Scan(dest ...interface{}) error
}

func scanWorkspace(row scannable) (*models.Workspace, error) {
	workspace := &models.Workspace{}
	var competitors, providers string

	err := row.Scan(&workspace.ID, &workspace.Name, &workspace.BrandName,
		&workspace.BrandWebsite, &workspace.BrandDescription, &competitors, &providers,
		&workspace.RegionID, &workspace.Language, &workspace.MaxPrompts, &workspace.Active,
		&workspace.CreatedAt, &workspace.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if competitors != "" {
		if err := json.Unmarshal([]byte(competitors), &workspace.Competitors); err != nil {
			return nil, fmt.Errorf("failed to unmarshal competitors: %w", err)
		}
	}
	if providers != "" {
		if err := json.Unmarshal([]byte(providers), &workspace.Providers); err != nil {
			return nil, fmt.Errorf("failed to unmarshal providers: %w", err)
		}
	}
	return workspace, nil
}

func scanPrompt(row scannable) (*models.MonitoringPrompt, error) {
	prompt := &models.MonitoringPrompt{}
	err := row.Scan(&prompt.ID, &prompt.WorkspaceID, &prompt.RegionID, &prompt.TopicID,
		&prompt.Text, &prompt.Source, &prompt.Active, &prompt.Pinned,
		&prompt.CreatedAt, &prompt.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return prompt, nil
}

func scanPromptSnapshot(row scannable) (*models.PromptKPISnapshot, error) {
	snapshot := &models.PromptKPISnapshot{}
	var avgPosition sql.NullFloat64

	err := row.Scan(&snapshot.ID, &snapshot.PromptID, &snapshot.RegionID,
		&snapshot.SnapshotDate, &snapshot.VisibilityScore, &snapshot.MentionRate,
		&snapshot.CitationRate, &avgPosition, &snapshot.TotalMeasurements,
		&snapshot.MentionCount, &snapshot.CitationCount, &snapshot.LLMProvider,
		&snapshot.LLMModel, &snapshot.CreatedAt, &snapshot.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if avgPosition.Valid {
		snapshot.AvgPosition = &avgPosition.Float64
	}
	return snapshot, nil
}

func scanTopicSnapshot(row scannable) (*models.TopicKPISnapshot, error) {
	snapshot := &models.TopicKPISnapshot{}
	var avgRank, bestRank, worstRank sql.NullFloat64
	var competitorMentions, competitorPositions string

	err := row.Scan(&snapshot.ID, &snapshot.TopicID, &snapshot.SnapshotDate,
		&snapshot.VisibilityScore, &snapshot.RelevancyScore, &avgRank, &bestRank,
		&worstRank, &snapshot.TotalCitations, &snapshot.TotalBrandMentions,
		&competitorMentions, &competitorPositions, &snapshot.TotalPromptsMeasured,
		&snapshot.TotalLLMQueries, &snapshot.CreatedAt, &snapshot.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if avgRank.Valid {
		snapshot.AvgRank = &avgRank.Float64
	}
	if bestRank.Valid {
		snapshot.BestRank = &bestRank.Float64
	}
	if worstRank.Valid {
		snapshot.WorstRank = &worstRank.Float64
	}
	if competitorMentions != "" {
		if err := json.Unmarshal([]byte(competitorMentions), &snapshot.CompetitorMentions); err != nil {
			return nil, fmt.Errorf("failed to unmarshal competitor mentions: %w", err)
		}
	}
	if competitorPositions != "" {
		if err := json.Unmarshal([]byte(competitorPositions), &snapshot.CompetitorPositions); err != nil {
			return nil, fmt.Errorf("failed to unmarshal competitor positions: %w", err)
		}
	}
	return snapshot, nil
}

func nullableFloat(f *float64) interface{} {
	if f == nil {
		return nil
	}
	return *f
}
