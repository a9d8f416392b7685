package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/brandlens/brandlens/internal/models"
	"github.com/brandlens/brandlens/internal/shared"
)

// MongoDB implements the NoSQLDatabase interface for MongoDB
type MongoDB struct {
	client   *mongo.Client
	database *mongo.Database
	config   *models.Config
}

const (
	collResults   = "results"
	collCitations = "citations"
)

// New creates a new MongoDB database instance
func New(config *models.Config) (*MongoDB, error) {
	return &MongoDB{
		config: config,
	}, nil
}

// Connect establishes connection to MongoDB
func (m *MongoDB) Connect(ctx context.Context) error {
	clientOptions := options.Client().ApplyURI(m.config.URI)

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	m.client = client
	m.database = client.Database(m.config.Database)

	if err := m.createIndexes(ctx); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	return nil
}

// Disconnect closes the MongoDB connection
func (m *MongoDB) Disconnect(ctx context.Context) error {
	if m.client != nil {
		return m.client.Disconnect(ctx)
	}
	return nil
}

// Ping checks the database connection
func (m *MongoDB) Ping(ctx context.Context) error {
	if m.client == nil {
		return fmt.Errorf("not connected to database")
	}
	return m.client.Ping(ctx, nil)
}

// createIndexes creates necessary indexes for the read paths: recent-results
// windows per workspace and citation lookups per result batch
func (m *MongoDB) createIndexes(ctx context.Context) error {
	resultIndexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "workspace_id", Value: 1},
				{Key: "created_at", Value: -1},
			},
		},
		{
			Keys: bson.D{
				{Key: "prompt_id", Value: 1},
				{Key: "created_at", Value: -1},
			},
		},
		{
			Keys: bson.D{
				{Key: "created_at", Value: -1},
			},
		},
	}

	if _, err := m.database.Collection(collResults).Indexes().CreateMany(ctx, resultIndexes); err != nil {
		return fmt.Errorf("failed to create result indexes: %w", err)
	}

	citationIndexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "result_id", Value: 1},
			},
		},
		{
			Keys: bson.D{
				{Key: "domain", Value: 1},
			},
		},
	}

	if _, err := m.database.Collection(collCitations).Indexes().CreateMany(ctx, citationIndexes); err != nil {
		return fmt.Errorf("failed to create citation indexes: %w", err)
	}

	return nil
}

// CreateResult appends one raw measurement fact. Result rows are immutable
// once written.
func (m *MongoDB) CreateResult(ctx context.Context, result *models.Result) error {
	if result.CreatedAt.IsZero() {
		result.CreatedAt = time.Now()
	}

	_, err := m.database.Collection(collResults).InsertOne(ctx, result)
	if err != nil {
		return fmt.Errorf("failed to create result: %w", err)
	}
	return nil
}

// GetRecentResults returns the newest results for a workspace, optionally
// narrowed to one region, most recent first
func (m *MongoDB) GetRecentResults(ctx context.Context, workspaceID, regionID string, limit int) ([]*models.Result, error) {
	query := bson.M{"workspace_id": workspaceID}
	if regionID != "" {
		query["region_id"] = regionID
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cursor, err := m.database.Collection(collResults).Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent results: %w", err)
	}
	defer cursor.Close(ctx)

	var results []*models.Result
	if err := cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("failed to decode results: %w", err)
	}
	return results, nil
}

// ListResults lists results with filtering
func (m *MongoDB) ListResults(ctx context.Context, filter shared.ResultFilter) ([]*models.Result, error) {
	query := bson.M{}

	if filter.WorkspaceID != "" {
		query["workspace_id"] = filter.WorkspaceID
	}
	if filter.RegionID != "" {
		query["region_id"] = filter.RegionID
	}
	if filter.PromptID != "" {
		query["prompt_id"] = filter.PromptID
	}
	if filter.LLMProvider != "" {
		query["llm_provider"] = filter.LLMProvider
	}
	if filter.StartTime != nil || filter.EndTime != nil {
		timeQuery := bson.M{}
		if filter.StartTime != nil {
			timeQuery["$gte"] = *filter.StartTime
		}
		if filter.EndTime != nil {
			timeQuery["$lte"] = *filter.EndTime
		}
		query["created_at"] = timeQuery
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if filter.Limit > 0 {
		opts.SetLimit(int64(filter.Limit))
	}
	if filter.Offset > 0 {
		opts.SetSkip(int64(filter.Offset))
	}

	cursor, err := m.database.Collection(collResults).Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query results: %w", err)
	}
	defer cursor.Close(ctx)

	var results []*models.Result
	if err := cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("failed to decode results: %w", err)
	}
	return results, nil
}

// CreateCitations inserts a batch of citations extracted from one response
func (m *MongoDB) CreateCitations(ctx context.Context, citations []*models.Citation) error {
	if len(citations) == 0 {
		return nil
	}

	docs := make([]interface{}, 0, len(citations))
	for _, citation := range citations {
		if citation.CreatedAt.IsZero() {
			citation.CreatedAt = time.Now()
		}
		docs = append(docs, citation)
	}

	_, err := m.database.Collection(collCitations).InsertMany(ctx, docs)
	if err != nil {
		return fmt.Errorf("failed to create citations: %w", err)
	}
	return nil
}

// GetCitationsForResults returns all citations attached to the given results
func (m *MongoDB) GetCitationsForResults(ctx context.Context, resultIDs []string) ([]*models.Citation, error) {
	if len(resultIDs) == 0 {
		return nil, nil
	}

	cursor, err := m.database.Collection(collCitations).Find(ctx, bson.M{
		"result_id": bson.M{"$in": resultIDs},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query citations: %w", err)
	}
	defer cursor.Close(ctx)

	var citations []*models.Citation
	if err := cursor.All(ctx, &citations); err != nil {
		return nil, fmt.Errorf("failed to decode citations: %w", err)
	}
	return citations, nil
}

// GetDatabase returns the underlying MongoDB database instance
func (m *MongoDB) GetDatabase() *mongo.Database {
	return m.database
}
