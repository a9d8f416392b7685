package aggregate

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brandlens/brandlens/internal/models"
)

// fakeSnapshotStore is an in-memory SnapshotStore keyed on (entity, date)
type fakeSnapshotStore struct {
	promptSnapshots map[string]*models.PromptKPISnapshot
	topicSnapshots  map[string]*models.TopicKPISnapshot
	topicPrompts    map[string][]*models.MonitoringPrompt
	promptUpserts   int
	topicUpserts    int
}

func newFakeSnapshotStore() *fakeSnapshotStore {
	return &fakeSnapshotStore{
		promptSnapshots: make(map[string]*models.PromptKPISnapshot),
		topicSnapshots:  make(map[string]*models.TopicKPISnapshot),
		topicPrompts:    make(map[string][]*models.MonitoringPrompt),
	}
}

func (f *fakeSnapshotStore) GetPromptSnapshot(ctx context.Context, promptID, date string) (*models.PromptKPISnapshot, error) {
	return f.promptSnapshots[promptID+"|"+date], nil
}

func (f *fakeSnapshotStore) UpsertPromptSnapshot(ctx context.Context, snapshot *models.PromptKPISnapshot) error {
	f.promptUpserts++
	f.promptSnapshots[snapshot.PromptID+"|"+snapshot.SnapshotDate] = snapshot
	return nil
}

func (f *fakeSnapshotStore) GetTopicPrompts(ctx context.Context, topicID string) ([]*models.MonitoringPrompt, error) {
	return f.topicPrompts[topicID], nil
}

func (f *fakeSnapshotStore) GetTopicSnapshot(ctx context.Context, topicID, date string) (*models.TopicKPISnapshot, error) {
	return f.topicSnapshots[topicID+"|"+date], nil
}

func (f *fakeSnapshotStore) UpsertTopicSnapshot(ctx context.Context, snapshot *models.TopicKPISnapshot) error {
	f.topicUpserts++
	f.topicSnapshots[snapshot.TopicID+"|"+snapshot.SnapshotDate] = snapshot
	return nil
}

func floatPtr(f float64) *float64 { return &f }
func intPtr(i int) *int           { return &i }

func sampleResults() []*models.PromptKPIResult {
	return []*models.PromptKPIResult{
		{
			LLMProvider: "openai",
			LLMModel:    "gpt-4o-mini",
			Metrics: []models.KPIMetrics{
				{
					MentionPresent: true,
					Position:       intPtr(1),
					Citations:      []models.CitationRef{{Domain: "acme.io"}, {Domain: "review.org"}},
				},
				{MentionPresent: false},
			},
			CalculatedAt: time.Now(),
		},
		{
			LLMProvider: "anthropic",
			LLMModel:    "claude-3-5-sonnet-20241022",
			Metrics: []models.KPIMetrics{
				{
					MentionPresent: true,
					Position:       intPtr(3),
					Citations:      []models.CitationRef{{Domain: "acme.io"}},
				},
			},
			CalculatedAt: time.Now(),
		},
	}
}

func TestPromptAggregateFoldsAllProviderResults(t *testing.T) {
	store := newFakeSnapshotStore()
	agg := NewPromptAggregator(store)
	prompt := &models.MonitoringPrompt{ID: "p1", RegionID: "r1"}

	outcome, err := agg.Aggregate(context.Background(), prompt, "2026-08-30", sampleResults(), false)
	require.NoError(t, err)
	require.Equal(t, StatusWritten, outcome.Status)

	snap := outcome.Snapshot
	assert.Equal(t, "p1", snap.PromptID)
	assert.Equal(t, "r1", snap.RegionID)
	assert.Equal(t, 3, snap.TotalMeasurements)
	assert.Equal(t, 2, snap.MentionCount)
	assert.Equal(t, 3, snap.CitationCount)
	assert.Equal(t, 67, snap.VisibilityScore)
	assert.InDelta(t, 2.0/3.0, snap.MentionRate, 1e-9)
	assert.InDelta(t, 2.0/3.0, snap.CitationRate, 1e-9)
	require.NotNil(t, snap.AvgPosition)
	assert.InDelta(t, 2.0, *snap.AvgPosition, 1e-9)
	assert.Equal(t, "openai,anthropic", snap.LLMProvider)
}

func TestPromptAggregateSkipsSameDayWithoutForce(t *testing.T) {
	store := newFakeSnapshotStore()
	agg := NewPromptAggregator(store)
	prompt := &models.MonitoringPrompt{ID: "p1"}

	first, err := agg.Aggregate(context.Background(), prompt, "2026-08-30", sampleResults(), false)
	require.NoError(t, err)
	require.Equal(t, StatusWritten, first.Status)

	second, err := agg.Aggregate(context.Background(), prompt, "2026-08-30", sampleResults(), false)
	require.NoError(t, err)
	assert.Equal(t, StatusSkipped, second.Status)
	assert.Equal(t, ReasonAlreadyComputed, second.Reason)
	assert.Equal(t, first.Snapshot.ID, second.Snapshot.ID)
	assert.Equal(t, 1, store.promptUpserts)
}

func TestPromptAggregateForceOverwritesWithoutDuplicating(t *testing.T) {
	store := newFakeSnapshotStore()
	agg := NewPromptAggregator(store)
	prompt := &models.MonitoringPrompt{ID: "p1"}

	_, err := agg.Aggregate(context.Background(), prompt, "2026-08-30", sampleResults(), false)
	require.NoError(t, err)

	outcome, err := agg.Aggregate(context.Background(), prompt, "2026-08-30", sampleResults(), true)
	require.NoError(t, err)
	assert.Equal(t, StatusWritten, outcome.Status)
	assert.Equal(t, 2, store.promptUpserts)
	assert.Len(t, store.promptSnapshots, 1)
}

func TestPromptAggregateEmptyResults(t *testing.T) {
	store := newFakeSnapshotStore()
	agg := NewPromptAggregator(store)
	prompt := &models.MonitoringPrompt{ID: "p1"}

	outcome, err := agg.Aggregate(context.Background(), prompt, "2026-08-30", nil, false)
	require.NoError(t, err)

	snap := outcome.Snapshot
	assert.Equal(t, 0, snap.TotalMeasurements)
	assert.Equal(t, 0, snap.VisibilityScore)
	assert.Equal(t, 0.0, snap.MentionRate)
	assert.Nil(t, snap.AvgPosition)
}
