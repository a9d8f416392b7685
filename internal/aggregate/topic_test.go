package aggregate

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brandlens/brandlens/internal/models"
)

func TestTopicAggregateRollsUpPromptSnapshots(t *testing.T) {
	store := newFakeSnapshotStore()
	store.topicPrompts["t1"] = []*models.MonitoringPrompt{
		{ID: "p1", TopicID: "t1", Active: true},
		{ID: "p2", TopicID: "t1", Active: true},
		{ID: "p3", TopicID: "t1", Active: false},
	}
	store.promptSnapshots["p1|2026-08-30"] = &models.PromptKPISnapshot{
		PromptID: "p1", SnapshotDate: "2026-08-30",
		TotalMeasurements: 3, MentionCount: 3, CitationCount: 2, AvgPosition: floatPtr(1),
	}
	store.promptSnapshots["p2|2026-08-30"] = &models.PromptKPISnapshot{
		PromptID: "p2", SnapshotDate: "2026-08-30",
		TotalMeasurements: 3, MentionCount: 0, CitationCount: 1,
	}
	// The inactive prompt has a snapshot too; it must not count.
	store.promptSnapshots["p3|2026-08-30"] = &models.PromptKPISnapshot{
		PromptID: "p3", SnapshotDate: "2026-08-30",
		TotalMeasurements: 3, MentionCount: 3,
	}

	agg := NewTopicAggregator(store)
	outcome, err := agg.Aggregate(context.Background(), "t1", "2026-08-30", false)
	require.NoError(t, err)
	require.Equal(t, StatusWritten, outcome.Status)

	snap := outcome.Snapshot
	assert.Equal(t, "t1", snap.TopicID)
	assert.Equal(t, 2, snap.TotalPromptsMeasured)
	assert.Equal(t, 6, snap.TotalLLMQueries)
	assert.Equal(t, 3, snap.TotalBrandMentions)
	assert.Equal(t, 3, snap.TotalCitations)
	assert.Equal(t, 50, snap.VisibilityScore)
	require.NotNil(t, snap.AvgRank)
	assert.Equal(t, 1.0, *snap.AvgRank)
	require.NotNil(t, snap.BestRank)
	assert.Equal(t, 1.0, *snap.BestRank)
}

func TestTopicAggregateSkipsWhenNoPromptSnapshots(t *testing.T) {
	store := newFakeSnapshotStore()
	store.topicPrompts["t1"] = []*models.MonitoringPrompt{
		{ID: "p1", TopicID: "t1", Active: true},
	}

	agg := NewTopicAggregator(store)
	outcome, err := agg.Aggregate(context.Background(), "t1", "2026-08-30", false)
	require.NoError(t, err)

	assert.Equal(t, StatusSkipped, outcome.Status)
	assert.Equal(t, ReasonNoPromptSnapshots, outcome.Reason)
	assert.Nil(t, outcome.Snapshot)
	assert.Equal(t, 0, store.topicUpserts)
}

func TestTopicAggregateSkipsSameDayWithoutForce(t *testing.T) {
	store := newFakeSnapshotStore()
	store.topicPrompts["t1"] = []*models.MonitoringPrompt{
		{ID: "p1", TopicID: "t1", Active: true},
	}
	store.promptSnapshots["p1|2026-08-30"] = &models.PromptKPISnapshot{
		PromptID: "p1", SnapshotDate: "2026-08-30",
		TotalMeasurements: 3, MentionCount: 1,
	}

	agg := NewTopicAggregator(store)

	first, err := agg.Aggregate(context.Background(), "t1", "2026-08-30", false)
	require.NoError(t, err)
	require.Equal(t, StatusWritten, first.Status)

	second, err := agg.Aggregate(context.Background(), "t1", "2026-08-30", false)
	require.NoError(t, err)
	assert.Equal(t, StatusSkipped, second.Status)
	assert.Equal(t, 1, store.topicUpserts)

	forced, err := agg.Aggregate(context.Background(), "t1", "2026-08-30", true)
	require.NoError(t, err)
	assert.Equal(t, StatusWritten, forced.Status)
	assert.Equal(t, 2, store.topicUpserts)
	assert.Len(t, store.topicSnapshots, 1)
}
