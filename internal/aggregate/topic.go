package aggregate

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/brandlens/brandlens/internal/db"
	"github.com/brandlens/brandlens/internal/logger"
	"github.com/brandlens/brandlens/internal/models"
)

// TopicOutcome reports what one topic-level aggregation did
type TopicOutcome struct {
	Status   string
	Reason   string
	Snapshot *models.TopicKPISnapshot
}

// TopicAggregator rolls all of a topic's prompt snapshots for one day up
// into a single topic snapshot
type TopicAggregator struct {
	store db.SnapshotStore
}

// NewTopicAggregator creates a topic aggregator
func NewTopicAggregator(store db.SnapshotStore) *TopicAggregator {
	return &TopicAggregator{store: store}
}

// Aggregate builds the topic snapshot for date from every active prompt
// under the topic that already has a prompt snapshot for that date. When no
// prompt has a snapshot yet the topic is skipped entirely: writing a zeroed
// topic score before any prompt has run would be misleading.
func (a *TopicAggregator) Aggregate(ctx context.Context, topicID, date string, force bool) (*TopicOutcome, error) {
	existing, err := a.store.GetTopicSnapshot(ctx, topicID, date)
	if err != nil {
		return nil, &db.PersistenceError{Op: "get topic snapshot", Err: err}
	}

	if existing != nil && !force {
		logger.Debug("Snapshot already computed for topic %s on %s, skipping", topicID, date)
		return &TopicOutcome{Status: StatusSkipped, Reason: ReasonAlreadyComputed, Snapshot: existing}, nil
	}

	prompts, err := a.store.GetTopicPrompts(ctx, topicID)
	if err != nil {
		return nil, &db.PersistenceError{Op: "get topic prompts", Err: err}
	}

	var promptSnapshots []*models.PromptKPISnapshot
	for _, prompt := range prompts {
		if !prompt.Active {
			continue
		}
		snap, err := a.store.GetPromptSnapshot(ctx, prompt.ID, date)
		if err != nil {
			return nil, &db.PersistenceError{Op: "get prompt snapshot", Err: err}
		}
		if snap != nil {
			promptSnapshots = append(promptSnapshots, snap)
		}
	}

	if len(promptSnapshots) == 0 {
		logger.Info("No prompt snapshots for topic %s on %s, skipping topic aggregation", topicID, date)
		return &TopicOutcome{Status: StatusSkipped, Reason: ReasonNoPromptSnapshots}, nil
	}

	snapshot := rollUp(topicID, date, promptSnapshots)

	if err := a.store.UpsertTopicSnapshot(ctx, snapshot); err != nil {
		return nil, &db.PersistenceError{Op: "upsert topic snapshot", Err: err}
	}

	return &TopicOutcome{Status: StatusWritten, Snapshot: snapshot}, nil
}

// rollUp sums the constituent prompt snapshots. Topic-level counts must
// equal the sum of the prompt-level counts for the same date.
func rollUp(topicID, date string, promptSnapshots []*models.PromptKPISnapshot) *models.TopicKPISnapshot {
	var (
		totalQueries   int
		totalMentions  int
		totalCitations int
		ranks          []float64
	)

	for _, snap := range promptSnapshots {
		totalQueries += snap.TotalMeasurements
		totalMentions += snap.MentionCount
		totalCitations += snap.CitationCount
		if snap.AvgPosition != nil {
			ranks = append(ranks, *snap.AvgPosition)
		}
	}

	visibility := roundPercent(totalMentions, totalQueries)

	snapshot := &models.TopicKPISnapshot{
		ID:                   uuid.New().String(),
		TopicID:              topicID,
		SnapshotDate:         date,
		VisibilityScore:      visibility,
		// Placeholder: a real relevancy formula needs competitor
		// attribution, which is not implemented yet.
		RelevancyScore:       visibility,
		TotalCitations:       totalCitations,
		TotalBrandMentions:   totalMentions,
		CompetitorMentions:   map[string]int{},
		CompetitorPositions:  map[string]int{},
		TotalPromptsMeasured: len(promptSnapshots),
		TotalLLMQueries:      totalQueries,
		CreatedAt:            time.Now(),
		UpdatedAt:            time.Now(),
	}

	if len(ranks) > 0 {
		avg := mean(ranks)
		best := ranks[0]
		worst := ranks[0]
		for _, r := range ranks[1:] {
			if r < best {
				best = r
			}
			if r > worst {
				worst = r
			}
		}
		snapshot.AvgRank = &avg
		snapshot.BestRank = &best
		snapshot.WorstRank = &worst
	}

	return snapshot
}
