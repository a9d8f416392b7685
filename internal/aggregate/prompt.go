// Package aggregate folds per-sample KPI measurements into date-keyed
// snapshot rows. Upserts are idempotent on the (entity, date) key: a rerun
// for the same day either skips or overwrites, it never duplicates.
package aggregate

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/brandlens/brandlens/internal/db"
	"github.com/brandlens/brandlens/internal/logger"
	"github.com/brandlens/brandlens/internal/models"
)

// SnapshotDateFormat is the calendar-day key format for snapshot rows
const SnapshotDateFormat = "2006-01-02"

// Aggregation outcome statuses
const (
	StatusWritten = "written"
	StatusSkipped = "skipped"
)

// Skip reasons. A skip is a named outcome, not a failure.
const (
	ReasonAlreadyComputed   = "already computed"
	ReasonNoPromptSnapshots = "no prompt snapshots for date"
)

// PromptOutcome reports what one prompt-level aggregation did
type PromptOutcome struct {
	Status   string
	Reason   string
	Snapshot *models.PromptKPISnapshot
}

// PromptAggregator folds PromptKPIResults into one snapshot per
// (prompt, day)
type PromptAggregator struct {
	store db.SnapshotStore
}

// NewPromptAggregator creates a prompt aggregator
func NewPromptAggregator(store db.SnapshotStore) *PromptAggregator {
	return &PromptAggregator{store: store}
}

// Aggregate folds one or more provider results for a prompt into a single
// snapshot for date. When a snapshot already exists for the key and force is
// false the call skips; with force it overwrites the same-day row.
func (a *PromptAggregator) Aggregate(ctx context.Context, prompt *models.MonitoringPrompt, date string, results []*models.PromptKPIResult, force bool) (*PromptOutcome, error) {
	existing, err := a.store.GetPromptSnapshot(ctx, prompt.ID, date)
	if err != nil {
		return nil, &db.PersistenceError{Op: "get prompt snapshot", Err: err}
	}

	if existing != nil && !force {
		logger.Debug("Snapshot already computed for prompt %s on %s, skipping", prompt.ID, date)
		return &PromptOutcome{Status: StatusSkipped, Reason: ReasonAlreadyComputed, Snapshot: existing}, nil
	}

	snapshot := foldResults(prompt, date, results)

	if err := a.store.UpsertPromptSnapshot(ctx, snapshot); err != nil {
		return nil, &db.PersistenceError{Op: "upsert prompt snapshot", Err: err}
	}

	return &PromptOutcome{Status: StatusWritten, Snapshot: snapshot}, nil
}

// foldResults computes the aggregate counters across every sample of every
// provider result
func foldResults(prompt *models.MonitoringPrompt, date string, results []*models.PromptKPIResult) *models.PromptKPISnapshot {
	var (
		totalMeasurements int
		mentionCount      int
		citationCount     int
		citedSamples      int
		positions         []float64
		providers         []string
		modelsUsed        []string
	)

	for _, result := range results {
		providers = appendUnique(providers, result.LLMProvider)
		modelsUsed = appendUnique(modelsUsed, result.LLMModel)

		for _, m := range result.Metrics {
			totalMeasurements++
			if m.MentionPresent {
				mentionCount++
			}
			citationCount += len(m.Citations)
			if len(m.Citations) > 0 {
				citedSamples++
			}
			if m.Position != nil {
				positions = append(positions, float64(*m.Position))
			}
		}
	}

	snapshot := &models.PromptKPISnapshot{
		ID:                uuid.New().String(),
		PromptID:          prompt.ID,
		RegionID:          prompt.RegionID,
		SnapshotDate:      date,
		TotalMeasurements: totalMeasurements,
		MentionCount:      mentionCount,
		CitationCount:     citationCount,
		LLMProvider:       strings.Join(providers, ","),
		LLMModel:          strings.Join(modelsUsed, ","),
		CreatedAt:         time.Now(),
		UpdatedAt:         time.Now(),
	}

	if totalMeasurements > 0 {
		snapshot.VisibilityScore = roundPercent(mentionCount, totalMeasurements)
		snapshot.MentionRate = float64(mentionCount) / float64(totalMeasurements)
		snapshot.CitationRate = float64(citedSamples) / float64(totalMeasurements)
	}

	if len(positions) > 0 {
		avg := mean(positions)
		snapshot.AvgPosition = &avg
	}

	return snapshot
}

// Today returns the snapshot-date key for the current day
func Today() string {
	return time.Now().Format(SnapshotDateFormat)
}

func roundPercent(numerator, denominator int) int {
	if denominator == 0 {
		return 0
	}
	return int(math.Round(100 * float64(numerator) / float64(denominator)))
}

func mean(values []float64) float64 {
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func appendUnique(list []string, value string) []string {
	for _, v := range list {
		if v == value {
			return list
		}
	}
	return append(list, value)
}
