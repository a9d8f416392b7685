// Package orchestrator drives a measurement batch for one workspace:
// sampling every active prompt against every enabled provider, persisting
// raw results, and feeding the daily aggregators. Prompts and providers are
// processed sequentially so vendor rate limits hold and the progress stream
// stays deterministic.
package orchestrator

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/brandlens/brandlens/internal/aggregate"
	"github.com/brandlens/brandlens/internal/db"
	"github.com/brandlens/brandlens/internal/kpi"
	"github.com/brandlens/brandlens/internal/llm"
	"github.com/brandlens/brandlens/internal/logger"
	"github.com/brandlens/brandlens/internal/models"
	"github.com/brandlens/brandlens/internal/signals"
)

// RunOptions configures one measurement batch
type RunOptions struct {
	WorkspaceID string
	RegionID    string // optional narrowing; empty means the whole workspace
	Force       bool   // recompute same-day snapshots instead of skipping
	NumSamples  int    // 0 means the calculator default
}

// Orchestrator runs measurement batches
type Orchestrator struct {
	sqlDB     db.SQLDatabase
	factStore db.NoSQLDatabase
	registry  *llm.Registry
	aligner   kpi.Aligner
	promptAgg *aggregate.PromptAggregator
	topicAgg  *aggregate.TopicAggregator
}

// New creates an orchestrator. aligner may be nil when no embedding service
// is configured.
func New(sqlDB db.SQLDatabase, factStore db.NoSQLDatabase, registry *llm.Registry, aligner kpi.Aligner) *Orchestrator {
	return &Orchestrator{
		sqlDB:     sqlDB,
		factStore: factStore,
		registry:  registry,
		aligner:   aligner,
		promptAgg: aggregate.NewPromptAggregator(sqlDB),
		topicAgg:  aggregate.NewTopicAggregator(sqlDB),
	}
}

// Run executes one measurement batch. A single prompt or provider failure is
// reported on the progress stream and never aborts the batch; the run always
// ends with a complete event carrying the per-outcome counts. Cancellation
// is checked between prompts; an in-flight provider call is allowed to
// finish first.
func (o *Orchestrator) Run(ctx context.Context, opts RunOptions, sink Sink) (*Summary, error) {
	workspace, err := o.sqlDB.GetWorkspace(ctx, opts.WorkspaceID)
	if err != nil {
		return nil, failBatch(sink, fmt.Errorf("failed to get workspace: %w", err))
	}
	if workspace == nil {
		return nil, failBatch(sink, fmt.Errorf("workspace not found: %s", opts.WorkspaceID))
	}

	prompts, err := o.sqlDB.GetActivePrompts(ctx, opts.WorkspaceID, opts.RegionID)
	if err != nil {
		return nil, failBatch(sink, fmt.Errorf("failed to list active prompts: %w", err))
	}

	regionName, language := o.resolveLocale(ctx, workspace, opts.RegionID)

	summary := &Summary{TotalPrompts: len(prompts)}
	emit(sink, Event{Type: EventStart, Message: fmt.Sprintf("measuring %d prompts", len(prompts))})

	date := aggregate.Today()
	touchedTopics := make(map[string]bool)

	for _, prompt := range prompts {
		if ctx.Err() != nil {
			logger.Warning("Run cancelled for workspace %s after %d prompts", workspace.ID, summary.Processed)
			break
		}

		outcome := o.runPrompt(ctx, workspace, prompt, date, regionName, language, opts, sink)
		switch outcome {
		case aggregate.StatusWritten:
			summary.Processed++
			if prompt.TopicID != "" {
				touchedTopics[prompt.TopicID] = true
			}
		case aggregate.StatusSkipped:
			summary.Skipped++
		default:
			summary.Errors++
		}
	}

	for topicID := range touchedTopics {
		if ctx.Err() != nil {
			break
		}
		topicOutcome, err := o.topicAgg.Aggregate(ctx, topicID, date, opts.Force)
		if err != nil {
			logger.Error("Topic aggregation failed for topic %s: %v", topicID, err)
			emit(sink, Event{Type: EventError, TopicID: topicID, Message: err.Error()})
			continue
		}
		emit(sink, Event{Type: EventProgress, TopicID: topicID, Message: "topic snapshot " + topicOutcome.Status, Reason: topicOutcome.Reason})
	}

	emit(sink, Event{Type: EventComplete, Summary: summary})
	logger.Info("Run complete for workspace %s: processed=%d skipped=%d errors=%d",
		workspace.ID, summary.Processed, summary.Skipped, summary.Errors)

	return summary, nil
}

// runPrompt measures one prompt against every enabled provider and feeds the
// prompt aggregator. Returns the outcome status ("written", "skipped", or
// "" for error) after emitting the matching progress event.
func (o *Orchestrator) runPrompt(ctx context.Context, workspace *models.Workspace, prompt *models.MonitoringPrompt, date, regionName, language string, opts RunOptions, sink Sink) string {
	emit(sink, Event{Type: EventStart, PromptID: prompt.ID, PromptText: prompt.Text})

	// Idempotency pre-check: no point burning provider quota on a prompt
	// whose snapshot for today already exists.
	if !opts.Force {
		existing, err := o.sqlDB.GetPromptSnapshot(ctx, prompt.ID, date)
		if err != nil {
			emit(sink, Event{Type: EventError, PromptID: prompt.ID, Message: err.Error()})
			return ""
		}
		if existing != nil {
			emit(sink, Event{Type: EventSkipped, PromptID: prompt.ID, Reason: aggregate.ReasonAlreadyComputed})
			return aggregate.StatusSkipped
		}
	}

	var results []*models.PromptKPIResult
	var providerFailures []string

	for _, providerName := range workspace.Providers {
		provider, ok := o.registry.Get(providerName)
		if !ok {
			logger.Warning("Provider %s not registered, skipping for prompt %s", providerName, prompt.ID)
			providerFailures = append(providerFailures, providerName+": not registered")
			continue
		}

		calculator := kpi.NewCalculator(provider, o.aligner)
		result, err := calculator.CalculateKPIs(ctx, prompt.ID, prompt.Text, workspace.Brand(), kpi.Options{
			NumSamples: opts.NumSamples,
			Region:     regionName,
			Language:   language,
		})
		if err != nil {
			logger.Error("KPI calculation failed for prompt %s with provider %s: %v", prompt.ID, providerName, err)
			providerFailures = append(providerFailures, fmt.Sprintf("%s: %v", providerName, err))
			continue
		}

		if err := o.persistResults(ctx, workspace, prompt, result); err != nil {
			emit(sink, Event{Type: EventError, PromptID: prompt.ID, Provider: providerName, Message: err.Error()})
			return ""
		}

		results = append(results, result)
	}

	if len(results) == 0 {
		message := "all providers failed"
		if len(providerFailures) > 0 {
			message = strings.Join(providerFailures, "; ")
		}
		emit(sink, Event{Type: EventError, PromptID: prompt.ID, Message: message})
		return ""
	}

	outcome, err := o.promptAgg.Aggregate(ctx, prompt, date, results, opts.Force)
	if err != nil {
		emit(sink, Event{Type: EventError, PromptID: prompt.ID, Message: err.Error()})
		return ""
	}

	if outcome.Status == aggregate.StatusSkipped {
		emit(sink, Event{Type: EventSkipped, PromptID: prompt.ID, Reason: outcome.Reason})
		return aggregate.StatusSkipped
	}

	emit(sink, Event{Type: EventSuccess, PromptID: prompt.ID, Snapshot: outcome.Snapshot})
	return aggregate.StatusWritten
}

// persistResults writes one raw Result row plus citations per sample
func (o *Orchestrator) persistResults(ctx context.Context, workspace *models.Workspace, prompt *models.MonitoringPrompt, result *models.PromptKPIResult) error {
	allBrands := append([]string{workspace.BrandName}, workspace.Competitors...)

	for _, m := range result.Metrics {
		positions := signals.BrandPositions(m.ResponseText, allBrands)

		row := &models.Result{
			ID:                uuid.New().String(),
			WorkspaceID:       workspace.ID,
			RegionID:          prompt.RegionID,
			PromptID:          prompt.ID,
			LLMProvider:       result.LLMProvider,
			LLMModel:          result.LLMModel,
			ResponseText:      m.ResponseText,
			BrandPositions:    positions,
			MentionPresent:    m.MentionPresent,
			OurBrandMentioned: m.MentionPresent,
			OurBrandPosition:  m.Position,
			Prominence:        m.Prominence,
			Alignment:         m.Alignment,
			Sentiment:         m.Sentiment,
			CreatedAt:         time.Now(),
		}
		for _, bp := range positions {
			row.BrandsMentioned = append(row.BrandsMentioned, bp.Brand)
		}

		if err := o.factStore.CreateResult(ctx, row); err != nil {
			return &db.PersistenceError{Op: "create result", Err: err}
		}

		if len(m.Citations) > 0 {
			citations := make([]*models.Citation, 0, len(m.Citations))
			for i, c := range m.Citations {
				citations = append(citations, &models.Citation{
					ID:        uuid.New().String(),
					ResultID:  row.ID,
					URL:       c.URL,
					Domain:    c.Domain,
					Position:  i + 1,
					CreatedAt: time.Now(),
				})
			}
			if err := o.factStore.CreateCitations(ctx, citations); err != nil {
				return &db.PersistenceError{Op: "create citations", Err: err}
			}
		}
	}

	return nil
}

// resolveLocale picks the region name and language for the run's system
// prompt, preferring the narrowed region over workspace defaults
func (o *Orchestrator) resolveLocale(ctx context.Context, workspace *models.Workspace, regionID string) (string, string) {
	language := workspace.Language

	if regionID == "" {
		regionID = workspace.RegionID
	}
	if regionID == "" {
		return "", language
	}

	region, err := o.sqlDB.GetRegion(ctx, regionID)
	if err != nil || region == nil {
		logger.Debug("Region %s not resolvable, running without region context", regionID)
		return "", language
	}

	if region.Language != "" {
		language = region.Language
	}
	return region.Name, language
}
