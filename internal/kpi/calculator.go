package kpi

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/brandlens/brandlens/internal/llm"
	"github.com/brandlens/brandlens/internal/logger"
	"github.com/brandlens/brandlens/internal/models"
	"github.com/brandlens/brandlens/internal/signals"
)

// DefaultNumSamples is how many independent samples are taken per
// (prompt, provider) pair when the caller does not override it
const DefaultNumSamples = 3

// samplePacing is the spacing between consecutive samples against the same
// vendor, to stay under per-vendor rate limits
const samplePacing = 500 * time.Millisecond

// Aligner scores the semantic similarity of two texts. It is a best-effort
// side channel: a nil Aligner or a failed call degrades the alignment signal
// to nil without failing the sample.
type Aligner interface {
	Similarity(ctx context.Context, a, b string) (float64, error)
}

// Options configures one calculation
type Options struct {
	NumSamples int
	Model      string
	Region     string
	Language   string
}

// Calculator orchestrates N samples of one prompt against one provider and
// folds the extracted signals into a PromptKPIResult
type Calculator struct {
	provider llm.Provider
	aligner  Aligner
	limiter  *rate.Limiter
}

// NewCalculator creates a calculator for one provider. aligner may be nil.
func NewCalculator(provider llm.Provider, aligner Aligner) *Calculator {
	return &Calculator{
		provider: provider,
		aligner:  aligner,
		limiter:  rate.NewLimiter(rate.Every(samplePacing), 1),
	}
}

// CalculateKPIs issues opts.NumSamples sequential calls to the provider and
// extracts per-sample signals. A single sample's failure is logged and
// absorbed; the calculator errors only when every sample fails.
func (c *Calculator) CalculateKPIs(ctx context.Context, promptID, promptText string, brand models.BrandContext, opts Options) (*models.PromptKPIResult, error) {
	numSamples := opts.NumSamples
	if numSamples <= 0 {
		numSamples = DefaultNumSamples
	}

	model := opts.Model
	if model == "" {
		model = c.provider.Model()
	}

	systemPrompt := llm.BuildSystemPrompt(opts.Region, opts.Language)

	var metrics []models.KPIMetrics
	var failures []string

	for i := 0; i < numSamples; i++ {
		if err := c.limiter.Wait(ctx); err != nil {
			failures = append(failures, fmt.Sprintf("sample %d: %v", i+1, err))
			break
		}

		text, err := c.provider.Send(ctx, promptText, systemPrompt, llm.Params{Model: model})
		if err != nil {
			logger.Warning("Sample %d/%d failed for provider %s: %v", i+1, numSamples, c.provider.Name(), err)
			failures = append(failures, fmt.Sprintf("sample %d: %v", i+1, err))
			continue
		}

		metrics = append(metrics, c.extractSample(ctx, text, brand))
	}

	if len(metrics) == 0 {
		return nil, fmt.Errorf("all %d samples failed for provider %s: %s",
			numSamples, c.provider.Name(), strings.Join(failures, "; "))
	}

	return &models.PromptKPIResult{
		PromptID:     promptID,
		LLMProvider:  c.provider.Name(),
		LLMModel:     model,
		Metrics:      metrics,
		CalculatedAt: time.Now(),
	}, nil
}

// extractSample derives the per-sample signals from one raw response
func (c *Calculator) extractSample(ctx context.Context, text string, brand models.BrandContext) models.KPIMetrics {
	m := models.KPIMetrics{
		MentionPresent: signals.DetectMention(text, brand.Name, brand.Domain),
		Sentiment:      signals.SentimentScore(text),
		Prominence:     signals.ProminenceScore(text, brand.Name, brand.Domain),
		Citations:      signals.ExtractCitations(text),
		ResponseText:   text,
	}

	if m.MentionPresent {
		all := append([]string{brand.Name}, brand.Competitors...)
		for _, bp := range signals.BrandPositions(text, all) {
			if strings.EqualFold(bp.Brand, brand.Name) {
				position := bp.Position
				m.Position = &position
				break
			}
		}
	}

	if c.aligner != nil && brand.Description != "" {
		if similarity, err := c.aligner.Similarity(ctx, text, brand.Description); err != nil {
			logger.Debug("Alignment scoring unavailable for provider %s: %v", c.provider.Name(), err)
		} else {
			m.Alignment = &similarity
		}
	}

	return m
}
