// Package score computes the live workspace-level composite metrics. It
// reads a recent window of raw result rows directly, not the daily snapshot
// tables, so the dashboard reflects the latest captures immediately.
package score

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/brandlens/brandlens/internal/db"
	"github.com/brandlens/brandlens/internal/models"
)

// DefaultWindow is how many recent result rows feed the composite scores
const DefaultWindow = 20

// Fixed linear weights of the composite formulas. The sub-metrics they
// weight are heuristic; recalibrate these if a sub-metric is replaced.
const (
	visibilityMentionWeight    = 0.40
	visibilityProminenceWeight = 0.25
	visibilityAuthorityWeight  = 0.20
	visibilityAlignmentWeight  = 0.15

	trustAuthorityWeight  = 0.50
	trustSentimentWeight  = 0.30
	trustProminenceWeight = 0.20
)

// Scorer computes workspace-level VisibilityScore, TrustScore and
// share of voice from the most recent raw result rows
type Scorer struct {
	store  db.ResultStore
	window int
}

// NewScorer creates a scorer over the default window size
func NewScorer(store db.ResultStore) *Scorer {
	return &Scorer{store: store, window: DefaultWindow}
}

// NewScorerWithWindow creates a scorer over a custom window size
func NewScorerWithWindow(store db.ResultStore, window int) *Scorer {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Scorer{store: store, window: window}
}

// Score computes the composite scores for a workspace, optionally narrowed
// to one region. Division by zero anywhere yields 0, never NaN.
func (s *Scorer) Score(ctx context.Context, workspace *models.Workspace) (*models.WorkspaceScores, error) {
	results, err := s.store.GetRecentResults(ctx, workspace.ID, workspace.RegionID, s.window)
	if err != nil {
		return nil, &db.PersistenceError{Op: "get recent results", Err: err}
	}

	scores := &models.WorkspaceScores{
		WorkspaceID:  workspace.ID,
		SampleSize:   len(results),
		CalculatedAt: time.Now(),
	}

	if len(results) == 0 {
		return scores, nil
	}

	var (
		mentionCount         int
		competitorTouchCount int
		prominences          []float64
		alignments           []float64
		sentiments           []float64
		resultIDs            []string
	)

	for _, r := range results {
		resultIDs = append(resultIDs, r.ID)

		if r.MentionPresent {
			mentionCount++
		}
		if mentionsCompetitor(r, workspace.BrandName) {
			competitorTouchCount++
		}
		if r.Prominence != nil {
			prominences = append(prominences, *r.Prominence)
		}
		if r.Alignment != nil {
			alignments = append(alignments, *r.Alignment)
		}
		if r.Sentiment != nil {
			sentiments = append(sentiments, *r.Sentiment)
		}
	}

	citationAuthority, err := s.citationAuthority(ctx, resultIDs)
	if err != nil {
		return nil, err
	}

	total := len(results)
	mentionRate := float64(mentionCount) / float64(total)
	avgProminence := meanOrZero(prominences)
	avgAlignment := meanOrZero(alignments)
	avgSentiment := meanOrZero(sentiments)
	sentimentNormalized := (avgSentiment + 1) / 2

	visibility := visibilityMentionWeight*mentionRate +
		visibilityProminenceWeight*avgProminence +
		visibilityAuthorityWeight*citationAuthority +
		visibilityAlignmentWeight*avgAlignment

	trust := trustAuthorityWeight*citationAuthority +
		trustSentimentWeight*sentimentNormalized +
		trustProminenceWeight*avgProminence

	scores.MentionRate = mentionRate
	scores.VisibilityScore = int(math.Round(100 * visibility))
	scores.TrustScore = int(math.Round(100 * trust))
	scores.ShareOfVoice = shareOfVoice(mentionCount, competitorTouchCount)

	return scores, nil
}

// citationAuthority averages the cached authority of the citations attached
// to the window's result rows. Citations without a cached authority are left
// out of the mean.
func (s *Scorer) citationAuthority(ctx context.Context, resultIDs []string) (float64, error) {
	citations, err := s.store.GetCitationsForResults(ctx, resultIDs)
	if err != nil {
		return 0, &db.PersistenceError{Op: "get citations", Err: err}
	}

	var authorities []float64
	for _, c := range citations {
		if c.AuthorityCached != nil {
			authorities = append(authorities, *c.AuthorityCached)
		}
	}

	return meanOrZero(authorities), nil
}

// shareOfVoice is the brand's mention share against competitor touches,
// as a rounded percentage. 0 when nothing was mentioned at all.
func shareOfVoice(mentionCount, competitorTouchCount int) int {
	denominator := mentionCount + competitorTouchCount
	if denominator == 0 {
		return 0
	}
	return int(math.Round(100 * float64(mentionCount) / float64(denominator)))
}

// mentionsCompetitor reports whether the row surfaced any brand other than
// the tracked one
func mentionsCompetitor(r *models.Result, brandName string) bool {
	for _, brand := range r.BrandsMentioned {
		if !strings.EqualFold(brand, brandName) {
			return true
		}
	}
	return false
}

// meanOrZero averages the values present. Rows missing a signal are left out
// of the mean rather than treated as zero.
func meanOrZero(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
