package score

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brandlens/brandlens/internal/models"
)

// fakeResultStore serves canned result rows and citations
type fakeResultStore struct {
	results   []*models.Result
	citations []*models.Citation
}

func (f *fakeResultStore) GetRecentResults(ctx context.Context, workspaceID, regionID string, limit int) ([]*models.Result, error) {
	return f.results, nil
}

func (f *fakeResultStore) GetCitationsForResults(ctx context.Context, resultIDs []string) ([]*models.Citation, error) {
	return f.citations, nil
}

func floatPtr(f float64) *float64 { return &f }

func testWorkspace() *models.Workspace {
	return &models.Workspace{ID: "w1", BrandName: "Acme"}
}

func TestScoreEmptyWindowIsAllZero(t *testing.T) {
	scorer := NewScorer(&fakeResultStore{})

	scores, err := scorer.Score(context.Background(), testWorkspace())
	require.NoError(t, err)

	assert.Equal(t, 0, scores.SampleSize)
	assert.Equal(t, 0, scores.VisibilityScore)
	assert.Equal(t, 0, scores.TrustScore)
	assert.Equal(t, 0, scores.ShareOfVoice)
	assert.Equal(t, 0.0, scores.MentionRate)
}

func TestScorePerfectRow(t *testing.T) {
	store := &fakeResultStore{
		results: []*models.Result{
			{
				ID:              "r1",
				MentionPresent:  true,
				BrandsMentioned: []string{"Acme"},
				Prominence:      floatPtr(1),
				Alignment:       floatPtr(1),
				Sentiment:       floatPtr(1),
			},
		},
		citations: []*models.Citation{
			{ResultID: "r1", Domain: "acme.io", AuthorityCached: floatPtr(1)},
		},
	}
	scorer := NewScorer(store)

	scores, err := scorer.Score(context.Background(), testWorkspace())
	require.NoError(t, err)

	assert.Equal(t, 100, scores.VisibilityScore)
	assert.Equal(t, 100, scores.TrustScore)
	assert.Equal(t, 100, scores.ShareOfVoice)
	assert.Equal(t, 1.0, scores.MentionRate)
	assert.Equal(t, 1, scores.SampleSize)
}

func TestScoreNullSignalsAreLeftOutOfMeans(t *testing.T) {
	store := &fakeResultStore{
		results: []*models.Result{
			{ID: "r1", MentionPresent: true, Prominence: floatPtr(0.6), Sentiment: floatPtr(0)},
			// Missing signals must not drag the means toward zero.
			{ID: "r2", MentionPresent: true},
		},
	}
	scorer := NewScorer(store)

	scores, err := scorer.Score(context.Background(), testWorkspace())
	require.NoError(t, err)

	// mentionRate=1.0, avgProminence=0.6, authority=0, alignment=0
	// visibility = 0.40*1.0 + 0.25*0.6 = 0.55
	assert.Equal(t, 55, scores.VisibilityScore)
	// trust = 0.50*0 + 0.30*((0+1)/2) + 0.20*0.6 = 0.27
	assert.Equal(t, 27, scores.TrustScore)
}

func TestScoreShareOfVoiceAgainstCompetitors(t *testing.T) {
	store := &fakeResultStore{
		results: []*models.Result{
			{ID: "r1", MentionPresent: true, BrandsMentioned: []string{"Acme", "Bravo"}},
			{ID: "r2", MentionPresent: false, BrandsMentioned: []string{"Bravo"}},
			{ID: "r3", MentionPresent: false, BrandsMentioned: []string{"Charlie"}},
		},
	}
	scorer := NewScorer(store)

	scores, err := scorer.Score(context.Background(), testWorkspace())
	require.NoError(t, err)

	// 1 brand mention vs 3 competitor touches
	assert.Equal(t, 25, scores.ShareOfVoice)
}

func TestScoreCitationAuthorityIgnoresUncachedEntries(t *testing.T) {
	store := &fakeResultStore{
		results: []*models.Result{
			{ID: "r1", MentionPresent: false},
		},
		citations: []*models.Citation{
			{ResultID: "r1", Domain: "a.com", AuthorityCached: floatPtr(0.5)},
			{ResultID: "r1", Domain: "b.com"},
		},
	}
	scorer := NewScorer(store)

	scores, err := scorer.Score(context.Background(), testWorkspace())
	require.NoError(t, err)

	// visibility = 0.20*0.5 = 0.10, trust = 0.50*0.5 + 0.30*0.5 = 0.40
	assert.Equal(t, 10, scores.VisibilityScore)
	assert.Equal(t, 40, scores.TrustScore)
}
