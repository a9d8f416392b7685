package kpi

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brandlens/brandlens/internal/llm"
	"github.com/brandlens/brandlens/internal/models"
)

// fakeProvider returns canned responses in order, recording the system
// prompts it was sent
type fakeProvider struct {
	responses     []string
	errs          []error
	calls         int
	systemPrompts []string
}

func (f *fakeProvider) Name() string  { return "fake" }
func (f *fakeProvider) Model() string { return "fake-model" }

func (f *fakeProvider) Send(ctx context.Context, prompt, systemPrompt string, params llm.Params) (string, error) {
	i := f.calls
	f.calls++
	f.systemPrompts = append(f.systemPrompts, systemPrompt)

	if i < len(f.errs) && f.errs[i] != nil {
		return "", f.errs[i]
	}
	if i < len(f.responses) {
		return f.responses[i], nil
	}
	return "", errors.New("no canned response")
}

type fakeAligner struct {
	similarity float64
	err        error
}

func (f *fakeAligner) Similarity(ctx context.Context, a, b string) (float64, error) {
	return f.similarity, f.err
}

func testBrand() models.BrandContext {
	return models.BrandContext{
		Name:        "Acme",
		Domain:      "acme.io",
		Description: "Cloud accounting software for small businesses",
		Competitors: []string{"Bravo", "Charlie"},
	}
}

func TestCalculateKPIsExtractsSignals(t *testing.T) {
	provider := &fakeProvider{
		responses: []string{
			"1. Acme (https://acme.io) is a great option. Bravo is also popular.",
			"Bravo is the usual pick here.",
		},
	}
	calc := NewCalculator(provider, &fakeAligner{similarity: 0.8})

	result, err := calc.CalculateKPIs(context.Background(), "prompt-1", "Best accounting software?", testBrand(), Options{NumSamples: 2})
	require.NoError(t, err)

	assert.Equal(t, "prompt-1", result.PromptID)
	assert.Equal(t, "fake", result.LLMProvider)
	assert.Equal(t, "fake-model", result.LLMModel)
	require.Len(t, result.Metrics, 2)

	first := result.Metrics[0]
	assert.True(t, first.MentionPresent)
	require.NotNil(t, first.Position)
	assert.Equal(t, 1, *first.Position)
	require.Len(t, first.Citations, 1)
	assert.Equal(t, "acme.io", first.Citations[0].Domain)
	require.NotNil(t, first.Alignment)
	assert.Equal(t, 0.8, *first.Alignment)

	second := result.Metrics[1]
	assert.False(t, second.MentionPresent)
	assert.Nil(t, second.Position)
}

func TestCalculateKPIsSystemPromptNeverNamesBrand(t *testing.T) {
	provider := &fakeProvider{responses: []string{"An answer.", "An answer.", "An answer."}}
	calc := NewCalculator(provider, nil)

	_, err := calc.CalculateKPIs(context.Background(), "prompt-1", "Best accounting software?", testBrand(), Options{Region: "France", Language: "FR"})
	require.NoError(t, err)

	require.NotEmpty(t, provider.systemPrompts)
	for _, sp := range provider.systemPrompts {
		assert.NotContains(t, sp, "Acme")
		assert.NotContains(t, sp, "acme.io")
		assert.Contains(t, sp, "France")
	}
}

func TestCalculateKPIsToleratesPartialFailure(t *testing.T) {
	provider := &fakeProvider{
		responses: []string{"", "Acme is recommended.", "Acme is recommended."},
		errs:      []error{errors.New("rate limited"), nil, nil},
	}
	calc := NewCalculator(provider, nil)

	result, err := calc.CalculateKPIs(context.Background(), "prompt-1", "q", testBrand(), Options{NumSamples: 3})
	require.NoError(t, err)
	assert.Len(t, result.Metrics, 2)
}

func TestCalculateKPIsFailsWhenAllSamplesFail(t *testing.T) {
	boom := errors.New("boom")
	provider := &fakeProvider{errs: []error{boom, boom, boom}}
	calc := NewCalculator(provider, nil)

	result, err := calc.CalculateKPIs(context.Background(), "prompt-1", "q", testBrand(), Options{NumSamples: 3})
	require.Error(t, err)
	assert.Nil(t, result)
	assert.Contains(t, err.Error(), "all 3 samples failed")
}

func TestCalculateKPIsAlignerFailureDegradesToNil(t *testing.T) {
	provider := &fakeProvider{responses: []string{"Acme is fine."}}
	calc := NewCalculator(provider, &fakeAligner{err: errors.New("embedding quota")})

	result, err := calc.CalculateKPIs(context.Background(), "prompt-1", "q", testBrand(), Options{NumSamples: 1})
	require.NoError(t, err)
	require.Len(t, result.Metrics, 1)
	assert.Nil(t, result.Metrics[0].Alignment)
}
