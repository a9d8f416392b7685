package orchestrator

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brandlens/brandlens/internal/llm"
	"github.com/brandlens/brandlens/internal/models"
)

// gatedProvider blocks inside Send until released
type gatedProvider struct {
	gate     chan struct{}
	response string
}

func (p *gatedProvider) Name() string  { return "gated" }
func (p *gatedProvider) Model() string { return "gated-model" }

func (p *gatedProvider) Send(ctx context.Context, prompt, systemPrompt string, params llm.Params) (string, error) {
	if p.gate != nil {
		select {
		case <-p.gate:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return p.response, nil
}

func setupGenerator(t *testing.T, provider llm.Provider) (*fakeSQLDB, *Generator) {
	t.Helper()

	sqlDB := newFakeSQLDB()
	sqlDB.workspaces["w1"] = &models.Workspace{
		ID:        "w1",
		BrandName: "Acme",
		Active:    true,
	}

	registry := llm.NewRegistry()
	registry.Register(provider)

	return sqlDB, NewGenerator(sqlDB, registry)
}

func TestGeneratorJobIsSafeToPollWhileRunning(t *testing.T) {
	provider := &gatedProvider{
		gate:     make(chan struct{}),
		response: "1. Best accounting software?\n2. Cheapest invoicing tool?\n3. Top bookkeeping apps?",
	}
	sqlDB, gen := setupGenerator(t, provider)

	job, err := gen.Start("w1", "", "gated", 3)
	require.NoError(t, err)

	// Concurrent pollers marshal their copies while run() keeps mutating
	// the stored job.
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				current, ok := gen.Get(job.ID)
				if !ok {
					t.Error("job disappeared while running")
					return
				}
				if _, err := json.Marshal(current); err != nil {
					t.Errorf("marshal failed: %v", err)
					return
				}
			}
		}()
	}

	close(provider.gate)
	wg.Wait()

	require.Eventually(t, func() bool {
		current, ok := gen.Get(job.ID)
		return ok && current.Status == JobCompleted
	}, 2*time.Second, 10*time.Millisecond)

	current, ok := gen.Get(job.ID)
	require.True(t, ok)
	assert.Len(t, current.PromptIDs, 3)
	assert.Len(t, sqlDB.prompts, 3)
}

func TestGeneratorGetReturnsIndependentCopies(t *testing.T) {
	provider := &gatedProvider{response: "1. q one\n2. q two"}
	_, gen := setupGenerator(t, provider)

	job, err := gen.Start("w1", "t1", "gated", 2)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		current, ok := gen.Get(job.ID)
		return ok && current.Status == JobCompleted
	}, 2*time.Second, 10*time.Millisecond)

	first, ok := gen.Get(job.ID)
	require.True(t, ok)
	require.Len(t, first.PromptIDs, 2)

	// Mutating a polled copy must not leak into the stored job.
	first.Status = JobFailed
	first.PromptIDs[0] = "tampered"

	second, ok := gen.Get(job.ID)
	require.True(t, ok)
	assert.Equal(t, JobCompleted, second.Status)
	assert.NotEqual(t, "tampered", second.PromptIDs[0])
}

func TestGeneratorStartValidation(t *testing.T) {
	_, gen := setupGenerator(t, &gatedProvider{response: "1. q"})

	_, err := gen.Start("w1", "", "missing", 3)
	require.Error(t, err)

	_, err = gen.Start("w1", "", "gated", 0)
	require.Error(t, err)

	_, err = gen.Start("w1", "", "gated", 51)
	require.Error(t, err)
}
