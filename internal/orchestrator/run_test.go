package orchestrator

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brandlens/brandlens/internal/aggregate"
	"github.com/brandlens/brandlens/internal/llm"
	"github.com/brandlens/brandlens/internal/models"
	"github.com/brandlens/brandlens/internal/shared"
)

// fakeSQLDB is an in-memory SQLDatabase covering what a run touches
type fakeSQLDB struct {
	workspaces      map[string]*models.Workspace
	prompts         []*models.MonitoringPrompt
	promptSnapshots map[string]*models.PromptKPISnapshot
	topicSnapshots  map[string]*models.TopicKPISnapshot
}

func newFakeSQLDB() *fakeSQLDB {
	return &fakeSQLDB{
		workspaces:      make(map[string]*models.Workspace),
		promptSnapshots: make(map[string]*models.PromptKPISnapshot),
		topicSnapshots:  make(map[string]*models.TopicKPISnapshot),
	}
}

func (f *fakeSQLDB) Connect(ctx context.Context) error    { return nil }
func (f *fakeSQLDB) Disconnect(ctx context.Context) error { return nil }
func (f *fakeSQLDB) Ping(ctx context.Context) error       { return nil }

func (f *fakeSQLDB) CreateWorkspace(ctx context.Context, w *models.Workspace) error {
	f.workspaces[w.ID] = w
	return nil
}

func (f *fakeSQLDB) GetWorkspace(ctx context.Context, id string) (*models.Workspace, error) {
	return f.workspaces[id], nil
}

func (f *fakeSQLDB) ListWorkspaces(ctx context.Context, active *bool) ([]*models.Workspace, error) {
	var out []*models.Workspace
	for _, w := range f.workspaces {
		if active == nil || w.Active == *active {
			out = append(out, w)
		}
	}
	return out, nil
}

func (f *fakeSQLDB) UpdateWorkspace(ctx context.Context, w *models.Workspace) error { return nil }

func (f *fakeSQLDB) GetRegion(ctx context.Context, id string) (*models.Region, error) {
	return nil, nil
}

func (f *fakeSQLDB) CreateTopic(ctx context.Context, t *models.Topic) error { return nil }
func (f *fakeSQLDB) GetTopic(ctx context.Context, id string) (*models.Topic, error) {
	return nil, nil
}
func (f *fakeSQLDB) ListTopics(ctx context.Context, workspaceID string) ([]*models.Topic, error) {
	return nil, nil
}

func (f *fakeSQLDB) CreatePrompt(ctx context.Context, p *models.MonitoringPrompt) error {
	f.prompts = append(f.prompts, p)
	return nil
}

func (f *fakeSQLDB) GetPrompt(ctx context.Context, id string) (*models.MonitoringPrompt, error) {
	for _, p := range f.prompts {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, nil
}

func (f *fakeSQLDB) GetActivePrompts(ctx context.Context, workspaceID, regionID string) ([]*models.MonitoringPrompt, error) {
	var out []*models.MonitoringPrompt
	for _, p := range f.prompts {
		if p.WorkspaceID == workspaceID && p.Active {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeSQLDB) GetTopicPrompts(ctx context.Context, topicID string) ([]*models.MonitoringPrompt, error) {
	var out []*models.MonitoringPrompt
	for _, p := range f.prompts {
		if p.TopicID == topicID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeSQLDB) UpdatePrompt(ctx context.Context, p *models.MonitoringPrompt) error { return nil }

func (f *fakeSQLDB) GetPromptSnapshot(ctx context.Context, promptID, date string) (*models.PromptKPISnapshot, error) {
	return f.promptSnapshots[promptID+"|"+date], nil
}

func (f *fakeSQLDB) UpsertPromptSnapshot(ctx context.Context, s *models.PromptKPISnapshot) error {
	f.promptSnapshots[s.PromptID+"|"+s.SnapshotDate] = s
	return nil
}

func (f *fakeSQLDB) GetTopicSnapshot(ctx context.Context, topicID, date string) (*models.TopicKPISnapshot, error) {
	return f.topicSnapshots[topicID+"|"+date], nil
}

func (f *fakeSQLDB) UpsertTopicSnapshot(ctx context.Context, s *models.TopicKPISnapshot) error {
	f.topicSnapshots[s.TopicID+"|"+s.SnapshotDate] = s
	return nil
}

func (f *fakeSQLDB) ListPromptSnapshots(ctx context.Context, promptID string, limit int) ([]*models.PromptKPISnapshot, error) {
	return nil, nil
}

func (f *fakeSQLDB) ListTopicSnapshots(ctx context.Context, topicID string, limit int) ([]*models.TopicKPISnapshot, error) {
	return nil, nil
}

// fakeFactStore is an in-memory NoSQLDatabase
type fakeFactStore struct {
	results   []*models.Result
	citations []*models.Citation
}

func (f *fakeFactStore) Connect(ctx context.Context) error    { return nil }
func (f *fakeFactStore) Disconnect(ctx context.Context) error { return nil }
func (f *fakeFactStore) Ping(ctx context.Context) error       { return nil }

func (f *fakeFactStore) CreateResult(ctx context.Context, r *models.Result) error {
	f.results = append(f.results, r)
	return nil
}

func (f *fakeFactStore) GetRecentResults(ctx context.Context, workspaceID, regionID string, limit int) ([]*models.Result, error) {
	return f.results, nil
}

func (f *fakeFactStore) ListResults(ctx context.Context, filter shared.ResultFilter) ([]*models.Result, error) {
	return f.results, nil
}

func (f *fakeFactStore) CreateCitations(ctx context.Context, citations []*models.Citation) error {
	f.citations = append(f.citations, citations...)
	return nil
}

func (f *fakeFactStore) GetCitationsForResults(ctx context.Context, resultIDs []string) ([]*models.Citation, error) {
	return f.citations, nil
}

// scriptedProvider fails for prompts it is told to fail for
type scriptedProvider struct {
	name        string
	failPrompts map[string]bool
}

func (s *scriptedProvider) Name() string  { return s.name }
func (s *scriptedProvider) Model() string { return s.name + "-model" }

func (s *scriptedProvider) Send(ctx context.Context, prompt, systemPrompt string, params llm.Params) (string, error) {
	if s.failPrompts[prompt] {
		return "", errors.New("vendor unavailable")
	}
	return "Acme (https://acme.io) is a great pick here.", nil
}

func setupRun(t *testing.T) (*fakeSQLDB, *fakeFactStore, *Orchestrator) {
	t.Helper()

	sqlDB := newFakeSQLDB()
	factStore := &fakeFactStore{}

	sqlDB.workspaces["w1"] = &models.Workspace{
		ID:           "w1",
		BrandName:    "Acme",
		BrandWebsite: "acme.io",
		Competitors:  []string{"Bravo"},
		Providers:    []string{"scripted"},
		Active:       true,
	}

	registry := llm.NewRegistry()
	registry.Register(&scriptedProvider{
		name:        "scripted",
		failPrompts: map[string]bool{"failing prompt": true},
	})

	return sqlDB, factStore, New(sqlDB, factStore, registry, nil)
}

func TestRunProcessesAllPromptsDespiteFailures(t *testing.T) {
	sqlDB, factStore, orch := setupRun(t)

	sqlDB.prompts = []*models.MonitoringPrompt{
		{ID: "p1", WorkspaceID: "w1", TopicID: "t1", Text: "first prompt", Active: true},
		{ID: "p2", WorkspaceID: "w1", Text: "failing prompt", Active: true},
		{ID: "p3", WorkspaceID: "w1", TopicID: "t1", Text: "third prompt", Active: true},
	}

	var events []Event
	sink := func(e Event) { events = append(events, e) }

	summary, err := orch.Run(context.Background(), RunOptions{WorkspaceID: "w1", NumSamples: 1}, sink)
	require.NoError(t, err)

	assert.Equal(t, 3, summary.TotalPrompts)
	assert.Equal(t, 2, summary.Processed)
	assert.Equal(t, 0, summary.Skipped)
	assert.Equal(t, 1, summary.Errors)

	// Every successful sample produced one raw result row with citations.
	assert.Len(t, factStore.results, 2)
	assert.Len(t, factStore.citations, 2)

	// Snapshots exist only for the prompts that succeeded.
	date := aggregate.Today()
	assert.NotNil(t, sqlDB.promptSnapshots["p1|"+date])
	assert.Nil(t, sqlDB.promptSnapshots["p2|"+date])
	assert.NotNil(t, sqlDB.promptSnapshots["p3|"+date])

	// The touched topic was rolled up.
	assert.NotNil(t, sqlDB.topicSnapshots["t1|"+date])

	// The stream ends with a complete event carrying the summary.
	require.NotEmpty(t, events)
	last := events[len(events)-1]
	assert.Equal(t, EventComplete, last.Type)
	require.NotNil(t, last.Summary)
	assert.Equal(t, 1, last.Summary.Errors)

	var sawError bool
	for _, e := range events {
		if e.Type == EventError && e.PromptID == "p2" {
			sawError = true
		}
	}
	assert.True(t, sawError)
}

func TestRunSkipsSameDayReruns(t *testing.T) {
	sqlDB, factStore, orch := setupRun(t)

	sqlDB.prompts = []*models.MonitoringPrompt{
		{ID: "p1", WorkspaceID: "w1", Text: "first prompt", Active: true},
	}

	first, err := orch.Run(context.Background(), RunOptions{WorkspaceID: "w1", NumSamples: 1}, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, first.Processed)

	second, err := orch.Run(context.Background(), RunOptions{WorkspaceID: "w1", NumSamples: 1}, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, second.Processed)
	assert.Equal(t, 1, second.Skipped)

	// The skip happens before any provider call, so no new rows appear.
	assert.Len(t, factStore.results, 1)

	forced, err := orch.Run(context.Background(), RunOptions{WorkspaceID: "w1", NumSamples: 1, Force: true}, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, forced.Processed)
	assert.Len(t, factStore.results, 2)
}

func TestRunUnknownWorkspace(t *testing.T) {
	_, _, orch := setupRun(t)

	var events []Event
	sink := func(e Event) { events = append(events, e) }

	_, err := orch.Run(context.Background(), RunOptions{WorkspaceID: "missing"}, sink)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "workspace not found")

	// Even a batch that cannot start ends with a complete event.
	require.Len(t, events, 2)
	assert.Equal(t, EventError, events[0].Type)
	assert.Equal(t, EventComplete, events[1].Type)
	require.NotNil(t, events[1].Summary)
	assert.Equal(t, 0, events[1].Summary.Processed)
	assert.Equal(t, 0, events[1].Summary.Errors)
}
