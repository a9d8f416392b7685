package scheduler

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/brandlens/brandlens/internal/llm"
	"github.com/brandlens/brandlens/internal/models"
	"github.com/brandlens/brandlens/internal/orchestrator"
	"github.com/brandlens/brandlens/internal/shared"
)

// fakeSQLDB serves a fixed workspace list and can fail single lookups
type fakeSQLDB struct {
	workspaces      []*models.Workspace
	prompts         map[string][]*models.MonitoringPrompt
	lookupErrs      map[string]error
	promptSnapshots map[string]*models.PromptKPISnapshot
	topicSnapshots  map[string]*models.TopicKPISnapshot
}

func newFakeSQLDB() *fakeSQLDB {
	return &fakeSQLDB{
		prompts:         make(map[string][]*models.MonitoringPrompt),
		lookupErrs:      make(map[string]error),
		promptSnapshots: make(map[string]*models.PromptKPISnapshot),
		topicSnapshots:  make(map[string]*models.TopicKPISnapshot),
	}
}

func (f *fakeSQLDB) Connect(ctx context.Context) error    { return nil }
func (f *fakeSQLDB) Disconnect(ctx context.Context) error { return nil }
func (f *fakeSQLDB) Ping(ctx context.Context) error       { return nil }

func (f *fakeSQLDB) CreateWorkspace(ctx context.Context, w *models.Workspace) error {
	f.workspaces = append(f.workspaces, w)
	return nil
}

func (f *fakeSQLDB) GetWorkspace(ctx context.Context, id string) (*models.Workspace, error) {
	if err := f.lookupErrs[id]; err != nil {
		return nil, err
	}
	for _, w := range f.workspaces {
		if w.ID == id {
			return w, nil
		}
	}
	return nil, nil
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
	f.prompts[p.WorkspaceID] = append(f.prompts[p.WorkspaceID], p)
	return nil
}

func (f *fakeSQLDB) GetPrompt(ctx context.Context, id string) (*models.MonitoringPrompt, error) {
	return nil, nil
}

func (f *fakeSQLDB) GetActivePrompts(ctx context.Context, workspaceID, regionID string) ([]*models.MonitoringPrompt, error) {
	return f.prompts[workspaceID], nil
}

func (f *fakeSQLDB) GetTopicPrompts(ctx context.Context, topicID string) ([]*models.MonitoringPrompt, error) {
	return nil, nil
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

type echoProvider struct{}

func (echoProvider) Name() string  { return "echo" }
func (echoProvider) Model() string { return "echo-model" }

func (echoProvider) Send(ctx context.Context, prompt, systemPrompt string, params llm.Params) (string, error) {
	return "Acme is a great option here.", nil
}

func TestRunAllContinuesPastFailingWorkspace(t *testing.T) {
	sqlDB := newFakeSQLDB()
	sqlDB.workspaces = []*models.Workspace{
		{ID: "w-bad", BrandName: "Bad", Providers: []string{"echo"}, Active: true},
		{ID: "w-good", BrandName: "Acme", Providers: []string{"echo"}, Active: true},
	}
	sqlDB.prompts["w-good"] = []*models.MonitoringPrompt{
		{ID: "p1", WorkspaceID: "w-good", Text: "best accounting tool?", Active: true},
	}
	// The first workspace fails outright before any prompt is measured.
	sqlDB.lookupErrs["w-bad"] = errors.New("disk failure")

	factStore := &fakeFactStore{}
	registry := llm.NewRegistry()
	registry.Register(echoProvider{})

	orch := orchestrator.New(sqlDB, factStore, registry, nil)
	sched := New(sqlDB, orch, "0 6 * * *")
	// Inter-workspace pacing is irrelevant to this invariant.
	sched.limiter.SetLimit(rate.Inf)

	err := sched.RunAll(context.Background())
	require.NoError(t, err)

	// The healthy workspace was still measured: 3 default samples stored
	// and its daily snapshot written.
	assert.Len(t, factStore.results, 3)
	assert.Len(t, sqlDB.promptSnapshots, 1)
}

func TestStartRejectsSecondStart(t *testing.T) {
	sched := New(newFakeSQLDB(), nil, "0 6 * * *")

	require.NoError(t, sched.Start(context.Background()))
	defer sched.Stop()

	assert.Error(t, sched.Start(context.Background()))
}

func TestStartRejectsInvalidCronExpression(t *testing.T) {
	sched := New(newFakeSQLDB(), nil, "not a schedule")

	assert.Error(t, sched.Start(context.Background()))
}
