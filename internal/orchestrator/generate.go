package orchestrator

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/brandlens/brandlens/internal/db"
	"github.com/brandlens/brandlens/internal/llm"
	"github.com/brandlens/brandlens/internal/logger"
	"github.com/brandlens/brandlens/internal/models"
)

// Generation job statuses
const (
	JobPending   = "pending"
	JobRunning   = "running"
	JobCompleted = "completed"
	JobFailed    = "failed"
	JobCancelled = "cancelled"
)

// GenerateJob tracks one background prompt-generation task. Generation runs
// as an explicit observable job with a pollable status instead of a detached
// goroutine, so a failure is never silently swallowed.
type GenerateJob struct {
	ID          string    `json:"id"`
	WorkspaceID string    `json:"workspace_id"`
	TopicID     string    `json:"topic_id,omitempty"`
	Status      string    `json:"status"`
	PromptIDs   []string  `json:"prompt_ids,omitempty"`
	Error       string    `json:"error,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	cancel context.CancelFunc
}

// Generator creates candidate monitoring prompts for a workspace with an LLM
type Generator struct {
	sqlDB    db.SQLDatabase
	registry *llm.Registry

	mu   sync.RWMutex
	jobs map[string]*GenerateJob
}

// NewGenerator creates a prompt generator
func NewGenerator(sqlDB db.SQLDatabase, registry *llm.Registry) *Generator {
	return &Generator{
		sqlDB:    sqlDB,
		registry: registry,
		jobs:     make(map[string]*GenerateJob),
	}
}

// Start launches a generation job for the workspace and returns immediately
// with the pollable job. count caps how many prompts are requested.
func (g *Generator) Start(workspaceID, topicID, providerName string, count int) (*GenerateJob, error) {
	if count <= 0 || count > 50 {
		return nil, fmt.Errorf("prompt count must be between 1 and 50")
	}

	provider, ok := g.registry.Get(providerName)
	if !ok {
		return nil, fmt.Errorf("provider not registered: %s", providerName)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)

	job := &GenerateJob{
		ID:          uuid.New().String(),
		WorkspaceID: workspaceID,
		TopicID:     topicID,
		Status:      JobPending,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
		cancel:      cancel,
	}

	g.mu.Lock()
	g.jobs[job.ID] = job
	snap := job.snapshot()
	g.mu.Unlock()

	go g.run(ctx, job, provider, count)

	return snap, nil
}

// Get returns a point-in-time copy of a job. The copy is safe to read and
// marshal while the job keeps running; only the generator mutates the
// stored job.
func (g *Generator) Get(jobID string) (*GenerateJob, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	job, ok := g.jobs[jobID]
	if !ok {
		return nil, false
	}
	return job.snapshot(), true
}

// snapshot copies the job's visible state. The caller must hold g.mu.
func (j *GenerateJob) snapshot() *GenerateJob {
	c := *j
	c.cancel = nil
	c.PromptIDs = append([]string(nil), j.PromptIDs...)
	return &c
}

// Cancel requests best-effort cancellation of a running job
func (g *Generator) Cancel(jobID string) bool {
	g.mu.RLock()
	job, ok := g.jobs[jobID]
	g.mu.RUnlock()
	if !ok || job.cancel == nil {
		return false
	}
	job.cancel()
	return true
}

func (g *Generator) run(ctx context.Context, job *GenerateJob, provider llm.Provider, count int) {
	defer job.cancel()

	g.setStatus(job, JobRunning, "")

	workspace, err := g.sqlDB.GetWorkspace(ctx, job.WorkspaceID)
	if err != nil || workspace == nil {
		g.setStatus(job, JobFailed, fmt.Sprintf("workspace not found: %v", err))
		return
	}

	existing, err := g.sqlDB.GetActivePrompts(ctx, workspace.ID, "")
	if err != nil {
		g.setStatus(job, JobFailed, err.Error())
		return
	}
	existingTexts := make([]string, 0, len(existing))
	for _, p := range existing {
		existingTexts = append(existingTexts, p.Text)
	}

	text, err := provider.Send(ctx, generationPrompt(workspace, existingTexts, count), "", llm.Params{MaxTokens: 2000})
	if err != nil {
		if ctx.Err() != nil {
			g.setStatus(job, JobCancelled, "")
			return
		}
		g.setStatus(job, JobFailed, err.Error())
		return
	}

	prompts := parseGeneratedPrompts(text)
	if len(prompts) == 0 {
		g.setStatus(job, JobFailed, "no valid prompts were generated")
		return
	}
	if len(prompts) > count {
		prompts = prompts[:count]
	}

	var created []string
	for _, promptText := range prompts {
		prompt := &models.MonitoringPrompt{
			ID:          uuid.New().String(),
			WorkspaceID: workspace.ID,
			TopicID:     job.TopicID,
			RegionID:    workspace.RegionID,
			Text:        promptText,
			Source:      "ai_generated",
			Active:      true,
			CreatedAt:   time.Now(),
			UpdatedAt:   time.Now(),
		}
		if err := g.sqlDB.CreatePrompt(ctx, prompt); err != nil {
			logger.Error("Failed to store generated prompt for workspace %s: %v", workspace.ID, err)
			continue
		}
		created = append(created, prompt.ID)
	}

	g.mu.Lock()
	job.PromptIDs = created
	g.mu.Unlock()

	g.setStatus(job, JobCompleted, "")
	logger.Info("Generated %d prompts for workspace %s", len(created), workspace.ID)
}

func (g *Generator) setStatus(job *GenerateJob, status, errMsg string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	job.Status = status
	job.Error = errMsg
	job.UpdatedAt = time.Now()
}

// generationPrompt builds the instruction asking an LLM for realistic
// customer questions around the workspace's market. Unlike the measurement
// system prompt this one does name the brand: generation needs the context,
// and generated prompts themselves are still reviewed before activation.
func generationPrompt(workspace *models.Workspace, existing []string, count int) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Generate %d distinct questions a potential customer might ask an AI assistant "+
		"when researching products or services in the market of %q.", count, workspace.BrandName)
	if workspace.BrandDescription != "" {
		fmt.Fprintf(&b, " Market context: %s.", workspace.BrandDescription)
	}
	b.WriteString(" The questions must not name any specific company or brand.")
	b.WriteString(" Return one question per line, numbered.")

	if len(existing) > 0 {
		b.WriteString("\n\nDo not repeat these existing questions:\n")
		for _, e := range existing {
			b.WriteString("- " + e + "\n")
		}
	}

	return b.String()
}

// parseGeneratedPrompts splits an LLM answer into one prompt per line,
// stripping list numbering
func parseGeneratedPrompts(text string) []string {
	var prompts []string

	for _, line := range strings.Split(strings.TrimSpace(text), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if len(line) > 2 && (line[1] == '.' || line[1] == ')') && line[0] >= '0' && line[0] <= '9' {
			line = strings.TrimSpace(line[2:])
		}
		line = strings.TrimPrefix(line, "- ")

		if line != "" {
			prompts = append(prompts, line)
		}
	}

	return prompts
}
