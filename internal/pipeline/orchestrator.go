// Package pipeline schedules the background analysis and extraction tasks
// that run after a resume upload. The two tasks are independent: analysis
// scores the raw text and only ever writes the original score; extraction
// produces the structured resume and alone decides the terminal status.
package pipeline

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	"github.com/jonathan/resume-studio/internal/analysis"
	"github.com/jonathan/resume-studio/internal/extraction"
	"github.com/jonathan/resume-studio/internal/scoring"
	"github.com/jonathan/resume-studio/internal/types"
)

// ResumeStore is the persistence surface the orchestrator writes through.
// Implemented by internal/db; tests substitute an in-memory store.
type ResumeStore interface {
	// UpdateOriginalScore persists the raw-text score. It must not touch
	// status or any other column.
	UpdateOriginalScore(ctx context.Context, resumeID uuid.UUID, score *types.ScoreObject) error

	// UpdateExtractionResult persists the structured resume, its current
	// score, the model that produced it, and the terminal status, in one
	// write.
	UpdateExtractionResult(ctx context.Context, resumeID uuid.UUID, resume *types.StructuredResume, score *types.ScoreObject, model, status string) error

	// UpdateStatus transitions the record's status only.
	UpdateStatus(ctx context.Context, resumeID uuid.UUID, status string) error
}

// Account carries the uploader's identity, used to seed the safe-default
// resume when extraction fails outright.
type Account struct {
	Name  string
	Email string
}

// Options tunes the orchestrator's concurrency and per-task deadlines.
type Options struct {
	// MaxConcurrentTasks bounds how many background tasks run at once
	// across all uploads. Zero means DefaultMaxConcurrentTasks.
	MaxConcurrentTasks int64
	// TaskTimeout bounds a single background task, covering both model
	// tiers. Zero means DefaultTaskTimeout.
	TaskTimeout time.Duration
}

const (
	DefaultMaxConcurrentTasks = 8
	DefaultTaskTimeout        = 3 * time.Minute
)

// Orchestrator runs the post-upload tasks. HTTP handlers return as soon as
// the tasks are scheduled; Wait exists so tests and shutdown can drain them.
type Orchestrator struct {
	store      ResumeStore
	analysis   *analysis.Service
	extraction *extraction.Service

	sem     *semaphore.Weighted
	timeout time.Duration
	wg      sync.WaitGroup
}

// New creates an orchestrator over the given store and services.
func New(store ResumeStore, analysisSvc *analysis.Service, extractionSvc *extraction.Service, opts Options) *Orchestrator {
	if opts.MaxConcurrentTasks <= 0 {
		opts.MaxConcurrentTasks = DefaultMaxConcurrentTasks
	}
	if opts.TaskTimeout <= 0 {
		opts.TaskTimeout = DefaultTaskTimeout
	}
	return &Orchestrator{
		store:      store,
		analysis:   analysisSvc,
		extraction: extractionSvc,
		sem:        semaphore.NewWeighted(opts.MaxConcurrentTasks),
		timeout:    opts.TaskTimeout,
	}
}

// ProcessUpload schedules both background tasks for a freshly uploaded
// resume: analysis of the raw text and extraction into structured data. It
// returns immediately.
func (o *Orchestrator) ProcessUpload(resumeID uuid.UUID, rawText string, account Account) {
	o.spawn(func(ctx context.Context) {
		o.runAnalysis(ctx, resumeID, rawText)
	})
	o.spawn(func(ctx context.Context) {
		o.runExtraction(ctx, resumeID, rawText, account)
	})
}

// Regenerate schedules a fresh extraction over the stored raw text. The
// caller is expected to have already reset status to generating.
func (o *Orchestrator) Regenerate(resumeID uuid.UUID, rawText string, account Account) {
	o.spawn(func(ctx context.Context) {
		o.runExtraction(ctx, resumeID, rawText, account)
	})
}

// Wait blocks until every scheduled task has finished.
func (o *Orchestrator) Wait() {
	o.wg.Wait()
}

// spawn runs fn on its own goroutine under the concurrency bound. Tasks get
// a background context with the task timeout: they must outlive the HTTP
// request that scheduled them.
func (o *Orchestrator) spawn(fn func(ctx context.Context)) {
	o.wg.Add(1)
	go func() {
		defer o.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), o.timeout)
		defer cancel()

		if err := o.sem.Acquire(ctx, 1); err != nil {
			log.Printf("[pipeline] task skipped, queue wait exceeded deadline: %v", err)
			return
		}
		defer o.sem.Release(1)

		fn(ctx)
	}()
}

// runAnalysis scores the raw text and stores the result as the original
// score. Analyze never fails, and this task never writes status.
func (o *Orchestrator) runAnalysis(ctx context.Context, resumeID uuid.UUID, rawText string) {
	score := o.analysis.Analyze(ctx, rawText)
	if err := o.store.UpdateOriginalScore(ctx, resumeID, score); err != nil {
		log.Printf("[pipeline] failed to store original score for %s: %v", resumeID, err)
	}
}

// runExtraction converts the raw text into structured data and performs the
// terminal status transition. A failed extraction degrades to the
// safe-default resume with status analyzed so the user can edit manually;
// the record never ends up failed because of a model error.
func (o *Orchestrator) runExtraction(ctx context.Context, resumeID uuid.UUID, rawText string, account Account) {
	result := o.extraction.Extract(ctx, rawText)

	if !result.Success {
		log.Printf("[pipeline] extraction failed for %s, storing safe default: %v", resumeID, result.Err)
		o.storeSafeDefault(ctx, resumeID, account)
		return
	}

	if err := o.store.UpdateExtractionResult(ctx, resumeID, result.Resume, result.Score, result.Model, types.StatusCompleted); err != nil {
		// The extraction succeeded but the write did not. Fall back to the
		// safe default so the record still reaches a terminal status instead
		// of sitting in analyzing/generating forever.
		log.Printf("[pipeline] failed to store extraction result for %s, storing safe default: %v", resumeID, err)
		o.storeSafeDefault(ctx, resumeID, account)
	}
}

// storeSafeDefault writes the editable fallback resume with status analyzed.
// If even this write fails the record keeps its last good status; there is
// nothing further to try.
func (o *Orchestrator) storeSafeDefault(ctx context.Context, resumeID uuid.UUID, account Account) {
	resume, score := SafeDefault(account)
	if err := o.store.UpdateExtractionResult(ctx, resumeID, resume, score, "", types.StatusAnalyzed); err != nil {
		log.Printf("[pipeline] failed to store safe default for %s: %v", resumeID, err)
	}
}

// SafeDefault builds the editable fallback resume stored when extraction
// fails on both model tiers. Identity comes from the account, never from a
// guess at the document contents.
func SafeDefault(account Account) (*types.StructuredResume, *types.ScoreObject) {
	resume := types.EmptyResume()
	resume.PersonalInfo.FullName = account.Name
	resume.PersonalInfo.Email = account.Email
	resume.Summary = "Professional with experience in their field. Please edit this summary to highlight your key achievements and skills."

	score := &types.ScoreObject{
		Overall:             50,
		KeywordOptimization: 50,
		Formatting:          50,
		Structure:           50,
		Improvements:        []string{"AI generation encountered an issue. You can manually edit your resume."},
	}
	scoring.ClampScore(score)
	return resume, score
}
