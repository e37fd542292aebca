package worker

import (
	"context"
	"fmt"

	"github.com/ppiankov/commitmood/internal/model"
)

// CommitProcessor highlights a single commit
type CommitProcessor interface {
	Process(ctx context.Context, commit model.Commit) (*model.HighlightedCommit, error)
}

// CommitJob processes one commit at a known input position
type CommitJob struct {
	Index     int
	Commit    model.Commit
	Processor CommitProcessor
}

// Execute executes the commit job
func (j *CommitJob) Execute(ctx context.Context) Result {
	if err := ctx.Err(); err != nil {
		return &CommitResult{Index: j.Index, Commit: j.Commit, Error: err}
	}

	highlighted, err := j.Processor.Process(ctx, j.Commit)
	if err != nil {
		return &CommitResult{
			Index:  j.Index,
			Commit: j.Commit,
			Error:  fmt.Errorf("commit %s: %w", j.Commit.ShortSHA(), err),
		}
	}
	return &CommitResult{
		Index:       j.Index,
		Commit:      j.Commit,
		Highlighted: highlighted,
	}
}

// CommitResult is the outcome of one CommitJob
type CommitResult struct {
	Index       int
	Commit      model.Commit
	Highlighted *model.HighlightedCommit
	Error       error
}

// GetError returns the error from the commit result
func (r *CommitResult) GetError() error {
	return r.Error
}

// BatchProcessor processes many commits concurrently
type BatchProcessor struct {
	processor   CommitProcessor
	concurrency int
}

// NewBatchProcessor creates a new batch processor
func NewBatchProcessor(processor CommitProcessor, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		processor:   processor,
		concurrency: concurrency,
	}
}

// ProcessCommits processes commits concurrently and returns one result per
// commit, in input order. Commits not started before ctx is cancelled carry
// the context error.
func (b *BatchProcessor) ProcessCommits(ctx context.Context, commits []model.Commit) []*CommitResult {
	if len(commits) == 0 {
		return []*CommitResult{}
	}

	pool := NewPool(ctx, b.concurrency)
	pool.Start()

	out := make([]*CommitResult, len(commits))
	for i, commit := range commits {
		job := &CommitJob{Index: i, Commit: commit, Processor: b.processor}
		if err := pool.Submit(job); err != nil {
			out[i] = &CommitResult{Index: i, Commit: commit, Error: err}
		}
	}

	for _, result := range pool.Wait() {
		res := result.(*CommitResult)
		out[res.Index] = res
	}

	for i, res := range out {
		if res == nil {
			err := ctx.Err()
			if err == nil {
				err = context.Canceled
			}
			out[i] = &CommitResult{Index: i, Commit: commits[i], Error: err}
		}
	}

	return out
}

// Successful returns the highlighted commits of results without errors, keeping order
func Successful(results []*CommitResult) []model.HighlightedCommit {
	var out []model.HighlightedCommit
	for _, res := range results {
		if res.Error == nil && res.Highlighted != nil {
			out = append(out, *res.Highlighted)
		}
	}
	return out
}
