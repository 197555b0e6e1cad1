package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/quantmind-br/smashy/internal/domain"
	"github.com/quantmind-br/smashy/internal/utils"
	"github.com/schollz/progressbar/v3"
	"golang.org/x/sync/errgroup"
)

// ProcessFunc turns one candidate into its document entry
type ProcessFunc func(ctx context.Context, file domain.CandidateFile) (*domain.ProcessedFile, error)

// Options contains options for creating a pipeline
type Options struct {
	Logger *utils.Logger
	// TaskTimeout bounds each task; 0 disables the bound
	TaskTimeout time.Duration
	// ProgressOutput receives a progress bar when non-nil
	ProgressOutput io.Writer
}

// Result is the outcome of one run
type Result struct {
	// Files holds the surviving entries in candidate order
	Files []domain.ProcessedFile
	// Dropped counts the candidates that produced no entry
	Dropped int
}

// Pipeline runs one task per candidate concurrently and reassembles the
// results in candidate order.
type Pipeline struct {
	logger         *utils.Logger
	taskTimeout    time.Duration
	progressOutput io.Writer
}

// New creates a new pipeline
func New(opts Options) *Pipeline {
	logger := opts.Logger
	if logger == nil {
		logger = utils.NewNopLogger()
	}
	return &Pipeline{
		logger:         logger,
		taskTimeout:    opts.TaskTimeout,
		progressOutput: opts.ProgressOutput,
	}
}

type taskResult struct {
	file *domain.ProcessedFile
	err  error
}

// Run processes every candidate and returns the ordered results.
//
// Tasks are independent: a failing, panicking or timed out task is logged
// and dropped while the others proceed. Run returns only after every task
// has finished or been abandoned.
func (p *Pipeline) Run(ctx context.Context, candidates []domain.CandidateFile, fn ProcessFunc) Result {
	if len(candidates) == 0 {
		return Result{}
	}

	var bar *progressbar.ProgressBar
	if p.progressOutput != nil {
		bar = utils.NewProgressBarWriter(p.progressOutput, len(candidates), utils.DescProcessing)
		defer func() { _ = bar.Finish() }()
	}

	slots := make([]*domain.ProcessedFile, len(candidates))

	var g errgroup.Group
	for i, candidate := range candidates {
		g.Go(func() error {
			file, err := p.runTask(ctx, candidate, fn)
			if err != nil {
				p.logger.Warn().
					Err(err).
					Str("file", candidate.RelPath).
					Msg("Dropped file")
			} else {
				slots[i] = file
			}
			if bar != nil {
				_ = bar.Add(1)
			}
			return nil
		})
	}
	_ = g.Wait()

	result := Result{Files: make([]domain.ProcessedFile, 0, len(candidates))}
	for _, file := range slots {
		if file == nil {
			result.Dropped++
			continue
		}
		result.Files = append(result.Files, *file)
	}

	p.logger.Debug().
		Int("files", len(result.Files)).
		Int("dropped", result.Dropped).
		Msg("Pipeline finished")

	return result
}

// runTask runs fn under the task timeout. A task still running when its
// context ends is abandoned.
func (p *Pipeline) runTask(ctx context.Context, file domain.CandidateFile, fn ProcessFunc) (*domain.ProcessedFile, error) {
	if p.taskTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.taskTimeout)
		defer cancel()
	}

	done := make(chan taskResult, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- taskResult{err: domain.NewTransformError(file.RelPath, "", fmt.Errorf("panic: %v", r))}
			}
		}()
		pf, err := fn(ctx, file)
		if err == nil && pf == nil {
			err = domain.NewTransformError(file.RelPath, "", errors.New("no result"))
		}
		done <- taskResult{file: pf, err: err}
	}()

	select {
	case r := <-done:
		if errors.Is(r.err, context.DeadlineExceeded) {
			return nil, domain.NewTransformError(file.RelPath, "", domain.ErrTimeout)
		}
		return r.file, r.err
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, domain.NewTransformError(file.RelPath, "", domain.ErrTimeout)
		}
		return nil, ctx.Err()
	}
}
