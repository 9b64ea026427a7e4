package segeval

import (
	"context"
	"runtime"
	"sync"

	"github.com/pkg/errors"
)

// ImagePair is ground truth and prediction of a single image
type ImagePair struct {
	Name        string
	GroundTruth LabelArray
	Prediction  LabelArray
}

// ParallelConfig holds configuration for parallel evaluation
type ParallelConfig struct {
	MaxWorkers int // Number of parallel workers (0 = runtime.NumCPU())
}

// DefaultParallelConfig returns one worker per CPU
func DefaultParallelConfig() ParallelConfig {
	return ParallelConfig{
		MaxWorkers: runtime.NumCPU(),
	}
}

type pairJob struct {
	index int
	pair  ImagePair
}

type pairResult struct {
	index int
	rows  imageRows
	err   error
}

// EvaluateAll evaluates image pairs with a pool of workers.
// Rows are appended to tables in input order. When any image fails nothing is appended
// and error of the first failed image (by input order) is returned. Cancellation of ctx is
// reported only if it kept some image from being evaluated.
func (e *Evaluator) EvaluateAll(ctx context.Context, pairs []ImagePair, config ParallelConfig, tables *Tables) error {
	if tables == nil {
		return errors.Wrap(ErrNilTables, "Can't evaluate batch")
	}
	if len(pairs) == 0 {
		return nil
	}
	if config.MaxWorkers <= 0 {
		config.MaxWorkers = runtime.NumCPU()
	}
	workers := min(config.MaxWorkers, len(pairs))

	jobs := make(chan pairJob, len(pairs))
	results := make(chan pairResult, len(pairs))

	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go e.worker(ctx, jobs, results, &wg)
	}

	go func() {
		defer close(jobs)
		for i, pair := range pairs {
			select {
			case jobs <- pairJob{index: i, pair: pair}:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	ordered := make([]pairResult, len(pairs))
	received := make([]bool, len(pairs))
	for result := range results {
		ordered[result.index] = result
		received[result.index] = true
	}
	if err := e.finishBatch(ctx, ordered, received, tables); err != nil {
		return err
	}
	e.logger.Debug("Batch evaluated", "images", len(pairs), "workers", workers, "run", tables.AP.ID)
	return nil
}

// finishBatch appends collected rows when every image has been evaluated without error
func (e *Evaluator) finishBatch(ctx context.Context, ordered []pairResult, received []bool, tables *Tables) error {
	for i, result := range ordered {
		if !received[i] {
			err := ctx.Err()
			if err == nil {
				err = context.Canceled
			}
			return errors.Wrapf(err, "Evaluation interrupted before image %d", i)
		}
		if result.err == nil {
			continue
		}
		if errors.Is(result.err, context.Canceled) || errors.Is(result.err, context.DeadlineExceeded) {
			return errors.Wrapf(result.err, "Evaluation interrupted at image %d", i)
		}
		return errors.Wrapf(result.err, "image %d", i)
	}
	for _, result := range ordered {
		tables.append(result.rows)
	}
	return nil
}

func (e *Evaluator) worker(ctx context.Context, jobs <-chan pairJob, results chan<- pairResult, wg *sync.WaitGroup) {
	defer wg.Done()
	for job := range jobs {
		if ctx.Err() != nil {
			results <- pairResult{index: job.index, err: ctx.Err()}
			continue
		}
		rows, err := e.evaluateRows(job.pair.Name, job.pair.GroundTruth, job.pair.Prediction)
		results <- pairResult{index: job.index, rows: rows, err: err}
	}
}
