// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"sync"

	"github.com/panjf2000/ants/v2"
)

// Runner drives the orchestrator over every supported file under a
// storage prefix, processing files concurrently on a worker pool. One
// bad input never aborts the batch: panics and failures are confined
// to the file that caused them.
type Runner struct {
	orch           *Orchestrator
	pool           *ants.Pool
	logger         *slog.Logger
	progressWriter io.Writer
	reportInterval int
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner) error

// WithWorkers sets the worker pool size for concurrent processing.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithWorkers(size int) RunnerOption {
	return func(r *Runner) error {
		if size < 1 {
			size = 1
		}
		if r.pool != nil {
			r.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		r.pool = pool
		return nil
	}
}

// WithProgress enables progress reporting to the given writer every
// reportInterval files.
func WithProgress(w io.Writer, reportInterval int) RunnerOption {
	return func(r *Runner) error {
		r.progressWriter = w
		r.reportInterval = reportInterval
		return nil
	}
}

// WithRunnerLogger sets a custom logger. Default is the
// orchestrator's logger.
func WithRunnerLogger(logger *slog.Logger) RunnerOption {
	return func(r *Runner) error {
		if logger == nil {
			logger = slog.Default()
		}
		r.logger = logger
		return nil
	}
}

// NewRunner creates a batch runner around an orchestrator.
func NewRunner(orch *Orchestrator, opts ...RunnerOption) (*Runner, error) {
	if orch == nil {
		return nil, ErrOrchestratorRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	r := &Runner{
		orch:   orch,
		pool:   pool,
		logger: orch.logger,
	}
	for _, opt := range opts {
		if optErr := opt(r); optErr != nil {
			r.Release()
			return nil, optErr
		}
	}
	return r, nil
}

// Release releases the worker pool. The runner should not be used
// after calling Release.
func (r *Runner) Release() {
	if r.pool != nil {
		r.pool.Release()
	}
}

// ProcessPrefix enumerates supported files under prefix and runs each
// through the orchestrator. Results are returned in enumeration
// order; a file whose processing panicked has a nil slot and is
// logged.
func (r *Runner) ProcessPrefix(ctx context.Context, prefix, collection string) ([]*Result, error) {
	files, err := r.orch.storage.ListFiles(ctx, prefix, r.orch.SupportedExtensions())
	if err != nil {
		return nil, err
	}
	r.logger.Info("starting batch", "prefix", prefix, "files", len(files))

	var meter *progressMeter
	if r.progressWriter != nil {
		meter = newProgressMeter(r.progressWriter, len(files), r.reportInterval)
	}

	results := make([]*Result, len(files))
	var wg sync.WaitGroup
	for i, file := range files {
		i, file := i, file
		wg.Add(1)
		err := r.pool.Submit(func() {
			defer wg.Done()
			defer func() {
				if rec := recover(); rec != nil {
					r.logger.Error("panic while processing file",
						"source", file,
						"panic", fmt.Sprint(rec))
				}
				if meter != nil {
					meter.mark()
				}
			}()
			results[i] = r.orch.ProcessFile(ctx, file, collection)
		})
		if err != nil {
			wg.Done()
			r.logger.Error("failed to submit file to pool", "source", file, "err", err)
		}
	}
	wg.Wait()

	if meter != nil {
		meter.finish()
	}

	stats := r.orch.Stats()
	r.logger.Info("batch finished",
		"prefix", prefix,
		"processed", stats.FilesProcessed,
		"succeeded", stats.FilesSuccess,
		"rejected", stats.FilesRejected,
		"errored", stats.FilesError,
		"chunks", stats.TotalChunks)
	return results, nil
}
