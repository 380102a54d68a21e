package logpool

import (
	"context"
	"sort"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Aleph-Alpha/logpool/pkg/emitter"
)

// Finish flushes and closes the emitter of every logger, root included, and
// waits until all of them have settled. Closes run concurrently; a failing or
// hung emitter does not keep the others from closing. Emitters sharing a
// transport close it once and wait on the same completion signal.
//
// When ctx has no deadline the wait is bounded by PoolConfig.FinishTimeout.
// Loggers that have not settled by then are reported with the context error.
//
// The returned error is nil or a *ShutdownError naming the failed categories.
// Finish is idempotent: later calls return the result of the first one.
func (f *Factory) Finish(ctx context.Context) error {
	f.finishOnce.Do(func() {
		f.finishErr = f.finish(ctx)
	})
	return f.finishErr
}

// Finished reports whether Finish has been called.
func (f *Factory) Finished() bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.finished
}

func (f *Factory) finish(ctx context.Context) error {
	start := time.Now()

	f.mu.Lock()
	f.finished = true
	loggers := make([]*Logger, 0, len(f.loggers))
	for _, l := range f.loggers {
		loggers = append(loggers, l)
	}
	f.mu.Unlock()

	sort.Slice(loggers, func(i, j int) bool {
		return loggers[i].category < loggers[j].category
	})

	if _, ok := ctx.Deadline(); !ok && f.finishTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.finishTimeout)
		defer cancel()
	}

	results := make([]error, len(loggers))
	var g errgroup.Group
	for i, l := range loggers {
		g.Go(func() error {
			results[i] = settle(ctx, l.emitter)
			return nil
		})
	}
	_ = g.Wait()

	var failures []CloseFailure
	for i, err := range results {
		if err == nil {
			continue
		}
		category := loggers[i].category
		failures = append(failures, CloseFailure{Category: category, Err: err})
		f.metrics.closeFailed(category)
		f.diagnostics.Warn("logger failed to close",
			zap.String("category", displayCategory(category)),
			zap.Error(err),
		)
	}

	f.metrics.finished(start)
	f.diagnostics.Debug("logpool factory finished",
		zap.Int("loggers", len(loggers)),
		zap.Int("failures", len(failures)),
		zap.Duration("duration", time.Since(start)),
	)

	if len(failures) > 0 {
		return &ShutdownError{Failures: failures}
	}
	return nil
}

// settle flushes then closes e. It returns when e is done or ctx expires,
// whichever comes first, so an emitter that ignores ctx cannot stall Finish.
func settle(ctx context.Context, e emitter.Emitter) error {
	done := make(chan error, 1)
	go func() {
		done <- multierr.Append(e.Flush(), e.Close(ctx))
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
