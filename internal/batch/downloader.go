package batch

import (
	"context"
	"errors"
	"fmt"
	"swgoh-tracker/internal/api"
	"swgoh-tracker/internal/constants"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// FetchFunc fetches the records for one batch of identifiers. Returning an
// *api.APIError marks the batch as retryable; any other error aborts the run.
type FetchFunc[T any] func(ctx context.Context, ids []int) ([]T, error)

// BatchError is returned when the error budget is spent while identifiers
// are still unresolved. No partial results accompany it.
type BatchError struct {
	Errors    int
	Remaining int
	Last      error
}

func (e *BatchError) Error() string {
	return fmt.Sprintf("batch download aborted after %d errors with %d identifiers unresolved: %v", e.Errors, e.Remaining, e.Last)
}

func (e *BatchError) Unwrap() error { return e.Last }

// ErrMissingRecords marks a batch that succeeded without a record for every
// identifier it asked for.
var ErrMissingRecords = errors.New("upstream omitted requested records")

func IsBatchError(err error) bool {
	var batchErr *BatchError
	return errors.As(err, &batchErr)
}

type Options struct {
	InitialBatchSize int
	MaxWorkers       int
	MaxErrors        int
}

func DefaultOptions() Options {
	return Options{
		InitialBatchSize: constants.InitialBatchSize,
		MaxWorkers:       constants.MaxWorkerCount,
		MaxErrors:        constants.MaxErrorCount,
	}
}

// Stats describes one Download call.
type Stats struct {
	Attempts   int
	Errors     int
	Workers    int
	BatchSizes []int // size in effect at each submission, in order
}

type Downloader[T any] struct {
	fetch  FetchFunc[T]
	key    func(T) int
	opts   Options
	logger zerolog.Logger
}

// NewDownloader builds a downloader. key extracts the identifier a record
// answers for, so results can be matched regardless of arrival order.
func NewDownloader[T any](fetch FetchFunc[T], key func(T) int, opts Options, logger zerolog.Logger) *Downloader[T] {
	def := DefaultOptions()
	if opts.InitialBatchSize <= 0 {
		opts.InitialBatchSize = def.InitialBatchSize
	}
	if opts.MaxWorkers <= 0 {
		opts.MaxWorkers = def.MaxWorkers
	}
	if opts.MaxErrors < 0 {
		opts.MaxErrors = def.MaxErrors
	}
	return &Downloader[T]{fetch: fetch, key: key, opts: opts, logger: logger}
}

type unitResult[T any] struct {
	ids     []int
	records []T
	err     error
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}

// Download fetches a record for every distinct identifier in ids. Results
// arrive in completion order. Identifiers a successful batch omits are
// re-queued and charged against the error budget like a failed batch.
func (d *Downloader[T]) Download(ctx context.Context, ids []int) ([]T, Stats, error) {
	var stats Stats

	unique := make([]int, 0, len(ids))
	pending := make(map[int]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := pending[id]; dup {
			continue
		}
		pending[id] = struct{}{}
		unique = append(unique, id)
	}
	if len(unique) == 0 {
		return nil, stats, nil
	}

	total := len(unique)
	batchSize := min(d.opts.InitialBatchSize, ceilDiv(total, d.opts.MaxWorkers))
	workers := min(d.opts.MaxWorkers, ceilDiv(total, batchSize))
	stats.Workers = workers

	q := newQueue(unique)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	// at most `workers` units are ever in flight, so sends never block
	results := make(chan unitResult[T], workers)
	var g errgroup.Group
	g.SetLimit(workers)

	inFlight := 0
	submit := func() {
		batch := q.pop(batchSize)
		if len(batch) == 0 {
			return
		}
		inFlight++
		stats.Attempts++
		stats.BatchSizes = append(stats.BatchSizes, batchSize)
		g.Go(func() error {
			records, err := d.fetch(runCtx, batch)
			results <- unitResult[T]{ids: batch, records: records, err: err}
			return nil
		})
	}
	abort := func(err error) ([]T, Stats, error) {
		cancel()
		_ = g.Wait()
		return nil, stats, err
	}

	for i := 0; i < workers; i++ {
		submit()
	}

	byID := make(map[int]T, total)
	out := make([]T, 0, total)
	var lastErr error

	for len(pending) > 0 {
		if err := ctx.Err(); err != nil {
			return abort(err)
		}

		var res unitResult[T]
		select {
		case res = <-results:
		case <-ctx.Done():
			return abort(ctx.Err())
		}
		inFlight--

		retry := res.ids
		if res.err != nil {
			if !api.IsAPIError(res.err) {
				return abort(res.err)
			}
			lastErr = res.err
		} else {
			for _, rec := range res.records {
				id := d.key(rec)
				if _, ok := byID[id]; ok {
					continue
				}
				if _, requested := pending[id]; !requested {
					continue
				}
				byID[id] = rec
				out = append(out, rec)
				delete(pending, id)
			}
			retry = nil
			for _, id := range res.ids {
				if _, ok := pending[id]; ok {
					retry = append(retry, id)
				}
			}
			if len(retry) > 0 {
				lastErr = fmt.Errorf("%w: %d of %d", ErrMissingRecords, len(retry), len(res.ids))
			}
		}

		if len(retry) > 0 {
			stats.Errors++
			q.push(retry...)
			batchSize = max(1, ceilDiv(batchSize, 2))
			d.logger.Warn().
				Err(lastErr).
				Int("batch", len(res.ids)).
				Int("requeued", len(retry)).
				Int("next_batch_size", batchSize).
				Int("errors", stats.Errors).
				Msg("batch incomplete, re-queueing")
		}

		if q.len() > 0 {
			if stats.Errors > d.opts.MaxErrors {
				return abort(&BatchError{Errors: stats.Errors, Remaining: len(pending), Last: lastErr})
			}
			submit()
		}

		if inFlight == 0 && len(pending) > 0 {
			// unreachable while every queued id is in exactly one place
			return abort(fmt.Errorf("batch download stalled with %d identifiers unresolved", len(pending)))
		}
	}

	_ = g.Wait()
	d.logger.Debug().
		Int("requested", total).
		Int("received", len(out)).
		Int("attempts", stats.Attempts).
		Int("errors", stats.Errors).
		Msg("batch download complete")
	return out, stats, nil
}
