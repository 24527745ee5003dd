package ingest

import (
	"context"
	"errors"
	"runtime"
	"sync"

	"osusume/internal/domain/media"
)

// Result is the outcome of one load pass. Items and Skipped together account
// for every enumerated document; Items keep enumeration order.
type Result struct {
	Items   []media.Item
	Skipped []media.Diagnostic
}

func (r Result) Total() int {
	return len(r.Items) + len(r.Skipped)
}

type options struct {
	workers int
}

type Option func(*options)

// WithWorkers bounds the number of concurrent reads. n <= 0 means GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(o *options) { o.workers = n }
}

type outcome struct {
	item media.Item
	diag *media.Diagnostic
}

// Ingest reads every document src enumerates, parses and validates it, and
// returns the accepted items plus a diagnostic per skipped document. Only an
// enumeration failure or ctx cancellation fails the pass as a whole.
func Ingest(ctx context.Context, src Source, opts ...Option) (Result, error) {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.workers <= 0 {
		o.workers = runtime.GOMAXPROCS(0)
	}

	ids, err := src.Enumerate(ctx)
	if err != nil {
		return Result{}, err
	}

	slots := make([]outcome, len(ids))
	jobs := make(chan int)

	workers := min(o.workers, len(ids))
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				slots[idx] = ingestOne(ctx, src, ids[idx])
			}
		}()
	}

feed:
	for i := range ids {
		select {
		case <-ctx.Done():
			break feed
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	var res Result
	for _, oc := range slots {
		if oc.diag != nil {
			res.Skipped = append(res.Skipped, *oc.diag)
			continue
		}
		res.Items = append(res.Items, oc.item)
	}
	return res, nil
}

func ingestOne(ctx context.Context, src Source, id string) outcome {
	raw, err := src.Read(ctx, id)
	if err != nil {
		return outcome{diag: &media.Diagnostic{
			ID:     id,
			Kind:   media.DiagnosticRead,
			Reason: err.Error(),
		}}
	}

	item, err := BuildItem(Document{ID: id, Text: raw})
	if err != nil {
		kind := media.DiagnosticInvalid
		if errors.Is(err, ErrMalformedFrontMatter) {
			kind = media.DiagnosticMalformed
		}
		return outcome{diag: &media.Diagnostic{
			ID:     id,
			Kind:   kind,
			Reason: err.Error(),
		}}
	}
	return outcome{item: item}
}
