package annotate

import (
	"context"
	"runtime"
	"sync"

	"github.com/inodb/varanno/internal/vcf"
)

// WorkItem holds a parsed record ready for annotation.
// Err is set instead of Record when the line itself could not be read.
type WorkItem struct {
	Seq    int
	Record *vcf.Record
	Err    error
}

// WorkResult holds the annotation output for a single record.
type WorkResult struct {
	Seq    int
	Record *vcf.Record
	Row    *AnnotatedVariant
	Origin FrequencyOrigin
	Err    error
}

// ParallelAnnotate annotates work items using a pool of workers.
// Results are sent to the returned channel in arrival order (not sequence order).
// Use OrderedCollect to consume results in sequence-number order.
// If workers is 0, runtime.NumCPU() is used.
func (a *Annotator) ParallelAnnotate(ctx context.Context, items <-chan WorkItem, workers int) <-chan WorkResult {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	results := make(chan WorkResult, 2*workers)

	var wg sync.WaitGroup
	wg.Add(workers)

	for range workers {
		go func() {
			defer wg.Done()
			for item := range items {
				r := WorkResult{Seq: item.Seq, Record: item.Record, Err: item.Err}
				switch {
				case r.Err != nil:
				case ctx.Err() != nil:
					r.Err = ctx.Err()
				default:
					r.Row, r.Origin, r.Err = a.annotate(ctx, item.Record)
				}
				results <- r
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	return results
}

// OrderedCollect calls fn for each result in sequence-number order.
// It buffers out-of-order results in a pending map and emits them
// as soon as the next expected sequence number is available.
// Blocks until the results channel is closed.
func OrderedCollect(results <-chan WorkResult, fn func(WorkResult) error) error {
	pending := make(map[int]WorkResult)
	nextSeq := 0

	for r := range results {
		pending[r.Seq] = r

		for {
			rr, ok := pending[nextSeq]
			if !ok {
				break
			}
			delete(pending, nextSeq)
			nextSeq++
			if err := fn(rr); err != nil {
				// Drain remaining results to unblock workers.
				for range results {
				}
				return err
			}
		}
	}

	return nil
}
