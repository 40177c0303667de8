// Package fetcher downloads eligible file contents with bounded
// concurrency. Workers consume an index queue and publish into
// pre-indexed result slots, so the output order always matches the input
// order without a shared results list behind a lock.
package fetcher

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"

	"repo-export/filter"
	"repo-export/model"
)

// BlobFetcher downloads the raw bytes of one repository file.
type BlobFetcher interface {
	FetchBlob(ctx context.Context, ref model.RepoRef, path string) ([]byte, error)
}

// Fetcher fans entries out to a fixed-size worker pool.
type Fetcher struct {
	client   BlobFetcher
	workers  int
	onResult func(model.FetchResult)
}

// New returns a Fetcher with the given pool size; workers < 1 runs a
// single worker. onResult, when non-nil, is invoked from worker
// goroutines as each result lands (used for progress reporting) and must
// be safe for concurrent use.
func New(client BlobFetcher, workers int, onResult func(model.FetchResult)) *Fetcher {
	if workers < 1 {
		workers = 1
	}
	return &Fetcher{client: client, workers: workers, onResult: onResult}
}

// Fetch downloads every entry and returns one FetchResult per entry in
// input order. Per-file failures are recorded, never fatal; cancelling
// ctx marks the remaining entries Failed with the context error.
func (f *Fetcher) Fetch(ctx context.Context, ref model.RepoRef, entries []model.TreeEntry) []model.FetchResult {
	results := make([]model.FetchResult, len(entries))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < f.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = f.fetchOne(ctx, ref, entries[i])
				if f.onResult != nil {
					f.onResult(results[i])
				}
			}
		}()
	}

	for i := range entries {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return results
}

func (f *Fetcher) fetchOne(ctx context.Context, ref model.RepoRef, entry model.TreeEntry) model.FetchResult {
	if err := ctx.Err(); err != nil {
		return model.FetchResult{Path: entry.Path, Outcome: model.OutcomeFailed, Err: err}
	}

	content, err := f.client.FetchBlob(ctx, ref, entry.Path)
	if err != nil {
		log.Debug().Str("path", entry.Path).Err(err).Msg("fetch failed")
		return model.FetchResult{Path: entry.Path, Outcome: model.OutcomeFailed, Err: err}
	}

	if filter.IsBinary(content) {
		return model.FetchResult{
			Path:    entry.Path,
			Outcome: model.OutcomeSkipped,
			Reason:  "binary content",
		}
	}

	return model.FetchResult{Path: entry.Path, Content: content, Outcome: model.OutcomeOk}
}
