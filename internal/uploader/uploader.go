package uploader

import (
	"context"
	"sync"

	"photo-vault/internal/faults"
	"photo-vault/internal/ingest"
	"photo-vault/internal/logging"
	"photo-vault/internal/metadata"
	"photo-vault/internal/metrics"
)

// DefaultWorkers bounds how many pipelines run at once.
const DefaultWorkers = 3

// Progress describes one completed item. The final callback of a batch
// always carries Current == Total.
type Progress struct {
	Current  int
	Total    int
	Filename string
	Err      error
}

// ItemError pairs a filename with the fault that rejected it.
type ItemError struct {
	Filename string
	Err      error
}

// Result tri-partitions a batch's outcomes. Every input file lands in
// exactly one partition.
type Result struct {
	Succeeded  []metadata.Photo
	Duplicates []ItemError
	Failed     []ItemError
}

// Ingestor runs one file's ingestion. *ingest.Pipeline is the production
// implementation.
type Ingestor interface {
	Ingest(ctx context.Context, albumID string, file ingest.File) (*metadata.Photo, error)
}

// Scheduler dispatches files to a fixed pool of ingestion workers. A
// new file starts as soon as a worker frees up (sliding window, not
// fixed batches).
type Scheduler struct {
	ingestor Ingestor
	workers  int
}

// NewScheduler returns a Scheduler running at most workers pipelines
// concurrently. A value of 0 selects DefaultWorkers.
func NewScheduler(ingestor Ingestor, workers int) *Scheduler {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	return &Scheduler{ingestor: ingestor, workers: workers}
}

// UploadMany ingests all files into albumID. Outcomes are independent:
// one file's rejection neither cancels nor blocks the others. After each
// completion onProgress (if non-nil) is invoked with the running count;
// callbacks are serialized and the last one reports Current == Total.
//
// Cancelling ctx stops dispatch: items already in flight finish and stay
// committed, undispatched items are reported as failed with the context
// error. There is no rollback.
func (s *Scheduler) UploadMany(ctx context.Context, albumID string, files []ingest.File, onProgress func(Progress)) Result {
	total := len(files)
	if total == 0 {
		return Result{}
	}

	logging.Debug("Uploading %d files to album %s with %d workers", total, albumID, s.workers)

	var (
		mu        sync.Mutex
		completed int
		result    Result
	)

	report := func(file ingest.File, photo *metadata.Photo, err error) {
		mu.Lock()
		defer mu.Unlock()

		switch {
		case err == nil:
			result.Succeeded = append(result.Succeeded, *photo)
			metrics.UploadsTotal.WithLabelValues("success").Inc()
		case faults.Duplicate.Has(err):
			result.Duplicates = append(result.Duplicates, ItemError{Filename: file.Name, Err: err})
			metrics.UploadsTotal.WithLabelValues("duplicate").Inc()
		default:
			result.Failed = append(result.Failed, ItemError{Filename: file.Name, Err: err})
			metrics.UploadsTotal.WithLabelValues("failed").Inc()
		}

		completed++
		if onProgress != nil {
			onProgress(Progress{
				Current:  completed,
				Total:    total,
				Filename: file.Name,
				Err:      err,
			})
		}
	}

	jobs := make(chan ingest.File)
	var wg sync.WaitGroup

	for i := 0; i < s.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for file := range jobs {
				// Once the batch is abandoned, drain instead of
				// ingesting so the final progress still reaches Total.
				select {
				case <-ctx.Done():
					report(file, nil, ctx.Err())
					continue
				default:
				}

				// Once dispatched, an item runs to completion: a
				// cancelled batch must not abort half-written photos.
				photo, err := s.ingestor.Ingest(context.WithoutCancel(ctx), albumID, file)
				report(file, photo, err)
			}
		}()
	}

	for _, file := range files {
		jobs <- file
	}
	close(jobs)
	wg.Wait()

	logging.Debug("Upload batch done: %d ok, %d duplicates, %d failed",
		len(result.Succeeded), len(result.Duplicates), len(result.Failed))
	return result
}
