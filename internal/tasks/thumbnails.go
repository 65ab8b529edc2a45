package tasks

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"sync"

	"github.com/desertthunder/roster/internal/formatter"
	"github.com/desertthunder/roster/internal/models"
	"golang.org/x/time/rate"
)

const (
	defaultWorkers   = 4
	maxWorkers       = 10
	defaultRateLimit = 5.0
)

// ThumbnailOpts contains configuration for thumbnail downloads.
type ThumbnailOpts struct {
	OutputDir  string       // Export directory; images land in {OutputDir}/thumbnails
	NumWorkers int          // Concurrent workers (default: 4, max: 10)
	RateLimit  float64      // Requests per second (default: 5)
	HTTPClient *http.Client // Client passed to [formatter.DownloadImage]
}

// ThumbnailResult is the outcome for a single record.
type ThumbnailResult struct {
	RecordID string
	Name     string
	Path     string // relative to OutputDir, empty on failure
	Error    error
}

// ThumbnailExportResult summarizes a [DownloadThumbnails] run.
type ThumbnailExportResult struct {
	Total      int
	Saved      int
	Failed     []ThumbnailResult
	Thumbnails map[string]string // record ID -> relative path, suitable for [formatter.WriteMarkdownExport]
}

type thumbnailJob struct {
	record models.Record
}

// DownloadThumbnails downloads the thumbnail of every record that has one.
//
// Records without a thumbnail URL are skipped. Cancelling ctx stops queueing new downloads; the result still
// reflects every download that finished.
func DownloadThumbnails(
	ctx context.Context,
	prog chan<- ProgressUpdate,
	records []models.Record,
	opts ThumbnailOpts,
) (*ThumbnailExportResult, error) {
	if opts.OutputDir == "" {
		return nil, fmt.Errorf("output directory is required")
	}
	if opts.NumWorkers <= 0 {
		opts.NumWorkers = defaultWorkers
	}
	if opts.NumWorkers > maxWorkers {
		opts.NumWorkers = maxWorkers
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = defaultRateLimit
	}

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	pending := make([]models.Record, 0, len(records))
	for _, r := range records {
		if r.ThumbnailURL != "" {
			pending = append(pending, r)
		}
	}

	result := &ThumbnailExportResult{
		Total:      len(pending),
		Thumbnails: make(map[string]string, len(pending)),
	}
	if len(pending) == 0 {
		return result, nil
	}

	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)

	jobs := make(chan thumbnailJob, len(pending))
	results := make(chan ThumbnailResult, len(pending))

	var wg sync.WaitGroup
	for i := 0; i < opts.NumWorkers; i++ {
		wg.Add(1)
		go thumbnailWorker(ctx, &wg, jobs, results, opts)
	}

	go func() {
		defer close(jobs)
		for i, r := range pending {
			if err := limiter.Wait(ctx); err != nil {
				return
			}
			jobs <- thumbnailJob{record: r}
			sendProgress(prog, queuedUpdate(i+1, len(pending), r))
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	completed := 0
	for res := range results {
		completed++
		if res.Error != nil {
			result.Failed = append(result.Failed, res)
			sendProgress(prog, failedUpdate(completed, len(pending), res))
			continue
		}

		result.Saved++
		result.Thumbnails[res.RecordID] = res.Path
		sendProgress(prog, savedUpdate(completed, len(pending), res))
	}

	if err := ctx.Err(); err != nil {
		return result, fmt.Errorf("thumbnail download interrupted: %w", err)
	}
	return result, nil
}

// thumbnailWorker downloads and saves thumbnails from the jobs channel.
func thumbnailWorker(
	ctx context.Context,
	wg *sync.WaitGroup,
	jobs <-chan thumbnailJob,
	results chan<- ThumbnailResult,
	opts ThumbnailOpts,
) {
	defer wg.Done()

	for job := range jobs {
		select {
		case <-ctx.Done():
			return
		default:
		}

		results <- saveThumbnail(ctx, job, opts)
	}
}

func saveThumbnail(ctx context.Context, j thumbnailJob, opts ThumbnailOpts) ThumbnailResult {
	res := ThumbnailResult{RecordID: j.record.ID, Name: j.record.FullName()}

	data, err := formatter.DownloadImage(ctx, opts.HTTPClient, j.record.ThumbnailURL)
	if err != nil {
		res.Error = err
		return res
	}

	path, err := formatter.SaveThumbnail(opts.OutputDir, j.record.ID, data)
	if err != nil {
		res.Error = err
		return res
	}

	res.Path = path
	return res
}
