// Package tasks runs long-running work behind the CLI with real-time progress reporting.
//
// # Thumbnail Export
//
// [DownloadThumbnails] fetches user thumbnails with a bounded worker pool. A single feeder goroutine paces jobs
// through a [rate.Limiter] so the image host sees at most RateLimit requests per second regardless of worker count.
// Each worker downloads one image and saves it with [formatter.SaveThumbnail]. A failed download is recorded
// and never aborts the export; the record keeps its remote link in the generated README.
//
// # Progress Reporting
//
// Progress goes through an optional channel of [ProgressUpdate]. Sends use select with default, so a slow or
// absent reader never blocks the workers.
package tasks
