package tasks

import (
	"fmt"

	"github.com/desertthunder/roster/internal/models"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	QueueThumbnails Phase = iota
	SaveThumbnails
)

func (p Phase) String() string {
	switch p {
	case QueueThumbnails:
		return "queue_thumbnails"
	case SaveThumbnails:
		return "save_thumbnails"
	default:
		return ""
	}
}

// sendProgress sends a progress update through the channel without blocking.
func sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

func queuedUpdate(step, total int, r models.Record) ProgressUpdate {
	return ProgressUpdate{
		Phase:   QueueThumbnails,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Queued: %s", step, total, r.FullName()),
	}
}

func savedUpdate(step, total int, res ThumbnailResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   SaveThumbnails,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s", step, total, res.Name),
		Data:    res,
	}
}

func failedUpdate(step, total int, res ThumbnailResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   SaveThumbnails,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, res.Name, res.Error),
		Data:    res,
	}
}
