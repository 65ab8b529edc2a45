package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/roster/internal/models"
	"github.com/desertthunder/roster/internal/services"
	"github.com/desertthunder/roster/internal/shared"
)

// Store is the contact filter store.
type Store struct {
	dataset  []models.Record
	filtered []models.Record
	query    string
	needle   string
	selected string
	hasSel   bool
	loading  bool
	loaded   bool
	err      error
}

// New returns an empty store with no dataset loaded.
func New() *Store {
	return &Store{}
}

// Load fetches records from src and installs them as the dataset.
func (s *Store) Load(ctx context.Context, src services.Source) ([]models.Record, error) {
	s.BeginLoad()
	records, fetchErr := src.Fetch(ctx)
	if err := s.Finish(records, fetchErr); err != nil {
		return nil, err
	}
	return s.Dataset(), nil
}

// BeginLoad marks a load as in flight and clears any previous error.
func (s *Store) BeginLoad() {
	s.loading = true
	s.err = nil
}

// Finish completes a load started with [Store.BeginLoad].
//
// On success the dataset is replaced, the filtered view is recomputed against the current query and any pending
// selection is dropped. On failure the dataset is left as it was and the returned error, also reported by
// [Store.Err], wraps [shared.ErrFetch].
func (s *Store) Finish(records []models.Record, err error) error {
	s.loading = false
	if err != nil {
		s.err = fmt.Errorf("%w: %w", shared.ErrFetch, err)
		return s.err
	}

	s.dataset = append([]models.Record(nil), records...)
	s.loaded = true
	s.clearSelection()
	s.refilter()
	return nil
}

// SetQuery replaces the query and recomputes the filtered view.
//
// A pending selection is abandoned.
func (s *Store) SetQuery(q string) {
	s.query = q
	s.needle = strings.ToLower(q)
	s.clearSelection()
	s.refilter()
}

// Select records r as the selection, clears the query and resets the filtered view to the full dataset.
//
// Records that are not part of the current dataset are ignored.
func (s *Store) Select(r models.Record) {
	if s.indexOf(r.ID) < 0 {
		return
	}

	s.query = ""
	s.needle = ""
	s.filtered = s.dataset
	s.selected = r.ID
	s.hasSel = true
}

// ConsumeSelection returns the dataset index of the pending selection and clears it.
//
// It reports false when nothing is selected or the filtered view is not back to the full dataset length.
func (s *Store) ConsumeSelection() (int, bool) {
	if !s.hasSel || len(s.filtered) != len(s.dataset) {
		return -1, false
	}

	idx := s.indexOf(s.selected)
	s.clearSelection()
	if idx < 0 {
		return -1, false
	}
	return idx, true
}

// Selected returns the pending selection, if any.
func (s *Store) Selected() (models.Record, bool) {
	if !s.hasSel {
		return models.Record{}, false
	}
	idx := s.indexOf(s.selected)
	if idx < 0 {
		return models.Record{}, false
	}
	return s.dataset[idx], true
}

// Dataset returns a copy of the full dataset.
func (s *Store) Dataset() []models.Record {
	return append([]models.Record(nil), s.dataset...)
}

// FilteredView returns a copy of the records matching the current query, in dataset order.
func (s *Store) FilteredView() []models.Record {
	return append([]models.Record(nil), s.filtered...)
}

// Query returns the query as typed.
func (s *Store) Query() string { return s.query }

// Loading reports whether a load is in flight.
func (s *Store) Loading() bool { return s.loading }

// Loaded reports whether at least one load has succeeded.
func (s *Store) Loaded() bool { return s.loaded }

// Err returns the error from the last load, if it failed.
func (s *Store) Err() error { return s.err }

// Len returns the dataset size.
func (s *Store) Len() int { return len(s.dataset) }

// refilter rebuilds the filtered view with a linear scan.
func (s *Store) refilter() {
	if s.needle == "" {
		s.filtered = s.dataset
		return
	}

	filtered := make([]models.Record, 0, len(s.dataset))
	for _, r := range s.dataset {
		if r.Matches(s.needle) {
			filtered = append(filtered, r)
		}
	}
	s.filtered = filtered
}

// indexOf returns the first dataset index whose ID equals id, or -1.
func (s *Store) indexOf(id string) int {
	for i, r := range s.dataset {
		if r.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) clearSelection() {
	s.selected = ""
	s.hasSel = false
}
