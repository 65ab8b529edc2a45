// package services defines interface Source for loading user records from HTTP APIs
//
// randomuser.me, raw API access
package services

import (
	"context"

	"github.com/desertthunder/roster/internal/models"
)

// Source defines the data source contract for user directories.
type Source interface {
	// Fetch returns a finite, ordered list of records or an error.
	Fetch(ctx context.Context) ([]models.Record, error)

	// Name returns the name of the source (e.g., "randomuser.me")
	Name() string
}

// SourceFunc adapts a plain function to [Source].
type SourceFunc func(ctx context.Context) ([]models.Record, error)

// Fetch calls f(ctx).
func (f SourceFunc) Fetch(ctx context.Context) ([]models.Record, error) {
	return f(ctx)
}

// Name returns a generic name for function sources.
func (f SourceFunc) Name() string {
	return "func"
}
