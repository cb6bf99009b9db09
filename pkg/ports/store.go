package ports

import (
	"context"

	"github.com/NikBellini/web-graph/pkg/domain"
)

// RunStore persists run reports for later inspection. Reports are
// observational artifacts; they are never used to resume a traversal.
type RunStore interface {
	// Save persists the report under the given run ID, overwriting any
	// previous report with the same ID.
	Save(ctx context.Context, runID string, report *domain.RunReport) error

	// Load retrieves the report for a run ID.
	// Returns domain.ErrRunNotFound if the run does not exist.
	Load(ctx context.Context, runID string) (*domain.RunReport, error)

	// List returns the known run IDs.
	List(ctx context.Context) ([]string, error)

	// Delete removes the report for a run ID. Deleting an unknown ID is
	// not an error.
	Delete(ctx context.Context, runID string) error
}
