package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/phrazzld/forest-inventory/internal/domain"
)

// DatasetStore defines the interface for dataset persistence.
// Expired datasets are invisible to reads even before they are deleted.
type DatasetStore interface {
	// Create saves a new dataset to the store.
	// Returns ErrInvalidEntity if the dataset fails validation and
	// ErrDatasetExists if the id is already in use.
	Create(ctx context.Context, ds *domain.Dataset) error

	// GetByID retrieves a dataset by its unique ID.
	// Returns ErrDatasetNotFound if the dataset does not exist or has expired.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Dataset, error)

	// List returns summaries of all live datasets, newest first.
	List(ctx context.Context) ([]domain.DatasetSummary, error)

	// Delete removes a dataset.
	// Returns ErrDatasetNotFound if the dataset does not exist or has expired;
	// expired datasets are left for DeleteExpired.
	Delete(ctx context.Context, id uuid.UUID) error

	// DeleteExpired removes every dataset whose expiry is at or before now
	// and reports how many were removed.
	DeleteExpired(ctx context.Context, now time.Time) (int, error)
}
