package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Dataset validation errors
var (
	// ErrDatasetIDEmpty is returned when a dataset ID is nil.
	ErrDatasetIDEmpty = errors.New("dataset ID cannot be empty")
)

// Dataset is an inventory that has been accepted and stored for later
// analysis. ExpiresAt is nil for datasets that never expire.
type Dataset struct {
	ID        uuid.UUID       `json:"id"`
	Inventory ForestInventory `json:"inventory"`
	CreatedAt time.Time       `json:"created_at"`
	ExpiresAt *time.Time      `json:"expires_at,omitempty"`
}

// NewDataset wraps a validated inventory in a new Dataset. A positive ttl sets
// the expiry relative to now.
func NewDataset(inv ForestInventory, now time.Time, ttl time.Duration) (*Dataset, error) {
	ds := &Dataset{
		ID:        uuid.New(),
		Inventory: inv,
		CreatedAt: now.UTC(),
	}
	if ttl > 0 {
		exp := ds.CreatedAt.Add(ttl)
		ds.ExpiresAt = &exp
	}

	if err := ds.Validate(); err != nil {
		return nil, err
	}
	return ds, nil
}

// Validate checks if the Dataset has valid data.
func (d *Dataset) Validate() error {
	if d.ID == uuid.Nil {
		return ErrDatasetIDEmpty
	}
	return d.Inventory.Validate()
}

// Expired reports whether the dataset's TTL has elapsed at now.
func (d *Dataset) Expired(now time.Time) bool {
	return d.ExpiresAt != nil && !now.Before(*d.ExpiresAt)
}

// DatasetSummary describes a stored dataset without its tree data.
type DatasetSummary struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	NumPlots  int        `json:"num_plots"`
	NumTrees  int        `json:"num_trees"`
	CreatedAt time.Time  `json:"created_at"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// Summary returns the listing view of d.
func (d *Dataset) Summary() DatasetSummary {
	return DatasetSummary{
		ID:        d.ID,
		Name:      d.Inventory.Name,
		NumPlots:  d.Inventory.NumPlots(),
		NumTrees:  d.Inventory.NumTrees(),
		CreatedAt: d.CreatedAt,
		ExpiresAt: d.ExpiresAt,
	}
}
