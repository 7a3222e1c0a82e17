package memory

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/phrazzld/forest-inventory/internal/domain"
	"github.com/phrazzld/forest-inventory/internal/platform/logger"
	"github.com/phrazzld/forest-inventory/internal/store"
)

// DatasetStore is a concurrency-safe, map-backed store.DatasetStore.
type DatasetStore struct {
	mu       sync.RWMutex
	datasets map[uuid.UUID]*domain.Dataset
	logger   *slog.Logger
	now      func() time.Time
}

// Ensure DatasetStore implements store.DatasetStore interface
var _ store.DatasetStore = (*DatasetStore)(nil)

// NewDatasetStore creates an empty in-memory store. If logger is nil, a
// default logger will be used.
func NewDatasetStore(logger *slog.Logger) *DatasetStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &DatasetStore{
		datasets: make(map[uuid.UUID]*domain.Dataset),
		logger:   logger.With(slog.String("component", "memory_dataset_store")),
		now:      time.Now,
	}
}

// WithClock replaces the store's time source. Tests use it to control expiry.
func (s *DatasetStore) WithClock(now func() time.Time) *DatasetStore {
	s.now = now
	return s
}

// Create implements store.DatasetStore.Create
func (s *DatasetStore) Create(ctx context.Context, ds *domain.Dataset) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if ds == nil {
		return fmt.Errorf("%w: nil dataset", store.ErrInvalidEntity)
	}
	if err := ds.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.datasets[ds.ID]; exists {
		return store.ErrDatasetExists
	}
	s.datasets[ds.ID] = cloneDataset(ds)

	logger.FromContextOrDefault(ctx, s.logger).Info("dataset created successfully",
		slog.String("dataset_id", ds.ID.String()),
		slog.String("name", ds.Inventory.Name),
		slog.Int("num_plots", ds.Inventory.NumPlots()))
	return nil
}

// GetByID implements store.DatasetStore.GetByID
func (s *DatasetStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Dataset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	ds, ok := s.datasets[id]
	if !ok || ds.Expired(s.now()) {
		return nil, store.ErrDatasetNotFound
	}
	return cloneDataset(ds), nil
}

// List implements store.DatasetStore.List
func (s *DatasetStore) List(ctx context.Context) ([]domain.DatasetSummary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	now := s.now()
	s.mu.RLock()
	summaries := make([]domain.DatasetSummary, 0, len(s.datasets))
	for _, ds := range s.datasets {
		if ds.Expired(now) {
			continue
		}
		summaries = append(summaries, ds.Summary())
	}
	s.mu.RUnlock()

	sort.Slice(summaries, func(i, j int) bool {
		if !summaries[i].CreatedAt.Equal(summaries[j].CreatedAt) {
			return summaries[i].CreatedAt.After(summaries[j].CreatedAt)
		}
		return summaries[i].ID.String() < summaries[j].ID.String()
	})
	return summaries, nil
}

// Delete implements store.DatasetStore.Delete
func (s *DatasetStore) Delete(ctx context.Context, id uuid.UUID) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ds, ok := s.datasets[id]
	if !ok || ds.Expired(s.now()) {
		return store.ErrDatasetNotFound
	}
	delete(s.datasets, id)

	logger.FromContextOrDefault(ctx, s.logger).Info("dataset deleted",
		slog.String("dataset_id", id.String()))
	return nil
}

// DeleteExpired implements store.DatasetStore.DeleteExpired
func (s *DatasetStore) DeleteExpired(ctx context.Context, now time.Time) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for id, ds := range s.datasets {
		if ds.Expired(now) {
			delete(s.datasets, id)
			n++
		}
	}
	if n > 0 {
		logger.FromContextOrDefault(ctx, s.logger).Info("expired datasets deleted",
			slog.Int("count", n))
	}
	return n, nil
}

// Len returns the number of stored datasets, expired or not.
func (s *DatasetStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.datasets)
}

func cloneDataset(ds *domain.Dataset) *domain.Dataset {
	out := *ds
	if ds.ExpiresAt != nil {
		exp := *ds.ExpiresAt
		out.ExpiresAt = &exp
	}
	out.Inventory = cloneInventory(ds.Inventory)
	return &out
}

func cloneInventory(inv domain.ForestInventory) domain.ForestInventory {
	out := inv
	out.TotalAcres = cloneFloat(inv.TotalAcres)
	out.Plots = make([]domain.Plot, len(inv.Plots))
	for i, p := range inv.Plots {
		cp := p
		cp.SlopePercent = cloneFloat(p.SlopePercent)
		cp.AspectDegrees = cloneFloat(p.AspectDegrees)
		cp.ElevationFt = cloneFloat(p.ElevationFt)
		cp.Trees = make([]domain.Tree, len(p.Trees))
		for j, t := range p.Trees {
			ct := t
			ct.Height = cloneFloat(t.Height)
			ct.CrownRatio = cloneFloat(t.CrownRatio)
			ct.Defect = cloneFloat(t.Defect)
			if t.Age != nil {
				age := *t.Age
				ct.Age = &age
			}
			if t.VolumeEquation != nil {
				eq := *t.VolumeEquation
				ct.VolumeEquation = &eq
			}
			cp.Trees[j] = ct
		}
		out.Plots[i] = cp
	}
	return out
}

func cloneFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
