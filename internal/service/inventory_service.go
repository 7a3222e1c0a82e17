package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/phrazzld/forest-inventory/internal/domain"
	"github.com/phrazzld/forest-inventory/internal/domain/analysis"
	"github.com/phrazzld/forest-inventory/internal/platform/logger"
	"github.com/phrazzld/forest-inventory/internal/store"
)

const serviceName = "inventory"

// InventoryService manages stored inventories and runs analyses against them.
type InventoryService interface {
	// Import validates inv and stores it as a new dataset.
	// Returns an error wrapping domain.ErrValidation for invalid inventories.
	Import(ctx context.Context, inv *domain.ForestInventory) (*domain.DatasetSummary, error)

	// Get retrieves a stored dataset.
	// Returns ErrDatasetNotFound if it does not exist or has expired.
	Get(ctx context.Context, id uuid.UUID) (*domain.Dataset, error)

	// List returns summaries of all live datasets, newest first.
	List(ctx context.Context) ([]domain.DatasetSummary, error)

	// Delete removes a dataset.
	Delete(ctx context.Context, id uuid.UUID) error

	// EvictExpired removes every dataset whose TTL has elapsed.
	EvictExpired(ctx context.Context) (int, error)

	// StandMetrics computes stand metrics for a stored dataset.
	StandMetrics(ctx context.Context, id uuid.UUID) (*analysis.StandMetrics, error)

	// SamplingStatistics computes confidence intervals for a stored dataset.
	// A zero confidence uses the configured default.
	SamplingStatistics(ctx context.Context, id uuid.UUID, confidence float64) (*analysis.SamplingStatistics, error)

	// DiameterDistribution builds the DBH class table for a stored dataset.
	// A zero class width uses the configured default.
	DiameterDistribution(ctx context.Context, id uuid.UUID, classWidth float64) (*analysis.DiameterDistribution, error)

	// ProjectGrowth projects a stored dataset forward from its current stand
	// metrics. A nil model uses the configured default.
	ProjectGrowth(
		ctx context.Context,
		id uuid.UUID,
		model analysis.GrowthModel,
		years int,
	) (analysis.GrowthProjection, error)

	// Report runs every analysis against a stored dataset.
	Report(ctx context.Context, id uuid.UUID, years int) (*analysis.Report, error)

	// DefaultGrowthModel returns the model used when callers supply none.
	DefaultGrowthModel() analysis.GrowthModel
}

// Option configures an inventoryService.
type Option func(*inventoryService)

// WithClock replaces the service's time source.
func WithClock(now func() time.Time) Option {
	return func(s *inventoryService) {
		s.now = now
	}
}

// inventoryService implements the InventoryService interface
type inventoryService struct {
	datasets store.DatasetStore
	analyzer analysis.Service
	ttl      time.Duration
	logger   *slog.Logger
	now      func() time.Time
}

// NewInventoryService creates a new InventoryService.
// A non-positive ttl keeps datasets until they are deleted.
// It returns an error if any of the required dependencies are nil.
func NewInventoryService(
	datasets store.DatasetStore,
	analyzer analysis.Service,
	ttl time.Duration,
	logger *slog.Logger,
	opts ...Option,
) (InventoryService, error) {
	if datasets == nil {
		return nil, &ServiceError{Service: serviceName, Op: "create_service", Err: errors.New("datasets cannot be nil")}
	}
	if analyzer == nil {
		return nil, &ServiceError{Service: serviceName, Op: "create_service", Err: errors.New("analyzer cannot be nil")}
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &inventoryService{
		datasets: datasets,
		analyzer: analyzer,
		ttl:      ttl,
		logger:   logger.With(slog.String("component", "inventory_service")),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *inventoryService) Import(
	ctx context.Context,
	inv *domain.ForestInventory,
) (*domain.DatasetSummary, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if inv == nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, ErrNilInventory)
	}

	ds, err := domain.NewDataset(*inv, s.now(), s.ttl)
	if err != nil {
		log.Warn("rejected invalid inventory",
			slog.String("name", inv.Name),
			slog.String("error", err.Error()))
		return nil, err
	}

	if err := s.datasets.Create(ctx, ds); err != nil {
		log.Error("failed to store dataset",
			slog.String("dataset_id", ds.ID.String()),
			slog.String("error", err.Error()))
		return nil, NewServiceError(serviceName, "import", err)
	}

	log.Info("inventory imported",
		slog.String("dataset_id", ds.ID.String()),
		slog.String("name", inv.Name),
		slog.Int("num_plots", inv.NumPlots()),
		slog.Int("num_trees", inv.NumTrees()))

	summary := ds.Summary()
	return &summary, nil
}

func (s *inventoryService) Get(ctx context.Context, id uuid.UUID) (*domain.Dataset, error) {
	ds, err := s.datasets.GetByID(ctx, id)
	if err != nil {
		return nil, NewServiceError(serviceName, "get", err)
	}
	return ds, nil
}

func (s *inventoryService) List(ctx context.Context) ([]domain.DatasetSummary, error) {
	summaries, err := s.datasets.List(ctx)
	if err != nil {
		return nil, NewServiceError(serviceName, "list", err)
	}
	return summaries, nil
}

func (s *inventoryService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.datasets.Delete(ctx, id); err != nil {
		return NewServiceError(serviceName, "delete", err)
	}
	return nil
}

func (s *inventoryService) EvictExpired(ctx context.Context) (int, error) {
	n, err := s.datasets.DeleteExpired(ctx, s.now())
	if err != nil {
		return 0, NewServiceError(serviceName, "evict_expired", err)
	}
	return n, nil
}

func (s *inventoryService) StandMetrics(ctx context.Context, id uuid.UUID) (*analysis.StandMetrics, error) {
	inv, err := s.inventory(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.analyzer.StandMetrics(inv)
}

func (s *inventoryService) SamplingStatistics(
	ctx context.Context,
	id uuid.UUID,
	confidence float64,
) (*analysis.SamplingStatistics, error) {
	inv, err := s.inventory(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.analyzer.SamplingStatistics(inv, confidence)
}

func (s *inventoryService) DiameterDistribution(
	ctx context.Context,
	id uuid.UUID,
	classWidth float64,
) (*analysis.DiameterDistribution, error) {
	inv, err := s.inventory(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.analyzer.DiameterDistribution(inv, classWidth)
}

func (s *inventoryService) ProjectGrowth(
	ctx context.Context,
	id uuid.UUID,
	model analysis.GrowthModel,
	years int,
) (analysis.GrowthProjection, error) {
	metrics, err := s.StandMetrics(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.analyzer.ProjectGrowth(metrics, model, years)
}

func (s *inventoryService) Report(ctx context.Context, id uuid.UUID, years int) (*analysis.Report, error) {
	inv, err := s.inventory(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.analyzer.Report(ctx, inv, years)
}

func (s *inventoryService) DefaultGrowthModel() analysis.GrowthModel {
	return s.analyzer.Params().DefaultGrowthModel
}

// inventory loads the stored inventory for id.
func (s *inventoryService) inventory(ctx context.Context, id uuid.UUID) (*domain.ForestInventory, error) {
	ds, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &ds.Inventory, nil
}
