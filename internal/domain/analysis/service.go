package analysis

import (
	"context"
	"errors"
	"log/slog"

	"github.com/phrazzld/forest-inventory/internal/domain"
)

// ErrNilParams is returned by NewServiceWithParams when params is nil.
var ErrNilParams = errors.New("analysis params cannot be nil")

// Service defines the interface for inventory analysis operations. It holds
// default settings and applies them whenever a caller passes a zero override.
type Service interface {
	// StandMetrics computes per-acre stand totals and species composition.
	StandMetrics(inv *domain.ForestInventory) (*StandMetrics, error)

	// SamplingStatistics computes confidence intervals across plots. A zero
	// confidence uses the default level.
	SamplingStatistics(inv *domain.ForestInventory, confidence float64) (*SamplingStatistics, error)

	// DiameterDistribution buckets live trees by DBH class. A zero width
	// uses the default class width.
	DiameterDistribution(inv *domain.ForestInventory, classWidth float64) (*DiameterDistribution, error)

	// ProjectGrowth projects the stand forward. A nil model uses the default
	// growth model.
	ProjectGrowth(start *StandMetrics, model GrowthModel, years int) (GrowthProjection, error)

	// Report runs every calculator against inv and projects growth with the
	// default model. Zero years uses the default horizon.
	Report(ctx context.Context, inv *domain.ForestInventory, years int) (*Report, error)

	// Params returns a copy of the defaults held by the service.
	Params() Params
}

// defaultService is the standard implementation of the Service interface
type defaultService struct {
	params *Params
	logger *slog.Logger
}

// NewDefaultService creates a new analysis service with default parameters
func NewDefaultService(logger *slog.Logger) (Service, error) {
	return NewServiceWithParams(NewDefaultParams(), logger)
}

// NewServiceWithParams creates a new analysis service with custom parameters
func NewServiceWithParams(params *Params, logger *slog.Logger) (Service, error) {
	if params == nil {
		return nil, ErrNilParams
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &defaultService{
		params: params,
		logger: logger.With(slog.String("component", "analysis")),
	}, nil
}

func (s *defaultService) Params() Params {
	return *s.params
}

func (s *defaultService) StandMetrics(inv *domain.ForestInventory) (*StandMetrics, error) {
	metrics, err := ComputeStandMetrics(inv, s.params.Volume)
	if err != nil {
		return nil, err
	}
	s.logDataQuality(inv, metrics)
	return metrics, nil
}

func (s *defaultService) SamplingStatistics(
	inv *domain.ForestInventory,
	confidence float64,
) (*SamplingStatistics, error) {
	if confidence == 0 {
		confidence = s.params.ConfidenceLevel
	}
	return ComputeSamplingStatistics(inv, s.params.Volume, confidence)
}

func (s *defaultService) DiameterDistribution(
	inv *domain.ForestInventory,
	classWidth float64,
) (*DiameterDistribution, error) {
	if classWidth == 0 {
		classWidth = s.params.DiameterClassWidth
	}
	return BuildDiameterDistribution(inv, classWidth, s.params.IncludeEmptyClasses)
}

func (s *defaultService) ProjectGrowth(
	start *StandMetrics,
	model GrowthModel,
	years int,
) (GrowthProjection, error) {
	if model == nil {
		model = s.params.DefaultGrowthModel
	}
	return ProjectGrowth(start, model, years)
}

// logDataQuality reports trees whose volume could not be computed.
func (s *defaultService) logDataQuality(inv *domain.ForestInventory, metrics *StandMetrics) {
	if metrics.TreesWithoutHeight == 0 {
		return
	}
	s.logger.Info("volume not computed for trees without height",
		slog.String("inventory", inv.Name),
		slog.Int("trees_without_height", metrics.TreesWithoutHeight),
		slog.Int("live_tree_count", metrics.LiveTreeCount))
}
