package analysis

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/phrazzld/forest-inventory/internal/domain"
)

// Report bundles every analysis of a single inventory.
type Report struct {
	Inventory    string                `json:"inventory"`
	Metrics      *StandMetrics         `json:"metrics"`
	Statistics   *SamplingStatistics   `json:"statistics,omitempty"`
	Distribution *DiameterDistribution `json:"distribution"`
	GrowthModel  GrowthModelConfig     `json:"growth_model"`
	Projection   GrowthProjection      `json:"projection"`
}

// Report computes stand metrics, sampling statistics and the diameter
// distribution concurrently, then projects growth from the metrics. Sampling
// statistics are omitted for inventories with fewer than two plots.
func (s *defaultService) Report(
	ctx context.Context,
	inv *domain.ForestInventory,
	years int,
) (*Report, error) {
	if years == 0 {
		years = s.params.ProjectionYears
	}

	report := &Report{
		Inventory:   inv.Name,
		GrowthModel: DescribeModel(s.params.DefaultGrowthModel),
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := gctx.Err(); err != nil {
			return err
		}
		metrics, err := s.StandMetrics(inv)
		if err != nil {
			return err
		}
		report.Metrics = metrics
		return nil
	})

	if inv.NumPlots() >= 2 {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			stats, err := s.SamplingStatistics(inv, 0)
			if err != nil {
				return err
			}
			report.Statistics = stats
			return nil
		})
	}

	g.Go(func() error {
		if err := gctx.Err(); err != nil {
			return err
		}
		dist, err := s.DiameterDistribution(inv, 0)
		if err != nil {
			return err
		}
		report.Distribution = dist
		return nil
	})

	if err := g.Wait(); err != nil {
		s.logger.Debug("report failed",
			slog.String("inventory", inv.Name),
			slog.String("error", err.Error()))
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	projection, err := s.ProjectGrowth(report.Metrics, nil, years)
	if err != nil {
		return nil, err
	}
	report.Projection = projection

	return report, nil
}
