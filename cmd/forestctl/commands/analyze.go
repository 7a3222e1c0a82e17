package commands

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/phrazzld/forest-inventory/internal/domain"
	"github.com/phrazzld/forest-inventory/internal/domain/analysis"
)

type analyzeOptions struct {
	input        string
	confidence   float64
	classWidth   float64
	species      bool
	distribution bool
}

func (c *cli) analyzeCmd() *cobra.Command {
	opts := analyzeOptions{}

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Print stand metrics and sampling statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runAnalyze(cmd.OutOrStdout(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.input, "input", "i", "", "inventory file (.csv or .json)")
	cmd.Flags().Float64VarP(&opts.confidence, "confidence", "c", analysis.DefaultConfidenceLevel, "confidence level")
	cmd.Flags().Float64VarP(&opts.classWidth, "class-width", "d", analysis.DefaultDiameterClassWidth, "diameter class width in inches")
	cmd.Flags().BoolVar(&opts.species, "species", false, "print species composition")
	cmd.Flags().BoolVar(&opts.distribution, "distribution", false, "print diameter distribution")
	return cmd
}

func (c *cli) runAnalyze(w io.Writer, opts analyzeOptions) error {
	inv, err := c.load(opts.input)
	if err != nil {
		return err
	}

	params, err := analysis.NewParams(analysis.ParamsConfig{
		ConfidenceLevel:    opts.confidence,
		DiameterClassWidth: opts.classWidth,
	})
	if err != nil {
		return err
	}
	svc, err := analysis.NewServiceWithParams(params, c.logger)
	if err != nil {
		return err
	}

	metrics, err := svc.StandMetrics(inv)
	if err != nil {
		return err
	}
	if err := printMetrics(w, inv, metrics); err != nil {
		return err
	}

	if inv.NumPlots() >= 2 {
		stats, err := svc.SamplingStatistics(inv, 0)
		if err != nil {
			return err
		}
		if err := printStatistics(w, stats); err != nil {
			return err
		}
	} else {
		heading(w, "Sampling statistics require at least two plots.")
	}

	if opts.species {
		if err := printSpecies(w, metrics); err != nil {
			return err
		}
	}

	if opts.distribution {
		dist, err := svc.DiameterDistribution(inv, 0)
		if err != nil {
			return err
		}
		if err := printDistribution(w, dist); err != nil {
			return err
		}
	}
	return nil
}

func printMetrics(w io.Writer, inv *domain.ForestInventory, m *analysis.StandMetrics) error {
	heading(w, fmt.Sprintf("Stand metrics: %s", inv.Name))
	t := newTable(w, "METRIC", "VALUE")
	t.row("Plots", strconv.Itoa(m.NumPlots))
	t.row("Live trees", strconv.Itoa(m.LiveTreeCount))
	t.row("Species", strconv.Itoa(m.NumSpecies))
	t.row("Trees per acre", f1(m.TotalTPA))
	t.row("Basal area (sq ft/ac)", f1(m.TotalBasalArea))
	t.row("Volume (cu ft/ac)", f1(m.TotalVolumeCuft))
	t.row("Volume (bd ft/ac)", f1(m.TotalVolumeBdft))
	t.row("QMD (in)", f1(m.QuadraticMeanDiameter))
	if m.MeanHeight != nil {
		t.row("Mean height (ft)", f1(*m.MeanHeight))
	}
	if m.TreesWithoutHeight > 0 {
		t.row("Trees without height", strconv.Itoa(m.TreesWithoutHeight))
	}
	return t.flush()
}

func printStatistics(w io.Writer, s *analysis.SamplingStatistics) error {
	heading(w, fmt.Sprintf("Sampling statistics (%.0f%% confidence, n=%d)",
		s.TPA.ConfidenceLevel*100, s.TPA.SampleSize))
	t := newTable(w, "METRIC", "MEAN", "STD ERR", "LOWER", "UPPER", "SE %")
	for _, r := range []struct {
		name string
		ci   analysis.ConfidenceInterval
	}{
		{"TPA", s.TPA},
		{"Basal area", s.BasalArea},
		{"Volume cu ft", s.VolumeCuft},
		{"Volume bd ft", s.VolumeBdft},
	} {
		t.row(r.name, f1(r.ci.Mean), f2(r.ci.StdError), f1(r.ci.Lower), f1(r.ci.Upper), f1(r.ci.SamplingErrorPercent))
	}
	return t.flush()
}

func printSpecies(w io.Writer, m *analysis.StandMetrics) error {
	heading(w, "Species composition")
	t := newTable(w, "SPECIES", "TPA", "BA", "% BA", "% TPA", "MEAN DBH")
	for _, sc := range m.SpeciesComposition {
		t.row(sc.Species.String(), f1(sc.TPA), f1(sc.BasalArea), f1(sc.PercentOfTotal), f1(sc.PercentTPA), f1(sc.MeanDBH))
	}
	return t.flush()
}

func printDistribution(w io.Writer, d *analysis.DiameterDistribution) error {
	heading(w, fmt.Sprintf("Diameter distribution (%.1f in classes)", d.ClassWidth))
	t := newTable(w, "CLASS", "TREES", "TPA", "BA")
	for _, cl := range d.Classes {
		t.row(fmt.Sprintf("%.1f-%.1f", cl.LowerBound, cl.UpperBound),
			strconv.Itoa(cl.TreeCount), f1(cl.TPA), f1(cl.BasalArea))
	}
	return t.flush()
}
