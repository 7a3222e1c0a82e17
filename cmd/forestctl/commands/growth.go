package commands

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/phrazzld/forest-inventory/internal/domain/analysis"
)

type growthOptions struct {
	input string
	years int
	model analysis.GrowthModelConfig
}

func (c *cli) growthCmd() *cobra.Command {
	opts := growthOptions{}

	cmd := &cobra.Command{
		Use:   "growth",
		Short: "Project stand growth year by year",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runGrowth(cmd.OutOrStdout(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.input, "input", "i", "", "inventory file (.csv or .json)")
	cmd.Flags().IntVarP(&opts.years, "years", "y", analysis.DefaultProjectionYears, "years to project")
	cmd.Flags().StringVarP(&opts.model.Type, "model", "m", analysis.GrowthModelLogistic, "growth model: exponential, logistic or linear")
	cmd.Flags().Float64VarP(&opts.model.AnnualRate, "rate", "r", 0.03, "annual growth rate")
	cmd.Flags().Float64VarP(&opts.model.CarryingCapacity, "capacity", "k", 300, "logistic carrying capacity in sq ft/ac")
	cmd.Flags().Float64Var(&opts.model.AnnualIncrement, "increment", 0, "linear basal area increment in sq ft/ac/yr")
	cmd.Flags().Float64Var(&opts.model.MortalityRate, "mortality", 0.005, "annual mortality rate")
	return cmd
}

func (c *cli) runGrowth(w io.Writer, opts growthOptions) error {
	if opts.years < 0 || opts.years > analysis.MaxProjectionYears {
		return fmt.Errorf("--years must be between 0 and %d, got %d", analysis.MaxProjectionYears, opts.years)
	}
	inv, err := c.load(opts.input)
	if err != nil {
		return err
	}
	model, err := opts.model.Model()
	if err != nil {
		return err
	}
	svc, err := analysis.NewDefaultService(c.logger)
	if err != nil {
		return err
	}

	metrics, err := svc.StandMetrics(inv)
	if err != nil {
		return err
	}
	projection, err := svc.ProjectGrowth(metrics, model, opts.years)
	if err != nil {
		return err
	}

	heading(w, fmt.Sprintf("Growth projection: %s (%s)", inv.Name, model.Name()))
	t := newTable(w, "YEAR", "TPA", "BA", "CU FT", "BD FT")
	for _, p := range projection {
		t.row(strconv.Itoa(p.Year), f1(p.TPA), f1(p.BasalArea), f1(p.VolumeCuft), f1(p.VolumeBdft))
	}
	return t.flush()
}
