package commands

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"
)

func (c *cli) summaryCmd() *cobra.Command {
	var input string

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print plot and species counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runSummary(cmd.OutOrStdout(), input)
		},
	}
	cmd.Flags().StringVarP(&input, "input", "i", "", "inventory file (.csv or .json)")
	return cmd
}

func (c *cli) runSummary(w io.Writer, input string) error {
	inv, err := c.load(input)
	if err != nil {
		return err
	}

	heading(w, fmt.Sprintf("Inventory: %s", inv.Name))
	t := newTable(w, "FIELD", "VALUE")
	t.row("Plots", strconv.Itoa(inv.NumPlots()))
	t.row("Trees", strconv.Itoa(inv.NumTrees()))
	t.row("Live trees", strconv.Itoa(inv.NumLiveTrees()))
	if inv.TotalAcres != nil {
		t.row("Total acres", f1(*inv.TotalAcres))
	}
	if err := t.flush(); err != nil {
		return err
	}

	heading(w, "Species")
	st := newTable(w, "CODE", "NAME")
	for _, sp := range inv.SpeciesList() {
		st.row(sp.Code, sp.CommonName)
	}
	return st.flush()
}
