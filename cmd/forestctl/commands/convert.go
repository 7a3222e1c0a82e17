package commands

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/phrazzld/forest-inventory/internal/inventoryio"
)

func (c *cli) convertCmd() *cobra.Command {
	var (
		input  string
		output string
		pretty bool
	)

	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Convert an inventory between CSV and JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if output == "" {
				return fmt.Errorf("an output file is required (-o)")
			}
			inv, err := c.load(input)
			if err != nil {
				return err
			}
			if err := inventoryio.WriteFile(output, inv, pretty); err != nil {
				return err
			}
			c.logger.Debug("inventory converted", slog.String("from", input), slog.String("to", output))
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "wrote %d plots to %s\n", inv.NumPlots(), output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "inventory file (.csv or .json)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "destination file (.csv or .json)")
	cmd.Flags().BoolVar(&pretty, "pretty", false, "indent JSON output")
	return cmd
}
