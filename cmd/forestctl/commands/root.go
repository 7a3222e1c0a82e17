// Package commands holds the forestctl cobra command tree.
package commands

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/phrazzld/forest-inventory/internal/config"
	"github.com/phrazzld/forest-inventory/internal/domain"
	"github.com/phrazzld/forest-inventory/internal/inventoryio"
	"github.com/phrazzld/forest-inventory/internal/platform/logger"
)

// cli carries state shared by every subcommand.
type cli struct {
	verbose bool
	logger  *slog.Logger
}

// Execute runs forestctl with os.Args.
func Execute() error {
	return NewRootCmd().Execute()
}

// NewRootCmd builds the command tree. Output goes to the command's out and
// err writers so callers can capture it.
func NewRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:           "forestctl",
		Short:         "Analyze forest inventory plot data",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := "warn"
			if c.verbose {
				level = "debug"
			}
			c.logger = logger.SetupWithWriter(config.ServerConfig{LogLevel: level}, cmd.ErrOrStderr())
			return nil
		},
	}

	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "log analysis details to stderr")

	root.AddCommand(
		c.analyzeCmd(),
		c.growthCmd(),
		c.summaryCmd(),
		c.convertCmd(),
	)
	return root
}

// load reads and validates an inventory file.
func (c *cli) load(path string) (*domain.ForestInventory, error) {
	if path == "" {
		return nil, fmt.Errorf("an input file is required (-i)")
	}
	inv, err := inventoryio.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := inv.Validate(); err != nil {
		return nil, err
	}
	c.logger.Debug("inventory loaded",
		slog.String("path", path),
		slog.Int("plots", inv.NumPlots()),
		slog.Int("trees", inv.NumTrees()))
	return inv, nil
}

func heading(w io.Writer, title string) {
	_, _ = fmt.Fprintf(w, "\n%s\n", title)
}
