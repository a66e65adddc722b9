package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/datalabels/pkg/pipeline"
	"github.com/matzehuels/datalabels/pkg/scene"
)

// maxListed caps how many indices a terminal line shows.
const maxListed = 20

// prioritizeCommand prints the priority order of every series.
func (c *CLI) prioritizeCommand() *cobra.Command {
	var (
		asJSON  bool
		noCache bool
		flags   optionFlags
	)

	cmd := &cobra.Command{
		Use:   "prioritize [scene]",
		Short: "Print the label priority order of every series",
		Long: `Print the label priority order of every series.

Points are ranked first, last, global maximum, global minimum, then by how
prominent their local extremum is, then by bisecting the remaining gaps.
Placement attempts the first min(2*budget, n) points of each order.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			sc, err := scene.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("load scene %s: %w", args[0], err)
			}
			opts := flags.apply(cfg.PipelineOptions())
			opts.Logger = c.Logger

			runner, err := c.newRunner(cmd.Context(), cfg, noCache)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()

			orders, cached, err := runner.PrioritizeWithCacheInfo(cmd.Context(), sc, opts)
			if err != nil {
				return err
			}
			c.Logger.Debug("prioritized", "series", len(orders), "cached", cached)

			if asJSON {
				return writeOrdersJSON(os.Stdout, orders)
			}
			printOrders(orders)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the orders as JSON")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	flags.addLayoutFlags(cmd.Flags())

	return cmd
}

func writeOrdersJSON(w io.Writer, orders []pipeline.SeriesOrder) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(orders)
}

func printOrders(orders []pipeline.SeriesOrder) {
	for i, o := range orders {
		if i > 0 {
			printNewline()
		}
		fmt.Println(StyleTitle.Render(o.Name))
		printKeyValue("points", strconv.Itoa(len(o.Order)))
		printKeyValue("budget", strconv.Itoa(o.Budget))
		printKeyValue("attempted", formatIndices(o.Attempted(), maxListed))
		printKeyValue("order", formatIndices(o.Order, maxListed))
	}
}

// formatIndices joins up to limit indices and notes how many were cut.
func formatIndices(idx []int, limit int) string {
	if len(idx) == 0 {
		return "-"
	}
	n := min(len(idx), limit)
	parts := make([]string, n)
	for i := range n {
		parts[i] = strconv.Itoa(idx[i])
	}
	s := strings.Join(parts, " ")
	if rest := len(idx) - n; rest > 0 {
		s += fmt.Sprintf(" (+%d more)", rest)
	}
	return s
}
