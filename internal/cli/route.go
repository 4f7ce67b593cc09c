package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/wayfinder/pkg/errors"
	"github.com/matzehuels/wayfinder/pkg/pipeline"
)

// routeCommand creates the route command.
func (c *CLI) routeCommand() *cobra.Command {
	var (
		venue       string
		startID     int64
		goalID      int64
		noCache     bool
		refresh     bool
		asJSON      bool
		interactive bool
	)

	cmd := &cobra.Command{
		Use:   "route [map.json]",
		Short: "Compute a route with turn-by-turn instructions",
		Long: `Compute the shortest walking route between two nodes of a venue map.

The map is given as a JSON file argument, or with --venue when a map
store is configured. Node ids come from the map's node features.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := pipeline.Options{
				Venue:   venue,
				StartID: startID,
				GoalID:  goalID,
				Refresh: refresh,
				Logger:  c.Logger,
			}
			if len(args) > 0 {
				opts.MapPath = args[0]
			}
			return c.runRoute(cmd, opts, routeOutput{
				noCache:     noCache,
				asJSON:      asJSON,
				interactive: interactive,
			})
		},
	}

	cmd.Flags().StringVar(&venue, "venue", "", "venue name in the configured map store")
	cmd.Flags().Int64Var(&startID, "from", 0, "start node id")
	cmd.Flags().Int64Var(&goalID, "to", 0, "goal node id")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "recompute even if cached")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the result as JSON")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "walk through instructions step by step")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")

	return cmd
}

// routeOutput bundles the presentation flags of the route command.
type routeOutput struct {
	noCache     bool
	asJSON      bool
	interactive bool
}

// runRoute executes the routing pipeline and prints the result.
func (c *CLI) runRoute(cmd *cobra.Command, opts pipeline.Options, out routeOutput) error {
	ctx := cmd.Context()

	runner, err := c.newRunner(ctx, out.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close(ctx)

	spinner := newSpinnerWithContext(ctx, "Finding route...")
	spinner.Start()

	result, err := runner.Route(ctx, opts)
	if err != nil {
		spinner.Stop()
		if errors.Is(err, errors.ErrCodeNoRoute) || errors.Is(err, errors.ErrCodeNodeNotFound) {
			printError("No route from %d to %d", opts.StartID, opts.GoalID)
			printDetail("%s", errors.UserMessage(err))
			os.Exit(2)
		}
		return err
	}
	spinner.Stop()

	if out.asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	if out.interactive {
		return runInteractive(result.Instructions)
	}

	printSuccess("Route from %d to %d: %.0f m, %d stops",
		opts.StartID, opts.GoalID, result.CostMeters, len(result.RouteIDs))
	printStats(result.Stats.NodeCount, result.Stats.ArcCount, result.CacheInfo.RouteHit)
	if result.Stats.DroppedNodes > 0 || result.Stats.DroppedEdges > 0 {
		printWarning("Dropped %d node and %d edge records while parsing the map",
			result.Stats.DroppedNodes, result.Stats.DroppedEdges)
	}

	printNewline()
	for i, text := range result.Instructions {
		printInstruction(i+1, text)
	}

	return nil
}
