package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/wayfinder/pkg/pipeline"
	"github.com/matzehuels/wayfinder/pkg/render"
)

// graphCommand creates the graph inspection command.
func (c *CLI) graphCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Inspect and visualize venue routing graphs",
	}

	cmd.AddCommand(c.graphStatsCommand())
	cmd.AddCommand(c.graphRenderCommand())

	return cmd
}

// graphStatsCommand creates the "graph stats" subcommand.
func (c *CLI) graphStatsCommand() *cobra.Command {
	var (
		venue   string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "stats [map.json]",
		Short: "Print routing graph statistics for a venue map",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			opts := pipeline.Options{Venue: venue, Logger: c.Logger}
			if len(args) > 0 {
				opts.MapPath = args[0]
			}

			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close(ctx)

			build, err := runner.Build(ctx, opts)
			if err != nil {
				return err
			}

			printKeyValue("nodes", fmt.Sprintf("%d", build.Graph.NodeCount()))
			printKeyValue("arcs", fmt.Sprintf("%d", build.Graph.ArcCount()))
			printKeyValue("components", fmt.Sprintf("%d", build.Graph.Components()))
			printKeyValue("map hash", build.MapHash[:12])
			if build.DroppedNodes > 0 || build.DroppedEdges > 0 {
				printWarning("Dropped %d node and %d edge records while parsing the map",
					build.DroppedNodes, build.DroppedEdges)
			}
			if components := build.Graph.Components(); components > 1 {
				printWarning("Graph has %d disconnected components; some routes will not exist", components)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&venue, "venue", "", "venue name in the configured map store")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

// graphRenderCommand creates the "graph render" subcommand.
func (c *CLI) graphRenderCommand() *cobra.Command {
	var (
		venue    string
		output   string
		format   string
		detailed bool
		noCache  bool
	)

	cmd := &cobra.Command{
		Use:   "render [map.json]",
		Short: "Render the routing graph as DOT or SVG",
		Long: `Render a venue's routing graph for visual inspection.

Nodes are colored by feature type (stairs, lifts, entrances). Use
--detailed to include node ids, levels and arc distances.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			opts := pipeline.Options{Venue: venue, Logger: c.Logger}
			if len(args) > 0 {
				opts.MapPath = args[0]
			}
			if format != "dot" && format != "svg" {
				return fmt.Errorf("invalid format %q (must be dot or svg)", format)
			}

			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close(ctx)

			build, err := runner.Build(ctx, opts)
			if err != nil {
				return err
			}

			dot := render.ToDOT(build.Graph, render.Options{Detailed: detailed})

			var data []byte
			switch format {
			case "dot":
				data = []byte(dot)
			case "svg":
				spinner := newSpinnerWithContext(ctx, "Rendering graph...")
				spinner.Start()
				data, err = render.RenderSVG(dot)
				if err != nil {
					spinner.StopWithError("Rendering failed")
					return err
				}
				spinner.Stop()
			}

			if output == "" {
				output = defaultOutputName(opts.MapPath, format)
			}
			if err := os.WriteFile(output, data, 0644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}

			printSuccess("Rendered graph")
			printFile(output)
			return nil
		},
	}

	cmd.Flags().StringVar(&venue, "venue", "", "venue name in the configured map store")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file")
	cmd.Flags().StringVarP(&format, "format", "f", "svg", "output format: svg (default), dot")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "include ids, levels and distances in labels")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

// defaultOutputName derives an output filename from the map path.
func defaultOutputName(mapPath, format string) string {
	base := "graph"
	if mapPath != "" {
		base = strings.TrimSuffix(mapPath, ".json")
	}
	return base + "." + format
}
