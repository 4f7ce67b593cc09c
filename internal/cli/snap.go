package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/wayfinder/pkg/geo"
	"github.com/matzehuels/wayfinder/pkg/pipeline"
)

// snapCommand creates the snap command.
func (c *CLI) snapCommand() *cobra.Command {
	var (
		venue    string
		position string
		routeStr string
		noCache  bool
	)

	cmd := &cobra.Command{
		Use:   "snap [map.json]",
		Short: "Snap a live position onto a computed route",
		Long: `Project a reported position onto the geometry of a route.

The position is given as "lon,lat" and the route as the comma-separated
node ids produced by the route command. The output is the closest point
on the route, suitable for drawing a position marker on a map.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pos, err := parseCoordinate(position)
			if err != nil {
				return err
			}
			ids, err := parseIDList(routeStr)
			if err != nil {
				return err
			}

			opts := pipeline.SnapOptions{
				Options:  pipeline.Options{Venue: venue, Logger: c.Logger},
				Position: pos,
				RouteIDs: ids,
			}
			if len(args) > 0 {
				opts.MapPath = args[0]
			}
			return c.runSnap(cmd, opts, noCache)
		},
	}

	cmd.Flags().StringVar(&venue, "venue", "", "venue name in the configured map store")
	cmd.Flags().StringVar(&position, "position", "", `reported position as "lon,lat"`)
	cmd.Flags().StringVar(&routeStr, "route", "", "route node ids, comma-separated")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	_ = cmd.MarkFlagRequired("position")
	_ = cmd.MarkFlagRequired("route")

	return cmd
}

// runSnap executes the snap pipeline and prints the result.
func (c *CLI) runSnap(cmd *cobra.Command, opts pipeline.SnapOptions, noCache bool) error {
	ctx := cmd.Context()

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close(ctx)

	p := newProgress(c.Logger)
	snapped, ok, err := runner.Snap(ctx, opts)
	if err != nil {
		return err
	}
	p.done("Snapped position")

	if !ok {
		printWarning("Route has no usable geometry; position left unchanged")
		return nil
	}

	printSuccess("Snapped to route")
	printKeyValue("lon", strconv.FormatFloat(snapped.Lon, 'f', -1, 64))
	printKeyValue("lat", strconv.FormatFloat(snapped.Lat, 'f', -1, 64))
	return nil
}

// parseCoordinate parses a "lon,lat" pair.
func parseCoordinate(s string) (geo.Coordinate, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return geo.Coordinate{}, fmt.Errorf("invalid position %q (expected \"lon,lat\")", s)
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return geo.Coordinate{}, fmt.Errorf("invalid longitude %q: %w", parts[0], err)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return geo.Coordinate{}, fmt.Errorf("invalid latitude %q: %w", parts[1], err)
	}
	return geo.Coordinate{Lon: lon, Lat: lat}, nil
}

// parseIDList parses a comma-separated list of node ids.
func parseIDList(s string) ([]int64, error) {
	parts := strings.Split(s, ",")
	ids := make([]int64, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		id, err := strconv.ParseInt(p, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid node id %q: %w", p, err)
		}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("route must contain at least one node id")
	}
	return ids, nil
}
