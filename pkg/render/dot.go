// Package render converts facility graphs to Graphviz DOT and renders
// them to SVG. Visualization is a debugging aid: it makes disconnected
// components and mis-parsed edges visible at a glance.
package render

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/wayfinder/pkg/feature"
	"github.com/matzehuels/wayfinder/pkg/graph"
)

// Options configures graph rendering.
type Options struct {
	// Detailed includes node ids, levels and arc weights in labels.
	// When false, only display names are shown.
	Detailed bool

	// Highlight marks the nodes of a computed route. Highlighted nodes
	// and the arcs between consecutive highlighted nodes are drawn in red.
	Highlight []int64
}

// fillColors maps feature types to Graphviz fill colors so stairs,
// lifts and entrances stand out from plain waypoints.
var fillColors = map[feature.Type]string{
	feature.TypeJunction:   "lightyellow",
	feature.TypeStairsUp:   "lightblue",
	feature.TypeStairsDown: "lightblue",
	feature.TypeLiftUp:     "lightgreen",
	feature.TypeLiftDown:   "lightgreen",
	feature.TypeEntry:      "orange",
}

// ToDOT converts a facility graph to Graphviz DOT format.
// The resulting DOT string can be rendered using [RenderSVG].
//
// Nodes are colored by feature type. Arcs carry their walking distance
// in meters as an edge label when [Options.Detailed] is set.
func ToDOT(g *graph.Graph, opts Options) string {
	highlighted := make(map[int64]bool, len(opts.Highlight))
	onRoute := make(map[[2]int64]bool)
	for i, id := range opts.Highlight {
		highlighted[id] = true
		if i > 0 {
			onRoute[[2]int64{opts.Highlight[i-1], id}] = true
		}
	}

	var buf bytes.Buffer
	buf.WriteString("digraph facility {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("\n")

	nodes := g.Nodes()
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].ID < nodes[j].ID })

	for _, n := range nodes {
		attrs := nodeAttrs(n, opts.Detailed, highlighted[n.ID])
		fmt.Fprintf(&buf, "  %d [%s];\n", n.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, n := range nodes {
		for _, a := range n.Arcs {
			attrs := arcAttrs(a, opts.Detailed, onRoute[[2]int64{n.ID, a.To.ID}])
			if len(attrs) == 0 {
				fmt.Fprintf(&buf, "  %d -> %d;\n", n.ID, a.To.ID)
				continue
			}
			fmt.Fprintf(&buf, "  %d -> %d [%s];\n", n.ID, a.To.ID, strings.Join(attrs, ", "))
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeAttrs(n *graph.Node, detailed, highlighted bool) []string {
	label := n.Name
	if label == "" {
		label = fmt.Sprintf("#%d", n.ID)
	}
	if detailed {
		parts := []string{fmt.Sprintf("id: %d", n.ID)}
		if n.Type != feature.TypeNone {
			parts = append(parts, fmt.Sprintf("type: %s", n.Type))
		}
		parts = append(parts, fmt.Sprintf("level: %d", n.Level))
		label = label + "\n" + strings.Join(parts, "\n")
	}

	attrs := []string{fmt.Sprintf("label=%q", label)}
	if fill, ok := fillColors[n.Type]; ok {
		attrs = append(attrs, fmt.Sprintf("fillcolor=%s", fill))
	}
	if highlighted {
		attrs = append(attrs, "color=red", "penwidth=2")
	}
	return attrs
}

func arcAttrs(a graph.Arc, detailed, onRoute bool) []string {
	var attrs []string
	if detailed {
		attrs = append(attrs, fmt.Sprintf("label=\"%.0fm\"", a.Weight))
	}
	if onRoute {
		attrs = append(attrs, "color=red", "penwidth=2")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the SVG root element so the viewBox starts
// at the origin. Graphviz emits offset viewBoxes that confuse some
// browsers when the SVG is embedded.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
