package route

import (
	"fmt"
	"math"

	"github.com/matzehuels/wayfinder/pkg/feature"
	"github.com/matzehuels/wayfinder/pkg/geo"
	"github.com/matzehuels/wayfinder/pkg/graph"
)

// turnThreshold is the minimum absolute turn angle in degrees at a
// junction node before a turn instruction is emitted.
const turnThreshold = 45.0

// Instructions converts a route into turn-by-turn text.
//
// A single-node route yields one arrival instruction. Longer routes
// open with a "head towards" instruction for the second node and close
// with an arrival instruction for the last. Interior nodes contribute
// at most one instruction each:
//
//   - a turn instruction when the node is a junction and the signed
//     turn angle between incoming and outgoing bearing exceeds 45°, or
//   - a type-transition instruction when the next node's type differs
//     and is known (stairs, lift, exit). The transition wins when both
//     apply.
//
// An instruction identical to the immediately preceding one is
// suppressed. Returns nil for an empty route.
func Instructions(r Route) []string {
	if len(r) == 0 {
		return nil
	}

	last := r[len(r)-1]
	arrival := fmt.Sprintf("You have reached your destination: %s.", last.DisplayName())

	if len(r) == 1 {
		return []string{arrival}
	}

	out := []string{fmt.Sprintf("Start by heading towards %s.", r[1].DisplayName())}
	emit := func(s string) {
		if s != out[len(out)-1] {
			out = append(out, s)
		}
	}

	for i := 1; i+1 < len(r); i++ {
		node, next := r[i], r[i+1]

		var staged string
		if node.Type == feature.TypeJunction {
			in := geo.Bearing(r[i-1].Coordinate, node.Coordinate)
			outBearing := geo.Bearing(node.Coordinate, next.Coordinate)
			if turn := geo.TurnAngle(in, outBearing); math.Abs(turn) > turnThreshold {
				staged = turnInstruction(turn, node)
			}
		}
		if node.Type != next.Type && next.Type.Known() {
			// Transitions outrank turns at the same node.
			staged = transitionInstruction(next)
		}
		if staged != "" {
			emit(staged)
		}
	}

	emit(arrival)
	return out
}

// turnInstruction phrases a junction turn. Positive angles turn right,
// negative turn left.
func turnInstruction(turn float64, node *graph.Node) string {
	direction := "right"
	if turn < 0 {
		direction = "left"
	}
	if node.Name != "" {
		return fmt.Sprintf("Turn %s at %s.", direction, node.Name)
	}
	return fmt.Sprintf("Turn %s.", direction)
}

// transitionInstruction phrases the approach to the next node based on
// its type. The fixed lookup covers stairs, lifts and exits; any other
// known type falls back to a generic continue instruction.
func transitionInstruction(next *graph.Node) string {
	name := next.DisplayName()
	switch next.Type {
	case feature.TypeStairsUp:
		return fmt.Sprintf("Head to %s and climb up.", name)
	case feature.TypeStairsDown:
		return fmt.Sprintf("Head to %s and descend.", name)
	case feature.TypeLiftUp:
		return fmt.Sprintf("Take %s up.", name)
	case feature.TypeLiftDown:
		return fmt.Sprintf("Take %s down.", name)
	case feature.TypeEntry:
		return fmt.Sprintf("Proceed to %s.", name)
	default:
		return fmt.Sprintf("Continue towards %s.", name)
	}
}
