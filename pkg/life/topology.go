package life

import (
	"fmt"
	"strings"
)

// Topology selects how neighbor coordinates beyond the grid edge resolve.
type Topology uint8

const (
	// Wrap treats every axis as cyclic (toroidal grid).
	Wrap Topology = iota
	// Bounded treats cells beyond the edge as permanently dead.
	Bounded
)

func (t Topology) String() string {
	switch t {
	case Wrap:
		return "wrap"
	case Bounded:
		return "bounded"
	default:
		return fmt.Sprintf("Topology(%d)", uint8(t))
	}
}

// ParseTopology maps a topology name to its value.
func ParseTopology(s string) (Topology, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "wrap", "toroidal", "torus":
		return Wrap, nil
	case "bounded", "constant", "dead":
		return Bounded, nil
	}
	return Wrap, fmt.Errorf("%w: unknown topology %q", ErrInvalidArgument, s)
}
