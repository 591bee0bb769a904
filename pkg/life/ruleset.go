package life

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// MaxDims is the highest grid dimensionality supported. Neighbor counts for
// 5 dimensions top out at 242 and still fit in a byte.
const MaxDims = 5

// Ruleset is an immutable birth/death rule plus boundary topology.
//
// Membership is stored as lookup tables indexed by neighbor count, so a
// Ruleset may be shared freely between states and goroutines.
type Ruleset struct {
	dims     int
	birth    []bool
	death    []bool
	topology Topology
}

// NewRuleset builds a two-dimensional ruleset. birth lists the neighbor
// counts at which a dead cell comes alive, death the counts at which a live
// cell dies. Either list may be empty.
func NewRuleset(birth, death []int, topo Topology) (*Ruleset, error) {
	return NewRulesetND(2, birth, death, topo)
}

// NewRulesetND builds a ruleset for grids with the given number of axes.
func NewRulesetND(dims int, birth, death []int, topo Topology) (*Ruleset, error) {
	if dims < 1 || dims > MaxDims {
		return nil, fmt.Errorf("%w: dimensions %d outside [1, %d]", ErrInvalidArgument, dims, MaxDims)
	}
	if topo != Wrap && topo != Bounded {
		return nil, fmt.Errorf("%w: unknown topology %d", ErrInvalidArgument, uint8(topo))
	}
	maxN := kernelSize(dims)
	b, err := countTable("birth", birth, maxN)
	if err != nil {
		return nil, err
	}
	d, err := countTable("death", death, maxN)
	if err != nil {
		return nil, err
	}
	return &Ruleset{dims: dims, birth: b, death: d, topology: topo}, nil
}

// Classic returns Conway's rule B3/S23: a dead cell with exactly three live
// neighbors is born, a live cell survives with two or three.
func Classic(topo Topology) *Ruleset {
	r, err := NewRuleset([]int{3}, []int{0, 1, 4, 5, 6, 7, 8}, topo)
	if err != nil {
		panic(err)
	}
	return r
}

// ParseRule parses a 2D rule in B/S notation such as "B3/S23" or "B36/S23".
// The S part lists survival counts; every other count kills a live cell.
// "classic" and "life" are accepted as aliases for B3/S23.
func ParseRule(s string, topo Topology) (*Ruleset, error) {
	spec := strings.ToUpper(strings.TrimSpace(s))
	switch spec {
	case "CLASSIC", "LIFE", "CONWAY":
		return Classic(topo), nil
	}
	parts := strings.Split(spec, "/")
	if len(parts) != 2 {
		return nil, fmt.Errorf("%w: %q is not in B/S notation", ErrInvalidRule, s)
	}
	var birth, survive []int
	var seenB, seenS bool
	for _, part := range parts {
		if part == "" {
			return nil, fmt.Errorf("%w: %q has an empty section", ErrInvalidRule, s)
		}
		counts, err := parseDigits(part[1:])
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %v", ErrInvalidRule, s, err)
		}
		switch part[0] {
		case 'B':
			if seenB {
				return nil, fmt.Errorf("%w: %q repeats the B section", ErrInvalidRule, s)
			}
			seenB, birth = true, counts
		case 'S':
			if seenS {
				return nil, fmt.Errorf("%w: %q repeats the S section", ErrInvalidRule, s)
			}
			seenS, survive = true, counts
		default:
			return nil, fmt.Errorf("%w: %q section %q must start with B or S", ErrInvalidRule, s, part)
		}
	}
	if _, err := countTable("survival", survive, kernelSize(2)); err != nil {
		return nil, err
	}
	var death []int
	for n := 0; n <= kernelSize(2); n++ {
		if !slices.Contains(survive, n) {
			death = append(death, n)
		}
	}
	return NewRuleset(birth, death, topo)
}

func parseDigits(s string) ([]int, error) {
	out := make([]int, 0, len(s))
	for _, r := range s {
		if r < '0' || r > '9' {
			return nil, fmt.Errorf("unexpected character %q", r)
		}
		out = append(out, int(r-'0'))
	}
	return out, nil
}

func countTable(name string, counts []int, maxN int) ([]bool, error) {
	table := make([]bool, maxN+1)
	for _, n := range counts {
		if n < 0 || n > maxN {
			return nil, fmt.Errorf("%w: %s count %d outside [0, %d]", ErrInvalidRule, name, n, maxN)
		}
		if table[n] {
			return nil, fmt.Errorf("%w: duplicate %s count %d", ErrInvalidRule, name, n)
		}
		table[n] = true
	}
	return table, nil
}

// kernelSize returns the Moore neighborhood size 3^dims - 1.
func kernelSize(dims int) int {
	n := 1
	for i := 0; i < dims; i++ {
		n *= 3
	}
	return n - 1
}

// Dims returns the grid dimensionality the rule applies to.
func (r *Ruleset) Dims() int { return r.dims }

// Topology returns the boundary mode.
func (r *Ruleset) Topology() Topology { return r.topology }

// MaxNeighbors returns the largest possible neighbor count.
func (r *Ruleset) MaxNeighbors() int { return len(r.birth) - 1 }

// Born reports whether a dead cell with n live neighbors comes alive.
func (r *Ruleset) Born(n int) bool { return n >= 0 && n < len(r.birth) && r.birth[n] }

// Dies reports whether a live cell with n live neighbors dies.
func (r *Ruleset) Dies(n int) bool { return n >= 0 && n < len(r.death) && r.death[n] }

// BirthCounts returns the sorted birth counts.
func (r *Ruleset) BirthCounts() []int { return tableCounts(r.birth) }

// DeathCounts returns the sorted death counts.
func (r *Ruleset) DeathCounts() []int { return tableCounts(r.death) }

func tableCounts(table []bool) []int {
	var out []int
	for n, set := range table {
		if set {
			out = append(out, n)
		}
	}
	return out
}

// Equal reports whether both rulesets describe the same rule and topology.
func (r *Ruleset) Equal(o *Ruleset) bool {
	if r == nil || o == nil {
		return r == o
	}
	return r.dims == o.dims && r.topology == o.topology &&
		slices.Equal(r.birth, o.birth) && slices.Equal(r.death, o.death)
}

// String formats the rule in B/S notation followed by the topology,
// e.g. "B3/S23 wrap".
func (r *Ruleset) String() string {
	var survive []int
	for n := range r.death {
		if !r.death[n] {
			survive = append(survive, n)
		}
	}
	sep := ""
	if r.MaxNeighbors() > 9 {
		sep = ","
	}
	return "B" + joinCounts(r.BirthCounts(), sep) + "/S" + joinCounts(survive, sep) + " " + r.topology.String()
}

func joinCounts(counts []int, sep string) string {
	parts := make([]string, len(counts))
	for i, n := range counts {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, sep)
}
