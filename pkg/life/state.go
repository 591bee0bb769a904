package life

import (
	"fmt"
	"math"
	"math/rand/v2"
	"slices"
	"strings"

	"ndlife/pkg/core"
)

// State is an immutable snapshot of the grid and the rule that governs it.
// Cells are stored row-major with the last axis varying fastest, so for a
// 2D grid shape is (rows, columns).
type State struct {
	shape      []int
	cells      []bool
	rules      *Ruleset
	generation int
}

// NewState validates shape against rules and copies cells into a new State.
func NewState(rules *Ruleset, shape []int, cells []bool) (*State, error) {
	total, err := validateShape(rules, shape)
	if err != nil {
		return nil, err
	}
	if len(cells) != total {
		return nil, fmt.Errorf("%w: %d cells for shape %v (want %d)", ErrInvalidArgument, len(cells), shape, total)
	}
	return &State{shape: slices.Clone(shape), cells: slices.Clone(cells), rules: rules}, nil
}

func validateShape(rules *Ruleset, shape []int) (int, error) {
	if rules == nil {
		return 0, fmt.Errorf("%w: nil ruleset", ErrInvalidArgument)
	}
	if len(shape) != rules.Dims() {
		return 0, fmt.Errorf("%w: shape %v has %d axes, rule expects %d", ErrInvalidArgument, shape, len(shape), rules.Dims())
	}
	total := 1
	for _, s := range shape {
		if s <= 0 {
			return 0, fmt.Errorf("%w: shape %v has a non-positive axis", ErrInvalidArgument, shape)
		}
		if total > math.MaxInt/s {
			return 0, fmt.Errorf("%w: shape %v has too many cells", ErrInvalidArgument, shape)
		}
		total *= s
	}
	return total, nil
}

// FromRows builds a 2D state from a slice of equally long rows.
func FromRows(rules *Ruleset, rows [][]bool) (*State, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: no rows", ErrInvalidArgument)
	}
	w := len(rows[0])
	cells := make([]bool, 0, w*len(rows))
	for y, row := range rows {
		if len(row) != w {
			return nil, fmt.Errorf("%w: row %d has %d cells, want %d", ErrInvalidArgument, y, len(row), w)
		}
		cells = append(cells, row...)
	}
	return NewState(rules, []int{len(rows), w}, cells)
}

// FromPattern builds a 2D state from text rows where '#', 'O', '*' and '1'
// mark live cells and '.', '0', '_' or a space mark dead ones.
func FromPattern(rules *Ruleset, rows ...string) (*State, error) {
	grid := make([][]bool, len(rows))
	for y, row := range rows {
		grid[y] = make([]bool, 0, len(row))
		for _, r := range row {
			switch r {
			case '#', 'O', 'o', '*', '1':
				grid[y] = append(grid[y], true)
			case '.', '0', '_', ' ':
				grid[y] = append(grid[y], false)
			default:
				return nil, fmt.Errorf("%w: unexpected pattern character %q in row %d", ErrInvalidArgument, r, y)
			}
		}
	}
	return FromRows(rules, grid)
}

// Random fills a state of the given shape with uniform independent cells.
func Random(rules *Ruleset, shape []int, rng *rand.Rand) (*State, error) {
	total, err := validateShape(rules, shape)
	if err != nil {
		return nil, err
	}
	cells := make([]bool, total)
	core.FillBool(rng, cells)
	return &State{shape: slices.Clone(shape), cells: cells, rules: rules}, nil
}

// RandomSeeded is Random with a deterministic generator derived from seed.
func RandomSeeded(rules *Ruleset, shape []int, seed int64) (*State, error) {
	return Random(rules, shape, core.NewRNG(seed).Source())
}

// Shape returns a copy of the grid shape.
func (s *State) Shape() []int { return slices.Clone(s.shape) }

// Size returns the 2D grid dimensions. W and H are zero for other ranks.
func (s *State) Size() core.Size {
	if len(s.shape) != 2 {
		return core.Size{}
	}
	return core.Size{W: s.shape[1], H: s.shape[0]}
}

// Rules returns the governing ruleset.
func (s *State) Rules() *Ruleset { return s.rules }

// Generation counts the steps taken since the state was constructed.
func (s *State) Generation() int { return s.generation }

// Len returns the number of cells.
func (s *State) Len() int { return len(s.cells) }

// Cells returns a copy of the row-major cell values.
func (s *State) Cells() []bool { return slices.Clone(s.cells) }

// Alive reports the value of the cell at coords. It panics when coords are
// out of range, like an index expression.
func (s *State) Alive(coords ...int) bool {
	if len(coords) != len(s.shape) {
		panic(fmt.Sprintf("life: %d coordinates for a %d-dimensional grid", len(coords), len(s.shape)))
	}
	idx := 0
	for a, c := range coords {
		if c < 0 || c >= s.shape[a] {
			panic(fmt.Sprintf("life: coordinate %v out of range for shape %v", coords, s.shape))
		}
		idx = idx*s.shape[a] + c
	}
	return s.cells[idx]
}

// Population returns the number of live cells.
func (s *State) Population() int {
	n := 0
	for _, c := range s.cells {
		if c {
			n++
		}
	}
	return n
}

// Equal reports whether both states have the same shape and cells.
func (s *State) Equal(o *State) bool {
	if s == nil || o == nil {
		return s == o
	}
	return slices.Equal(s.shape, o.shape) && slices.Equal(s.cells, o.cells)
}

// Neighbors returns the live neighbor count of every cell.
func (s *State) Neighbors() []uint8 {
	return CountNeighbors(s.cells, s.shape, s.rules.topology)
}

// Step computes the next generation. The receiver is left untouched.
func (s *State) Step() *State {
	counts := s.Neighbors()
	next := make([]bool, len(s.cells))
	for i, alive := range s.cells {
		n := counts[i]
		if alive {
			next[i] = !s.rules.death[n]
		} else {
			next[i] = s.rules.birth[n]
		}
	}
	return &State{shape: s.shape, cells: next, rules: s.rules, generation: s.generation + 1}
}

// After returns the state n generations later.
func (s *State) After(n int) (*State, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: negative step count %d", ErrInvalidArgument, n)
	}
	cur := s
	for i := 0; i < n; i++ {
		cur = cur.Step()
	}
	return cur, nil
}

// String draws a 2D state with '#' for live and '.' for dead cells, one row
// per line. Other ranks print a summary.
func (s *State) String() string {
	if len(s.shape) != 2 {
		return fmt.Sprintf("State(shape=%v, population=%d)", s.shape, s.Population())
	}
	w, h := s.shape[1], s.shape[0]
	var b strings.Builder
	b.Grow((w + 1) * h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if s.cells[y*w+x] {
				b.WriteByte('#')
			} else {
				b.WriteByte('.')
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}
