package core

// Size describes the dimensions of a two-dimensional grid.
type Size struct {
	W int
	H int
}

// Area returns W*H.
func (s Size) Area() int { return s.W * s.H }

// Scale multiplies both dimensions by f.
func (s Size) Scale(f int) Size { return Size{W: s.W * f, H: s.H * f} }
