package life

import (
	"slices"
	"testing"

	"ndlife/pkg/core"
)

func TestKernelSizes(t *testing.T) {
	for dims, want := range map[int]int{1: 2, 2: 8, 3: 26, 4: 80} {
		k := NewKernel(dims)
		if k.Size() != want || k.Dims() != dims {
			t.Errorf("kernel(%d) size=%d dims=%d, want size %d", dims, k.Size(), k.Dims(), want)
		}
		for _, off := range k.Offsets() {
			zero := true
			for _, v := range off {
				if v < -1 || v > 1 {
					t.Fatalf("offset %v outside Chebyshev distance 1", off)
				}
				if v != 0 {
					zero = false
				}
			}
			if zero {
				t.Fatalf("kernel(%d) contains the origin", dims)
			}
		}
	}
}

func TestCountNeighborsCornerTopology(t *testing.T) {
	const n = 6
	cells := make([]bool, n*n)
	cells[0] = true
	shape := []int{n, n}
	before := slices.Clone(cells)

	wrap := CountNeighbors(cells, shape, Wrap)
	bounded := CountNeighbors(cells, shape, Bounded)

	if !slices.Equal(cells, before) {
		t.Fatal("CountNeighbors mutated its input")
	}

	opposite := n*n - 1
	if wrap[opposite] != 1 {
		t.Fatalf("wrap: opposite corner count = %d, want 1", wrap[opposite])
	}
	if bounded[opposite] != 0 {
		t.Fatalf("bounded: opposite corner count = %d, want 0", bounded[opposite])
	}
	if bounded[opposite] >= wrap[opposite] {
		t.Fatal("bounded topology must see fewer neighbors at the opposite corner")
	}

	// Cells touching the corner directly see it under both topologies.
	for _, idx := range []int{1, n, n + 1} {
		if wrap[idx] != 1 || bounded[idx] != 1 {
			t.Fatalf("cell %d: wrap=%d bounded=%d, want 1/1", idx, wrap[idx], bounded[idx])
		}
	}
	// Wrap-only neighbors along the far edges.
	for _, idx := range []int{n - 1, (n - 1) * n, n + n - 1} {
		if wrap[idx] != 1 || bounded[idx] != 0 {
			t.Fatalf("cell %d: wrap=%d bounded=%d, want 1/0", idx, wrap[idx], bounded[idx])
		}
	}
	if wrap[0] != 0 || bounded[0] != 0 {
		t.Fatal("a cell must not count itself")
	}
}

func TestCountNeighborsFullGrid(t *testing.T) {
	shape := []int{4, 5}
	cells := make([]bool, 20)
	for i := range cells {
		cells[i] = true
	}
	for i, c := range CountNeighbors(cells, shape, Wrap) {
		if c != 8 {
			t.Fatalf("wrap cell %d = %d, want 8", i, c)
		}
	}
	bounded := CountNeighbors(cells, shape, Bounded)
	want := []uint8{
		3, 5, 5, 5, 3,
		5, 8, 8, 8, 5,
		5, 8, 8, 8, 5,
		3, 5, 5, 5, 3,
	}
	if !slices.Equal(bounded, want) {
		t.Fatalf("bounded counts = %v, want %v", bounded, want)
	}
}

func TestCountNeighbors3D(t *testing.T) {
	shape := []int{3, 3, 3}
	cells := make([]bool, 27)
	cells[13] = true // centre
	counts := CountNeighbors(cells, shape, Wrap)
	for i, c := range counts {
		want := uint8(1)
		if i == 13 {
			want = 0
		}
		if c != want {
			t.Fatalf("cell %d = %d, want %d", i, c, want)
		}
	}

	shape = []int{4, 4, 4}
	cells = make([]bool, 64)
	cells[0] = true
	counts = CountNeighbors(cells, shape, Bounded)
	for z := 0; z < 4; z++ {
		for y := 0; y < 4; y++ {
			for x := 0; x < 4; x++ {
				want := uint8(0)
				if z <= 1 && y <= 1 && x <= 1 && (z|y|x) != 0 {
					want = 1
				}
				if got := counts[z*16+y*4+x]; got != want {
					t.Fatalf("(%d,%d,%d) = %d, want %d", z, y, x, got, want)
				}
			}
		}
	}
	wrapped := CountNeighbors(cells, shape, Wrap)
	if wrapped[63] != 1 {
		t.Fatalf("wrap: far corner = %d, want 1", wrapped[63])
	}
}

// naiveCount is a direct reference implementation for 2D grids.
func naiveCount(cells []bool, w, h int, topo Topology) []uint8 {
	out := make([]uint8, len(cells))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			n := 0
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					if dx == 0 && dy == 0 {
						continue
					}
					nx, ny := x+dx, y+dy
					if topo == Bounded && (nx < 0 || ny < 0 || nx >= w || ny >= h) {
						continue
					}
					nx = (nx + w) % w
					ny = (ny + h) % h
					if cells[ny*w+nx] {
						n++
					}
				}
			}
			out[y*w+x] = uint8(n)
		}
	}
	return out
}

func TestCountNeighborsLargeGridMatchesReference(t *testing.T) {
	const w, h = 300, 211
	cells := make([]bool, w*h)
	core.FillBool(core.NewRNG(3).Source(), cells)
	for _, topo := range []Topology{Wrap, Bounded} {
		got := CountNeighbors(cells, []int{h, w}, topo)
		want := naiveCount(cells, w, h, topo)
		if !slices.Equal(got, want) {
			t.Fatalf("%v: parallel counts differ from reference", topo)
		}
	}
}

func TestCountNeighborsNDMatches2D(t *testing.T) {
	const w, h = 17, 9
	cells := make([]bool, w*h)
	core.FillBool(core.NewRNG(11).Source(), cells)
	for _, topo := range []Topology{Wrap, Bounded} {
		nd := make([]uint8, len(cells))
		countND(nd, cells, []int{h, w}, topo, 0, len(cells))
		if !slices.Equal(nd, naiveCount(cells, w, h, topo)) {
			t.Fatalf("%v: generic counter disagrees with 2D reference", topo)
		}
	}
}

func TestCountNeighborsPanicsOnShapeMismatch(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	CountNeighbors(make([]bool, 5), []int{2, 2}, Wrap)
}
