package life

import (
	"fmt"
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// parallelThreshold is the cell count above which counting fans out across
// goroutines.
const parallelThreshold = 1 << 15

// Kernel is the Moore neighborhood for a given dimensionality: every offset
// in {-1,0,1}^dims except the origin.
type Kernel struct {
	dims    int
	offsets [][]int
}

var kernels = func() [MaxDims + 1]Kernel {
	var ks [MaxDims + 1]Kernel
	for d := 1; d <= MaxDims; d++ {
		ks[d] = buildKernel(d)
	}
	return ks
}()

// NewKernel returns the Moore kernel for dims axes. It panics when dims is
// outside [1, MaxDims].
func NewKernel(dims int) Kernel {
	if dims < 1 || dims > MaxDims {
		panic(fmt.Sprintf("life: kernel dimensions %d outside [1, %d]", dims, MaxDims))
	}
	return kernels[dims]
}

func buildKernel(dims int) Kernel {
	k := Kernel{dims: dims}
	off := make([]int, dims)
	for i := range off {
		off[i] = -1
	}
	for {
		zero := true
		for _, v := range off {
			if v != 0 {
				zero = false
				break
			}
		}
		if !zero {
			k.offsets = append(k.offsets, append([]int(nil), off...))
		}
		a := dims - 1
		for a >= 0 {
			off[a]++
			if off[a] <= 1 {
				break
			}
			off[a] = -1
			a--
		}
		if a < 0 {
			return k
		}
	}
}

// Dims returns the kernel dimensionality.
func (k Kernel) Dims() int { return k.dims }

// Size returns the number of neighbors, 3^dims - 1.
func (k Kernel) Size() int { return len(k.offsets) }

// Offsets returns a copy of the neighbor offsets.
func (k Kernel) Offsets() [][]int {
	out := make([][]int, len(k.offsets))
	for i, o := range k.offsets {
		out[i] = append([]int(nil), o...)
	}
	return out
}

// CountNeighbors returns, for every cell of a row-major grid with the given
// shape, the number of live Moore neighbors under topo. Under Wrap neighbor
// coordinates are taken modulo the axis length; under Bounded coordinates
// outside the grid contribute nothing. The input is not modified.
//
// It panics if len(cells) does not match shape.
func CountNeighbors(cells []bool, shape []int, topo Topology) []uint8 {
	total := checkShape(len(cells), shape)
	dst := make([]uint8, total)
	if total == 0 {
		return dst
	}

	count := func(lo, hi int) {
		if len(shape) == 2 {
			count2D(dst, cells, shape[1], shape[0], topo, lo, hi)
			return
		}
		countND(dst, cells, shape, topo, lo, hi)
	}

	// 2D grids are split on row boundaries, everything else on flat index.
	unit := 1
	if len(shape) == 2 {
		unit = shape[1]
	}
	units := total / unit
	workers := runtime.GOMAXPROCS(0)
	if total < parallelThreshold || workers < 2 || units < 2 {
		count(0, units)
		return dst
	}
	if workers > units {
		workers = units
	}
	per := (units + workers - 1) / workers

	var eg errgroup.Group
	for lo := 0; lo < units; lo += per {
		hi := min(lo+per, units)
		eg.Go(func() error {
			count(lo, hi)
			return nil
		})
	}
	// count cannot fail; Wait only joins the workers.
	eg.Wait()
	return dst
}

func checkShape(n int, shape []int) int {
	if len(shape) < 1 || len(shape) > MaxDims {
		panic(fmt.Sprintf("life: shape %v has unsupported dimensionality", shape))
	}
	total := 1
	for _, s := range shape {
		if s <= 0 {
			panic(fmt.Sprintf("life: shape %v has a non-positive axis", shape))
		}
		if total > math.MaxInt/s {
			panic(fmt.Sprintf("life: shape %v has too many cells", shape))
		}
		total *= s
	}
	if total != n {
		panic(fmt.Sprintf("life: %d cells do not fill shape %v", n, shape))
	}
	return total
}

// count2D fills dst for rows [y0, y1).
func count2D(dst []uint8, cells []bool, w, h int, topo Topology, y0, y1 int) {
	for y := y0; y < y1; y++ {
		for x := 0; x < w; x++ {
			neighbors := 0
			for dy := -1; dy <= 1; dy++ {
				ny := y + dy
				if ny < 0 || ny >= h {
					if topo == Bounded {
						continue
					}
					ny = (ny + h) % h
				}
				for dx := -1; dx <= 1; dx++ {
					if dx == 0 && dy == 0 {
						continue
					}
					nx := x + dx
					if nx < 0 || nx >= w {
						if topo == Bounded {
							continue
						}
						nx = (nx + w) % w
					}
					if cells[ny*w+nx] {
						neighbors++
					}
				}
			}
			dst[y*w+x] = uint8(neighbors)
		}
	}
}

// countND fills dst for flat indices [lo, hi) of an arbitrary-rank grid.
func countND(dst []uint8, cells []bool, shape []int, topo Topology, lo, hi int) {
	dims := len(shape)
	kernel := kernels[dims]
	strides := make([]int, dims)
	stride := 1
	for a := dims - 1; a >= 0; a-- {
		strides[a] = stride
		stride *= shape[a]
	}

	coord := make([]int, dims)
	rem := lo
	for a := 0; a < dims; a++ {
		coord[a] = rem / strides[a]
		rem %= strides[a]
	}

	for idx := lo; idx < hi; idx++ {
		neighbors := 0
	offsets:
		for _, off := range kernel.offsets {
			nidx := 0
			for a, d := range off {
				c := coord[a] + d
				if c < 0 || c >= shape[a] {
					if topo == Bounded {
						continue offsets
					}
					c = (c + shape[a]) % shape[a]
				}
				nidx += c * strides[a]
			}
			if cells[nidx] {
				neighbors++
			}
		}
		dst[idx] = uint8(neighbors)

		for a := dims - 1; a >= 0; a-- {
			coord[a]++
			if coord[a] < shape[a] {
				break
			}
			coord[a] = 0
		}
	}
}
