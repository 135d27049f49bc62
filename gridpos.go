/*
Copyright © 2019 the InMAP authors.
This file is part of InMAP.

InMAP is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

InMAP is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with InMAP.  If not, see <http://www.gnu.org/licenses/>.
*/

package abslookup

import "sort"

// gridPos holds the grid points and Lagrange weights of a polynomial
// interpolation at a single position.
type gridPos struct {
	idx []int
	w   []float64
}

// unitPos selects the first point of an axis with weight one. It is used
// for axes that are absent from a table and must not be modified.
var unitPos = gridPos{idx: []int{0}, w: []float64{1}}

// newGridPos returns the order+1 points of grid that are used to
// interpolate to x, and their Lagrange weights. grid must be strictly
// increasing or strictly decreasing and have at least order+1 points.
// For an even number of points, x is centered between the two middle
// points; for an odd number, the middle point is the one closest to x.
// Near the ends of the grid the points are shifted inwards, so x may also
// be outside of the grid, in which case the polynomial is extrapolated.
func newGridPos(grid []float64, x float64, order int) gridPos {
	n := len(grid)
	m := order + 1
	if n == 1 {
		return gridPos{idx: []int{0}, w: []float64{1}}
	}

	i := intervalIndex(grid, x)
	fd := (x - grid[i]) / (grid[i+1] - grid[i])

	k := i
	if m%2 == 0 {
		k -= m/2 - 1
	} else {
		k -= (m - 1) / 2
		if fd >= 0.5 {
			k++
		}
	}
	if k > n-m {
		k = n - m
	}
	if k < 0 {
		k = 0
	}

	gp := gridPos{idx: make([]int, m), w: make([]float64, m)}
	for j := range gp.idx {
		gp.idx[j] = k + j
	}
	lagrangeWeights(gp.w, grid[k:k+m], x)
	return gp
}

// intervalIndex returns i such that x is between grid[i] and grid[i+1],
// limited to the first and last interval.
func intervalIndex(grid []float64, x float64) int {
	n := len(grid)
	var j int
	if grid[n-1] > grid[0] {
		j = sort.Search(n, func(j int) bool { return grid[j] > x })
	} else {
		j = sort.Search(n, func(j int) bool { return grid[j] < x })
	}
	i := j - 1
	if i > n-2 {
		i = n - 2
	}
	if i < 0 {
		i = 0
	}
	return i
}

// lagrangeWeights sets w to the Lagrange basis polynomials of nodes
// evaluated at x.
func lagrangeWeights(w, nodes []float64, x float64) {
	for j, xj := range nodes {
		wj := 1.0
		for l, xl := range nodes {
			if l != j {
				wj *= (x - xl) / (xj - xl)
			}
		}
		w[j] = wj
	}
}

// halfBinRange returns the range covered by grid extended at each end by
// half of the adjacent grid spacing. grid must be sorted in either
// direction.
func halfBinRange(grid []float64) (lo, hi float64) {
	n := len(grid)
	if n == 1 {
		return grid[0], grid[0]
	}
	a := grid[0] - 0.5*(grid[1]-grid[0])
	b := grid[n-1] + 0.5*(grid[n-1]-grid[n-2])
	if a > b {
		return b, a
	}
	return a, b
}

// gridRange returns the smallest and largest values of sorted grid.
func gridRange(grid []float64) (lo, hi float64) {
	lo, hi = grid[0], grid[len(grid)-1]
	if lo > hi {
		return hi, lo
	}
	return lo, hi
}
