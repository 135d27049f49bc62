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

import "math"

// FrequencyTolerance is the maximum distance [Hz] between a requested
// frequency and the table frequency it is matched with.
const FrequencyTolerance = 1.0

// FindGridPositions returns the position in oldGrid of every point in
// newGrid. Each point of newGrid must be within tol of its match. Both
// grids must be sorted in increasing order, which allows them to be
// matched in a single forward pass.
func FindGridPositions(oldGrid, newGrid []float64, tol float64) ([]int, error) {
	pos := make([]int, len(newGrid))
	j := 0
	for i, v := range newGrid {
		for j < len(oldGrid) && math.Abs(v-oldGrid[j]) > tol {
			j++
		}
		if j == len(oldGrid) {
			return nil, GridPointNotFoundErr{Index: i, Value: v, Tolerance: tol}
		}
		pos[i] = j
	}
	return pos, nil
}
