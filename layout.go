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

// speciesBlock is the position of one species along the species axis of
// the cross section array.
type speciesBlock struct {
	Offset, Len int
}

// xsecLayout returns the position of every species along the species
// axis of the cross section array. Ordinary species occupy one position
// and nonlinear species occupy nHumidity positions.
func xsecLayout(nSpecies int, nonlinear []int, nHumidity int) []speciesBlock {
	isNonlinear := nonlinearMask(nSpecies, nonlinear)
	blocks := make([]speciesBlock, nSpecies)
	offset := 0
	for i := range blocks {
		n := 1
		if isNonlinear[i] {
			n = nHumidity
		}
		blocks[i] = speciesBlock{Offset: offset, Len: n}
		offset += n
	}
	return blocks
}

func nonlinearMask(nSpecies int, nonlinear []int) []bool {
	m := make([]bool, nSpecies)
	for _, i := range nonlinear {
		m[i] = true
	}
	return m
}
