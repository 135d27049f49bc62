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

import (
	"fmt"

	"github.com/ctessum/unit"
)

// BoltzmannConst is the Boltzmann constant [J/K].
const BoltzmannConst = 1.380649e-23

// NumberDensity returns the number density [molecules/m³] of an ideal gas
// at pressure p [Pa] and temperature T [K].
func NumberDensity(p, T float64) float64 {
	return p / (BoltzmannConst * T)
}

// NumberDensityUnit is NumberDensity with dimension checking.
func NumberDensityUnit(p, T *unit.Unit) (*unit.Unit, error) {
	if err := p.Check(unit.Pascal); err != nil {
		return nil, fmt.Errorf("abslookup: pressure: %v", err)
	}
	if err := T.Check(unit.Kelvin); err != nil {
		return nil, fmt.Errorf("abslookup: temperature: %v", err)
	}
	return unit.New(NumberDensity(p.Value(), T.Value()), unit.Dimensions{unit.LengthDim: -3}), nil
}
