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

// Package abslookup implements gas absorption lookup tables: precomputed
// absorption cross sections tabulated over frequency, pressure,
// temperature perturbation and, for nonlinear species, humidity
// perturbation. A generic table is reduced to the species and frequencies
// required by a calculation with Adapt, after which absorption
// coefficients can be interpolated at any atmospheric state with Extract.
package abslookup

import "strings"

// Version gives the version number.
const Version = "1.0.0"

// DataVersion is the version of the NetCDF table format.
const DataVersion = "1.0.0"

// HumiditySpecies is the name of the species whose volume mixing ratio
// sets the humidity perturbation of nonlinear species.
const HumiditySpecies = "H2O"

// SpeciesName returns the species name part of a species tag, i.e. the
// part before the first "-". For example, the name of "H2O-PWR98" is "H2O".
func SpeciesName(tag string) string {
	if i := strings.Index(tag, "-"); i >= 0 {
		return tag[:i]
	}
	return tag
}
