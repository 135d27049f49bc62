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
	"io"

	"github.com/BurntSushi/toml"
	"gonum.org/v1/gonum/mat"
)

// atmosphereFile is the TOML representation of an Atmosphere.
type atmosphereFile struct {
	// Pressure [Pa] at each level.
	Pressure []float64

	// Temperature [K] at each level.
	Temperature []float64

	// VMR holds a volume mixing ratio profile for each species, keyed by
	// species tag or species name.
	VMR map[string][]float64
}

// ReadAtmosphere reads an atmospheric profile in TOML format from r, for
// example:
//
//	Pressure = [100000.0, 50000.0]
//	Temperature = [288.0, 255.0]
//	[VMR]
//	O2 = [0.2095, 0.2095]
//	H2O = [0.01, 0.001]
//
// The columns of the VMR matrix of the result follow the order of
// species. A profile is looked up first by species tag and then by
// species name, so the profile "H2O" is used for the tag "H2O-PWR98".
func ReadAtmosphere(r io.Reader, species []string) (*Atmosphere, error) {
	var f atmosphereFile
	if _, err := toml.DecodeReader(r, &f); err != nil {
		return nil, fmt.Errorf("abslookup: reading atmosphere: %v", err)
	}
	if len(f.Pressure) == 0 {
		return nil, fmt.Errorf("abslookup: reading atmosphere: no pressure levels")
	}
	if len(species) == 0 {
		return nil, EmptyRequestErr{What: "species"}
	}
	atm := &Atmosphere{
		Pressure:    f.Pressure,
		Temperature: f.Temperature,
		VMR:         mat.NewDense(len(f.Pressure), len(species), nil),
	}
	for j, s := range species {
		profile, ok := f.VMR[s]
		if !ok {
			profile, ok = f.VMR[SpeciesName(s)]
		}
		if !ok {
			return nil, fmt.Errorf("abslookup: reading atmosphere: no volume mixing ratio profile for species %q", s)
		}
		if len(profile) != len(f.Pressure) {
			return nil, DimensionMismatchErr{What: fmt.Sprintf("volume mixing ratio profile for %s", s),
				Want: len(f.Pressure), Got: len(profile)}
		}
		atm.VMR.SetCol(j, profile)
	}
	if err := atm.Validate(len(species)); err != nil {
		return nil, err
	}
	return atm, nil
}
