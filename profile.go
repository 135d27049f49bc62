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
	"runtime"
	"sync"

	"gonum.org/v1/gonum/mat"
)

// Atmosphere is a vertical profile of atmospheric states.
type Atmosphere struct {
	// Pressure [Pa] at each level.
	Pressure []float64

	// Temperature [K] at each level.
	Temperature []float64

	// VMR holds the volume mixing ratio of each species at each level,
	// with dimensions [levels, species].
	VMR *mat.Dense
}

// Levels returns the number of levels in the atmosphere.
func (a *Atmosphere) Levels() int { return len(a.Pressure) }

// Validate checks that the dimensions of the atmosphere are consistent
// with each other and with nSpecies species.
func (a *Atmosphere) Validate(nSpecies int) error {
	if len(a.Pressure) == 0 {
		return fmt.Errorf("abslookup: atmosphere has no levels")
	}
	if len(a.Temperature) != len(a.Pressure) {
		return DimensionMismatchErr{What: "atmospheric temperature profile", Want: len(a.Pressure), Got: len(a.Temperature)}
	}
	if a.VMR == nil {
		return fmt.Errorf("abslookup: atmosphere has no volume mixing ratios")
	}
	r, c := a.VMR.Dims()
	if r != len(a.Pressure) {
		return DimensionMismatchErr{What: "atmospheric volume mixing ratio profile", Want: len(a.Pressure), Got: r}
	}
	if c != nSpecies {
		return DimensionMismatchErr{What: "volume mixing ratio array", Want: nSpecies, Got: c}
	}
	return nil
}

// ExtractProfile runs Extract for every level of atm, distributing the
// levels among runtime.GOMAXPROCS(-1) goroutines. If any level fails, the
// error for the lowest failing level index is returned.
func (t *Table) ExtractProfile(o Orders, fIndex int, atm *Atmosphere) ([]*mat.Dense, error) {
	if err := atm.Validate(len(t.Species)); err != nil {
		return nil, err
	}
	n := atm.Levels()
	out := make([]*mat.Dense, n)
	errs := make([]error, n)

	nprocs := runtime.GOMAXPROCS(-1)
	var wg sync.WaitGroup
	wg.Add(nprocs)
	for pp := 0; pp < nprocs; pp++ {
		go func(pp int) {
			defer wg.Done()
			for i := pp; i < n; i += nprocs {
				vmrs := mat.Row(nil, i, atm.VMR)
				out[i], errs[i] = t.Extract(o, fIndex, atm.Pressure[i], atm.Temperature[i], vmrs)
			}
		}(pp)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("abslookup: level %d: %w", i, err)
		}
	}
	return out, nil
}
