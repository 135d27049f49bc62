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
	"github.com/ctessum/sparse"
	"gonum.org/v1/gonum/mat"
)

// Table is a gas absorption lookup table. Absorption cross sections are
// tabulated for every species on a frequency grid and a pressure grid.
// Optionally, they are also tabulated for a set of temperature
// perturbations around a reference temperature profile and, for nonlinear
// species, for a set of fractional perturbations of the H2O volume mixing
// ratio around its reference profile.
type Table struct {
	// Species holds the species tags, for example "O2" or "H2O-PWR98".
	Species []string

	// NonlinearSpecies holds the indices in Species of the species whose
	// absorption also depends on humidity. The indices must be strictly
	// increasing.
	NonlinearSpecies []int

	// FGrid is the frequency grid [Hz]. It must be strictly increasing.
	FGrid []float64

	// PGrid is the pressure grid [Pa]. It must be strictly decreasing.
	PGrid []float64

	// VMRRef holds the reference volume mixing ratio profiles that the
	// cross sections were calculated with, with dimensions
	// [len(Species), len(PGrid)].
	VMRRef *mat.Dense

	// TRef is the reference temperature profile [K] on PGrid.
	TRef []float64

	// TPert holds the temperature perturbations [K] relative to TRef.
	// It may be empty, in which case the table has no temperature axis.
	TPert []float64

	// NLSPert holds the fractional H2O volume mixing ratio perturbations
	// relative to the H2O row of VMRRef. It is empty if and only if there
	// are no nonlinear species.
	NLSPert []float64

	// Xsec holds the absorption cross sections [m^2], with dimensions
	// [max(len(TPert), 1), nXsecSpecies, len(FGrid), len(PGrid)], where
	// nXsecSpecies = len(Species) + len(NonlinearSpecies)*(len(NLSPert)-1).
	// A nonlinear species occupies len(NLSPert) consecutive positions
	// along the second axis, one per humidity perturbation.
	Xsec *sparse.DenseArray

	// logPGrid caches the natural logarithm of PGrid. It is set by Adapt.
	logPGrid []float64
}

// FrequencyGrid returns the frequency grid of the table.
func (t *Table) FrequencyGrid() []float64 { return t.FGrid }

// PressureGrid returns the pressure grid of the table.
func (t *Table) PressureGrid() []float64 { return t.PGrid }

// NumNonlinear returns the number of nonlinear species in the table.
func (t *Table) NumNonlinear() int { return len(t.NonlinearSpecies) }

// HumiditySpeciesIndex returns the index of the first H2O species in the
// table, or -1 if there is none.
func (t *Table) HumiditySpeciesIndex() int {
	for i, s := range t.Species {
		if SpeciesName(s) == HumiditySpecies {
			return i
		}
	}
	return -1
}

// XsecShape returns the shape that Xsec must have to be consistent with
// the other fields of the table.
func (t *Table) XsecShape() []int {
	nT := len(t.TPert)
	if nT == 0 {
		nT = 1
	}
	nSpecies := len(t.Species)
	if len(t.NonlinearSpecies) > 0 {
		nSpecies += len(t.NonlinearSpecies) * (len(t.NLSPert) - 1)
	}
	return []int{nT, nSpecies, len(t.FGrid), len(t.PGrid)}
}

// adapted reports whether the log pressure grid cache is initialized.
func (t *Table) adapted() bool {
	return len(t.PGrid) > 0 && len(t.logPGrid) == len(t.PGrid)
}
