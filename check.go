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
)

// Check returns an error if the table is not internally consistent.
func (t *Table) Check() error {
	nSpecies := len(t.Species)
	if nSpecies == 0 {
		return StructureErr{Field: "Species", Problem: "must not be empty"}
	}
	if err := checkNonlinear(t.NonlinearSpecies, nSpecies); err != nil {
		return err
	}

	if len(t.FGrid) == 0 {
		return StructureErr{Field: "FGrid", Problem: "must not be empty"}
	}
	if !increasing(t.FGrid) {
		return StructureErr{Field: "FGrid", Problem: "must be strictly increasing"}
	}
	nP := len(t.PGrid)
	if nP == 0 {
		return StructureErr{Field: "PGrid", Problem: "must not be empty"}
	}
	if !decreasing(t.PGrid) {
		return StructureErr{Field: "PGrid", Problem: "must be strictly decreasing"}
	}
	if t.PGrid[nP-1] <= 0 {
		return StructureErr{Field: "PGrid", Problem: "must only contain positive pressures"}
	}

	if t.VMRRef == nil {
		return StructureErr{Field: "VMRRef", Problem: "must not be nil"}
	}
	if r, c := t.VMRRef.Dims(); r != nSpecies || c != nP {
		return StructureErr{Field: "VMRRef",
			Problem: fmt.Sprintf("has dimensions %dx%d but %dx%d are required", r, c, nSpecies, nP)}
	}
	if len(t.TRef) != nP {
		return StructureErr{Field: "TRef",
			Problem: fmt.Sprintf("has length %d but the pressure grid has length %d", len(t.TRef), nP)}
	}
	if !increasing(t.TPert) {
		return StructureErr{Field: "TPert", Problem: "must be strictly increasing"}
	}

	if len(t.NonlinearSpecies) == 0 && len(t.NLSPert) != 0 {
		return StructureErr{Field: "NLSPert", Problem: "must be empty when there are no nonlinear species"}
	}
	if len(t.NonlinearSpecies) != 0 && len(t.NLSPert) == 0 {
		return StructureErr{Field: "NLSPert", Problem: "must hold the perturbations for the nonlinear species but is empty"}
	}
	if !increasing(t.NLSPert) {
		return StructureErr{Field: "NLSPert", Problem: "must be strictly increasing"}
	}

	return t.checkShape()
}

// checkShape checks the shape of Xsec only.
func (t *Table) checkShape() error {
	want := t.XsecShape()
	if t.Xsec == nil {
		return ShapeMismatchErr{Want: want}
	}
	if len(t.Xsec.Shape) != len(want) {
		return ShapeMismatchErr{Want: want, Got: t.Xsec.Shape}
	}
	for i, n := range want {
		if t.Xsec.Shape[i] != n {
			return ShapeMismatchErr{Want: want, Got: t.Xsec.Shape}
		}
	}
	return nil
}

func checkNonlinear(idx []int, nSpecies int) error {
	seen := make(map[int]bool, len(idx))
	for _, i := range idx {
		if i < 0 || i >= nSpecies {
			return StructureErr{Field: "NonlinearSpecies",
				Problem: fmt.Sprintf("index %d is out of range for %d species", i, nSpecies)}
		}
		if seen[i] {
			return StructureErr{Field: "NonlinearSpecies",
				Problem: fmt.Sprintf("index %d occurs more than once", i)}
		}
		seen[i] = true
	}
	for i := 1; i < len(idx); i++ {
		if idx[i] <= idx[i-1] {
			return StructureErr{Field: "NonlinearSpecies", Problem: "must be in increasing order"}
		}
	}
	return nil
}

func increasing(x []float64) bool {
	for i := 1; i < len(x); i++ {
		if !(x[i] > x[i-1]) {
			return false
		}
	}
	return true
}

func decreasing(x []float64) bool {
	for i := 1; i < len(x); i++ {
		if !(x[i] < x[i-1]) {
			return false
		}
	}
	return true
}
