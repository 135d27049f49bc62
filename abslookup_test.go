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
	"math"
	"testing"

	"github.com/ctessum/sparse"
	"gonum.org/v1/gonum/mat"
)

func different(a, b, tolerance float64) bool {
	if 2*math.Abs(a-b)/math.Abs(a+b) > tolerance || math.IsNaN(a) || math.IsNaN(b) {
		return true
	}
	return false
}

var (
	testTPert   = []float64{-20, -10, 0, 10, 20}
	testNLSPert = []float64{0, 0.5, 1, 1.5, 2}
)

// testCoefficient is the cross section stored in test tables. It is
// linear in the temperature perturbation tp and humidity perturbation hp.
func testCoefficient(tp, hp float64, s, f, p int) float64 {
	return 1e-25 * (1 + float64(s) + 0.1*float64(f) + 0.01*float64(p)) * (1 + 0.01*tp) * (1 + 0.5*hp)
}

// newTestTable returns an unadapted table with the species O2, H2O-PWR98
// and N2, four frequencies and three pressures. If tpert is true the table
// has a temperature axis, and if nls is true H2O-PWR98 is nonlinear.
func newTestTable(tpert, nls bool) *Table {
	t := &Table{
		Species: []string{"O2", "H2O-PWR98", "N2"},
		FGrid:   []float64{1e9, 2e9, 3e9, 4e9},
		PGrid:   []float64{100000, 50000, 10000},
		TRef:    []float64{255, 250, 245},
		VMRRef: mat.NewDense(3, 3, []float64{
			0.21, 0.21, 0.21,
			0.0022, 0.002, 0.0018,
			0.78, 0.78, 0.78,
		}),
	}
	if tpert {
		t.TPert = append([]float64(nil), testTPert...)
	}
	if nls {
		t.NonlinearSpecies = []int{1}
		t.NLSPert = append([]float64(nil), testNLSPert...)
	}
	fillTestXsec(t)
	return t
}

func fillTestXsec(t *Table) {
	t.Xsec = sparse.ZerosDense(t.XsecShape()...)
	layout := xsecLayout(len(t.Species), t.NonlinearSpecies, len(t.NLSPert))
	isNonlinear := nonlinearMask(len(t.Species), t.NonlinearSpecies)
	for it := 0; it < t.Xsec.Shape[0]; it++ {
		tp := 0.
		if len(t.TPert) > 0 {
			tp = t.TPert[it]
		}
		for s, b := range layout {
			for v := 0; v < b.Len; v++ {
				hp := 0.
				if isNonlinear[s] {
					hp = t.NLSPert[v]
				}
				for f := range t.FGrid {
					for p := range t.PGrid {
						t.Xsec.Set(testCoefficient(tp, hp, s, f, p), it, b.Offset+v, f, p)
					}
				}
			}
		}
	}
}

// newMultiNonlinearTestTable returns newTestTable with both O2 and
// H2O-PWR98 treated as nonlinear species, so that the nonlinear blocks
// of the cross section array are not at the end of the species axis.
func newMultiNonlinearTestTable() *Table {
	t := newTestTable(true, true)
	t.NonlinearSpecies = []int{0, 1}
	fillTestXsec(t)
	return t
}

// newAdaptedTestTable returns newTestTable adapted to all of its species
// and frequencies.
func newAdaptedTestTable(tb testing.TB, tpert, nls bool) *Table {
	t := newTestTable(tpert, nls)
	if err := t.Adapt(t.Species, t.FGrid); err != nil {
		tb.Fatal(err)
	}
	return t
}

func TestSpeciesName(t *testing.T) {
	for tag, want := range map[string]string{
		"H2O-PWR98":       "H2O",
		"H2O":             "H2O",
		"O2-PWR93-*-*":    "O2",
		"":                "",
		"-leading-hyphen": "",
	} {
		if have := SpeciesName(tag); have != want {
			t.Errorf("%q: have %q, want %q", tag, have, want)
		}
	}
}

func TestHumiditySpeciesIndex(t *testing.T) {
	tbl := newTestTable(false, false)
	if i := tbl.HumiditySpeciesIndex(); i != 1 {
		t.Errorf("have %d, want 1", i)
	}
	tbl.Species = []string{"O2", "O3", "H2O", "H2O-PWR98"}
	if i := tbl.HumiditySpeciesIndex(); i != 2 {
		t.Errorf("have %d, want 2", i)
	}
	tbl.Species = []string{"O2", "H2O2"}
	if i := tbl.HumiditySpeciesIndex(); i != -1 {
		t.Errorf("have %d, want -1", i)
	}
}

func TestXsecShape(t *testing.T) {
	tests := []struct {
		name       string
		tpert, nls bool
		want       []int
	}{
		{name: "no axes", want: []int{1, 3, 4, 3}},
		{name: "temperature", tpert: true, want: []int{5, 3, 4, 3}},
		{name: "humidity", nls: true, want: []int{1, 7, 4, 3}},
		{name: "temperature and humidity", tpert: true, nls: true, want: []int{5, 7, 4, 3}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			tbl := newTestTable(test.tpert, test.nls)
			have := tbl.XsecShape()
			for i := range test.want {
				if have[i] != test.want[i] {
					t.Fatalf("have %v, want %v", have, test.want)
				}
			}
			if err := tbl.Check(); err != nil {
				t.Error(err)
			}
		})
	}
}

func TestAccessors(t *testing.T) {
	tbl := newTestTable(true, true)
	if &tbl.FrequencyGrid()[0] != &tbl.FGrid[0] {
		t.Error("frequency grid should not be copied")
	}
	if &tbl.PressureGrid()[0] != &tbl.PGrid[0] {
		t.Error("pressure grid should not be copied")
	}
	if tbl.NumNonlinear() != 1 {
		t.Errorf("have %d nonlinear species, want 1", tbl.NumNonlinear())
	}
}
