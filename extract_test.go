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
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/ctessum/sparse"
	"github.com/kr/pretty"
	"gonum.org/v1/gonum/mat"
)

// newSimpleTable returns an adapted table with one species, one
// frequency and the pressure grid [1000, 500, 100] Pa, without
// temperature or humidity axes.
func newSimpleTable(tb testing.TB, v0, v1, v2 float64) *Table {
	t := &Table{
		Species: []string{"O2"},
		FGrid:   []float64{1e11},
		PGrid:   []float64{1000, 500, 100},
		TRef:    []float64{250, 240, 230},
		VMRRef:  mat.NewDense(1, 3, []float64{0.21, 0.21, 0.21}),
		Xsec:    sparse.ZerosDense(1, 1, 1, 3),
	}
	t.Xsec.Elements = []float64{v0, v1, v2}
	if err := t.Adapt(t.Species, t.FGrid); err != nil {
		tb.Fatal(err)
	}
	return t
}

func TestExtractOrderZero(t *testing.T) {
	const v0, v1, v2 = 1e-22, 2e-22, 3e-22
	tbl := newSimpleTable(t, v0, v1, v2)
	const vmr, T = 0.2, 240.
	r, err := tbl.Extract(Orders{}, AllFrequencies, 500, T, []float64{vmr})
	if err != nil {
		t.Fatal(err)
	}
	if rows, cols := r.Dims(); rows != 1 || cols != 1 {
		t.Fatalf("have %dx%d result", rows, cols)
	}
	want := v1 * NumberDensity(500, T) * vmr
	if different(r.At(0, 0), want, 1e-14) {
		t.Errorf("want %g, got %g", want, r.At(0, 0))
	}
}

func TestExtractPressureExtrapolation(t *testing.T) {
	tbl := newSimpleTable(t, 1e-22, 2e-22, 3e-22)
	pMax := tbl.PGrid[0] + 0.5*(tbl.PGrid[0]-tbl.PGrid[1])
	for _, o := range []int{0, 1, 2} {
		if _, err := tbl.Extract(Orders{Pressure: o}, AllFrequencies, pMax, 240, []float64{0.2}); err != nil {
			t.Errorf("order %d at the extrapolation limit: %v", o, err)
		}
		_, err := tbl.Extract(Orders{Pressure: o}, AllFrequencies, pMax+1, 240, []float64{0.2})
		var e OutOfRangeErr
		if !errors.As(err, &e) {
			t.Fatalf("order %d: want OutOfRangeErr, got %v", o, err)
		}
		if e.Axis != PressureAxis || e.Max != pMax || e.Value != pMax+1 {
			t.Errorf("order %d: have %+v", o, e)
		}
		if e.GridMin != 100 || e.GridMax != 1000 {
			t.Errorf("order %d: have grid range %g to %g", o, e.GridMin, e.GridMax)
		}
		if Category(err) != Range {
			t.Errorf("have category %s", Category(err))
		}
	}
	if _, err := tbl.Extract(Orders{}, AllFrequencies, -50, 240, []float64{0.2}); err == nil {
		t.Error("negative pressure should be an error")
	}
	if _, err := tbl.Extract(Orders{}, AllFrequencies, math.NaN(), 240, []float64{0.2}); err == nil {
		t.Error("NaN pressure should be an error")
	}
}

func TestExtractNodes(t *testing.T) {
	orders := []Orders{
		{},
		{Pressure: 1, Temperature: 1, Humidity: 1},
		{Pressure: 2, Temperature: 3, Humidity: 2},
		{Pressure: 2, Temperature: 4, Humidity: 4},
	}
	for _, cfg := range testConfigs {
		tbl := newAdaptedTestTable(t, cfg.tpert, cfg.nls)
		for _, o := range orders {
			for ip, p := range tbl.PGrid {
				for _, tp := range []float64{-10, 0, 10} {
					T := tbl.TRef[ip]
					if cfg.tpert {
						T += tp
					}
					vmrs := mat.Row(nil, ip, tbl.VMRRef.T())
					hp := 1.
					if cfg.nls {
						vmrs[1] *= 1.5
						hp = 1.5
					}
					r, err := tbl.Extract(o, AllFrequencies, p, T, vmrs)
					if err != nil {
						t.Fatalf("%s %+v: %v", cfg.name, o, err)
					}
					n := NumberDensity(p, T)
					for f := range tbl.FGrid {
						for s := range tbl.Species {
							tpv, hpv := 0., 0.
							if cfg.tpert {
								tpv = tp
							}
							if cfg.nls && s == 1 {
								hpv = hp
							}
							want := testCoefficient(tpv, hpv, s, f, ip) * n * vmrs[s]
							if different(r.At(f, s), want, 1e-10) {
								t.Errorf("%s %+v p=%g T=%g f=%d s=%d: want %g, got %g",
									cfg.name, o, p, T, f, s, want, r.At(f, s))
							}
						}
					}
				}
			}
		}
	}
}

func TestExtractMultipleNonlinearBlocks(t *testing.T) {
	tbl := newMultiNonlinearTestTable()
	species := []string{"N2", "H2O-PWR98", "O2"}
	origIndex := []int{2, 1, 0}
	if err := tbl.Adapt(species, tbl.FGrid); err != nil {
		t.Fatal(err)
	}
	if diff := pretty.Diff(tbl.NonlinearSpecies, []int{1, 2}); len(diff) != 0 {
		t.Fatalf("nonlinear species: %v", diff)
	}
	const hp = 1.5
	for _, o := range []Orders{{}, {Pressure: 1, Temperature: 1, Humidity: 1}, {Pressure: 2, Temperature: 2, Humidity: 2}} {
		for ip, p := range tbl.PGrid {
			for _, tp := range []float64{-10, 0, 10} {
				T := tbl.TRef[ip] + tp
				vmrs := mat.Row(nil, ip, tbl.VMRRef.T())
				vmrs[1] *= hp
				r, err := tbl.Extract(o, AllFrequencies, p, T, vmrs)
				if err != nil {
					t.Fatalf("%+v: %v", o, err)
				}
				n := NumberDensity(p, T)
				for f := range tbl.FGrid {
					for s, orig := range origIndex {
						h := 0.
						if s > 0 {
							h = hp
						}
						want := testCoefficient(tp, h, orig, f, ip) * n * vmrs[s]
						if different(r.At(f, s), want, 1e-10) {
							t.Errorf("%+v p=%g T=%g f=%d %s: want %g, got %g",
								o, p, T, f, species[s], want, r.At(f, s))
						}
					}
				}
			}
		}
	}
}

func TestExtractBetweenNodes(t *testing.T) {
	tbl := newAdaptedTestTable(t, true, true)
	const ip = 1
	p := tbl.PGrid[ip]
	for _, o := range []Orders{
		{Temperature: 1, Humidity: 1},
		{Temperature: 2, Humidity: 3},
		{Temperature: 4, Humidity: 2},
	} {
		tp, hp := 3.7, 0.8
		T := tbl.TRef[ip] + tp
		vmrs := mat.Row(nil, ip, tbl.VMRRef.T())
		vmrs[1] *= hp
		r, err := tbl.Extract(o, 2, p, T, vmrs)
		if err != nil {
			t.Fatal(err)
		}
		if rows, _ := r.Dims(); rows != 1 {
			t.Fatalf("have %d rows, want 1", rows)
		}
		n := NumberDensity(p, T)
		for s := range tbl.Species {
			hpv := 0.
			if s == 1 {
				hpv = vmrs[1] / tbl.VMRRef.At(1, ip)
			}
			want := testCoefficient(T-tbl.TRef[ip], hpv, s, 2, ip) * n * vmrs[s]
			if different(r.At(0, s), want, 1e-9) {
				t.Errorf("%+v species %d: want %g, got %g", o, s, want, r.At(0, s))
			}
		}
	}
}

// A table whose cross sections do not depend on pressure must give the
// same cross section at any pressure, because the pressure interpolation
// weights sum to one.
func TestExtractPressureWeights(t *testing.T) {
	tbl := newSimpleTable(t, 4e-22, 4e-22, 4e-22)
	for _, o := range []int{0, 1, 2} {
		for _, p := range []float64{1100, 1000, 730, 500, 321, 100, 80} {
			r, err := tbl.Extract(Orders{Pressure: o}, AllFrequencies, p, 240, []float64{0.3})
			if err != nil {
				t.Fatal(err)
			}
			want := 4e-22 * NumberDensity(p, 240) * 0.3
			if different(r.At(0, 0), want, 1e-10) {
				t.Errorf("order %d p=%g: want %g, got %g", o, p, want, r.At(0, 0))
			}
		}
	}
}

func TestExtractLogPressureInterpolation(t *testing.T) {
	tbl := newSimpleTable(t, 1, 2, 3)
	// Halfway between 1000 and 500 Pa in log space.
	p := math.Sqrt(1000 * 500)
	r, err := tbl.Extract(Orders{Pressure: 1}, AllFrequencies, p, 240, []float64{1})
	if err != nil {
		t.Fatal(err)
	}
	want := 1.5 * NumberDensity(p, 240)
	if different(r.At(0, 0), want, 1e-12) {
		t.Errorf("want %g, got %g", want, r.At(0, 0))
	}
}

func TestExtractSingleFrequency(t *testing.T) {
	tbl := newAdaptedTestTable(t, true, true)
	vmrs := []float64{0.21, 0.0019, 0.78}
	all, err := tbl.Extract(Orders{Pressure: 1, Temperature: 2, Humidity: 1}, AllFrequencies, 70000, 253, vmrs)
	if err != nil {
		t.Fatal(err)
	}
	for f := range tbl.FGrid {
		one, err := tbl.Extract(Orders{Pressure: 1, Temperature: 2, Humidity: 1}, f, 70000, 253, vmrs)
		if err != nil {
			t.Fatal(err)
		}
		for s := range tbl.Species {
			if different(one.At(0, s), all.At(f, s), 1e-13) {
				t.Errorf("f=%d s=%d: have %g, want %g", f, s, one.At(0, s), all.At(f, s))
			}
		}
	}
}

func TestExtractErrors(t *testing.T) {
	tests := []struct {
		name     string
		table    func(testing.TB) *Table
		o        Orders
		fIndex   int
		p, T     float64
		vmrs     []float64
		check    func(error) bool
		category ErrorCategory
	}{
		{
			name:  "not adapted",
			table: func(testing.TB) *Table { return newTestTable(true, true) },
			check: func(err error) bool { var e NotAdaptedErr; return errors.As(err, &e) },
		},
		{
			name: "vmr length",
			vmrs: []float64{0.2, 0.01},
			check: func(err error) bool {
				var e DimensionMismatchErr
				return errors.As(err, &e) && e.Want == 3 && e.Got == 2
			},
		},
		{
			name: "no humidity species",
			table: func(tb testing.TB) *Table {
				t := newAdaptedTestTable(tb, true, true)
				t.Species[1] = "O3"
				return t
			},
			check:    func(err error) bool { var e NoHumidityReferenceErr; return errors.As(err, &e) },
			category: Structural,
		},
		{
			name: "pressure order",
			o:    Orders{Pressure: 3},
			check: func(err error) bool {
				var e InsufficientGridErr
				return errors.As(err, &e) && e.Axis == PressureAxis && e.Points == 3
			},
		},
		{
			name: "temperature order",
			o:    Orders{Temperature: 5},
			check: func(err error) bool {
				var e InsufficientGridErr
				return errors.As(err, &e) && e.Axis == TemperatureAxis
			},
		},
		{
			name: "humidity order",
			o:    Orders{Humidity: 5},
			check: func(err error) bool {
				var e InsufficientGridErr
				return errors.As(err, &e) && e.Axis == HumidityAxis
			},
		},
		{
			name: "negative order",
			o:    Orders{Humidity: -1},
			check: func(err error) bool {
				var e InvalidOrderErr
				return errors.As(err, &e) && e.Axis == HumidityAxis
			},
		},
		{
			name:   "frequency index",
			fIndex: 4,
			check: func(err error) bool {
				var e IndexOutOfRangeErr
				return errors.As(err, &e) && e.Index == 4 && e.Len == 4
			},
		},
		{
			name: "temperature too high",
			T:    250 + 26,
			check: func(err error) bool {
				var e OutOfRangeErr
				return errors.As(err, &e) && e.Axis == TemperatureAxis && e.Max == 25
			},
			category: Range,
		},
		{
			name: "temperature NaN",
			T:    math.NaN(),
			check: func(err error) bool {
				var e OutOfRangeErr
				return errors.As(err, &e) && e.Axis == TemperatureAxis
			},
			category: Range,
		},
		{
			name:  "negative temperature without temperature axis",
			table: func(tb testing.TB) *Table { return newAdaptedTestTable(tb, false, true) },
			T:     -10,
			check: func(err error) bool {
				var e OutOfRangeErr
				return errors.As(err, &e) && e.Axis == TemperatureAxis && e.Value == -10 && e.Min == 0
			},
			category: Range,
		},
		{
			name: "humidity too high",
			vmrs: []float64{0.21, 0.002 * 2.3, 0.78},
			check: func(err error) bool {
				var e OutOfRangeErr
				return errors.As(err, &e) && e.Axis == HumidityAxis && e.Min == -0.25 && e.Max == 2.25
			},
			category: Range,
		},
		{
			name: "humidity negative",
			vmrs: []float64{0.21, -0.002, 0.78},
			check: func(err error) bool {
				var e OutOfRangeErr
				return errors.As(err, &e) && e.Axis == HumidityAxis
			},
			category: Range,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			var tbl *Table
			if test.table != nil {
				tbl = test.table(t)
			} else {
				tbl = newAdaptedTestTable(t, true, true)
			}
			p, T, vmrs := 50000., 250., []float64{0.21, 0.002, 0.78}
			if test.p != 0 {
				p = test.p
			}
			if test.T != 0 {
				T = test.T
			}
			if test.vmrs != nil {
				vmrs = test.vmrs
			}
			r, err := tbl.Extract(test.o, test.fIndex, p, T, vmrs)
			if r != nil {
				t.Error("result should be nil")
			}
			if !test.check(err) {
				t.Fatalf("unexpected error %v", err)
			}
			category := test.category
			if category == Uncategorized {
				category = Request
			}
			if c := Category(err); c != category {
				t.Errorf("have category %s, want %s", c, category)
			}
		})
	}
}

func TestExtractPreconditionOrder(t *testing.T) {
	noHumidity := func(tb testing.TB) *Table {
		t := newAdaptedTestTable(tb, true, true)
		t.Species[1] = "O3"
		return t
	}
	tests := []struct {
		name  string
		table func(testing.TB) *Table
		o     Orders
		vmrs  []float64
		check func(error) bool
	}{
		{
			name:  "invalid order before not adapted",
			table: func(testing.TB) *Table { return newTestTable(true, true) },
			o:     Orders{Pressure: -1},
			vmrs:  []float64{0.2},
			check: func(err error) bool { var e InvalidOrderErr; return errors.As(err, &e) },
		},
		{
			name:  "not adapted before dimension mismatch",
			table: func(testing.TB) *Table { return newTestTable(true, true) },
			vmrs:  []float64{0.2},
			check: func(err error) bool { var e NotAdaptedErr; return errors.As(err, &e) },
		},
		{
			name:  "dimension mismatch before humidity reference",
			table: noHumidity,
			vmrs:  []float64{0.2},
			check: func(err error) bool { var e DimensionMismatchErr; return errors.As(err, &e) },
		},
		{
			name:  "humidity reference before insufficient grid",
			table: noHumidity,
			o:     Orders{Pressure: 3},
			vmrs:  []float64{0.21, 0.002, 0.78},
			check: func(err error) bool { var e NoHumidityReferenceErr; return errors.As(err, &e) },
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := test.table(t).Extract(test.o, AllFrequencies, 50000, 250, test.vmrs)
			if !test.check(err) {
				t.Errorf("unexpected error %v", err)
			}
		})
	}
}

func TestExtractNonPositiveTemperature(t *testing.T) {
	for _, cfg := range testConfigs {
		tbl := newAdaptedTestTable(t, cfg.tpert, cfg.nls)
		for _, T := range []float64{0, -10, math.NaN()} {
			r, err := tbl.Extract(Orders{}, AllFrequencies, 50000, T, []float64{0.21, 0.002, 0.78})
			if r != nil {
				t.Errorf("%s T=%g: result should be nil", cfg.name, T)
			}
			var e OutOfRangeErr
			if !errors.As(err, &e) {
				t.Fatalf("%s T=%g: want OutOfRangeErr, got %v", cfg.name, T, err)
			}
			if e.Axis != TemperatureAxis || e.Pressure != 50000 {
				t.Errorf("%s T=%g: have %+v", cfg.name, T, e)
			}
			if e.GridMin != 245 || e.GridMax != 255 {
				t.Errorf("%s T=%g: have reference range %g to %g", cfg.name, T, e.GridMin, e.GridMax)
			}
		}
	}
}

func TestExtractConcurrent(t *testing.T) {
	tbl := newAdaptedTestTable(t, true, true)
	o := Orders{Pressure: 2, Temperature: 3, Humidity: 2}
	pressures := []float64{95000, 80000, 50000, 30000, 12000}
	want := make([]*mat.Dense, len(pressures))
	for i, p := range pressures {
		var err error
		want[i], err = tbl.Extract(o, AllFrequencies, p, 250, []float64{0.21, 0.0021, 0.78})
		if err != nil {
			t.Fatal(err)
		}
	}
	var wg sync.WaitGroup
	errs := make(chan error, 8*len(pressures))
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i, p := range pressures {
				r, err := tbl.Extract(o, AllFrequencies, p, 250, []float64{0.21, 0.0021, 0.78})
				if err != nil {
					errs <- err
					continue
				}
				if !mat.Equal(r, want[i]) {
					errs <- errors.New("concurrent result differs from serial result")
				}
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}
