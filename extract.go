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

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// AllFrequencies can be passed to Extract as the frequency index to
// extract absorption at every frequency of the table.
const AllFrequencies = -1

// Orders holds the polynomial interpolation order along each axis of a
// table.
type Orders struct {
	Pressure, Temperature, Humidity int
}

// DefaultOrders are the interpolation orders used when none are
// configured.
var DefaultOrders = Orders{Pressure: 5, Temperature: 7, Humidity: 5}

func (o Orders) validate() error {
	switch {
	case o.Pressure < 0:
		return InvalidOrderErr{Axis: PressureAxis, Order: o.Pressure}
	case o.Temperature < 0:
		return InvalidOrderErr{Axis: TemperatureAxis, Order: o.Temperature}
	case o.Humidity < 0:
		return InvalidOrderErr{Axis: HumidityAxis, Order: o.Humidity}
	}
	return nil
}

// Extract interpolates absorption coefficients [1/m] from the table for an
// atmosphere with pressure p [Pa], temperature T [K] and the given volume
// mixing ratios, which must be in the same order as the species of the
// table. fIndex selects a single frequency, or all frequencies if it is
// AllFrequencies. The result has one row per selected frequency and one
// column per species.
//
// Pressure is interpolated in log space. At each pressure level used for
// that interpolation, the temperature offset and humidity fraction are
// calculated relative to the reference profiles at that level and
// interpolated separately. Extract does not modify the table, so it can
// be called concurrently.
func (t *Table) Extract(o Orders, fIndex int, p, T float64, vmrs []float64) (*mat.Dense, error) {
	if err := o.validate(); err != nil {
		return nil, err
	}
	if !t.adapted() {
		return nil, NotAdaptedErr{}
	}
	nSpecies := len(t.Species)
	if len(vmrs) != nSpecies {
		return nil, DimensionMismatchErr{What: "volume mixing ratio array", Want: nSpecies, Got: len(vmrs)}
	}
	h2o := -1
	if len(t.NonlinearSpecies) > 0 {
		if h2o = t.HumiditySpeciesIndex(); h2o < 0 {
			return nil, NoHumidityReferenceErr{}
		}
	}

	nP, nT, nH := len(t.PGrid), len(t.TPert), len(t.NLSPert)
	switch {
	case nP < o.Pressure+1:
		return nil, InsufficientGridErr{Axis: PressureAxis, Points: nP, Order: o.Pressure}
	case nH > 0 && nH < o.Humidity+1:
		return nil, InsufficientGridErr{Axis: HumidityAxis, Points: nH, Order: o.Humidity}
	case nT > 0 && nT < o.Temperature+1:
		return nil, InsufficientGridErr{Axis: TemperatureAxis, Points: nT, Order: o.Temperature}
	}
	if err := t.checkShape(); err != nil {
		return nil, err
	}

	fStart, fExtent := 0, len(t.FGrid)
	if fIndex >= 0 {
		if fIndex >= len(t.FGrid) {
			return nil, IndexOutOfRangeErr{Index: fIndex, Len: len(t.FGrid)}
		}
		fStart, fExtent = fIndex, 1
	}

	if err := checkRange(PressureAxis, p, t.PGrid, p); err != nil {
		return nil, err
	}
	if p <= 0 {
		lo, hi := halfBinRange(t.PGrid)
		gridMin, gridMax := gridRange(t.PGrid)
		return nil, OutOfRangeErr{Axis: PressureAxis, Value: p, Min: math.Max(lo, 0), Max: hi,
			GridMin: gridMin, GridMax: gridMax, Pressure: p}
	}
	if !(T > 0) {
		return nil, OutOfRangeErr{Axis: TemperatureAxis, Value: T, Min: 0, Max: math.Inf(1),
			GridMin: floats.Min(t.TRef), GridMax: floats.Max(t.TRef), Pressure: p}
	}
	pgp := newGridPos(t.logPGrid, math.Log(p), o.Pressure)

	isNonlinear := nonlinearMask(nSpecies, t.NonlinearSpecies)
	layout := xsecLayout(nSpecies, t.NonlinearSpecies, nH)

	cols := make([][]float64, nSpecies)
	for s := range cols {
		cols[s] = make([]float64, fExtent)
	}
	levelResult := make([]float64, fExtent)

	for li, level := range pgp.idx {
		tgp := unitPos
		if nT > 0 {
			offset := T - t.TRef[level]
			if err := checkRange(TemperatureAxis, offset, t.TPert, p); err != nil {
				return nil, err
			}
			tgp = newGridPos(t.TPert, offset, o.Temperature)
		}
		hgp := unitPos
		if h2o >= 0 {
			frac := vmrs[h2o] / t.VMRRef.At(h2o, level)
			if err := checkRange(HumidityAxis, frac, t.NLSPert, p); err != nil {
				return nil, err
			}
			hgp = newGridPos(t.NLSPert, frac, o.Humidity)
		}

		for s := 0; s < nSpecies; s++ {
			sgp := unitPos
			if isNonlinear[s] {
				sgp = hgp
			}
			for i := range levelResult {
				levelResult[i] = 0
			}
			t.interpolateLevel(levelResult, tgp, sgp, layout[s].Offset, fStart, level)
			floats.AddScaled(cols[s], pgp.w[li], levelResult)
		}
	}

	n := NumberDensity(p, T)
	result := mat.NewDense(fExtent, nSpecies, nil)
	for s, col := range cols {
		floats.Scale(n*vmrs[s], col)
		result.SetCol(s, col)
	}
	return result, nil
}

// interpolateLevel adds to dst the cross sections of the species starting
// at position offset of the species axis, at pressure index level and
// frequencies starting at fStart, weighted by the temperature and
// humidity interpolation weights. An absent axis is represented by
// unitPos, which reduces the weighted sum to a copy.
func (t *Table) interpolateLevel(dst []float64, tgp, hgp gridPos, offset, fStart, level int) {
	for r, it := range tgp.idx {
		for c, ih := range hgp.idx {
			w := tgp.w[r] * hgp.w[c]
			for f := range dst {
				dst[f] += w * t.Xsec.Get(it, offset+ih, fStart+f, level)
			}
		}
	}
}

// checkRange returns an OutOfRangeErr if v is outside of grid extended by
// half of the adjacent grid spacing at each end.
func checkRange(axis Axis, v float64, grid []float64, p float64) error {
	lo, hi := halfBinRange(grid)
	if v >= lo && v <= hi {
		return nil
	}
	gridMin, gridMax := gridRange(grid)
	return OutOfRangeErr{
		Axis:     axis,
		Value:    v,
		Min:      lo,
		Max:      hi,
		GridMin:  gridMin,
		GridMax:  gridMax,
		Pressure: p,
	}
}
