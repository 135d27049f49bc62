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

	"github.com/ctessum/sparse"
	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/mat"
)

// Adapt reduces t to the given species and frequencies and initializes
// the derived grids that Extract requires. t is only replaced once the
// new table is complete; if an error is returned t is unchanged.
func (t *Table) Adapt(species []string, frequencies []float64, opts ...Option) error {
	nt, err := t.Subset(species, frequencies, opts...)
	if err != nil {
		return err
	}
	*t = *nt
	return nil
}

// Subset returns a new adapted table that holds only the given species and
// frequencies, in the order given. Every species must occur exactly once
// in t and every frequency must be within FrequencyTolerance of a
// frequency of t. frequencies must be strictly increasing and no two of
// them may match the same frequency of t. t is not modified.
func (t *Table) Subset(species []string, frequencies []float64, opts ...Option) (*Table, error) {
	c := newConfig(opts)

	if err := t.Check(); err != nil {
		return nil, err
	}
	if len(species) == 0 {
		return nil, EmptyRequestErr{What: "species"}
	}
	if len(frequencies) == 0 {
		return nil, EmptyRequestErr{What: "frequencies"}
	}
	if !increasing(frequencies) {
		return nil, StructureErr{Field: "requested frequency grid", Problem: "must be strictly increasing"}
	}

	c.log.WithFields(logrus.Fields{
		"species":     len(t.Species),
		"frequencies": len(t.FGrid),
		"pressures":   len(t.PGrid),
		"tpert":       len(t.TPert),
		"nlspert":     len(t.NLSPert),
	}).Info("adapting absorption lookup table")

	speciesPos, err := t.findSpecies(species)
	if err != nil {
		return nil, err
	}
	for i, s := range species {
		c.log.WithFields(logrus.Fields{
			"species":  s,
			"position": speciesPos[i],
		}).Debug("found species")
	}

	fPos, err := FindGridPositions(t.FGrid, frequencies, FrequencyTolerance)
	if err != nil {
		return nil, err
	}
	for i := 1; i < len(fPos); i++ {
		if fPos[i] == fPos[i-1] {
			return nil, DuplicateGridPointErr{Index: i, Value: frequencies[i], Match: t.FGrid[fPos[i]]}
		}
	}
	c.log.WithField("frequencies", len(fPos)).Debug("found frequencies")

	isNonlinear := nonlinearMask(len(t.Species), t.NonlinearSpecies)
	oldLayout := xsecLayout(len(t.Species), t.NonlinearSpecies, len(t.NLSPert))

	nP := len(t.PGrid)
	nt := &Table{
		Species: append([]string(nil), species...),
		FGrid:   make([]float64, len(fPos)),
		PGrid:   append([]float64(nil), t.PGrid...),
		VMRRef:  mat.NewDense(len(species), nP, nil),
		TRef:    append([]float64(nil), t.TRef...),
		TPert:   append([]float64(nil), t.TPert...),
	}
	for i, p := range fPos {
		nt.FGrid[i] = t.FGrid[p]
	}
	for i, p := range speciesPos {
		nt.VMRRef.SetRow(i, mat.Row(nil, p, t.VMRRef))
		if isNonlinear[p] {
			nt.NonlinearSpecies = append(nt.NonlinearSpecies, i)
		}
	}
	if len(nt.NonlinearSpecies) > 0 {
		nt.NLSPert = append([]float64(nil), t.NLSPert...)
	}

	shape := nt.XsecShape()
	nt.Xsec = sparse.ZerosDense(shape...)
	newLayout := xsecLayout(len(nt.Species), nt.NonlinearSpecies, len(nt.NLSPert))
	for i, p := range speciesPos {
		src, dst := oldLayout[p], newLayout[i]
		for it := 0; it < shape[0]; it++ {
			for v := 0; v < dst.Len; v++ {
				for fi, fp := range fPos {
					for ip := 0; ip < nP; ip++ {
						nt.Xsec.Set(t.Xsec.Get(it, src.Offset+v, fp, ip), it, dst.Offset+v, fi, ip)
					}
				}
			}
		}
	}

	nt.logPGrid = make([]float64, nP)
	for i, p := range nt.PGrid {
		nt.logPGrid[i] = math.Log(p)
	}

	c.log.WithFields(logrus.Fields{
		"species":     len(nt.Species),
		"nonlinear":   len(nt.NonlinearSpecies),
		"frequencies": len(nt.FGrid),
	}).Info("adapted absorption lookup table")
	return nt, nil
}

// findSpecies returns the position in t of each of the given species.
func (t *Table) findSpecies(species []string) ([]int, error) {
	requested := make(map[string]int, len(species))
	for _, s := range species {
		requested[s]++
	}
	pos := make([]int, len(species))
	for i, s := range species {
		if n := requested[s]; n > 1 {
			return nil, DuplicateSpeciesErr{Species: s, Count: n, Requested: true}
		}
		n := 0
		for j, ts := range t.Species {
			if ts == s {
				if n == 0 {
					pos[i] = j
				}
				n++
			}
		}
		switch {
		case n == 0:
			return nil, SpeciesNotFoundErr{Species: s}
		case n > 1:
			return nil, DuplicateSpeciesErr{Species: s, Count: n}
		}
	}
	return pos, nil
}
