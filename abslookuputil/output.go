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

package abslookuputil

import (
	"fmt"
	"os"
	"strings"

	"github.com/ctessum/cdf"
	"github.com/spatialmodel/abslookup"
	"github.com/tealeg/xlsx"
	"gonum.org/v1/gonum/mat"
)

// profileResults holds the absorption coefficients extracted for an
// atmospheric profile.
type profileResults struct {
	Species     []string
	Frequencies []float64
	Atmosphere  *abslookup.Atmosphere

	// Absorption holds one [frequency x species] matrix for each level.
	Absorption []*mat.Dense

	// Derived holds one [level x frequency] matrix for each output variable.
	Derived map[string]*mat.Dense

	// names holds the sorted keys of Derived.
	names []string
}

// write writes r to fileName in the format implied by its extension.
func (r *profileResults) write(fileName string) error {
	format, err := checkOutputFormat(fileName)
	if err != nil {
		return err
	}
	switch format {
	case ".nc":
		return r.writeNetCDF(fileName)
	default:
		return r.writeXLSX(fileName)
	}
}

// absorptionData returns the absorption coefficients in [level, frequency,
// species] order.
func (r *profileResults) absorptionData() []float64 {
	nf, ns := len(r.Frequencies), len(r.Species)
	data := make([]float64, 0, len(r.Absorption)*nf*ns)
	for _, a := range r.Absorption {
		for j := 0; j < nf; j++ {
			data = append(data, mat.Row(nil, j, a)...)
		}
	}
	return data
}

func (r *profileResults) writeNetCDF(fileName string) error {
	h := cdf.NewHeader(
		[]string{"level", "frequency", "species"},
		[]int{len(r.Absorption), len(r.Frequencies), len(r.Species)})
	h.AddAttribute("", "comment", "absorption coefficients extracted from a gas absorption lookup table")
	h.AddAttribute("", "version", abslookup.Version)
	h.AddAttribute("", "species", strings.Join(r.Species, "\n"))

	vars := []abslookup.NCFVariable{
		{Name: "Frequency", Units: "Hz", Description: "Frequency", Dims: []string{"frequency"}, Data: r.Frequencies},
		{Name: "Pressure", Units: "Pa", Description: "Pressure", Dims: []string{"level"}, Data: r.Atmosphere.Pressure},
		{Name: "Temperature", Units: "K", Description: "Temperature", Dims: []string{"level"}, Data: r.Atmosphere.Temperature},
		{Name: "Absorption", Units: "m-1", Description: "Absorption coefficient of each species",
			Dims: []string{"level", "frequency", "species"}, Data: r.absorptionData()},
	}
	for _, name := range r.names {
		vars = append(vars, abslookup.NCFVariable{Name: name, Units: "1", Description: "User-defined output variable",
			Dims: []string{"level", "frequency"}, Data: mat.DenseCopyOf(r.Derived[name]).RawMatrix().Data})
	}
	abslookup.DefineNCFVariables(h, vars)
	h.Define()

	w, err := os.Create(fileName)
	if err != nil {
		return fmt.Errorf("abslookuputil: creating output file: %v", err)
	}
	f, err := cdf.Create(w, h)
	if err != nil {
		w.Close()
		return fmt.Errorf("abslookuputil: creating output file: %v", err)
	}
	if err := abslookup.WriteNCFVariables(f, vars); err != nil {
		w.Close()
		return fmt.Errorf("abslookuputil: writing output file: %v", err)
	}
	return w.Close()
}

// writeXLSX writes r as a Microsoft Excel spreadsheet with one row for each
// level and frequency.
func (r *profileResults) writeXLSX(fileName string) error {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Absorption")
	if err != nil {
		return fmt.Errorf("abslookuputil: creating output spreadsheet: %v", err)
	}
	header := append([]string{"Level", "Pressure", "Temperature", "Frequency"}, r.Species...)
	header = append(header, r.names...)
	row := sheet.AddRow()
	for _, h := range header {
		row.AddCell().Value = h
	}
	for i, a := range r.Absorption {
		for j, f := range r.Frequencies {
			row = sheet.AddRow()
			row.AddCell().SetInt(i)
			row.AddCell().SetFloat(r.Atmosphere.Pressure[i])
			row.AddCell().SetFloat(r.Atmosphere.Temperature[i])
			row.AddCell().SetFloat(f)
			for s := range r.Species {
				row.AddCell().SetFloat(a.At(j, s))
			}
			for _, name := range r.names {
				row.AddCell().SetFloat(r.Derived[name].At(i, j))
			}
		}
	}
	if err := file.Save(fileName); err != nil {
		return fmt.Errorf("abslookuputil: saving output spreadsheet: %v", err)
	}
	return nil
}
