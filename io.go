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
	"strings"

	"github.com/ctessum/cdf"
	"github.com/ctessum/sparse"
	"gonum.org/v1/gonum/mat"
)

// WriteNetCDF writes t to w in NetCDF format.
func (t *Table) WriteNetCDF(w cdf.ReaderWriterAt) error {
	if err := t.Check(); err != nil {
		return err
	}
	shape := t.XsecShape()
	dims := []string{"species", "frequency", "pressure", "xsec_tpert", "xsec_species"}
	lengths := []int{len(t.Species), len(t.FGrid), len(t.PGrid), shape[0], shape[1]}
	if len(t.TPert) > 0 {
		dims = append(dims, "tpert")
		lengths = append(lengths, len(t.TPert))
	}
	if len(t.NLSPert) > 0 {
		dims = append(dims, "nlspert")
		lengths = append(lengths, len(t.NLSPert))
	}
	h := cdf.NewHeader(dims, lengths)
	h.AddAttribute("", "comment", "gas absorption lookup table")
	h.AddAttribute("", "data_version", DataVersion)
	h.AddAttribute("", "species", strings.Join(t.Species, "\n"))
	if len(t.NonlinearSpecies) > 0 {
		nls := make([]int32, len(t.NonlinearSpecies))
		for i, v := range t.NonlinearSpecies {
			nls[i] = int32(v)
		}
		h.AddAttribute("", "nonlinear_species", nls)
	}

	vars := []NCFVariable{
		{Name: "FGrid", Units: "Hz", Description: "Frequency grid", Dims: []string{"frequency"}, Data: t.FGrid},
		{Name: "PGrid", Units: "Pa", Description: "Pressure grid", Dims: []string{"pressure"}, Data: t.PGrid},
		{Name: "TRef", Units: "K", Description: "Reference temperature profile", Dims: []string{"pressure"}, Data: t.TRef},
		{Name: "VMRRef", Units: "1", Description: "Reference volume mixing ratio profiles",
			Dims: []string{"species", "pressure"}, Data: mat.DenseCopyOf(t.VMRRef).RawMatrix().Data},
		{Name: "Xsec", Units: "m2", Description: "Absorption cross sections",
			Dims: []string{"xsec_tpert", "xsec_species", "frequency", "pressure"}, Data: t.Xsec.Elements},
	}
	if len(t.TPert) > 0 {
		vars = append(vars, NCFVariable{Name: "TPert", Units: "K", Description: "Temperature perturbations",
			Dims: []string{"tpert"}, Data: t.TPert})
	}
	if len(t.NLSPert) > 0 {
		vars = append(vars, NCFVariable{Name: "NLSPert", Units: "1", Description: "Fractional H2O perturbations",
			Dims: []string{"nlspert"}, Data: t.NLSPert})
	}
	DefineNCFVariables(h, vars)
	h.Define()

	f, err := cdf.Create(w, h)
	if err != nil {
		return fmt.Errorf("abslookup: writing table: %v", err)
	}
	if err := WriteNCFVariables(f, vars); err != nil {
		return fmt.Errorf("abslookup: writing table: %v", err)
	}
	return nil
}

// ReadNetCDF reads a table written by WriteNetCDF. The returned table
// must be adapted before it can be used with Extract.
func ReadNetCDF(r cdf.ReaderWriterAt) (*Table, error) {
	f, err := cdf.Open(r)
	if err != nil {
		return nil, fmt.Errorf("abslookup: reading table: %v", err)
	}
	dataVersion, ok := f.Header.GetAttribute("", "data_version").(string)
	if !ok {
		return nil, fmt.Errorf("abslookup: reading table: missing data_version attribute")
	}
	if dataVersion != DataVersion {
		return nil, fmt.Errorf("abslookup: table data version %s is incompatible with the required version %s",
			dataVersion, DataVersion)
	}
	species, ok := f.Header.GetAttribute("", "species").(string)
	if !ok {
		return nil, fmt.Errorf("abslookup: reading table: missing species attribute")
	}
	t := &Table{Species: strings.Split(species, "\n")}
	if nls, ok := f.Header.GetAttribute("", "nonlinear_species").([]int32); ok {
		for _, v := range nls {
			t.NonlinearSpecies = append(t.NonlinearSpecies, int(v))
		}
	}

	has := make(map[string]bool)
	for _, v := range f.Header.Variables() {
		has[v] = true
	}
	for _, v := range []string{"FGrid", "PGrid", "TRef", "VMRRef", "Xsec"} {
		if !has[v] {
			return nil, fmt.Errorf("abslookup: reading table: missing variable %s", v)
		}
	}

	read := func(name string) ([]float64, []int, error) {
		dims := f.Header.Lengths(name)
		n := 1
		for _, l := range dims {
			n *= l
		}
		data := make([]float64, n)
		if _, err := f.Reader(name, nil, nil).Read(data); err != nil {
			return nil, nil, fmt.Errorf("abslookup: reading table variable %s: %v", name, err)
		}
		return data, dims, nil
	}

	if t.FGrid, _, err = read("FGrid"); err != nil {
		return nil, err
	}
	if t.PGrid, _, err = read("PGrid"); err != nil {
		return nil, err
	}
	if t.TRef, _, err = read("TRef"); err != nil {
		return nil, err
	}
	if has["TPert"] {
		if t.TPert, _, err = read("TPert"); err != nil {
			return nil, err
		}
	}
	if has["NLSPert"] {
		if t.NLSPert, _, err = read("NLSPert"); err != nil {
			return nil, err
		}
	}
	vmr, dims, err := read("VMRRef")
	if err != nil {
		return nil, err
	}
	t.VMRRef = mat.NewDense(dims[0], dims[1], vmr)

	xsec, dims, err := read("Xsec")
	if err != nil {
		return nil, err
	}
	t.Xsec = sparse.ZerosDense(dims...)
	copy(t.Xsec.Elements, xsec)

	if err := t.Check(); err != nil {
		return nil, err
	}
	return t, nil
}
