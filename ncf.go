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

	"github.com/ctessum/cdf"
)

// NCFVariable is a float64 variable of a NetCDF file, with its units and
// description attributes.
type NCFVariable struct {
	Name, Units, Description string
	Dims                     []string
	Data                     []float64
}

// DefineNCFVariables adds vars and their attributes to h. h must not have
// been defined yet.
func DefineNCFVariables(h *cdf.Header, vars []NCFVariable) {
	for _, v := range vars {
		h.AddVariable(v.Name, v.Dims, []float64{0})
		h.AddAttribute(v.Name, "units", v.Units)
		h.AddAttribute(v.Name, "description", v.Description)
	}
}

// WriteNCFVariables writes the data of vars to f, which must have been
// created from a header passed to DefineNCFVariables. The length of the
// data of each variable must match the product of its dimensions.
func WriteNCFVariables(f *cdf.File, vars []NCFVariable) error {
	for _, v := range vars {
		end := f.Header.Lengths(v.Name)
		n := 1
		for _, l := range end {
			n *= l
		}
		if len(v.Data) != n {
			return fmt.Errorf("variable %s: dims are %d but array length is %d", v.Name, n, len(v.Data))
		}
		start := make([]int, len(end))
		if _, err := f.Writer(v.Name, start, end).Write(v.Data); err != nil {
			return fmt.Errorf("variable %s: %v", v.Name, err)
		}
	}
	return nil
}
