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

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// plotLevel creates a plot of the absorption spectrum of each species at
// the given level of r, as well as the total over all species.
func (r *profileResults) plotLevel(level int) (*plot.Plot, error) {
	if level < 0 || level >= len(r.Absorption) {
		return nil, fmt.Errorf("abslookuputil: plot level %d is out of range [0, %d)", level, len(r.Absorption))
	}
	if len(r.Frequencies) == 0 {
		return nil, fmt.Errorf("abslookuputil: no frequencies to plot")
	}
	a := r.Absorption[level]
	p, err := plot.New()
	if err != nil {
		return nil, err
	}
	p.Title.Text = fmt.Sprintf("Absorption at %g Pa, %g K", r.Atmosphere.Pressure[level], r.Atmosphere.Temperature[level])
	p.X.Label.Text = "Frequency (Hz)"
	p.Y.Label.Text = "Absorption coefficient (1/m)"

	total := make(plotter.XYs, len(r.Frequencies))
	var lines []interface{}
	for s, tag := range r.Species {
		xy := make(plotter.XYs, len(r.Frequencies))
		for j, f := range r.Frequencies {
			xy[j].X = f
			xy[j].Y = a.At(j, s)
			total[j].X = f
			total[j].Y += xy[j].Y
		}
		lines = append(lines, tag, xy)
	}
	lines = append(lines, "Total", total)
	if err = plotutil.AddLinePoints(p, lines...); err != nil {
		return nil, err
	}
	return p, nil
}

// savePlot saves p to fileName, with the format implied by the file extension.
func savePlot(p *plot.Plot, fileName string) error {
	const w, h = 6 * vg.Inch, 4 * vg.Inch
	if err := p.Save(w, h, fileName); err != nil {
		return fmt.Errorf("abslookuputil: saving plot: %v", err)
	}
	return nil
}

