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
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/GaryBoone/GoStats/stats"
	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/abslookup"
)

// newLogger returns a logger that writes to w at the given level.
func newLogger(w io.Writer, verbosity string) (*logrus.Logger, error) {
	level, err := logrus.ParseLevel(verbosity)
	if err != nil {
		return nil, fmt.Errorf("abslookuputil: invalid verbosity: %v", err)
	}
	log := logrus.New()
	log.Out = w
	log.Level = level
	return log, nil
}

// ReadTable reads a lookup table in NetCDF format from the given path,
// which can be a local file or an http(s) URL.
func ReadTable(ctx context.Context, path string, log logrus.FieldLogger) (*abslookup.Table, error) {
	if path == "" {
		return nil, fmt.Errorf("abslookuputil: the Table configuration variable is not set")
	}
	path, err := maybeDownload(ctx, os.ExpandEnv(path), log)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("abslookuputil: opening table: %v", err)
	}
	defer f.Close()
	t, err := abslookup.ReadNetCDF(f)
	if err != nil {
		return nil, err
	}
	log.WithFields(logrus.Fields{
		"file":        path,
		"species":     len(t.Species),
		"frequencies": len(t.FGrid),
		"pressures":   len(t.PGrid),
	}).Info("read lookup table")
	return t, nil
}

// Info writes a summary of the contents of t to w.
func Info(w io.Writer, t *abslookup.Table) {
	fmt.Fprintf(w, "Species (%d): %s\n", len(t.Species), strings.Join(t.Species, ", "))
	nls := make([]string, len(t.NonlinearSpecies))
	for i, s := range t.NonlinearSpecies {
		nls[i] = t.Species[s]
	}
	fmt.Fprintf(w, "Nonlinear species (%d): %s\n", len(nls), strings.Join(nls, ", "))
	fmt.Fprintf(w, "Frequencies: %d, %g to %g Hz\n", len(t.FGrid), t.FGrid[0], t.FGrid[len(t.FGrid)-1])
	fmt.Fprintf(w, "Pressures: %d, %g to %g Pa\n", len(t.PGrid), t.PGrid[0], t.PGrid[len(t.PGrid)-1])
	fmt.Fprintf(w, "Temperature perturbations: %v K\n", t.TPert)
	fmt.Fprintf(w, "H2O perturbations: %v\n", t.NLSPert)
	fmt.Fprintf(w, "Cross section shape: %v\n", t.XsecShape())
	x := t.Xsec.Elements
	fmt.Fprintf(w, "Cross sections: min %g, max %g, mean %g, standard deviation %g m2\n",
		stats.StatsMin(x), stats.StatsMax(x), stats.StatsMean(x), stats.StatsSampleStandardDeviation(x))
}

// Adapt reads the table at tablePath, adapts it to the given species
// and frequencies, and writes the result to outputFile in NetCDF format.
// If species or frequencies are empty, all of the species or frequencies
// in the table are kept.
func Adapt(ctx context.Context, tablePath string, species []string, frequencies []float64, outputFile string, log logrus.FieldLogger) error {
	t, err := adaptedTable(ctx, tablePath, species, frequencies, log)
	if err != nil {
		return err
	}
	w, err := os.Create(outputFile)
	if err != nil {
		return fmt.Errorf("abslookuputil: creating adapted table file: %v", err)
	}
	if err := t.WriteNetCDF(w); err != nil {
		w.Close()
		return err
	}
	log.WithField("file", outputFile).Info("wrote adapted table")
	return w.Close()
}

// adaptedTable reads and adapts the table at tablePath.
func adaptedTable(ctx context.Context, tablePath string, species []string, frequencies []float64, log logrus.FieldLogger) (*abslookup.Table, error) {
	t, err := ReadTable(ctx, tablePath, log)
	if err != nil {
		return nil, err
	}
	if len(species) == 0 {
		species = append([]string{}, t.Species...)
	}
	if len(frequencies) == 0 {
		frequencies = append([]float64{}, t.FGrid...)
	}
	if err := t.Adapt(species, frequencies, abslookup.WithLogger(log)); err != nil {
		return nil, fmt.Errorf("abslookuputil: adapting table: %w", err)
	}
	return t, nil
}

// readAtmosphere reads an atmospheric profile file for the given species.
func readAtmosphere(path string, species []string) (*abslookup.Atmosphere, error) {
	if path == "" {
		return nil, fmt.Errorf("abslookuputil: the Atmosphere configuration variable is not set")
	}
	f, err := os.Open(os.ExpandEnv(path))
	if err != nil {
		return nil, fmt.Errorf("abslookuputil: opening atmosphere file: %v", err)
	}
	defer f.Close()
	return abslookup.ReadAtmosphere(f, species)
}

// extractProfile reads and adapts the table at tablePath, and extracts
// absorption coefficients for every level of the atmosphere at atmPath.
// outputVars are evaluated over the results.
func extractProfile(ctx context.Context, tablePath, atmPath string, species []string, frequencies []float64,
	o abslookup.Orders, outputVars map[string]string, log logrus.FieldLogger) (*profileResults, error) {
	t, err := adaptedTable(ctx, tablePath, species, frequencies, log)
	if err != nil {
		return nil, err
	}
	ov, err := newOutputter(outputVars, t.Species)
	if err != nil {
		return nil, err
	}
	atm, err := readAtmosphere(atmPath, t.Species)
	if err != nil {
		return nil, err
	}
	absorption, err := t.ExtractProfile(o, abslookup.AllFrequencies, atm)
	if err != nil {
		return nil, fmt.Errorf("abslookuputil: extracting absorption: %w", err)
	}
	log.WithFields(logrus.Fields{
		"levels":      atm.Levels(),
		"frequencies": len(t.FGrid),
		"orders":      fmt.Sprintf("%+v", o),
	}).Info("extracted absorption coefficients")
	derived, err := ov.evaluate(t.FGrid, atm, absorption)
	if err != nil {
		return nil, err
	}
	return &profileResults{
		Species:     t.Species,
		Frequencies: t.FGrid,
		Atmosphere:  atm,
		Absorption:  absorption,
		Derived:     derived,
		names:       ov.names,
	}, nil
}

// Extract calculates absorption coefficients for the atmospheric profile
// at atmPath from the table at tablePath, after adapting the table to
// species and frequencies, and writes them to outputFile. The format of
// the output is NetCDF for the ".nc" extension and a Microsoft Excel
// spreadsheet for ".xlsx". outputVars are additional variables, calculated
// by evaluating the given expressions, to include in the output.
func Extract(ctx context.Context, tablePath, atmPath string, species []string, frequencies []float64,
	o abslookup.Orders, outputVars map[string]string, outputFile string, log logrus.FieldLogger) error {
	if _, err := checkOutputFormat(outputFile); err != nil {
		return err
	}
	r, err := extractProfile(ctx, tablePath, atmPath, species, frequencies, o, outputVars, log)
	if err != nil {
		return err
	}
	if err := r.write(outputFile); err != nil {
		return err
	}
	log.WithField("file", outputFile).Info("wrote absorption coefficients")
	return nil
}

// Plot calculates absorption coefficients in the same way as Extract and
// plots the spectra at the given level of the atmosphere to outputFile.
func Plot(ctx context.Context, tablePath, atmPath string, species []string, frequencies []float64,
	o abslookup.Orders, level int, outputFile string, log logrus.FieldLogger) error {
	r, err := extractProfile(ctx, tablePath, atmPath, species, frequencies, o, nil, log)
	if err != nil {
		return err
	}
	p, err := r.plotLevel(level)
	if err != nil {
		return err
	}
	if err := savePlot(p, outputFile); err != nil {
		return err
	}
	log.WithField("file", outputFile).Info("wrote plot")
	return nil
}
