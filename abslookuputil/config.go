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
	"bytes"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"

	"github.com/lnashier/viper"
	"github.com/spatialmodel/abslookup"
	"github.com/spf13/cast"
)

// checkOutputVars removes end lines and expands environment
// variables in the output variables. Unlike the other output
// checks, an empty set of variables is allowed.
func checkOutputVars(vars map[string]string) (map[string]string, error) {
	o := make(map[string]string, len(vars))
	for k, v := range vars {
		v = strings.Replace(v, "\r\n", " ", -1)
		v = strings.Replace(v, "\n", " ", -1)
		k = os.ExpandEnv(k)
		if k == "" {
			return nil, fmt.Errorf("abslookuputil: output variable with expression '%s' has no name", v)
		}
		o[k] = os.ExpandEnv(v)
	}
	return o, nil
}

// expandStringSlice expands the environment variables in a slice of strings.
func expandStringSlice(s []string) []string {
	for i := 0; i < len(s); i++ {
		s[i] = os.ExpandEnv(s[i])
	}
	return s
}

// checkOutputFile makes sure that the output file is specified and its
// directory exists, and expand any environment variables.
func checkOutputFile(f string) (string, error) {
	if f == "" {
		return "", fmt.Errorf(`you need to specify an output file configuration variable (for example: OutputFile="output.nc")`)
	}
	f = os.ExpandEnv(f)
	outdir := filepath.Dir(f)
	if _, err := os.Stat(outdir); err != nil {
		return f, fmt.Errorf("abslookuputil: the OutputFile directory doesn't exist: %v", err)
	}
	return f, nil
}

// checkOutputFormat returns the output format implied by the extension of
// the output file.
func checkOutputFormat(f string) (string, error) {
	switch ext := strings.ToLower(filepath.Ext(f)); ext {
	case ".nc", ".xlsx":
		return ext, nil
	default:
		return "", fmt.Errorf("abslookuputil: unsupported output file extension '%s'; "+
			"use '.nc' or '.xlsx'", ext)
	}
}

// orders reads the interpolation orders from cfg.
func orders(cfg *viper.Viper) (abslookup.Orders, error) {
	var o abslookup.Orders
	var err error
	if o.Pressure, err = cast.ToIntE(cfg.Get("PressureOrder")); err != nil {
		return o, fmt.Errorf("abslookuputil: parsing PressureOrder: %v", err)
	}
	if o.Temperature, err = cast.ToIntE(cfg.Get("TemperatureOrder")); err != nil {
		return o, fmt.Errorf("abslookuputil: parsing TemperatureOrder: %v", err)
	}
	if o.Humidity, err = cast.ToIntE(cfg.Get("HumidityOrder")); err != nil {
		return o, fmt.Errorf("abslookuputil: parsing HumidityOrder: %v", err)
	}
	return o, nil
}

// toFloat64SliceE converts the elements of s to float64.
func toFloat64SliceE(s []string) ([]float64, error) {
	o := make([]float64, 0, len(s))
	for _, v := range s {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		f, err := cast.ToFloat64E(v)
		if err != nil {
			return nil, err
		}
		o = append(o, f)
	}
	return o, nil
}

// adaptFrequencies returns the requested frequency grid, either listed
// directly in Adapt.Frequencies or, one or more per line, in the file
// Adapt.FrequencyFile. A nil result means the whole frequency grid of
// the table should be kept.
func adaptFrequencies(cfg *viper.Viper) ([]float64, error) {
	freqs, err := toFloat64SliceE(cfg.GetStringSlice("Adapt.Frequencies"))
	if err != nil {
		return nil, fmt.Errorf("abslookuputil: parsing Adapt.Frequencies: %v", err)
	}
	file := os.ExpandEnv(cfg.GetString("Adapt.FrequencyFile"))
	if file == "" {
		return freqs, nil
	}
	if len(freqs) > 0 {
		return nil, fmt.Errorf("abslookuputil: only one of Adapt.Frequencies and Adapt.FrequencyFile may be specified")
	}
	b, err := ioutil.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("abslookuputil: reading Adapt.FrequencyFile: %v", err)
	}
	freqs, err = toFloat64SliceE(strings.Fields(string(b)))
	if err != nil {
		return nil, fmt.Errorf("abslookuputil: parsing Adapt.FrequencyFile: %v", err)
	}
	return freqs, nil
}

// GetStringMapString returns a map[string]string from a viper configuration,
// accounting for the fact that it might be a json object if it was set
// from a command line argument.
func GetStringMapString(varName string, cfg *viper.Viper) (map[string]string, error) {
	i := cfg.Get(varName)
	switch v := i.(type) {
	case nil:
		return map[string]string{}, nil
	case map[string]string:
		return v, nil
	case map[string]interface{}:
		return cast.ToStringMapStringE(v)
	case string:
		o := make(map[string]string)
		if strings.TrimSpace(v) == "" {
			return o, nil
		}
		d := json.NewDecoder(bytes.NewBufferString(v))
		if err := d.Decode(&o); err != nil {
			return nil, fmt.Errorf("abslookuputil: parsing %s: %v", varName, err)
		}
		return o, nil
	default:
		return nil, fmt.Errorf("abslookuputil: invalid type for %s: %#v", varName, i)
	}
}
