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

// Package abslookuputil contains the command-line interface for
// gas absorption lookup tables.
package abslookuputil

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/lnashier/viper"
	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/abslookup"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Cfg holds configuration information.
var Cfg *viper.Viper

var options []struct {
	name, usage, shorthand string
	defaultVal             interface{}
	flagsets               []*pflag.FlagSet
}

func init() {
	// Options are the configuration options available to abslookup.
	options = []struct {
		name, usage, shorthand string
		defaultVal             interface{}
		flagsets               []*pflag.FlagSet
	}{
		{
			name: "config",
			usage: `
              config specifies the configuration file location.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "verbosity",
			usage: `
              verbosity specifies the level of logging output: one of
              "panic", "fatal", "error", "warning", "info" or "debug".`,
			shorthand:  "v",
			defaultVal: "info",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "Table",
			usage: `
              Table is the path to the lookup table in NetCDF format. It can
              include environment variables and can be an http(s) URL.`,
			shorthand:  "t",
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "Adapt.Species",
			usage: `
              Adapt.Species lists the species tags the table should be adapted to.
              If empty, all species in the table are kept.`,
			defaultVal: []string{},
			flagsets:   []*pflag.FlagSet{adaptCmd.Flags(), extractCmd.Flags(), plotCmd.Flags()},
		},
		{
			name: "Adapt.Frequencies",
			usage: `
              Adapt.Frequencies lists the frequencies [Hz] the table should be
              adapted to, in increasing order. Each must match a frequency
              in the table to within 1 Hz. If neither Adapt.Frequencies nor
              Adapt.FrequencyFile is set, all frequencies are kept.`,
			defaultVal: []string{},
			flagsets:   []*pflag.FlagSet{adaptCmd.Flags(), extractCmd.Flags(), plotCmd.Flags()},
		},
		{
			name: "Adapt.FrequencyFile",
			usage: `
              Adapt.FrequencyFile is the path to a text file listing the
              frequencies [Hz] the table should be adapted to, separated by
              white space. It can include environment variables.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{adaptCmd.Flags(), extractCmd.Flags(), plotCmd.Flags()},
		},
		{
			name: "Atmosphere",
			usage: `
              Atmosphere is the path to a TOML file holding the Pressure [Pa],
              Temperature [K] and VMR profiles that absorption coefficients
              should be calculated for. It can include environment variables.`,
			shorthand:  "a",
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{extractCmd.Flags(), plotCmd.Flags()},
		},
		{
			name: "OutputFile",
			usage: `
              OutputFile is the path where output should be written. For the
              extract command, the extension ".nc" selects NetCDF output and
              ".xlsx" selects Microsoft Excel output. The plot format follows
              the extension, e.g. ".png". It can include environment variables.`,
			shorthand:  "o",
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{adaptCmd.Flags(), extractCmd.Flags(), plotCmd.Flags()},
		},
		{
			name: "OutputVariables",
			usage: `
              OutputVariables specifies additional variables to include in the
              extract output, as a map of variable names to expressions.
              Expressions can refer to each species tag (with characters other
              than letters, digits and underscores replaced by underscores),
              Total, Frequency, Pressure and Temperature, and use the
              functions exp, log, log10 and max. For example:
              '{"H2OFrac":"H2O_PWR98/Total"}'`,
			defaultVal: map[string]string{},
			flagsets:   []*pflag.FlagSet{extractCmd.Flags()},
		},
		{
			name: "PressureOrder",
			usage: `
              PressureOrder is the polynomial order of interpolation in
              log pressure.`,
			defaultVal: abslookup.DefaultOrders.Pressure,
			flagsets:   []*pflag.FlagSet{extractCmd.Flags(), plotCmd.Flags()},
		},
		{
			name: "TemperatureOrder",
			usage: `
              TemperatureOrder is the polynomial order of interpolation in
              the temperature perturbation.`,
			defaultVal: abslookup.DefaultOrders.Temperature,
			flagsets:   []*pflag.FlagSet{extractCmd.Flags(), plotCmd.Flags()},
		},
		{
			name: "HumidityOrder",
			usage: `
              HumidityOrder is the polynomial order of interpolation in the
              H2O perturbation of nonlinear species.`,
			defaultVal: abslookup.DefaultOrders.Humidity,
			flagsets:   []*pflag.FlagSet{extractCmd.Flags(), plotCmd.Flags()},
		},
		{
			name: "PlotLevel",
			usage: `
              PlotLevel is the index of the atmospheric level to plot.`,
			defaultVal: 0,
			flagsets:   []*pflag.FlagSet{plotCmd.Flags()},
		},
	}

	Cfg = viper.New()

	// Set the prefix for configuration environment variables.
	Cfg.SetEnvPrefix("ABSLOOKUP")

	for _, option := range options {
		for i, set := range option.flagsets {
			if i != 0 { // We don't want to create the same flag twice.
				set.AddFlag(option.flagsets[0].Lookup(option.name))
				continue
			}
			switch option.defaultVal.(type) {
			case string:
				if option.shorthand == "" {
					set.String(option.name, option.defaultVal.(string), option.usage)
				} else {
					set.StringP(option.name, option.shorthand, option.defaultVal.(string), option.usage)
				}
			case []string:
				if option.shorthand == "" {
					set.StringSlice(option.name, option.defaultVal.([]string), option.usage)
				} else {
					set.StringSliceP(option.name, option.shorthand, option.defaultVal.([]string), option.usage)
				}
			case int:
				if option.shorthand == "" {
					set.Int(option.name, option.defaultVal.(int), option.usage)
				} else {
					set.IntP(option.name, option.shorthand, option.defaultVal.(int), option.usage)
				}
			case map[string]string:
				b := bytes.NewBuffer(nil)
				e := json.NewEncoder(b)
				e.Encode(option.defaultVal)
				s := string(b.Bytes())
				if option.shorthand == "" {
					set.String(option.name, s, option.usage)
				} else {
					set.StringP(option.name, option.shorthand, s, option.usage)
				}
			default:
				panic("invalid argument type")
			}
			Cfg.BindPFlag(option.name, set.Lookup(option.name))
		}
	}
}

func init() {
	// Link the commands together.
	Root.AddCommand(versionCmd)
	Root.AddCommand(infoCmd)
	Root.AddCommand(adaptCmd)
	Root.AddCommand(extractCmd)
	Root.AddCommand(plotCmd)
}

// setConfig finds and reads in the configuration file, if there is one.
func setConfig() error {
	if cfgpath := Cfg.GetString("config"); cfgpath != "" {
		Cfg.SetConfigFile(cfgpath)
		if err := Cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("abslookup: problem reading configuration file: %v", err)
		}
	}
	return nil
}

// logger returns a logger writing to the error output of cmd at the
// configured verbosity.
func logger(cmd *cobra.Command) (*logrus.Logger, error) {
	return newLogger(cmd.OutOrStderr(), Cfg.GetString("verbosity"))
}

// Root is the main command.
var Root = &cobra.Command{
	Use:   "abslookup",
	Short: "A gas absorption lookup table tool.",
	Long: `abslookup works with gas absorption lookup tables, which hold precomputed
absorption cross sections as a function of frequency, pressure, temperature and,
for nonlinear species, H2O concentration.
Use the subcommands specified below to access the functionality.

Refer to the subcommand documentation for configuration options and default settings.
Configuration can be changed by using a configuration file (and providing the
path to the file using the --config flag), by using command-line arguments,
or by setting environment variables in the format 'ABSLOOKUP_var' where 'var' is the
name of the variable to be set. Many configuration variables are additionally
allowed to contain environment variables within them.
Refer to https://github.com/spf13/viper for additional configuration information.`,
	DisableAutoGenTag: true,
	PersistentPreRunE: func(*cobra.Command, []string) error { return setConfig() },
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  "version prints the version number of this version of abslookup.",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("abslookup v%s (table data version %s)\n", abslookup.Version, abslookup.DataVersion)
	},
	DisableAutoGenTag: true,
}

// infoCmd summarizes the contents of a lookup table.
var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Summarize a lookup table.",
	Long: `info prints the species, grids and cross section statistics of the
lookup table specified by the Table configuration variable.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		log, err := logger(cmd)
		if err != nil {
			return err
		}
		t, err := ReadTable(context.Background(), Cfg.GetString("Table"), log)
		if err != nil {
			return err
		}
		Info(cmd.OutOrStdout(), t)
		return nil
	},
	DisableAutoGenTag: true,
}

// adaptCmd adapts a lookup table and saves the result.
var adaptCmd = &cobra.Command{
	Use:   "adapt",
	Short: "Adapt a lookup table to a set of species and frequencies.",
	Long: `adapt reduces the lookup table specified by the Table configuration
variable to the species in Adapt.Species and the frequencies in Adapt.Frequencies
or Adapt.FrequencyFile, and writes the resulting table to OutputFile.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		log, err := logger(cmd)
		if err != nil {
			return err
		}
		outputFile, err := checkOutputFile(Cfg.GetString("OutputFile"))
		if err != nil {
			return err
		}
		freqs, err := adaptFrequencies(Cfg)
		if err != nil {
			return err
		}
		return Adapt(context.Background(), Cfg.GetString("Table"),
			expandStringSlice(Cfg.GetStringSlice("Adapt.Species")), freqs, outputFile, log)
	},
	DisableAutoGenTag: true,
}

// extractCmd calculates absorption coefficients for an atmospheric profile.
var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Calculate absorption coefficients for an atmospheric profile.",
	Long: `extract adapts the lookup table specified by the Table configuration
variable, interpolates it to each level of the atmospheric profile in the
Atmosphere file, and writes the absorption coefficient of each species at
each level and frequency to OutputFile.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		log, err := logger(cmd)
		if err != nil {
			return err
		}
		outputFile, err := checkOutputFile(Cfg.GetString("OutputFile"))
		if err != nil {
			return err
		}
		vars, err := GetStringMapString("OutputVariables", Cfg)
		if err != nil {
			return err
		}
		outputVars, err := checkOutputVars(vars)
		if err != nil {
			return err
		}
		freqs, err := adaptFrequencies(Cfg)
		if err != nil {
			return err
		}
		o, err := orders(Cfg)
		if err != nil {
			return err
		}
		return Extract(context.Background(), Cfg.GetString("Table"), Cfg.GetString("Atmosphere"),
			expandStringSlice(Cfg.GetStringSlice("Adapt.Species")), freqs, o, outputVars, outputFile, log)
	},
	DisableAutoGenTag: true,
}

// plotCmd plots absorption spectra for one atmospheric level.
var plotCmd = &cobra.Command{
	Use:   "plot",
	Short: "Plot absorption spectra.",
	Long: `plot calculates absorption coefficients in the same way as the extract
command and plots the spectrum of each species at level PlotLevel of the
atmospheric profile to OutputFile.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		log, err := logger(cmd)
		if err != nil {
			return err
		}
		outputFile, err := checkOutputFile(Cfg.GetString("OutputFile"))
		if err != nil {
			return err
		}
		freqs, err := adaptFrequencies(Cfg)
		if err != nil {
			return err
		}
		o, err := orders(Cfg)
		if err != nil {
			return err
		}
		return Plot(context.Background(), Cfg.GetString("Table"), Cfg.GetString("Atmosphere"),
			expandStringSlice(Cfg.GetStringSlice("Adapt.Species")), freqs, o, Cfg.GetInt("PlotLevel"), outputFile, log)
	},
	DisableAutoGenTag: true,
}
