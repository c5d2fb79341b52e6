/*
Copyright © 2026 the ASLI authors.
This file is part of ASLI.

ASLI is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

ASLI is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with ASLI.  If not, see <http://www.gnu.org/licenses/>.
*/

// Package asliutil wires the asli library into a command-line tool.
package asliutil

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/lnashier/viper"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	asli "github.com/thomaszwagerman/amundsen-sea-low-index"
)

// Cfg holds configuration information.
var Cfg *viper.Viper

var logger = logrus.StandardLogger()

var options []struct {
	name, usage, shorthand string
	defaultVal             interface{}
	flagsets               []*pflag.FlagSet
}

func init() {
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
			name: "DataDir",
			usage: `
              DataDir is the directory holding the input data files.`,
			shorthand:  "d",
			defaultVal: "./data",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "MaskFilename",
			usage: `
              MaskFilename is the land-sea mask NetCDF file, within DataDir.`,
			defaultVal: asli.DefaultMaskFilename,
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "MSLPattern",
			usage: `
              MSLPattern is a file path or glob pattern (within DataDir) matching
              the mean sea level pressure NetCDF files.`,
			defaultVal: asli.DefaultMSLPattern,
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "Output",
			usage: `
              Output is the path the calculated index table is written to as CSV.`,
			shorthand:  "o",
			defaultVal: "asli_calculation.csv",
			flagsets:   []*pflag.FlagSet{calcCmd.Flags(), plotCmd.Flags()},
		},
		{
			name: "NJobs",
			usage: `
              NJobs is the number of time steps to process concurrently.`,
			shorthand:  "j",
			defaultVal: asli.DefaultJobs,
			flagsets:   []*pflag.FlagSet{calcCmd.Flags()},
		},
		{
			name: "Resample",
			usage: `
              Resample selects optional temporal resampling before detection:
              "season" for quarterly means anchored on March, or empty for none.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{calcCmd.Flags()},
		},
		{
			name: "Region.West",
			usage: `
              Region.West is the western bound of the calculation sector [degrees east, 0–360].`,
			defaultVal: asli.ASLRegion.West,
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "Region.East",
			usage: `
              Region.East is the eastern bound of the calculation sector [degrees east, 0–360].`,
			defaultVal: asli.ASLRegion.East,
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "Region.South",
			usage: `
              Region.South is the southern bound of the calculation sector [degrees north].`,
			defaultVal: asli.ASLRegion.South,
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "Region.North",
			usage: `
              Region.North is the northern bound of the calculation sector [degrees north].`,
			defaultVal: asli.ASLRegion.North,
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "PlotDir",
			usage: `
              PlotDir is the directory diagnostic maps are written into.`,
			defaultVal: "plots",
			flagsets:   []*pflag.FlagSet{plotCmd.Flags()},
		},
		{
			name: "MaxPlots",
			usage: `
              MaxPlots limits how many time steps are plotted; 0 plots all of them.`,
			defaultVal: 12,
			flagsets:   []*pflag.FlagSet{plotCmd.Flags()},
		},
		{
			name: "FetchURLs",
			usage: `
              FetchURLs are the URLs of input files to download into DataDir.`,
			defaultVal: []string{},
			flagsets:   []*pflag.FlagSet{fetchCmd.Flags()},
		},
	}

	Cfg = viper.New()

	// Set the prefix for configuration environment variables.
	Cfg.SetEnvPrefix("ASLI")

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
			case bool:
				if option.shorthand == "" {
					set.Bool(option.name, option.defaultVal.(bool), option.usage)
				} else {
					set.BoolP(option.name, option.shorthand, option.defaultVal.(bool), option.usage)
				}
			case int:
				if option.shorthand == "" {
					set.Int(option.name, option.defaultVal.(int), option.usage)
				} else {
					set.IntP(option.name, option.shorthand, option.defaultVal.(int), option.usage)
				}
			case float64:
				if option.shorthand == "" {
					set.Float64(option.name, option.defaultVal.(float64), option.usage)
				} else {
					set.Float64P(option.name, option.shorthand, option.defaultVal.(float64), option.usage)
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
	Root.AddCommand(calcCmd)
	Root.AddCommand(plotCmd)
	Root.AddCommand(fetchCmd)
}

// outChan returns a channel printing to standard output.
func outChan() chan string {
	outChan := make(chan string)
	go func() {
		for {
			msg := <-outChan
			fmt.Print(msg)
		}
	}()
	return outChan
}

// setConfig finds and reads in the configuration file, if there is one.
func setConfig() error {
	if cfgpath := Cfg.GetString("config"); cfgpath != "" {
		Cfg.SetConfigFile(cfgpath)
		if err := Cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("asli: problem reading configuration file: %v", err)
		}
	}
	return nil
}

// Root is the main command.
var Root = &cobra.Command{
	Use:   "asli",
	Short: "Calculate the Amundsen Sea Low Index.",
	Long: `asli computes an index of the Amundsen Sea Low from gridded mean sea
level pressure data.

Configuration can be changed by using a configuration file (and providing
the path to the file using the --config flag), by using command-line
arguments, or by setting environment variables in the format 'ASLI_var'
where 'var' is the name of the variable to be set.`,
	DisableAutoGenTag: true,
	PersistentPreRunE: func(*cobra.Command, []string) error { return setConfig() },
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  "version prints the version number of this version of ASLI.",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("ASLI v%s (calculation method %s)\n", asli.Version, asli.CalculationVersion)
	},
	DisableAutoGenTag: true,
}

// calcCmd runs the index calculation and writes the result as CSV.
var calcCmd = &cobra.Command{
	Use:   "calc",
	Short: "Calculate the index and write it to a CSV file.",
	Long: `calc reads the land-sea mask and mean sea level pressure inputs,
detects low-pressure centers in every time step, selects the index row per
step, and writes the resulting table to the Output file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c := CalculatorFromConfig(Cfg)
		c.MsgChan = outChan()
		if err := c.ReadData(); err != nil {
			return err
		}
		if resample := Cfg.GetString("Resample"); resample != "" {
			if resample != "season" {
				return fmt.Errorf("asli: unknown Resample value %q; want \"season\" or empty", resample)
			}
			sm, err := asli.SeasonMean(c.SlicedMSL)
			if err != nil {
				return err
			}
			c.SlicedMSL = sm
		}
		asl, err := c.Calculate(Cfg.GetInt("NJobs"))
		if err != nil {
			return err
		}
		output := os.ExpandEnv(Cfg.GetString("Output"))
		if err := asl.WriteCSVFile(output); err != nil {
			return err
		}
		logger.Infof("wrote %d index rows to %s", len(asl), output)
		return nil
	},
	DisableAutoGenTag: true,
}

// plotCmd renders diagnostic maps for a previous calculation.
var plotCmd = &cobra.Command{
	Use:   "plot",
	Short: "Render diagnostic maps of the pressure field and index.",
	Long: `plot reads the input data and a previously calculated index table
(the Output file) and renders one map per time step into PlotDir, showing
the masked pressure field, the calculation sector, and the selected low.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c := CalculatorFromConfig(Cfg)
		if err := c.ReadData(); err != nil {
			return err
		}
		asl, err := asli.ReadCSVFile(os.ExpandEnv(Cfg.GetString("Output")))
		if err != nil {
			return err
		}
		dir := os.ExpandEnv(Cfg.GetString("PlotDir"))
		if err := asli.PlotSteps(c.SlicedMSL, c.LandSeaMask, c.Region, asl, dir, Cfg.GetInt("MaxPlots")); err != nil {
			return err
		}
		logger.Infof("wrote plots to %s", dir)
		return nil
	},
	DisableAutoGenTag: true,
}

// fetchCmd downloads input files.
var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download input data files into DataDir.",
	Long: `fetch downloads each of the FetchURLs into DataDir, retrying with
exponential backoff on transient failures. Files that already exist are
left alone.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		dataDir := os.ExpandEnv(Cfg.GetString("DataDir"))
		if err := os.MkdirAll(filepath.Join(dataDir, "monthly"), 0755); err != nil {
			return fmt.Errorf("asli: creating data directory: %w", err)
		}
		urls := append(Cfg.GetStringSlice("FetchURLs"), args...)
		if len(urls) == 0 {
			return fmt.Errorf("asli: no URLs to fetch; set FetchURLs or pass URLs as arguments")
		}
		for _, u := range urls {
			dest, err := Fetch(u, dataDir)
			if err != nil {
				return err
			}
			logger.Infof("fetched %s", dest)
		}
		return nil
	},
	DisableAutoGenTag: true,
}
