package cmd

import (
	"fmt"
	"math"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	sim "github.com/freeway-sim/freeway-sim/sim"
	"github.com/freeway-sim/freeway-sim/sim/plot"
)

var (
	// Scenario flags
	seed           int64   // Seed for speed and gap sampling
	meanSpeed      float64 // Mean speed of traffic (km/h)
	maxSpeed       float64 // Upper truncation bound for speeds (km/h)
	minSpeed       float64 // Lower truncation bound for speeds (km/h)
	stdev          float64 // Stdev of the speed distribution before truncation
	referenceSpeed float64 // Fixed speed of the reference vehicle (km/h)
	windowMinutes  float64 // How long the reference vehicle drives (minutes)
	highwayLength  float64 // Length of highway behind the reference vehicle (m)
	densityPerKm   float64 // Active vehicles per km
	population     int     // Explicit vehicle count, overrides density when > 0
	configPath     string  // Path to YAML scenario file
	logLevel       string  // Log verbosity level

	// Output flags
	resultsPath     string // File to save JSON results to
	resultsVehicles bool   // Include per-vehicle rows in the results file
	plotPath        string // File to save the scatter plot to
	plotCSVPath     string // File to dump scatter points to as CSV

	// Sweep flags
	sweepWindows []float64 // Windows (minutes) to count passes for
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "freeway-sim",
	Short: "Estimate how many cars overtake a vehicle cruising at fixed speed",
}

// setupLogging applies --log; an unknown level is fatal.
func setupLogging() {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		logrus.Fatalf("Invalid log level: %s", logLevel)
	}
	logrus.SetLevel(level)
}

// scenarioConfig builds the run Config. Without --config every flag applies;
// with --config the file supplies values and only flags set explicitly override it.
func scenarioConfig(cmd *cobra.Command) (sim.Config, error) {
	cfg := sim.DefaultConfig()
	if configPath != "" {
		loaded, err := sim.LoadConfig(configPath)
		if err != nil {
			return sim.Config{}, err
		}
		cfg = loaded
	}
	apply := func(name string) bool {
		return configPath == "" || cmd.Flags().Changed(name)
	}
	if apply("seed") {
		cfg.Seed = seed
	}
	if apply("mean-speed") {
		cfg.MeanSpeed = meanSpeed
	}
	if apply("max-speed") {
		cfg.MaxSpeed = maxSpeed
	}
	if apply("min-speed") {
		cfg.MinSpeed = minSpeed
	}
	if apply("stdev") {
		cfg.Stdev = stdev
	}
	if apply("reference-speed") {
		cfg.ReferenceSpeed = referenceSpeed
	}
	if apply("window") {
		cfg.WindowMinutes = windowMinutes
	}
	if apply("highway-length") {
		cfg.HighwayLength = highwayLength
	}
	if apply("density") {
		cfg.DensityPerKm = densityPerKm
	}
	if apply("population") {
		cfg.Population = population
	}
	return cfg, cfg.Validate()
}

// runCmd executes one scenario using parameters from CLI flags
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Sample traffic, count passing cars and report statistics",
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging()

		cfg, err := scenarioConfig(cmd)
		if err != nil {
			logrus.Fatalf("Invalid scenario: %v", err)
		}
		logrus.Infof("Starting simulation with %d vehicles, seed=%d, reference=%.1fkm/h, window=%vmin",
			cfg.NumVehicles(), cfg.Seed, cfg.ReferenceSpeed, cfg.WindowMinutes)

		startTime := time.Now()
		s, err := sim.NewSimulator(cfg)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		summary := s.Run()

		if err := summary.Print(os.Stdout); err != nil {
			logrus.Fatalf("Failed to print statistics: %v", err)
		}

		if resultsPath != "" {
			out := sim.NewResultsOutput(cfg, s.Sample, summary, startTime, resultsVehicles)
			if err := sim.SaveResults(out, resultsPath); err != nil {
				logrus.Fatalf("%v", err)
			}
		}

		// Plot sinks run last, after every statistic is final.
		if plotPath != "" {
			if err := s.RenderPlot(plot.NewPNGSink(plotPath)); err != nil {
				logrus.Errorf("Failed to render plot: %v", err)
			}
		}
		if plotCSVPath != "" {
			if err := renderCSV(s, plotCSVPath); err != nil {
				logrus.Errorf("Failed to dump plot points: %v", err)
			}
		}
	},
}

func renderCSV(s *sim.Simulator, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := s.RenderPlot(&plot.CSVSink{W: f}); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// validateWindows rejects an empty list and any NaN, infinite or negative window.
func validateWindows(windows []float64) error {
	if len(windows) == 0 {
		return fmt.Errorf("at least one window is required")
	}
	for _, w := range windows {
		if math.IsNaN(w) || math.IsInf(w, 0) || w < 0 {
			return fmt.Errorf("windows must be finite and >= 0, got %v", w)
		}
	}
	return nil
}

// sweepCmd counts passes for several windows over one fixed sample.
var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Count passing cars for a range of windows on one sample",
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging()

		cfg, err := scenarioConfig(cmd)
		if err != nil {
			logrus.Fatalf("Invalid scenario: %v", err)
		}
		if err := validateWindows(sweepWindows); err != nil {
			logrus.Fatalf("Invalid --windows: %v", err)
		}
		s, err := sim.NewSimulator(cfg)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		s.Run()

		counts := sim.PassedCountForWindows(s.Sample, sweepWindows)
		fmt.Printf("=== Passes by window (%d vehicles) ===\n", len(s.Sample))
		for i, w := range sweepWindows {
			fmt.Printf("%6.1f min: %d\n", w, counts[i])
		}
	},
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// addScenarioFlags registers the flags shared by run and sweep.
func addScenarioFlags(cmd *cobra.Command) {
	def := sim.DefaultConfig()
	cmd.Flags().Int64Var(&seed, "seed", def.Seed, "Seed for speed and gap sampling")
	cmd.Flags().StringVar(&logLevel, "log", "warn", "Log level (trace, debug, info, warn, error, fatal, panic)")
	cmd.Flags().StringVar(&configPath, "config", "", "Path to YAML scenario file; explicitly set flags override it")

	// Speed distribution
	cmd.Flags().Float64Var(&meanSpeed, "mean-speed", def.MeanSpeed, "Mean speed of traffic (km/h)")
	cmd.Flags().Float64Var(&maxSpeed, "max-speed", def.MaxSpeed, "Max speed of traffic (km/h)")
	cmd.Flags().Float64Var(&minSpeed, "min-speed", def.MinSpeed, "Min speed of traffic (km/h)")
	cmd.Flags().Float64Var(&stdev, "stdev", def.Stdev, "Stdev of traffic speed (km/h)")

	// Reference vehicle and road
	cmd.Flags().Float64Var(&referenceSpeed, "reference-speed", def.ReferenceSpeed, "Fixed speed of the reference vehicle (km/h)")
	cmd.Flags().Float64Var(&windowMinutes, "window", def.WindowMinutes, "How long the reference vehicle drives (minutes)")
	cmd.Flags().Float64Var(&highwayLength, "highway-length", def.HighwayLength, "Length of highway behind the reference vehicle (m)")
	cmd.Flags().Float64Var(&densityPerKm, "density", def.DensityPerKm, "Active vehicles per km")
	cmd.Flags().IntVar(&population, "population", def.Population, "Number of vehicles (0 = highway-length/1000 * density)")
}

// init sets up CLI flags and subcommands
func init() {
	addScenarioFlags(runCmd)
	runCmd.Flags().StringVar(&resultsPath, "results-path", "", "File to save JSON results to")
	runCmd.Flags().BoolVar(&resultsVehicles, "results-vehicles", false, "Include per-vehicle rows in the results file")
	runCmd.Flags().StringVar(&plotPath, "plot-path", "", "File to save the scatter plot to (png, svg, pdf)")
	runCmd.Flags().StringVar(&plotCSVPath, "plot-csv", "", "File to dump scatter points to as CSV")

	addScenarioFlags(sweepCmd)
	sweepCmd.Flags().Float64SliceVar(&sweepWindows, "windows", []float64{1, 5, 10, 15, 30, 60}, "Comma-separated windows in minutes")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(sweepCmd)
}
