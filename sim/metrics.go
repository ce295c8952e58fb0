// Formats run statistics for the console, the JSON results file and the plot sink.

package sim

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"time"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	"github.com/freeway-sim/freeway-sim/sim/internal/hash"
	"github.com/freeway-sim/freeway-sim/sim/plot"
)

// noData is printed in place of undefined statistics.
const noData = "no data"

// Pass-status categories used by the scatter plot.
const (
	CategoryPassed    = "yes"
	CategoryNotPassed = "no"
)

func formatOneDecimal(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return noData
	}
	return strconv.FormatFloat(v, 'f', 1, 64)
}

// Print writes the run statistics, one per line, in fixed order.
func (s Summary) Print(w io.Writer) error {
	lines := []string{
		"Mean passing speed of cars: " + formatOneDecimal(s.MeanPassingSpeed),
		"Total cars on road: " + strconv.Itoa(s.TotalVehicles),
		fmt.Sprintf("Number of cars that passed in %s minutes: %d",
			strconv.FormatFloat(s.Window, 'f', -1, 64), s.PassedCount),
		"Cars/minute that passed: " + formatOneDecimal(s.PassRate),
		"Max speed: " + formatOneDecimal(s.MaxSpeed),
		"Min speed: " + formatOneDecimal(s.MinSpeed),
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// finite returns nil for values JSON cannot carry.
func finite(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// VehicleOutput is one row of the detailed results file.
type VehicleOutput struct {
	Speed  float64  `json:"speed_kmh"`
	Gap    float64  `json:"gap_m"`
	Dist   *float64 `json:"dist_m"`
	Time   *float64 `json:"time_min"`
	Passed bool     `json:"passed"`
}

// ResultsOutput is the JSON document written by SaveResults.
// Undefined statistics are encoded as null.
type ResultsOutput struct {
	SimStartTimestamp string          `json:"sim_start_timestamp"`
	SimEndTimestamp   string          `json:"sim_end_timestamp"`
	Config            Config          `json:"config"`
	SampleDigest      string          `json:"sample_digest"`
	TotalVehicles     int             `json:"total_vehicles"`
	PassedCount       int             `json:"passed_count"`
	MeanPassingSpeed  *float64        `json:"mean_passing_speed"`
	PassRate          *float64        `json:"pass_rate_per_min"`
	MaxSpeed          *float64        `json:"max_speed"`
	MinSpeed          *float64        `json:"min_speed"`
	Speeds            Distribution    `json:"speeds"`
	PassingSpeeds     Distribution    `json:"passing_speeds"`
	Vehicles          []VehicleOutput `json:"vehicles,omitempty"`
}

// NewResultsOutput assembles the results document. Per-vehicle rows are
// included only when withVehicles is set.
func NewResultsOutput(cfg Config, sample Sample, s Summary, startTime time.Time, withVehicles bool) ResultsOutput {
	out := ResultsOutput{
		SimStartTimestamp: startTime.Format("2006-01-02 15:04:05"),
		SimEndTimestamp:   time.Now().Format("2006-01-02 15:04:05"),
		Config:            cfg,
		SampleDigest:      sample.Digest(),
		TotalVehicles:     s.TotalVehicles,
		PassedCount:       s.PassedCount,
		MeanPassingSpeed:  finite(s.MeanPassingSpeed),
		PassRate:          finite(s.PassRate),
		MaxSpeed:          finite(s.MaxSpeed),
		MinSpeed:          finite(s.MinSpeed),
		Speeds:            s.Speeds,
		PassingSpeeds:     s.PassingSpeeds,
	}
	if withVehicles {
		out.Vehicles = lo.Map(sample, func(v Vehicle, _ int) VehicleOutput {
			return VehicleOutput{Speed: v.Speed, Gap: v.Gap, Dist: finite(v.Dist), Time: finite(v.Time), Passed: v.Passed}
		})
	}
	return out
}

// SaveResults writes out as indented JSON to outputFilePath.
func SaveResults(out ResultsOutput, outputFilePath string) error {
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling results to JSON: %w", err)
	}
	if err := os.WriteFile(outputFilePath, data, 0644); err != nil {
		return fmt.Errorf("writing results file: %w", err)
	}
	logrus.Infof("Results written to: %s", outputFilePath)
	return nil
}

// Digest returns a SHA256 over the exact bits of every row. Equal digests mean
// the two samples (including derived columns) are identical bit-for-bit.
func (s Sample) Digest() string {
	rows := lo.Map(s, func(v Vehicle, _ int) []float64 {
		passed := 0.0
		if v.Passed {
			passed = 1
		}
		return []float64{v.Speed, v.Gap, v.Dist, v.Time, passed}
	})
	return hash.HashRows(rows)
}

// ScatterPoints maps each row to (gap in km, speed, pass status).
func ScatterPoints(sample Sample) []plot.Point {
	return lo.Map(sample, func(v Vehicle, _ int) plot.Point {
		category := CategoryNotPassed
		if v.Passed {
			category = CategoryPassed
		}
		return plot.Point{X: v.Gap / 1000, Y: v.Speed, Category: category}
	})
}
