package sim

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Distribution captures statistical summary of a speed column.
type Distribution struct {
	Mean  float64 `json:"mean"`
	P50   float64 `json:"p50"`
	P95   float64 `json:"p95"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Count int     `json:"count"`
}

// NewDistribution computes a Distribution from raw values.
// Returns zero-value Distribution for empty input.
func NewDistribution(values []float64) Distribution {
	if len(values) == 0 {
		return Distribution{}
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	return Distribution{
		Mean:  stat.Mean(sorted, nil),
		P50:   stat.Quantile(0.50, stat.LinInterp, sorted, nil),
		P95:   stat.Quantile(0.95, stat.LinInterp, sorted, nil),
		Min:   sorted[0],
		Max:   sorted[len(sorted)-1],
		Count: len(sorted),
	}
}

// Summary holds the statistics of one run. Non-finite fields mean "no data".
type Summary struct {
	Window           float64 // minutes
	TotalVehicles    int
	PassedCount      int
	MeanPassingSpeed float64 // NaN when nothing passed
	PassRate         float64 // floor(PassedCount / Window); NaN when Window is 0 or the sample is empty
	MaxSpeed         float64 // over the whole sample; NaN when empty
	MinSpeed         float64 // over the whole sample; NaN when empty

	Speeds        Distribution
	PassingSpeeds Distribution
}

// passes reports whether a catch-up time falls in [0, window]. NaN never passes.
func passes(minutes, window float64) bool {
	return minutes >= 0 && minutes <= window
}

// Summarize marks each row Passed when its catch-up time lies in [0, window]
// and aggregates the run. Rows must already be evaluated.
func Summarize(sample Sample, window float64) Summary {
	for i := range sample {
		sample[i].Passed = passes(sample[i].Time, window)
	}
	speeds := sample.Speeds()
	passing := sample.Passing().Speeds()

	s := Summary{
		Window:           window,
		TotalVehicles:    len(sample),
		PassedCount:      len(passing),
		MeanPassingSpeed: math.NaN(),
		PassRate:         math.NaN(),
		MaxSpeed:         math.NaN(),
		MinSpeed:         math.NaN(),
		Speeds:           NewDistribution(speeds),
		PassingSpeeds:    NewDistribution(passing),
	}
	if len(passing) > 0 {
		s.MeanPassingSpeed = stat.Mean(passing, nil)
	}
	if window > 0 && len(sample) > 0 {
		s.PassRate = math.Floor(float64(s.PassedCount) / window)
	}
	if len(speeds) > 0 {
		s.MaxSpeed = floats.Max(speeds)
		s.MinSpeed = floats.Min(speeds)
	}
	return s
}

// PassedCountForWindows counts, for each window, the rows whose catch-up time
// lies in [0, window]. The sample is not modified.
func PassedCountForWindows(sample Sample, windows []float64) []int {
	counts := make([]int, len(windows))
	for i, w := range windows {
		for _, v := range sample {
			if passes(v.Time, w) {
				counts[i]++
			}
		}
	}
	return counts
}
