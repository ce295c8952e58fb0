package sim

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// handSample has catch-up times on both sides of every window boundary.
func handSample() Sample {
	return Sample{
		{Speed: 100, Time: -1},
		{Speed: 130, Time: 0},
		{Speed: 140, Time: 5},
		{Speed: 150, Time: 15},
		{Speed: 160, Time: 15.0001},
		{Speed: 120, Time: math.NaN()},
		{Speed: 120, Time: math.Inf(1)},
		{Speed: 70, Time: -20},
	}
}

func TestSummarize_MarksInclusiveWindow(t *testing.T) {
	// GIVEN rows with times -1, 0, 5, 15, 15.0001, NaN, +Inf, -20
	sample := handSample()

	// WHEN summarized with a 15-minute window
	s := Summarize(sample, 15)

	// THEN only 0, 5 and 15 pass
	passed := []bool{false, true, true, true, false, false, false, false}
	for i, v := range sample {
		assert.Equal(t, passed[i], v.Passed, "row %d", i)
	}
	assert.Equal(t, 8, s.TotalVehicles)
	assert.Equal(t, 3, s.PassedCount)
	assert.InDelta(t, 140, s.MeanPassingSpeed, 1e-12)
	assert.Equal(t, 0.0, s.PassRate)
	assert.Equal(t, 160.0, s.MaxSpeed)
	assert.Equal(t, 70.0, s.MinSpeed)
	assert.Equal(t, 8, s.Speeds.Count)
	assert.Equal(t, 3, s.PassingSpeeds.Count)
	assert.Equal(t, 130.0, s.PassingSpeeds.Min)
	assert.Equal(t, 150.0, s.PassingSpeeds.Max)
}

func TestSummarize_PassRateFloors(t *testing.T) {
	sample := make(Sample, 7)
	for i := range sample {
		sample[i] = Vehicle{Speed: 130, Time: float64(i) * 0.1}
	}
	s := Summarize(sample, 2)
	assert.Equal(t, 7, s.PassedCount)
	assert.Equal(t, 3.0, s.PassRate)
}

func TestSummarize_ExtremaCoverWholeSample(t *testing.T) {
	// Max and min include rows that did not pass.
	s := Summarize(handSample(), 1)
	assert.Equal(t, 1, s.PassedCount)
	assert.Equal(t, 160.0, s.MaxSpeed)
	assert.Equal(t, 70.0, s.MinSpeed)
	assert.Equal(t, 130.0, s.MeanPassingSpeed)
}

func TestSummarize_NothingPassed_MeanIsNoData(t *testing.T) {
	sample := Sample{{Speed: 90, Time: -4}, {Speed: 100, Time: -1}}
	s := Summarize(sample, 15)
	assert.Equal(t, 0, s.PassedCount)
	assert.True(t, math.IsNaN(s.MeanPassingSpeed))
	assert.Equal(t, 0.0, s.PassRate)
	assert.Equal(t, 100.0, s.MaxSpeed)
	assert.Zero(t, s.PassingSpeeds.Count)
}

func TestSummarize_EmptySample_AllNoData(t *testing.T) {
	s := Summarize(Sample{}, 15)
	assert.Zero(t, s.TotalVehicles)
	assert.Zero(t, s.PassedCount)
	assert.True(t, math.IsNaN(s.MeanPassingSpeed))
	assert.True(t, math.IsNaN(s.MaxSpeed))
	assert.True(t, math.IsNaN(s.MinSpeed))
	assert.True(t, math.IsNaN(s.PassRate), "an empty population has no pass rate")
	assert.Equal(t, Distribution{}, s.Speeds)
}

func TestSummarize_ZeroWindow_CountsExactZeros(t *testing.T) {
	s := Summarize(handSample(), 0)
	assert.Equal(t, 1, s.PassedCount)
	assert.True(t, math.IsNaN(s.PassRate))
}

func TestSummarize_ZeroWindow_SampledPopulationPassesNone(t *testing.T) {
	// Continuous gaps start at 1 m, so no sampled time is exactly 0.
	cfg := DefaultConfig()
	cfg.WindowMinutes = 0
	sample := mustGenerateSample(t, cfg)
	Evaluate(sample, cfg.ReferenceSpeed)
	assert.Equal(t, 0, Summarize(sample, 0).PassedCount)
}

func TestSummarize_PassedCountMatchesBruteForce(t *testing.T) {
	cfg := DefaultConfig()
	sample := mustGenerateSample(t, cfg)
	Evaluate(sample, cfg.ReferenceSpeed)

	s := Summarize(sample, cfg.WindowMinutes)

	want := 0
	for _, v := range sample {
		if v.Time >= 0 && v.Time <= cfg.WindowMinutes {
			want++
		}
	}
	assert.Equal(t, want, s.PassedCount)
	assert.Positive(t, s.PassedCount, "the reference scenario should have passing cars")
	assert.Less(t, s.PassedCount, s.TotalVehicles)
}

func TestPassedCountForWindows_MonotoneInWindow(t *testing.T) {
	// GIVEN one fixed evaluated sample
	cfg := DefaultConfig()
	sample := mustGenerateSample(t, cfg)
	Evaluate(sample, cfg.ReferenceSpeed)
	before := sample.Digest()

	// WHEN counting over increasing windows
	windows := []float64{0, 0.5, 1, 2, 5, 10, 15, 30, 60, 120, 1e6}
	counts := PassedCountForWindows(sample, windows)

	// THEN counts never decrease and the sample is untouched
	require.Len(t, counts, len(windows))
	for i := 1; i < len(counts); i++ {
		assert.GreaterOrEqual(t, counts[i], counts[i-1], "window %v", windows[i])
	}
	assert.Equal(t, before, sample.Digest())

	// AND each count agrees with Summarize for that window
	for i, w := range windows {
		assert.Equal(t, counts[i], Summarize(append(Sample(nil), sample...), w).PassedCount)
	}
}

func TestNewDistribution(t *testing.T) {
	d := NewDistribution([]float64{5, 1, 3, 2, 4})
	assert.Equal(t, 5, d.Count)
	assert.Equal(t, 3.0, d.Mean)
	assert.Equal(t, 1.0, d.Min)
	assert.Equal(t, 5.0, d.Max)
	assert.GreaterOrEqual(t, d.P50, d.Min)
	assert.LessOrEqual(t, d.P50, d.P95)
	assert.LessOrEqual(t, d.P95, d.Max)

	single := NewDistribution([]float64{7})
	assert.Equal(t, 7.0, single.P50)
	assert.Equal(t, 7.0, single.P95)

	assert.Equal(t, Distribution{}, NewDistribution(nil))
}
