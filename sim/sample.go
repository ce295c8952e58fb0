package sim

import (
	"fmt"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/stat/distuv"
)

// minGap is the closest a trailing vehicle starts to the reference vehicle, in meters.
const minGap = 1.0

// Vehicle is one row of the sampled population.
type Vehicle struct {
	Speed  float64 // v1, km/h
	Gap    float64 // initial distance behind the reference vehicle, meters
	Dist   float64 // closing distance, meters (negative when slower than the reference)
	Time   float64 // catch-up time, minutes (non-finite when Speed equals the reference speed)
	Passed bool    // caught up within the window
}

// Sample is the whole population of a run. Rows are independent; order carries no meaning.
type Sample []Vehicle

// Speeds returns the v1 column.
func (s Sample) Speeds() []float64 {
	return lo.Map(s, func(v Vehicle, _ int) float64 { return v.Speed })
}

// Passing returns the rows marked Passed.
func (s Sample) Passing() Sample {
	return lo.Filter(s, func(v Vehicle, _ int) bool { return v.Passed })
}

// GenerateSample draws cfg.NumVehicles() rows: speeds from a normal distribution
// truncated to [MinSpeed, MaxSpeed] and gaps uniformly from [1, HighwayLength).
// Derived columns are left zero; see Evaluate.
func GenerateSample(cfg Config, rng *PartitionedRNG) (Sample, error) {
	if rng == nil {
		panic("GenerateSample: rng must not be nil")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	n := cfg.NumVehicles()
	logrus.Debugf("Sampling %d vehicles: speed N(%.1f, %.1f) in [%.1f, %.1f], gap U[%.0f, %.0f)",
		n, cfg.MeanSpeed, cfg.Stdev, cfg.MinSpeed, cfg.MaxSpeed, minGap, cfg.HighwayLength)

	speeds := newTruncatedNormal(cfg.MeanSpeed, cfg.Stdev, cfg.MinSpeed, cfg.MaxSpeed, rng.ForSubsystem(SubsystemSpeed))
	gaps := distuv.Uniform{Min: minGap, Max: cfg.HighwayLength, Src: rng.ForSubsystem(SubsystemGap)}

	sample := make(Sample, n)
	for i := range sample {
		sample[i].Speed = speeds.Rand()
	}
	for i := range sample {
		sample[i].Gap = gaps.Rand()
	}
	return sample, nil
}
