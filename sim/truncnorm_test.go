package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

func drawTruncated(mu, sigma, min, max float64, n int) []float64 {
	rng := NewPartitionedRNG(NewSimulationKey(5))
	tn := newTruncatedNormal(mu, sigma, min, max, rng.ForSubsystem(SubsystemSpeed))
	out := make([]float64, n)
	for i := range out {
		out[i] = tn.Rand()
	}
	return out
}

func TestTruncatedNormal_DeepUpperTailKeepsShape(t *testing.T) {
	// GIVEN bounds nine to ten sigma above the mean, where CDF rounds to 1
	draws := drawTruncated(0, 1, 9, 10, 500)

	// THEN draws stay inside the bounds and pile up near the lower bound
	assert.GreaterOrEqual(t, floats.Min(draws), 9.0)
	assert.LessOrEqual(t, floats.Max(draws), 10.0)
	assert.Less(t, floats.Min(draws), 9.5, "draws must not collapse onto the upper bound")
	// Mean of N(0,1) truncated to [9, 10] is phi(9)/Q(9) ~ 9.108.
	assert.InDelta(t, 9.108, stat.Mean(draws, nil), 0.05)
}

func TestTruncatedNormal_DeepLowerTailMirrorsUpper(t *testing.T) {
	draws := drawTruncated(0, 1, -10, -9, 500)
	assert.GreaterOrEqual(t, floats.Min(draws), -10.0)
	assert.LessOrEqual(t, floats.Max(draws), -9.0)
	assert.InDelta(t, -9.108, stat.Mean(draws, nil), 0.05)
}

func TestTruncatedNormal_IntervalAboveMeanMatchesMoments(t *testing.T) {
	// Mean of N(0,1) truncated to [1, 3] is (phi(1)-phi(3))/(Phi(3)-Phi(1)) ~ 1.510.
	draws := drawTruncated(0, 1, 1, 3, 2000)
	assert.InDelta(t, 1.510, stat.Mean(draws, nil), 0.05)
}
