// sim/simulator.go
package sim

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/freeway-sim/freeway-sim/sim/plot"
)

// Simulator runs the sample -> evaluate -> summarize pipeline for one Config.
type Simulator struct {
	Config  Config
	Sample  Sample
	Summary Summary
	rng     *PartitionedRNG // partitioned RNG so speed and gap draws stay independent
	ran     bool
}

// NewSimulator validates cfg and prepares a Simulator seeded from cfg.Seed.
// Nothing is sampled until Run.
func NewSimulator(cfg Config) (*Simulator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &Simulator{
		Config: cfg,
		rng:    NewPartitionedRNG(NewSimulationKey(cfg.Seed)),
	}, nil
}

// Run draws the population, computes catch-up times and aggregates them.
// Calling Run twice returns the first result; build a new Simulator to resample.
func (sim *Simulator) Run() Summary {
	if sim.ran {
		return sim.Summary
	}
	sample, err := GenerateSample(sim.Config, sim.rng)
	if err != nil {
		// Config was validated in NewSimulator.
		panic(fmt.Sprintf("GenerateSample on validated config: %v", err))
	}
	Evaluate(sample, sim.Config.ReferenceSpeed)
	sim.Summary = Summarize(sample, sim.Config.WindowMinutes)
	sim.Sample = sample
	sim.ran = true
	logrus.Infof("Simulation complete: %d of %d vehicles passed within %v minutes",
		sim.Summary.PassedCount, sim.Summary.TotalVehicles, sim.Config.WindowMinutes)
	return sim.Summary
}

// RenderPlot hands the scatter points of a finished run to sink.
func (sim *Simulator) RenderPlot(sink plot.Sink) error {
	if !sim.ran {
		return fmt.Errorf("RenderPlot called before Run")
	}
	return sink.Render(ScatterPoints(sim.Sample))
}
