package sim

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

// Config groups every parameter of a passing scenario.
// Speeds are in km/h, distances in meters, times in minutes.
type Config struct {
	MeanSpeed      float64 `yaml:"mean_speed" json:"mean_speed"`           // mean of the speed distribution before truncation
	MaxSpeed       float64 `yaml:"max_speed" json:"max_speed"`             // upper truncation bound
	MinSpeed       float64 `yaml:"min_speed" json:"min_speed"`             // lower truncation bound
	Stdev          float64 `yaml:"stdev" json:"stdev"`                     // standard deviation before truncation
	ReferenceSpeed float64 `yaml:"reference_speed" json:"reference_speed"` // fixed speed of the reference vehicle (v2)
	WindowMinutes  float64 `yaml:"window_minutes" json:"window_minutes"`   // how long the reference vehicle drives
	HighwayLength  float64 `yaml:"highway_length" json:"highway_length"`   // length of highway behind the reference vehicle
	DensityPerKm   float64 `yaml:"density_per_km" json:"density_per_km"`   // active vehicles per km of highway
	Population     int     `yaml:"population" json:"population"`           // explicit vehicle count (0 = derive from density)
	Seed           int64   `yaml:"seed" json:"seed"`                       // root of every random stream
}

// NewConfig creates a Config with all fields explicitly set.
// This is the canonical constructor; parameter order matches struct field order.
func NewConfig(meanSpeed, maxSpeed, minSpeed, stdev, referenceSpeed, windowMinutes,
	highwayLength, densityPerKm float64, population int, seed int64) Config {
	return Config{
		MeanSpeed:      meanSpeed,
		MaxSpeed:       maxSpeed,
		MinSpeed:       minSpeed,
		Stdev:          stdev,
		ReferenceSpeed: referenceSpeed,
		WindowMinutes:  windowMinutes,
		HighwayLength:  highwayLength,
		DensityPerKm:   densityPerKm,
		Population:     population,
		Seed:           seed,
	}
}

// DefaultConfig returns the reference scenario: busy California freeway traffic
// behind a car cruising at 120 km/h for 15 minutes.
func DefaultConfig() Config {
	const mean = 120.0
	return NewConfig(mean, 160, 70, 0.15*mean, 120, 15, 10000, 60, 0, 42)
}

// NumVehicles returns the population size N.
func (c Config) NumVehicles() int {
	if c.Population > 0 {
		return c.Population
	}
	return int(c.HighwayLength / 1000 * c.DensityPerKm)
}

// Validate reports the first invalid parameter. It must pass before sampling.
func (c Config) Validate() error {
	for _, f := range []struct {
		name  string
		value float64
	}{
		{"mean_speed", c.MeanSpeed},
		{"max_speed", c.MaxSpeed},
		{"min_speed", c.MinSpeed},
		{"stdev", c.Stdev},
		{"reference_speed", c.ReferenceSpeed},
		{"window_minutes", c.WindowMinutes},
		{"highway_length", c.HighwayLength},
		{"density_per_km", c.DensityPerKm},
	} {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			return fmt.Errorf("%s must be finite, got %v", f.name, f.value)
		}
	}
	if c.Stdev <= 0 {
		return fmt.Errorf("stdev must be > 0, got %v", c.Stdev)
	}
	if c.MinSpeed >= c.MaxSpeed {
		return fmt.Errorf("min_speed (%v) must be < max_speed (%v)", c.MinSpeed, c.MaxSpeed)
	}
	if c.ReferenceSpeed <= 0 {
		return fmt.Errorf("reference_speed must be > 0, got %v", c.ReferenceSpeed)
	}
	if c.WindowMinutes < 0 {
		return fmt.Errorf("window_minutes must be >= 0, got %v", c.WindowMinutes)
	}
	// gaps are drawn from [1, highway_length)
	if c.HighwayLength <= 1 {
		return fmt.Errorf("highway_length must be > 1, got %v", c.HighwayLength)
	}
	if c.DensityPerKm < 0 {
		return fmt.Errorf("density_per_km must be >= 0, got %v", c.DensityPerKm)
	}
	if c.Population < 0 {
		return fmt.Errorf("population must be >= 0, got %d", c.Population)
	}
	return nil
}

// LoadConfig reads a YAML scenario file over DefaultConfig.
// Keys missing from the file keep their default values; unknown keys are an error.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading scenario file: %w", err)
	}
	return ParseConfig(data)
}

// ParseConfig decodes YAML scenario data over DefaultConfig.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("parsing scenario: %w", err)
	}
	return cfg, nil
}
