package sim

import (
	"hash/fnv"
	"math/rand/v2"
)

// Subsystem names for PartitionedRNG streams.
const (
	SubsystemSpeed = "speed"
	SubsystemGap   = "gap"
)

// SimulationKey is the root seed every random stream of a run derives from.
type SimulationKey int64

// NewSimulationKey wraps a user-supplied seed.
func NewSimulationKey(seed int64) SimulationKey {
	return SimulationKey(seed)
}

// PartitionedRNG hands out one independent deterministic stream per subsystem.
// Drawing from one subsystem never shifts the values another subsystem sees,
// so adding draws to the gap stream leaves speeds untouched.
type PartitionedRNG struct {
	key     SimulationKey
	sources map[string]*rand.PCG
}

// NewPartitionedRNG creates a PartitionedRNG rooted at key.
func NewPartitionedRNG(key SimulationKey) *PartitionedRNG {
	return &PartitionedRNG{
		key:     key,
		sources: make(map[string]*rand.PCG),
	}
}

// Key returns the root key.
func (p *PartitionedRNG) Key() SimulationKey { return p.key }

// ForSubsystem returns the stream for name. Repeated calls return the same
// source, so successive draws continue the stream rather than restart it.
func (p *PartitionedRNG) ForSubsystem(name string) rand.Source {
	if src, ok := p.sources[name]; ok {
		return src
	}
	h := fnv.New64a()
	h.Write([]byte(name))
	src := rand.NewPCG(uint64(p.key), h.Sum64())
	p.sources[name] = src
	return src
}
