package scenario

import (
	"encoding/binary"
	"hash/fnv"
)

// Sampler produces the Bernoulli draws behind probabilistic specifications.
// Each draw is keyed on (scenario seed, agent id, group name, spec index) so
// that results do not depend on agent scheduling or evaluation order.
type Sampler struct {
	seed int64
}

// NewSampler returns a sampler for the given scenario seed.
func NewSampler(seed int64) Sampler { return Sampler{seed: seed} }

// Draw returns true with probability p for the identified specification.
// A nil p means the spec is unconditional.
func (s Sampler) Draw(agentID, group string, index int, p *float64) bool {
	if p == nil || *p >= 1 {
		return true
	}
	if *p <= 0 {
		return false
	}
	return s.uniform(agentID, group, index) < *p
}

// uniform maps the draw key to a value in [0, 1).
func (s Sampler) uniform(agentID, group string, index int) float64 {
	h := fnv.New64a()
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(s.seed))
	h.Write(buf[:])
	h.Write([]byte(agentID))
	h.Write([]byte{0})
	h.Write([]byte(group))
	binary.LittleEndian.PutUint64(buf[:], uint64(index))
	h.Write(buf[:])
	// top 53 bits give a uniform double in [0, 1)
	return float64(h.Sum64()>>11) / float64(1<<53)
}
