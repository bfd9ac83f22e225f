package scenario

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func p(v float64) *float64 { return &v }

func TestSamplerEdgeProbabilities(t *testing.T) {
	s := NewSampler(1234)
	assert.True(t, s.Draw("a", "battery", 0, nil))
	assert.True(t, s.Draw("a", "battery", 0, p(1.0)))
	assert.False(t, s.Draw("a", "battery", 0, p(0.0)))
}

func TestSamplerDeterministic(t *testing.T) {
	a := NewSampler(42)
	b := NewSampler(42)
	for i := 0; i < 100; i++ {
		id := fmt.Sprintf("agent-%d", i)
		assert.Equal(t, a.Draw(id, "trigger", i, p(0.5)), b.Draw(id, "trigger", i, p(0.5)))
	}
}

func TestSamplerKeyedOnSeed(t *testing.T) {
	a := NewSampler(1)
	b := NewSampler(2)
	var differ bool
	for i := 0; i < 100; i++ {
		id := fmt.Sprintf("agent-%d", i)
		if a.Draw(id, "battery", 0, p(0.5)) != b.Draw(id, "battery", 0, p(0.5)) {
			differ = true
		}
	}
	assert.True(t, differ)
}

func TestSamplerKeyedOnGroupAndIndex(t *testing.T) {
	s := NewSampler(7)
	var groupDiffer, indexDiffer bool
	for i := 0; i < 100; i++ {
		id := fmt.Sprintf("agent-%d", i)
		if s.Draw(id, "battery", 0, p(0.5)) != s.Draw(id, "trigger", 0, p(0.5)) {
			groupDiffer = true
		}
		if s.Draw(id, "battery", 0, p(0.5)) != s.Draw(id, "battery", 1, p(0.5)) {
			indexDiffer = true
		}
	}
	assert.True(t, groupDiffer)
	assert.True(t, indexDiffer)
}

func TestSamplerRoughlyUniform(t *testing.T) {
	s := NewSampler(99)
	hits := 0
	for i := 0; i < 1000; i++ {
		if s.Draw(fmt.Sprintf("agent-%d", i), "battery", 0, p(0.5)) {
			hits++
		}
	}
	assert.Greater(t, hits, 400)
	assert.Less(t, hits, 600)
}
