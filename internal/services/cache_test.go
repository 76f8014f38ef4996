package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mclarke-dev/momentum-sim/internal/engine"
)

func TestSimulationCacheKeyIsStable(t *testing.T) {
	cfg := engine.SimulationConfig{
		Formation:  "4-3-3",
		FormationB: "4-4-2",
		Tactic:     engine.TacticBalanced,
		TacticB:    engine.TacticAggressive,
		Iterations: 500,
		EndMinute:  90,
		CrowdNoise: 75,
	}

	key1 := SimulationCacheKey(cfg)
	key2 := SimulationCacheKey(cfg)
	assert.Equal(t, key1, key2)
	assert.True(t, strings.HasPrefix(key1, "simulation:"))
}

func TestSimulationCacheKeyDiscriminatesConfigs(t *testing.T) {
	base := engine.SimulationConfig{Formation: "4-3-3", Tactic: engine.TacticBalanced, Iterations: 500}

	changed := base
	changed.Tactic = engine.TacticAggressive
	assert.NotEqual(t, SimulationCacheKey(base), SimulationCacheKey(changed))

	changed = base
	changed.CrowdNoise = 100
	assert.NotEqual(t, SimulationCacheKey(base), SimulationCacheKey(changed))
}

func TestSimulationCacheKeyIgnoresWorkerCount(t *testing.T) {
	base := engine.SimulationConfig{Formation: "4-3-3", Tactic: engine.TacticBalanced, Iterations: 500}
	tuned := base
	tuned.Workers = 16

	// Worker count changes throughput, not results.
	assert.Equal(t, SimulationCacheKey(base), SimulationCacheKey(tuned))
}
