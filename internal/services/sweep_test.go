package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mclarke-dev/momentum-sim/internal/engine"
)

func sampleCombos() []SweepCombination {
	return []SweepCombination{
		{Formation: "4-3-3", Tactic: engine.TacticBalanced, XG: 0.8, GoalProb: 0.20, AvgPMU: 52, RiskScore: 40},
		{Formation: "4-4-2", Tactic: engine.TacticAggressive, XG: 1.1, GoalProb: 0.28, AvgPMU: 58, RiskScore: 65},
		{Formation: "5-3-2", Tactic: engine.TacticDefensive, XG: 0.4, GoalProb: 0.10, AvgPMU: 45, RiskScore: 25},
	}
}

func TestRankCombinationsByXG(t *testing.T) {
	combos := sampleCombos()
	rankCombinations(combos, "xg")

	assert.Equal(t, "4-4-2", combos[0].Formation)
	assert.Equal(t, "4-3-3", combos[1].Formation)
	assert.Equal(t, "5-3-2", combos[2].Formation)
	for i, c := range combos {
		assert.Equal(t, i+1, c.Rank)
	}
}

func TestRankCombinationsByRiskIsAscending(t *testing.T) {
	combos := sampleCombos()
	rankCombinations(combos, "risk")

	assert.Equal(t, "5-3-2", combos[0].Formation)
	assert.Equal(t, "4-4-2", combos[2].Formation)
}

func TestRankCombinationsByMomentum(t *testing.T) {
	combos := sampleCombos()
	rankCombinations(combos, "momentum")

	assert.Equal(t, "4-4-2", combos[0].Formation)
	assert.Equal(t, 1, combos[0].Rank)
}

func TestStartRejectsUnknownRankKey(t *testing.T) {
	svc := NewSweepService(nil, nil, 0)

	_, err := svc.Start(SweepRequest{RankBy: "shots"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rank_by")
}

func TestClampIterationsHonoursConfiguredCap(t *testing.T) {
	svc := NewSweepService(nil, nil, 50)

	assert.Equal(t, 100, NewSweepService(nil, nil, 0).clampIterations(0))
	assert.Equal(t, 50, svc.clampIterations(0)) // default exceeds the cap
	assert.Equal(t, 25, svc.clampIterations(25))
	assert.Equal(t, 50, svc.clampIterations(200))
	assert.Equal(t, SweepIterationCap, NewSweepService(nil, nil, 0).clampIterations(9999))
}

func TestGetJobUnknownID(t *testing.T) {
	svc := NewSweepService(nil, nil, 0)

	_, ok := svc.GetJob("nope")
	assert.False(t, ok)
}

func TestToCombinationDeltasAgainstBaseline(t *testing.T) {
	baseline := &engine.Aggregate{XG: 1.0, GoalProbability: 0.2, AvgPMUA: 50}
	agg := &engine.Aggregate{XG: 1.4, GoalProbability: 0.3, AvgPMUA: 56}

	combo := toCombination("4-4-2", engine.TacticAggressive, agg, baseline)
	assert.InDelta(t, 0.4, combo.DeltaXG, 1e-9)
	assert.InDelta(t, 0.1, combo.DeltaGoalProb, 1e-9)
	assert.InDelta(t, 6.0, combo.DeltaPMU, 1e-9)

	self := toCombination("4-3-3", engine.TacticBalanced, baseline, baseline)
	assert.Zero(t, self.DeltaXG)
	assert.Zero(t, self.DeltaGoalProb)
	assert.Zero(t, self.DeltaPMU)
}
