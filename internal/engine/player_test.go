package engine

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecalcPMUAlwaysClamped(t *testing.T) {
	p := testPlayer(Midfielder, TeamA, TierExperienced)

	tests := []struct {
		name        string
		eventImpact float64
		crowdImpact float64
		fatigue     float64
	}{
		{"extreme positive", 1e6, 8, 0},
		{"extreme negative", -1e6, -8, 100},
		{"high fatigue", 0, 0, 100},
		{"all zero", 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p.EventImpact = tt.eventImpact
			p.CrowdImpact = tt.crowdImpact
			p.Fatigue = tt.fatigue
			p.RecalcPMU()
			assert.GreaterOrEqual(t, p.PMU, 0.0)
			assert.LessOrEqual(t, p.PMU, 100.0)
		})
	}
}

func TestBaselineEnergyScalesWithPositionAndSkill(t *testing.T) {
	gk := testPlayer(Goalkeeper, TeamA, TierVeteran)
	fwd := testPlayer(Forward, TeamA, TierVeteran)
	assert.Greater(t, fwd.BaselineEnergy, gk.BaselineEnergy)

	rng := rand.New(rand.NewSource(1))
	lowSkill := NewPlayerState(SquadRow{ID: "L", Team: TeamA, Pos: Forward, Tier: TierRookie, Skill: 5.0}, DefaultTables(), rng)
	highSkill := NewPlayerState(SquadRow{ID: "H", Team: TeamA, Pos: Forward, Tier: TierRookie, Skill: 9.5}, DefaultTables(), rng)
	assert.Greater(t, highSkill.BaselineEnergy, lowSkill.BaselineEnergy)
}

func TestDefaultSquadShape(t *testing.T) {
	require.Len(t, DefaultSquad, 22)

	counts := map[Team]int{}
	keepers := map[Team]int{}
	for _, row := range DefaultSquad {
		counts[row.Team]++
		if row.Pos == Goalkeeper {
			keepers[row.Team]++
		}
	}
	assert.Equal(t, 11, counts[TeamA])
	assert.Equal(t, 11, counts[TeamB])
	assert.Equal(t, 1, keepers[TeamA])
	assert.Equal(t, 1, keepers[TeamB])
}

func TestSnapshotAppendsHistory(t *testing.T) {
	p := testPlayer(Defender, TeamB, TierYoung)
	p.Snapshot()
	p.PMU = 42
	p.Snapshot()
	require.Len(t, p.PMUHistory, 2)
	assert.Equal(t, 42.0, p.PMUHistory[1])
}
