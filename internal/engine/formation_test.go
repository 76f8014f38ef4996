package engine

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLookupCoherenceKnownFormations(t *testing.T) {
	fe := NewFormationEngine(DefaultTables())

	assert.Equal(t, 0.87, fe.LookupCoherence("4-3-3"))
	assert.Equal(t, 0.84, fe.LookupCoherence("4-4-2"))
	assert.Equal(t, 0.86, fe.LookupCoherence("4-2-3-1"))
}

func TestHeuristicCoherenceBounds(t *testing.T) {
	fe := NewFormationEngine(DefaultTables())

	for _, formation := range []string{"5-2-3", "3-4-2-1", "2-4-4", "6-4", "1-1-1-1-6"} {
		score := fe.LookupCoherence(formation)
		assert.GreaterOrEqual(t, score, 0.70, "formation %s", formation)
		assert.LessOrEqual(t, score, 0.92, "formation %s", formation)
	}
}

func TestHeuristicPenalisesUnevenLines(t *testing.T) {
	fe := NewFormationEngine(DefaultTables())

	balanced := fe.LookupCoherence("4-3-3") // preset, but 3-4-3 heuristics compare below
	uneven := fe.LookupCoherence("6-1-3")
	assert.Greater(t, balanced, uneven)
}

func TestUnparseableFormationScoresNeutral(t *testing.T) {
	fe := NewFormationEngine(DefaultTables())
	assert.Equal(t, 0.82, fe.LookupCoherence("tiki-taka"))
}

func TestLiveCoherenceRewardsCompactDefence(t *testing.T) {
	fe := NewFormationEngine(DefaultTables())
	rng := rand.New(rand.NewSource(7))

	makeBackline := func(spread float64) []*PlayerState {
		players := make([]*PlayerState, 0, 5)
		for i := 0; i < 4; i++ {
			p := NewPlayerState(SquadRow{ID: "D", Team: TeamA, Pos: Defender, Tier: TierExperienced, Skill: 8}, DefaultTables(), rng)
			p.X = 20 + float64(i)*spread
			p.Y = 10 + float64(i)*spread
			players = append(players, p)
		}
		return players
	}

	tight := fe.Coherence(makeBackline(2), "4-4-2")
	scattered := fe.Coherence(makeBackline(15), "4-4-2")
	assert.Greater(t, tight, scattered)

	assert.GreaterOrEqual(t, tight, 0.0)
	assert.LessOrEqual(t, tight, 1.0)
	assert.GreaterOrEqual(t, scattered, 0.0)
	assert.LessOrEqual(t, scattered, 1.0)
}

func TestCoherenceWithoutDefendersFallsBackToLookup(t *testing.T) {
	fe := NewFormationEngine(DefaultTables())
	rng := rand.New(rand.NewSource(7))

	fwd := NewPlayerState(SquadRow{ID: "F", Team: TeamA, Pos: Forward, Tier: TierYoung, Skill: 8}, DefaultTables(), rng)
	assert.Equal(t, fe.LookupCoherence("4-3-3"), fe.Coherence([]*PlayerState{fwd}, "4-3-3"))
}
