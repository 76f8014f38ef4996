package engine

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPlayer(pos Position, team Team, tier ResilienceTier) *PlayerState {
	rng := rand.New(rand.NewSource(1))
	row := SquadRow{ID: "T1", Name: "Test Player", Team: team, Pos: pos, Tier: tier, Skill: 8.0, Speed: 8.0}
	return NewPlayerState(row, DefaultTables(), rng)
}

func TestEventImpactBounds(t *testing.T) {
	ep := NewEventProcessor(DefaultTables())

	for _, event := range EventTypes() {
		for _, state := range []GameState{StateLeading, StateTied, StateLosing} {
			for _, minute := range []int{0, 45, 90} {
				p := testPlayer(Forward, TeamA, TierVeteran)
				p.X = 100 // attacking third, maximum zone factor
				impact := ep.Compute(event, p, state, minute, true)
				assert.GreaterOrEqual(t, impact, -25.0, "event %s", event)
				assert.LessOrEqual(t, impact, 25.0, "event %s", event)
			}
		}
	}
}

func TestFailedEventCarriesSmallerImpact(t *testing.T) {
	ep := NewEventProcessor(DefaultTables())

	for _, event := range []EventType{EventPass, EventShot, EventGoal, EventTackle, EventTurnover} {
		p := testPlayer(Midfielder, TeamA, TierExperienced)
		p.X = 60
		won := ep.Compute(event, p, StateTied, 45, true)
		lost := ep.Compute(event, p, StateTied, 45, false)
		assert.Less(t, absF(lost), absF(won), "failed %s should carry less signal", event)
	}
}

func TestMinuteModifierRisesThroughMatch(t *testing.T) {
	early := MinuteModifier(0)
	mid := MinuteModifier(45)
	late := MinuteModifier(90)

	assert.InDelta(t, 0.65, early, 0.05)
	assert.InDelta(t, 1.30, late, 0.05)
	assert.Less(t, early, mid)
	assert.Less(t, mid, late)
}

func TestZoneMirroredByTeam(t *testing.T) {
	// x=10 is team A's defensive third, but team B's attacking third.
	assert.Equal(t, DefensiveThird, ZoneForX(10, TeamA))
	assert.Equal(t, AttackingThird, ZoneForX(10, TeamB))
	assert.Equal(t, AttackingThird, ZoneForX(95, TeamA))
	assert.Equal(t, DefensiveThird, ZoneForX(95, TeamB))
	assert.Equal(t, MiddleThird, ZoneForX(52.5, TeamA))
	assert.Equal(t, MiddleThird, ZoneForX(52.5, TeamB))
}

func TestParseEventTypeRoundTrip(t *testing.T) {
	for _, event := range EventTypes() {
		parsed, err := ParseEventType(event.String())
		require.NoError(t, err)
		assert.Equal(t, event, parsed)
	}

	_, err := ParseEventType("bicycle_kick")
	assert.Error(t, err)
}

func absF(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
