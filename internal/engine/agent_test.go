package engine

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGoalkeepersAlwaysPassInPossession(t *testing.T) {
	var agent AgentDecision
	rng := rand.New(rand.NewSource(3))
	gk := testPlayer(Goalkeeper, TeamA, TierVeteran)

	for i := 0; i < 100; i++ {
		action := agent.DecideAction(gk, StateTied, true, 52.5, rng)
		assert.Equal(t, ActionPass, action)
	}
}

func TestForwardsShootCloseToGoal(t *testing.T) {
	var agent AgentDecision
	rng := rand.New(rand.NewSource(5))
	fwd := testPlayer(Forward, TeamA, TierExperienced)

	shots := 0
	for i := 0; i < 1000; i++ {
		if agent.DecideAction(fwd, StateTied, true, 95, rng) == ActionShot {
			shots++
		}
	}
	// 10m out the shot branch fires 60% of the time.
	assert.Greater(t, shots, 450)
	assert.Less(t, shots, 750)
}

func TestLosingSideIntensifiesPress(t *testing.T) {
	var agent AgentDecision
	rng := rand.New(rand.NewSource(9))
	def := testPlayer(Defender, TeamB, TierExperienced)
	def.PMU = 60

	pressesLosing, pressesTied := 0, 0
	for i := 0; i < 1000; i++ {
		if agent.DecideAction(def, StateLosing, false, 50, rng) == ActionPress {
			pressesLosing++
		}
		if agent.DecideAction(def, StateTied, false, 50, rng) == ActionPress {
			pressesTied++
		}
	}
	assert.Greater(t, pressesLosing, pressesTied)
}

func TestAttemptActionResolvesToKnownEvents(t *testing.T) {
	var agent AgentDecision
	rng := rand.New(rand.NewSource(11))
	p := testPlayer(Midfielder, TeamA, TierYoung)

	for _, action := range []Action{ActionPass, ActionKeyPass, ActionShot, ActionTackle, ActionDribble, ActionPress, ActionClearance} {
		for i := 0; i < 200; i++ {
			_, event := agent.AttemptAction(action, p, rng)
			assert.GreaterOrEqual(t, int(event), 0)
			assert.Less(t, int(event), int(numEventTypes))
		}
	}
}

func TestFatigueReducesSuccessRate(t *testing.T) {
	var agent AgentDecision

	fresh := testPlayer(Midfielder, TeamA, TierExperienced)
	tired := testPlayer(Midfielder, TeamA, TierExperienced)
	tired.Fatigue = 100

	countSuccesses := func(p *PlayerState, seed int64) int {
		rng := rand.New(rand.NewSource(seed))
		n := 0
		for i := 0; i < 5000; i++ {
			if ok, _ := agent.AttemptAction(ActionShot, p, rng); ok {
				n++
			}
		}
		return n
	}

	assert.Greater(t, countSuccesses(fresh, 21), countSuccesses(tired, 21))
}

func TestShotsCanUpgradeToGoals(t *testing.T) {
	var agent AgentDecision
	rng := rand.New(rand.NewSource(13))
	fwd := testPlayer(Forward, TeamB, TierVeteran)

	goals := 0
	for i := 0; i < 5000; i++ {
		if _, event := agent.AttemptAction(ActionShot, fwd, rng); event == EventGoal {
			goals++
		}
	}
	assert.Greater(t, goals, 0)
}
