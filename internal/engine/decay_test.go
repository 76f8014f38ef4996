package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVeteranDecaysSlowerThanRookie(t *testing.T) {
	dm := NewDecayModel(DefaultTables())

	veteran := testPlayer(Midfielder, TeamA, TierVeteran)
	rookie := testPlayer(Midfielder, TeamA, TierRookie)
	veteran.EventImpact = 20.0
	rookie.EventImpact = 20.0

	for i := 0; i < 5; i++ {
		dm.Apply(veteran, EventPass, 1.0)
		dm.Apply(rookie, EventPass, 1.0)
		assert.Greater(t, veteran.EventImpact, rookie.EventImpact,
			"veteran should retain more momentum after %d decay steps", i+1)
	}
}

func TestDecayNeverGoesNegative(t *testing.T) {
	dm := NewDecayModel(DefaultTables())
	p := testPlayer(Forward, TeamA, TierRookie)
	p.EventImpact = 0.01

	for i := 0; i < 50; i++ {
		dm.Apply(p, EventGoal, 1.0)
	}
	assert.GreaterOrEqual(t, p.EventImpact, 0.0)
}

func TestGoalConcededUsesExponentialShock(t *testing.T) {
	tables := DefaultTables()
	dm := NewDecayModel(tables)

	shock := testPlayer(Defender, TeamA, TierVeteran)
	linear := testPlayer(Defender, TeamA, TierVeteran)
	shock.EventImpact = 50.0
	linear.EventImpact = 50.0

	dm.Apply(shock, EventGoalConceded, 1.0)
	dm.Apply(linear, EventPass, 1.0)

	// At 50 units of accumulated impact the exponential term removes more
	// than the slow linear pass rate does.
	assert.Less(t, shock.EventImpact, linear.EventImpact)
}

func TestDecayRecalculatesPMU(t *testing.T) {
	dm := NewDecayModel(DefaultTables())
	p := testPlayer(Midfielder, TeamB, TierYoung)
	p.EventImpact = 30.0
	p.RecalcPMU()
	before := p.PMU

	dm.Apply(p, EventGoal, 1.0)
	assert.Less(t, p.PMU, before)
}
