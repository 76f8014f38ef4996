package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFatigueAccumulatesFromActivity(t *testing.T) {
	fm := NewFatigueModel(DefaultTables())
	p := testPlayer(Midfielder, TeamA, TierExperienced)

	fm.Update(p, ActivitySample{Speed: 8, Distance: 150, SprintEvents: 2})
	assert.Greater(t, p.Fatigue, 0.0)
}

func TestFatigueClampedToHundred(t *testing.T) {
	fm := NewFatigueModel(DefaultTables())
	p := testPlayer(Forward, TeamA, TierYoung)

	for i := 0; i < 500; i++ {
		fm.Update(p, ActivitySample{Speed: 10, Distance: 300, Acceleration: 5, SprintEvents: 10})
	}
	assert.LessOrEqual(t, p.Fatigue, 100.0)
	assert.GreaterOrEqual(t, p.PMU, 0.0)
}

func TestStoppageRecoversFaster(t *testing.T) {
	fm := NewFatigueModel(DefaultTables())

	active := testPlayer(Defender, TeamB, TierVeteran)
	resting := testPlayer(Defender, TeamB, TierVeteran)
	active.Fatigue = 50
	resting.Fatigue = 50

	fm.Update(active, ActivitySample{})
	fm.Update(resting, ActivitySample{IsStoppage: true})
	assert.Less(t, resting.Fatigue, active.Fatigue)
}

func TestFatigueNeverNegative(t *testing.T) {
	fm := NewFatigueModel(DefaultTables())
	p := testPlayer(Goalkeeper, TeamA, TierVeteran)

	for i := 0; i < 20; i++ {
		fm.Update(p, ActivitySample{IsStoppage: true})
	}
	assert.GreaterOrEqual(t, p.Fatigue, 0.0)
}

func TestFatigueDegradesPMU(t *testing.T) {
	fm := NewFatigueModel(DefaultTables())
	p := testPlayer(Forward, TeamB, TierExperienced)
	before := p.PMU

	for i := 0; i < 100; i++ {
		fm.Update(p, ActivitySample{Speed: 9, Distance: 200, SprintEvents: 3})
	}
	assert.Less(t, p.PMU, before)
}
