package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mclarke-dev/momentum-sim/internal/engine"
)

func TestValidateFormation(t *testing.T) {
	valid := []string{"4-3-3", "4-4-2", "3-5-2", "5-3-2", "4-2-3-1", "3-4-2-1"}
	for _, f := range valid {
		assert.NoError(t, ValidateFormation(f), f)
	}

	invalid := []struct {
		formation string
		why       string
	}{
		{"", "empty"},
		{"7-7", "line exceeds 6 players"},
		{"4-3-4", "sums to 11"},
		{"4-3-2", "sums to 9"},
		{"10", "single line"},
		{"1-1-1-1-1-1-1-1-1-1", "too many lines"},
		{"4-3-x", "non-numeric"},
		{"4--3-3", "empty line"},
		{"abc", "not a formation"},
		{"4-0-6", "zero line"},
	}
	for _, tc := range invalid {
		assert.Error(t, ValidateFormation(tc.formation), tc.why)
	}
}

func TestValidateTactic(t *testing.T) {
	for _, tac := range []engine.Tactic{
		engine.TacticAggressive, engine.TacticBalanced,
		engine.TacticDefensive, engine.TacticPossession,
	} {
		assert.NoError(t, ValidateTactic(tac))
	}
	assert.Error(t, ValidateTactic("counter"))
	assert.Error(t, ValidateTactic(""))
}

func TestValidateIterations(t *testing.T) {
	assert.NoError(t, ValidateIterations(0, 0)) // default
	assert.NoError(t, ValidateIterations(10, 0))
	assert.NoError(t, ValidateIterations(2000, 0))
	assert.Error(t, ValidateIterations(9, 0))
	assert.Error(t, ValidateIterations(2001, 0))
	assert.Error(t, ValidateIterations(-5, 0))

	// An operator limit tightens the ceiling but cannot raise it past the
	// engine bound.
	assert.NoError(t, ValidateIterations(500, 500))
	assert.Error(t, ValidateIterations(501, 500))
	assert.Error(t, ValidateIterations(2001, 5000))
}

func TestValidateCrowdNoise(t *testing.T) {
	assert.NoError(t, ValidateCrowdNoise(0))
	assert.NoError(t, ValidateCrowdNoise(75))
	assert.NoError(t, ValidateCrowdNoise(120))
	assert.Error(t, ValidateCrowdNoise(-1))
	assert.Error(t, ValidateCrowdNoise(121))
}

func TestValidateMinuteWindow(t *testing.T) {
	assert.NoError(t, ValidateMinuteWindow(0, 90))
	assert.NoError(t, ValidateMinuteWindow(45, 90))
	assert.Error(t, ValidateMinuteWindow(-1, 90))
	assert.Error(t, ValidateMinuteWindow(0, 91))
	assert.Error(t, ValidateMinuteWindow(60, 30))
}

func TestValidateScenarioName(t *testing.T) {
	assert.NoError(t, ValidateScenarioName("High press vs low block"))
	assert.Error(t, ValidateScenarioName("ab"))
	assert.Error(t, ValidateScenarioName("   "))

	long := make([]byte, 201)
	for i := range long {
		long[i] = 'a'
	}
	assert.Error(t, ValidateScenarioName(string(long)))
}

func TestValidateTags(t *testing.T) {
	assert.NoError(t, ValidateTags(nil))
	assert.NoError(t, ValidateTags([]string{"derby", "home"}))

	many := make([]string, 21)
	for i := range many {
		many[i] = "tag"
	}
	assert.Error(t, ValidateTags(many))

	long := make([]byte, 51)
	for i := range long {
		long[i] = 'x'
	}
	assert.Error(t, ValidateTags([]string{string(long)}))
	assert.Error(t, ValidateTags([]string{""}))
}

func TestValidateComparisonIDs(t *testing.T) {
	assert.NoError(t, ValidateComparisonIDs([]string{"deadbeef", "0a1b2c3d"}))
	assert.Error(t, ValidateComparisonIDs([]string{"deadbeef"}))
	assert.Error(t, ValidateComparisonIDs([]string{"deadbeef", "deadbeef"}))
	assert.Error(t, ValidateComparisonIDs([]string{"deadbeef", "NOTHEX00"}))
	assert.Error(t, ValidateComparisonIDs([]string{"deadbeef", "toolongid99"}))

	many := make([]string, 11)
	for i := range many {
		many[i] = "0000000" + string(rune('0'+i))
	}
	assert.Error(t, ValidateComparisonIDs(many))
}
